package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/nathoo/encounterdex/engine/encounter"
	"github.com/nathoo/encounterdex/engine/version"
	"github.com/nathoo/encounterdex/types"
)

// closest returns the candidate nearest to name. An exact case-insensitive
// hit wins; otherwise the smallest edit distance within the limit for the
// candidate's length, ties broken alphabetically.
func closest(name string, candidates []string) (string, bool) {
	token := strings.ToLower(name)
	type scored struct {
		val  string
		dist int
	}
	var hits []scored
	for _, cand := range candidates {
		lower := strings.ToLower(cand)
		if lower == token {
			return cand, true
		}
		dist := levenshtein.ComputeDistance(token, lower)
		if dist > levenshteinLimit(len(lower)) {
			continue
		}
		hits = append(hits, scored{cand, dist})
	}
	if len(hits) == 0 {
		return "", false
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].dist == hits[j].dist {
			return hits[i].val < hits[j].val
		}
		return hits[i].dist < hits[j].dist
	})
	return hits[0].val, true
}

func levenshteinLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}

// note returns the line telling the user how a name was read, or "" when
// it was read as typed.
func note(typed, resolved string) string {
	if strings.EqualFold(typed, resolved) {
		return ""
	}
	return fmt.Sprintf("(reading %q as %q)", typed, resolved)
}

// species resolves a species number or name.
func (s *Session) species(arg string) (int, string, error) {
	if n, err := strconv.Atoi(arg); err == nil {
		if _, ok := s.Engine.Species.Personal(n, 0); !ok {
			return 0, "", fmt.Errorf("unknown species #%d", n)
		}
		return n, "", nil
	}
	name, ok := closest(arg, s.Engine.Species.Names())
	if !ok {
		return 0, "", fmt.Errorf("unknown species %q", arg)
	}
	id, _ := s.Engine.Species.Lookup(name)
	return id, note(arg, name), nil
}

// gameVersion resolves a version or group name.
func gameVersion(arg string) (types.GameVersion, string, error) {
	if v, ok := version.Parse(arg); ok {
		return v, "", nil
	}
	name, ok := closest(arg, version.Names())
	if !ok {
		return 0, "", fmt.Errorf("unknown version %q", arg)
	}
	v, _ := version.Parse(name)
	return v, note(arg, name), nil
}

// methodNames lists every named slot method.
func methodNames() []string {
	var out []string
	for m := types.SlotAny; m <= types.SOS; m++ {
		if n := encounter.MethodName(m); n != "Unknown" {
			out = append(out, n)
		}
	}
	return out
}

// method resolves a slot method name.
func method(arg string) (types.SlotType, string, error) {
	if m, ok := encounter.ParseMethod(arg); ok {
		return m, "", nil
	}
	name, ok := closest(arg, methodNames())
	if !ok {
		return 0, "", fmt.Errorf("unknown method %q", arg)
	}
	m, _ := encounter.ParseMethod(name)
	return m, note(arg, name), nil
}
