package loader

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/nathoo/encounterdex/engine/pack"
	"github.com/nathoo/encounterdex/engine/tables"
	"github.com/nathoo/encounterdex/engine/version"
	"github.com/nathoo/encounterdex/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

func (e *ValidationError) errorf(format string, args ...any) {
	e.Errors = append(e.Errors, fmt.Sprintf(format, args...))
}

func (e *ValidationError) warnf(format string, args ...any) {
	e.Warnings = append(e.Warnings, fmt.Sprintf(format, args...))
}

// validate checks compiled data for referential integrity. Areas are
// decoded from their packed form so the records the index will read are
// the ones checked.
func validate(data *Data) error {
	ve := &ValidationError{}

	known := map[int]bool{}
	seen := map[[2]int]bool{}
	for _, p := range data.entries {
		known[p.Species] = true
		k := [2]int{p.Species, p.Form}
		if seen[k] {
			ve.errorf("species %d form %d defined twice", p.Species, p.Form)
		}
		seen[k] = true
		if p.Name == "" && p.Form == 0 {
			ve.warnf("species %d has no name", p.Species)
		}
	}
	for _, p := range data.entries {
		for _, pre := range p.PreEvolutions {
			if !known[pre.Species] {
				ve.errorf("species %d evolves from undefined species %d", p.Species, pre.Species)
			}
		}
		for i := 1; i < len(p.Learnset); i++ {
			if p.Learnset[i].Level < p.Learnset[i-1].Level {
				ve.errorf("species %d learnset is not sorted by level", p.Species)
				break
			}
		}
	}

	groups := map[types.GameVersion]bool{}
	for _, src := range data.Sources {
		name := version.Name(src.Group)
		if groups[src.Group] {
			ve.errorf("game %s declared twice", name)
		}
		groups[src.Group] = true

		for v, res := range src.Resources {
			raws, err := pack.Unpack(res.Data, res.Ident)
			if err != nil {
				ve.errorf("%s: %v", version.Name(v), err)
				continue
			}
			for i, raw := range raws {
				a, err := tables.DecodeArea(raw, v, src.Generation, src.Boost)
				if err != nil {
					ve.errorf("%s area %d: %v", version.Name(v), i+1, err)
					continue
				}
				for _, s := range a.Slots {
					if !known[s.Species] {
						ve.errorf("%s area at location %d references undefined species %d", version.Name(v), a.Location, s.Species)
					}
				}
			}
		}

		for i, s := range src.Statics {
			checkFixed(ve, known, src.Group, fmt.Sprintf("%s static %d", name, i+1), s.Species, s.Level, s.IVs, s.Version)
		}
		for i, t := range src.Trades {
			where := fmt.Sprintf("%s trade %d", name, i+1)
			checkFixed(ve, known, src.Group, where, t.Species, t.Level, t.IVs, t.Version)
			if t.IsNicknamed && len(t.Nicknames) == 0 {
				ve.errorf("%s is nicknamed but has no nicknames", where)
			}
			if t.CurrentLevel != 0 && t.CurrentLevel < t.Level {
				ve.errorf("%s current level %d below met level %d", where, t.CurrentLevel, t.Level)
			}
		}
		for _, r := range src.Rare {
			if !known[r.Species] {
				ve.errorf("%s rare spawn references undefined species %d", name, r.Species)
			}
		}
		for _, sw := range src.Swarms {
			if !known[sw.Species] {
				ve.errorf("%s swarm references undefined species %d", name, sw.Species)
			}
		}

		if len(src.Resources) == 0 && len(src.Statics) == 0 && len(src.Trades) == 0 {
			ve.warnf("game %s declares no encounters", name)
		}
	}

	// Resources are iterated from a map.
	slices.Sort(ve.Errors)
	slices.Sort(ve.Warnings)

	for _, w := range ve.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

// checkFixed validates the fields statics and trades share.
func checkFixed(ve *ValidationError, known map[int]bool, group types.GameVersion, where string, sp, level int, ivs []int, v types.GameVersion) {
	if !known[sp] {
		ve.errorf("%s references undefined species %d", where, sp)
	}
	if level < 1 || level > 100 {
		ve.errorf("%s has level %d", where, level)
	}
	if len(ivs) != 0 && len(ivs) != 6 {
		ve.errorf("%s has %d IVs, want 6", where, len(ivs))
	}
	reachable := false
	for _, m := range version.Members(group) {
		if version.Receives(v, m) {
			reachable = true
			break
		}
	}
	if !reachable {
		ve.errorf("%s is tagged %s, which no game of %s receives", where, version.Name(v), version.Name(group))
	}
}
