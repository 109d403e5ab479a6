// Package version answers questions about game versions and version groups:
// membership, generation and display names.
package version

import (
	"sort"
	"strings"

	"github.com/nathoo/encounterdex/types"
)

// groups maps each group to its direct members. Members may themselves be
// groups; Contains walks them recursively.
var groups = map[types.GameVersion][]types.GameVersion{
	types.RBY:  {types.RD, types.GN, types.BU, types.YW},
	types.GS:   {types.GD, types.SV},
	types.GSC:  {types.GS, types.C},
	types.RS:   {types.R, types.S},
	types.RSE:  {types.RS, types.E},
	types.FRLG: {types.FR, types.LG},
	types.DP:   {types.D, types.P},
	types.DPPt: {types.DP, types.Pt},
	types.HGSS: {types.HG, types.SS},
	types.BW:   {types.B, types.W},
	types.B2W2: {types.B2, types.W2},
	types.XY:   {types.X, types.Y},
	types.ORAS: {types.AS, types.OR},
	types.SM:   {types.SN, types.MN},
	types.USUM: {types.US, types.UM},
	types.GG:   {types.GP, types.GE},
	types.SWSH: {types.SW, types.SH},

	types.GBCartEraOnly: {types.Stadium, types.Stadium2},
}

// IsGroup reports whether v is a version group rather than a concrete game.
func IsGroup(v types.GameVersion) bool {
	_, ok := groups[v]
	return ok
}

// Contains reports whether candidate is covered by set. Any covers
// everything; a concrete version covers only itself; a group covers its
// members transitively. A group candidate is covered only if every one of
// its concrete members is.
func Contains(set, candidate types.GameVersion) bool {
	if set == types.Any || set == candidate {
		return true
	}
	if IsGroup(candidate) {
		members := Members(candidate)
		if len(members) == 0 {
			return false
		}
		for _, m := range members {
			if !Contains(set, m) {
				return false
			}
		}
		return true
	}
	for _, m := range groups[set] {
		if Contains(m, candidate) {
			return true
		}
	}
	return false
}

// sideGames maps games that handed gifts to cartridges onto the group they
// handed them to.
var sideGames = map[types.GameVersion]types.GameVersion{
	types.Stadium:  types.RBY,
	types.Stadium2: types.GSC,
}

// Receives reports whether a creature from candidate can carry a template
// tagged with set. It extends Contains with side games, whose templates
// end up on the cartridges they distributed to.
func Receives(set, candidate types.GameVersion) bool {
	if Contains(set, candidate) {
		return true
	}
	target, ok := sideGames[set]
	return ok && Contains(target, candidate)
}

// Members returns the concrete games in v, in declaration order.
// A concrete version returns itself.
func Members(v types.GameVersion) []types.GameVersion {
	if !IsGroup(v) {
		if v == types.Any {
			return nil
		}
		return []types.GameVersion{v}
	}
	var out []types.GameVersion
	for _, m := range groups[v] {
		out = append(out, Members(m)...)
	}
	return out
}

// generations maps concrete versions to the generation they belong to.
var generations = map[types.GameVersion]int{
	types.RD: 1, types.GN: 1, types.BU: 1, types.YW: 1, types.Stadium: 1,
	types.GD: 2, types.SV: 2, types.C: 2, types.Stadium2: 2,
	types.R: 3, types.S: 3, types.E: 3, types.FR: 3, types.LG: 3, types.CXD: 3,
	types.D: 4, types.P: 4, types.Pt: 4, types.HG: 4, types.SS: 4,
	types.B: 5, types.W: 5, types.B2: 5, types.W2: 5,
	types.X: 6, types.Y: 6, types.AS: 6, types.OR: 6,
	types.SN: 7, types.MN: 7, types.US: 7, types.UM: 7, types.GO: 7,
	types.GP: 7, types.GE: 7,
	types.SW: 8, types.SH: 8,
}

// Generation returns the generation of v, or 0 when unknown. A group
// reports the generation of its first member.
func Generation(v types.GameVersion) int {
	if g, ok := generations[v]; ok {
		return g
	}
	if m := Members(v); len(m) > 0 {
		return generations[m[0]]
	}
	return 0
}

var names = map[types.GameVersion]string{
	types.Any: "Any",
	types.S:   "S", types.R: "R", types.E: "E", types.FR: "FR", types.LG: "LG",
	types.HG: "HG", types.SS: "SS", types.D: "D", types.P: "P", types.Pt: "Pt",
	types.CXD: "CXD",
	types.W:   "W", types.B: "B", types.W2: "W2", types.B2: "B2",
	types.X: "X", types.Y: "Y", types.AS: "AS", types.OR: "OR",
	types.SN: "SN", types.MN: "MN", types.US: "US", types.UM: "UM", types.GO: "GO",
	types.RD: "RD", types.GN: "GN", types.BU: "BU", types.YW: "YW",
	types.GD: "GD", types.SV: "SV", types.C: "C",
	types.GP: "GP", types.GE: "GE", types.SW: "SW", types.SH: "SH",
	types.Stadium: "Stadium", types.Stadium2: "Stadium2",

	types.RBY: "RBY", types.GS: "GS", types.GSC: "GSC", types.RS: "RS",
	types.RSE: "RSE", types.FRLG: "FRLG", types.DP: "DP", types.DPPt: "DPPt",
	types.HGSS: "HGSS", types.BW: "BW", types.B2W2: "B2W2", types.XY: "XY",
	types.ORAS: "ORAS", types.SM: "SM", types.USUM: "USUM", types.GG: "GG",
	types.SWSH: "SWSH", types.GBCartEraOnly: "GBCartEraOnly",
}

// Name returns the short display name of v.
func Name(v types.GameVersion) string {
	if n, ok := names[v]; ok {
		return n
	}
	return "Unknown"
}

// Parse resolves a short name (case-insensitive) to a version.
func Parse(s string) (types.GameVersion, bool) {
	for v, n := range names {
		if strings.EqualFold(n, s) {
			return v, true
		}
	}
	return 0, false
}

// Names returns every known short name, sorted.
func Names() []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Recipients returns the concrete games a template tagged with set can be
// generated into. Side games resolve to the games they distributed to.
func Recipients(set types.GameVersion) []types.GameVersion {
	if target, ok := sideGames[set]; ok {
		return Members(target)
	}
	return Members(set)
}
