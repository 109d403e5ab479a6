package encounter

import (
	"strings"

	"github.com/nathoo/encounterdex/types"
)

var methodNames = map[types.SlotType]string{
	types.SlotAny:      "Any",
	types.Grass:        "Grass",
	types.Surf:         "Surf",
	types.OldRod:       "OldRod",
	types.GoodRod:      "GoodRod",
	types.SuperRod:     "SuperRod",
	types.RockSmash:    "RockSmash",
	types.Headbutt:     "Headbutt",
	types.HoneyTree:    "HoneyTree",
	types.BugContest:   "BugContest",
	types.HiddenGrotto: "HiddenGrotto",
	types.GoPark:       "GoPark",
	types.FriendSafari: "FriendSafari",
	types.Horde:        "Horde",
	types.SOS:          "SOS",
}

// MethodName returns the display name of a slot method.
func MethodName(m types.SlotType) string {
	if n, ok := methodNames[m]; ok {
		return n
	}
	return "Unknown"
}

// ParseMethod parses a slot method name, ignoring case and underscores.
func ParseMethod(s string) (types.SlotType, bool) {
	norm := strings.ToLower(strings.ReplaceAll(s, "_", ""))
	for m, n := range methodNames {
		if strings.ToLower(n) == norm {
			return m, true
		}
	}
	return 0, false
}
