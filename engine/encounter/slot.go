package encounter

import (
	"github.com/nathoo/encounterdex/engine/pkm"
	"github.com/nathoo/encounterdex/engine/version"
	"github.com/nathoo/encounterdex/types"
)

// Area is a group of wild slots sharing a location and method. The area owns
// its slots; each slot points back at it for the shared fields.
type Area struct {
	Location   int
	Method     types.SlotType
	Swarm      bool
	Version    types.GameVersion
	Generation int
	Boost      *BoostPolicy // nil when the game has no level boosts
	Slots      []*Slot
}

// Slot is a single wild encounter slot.
type Slot struct {
	Area     *Area
	Species  int
	Form     int
	LevelMin int
	LevelMax int
	Moves    [4]int // prescribed moves for swarm slots, zero otherwise
}

// NewSlot appends a slot to a and returns it.
func (a *Area) NewSlot(species, form, levelMin, levelMax int) *Slot {
	s := &Slot{Area: a, Species: species, Form: form, LevelMin: levelMin, LevelMax: levelMax}
	a.Slots = append(a.Slots, s)
	return s
}

func (*Slot) sealed() {}

// Identity implements Template.
func (s *Slot) Identity() Identity {
	return Identity{
		Kind:       KindSlot,
		Species:    s.Species,
		Form:       s.Form,
		LevelMin:   s.LevelMin,
		LevelMax:   s.LevelMax,
		Location:   s.Area.Location,
		Version:    s.Area.Version,
		Generation: s.Area.Generation,
	}
}

// IsMatch implements Template. The level check uses the widest window the
// area's boost policy allows for the slot's method.
func (s *Slot) IsMatch(v pkm.View, evo types.EvoCriteria) bool {
	if s.Species != evo.Species || !formMatches(s.Form, evo.Form) {
		return false
	}
	if !versionAllows(s.Area.Version, v.Version()) {
		return false
	}
	lo, hi := EncounterLevels(v, evo)
	_, ok := s.levelBoost(lo, hi)
	return ok
}

// IsMatchDeferred implements Template. Slots never defer.
func (*Slot) IsMatchDeferred(pkm.View) bool { return false }

// CanChain reports whether the slot's method supports chained encounters.
func (s *Slot) CanChain() bool {
	b := s.Area.Boost
	return b != nil && b.Chain > 0 && !b.excludes(s.Area.Method)
}

// EncounterLevels returns the range of levels the creature could have been
// encountered at: the met level when origin data survives, otherwise the
// evolution node's window.
func EncounterLevels(v pkm.View, evo types.EvoCriteria) (lo, hi int) {
	if v.HasOriginalMetLocation() {
		return v.MetLevel(), v.MetLevel()
	}
	return evo.MinLevel, evo.Level
}

func versionAllows(set, v types.GameVersion) bool {
	return set == types.Any || v == types.Any || version.Receives(set, v)
}
