package encounter

import (
	"slices"

	"github.com/nathoo/encounterdex/engine/pkm"
	"github.com/nathoo/encounterdex/types"
)

// BoostPolicy describes how a game lets the player shift wild levels.
// Decrease lowers a slot's minimum level, Increase raises its maximum and
// Chain raises the maximum further through chained encounters. Excluded
// methods get neither Increase nor Chain.
type BoostPolicy struct {
	Decrease int
	Increase int
	Chain    int
	Excluded []types.SlotType
}

// ORASBoost is the flute and chaining policy of Omega Ruby/Alpha Sapphire.
var ORASBoost = &BoostPolicy{
	Decrease: 4,
	Increase: 4,
	Chain:    30,
	Excluded: []types.SlotType{types.RockSmash},
}

func (b *BoostPolicy) excludes(m types.SlotType) bool {
	return slices.Contains(b.Excluded, m)
}

// Boost names the level widening a slot match needed.
type Boost int

const (
	BoostNone Boost = iota
	BoostDecrease
	BoostIncrease
	BoostChain
)

func (b Boost) String() string {
	switch b {
	case BoostDecrease:
		return "decrease"
	case BoostIncrease:
		return "increase"
	case BoostChain:
		return "chain"
	}
	return "none"
}

// Annotations is derived per match and never stored on a template.
type Annotations struct {
	Kind  Kind
	Boost Boost
	// ChainEvidence is set when the creature carries traits only a chained
	// encounter produces, whatever Boost says.
	ChainEvidence bool
	// FixedPID is set for templates with a prescribed PID; Shiny is then
	// derived from that PID rather than read from the creature.
	FixedPID bool
	Shiny    bool
}

// Describe returns the human-facing condition string of the match.
func (a Annotations) Describe() string {
	switch a.Kind {
	case KindStatic:
		return "Valid gift/static encounter."
	case KindTrade:
		return "Valid in-game trade."
	}
	switch {
	case a.Boost == BoostDecrease:
		return "Valid Wild Encounter at location (White Flute)."
	case a.Boost == BoostIncrease:
		return "Valid Wild Encounter at location (Black Flute)."
	case a.Boost == BoostChain, a.ChainEvidence:
		return "Valid Wild Encounter at location (DexNav)."
	}
	return "Valid Wild Encounter at location."
}

type window struct {
	boost  Boost
	lo, hi int
}

// windows lists the level windows of s in precedence order.
func (s *Slot) windows() []window {
	w := []window{{BoostNone, s.LevelMin, s.LevelMax}}
	b := s.Area.Boost
	if b == nil {
		return w
	}
	if b.Decrease > 0 {
		w = append(w, window{BoostDecrease, s.LevelMin - b.Decrease, s.LevelMax})
	}
	if b.excludes(s.Area.Method) {
		return w
	}
	if b.Increase > 0 {
		w = append(w, window{BoostIncrease, s.LevelMin, s.LevelMax + b.Increase})
	}
	if b.Chain > 0 {
		w = append(w, window{BoostChain, s.LevelMin, s.LevelMax + b.Chain})
	}
	return w
}

// levelBoost returns the first window in precedence order that intersects
// [lo, hi].
func (s *Slot) levelBoost(lo, hi int) (Boost, bool) {
	for _, w := range s.windows() {
		if lo <= w.hi && w.lo <= hi {
			return w.boost, true
		}
	}
	return BoostNone, false
}

// EvaluateSlot derives the annotations of a slot match. It reports false
// when no window admits the creature's level.
func EvaluateSlot(s *Slot, v pkm.View, evo types.EvoCriteria) (Annotations, bool) {
	lo, hi := EncounterLevels(v, evo)
	boost, ok := s.levelBoost(lo, hi)
	if !ok {
		return Annotations{}, false
	}
	a := Annotations{Kind: KindSlot, Boost: boost}
	if s.CanChain() && (v.RelearnMove1() != 0 || v.AbilityNumber() == 4) {
		a.ChainEvidence = true
	}
	return a, true
}

// EvaluateStatic derives the annotations of a static match.
func EvaluateStatic(s *Static, v pkm.View) Annotations {
	a := Annotations{Kind: KindStatic}
	if s.Shiny == types.ShinyFixedValue {
		a.FixedPID = true
		a.Shiny = pkm.IsShinyPID(s.PID, v.TID(), v.SID(), v.Format())
	}
	return a
}

// EvaluateTrade derives the annotations of a trade match.
func EvaluateTrade(t *Trade, v pkm.View) Annotations {
	a := Annotations{Kind: KindTrade}
	if t.Shiny == types.ShinyFixedValue {
		a.FixedPID = true
		a.Shiny = pkm.IsShinyPID(t.PID, t.TID, t.SID, v.Format())
	}
	return a
}

// Evaluate dispatches on the template kind.
func Evaluate(t Template, v pkm.View, evo types.EvoCriteria) (Annotations, bool) {
	switch t := t.(type) {
	case *Slot:
		return EvaluateSlot(t, v, evo)
	case *Static:
		return EvaluateStatic(t, v), true
	case *Trade:
		return EvaluateTrade(t, v), true
	default:
		return Annotations{}, false
	}
}
