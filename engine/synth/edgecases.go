package synth

import (
	"slices"

	"github.com/nathoo/encounterdex/engine/encounter"
	"github.com/nathoo/encounterdex/engine/pkm"
	"github.com/nathoo/encounterdex/types"
)

// EdgeCase is a localization quirk of an in-game trade. Zero-valued keys
// match anything; the first matching case in a table is the only one
// applied.
type EdgeCase struct {
	Name       string
	Generation int
	Species    int
	Template   types.GameVersion   // version the trade is tagged with
	Targets    []types.GameVersion // games the creature is received in
	Language   types.LanguageID    // 0 matches any
	Apply      func(pk *pkm.Creature, t *encounter.Trade)
}

func (e EdgeCase) matches(pk *pkm.Creature, t *encounter.Trade) bool {
	if e.Generation != 0 && e.Generation != pk.Format {
		return false
	}
	if e.Species != 0 && e.Species != t.Species {
		return false
	}
	if e.Template != types.Any && e.Template != t.Version {
		return false
	}
	if len(e.Targets) != 0 && !slices.Contains(e.Targets, pk.Version) {
		return false
	}
	return e.Language == 0 || e.Language == pk.Language
}

// EdgeCases are the known trade quirks.
var EdgeCases = []EdgeCase{
	{
		Name:       "Italian LG Jynx keeps its English names",
		Generation: 3,
		Species:    124,
		Targets:    []types.GameVersion{types.LG},
		Language:   types.Italian,
		Apply: func(pk *pkm.Creature, t *encounter.Trade) {
			pk.OTName = t.OT(types.English)
			if nick := t.Nickname(types.English); nick != "" {
				pk.Nickname = nick
			}
		},
	},
	{
		Name:       "Meister Magikarp is German except in German games",
		Generation: 4,
		Species:    129,
		Template:   types.DPPt,
		Apply: func(pk *pkm.Creature, _ *encounter.Trade) {
			pk.Language = swapLanguage(pk.Language, types.German, types.English)
		},
	},
	{
		Name:       "DP trades carry the Japanese language id",
		Generation: 4,
		Template:   types.DPPt,
		Targets:    []types.GameVersion{types.D, types.P},
		Apply: func(pk *pkm.Creature, _ *encounter.Trade) {
			pk.Language = types.Japanese
		},
	},
	{
		Name:       "HGSS Pikachu is English except in English games",
		Generation: 4,
		Species:    25,
		Template:   types.HGSS,
		Apply: func(pk *pkm.Creature, _ *encounter.Trade) {
			pk.Language = swapLanguage(pk.Language, types.English, types.French)
		},
	},
	{
		Name:       "Japanese BW trades use language id 0",
		Generation: 5,
		Template:   types.BW,
		Language:   types.Japanese,
		Apply: func(pk *pkm.Creature, _ *encounter.Trade) {
			pk.Language = types.LanguageHacked
		},
	},
}

// swapLanguage returns usual, or other when the game is already usual.
func swapLanguage(current, usual, other types.LanguageID) types.LanguageID {
	if current == usual {
		return other
	}
	return usual
}

func (s *Synthesizer) applyEdgeCases(pk *pkm.Creature, t *encounter.Trade) {
	for _, e := range s.EdgeCases {
		if e.matches(pk, t) {
			e.Apply(pk, t)
			return
		}
	}
}
