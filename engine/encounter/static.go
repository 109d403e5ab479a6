package encounter

import (
	"github.com/nathoo/encounterdex/engine/pkm"
	"github.com/nathoo/encounterdex/types"
)

// Static is a fixed encounter or gift. Nature and Gender must be set to
// types.NatureRandom and types.GenderRandom when unconstrained.
type Static struct {
	Species    int
	Form       int
	Level      int
	Version    types.GameVersion
	Generation int

	Location    int
	EggLocation int

	Ability int // 0 for any, else 1, 2 or 4 (hidden)
	Nature  types.Nature
	Gender  int
	Shiny   types.Shiny
	PID     uint32 // used when Shiny is ShinyFixedValue

	IVs             []int // empty or six values, -1 for random
	FlawlessIVCount int

	Moves   [4]int
	Ball    int
	Gift    bool
	Fateful bool

	// NPokemon marks the fixed-PID gifts of N: IVs of 30, the N sparkle,
	// OT "N" and ids 2/0.
	NPokemon bool
}

// N's trainer ids.
const (
	NTID = 2
	NSID = 0
)

func (*Static) sealed() {}

// Identity implements Template.
func (s *Static) Identity() Identity {
	return Identity{
		Kind:       KindStatic,
		Species:    s.Species,
		Form:       s.Form,
		LevelMin:   s.Level,
		LevelMax:   s.Level,
		Location:   s.Location,
		Version:    s.Version,
		Generation: s.Generation,
	}
}

// IsMatch implements Template.
func (s *Static) IsMatch(v pkm.View, evo types.EvoCriteria) bool {
	if s.Species != evo.Species || !formMatches(s.Form, evo.Form) {
		return false
	}
	if !versionAllows(s.Version, v.Version()) {
		return false
	}
	if !s.levelMatches(v, evo) {
		return false
	}
	if !ivsMatch(s.IVs, v.IVs()) {
		return false
	}
	if s.Shiny == types.ShinyFixedValue {
		if v.PID() != s.PID {
			return false
		}
	} else if !shinyMatches(s.Shiny, v.IsShiny()) {
		return false
	}
	if s.Nature != types.NatureRandom && v.Nature() != s.Nature {
		return false
	}
	if s.Gender != types.GenderRandom && v.Gender() != s.Gender {
		return false
	}
	if s.NPokemon && (v.TID() != NTID || v.SID() != NSID) {
		return false
	}
	return true
}

func (s *Static) levelMatches(v pkm.View, evo types.EvoCriteria) bool {
	if !v.HasOriginalMetLocation() {
		return s.Level <= evo.Level
	}
	if s.Location != 0 && v.MetLocation() != s.Location {
		return false
	}
	if v.Format() >= 4 && v.EggLocation() != s.EggLocation {
		return false
	}
	if s.EggLocation != 0 {
		// Hatched gifts are met at their hatch level.
		return s.Level <= evo.Level
	}
	return v.MetLevel() == s.Level
}

// IsMatchDeferred implements Template. A static match is deferred when the
// creature's ability slot differs from a required one or it has fewer
// perfect IVs than the encounter guarantees.
func (s *Static) IsMatchDeferred(v pkm.View) bool {
	if s.Ability != 0 && v.AbilityNumber() != s.Ability {
		return true
	}
	return s.FlawlessIVCount > pkm.CountFlawless(v.IVs())
}
