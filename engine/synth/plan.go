package synth

import (
	"fmt"

	"github.com/nathoo/encounterdex/engine/encounter"
	"github.com/nathoo/encounterdex/types"
)

// plan is what a template prescribes, flattened across the three kinds.
// Exactly one of slot, static and trade is set.
type plan struct {
	slot   *encounter.Slot
	static *encounter.Static
	trade  *encounter.Trade

	species, form int
	level         int
	metLevel      int
	version       types.GameVersion
	gen           int

	location    int
	eggLocation int

	ability  int
	nature   types.Nature
	gender   int
	shiny    types.Shiny
	pid      uint32
	ivs      []int
	flawless int

	moves   [4]int
	ball    int
	fateful bool
}

func prescribe(t encounter.Template) (*plan, error) {
	var p *plan
	switch t := t.(type) {
	case *encounter.Slot:
		a := t.Area
		p = &plan{
			slot:    t,
			species: t.Species, form: t.Form, level: t.LevelMin,
			version: a.Version, gen: a.Generation, location: a.Location,
			nature: types.NatureRandom, gender: types.GenderRandom,
			moves: t.Moves,
		}
		if t.LevelMin > t.LevelMax {
			return nil, fmt.Errorf("level range %d-%d: %w", t.LevelMin, t.LevelMax, ErrInconsistentTemplate)
		}
	case *encounter.Static:
		p = &plan{
			static:  t,
			species: t.Species, form: t.Form, level: t.Level,
			version: t.Version, gen: t.Generation,
			location: t.Location, eggLocation: t.EggLocation,
			ability: t.Ability, nature: t.Nature, gender: t.Gender,
			shiny: t.Shiny, pid: t.PID,
			ivs: t.IVs, flawless: t.FlawlessIVCount,
			moves: t.Moves, ball: t.Ball, fateful: t.Fateful,
		}
	case *encounter.Trade:
		p = &plan{
			trade:   t,
			species: t.Species, form: t.Form, level: t.Level,
			version: t.Version, gen: t.Generation,
			location: t.MetLocation(), eggLocation: t.EggLocation,
			ability: t.Ability, nature: t.Nature, gender: t.Gender,
			shiny: t.Shiny, pid: t.PID,
			ivs: t.IVs, flawless: t.FlawlessIVCount,
			moves: t.Moves, ball: t.Ball, fateful: t.Fateful,
		}
		p.metLevel = t.Level
		if t.CurrentLevel > t.Level {
			p.level = t.CurrentLevel
		}
		if len(t.IVs) == 0 {
			p.flawless = max(p.flawless, 3)
		}
	default:
		return nil, fmt.Errorf("unknown template %T: %w", t, ErrInconsistentTemplate)
	}
	if p.ball == 0 {
		p.ball = BallPoke
	}
	if p.level == 0 {
		p.level = 1
	}
	p.metLevel = min(p.metLevel, p.level)
	if p.metLevel == 0 {
		p.metLevel = p.level
	}
	return p, p.validate()
}

func (p *plan) validate() error {
	if p.level < 1 || p.level > 100 {
		return fmt.Errorf("level %d: %w", p.level, ErrInconsistentTemplate)
	}
	if n := len(p.ivs); n != 0 && n != 6 {
		return fmt.Errorf("%d fixed IVs: %w", n, ErrInconsistentTemplate)
	}
	for _, iv := range p.ivs {
		if iv < -1 || iv > 31 {
			return fmt.Errorf("IV %d: %w", iv, ErrInconsistentTemplate)
		}
	}
	if p.flawless < 0 || p.flawless > 6 {
		return fmt.Errorf("flawless IV count %d: %w", p.flawless, ErrInconsistentTemplate)
	}
	switch p.ability {
	case 0, 1, 2, 4:
	default:
		return fmt.Errorf("ability number %d: %w", p.ability, ErrInconsistentTemplate)
	}
	if p.nature < 0 || p.nature > types.NatureRandom {
		return fmt.Errorf("nature %d: %w", p.nature, ErrInconsistentTemplate)
	}
	return nil
}
