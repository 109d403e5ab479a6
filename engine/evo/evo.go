// Package evo reconstructs the species/form/level states a creature could
// have passed through in the generation it originated in. The result is the
// evolution chain the matcher intersects with encounter templates.
package evo

import (
	"errors"
	"fmt"

	"github.com/nathoo/encounterdex/engine/pkm"
	"github.com/nathoo/encounterdex/engine/species"
	"github.com/nathoo/encounterdex/types"
)

// ErrUnknownSpecies is returned when the evolution table has no entry for
// the creature's species.
var ErrUnknownSpecies = errors.New("evo: unknown species")

const (
	maxSpeciesGen1 = 151
	maxSpeciesGen2 = 251
)

// Resolver builds evolution chains from the species collaborators.
type Resolver struct {
	Evolutions species.Evolutions
	Penalties  species.Penalties
}

// NewResolver returns a resolver using the default penalty tables.
func NewResolver(evos species.Evolutions) *Resolver {
	return &Resolver{Evolutions: evos, Penalties: species.DefaultPenalties}
}

// Resolve returns the origin chain of v, most evolved first. An empty chain
// means no origin is feasible; it is not an error.
func (r *Resolver) Resolve(v pkm.View) ([]types.EvoCriteria, error) {
	hasMet := v.HasOriginalMetLocation()
	maxLevel := r.levelOriginMax(v, hasMet)
	minLevel := levelOriginMin(v, hasMet)
	return r.originChain(v, 0, maxLevel, minLevel, hasMet)
}

// ResolveLegacy returns the origin chain of v assuming it came from a gen 1
// game (source RBY) or a gen 2 game (any other source).
func (r *Resolver) ResolveLegacy(v pkm.View, source types.GameVersion) ([]types.EvoCriteria, error) {
	rby := source == types.RBY
	maxSpecies := maxSpeciesGen2
	if rby {
		maxSpecies = maxSpeciesGen1
	}

	var (
		hasMet             bool
		maxLevel, minLevel int
	)
	gen2LevelUp := rby && r.Penalties.RequiresGen2LevelUp(v.Species())
	switch {
	case v.Format() == 1:
		maxLevel, minLevel = v.CurrentLevel(), 2
	case v.Format() == 2:
		hasMet = v.MetLevel() != 0
		maxLevel = v.CurrentLevel()
		if gen2LevelUp {
			maxLevel--
		}
		switch {
		case !hasMet:
			minLevel = 2
		case v.IsEgg():
			minLevel = 5
		default:
			minLevel = v.MetLevel()
		}
	case rby:
		minLevel = 2
		if gen2LevelUp {
			maxLevel = v.CurrentLevel() - 1
		} else {
			maxLevel = v.MetLevel() - r.Penalties.LevelPenalty(v.Species(), v.Form(), 1)
		}
	default:
		minLevel = 2
		maxLevel = v.MetLevel() - r.Penalties.LevelPenalty(v.Species(), v.Form(), 2)
	}
	return r.originChain(v, maxSpecies, maxLevel, minLevel, hasMet)
}

func levelOriginMin(v pkm.View, hasMet bool) int {
	if v.Format() == 3 {
		if v.IsEgg() {
			return 5
		}
		return max(2, v.MetLevel())
	}
	if !hasMet {
		return 1
	}
	return max(1, v.MetLevel())
}

func (r *Resolver) levelOriginMax(v pkm.View, hasMet bool) int {
	if hasMet {
		return v.CurrentLevel()
	}
	gen := v.Generation()
	if gen >= 4 {
		return v.MetLevel()
	}
	return v.MetLevel() - r.Penalties.LevelPenalty(v.Species(), v.Form(), gen)
}

func (r *Resolver) originChain(v pkm.View, maxSpecies, maxLevel, minLevel int, hasMet bool) ([]types.EvoCriteria, error) {
	if _, ok := r.Evolutions.PreEvolutionsOf(v.Species(), v.Form()); !ok {
		return nil, fmt.Errorf("resolve species %d form %d: %w", v.Species(), v.Form(), ErrUnknownSpecies)
	}
	if maxLevel < minLevel {
		return nil, nil
	}
	if hasMet {
		return r.preEvolutions(v, maxSpecies, maxLevel, minLevel), nil
	}

	// Without met data the creature may have evolved after leaving its
	// origin game, so walk up to the current level and trim afterwards.
	chain := r.preEvolutions(v, maxSpecies, v.CurrentLevel(), minLevel)
	for i := len(chain) - 1; i >= 0; i-- {
		if chain[i].MinLevel > maxLevel {
			chain = append(chain[:i], chain[i+1:]...)
			if reaches(chain, maxLevel) {
				continue
			}
			return nil, nil
		}
		if chain[i].Level > maxLevel {
			chain[i].Level = maxLevel
		}
	}
	return chain, nil
}

func reaches(chain []types.EvoCriteria, level int) bool {
	for _, e := range chain {
		if e.Level >= level {
			return true
		}
	}
	return false
}

// preEvolutions walks the pre-evolution graph from the creature's current
// species. A pre-evolution is kept only when its evolution could have
// happened inside [minLevel, maxLevel].
func (r *Resolver) preEvolutions(v pkm.View, maxSpecies, maxLevel, minLevel int) []types.EvoCriteria {
	chain := []types.EvoCriteria{{
		Species:  v.Species(),
		Form:     v.Form(),
		MinLevel: minLevel,
		Level:    maxLevel,
	}}
	seen := map[int]bool{v.Species(): true}
	for {
		cur := &chain[len(chain)-1]
		pre, _ := r.Evolutions.PreEvolutionsOf(cur.Species, cur.Form)
		if len(pre) == 0 || seen[pre[0].Species] {
			break
		}
		p := pre[0]
		up := 0
		if p.Method.RequiresLevelUp() {
			up = 1
		}
		evolvedMin := max(cur.MinLevel, minLevel+up)
		if p.Method == species.LevelUp {
			evolvedMin = max(evolvedMin, p.Level)
		}
		if cur.Level < evolvedMin {
			break
		}
		cur.MinLevel = evolvedMin
		seen[p.Species] = true
		chain = append(chain, types.EvoCriteria{
			Species:  p.Species,
			Form:     p.Form,
			MinLevel: minLevel,
			Level:    cur.Level - up,
		})
	}

	out := chain[:0]
	for _, e := range chain {
		if maxSpecies > 0 && e.Species > maxSpecies {
			continue
		}
		if e.MinLevel > e.Level {
			continue
		}
		out = append(out, e)
	}
	return out
}
