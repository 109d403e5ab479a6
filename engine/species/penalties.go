package species

// Penalties reports how many levels a species needed to gain after being
// transferred out of an older generation in order to exist as it is now.
// Species that can only be reached by a level-up evolution introduced in a
// later generation can never have been met at their current level.
type Penalties interface {
	// LevelPenalty returns the level delta for species/form originating in
	// generation gen.
	LevelPenalty(species, form, gen int) int
	// RequiresGen2LevelUp reports whether species can only be reached from a
	// gen 1 origin through a level-up evolution added in gen 2.
	RequiresGen2LevelUp(species int) bool
}

// DefaultPenalties holds the known future level-up evolutions.
var DefaultPenalties Penalties = penaltyTable{
	delta: map[int]int{
		key(700, 0): 1, // Sylveon
		key(105, 1): 1, // Marowak-Alola
		key(110, 1): 1, // Weezing-Galar
		key(122, 1): 1, // Mr. Mime-Galar
		key(866, 0): 2, // Mr. Rime
	},
	gen4: map[int]bool{
		424: true, // Ambipom
		461: true, // Weavile
		462: true, // Magnezone
		463: true, // Lickilicky
		465: true, // Tangrowth
		469: true, // Yanmega
		470: true, // Leafeon
		471: true, // Glaceon
		472: true, // Gliscor
		473: true, // Mamoswine
		476: true, // Probopass
	},
	gen2: map[int]bool{
		169: true, // Crobat
		196: true, // Espeon
		197: true, // Umbreon
		242: true, // Blissey
	},
}

type penaltyTable struct {
	delta map[int]int
	gen4  map[int]bool
	gen2  map[int]bool
}

func (p penaltyTable) LevelPenalty(species, form, gen int) int {
	if n, ok := p.delta[key(species, form)]; ok {
		return n
	}
	if gen < 4 && p.gen4[species] {
		return 1
	}
	return 0
}

func (p penaltyTable) RequiresGen2LevelUp(species int) bool {
	return p.gen2[species]
}
