// Package species serves the per-species lookups the engine consumes:
// pre-evolutions, personal info, learnsets, form-change compatibility and
// names. The engine only sees the small interfaces declared here; Table is
// the in-memory implementation compiled by the loader.
package species

import (
	"sort"
	"strings"
)

// Method is how a species evolves from its pre-evolution.
type Method int

const (
	// LevelUp evolves on level-up once Level is reached.
	LevelUp Method = iota
	// LevelUpOther evolves on a level-up gated by something else
	// (friendship, time of day, a held item, a known move).
	LevelUpOther
	// Trade evolves when traded; no level-up needed.
	Trade
	// Item evolves when an item is used; no level-up needed.
	Item
)

// RequiresLevelUp reports whether the evolution consumes a level-up, which
// means the pre-evolution existed at least one level lower.
func (m Method) RequiresLevelUp() bool {
	return m == LevelUp || m == LevelUpOther
}

// PreEvolution is one backward step in the evolution graph.
type PreEvolution struct {
	Species int
	Form    int
	Method  Method
	Level   int // minimum level for LevelUp, 0 otherwise
}

// LevelMove is a move learned by level-up.
type LevelMove struct {
	Level int
	Move  int
}

// Personal is the per-species data synthesis needs.
type Personal struct {
	Species        int
	Form           int
	Name           string
	GenderRatio    int // 0 all male, 254 all female, 255 genderless
	BaseFriendship int
	Abilities      [3]int // slot 1, slot 2, hidden
	Gen1Moves      [4]int // innate moves of the gen 1 personal table
	EggMoves       []int
	Learnset       []LevelMove // sorted by level
	FormChangeable bool
	PreEvolutions  []PreEvolution
}

// Evolutions answers backward evolution queries. known is false when the
// species has no evolution data at all.
type Evolutions interface {
	PreEvolutionsOf(species, form int) (pre []PreEvolution, known bool)
}

// FormChanges answers whether a species may change form after capture in
// a given record format.
type FormChanges interface {
	IsFormChangeable(species, form, format int) bool
}

// Personals looks up per-species personal info.
type Personals interface {
	Personal(species, form int) (Personal, bool)
}

// Learnsets looks up moves.
type Learnsets interface {
	LevelUpMoves(species, form, level int) [4]int
	EggMoves(species, form int) []int
}

// Table is the compiled species table. It is read-only after NewTable.
type Table struct {
	entries map[int]Personal // key: species | form<<11
	names   map[string]int
}

func key(species, form int) int { return species | form<<11 }

// NewTable builds a table from personal entries. Later entries with the same
// species and form replace earlier ones.
func NewTable(entries []Personal) *Table {
	t := &Table{
		entries: make(map[int]Personal, len(entries)),
		names:   map[string]int{},
	}
	for _, e := range entries {
		moves := append([]LevelMove(nil), e.Learnset...)
		sort.SliceStable(moves, func(i, j int) bool { return moves[i].Level < moves[j].Level })
		e.Learnset = moves
		t.entries[key(e.Species, e.Form)] = e
		if e.Name != "" && e.Form == 0 {
			t.names[strings.ToLower(e.Name)] = e.Species
		}
	}
	return t
}

// Personal returns the entry for species/form, falling back to form 0.
func (t *Table) Personal(species, form int) (Personal, bool) {
	if p, ok := t.entries[key(species, form)]; ok {
		return p, true
	}
	p, ok := t.entries[key(species, 0)]
	return p, ok
}

// PreEvolutionsOf implements Evolutions.
func (t *Table) PreEvolutionsOf(species, form int) ([]PreEvolution, bool) {
	p, ok := t.Personal(species, form)
	if !ok {
		return nil, false
	}
	return p.PreEvolutions, true
}

// IsFormChangeable implements FormChanges. Form changes that only exist
// from gen 4 on are not available to older record formats.
func (t *Table) IsFormChangeable(species, form, format int) bool {
	p, ok := t.Personal(species, form)
	if !ok || !p.FormChangeable {
		return false
	}
	return format >= 4
}

// LevelUpMoves returns the last four distinct moves learned at or below
// level, oldest first, zero-padded.
func (t *Table) LevelUpMoves(species, form, level int) [4]int {
	var out [4]int
	p, ok := t.Personal(species, form)
	if !ok {
		return out
	}
	var learned []int
	for _, lm := range p.Learnset {
		if lm.Level > level {
			break
		}
		learned = removeMove(learned, lm.Move)
		learned = append(learned, lm.Move)
	}
	if len(learned) > 4 {
		learned = learned[len(learned)-4:]
	}
	copy(out[:], learned)
	return out
}

func removeMove(moves []int, move int) []int {
	for i, m := range moves {
		if m == move {
			return append(moves[:i], moves[i+1:]...)
		}
	}
	return moves
}

// EggMoves implements Learnsets.
func (t *Table) EggMoves(species, form int) []int {
	p, ok := t.Personal(species, form)
	if !ok {
		return nil
	}
	return p.EggMoves
}

// Lookup resolves an exact (case-insensitive) species name.
func (t *Table) Lookup(name string) (int, bool) {
	id, ok := t.names[strings.ToLower(strings.TrimSpace(name))]
	return id, ok
}

// Name returns the display name of species, or "" when unknown.
func (t *Table) Name(species int) string {
	if p, ok := t.entries[key(species, 0)]; ok {
		return p.Name
	}
	return ""
}

// Names returns every species name in the table, sorted.
func (t *Table) Names() []string {
	out := make([]string, 0, len(t.names))
	for _, id := range t.names {
		out = append(out, t.Name(id))
	}
	sort.Strings(out)
	return out
}

// Len returns the number of species/form entries.
func (t *Table) Len() int { return len(t.entries) }
