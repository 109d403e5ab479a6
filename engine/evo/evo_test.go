package evo

import (
	"errors"
	"reflect"
	"testing"

	"github.com/nathoo/encounterdex/engine/pkm"
	"github.com/nathoo/encounterdex/engine/species"
	"github.com/nathoo/encounterdex/types"
)

func testResolver() *Resolver {
	tbl := species.NewTable([]species.Personal{
		{Species: 41, Name: "Zubat"},
		{Species: 42, Name: "Golbat", PreEvolutions: []species.PreEvolution{{Species: 41, Method: species.LevelUp, Level: 22}}},
		{Species: 169, Name: "Crobat", PreEvolutions: []species.PreEvolution{{Species: 42, Method: species.LevelUpOther}}},
		{Species: 74, Name: "Geodude"},
		{Species: 75, Name: "Graveler", PreEvolutions: []species.PreEvolution{{Species: 74, Method: species.LevelUp, Level: 25}}},
		{Species: 76, Name: "Golem", PreEvolutions: []species.PreEvolution{{Species: 75, Method: species.Trade}}},
		{Species: 215, Name: "Sneasel"},
		{Species: 461, Name: "Weavile", PreEvolutions: []species.PreEvolution{{Species: 215, Method: species.LevelUpOther}}},
	})
	return NewResolver(tbl)
}

// Level never rises along a chain. Pre-evolutions reached by trade or item
// keep the evolved node's level, so equal neighbours are allowed.
func TestResolve_LevelsNonIncreasing(t *testing.T) {
	r := testResolver()
	creatures := []pkm.Creature{
		{Species: 76, Format: 6, Version: types.OR, CurrentLevel: 40, MetLevel: 30},
		{Species: 76, Format: 6, Version: types.OR, CurrentLevel: 100, MetLevel: 1},
		{Species: 169, Format: 6, Version: types.OR, CurrentLevel: 50, MetLevel: 5},
		{Species: 75, Format: 5, Version: types.E, CurrentLevel: 30, MetLevel: 28},
	}
	var sawEqual bool
	for _, c := range creatures {
		chain, err := r.Resolve(c.View())
		if err != nil {
			t.Fatalf("species %d: %v", c.Species, err)
		}
		for i := 1; i < len(chain); i++ {
			if chain[i].Level > chain[i-1].Level {
				t.Errorf("species %d: node %d level %d above node %d level %d",
					c.Species, i, chain[i].Level, i-1, chain[i-1].Level)
			}
			sawEqual = sawEqual || chain[i].Level == chain[i-1].Level
		}
	}
	if !sawEqual {
		t.Error("expected a trade pre-evolution to share the evolved node's level")
	}
}

func TestResolve(t *testing.T) {
	r := testResolver()
	tests := []struct {
		name string
		c    pkm.Creature
		want []types.EvoCriteria
	}{
		{
			"full chain with met data",
			pkm.Creature{Species: 76, Format: 6, Version: types.OR, CurrentLevel: 40, MetLevel: 30},
			[]types.EvoCriteria{
				{Species: 76, MinLevel: 30, Level: 40},
				{Species: 75, MinLevel: 31, Level: 40},
				{Species: 74, MinLevel: 30, Level: 39},
			},
		},
		{
			"evolution level out of reach",
			pkm.Creature{Species: 75, Format: 6, Version: types.OR, CurrentLevel: 22, MetLevel: 20},
			[]types.EvoCriteria{{Species: 75, MinLevel: 20, Level: 22}},
		},
		{
			"met above current level",
			pkm.Creature{Species: 74, Format: 6, Version: types.OR, CurrentLevel: 40, MetLevel: 45},
			nil,
		},
		{
			"transferred trims evolved node",
			pkm.Creature{Species: 75, Format: 5, Version: types.E, CurrentLevel: 30, MetLevel: 20},
			[]types.EvoCriteria{{Species: 74, MinLevel: 1, Level: 20}},
		},
		{
			"transferred keeps reachable chain",
			pkm.Creature{Species: 75, Format: 5, Version: types.E, CurrentLevel: 30, MetLevel: 28},
			[]types.EvoCriteria{
				{Species: 75, MinLevel: 25, Level: 28},
				{Species: 74, MinLevel: 1, Level: 28},
			},
		},
		{
			"future level-up penalty empties window",
			pkm.Creature{Species: 461, Format: 5, Version: types.E, CurrentLevel: 30, MetLevel: 1},
			nil,
		},
		{
			"format 3 egg floors to five",
			pkm.Creature{Species: 74, Format: 3, Version: types.E, CurrentLevel: 5, MetLevel: 0, IsEgg: true},
			[]types.EvoCriteria{{Species: 74, MinLevel: 5, Level: 5}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(tt.c.View())
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Resolve() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestResolve_UnknownSpecies(t *testing.T) {
	r := testResolver()
	c := pkm.Creature{Species: 9999, Format: 7, Version: types.SN, CurrentLevel: 5, MetLevel: 5}
	_, err := r.Resolve(c.View())
	if !errors.Is(err, ErrUnknownSpecies) {
		t.Fatalf("expected ErrUnknownSpecies, got %v", err)
	}
}

func TestResolve_MetDataNonEmptyIffMetNotAboveCurrent(t *testing.T) {
	r := testResolver()
	for _, sp := range []int{41, 42, 169, 74, 75, 76} {
		for current := 1; current <= 60; current += 7 {
			for met := 1; met <= 60; met += 5 {
				c := pkm.Creature{Species: sp, Format: 7, Version: types.US, CurrentLevel: current, MetLevel: met}
				chain, err := r.Resolve(c.View())
				if err != nil {
					t.Fatalf("Resolve: %v", err)
				}
				if got, want := len(chain) > 0, met <= current; got != want {
					t.Errorf("species %d met %d current %d: non-empty = %v, want %v", sp, met, current, got, want)
				}
				checkOrdered(t, chain)
			}
		}
	}
}

func checkOrdered(t *testing.T, chain []types.EvoCriteria) {
	t.Helper()
	for i, e := range chain {
		if e.MinLevel > e.Level {
			t.Errorf("node %d: MinLevel %d > Level %d", i, e.MinLevel, e.Level)
		}
		if i > 0 && e.Level > chain[i-1].Level {
			t.Errorf("node %d: Level %d above more evolved node's %d", i, e.Level, chain[i-1].Level)
		}
	}
}

func TestResolveLegacy(t *testing.T) {
	r := testResolver()
	tests := []struct {
		name   string
		c      pkm.Creature
		source types.GameVersion
		want   []types.EvoCriteria
	}{
		{
			"gen1 record",
			pkm.Creature{Species: 75, Format: 1, Version: types.RD, CurrentLevel: 30},
			types.RBY,
			[]types.EvoCriteria{
				{Species: 75, MinLevel: 25, Level: 30},
				{Species: 74, MinLevel: 2, Level: 29},
			},
		},
		{
			"crobat from gsc",
			pkm.Creature{Species: 169, Format: 2, Version: types.C, CurrentLevel: 30},
			types.GSC,
			[]types.EvoCriteria{
				{Species: 169, MinLevel: 3, Level: 30},
				{Species: 42, MinLevel: 22, Level: 29},
				{Species: 41, MinLevel: 2, Level: 28},
			},
		},
		{
			"crobat from rby drops gen2 species",
			pkm.Creature{Species: 169, Format: 2, Version: types.C, CurrentLevel: 30},
			types.RBY,
			[]types.EvoCriteria{
				{Species: 42, MinLevel: 22, Level: 29},
				{Species: 41, MinLevel: 2, Level: 28},
			},
		},
		{
			"gen2 egg floors to five",
			pkm.Creature{Species: 41, Format: 2, Version: types.C, CurrentLevel: 5, MetLevel: 1, IsEgg: true},
			types.GSC,
			[]types.EvoCriteria{{Species: 41, MinLevel: 5, Level: 5}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.ResolveLegacy(tt.c.View(), tt.source)
			if err != nil {
				t.Fatalf("ResolveLegacy: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ResolveLegacy() = %+v, want %+v", got, tt.want)
			}
			checkOrdered(t, got)
		})
	}
}
