package loader

import (
	"testing"

	"github.com/nathoo/encounterdex/engine/encounter"
	"github.com/nathoo/encounterdex/engine/pack"
	"github.com/nathoo/encounterdex/engine/species"
	"github.com/nathoo/encounterdex/engine/tables"
	"github.com/nathoo/encounterdex/types"
)

// validData returns a minimal consistent data set.
func validData(t *testing.T) *Data {
	t.Helper()
	entries := []species.Personal{
		{Species: 19, Name: "Rattata"},
		{Species: 20, Name: "Raticate", PreEvolutions: []species.PreEvolution{{Species: 19, Method: species.LevelUp, Level: 20}}},
	}
	area, err := tables.EncodeArea(3, types.Grass, false, []tables.RawSlot{{Species: 19, LevelMin: 2, LevelMax: 4}})
	if err != nil {
		t.Fatal(err)
	}
	res, err := pack.Pack([][]byte{area}, "gg")
	if err != nil {
		t.Fatal(err)
	}
	return &Data{
		Species: species.NewTable(entries),
		entries: entries,
		Sources: []*tables.Source{{
			Group:      types.GG,
			Generation: 7,
			Resources:  map[types.GameVersion]tables.Resource{types.GP: {Data: res, Ident: "gg"}},
			Statics:    []*encounter.Static{{Species: 20, Level: 30, Version: types.GG}},
			Trades:     []*encounter.Trade{{Species: 19, Level: 12, Version: types.GG, OTGender: -1}},
		}},
	}
}

func TestValidate_ValidData(t *testing.T) {
	if err := validate(validData(t)); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(d *Data)
		want   string
	}{
		{
			name: "duplicate species",
			mutate: func(d *Data) {
				d.entries = append(d.entries, species.Personal{Species: 19, Name: "Rattata"})
			},
			want: "species 19 form 0 defined twice",
		},
		{
			name: "undefined pre-evolution",
			mutate: func(d *Data) {
				d.entries[1].PreEvolutions[0].Species = 161
			},
			want: "evolves from undefined species 161",
		},
		{
			name: "unsorted learnset",
			mutate: func(d *Data) {
				d.entries[0].Learnset = []species.LevelMove{{Level: 7, Move: 116}, {Level: 1, Move: 33}}
			},
			want: "learnset is not sorted",
		},
		{
			name: "duplicate game",
			mutate: func(d *Data) {
				d.Sources = append(d.Sources, &tables.Source{Group: types.GG, Generation: 7})
			},
			want: "game GG declared twice",
		},
		{
			name: "undefined area species",
			mutate: func(d *Data) {
				area, _ := tables.EncodeArea(4, types.Grass, false, []tables.RawSlot{{Species: 16, LevelMin: 2, LevelMax: 4}})
				res, _ := pack.Pack([][]byte{area}, "gg")
				d.Sources[0].Resources[types.GE] = tables.Resource{Data: res, Ident: "gg"}
			},
			want: "GE area at location 4 references undefined species 16",
		},
		{
			name: "malformed resource",
			mutate: func(d *Data) {
				d.Sources[0].Resources[types.GE] = tables.Resource{Data: []byte("xx"), Ident: "gg"}
			},
			want: "GE:",
		},
		{
			name: "static level",
			mutate: func(d *Data) {
				d.Sources[0].Statics[0].Level = 101
			},
			want: "GG static 1 has level 101",
		},
		{
			name: "static IV count",
			mutate: func(d *Data) {
				d.Sources[0].Statics[0].IVs = []int{31, 31}
			},
			want: "has 2 IVs, want 6",
		},
		{
			name: "unreachable version",
			mutate: func(d *Data) {
				d.Sources[0].Statics[0].Version = types.X
			},
			want: "tagged X, which no game of GG receives",
		},
		{
			name: "nicknamed without names",
			mutate: func(d *Data) {
				d.Sources[0].Trades[0].IsNicknamed = true
			},
			want: "GG trade 1 is nicknamed but has no nicknames",
		},
		{
			name: "current level below met level",
			mutate: func(d *Data) {
				d.Sources[0].Trades[0].CurrentLevel = 5
			},
			want: "current level 5 below met level 12",
		},
		{
			name: "undefined rare spawn",
			mutate: func(d *Data) {
				d.Sources[0].Rare = []tables.RareSpawn{{Species: 6, Locations: []int{3}, Flying: true}}
			},
			want: "rare spawn references undefined species 6",
		},
		{
			name: "undefined swarm species",
			mutate: func(d *Data) {
				d.Sources[0].Swarms = []tables.SwarmMoves{{Location: 3, Species: 41}}
			},
			want: "swarm references undefined species 41",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validData(t)
			tt.mutate(d)
			err := validate(d)
			if err == nil {
				t.Fatal("expected error")
			}
			ve := err.(*ValidationError)
			assertContains(t, ve.Errors, tt.want)
		})
	}
}

func TestValidate_Warnings(t *testing.T) {
	d := validData(t)
	d.entries = append(d.entries, species.Personal{Species: 161})
	d.Sources = append(d.Sources, &tables.Source{Group: types.XY, Generation: 6})

	// Warnings alone do not fail validation.
	if err := validate(d); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
}
