package loader

import (
	"strings"
	"testing"

	"github.com/nathoo/encounterdex/engine/encounter"
	"github.com/nathoo/encounterdex/engine/pack"
	"github.com/nathoo/encounterdex/engine/species"
	"github.com/nathoo/encounterdex/engine/tables"
	"github.com/nathoo/encounterdex/types"
	lua "github.com/yuin/gopher-lua"
)

// newTestVM creates a sandboxed Lua VM with the API registered and a fresh collector.
func newTestVM() (*lua.LState, *collector) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibs(L)
	sandbox(L)
	coll := &collector{}
	registerAPI(L, coll)
	return L, coll
}

// evalTable runs src, which must return a table.
func evalTable(t *testing.T, L *lua.LState, src string) *lua.LTable {
	t.Helper()
	if err := L.DoString(src); err != nil {
		t.Fatal(err)
	}
	return L.CheckTable(-1)
}

// runGame runs src and returns the single Game it declared.
func runGame(t *testing.T, src string) *rawGame {
	t.Helper()
	L, coll := newTestVM()
	t.Cleanup(L.Close)
	if err := coll.run(L, "test.lua", []byte(src)); err != nil {
		t.Fatal(err)
	}
	if len(coll.games) != 1 {
		t.Fatalf("games = %d, want 1", len(coll.games))
	}
	return coll.games[0]
}

func TestCompileSpecies(t *testing.T) {
	L, _ := newTestVM()
	defer L.Close()

	p, err := compileSpecies(evalTable(t, L, `
		return {
			id = 20, form = 1, name = "Raticate",
			abilities = {82, 55, 47},
			gen1_moves = {33, 39},
			egg_moves = {179, 68},
			learnset = {{7, 116}, {1, 33}, {4, 98}},
			from = {{19, "level", 20, 1}, {19, "item"}},
		}
	`))
	if err != nil {
		t.Fatal(err)
	}

	if p.Species != 20 || p.Form != 1 || p.Name != "Raticate" {
		t.Errorf("identity = %d-%d %q", p.Species, p.Form, p.Name)
	}
	if p.GenderRatio != 127 || p.BaseFriendship != 70 {
		t.Errorf("defaults: gender %d friendship %d", p.GenderRatio, p.BaseFriendship)
	}
	if p.Abilities != [3]int{82, 55, 47} {
		t.Errorf("Abilities = %v", p.Abilities)
	}
	if p.Gen1Moves != [4]int{33, 39} {
		t.Errorf("Gen1Moves = %v", p.Gen1Moves)
	}
	if len(p.Learnset) != 3 || p.Learnset[0] != (species.LevelMove{Level: 7, Move: 116}) {
		t.Errorf("Learnset = %v", p.Learnset)
	}

	want := []species.PreEvolution{
		{Species: 19, Form: 1, Method: species.LevelUp, Level: 20},
		{Species: 19, Method: species.Item},
	}
	if len(p.PreEvolutions) != len(want) {
		t.Fatalf("PreEvolutions = %+v", p.PreEvolutions)
	}
	for i := range want {
		if p.PreEvolutions[i] != want[i] {
			t.Errorf("PreEvolutions[%d] = %+v, want %+v", i, p.PreEvolutions[i], want[i])
		}
	}
}

func TestCompileSpecies_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"missing id", `return { name = "Nobody" }`, "no id"},
		{"unknown method", `return { id = 2, from = {{1, "friendship"}} }`, "unknown method"},
		{"bad learnset", `return { id = 2, learnset = {{5}} }`, "learnset entry 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			L, _ := newTestVM()
			defer L.Close()
			_, err := compileSpecies(evalTable(t, L, tt.src))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestCompileGame_AreasPackedPerVersion(t *testing.T) {
	g := runGame(t, `
		Game "ORAS" { generation = 6, boost = "oras" }
		Area "ORAS" { location = 5, method = "RockSmash", slots = {{74, 10, 10}} }
		Area "OR" { location = 5, method = "Grass", slots = {{74, 10, 10}, {19, 1, 2, 3}} }
	`)
	src, err := compileGame(g)
	if err != nil {
		t.Fatal(err)
	}
	if src.Group != types.ORAS || src.Generation != 6 || src.Boost != encounter.ORASBoost {
		t.Errorf("source = %+v", src)
	}

	tests := []struct {
		v     types.GameVersion
		areas int
	}{
		{types.OR, 2},
		{types.AS, 1},
	}
	for _, tt := range tests {
		res, ok := src.Resources[tt.v]
		if !ok {
			t.Errorf("no resource for %v", tt.v)
			continue
		}
		if res.Ident != "or" {
			t.Errorf("%v ident = %q", tt.v, res.Ident)
		}
		raws, err := pack.Unpack(res.Data, res.Ident)
		if err != nil {
			t.Fatal(err)
		}
		if len(raws) != tt.areas {
			t.Errorf("%v areas = %d, want %d", tt.v, len(raws), tt.areas)
		}
	}

	raws, _ := pack.Unpack(src.Resources[types.OR].Data, "or")
	a, err := tables.DecodeArea(raws[1], types.OR, 6, src.Boost)
	if err != nil {
		t.Fatal(err)
	}
	if a.Method != types.Grass || len(a.Slots) != 2 {
		t.Fatalf("area = %+v", a)
	}
	if s := a.Slots[1]; s.Species != 19 || s.Form != 1 || s.LevelMin != 2 || s.LevelMax != 3 {
		t.Errorf("slot = %+v", s)
	}
}

func TestCompileGame_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"unknown group", `Game "Colosseum" {}`, "unknown version"},
		{"unknown boost", `Game "XY" { boost = "radar" }`, "unknown boost"},
		{"area outside group", `Game "XY" {} Area "OR" { location = 1, method = "Grass", slots = {{19, 2, 3}} }`, "not part of XY"},
		{"unknown method", `Game "XY" {} Area "X" { location = 1, method = "Dive", slots = {} }`, "unknown method"},
		{"inverted levels", `Game "XY" {} Area "X" { location = 1, method = "Grass", slots = {{19, 5, 3}} }`, "level range 5-3"},
		{"short slot", `Game "XY" {} Area "X" { location = 1, method = "Grass", slots = {{19, 5}} }`, "slot 1"},
		{"bad gender", `Game "XY" {} Static { species = 1, level = 5, gender = "both" }`, "unknown gender"},
		{"bad shiny", `Game "XY" {} Static { species = 1, level = 5, shiny = "sometimes" }`, "unknown shiny"},
		{"bad version", `Game "XY" {} Trade { species = 1, level = 5, version = "Z" }`, "unknown version"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compileGame(runGame(t, tt.src))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestCompileGame_DefaultIdent(t *testing.T) {
	src, err := compileGame(runGame(t, `
		Game "HGSS" {}
		Area "HG" { location = 177, method = "Grass", slots = {{16, 2, 3}} }
	`))
	if err != nil {
		t.Fatal(err)
	}
	if src.Generation != 4 {
		t.Errorf("Generation = %d, want 4 from the group", src.Generation)
	}
	if got := src.Resources[types.HG].Ident; got != "hg" {
		t.Errorf("ident = %q, want hg", got)
	}
}

func TestCompileStatic(t *testing.T) {
	src, err := compileGame(runGame(t, `
		Game "B2W2" { generation = 5 }
		Static { species = 509, level = 10 }
		Static { species = 509, level = 10, pid = 0xA0000001, nature = 22, ability = 1, n = true,
			version = "W2", gender = "female", ivs = {30, 30, 30, 30, 30, 30} }
		Static { species = 570, form = "any", level = 10, shiny = "never", gift = true, moves = {10, 43} }
	`))
	if err != nil {
		t.Fatal(err)
	}
	if len(src.Statics) != 3 {
		t.Fatalf("statics = %d", len(src.Statics))
	}

	plain := src.Statics[0]
	if plain.Version != types.B2W2 || plain.Generation != 5 {
		t.Errorf("version = %v gen %d", plain.Version, plain.Generation)
	}
	if plain.Nature != types.NatureRandom || plain.Gender != types.GenderRandom || plain.Shiny != types.ShinyRandom {
		t.Errorf("defaults: nature %v gender %d shiny %v", plain.Nature, plain.Gender, plain.Shiny)
	}

	n := src.Statics[1]
	if n.Shiny != types.ShinyFixedValue || n.PID != 0xA0000001 {
		t.Errorf("fixed PID: shiny %v pid %#x", n.Shiny, n.PID)
	}
	if n.Nature != 22 || n.Ability != 1 || !n.NPokemon || n.Version != types.W2 || n.Gender != types.GenderFemale {
		t.Errorf("static = %+v", n)
	}
	if len(n.IVs) != 6 || n.IVs[0] != 30 {
		t.Errorf("IVs = %v", n.IVs)
	}

	gift := src.Statics[2]
	if gift.Form != encounter.FormAny || gift.Shiny != types.ShinyNever || !gift.Gift {
		t.Errorf("gift = %+v", gift)
	}
	if gift.Moves != [4]int{10, 43} {
		t.Errorf("Moves = %v", gift.Moves)
	}
}

func TestCompileTrade(t *testing.T) {
	src, err := compileGame(runGame(t, `
		Game "GG" { generation = 7 }
		Trade { species = 19, form = 1, level = 12, tid7 = 121106, ot_gender = 1,
			ivs = {31, 31, -1, -1, -1, -1}, nicknamed = false,
			ot = { ja = "ミニコ", en = "Tatianna", ["zh-Hant"] = "小幂妮" } }
		Trade { species = 66, level = 5, current_level = 8, evolve = true,
			nicknames = { en = "MUSCLE", de = "KANTO" } }
	`))
	if err != nil {
		t.Fatal(err)
	}
	if len(src.Trades) != 2 {
		t.Fatalf("trades = %d", len(src.Trades))
	}

	rattata := src.Trades[0]
	if rattata.TID != 121106&0xFFFF || rattata.SID != 121106>>16 {
		t.Errorf("TID/SID = %d/%d", rattata.TID, rattata.SID)
	}
	if rattata.OTGender != 1 || rattata.IsNicknamed || rattata.HasNickname() {
		t.Errorf("trade = %+v", rattata)
	}
	if got := rattata.OT(types.English); got != "Tatianna" {
		t.Errorf("OT(en) = %q", got)
	}
	if got := rattata.OT(types.ChineseTrad); got != "小幂妮" {
		t.Errorf("OT(zh-Hant) = %q", got)
	}
	if got := rattata.OT(types.French); got != "" {
		t.Errorf("OT(fr) = %q, want empty", got)
	}

	machop := src.Trades[1]
	if machop.OTGender != -1 {
		t.Errorf("OTGender default = %d, want -1", machop.OTGender)
	}
	if !machop.IsNicknamed || machop.Nickname(types.German) != "KANTO" {
		t.Errorf("nicknames = %v", machop.Nicknames)
	}
	if machop.CurrentLevel != 8 || !machop.EvolveOnTrade || machop.HasTrainerName() {
		t.Errorf("trade = %+v", machop)
	}
}

func TestCompileTrade_BadLanguageTable(t *testing.T) {
	_, err := compileGame(runGame(t, `
		Game "GG" {}
		Trade { species = 19, level = 12, ot = { "Tatianna" } }
	`))
	if err == nil || !strings.Contains(err.Error(), "trainer names") {
		t.Errorf("error = %v", err)
	}
}

func TestCompile_CollectsAllErrors(t *testing.T) {
	L, coll := newTestVM()
	defer L.Close()
	err := coll.run(L, "bad.lua", []byte(`
		Species { { name = "Nobody" } }
		Game "Colosseum" {}
	`))
	if err != nil {
		t.Fatal(err)
	}
	_, err = compile(coll)
	if err == nil {
		t.Fatal("expected compile error")
	}
	for _, want := range []string{"no id", "unknown version"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err, want)
		}
	}
}

func TestRun_ScopesGamePerFile(t *testing.T) {
	L, coll := newTestVM()
	defer L.Close()
	if err := coll.run(L, "a.lua", []byte(`Game "XY" {}`)); err != nil {
		t.Fatal(err)
	}
	err := coll.run(L, "b.lua", []byte(`Static { species = 1, level = 5 }`))
	if err == nil || !strings.Contains(err.Error(), "Static declared before any Game in b.lua") {
		t.Errorf("error = %v", err)
	}
}
