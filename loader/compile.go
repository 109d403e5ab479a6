// Package loader compiles Lua encounter data into the species table and the
// per-group encounter sources. The Lua VM is discarded after loading; the
// engine only ever sees Go structs and packed area records.
package loader

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/nathoo/encounterdex/engine/encounter"
	"github.com/nathoo/encounterdex/engine/lang"
	"github.com/nathoo/encounterdex/engine/pack"
	"github.com/nathoo/encounterdex/engine/species"
	"github.com/nathoo/encounterdex/engine/tables"
	"github.com/nathoo/encounterdex/engine/version"
	"github.com/nathoo/encounterdex/types"
	lua "github.com/yuin/gopher-lua"
)

// rawSpecies holds a species entry before compilation.
type rawSpecies struct {
	file  string
	table *lua.LTable
}

// rawArea holds an area table and the version it was declared for.
type rawArea struct {
	version string
	table   *lua.LTable
}

// rawGame holds a Game declaration and everything declared after it in the
// same file.
type rawGame struct {
	group   string
	file    string
	table   *lua.LTable
	areas   []rawArea
	statics []*lua.LTable
	trades  []*lua.LTable
	rare    []*lua.LTable
	swarms  []*lua.LTable
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getBool returns a bool field from a Lua table, or the default if missing.
func getBool(tbl *lua.LTable, key string, def bool) bool {
	v := tbl.RawGetString(key)
	if b, ok := v.(lua.LBool); ok {
		return bool(b)
	}
	return def
}

// getNumber returns a numeric field from a Lua table, or 0 if missing.
func getNumber(tbl *lua.LTable, key string) float64 {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return float64(n)
	}
	return 0
}

// getInt returns an int field from a Lua table, or 0 if missing.
func getInt(tbl *lua.LTable, key string) int {
	return int(getNumber(tbl, key))
}

// getIntDefault returns an int field, or def if missing.
func getIntDefault(tbl *lua.LTable, key string, def int) int {
	if _, ok := tbl.RawGetString(key).(lua.LNumber); ok {
		return getInt(tbl, key)
	}
	return def
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

// toInts converts the array part of a Lua table to ints. Non-numbers
// become 0.
func toInts(v lua.LValue) []int {
	tbl, ok := v.(*lua.LTable)
	if !ok {
		return nil
	}
	out := make([]int, 0, tbl.MaxN())
	for i := 1; i <= tbl.MaxN(); i++ {
		n, _ := tbl.RawGetInt(i).(lua.LNumber)
		out = append(out, int(n))
	}
	return out
}

// getInts returns an int array field, or nil if missing.
func getInts(tbl *lua.LTable, key string) []int {
	return toInts(tbl.RawGetString(key))
}

// getMoves returns up to four moves from an array field.
func getMoves(tbl *lua.LTable, key string) [4]int {
	var out [4]int
	copy(out[:], getInts(tbl, key))
	return out
}

// getEntries returns the table entries of an array field.
func getEntries(tbl *lua.LTable, key string) []*lua.LTable {
	arr := getTable(tbl, key)
	if arr == nil {
		return nil
	}
	var out []*lua.LTable
	for i := 1; i <= arr.MaxN(); i++ {
		if e, ok := arr.RawGetInt(i).(*lua.LTable); ok {
			out = append(out, e)
		}
	}
	return out
}

// compile converts collected Lua tables into Data. Every entry is compiled
// and all failures are reported together.
func compile(coll *collector) (*Data, error) {
	var errs []error
	data := &Data{}

	for _, raw := range coll.species {
		p, err := compileSpecies(raw.table)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", raw.file, err))
			continue
		}
		data.entries = append(data.entries, p)
	}
	data.Species = species.NewTable(data.entries)

	for _, g := range coll.games {
		src, err := compileGame(g)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", g, err))
			continue
		}
		data.Sources = append(data.Sources, src)
	}
	return data, errors.Join(errs...)
}

var evolutionMethods = map[string]species.Method{
	"level":       species.LevelUp,
	"level_other": species.LevelUpOther,
	"trade":       species.Trade,
	"item":        species.Item,
}

func compileSpecies(tbl *lua.LTable) (species.Personal, error) {
	p := species.Personal{
		Species:        getInt(tbl, "id"),
		Form:           getInt(tbl, "form"),
		Name:           getString(tbl, "name"),
		GenderRatio:    getIntDefault(tbl, "gender", 127),
		BaseFriendship: getIntDefault(tbl, "friendship", 70),
		EggMoves:       getInts(tbl, "egg_moves"),
		FormChangeable: getBool(tbl, "form_change", false),
	}
	if p.Species <= 0 {
		return p, fmt.Errorf("species entry %q has no id", p.Name)
	}
	copy(p.Abilities[:], getInts(tbl, "abilities"))
	copy(p.Gen1Moves[:], getInts(tbl, "gen1_moves"))

	if ls := getTable(tbl, "learnset"); ls != nil {
		for i := 1; i <= ls.MaxN(); i++ {
			pair := toInts(ls.RawGetInt(i))
			if len(pair) != 2 {
				return p, fmt.Errorf("species %d: learnset entry %d is not {level, move}", p.Species, i)
			}
			p.Learnset = append(p.Learnset, species.LevelMove{Level: pair[0], Move: pair[1]})
		}
	}

	for i, e := range getEntries(tbl, "from") {
		name, _ := e.RawGetInt(2).(lua.LString)
		method, ok := evolutionMethods[string(name)]
		if !ok {
			return p, fmt.Errorf("species %d: pre-evolution %d has unknown method %q", p.Species, i+1, name)
		}
		nums := toInts(e)
		pre := species.PreEvolution{Method: method}
		if len(nums) > 0 {
			pre.Species = nums[0]
		}
		if len(nums) > 2 {
			pre.Level = nums[2]
		}
		if len(nums) > 3 {
			pre.Form = nums[3]
		}
		p.PreEvolutions = append(p.PreEvolutions, pre)
	}
	return p, nil
}

func compileGame(g *rawGame) (*tables.Source, error) {
	group, ok := version.Parse(g.group)
	if !ok {
		return nil, fmt.Errorf("unknown version %q", g.group)
	}
	src := &tables.Source{
		Group:      group,
		Generation: getIntDefault(g.table, "generation", version.Generation(group)),
		Resources:  map[types.GameVersion]tables.Resource{},
	}

	switch b := getString(g.table, "boost"); b {
	case "", "none":
	case "oras":
		src.Boost = encounter.ORASBoost
	default:
		return nil, fmt.Errorf("unknown boost policy %q", b)
	}

	ident := getString(g.table, "ident")
	if ident == "" {
		ident = (strings.ToLower(version.Name(group)) + "__")[:2]
	}

	perVersion := map[types.GameVersion][][]byte{}
	for i, a := range g.areas {
		v, ok := version.Parse(a.version)
		if !ok {
			return nil, fmt.Errorf("area %d: unknown version %q", i+1, a.version)
		}
		raw, err := compileArea(a.table)
		if err != nil {
			return nil, fmt.Errorf("area %d: %w", i+1, err)
		}
		for _, m := range version.Members(v) {
			if !version.Contains(group, m) {
				return nil, fmt.Errorf("area %d: %s is not part of %s", i+1, version.Name(m), version.Name(group))
			}
			perVersion[m] = append(perVersion[m], raw)
		}
	}
	for v, raws := range perVersion {
		data, err := pack.Pack(raws, ident)
		if err != nil {
			return nil, fmt.Errorf("packing %s areas: %w", version.Name(v), err)
		}
		src.Resources[v] = tables.Resource{Data: data, Ident: ident}
	}

	for i, tbl := range g.statics {
		s, err := compileStatic(tbl, src)
		if err != nil {
			return nil, fmt.Errorf("static %d: %w", i+1, err)
		}
		src.Statics = append(src.Statics, s)
	}
	for i, tbl := range g.trades {
		t, err := compileTrade(tbl, src)
		if err != nil {
			return nil, fmt.Errorf("trade %d: %w", i+1, err)
		}
		src.Trades = append(src.Trades, t)
	}
	for _, tbl := range g.rare {
		src.Rare = append(src.Rare, tables.RareSpawn{
			Species:   getInt(tbl, "species"),
			Locations: getInts(tbl, "locations"),
			Flying:    getBool(tbl, "flying", false),
		})
	}
	for _, tbl := range g.swarms {
		src.Swarms = append(src.Swarms, tables.SwarmMoves{
			Location: getInt(tbl, "location"),
			Species:  getInt(tbl, "species"),
			Moves:    getMoves(tbl, "moves"),
		})
	}
	return src, nil
}

// compileArea encodes an area table into its packed record.
func compileArea(tbl *lua.LTable) ([]byte, error) {
	name := getString(tbl, "method")
	method, ok := encounter.ParseMethod(name)
	if !ok {
		return nil, fmt.Errorf("unknown method %q", name)
	}
	var slots []tables.RawSlot
	for i, e := range getEntries(tbl, "slots") {
		nums := toInts(e)
		var s tables.RawSlot
		switch len(nums) {
		case 3:
			s = tables.RawSlot{Species: nums[0], LevelMin: nums[1], LevelMax: nums[2]}
		case 4:
			s = tables.RawSlot{Species: nums[0], Form: nums[1], LevelMin: nums[2], LevelMax: nums[3]}
		default:
			return nil, fmt.Errorf("slot %d: want {species, [form,] min, max}", i+1)
		}
		if s.LevelMin < 1 || s.LevelMin > s.LevelMax || s.LevelMax > 100 {
			return nil, fmt.Errorf("slot %d: level range %d-%d", i+1, s.LevelMin, s.LevelMax)
		}
		slots = append(slots, s)
	}
	return tables.EncodeArea(getInt(tbl, "location"), method, getBool(tbl, "swarm", false), slots)
}

// fixed holds the fields statics and trades share.
type fixed struct {
	version types.GameVersion
	form    int
	nature  types.Nature
	gender  int
	shiny   types.Shiny
	ivs     []int
}

func compileFixed(tbl *lua.LTable, src *tables.Source) (fixed, error) {
	f := fixed{
		version: src.Group,
		form:    getInt(tbl, "form"),
		nature:  types.NatureRandom,
		gender:  types.GenderRandom,
		shiny:   types.ShinyRandom,
		ivs:     getInts(tbl, "ivs"),
	}
	if s := getString(tbl, "version"); s != "" {
		v, ok := version.Parse(s)
		if !ok {
			return f, fmt.Errorf("unknown version %q", s)
		}
		f.version = v
	}
	if getString(tbl, "form") == "any" {
		f.form = encounter.FormAny
	}
	if _, ok := tbl.RawGetString("nature").(lua.LNumber); ok {
		f.nature = types.Nature(getInt(tbl, "nature"))
	}
	switch g := getString(tbl, "gender"); g {
	case "":
	case "male":
		f.gender = types.GenderMale
	case "female":
		f.gender = types.GenderFemale
	case "genderless":
		f.gender = types.GenderGenderless
	default:
		return f, fmt.Errorf("unknown gender %q", g)
	}
	switch s := getString(tbl, "shiny"); s {
	case "", "random":
	case "never":
		f.shiny = types.ShinyNever
	case "always":
		f.shiny = types.ShinyAlways
	default:
		return f, fmt.Errorf("unknown shiny policy %q", s)
	}
	if _, ok := tbl.RawGetString("pid").(lua.LNumber); ok {
		f.shiny = types.ShinyFixedValue
	}
	return f, nil
}

func compileStatic(tbl *lua.LTable, src *tables.Source) (*encounter.Static, error) {
	f, err := compileFixed(tbl, src)
	if err != nil {
		return nil, err
	}
	return &encounter.Static{
		Species:         getInt(tbl, "species"),
		Form:            f.form,
		Level:           getInt(tbl, "level"),
		Version:         f.version,
		Generation:      src.Generation,
		Location:        getInt(tbl, "location"),
		EggLocation:     getInt(tbl, "egg_location"),
		Ability:         getInt(tbl, "ability"),
		Nature:          f.nature,
		Gender:          f.gender,
		Shiny:           f.shiny,
		PID:             uint32(getNumber(tbl, "pid")),
		IVs:             f.ivs,
		FlawlessIVCount: getInt(tbl, "flawless"),
		Moves:           getMoves(tbl, "moves"),
		Ball:            getInt(tbl, "ball"),
		Gift:            getBool(tbl, "gift", false),
		Fateful:         getBool(tbl, "fateful", false),
		NPokemon:        getBool(tbl, "n", false),
	}, nil
}

func compileTrade(tbl *lua.LTable, src *tables.Source) (*encounter.Trade, error) {
	f, err := compileFixed(tbl, src)
	if err != nil {
		return nil, err
	}
	t := &encounter.Trade{
		Species:         getInt(tbl, "species"),
		Form:            f.form,
		Level:           getInt(tbl, "level"),
		CurrentLevel:    getInt(tbl, "current_level"),
		Version:         f.version,
		Generation:      src.Generation,
		Location:        getInt(tbl, "location"),
		EggLocation:     getInt(tbl, "egg_location"),
		Ability:         getInt(tbl, "ability"),
		Nature:          f.nature,
		Gender:          f.gender,
		Shiny:           f.shiny,
		PID:             uint32(getNumber(tbl, "pid")),
		TID:             getInt(tbl, "tid"),
		SID:             getInt(tbl, "sid"),
		OTGender:        getIntDefault(tbl, "ot_gender", -1),
		IVs:             f.ivs,
		FlawlessIVCount: getInt(tbl, "flawless"),
		Moves:           getMoves(tbl, "moves"),
		Ball:            getInt(tbl, "ball"),
		EvolveOnTrade:   getBool(tbl, "evolve", false),
		Fateful:         getBool(tbl, "fateful", false),
	}
	if id := getInt(tbl, "tid7"); id != 0 {
		t.SetTID7(id)
	}
	if t.Nicknames, err = languageTable(getTable(tbl, "nicknames")); err != nil {
		return nil, fmt.Errorf("nicknames: %w", err)
	}
	if t.TrainerNames, err = languageTable(getTable(tbl, "ot")); err != nil {
		return nil, fmt.Errorf("trainer names: %w", err)
	}
	t.IsNicknamed = getBool(tbl, "nicknamed", len(t.Nicknames) != 0)
	return t, nil
}

// languageTable converts a table keyed by BCP 47 tags into a slice indexed
// by record language id.
func languageTable(tbl *lua.LTable) ([]string, error) {
	if tbl == nil {
		return nil, nil
	}
	out := make([]string, types.LanguageCount)
	var err error
	tbl.ForEach(func(k, v lua.LValue) {
		ks, ok1 := k.(lua.LString)
		vs, ok2 := v.(lua.LString)
		if !ok1 || !ok2 {
			err = fmt.Errorf("entries must be tag = \"name\"")
			return
		}
		id, perr := lang.Parse(string(ks))
		if perr != nil {
			err = perr
			return
		}
		out[id] = string(vs)
	})
	return out, err
}

// sortedLuaFiles returns files with species.lua first, rest alphabetical.
func sortedLuaFiles(files []string) []string {
	sort.Strings(files)
	for i, f := range files {
		if f == "species.lua" && i > 0 {
			copy(files[1:i+1], files[:i])
			files[0] = f
			break
		}
	}
	return files
}
