package encounter

import (
	"testing"

	"github.com/nathoo/encounterdex/engine/pkm"
	"github.com/nathoo/encounterdex/types"
)

func orasArea(method types.SlotType) (*Area, *Slot) {
	a := &Area{Location: 5, Method: method, Version: types.ORAS, Generation: 6, Boost: ORASBoost}
	return a, a.NewSlot(74, 0, 10, 10)
}

func wild(level int) *pkm.Creature {
	return &pkm.Creature{
		Species: 74, Format: 6, Version: types.OR,
		CurrentLevel: level, MetLevel: level, MetLocation: 5,
	}
}

func node(c *pkm.Creature) types.EvoCriteria {
	return types.EvoCriteria{Species: c.Species, Form: c.Form, MinLevel: c.MetLevel, Level: c.CurrentLevel}
}

func TestSlot_LevelWindows(t *testing.T) {
	tests := []struct {
		name   string
		method types.SlotType
		level  int
		match  bool
		boost  Boost
	}{
		{"base window", types.Grass, 10, true, BoostNone},
		{"decrease", types.Grass, 6, true, BoostDecrease},
		{"below decrease", types.Grass, 5, false, BoostNone},
		{"increase", types.Grass, 14, true, BoostIncrease},
		{"chain", types.Grass, 40, true, BoostChain},
		{"above chain", types.Grass, 41, false, BoostNone},
		{"rock smash decrease", types.RockSmash, 6, true, BoostDecrease},
		{"rock smash no increase", types.RockSmash, 14, false, BoostNone},
		{"rock smash no chain", types.RockSmash, 30, false, BoostNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, s := orasArea(tt.method)
			c := wild(tt.level)
			if got := s.IsMatch(c.View(), node(c)); got != tt.match {
				t.Fatalf("IsMatch() = %v, want %v", got, tt.match)
			}
			a, ok := EvaluateSlot(s, c.View(), node(c))
			if ok != tt.match {
				t.Fatalf("EvaluateSlot ok = %v, want %v", ok, tt.match)
			}
			if ok && a.Boost != tt.boost {
				t.Errorf("Boost = %v, want %v", a.Boost, tt.boost)
			}
		})
	}
}

func TestSlot_NoBoostPolicy(t *testing.T) {
	a := &Area{Location: 1, Method: types.Grass, Version: types.E, Generation: 3}
	s := a.NewSlot(74, 0, 10, 12)
	c := &pkm.Creature{Species: 74, Format: 3, Version: types.E, CurrentLevel: 13, MetLevel: 13}
	if s.IsMatch(c.View(), node(c)) {
		t.Error("level 13 should not match [10,12] without boosts")
	}
	c.MetLevel = 12
	if !s.IsMatch(c.View(), node(c)) {
		t.Error("level 12 should match [10,12]")
	}
}

func TestSlot_ChainEvidence(t *testing.T) {
	_, grass := orasArea(types.Grass)
	c := wild(10)
	c.AbilityNumber = 4
	a, ok := EvaluateSlot(grass, c.View(), node(c))
	if !ok || a.Boost != BoostNone || !a.ChainEvidence {
		t.Errorf("hidden ability: got %+v, %v", a, ok)
	}
	if got := a.Describe(); got != "Valid Wild Encounter at location (DexNav)." {
		t.Errorf("Describe() = %q", got)
	}

	// Flute and chain evidence coexist; the flute string wins.
	c = wild(6)
	c.RelearnMoves[0] = 153
	a, _ = EvaluateSlot(grass, c.View(), node(c))
	if a.Boost != BoostDecrease || !a.ChainEvidence {
		t.Errorf("relearn move with flute: got %+v", a)
	}
	if got := a.Describe(); got != "Valid Wild Encounter at location (White Flute)." {
		t.Errorf("Describe() = %q", got)
	}

	_, smash := orasArea(types.RockSmash)
	c = wild(10)
	c.AbilityNumber = 4
	if a, _ := EvaluateSlot(smash, c.View(), node(c)); a.ChainEvidence {
		t.Error("rock smash cannot chain")
	}
}

func TestSlot_FormWildcard(t *testing.T) {
	a := &Area{Location: 3, Method: types.Grass, Version: types.GP, Generation: 7}
	s := a.NewSlot(74, FormAny, 3, 56)
	c := &pkm.Creature{Species: 74, Form: 1, Format: 7, Version: types.GP, CurrentLevel: 20, MetLevel: 20}
	if !s.IsMatch(c.View(), node(c)) {
		t.Error("wildcard form should match form 1")
	}
	s2 := a.NewSlot(74, 0, 3, 56)
	if s2.IsMatch(c.View(), node(c)) {
		t.Error("form 0 slot should not match form 1")
	}
}

func TestSlot_VersionMembership(t *testing.T) {
	a := &Area{Location: 3, Method: types.Grass, Version: types.GP, Generation: 7}
	s := a.NewSlot(74, 0, 3, 56)
	c := &pkm.Creature{Species: 74, Format: 7, Version: types.GE, CurrentLevel: 20, MetLevel: 20}
	if s.IsMatch(c.View(), node(c)) {
		t.Error("GP slot should not match a GE creature")
	}
	a.Version = types.GG
	if !s.IsMatch(c.View(), node(c)) {
		t.Error("GG slot should match a GE creature")
	}
}

func TestSlot_NoMetUsesNodeWindow(t *testing.T) {
	a := &Area{Location: 1, Method: types.Grass, Version: types.RSE, Generation: 3}
	s := a.NewSlot(74, 0, 20, 22)
	c := &pkm.Creature{Species: 74, Format: 5, Version: types.E, CurrentLevel: 40, MetLevel: 30}
	if s.IsMatch(c.View(), types.EvoCriteria{Species: 74, MinLevel: 1, Level: 19}) {
		t.Error("node window [1,19] should not intersect [20,22]")
	}
	if !s.IsMatch(c.View(), types.EvoCriteria{Species: 74, MinLevel: 1, Level: 21}) {
		t.Error("node window [1,21] should intersect [20,22]")
	}
}

func gift() *Static {
	return &Static{
		Species: 25, Form: 8, Level: 5, Location: 28, Version: types.GP, Generation: 7,
		Nature: types.NatureRandom, Gender: types.GenderRandom,
		IVs: []int{31, 31, 31, 31, 31, 31}, Shiny: types.ShinyNever, Gift: true,
	}
}

func giftCreature() *pkm.Creature {
	return &pkm.Creature{
		Species: 25, Form: 8, Format: 7, Version: types.GP,
		CurrentLevel: 5, MetLevel: 5, MetLocation: 28,
		IVs: [6]int{31, 31, 31, 31, 31, 31}, TID: 1, SID: 2, PID: 0x12345678,
	}
}

func TestStatic_IsMatch(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*pkm.Creature)
		want   bool
	}{
		{"exact", func(*pkm.Creature) {}, true},
		{"wrong location", func(c *pkm.Creature) { c.MetLocation = 29 }, false},
		{"wrong met level", func(c *pkm.Creature) { c.MetLevel = 6 }, false},
		{"wrong iv", func(c *pkm.Creature) { c.IVs[3] = 30 }, false},
		{"wrong version", func(c *pkm.Creature) { c.Version = types.GE }, false},
		{"shiny", func(c *pkm.Creature) { c.PID = pkm.ForceShiny(c.PID, c.TID, c.SID) }, false},
		{"wrong form", func(c *pkm.Creature) { c.Form = 0 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := giftCreature()
			tt.mutate(c)
			if got := gift().IsMatch(c.View(), node(c)); got != tt.want {
				t.Errorf("IsMatch() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStatic_Deferred(t *testing.T) {
	legend := &Static{
		Species: 144, Level: 50, Location: 44, Version: types.GG, Generation: 7,
		Nature: types.NatureRandom, Gender: types.GenderRandom, FlawlessIVCount: 3,
	}
	c := &pkm.Creature{
		Species: 144, Format: 7, Version: types.GP, CurrentLevel: 50, MetLevel: 50, MetLocation: 44,
		IVs: [6]int{31, 31, 10, 12, 31, 5},
	}
	if !legend.IsMatch(c.View(), node(c)) {
		t.Fatal("expected identity match")
	}
	if legend.IsMatchDeferred(c.View()) {
		t.Error("three perfect IVs should not defer")
	}
	c.IVs[4] = 30
	if !legend.IsMatchDeferred(c.View()) {
		t.Error("two perfect IVs should defer")
	}
	if !legend.IsMatch(c.View(), node(c)) {
		t.Error("deferral must not affect IsMatch")
	}

	legend.Ability = 4
	c.IVs[4] = 31
	c.AbilityNumber = 1
	if !legend.IsMatchDeferred(c.View()) {
		t.Error("ability mismatch should defer")
	}
}

func TestStatic_FixedPID(t *testing.T) {
	n := &Static{
		Species: 509, Level: 7, Location: 34, Version: types.BW, Generation: 5,
		Nature: types.NatureRandom, Gender: types.GenderRandom,
		Shiny: types.ShinyFixedValue, PID: 0x0B700004, NPokemon: true, IVs: []int{30, 30, 30, 30, 30, 30},
	}
	c := &pkm.Creature{
		Species: 509, Format: 5, Version: types.B, CurrentLevel: 7, MetLevel: 7, MetLocation: 34,
		PID: 0x0B700004, TID: NTID, SID: NSID, IVs: [6]int{30, 30, 30, 30, 30, 30},
	}
	if !n.IsMatch(c.View(), node(c)) {
		t.Fatal("expected match")
	}
	a := EvaluateStatic(n, c.View())
	if !a.FixedPID || a.Shiny != pkm.IsShinyPID(n.PID, NTID, NSID, 5) {
		t.Errorf("annotations = %+v", a)
	}
	c.PID++
	if n.IsMatch(c.View(), node(c)) {
		t.Error("different PID should not match")
	}
	c.PID--
	c.TID = 3
	if n.IsMatch(c.View(), node(c)) {
		t.Error("N's gifts need TID 2")
	}
}

func rattata() *Trade {
	t := &Trade{
		Species: 19, Form: 1, Level: 12, Version: types.GG, Generation: 7,
		Nature: types.NatureRandom, Gender: types.GenderRandom, Shiny: types.ShinyRandom,
		OTGender: 1, IVs: []int{31, 31, -1, -1, -1, -1}, Ball: 4,
		TrainerNames: []string{"", "ミニコ", "Tatianna", "BarbaRatatta", "Addoloratta", "Barbaratt", "", "Tatiana", "미니꼬", "小幂妮", "小幂妮"},
	}
	t.SetTID7(121106)
	return t
}

func TestTrade_SetTID7(t *testing.T) {
	tr := rattata()
	if tr.TID != 55570 || tr.SID != 1 {
		t.Errorf("TID/SID = %d/%d, want 55570/1", tr.TID, tr.SID)
	}
}

func TestTrade_IsMatch(t *testing.T) {
	base := func() *pkm.Creature {
		tr := rattata()
		return &pkm.Creature{
			Species: 19, Form: 1, Format: 7, Version: types.GE, CurrentLevel: 20,
			MetLevel: 12, MetLocation: DefaultMetLocation(7), OTGender: 1,
			TID: tr.TID, SID: tr.SID, IVs: [6]int{31, 31, 4, 5, 6, 7},
		}
	}
	tests := []struct {
		name   string
		mutate func(*pkm.Creature)
		want   bool
	}{
		{"exact", func(*pkm.Creature) {}, true},
		{"shiny allowed", func(c *pkm.Creature) { c.PID = pkm.ForceShiny(1, c.TID, c.SID) }, true},
		{"wrong tid", func(c *pkm.Creature) { c.TID++ }, false},
		{"wrong ot gender", func(c *pkm.Creature) { c.OTGender = 0 }, false},
		{"wrong fixed iv", func(c *pkm.Creature) { c.IVs[1] = 30 }, false},
		{"wrong met level", func(c *pkm.Creature) { c.MetLevel = 13 }, false},
		{"wrong met location", func(c *pkm.Creature) { c.MetLocation = 28 }, false},
		{"egg location", func(c *pkm.Creature) { c.EggLocation = 60002 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)
			if got := rattata().IsMatch(c.View(), node(c)); got != tt.want {
				t.Errorf("IsMatch() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTrade_FixedPIDUsesEncryptionConstant(t *testing.T) {
	tr := &Trade{
		Species: 124, Level: 20, Version: types.FRLG, Generation: 3,
		Nature: types.NatureRandom, Gender: types.GenderRandom, Shiny: types.ShinyFixedValue,
		PID: 0x0000A3E3, TID: 1239, SID: 0, OTGender: 1,
	}
	c := &pkm.Creature{
		Species: 124, Format: 3, Version: types.LG, CurrentLevel: 25,
		MetLevel: 20, MetLocation: DefaultMetLocation(3), OTGender: 1, TID: 1239,
		PID: 0x0000A3E3, EncryptionConstant: 0x0000A3E3,
		Gender: types.GenderMale, Nature: 3,
	}
	if !tr.IsMatch(c.View(), node(c)) {
		t.Fatal("expected fixed-PID trade to match")
	}
	c.EncryptionConstant = 1
	if tr.IsMatch(c.View(), node(c)) {
		t.Error("encryption constant mismatch should not match")
	}
}

func TestAnnotations_Describe(t *testing.T) {
	tests := []struct {
		a    Annotations
		want string
	}{
		{Annotations{Kind: KindSlot}, "Valid Wild Encounter at location."},
		{Annotations{Kind: KindSlot, Boost: BoostIncrease}, "Valid Wild Encounter at location (Black Flute)."},
		{Annotations{Kind: KindSlot, Boost: BoostChain}, "Valid Wild Encounter at location (DexNav)."},
		{Annotations{Kind: KindStatic}, "Valid gift/static encounter."},
		{Annotations{Kind: KindTrade}, "Valid in-game trade."},
	}
	for _, tt := range tests {
		if got := tt.a.Describe(); got != tt.want {
			t.Errorf("Describe(%+v) = %q, want %q", tt.a, got, tt.want)
		}
	}
}

func TestEvaluate_Dispatch(t *testing.T) {
	c := giftCreature()
	a, ok := Evaluate(gift(), c.View(), node(c))
	if !ok || a.Kind != KindStatic || a.FixedPID {
		t.Errorf("Evaluate(static) = %+v, %v", a, ok)
	}
	a, ok = Evaluate(rattata(), c.View(), node(c))
	if !ok || a.Kind != KindTrade {
		t.Errorf("Evaluate(trade) = %+v, %v", a, ok)
	}
}

func TestString(t *testing.T) {
	_, s := orasArea(types.RockSmash)
	if got, want := String(s), "slot #74 L10 @5 [ORAS]"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got, want := String(gift()), "static #25-8 L5 @28 [GP]"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestParseMethod(t *testing.T) {
	tests := []struct {
		in   string
		want types.SlotType
		ok   bool
	}{
		{"RockSmash", types.RockSmash, true},
		{"rock_smash", types.RockSmash, true},
		{"grass", types.Grass, true},
		{"SOS", types.SOS, true},
		{"lure", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseMethod(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseMethod(%q) = %v, %v", tt.in, got, ok)
		}
	}
	if MethodName(types.GoPark) != "GoPark" {
		t.Errorf("MethodName(GoPark) = %q", MethodName(types.GoPark))
	}
}
