package export

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/nathoo/encounterdex/engine"
	"github.com/nathoo/encounterdex/engine/encounter"
	"github.com/nathoo/encounterdex/engine/pkm"
	"github.com/nathoo/encounterdex/types"
)

func testCreature() *pkm.Creature {
	return &pkm.Creature{
		Species:            19,
		Form:               1,
		CurrentLevel:       12,
		Format:             7,
		Version:            types.GP,
		Language:           types.German,
		Nickname:           "Rattfratz",
		OTName:             "Barbaratt",
		OTGender:           1,
		TID:                121106 & 0xFFFF,
		SID:                121106 >> 16,
		PID:                0x12345678,
		EncryptionConstant: 0x9ABCDEF0,
		IVs:                [6]int{31, 31, 4, 15, 20, 9},
		Nature:             13,
		Gender:             1,
		AbilityNumber:      2,
		Ability:            55,
		Moves:              [4]int{33, 39, 98, 116},
		MetLevel:           12,
		MetLocation:        30001,
		MetDate:            time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Ball:               4,
		OTFriendship:       70,
		CurrentHandler:     1,
		HTName:             "Red",
		OTMemory:           63,
		OTIntensity:        6,
		OTFeeling:          2,
	}
}

func TestRoundTrip(t *testing.T) {
	for _, f := range []Format{JSON, YAML} {
		t.Run(string(f), func(t *testing.T) {
			want := testCreature()
			data, err := Encode(FromCreature(want), f)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			got, err := LoadCreature(data, f)
			if err != nil {
				t.Fatalf("LoadCreature failed: %v", err)
			}
			if !got.MetDate.Equal(want.MetDate) {
				t.Errorf("MetDate = %v, want %v", got.MetDate, want.MetDate)
			}
			got.MetDate, want.MetDate = time.Time{}, time.Time{}
			if *got != *want {
				t.Errorf("round trip mismatch:\n got %+v\nwant %+v", *got, *want)
			}
		})
	}
}

func TestFromCreature_ReadableFields(t *testing.T) {
	c := FromCreature(testCreature())
	if c.Version != "GP" {
		t.Errorf("Version = %q", c.Version)
	}
	if c.Language != "de" {
		t.Errorf("Language = %q", c.Language)
	}
	if c.MetDate != "2026-03-01" {
		t.Errorf("MetDate = %q", c.MetDate)
	}
	if c.OTMemory == nil || c.OTMemory.Memory != 63 {
		t.Errorf("OTMemory = %+v", c.OTMemory)
	}

	data, err := json.Marshal(FromCreature(&pkm.Creature{Species: 1, Format: 3, Version: types.FR}))
	if err != nil {
		t.Fatal(err)
	}
	for _, absent := range []string{"met_date", "ot_memory", "egg"} {
		if strings.Contains(string(data), absent) {
			t.Errorf("empty field %q serialized: %s", absent, data)
		}
	}
}

func TestLanguageSentinel(t *testing.T) {
	pk := testCreature()
	pk.Language = types.LanguageHacked
	c := FromCreature(pk)
	if c.Language != "und" {
		t.Errorf("Language = %q, want und", c.Language)
	}
	back, err := ToCreature(c)
	if err != nil {
		t.Fatal(err)
	}
	if back.Language != types.LanguageHacked {
		t.Errorf("Language = %d, want 0", back.Language)
	}
}

func TestToCreature_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Creature)
	}{
		{"unknown version", func(c *Creature) { c.Version = "Snap" }},
		{"bad language", func(c *Creature) { c.Language = "not a tag!" }},
		{"bad met date", func(c *Creature) { c.MetDate = "yesterday" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := FromCreature(testCreature())
			tt.mutate(&c)
			if _, err := ToCreature(c); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadCreature_BadInput(t *testing.T) {
	if _, err := LoadCreature([]byte("{"), JSON); err == nil {
		t.Error("expected JSON syntax error")
	}
	if _, err := LoadCreature([]byte("species: [1"), YAML); err == nil {
		t.Error("expected YAML syntax error")
	}
	if _, err := LoadCreature([]byte("{}"), Format("toml")); err == nil {
		t.Error("expected unknown format error")
	}
}

func TestFormatFor(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"rattata.yaml", YAML},
		{"RATTATA.YML", YAML},
		{"rattata.json", JSON},
		{"rattata", JSON},
	}
	for _, tt := range tests {
		if got := FormatFor(tt.path); got != tt.want {
			t.Errorf("FormatFor(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestNewReport(t *testing.T) {
	e, err := engine.Default(engine.Options{})
	if err != nil {
		t.Fatal(err)
	}
	pk := &pkm.Creature{Species: 74, CurrentLevel: 40, MetLevel: 40, MetLocation: 5, Format: 6, Version: types.OR}
	a, err := e.Analyze(context.Background(), pk.View(), types.Any)
	if err != nil {
		t.Fatal(err)
	}
	r := NewReport(pk, a)
	if len(r.Chain) != 1 || r.Chain[0].Species != 74 {
		t.Errorf("Chain = %+v", r.Chain)
	}
	if len(r.Matches) != 1 {
		t.Fatalf("Matches = %+v", r.Matches)
	}
	m := r.Matches[0]
	if m.Kind != encounter.KindSlot.String() || m.Method != "Grass" || m.Version != "OR" {
		t.Errorf("match = %+v", m)
	}
	if m.Condition != "Valid Wild Encounter at location (DexNav)." {
		t.Errorf("Condition = %q", m.Condition)
	}

	data, err := Encode(r, YAML)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "method: Grass") {
		t.Errorf("YAML report missing method:\n%s", data)
	}
}
