// Package export implements JSON and YAML serialization of creatures and
// match reports.
package export

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nathoo/encounterdex/engine"
	"github.com/nathoo/encounterdex/engine/encounter"
	"github.com/nathoo/encounterdex/engine/lang"
	"github.com/nathoo/encounterdex/engine/pkm"
	"github.com/nathoo/encounterdex/engine/version"
	"github.com/nathoo/encounterdex/types"
)

const dateLayout = "2006-01-02"

// Memory is the format 6+ original trainer memory.
type Memory struct {
	Memory    int `json:"memory" yaml:"memory"`
	Intensity int `json:"intensity" yaml:"intensity"`
	Feeling   int `json:"feeling" yaml:"feeling"`
}

// Creature is the serializable creature format. Versions are short names
// and languages BCP 47 tags so files stay readable.
type Creature struct {
	Species  int    `json:"species" yaml:"species"`
	Form     int    `json:"form,omitempty" yaml:"form,omitempty"`
	Level    int    `json:"level" yaml:"level"`
	Format   int    `json:"format" yaml:"format"`
	Version  string `json:"version" yaml:"version"`
	Language string `json:"language" yaml:"language"`

	Nickname    string `json:"nickname,omitempty" yaml:"nickname,omitempty"`
	IsNicknamed bool   `json:"nicknamed,omitempty" yaml:"nicknamed,omitempty"`
	OT          string `json:"ot" yaml:"ot"`
	OTGender    int    `json:"ot_gender" yaml:"ot_gender"`
	TID         int    `json:"tid" yaml:"tid"`
	SID         int    `json:"sid" yaml:"sid"`

	PID                uint32 `json:"pid" yaml:"pid"`
	EncryptionConstant uint32 `json:"encryption_constant,omitempty" yaml:"encryption_constant,omitempty"`
	IVs                [6]int `json:"ivs" yaml:"ivs,flow"`
	Nature             int    `json:"nature" yaml:"nature"`
	Gender             int    `json:"gender" yaml:"gender"`
	AbilityNumber      int    `json:"ability_number,omitempty" yaml:"ability_number,omitempty"`
	Ability            int    `json:"ability,omitempty" yaml:"ability,omitempty"`

	Moves        [4]int `json:"moves" yaml:"moves,flow"`
	RelearnMoves [4]int `json:"relearn_moves" yaml:"relearn_moves,flow"`

	MetLevel    int    `json:"met_level,omitempty" yaml:"met_level,omitempty"`
	MetLocation int    `json:"met_location,omitempty" yaml:"met_location,omitempty"`
	MetDate     string `json:"met_date,omitempty" yaml:"met_date,omitempty"`
	EggLocation int    `json:"egg_location,omitempty" yaml:"egg_location,omitempty"`
	EggMetDate  string `json:"egg_met_date,omitempty" yaml:"egg_met_date,omitempty"`
	IsEgg       bool   `json:"egg,omitempty" yaml:"egg,omitempty"`

	Ball           int  `json:"ball,omitempty" yaml:"ball,omitempty"`
	Friendship     int  `json:"friendship,omitempty" yaml:"friendship,omitempty"`
	Fateful        bool `json:"fateful,omitempty" yaml:"fateful,omitempty"`
	NSparkle       bool `json:"n_sparkle,omitempty" yaml:"n_sparkle,omitempty"`
	VirtualConsole bool `json:"virtual_console,omitempty" yaml:"virtual_console,omitempty"`

	CurrentHandler int     `json:"current_handler,omitempty" yaml:"current_handler,omitempty"`
	HTName         string  `json:"ht_name,omitempty" yaml:"ht_name,omitempty"`
	HTGender       int     `json:"ht_gender,omitempty" yaml:"ht_gender,omitempty"`
	OTMemory       *Memory `json:"ot_memory,omitempty" yaml:"ot_memory,omitempty"`
}

// FromCreature converts a creature to its serializable form.
func FromCreature(pk *pkm.Creature) Creature {
	c := Creature{
		Species:            pk.Species,
		Form:               pk.Form,
		Level:              pk.CurrentLevel,
		Format:             pk.Format,
		Version:            version.Name(pk.Version),
		Language:           languageTag(pk.Language),
		Nickname:           pk.Nickname,
		IsNicknamed:        pk.IsNicknamed,
		OT:                 pk.OTName,
		OTGender:           pk.OTGender,
		TID:                pk.TID,
		SID:                pk.SID,
		PID:                pk.PID,
		EncryptionConstant: pk.EncryptionConstant,
		IVs:                pk.IVs,
		Nature:             int(pk.Nature),
		Gender:             pk.Gender,
		AbilityNumber:      pk.AbilityNumber,
		Ability:            pk.Ability,
		Moves:              pk.Moves,
		RelearnMoves:       pk.RelearnMoves,
		MetLevel:           pk.MetLevel,
		MetLocation:        pk.MetLocation,
		MetDate:            formatDate(pk.MetDate),
		EggLocation:        pk.EggLocation,
		EggMetDate:         formatDate(pk.EggMetDate),
		IsEgg:              pk.IsEgg,
		Ball:               pk.Ball,
		Friendship:         pk.OTFriendship,
		Fateful:            pk.FatefulEncounter,
		NSparkle:           pk.NSparkle,
		VirtualConsole:     pk.VirtualConsole,
		CurrentHandler:     pk.CurrentHandler,
		HTName:             pk.HTName,
		HTGender:           pk.HTGender,
	}
	if pk.OTMemory != 0 || pk.OTIntensity != 0 || pk.OTFeeling != 0 {
		c.OTMemory = &Memory{Memory: pk.OTMemory, Intensity: pk.OTIntensity, Feeling: pk.OTFeeling}
	}
	return c
}

// ToCreature converts the serializable form back to a creature.
func ToCreature(c Creature) (*pkm.Creature, error) {
	v, ok := version.Parse(c.Version)
	if !ok {
		return nil, fmt.Errorf("unknown version %q", c.Version)
	}
	l, err := parseLanguage(c.Language)
	if err != nil {
		return nil, err
	}
	met, err := parseDate(c.MetDate)
	if err != nil {
		return nil, fmt.Errorf("met_date: %w", err)
	}
	egg, err := parseDate(c.EggMetDate)
	if err != nil {
		return nil, fmt.Errorf("egg_met_date: %w", err)
	}

	pk := &pkm.Creature{
		Species:            c.Species,
		Form:               c.Form,
		CurrentLevel:       c.Level,
		Format:             c.Format,
		Version:            v,
		Language:           l,
		Nickname:           c.Nickname,
		IsNicknamed:        c.IsNicknamed,
		OTName:             c.OT,
		OTGender:           c.OTGender,
		TID:                c.TID,
		SID:                c.SID,
		PID:                c.PID,
		EncryptionConstant: c.EncryptionConstant,
		IVs:                c.IVs,
		Nature:             types.Nature(c.Nature),
		Gender:             c.Gender,
		AbilityNumber:      c.AbilityNumber,
		Ability:            c.Ability,
		Moves:              c.Moves,
		RelearnMoves:       c.RelearnMoves,
		MetLevel:           c.MetLevel,
		MetLocation:        c.MetLocation,
		MetDate:            met,
		EggLocation:        c.EggLocation,
		EggMetDate:         egg,
		IsEgg:              c.IsEgg,
		Ball:               c.Ball,
		OTFriendship:       c.Friendship,
		FatefulEncounter:   c.Fateful,
		NSparkle:           c.NSparkle,
		VirtualConsole:     c.VirtualConsole,
		CurrentHandler:     c.CurrentHandler,
		HTName:             c.HTName,
		HTGender:           c.HTGender,
	}
	if c.OTMemory != nil {
		pk.OTMemory, pk.OTIntensity, pk.OTFeeling = c.OTMemory.Memory, c.OTMemory.Intensity, c.OTMemory.Feeling
	}
	return pk, nil
}

// languageTag returns the tag of l, or "und" for the hacked sentinel.
func languageTag(l types.LanguageID) string {
	return lang.Tag(l).String()
}

func parseLanguage(s string) (types.LanguageID, error) {
	if s == "" || s == "und" {
		return types.LanguageHacked, nil
	}
	return lang.Parse(s)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(dateLayout, s)
}

// Node is one step of a serialized evolution chain.
type Node struct {
	Species  int `json:"species" yaml:"species"`
	Form     int `json:"form,omitempty" yaml:"form,omitempty"`
	MinLevel int `json:"min_level" yaml:"min_level"`
	Level    int `json:"level" yaml:"level"`
}

// MatchEntry is one serialized match.
type MatchEntry struct {
	Kind      string `json:"kind" yaml:"kind"`
	Species   int    `json:"species" yaml:"species"`
	Form      int    `json:"form,omitempty" yaml:"form,omitempty"`
	LevelMin  int    `json:"level_min" yaml:"level_min"`
	LevelMax  int    `json:"level_max" yaml:"level_max"`
	Location  int    `json:"location" yaml:"location"`
	Version   string `json:"version" yaml:"version"`
	Method    string `json:"method,omitempty" yaml:"method,omitempty"`
	Condition string `json:"condition" yaml:"condition"`
	Deferred  bool   `json:"deferred,omitempty" yaml:"deferred,omitempty"`
}

// Report is a creature together with where it could have come from.
type Report struct {
	Creature Creature     `json:"creature" yaml:"creature"`
	Source   string       `json:"source" yaml:"source"`
	Chain    []Node       `json:"chain" yaml:"chain"`
	Matches  []MatchEntry `json:"matches" yaml:"matches"`
}

// NewReport builds the report of an analysis.
func NewReport(pk *pkm.Creature, a *engine.Analysis) Report {
	r := Report{
		Creature: FromCreature(pk),
		Source:   version.Name(a.Source),
		Chain:    make([]Node, 0, len(a.Chain)),
		Matches:  make([]MatchEntry, 0, len(a.Matches)),
	}
	for _, e := range a.Chain {
		r.Chain = append(r.Chain, Node{Species: e.Species, Form: e.Form, MinLevel: e.MinLevel, Level: e.Level})
	}
	for _, m := range a.Matches {
		id := m.Template.Identity()
		entry := MatchEntry{
			Kind:      id.Kind.String(),
			Species:   id.Species,
			Form:      id.Form,
			LevelMin:  id.LevelMin,
			LevelMax:  id.LevelMax,
			Location:  id.Location,
			Version:   version.Name(id.Version),
			Condition: m.Describe(),
			Deferred:  m.Deferred,
		}
		if s, ok := m.Template.(*encounter.Slot); ok {
			entry.Method = encounter.MethodName(s.Area.Method)
			entry.Version = version.Name(s.Area.Version)
		}
		r.Matches = append(r.Matches, entry)
	}
	return r
}

// Format is a serialization format.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

// FormatFor picks the format from a file extension. Anything that is not
// .yaml or .yml is JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	}
	return JSON
}

// Encode serializes v in format f.
func Encode(v any, f Format) ([]byte, error) {
	switch f {
	case JSON:
		return json.MarshalIndent(v, "", "  ")
	case YAML:
		return yaml.Marshal(v)
	}
	return nil, fmt.Errorf("unknown format %q", f)
}

// LoadCreature deserializes a creature file.
func LoadCreature(data []byte, f Format) (*pkm.Creature, error) {
	var c Creature
	var err error
	switch f {
	case JSON:
		err = json.Unmarshal(data, &c)
	case YAML:
		err = yaml.Unmarshal(data, &c)
	default:
		err = fmt.Errorf("unknown format %q", f)
	}
	if err != nil {
		return nil, err
	}
	return ToCreature(c)
}
