// Package config loads encounterdex settings from a YAML file and the
// environment. Environment variables override the file.
//
// The settings file lives at $ENCOUNTERDEX_HOME/settings.yaml, or
// ~/.encounterdex/settings.yaml when ENCOUNTERDEX_HOME is unset:
//
//	data_dir: ./data
//	version: GP
//	language: de
//	seed: 42
//	trainer:
//	  ot: Red
//	  tid: 12345
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/nathoo/encounterdex/engine/lang"
	"github.com/nathoo/encounterdex/engine/version"
	"github.com/nathoo/encounterdex/types"
)

// Settings holds the shell configuration.
type Settings struct {
	// DataDir replaces the embedded encounter data with the .lua files in
	// this directory.
	DataDir string `yaml:"data_dir" env:"ENCOUNTERDEX_DATA_DIR"`
	// Version is the game queries use when they name none.
	Version string `yaml:"version" env:"ENCOUNTERDEX_VERSION"`
	// Language is a BCP 47 tag.
	Language   string  `yaml:"language" env:"ENCOUNTERDEX_LANG"`
	Seed       int64   `yaml:"seed" env:"ENCOUNTERDEX_SEED"`
	AllowGBEra bool    `yaml:"allow_gb_era" env:"ENCOUNTERDEX_ALLOW_GB_ERA"`
	Plain      bool    `yaml:"plain" env:"ENCOUNTERDEX_PLAIN"`
	Workers    int     `yaml:"workers" env:"ENCOUNTERDEX_WORKERS"`
	Trainer    Trainer `yaml:"trainer"`
}

// Trainer is the trainer synthesized creatures are generated for.
type Trainer struct {
	OT     string `yaml:"ot" env:"ENCOUNTERDEX_OT"`
	TID    int    `yaml:"tid" env:"ENCOUNTERDEX_TID"`
	SID    int    `yaml:"sid" env:"ENCOUNTERDEX_SID"`
	Gender string `yaml:"gender" env:"ENCOUNTERDEX_OT_GENDER"`
}

// Default returns the settings used when no file exists.
func Default() Settings {
	return Settings{
		Language: "en",
		Workers:  1,
		Trainer:  Trainer{OT: "Red", TID: 12345, SID: 54321, Gender: "male"},
	}
}

// Home returns the settings directory.
func Home() (string, error) {
	if h := os.Getenv("ENCOUNTERDEX_HOME"); h != "" {
		return h, nil
	}
	h, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate settings: %w", err)
	}
	return filepath.Join(h, ".encounterdex"), nil
}

// Load reads settings.yaml from dir over the defaults, then applies
// environment overrides. A missing file is not an error.
func Load(dir string) (Settings, error) {
	s := Default()
	path := filepath.Join(dir, "settings.yaml")
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return s, fmt.Errorf("read %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &s); err != nil {
			return s, fmt.Errorf("unmarshal %s: %w", path, err)
		}
	}
	if err := env.Parse(&s); err != nil {
		return s, fmt.Errorf("parse env: %w", err)
	}
	return s, s.check()
}

// check rejects values the shell could not use.
func (s Settings) check() error {
	if _, err := s.GameVersion(); err != nil {
		return err
	}
	if _, err := s.LanguageID(); err != nil {
		return err
	}
	if _, err := s.TrainerInfo(); err != nil {
		return err
	}
	if s.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", s.Workers)
	}
	return nil
}

// GameVersion resolves the default source game.
func (s Settings) GameVersion() (types.GameVersion, error) {
	if s.Version == "" {
		return types.Any, nil
	}
	v, ok := version.Parse(s.Version)
	if !ok {
		return 0, fmt.Errorf("unknown version %q", s.Version)
	}
	return v, nil
}

// LanguageID maps the configured tag to a record language.
func (s Settings) LanguageID() (types.LanguageID, error) {
	if s.Language == "" {
		return types.English, nil
	}
	return lang.Parse(s.Language)
}

// TrainerInfo returns the configured trainer. The game is left as Any so
// each template picks its own.
func (s Settings) TrainerInfo() (types.TrainerInfo, error) {
	l, err := s.LanguageID()
	if err != nil {
		return types.TrainerInfo{}, err
	}
	tr := types.TrainerInfo{
		OT:       s.Trainer.OT,
		TID:      s.Trainer.TID,
		SID:      s.Trainer.SID,
		Language: l,
	}
	switch strings.ToLower(s.Trainer.Gender) {
	case "", "male":
		tr.Gender = types.GenderMale
	case "female":
		tr.Gender = types.GenderFemale
	default:
		return tr, fmt.Errorf("trainer gender must be male or female, got %q", s.Trainer.Gender)
	}
	if s.Trainer.TID < 0 || s.Trainer.TID > 0xFFFF || s.Trainer.SID < 0 || s.Trainer.SID > 0xFFFF {
		return tr, fmt.Errorf("trainer ids must be in 0..65535")
	}
	return tr, nil
}
