// Package synth generates creature instances from encounter templates.
//
// Synthesis runs a fixed sequence of steps against a scratch creature and
// only hands it out once every step has succeeded. All randomness comes from
// the injected Source, so a seeded source gives reproducible output.
package synth

import (
	"errors"
	"fmt"
	"time"

	"github.com/nathoo/encounterdex/engine/encounter"
	"github.com/nathoo/encounterdex/engine/lang"
	"github.com/nathoo/encounterdex/engine/pkm"
	"github.com/nathoo/encounterdex/engine/species"
	"github.com/nathoo/encounterdex/engine/version"
	"github.com/nathoo/encounterdex/types"
)

var (
	// ErrVersionMismatch is returned when the trainer's game is not one the
	// template can be generated into.
	ErrVersionMismatch = errors.New("template does not cover the target version")
	// ErrInconsistentTemplate is returned for templates whose fields
	// contradict each other or the species data.
	ErrInconsistentTemplate = errors.New("inconsistent template")
)

// Source is the entropy synthesis draws from.
type Source interface {
	Uint32() uint32
	// Intn returns a value in [0, n).
	Intn(n int) int
}

// Species is the species data synthesis reads.
type Species interface {
	species.Personals
	species.Learnsets
}

// Synthesizer builds creatures from templates. It holds no mutable state of
// its own; concurrent use is safe when Rand is.
type Synthesizer struct {
	Species   Species
	Rand      Source
	Now       func() time.Time
	EdgeCases []EdgeCase
}

// New returns a synthesizer using the wall clock and the standard edge
// cases.
func New(sp Species, rnd Source) *Synthesizer {
	return &Synthesizer{Species: sp, Rand: rnd, Now: time.Now, EdgeCases: EdgeCases}
}

// Ball ids.
const (
	BallPoke = 4
)

// G1TradeOT is the trainer name gen 1 stamps on every in-game trade.
const G1TradeOT = "TRAINER"

const (
	memoryTraded         = 63
	memoryTradeIntensity = 6
	memoryFeelings       = 10
)

// Synthesize builds a new creature from t for the trainer, honoring the
// criteria where the template leaves a choice.
func (s *Synthesizer) Synthesize(t encounter.Template, tr types.TrainerInfo, c types.Criteria) (*pkm.Creature, error) {
	pk := &pkm.Creature{}
	if err := s.build(pk, t, tr, c); err != nil {
		return nil, fmt.Errorf("synthesize %s: %w", encounter.String(t), err)
	}
	return pk, nil
}

// SynthesizeInto is Synthesize writing into dst. On error dst is left
// untouched.
func (s *Synthesizer) SynthesizeInto(dst *pkm.Creature, t encounter.Template, tr types.TrainerInfo, c types.Criteria) error {
	pk, err := s.Synthesize(t, tr, c)
	if err != nil {
		return err
	}
	*dst = *pk
	return nil
}

func (s *Synthesizer) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// build runs every step in order: species, language, trainer and names,
// PID and IVs, moves, met data, egg data, edge cases, then the
// format-specific finish.
func (s *Synthesizer) build(pk *pkm.Creature, t encounter.Template, tr types.TrainerInfo, c types.Criteria) error {
	p, err := prescribe(t)
	if err != nil {
		return err
	}
	v, err := targetVersion(p.version, tr.Game)
	if err != nil {
		return err
	}
	gen := p.gen
	if gen == 0 {
		gen = version.Generation(v)
	}
	pk.Format = gen
	pk.Version = v

	pk.Species, pk.Form = p.species, p.form
	if pk.Form == encounter.FormAny {
		pk.Form = 0
	}
	if p.trade != nil && p.trade.EvolveOnTrade {
		pk.Species++
	}
	pi, ok := s.Species.Personal(pk.Species, pk.Form)
	if !ok {
		return fmt.Errorf("no personal data for species %d: %w", pk.Species, ErrInconsistentTemplate)
	}
	pk.CurrentLevel = p.level

	pk.Language = lang.Safe(gen, tr.Language)
	s.applyTrainer(pk, p, tr, pi)

	if err := s.applyPINGA(pk, p, pi, c); err != nil {
		return err
	}
	s.applyMoves(pk, p)

	now := s.now()
	s.applyMet(pk, p, now)
	if p.eggLocation != 0 {
		pk.EggLocation = p.eggLocation
		if gen >= 4 {
			pk.EggMetDate = now
		}
	}
	pk.FatefulEncounter = p.fateful
	pk.Ball = p.ball
	pk.OTFriendship = pi.BaseFriendship

	if p.trade != nil {
		s.applyEdgeCases(pk, p.trade)
	}
	s.finish(pk, p, tr)
	return nil
}

// targetVersion picks the concrete game to generate into. A trainer
// without a game takes the template's first recipient.
func targetVersion(set, game types.GameVersion) (types.GameVersion, error) {
	if game == types.Any {
		members := version.Recipients(set)
		if len(members) == 0 {
			return 0, fmt.Errorf("no concrete game for %s: %w", version.Name(set), ErrVersionMismatch)
		}
		return members[0], nil
	}
	if version.IsGroup(game) {
		return 0, fmt.Errorf("target %s is a group: %w", version.Name(game), ErrVersionMismatch)
	}
	if set != types.Any && !version.Receives(set, game) {
		return 0, fmt.Errorf("%s not in %s: %w", version.Name(game), version.Name(set), ErrVersionMismatch)
	}
	return game, nil
}

// applyTrainer sets the trainer ids and names.
func (s *Synthesizer) applyTrainer(pk *pkm.Creature, p *plan, tr types.TrainerInfo, pi species.Personal) {
	pk.OTName, pk.OTGender = tr.OT, tr.Gender
	pk.TID, pk.SID = tr.TID, tr.SID
	pk.Nickname, pk.IsNicknamed = pi.Name, false

	switch {
	case p.trade != nil:
		t := p.trade
		switch {
		case pk.Format == 1:
			pk.OTName = G1TradeOT
		case t.HasTrainerName():
			pk.OTName = t.OT(pk.Language)
		}
		if t.HasTrainerName() {
			pk.OTGender = max(0, t.OTGender)
		}
		if t.HasNickname() {
			if nick := t.Nickname(pk.Language); nick != "" {
				pk.Nickname, pk.IsNicknamed = nick, true
			}
		}
		pk.TID, pk.SID = t.TID, t.SID
	case p.static != nil && p.static.NPokemon:
		pk.OTName = nTrainerName(pk.Language)
		pk.OTGender = types.GenderMale
		pk.TID, pk.SID = encounter.NTID, encounter.NSID
		pk.NSparkle = true
	}
}

func nTrainerName(l types.LanguageID) string {
	if l == types.Japanese {
		return "Ｎ"
	}
	return "N"
}

// applyMoves sets explicit moves, else the level-up moves of the species
// the creature ends up as. Gen 1 falls back to the innate moves of the
// template's species.
func (s *Synthesizer) applyMoves(pk *pkm.Creature, p *plan) {
	moves := p.moves
	if moves == ([4]int{}) {
		moves = s.Species.LevelUpMoves(pk.Species, pk.Form, p.level)
	}
	if pk.Format == 1 && moves == ([4]int{}) {
		if tpi, ok := s.Species.Personal(p.species, pk.Form); ok {
			moves = tpi.Gen1Moves
		}
	}
	pk.Moves = moves
}

// applyMet stamps the met data. Gen 1 has none; gen 2 only keeps it on
// Crystal, and trades received elsewhere lose their OT gender.
func (s *Synthesizer) applyMet(pk *pkm.Creature, p *plan, now time.Time) {
	switch {
	case pk.Format == 1:
		return
	case pk.Format == 2 && pk.Version != types.C:
		if p.trade != nil {
			pk.OTGender = types.GenderMale
		}
		return
	}
	pk.MetLevel = p.metLevel
	pk.MetLocation = p.location
	if pk.Format >= 4 {
		pk.MetDate = now
	}
}

// finish applies the encryption constant, the handling trainer, memories
// and the slot extras.
func (s *Synthesizer) finish(pk *pkm.Creature, p *plan, tr types.TrainerInfo) {
	if pk.Format < 6 {
		if pk.Format >= 3 {
			pk.EncryptionConstant = pk.PID
		}
		return
	}
	if p.trade != nil {
		pk.CurrentHandler = 1
		pk.HTName = tr.OT
		pk.HTGender = tr.Gender
	}
	if p.trade != nil && p.trade.Shiny == types.ShinyFixedValue {
		pk.EncryptionConstant = p.trade.PID
	} else {
		pk.EncryptionConstant = s.Rand.Uint32()
	}
	if p.slot != nil && pk.Format == 6 && p.slot.CanChain() {
		if eggs := s.baseEggMoves(pk); len(eggs) > 0 {
			pk.RelearnMoves[0] = eggs[s.Rand.Intn(len(eggs))]
		}
	}
	if pk.Format == 6 {
		pk.OTMemory = memoryTraded
		pk.OTIntensity = memoryTradeIntensity
		pk.OTFeeling = s.Rand.Intn(memoryFeelings)
	}
}

// baseEggMoves returns the egg moves of the least evolved form of pk.
func (s *Synthesizer) baseEggMoves(pk *pkm.Creature) []int {
	sp, form := pk.Species, pk.Form
	for range 4 {
		pi, ok := s.Species.Personal(sp, form)
		if !ok || len(pi.PreEvolutions) == 0 {
			break
		}
		sp, form = pi.PreEvolutions[0].Species, pi.PreEvolutions[0].Form
	}
	return s.Species.EggMoves(sp, form)
}
