package synth

import (
	"fmt"

	"github.com/nathoo/encounterdex/engine/pkm"
	"github.com/nathoo/encounterdex/engine/species"
	"github.com/nathoo/encounterdex/types"
)

// maxPIDAttempts bounds the search for a gen 3-5 PID. A satisfiable request
// needs about a hundred draws.
const maxPIDAttempts = 1 << 20

// applyPINGA sets PID, IVs, nature, gender and ability.
func (s *Synthesizer) applyPINGA(pk *pkm.Creature, p *plan, pi species.Personal, c types.Criteria) error {
	gen := pk.Format
	pk.Nature = s.pickNature(p.nature, c.Nature)
	gender := s.pickGender(p.gender, c.Gender, pi.GenderRatio)
	if gen >= 3 {
		pk.AbilityNumber = s.pickAbility(p.ability, c.AbilityNumber, pi)
		pk.Ability = pi.Abilities[abilityIndex(pk.AbilityNumber)]
	}

	switch {
	case gen <= 2:
		pk.Gender = gender
	case p.shiny == types.ShinyFixedValue:
		pk.PID = p.pid
		pk.Gender = gender
		if gen <= 5 {
			pk.Gender = pkm.GenderFromPID(p.pid, pi.GenderRatio)
		}
	case gen <= 5:
		pid, err := s.wildPID(pk, p.shiny, gender, pi.GenderRatio)
		if err != nil {
			return err
		}
		pk.PID = pid
		pk.Gender = gender
	default:
		pk.PID = applyShiny(s.Rand.Uint32(), p.shiny, pk)
		pk.Gender = gender
	}

	pk.IVs = s.ivs(p, gen)
	return nil
}

// wildPID draws PIDs until one encodes the chosen nature (gens 3-4),
// gender and ability slot and obeys the shiny policy.
func (s *Synthesizer) wildPID(pk *pkm.Creature, shiny types.Shiny, gender, ratio int) (uint32, error) {
	for range maxPIDAttempts {
		pid := applyShiny(s.Rand.Uint32(), shiny, pk)
		if pk.Format <= 4 && pkm.NatureFromPID(pid) != pk.Nature {
			continue
		}
		if pkm.GenderFromPID(pid, ratio) != gender {
			continue
		}
		if pk.AbilityNumber != 4 && 1<<pkm.AbilityBit(pid, pk.Format) != pk.AbilityNumber {
			continue
		}
		if shiny == types.ShinyNever && pkm.IsShinyPID(pid, pk.TID, pk.SID, pk.Format) {
			continue
		}
		return pid, nil
	}
	return 0, fmt.Errorf("no PID for nature %d gender %d ability %d: %w",
		pk.Nature, gender, pk.AbilityNumber, ErrInconsistentTemplate)
}

func applyShiny(pid uint32, shiny types.Shiny, pk *pkm.Creature) uint32 {
	switch shiny {
	case types.ShinyAlways:
		return pkm.ForceShiny(pid, pk.TID, pk.SID)
	case types.ShinyNever:
		return pkm.ForceNotShiny(pid, pk.TID, pk.SID, pk.Format)
	}
	return pid
}

func (s *Synthesizer) pickNature(template, want types.Nature) types.Nature {
	switch {
	case template != types.NatureRandom:
		return template
	case want >= 0 && want < types.NatureRandom:
		return want
	}
	return types.Nature(s.Rand.Intn(int(types.NatureRandom)))
}

// pickGender honors a fixed species ratio first, then the template, then
// the criteria.
func (s *Synthesizer) pickGender(template, want, ratio int) int {
	switch ratio {
	case 255:
		return types.GenderGenderless
	case 254:
		return types.GenderFemale
	case 0:
		return types.GenderMale
	}
	switch {
	case template != types.GenderRandom:
		return template
	case want == types.GenderMale || want == types.GenderFemale:
		return want
	}
	if s.Rand.Intn(256) < ratio {
		return types.GenderFemale
	}
	return types.GenderMale
}

// pickAbility returns an ability number. The hidden ability is only given
// when the template requires it.
func (s *Synthesizer) pickAbility(template, want int, pi species.Personal) int {
	switch {
	case template != 0:
		return template
	case want == 1 || want == 2:
		return want
	case pi.Abilities[1] == 0 || pi.Abilities[1] == pi.Abilities[0]:
		return 1
	}
	return 1 << s.Rand.Intn(2)
}

func abilityIndex(number int) int {
	switch number {
	case 2:
		return 1
	case 4:
		return 2
	}
	return 0
}

// ivs fills fixed IVs from the template and the rest at random, then raises
// random IVs to 31 until the flawless count is met. Gens 1-2 use 0-15.
func (s *Synthesizer) ivs(p *plan, gen int) [6]int {
	var out [6]int
	if p.static != nil && p.static.NPokemon {
		for i := range out {
			out[i] = 30
		}
		return out
	}
	top := 31
	if gen <= 2 {
		top = 15
	}
	var open []int
	for i := range out {
		if i < len(p.ivs) && p.ivs[i] >= 0 {
			out[i] = p.ivs[i]
			continue
		}
		out[i] = s.Rand.Intn(top + 1)
		open = append(open, i)
	}
	if gen <= 2 {
		return out
	}
	for pkm.CountFlawless(out) < p.flawless {
		var cand []int
		for _, i := range open {
			if out[i] != 31 {
				cand = append(cand, i)
			}
		}
		if len(cand) == 0 {
			break
		}
		out[cand[s.Rand.Intn(len(cand))]] = 31
	}
	return out
}
