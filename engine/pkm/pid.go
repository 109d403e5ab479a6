package pkm

import "github.com/nathoo/encounterdex/types"

// shinyXor returns the shiny comparison value for pid under tid/sid.
func shinyXor(pid uint32, tid, sid int) uint32 {
	return uint32(tid&0xFFFF) ^ uint32(sid&0xFFFF) ^ (pid >> 16) ^ (pid & 0xFFFF)
}

// shinyThreshold is 8 before gen 7 and 16 from gen 7 on.
func shinyThreshold(format int) uint32 {
	if format >= 7 {
		return 16
	}
	return 8
}

// IsShinyPID reports whether pid is shiny for the trainer ids.
func IsShinyPID(pid uint32, tid, sid, format int) bool {
	return shinyXor(pid, tid, sid) < shinyThreshold(format)
}

// ForceShiny rewrites the high half of pid so that it is shiny for tid/sid,
// keeping the low half.
func ForceShiny(pid uint32, tid, sid int) uint32 {
	low := pid & 0xFFFF
	high := uint32(tid&0xFFFF) ^ uint32(sid&0xFFFF) ^ low
	return high<<16 | low
}

// ForceNotShiny flips a high bit of pid when it would be shiny.
func ForceNotShiny(pid uint32, tid, sid, format int) uint32 {
	if !IsShinyPID(pid, tid, sid, format) {
		return pid
	}
	return pid ^ 0x10000000
}

// GenderFromPID derives a gen 3-5 gender from pid and the species gender
// ratio (0 all male, 254 all female, 255 genderless).
func GenderFromPID(pid uint32, ratio int) int {
	switch ratio {
	case 255:
		return types.GenderGenderless
	case 254:
		return types.GenderFemale
	case 0:
		return types.GenderMale
	}
	if int(pid&0xFF) < ratio {
		return types.GenderFemale
	}
	return types.GenderMale
}

// NatureFromPID is the gen 3-4 nature encoded in a PID.
func NatureFromPID(pid uint32) types.Nature {
	return types.Nature(pid % 25)
}

// AbilityBit returns the ability slot bit a gen 3-5 PID selects: bit 0
// for gens 3 and 4, bit 16 for gen 5.
func AbilityBit(pid uint32, gen int) int {
	if gen == 5 {
		return int(pid>>16) & 1
	}
	return int(pid & 1)
}

// CountFlawless returns how many IVs are at the maximum of 31.
func CountFlawless(ivs [6]int) int {
	n := 0
	for _, iv := range ivs {
		if iv == 31 {
			n++
		}
	}
	return n
}
