package tables

import (
	"slices"

	"github.com/nathoo/encounterdex/engine/encounter"
)

// RareSpawn lists the locations a rare species can additionally appear at.
// Flying spawns appear across a wide level range instead of borrowing the
// area's first slot.
type RareSpawn struct {
	Species   int
	Locations []int
	Flying    bool
}

// Flying spawn level range.
const (
	flyingLevelMin = 3
	flyingLevelMax = 56
)

// augment appends the rare spawns for each area's location. It runs once
// per table build on freshly decoded areas.
func augment(areas []*encounter.Area, rare []RareSpawn) {
	for _, a := range areas {
		if len(a.Slots) == 0 {
			continue
		}
		first := a.Slots[0]
		for _, r := range rare {
			if !slices.Contains(r.Locations, a.Location) {
				continue
			}
			lo, hi := first.LevelMin, first.LevelMax
			if r.Flying {
				lo, hi = flyingLevelMin, flyingLevelMax
			}
			a.NewSlot(r.Species, 0, lo, hi)
		}
	}
}

// SwarmMoves prescribes the moves of a swarm slot. The packed area records
// carry no moves, so they are attached after decoding.
type SwarmMoves struct {
	Location int
	Species  int
	Moves    [4]int
}

func applySwarmMoves(areas []*encounter.Area, swarms []SwarmMoves) {
	for _, a := range areas {
		if !a.Swarm {
			continue
		}
		for _, sw := range swarms {
			if sw.Location != a.Location {
				continue
			}
			for _, s := range a.Slots {
				if s.Species == sw.Species {
					s.Moves = sw.Moves
				}
			}
		}
	}
}
