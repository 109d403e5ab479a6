package tables

import (
	"encoding/binary"
	"fmt"

	"github.com/nathoo/encounterdex/engine/encounter"
	"github.com/nathoo/encounterdex/engine/pack"
	"github.com/nathoo/encounterdex/types"
)

const (
	areaHeaderSize = 4
	slotSize       = 4
	speciesMask    = 0x7FF
	formShift      = 11
)

// DecodeArea decodes one raw area record:
//
//	u16 location, u8 method, u8 swarm, then slots of
//	u16 species|form<<11, u8 level min, u8 level max
func DecodeArea(raw []byte, v types.GameVersion, gen int, boost *encounter.BoostPolicy) (*encounter.Area, error) {
	if len(raw) < areaHeaderSize || (len(raw)-areaHeaderSize)%slotSize != 0 {
		return nil, fmt.Errorf("area record of %d bytes: %w", len(raw), pack.ErrMalformed)
	}
	a := &encounter.Area{
		Location:   int(binary.LittleEndian.Uint16(raw)),
		Method:     types.SlotType(raw[2]),
		Swarm:      raw[3] != 0,
		Version:    v,
		Generation: gen,
		Boost:      boost,
	}
	count := (len(raw) - areaHeaderSize) / slotSize
	a.Slots = make([]*encounter.Slot, 0, count)
	for i := range count {
		off := areaHeaderSize + i*slotSize
		sf := int(binary.LittleEndian.Uint16(raw[off:]))
		lo, hi := int(raw[off+2]), int(raw[off+3])
		if lo > hi {
			return nil, fmt.Errorf("area %d slot %d: level %d-%d: %w", a.Location, i, lo, hi, pack.ErrMalformed)
		}
		a.NewSlot(sf&speciesMask, sf>>formShift, lo, hi)
	}
	return a, nil
}

// RawSlot is the input form of one slot for EncodeArea.
type RawSlot struct {
	Species  int
	Form     int
	LevelMin int
	LevelMax int
}

// EncodeArea is the inverse of DecodeArea.
func EncodeArea(location int, method types.SlotType, swarm bool, slots []RawSlot) ([]byte, error) {
	if location < 0 || location > 0xFFFF {
		return nil, fmt.Errorf("location %d out of range", location)
	}
	buf := make([]byte, areaHeaderSize+slotSize*len(slots))
	binary.LittleEndian.PutUint16(buf, uint16(location))
	buf[2] = byte(method)
	if swarm {
		buf[3] = 1
	}
	for i, s := range slots {
		if s.Species <= 0 || s.Species > speciesMask || s.Form < 0 || s.Form > 0x1F {
			return nil, fmt.Errorf("slot %d: species %d form %d out of range", i, s.Species, s.Form)
		}
		if s.LevelMin < 0 || s.LevelMax > 0xFF || s.LevelMin > s.LevelMax {
			return nil, fmt.Errorf("slot %d: level %d-%d out of range", i, s.LevelMin, s.LevelMax)
		}
		off := areaHeaderSize + i*slotSize
		binary.LittleEndian.PutUint16(buf[off:], uint16(s.Species|s.Form<<formShift))
		buf[off+2] = byte(s.LevelMin)
		buf[off+3] = byte(s.LevelMax)
	}
	return buf, nil
}
