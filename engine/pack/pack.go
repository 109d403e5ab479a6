// Package pack reads and writes the linked binary container that stores
// per-area encounter records.
//
// Layout, all little-endian:
//
//	[2]byte ident
//	u16     count
//	u32     offsets[count+1]  (absolute; entry i spans offsets[i]..offsets[i+1])
//	...     entry data
package pack

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrMalformed is returned for containers that cannot be decoded.
var ErrMalformed = errors.New("pack: malformed container")

// Unpacker converts a packed resource into its raw entries.
type Unpacker interface {
	Unpack(data []byte, ident string) ([][]byte, error)
}

// Linker is the default Unpacker.
type Linker struct{}

// Unpack implements Unpacker.
func (Linker) Unpack(data []byte, ident string) ([][]byte, error) {
	return Unpack(data, ident)
}

// Unpack splits data into entries, checking the two-byte ident.
func Unpack(data []byte, ident string) ([][]byte, error) {
	if len(ident) != 2 {
		return nil, fmt.Errorf("ident %q: %w", ident, ErrMalformed)
	}
	if len(data) < 4 {
		return nil, fmt.Errorf("header truncated (%d bytes): %w", len(data), ErrMalformed)
	}
	if string(data[:2]) != ident {
		return nil, fmt.Errorf("ident %q, want %q: %w", data[:2], ident, ErrMalformed)
	}
	count := int(binary.LittleEndian.Uint16(data[2:4]))
	table := 4 + 4*(count+1)
	if len(data) < table {
		return nil, fmt.Errorf("offset table truncated: %w", ErrMalformed)
	}
	out := make([][]byte, count)
	for i := range count {
		start := binary.LittleEndian.Uint32(data[4+4*i:])
		end := binary.LittleEndian.Uint32(data[8+4*i:])
		if int(start) < table || start > end || int(end) > len(data) {
			return nil, fmt.Errorf("entry %d spans %d..%d of %d: %w", i, start, end, len(data), ErrMalformed)
		}
		out[i] = data[start:end:end]
	}
	return out, nil
}

// Pack is the inverse of Unpack.
func Pack(entries [][]byte, ident string) ([]byte, error) {
	if len(ident) != 2 {
		return nil, fmt.Errorf("ident %q: %w", ident, ErrMalformed)
	}
	if len(entries) > 0xFFFF {
		return nil, fmt.Errorf("%d entries: %w", len(entries), ErrMalformed)
	}
	table := 4 + 4*(len(entries)+1)
	size := table
	for _, e := range entries {
		size += len(e)
	}
	buf := make([]byte, size)
	copy(buf, ident)
	binary.LittleEndian.PutUint16(buf[2:], uint16(len(entries)))
	off := table
	for i, e := range entries {
		binary.LittleEndian.PutUint32(buf[4+4*i:], uint32(off))
		copy(buf[off:], e)
		off += len(e)
	}
	binary.LittleEndian.PutUint32(buf[4+4*len(entries):], uint32(off))
	return buf, nil
}
