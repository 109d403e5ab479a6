package engine

import (
	"crypto/rand"
	"encoding/binary"
	mathrand "math/rand"
)

// RNG wraps math/rand.Rand with deterministic position tracking. It
// implements synth.Source. Position increments with every draw so a
// synthesis run can be replayed from its seed.
type RNG struct {
	seed int64
	src  *mathrand.Rand
	pos  int64
}

// NewRNG creates a new deterministic RNG from a seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		seed: seed,
		src:  mathrand.New(mathrand.NewSource(seed)),
	}
}

// NewSeed returns a seed from the system's secure random source.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0, err
	}
	return int64(binary.LittleEndian.Uint64(b[:]) >> 1), nil
}

// Uint32 returns a random 32-bit value.
func (r *RNG) Uint32() uint32 {
	r.pos++
	return uint32(r.src.Int63() >> 31)
}

// Intn returns a random integer in [0, n).
func (r *RNG) Intn(n int) int {
	r.pos++
	return int(r.src.Int63() % int64(n))
}

// Seed returns the seed the RNG was created with.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Position returns the number of draws made since creation.
func (r *RNG) Position() int64 {
	return r.pos
}

// RestoreRNG creates an RNG and advances it to the given position.
// This reproduces the exact state of an earlier run.
func RestoreRNG(seed int64, position int64) *RNG {
	rng := NewRNG(seed)
	for i := int64(0); i < position; i++ {
		rng.src.Int63()
	}
	rng.pos = position
	return rng
}
