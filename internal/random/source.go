// Package random provides the continuous randomness source shared by the
// dinner picker and the background decoration.
package random

import (
	"crypto/rand"
	"encoding/binary"
	mrand "math/rand/v2"
	"sync"
)

// Source produces uniformly distributed values in [0, 1).
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
}

// Index maps a draw from src onto [0, n) as floor(Float64() * n).
//
// Precondition: n > 0. Panics with "random: Index called with n <= 0" otherwise.
// Postcondition: 0 <= result < n.
func Index(src Source, n int) int {
	if n <= 0 {
		panic("random: Index called with n <= 0")
	}
	i := int(src.Float64() * float64(n))
	// Float64 rounding can land exactly on n for values just below 1.
	if i >= n {
		i = n - 1
	}
	return i
}

// cryptoSource implements Source using crypto/rand.
type cryptoSource struct{}

// NewCryptoSource returns a Source backed by crypto/rand.
//
// Postcondition: Every value returned by Float64 is in [0, 1).
func NewCryptoSource() Source {
	return &cryptoSource{}
}

// Float64 returns a cryptographically secure value in [0, 1) with 53 bits of
// precision.
//
// Panics with "random: crypto/rand failure: <err>" if crypto/rand fails.
func (c *cryptoSource) Float64() float64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		panic("random: crypto/rand failure: " + err.Error())
	}
	return float64(binary.BigEndian.Uint64(buf[:])>>11) / (1 << 53)
}

// seededSource implements Source with a deterministic PCG generator.
type seededSource struct {
	mu  sync.Mutex
	rng *mrand.Rand
}

// NewSeededSource returns a reproducible Source for the given seed.
//
// Postcondition: Two sources built from the same seed yield the same sequence.
func NewSeededSource(seed uint64) Source {
	return &seededSource{rng: mrand.New(mrand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Float64 returns the next value of the seeded sequence.
func (s *seededSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

// Fixed is a Source that replays Values in order, wrapping around.
// It is intended for tests that need a specific draw.
//
// Precondition: Values must be non-empty and each in [0, 1).
type Fixed struct {
	Values []float64

	mu   sync.Mutex
	next int
}

// Float64 returns the next configured value.
func (f *Fixed) Float64() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	v := f.Values[f.next%len(f.Values)]
	f.next++
	return v
}
