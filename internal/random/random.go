// Package random holds the randomness primitives the simulator is built on:
// an injectable Source, proportional weighted selection and named outcome tables.
package random

import (
	"math/rand"
	"sync"
	"time"
)

// Source is the only entropy the simulator consumes.
type Source interface {
	// Float64 returns a value in [0,1).
	Float64() float64
	// IntN returns a value in [0,n). n must be > 0.
	IntN(n int) int
}

type lockedSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

// New returns a goroutine-safe Source. A zero seed seeds from the clock.
func New(seed int64) Source {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &lockedSource{r: rand.New(rand.NewSource(seed))}
}

func (s *lockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Float64()
}

func (s *lockedSource) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Intn(n)
}

// Chance reports true with probability p.
func Chance(src Source, p float64) bool {
	return src.Float64() < p
}

// IntBetween returns a value in [lo,hi).
func IntBetween(src Source, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + src.IntN(hi-lo)
}

// FloatBetween returns a value in [lo,hi).
func FloatBetween(src Source, lo, hi float64) float64 {
	return lo + src.Float64()*(hi-lo)
}

// Choice picks one element uniformly. items must not be empty.
func Choice[T any](src Source, items []T) T {
	return items[src.IntN(len(items))]
}
