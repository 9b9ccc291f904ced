package game

import (
	"time"

	"golang.org/x/exp/rand"
)

// Rand is the subset of a random generator the simulation needs
type Rand interface {
	// Intn returns a uniform value in [0, n)
	Intn(n int) int
}

// NewRand returns a generator seeded with seed. Each room owns its own
// generator, so the source does not need locking.
func NewRand(seed uint64) Rand {
	return rand.New(rand.NewSource(seed))
}

// NewTimeRand seeds a generator from the wall clock
func NewTimeRand() Rand {
	return NewRand(uint64(time.Now().UnixNano()))
}

// between returns a uniform integer in the inclusive range [min, max]
func between(r Rand, min, max int) int {
	return min + r.Intn(max-min+1)
}
