package engine

import (
	"math/rand"
	"time"
)

// Rand is the randomness the engine consumes: uniform picks for token
// draws and shuffles for character assignment. Resolution steps take it
// through this interface so tests can script exact sequences.
type Rand interface {
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

// NewRand returns a seeded source. *rand.Rand satisfies Rand.
func NewRand(seed int64) Rand {
	return rand.New(rand.NewSource(seed))
}

// SystemRand returns a time-seeded source for production use.
func SystemRand() Rand {
	return NewRand(time.Now().UnixNano())
}

// pickIndex returns a uniformly chosen element of candidates.
func pickIndex(rng Rand, candidates []int) int {
	return candidates[rng.Intn(len(candidates))]
}
