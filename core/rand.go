package core

import "math/rand"

// Rand abstracts the randomness consumed by the automated policy so
// decisions can be reproduced in tests.
type Rand interface {
	// Float64 returns a value in [0, 1)
	Float64() float64
	// Intn returns a value in [0, n)
	Intn(n int) int
}

// NewRand returns a Rand backed by math/rand with the given seed.
func NewRand(seed int64) Rand {
	return rand.New(rand.NewSource(seed))
}
