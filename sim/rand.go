package sim

import (
	"math/rand/v2"
	"time"
)

// Rand is the randomness the exchange draws from. *rand.Rand from
// math/rand/v2 satisfies it; tests substitute a scripted source.
type Rand interface {
	IntN(n int) int
	Float64() float64
}

// NewRand returns a PCG-backed source. A zero seed picks one from the clock.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
