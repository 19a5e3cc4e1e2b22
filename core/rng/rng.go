// core/rng/rng.go
package rng

import "golang.org/x/exp/rand"

// New returns a PCG engine seeded with seed. Engines are handed to each
// parallel task at spawn time and never shared; nothing in the simulator
// reads ambient per-thread randomness.
func New(seed uint64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// Seeds derives n task seeds from one master seed via splitmix64. Seeds
// attach to units of work rather than workers, so results are reproducible
// no matter how many workers run.
func Seeds(master uint64, n int) []uint64 {
	out := make([]uint64, n)
	x := master
	for i := range out {
		x += 0x9E3779B97F4A7C15
		z := x
		z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
		z = (z ^ (z >> 27)) * 0x94D049BB133111EB
		out[i] = z ^ (z >> 31)
	}
	return out
}
