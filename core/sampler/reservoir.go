// core/sampler/reservoir.go
package sampler

import (
	"math"

	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
)

// WeightFunc reports the sampling weight of one position. Weights may be
// derived lazily (nucleotide rate times site multiplier); they must be
// non-negative.
type WeightFunc func(pos int) float64

// Reservoir selects one position in [start,end) with probability
// proportional to w, in a single left-to-right pass and without building a
// prefix-sum array.
//
// Efraimidis & Spirakis 2006 (A-ExpJ), reservoir size 1: the held key is a
// uniform draw raised to 1/weight; an exponential jump skips ahead to the
// next position whose cumulative weight crosses the jump threshold.
//
// A range of length 1 returns start without drawing. A range whose total
// weight is zero fails with ErrDegenerateDistribution.
func Reservoir(rng *rand.Rand, start, end int, w WeightFunc) (int, error) {
	if end <= start {
		return 0, errors.Wrapf(ErrDegenerateDistribution, "empty range [%d,%d)", start, end)
	}
	if end-start == 1 {
		return start, nil
	}

	// Zero-weight positions can never hold the key; skip any leading run so
	// the initial key is well defined.
	c := start
	for c < end && w(c) <= 0 {
		c++
	}
	if c == end {
		return 0, errors.Wrapf(ErrDegenerateDistribution, "zero total weight over [%d,%d)", start, end)
	}

	held := c
	key := math.Pow(unitOpen(rng), 1/w(c))
	last := end - 1

	for c < last {
		x := math.Log(unitOpen(rng)) / math.Log(key)
		i := c + 1
		sum0 := w(c)
		sum1 := sum0 + w(i)
		for x > sum1 && i < last {
			i++
			sum0 = sum1
			sum1 += w(i)
		}
		if x > sum1 {
			// Jump runs past the end of the range: the held position stands.
			break
		}
		if sum0 >= x {
			// Jump lands within the held position's own weight; redraw.
			continue
		}

		// Adopt i: draw a replacement key conditioned to exceed the
		// threshold implied by the old key and w(i).
		wi := w(i)
		t := math.Pow(key, wi)
		r := t + (1-t)*rng.Float64()
		key = math.Pow(r, 1/wi)
		held = i
		c = i
	}
	return held, nil
}

// unitOpen draws from (0,1); a zero draw would break the log/pow identities.
func unitOpen(rng *rand.Rand) float64 {
	for {
		if u := rng.Float64(); u > 0 {
			return u
		}
	}
}
