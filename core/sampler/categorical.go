// core/sampler/categorical.go
package sampler

import (
	"math"

	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
)

// Categorical draws indices with probability exactly proportional to a fixed
// weight vector. It uses Vose's alias method: O(k) build, O(1) per draw.
type Categorical struct {
	prob  []float64
	alias []int
}

// NewCategorical builds an alias table from weights. Weights must be finite
// and non-negative, with at least one strictly positive entry.
func NewCategorical(weights []float64) (*Categorical, error) {
	n := len(weights)
	if n == 0 {
		return nil, errors.Wrap(ErrInvalidDistribution, "no weights")
	}
	sum := 0.0
	for i, w := range weights {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, errors.Wrapf(ErrInvalidDistribution, "weight %d is %v", i, w)
		}
		sum += w
	}
	if sum <= 0 {
		return nil, errors.Wrap(ErrInvalidDistribution, "weights sum to zero")
	}

	c := &Categorical{
		prob:  make([]float64, n),
		alias: make([]int, n),
	}
	scaled := make([]float64, n)
	small := make([]int, 0, n)
	large := make([]int, 0, n)
	for i, w := range weights {
		scaled[i] = w * float64(n) / sum
		if scaled[i] < 1 {
			small = append(small, i)
		} else {
			large = append(large, i)
		}
	}
	for len(small) > 0 && len(large) > 0 {
		s := small[len(small)-1]
		small = small[:len(small)-1]
		l := large[len(large)-1]
		large = large[:len(large)-1]

		c.prob[s] = scaled[s]
		c.alias[s] = l
		scaled[l] -= 1 - scaled[s]
		if scaled[l] < 1 {
			small = append(small, l)
		} else {
			large = append(large, l)
		}
	}
	// Leftovers are probability 1 up to rounding.
	for _, i := range large {
		c.prob[i] = 1
		c.alias[i] = i
	}
	for _, i := range small {
		c.prob[i] = 1
		c.alias[i] = i
	}
	return c, nil
}

// K returns the number of outcomes.
func (c *Categorical) K() int { return len(c.prob) }

// Sample draws one index.
func (c *Categorical) Sample(rng *rand.Rand) int {
	i := rng.Intn(len(c.prob))
	if rng.Float64() < c.prob[i] {
		return i
	}
	return c.alias[i]
}

// Fill overwrites dst with independent draws, one per byte slot, mapping each
// drawn index through the lookup string. Used for insertion content and for
// fresh reference sequences.
func (c *Categorical) Fill(rng *rand.Rand, dst []byte, lookup string) {
	for i := range dst {
		dst[i] = lookup[c.Sample(rng)]
	}
}
