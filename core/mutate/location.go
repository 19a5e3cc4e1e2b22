// core/mutate/location.go
package mutate

import (
	"golang.org/x/exp/rand"

	"jackalope-core/rates"
	"jackalope-core/sampler"
	"jackalope-core/variant"
)

// LocationSampler draws mutation positions weighted by each site's current
// mutation rate: the rate of the nucleotide standing there now, times its
// regional Gamma multiplier.
type LocationSampler struct {
	v      *variant.Variant
	tab    *rates.Table
	gammas *rates.SiteGammas
}

func NewLocationSampler(v *variant.Variant, tab *rates.Table, gammas *rates.SiteGammas) *LocationSampler {
	return &LocationSampler{v: v, tab: tab, gammas: gammas}
}

// Weight returns the sampling weight of position pos. Positions outside the
// sequence weigh zero.
func (s *LocationSampler) Weight(pos int) float64 {
	c, err := s.v.CharAt(pos)
	if err != nil {
		return 0
	}
	return s.tab.Rate(c) * s.gammas.At(pos)
}

// Sample draws a position from [start, end) proportionally to Weight.
func (s *LocationSampler) Sample(rng *rand.Rand, start, end int) (int, error) {
	return sampler.Reservoir(rng, start, end, s.Weight)
}

// TotalRate sums the weights over [start, end).
func (s *LocationSampler) TotalRate(start, end int) float64 {
	sum := 0.0
	for pos := start; pos < end; pos++ {
		sum += s.Weight(pos)
	}
	return sum
}
