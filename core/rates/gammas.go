// core/rates/gammas.go
package rates

import (
	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// SiteGammas holds per-region rate multipliers: the sequence is split into
// chunks of chunkSize sites and every site in a chunk shares one Gamma-drawn
// multiplier. A nil *SiteGammas means no site heterogeneity and yields 1
// everywhere.
type SiteGammas struct {
	chunk int
	mults []float64
}

// NewSiteGammas draws mean-1 Gamma(shape, shape) multipliers for a sequence
// of seqLen sites in chunks of chunkSize.
func NewSiteGammas(rng *rand.Rand, seqLen, chunkSize int, shape float64) (*SiteGammas, error) {
	if seqLen <= 0 || chunkSize <= 0 {
		return nil, errors.Wrap(ErrInvalidInput, "sequence and chunk sizes must be positive")
	}
	if shape <= 0 {
		return nil, errors.Wrap(ErrInvalidInput, "gamma shape must be positive")
	}
	n := (seqLen + chunkSize - 1) / chunkSize
	g := distuv.Gamma{Alpha: shape, Beta: shape, Src: rng}
	mults := make([]float64, n)
	for i := range mults {
		mults[i] = g.Rand()
	}
	return &SiteGammas{chunk: chunkSize, mults: mults}, nil
}

// SiteGammasFrom wraps pre-computed multipliers, one per chunk.
func SiteGammasFrom(chunkSize int, mults []float64) (*SiteGammas, error) {
	if chunkSize <= 0 || len(mults) == 0 {
		return nil, errors.Wrap(ErrInvalidInput, "need a positive chunk size and at least one multiplier")
	}
	return &SiteGammas{chunk: chunkSize, mults: mults}, nil
}

// At returns the multiplier covering position pos. Positions past the last
// chunk reuse the final multiplier, so indels that grow the sequence stay
// covered.
func (g *SiteGammas) At(pos int) float64 {
	if g == nil {
		return 1
	}
	i := pos / g.chunk
	if i < 0 {
		i = 0
	}
	if i >= len(g.mults) {
		i = len(g.mults) - 1
	}
	return g.mults[i]
}
