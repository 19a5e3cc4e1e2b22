// core/seq/random.go
package seq

import (
	"fmt"

	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"jackalope-core/sampler"
)

// Generate creates a fresh random genome of n chromosomes whose bases are
// drawn from the equilibrium frequencies pi (T,C,A,G; nil or empty means
// uniform 0.25). Lengths follow a gamma distribution with the given mean and
// standard deviation; lenSD <= 0 fixes every length at lenMean. Chromosomes
// are never empty and are named seq0, seq1, ...
func Generate(rng *rand.Rand, n int, lenMean, lenSD float64, pi []float64) (Genome, error) {
	if n < 1 {
		return nil, errors.Wrapf(ErrInvalidInput, "chromosome count %d", n)
	}
	if lenMean < 1 {
		return nil, errors.Wrapf(ErrInvalidInput, "mean length %g", lenMean)
	}
	if len(pi) == 0 {
		pi = []float64{0.25, 0.25, 0.25, 0.25}
	}
	if len(pi) != NBases {
		return nil, errors.Wrapf(ErrInvalidInput, "%d equilibrium frequencies", len(pi))
	}
	bases, err := sampler.NewCategorical(pi)
	if err != nil {
		return nil, errors.WithMessage(err, "equilibrium frequencies")
	}

	// Gamma parameterization per doi:10.1093/molbev/msr011:
	// shape = mean^2/sd^2, scale = sd^2/mean.
	var lengths *distuv.Gamma
	if lenSD > 0 {
		lengths = &distuv.Gamma{
			Alpha: lenMean * lenMean / (lenSD * lenSD),
			Beta:  lenMean / (lenSD * lenSD),
			Src:   rng,
		}
	}

	out := make(Genome, n)
	for i := range out {
		length := int(lenMean)
		if lengths != nil {
			if length = int(lengths.Rand()); length < 1 {
				length = 1
			}
		}
		buf := make([]byte, length)
		bases.Fill(rng, buf, Bases)
		out[i] = Chrom{Name: fmt.Sprintf("seq%d", i), Seq: buf}
	}
	return out, nil
}
