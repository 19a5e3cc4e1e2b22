// core/mutate/type.go
package mutate

import (
	"github.com/pkg/errors"
	"golang.org/x/exp/rand"

	"jackalope-core/rates"
	"jackalope-core/sampler"
	"jackalope-core/seq"
)

// Event is one drawn mutation: a substitution to To when Length is 0, an
// insertion of Length new characters when positive, a deletion of -Length
// characters when negative.
type Event struct {
	To     byte
	Length int
}

// TypeSampler draws the kind of mutation hitting a given nucleotide, using
// one categorical distribution per nucleotide from the rate table.
type TypeSampler struct {
	samplers [4]*sampler.Categorical
	lengths  []int
}

func NewTypeSampler(tab *rates.Table) (*TypeSampler, error) {
	ts := &TypeSampler{lengths: tab.Lengths()}
	for i := 0; i < 4; i++ {
		c, err := sampler.NewCategorical(tab.Probs(i))
		if err != nil {
			return nil, errors.Wrapf(err, "event distribution for %c", seq.Bases[i])
		}
		ts.samplers[i] = c
	}
	return ts, nil
}

// Sample draws the event hitting base.
func (ts *TypeSampler) Sample(rng *rand.Rand, base byte) (Event, error) {
	bi := seq.BaseIndex(base)
	if bi < 0 {
		return Event{}, errors.Wrapf(seq.ErrInvalidInput, "cannot mutate %q", base)
	}
	k := ts.samplers[bi].Sample(rng)
	if k < 4 {
		return Event{To: seq.Bases[k]}, nil
	}
	return Event{Length: ts.lengths[k]}, nil
}
