// core/mutate/sampler.go

// Package mutate draws mutations against a variant sequence: a weighted
// position, an event for the nucleotide found there, and the corresponding
// edit applied to the variant's edit list. Every draw reports the change in
// the sequence's total mutation rate so callers can run a Poisson clock
// without rescanning.
package mutate

import (
	"golang.org/x/exp/rand"

	"jackalope-core/rates"
	"jackalope-core/sampler"
	"jackalope-core/seq"
	"jackalope-core/variant"
)

// Sampler applies random mutations to one variant sequence.
type Sampler struct {
	v      *variant.Variant
	loc    *LocationSampler
	types  *TypeSampler
	insert *sampler.Categorical
	tab    *rates.Table
	gammas *rates.SiteGammas
}

// New builds a sampler over v. A nil gammas means uniform rates across sites.
func New(v *variant.Variant, tab *rates.Table, gammas *rates.SiteGammas) (*Sampler, error) {
	types, err := NewTypeSampler(tab)
	if err != nil {
		return nil, err
	}
	pi := tab.Pi()
	insert, err := sampler.NewCategorical(pi[:])
	if err != nil {
		return nil, err
	}
	return &Sampler{
		v:      v,
		loc:    NewLocationSampler(v, tab, gammas),
		types:  types,
		insert: insert,
		tab:    tab,
		gammas: gammas,
	}, nil
}

// Rebind points the sampler at another variant of the same reference,
// keeping the prepared distributions.
func (s *Sampler) Rebind(v *variant.Variant) {
	s.v = v
	s.loc.v = v
}

// Variant returns the sequence being mutated.
func (s *Sampler) Variant() *variant.Variant { return s.v }

// TotalRate sums the per-site mutation rates over [start, end).
func (s *Sampler) TotalRate(start, end int) float64 { return s.loc.TotalRate(start, end) }

// Mutate applies one random mutation anywhere in the sequence and returns
// the resulting change in total mutation rate.
func (s *Sampler) Mutate(rng *rand.Rand) (float64, error) {
	delta, _, err := s.mutate(rng, 0, s.v.Size())
	return delta, err
}

// MutateRange applies one random mutation within [start, *end). An indel
// moves *end by its size modifier; empty reports true once the region has
// shrunk away.
func (s *Sampler) MutateRange(rng *rand.Rand, start int, end *int) (delta float64, empty bool, err error) {
	delta, sizeMod, err := s.mutate(rng, start, *end)
	if err != nil {
		return 0, false, err
	}
	*end += sizeMod
	return delta, *end <= start, nil
}

func (s *Sampler) mutate(rng *rand.Rand, start, end int) (delta float64, sizeMod int, err error) {
	pos, err := s.loc.Sample(rng, start, end)
	if err != nil {
		return 0, 0, err
	}
	c, err := s.v.CharAt(pos)
	if err != nil {
		return 0, 0, err
	}
	ev, err := s.types.Sample(rng, c)
	if err != nil {
		return 0, 0, err
	}
	g := s.gammas.At(pos)
	switch {
	case ev.Length == 0:
		delta = g * (s.tab.Rate(ev.To) - s.tab.Rate(c))
		err = s.v.AddSubstitution(pos, ev.To)
	case ev.Length > 0:
		nts := s.newNucleos(rng, ev.Length)
		for i := 0; i < len(nts); i++ {
			delta += g * s.tab.Rate(nts[i])
		}
		err = s.v.AddInsertion(pos, nts)
		sizeMod = ev.Length
	default:
		del := -ev.Length
		if pos+del > s.v.Size() {
			del = s.v.Size() - pos
		}
		var region string
		region, err = s.v.Materialize(pos, del)
		if err != nil {
			return 0, 0, err
		}
		for i := 0; i < len(region); i++ {
			delta -= s.gammas.At(pos+i) * s.tab.Rate(region[i])
		}
		err = s.v.AddDeletion(pos, del)
		sizeMod = -del
	}
	if err != nil {
		return 0, 0, err
	}
	return delta, sizeMod, nil
}

// newNucleos draws n characters from the equilibrium frequencies.
func (s *Sampler) newNucleos(rng *rand.Rand, n int) string {
	b := make([]byte, n)
	s.insert.Fill(rng, b, seq.Bases)
	return string(b)
}
