// core/tree/evolve.go
package tree

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"jackalope-core/mutate"
	"jackalope-core/rates"
	"jackalope-core/sampler"
	"jackalope-core/seq"
	"jackalope-core/variant"
)

// EvolveBranch runs the Gillespie clock along one branch: exponential
// waiting times against the sequence's total mutation rate, one mutation per
// arrival, with the rate updated incrementally from each mutation's delta.
// Returns the number of mutations applied.
func EvolveBranch(rng *rand.Rand, ms *mutate.Sampler, branchLen float64) (int, error) {
	v := ms.Variant()
	rate := ms.TotalRate(0, v.Size())
	n := 0
	t := 0.0
	for rate > 0 {
		t += distuv.Exponential{Rate: rate, Src: rng}.Rand()
		if t > branchLen {
			break
		}
		delta, err := ms.Mutate(rng)
		if err != nil {
			if errors.Is(err, sampler.ErrDegenerateDistribution) {
				break
			}
			return n, err
		}
		n++
		rate += delta
		if rate < 1e-9 {
			// incremental drift can leave a stale near-zero rate; rescan
			rate = ms.TotalRate(0, v.Size())
		}
	}
	return n, nil
}

// EvolveChrom evolves ref down the phylogeny rooted at root and returns one
// variant per tip, keyed by tip label. Children are visited in parse order
// and the last child inherits its parent's state without copying, so runs
// are reproducible for a given engine seed. Cancellation is honored between
// branches.
func EvolveChrom(ctx context.Context, rng *rand.Rand, root *Node, ref *seq.Chrom, tab *rates.Table, gammas *rates.SiteGammas) (map[string]*variant.Variant, error) {
	if root == nil {
		return nil, errors.Wrap(ErrBadNewick, "nil tree")
	}
	rootState := variant.New(ref, ref.Name)
	ms, err := mutate.New(rootState, tab, gammas)
	if err != nil {
		return nil, err
	}

	out := make(map[string]*variant.Variant)
	var walk func(n *Node, state *variant.Variant) error
	walk = func(n *Node, state *variant.Variant) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if n.Length > 0 {
			ms.Rebind(state)
			if _, err := EvolveBranch(rng, ms, n.Length); err != nil {
				return err
			}
		}
		if len(n.Children) == 0 {
			if n.Label == "" {
				return errors.Wrap(ErrBadNewick, "unlabeled tip")
			}
			if _, dup := out[n.Label]; dup {
				return errors.Wrapf(ErrBadNewick, "duplicate tip label %q", n.Label)
			}
			state.Name = n.Label
			out[n.Label] = state
			return nil
		}
		for i, child := range n.Children {
			st := state
			if i < len(n.Children)-1 {
				st = state.Clone()
			}
			if err := walk(child, st); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(root, rootState); err != nil {
		return nil, err
	}
	return out, nil
}
