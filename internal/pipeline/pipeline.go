// internal/pipeline/pipeline.go

// Package pipeline fans chromosomes out to a worker pool. Each chromosome
// evolves on its own engine seeded from the master seed, so results are
// identical regardless of thread count.
//
// The only contract to implement is Evolver. This keeps the simulation
// swappable and testable.
package pipeline

import (
	"context"
	"runtime"
	"sync"

	"golang.org/x/exp/rand"

	"jackalope-core/rng"
	"jackalope-core/variant"
)

// Config controls the evolution pipeline.
type Config struct {
	Threads int    // number of worker goroutines (0 = all CPUs)
	Seed    uint64 // master seed; per-chromosome seeds derive from it
}

// Evolver is the minimal capability the pipeline needs: evolve one
// reference chromosome and return the result keyed by variant name.
type Evolver interface {
	EvolveChrom(ctx context.Context, rng *rand.Rand, chromIdx int) (map[string]*variant.Variant, error)
}

// Run evolves nChroms chromosomes across the worker pool and returns one
// variant map per chromosome, in chromosome order.
func Run(ctx context.Context, cfg Config, nChroms int, ev Evolver) ([]map[string]*variant.Variant, error) {
	threads := cfg.Threads
	if threads < 1 {
		threads = runtime.NumCPU()
	}
	if threads > nChroms {
		threads = nChroms
	}
	if nChroms == 0 {
		return nil, nil
	}
	seeds := rng.Seeds(cfg.Seed, nChroms)

	type result struct {
		idx  int
		vars map[string]*variant.Variant
		err  error
	}
	jobs := make(chan int, threads*2)
	results := make(chan result, threads*2)

	// Workers
	var wg sync.WaitGroup
	wg.Add(threads)
	for w := 0; w < threads; w++ {
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case idx, ok := <-jobs:
					if !ok {
						return
					}
					vars, err := ev.EvolveChrom(ctx, rng.New(seeds[idx]), idx)
					select {
					case results <- result{idx: idx, vars: vars, err: err}:
					case <-ctx.Done():
						return
					}
				}
			}
		}()
	}

	// Collector
	var (
		cerr error
		cwg  sync.WaitGroup
		out  = make([]map[string]*variant.Variant, nChroms)
	)
	cwg.Add(1)
	go func() {
		defer cwg.Done()
		for r := range results {
			if r.err != nil {
				if cerr == nil {
					cerr = r.err
				}
				continue
			}
			out[r.idx] = r.vars
		}
	}()

	// Feed work
feed:
	for idx := 0; idx < nChroms; idx++ {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- idx:
		}
	}

	close(jobs)
	wg.Wait()
	close(results)
	cwg.Wait()

	if cerr == nil {
		cerr = ctx.Err()
	}
	if cerr != nil {
		return nil, cerr
	}
	return out, nil
}
