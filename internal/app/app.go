// internal/app/app.go
package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	flag "github.com/spf13/pflag"
	"golang.org/x/exp/rand"

	"jackalope-core/fasta"
	"jackalope-core/rates"
	"jackalope-core/rng"
	"jackalope-core/seq"
	"jackalope-core/tree"
	"jackalope-core/variant"

	"jackalope/internal/cli"
	"jackalope/internal/output"
	"jackalope/internal/pipeline"
	"jackalope/internal/profile"
	"jackalope/internal/version"
)

func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	defer func() { _ = outw.Flush() }()

	fs := cli.NewFlagSet("jackalope")
	fs.SetOutput(io.Discard)

	usage := func() int {
		fs.SetOutput(outw)
		fs.Usage()
		if err := outw.Flush(); output.IsBrokenPipe(err) {
			return 0
		} else if err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return 3
		}
		return 0
	}

	if len(argv) == 0 {
		return usage()
	}

	opts, err := cli.ParseArgs(fs, argv)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return usage()
		}
		_, _ = fmt.Fprintln(stderr, err)
		if code := usage(); code != 0 {
			return code
		}
		return 2
	}

	if opts.Version {
		_, _ = fmt.Fprintf(outw, "jackalope version %s\n", version.Version)
		if e := outw.Flush(); output.IsBrokenPipe(e) {
			return 0
		} else if e != nil {
			_, _ = fmt.Fprintln(stderr, e)
			return 3
		}
		return 0
	}

	if opts.Profile != "" {
		p, err := profile.Load(opts.Profile)
		if err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return 2
		}
		profile.Apply(p, &opts, fs)
	}
	if err := cli.ValidateModel(&opts); err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 2
	}

	seeds := rng.Seeds(opts.Seed, 2)

	genome, code := loadReference(parent, &opts, seeds[0], stderr)
	if code != 0 {
		return code
	}

	tab, err := buildTable(&opts)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 2
	}

	root, tips, err := loadTree(&opts)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 2
	}

	ev := &treeEvolver{
		genome: genome,
		tab:    tab,
		root:   root,
		shape:  opts.GammaShape,
		chunk:  opts.GammaChunk,
	}
	results, err := pipeline.Run(parent, pipeline.Config{Threads: opts.Threads, Seed: seeds[1]}, len(genome), ev)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 1
	}

	set := variant.NewSet(genome, tips)
	for ci, byName := range results {
		for _, g := range set.Variants {
			if v, ok := byName[g.Name]; ok {
				g.Chroms[ci] = v
			}
		}
	}

	if err := output.ToFile(opts.OutFasta, outw, func(w io.Writer) error {
		return output.WriteFASTA(w, set, opts.Wrap)
	}); err != nil {
		if output.IsBrokenPipe(err) {
			return 0
		}
		_, _ = fmt.Fprintln(stderr, err)
		return 1
	}
	if opts.OutVCF != "" {
		if err := output.ToFile(opts.OutVCF, outw, func(w io.Writer) error {
			return output.WriteVCF(w, set)
		}); err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return 1
		}
	}

	if e := outw.Flush(); output.IsBrokenPipe(e) {
		return 0
	} else if e != nil {
		_, _ = fmt.Fprintln(stderr, e)
		return 3
	}
	return 0
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

func warnf(dst io.Writer, quiet bool, format string, a ...any) {
	if !quiet {
		_, _ = fmt.Fprintf(dst, "WARN: "+format+"\n", a...)
	}
}

func loadReference(ctx context.Context, opts *cli.Options, seed uint64, stderr io.Writer) (seq.Genome, int) {
	if opts.Reference == "" {
		genome, err := seq.Generate(rng.New(seed), opts.NChroms, opts.LenMean, opts.LenSD, opts.Pi)
		if err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return nil, 2
		}
		return genome, 0
	}

	recs, err := fasta.ReadAllCtx(ctx, opts.Reference)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return nil, 2
	}
	if len(recs) == 0 {
		_, _ = fmt.Fprintf(stderr, "no sequences in %s\n", opts.Reference)
		return nil, 2
	}
	genome := make(seq.Genome, 0, len(recs))
	for _, r := range recs {
		if len(r.Seq) == 0 {
			_, _ = fmt.Fprintf(stderr, "empty sequence %q in %s\n", r.ID, opts.Reference)
			return nil, 2
		}
		genome = append(genome, seq.Chrom{Name: r.ID, Seq: r.Seq})
	}
	if unknown := genome.Normalize(); unknown > 0 {
		warnf(stderr, opts.Quiet, "%d non-TCAG characters in reference; they will never mutate", unknown)
	}
	return genome, 0
}

func buildTable(o *cli.Options) (*rates.Table, error) {
	pi := rates.UniformPi
	if len(o.Pi) == 4 {
		copy(pi[:], o.Pi)
		if sum := pi[0] + pi[1] + pi[2] + pi[3]; sum > 0 {
			for i := range pi {
				pi[i] /= sum
			}
		}
	}
	param := func(i int, def float64) float64 {
		if i < len(o.Params) {
			return o.Params[i]
		}
		return def
	}
	var q rates.Matrix
	switch o.Model {
	case "JC69":
		q = rates.JC69(param(0, 1))
	case "K80":
		q = rates.K80(param(0, 2), param(1, 1))
	case "F81":
		q = rates.F81(pi)
	case "HKY85":
		q = rates.HKY85(pi, param(0, 2), param(1, 1))
	case "TN93":
		q = rates.TN93(pi, param(0, 2), param(1, 2), param(2, 1))
	case "GTR":
		var ex [6]float64
		for i := range ex {
			ex[i] = param(i, 1)
		}
		q = rates.GTR(pi, ex)
	}
	return rates.NewTable(rates.Model{
		Q:           q,
		Pi:          pi,
		IndelRate:   o.IndelRate,
		InsDelRatio: o.InsDelRatio,
		RelInsRates: o.InsRates,
		RelDelRates: o.DelRates,
	})
}

func loadTree(o *cli.Options) (*tree.Node, []string, error) {
	var root *tree.Node
	if o.Tree != "" {
		data, err := os.ReadFile(o.Tree)
		if err != nil {
			return nil, nil, err
		}
		root, err = tree.Parse(string(data))
		if err != nil {
			return nil, nil, err
		}
	} else {
		root = tree.Star(o.NVariants, o.BranchLen)
	}
	tips := root.Tips()
	seen := make(map[string]bool, len(tips))
	for _, tip := range tips {
		if tip == "" {
			return nil, nil, errors.New("tree has an unlabeled tip")
		}
		if seen[tip] {
			return nil, nil, fmt.Errorf("tree has duplicate tip %q", tip)
		}
		seen[tip] = true
	}
	return root, tips, nil
}

// treeEvolver adapts the phylogeny walk to the pipeline's per-chromosome
// contract. Site Gammas are drawn from the chromosome's own engine so they
// are reproducible regardless of worker scheduling.
type treeEvolver struct {
	genome seq.Genome
	tab    *rates.Table
	root   *tree.Node
	shape  float64
	chunk  int
}

func (e *treeEvolver) EvolveChrom(ctx context.Context, r *rand.Rand, idx int) (map[string]*variant.Variant, error) {
	ref := &e.genome[idx]
	var gammas *rates.SiteGammas
	if e.shape > 0 {
		var err error
		gammas, err = rates.NewSiteGammas(r, ref.Size(), e.chunk, e.shape)
		if err != nil {
			return nil, err
		}
	}
	return tree.EvolveChrom(ctx, r, e.root, ref, e.tab, gammas)
}
