// internal/cli/options.go
package cli

import (
	"errors"
	"fmt"

	flag "github.com/spf13/pflag"

	"jackalope/internal/version"
)

// Known substitution models.
var Models = []string{"JC69", "K80", "F81", "HKY85", "TN93", "GTR"}

// Options holds all CLI flags and arguments.
type Options struct {
	// Reference input: either a FASTA file or generation parameters
	Reference string
	NChroms   int
	LenMean   float64
	LenSD     float64

	// Variants / phylogeny
	NVariants int
	Tree      string
	BranchLen float64

	// Substitution + indel model
	Profile     string
	Model       string
	Params      []float64
	Pi          []float64
	IndelRate   float64
	InsDelRatio float64
	InsRates    []float64
	DelRates    []float64
	GammaShape  float64
	GammaChunk  int

	// Execution
	Seed    uint64
	Threads int

	// Output
	OutFasta string
	OutVCF   string
	Wrap     int
	Quiet    bool

	Version bool
}

// NewFlagSet returns a configured FlagSet with custom usage/help.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SortFlags = false
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(),
			`%s: molecular evolution simulator

Generates haploid variants of a reference genome by simulating
substitutions and indels along a phylogeny.

Version: %s

Usage of %s:
`, name, version.Version, name)
		fs.PrintDefaults()
	}
	return fs
}

// Parse is the top-level call for CLI parsing.
func Parse() (Options, error) { return ParseArgs(flag.CommandLine, nil) }

// ParseArgs registers and parses all flags, returns an Options struct.
func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var opt Options
	var help bool

	// Reference input
	fs.StringVar(&opt.Reference, "reference", "", "reference FASTA file ('-' for stdin; conflicts with --n-chroms)")
	fs.IntVar(&opt.NChroms, "n-chroms", 0, "generate a reference with this many chromosomes")
	fs.Float64Var(&opt.LenMean, "len-mean", 1000, "mean chromosome length when generating")
	fs.Float64Var(&opt.LenSD, "len-sd", 0, "chromosome length standard deviation (0 = fixed length)")

	// Variants / phylogeny
	fs.IntVar(&opt.NVariants, "n-variants", 1, "number of variants on a star phylogeny")
	fs.StringVar(&opt.Tree, "tree", "", "Newick file; tip labels name the variants (overrides --n-variants)")
	fs.Float64Var(&opt.BranchLen, "branch-len", 0.05, "branch length of the star phylogeny")

	// Model
	fs.StringVar(&opt.Profile, "profile", "", "model profile file (YAML/TOML/JSON); flags override it")
	fs.StringVar(&opt.Model, "model", "JC69", "substitution model: JC69 | K80 | F81 | HKY85 | TN93 | GTR")
	fs.Float64SliceVar(&opt.Params, "params", nil, "model rate parameters (see --model)")
	fs.Float64SliceVar(&opt.Pi, "pi", nil, "equilibrium base frequencies in T,C,A,G order")
	fs.Float64Var(&opt.IndelRate, "indel-rate", 0, "total insertion+deletion rate per site")
	fs.Float64Var(&opt.InsDelRatio, "ins-del-ratio", 1, "insertion:deletion rate ratio")
	fs.Float64SliceVar(&opt.InsRates, "ins-rates", nil, "relative insertion-length rates for lengths 1..N")
	fs.Float64SliceVar(&opt.DelRates, "del-rates", nil, "relative deletion-length rates for lengths 1..N")
	fs.Float64Var(&opt.GammaShape, "gamma-shape", 0, "Gamma shape for among-site rate variation (0 = uniform)")
	fs.IntVar(&opt.GammaChunk, "gamma-chunk", 100, "sites per Gamma rate region")

	// Execution
	fs.Uint64Var(&opt.Seed, "seed", 1, "random seed; runs are reproducible per seed")
	fs.IntVar(&opt.Threads, "threads", 0, "number of worker threads (0 = all CPUs)")

	// Output
	fs.StringVar(&opt.OutFasta, "out", "-", "variant FASTA output ('-' for stdout, .gz compresses)")
	fs.StringVar(&opt.OutVCF, "out-vcf", "", "VCF output of all variants (.gz compresses)")
	fs.IntVar(&opt.Wrap, "wrap", 70, "FASTA line width (0 = no wrapping)")
	fs.BoolVar(&opt.Quiet, "quiet", false, "suppress warnings")

	fs.BoolVarP(&opt.Version, "version", "v", false, "print version and exit")
	fs.BoolVarP(&help, "help", "h", false, "show this help message")

	if err := fs.Parse(argv); err != nil {
		return opt, err
	}
	if help {
		return opt, flag.ErrHelp
	}
	if opt.Version {
		return opt, nil
	}

	// Validation of what is known before the profile is merged
	usingFile := opt.Reference != ""
	usingGen := opt.NChroms > 0
	switch {
	case usingFile && usingGen:
		return opt, errors.New("--reference conflicts with --n-chroms")
	case !usingFile && !usingGen:
		return opt, errors.New("provide --reference or --n-chroms")
	}
	if usingGen && (opt.LenMean < 1 || opt.LenSD < 0) {
		return opt, errors.New("--len-mean must be ≥ 1 and --len-sd ≥ 0")
	}
	if opt.Tree == "" && opt.NVariants < 1 {
		return opt, errors.New("--n-variants must be ≥ 1")
	}
	if opt.BranchLen < 0 {
		return opt, errors.New("--branch-len must be ≥ 0")
	}
	if opt.Threads < 0 {
		return opt, errors.New("--threads must be ≥ 0")
	}
	if opt.Wrap < 0 {
		return opt, errors.New("--wrap must be ≥ 0")
	}
	return opt, nil
}

// ValidateModel checks the model configuration once profile values are
// merged in.
func ValidateModel(o *Options) error {
	want, ok := map[string]int{"JC69": 1, "K80": 2, "F81": 0, "HKY85": 2, "TN93": 3, "GTR": 6}[o.Model]
	if !ok {
		return fmt.Errorf("invalid --model %q", o.Model)
	}
	if len(o.Params) != 0 && len(o.Params) != want {
		return fmt.Errorf("--model %s takes %d parameters, got %d", o.Model, want, len(o.Params))
	}
	if len(o.Pi) != 0 && len(o.Pi) != 4 {
		return fmt.Errorf("--pi takes 4 frequencies, got %d", len(o.Pi))
	}
	if o.IndelRate < 0 {
		return errors.New("--indel-rate must be ≥ 0")
	}
	if o.IndelRate > 0 && o.InsDelRatio <= 0 {
		return errors.New("--ins-del-ratio must be > 0")
	}
	if o.GammaShape < 0 {
		return errors.New("--gamma-shape must be ≥ 0")
	}
	if o.GammaShape > 0 && o.GammaChunk < 1 {
		return errors.New("--gamma-chunk must be ≥ 1")
	}
	return nil
}
