package cli

import (
	"bytes"
	"io"
	"strings"
	"testing"

	flag "github.com/spf13/pflag"
)

func parse(t *testing.T, argv ...string) (Options, error) {
	t.Helper()
	fs := NewFlagSet("jackalope")
	fs.SetOutput(io.Discard)
	return ParseArgs(fs, argv)
}

func TestParseDefaults(t *testing.T) {
	opt, err := parse(t, "--n-chroms", "2")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if opt.Model != "JC69" || opt.NVariants != 1 || opt.Seed != 1 || opt.Wrap != 70 {
		t.Fatalf("unexpected defaults: %+v", opt)
	}
	if opt.OutFasta != "-" {
		t.Fatalf("default output should be stdout, got %q", opt.OutFasta)
	}
}

func TestParseFullInvocation(t *testing.T) {
	opt, err := parse(t,
		"--reference", "ref.fa",
		"--n-variants", "4",
		"--model", "HKY85",
		"--params", "2,0.5",
		"--pi", "0.1,0.2,0.3,0.4",
		"--indel-rate", "0.1",
		"--seed", "99",
		"--threads", "3",
		"--out-vcf", "out.vcf.gz",
	)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if opt.Reference != "ref.fa" || opt.NVariants != 4 || opt.Seed != 99 || opt.Threads != 3 {
		t.Fatalf("unexpected options: %+v", opt)
	}
	if len(opt.Params) != 2 || opt.Params[1] != 0.5 {
		t.Fatalf("params not parsed: %v", opt.Params)
	}
	if len(opt.Pi) != 4 || opt.Pi[3] != 0.4 {
		t.Fatalf("pi not parsed: %v", opt.Pi)
	}
	if err := ValidateModel(&opt); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestParseErrors(t *testing.T) {
	cases := map[string][]string{
		"no input":             {},
		"conflicting input":    {"--reference", "ref.fa", "--n-chroms", "2"},
		"zero variants":        {"--n-chroms", "1", "--n-variants", "0"},
		"negative branch":      {"--n-chroms", "1", "--branch-len", "-1"},
		"negative threads":     {"--n-chroms", "1", "--threads", "-1"},
		"bad length":           {"--n-chroms", "1", "--len-mean", "0"},
	}
	for name, argv := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := parse(t, argv...); err == nil {
				t.Fatalf("expected error for %v", argv)
			}
		})
	}
}

func TestUsageWritesToConfiguredOutput(t *testing.T) {
	fs := NewFlagSet("jackalope")
	var buf bytes.Buffer
	fs.SetOutput(&buf)
	if _, err := ParseArgs(fs, []string{"-h"}); err != flag.ErrHelp {
		t.Fatalf("expected ErrHelp, got %v", err)
	}
	fs.Usage()
	s := buf.String()
	if !strings.Contains(s, "molecular evolution simulator") || !strings.Contains(s, "--n-chroms") {
		t.Fatalf("usage text incomplete:\n%s", s)
	}
}

func TestParseHelp(t *testing.T) {
	if _, err := parse(t, "-h"); err != flag.ErrHelp {
		t.Fatalf("expected ErrHelp, got %v", err)
	}
}

func TestValidateModelErrors(t *testing.T) {
	cases := map[string]Options{
		"unknown model":   {Model: "XYZ"},
		"wrong params":    {Model: "GTR", Params: []float64{1, 2}},
		"short pi":        {Model: "JC69", Pi: []float64{0.5, 0.5}},
		"negative indel":  {Model: "JC69", IndelRate: -1},
		"zero ratio":      {Model: "JC69", IndelRate: 0.1, InsDelRatio: 0},
		"negative gamma":  {Model: "JC69", GammaShape: -1},
		"zero chunk":      {Model: "JC69", GammaShape: 1, GammaChunk: 0},
	}
	for name, o := range cases {
		t.Run(name, func(t *testing.T) {
			o := o
			if err := ValidateModel(&o); err == nil {
				t.Fatalf("expected error for %+v", o)
			}
		})
	}
}
