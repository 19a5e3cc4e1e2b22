package profile

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"jackalope/internal/cli"
)

const sample = `model: HKY85
params: [2.0, 0.5]
pi: [0.1, 0.2, 0.3, 0.4]
indel_rate: 0.1
ins_del_ratio: 1.5
gamma_shape: 0.5
gamma_chunk: 50
`

func writeProfile(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.yaml")
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	p, err := Load(writeProfile(t, sample))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if p.Model != "HKY85" || p.IndelRate != 0.1 || p.GammaChunk != 50 {
		t.Fatalf("unexpected profile: %+v", p)
	}
	if len(p.Params) != 2 || p.Params[0] != 2.0 {
		t.Fatalf("params not loaded: %v", p.Params)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestApplyRespectsExplicitFlags(t *testing.T) {
	p, err := Load(writeProfile(t, sample))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	fs := cli.NewFlagSet("jackalope")
	fs.SetOutput(io.Discard)
	opt, err := cli.ParseArgs(fs, []string{"--n-chroms", "1", "--model", "GTR"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	Apply(p, &opt, fs)
	if opt.Model != "GTR" {
		t.Fatalf("explicit --model overridden: %q", opt.Model)
	}
	if opt.IndelRate != 0.1 || opt.InsDelRatio != 1.5 || opt.GammaShape != 0.5 || opt.GammaChunk != 50 {
		t.Fatalf("profile values not applied: %+v", opt)
	}
	if len(opt.Pi) != 4 {
		t.Fatalf("pi not applied: %v", opt.Pi)
	}
}
