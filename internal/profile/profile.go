// internal/profile/profile.go

// Package profile loads model settings from a config file so common model
// setups can be shared between runs. Values from the file fill in whatever
// the command line left untouched.
package profile

import (
	"fmt"

	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"

	"jackalope/internal/cli"
)

// Profile mirrors the model section of Options. Zero values mean "not set"
// except where a flag's default is itself zero, in which case the file value
// wins only when the flag was not passed.
type Profile struct {
	Model       string    `mapstructure:"model"`
	Params      []float64 `mapstructure:"params"`
	Pi          []float64 `mapstructure:"pi"`
	IndelRate   float64   `mapstructure:"indel_rate"`
	InsDelRatio float64   `mapstructure:"ins_del_ratio"`
	InsRates    []float64 `mapstructure:"ins_rates"`
	DelRates    []float64 `mapstructure:"del_rates"`
	GammaShape  float64   `mapstructure:"gamma_shape"`
	GammaChunk  int       `mapstructure:"gamma_chunk"`
}

// Load reads a profile file. The format (YAML, TOML, JSON) is taken from
// the file extension.
func Load(path string) (Profile, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Profile{}, fmt.Errorf("profile %s: %w", path, err)
	}
	var p Profile
	if err := v.Unmarshal(&p); err != nil {
		return Profile{}, fmt.Errorf("profile %s: %w", path, err)
	}
	return p, nil
}

// Apply copies each profile value into opt unless the matching flag was set
// on the command line.
func Apply(p Profile, opt *cli.Options, fs *flag.FlagSet) {
	if p.Model != "" && !fs.Changed("model") {
		opt.Model = p.Model
	}
	if p.Params != nil && !fs.Changed("params") {
		opt.Params = p.Params
	}
	if p.Pi != nil && !fs.Changed("pi") {
		opt.Pi = p.Pi
	}
	if p.IndelRate != 0 && !fs.Changed("indel-rate") {
		opt.IndelRate = p.IndelRate
	}
	if p.InsDelRatio != 0 && !fs.Changed("ins-del-ratio") {
		opt.InsDelRatio = p.InsDelRatio
	}
	if p.InsRates != nil && !fs.Changed("ins-rates") {
		opt.InsRates = p.InsRates
	}
	if p.DelRates != nil && !fs.Changed("del-rates") {
		opt.DelRates = p.DelRates
	}
	if p.GammaShape != 0 && !fs.Changed("gamma-shape") {
		opt.GammaShape = p.GammaShape
	}
	if p.GammaChunk != 0 && !fs.Changed("gamma-chunk") {
		opt.GammaChunk = p.GammaChunk
	}
}
