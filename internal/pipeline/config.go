package pipeline

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/abhisek/studentperf/internal/classify"
	"github.com/abhisek/studentperf/internal/dataset"
)

// Config selects what a training run uses. String fields hold option names
// as typed by a user; they are parsed by Validate and Train.
type Config struct {
	// Preset picks a feature list and label policy. Default: "profile".
	Preset string
	// Features overrides the preset's feature list when non-empty.
	Features []string
	// Policy overrides the preset's label policy when non-empty.
	Policy string

	Missing   string
	Normalize bool
	Scaling   string

	Algorithm    string
	Seed         uint64
	MaxDepth     int
	TestFraction float64
}

// DefaultConfig returns the configuration used when nothing is specified:
// the profile preset, drop missing rows, min-max scaling, decision tree.
func DefaultConfig() Config {
	cc := classify.DefaultConfig()
	return Config{
		Preset:       PresetProfile,
		Missing:      string(dataset.Drop),
		Normalize:    true,
		Scaling:      string(dataset.MinMax),
		Algorithm:    string(cc.Algorithm),
		Seed:         cc.Seed,
		MaxDepth:     cc.Tree.MaxDepth,
		TestFraction: cc.TestFraction,
	}
}

// ConfigFromEnv builds a Config from STUDENTPERF_* environment variables,
// falling back to defaults for unset values. Unparsable numbers are reported
// on stderr and ignored.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("STUDENTPERF_PRESET"); v != "" {
		cfg.Preset = v
	}
	if v := os.Getenv("STUDENTPERF_FEATURES"); v != "" {
		cfg.Features = SplitList(v)
	}
	if v := os.Getenv("STUDENTPERF_POLICY"); v != "" {
		cfg.Policy = v
	}
	if v := os.Getenv("STUDENTPERF_ALGORITHM"); v != "" {
		cfg.Algorithm = v
	}
	if v := os.Getenv("STUDENTPERF_MISSING"); v != "" {
		cfg.Missing = v
	}
	if v := os.Getenv("STUDENTPERF_SCALING"); v != "" {
		cfg.Scaling = v
	}
	if v := os.Getenv("STUDENTPERF_NORMALIZE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Normalize = b
		} else {
			fmt.Fprintf(os.Stderr, "warning: ignoring STUDENTPERF_NORMALIZE=%q: %v\n", v, err)
		}
	}
	if v := os.Getenv("STUDENTPERF_SEED"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.Seed = n
		} else {
			fmt.Fprintf(os.Stderr, "warning: ignoring STUDENTPERF_SEED=%q: %v\n", v, err)
		}
	}
	if v := os.Getenv("STUDENTPERF_MAX_DEPTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxDepth = n
		} else {
			fmt.Fprintf(os.Stderr, "warning: ignoring STUDENTPERF_MAX_DEPTH=%q: %v\n", v, err)
		}
	}

	return cfg
}

// Validate checks every option name and numeric bound.
func (c Config) Validate() error {
	_, _, err := c.resolve()
	return err
}

// resolve turns c into the options the dataset and classify packages take.
func (c Config) resolve() (dataset.Options, classify.Config, error) {
	var (
		opts dataset.Options
		cc   = classify.DefaultConfig()
	)

	preset, err := LookupPreset(c.Preset)
	if err != nil {
		return opts, cc, err
	}
	opts.Features = preset.Features
	if len(c.Features) > 0 {
		opts.Features = c.Features
	}
	policyName := preset.Policy
	if c.Policy != "" {
		policyName = c.Policy
	}
	if opts.Policy, err = dataset.ParseLabelPolicy(policyName); err != nil {
		return opts, cc, err
	}
	if opts.Missing, err = dataset.ParseMissingStrategy(c.Missing); err != nil {
		return opts, cc, err
	}
	opts.Normalize = c.Normalize
	if opts.Scaling, err = dataset.ParseScaling(c.Scaling); err != nil {
		return opts, cc, err
	}

	if cc.Algorithm, err = classify.ParseAlgorithm(c.Algorithm); err != nil {
		return opts, cc, err
	}
	cc.Seed = c.Seed
	if c.MaxDepth < 0 {
		return opts, cc, &dataset.InvalidConfigurationError{Field: "max depth", Value: strconv.Itoa(c.MaxDepth)}
	}
	cc.Tree.MaxDepth = c.MaxDepth
	if c.TestFraction != 0 {
		if c.TestFraction < 0 || c.TestFraction >= 1 {
			return opts, cc, &dataset.InvalidConfigurationError{Field: "test fraction", Value: fmt.Sprint(c.TestFraction)}
		}
		cc.TestFraction = c.TestFraction
	}
	return opts, cc, nil
}

// SplitList splits a comma-separated list, dropping blanks.
func SplitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
