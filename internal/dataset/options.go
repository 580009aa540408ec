package dataset

import "strings"

// MissingStrategy selects how rows with absent values are handled.
type MissingStrategy string

const (
	// Drop removes every row that has a missing value in any column.
	Drop MissingStrategy = "drop"
	// Mean fills missing numeric cells with the column mean of the batch.
	Mean MissingStrategy = "mean"
	// Median fills missing numeric cells with the column median of the batch.
	Median MissingStrategy = "median"
)

// Scaling selects the per-column normalization applied when Normalize is set.
type Scaling string

const (
	// MinMax rescales each column to [0, 1]. This is the default.
	MinMax Scaling = "minmax"
	// ZScore subtracts the column mean and divides by the sample standard deviation.
	ZScore Scaling = "zscore"
)

// Options configures Prepare.
type Options struct {
	// Features lists the numeric columns, in order, that form the matrix.
	Features []string
	Missing  MissingStrategy
	// Normalize rescales each feature column independently.
	Normalize bool
	// Scaling picks the normalization method. Empty means MinMax.
	Scaling Scaling
	// Policy derives the target label for a row.
	Policy LabelPolicy
}

// DefaultOptions returns Options with the drop strategy and no scaling.
// Features and Policy must still be set by the caller.
func DefaultOptions() Options {
	return Options{
		Missing: Drop,
		Scaling: MinMax,
	}
}

// normalizeName lowercases s and folds spaces and hyphens to underscores so
// that UI labels like "Fill with mean" map onto option names.
func normalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(" ", "_", "-", "_").Replace(s)
	return s
}

// ParseMissingStrategy maps a name to a MissingStrategy.
func ParseMissingStrategy(s string) (MissingStrategy, error) {
	switch normalizeName(s) {
	case "drop", "drop_rows":
		return Drop, nil
	case "mean", "fill_with_mean":
		return Mean, nil
	case "median", "fill_with_median":
		return Median, nil
	}
	return "", &InvalidConfigurationError{
		Field:   "missing-value strategy",
		Value:   s,
		Allowed: []string{string(Drop), string(Mean), string(Median)},
	}
}

// ParseScaling maps a name to a Scaling. An empty name yields MinMax.
func ParseScaling(s string) (Scaling, error) {
	switch normalizeName(s) {
	case "", "minmax", "min_max", "min_max_scaling":
		return MinMax, nil
	case "zscore", "z_score", "standard", "standard_scaling":
		return ZScore, nil
	}
	return "", &InvalidConfigurationError{
		Field:   "scaling",
		Value:   s,
		Allowed: []string{string(MinMax), string(ZScore)},
	}
}
