package dataset

import (
	"fmt"
	"strings"
)

// InvalidConfigurationError reports an unrecognized option value, such as
// an unknown missing-value strategy or algorithm name.
type InvalidConfigurationError struct {
	Field   string
	Value   string
	Allowed []string
}

func (e *InvalidConfigurationError) Error() string {
	if len(e.Allowed) == 0 {
		return fmt.Sprintf("invalid %s %q", e.Field, e.Value)
	}
	return fmt.Sprintf("invalid %s %q (want one of: %s)", e.Field, e.Value, strings.Join(e.Allowed, ", "))
}

// InsufficientDataError indicates there are too few rows or classes to
// produce a result.
type InsufficientDataError struct {
	Reason string
	Rows   int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: %s", e.Reason)
}

// DimensionMismatchError indicates a feature vector whose shape does not
// match what a model or scaler was fit on.
type DimensionMismatchError struct {
	Want    int
	Got     int
	Feature string   // set when a named feature is absent
	Unknown []string // names that match no feature, sorted
}

func (e *DimensionMismatchError) Error() string {
	if len(e.Unknown) > 0 {
		return fmt.Sprintf("dimension mismatch: unknown features %s", strings.Join(e.Unknown, ", "))
	}
	if e.Feature != "" {
		return fmt.Sprintf("dimension mismatch: missing value for feature %q", e.Feature)
	}
	return fmt.Sprintf("dimension mismatch: want %d features, got %d", e.Want, e.Got)
}
