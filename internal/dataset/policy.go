package dataset

import (
	"fmt"
	"math"
)

// Performance categories, lowest first.
const (
	Poor      = "Poor"
	Average   = "Average"
	Good      = "Good"
	Excellent = "Excellent"
)

// Categories lists every performance category in ascending order.
var Categories = []string{Poor, Average, Good, Excellent}

// LabelPolicy derives the target category for a row.
type LabelPolicy interface {
	// Name identifies the policy in configuration and run logs.
	Name() string
	// Columns lists the row columns the policy reads.
	Columns() []string
	// Label returns the category for row.
	Label(row Row) (string, error)
}

// Policy names accepted by ParseLabelPolicy.
const (
	PolicyWeighted = "weighted"
	PolicyRawScore = "raw_score"
	PolicyStored   = "stored"
)

// WeightedScorePolicy labels a row from a weighted blend of marks,
// attendance and participation.
type WeightedScorePolicy struct{}

func (WeightedScorePolicy) Name() string { return PolicyWeighted }

func (WeightedScorePolicy) Columns() []string {
	return []string{"marks", "attendance", "participation"}
}

func (p WeightedScorePolicy) Label(row Row) (string, error) {
	vals, err := numbers(row, p.Columns())
	if err != nil {
		return "", err
	}
	return WeightedCategory(vals[0], vals[1], vals[2]), nil
}

// WeightedCategory computes round(0.6*marks + 0.3*attendance + 0.1*participation)
// and maps it through the 85/70/50 breakpoints. Halves round to even.
func WeightedCategory(marks, attendance, participation float64) string {
	score := math.RoundToEven(0.6*marks + 0.3*attendance + 0.1*participation)
	switch {
	case score >= 85:
		return Excellent
	case score >= 70:
		return Good
	case score >= 50:
		return Average
	default:
		return Poor
	}
}

// RawScoreThresholdPolicy labels a row directly from its score column.
type RawScoreThresholdPolicy struct{}

func (RawScoreThresholdPolicy) Name() string { return PolicyRawScore }

func (RawScoreThresholdPolicy) Columns() []string { return []string{"score"} }

func (p RawScoreThresholdPolicy) Label(row Row) (string, error) {
	vals, err := numbers(row, p.Columns())
	if err != nil {
		return "", err
	}
	return ScoreCategory(vals[0]), nil
}

// ScoreCategory maps a raw score through the 45/35/25 breakpoints.
func ScoreCategory(score float64) string {
	switch {
	case score >= 45:
		return Excellent
	case score >= 35:
		return Good
	case score >= 25:
		return Average
	default:
		return Poor
	}
}

// StoredCategoryPolicy uses the performance_category already on the row.
type StoredCategoryPolicy struct{}

func (StoredCategoryPolicy) Name() string { return PolicyStored }

func (StoredCategoryPolicy) Columns() []string { return []string{"performance_category"} }

func (StoredCategoryPolicy) Label(row Row) (string, error) {
	v := row["performance_category"]
	s, ok := v.Str()
	if !ok || s == "" {
		return "", fmt.Errorf("performance_category is %s", v)
	}
	return s, nil
}

// ParseLabelPolicy returns the policy registered under name.
func ParseLabelPolicy(name string) (LabelPolicy, error) {
	switch normalizeName(name) {
	case PolicyWeighted, "weighted_score":
		return WeightedScorePolicy{}, nil
	case PolicyRawScore, "raw_score_threshold", "score":
		return RawScoreThresholdPolicy{}, nil
	case PolicyStored, "performance_category":
		return StoredCategoryPolicy{}, nil
	}
	return nil, &InvalidConfigurationError{
		Field:   "label policy",
		Value:   name,
		Allowed: []string{PolicyWeighted, PolicyRawScore, PolicyStored},
	}
}

func numbers(row Row, cols []string) ([]float64, error) {
	out := make([]float64, len(cols))
	for i, c := range cols {
		f, ok := row[c].Float()
		if !ok {
			return nil, fmt.Errorf("%s is %s", c, row[c])
		}
		out[i] = f
	}
	return out, nil
}
