// Package classify trains small categorical classifiers on prepared student
// data and predicts performance categories with them.
package classify

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/abhisek/studentperf/internal/dataset"
)

// Algorithm names a classifier family.
type Algorithm string

const (
	DecisionTree Algorithm = "decision_tree"
	NaiveBayes   Algorithm = "naive_bayes"
)

// ParseAlgorithm maps a name such as "decision_tree" or "Naive Bayes" to an Algorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch normalize(s) {
	case string(DecisionTree), "tree", "dt":
		return DecisionTree, nil
	case string(NaiveBayes), "bayes", "nb", "gaussian_nb":
		return NaiveBayes, nil
	}
	return "", &dataset.InvalidConfigurationError{
		Field:   "algorithm",
		Value:   s,
		Allowed: []string{string(DecisionTree), string(NaiveBayes)},
	}
}

// Config controls training.
type Config struct {
	Algorithm Algorithm
	// TestFraction is the share of rows held out for accuracy. Default 0.2.
	TestFraction float64
	// Seed fixes the train/test shuffle.
	Seed uint64
	Tree TreeConfig
}

// DefaultSeed is the shuffle seed used when none is configured.
const DefaultSeed = 42

// DefaultConfig returns a decision tree Config with an 80/20 split.
func DefaultConfig() Config {
	return Config{
		Algorithm:    DecisionTree,
		TestFraction: 0.2,
		Seed:         DefaultSeed,
		Tree:         DefaultTreeConfig(),
	}
}

// Metrics summarizes held-out evaluation.
type Metrics struct {
	Accuracy float64 `json:"accuracy"`
	// Baseline is the accuracy of always predicting the training majority class.
	Baseline  float64 `json:"baseline"`
	TrainRows int     `json:"train_rows"`
	TestRows  int     `json:"test_rows"`
	// Confusion[i][j] counts held-out rows of class i predicted as class j.
	Confusion [][]int `json:"confusion"`
}

// Model is a trained classifier together with everything needed to apply
// it to raw feature vectors: feature order, fitted scaler and label encoding.
// A Model is not modified after Train returns.
type Model struct {
	Algorithm Algorithm       `json:"algorithm"`
	Features  []string        `json:"features"`
	Encoder   *LabelEncoder   `json:"encoder"`
	Scaler    *dataset.Scaler `json:"scaler,omitempty"`
	Tree      *Tree           `json:"tree,omitempty"`
	Bayes     *GaussianNB     `json:"naive_bayes,omitempty"`
	Metrics   Metrics         `json:"metrics"`
}

// Classes returns the labels the model can predict, in code order.
func (m *Model) Classes() []string {
	return append([]string(nil), m.Encoder.Classes...)
}

// Predict returns the category label for a raw (unscaled) feature vector
// whose columns follow m.Features.
func (m *Model) Predict(vector []float64) (string, error) {
	proba, err := m.proba(vector)
	if err != nil {
		return "", err
	}
	return m.Encoder.Decode(argmax(proba))
}

// PredictProba returns the probability of each class for a raw feature vector.
func (m *Model) PredictProba(vector []float64) (map[string]float64, error) {
	proba, err := m.proba(vector)
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(proba))
	for i, p := range proba {
		out[m.Encoder.Classes[i]] = p
	}
	return out, nil
}

// PredictNamed orders values by m.Features and predicts.
func (m *Model) PredictNamed(values map[string]float64) (string, error) {
	vec, err := m.Vector(values)
	if err != nil {
		return "", err
	}
	return m.Predict(vec)
}

// Vector builds a feature vector from named values. Every feature needs a
// value and every name must be a feature.
func (m *Model) Vector(values map[string]float64) ([]float64, error) {
	vec := make([]float64, len(m.Features))
	for i, f := range m.Features {
		v, ok := values[f]
		if !ok {
			return nil, &dataset.DimensionMismatchError{Want: len(m.Features), Got: len(values), Feature: f}
		}
		vec[i] = v
	}
	if len(values) != len(m.Features) {
		known := make(map[string]bool, len(m.Features))
		for _, f := range m.Features {
			known[f] = true
		}
		var unknown []string
		for name := range values {
			if !known[name] {
				unknown = append(unknown, name)
			}
		}
		sort.Strings(unknown)
		return nil, &dataset.DimensionMismatchError{Want: len(m.Features), Got: len(values), Unknown: unknown}
	}
	return vec, nil
}

func (m *Model) proba(vector []float64) ([]float64, error) {
	if len(vector) != len(m.Features) {
		return nil, &dataset.DimensionMismatchError{Want: len(m.Features), Got: len(vector)}
	}
	x, err := m.Scaler.Transform(vector)
	if err != nil {
		return nil, err
	}
	return m.predictScaled(x)
}

// predictScaled runs the fitted classifier on an already-scaled vector.
func (m *Model) predictScaled(x []float64) ([]float64, error) {
	switch m.Algorithm {
	case DecisionTree:
		if m.Tree == nil {
			return nil, fmt.Errorf("decision tree model has no tree")
		}
		return m.Tree.predictProba(x), nil
	case NaiveBayes:
		if m.Bayes == nil {
			return nil, fmt.Errorf("naive bayes model has no parameters")
		}
		return m.Bayes.predictProba(x), nil
	}
	return nil, &dataset.InvalidConfigurationError{Field: "algorithm", Value: string(m.Algorithm)}
}

// argmax returns the index of the largest value, preferring the lowest index on ties.
func argmax(xs []float64) int {
	best := 0
	for i, x := range xs {
		if x > xs[best] {
			best = i
		}
	}
	return best
}

func rowOf(x *mat.Dense, i int) []float64 {
	return mat.Row(nil, i, x)
}
