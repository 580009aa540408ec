package classify

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/abhisek/studentperf/internal/dataset"
)

// Train fits a classifier on x and y and reports held-out accuracy.
// x must already be in model space: Predict on the result expects vectors in
// the same space, with generated feature names x0, x1, ...
// Use Fit to train on a dataset.Prepared and keep its feature names and scaler.
func Train(x *mat.Dense, y []string, cfg Config) (*Model, float64, error) {
	var features []string
	if x != nil {
		_, c := x.Dims()
		features = make([]string, c)
		for i := range features {
			features[i] = fmt.Sprintf("x%d", i)
		}
	}
	return train(x, y, features, nil, cfg)
}

// Fit trains on prepared data. The returned model applies p.Scaler to raw
// vectors before classifying them.
func Fit(p *dataset.Prepared, cfg Config) (*Model, float64, error) {
	if p == nil {
		return nil, 0, &dataset.InsufficientDataError{Reason: "nothing prepared"}
	}
	return train(p.Matrix, p.Target, p.Features, p.Scaler, cfg)
}

func train(x *mat.Dense, y []string, features []string, scaler *dataset.Scaler, cfg Config) (*Model, float64, error) {
	algo, err := ParseAlgorithm(string(cfg.Algorithm))
	if err != nil {
		return nil, 0, err
	}
	if cfg.TestFraction == 0 {
		cfg.TestFraction = 0.2
	}
	if cfg.TestFraction < 0 || cfg.TestFraction >= 1 {
		return nil, 0, &dataset.InvalidConfigurationError{
			Field: "test fraction",
			Value: fmt.Sprint(cfg.TestFraction),
		}
	}
	if x == nil || len(y) < 2 {
		return nil, 0, &dataset.InsufficientDataError{Reason: "need at least 2 rows", Rows: len(y)}
	}
	n, c := x.Dims()
	if n != len(y) {
		return nil, 0, &dataset.DimensionMismatchError{Want: n, Got: len(y)}
	}
	if c != len(features) {
		return nil, 0, &dataset.DimensionMismatchError{Want: c, Got: len(features)}
	}

	enc := FitLabelEncoder(y)
	if len(enc.Classes) < 2 {
		return nil, 0, &dataset.InsufficientDataError{
			Reason: fmt.Sprintf("need at least 2 distinct classes, got %d", len(enc.Classes)),
			Rows:   n,
		}
	}
	codes, err := enc.Encode(y)
	if err != nil {
		return nil, 0, err
	}
	k := len(enc.Classes)

	trainRows, testRows := trainTestSplit(n, cfg.TestFraction, cfg.Seed)
	if distinct(codes, trainRows) < 2 {
		return nil, 0, &dataset.InsufficientDataError{
			Reason: "training partition has fewer than 2 classes",
			Rows:   n,
		}
	}

	m := &Model{
		Algorithm: algo,
		Features:  append([]string(nil), features...),
		Encoder:   enc,
		Scaler:    scaler,
	}
	switch algo {
	case DecisionTree:
		m.Tree = fitTree(x, codes, trainRows, k, cfg.Tree)
	case NaiveBayes:
		m.Bayes = fitGaussianNB(x, codes, trainRows, k)
	}

	metrics, err := m.evaluate(x, codes, trainRows, testRows)
	if err != nil {
		return nil, 0, err
	}
	m.Metrics = metrics
	return m, metrics.Accuracy, nil
}

func (m *Model) evaluate(x *mat.Dense, codes, trainRows, testRows []int) (Metrics, error) {
	k := len(m.Encoder.Classes)
	confusion := make([][]int, k)
	for i := range confusion {
		confusion[i] = make([]int, k)
	}

	trainCounts := make([]float64, k)
	for _, r := range trainRows {
		trainCounts[codes[r]]++
	}
	majority := argmax(trainCounts)

	correct, baseline := 0, 0
	for _, r := range testRows {
		proba, err := m.predictScaled(rowOf(x, r))
		if err != nil {
			return Metrics{}, err
		}
		pred := argmax(proba)
		confusion[codes[r]][pred]++
		if pred == codes[r] {
			correct++
		}
		if majority == codes[r] {
			baseline++
		}
	}

	total := float64(len(testRows))
	return Metrics{
		Accuracy:  float64(correct) / total,
		Baseline:  float64(baseline) / total,
		TrainRows: len(trainRows),
		TestRows:  len(testRows),
		Confusion: confusion,
	}, nil
}

func distinct(codes, rows []int) int {
	seen := make(map[int]struct{})
	for _, r := range rows {
		seen[codes[r]] = struct{}{}
	}
	return len(seen)
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}
