package classify

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// varSmoothing is the fraction of the largest feature variance added to
// every per-class variance.
const varSmoothing = 1e-9

// GaussianNB is a Gaussian naive Bayes classifier. Priors are the class
// frequencies of the training partition. Classes absent from training have
// a zero prior and are never predicted.
type GaussianNB struct {
	Prior    []float64   `json:"prior"`
	Mean     [][]float64 `json:"mean"`     // [class][feature]
	Variance [][]float64 `json:"variance"` // [class][feature], smoothed
	Epsilon  float64     `json:"epsilon"`
}

func fitGaussianNB(x *mat.Dense, y []int, rows []int, k int) *GaussianNB {
	_, nFeatures := x.Dims()

	byClass := make([][]int, k)
	for _, r := range rows {
		byClass[y[r]] = append(byClass[y[r]], r)
	}

	// Smoothing is relative to the spread of the whole training partition.
	maxVar := 0.0
	col := make([]float64, len(rows))
	for f := 0; f < nFeatures; f++ {
		for i, r := range rows {
			col[i] = x.At(r, f)
		}
		if v := popVariance(col); v > maxVar {
			maxVar = v
		}
	}
	eps := varSmoothing * maxVar
	if eps < varSmoothing {
		eps = varSmoothing
	}

	nb := &GaussianNB{
		Prior:    make([]float64, k),
		Mean:     make([][]float64, k),
		Variance: make([][]float64, k),
		Epsilon:  eps,
	}
	for c := 0; c < k; c++ {
		nb.Prior[c] = float64(len(byClass[c])) / float64(len(rows))
		nb.Mean[c] = make([]float64, nFeatures)
		nb.Variance[c] = make([]float64, nFeatures)
		vals := make([]float64, len(byClass[c]))
		for f := 0; f < nFeatures; f++ {
			for i, r := range byClass[c] {
				vals[i] = x.At(r, f)
			}
			if len(vals) > 0 {
				nb.Mean[c][f] = stat.Mean(vals, nil)
			}
			nb.Variance[c][f] = popVariance(vals) + eps
		}
	}
	return nb
}

// popVariance returns the population variance of xs, or 0 for fewer than
// two values.
func popVariance(xs []float64) float64 {
	n := len(xs)
	if n < 2 {
		return 0
	}
	_, v := stat.MeanVariance(xs, nil)
	return v * float64(n-1) / float64(n)
}

func (nb *GaussianNB) predictProba(x []float64) []float64 {
	k := len(nb.Prior)
	jll := make([]float64, k)
	for c := 0; c < k; c++ {
		if nb.Prior[c] == 0 {
			jll[c] = math.Inf(-1)
			continue
		}
		ll := math.Log(nb.Prior[c])
		for f, xf := range x {
			v := nb.Variance[c][f]
			d := xf - nb.Mean[c][f]
			ll += -0.5*math.Log(2*math.Pi*v) - d*d/(2*v)
		}
		jll[c] = ll
	}

	norm := floats.LogSumExp(jll)
	proba := make([]float64, k)
	for c, l := range jll {
		proba[c] = math.Exp(l - norm)
	}
	return proba
}
