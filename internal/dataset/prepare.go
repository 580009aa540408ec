// Package dataset turns batches of loosely-typed student rows into a numeric
// feature matrix and an aligned target vector.
package dataset

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Prepared is the output of Prepare.
type Prepared struct {
	// Matrix has one row per surviving input row and one column per feature.
	Matrix *mat.Dense
	// Target holds the category label of each matrix row.
	Target []string
	// Features names the matrix columns.
	Features []string
	// Scaler is nil unless normalization was requested.
	Scaler *Scaler
	// Dropped counts rows removed by the drop strategy.
	Dropped int
}

// Rows returns the number of prepared rows.
func (p *Prepared) Rows() int {
	r, _ := p.Matrix.Dims()
	return r
}

// Prepare applies the missing-value strategy, derives labels with the
// configured policy and builds the feature matrix, scaling it when asked.
// Labels are derived from filled but unscaled values. rows is not modified.
//
// Fill statistics are computed over the batch passed in, so the same row
// can be filled differently in different batches.
func Prepare(rows []Row, opts Options) (*Prepared, error) {
	if len(opts.Features) == 0 {
		return nil, &InvalidConfigurationError{Field: "feature list", Value: ""}
	}
	if opts.Policy == nil {
		return nil, &InvalidConfigurationError{Field: "label policy", Value: ""}
	}
	missing := opts.Missing
	if missing == "" {
		missing = Drop
	}
	if _, err := ParseMissingStrategy(string(missing)); err != nil {
		return nil, err
	}
	scaling := MinMax
	if opts.Normalize {
		s, err := ParseScaling(string(opts.Scaling))
		if err != nil {
			return nil, err
		}
		scaling = s
	}
	if len(rows) == 0 {
		return nil, &InsufficientDataError{Reason: "no rows"}
	}

	cols := Columns(rows)
	known := make(map[string]bool, len(cols))
	for _, c := range cols {
		known[c] = true
	}
	for _, c := range append(append([]string(nil), opts.Features...), opts.Policy.Columns()...) {
		if !known[c] {
			return nil, &InvalidConfigurationError{Field: "column", Value: c, Allowed: cols}
		}
	}

	work := cloneRows(rows)
	dropped := 0
	switch missing {
	case Drop:
		work = dropIncomplete(work, cols)
		dropped = len(rows) - len(work)
	case Mean:
		fillMissing(work, cols, func(xs []float64) float64 { return stat.Mean(xs, nil) })
	case Median:
		fillMissing(work, cols, median)
	}
	if len(work) == 0 {
		return nil, &InsufficientDataError{
			Reason: "no rows left after dropping missing values",
			Rows:   len(rows),
		}
	}

	target := make([]string, len(work))
	for i, r := range work {
		label, err := opts.Policy.Label(r)
		if err != nil {
			return nil, &InsufficientDataError{
				Reason: fmt.Sprintf("row %d: cannot derive %s label: %v", i, opts.Policy.Name(), err),
				Rows:   len(work),
			}
		}
		target[i] = label
	}

	data := make([]float64, 0, len(work)*len(opts.Features))
	for _, r := range work {
		for _, f := range opts.Features {
			v := r[f]
			x, ok := v.Float()
			if !ok {
				if v.IsMissing() {
					return nil, &InsufficientDataError{
						Reason: fmt.Sprintf("feature %q has no values to fill from", f),
						Rows:   len(work),
					}
				}
				return nil, &InvalidConfigurationError{Field: "numeric feature", Value: f}
			}
			data = append(data, x)
		}
	}

	out := &Prepared{
		Matrix:   mat.NewDense(len(work), len(opts.Features), data),
		Target:   target,
		Features: append([]string(nil), opts.Features...),
		Dropped:  dropped,
	}
	if opts.Normalize {
		sc, err := FitScaler(out.Matrix, out.Features, scaling)
		if err != nil {
			return nil, err
		}
		if err := sc.TransformMatrix(out.Matrix); err != nil {
			return nil, err
		}
		out.Scaler = sc
	}
	return out, nil
}

func dropIncomplete(rows []Row, cols []string) []Row {
	kept := rows[:0]
	for _, r := range rows {
		complete := true
		for _, c := range cols {
			if r[c].IsMissing() {
				complete = false
				break
			}
		}
		if complete {
			kept = append(kept, r)
		}
	}
	return kept
}

// fillMissing replaces missing cells in numeric columns with agg over the
// column's present values. Columns holding any text are left alone, as are
// columns with no present values at all.
func fillMissing(rows []Row, cols []string, agg func([]float64) float64) {
	for _, c := range cols {
		var present []float64
		numeric := true
		for _, r := range rows {
			v := r[c]
			if v.IsMissing() {
				continue
			}
			f, ok := v.Float()
			if !ok {
				numeric = false
				break
			}
			present = append(present, f)
		}
		if !numeric || len(present) == 0 || len(present) == len(rows) {
			continue
		}
		fill := Number(agg(present))
		for _, r := range rows {
			if r[c].IsMissing() {
				r[c] = fill
			}
		}
	}
}

// median averages the two middle values for even-length input.
func median(xs []float64) float64 {
	s := append([]float64(nil), xs...)
	sort.Float64s(s)
	n := len(s)
	if n%2 == 1 {
		return s[n/2]
	}
	return (s[n/2-1] + s[n/2]) / 2
}
