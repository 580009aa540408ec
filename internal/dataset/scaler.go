package dataset

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Scaler holds per-column normalization parameters fitted on a training
// batch. A value x in column j is transformed to (x - Offset[j]) / Scale[j].
type Scaler struct {
	Method  Scaling   `json:"method"`
	Columns []string  `json:"columns"`
	Offset  []float64 `json:"offset"`
	Scale   []float64 `json:"scale"`
}

// FitScaler fits a Scaler to the columns of m. Columns with zero range
// (min-max) or zero deviation (z-score) get a scale of 1, so they map to 0.
func FitScaler(m mat.Matrix, columns []string, method Scaling) (*Scaler, error) {
	r, c := m.Dims()
	if len(columns) != c {
		return nil, &DimensionMismatchError{Want: c, Got: len(columns)}
	}
	if method == "" {
		method = MinMax
	}
	if method != MinMax && method != ZScore {
		return nil, &InvalidConfigurationError{
			Field:   "scaling",
			Value:   string(method),
			Allowed: []string{string(MinMax), string(ZScore)},
		}
	}

	s := &Scaler{
		Method:  method,
		Columns: append([]string(nil), columns...),
		Offset:  make([]float64, c),
		Scale:   make([]float64, c),
	}
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, m)
		var offset, scale float64
		switch method {
		case MinMax:
			lo, hi := floats.Min(col), floats.Max(col)
			offset, scale = lo, hi-lo
		case ZScore:
			offset = stat.Mean(col, nil)
			if r > 1 {
				scale = stat.StdDev(col, nil)
			}
		}
		if scale == 0 || math.IsNaN(scale) {
			scale = 1
		}
		s.Offset[j] = offset
		s.Scale[j] = scale
	}
	return s, nil
}

// Transform returns a scaled copy of vec. A nil Scaler returns an unscaled copy.
func (s *Scaler) Transform(vec []float64) ([]float64, error) {
	out := append([]float64(nil), vec...)
	if s == nil {
		return out, nil
	}
	if len(vec) != len(s.Offset) {
		return nil, &DimensionMismatchError{Want: len(s.Offset), Got: len(vec)}
	}
	for j := range out {
		out[j] = (out[j] - s.Offset[j]) / s.Scale[j]
	}
	return out, nil
}

// TransformMatrix scales m in place.
func (s *Scaler) TransformMatrix(m *mat.Dense) error {
	if s == nil {
		return nil
	}
	r, c := m.Dims()
	if c != len(s.Offset) {
		return &DimensionMismatchError{Want: len(s.Offset), Got: c}
	}
	for i := 0; i < r; i++ {
		row := m.RawRowView(i)
		for j := range row {
			row[j] = (row[j] - s.Offset[j]) / s.Scale[j]
		}
	}
	return nil
}
