// Package pipeline wires stored students through feature preparation and
// classifier training, and serves predictions from saved models.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/studentperf/internal/classify"
	"github.com/abhisek/studentperf/internal/dataset"
	"github.com/abhisek/studentperf/internal/store"
)

// ErrNoModel is returned by Predict when no model has been trained yet.
var ErrNoModel = errors.New("no trained model; run train first")

// Runner trains models and predicts with them.
type Runner interface {
	Train(ctx context.Context, req TrainRequest) (*TrainResult, error)
	Predict(ctx context.Context, req PredictRequest) (*PredictResult, error)
}

// TrainRequest describes one training run.
type TrainRequest struct {
	Config Config
}

// TrainResult is the outcome of a successful training run.
type TrainResult struct {
	ModelID  string
	Model    *classify.Model
	Policy   string
	Accuracy float64
	// Rows is the number of prepared rows; Dropped counts rows removed
	// for missing values.
	Rows    int
	Dropped int
}

// PredictRequest names a saved model and the raw feature values to classify.
type PredictRequest struct {
	// ModelID selects a saved model. Empty means the latest.
	ModelID string
	Values  map[string]float64
}

// PredictResult is a predicted category with its class probabilities.
type PredictResult struct {
	ModelID       string
	Algorithm     string
	Policy        string
	Label         string
	Probabilities map[string]float64
}

// Service implements Runner on top of the store.
type Service struct {
	students store.StudentRepo
	models   store.ModelRepo
}

// NewService returns a Service reading students and saving models through
// the given repositories.
func NewService(students store.StudentRepo, models store.ModelRepo) *Service {
	return &Service{students: students, models: models}
}

// Prepare loads all students and runs feature preparation with cfg.
func (s *Service) Prepare(ctx context.Context, cfg Config) (*dataset.Prepared, dataset.Options, error) {
	opts, _, err := cfg.resolve()
	if err != nil {
		return nil, opts, err
	}
	p, err := s.prepare(ctx, opts)
	return p, opts, err
}

func (s *Service) prepare(ctx context.Context, opts dataset.Options) (*dataset.Prepared, error) {
	students, err := s.students.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load students: %w", err)
	}
	cols := append(append([]string(nil), opts.Features...), opts.Policy.Columns()...)
	return dataset.Prepare(StudentRows(students, cols), opts)
}

// Train prepares the stored students, fits a classifier and saves it.
func (s *Service) Train(ctx context.Context, req TrainRequest) (*TrainResult, error) {
	opts, cc, err := req.Config.resolve()
	if err != nil {
		return nil, err
	}
	p, err := s.prepare(ctx, opts)
	if err != nil {
		return nil, err
	}
	m, acc, err := classify.Fit(p, cc)
	if err != nil {
		return nil, err
	}

	blob, err := classify.MarshalModel(m)
	if err != nil {
		return nil, err
	}
	rec := &store.ModelRecord{
		Algorithm: string(m.Algorithm),
		Policy:    opts.Policy.Name(),
		Features:  m.Features,
		Accuracy:  acc,
		Rows:      p.Rows(),
		Data:      blob,
	}
	if err := s.models.Save(ctx, rec); err != nil {
		return nil, err
	}

	return &TrainResult{
		ModelID:  rec.ID,
		Model:    m,
		Policy:   rec.Policy,
		Accuracy: acc,
		Rows:     p.Rows(),
		Dropped:  p.Dropped,
	}, nil
}

// Predict classifies req.Values with a saved model.
func (s *Service) Predict(ctx context.Context, req PredictRequest) (*PredictResult, error) {
	m, rec, err := s.LoadModel(ctx, req.ModelID)
	if err != nil {
		return nil, err
	}
	vec, err := m.Vector(req.Values)
	if err != nil {
		return nil, err
	}
	label, err := m.Predict(vec)
	if err != nil {
		return nil, err
	}
	proba, err := m.PredictProba(vec)
	if err != nil {
		return nil, err
	}
	return &PredictResult{
		ModelID:       rec.ID,
		Algorithm:     rec.Algorithm,
		Policy:        rec.Policy,
		Label:         label,
		Probabilities: proba,
	}, nil
}

// LoadModel fetches and decodes a saved model. An empty id loads the latest.
func (s *Service) LoadModel(ctx context.Context, id string) (*classify.Model, *store.ModelRecord, error) {
	var (
		rec *store.ModelRecord
		err error
	)
	if id == "" {
		rec, err = s.models.Latest(ctx)
		if err == nil && rec == nil {
			err = ErrNoModel
		}
	} else {
		rec, err = s.models.Get(ctx, id)
	}
	if err != nil {
		return nil, nil, err
	}
	m, err := classify.UnmarshalModel(rec.Data)
	if err != nil {
		return nil, nil, fmt.Errorf("load model %s: %w", rec.ID, err)
	}
	return m, rec, nil
}
