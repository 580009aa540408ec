package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/abhisek/studentperf/internal/store"
)

// loggingRunner is a decorator that records every run as an event.
type loggingRunner struct {
	inner  Runner
	events store.EventRepo
}

// WithRunLog wraps a Runner with event logging.
func WithRunLog(r Runner, events store.EventRepo) Runner {
	return &loggingRunner{inner: r, events: events}
}

func (l *loggingRunner) Train(ctx context.Context, req TrainRequest) (*TrainResult, error) {
	start := time.Now()
	res, err := l.inner.Train(ctx, req)

	data := store.RunEventData{
		Kind:      store.RunTrain,
		Algorithm: req.Config.Algorithm,
		Policy:    req.Config.Policy,
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
	}
	if data.Policy == "" {
		if p, perr := LookupPreset(req.Config.Preset); perr == nil {
			data.Policy = p.Policy
		}
	}
	if res != nil {
		acc := res.Accuracy
		data.ModelID = res.ModelID
		data.Algorithm = string(res.Model.Algorithm)
		data.Policy = res.Policy
		data.Rows = res.Rows
		data.Accuracy = &acc
	}
	if err != nil {
		data.ErrorMessage = err.Error()
	}

	l.append(ctx, data)
	return res, err
}

func (l *loggingRunner) Predict(ctx context.Context, req PredictRequest) (*PredictResult, error) {
	start := time.Now()
	res, err := l.inner.Predict(ctx, req)

	data := store.RunEventData{
		Kind:      store.RunPredict,
		ModelID:   req.ModelID,
		Rows:      1,
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
	}
	if res != nil {
		data.ModelID = res.ModelID
		data.Algorithm = res.Algorithm
		data.Policy = res.Policy
		data.Label = res.Label
	}
	if err != nil {
		data.ErrorMessage = err.Error()
	}

	l.append(ctx, data)
	return res, err
}

// append logs the event but doesn't fail the run if logging fails.
func (l *loggingRunner) append(ctx context.Context, data store.RunEventData) {
	if logErr := l.events.AppendRun(ctx, data); logErr != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to log %s run: %v\n", data.Kind, logErr)
	}
}
