package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studentperf/internal/dataset"
	"github.com/abhisek/studentperf/internal/store"
)

func ptr[T any](v T) *T { return &v }

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open("file::memory:?cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

// seedProfile stores ten students whose study time alone decides the category.
func seedProfile(t *testing.T, st *store.Store) {
	t.Helper()
	var students []store.Student
	for i := 0; i < 5; i++ {
		students = append(students,
			store.Student{Name: "low", Studytime: ptr(1), Absences: ptr(2 * i), Failures: ptr(0), Famrel: ptr(4), Score: ptr(10.0)},
			store.Student{Name: "high", Studytime: ptr(4), Absences: ptr(2 * i), Failures: ptr(0), Famrel: ptr(4), Score: ptr(40.0)},
		)
	}
	// Entry-form only student; its profile columns are all missing.
	students = append(students, store.Student{Name: "entry", Marks: ptr(70.0), Attendance: ptr(80.0), Participation: ptr(60.0)})
	_, err := st.Students().ReplaceAll(context.Background(), students)
	require.NoError(t, err)
}

func TestService_TrainAndPredict(t *testing.T) {
	st := openTestStore(t)
	seedProfile(t, st)
	svc := NewService(st.Students(), st.Models())
	ctx := context.Background()

	res, err := svc.Train(ctx, TrainRequest{Config: DefaultConfig()})
	require.NoError(t, err)
	assert.NotEmpty(t, res.ModelID)
	assert.Equal(t, 10, res.Rows)
	assert.Equal(t, 1, res.Dropped)
	assert.Equal(t, dataset.PolicyRawScore, res.Policy)
	assert.GreaterOrEqual(t, res.Accuracy, res.Model.Metrics.Baseline)
	require.NotNil(t, res.Model.Scaler)

	values := map[string]float64{"studytime": 4, "absences": 3, "failures": 0, "famrel": 4}
	pred, err := svc.Predict(ctx, PredictRequest{Values: values})
	require.NoError(t, err)
	assert.Equal(t, res.ModelID, pred.ModelID)
	assert.Equal(t, dataset.Good, pred.Label)
	assert.InDelta(t, 1.0, pred.Probabilities[dataset.Good], 1e-9)

	again, err := svc.Predict(ctx, PredictRequest{ModelID: res.ModelID, Values: values})
	require.NoError(t, err)
	assert.Equal(t, pred.Label, again.Label)

	values["studytime"] = 1
	pred, err = svc.Predict(ctx, PredictRequest{Values: values})
	require.NoError(t, err)
	assert.Equal(t, dataset.Poor, pred.Label)
}

func TestService_TrainEntryPreset(t *testing.T) {
	st := openTestStore(t)
	var students []store.Student
	for i := 0; i < 5; i++ {
		f := float64(i)
		students = append(students,
			store.Student{Name: "top", Marks: ptr(90 + f), Attendance: ptr(95.0), Participation: ptr(80.0)},
			store.Student{Name: "low", Marks: ptr(30 + f), Attendance: ptr(40.0), Participation: ptr(20.0)},
		)
	}
	_, err := st.Students().ReplaceAll(context.Background(), students)
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.Preset = PresetEntry
	cfg.Algorithm = "naive_bayes"
	svc := NewService(st.Students(), st.Models())

	res, err := svc.Train(context.Background(), TrainRequest{Config: cfg})
	require.NoError(t, err)
	assert.Equal(t, dataset.PolicyWeighted, res.Policy)
	assert.Equal(t, []string{"marks", "attendance", "participation"}, res.Model.Features)

	pred, err := svc.Predict(context.Background(), PredictRequest{
		Values: map[string]float64{"marks": 92, "attendance": 90, "participation": 85},
	})
	require.NoError(t, err)
	assert.Equal(t, dataset.Excellent, pred.Label)
}

func TestService_Prepare(t *testing.T) {
	st := openTestStore(t)
	seedProfile(t, st)
	svc := NewService(st.Students(), st.Models())
	ctx := context.Background()

	p, opts, err := svc.Prepare(ctx, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 10, p.Rows())
	assert.Equal(t, 1, p.Dropped)
	assert.Equal(t, dataset.PolicyRawScore, opts.Policy.Name())
	require.NotNil(t, p.Scaler)
	assert.Equal(t, dataset.MinMax, p.Scaler.Method)
	assert.Equal(t, p.Features, p.Scaler.Columns)

	cfg := DefaultConfig()
	cfg.Normalize = false
	p, _, err = svc.Prepare(ctx, cfg)
	require.NoError(t, err)
	assert.Nil(t, p.Scaler)
	assert.Equal(t, 4.0, p.Matrix.At(1, 0))

	models, err := st.Models().List(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, models, "prepare must not save a model")
}

func TestService_Errors(t *testing.T) {
	st := openTestStore(t)
	svc := NewService(st.Students(), st.Models())
	ctx := context.Background()

	_, err := svc.Predict(ctx, PredictRequest{Values: map[string]float64{"x": 1}})
	assert.ErrorIs(t, err, ErrNoModel)

	_, err = svc.Train(ctx, TrainRequest{Config: DefaultConfig()})
	var dataErr *dataset.InsufficientDataError
	assert.True(t, errors.As(err, &dataErr), "empty store: %v", err)

	seedProfile(t, st)
	cfg := DefaultConfig()
	cfg.Algorithm = "svm"
	_, err = svc.Train(ctx, TrainRequest{Config: cfg})
	var cfgErr *dataset.InvalidConfigurationError
	assert.True(t, errors.As(err, &cfgErr))

	cfg = DefaultConfig()
	cfg.Features = []string{"studytime", "shoe_size"}
	_, err = svc.Train(ctx, TrainRequest{Config: cfg})
	assert.True(t, errors.As(err, &cfgErr))

	res, err := svc.Train(ctx, TrainRequest{Config: DefaultConfig()})
	require.NoError(t, err)
	_, err = svc.Predict(ctx, PredictRequest{ModelID: res.ModelID, Values: map[string]float64{"studytime": 1}})
	var dimErr *dataset.DimensionMismatchError
	assert.True(t, errors.As(err, &dimErr))

	_, err = svc.Predict(ctx, PredictRequest{ModelID: res.ModelID, Values: map[string]float64{
		"studytime": 4, "absences": 0, "failures": 0, "famrel": 4, "studytme": 2,
	}})
	require.True(t, errors.As(err, &dimErr))
	assert.Equal(t, []string{"studytme"}, dimErr.Unknown)

	_, err = svc.Predict(ctx, PredictRequest{ModelID: "nope", Values: map[string]float64{}})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestWithRunLog(t *testing.T) {
	st := openTestStore(t)
	seedProfile(t, st)
	runner := WithRunLog(NewService(st.Students(), st.Models()), st.Events())
	ctx := context.Background()

	res, err := runner.Train(ctx, TrainRequest{Config: DefaultConfig()})
	require.NoError(t, err)
	_, err = runner.Predict(ctx, PredictRequest{Values: map[string]float64{"studytime": 4, "absences": 0, "failures": 0, "famrel": 4}})
	require.NoError(t, err)
	_, err = runner.Predict(ctx, PredictRequest{Values: map[string]float64{"studytime": 4}})
	require.Error(t, err)

	runs, err := st.Events().QueryRuns(ctx, store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, runs, 3)

	failed, predicted, trained := runs[0], runs[1], runs[2]
	assert.False(t, failed.Success)
	assert.NotEmpty(t, failed.ErrorMessage)

	assert.True(t, predicted.Success)
	assert.Equal(t, store.RunPredict, predicted.Kind)
	assert.Equal(t, dataset.Good, predicted.Label)
	assert.Equal(t, res.ModelID, predicted.ModelID)

	assert.Equal(t, store.RunTrain, trained.Kind)
	assert.Equal(t, res.ModelID, trained.ModelID)
	assert.Equal(t, "decision_tree", trained.Algorithm)
	assert.Equal(t, 10, trained.Rows)
	require.NotNil(t, trained.Accuracy)
	assert.Equal(t, res.Accuracy, *trained.Accuracy)
}

type failingEvents struct{ calls int }

func (f *failingEvents) AppendRun(context.Context, store.RunEventData) error {
	f.calls++
	return errors.New("disk full")
}

func (f *failingEvents) QueryRuns(context.Context, store.QueryOpts) ([]store.RunRecord, error) {
	return nil, nil
}

func TestWithRunLog_LogFailureDoesNotFailRun(t *testing.T) {
	st := openTestStore(t)
	seedProfile(t, st)
	events := &failingEvents{}
	runner := WithRunLog(NewService(st.Students(), st.Models()), events)

	res, err := runner.Train(context.Background(), TrainRequest{Config: DefaultConfig()})
	require.NoError(t, err)
	assert.NotNil(t, res)
	assert.Equal(t, 1, events.calls)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"ui labels", func(c *Config) { c.Missing = "Fill with median"; c.Scaling = "Standard Scaling"; c.Algorithm = "Naive Bayes" }, true},
		{"unknown preset", func(c *Config) { c.Preset = "grades" }, false},
		{"unknown policy", func(c *Config) { c.Policy = "vibes" }, false},
		{"unknown missing", func(c *Config) { c.Missing = "interpolate" }, false},
		{"unknown scaling", func(c *Config) { c.Scaling = "log" }, false},
		{"negative depth", func(c *Config) { c.MaxDepth = -1 }, false},
		{"bad fraction", func(c *Config) { c.TestFraction = 1 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				var cfgErr *dataset.InvalidConfigurationError
				assert.True(t, errors.As(err, &cfgErr), "got %v", err)
			}
		})
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("STUDENTPERF_ALGORITHM", "naive_bayes")
	t.Setenv("STUDENTPERF_MISSING", "median")
	t.Setenv("STUDENTPERF_NORMALIZE", "false")
	t.Setenv("STUDENTPERF_SEED", "7")
	t.Setenv("STUDENTPERF_MAX_DEPTH", "not-a-number")
	t.Setenv("STUDENTPERF_FEATURES", "studytime, absences,")

	cfg := ConfigFromEnv()
	assert.Equal(t, "naive_bayes", cfg.Algorithm)
	assert.Equal(t, "median", cfg.Missing)
	assert.False(t, cfg.Normalize)
	assert.Equal(t, uint64(7), cfg.Seed)
	assert.Equal(t, DefaultConfig().MaxDepth, cfg.MaxDepth)
	assert.Equal(t, []string{"studytime", "absences"}, cfg.Features)
}

func TestStudentRow(t *testing.T) {
	row := StudentRow(store.Student{Name: "Ada", Studytime: ptr(3), Score: ptr(41.5), Gender: ptr("F")})

	v, ok := row["studytime"].Float()
	assert.True(t, ok)
	assert.Equal(t, 3.0, v)
	assert.True(t, row["absences"].IsMissing())
	g, ok := row["gender"].Str()
	assert.True(t, ok)
	assert.Equal(t, "F", g)
}
