package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// Run kinds recorded in the event log.
const (
	RunTrain   = "train"
	RunPredict = "predict"
)

// RunEventData captures a single training or prediction run.
type RunEventData struct {
	Kind      string
	ModelID   string
	Algorithm string
	Policy    string
	Rows      int
	// Accuracy is set for successful training runs.
	Accuracy *float64
	// Label is set for successful predictions.
	Label        string
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// RunRecord is a stored run event.
type RunRecord struct {
	RunEventData
	Sequence  int64
	Timestamp time.Time
}

// sequenceCounter hands out the monotonic sequence numbers that order the
// run log. Uses raw SQL because the schema migrator has no notion of
// database-level counters. The mutex serializes within the process; the
// RETURNING clause makes the increment atomic at the database level.
type sequenceCounter struct {
	mu sync.Mutex
	db *sql.DB
}

// newSequenceCounter creates a counter and ensures the tracking table exists.
func newSequenceCounter(db *sql.DB) (*sequenceCounter, error) {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS global_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_val INTEGER NOT NULL DEFAULT 1
	)`)
	if err != nil {
		return nil, fmt.Errorf("create sequence table: %w", err)
	}

	_, err = db.Exec(`INSERT OR IGNORE INTO global_sequence (id, next_val) VALUES (1, 1)`)
	if err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}

	return &sequenceCounter{db: db}, nil
}

// Next atomically returns the next sequence number and increments the counter.
func (sc *sequenceCounter) Next(ctx context.Context) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var seq int64
	err := sc.db.QueryRowContext(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}

// eventRepo implements EventRepo on the run_events table.
type eventRepo struct {
	drv *entsql.Driver
	seq *sequenceCounter
}

func (r *eventRepo) AppendRun(ctx context.Context, data RunEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	q, args := builder().Insert(RunEventsTable.Name).
		Columns("sequence", "timestamp", "kind", "model_id", "algorithm", "policy",
			"row_count", "accuracy", "label", "latency_ms", "success", "error_message").
		Values(seqNum, time.Now().UTC(), data.Kind, nullString(data.ModelID), data.Algorithm, data.Policy,
			data.Rows, data.Accuracy, nullString(data.Label), data.LatencyMs, data.Success, nullString(data.ErrorMessage)).
		Query()
	if _, err := exec(ctx, r.drv, q, args); err != nil {
		return fmt.Errorf("save run event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryRuns(ctx context.Context, opts QueryOpts) ([]RunRecord, error) {
	b := builder()
	t := b.Table(RunEventsTable.Name)
	sel := b.Select(t.Columns("sequence", "timestamp", "kind", "model_id", "algorithm", "policy",
		"row_count", "accuracy", "label", "latency_ms", "success", "error_message")...).
		From(t).
		OrderBy(entsql.Desc(t.C("sequence")))

	if opts.Limit > 0 {
		sel = sel.Limit(opts.Limit)
	}
	if opts.After > 0 {
		sel = sel.Where(entsql.GT(t.C("sequence"), opts.After))
	}
	if opts.Before > 0 {
		sel = sel.Where(entsql.LT(t.C("sequence"), opts.Before))
	}
	if !opts.From.IsZero() {
		sel = sel.Where(entsql.GTE(t.C("timestamp"), opts.From))
	}
	if !opts.To.IsZero() {
		sel = sel.Where(entsql.LTE(t.C("timestamp"), opts.To))
	}
	if opts.Kind != "" {
		sel = sel.Where(entsql.EQ(t.C("kind"), opts.Kind))
	}

	q, args := sel.Query()
	rows, err := query(ctx, r.drv, q, args)
	if err != nil {
		return nil, fmt.Errorf("query run events: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var (
			rec                   RunRecord
			modelID, label, errMsg sql.NullString
		)
		err := rows.Scan(&rec.Sequence, &rec.Timestamp, &rec.Kind, &modelID, &rec.Algorithm, &rec.Policy,
			&rec.Rows, &rec.Accuracy, &label, &rec.LatencyMs, &rec.Success, &errMsg)
		if err != nil {
			return nil, fmt.Errorf("scan run event: %w", err)
		}
		rec.ModelID = modelID.String
		rec.Label = label.String
		rec.ErrorMessage = errMsg.String
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query run events: %w", err)
	}
	return records, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
