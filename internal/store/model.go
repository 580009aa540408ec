package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

// ModelRecord is a stored trained model. Data holds the encoded model blob
// and is empty in List results.
type ModelRecord struct {
	ID        string
	Algorithm string
	Policy    string
	Features  []string
	Accuracy  float64
	Rows      int
	CreatedAt time.Time
	Data      []byte
}

type modelRepo struct {
	drv *entsql.Driver
}

var modelSummaryColumns = []string{"id", "algorithm", "policy", "features", "accuracy", "row_count", "created_at"}

func (r *modelRepo) Save(ctx context.Context, rec *ModelRecord) error {
	if len(rec.Data) == 0 {
		return fmt.Errorf("save model: empty blob")
	}
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	features, err := json.Marshal(rec.Features)
	if err != nil {
		return fmt.Errorf("marshal features: %w", err)
	}

	q, args := builder().Insert(ModelsTable.Name).
		Columns(append(modelSummaryColumns, "data")...).
		Values(rec.ID, rec.Algorithm, rec.Policy, string(features), rec.Accuracy, rec.Rows, rec.CreatedAt, rec.Data).
		Query()
	if _, err := exec(ctx, r.drv, q, args); err != nil {
		return fmt.Errorf("save model: %w", err)
	}
	return nil
}

func (r *modelRepo) Get(ctx context.Context, id string) (*ModelRecord, error) {
	b := builder()
	t := b.Table(ModelsTable.Name)
	sel := b.Select(t.Columns(append(modelSummaryColumns, "data")...)...).
		From(t).
		Where(entsql.EQ(t.C("id"), id))

	recs, err := r.scan(ctx, sel, true)
	if err != nil {
		return nil, fmt.Errorf("query model %s: %w", id, err)
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("model %s: %w", id, ErrNotFound)
	}
	return &recs[0], nil
}

func (r *modelRepo) Latest(ctx context.Context) (*ModelRecord, error) {
	b := builder()
	t := b.Table(ModelsTable.Name)
	sel := b.Select(t.Columns(append(modelSummaryColumns, "data")...)...).
		From(t).
		OrderBy(entsql.Desc(t.C("created_at"))).
		Limit(1)

	recs, err := r.scan(ctx, sel, true)
	if err != nil {
		return nil, fmt.Errorf("query latest model: %w", err)
	}
	if len(recs) == 0 {
		return nil, nil
	}
	return &recs[0], nil
}

func (r *modelRepo) List(ctx context.Context, limit int) ([]ModelRecord, error) {
	b := builder()
	t := b.Table(ModelsTable.Name)
	sel := b.Select(t.Columns(modelSummaryColumns...)...).
		From(t).
		OrderBy(entsql.Desc(t.C("created_at")))
	if limit > 0 {
		sel = sel.Limit(limit)
	}

	recs, err := r.scan(ctx, sel, false)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	return recs, nil
}

func (r *modelRepo) scan(ctx context.Context, sel *entsql.Selector, withData bool) ([]ModelRecord, error) {
	q, args := sel.Query()
	rows, err := query(ctx, r.drv, q, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ModelRecord
	for rows.Next() {
		var (
			rec      ModelRecord
			features string
		)
		dest := []any{&rec.ID, &rec.Algorithm, &rec.Policy, &features, &rec.Accuracy, &rec.Rows, &rec.CreatedAt}
		if withData {
			dest = append(dest, &rec.Data)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(features), &rec.Features); err != nil {
			return nil, fmt.Errorf("decode features of model %s: %w", rec.ID, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
