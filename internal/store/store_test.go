package store

import (
	"context"
	"errors"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func ptr[T any](v T) *T { return &v }

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so journal_mode is not checked here.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	for _, table := range Tables {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table.Name,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s: %v", table.Name, err)
		}
	}
}

func TestStudentAddAndGet(t *testing.T) {
	s := openTestStore(t)
	repo := s.Students()
	ctx := context.Background()

	st := &Student{
		Name:      "Ada",
		Gender:    ptr("F"),
		Studytime: ptr(3),
		Absences:  ptr(4),
		Score:     ptr(38.0),
	}
	if err := repo.Add(ctx, st); err != nil {
		t.Fatalf("add: %v", err)
	}
	if st.ID == 0 {
		t.Fatal("expected ID to be assigned")
	}

	got, err := repo.Get(ctx, st.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Ada" {
		t.Errorf("name = %q, want Ada", got.Name)
	}
	if got.Studytime == nil || *got.Studytime != 3 {
		t.Errorf("studytime = %v, want 3", got.Studytime)
	}
	if got.Failures != nil {
		t.Errorf("failures = %v, want nil", *got.Failures)
	}
	if got.Marks != nil {
		t.Errorf("marks = %v, want nil", *got.Marks)
	}
	if got.PerformanceCategory == nil || *got.PerformanceCategory != "Good" {
		t.Errorf("performance category = %v, want Good", got.PerformanceCategory)
	}
	if got.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}
}

func TestStudentWithoutScoreHasNoCategory(t *testing.T) {
	s := openTestStore(t)
	repo := s.Students()
	ctx := context.Background()

	st := &Student{Name: "Bo", Marks: ptr(80.0), Attendance: ptr(90.0), Participation: ptr(70.0)}
	if err := repo.Add(ctx, st); err != nil {
		t.Fatalf("add: %v", err)
	}
	got, err := repo.Get(ctx, st.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.PerformanceCategory != nil {
		t.Errorf("performance category = %q, want nil", *got.PerformanceCategory)
	}
	if got.Marks == nil || *got.Marks != 80 {
		t.Errorf("marks = %v, want 80", got.Marks)
	}
}

func TestStudentGetMissing(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Students().Get(context.Background(), 999)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestStudentListReplaceAllAndDelete(t *testing.T) {
	s := openTestStore(t)
	repo := s.Students()
	ctx := context.Background()

	if err := repo.Add(ctx, &Student{Name: "old"}); err != nil {
		t.Fatalf("add: %v", err)
	}

	batch := []Student{
		{Name: "a", Score: ptr(50.0)},
		{Name: "b", Score: ptr(20.0)},
		{Name: "c"},
	}
	n, err := repo.ReplaceAll(ctx, batch)
	if err != nil {
		t.Fatalf("replace all: %v", err)
	}
	if n != 3 {
		t.Errorf("inserted = %d, want 3", n)
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("list length = %d, want 3", len(list))
	}
	for i, want := range []string{"a", "b", "c"} {
		if list[i].Name != want {
			t.Errorf("list[%d].Name = %q, want %q", i, list[i].Name, want)
		}
	}
	if c := list[0].PerformanceCategory; c == nil || *c != "Excellent" {
		t.Errorf("category of a = %v, want Excellent", c)
	}
	if c := list[1].PerformanceCategory; c == nil || *c != "Poor" {
		t.Errorf("category of b = %v, want Poor", c)
	}

	if err := repo.Delete(ctx, list[0].ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(ctx, list[0].ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}

	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
}

func TestUsers(t *testing.T) {
	s := openTestStore(t)
	repo := s.Users()
	ctx := context.Background()

	created, err := repo.EnsureAdmin(ctx, "admin", "hash-1")
	if err != nil {
		t.Fatalf("ensure admin: %v", err)
	}
	if !created {
		t.Error("expected admin to be created")
	}
	created, err = repo.EnsureAdmin(ctx, "admin", "hash-2")
	if err != nil {
		t.Fatalf("ensure admin again: %v", err)
	}
	if created {
		t.Error("expected existing admin to be kept")
	}

	u, err := repo.Get(ctx, "admin")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if u.PasswordHash != "hash-1" || u.Role != RoleAdmin {
		t.Errorf("admin = %+v", u)
	}

	if err := repo.Create(ctx, &User{Username: "admin", PasswordHash: "x"}); err == nil {
		t.Error("expected duplicate username to fail")
	}

	teacher := &User{Username: "tess", PasswordHash: "h"}
	if err := repo.Create(ctx, teacher); err != nil {
		t.Fatalf("create: %v", err)
	}
	if teacher.Role != RoleTeacher {
		t.Errorf("role = %q, want %q", teacher.Role, RoleTeacher)
	}

	if _, err := repo.Get(ctx, "nobody"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestModels(t *testing.T) {
	s := openTestStore(t)
	repo := s.Models()
	ctx := context.Background()

	latest, err := repo.Latest(ctx)
	if err != nil {
		t.Fatalf("latest (empty): %v", err)
	}
	if latest != nil {
		t.Fatal("expected nil model when none exist")
	}

	base := time.Now().UTC().Truncate(time.Second)
	for i, algo := range []string{"decision_tree", "naive_bayes"} {
		rec := &ModelRecord{
			Algorithm: algo,
			Policy:    "raw_score",
			Features:  []string{"studytime", "absences"},
			Accuracy:  0.5 + float64(i)/4,
			Rows:      10,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			Data:      []byte(`{"format":"v1.0.0"}`),
		}
		if err := repo.Save(ctx, rec); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
		if rec.ID == "" {
			t.Fatalf("save %d: expected id", i)
		}
	}

	latest, err = repo.Latest(ctx)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest.Algorithm != "naive_bayes" {
		t.Errorf("latest algorithm = %q, want naive_bayes", latest.Algorithm)
	}
	if string(latest.Data) != `{"format":"v1.0.0"}` {
		t.Errorf("latest data = %q", latest.Data)
	}

	got, err := repo.Get(ctx, latest.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Features) != 2 || got.Features[1] != "absences" {
		t.Errorf("features = %v", got.Features)
	}

	list, err := repo.List(ctx, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("list length = %d, want 2", len(list))
	}
	if list[0].ID != latest.ID {
		t.Error("expected newest model first")
	}
	if list[0].Data != nil {
		t.Error("expected list to omit blobs")
	}

	if _, err := repo.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if err := repo.Save(ctx, &ModelRecord{Algorithm: "x"}); err == nil {
		t.Error("expected empty blob to be rejected")
	}
}

func TestRunEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.Events()
	ctx := context.Background()

	events := []RunEventData{
		{Kind: RunTrain, ModelID: "m1", Algorithm: "decision_tree", Policy: "raw_score", Rows: 10, Accuracy: ptr(0.9), LatencyMs: 3, Success: true},
		{Kind: RunPredict, ModelID: "m1", Algorithm: "decision_tree", Policy: "raw_score", Rows: 1, Label: "Good", LatencyMs: 1, Success: true},
		{Kind: RunTrain, Algorithm: "naive_bayes", Policy: "weighted", ErrorMessage: "insufficient data"},
	}
	for i, e := range events {
		if err := repo.AppendRun(ctx, e); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	all, err := repo.QueryRuns(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("runs = %d, want 3", len(all))
	}
	if all[0].Sequence <= all[1].Sequence {
		t.Error("expected newest run first")
	}
	if all[0].Success || all[0].ErrorMessage != "insufficient data" {
		t.Errorf("failed run = %+v", all[0])
	}
	if all[0].ModelID != "" || all[0].Accuracy != nil {
		t.Errorf("failed run should have no model or accuracy: %+v", all[0])
	}
	if all[1].Label != "Good" {
		t.Errorf("predict label = %q, want Good", all[1].Label)
	}
	if all[2].Accuracy == nil || *all[2].Accuracy != 0.9 {
		t.Errorf("train accuracy = %v, want 0.9", all[2].Accuracy)
	}

	trains, err := repo.QueryRuns(ctx, QueryOpts{Kind: RunTrain, Limit: 1})
	if err != nil {
		t.Fatalf("query trains: %v", err)
	}
	if len(trains) != 1 || trains[0].Algorithm != "naive_bayes" {
		t.Errorf("trains = %+v", trains)
	}

	after, err := repo.QueryRuns(ctx, QueryOpts{After: all[1].Sequence})
	if err != nil {
		t.Fatalf("query after: %v", err)
	}
	if len(after) != 1 {
		t.Errorf("runs after = %d, want 1", len(after))
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()
	ctx := context.Background()

	sc, err := newSequenceCounter(db)
	if err != nil {
		t.Fatalf("new sequence counter: %v", err)
	}

	var seqs []int64
	for i := 0; i < 5; i++ {
		seq, err := sc.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}

	// Should be monotonically increasing starting from 1.
	for i, seq := range seqs {
		expected := int64(i + 1)
		if seq != expected {
			t.Errorf("seq[%d] = %d, want %d", i, seq, expected)
		}
	}
}
