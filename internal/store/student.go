package store

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/studentperf/internal/dataset"
)

// Student is one stored student record. Every attribute except Name may be
// absent; absent values are nil.
type Student struct {
	ID        int
	StudentNo *string
	Name      string
	Gender    *string
	Age       *int
	Location  *string
	Famsize   *string
	Pstatus   *string

	Medu       *int
	Fedu       *int
	Traveltime *int
	Studytime  *int
	Failures   *int

	Schoolsup  *string
	Famsup     *string
	Paid       *string
	Activities *string
	Nursery    *string
	Higher     *string
	Internet   *string

	Famrel   *int
	Freetime *int
	Health   *int
	Absences *int

	Department    *string
	Semester      *int
	Marks         *float64
	Attendance    *float64
	Participation *float64

	Score               *float64
	PerformanceCategory *string

	CreatedAt time.Time
}

// studentColumns excludes the id column.
var studentColumns = columnNames(StudentsColumns, 1)

// values returns insert values in studentColumns order.
func (s *Student) values() []any {
	return []any{
		s.StudentNo, s.Name, s.Gender, s.Age, s.Location, s.Famsize, s.Pstatus,
		s.Medu, s.Fedu, s.Traveltime, s.Studytime, s.Failures,
		s.Schoolsup, s.Famsup, s.Paid, s.Activities, s.Nursery, s.Higher, s.Internet,
		s.Famrel, s.Freetime, s.Health, s.Absences,
		s.Department, s.Semester, s.Marks, s.Attendance, s.Participation,
		s.Score, s.PerformanceCategory, s.CreatedAt,
	}
}

// dest returns scan targets in id + studentColumns order.
func (s *Student) dest() []any {
	return []any{
		&s.ID,
		&s.StudentNo, &s.Name, &s.Gender, &s.Age, &s.Location, &s.Famsize, &s.Pstatus,
		&s.Medu, &s.Fedu, &s.Traveltime, &s.Studytime, &s.Failures,
		&s.Schoolsup, &s.Famsup, &s.Paid, &s.Activities, &s.Nursery, &s.Higher, &s.Internet,
		&s.Famrel, &s.Freetime, &s.Health, &s.Absences,
		&s.Department, &s.Semester, &s.Marks, &s.Attendance, &s.Participation,
		&s.Score, &s.PerformanceCategory, &s.CreatedAt,
	}
}

// prepareInsert fills derived fields before a row is written.
func (s *Student) prepareInsert(now time.Time) {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	if s.Score != nil {
		cat := dataset.ScoreCategory(*s.Score)
		s.PerformanceCategory = &cat
	}
}

type studentRepo struct {
	drv *entsql.Driver
}

func (r *studentRepo) List(ctx context.Context) ([]Student, error) {
	b := builder()
	t := b.Table(StudentsTable.Name)
	q, args := b.Select(t.Columns(append([]string{"id"}, studentColumns...)...)...).
		From(t).
		OrderBy(t.C("id")).
		Query()

	rows, err := query(ctx, r.drv, q, args)
	if err != nil {
		return nil, fmt.Errorf("query students: %w", err)
	}
	defer rows.Close()

	var out []Student
	for rows.Next() {
		var s Student
		if err := rows.Scan(s.dest()...); err != nil {
			return nil, fmt.Errorf("scan student: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query students: %w", err)
	}
	return out, nil
}

func (r *studentRepo) Get(ctx context.Context, id int) (*Student, error) {
	b := builder()
	t := b.Table(StudentsTable.Name)
	q, args := b.Select(t.Columns(append([]string{"id"}, studentColumns...)...)...).
		From(t).
		Where(entsql.EQ(t.C("id"), id)).
		Query()

	rows, err := query(ctx, r.drv, q, args)
	if err != nil {
		return nil, fmt.Errorf("query student %d: %w", id, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("query student %d: %w", id, err)
		}
		return nil, fmt.Errorf("student %d: %w", id, ErrNotFound)
	}
	var s Student
	if err := rows.Scan(s.dest()...); err != nil {
		return nil, fmt.Errorf("scan student %d: %w", id, err)
	}
	return &s, nil
}

func (r *studentRepo) Add(ctx context.Context, s *Student) error {
	id, err := insertStudent(ctx, r.drv, s, time.Now().UTC())
	if err != nil {
		return err
	}
	s.ID = id
	return nil
}

func insertStudent(ctx context.Context, x dialect.ExecQuerier, s *Student, now time.Time) (int, error) {
	s.prepareInsert(now)
	q, args := builder().Insert(StudentsTable.Name).
		Columns(studentColumns...).
		Values(s.values()...).
		Query()
	res, err := exec(ctx, x, q, args)
	if err != nil {
		return 0, fmt.Errorf("insert student %q: %w", s.Name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert student %q: %w", s.Name, err)
	}
	return int(id), nil
}

func (r *studentRepo) ReplaceAll(ctx context.Context, students []Student) (int, error) {
	tx, err := r.drv.Tx(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin replace: %w", err)
	}

	q, args := builder().Delete(StudentsTable.Name).Query()
	if _, err := exec(ctx, tx, q, args); err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("clear students: %w", err)
	}

	now := time.Now().UTC()
	for i := range students {
		id, err := insertStudent(ctx, tx, &students[i], now)
		if err != nil {
			tx.Rollback()
			return 0, err
		}
		students[i].ID = id
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit replace: %w", err)
	}
	return len(students), nil
}

func (r *studentRepo) Count(ctx context.Context) (int, error) {
	b := builder()
	n, err := count(ctx, r.drv, b.Select(entsql.Count("*")).From(b.Table(StudentsTable.Name)))
	if err != nil {
		return 0, fmt.Errorf("count students: %w", err)
	}
	return n, nil
}

func (r *studentRepo) Delete(ctx context.Context, id int) error {
	q, args := builder().Delete(StudentsTable.Name).
		Where(entsql.EQ("id", id)).
		Query()
	res, err := exec(ctx, r.drv, q, args)
	if err != nil {
		return fmt.Errorf("delete student %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete student %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("student %d: %w", id, ErrNotFound)
	}
	return nil
}
