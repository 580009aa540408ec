package students

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studentperf/internal/router"
	"github.com/abhisek/studentperf/internal/store"
)

type fakeRepo struct {
	students []store.Student
	deleted  []int
	replaced int
}

func (f *fakeRepo) List(context.Context) ([]store.Student, error) { return f.students, nil }
func (f *fakeRepo) Get(context.Context, int) (*store.Student, error) {
	return nil, store.ErrNotFound
}
func (f *fakeRepo) Add(context.Context, *store.Student) error { return nil }
func (f *fakeRepo) ReplaceAll(_ context.Context, list []store.Student) (int, error) {
	f.students = list
	f.replaced++
	return len(list), nil
}
func (f *fakeRepo) Count(context.Context) (int, error) { return len(f.students), nil }
func (f *fakeRepo) Delete(_ context.Context, id int) error {
	f.deleted = append(f.deleted, id)
	var kept []store.Student
	for _, s := range f.students {
		if s.ID != id {
			kept = append(kept, s)
		}
	}
	f.students = kept
	return nil
}

func key(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func category(c string) *string { return &c }

func newLoaded(t *testing.T, repo *fakeRepo) *StudentsScreen {
	t.Helper()
	s := New(repo)
	s.Update(s.Init()())
	return s
}

func TestStudentsListAndNavigate(t *testing.T) {
	repo := &fakeRepo{students: []store.Student{
		{ID: 1, Name: "Ada", PerformanceCategory: category("Excellent")},
		{ID: 2, Name: "Bo"},
	}}
	s := newLoaded(t, repo)

	view := s.View(120, 30)
	for _, want := range []string{"2 students", "Ada", "Bo", "Excellent"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in view", want)
		}
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if s.selected != 1 {
		t.Errorf("expected selection clamped at 1, got %d", s.selected)
	}
}

func TestStudentsDeleteConfirm(t *testing.T) {
	repo := &fakeRepo{students: []store.Student{{ID: 1, Name: "Ada"}, {ID: 2, Name: "Bo"}}}
	s := newLoaded(t, repo)
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})

	s.Update(key('d'))
	_, cmd := s.Update(key('n'))
	if cmd != nil || len(repo.deleted) != 0 {
		t.Fatal("expected no delete after declining")
	}

	s.Update(key('d'))
	if !strings.Contains(s.View(120, 30), "Delete Bo?") {
		t.Error("expected confirmation prompt")
	}
	_, cmd = s.Update(key('y'))
	if cmd == nil {
		t.Fatal("expected delete command")
	}
	_, reload := s.Update(cmd())
	s.Update(reload())

	if len(repo.deleted) != 1 || repo.deleted[0] != 2 {
		t.Errorf("expected student 2 deleted, got %v", repo.deleted)
	}
	if len(s.students) != 1 || s.selected != 0 {
		t.Errorf("expected one student left and selection moved, got %d / %d", len(s.students), s.selected)
	}
}

func TestStudentsImport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "class.csv")
	csv := "Name,studytime,absences,Score\nAda,3,2,47\nBo,1,10,18\n"
	if err := os.WriteFile(path, []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}

	repo := &fakeRepo{}
	s := newLoaded(t, repo)
	if !strings.Contains(s.View(120, 30), "No students yet") {
		t.Error("expected empty hint")
	}

	s.Update(key('i'))
	for _, r := range path {
		s.Update(key(r))
	}
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected import command")
	}
	_, reload := s.Update(cmd())
	s.Update(reload())

	if repo.replaced != 1 || len(s.students) != 2 {
		t.Fatalf("expected 2 imported students, got %d (replaced %d)", len(s.students), repo.replaced)
	}
	if !strings.Contains(s.View(120, 30), "Imported 2 students.") {
		t.Error("expected import status")
	}
}

func TestStudentsImportMissingFile(t *testing.T) {
	s := newLoaded(t, &fakeRepo{})
	s.Update(key('i'))
	for _, r := range "/no/such/file.csv" {
		s.Update(key(r))
	}
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	s.Update(cmd())
	if s.errMsg == "" {
		t.Error("expected an error for a missing file")
	}
}

func TestStudentsEscPops(t *testing.T) {
	s := newLoaded(t, &fakeRepo{})
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}
