package charts

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studentperf/internal/chart"
	"github.com/abhisek/studentperf/internal/store"
)

type listRepo struct {
	store.StudentRepo
	students []store.Student
}

func (r listRepo) List(context.Context) ([]store.Student, error) { return r.students, nil }

func TestChartsSwitchKinds(t *testing.T) {
	score, absences, gender, cat := 40.0, 3, "F", "Good"
	repo := listRepo{students: []store.Student{
		{Name: "Ada", Score: &score, Absences: &absences, Gender: &gender, PerformanceCategory: &cat},
	}}
	s := New(repo)
	if !strings.Contains(s.View(100, 30), "Loading") {
		t.Error("expected loading view before data arrives")
	}
	s.Update(s.Init()())

	for _, want := range chart.Kinds {
		if s.Kind() != want {
			t.Fatalf("expected %s, got %s", want, s.Kind())
		}
		if !strings.Contains(s.View(100, 30), want.Title()) {
			t.Errorf("expected %q in view", want.Title())
		}
		s.Update(tea.KeyPressMsg{Code: tea.KeyRight})
	}
	if s.Kind() != chart.Distribution {
		t.Errorf("expected wrap around to distribution, got %s", s.Kind())
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyLeft})
	if s.Kind() != chart.AbsencesScore {
		t.Errorf("expected left to wrap to the last chart, got %s", s.Kind())
	}
}
