// Package charts shows the student charts one at a time.
package charts

import (
	"context"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studentperf/internal/chart"
	"github.com/abhisek/studentperf/internal/router"
	"github.com/abhisek/studentperf/internal/screen"
	"github.com/abhisek/studentperf/internal/store"
	"github.com/abhisek/studentperf/internal/ui/components"
	"github.com/abhisek/studentperf/internal/ui/layout"
	"github.com/abhisek/studentperf/internal/ui/theme"
)

type loadedMsg struct {
	students []store.Student
	err      error
}

// ChartsScreen renders one chart kind; left and right switch kinds.
type ChartsScreen struct {
	repo     store.StudentRepo
	students []store.Student
	kinds    components.Selector
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*ChartsScreen)(nil)
var _ screen.KeyHintProvider = (*ChartsScreen)(nil)

// New creates a ChartsScreen.
func New(repo store.StudentRepo) *ChartsScreen {
	titles := make([]string, len(chart.Kinds))
	for i, k := range chart.Kinds {
		titles[i] = k.Title()
	}
	kinds := components.NewSelector("Chart", titles, "")
	kinds.Focused = true
	return &ChartsScreen{repo: repo, kinds: kinds}
}

func (s *ChartsScreen) Init() tea.Cmd {
	repo := s.repo
	return func() tea.Msg {
		list, err := repo.List(context.Background())
		return loadedMsg{students: list, err: err}
	}
}

func (s *ChartsScreen) Title() string {
	return "Charts"
}

func (s *ChartsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "←→", Description: "Switch chart"},
		{Key: "Esc", Description: "Back"},
	}
}

// Kind returns the chart currently shown.
func (s *ChartsScreen) Kind() chart.Kind {
	return chart.Kinds[s.kinds.Selected]
}

func (s *ChartsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		s.loaded = true
		s.students = msg.students
		if msg.err != nil {
			s.errMsg = msg.err.Error()
		}
		return s, nil
	case tea.KeyMsg:
		if msg.String() == "esc" {
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}

	var cmd tea.Cmd
	s.kinds, cmd = s.kinds.Update(msg)
	return s, cmd
}

func (s *ChartsScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render("\n\nError: " + s.errMsg)
	}
	if !s.loaded {
		return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading students...")
	}

	body, err := chart.Render(s.Kind(), s.students, width-4)
	if err != nil {
		body = theme.Failed.Render(err.Error())
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(s.kinds.View() + "\n\n" + body)
}
