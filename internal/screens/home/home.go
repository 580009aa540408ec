// Package home is the main menu shown after sign-in.
package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studentperf/internal/pipeline"
	"github.com/abhisek/studentperf/internal/router"
	"github.com/abhisek/studentperf/internal/screen"
	"github.com/abhisek/studentperf/internal/screens/charts"
	"github.com/abhisek/studentperf/internal/screens/predict"
	"github.com/abhisek/studentperf/internal/screens/students"
	"github.com/abhisek/studentperf/internal/screens/train"
	"github.com/abhisek/studentperf/internal/store"
	"github.com/abhisek/studentperf/internal/ui/components"
	"github.com/abhisek/studentperf/internal/ui/theme"
)

// Deps are the services the menu screens work with.
type Deps struct {
	Students store.StudentRepo
	Models   store.ModelRepo
	Loader   predict.ModelLoader
	Runner   pipeline.Runner
	Config   pipeline.Config
}

// Menu positions toggled by the stats.
const (
	itemTrain   = 1
	itemPredict = 2
)

type statsMsg struct {
	students int
	latest   *store.ModelRecord
	err      error
}

// HomeScreen is the main menu.
type HomeScreen struct {
	deps     Deps
	user     *store.User
	menu     components.Menu
	students int
	latest   *store.ModelRecord
	errMsg   string
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a HomeScreen for the signed-in user.
func New(deps Deps, user *store.User) *HomeScreen {
	h := &HomeScreen{deps: deps, user: user}

	push := func(build func() screen.Screen) func() tea.Cmd {
		return func() tea.Cmd {
			return func() tea.Msg { return router.PushScreenMsg{Screen: build()} }
		}
	}
	h.menu = components.NewMenu([]components.MenuItem{
		{Label: "Students", Action: push(func() screen.Screen {
			return students.New(deps.Students)
		})},
		{Label: "Train Model", Action: push(func() screen.Screen {
			return train.New(deps.Runner, deps.Config)
		})},
		{Label: "Predict", Action: push(func() screen.Screen {
			return predict.New(deps.Runner, deps.Loader)
		})},
		{Label: "Charts", Action: push(func() screen.Screen {
			return charts.New(deps.Students)
		})},
		{Label: "Quit", Action: func() tea.Cmd { return tea.Quit }},
	})
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.loadStats
}

func (h *HomeScreen) loadStats() tea.Msg {
	ctx := context.Background()
	n, err := h.deps.Students.Count(ctx)
	if err != nil {
		return statsMsg{err: err}
	}
	latest, err := h.deps.Models.Latest(ctx)
	return statsMsg{students: n, latest: latest, err: err}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case statsMsg:
		if msg.err != nil {
			h.errMsg = msg.err.Error()
			return h, nil
		}
		h.students = msg.students
		h.latest = msg.latest
		h.menu.SetDisabled(itemTrain, h.students == 0, "import students first")
		h.menu.SetDisabled(itemPredict, h.latest == nil, "train a model first")
		return h, nil
	case router.ResumeMsg:
		return h, h.loadStats
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	var b strings.Builder
	name := "there"
	if h.user != nil {
		name = h.user.Username
	}
	b.WriteString(theme.Title.Render("Welcome, " + name))
	b.WriteString("\n\n")

	stats := fmt.Sprintf("%d students on record", h.students)
	if h.latest != nil {
		stats += fmt.Sprintf("\nLatest model: %s  accuracy %.2f  (%s)",
			h.latest.Algorithm, h.latest.Accuracy, h.latest.CreatedAt.Format("Jan 02 15:04"))
	} else {
		stats += "\nNo model trained yet."
	}
	b.WriteString(theme.Card.Render(stats))
	b.WriteString("\n\n")
	b.WriteString(h.menu.View())
	if h.errMsg != "" {
		b.WriteString("\n" + theme.Failed.Render("Error: "+h.errMsg))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
}

func (h *HomeScreen) Title() string {
	return "Home"
}
