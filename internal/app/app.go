package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studentperf/internal/router"
	"github.com/abhisek/studentperf/internal/screen"
	"github.com/abhisek/studentperf/internal/screens/home"
	"github.com/abhisek/studentperf/internal/screens/login"
	"github.com/abhisek/studentperf/internal/store"
	"github.com/abhisek/studentperf/internal/ui/layout"
)

// Options holds the dependencies of the TUI.
type Options struct {
	Auth login.Authenticator
	home.Deps
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	user   *store.User
	width  int
	height int
}

// newAppModel creates a new AppModel starting at the login screen.
func newAppModel(opts Options) AppModel {
	next := func(u *store.User) screen.Screen {
		return home.New(opts.Deps, u)
	}
	return AppModel{
		router: router.New(login.New(opts.Auth, next)),
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case login.LoggedInMsg:
		m.user = msg.User
		return m, m.router.Replace(msg.Next)
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView(m.frame())
	v.AltScreen = true
	return v
}

// frame draws header, active screen and footer for the current size.
func (m AppModel) frame() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	status := ""
	if m.user != nil {
		status = fmt.Sprintf("%s (%s)", m.user.Username, m.user.Role)
	}
	header := layout.RenderHeader(title, status, m.width)

	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
	if p, ok := active.(screen.KeyHintProvider); ok {
		hints = p.KeyHints()
	}
	footer := layout.RenderFooter(hints, m.width)

	content := m.router.View(m.width, layout.ContentHeight(header, footer, m.height))
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
