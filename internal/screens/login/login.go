// Package login is the sign-in screen shown before anything else.
package login

import (
	"context"
	"errors"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studentperf/internal/auth"
	"github.com/abhisek/studentperf/internal/screen"
	"github.com/abhisek/studentperf/internal/store"
	"github.com/abhisek/studentperf/internal/ui/components"
	"github.com/abhisek/studentperf/internal/ui/layout"
	"github.com/abhisek/studentperf/internal/ui/theme"
)

// Authenticator checks credentials.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*store.User, error)
}

// LoggedInMsg is sent once a user has signed in. Next replaces the login
// screen.
type LoggedInMsg struct {
	User *store.User
	Next screen.Screen
}

type resultMsg struct {
	user *store.User
	err  error
}

const (
	fieldUser = iota
	fieldPass
	fieldSubmit
)

// LoginScreen asks for a username and password.
type LoginScreen struct {
	auth   Authenticator
	next   func(*store.User) screen.Screen
	inputs []components.TextInput
	button components.Button
	focus  int
	busy   bool
	errMsg string
}

var _ screen.Screen = (*LoginScreen)(nil)
var _ screen.KeyHintProvider = (*LoginScreen)(nil)

// New creates a LoginScreen. next builds the screen that replaces this one
// after a successful sign-in.
func New(a Authenticator, next func(*store.User) screen.Screen) *LoginScreen {
	return &LoginScreen{
		auth: a,
		next: next,
		inputs: []components.TextInput{
			components.NewTextInput("Username", "admin", components.Plain, 64),
			components.NewTextInput("Password", "", components.Password, 128),
		},
		button: components.NewButton("Sign in"),
	}
}

func (s *LoginScreen) Init() tea.Cmd {
	return s.setFocus(fieldUser)
}

func (s *LoginScreen) Title() string {
	return "Sign in"
}

func (s *LoginScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Sign in"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *LoginScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case resultMsg:
		s.busy = false
		if msg.err != nil {
			if errors.Is(msg.err, auth.ErrInvalidCredentials) {
				s.errMsg = "Invalid username or password."
			} else {
				s.errMsg = msg.err.Error()
			}
			s.inputs[fieldPass].Model.SetValue("")
			return s, s.setFocus(fieldPass)
		}
		next := s.next(msg.user)
		user := msg.user
		return s, func() tea.Msg { return LoggedInMsg{User: user, Next: next} }

	case tea.KeyMsg:
		if s.busy {
			return s, nil
		}
		switch msg.String() {
		case "tab", "down":
			return s, s.setFocus((s.focus + 1) % 3)
		case "shift+tab", "up":
			return s, s.setFocus((s.focus + 2) % 3)
		case "enter":
			if s.focus == fieldUser {
				return s, s.setFocus(fieldPass)
			}
			return s, s.submit()
		}
	}

	if s.focus < len(s.inputs) {
		var cmd tea.Cmd
		s.inputs[s.focus], cmd = s.inputs[s.focus].Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *LoginScreen) submit() tea.Cmd {
	username := s.inputs[fieldUser].Value()
	password := s.inputs[fieldPass].Model.Value()
	if username == "" || password == "" {
		s.errMsg = "Enter both username and password."
		return nil
	}
	s.busy = true
	s.errMsg = ""
	a := s.auth
	return func() tea.Msg {
		user, err := a.Authenticate(context.Background(), username, password)
		return resultMsg{user: user, err: err}
	}
}

func (s *LoginScreen) setFocus(i int) tea.Cmd {
	s.focus = i
	var cmd tea.Cmd
	for j := range s.inputs {
		if j == i {
			cmd = s.inputs[j].Focus()
		} else {
			s.inputs[j].Blur()
		}
	}
	s.button.Active = i == fieldSubmit
	return cmd
}

func (s *LoginScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Student Performance"))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render("Sign in to continue"))
	b.WriteString("\n\n")
	for _, in := range s.inputs {
		b.WriteString(in.View())
		b.WriteString("\n\n")
	}
	b.WriteString(s.button.View())

	switch {
	case s.busy:
		b.WriteString("\n\n" + theme.Hint.Render("Checking..."))
	case s.errMsg != "":
		b.WriteString("\n\n" + theme.Failed.Render(s.errMsg))
	}

	card := theme.Card.Width(44).Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}
