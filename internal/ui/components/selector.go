package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studentperf/internal/ui/theme"
)

// Selector is a labelled single-choice field cycled with left and right.
type Selector struct {
	Label    string
	Options  []string
	Selected int
	Focused  bool
}

// NewSelector creates a selector with current preselected when it is one
// of the options (case-insensitive), otherwise the first option.
func NewSelector(label string, options []string, current string) Selector {
	s := Selector{Label: label, Options: options}
	for i, o := range options {
		if strings.EqualFold(o, current) {
			s.Selected = i
			break
		}
	}
	return s
}

// Value returns the selected option.
func (s Selector) Value() string {
	if len(s.Options) == 0 {
		return ""
	}
	return s.Options[s.Selected]
}

// Update cycles the selection on left/right when focused.
func (s Selector) Update(msg tea.Msg) (Selector, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || !s.Focused || len(s.Options) == 0 {
		return s, nil
	}

	switch kmsg.String() {
	case "left", "h":
		s.Selected = (s.Selected - 1 + len(s.Options)) % len(s.Options)
	case "right", "l", "space":
		s.Selected = (s.Selected + 1) % len(s.Options)
	}
	return s, nil
}

// View renders the label followed by all options, the chosen one highlighted.
func (s Selector) View() string {
	label := theme.Unselected.Render("  " + s.Label)
	if s.Focused {
		label = theme.Selected.Render("▸ " + s.Label)
	}

	parts := make([]string, len(s.Options))
	for i, o := range s.Options {
		switch {
		case i == s.Selected && s.Focused:
			parts[i] = theme.ButtonActive.Render(o)
		case i == s.Selected:
			parts[i] = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Padding(0, 2).Render(o)
		default:
			parts[i] = lipgloss.NewStyle().Foreground(theme.TextDim).Padding(0, 2).Render(o)
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, label, "  "+strings.Join(parts, " "))
}
