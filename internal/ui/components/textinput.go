package components

import (
	"strconv"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studentperf/internal/ui/theme"
)

// InputMode restricts what a TextInput accepts and how it echoes.
type InputMode int

const (
	Plain InputMode = iota
	// Decimal accepts digits, one '.' and a leading '-'.
	Decimal
	// Password masks the typed characters.
	Password
)

// TextInput wraps bubbles/textinput with a label and the app styling.
type TextInput struct {
	Label string
	Model textinput.Model
	Mode  InputMode
}

// NewTextInput creates a new styled, unfocused text input.
func NewTextInput(label, placeholder string, mode InputMode, maxWidth int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = ""
	if maxWidth > 0 {
		ti.CharLimit = maxWidth
	}
	if mode == Password {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '*'
	}
	return TextInput{Label: label, Model: ti, Mode: mode}
}

// Focus focuses the input.
func (t *TextInput) Focus() tea.Cmd {
	return t.Model.Focus()
}

// Blur removes focus from the input.
func (t *TextInput) Blur() {
	t.Model.Blur()
}

// Focused reports whether the input has focus.
func (t TextInput) Focused() bool {
	return t.Model.Focused()
}

// Update handles messages, dropping keys the mode does not accept.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if t.Mode == Decimal {
		if kmsg, ok := msg.(tea.KeyMsg); ok {
			if key := kmsg.String(); len(key) == 1 && !t.acceptsDecimal(key[0]) {
				return t, nil
			}
		}
	}

	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

func (t TextInput) acceptsDecimal(c byte) bool {
	v := t.Model.Value()
	switch {
	case c >= '0' && c <= '9':
		return true
	case c == '.':
		return !strings.Contains(v, ".")
	case c == '-':
		return v == ""
	}
	return false
}

// View renders the label and the input.
func (t TextInput) View() string {
	style := theme.Unselected
	marker := "  "
	if t.Model.Focused() {
		style = theme.Selected
		marker = "▸ "
	}
	label := style.Render(marker + t.Label)
	field := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(theme.Border).
		Render(t.Model.View())
	return lipgloss.JoinVertical(lipgloss.Left, label, "  "+field)
}

// Value returns the current input value.
func (t TextInput) Value() string {
	return strings.TrimSpace(t.Model.Value())
}

// FloatValue parses the input as a number.
func (t TextInput) FloatValue() (float64, error) {
	return strconv.ParseFloat(t.Value(), 64)
}
