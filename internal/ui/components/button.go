package components

import (
	"github.com/abhisek/studentperf/internal/ui/theme"
)

// Button is a styled button. It renders highlighted while Active, which
// screens set when the button has focus.
type Button struct {
	Label  string
	Active bool
}

// NewButton creates a new button.
func NewButton(label string) Button {
	return Button{Label: label}
}

// View renders the button.
func (b Button) View() string {
	if b.Active {
		return theme.ButtonActive.Render("▸ " + b.Label)
	}
	return theme.ButtonInactive.Render(b.Label)
}
