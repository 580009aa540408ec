// Package screen declares what the router needs from a TUI screen.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studentperf/internal/ui/layout"
)

// Screen is one page of the TUI. The router owns the frame; a screen only
// draws the area between header and footer.
type Screen interface {
	// Init starts any loading the screen needs, typically a store query.
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)
	View(width, height int) string
	// Title is shown in the header next to the app name.
	Title() string
}

// KeyHintProvider lets a screen replace the default footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}
