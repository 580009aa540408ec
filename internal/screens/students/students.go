// Package students lists stored students and imports new ones from a file.
package students

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studentperf/internal/importer"
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

type importedMsg struct {
	n   int
	err error
}

type deletedMsg struct {
	err error
}

type mode int

const (
	browsing mode = iota
	confirmingDelete
	enteringPath
)

// StudentsScreen shows one row per student.
type StudentsScreen struct {
	repo     store.StudentRepo
	students []store.Student
	selected int
	offset   int
	mode     mode
	path     components.TextInput
	loaded   bool
	status   string
	errMsg   string
}

var _ screen.Screen = (*StudentsScreen)(nil)
var _ screen.KeyHintProvider = (*StudentsScreen)(nil)

// New creates a StudentsScreen.
func New(repo store.StudentRepo) *StudentsScreen {
	return &StudentsScreen{
		repo: repo,
		path: components.NewTextInput("Import file (.csv or .xlsx)", "students.csv", components.Plain, 512),
	}
}

func (s *StudentsScreen) Init() tea.Cmd {
	return s.load
}

func (s *StudentsScreen) load() tea.Msg {
	list, err := s.repo.List(context.Background())
	return loadedMsg{students: list, err: err}
}

func (s *StudentsScreen) Title() string {
	return "Students"
}

func (s *StudentsScreen) KeyHints() []layout.KeyHint {
	switch s.mode {
	case confirmingDelete:
		return []layout.KeyHint{{Key: "y", Description: "Delete"}, {Key: "n", Description: "Cancel"}}
	case enteringPath:
		return []layout.KeyHint{{Key: "Enter", Description: "Import"}, {Key: "Esc", Description: "Cancel"}}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "i", Description: "Import"},
		{Key: "d", Description: "Delete"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *StudentsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		s.loaded = true
		if msg.err != nil {
			s.errMsg = msg.err.Error()
			return s, nil
		}
		s.students = msg.students
		if s.selected >= len(s.students) {
			s.selected = max(len(s.students)-1, 0)
		}
		return s, nil

	case importedMsg:
		if msg.err != nil {
			s.errMsg = msg.err.Error()
			return s, nil
		}
		s.status = fmt.Sprintf("Imported %d students.", msg.n)
		s.selected, s.offset = 0, 0
		return s, s.load

	case deletedMsg:
		if msg.err != nil {
			s.errMsg = msg.err.Error()
			return s, nil
		}
		s.status = "Student deleted."
		return s, s.load

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.mode == enteringPath {
		var cmd tea.Cmd
		s.path, cmd = s.path.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *StudentsScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch s.mode {
	case confirmingDelete:
		s.mode = browsing
		if msg.String() == "y" && s.selected < len(s.students) {
			id := s.students[s.selected].ID
			return s, func() tea.Msg {
				return deletedMsg{err: s.repo.Delete(context.Background(), id)}
			}
		}
		return s, nil

	case enteringPath:
		switch msg.String() {
		case "esc":
			s.mode = browsing
			s.path.Blur()
			return s, nil
		case "enter":
			s.mode = browsing
			s.path.Blur()
			return s, s.importFile(s.path.Value())
		}
		var cmd tea.Cmd
		s.path, cmd = s.path.Update(msg)
		return s, cmd
	}

	s.errMsg, s.status = "", ""
	switch msg.String() {
	case "esc":
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	case "up", "k":
		if s.selected > 0 {
			s.selected--
		}
	case "down", "j":
		if s.selected < len(s.students)-1 {
			s.selected++
		}
	case "d":
		if len(s.students) > 0 {
			s.mode = confirmingDelete
		}
	case "i":
		s.mode = enteringPath
		return s, s.path.Focus()
	}
	return s, nil
}

func (s *StudentsScreen) importFile(path string) tea.Cmd {
	if path == "" {
		s.errMsg = "No file given."
		return nil
	}
	repo := s.repo
	return func() tea.Msg {
		list, err := importer.ReadFile(path)
		if err != nil {
			return importedMsg{err: err}
		}
		n, err := repo.ReplaceAll(context.Background(), list)
		return importedMsg{n: n, err: err}
	}
}

var columns = []struct {
	title string
	width int
}{
	{"ID", 5}, {"Name", 20}, {"Gender", 7}, {"Age", 4}, {"Study", 6},
	{"Absences", 9}, {"Marks", 7}, {"Score", 7}, {"Category", 10},
}

func (s *StudentsScreen) View(width, height int) string {
	if s.errMsg != "" && !s.loaded {
		return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render("\n\nError: " + s.errMsg)
	}
	if !s.loaded {
		return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading students...")
	}

	var b strings.Builder
	b.WriteString(theme.Hint.Render(fmt.Sprintf("  %d students", len(s.students))))
	b.WriteString("\n\n")

	head := make([]string, len(columns))
	for i, c := range columns {
		head[i] = fmt.Sprintf("%-*s", c.width, c.title)
	}
	b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Bold(true).Render("  " + strings.Join(head, " ")))
	b.WriteString("\n")

	visible := height - 10
	if visible < 3 {
		visible = 3
	}
	if s.selected < s.offset {
		s.offset = s.selected
	}
	if s.selected >= s.offset+visible {
		s.offset = s.selected - visible + 1
	}

	if len(s.students) == 0 {
		b.WriteString(theme.Hint.Render("\n  No students yet. Press i to import a CSV or Excel file."))
	}
	for i := s.offset; i < len(s.students) && i < s.offset+visible; i++ {
		b.WriteString(s.renderRow(i))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch s.mode {
	case confirmingDelete:
		b.WriteString(theme.Failed.Render(fmt.Sprintf("  Delete %s? (y/n)", s.students[s.selected].Name)))
	case enteringPath:
		b.WriteString(s.path.View())
	}
	if s.status != "" {
		b.WriteString(theme.Ok.Render("  " + s.status))
	}
	if s.errMsg != "" {
		b.WriteString(theme.Failed.Render("  Error: " + s.errMsg))
	}
	return b.String()
}

func (s *StudentsScreen) renderRow(i int) string {
	st := s.students[i]
	cells := []string{
		fmt.Sprint(st.ID), st.Name, str(st.Gender), num(st.Age), num(st.Studytime),
		num(st.Absences), dec(st.Marks), dec(st.Score), str(st.PerformanceCategory),
	}
	for j, c := range columns {
		cells[j] = fit(cells[j], c.width)
	}
	line := strings.Join(cells, " ")

	if i == s.selected {
		return theme.Selected.Render("▸ " + line)
	}
	style := theme.Unselected
	if st.PerformanceCategory != nil {
		style = lipgloss.NewStyle().Foreground(theme.CategoryColor(*st.PerformanceCategory))
	}
	return style.Render("  " + line)
}

// fit truncates or pads v to exactly w runes.
func fit(v string, w int) string {
	r := []rune(v)
	if len(r) > w {
		return string(r[:w-1]) + "…"
	}
	return v + strings.Repeat(" ", w-len(r))
}

func str(p *string) string {
	if p == nil {
		return "-"
	}
	return *p
}

func num(p *int) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprint(*p)
}

func dec(p *float64) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *p)
}
