// Package predict is the screen that classifies one student with a saved
// model.
package predict

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studentperf/internal/classify"
	"github.com/abhisek/studentperf/internal/pipeline"
	"github.com/abhisek/studentperf/internal/router"
	"github.com/abhisek/studentperf/internal/screen"
	"github.com/abhisek/studentperf/internal/store"
	"github.com/abhisek/studentperf/internal/ui/components"
	"github.com/abhisek/studentperf/internal/ui/layout"
	"github.com/abhisek/studentperf/internal/ui/theme"
)

// ModelLoader fetches a saved model; an empty id means the latest.
type ModelLoader interface {
	LoadModel(ctx context.Context, id string) (*classify.Model, *store.ModelRecord, error)
}

type modelMsg struct {
	model *classify.Model
	rec   *store.ModelRecord
	err   error
}

type predictedMsg struct {
	res *pipeline.PredictResult
	err error
}

// PredictScreen shows one numeric input per model feature.
type PredictScreen struct {
	runner pipeline.Runner
	loader ModelLoader
	model  *classify.Model
	rec    *store.ModelRecord
	inputs []components.TextInput
	focus  int
	loaded bool
	result *pipeline.PredictResult
	errMsg string
}

var _ screen.Screen = (*PredictScreen)(nil)
var _ screen.KeyHintProvider = (*PredictScreen)(nil)

// New creates a PredictScreen for the latest model.
func New(runner pipeline.Runner, loader ModelLoader) *PredictScreen {
	return &PredictScreen{runner: runner, loader: loader}
}

func (s *PredictScreen) Init() tea.Cmd {
	loader := s.loader
	return func() tea.Msg {
		m, rec, err := loader.LoadModel(context.Background(), "")
		return modelMsg{model: m, rec: rec, err: err}
	}
}

func (s *PredictScreen) Title() string {
	return "Predict"
}

func (s *PredictScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Field"},
		{Key: "Enter", Description: "Next / Predict"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *PredictScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case modelMsg:
		s.loaded = true
		if msg.err != nil {
			if errors.Is(msg.err, pipeline.ErrNoModel) {
				s.errMsg = "No trained model yet. Train one first."
			} else {
				s.errMsg = msg.err.Error()
			}
			return s, nil
		}
		s.model, s.rec = msg.model, msg.rec
		s.inputs = make([]components.TextInput, len(s.model.Features))
		for i, f := range s.model.Features {
			s.inputs[i] = components.NewTextInput(f, "0", components.Decimal, 16)
		}
		return s, s.setFocus(0)

	case predictedMsg:
		s.result, s.errMsg = msg.res, ""
		if msg.err != nil {
			s.result = nil
			s.errMsg = msg.err.Error()
		}
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
		if len(s.inputs) == 0 {
			return s, nil
		}
		switch msg.String() {
		case "up", "shift+tab":
			return s, s.setFocus((s.focus + len(s.inputs) - 1) % len(s.inputs))
		case "down", "tab":
			return s, s.setFocus((s.focus + 1) % len(s.inputs))
		case "enter":
			if s.focus < len(s.inputs)-1 {
				return s, s.setFocus(s.focus + 1)
			}
			return s, s.predict()
		}
	}

	if s.focus < len(s.inputs) {
		var cmd tea.Cmd
		s.inputs[s.focus], cmd = s.inputs[s.focus].Update(msg)
		return s, cmd
	}
	return s, nil
}

// Values parses the inputs into named feature values.
func (s *PredictScreen) Values() (map[string]float64, error) {
	values := make(map[string]float64, len(s.inputs))
	for _, in := range s.inputs {
		v, err := in.FloatValue()
		if err != nil {
			return nil, fmt.Errorf("%s: enter a number", in.Label)
		}
		values[in.Label] = v
	}
	return values, nil
}

func (s *PredictScreen) predict() tea.Cmd {
	values, err := s.Values()
	if err != nil {
		s.errMsg = err.Error()
		return nil
	}
	req := pipeline.PredictRequest{ModelID: s.rec.ID, Values: values}
	runner := s.runner
	return func() tea.Msg {
		res, err := runner.Predict(context.Background(), req)
		return predictedMsg{res: res, err: err}
	}
}

func (s *PredictScreen) setFocus(i int) tea.Cmd {
	s.focus = i
	var cmd tea.Cmd
	for j := range s.inputs {
		if j == i {
			cmd = s.inputs[j].Focus()
		} else {
			s.inputs[j].Blur()
		}
	}
	return cmd
}

func (s *PredictScreen) View(width, height int) string {
	if !s.loaded {
		return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading model...")
	}
	if s.model == nil {
		return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render("\n\n" + s.errMsg)
	}

	var form strings.Builder
	form.WriteString(theme.Hint.Render(fmt.Sprintf("%s model %s", s.model.Algorithm, shortID(s.rec.ID))))
	form.WriteString("\n\n")
	for _, in := range s.inputs {
		form.WriteString(in.View())
		form.WriteString("\n\n")
	}

	var out strings.Builder
	switch {
	case s.errMsg != "":
		out.WriteString(theme.Failed.Render(s.errMsg))
	case s.result != nil:
		out.WriteString(renderResult(s.result))
	default:
		out.WriteString(theme.Hint.Render("Fill in every field and press Enter on the last one."))
	}

	left := lipgloss.NewStyle().Width(width / 2).Padding(1, 2).Render(form.String())
	right := lipgloss.NewStyle().Width(width - width/2).Padding(1, 2).Render(out.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func renderResult(r *pipeline.PredictResult) string {
	var b strings.Builder
	b.WriteString("Predicted category\n\n")
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(theme.CategoryColor(r.Label)).Render(r.Label))
	b.WriteString("\n\n")

	labels := make([]string, 0, len(r.Probabilities))
	for l := range r.Probabilities {
		labels = append(labels, l)
	}
	sort.Slice(labels, func(i, j int) bool {
		return r.Probabilities[labels[i]] > r.Probabilities[labels[j]]
	})
	for _, l := range labels {
		fmt.Fprintf(&b, "%-10s %5.1f%%\n", l, 100*r.Probabilities[l])
	}
	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
