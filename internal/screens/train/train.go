// Package train is the screen that configures and runs model training.
package train

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studentperf/internal/classify"
	"github.com/abhisek/studentperf/internal/dataset"
	"github.com/abhisek/studentperf/internal/pipeline"
	"github.com/abhisek/studentperf/internal/report"
	"github.com/abhisek/studentperf/internal/router"
	"github.com/abhisek/studentperf/internal/screen"
	"github.com/abhisek/studentperf/internal/store"
	"github.com/abhisek/studentperf/internal/ui/components"
	"github.com/abhisek/studentperf/internal/ui/layout"
	"github.com/abhisek/studentperf/internal/ui/theme"
)

type trainedMsg struct {
	res *pipeline.TrainResult
	err error
}

const (
	fieldPreset = iota
	fieldMissing
	fieldScaling
	fieldAlgorithm
	fieldSubmit
)

const noScaling = "none"

// TrainScreen lets the user pick preparation options and an algorithm.
type TrainScreen struct {
	runner  pipeline.Runner
	base    pipeline.Config
	fields  []components.Selector
	button  components.Button
	focus   int
	running bool
	result  *pipeline.TrainResult
	errMsg  string
}

var _ screen.Screen = (*TrainScreen)(nil)
var _ screen.KeyHintProvider = (*TrainScreen)(nil)

// New creates a TrainScreen whose fields start from base.
func New(runner pipeline.Runner, base pipeline.Config) *TrainScreen {
	scaling := base.Scaling
	if !base.Normalize {
		scaling = noScaling
	}
	s := &TrainScreen{
		runner: runner,
		base:   base,
		fields: []components.Selector{
			components.NewSelector("Feature preset", pipeline.PresetNames(), base.Preset),
			components.NewSelector("Missing values", []string{string(dataset.Drop), string(dataset.Mean), string(dataset.Median)}, base.Missing),
			components.NewSelector("Normalization", []string{string(dataset.MinMax), string(dataset.ZScore), noScaling}, scaling),
			components.NewSelector("Algorithm", []string{string(classify.DecisionTree), string(classify.NaiveBayes)}, base.Algorithm),
		},
		button: components.NewButton("Train"),
	}
	s.setFocus(fieldPreset)
	return s
}

func (s *TrainScreen) Init() tea.Cmd {
	return nil
}

func (s *TrainScreen) Title() string {
	return "Train Model"
}

func (s *TrainScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Field"},
		{Key: "←→", Description: "Change"},
		{Key: "Enter", Description: "Train"},
		{Key: "Esc", Description: "Back"},
	}
}

// Config returns the training configuration chosen on screen.
func (s *TrainScreen) Config() pipeline.Config {
	cfg := s.base
	if p := s.fields[fieldPreset].Value(); p != s.base.Preset {
		cfg.Preset = p
		cfg.Features = nil
		cfg.Policy = ""
	}
	cfg.Missing = s.fields[fieldMissing].Value()
	if v := s.fields[fieldScaling].Value(); v == noScaling {
		cfg.Normalize = false
	} else {
		cfg.Normalize = true
		cfg.Scaling = v
	}
	cfg.Algorithm = s.fields[fieldAlgorithm].Value()
	return cfg
}

func (s *TrainScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case trainedMsg:
		s.running = false
		s.result, s.errMsg = msg.res, ""
		if msg.err != nil {
			s.result = nil
			s.errMsg = msg.err.Error()
		}
		return s, nil

	case tea.KeyMsg:
		if s.running {
			return s, nil
		}
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k", "shift+tab":
			s.setFocus((s.focus + fieldSubmit) % (fieldSubmit + 1))
			return s, nil
		case "down", "j", "tab":
			s.setFocus((s.focus + 1) % (fieldSubmit + 1))
			return s, nil
		case "enter":
			return s, s.train()
		}
		if s.focus < len(s.fields) {
			var cmd tea.Cmd
			s.fields[s.focus], cmd = s.fields[s.focus].Update(msg)
			return s, cmd
		}
	}
	return s, nil
}

func (s *TrainScreen) train() tea.Cmd {
	s.running = true
	s.errMsg = ""
	req := pipeline.TrainRequest{Config: s.Config()}
	runner := s.runner
	return func() tea.Msg {
		res, err := runner.Train(context.Background(), req)
		return trainedMsg{res: res, err: err}
	}
}

func (s *TrainScreen) setFocus(i int) {
	s.focus = i
	for j := range s.fields {
		s.fields[j].Focused = j == i
	}
	s.button.Active = i == fieldSubmit
}

func (s *TrainScreen) View(width, height int) string {
	var form strings.Builder
	for _, f := range s.fields {
		form.WriteString(f.View())
		form.WriteString("\n\n")
	}
	form.WriteString(s.button.View())

	var out strings.Builder
	switch {
	case s.running:
		out.WriteString(theme.Hint.Render("Training..."))
	case s.errMsg != "":
		out.WriteString(theme.Failed.Render("Training failed: " + s.errMsg))
	case s.result != nil:
		out.WriteString(s.renderResult())
	default:
		out.WriteString(theme.Hint.Render("Pick the options and press Enter to train."))
	}

	left := lipgloss.NewStyle().Width(width / 2).Padding(1, 2).Render(form.String())
	right := lipgloss.NewStyle().Width(width - width/2).Padding(1, 2).Render(out.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (s *TrainScreen) renderResult() string {
	r := s.result
	var b strings.Builder
	b.WriteString(theme.Ok.Render(fmt.Sprintf("Accuracy %.2f", r.Accuracy)))
	b.WriteString(theme.Hint.Render(fmt.Sprintf("  (baseline %.2f)", r.Model.Metrics.Baseline)))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Model    %s\n", r.ModelID)
	fmt.Fprintf(&b, "Policy   %s\n", r.Policy)
	fmt.Fprintf(&b, "Features %s\n", strings.Join(r.Model.Features, ", "))
	fmt.Fprintf(&b, "Rows     %d used, %d dropped\n\n", r.Rows, r.Dropped)

	rec := &store.ModelRecord{ID: r.ModelID, Policy: r.Policy, Rows: r.Rows}
	tables := report.ModelAnalysis(rec, r.Model)
	b.WriteString(tables[len(tables)-1].String())
	return b.String()
}
