// Package chart turns stored students into small terminal charts: the
// performance distribution, the average score per gender and an absences
// against score scatter plot.
package chart

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"charm.land/lipgloss/v2"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/abhisek/studentperf/internal/dataset"
	"github.com/abhisek/studentperf/internal/store"
	"github.com/abhisek/studentperf/internal/ui/theme"
)

// Kind names a chart.
type Kind string

const (
	Distribution  Kind = "distribution"
	ScoreByGender Kind = "gender"
	AbsencesScore Kind = "absences"
)

// Kinds lists every chart in menu order.
var Kinds = []Kind{Distribution, ScoreByGender, AbsencesScore}

// Title returns the human readable chart name.
func (k Kind) Title() string {
	switch k {
	case Distribution:
		return "Performance Distribution"
	case ScoreByGender:
		return "Average Score by Gender"
	case AbsencesScore:
		return "Absences vs Score"
	}
	return string(k)
}

// ParseKind accepts a kind name or its title.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "distribution", "performance distribution", "performance":
		return Distribution, nil
	case "gender", "score by gender", "average score by gender":
		return ScoreByGender, nil
	case "absences", "absences vs score", "scatter":
		return AbsencesScore, nil
	}
	allowed := make([]string, len(Kinds))
	for i, k := range Kinds {
		allowed[i] = string(k)
	}
	return "", &dataset.InvalidConfigurationError{Field: "chart", Value: s, Allowed: allowed}
}

// Bar is one labelled value of a bar chart.
type Bar struct {
	Label string
	Value float64
	Count int
}

// Point is one student on the scatter plot.
type Point struct {
	X, Y float64
}

// CategoryDistribution returns the percentage of categorized students in
// each performance category, best category first.
func CategoryDistribution(students []store.Student) []Bar {
	counts := make(map[string]int)
	total := 0
	for _, s := range students {
		if s.PerformanceCategory == nil {
			continue
		}
		counts[*s.PerformanceCategory]++
		total++
	}
	bars := make([]Bar, 0, len(dataset.Categories))
	for i := len(dataset.Categories) - 1; i >= 0; i-- {
		c := dataset.Categories[i]
		b := Bar{Label: c, Count: counts[c]}
		if total > 0 {
			b.Value = 100 * float64(counts[c]) / float64(total)
		}
		bars = append(bars, b)
	}
	return bars
}

// AverageScoreByGender returns the mean score per gender, ordered by
// gender. Students without a gender or a score are skipped.
func AverageScoreByGender(students []store.Student) []Bar {
	scores := make(map[string][]float64)
	for _, s := range students {
		if s.Gender == nil || s.Score == nil {
			continue
		}
		g := strings.TrimSpace(*s.Gender)
		if g == "" {
			continue
		}
		scores[g] = append(scores[g], *s.Score)
	}
	genders := make([]string, 0, len(scores))
	for g := range scores {
		genders = append(genders, g)
	}
	sort.Strings(genders)

	bars := make([]Bar, len(genders))
	for i, g := range genders {
		bars[i] = Bar{Label: g, Value: stat.Mean(scores[g], nil), Count: len(scores[g])}
	}
	return bars
}

// AbsencesVsScore returns one point per student with both absences and a
// score.
func AbsencesVsScore(students []store.Student) []Point {
	var pts []Point
	for _, s := range students {
		if s.Absences == nil || s.Score == nil {
			continue
		}
		pts = append(pts, Point{X: float64(*s.Absences), Y: *s.Score})
	}
	return pts
}

// Render draws the chart of kind k for students within width columns.
func Render(k Kind, students []store.Student, width int) (string, error) {
	switch k {
	case Distribution:
		return RenderBars(k.Title(), CategoryDistribution(students), width, func(v float64) string {
			return fmt.Sprintf("%5.1f%%", v)
		}), nil
	case ScoreByGender:
		return RenderBars(k.Title(), AverageScoreByGender(students), width, func(v float64) string {
			return fmt.Sprintf("%6.2f", v)
		}), nil
	case AbsencesScore:
		return RenderScatter(k.Title(), AbsencesVsScore(students), width, 16), nil
	}
	return "", fmt.Errorf("unknown chart %q", k)
}

// RenderBars draws horizontal bars scaled to the largest value.
func RenderBars(title string, bars []Bar, width int, format func(float64) string) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render(title))
	b.WriteString("\n\n")
	if len(bars) == 0 {
		b.WriteString(theme.Hint.Render("No data to chart."))
		return b.String()
	}

	labelWidth := 0
	peak := 0.0
	for _, bar := range bars {
		labelWidth = int(math.Max(float64(labelWidth), float64(lipgloss.Width(bar.Label))))
		peak = math.Max(peak, bar.Value)
	}

	barWidth := width - labelWidth - 20
	if barWidth < 4 {
		barWidth = 4
	}
	for _, bar := range bars {
		filled := 0
		if peak > 0 {
			filled = int(math.Round(float64(barWidth) * bar.Value / peak))
		}
		// Negative values draw an empty bar.
		filled = max(0, min(filled, barWidth))
		label := lipgloss.NewStyle().Width(labelWidth).Foreground(theme.Text).Render(bar.Label)
		fill := lipgloss.NewStyle().Background(theme.Secondary).Render(strings.Repeat(" ", filled))
		rest := lipgloss.NewStyle().Background(theme.Border).Render(strings.Repeat(" ", barWidth-filled))
		value := lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf(" %s (n=%d)", format(bar.Value), bar.Count))
		b.WriteString(label + "  " + fill + rest + value + "\n")
	}
	return b.String()
}

// RenderScatter draws points on a character grid with labelled axes.
func RenderScatter(title string, pts []Point, width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render(title))
	b.WriteString("\n\n")
	if len(pts) == 0 {
		b.WriteString(theme.Hint.Render("No students with both absences and a score."))
		return b.String()
	}

	cols := width - 10
	if cols < 10 {
		cols = 10
	}
	xs, ys := split(pts)
	grid := scatterGrid(pts, cols, height)
	dot := lipgloss.NewStyle().Foreground(theme.Accent)
	axis := lipgloss.NewStyle().Foreground(theme.TextDim)

	for i, line := range grid {
		prefix := "        "
		switch i {
		case 0:
			prefix = fmt.Sprintf("%7.1f ", floats.Max(ys))
		case len(grid) - 1:
			prefix = fmt.Sprintf("%7.1f ", floats.Min(ys))
		}
		b.WriteString(axis.Render(prefix+"|") + dot.Render(line) + "\n")
	}
	b.WriteString(axis.Render("        +" + strings.Repeat("-", cols)))
	b.WriteString("\n")
	lo := fmt.Sprintf("%.0f", floats.Min(xs))
	hi := fmt.Sprintf("%.0f", floats.Max(xs))
	gap := cols - len(lo) - len(hi)
	if gap < 1 {
		gap = 1
	}
	b.WriteString(axis.Render("         " + lo + strings.Repeat(" ", gap) + hi))
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render("         absences (x) vs score (y)"))
	return b.String()
}

// scatterGrid places points on a rows x cols grid with the largest y on
// the first row. A cell holding more than one point is drawn as '#'.
func scatterGrid(pts []Point, cols, rows int) []string {
	xs, ys := split(pts)
	minX, maxX := floats.Min(xs), floats.Max(xs)
	minY, maxY := floats.Min(ys), floats.Max(ys)

	cells := make([][]int, rows)
	for i := range cells {
		cells[i] = make([]int, cols)
	}
	for _, p := range pts {
		c := bucket(p.X, minX, maxX, cols)
		r := rows - 1 - bucket(p.Y, minY, maxY, rows)
		cells[r][c]++
	}

	lines := make([]string, rows)
	for i, row := range cells {
		var sb strings.Builder
		for _, n := range row {
			switch {
			case n == 0:
				sb.WriteByte(' ')
			case n == 1:
				sb.WriteByte('o')
			default:
				sb.WriteByte('#')
			}
		}
		lines[i] = sb.String()
	}
	return lines
}

func bucket(v, lo, hi float64, n int) int {
	if hi == lo {
		return 0
	}
	i := int((v - lo) / (hi - lo) * float64(n-1))
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func split(pts []Point) (xs, ys []float64) {
	xs = make([]float64, len(pts))
	ys = make([]float64, len(pts))
	for i, p := range pts {
		xs[i], ys[i] = p.X, p.Y
	}
	return xs, ys
}
