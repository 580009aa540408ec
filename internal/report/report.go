// Package report builds tabular summaries of stored students and trained
// models and writes them as CSV or XLSX.
package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/abhisek/studentperf/internal/classify"
	"github.com/abhisek/studentperf/internal/dataset"
	"github.com/abhisek/studentperf/internal/store"
)

// Kind names a report.
type Kind string

const (
	Summary    Kind = "summary"
	Statistics Kind = "statistics"
	Model      Kind = "model"
)

// ParseKind maps a name such as "Performance Summary" to a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "summary", "performance summary", "performance_summary":
		return Summary, nil
	case "statistics", "stats", "student statistics", "student_statistics":
		return Statistics, nil
	case "model", "model analysis", "model_analysis":
		return Model, nil
	}
	return "", &dataset.InvalidConfigurationError{
		Field:   "report",
		Value:   s,
		Allowed: []string{string(Summary), string(Statistics), string(Model)},
	}
}

// Table is a titled grid of cells.
type Table struct {
	Title  string
	Header []string
	Rows   [][]string
}

// PerformanceSummary counts students per performance category, with the
// share of categorized students and the mean score of each category.
// Students without a category are counted on an "Uncategorized" row.
func PerformanceSummary(students []store.Student) Table {
	t := Table{
		Title:  "Performance Summary",
		Header: []string{"Category", "Students", "Share %", "Mean score"},
	}

	counts := make(map[string]int)
	scores := make(map[string][]float64)
	uncategorized, categorized := 0, 0
	for _, s := range students {
		if s.PerformanceCategory == nil {
			uncategorized++
			continue
		}
		c := *s.PerformanceCategory
		counts[c]++
		categorized++
		if s.Score != nil {
			scores[c] = append(scores[c], *s.Score)
		}
	}

	for i := len(dataset.Categories) - 1; i >= 0; i-- {
		c := dataset.Categories[i]
		share := 0.0
		if categorized > 0 {
			share = 100 * float64(counts[c]) / float64(categorized)
		}
		mean := "-"
		if len(scores[c]) > 0 {
			mean = formatFloat(stat.Mean(scores[c], nil))
		}
		t.Rows = append(t.Rows, []string{c, strconv.Itoa(counts[c]), formatFloat(share), mean})
	}
	if uncategorized > 0 {
		t.Rows = append(t.Rows, []string{"Uncategorized", strconv.Itoa(uncategorized), "-", "-"})
	}
	t.Rows = append(t.Rows, []string{"Total", strconv.Itoa(len(students)), "", ""})
	return t
}

// statColumns are the numeric attributes described by StudentStatistics.
var statColumns = []string{
	"age", "studytime", "failures", "famrel", "freetime", "health", "absences",
	"marks", "attendance", "participation", "score",
}

// StudentStatistics describes each numeric attribute: how many students
// have it, how many lack it, and its mean, sample standard deviation,
// minimum and maximum.
func StudentStatistics(students []store.Student) Table {
	t := Table{
		Title:  "Student Statistics",
		Header: []string{"Attribute", "Count", "Missing", "Mean", "Std", "Min", "Max"},
	}
	rows := make([]dataset.Row, len(students))
	for i, s := range students {
		rows[i] = studentNumbers(s)
	}

	for _, col := range statColumns {
		var xs []float64
		for _, r := range rows {
			if v, ok := r[col].Float(); ok {
				xs = append(xs, v)
			}
		}
		row := []string{col, strconv.Itoa(len(xs)), strconv.Itoa(len(students) - len(xs)), "-", "-", "-", "-"}
		if len(xs) > 0 {
			row[3] = formatFloat(stat.Mean(xs, nil))
			if len(xs) > 1 {
				row[4] = formatFloat(stat.StdDev(xs, nil))
			}
			row[5] = formatFloat(floats.Min(xs))
			row[6] = formatFloat(floats.Max(xs))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// ModelAnalysis describes a trained model: its metadata and held-out
// metrics, followed by the confusion matrix (rows are actual classes).
func ModelAnalysis(rec *store.ModelRecord, m *classify.Model) []Table {
	info := Table{
		Title:  "Model Analysis",
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Model", rec.ID},
			{"Algorithm", string(m.Algorithm)},
			{"Label policy", rec.Policy},
			{"Features", strings.Join(m.Features, ", ")},
			{"Classes", strings.Join(m.Classes(), ", ")},
			{"Prepared rows", strconv.Itoa(rec.Rows)},
			{"Train rows", strconv.Itoa(m.Metrics.TrainRows)},
			{"Test rows", strconv.Itoa(m.Metrics.TestRows)},
			{"Accuracy", formatFloat(m.Metrics.Accuracy)},
			{"Majority baseline", formatFloat(m.Metrics.Baseline)},
			{"Trained at", rec.CreatedAt.Format("2006-01-02 15:04:05")},
		},
	}
	if m.Tree != nil {
		info.Rows = append(info.Rows, []string{"Tree depth", strconv.Itoa(m.Tree.Depth)})
	}
	if m.Scaler != nil {
		info.Rows = append(info.Rows, []string{"Scaling", string(m.Scaler.Method)})
	}

	classes := m.Classes()
	confusion := Table{
		Title:  "Confusion Matrix",
		Header: append([]string{"Actual \\ Predicted"}, classes...),
	}
	for i, c := range classes {
		row := []string{c}
		for j := range classes {
			n := 0
			if i < len(m.Metrics.Confusion) && j < len(m.Metrics.Confusion[i]) {
				n = m.Metrics.Confusion[i][j]
			}
			row = append(row, strconv.Itoa(n))
		}
		confusion.Rows = append(confusion.Rows, row)
	}
	return []Table{info, confusion}
}

func studentNumbers(s store.Student) dataset.Row {
	row := dataset.Row{}
	setInt := func(k string, v *int) {
		if v != nil {
			row[k] = dataset.Number(float64(*v))
		}
	}
	setFloat := func(k string, v *float64) {
		if v != nil {
			row[k] = dataset.Number(*v)
		}
	}
	setInt("age", s.Age)
	setInt("studytime", s.Studytime)
	setInt("failures", s.Failures)
	setInt("famrel", s.Famrel)
	setInt("freetime", s.Freetime)
	setInt("health", s.Health)
	setInt("absences", s.Absences)
	setFloat("marks", s.Marks)
	setFloat("attendance", s.Attendance)
	setFloat("participation", s.Participation)
	setFloat("score", s.Score)
	return row
}

func formatFloat(f float64) string {
	if math.IsNaN(f) {
		return "-"
	}
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// String renders t as aligned plain text.
func (t Table) String() string {
	widths := make([]int, len(t.Header))
	for i, h := range t.Header {
		widths[i] = len(h)
	}
	for _, r := range t.Rows {
		for i, c := range r {
			if i < len(widths) && len(c) > widths[i] {
				widths[i] = len(c)
			}
		}
	}

	var b strings.Builder
	b.WriteString(t.Title)
	b.WriteString("\n")
	line := func(cells []string) {
		for i, c := range cells {
			if i >= len(widths) {
				break
			}
			if i > 0 {
				b.WriteString("  ")
			}
			fmt.Fprintf(&b, "%-*s", widths[i], c)
		}
		b.WriteString("\n")
	}
	line(t.Header)
	for _, r := range t.Rows {
		line(r)
	}
	return b.String()
}
