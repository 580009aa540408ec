package report

import (
	"bytes"
	"encoding/csv"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/abhisek/studentperf/internal/classify"
	"github.com/abhisek/studentperf/internal/dataset"
	"github.com/abhisek/studentperf/internal/store"
)

func ptr[T any](v T) *T { return &v }

func sampleStudents() []store.Student {
	return []store.Student{
		{Name: "a", Score: ptr(48.0), PerformanceCategory: ptr(dataset.Excellent), Age: ptr(16), Absences: ptr(2)},
		{Name: "b", Score: ptr(46.0), PerformanceCategory: ptr(dataset.Excellent), Age: ptr(17), Absences: ptr(4)},
		{Name: "c", Score: ptr(20.0), PerformanceCategory: ptr(dataset.Poor), Age: ptr(18)},
		{Name: "d", Marks: ptr(70.0)},
	}
}

func TestPerformanceSummary(t *testing.T) {
	tbl := PerformanceSummary(sampleStudents())

	require.Len(t, tbl.Rows, 6)
	assert.Equal(t, []string{"Excellent", "2", "66.67", "47.00"}, tbl.Rows[0])
	assert.Equal(t, []string{"Good", "0", "0.00", "-"}, tbl.Rows[1])
	assert.Equal(t, []string{"Poor", "1", "33.33", "20.00"}, tbl.Rows[3])
	assert.Equal(t, []string{"Uncategorized", "1", "-", "-"}, tbl.Rows[4])
	assert.Equal(t, "4", tbl.Rows[5][1])
}

func TestStudentStatistics(t *testing.T) {
	tbl := StudentStatistics(sampleStudents())

	byName := map[string][]string{}
	for _, r := range tbl.Rows {
		byName[r[0]] = r
	}
	assert.Equal(t, []string{"age", "3", "1", "17.00", "1.00", "16.00", "18.00"}, byName["age"])
	assert.Equal(t, []string{"absences", "2", "2", "3.00", "1.41", "2.00", "4.00"}, byName["absences"])
	assert.Equal(t, []string{"marks", "1", "3", "70.00", "-", "70.00", "70.00"}, byName["marks"])
	assert.Equal(t, []string{"health", "0", "4", "-", "-", "-", "-"}, byName["health"])
}

func trainedModel(t *testing.T) (*store.ModelRecord, *classify.Model) {
	t.Helper()
	var rows []dataset.Row
	for i := 0; i < 5; i++ {
		rows = append(rows,
			dataset.Row{"studytime": dataset.Number(1), "absences": dataset.Number(float64(i)), "score": dataset.Number(10)},
			dataset.Row{"studytime": dataset.Number(4), "absences": dataset.Number(float64(i)), "score": dataset.Number(48)},
		)
	}
	opts := dataset.DefaultOptions()
	opts.Features = []string{"studytime", "absences"}
	opts.Policy = dataset.RawScoreThresholdPolicy{}
	p, err := dataset.Prepare(rows, opts)
	require.NoError(t, err)
	m, acc, err := classify.Fit(p, classify.DefaultConfig())
	require.NoError(t, err)
	return &store.ModelRecord{ID: "m-1", Policy: dataset.PolicyRawScore, Rows: p.Rows(), Accuracy: acc, CreatedAt: time.Now()}, m
}

func TestModelAnalysis(t *testing.T) {
	rec, m := trainedModel(t)
	tables := ModelAnalysis(rec, m)
	require.Len(t, tables, 2)

	info := map[string]string{}
	for _, r := range tables[0].Rows {
		info[r[0]] = r[1]
	}
	assert.Equal(t, "decision_tree", info["Algorithm"])
	assert.Equal(t, "studytime, absences", info["Features"])
	assert.Equal(t, "1.00", info["Accuracy"])

	confusion := tables[1]
	assert.Equal(t, []string{"Actual \\ Predicted", "Excellent", "Poor"}, confusion.Header)
	require.Len(t, confusion.Rows, 2)
	total := 0
	for i, r := range confusion.Rows {
		for j, c := range r[1:] {
			n, err := strconv.Atoi(c)
			require.NoError(t, err)
			if i != j {
				assert.Zero(t, n)
			}
			total += n
		}
	}
	assert.Equal(t, m.Metrics.TestRows, total)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	tables := []Table{
		{Title: "One", Header: []string{"a", "b"}, Rows: [][]string{{"1", "2"}}},
		{Title: "Two", Header: []string{"c"}, Rows: [][]string{{"x, y"}}},
	}
	require.NoError(t, WriteCSV(&buf, tables...))

	r := csv.NewReader(strings.NewReader(buf.String()))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"One"}, {"a", "b"}, {"1", "2"},
		{"Two"}, {"c"}, {"x, y"},
	}, records)
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	tables := []Table{
		PerformanceSummary(sampleStudents()),
		StudentStatistics(sampleStudents()),
	}
	require.NoError(t, Write(path, XLSX, tables...))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Performance Summary", "Student Statistics"}, f.GetSheetList())
	rows, err := f.GetRows("Performance Summary")
	require.NoError(t, err)
	assert.Equal(t, []string{"Category", "Students", "Share %", "Mean score"}, rows[0])
	assert.Equal(t, "Excellent", rows[1][0])
}

func TestParseKindAndFormat(t *testing.T) {
	k, err := ParseKind("Performance Summary")
	require.NoError(t, err)
	assert.Equal(t, Summary, k)
	_, err = ParseKind("pdf")
	assert.Error(t, err)

	f, err := ParseFormat("Excel")
	require.NoError(t, err)
	assert.Equal(t, XLSX, f)
	_, err = ParseFormat("pdf")
	assert.Error(t, err)
}
