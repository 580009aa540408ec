// Package importer reads student records from CSV and XLSX files.
//
// Headers are matched case-insensitively and ignoring spaces, underscores,
// slashes and hyphens, so "S/N", "studytime" and "Study Time" are all
// recognized. Unknown columns are ignored. Empty cells become missing values.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/abhisek/studentperf/internal/store"
)

// UnknownName is used for rows without a name.
const UnknownName = "Unknown"

// ParseError reports a cell that could not be parsed.
type ParseError struct {
	Row    int // 1-based, counting the header as row 1
	Column string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("row %d, column %q: %v", e.Row, e.Column, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ErrNoRecognizedColumns is returned when no header matches a known field.
var ErrNoRecognizedColumns = errors.New("no recognized columns in header")

// ReadFile reads students from path, choosing the format by extension.
func ReadFile(path string) ([]store.Student, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open import file: %w", err)
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return ReadCSV(f)
	case ".xlsx", ".xlsm":
		return ReadXLSX(f)
	default:
		return nil, fmt.Errorf("unsupported import format %q (want .csv or .xlsx)", ext)
	}
}

// ReadCSV reads students from CSV with a header row.
func ReadCSV(r io.Reader) ([]store.Student, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return parseTable(records)
}

// ReadXLSX reads students from the first sheet of a workbook.
func ReadXLSX(r io.Reader) ([]store.Student, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: close workbook: %v\n", err)
		}
	}()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, errors.New("workbook does not contain any sheets")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	return parseTable(rows)
}

type setter func(s *store.Student, v string) error

// columns maps normalized header names to field setters.
var columns = map[string]setter{
	"sn":                  text(func(s *store.Student) **string { return &s.StudentNo }),
	"studentno":           text(func(s *store.Student) **string { return &s.StudentNo }),
	"studentid":           text(func(s *store.Student) **string { return &s.StudentNo }),
	"name":                func(s *store.Student, v string) error { s.Name = v; return nil },
	"gender":              text(func(s *store.Student) **string { return &s.Gender }),
	"age":                 integer(func(s *store.Student) **int { return &s.Age }),
	"location":            text(func(s *store.Student) **string { return &s.Location }),
	"famsize":             text(func(s *store.Student) **string { return &s.Famsize }),
	"pstatus":             text(func(s *store.Student) **string { return &s.Pstatus }),
	"medu":                integer(func(s *store.Student) **int { return &s.Medu }),
	"fedu":                integer(func(s *store.Student) **int { return &s.Fedu }),
	"traveltime":          integer(func(s *store.Student) **int { return &s.Traveltime }),
	"studytime":           integer(func(s *store.Student) **int { return &s.Studytime }),
	"failures":            integer(func(s *store.Student) **int { return &s.Failures }),
	"schoolsup":           text(func(s *store.Student) **string { return &s.Schoolsup }),
	"famsup":              text(func(s *store.Student) **string { return &s.Famsup }),
	"paid":                text(func(s *store.Student) **string { return &s.Paid }),
	"activities":          text(func(s *store.Student) **string { return &s.Activities }),
	"nursery":             text(func(s *store.Student) **string { return &s.Nursery }),
	"higher":              text(func(s *store.Student) **string { return &s.Higher }),
	"internet":            text(func(s *store.Student) **string { return &s.Internet }),
	"famrel":              integer(func(s *store.Student) **int { return &s.Famrel }),
	"freetime":            integer(func(s *store.Student) **int { return &s.Freetime }),
	"health":              integer(func(s *store.Student) **int { return &s.Health }),
	"absences":            integer(func(s *store.Student) **int { return &s.Absences }),
	"department":          text(func(s *store.Student) **string { return &s.Department }),
	"semester":            integer(func(s *store.Student) **int { return &s.Semester }),
	"marks":               number(func(s *store.Student) **float64 { return &s.Marks }),
	"attendance":          number(func(s *store.Student) **float64 { return &s.Attendance }),
	"participation":       number(func(s *store.Student) **float64 { return &s.Participation }),
	"score":               number(func(s *store.Student) **float64 { return &s.Score }),
	"performancecategory": text(func(s *store.Student) **string { return &s.PerformanceCategory }),
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	return strings.NewReplacer(" ", "", "_", "", "/", "", "-", "").Replace(h)
}

func parseTable(records [][]string) ([]store.Student, error) {
	if len(records) == 0 {
		return nil, errors.New("empty import file")
	}

	header := records[0]
	setters := make([]setter, len(header))
	recognized := 0
	for i, h := range header {
		if set, ok := columns[normalizeHeader(h)]; ok {
			setters[i] = set
			recognized++
		}
	}
	if recognized == 0 {
		return nil, ErrNoRecognizedColumns
	}

	var out []store.Student
	for r, rec := range records[1:] {
		if blank(rec) {
			continue
		}
		var s store.Student
		for i, cell := range rec {
			if i >= len(setters) || setters[i] == nil {
				continue
			}
			v := strings.TrimSpace(cell)
			if isMissing(v) {
				continue
			}
			if err := setters[i](&s, v); err != nil {
				return nil, &ParseError{Row: r + 2, Column: header[i], Err: err}
			}
		}
		if s.Name == "" {
			s.Name = UnknownName
		}
		out = append(out, s)
	}
	return out, nil
}

func blank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func isMissing(v string) bool {
	switch strings.ToLower(v) {
	case "", "na", "nan", "null", "none":
		return true
	}
	return false
}

func text(field func(*store.Student) **string) setter {
	return func(s *store.Student, v string) error {
		*field(s) = &v
		return nil
	}
}

func number(field func(*store.Student) **float64) setter {
	return func(s *store.Student, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("not a number: %q", v)
		}
		*field(s) = &f
		return nil
	}
}

// integer accepts integral values written as floats, such as "3.0".
func integer(field func(*store.Student) **int) setter {
	return func(s *store.Student, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
			return fmt.Errorf("not a whole number: %q", v)
		}
		n := int(f)
		*field(s) = &n
		return nil
	}
}
