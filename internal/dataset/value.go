package dataset

import (
	"math"
	"sort"
	"strconv"
)

type kind uint8

const (
	kindMissing kind = iota
	kindNumber
	kindText
)

// Value is a single cell of a Row. The zero Value is missing.
type Value struct {
	kind kind
	num  float64
	text string
}

// Number returns a numeric Value. NaN is treated as missing.
func Number(f float64) Value {
	if math.IsNaN(f) {
		return Value{}
	}
	return Value{kind: kindNumber, num: f}
}

// Text returns a categorical Value.
func Text(s string) Value {
	return Value{kind: kindText, text: s}
}

// Missing returns an absent Value.
func Missing() Value {
	return Value{}
}

// IsMissing reports whether the value is absent.
func (v Value) IsMissing() bool { return v.kind == kindMissing }

// IsNumber reports whether the value is numeric.
func (v Value) IsNumber() bool { return v.kind == kindNumber }

// Float returns the numeric value and whether the value is numeric.
func (v Value) Float() (float64, bool) {
	if v.kind != kindNumber {
		return 0, false
	}
	return v.num, true
}

// Str returns the text value and whether the value is text.
func (v Value) Str() (string, bool) {
	if v.kind != kindText {
		return "", false
	}
	return v.text, true
}

func (v Value) String() string {
	switch v.kind {
	case kindNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case kindText:
		return v.text
	default:
		return "<missing>"
	}
}

// Row maps a column name to its value. An absent key counts as missing.
type Row map[string]Value

// Columns returns the sorted union of column names across rows.
func Columns(rows []Row) []string {
	seen := make(map[string]struct{})
	for _, r := range rows {
		for k := range r {
			seen[k] = struct{}{}
		}
	}
	cols := make([]string, 0, len(seen))
	for k := range seen {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}

func cloneRows(rows []Row) []Row {
	out := make([]Row, len(rows))
	for i, r := range rows {
		c := make(Row, len(r))
		for k, v := range r {
			c[k] = v
		}
		out[i] = c
	}
	return out
}
