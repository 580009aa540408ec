package classify

import (
	"fmt"
	"sort"
)

// LabelEncoder maps category labels to integer codes in sorted label order.
type LabelEncoder struct {
	Classes []string `json:"classes"`
}

// FitLabelEncoder builds an encoder over the distinct labels in y.
func FitLabelEncoder(y []string) *LabelEncoder {
	seen := make(map[string]struct{}, len(y))
	for _, l := range y {
		seen[l] = struct{}{}
	}
	classes := make([]string, 0, len(seen))
	for l := range seen {
		classes = append(classes, l)
	}
	sort.Strings(classes)
	return &LabelEncoder{Classes: classes}
}

// Encode converts labels to codes.
func (e *LabelEncoder) Encode(y []string) ([]int, error) {
	index := make(map[string]int, len(e.Classes))
	for i, c := range e.Classes {
		index[c] = i
	}
	codes := make([]int, len(y))
	for i, l := range y {
		c, ok := index[l]
		if !ok {
			return nil, fmt.Errorf("unknown label %q", l)
		}
		codes[i] = c
	}
	return codes, nil
}

// Decode converts a code back to its label.
func (e *LabelEncoder) Decode(code int) (string, error) {
	if code < 0 || code >= len(e.Classes) {
		return "", fmt.Errorf("label code %d out of range [0,%d)", code, len(e.Classes))
	}
	return e.Classes[code], nil
}
