package dataset

import "testing"

func TestWeightedScorePolicy(t *testing.T) {
	tests := []struct {
		name                              string
		marks, attendance, participation float64
		want                              string
	}{
		{"all 90", 90, 90, 90, Excellent},
		{"all 40", 40, 40, 40, Poor},
		{"exactly 85", 85, 85, 85, Excellent},
		{"good band", 80, 60, 50, Good}, // 71
		{"average floor", 50, 50, 50, Average},
		{"just under average", 50, 48, 40, Poor}, // 48.4
		{"rounds down to 49", 52, 45, 45, Poor},  // 49.2
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := Row{
				"marks":         Number(tt.marks),
				"attendance":    Number(tt.attendance),
				"participation": Number(tt.participation),
			}
			got, err := WeightedScorePolicy{}.Label(row)
			if err != nil {
				t.Fatalf("Label: %v", err)
			}
			if got != tt.want {
				t.Errorf("Label = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRawScoreThresholdPolicy(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{50, Excellent},
		{45, Excellent},
		{44, Good},
		{35, Good},
		{34, Average},
		{25, Average},
		{24, Poor},
		{0, Poor},
	}
	for _, tt := range tests {
		got, err := RawScoreThresholdPolicy{}.Label(Row{"score": Number(tt.score)})
		if err != nil {
			t.Fatalf("Label(%v): %v", tt.score, err)
		}
		if got != tt.want {
			t.Errorf("Label(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestRawScoreThresholdPolicy_MissingScore(t *testing.T) {
	if _, err := (RawScoreThresholdPolicy{}).Label(Row{}); err == nil {
		t.Error("expected error for missing score")
	}
}

func TestStoredCategoryPolicy(t *testing.T) {
	got, err := StoredCategoryPolicy{}.Label(Row{"performance_category": Text(Good)})
	if err != nil || got != Good {
		t.Errorf("Label = %q, %v; want %q", got, err, Good)
	}
	if _, err := (StoredCategoryPolicy{}).Label(Row{"performance_category": Number(3)}); err == nil {
		t.Error("expected error for numeric category")
	}
}

func TestParseLabelPolicy(t *testing.T) {
	for name, want := range map[string]string{
		"weighted":            PolicyWeighted,
		"Weighted Score":      PolicyWeighted,
		"raw_score":           PolicyRawScore,
		"raw-score-threshold": PolicyRawScore,
		"stored":              PolicyStored,
	} {
		p, err := ParseLabelPolicy(name)
		if err != nil {
			t.Fatalf("ParseLabelPolicy(%q): %v", name, err)
		}
		if p.Name() != want {
			t.Errorf("ParseLabelPolicy(%q).Name() = %q, want %q", name, p.Name(), want)
		}
	}
	if _, err := ParseLabelPolicy("vibes"); err == nil {
		t.Error("expected error for unknown policy")
	}
}
