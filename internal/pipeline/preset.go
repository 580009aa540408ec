package pipeline

import (
	"sort"
	"strings"

	"github.com/abhisek/studentperf/internal/dataset"
)

// Preset names.
const (
	PresetEntry   = "entry"
	PresetProfile = "profile"
)

// Preset pairs a feature list with the label policy it is meant for.
type Preset struct {
	Name        string
	Description string
	Features    []string
	Policy      string
}

var presets = map[string]Preset{
	PresetEntry: {
		Name:        PresetEntry,
		Description: "entry form grades labelled by weighted score",
		Features:    []string{"marks", "attendance", "participation"},
		Policy:      dataset.PolicyWeighted,
	},
	PresetProfile: {
		Name:        PresetProfile,
		Description: "study habits labelled by raw score thresholds",
		Features:    []string{"studytime", "absences", "failures", "famrel"},
		Policy:      dataset.PolicyRawScore,
	},
}

// LookupPreset returns the named preset. An empty name selects the profile preset.
func LookupPreset(name string) (Preset, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = PresetProfile
	}
	p, ok := presets[key]
	if !ok {
		return Preset{}, &dataset.InvalidConfigurationError{
			Field:   "preset",
			Value:   name,
			Allowed: PresetNames(),
		}
	}
	p.Features = append([]string(nil), p.Features...)
	return p, nil
}

// PresetNames lists the known preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for n := range presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
