package config

import (
	"sort"

	"github.com/matzehuels/linegraph/pkg/errors"
)

// layouts are the named handle sets selectable with [handles] layout.
var layouts = map[string][]Preset{
	"eq": {
		{Index: 0, Dimensions: 1, X: f(0.1), Label: "HP", Style: "highpass"},
		{Index: 1, Dimensions: 1, X: f(0.25), Label: "Low", Style: "lowshelf"},
		{Index: 2, Dimensions: 1, X: f(0.5), Label: "Mid", Style: "bell"},
		{Index: 3, Dimensions: 1, X: f(0.75), Label: "High", Style: "highshelf"},
		{Index: 4, Dimensions: 1, X: f(0.9), Label: "LP", Style: "lowpass"},
	},
	"xy": {
		{Index: 0, Dimensions: 2, X: f(0.3), Y: f(0.5), Label: "A"},
		{Index: 1, Dimensions: 3, X: f(0.7), Y: f(0.5), Z: f(0.5), Label: "B"},
	},
}

func f(v float64) *float64 { return &v }

// Layouts returns the names of the built-in handle layouts.
func Layouts() []string {
	names := make([]string, 0, len(layouts))
	for n := range layouts {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Layout returns a copy of the named handle layout.
func Layout(name string) ([]Preset, error) {
	ps, ok := layouts[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown handle layout %q (have %v)", name, Layouts())
	}
	out := make([]Preset, len(ps))
	copy(out, ps)
	return out, nil
}
