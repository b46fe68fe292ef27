package config

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/linegraph/pkg/errors"
	"github.com/matzehuels/linegraph/pkg/render"
	"github.com/matzehuels/linegraph/pkg/source"
)

// Theme overrides the default colours. Colours are hex strings ("#rrggbb"
// or "#rgb"); empty strings and zero widths keep the defaults.
type Theme struct {
	Grid         string  `toml:"grid"`
	GridWidth    float64 `toml:"grid_width"`
	Graph        string  `toml:"graph"`
	GraphWidth   float64 `toml:"graph_width"`
	Dot          string  `toml:"dot"`
	Moving       string  `toml:"moving"`
	Legend       string  `toml:"legend"`
	LegendAlpha  float64 `toml:"legend_alpha"`
	ScreenTop    string  `toml:"screen_top"`
	ScreenBottom string  `toml:"screen_bottom"`
}

// Render returns the default theme with the overrides applied.
func (t Theme) Render() (render.Theme, error) {
	out := render.DefaultTheme()
	styles := []struct {
		key   string
		hex   string
		style *source.Style
	}{
		{"grid", t.Grid, &out.Grid},
		{"graph", t.Graph, &out.Graph},
		{"dot", t.Dot, &out.Dot},
		{"moving", t.Moving, &out.Moving},
		{"legend", t.Legend, &out.Legend},
	}
	for _, s := range styles {
		if s.hex == "" {
			continue
		}
		c, err := parseColor(s.key, s.hex)
		if err != nil {
			return out, err
		}
		s.style.R, s.style.G, s.style.B = c.R, c.G, c.B
	}

	if t.GridWidth < 0 || t.GraphWidth < 0 {
		return out, errors.New(errors.ErrCodeInvalidConfig, "[theme] line widths must not be negative")
	}
	if t.GridWidth > 0 {
		out.Grid.LineWidth = t.GridWidth
	}
	if t.GraphWidth > 0 {
		out.Graph.LineWidth = t.GraphWidth
	}
	if t.LegendAlpha != 0 {
		if t.LegendAlpha < 0 || t.LegendAlpha > 1 {
			return out, errors.New(errors.ErrCodeInvalidConfig, "[theme] legend_alpha must be within [0,1], got %v", t.LegendAlpha)
		}
		out.Legend.A = t.LegendAlpha
	}

	screens := []struct {
		key string
		hex string
		dst *colorful.Color
	}{
		{"screen_top", t.ScreenTop, &out.ScreenTop},
		{"screen_bottom", t.ScreenBottom, &out.ScreenBottom},
	}
	for _, s := range screens {
		if s.hex == "" {
			continue
		}
		c, err := parseColor(s.key, s.hex)
		if err != nil {
			return out, err
		}
		*s.dst = c
	}
	return out, nil
}

func parseColor(key, hex string) (colorful.Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return c, errors.Wrap(errors.ErrCodeInvalidConfig, err, "[theme] %s: invalid colour %q", key, hex)
	}
	return c, nil
}
