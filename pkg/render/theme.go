package render

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/linegraph/pkg/layers"
	"github.com/matzehuels/linegraph/pkg/source"
)

// Theme holds the default styles and background colours.
type Theme struct {
	Grid   source.Style
	Graph  source.Style
	Dot    source.Style
	Moving source.Style
	Legend source.Style

	ScreenTop    colorful.Color
	ScreenBottom colorful.Color
	LightCore    colorful.Color
	LightEdge    colorful.Color
}

// DefaultTheme returns the greenish LCD look.
func DefaultTheme() Theme {
	return Theme{
		Grid:   source.RGBA(0.15, 0.2, 0.0, 1, 1.0),
		Graph:  source.RGBA(0.35, 0.4, 0.2, 1, 1.5),
		Dot:    source.RGBA(0.35, 0.4, 0.2, 1, 0),
		Moving: source.RGBA(0.35, 0.4, 0.2, 1, 0),
		Legend: source.RGBA(0, 0, 0, 0.5, 1),

		ScreenTop:    colorful.Color{R: 0.71, G: 0.82, B: 0.33},
		ScreenBottom: colorful.Color{R: 0.89, G: 1.00, B: 0.54},
		LightCore:    colorful.Color{R: 1, G: 1, B: 0.8},
		LightEdge:    colorful.Color{R: 0.89, G: 1.00, B: 0.45},
	}
}

// Default returns the style every element of layer l starts from.
func (t Theme) Default(l layers.Layer) source.Style {
	switch l {
	case layers.Grid:
		return t.Grid
	case layers.Dot:
		return t.Dot
	case layers.Moving:
		return t.Moving
	}
	return t.Graph
}

// nrgba converts c with alpha a into a gradient stop colour.
func nrgba(c colorful.Color, a float64) color.NRGBA {
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(clamp01(a)*255 + 0.5)}
}

func black(a float64) color.NRGBA {
	return color.NRGBA{A: uint8(clamp01(a)*255 + 0.5)}
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

func nrgbaGray(v float64) color.NRGBA {
	g := uint8(clamp01(v)*255 + 0.5)
	return color.NRGBA{R: g, G: g, B: g, A: 255}
}
