package source

import (
	"image/color"

	"github.com/fogleman/gg"
)

// Style is the colour and stroke width used for one element.
type Style struct {
	R, G, B, A float64
	LineWidth  float64
}

// RGBA returns a style with the given colour and line width.
func RGBA(r, g, b, a, width float64) Style {
	return Style{R: r, G: g, B: b, A: a, LineWidth: width}
}

// SetRGBA sets the colour.
func (s *Style) SetRGBA(r, g, b, a float64) {
	s.R, s.G, s.B, s.A = r, g, b, a
}

// SetLineWidth sets the stroke width.
func (s *Style) SetLineWidth(w float64) {
	s.LineWidth = w
}

// WithAlpha returns a copy with alpha multiplied by f.
func (s Style) WithAlpha(f float64) Style {
	s.A *= f
	return s
}

// Color converts the style colour for image APIs.
func (s Style) Color() color.Color {
	return color.NRGBA{
		R: to8(s.R),
		G: to8(s.G),
		B: to8(s.B),
		A: to8(s.A),
	}
}

// Apply sets colour and line width on dc.
func (s Style) Apply(dc *gg.Context) {
	dc.SetRGBA(s.R, s.G, s.B, s.A)
	dc.SetLineWidth(s.LineWidth)
}

func to8(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*255 + 0.5)
}
