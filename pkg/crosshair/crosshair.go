// Package crosshair draws pointer readouts over a line graph.
//
// A crosshair is a set of guide lines from a point to the four edges of
// the drawable area. Variants fade the lines towards the frame or around
// the point, and an optional circular mask darkens a disc at the centre.
// The same drawing is used for the pointer readout and for two-dimensional
// handles.
package crosshair

import (
	"image/color"
	"math"

	"github.com/fogleman/gg"

	"github.com/matzehuels/linegraph/pkg/coord"
)

// Options selects the crosshair variant.
type Options struct {
	X, Y     int     // position relative to the drawable area
	Alpha    float64 // line opacity
	Mask     int     // gap around the centre in pixels
	Circle   bool    // fill a disc of radius Mask at the centre
	Gradient bool    // fade lines instead of drawing them solid
	Radius   int     // with Gradient: fade out within Radius instead of at the frame
	Label    string
}

// Pointer returns the options of the plain pointer readout.
func Pointer(x, y int, label string) Options {
	return Options{X: x, Y: y, Alpha: 0.5, Mask: 5, Label: label}
}

// Draw draws the crosshair on dc. dc state is restored afterwards.
func Draw(dc *gg.Context, m coord.Mapper, o Options) {
	dc.Push()
	defer dc.Pop()

	ox, oy := float64(m.OX), float64(m.OY)
	sx, sy := float64(m.SX), float64(m.SY)
	x, y := float64(o.X), float64(o.Y)
	cx, cy := ox+x, oy+y
	mask := float64(o.Mask)

	if o.Mask > 0 && o.Circle {
		quarter(dc, cx+1, cy, mask, 1.5*math.Pi, 2*math.Pi)
		quarter(dc, cx+1, cy+1, mask, 0, 0.5*math.Pi)
		quarter(dc, cx, cy+1, mask, 0.5*math.Pi, math.Pi)
		quarter(dc, cx, cy, mask, math.Pi, 1.5*math.Pi)
		dc.SetColor(shade(o.Alpha))
		dc.Fill()
	}

	switch {
	case o.Gradient && o.Radius > 0:
		r := float64(o.Radius)
		g := gg.NewRadialGradient(cx, cy, 1, cx, cy, r*2)
		g.AddColorStop(0, shade(o.Alpha))
		g.AddColorStop(1, shade(0))
		dc.DrawRectangle(cx, cy-r, 1, r-mask)
		dc.DrawRectangle(cx+mask, cy, r-mask, 1)
		dc.DrawRectangle(cx, cy+mask, 1, r-mask)
		dc.DrawRectangle(cx-r, cy, r-mask, 1)
		dc.SetFillStyle(g)
		dc.Fill()
	case o.Gradient:
		fade(dc, o.Alpha, cx, oy, 1, y-mask, cx, oy, cx, cy, false)
		fade(dc, o.Alpha, cx+mask, cy, sx-x-mask, 1, cx, oy, ox+sx, oy, true)
		fade(dc, o.Alpha, cx, cy+mask, 1, sy-y-mask, cx, cy, cx, oy+sy, true)
		fade(dc, o.Alpha, ox, cy, x-mask, 1, ox, oy, cx, oy, false)
	default:
		dc.MoveTo(cx+0.5, oy+0.5)
		dc.LineTo(cx+0.5, cy-mask+0.5)
		dc.MoveTo(cx+mask+0.5, cy+0.5)
		dc.LineTo(ox+sx+0.5, cy+0.5)
		dc.MoveTo(cx+0.5, cy+mask+0.5)
		dc.LineTo(cx+0.5, oy+sy+0.5)
		dc.MoveTo(ox+0.5, cy+0.5)
		dc.LineTo(cx-mask+0.5, cy+0.5)
		dc.SetLineWidth(1)
		dc.SetColor(shade(o.Alpha))
		dc.Stroke()
	}

	if o.Label != "" {
		dc.SetColor(shade(0.5))
		dc.DrawString(o.Label, cx+3, cy-3)
	}
}

func quarter(dc *gg.Context, x, y, r, a0, a1 float64) {
	dc.MoveTo(x, y)
	dc.DrawArc(x, y, r, a0, a1)
	dc.ClosePath()
}

// fade fills the rectangle (x, y, w, h) with a linear gradient along
// (x0, y0)-(x1, y1). outward fades from alpha to transparent, otherwise the
// other way round.
func fade(dc *gg.Context, alpha, x, y, w, h, x0, y0, x1, y1 float64, outward bool) {
	if w <= 0 || h <= 0 {
		return
	}
	g := gg.NewLinearGradient(x0, y0, x1, y1)
	if outward {
		g.AddColorStop(0, shade(alpha))
		g.AddColorStop(1, shade(0))
	} else {
		g.AddColorStop(0, shade(0))
		g.AddColorStop(1, shade(alpha))
	}
	dc.DrawRectangle(x, y, w, h)
	dc.SetFillStyle(g)
	dc.Fill()
}

func shade(alpha float64) color.NRGBA {
	switch {
	case alpha < 0:
		alpha = 0
	case alpha > 1:
		alpha = 1
	}
	return color.NRGBA{A: uint8(alpha*255 + 0.5)}
}
