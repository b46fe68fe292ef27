package handles

import (
	"fmt"
	"image/color"
	"math"

	"github.com/fogleman/gg"

	"github.com/matzehuels/linegraph/pkg/coord"
	"github.com/matzehuels/linegraph/pkg/crosshair"
)

// Frequency returns the readout of a normalized x position on a
// logarithmic 20 Hz to 20 kHz axis.
func Frequency(x float64) float64 {
	return math.Exp(x*math.Log(1000)) * 20
}

// FrequencyLabel formats Frequency(x) as drawn next to a handle.
func FrequencyLabel(x float64) string {
	return fmt.Sprintf("%.0f Hz", math.Round(Frequency(x)))
}

// MaskRadius returns the centre gap of a point handle for depth z. Larger
// z draws a smaller gap. An unset z draws the smallest one.
func MaskRadius(z float64) int {
	if z < 0 {
		z = 1
	}
	return int(30 - math.Log10(1+z*9)*30 + 7)
}

// Draw paints all active handles with 0 < X < 1. The caller clears the
// target first.
func (o *Overlay) Draw(dc *gg.Context, m coord.Mapper) {
	dc.Push()
	defer dc.Pop()
	dc.SetLineWidth(1)

	for i, h := range o.handles {
		if !h.Active || h.X <= 0 || h.X >= 1 {
			continue
		}
		alpha, text, grad := 0.15, 0.5, true
		if o.hovered == i {
			alpha, text, grad = 0.3, 0.7, false
		}
		drawHandle(dc, m, h, alpha, text, grad)
	}
}

func drawHandle(dc *gg.Context, m coord.Mapper, h Handle, alpha, text float64, grad bool) {
	ox, oy := float64(m.OX), float64(m.OY)
	sx, sy := float64(m.SX), float64(m.SY)
	vy := 0.0
	if h.Point() {
		vy = h.Y
	}
	ix, iy := m.HandleOffset(h.X, vy)
	x, y := float64(ix), float64(iy)

	ty := oy + 15
	if h.Point() {
		ty = oy + y
	}
	dc.SetRGBA(0, 0, 0, text)
	dc.DrawString(FrequencyLabel(h.X), ox+x+11, ty)
	if h.Label != "" {
		w, _ := dc.MeasureString(h.Label)
		dc.DrawString(h.Label, ox+x-3-w, ty)
	}

	if h.Point() {
		crosshair.Draw(dc, m, crosshair.Options{
			X:        ix,
			Y:        iy,
			Alpha:    alpha,
			Mask:     MaskRadius(h.Z),
			Circle:   true,
			Gradient: grad,
			Radius:   -1,
		})
		return
	}

	dc.DrawLine(ox+x+0.5, oy, ox+x+0.5, oy+sy)
	dc.Stroke()

	var g gg.Gradient
	switch h.Style {
	case HighPass:
		g = gg.NewLinearGradient(ox, oy, ox+x, oy)
		g.AddColorStop(0, shade(0))
		g.AddColorStop(1, shade(alpha))
		dc.DrawRectangle(ox, oy, x-1, sy)
	case LowShelf:
		g = band(oy, sy, alpha*1.5)
		dc.DrawRectangle(ox, oy, x-1, sy)
	case HighShelf:
		g = band(oy, sy, alpha*1.5)
		dc.DrawRectangle(ox+x+2, oy, sx-x-2, sy)
	case LowPass:
		g = gg.NewLinearGradient(ox+x, oy, ox+sx, oy)
		g.AddColorStop(0, shade(alpha))
		g.AddColorStop(1, shade(0))
		dc.DrawRectangle(ox+x+2, oy, sx-x-1, sy)
	default:
		g = band(oy, sy, alpha)
		dc.DrawRectangle(ox+x-7, oy, 6, sy)
		dc.DrawRectangle(ox+x+2, oy, 6, sy)
	}
	dc.SetFillStyle(g)
	dc.Fill()
}

// band fades in and out vertically across the drawable area, peaking at
// alpha in the middle.
func band(oy, sy, alpha float64) gg.Gradient {
	g := gg.NewLinearGradient(0, oy, 0, oy+sy)
	g.AddColorStop(0, shade(0))
	g.AddColorStop(0.5, shade(alpha))
	g.AddColorStop(1, shade(0))
	return g
}

func shade(alpha float64) color.NRGBA {
	return color.NRGBA{A: uint8(clamp(alpha, 0, 1)*255 + 0.5)}
}
