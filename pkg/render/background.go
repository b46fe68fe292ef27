package render

import (
	"github.com/fogleman/gg"

	"github.com/matzehuels/linegraph/pkg/coord"
	"github.com/matzehuels/linegraph/pkg/surface"
)

// maxLightWidth is the widest area a single light spot may cover.
const maxLightWidth = 300

// PaintBackground paints the static decoration on the background surface
// and copies it into the grid, cache and realtime surfaces.
func (p *Pipeline) PaintBackground(set *surface.Set, m coord.Mapper) {
	bg := set.Get(surface.Background)
	bg.Clear()
	p.paintDecoration(bg.Context(), m)
	p.trace().Draw(surface.Background.String(), "static", "decoration", 1)

	full := bg.Bounds()
	for _, r := range []surface.Role{surface.Grid, surface.Cache, surface.Realtime} {
		set.Get(r).Replace(bg, full)
		p.logger().Debug("copy", "src", surface.Background, "dst", r)
		p.trace().Copy(surface.Background.String(), r.String(), 1)
	}
}

func (p *Pipeline) paintDecoration(dc *gg.Context, m coord.Mapper) {
	w, h := float64(dc.Width()), float64(dc.Height())
	ox, oy := float64(m.OX), float64(m.OY)
	sx, sy := float64(m.SX), float64(m.SY)

	// outer frame
	dc.DrawRectangle(0, 0, w, h)
	dc.SetRGB(0, 0, 0)
	dc.Fill()

	// dark bezel lit from above
	bezel := gg.NewLinearGradient(0, 0, 0, h-2)
	bezel.AddColorStop(0, nrgbaGray(0.23))
	bezel.AddColorStop(0.5, black(1))
	dc.DrawRectangle(1, 1, w-2, h-2)
	dc.SetFillStyle(bezel)
	dc.Fill()

	dc.DrawRectangle(ox-1, oy-1, sx+2, sy+2)
	dc.SetRGB(0, 0, 0)
	dc.Fill()

	// screen
	screen := gg.NewLinearGradient(ox, oy, ox, oy+sy)
	screen.AddColorStop(0, nrgba(p.Theme.ScreenTop, 1))
	screen.AddColorStop(1, nrgba(p.Theme.ScreenBottom, 1))
	fillRect(dc, screen, ox, oy, sx, sy)

	// shadows
	fillRect(dc, ramp(ox, oy, ox, oy+7, 0.6, 0), ox, oy, sx, 7)
	fillRect(dc, ramp(ox, oy, ox+5, oy, 0.3, 0), ox, oy, 5, sy)
	fillRect(dc, ramp(ox+sx-5, oy, ox+sx, oy, 0, 0.3), ox+sx-5, oy, 5, sy)

	// dull halves
	half := float64(m.SX / 2)
	fillRect(dc, ramp(ox, oy, ox+half, oy, 0.1, 0), ox, oy, half, sy)
	fillRect(dc, ramp(ox+half, oy, ox+sx, oy, 0, 0.1), ox+half, oy, half, sy)

	// light spots along the top and bottom edge
	div := 1
	for m.SX/div > maxLightWidth {
		div++
	}
	lw := float64(m.SX / div)
	for i := range div {
		cx := ox + lw*float64(i) + lw/2
		fillRect(dc, p.light(cx, oy, oy+sy*0.25, lw/2), ox, oy, sx, sy)
		fillRect(dc, p.light(cx, oy+sy, oy+sy*0.75, lw/2), ox, oy, sx, sy)
	}
}

func (p *Pipeline) light(cx, y0, y1, r float64) gg.Gradient {
	g := gg.NewRadialGradient(cx, y0, 1, cx, y1, r)
	g.AddColorStop(0, nrgba(p.Theme.LightCore, 0.9))
	g.AddColorStop(1, nrgba(p.Theme.LightEdge, 0))
	return g
}

// ramp is a black linear gradient from alpha a0 to a1.
func ramp(x0, y0, x1, y1, a0, a1 float64) gg.Gradient {
	g := gg.NewLinearGradient(x0, y0, x1, y1)
	g.AddColorStop(0, black(a0))
	g.AddColorStop(1, black(a1))
	return g
}

func fillRect(dc *gg.Context, pat gg.Pattern, x, y, w, h float64) {
	dc.DrawRectangle(x, y, w, h)
	dc.SetFillStyle(pat)
	dc.Fill()
}
