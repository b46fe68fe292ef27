package render

import (
	"github.com/chewxy/math32"
	"github.com/fogleman/gg"

	"github.com/matzehuels/linegraph/pkg/coord"
	"github.com/matzehuels/linegraph/pkg/layers"
	"github.com/matzehuels/linegraph/pkg/source"
	"github.com/matzehuels/linegraph/pkg/surface"
)

// legendGap separates a guide line from its legend.
const legendGap = 5

func (p *Pipeline) drawGrid(s *surface.Surface, st *phaseState, phase layers.Phase) int {
	dc, m := s.Context(), st.frame.Mapper
	n := 0
	for line, style := range source.GridLines(st.frame.Source, p.SourceID, phase, p.Theme.Default(layers.Grid)) {
		drawGridLine(dc, m, line, *style, p.Theme.Legend)
		p.logger().Debug("grid", "phase", phase, "vertical", line.Vertical, "pos", line.Pos, "legend", line.Legend)
		n++
	}
	st.result.Elements += n
	return n
}

func drawGridLine(dc *gg.Context, m coord.Mapper, line source.GridLine, style, legend source.Style) {
	var tw, th, size float64
	if line.Legend != "" {
		tw, th = dc.MeasureString(line.Legend)
		if line.Vertical {
			size = float64(int(th)) + legendGap
		} else {
			size = float64(int(tw)) + legendGap
		}
	}
	ox, oy := float64(m.OX), float64(m.OY)
	sx, sy := float64(m.SX), float64(m.SY)

	style.Apply(dc)
	if line.Vertical {
		x := m.GridX(line.Pos) + 0.5
		dc.DrawLine(x, oy, x, oy+sy-size)
		dc.Stroke()
		if line.Legend != "" {
			legend.Apply(dc)
			dc.DrawString(line.Legend, x-tw/2, oy+sy-2)
		}
		return
	}
	y := m.GridY(line.Pos) + 0.5
	dc.DrawLine(ox, y, ox+sx-size, y)
	dc.Stroke()
	if line.Legend != "" {
		legend.Apply(dc)
		dc.DrawString(line.Legend, ox+sx-4-tw, y+th/2-2)
	}
}

func (p *Pipeline) drawGraphs(s *surface.Surface, st *phaseState, phase layers.Phase) int {
	dc, m := s.Context(), st.frame.Mapper
	samples := p.samples[:m.SX]
	n := 0
	for mode, style := range source.Graphs(st.frame.Source, p.SourceID, phase, samples, p.Theme.Default(layers.Graph)) {
		style.Apply(dc)
		drawGraph(dc, m, samples, mode)
		p.logger().Debug("graph", "phase", phase, "index", n, "mode", mode)
		n++
	}
	st.result.Elements += n
	return n
}

// Span is a range of sample columns. Runs include both ends; bars cover
// [Start, End) and take their value from the sample at End.
type Span struct {
	Start, End int
}

// Runs returns the maximal runs of finite samples. Each run is inclusive.
func Runs(samples []float32) []Span {
	var out []Span
	start := -1
	for i, v := range samples {
		finite := !math32.IsInf(v, 0)
		switch {
		case finite && start < 0:
			start = i
		case !finite && start >= 0:
			out = append(out, Span{start, i - 1})
			start = -1
		}
	}
	if start >= 0 {
		out = append(out, Span{start, len(samples) - 1})
	}
	return out
}

// Bars returns the bar spans of a curve. A bar covers the columns since
// the previous boundary and takes its height from the closing sample. The
// last column always closes a bar unless its sample is infinite.
func Bars(samples []float32) []Span {
	var out []Span
	last := 0
	for i := 1; i < len(samples); i++ {
		finite := !math32.IsInf(samples[i], 0)
		if !finite && i != len(samples)-1 {
			continue
		}
		if finite {
			out = append(out, Span{last, i})
		}
		last = i
	}
	return out
}

func drawGraph(dc *gg.Context, m coord.Mapper, samples []float32, mode source.Mode) {
	if mode == source.ModeLine {
		for _, r := range Runs(samples) {
			y := m.Y(samples[r.Start])
			if r.Start == r.End {
				x := m.X(r.Start)
				dc.MoveTo(x-0.5, y)
				dc.LineTo(x+0.5, y)
				continue
			}
			dc.MoveTo(m.X(r.Start), y)
			for i := r.Start + 1; i <= r.End; i++ {
				dc.LineTo(m.X(i), m.Y(samples[i]))
			}
		}
		dc.Stroke()
		return
	}

	ox, oy, sy := m.OX, m.OY, m.SY
	for _, b := range Bars(samples) {
		v := samples[b.End]
		x := float64(ox + b.Start)
		w := float64(b.End - b.Start)
		y := int(m.Y(v))
		switch mode {
		case source.ModeBars:
			dc.DrawRectangle(x, float64(y), w, float64(sy-y+oy))
		case source.ModeTicks:
			dc.DrawRectangle(x, float64(y-1), w, 2)
		default:
			dc.DrawRectangle(x, float64(oy+sy/2), w, -float64(v)*float64(sy/2))
		}
	}
	dc.Fill()
}

func (p *Pipeline) drawMoving(target surface.Role, st *phaseState, phase layers.Phase) {
	set, m := st.frame.Surfaces, st.frame.Mapper
	cur, prev := set.Moving()
	cur.ClearRect(st.clip)
	p.trace().Clear(movingName(set.MovingIndex()))

	dc := cur.Context()
	count := 0
	dir := source.Left
	for d, style := range source.Movings(st.frame.Source, p.SourceID, p.samples, m.SX, m.SY, p.Theme.Default(layers.Moving)) {
		dir = d
		drawMovingRow(dc, m, p.samples, d, count, *style)
		count++
	}
	p.trace().Draw(movingName(set.MovingIndex()), phase.String(), layers.Moving.String(), count)

	dx, dy := Shift(dir, count)
	cur.DrawShifted(prev, dx, dy, st.clip)
	p.trace().Shift(movingName(1-set.MovingIndex()), movingName(set.MovingIndex()), dx, dy)
	p.logger().Debug("moving", "phase", phase, "rows", count, "direction", dir, "surface", set.MovingIndex())

	set.Get(target).CopyFrom(cur, 1, st.clip)
	p.trace().Copy(movingName(set.MovingIndex()), target.String(), 1)

	set.ToggleMoving()
	st.result.Elements += count
}

// Shift returns the offset applied to the retained moving surface after
// count rows were drawn in direction d.
func Shift(d source.Direction, count int) (dx, dy int) {
	switch d {
	case source.Left:
		return -count, 0
	case source.Right:
		return count, 0
	case source.Up:
		return 0, -count
	case source.Down:
		return 0, count
	}
	return 0, 0
}

// drawMovingRow paints one row (or column) of a scrolling band. The alpha
// of each span follows its closing sample mapped from [-1, 1] to [0, 1].
func drawMovingRow(dc *gg.Context, m coord.Mapper, samples []float32, d source.Direction, count int, style source.Style) {
	span := m.SY
	if d.Vertical() {
		span = m.SX
	}
	row := samples[:span]
	ox, oy, sx, sy := float64(m.OX), float64(m.OY), float64(m.SX), float64(m.SY)
	c := float64(count)

	last := 0
	for i := 1; i < span; i++ {
		v := row[i]
		if math32.IsInf(v, 0) && i != span-1 {
			continue
		}
		a := clamp01(float64(v+1)/2) * style.A
		if math32.IsInf(v, 1) {
			a = style.A
		}
		dc.SetRGBA(style.R, style.G, style.B, a)
		l, w := float64(last), float64(i-last)
		switch d {
		case source.Up:
			dc.DrawRectangle(ox+l, oy+sy-1-c, w, 1)
		case source.Down:
			dc.DrawRectangle(ox+l, oy+c, w, 1)
		case source.Left:
			dc.DrawRectangle(ox+sx-1-c, oy+l, 1, w)
		case source.Right:
			dc.DrawRectangle(ox+c, oy+l, 1, w)
		}
		dc.Fill()
		last = i
	}
}

func movingName(i int) string {
	return (surface.Moving0 + surface.Role(i)).String()
}

func (p *Pipeline) drawDots(s *surface.Surface, st *phaseState, phase layers.Phase) int {
	dc, m := s.Context(), st.frame.Mapper
	n := 0
	for dot, style := range source.Dots(st.frame.Source, p.SourceID, phase, p.Theme.Default(layers.Dot)) {
		style.Apply(dc)
		dc.DrawCircle(m.DotX(dot.X), m.Y(dot.Y), dot.EffectiveRadius())
		dc.Fill()
		n++
	}
	st.result.Elements += n
	return n
}
