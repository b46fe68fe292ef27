// Package sourcetest provides a scriptable in-memory source for tests.
package sourcetest

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/matzehuels/linegraph/pkg/layers"
	"github.com/matzehuels/linegraph/pkg/source"
)

// Line is a guide line served in one phase.
type Line struct {
	Phase layers.Phase
	Line  source.GridLine
	Style *source.Style // optional override
}

// Curve is a graph served in one phase.
type Curve struct {
	Phase   layers.Phase
	Mode    source.Mode
	Samples []float32 // copied into the widget buffer, padded with +Inf
	Style   *source.Style
}

// Row is one pending moving row. Rows are consumed when served.
type Row struct {
	Direction source.Direction
	Samples   []float32
	Style     *source.Style
}

// Marker is a dot served in one phase.
type Marker struct {
	Phase layers.Phase
	Dot   source.Dot
	Style *source.Style
}

// Fake implements source.Source from static data and records every call.
type Fake struct {
	Mask   layers.Mask
	Redraw bool
	Lines  []Line
	Curves []Curve
	Rows   []Row
	Dots   []Marker
	Label  string

	Polled []int    // generations passed to Layers
	Calls  []string // "grid cache 0", "graph realtime 1", …
	Styles []source.Style
}

func (f *Fake) Layers(id, generation int) (layers.Mask, bool) {
	f.Polled = append(f.Polled, generation)
	return f.Mask, f.Redraw
}

func (f *Fake) GridLine(id, index int, phase layers.Phase, style *source.Style) (source.GridLine, bool) {
	f.record("grid", phase, index, style)
	l, ok := nth(f.Lines, index, func(l Line) bool { return l.Phase == phase })
	if !ok {
		return source.GridLine{}, false
	}
	if l.Style != nil {
		*style = *l.Style
	}
	return l.Line, true
}

func (f *Fake) Graph(id, index int, phase layers.Phase, samples []float32, style *source.Style) (source.Mode, bool) {
	f.record("graph", phase, index, style)
	c, ok := nth(f.Curves, index, func(c Curve) bool { return c.Phase == phase })
	if !ok {
		return 0, false
	}
	fill(samples, c.Samples)
	if c.Style != nil {
		*style = *c.Style
	}
	return c.Mode, true
}

func (f *Fake) Moving(id, index int, samples []float32, width, height int, style *source.Style) (source.Direction, bool) {
	f.Calls = append(f.Calls, fmt.Sprintf("moving %d", index))
	f.Styles = append(f.Styles, *style)
	if len(f.Rows) == 0 {
		return 0, false
	}
	r := f.Rows[0]
	f.Rows = f.Rows[1:]
	fill(samples, r.Samples)
	if r.Style != nil {
		*style = *r.Style
	}
	return r.Direction, true
}

func (f *Fake) Dot(id, index int, phase layers.Phase, style *source.Style) (source.Dot, bool) {
	f.record("dot", phase, index, style)
	d, ok := nth(f.Dots, index, func(d Marker) bool { return d.Phase == phase })
	if !ok {
		return source.Dot{}, false
	}
	if d.Style != nil {
		*style = *d.Style
	}
	return d.Dot, true
}

func (f *Fake) CrosshairLabel(x, y, width, height int) string {
	f.Calls = append(f.Calls, "label")
	return f.Label
}

func (f *Fake) record(kind string, phase layers.Phase, index int, style *source.Style) {
	f.Calls = append(f.Calls, fmt.Sprintf("%s %v %d", kind, phase, index))
	f.Styles = append(f.Styles, *style)
}

func nth[T any](items []T, index int, match func(T) bool) (T, bool) {
	n := 0
	for _, it := range items {
		if !match(it) {
			continue
		}
		if n == index {
			return it, true
		}
		n++
	}
	var zero T
	return zero, false
}

func fill(dst, src []float32) {
	n := copy(dst, src)
	for i := n; i < len(dst); i++ {
		dst[i] = math32.Inf(1)
	}
}
