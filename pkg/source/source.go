// Package source defines the data side of a line graph widget.
//
// A [Source] is queried once per draw and layer. Queries are indexed: the
// widget asks for element 0, 1, 2, … until the source answers false. Each
// query receives a [Style] that has been reset to the category default; the
// source may change colour and line width for that element only.
//
// The iterator helpers ([GridLines], [Graphs], [Movings], [Dots]) wrap that
// protocol as iter.Seq2 sequences so drawing code can range over elements.
package source

import (
	"iter"

	"github.com/matzehuels/linegraph/pkg/layers"
)

// Source supplies everything a line graph draws.
//
// id is the widget's source identifier, letting one source back several
// widgets. Samples passed to Graph and Moving are owned by the caller and
// must be filled in place.
type Source interface {
	// Layers reports the dirty layer mask for the given generation and
	// whether a redraw is needed at all.
	Layers(id, generation int) (layers.Mask, bool)

	// GridLine returns guide line index for phase.
	GridLine(id, index int, phase layers.Phase, style *Style) (GridLine, bool)

	// Graph fills samples (one per drawable column) for curve index.
	Graph(id, index int, phase layers.Phase, samples []float32, style *Style) (Mode, bool)

	// Moving fills samples for the next scrolling row. Rows scrolling up or
	// down use width samples, rows scrolling left or right use height.
	Moving(id, index int, samples []float32, width, height int, style *Style) (Direction, bool)

	// Dot returns point marker index for phase.
	Dot(id, index int, phase layers.Phase, style *Style) (Dot, bool)

	// CrosshairLabel returns the readout for a pointer at (x, y) relative to
	// the drawable area of width x height pixels.
	CrosshairLabel(x, y, width, height int) string
}

// GridLine is a vertical or horizontal guide.
type GridLine struct {
	Pos      float32 // [0, 1] across for vertical lines, [-1, 1] value for horizontal
	Vertical bool
	Legend   string
}

// Mode selects how curve samples are drawn:
//   - ModeLine: polyline; +Inf breaks it
//   - ModeBars: filled bars down to the bottom edge
//   - ModeTicks: two pixel high marks at the sample value
//   - ModeCentered, ModeCenteredAlt: bars from the centre line
type Mode int

const (
	ModeLine Mode = iota
	ModeBars
	ModeTicks
	ModeCentered
	ModeCenteredAlt
)

var modeNames = [...]string{"line", "bars", "ticks", "centered", "centered-alt"}

func (m Mode) String() string {
	if m < ModeLine || m > ModeCenteredAlt {
		return "unknown"
	}
	return modeNames[m]
}

// Direction is the scroll direction of a moving layer.
type Direction int

const (
	Left Direction = iota
	Right
	Up
	Down
)

var directionNames = [...]string{"left", "right", "up", "down"}

func (d Direction) String() string {
	if d < Left || d > Down {
		return "unknown"
	}
	return directionNames[d]
}

// ParseDirection parses a direction name.
func ParseDirection(s string) (Direction, bool) {
	for i, n := range directionNames {
		if n == s {
			return Direction(i), true
		}
	}
	return Left, false
}

// Vertical reports whether rows scroll along the y axis.
func (d Direction) Vertical() bool {
	return d == Up || d == Down
}

// DefaultDotRadius is used when a dot does not set its radius.
const DefaultDotRadius = 3

// Dot is a filled point marker. X is in [0, 1] across, Y a value in [-1, 1].
type Dot struct {
	X, Y   float32
	Radius float32
}

// EffectiveRadius returns the radius, falling back to the default.
func (d Dot) EffectiveRadius() float64 {
	if d.Radius <= 0 {
		return DefaultDotRadius
	}
	return float64(d.Radius)
}

// GridLines iterates over the guide lines of phase.
func GridLines(s Source, id int, phase layers.Phase, def Style) iter.Seq2[GridLine, *Style] {
	return func(yield func(GridLine, *Style) bool) {
		var st Style
		for i := 0; ; i++ {
			st = def
			line, ok := s.GridLine(id, i, phase, &st)
			if !ok || !yield(line, &st) {
				return
			}
		}
	}
}

// Graphs iterates over the curves of phase, refilling samples each step.
func Graphs(s Source, id int, phase layers.Phase, samples []float32, def Style) iter.Seq2[Mode, *Style] {
	return func(yield func(Mode, *Style) bool) {
		var st Style
		for i := 0; ; i++ {
			st = def
			mode, ok := s.Graph(id, i, phase, samples, &st)
			if !ok || !yield(mode, &st) {
				return
			}
		}
	}
}

// Movings iterates over the pending moving rows, refilling samples each step.
func Movings(s Source, id int, samples []float32, width, height int, def Style) iter.Seq2[Direction, *Style] {
	return func(yield func(Direction, *Style) bool) {
		var st Style
		for i := 0; ; i++ {
			st = def
			dir, ok := s.Moving(id, i, samples, width, height, &st)
			if !ok || !yield(dir, &st) {
				return
			}
		}
	}
}

// Dots iterates over the point markers of phase.
func Dots(s Source, id int, phase layers.Phase, def Style) iter.Seq2[Dot, *Style] {
	return func(yield func(Dot, *Style) bool) {
		var st Style
		for i := 0; ; i++ {
			st = def
			dot, ok := s.Dot(id, i, phase, &st)
			if !ok || !yield(dot, &st) {
				return
			}
		}
	}
}
