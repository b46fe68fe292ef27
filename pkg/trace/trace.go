// Package trace records the compositing operations of a draw.
//
// The widget reports every surface operation to an optional [Recorder]:
// clears, copies between surfaces, layer drawing, moving-buffer shifts and
// the final presentation. Tests use the recorded order to check that layers
// are composited correctly; the CLI renders it as a Graphviz diagram.
//
// A nil *Recorder is valid and records nothing.
package trace

import (
	"fmt"
	"strings"
)

// Kind is the type of a recorded operation.
type Kind string

const (
	KindClear   Kind = "clear"   // Dst made transparent (or repainted from scratch)
	KindCopy    Kind = "copy"    // Src composited onto Dst with Alpha
	KindDraw    Kind = "draw"    // Count elements of Layer drawn onto Dst
	KindShift   Kind = "shift"   // Src moved by DX, DY into Dst
	KindPresent Kind = "present" // Src copied to the output
	KindOverlay Kind = "overlay" // Dst drawn directly on the output (handles, crosshair)
)

// Op is one recorded operation. Fields not used by a kind stay zero.
type Op struct {
	Kind   Kind
	Src    string
	Dst    string
	Alpha  float64
	Phase  string
	Layer  string
	Count  int
	DX, DY int
}

func (o Op) String() string {
	switch o.Kind {
	case KindClear:
		return fmt.Sprintf("clear %s", o.Dst)
	case KindCopy:
		return fmt.Sprintf("copy %s->%s %.2f", o.Src, o.Dst, o.Alpha)
	case KindDraw:
		return fmt.Sprintf("draw %s %s->%s x%d", o.Phase, o.Layer, o.Dst, o.Count)
	case KindShift:
		return fmt.Sprintf("shift %s->%s %+d,%+d", o.Src, o.Dst, o.DX, o.DY)
	case KindPresent:
		return fmt.Sprintf("present %s", o.Src)
	case KindOverlay:
		return fmt.Sprintf("overlay %s", o.Dst)
	}
	return string(o.Kind)
}

// Recorder collects operations in order.
type Recorder struct {
	ops []Op
}

// New returns an empty recorder.
func New() *Recorder {
	return &Recorder{}
}

// Record appends op.
func (r *Recorder) Record(op Op) {
	if r == nil {
		return
	}
	r.ops = append(r.ops, op)
}

func (r *Recorder) Clear(dst string) {
	r.Record(Op{Kind: KindClear, Dst: dst})
}

func (r *Recorder) Copy(src, dst string, alpha float64) {
	r.Record(Op{Kind: KindCopy, Src: src, Dst: dst, Alpha: alpha})
}

func (r *Recorder) Draw(dst, phase, layer string, count int) {
	r.Record(Op{Kind: KindDraw, Dst: dst, Phase: phase, Layer: layer, Count: count})
}

func (r *Recorder) Shift(src, dst string, dx, dy int) {
	r.Record(Op{Kind: KindShift, Src: src, Dst: dst, DX: dx, DY: dy})
}

func (r *Recorder) Present(src string) {
	r.Record(Op{Kind: KindPresent, Src: src})
}

func (r *Recorder) Overlay(dst string) {
	r.Record(Op{Kind: KindOverlay, Dst: dst})
}

// Ops returns a copy of the recorded operations.
func (r *Recorder) Ops() []Op {
	if r == nil {
		return nil
	}
	out := make([]Op, len(r.ops))
	copy(out, r.ops)
	return out
}

// Reset discards all recorded operations.
func (r *Recorder) Reset() {
	if r == nil {
		return
	}
	r.ops = r.ops[:0]
}

// Len returns the number of recorded operations.
func (r *Recorder) Len() int {
	if r == nil {
		return 0
	}
	return len(r.ops)
}

// String returns one operation per line.
func (r *Recorder) String() string {
	var b strings.Builder
	for _, op := range r.Ops() {
		b.WriteString(op.String())
		b.WriteByte('\n')
	}
	return b.String()
}
