// Package handles implements the draggable control points drawn over a
// line graph.
//
// An [Overlay] owns a fixed pool of [Handle] slots. Hosts feed pointer
// events into the overlay; each event returns an [Effect] telling the host
// whether to refresh and which cursor to show. Value changes are reported
// through the callback registered with [Overlay.OnChange].
//
// One-dimensional handles are vertical bands addressed by X only. Handles
// with two or three dimensions are points; the third dimension is changed
// with the scroll wheel and controls the size of the drawn marker.
//
// Handle values live in a top-down [0, 1] space, see [coord.Mapper.Inverse].
// The value -1 marks an unset coordinate.
package handles

import (
	"math"

	"github.com/matzehuels/linegraph/pkg/coord"
	"github.com/matzehuels/linegraph/pkg/errors"
	"github.com/matzehuels/linegraph/pkg/observability"
)

const (
	// Width is the hit width of a handle in pixels.
	Width = 20

	DefaultCapacity    = 32
	DefaultMinDistance = 0.025

	// ScrollStep is the z change of one scroll notch.
	ScrollStep = 0.05

	// Unset marks a coordinate without a value.
	Unset = -1.0
)

// Style selects the shading of a one-dimensional handle.
type Style int

const (
	Bell Style = iota
	HighPass
	LowShelf
	HighShelf
	LowPass
)

var styleNames = [...]string{"bell", "highpass", "lowshelf", "highshelf", "lowpass"}

func (s Style) String() string {
	if s < 0 || int(s) >= len(styleNames) {
		return "bell"
	}
	return styleNames[s]
}

// ParseStyle returns the style named s. Unknown names map to Bell.
func ParseStyle(s string) (Style, bool) {
	for i, n := range styleNames {
		if n == s {
			return Style(i), true
		}
	}
	return Bell, false
}

// Cursor is the pointer glyph requested from the host.
type Cursor int

const (
	Arrow Cursor = iota
	Hand
)

func (c Cursor) String() string {
	if c == Hand {
		return "hand"
	}
	return "arrow"
}

// Handle is one slot of the pool. Overlay methods return copies.
type Handle struct {
	Active     bool
	Dimensions int // 1, 2 or 3
	X, Y, Z    float64
	DefaultX   float64
	DefaultY   float64
	// LeftBound and RightBound are the drag range of X. They are computed
	// when the handle is grabbed; values passed to Set are discarded.
	LeftBound  float64
	RightBound float64
	Label      string
	Style      Style
}

// Empty returns an inactive one-dimensional handle with unset values.
func Empty() Handle {
	return Handle{
		Dimensions: 1,
		X:          Unset,
		Y:          Unset,
		Z:          Unset,
		DefaultX:   Unset,
		DefaultY:   Unset,
		LeftBound:  0,
		RightBound: 1,
	}
}

// Point reports whether the handle is drawn and hit as a point.
func (h Handle) Point() bool {
	return h.Dimensions >= 2
}

// Validate checks dimensions, values and label.
func (h Handle) Validate() error {
	if h.Dimensions < 1 || h.Dimensions > 3 {
		return errors.New(errors.ErrCodeInvalidHandle, "dimensions must be 1, 2 or 3, got %d", h.Dimensions)
	}
	for _, v := range []struct {
		name string
		val  float64
	}{
		{"x", h.X}, {"y", h.Y}, {"z", h.Z},
		{"default x", h.DefaultX}, {"default y", h.DefaultY},
	} {
		if err := errors.ValidateUnit(v.name, v.val); err != nil {
			return err
		}
	}
	return errors.ValidateLabel(h.Label)
}

// Options configures an overlay.
type Options struct {
	Capacity     int
	EnforceOrder bool    // keep 1-D handles ordered by X while dragging
	MinDistance  float64 // separation kept between ordered handles
	Crosshairs   bool    // a press on empty space toggles the pointer crosshair
}

// DefaultOptions returns the overlay defaults.
func DefaultOptions() Options {
	return Options{
		Capacity:    DefaultCapacity,
		MinDistance: DefaultMinDistance,
	}
}

// Effect tells the host how to react to an event.
type Effect struct {
	Refresh       bool
	Cursor        Cursor
	CursorChanged bool
}

// Overlay is the handle pool plus pointer interaction state. It is not
// safe for concurrent use.
type Overlay struct {
	opts    Options
	handles []Handle

	hovered    int
	grabbed    int
	crosshairs bool
	mouseX     float64
	mouseY     float64
	dirty      bool

	onChange func(int, Handle)
}

// New returns an overlay with opts.Capacity inactive handles.
func New(opts Options) *Overlay {
	if opts.Capacity <= 0 {
		opts.Capacity = DefaultCapacity
	}
	if opts.MinDistance < 0 {
		opts.MinDistance = 0
	}
	o := &Overlay{
		opts:    opts,
		handles: make([]Handle, opts.Capacity),
		hovered: -1,
		grabbed: -1,
		mouseX:  -1,
		mouseY:  -1,
		dirty:   true,
	}
	for i := range o.handles {
		o.handles[i] = Empty()
	}
	return o
}

// Len returns the pool capacity.
func (o *Overlay) Len() int { return len(o.handles) }

func (o *Overlay) Options() Options { return o.opts }

// Hovered returns the handle under the pointer, or -1.
func (o *Overlay) Hovered() int { return o.hovered }

// Grabbed returns the handle being dragged, or -1.
func (o *Overlay) Grabbed() int { return o.grabbed }

// Dirty reports whether the handles need to be redrawn.
func (o *Overlay) Dirty() bool { return o.dirty }

func (o *Overlay) MarkDirty()  { o.dirty = true }
func (o *Overlay) ClearDirty() { o.dirty = false }

// CrosshairsActive reports whether the pointer crosshair is toggled on.
func (o *Overlay) CrosshairsActive() bool { return o.crosshairs }

// Pointer returns the last pointer position, -1 after the pointer left.
func (o *Overlay) Pointer() (float64, float64) {
	return o.mouseX, o.mouseY
}

// OnChange registers fn to receive every value change. fn receives the
// index and a copy of the handle.
func (o *Overlay) OnChange(fn func(int, Handle)) {
	o.onChange = fn
}

// Handle returns a copy of handle i.
func (o *Overlay) Handle(i int) (Handle, error) {
	if err := errors.ValidateHandleIndex(i, len(o.handles)); err != nil {
		return Handle{}, err
	}
	return o.handles[i], nil
}

// Handles returns a copy of the pool.
func (o *Overlay) Handles() []Handle {
	out := make([]Handle, len(o.handles))
	copy(out, o.handles)
	return out
}

// Set replaces handle i. The bounds are reset to the full range until the
// handle is next grabbed.
func (o *Overlay) Set(i int, h Handle) error {
	if err := errors.ValidateHandleIndex(i, len(o.handles)); err != nil {
		return err
	}
	if err := h.Validate(); err != nil {
		return err
	}
	h.LeftBound, h.RightBound = 0, 1
	if !h.Active && o.grabbed == i {
		o.grabbed = -1
	}
	if !h.Active && o.hovered == i {
		o.hovered = -1
	}
	o.handles[i] = h
	o.dirty = true
	return nil
}

// SetValue moves handle i without notifying the change callback.
func (o *Overlay) SetValue(i int, x, y, z float64) error {
	h, err := o.Handle(i)
	if err != nil {
		return err
	}
	h.X, h.Y, h.Z = x, y, z
	return o.Set(i, h)
}

// Activate enables or disables handle i.
func (o *Overlay) Activate(i int, active bool) error {
	h, err := o.Handle(i)
	if err != nil {
		return err
	}
	h.Active = active
	return o.Set(i, h)
}

// HitTest returns the first active handle under the pointer, or -1.
func (o *Overlay) HitTest(m coord.Mapper, px, py float64) int {
	hx, _ := m.HandleExtent()
	ox := float64(m.OX)
	for i, h := range o.handles {
		if !h.Active {
			continue
		}
		if !h.Point() {
			x := h.X * float64(hx)
			if px <= ox+math.Round(x+Width/2.0)+0.5 && px >= ox+math.Round(x-Width/2.0)-0.5 {
				return i
			}
			continue
		}
		dx := px - m.HandleX(h.X)
		dy := py - m.HandleY(h.Y)
		if math.Sqrt(dx*dx+dy*dy) <= Width/2.0 {
			return i
		}
	}
	return -1
}

// Motion records the pointer position, drags the grabbed handle and
// updates hover state.
func (o *Overlay) Motion(m coord.Mapper, px, py float64) Effect {
	o.mouseX, o.mouseY = px, py
	var eff Effect

	if o.grabbed >= 0 {
		h := &o.handles[o.grabbed]
		nx, ny := m.Inverse(px, py)
		nx = clamp(nx, h.LeftBound, h.RightBound)
		if h.Point() {
			ny = clamp(ny, 0, 1)
		} else {
			ny = h.Y
		}
		if nx != h.X || ny != h.Y {
			h.X, h.Y = nx, ny
			o.dirty = true
			o.emit(o.grabbed)
		}
		eff.Refresh = true
	}

	hovered := o.HitTest(m, px, py)
	if hovered != o.hovered {
		if o.grabbed >= 0 || hovered >= 0 {
			eff.Cursor = Hand
			o.hovered = hovered
		} else {
			eff.Cursor = Arrow
			o.hovered = -1
		}
		eff.CursorChanged = true
		o.dirty = true
		eff.Refresh = true
	}

	if o.opts.Crosshairs && o.crosshairs {
		eff.Refresh = true
	}
	return eff
}

// Press grabs the handle under the pointer. A double press also resets it
// to its defaults. A press on empty space toggles the crosshair.
func (o *Overlay) Press(m coord.Mapper, px, py float64, double bool) Effect {
	o.mouseX, o.mouseY = px, py
	i := o.HitTest(m, px, py)
	if i < 0 {
		o.crosshairs = !o.crosshairs
		return Effect{Refresh: true}
	}

	o.grabbed = i
	o.dirty = true
	h := &o.handles[i]
	h.LeftBound, h.RightBound = 0, 1
	if !h.Point() && o.opts.EnforceOrder {
		if l, ok := o.neighbour(i, -1); ok {
			h.LeftBound = l + o.opts.MinDistance
		}
		if r, ok := o.neighbour(i, 1); ok {
			h.RightBound = r - o.opts.MinDistance
		}
	}
	observability.Handle().OnHandleGrab(i)

	if double {
		h.X = h.DefaultX
		if h.Point() {
			h.Y = h.DefaultY
		}
		o.emit(i)
	}
	return Effect{Refresh: true}
}

// neighbour returns X of the nearest active 1-D handle with a set value
// before (step -1) or after (step 1) index i.
func (o *Overlay) neighbour(i, step int) (float64, bool) {
	for j := i + step; j >= 0 && j < len(o.handles); j += step {
		n := o.handles[j]
		if n.Active && !n.Point() && n.X >= 0 {
			return n.X, true
		}
	}
	return 0, false
}

// Release ends a drag.
func (o *Overlay) Release() Effect {
	if o.grabbed >= 0 {
		observability.Handle().OnHandleRelease(o.grabbed)
		o.dirty = true
	}
	o.grabbed = -1
	return Effect{Refresh: true}
}

// Scroll changes Z of a three-dimensional handle under the pointer.
func (o *Overlay) Scroll(m coord.Mapper, px, py float64, up bool) Effect {
	o.mouseX, o.mouseY = px, py
	i := o.HitTest(m, px, py)
	if i < 0 || o.handles[i].Dimensions != 3 {
		return Effect{}
	}
	h := &o.handles[i]
	z := max(h.Z, 0)
	if up {
		z += ScrollStep
	} else {
		z -= ScrollStep
	}
	h.Z = clamp(z, 0, 1)
	o.dirty = true
	o.emit(i)
	return Effect{Refresh: true}
}

// Leave forgets the pointer position.
func (o *Overlay) Leave() Effect {
	var eff Effect
	if o.mouseX >= 0 || o.mouseY >= 0 {
		eff.Refresh = true
	}
	o.mouseX, o.mouseY = -1, -1
	if o.hovered >= 0 && o.grabbed < 0 {
		o.hovered = -1
		o.dirty = true
		eff.Cursor, eff.CursorChanged = Arrow, true
		eff.Refresh = true
	}
	return eff
}

func (o *Overlay) emit(i int) {
	h := o.handles[i]
	observability.Handle().OnHandleChanged(i, h.X, h.Y, h.Z)
	if o.onChange != nil {
		o.onChange(i, h)
	}
}

func clamp(v, lo, hi float64) float64 {
	switch {
	case v < lo:
		return lo
	case v > hi:
		return hi
	}
	return v
}
