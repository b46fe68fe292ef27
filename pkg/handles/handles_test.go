package handles

import (
	"image"
	"math"
	"testing"

	"github.com/fogleman/gg"

	"github.com/matzehuels/linegraph/pkg/coord"
	"github.com/matzehuels/linegraph/pkg/errors"
	"github.com/matzehuels/linegraph/pkg/observability"
)

// 100x100 drawable area, handle extent 99.
var testMapper = coord.New(110, 110, 5, 5)

func band1D(x float64) Handle {
	h := Empty()
	h.Active = true
	h.X, h.DefaultX = x, x
	return h
}

func point(dims int, x, y, z float64) Handle {
	h := Empty()
	h.Active = true
	h.Dimensions = dims
	h.X, h.Y, h.Z = x, y, z
	h.DefaultX, h.DefaultY = 0.5, 0.5
	return h
}

type changes struct {
	n    int
	last Handle
	idx  int
}

func newOverlay(t *testing.T, opts Options, hs ...Handle) (*Overlay, *changes) {
	t.Helper()
	o := New(opts)
	for i, h := range hs {
		if err := o.Set(i, h); err != nil {
			t.Fatalf("Set(%d) error: %v", i, err)
		}
	}
	c := &changes{}
	o.OnChange(func(i int, h Handle) {
		c.n++
		c.idx, c.last = i, h
	})
	return o, c
}

func ordered() Options {
	return Options{Capacity: 4, EnforceOrder: true, MinDistance: 0.025}
}

func TestDragClampsToNeighbour(t *testing.T) {
	o, c := newOverlay(t, ordered(), band1D(0.3), band1D(0.95))
	m := testMapper

	o.Press(m, m.HandleX(0.3), 50, false)
	if o.Grabbed() != 0 {
		t.Fatalf("Grabbed() = %d, want 0", o.Grabbed())
	}
	h, _ := o.Handle(0)
	if h.LeftBound != 0 || math.Abs(h.RightBound-0.925) > 1e-9 {
		t.Errorf("bounds = [%v, %v], want [0, 0.925]", h.LeftBound, h.RightBound)
	}

	o.Motion(m, float64(m.OX+m.SX), 50)
	h, _ = o.Handle(0)
	if math.Abs(h.X-0.925) > 1e-9 {
		t.Errorf("X = %v, want 0.925", h.X)
	}
	if c.n != 1 || c.idx != 0 {
		t.Errorf("notifications = %d for %d, want 1 for 0", c.n, c.idx)
	}
	if h.Y != Unset {
		t.Errorf("Y = %v, want unset for a 1-D handle", h.Y)
	}
}

func TestDragWithinBounds(t *testing.T) {
	o, _ := newOverlay(t, ordered(), band1D(0.3), band1D(0.95))
	m := testMapper

	o.Press(m, m.HandleX(0.3), 50, false)
	o.Motion(m, 5+0.9*99, 50)
	h, _ := o.Handle(0)
	if math.Abs(h.X-0.9) > 1e-9 {
		t.Errorf("X = %v, want 0.9", h.X)
	}
}

func TestHandlesNeverCross(t *testing.T) {
	o, _ := newOverlay(t, ordered(), band1D(0.2), band1D(0.5), band1D(0.8))
	m := testMapper

	o.Press(m, m.HandleX(0.5), 50, false)
	o.Motion(m, 0, 50)
	h, _ := o.Handle(1)
	if math.Abs(h.X-0.225) > 1e-9 {
		t.Errorf("X after drag left = %v, want 0.225", h.X)
	}
	o.Motion(m, 200, 50)
	h, _ = o.Handle(1)
	if math.Abs(h.X-0.775) > 1e-9 {
		t.Errorf("X after drag right = %v, want 0.775", h.X)
	}
}

func TestBoundsResetOnGrab(t *testing.T) {
	o, _ := newOverlay(t, Options{Capacity: 4}, band1D(0.2), band1D(0.5))
	m := testMapper

	o.Press(m, m.HandleX(0.5), 50, false)
	o.Motion(m, 5, 50)
	h, _ := o.Handle(1)
	if h.X != 0 {
		t.Errorf("X = %v, want 0 without order enforcement", h.X)
	}
}

func TestUnsetNeighbourIgnored(t *testing.T) {
	unset := Empty()
	unset.Active = true
	o, _ := newOverlay(t, ordered(), band1D(0.5), unset)
	m := testMapper

	o.Press(m, m.HandleX(0.5), 50, false)
	h, _ := o.Handle(0)
	if h.RightBound != 1 {
		t.Errorf("RightBound = %v, want 1", h.RightBound)
	}
}

func TestSetDiscardsBounds(t *testing.T) {
	o, _ := newOverlay(t, DefaultOptions(), band1D(0.5))
	h, _ := o.Handle(0)
	h.LeftBound, h.RightBound = 0.4, 0.6
	if err := o.Set(0, h); err != nil {
		t.Fatal(err)
	}
	if got, _ := o.Handle(0); got.LeftBound != 0 || got.RightBound != 1 {
		t.Errorf("bounds after Set = [%v, %v], want [0, 1]", got.LeftBound, got.RightBound)
	}

	m := testMapper
	o.Press(m, m.HandleX(0.5), 50, false)
	o.Motion(m, m.HandleX(0.9), 50)
	if got, _ := o.Handle(0); math.Abs(got.X-0.9) > 0.02 {
		t.Errorf("X = %v, want about 0.9 past the discarded bound", got.X)
	}
}

func TestScrollClamps(t *testing.T) {
	o, c := newOverlay(t, DefaultOptions(), point(3, 0.5, 0.5, 0.98))
	m := testMapper

	eff := o.Scroll(m, m.HandleX(0.5), m.HandleY(0.5), true)
	h, _ := o.Handle(0)
	if h.Z != 1 {
		t.Errorf("Z = %v, want 1", h.Z)
	}
	if c.n != 1 {
		t.Errorf("notifications = %d, want 1", c.n)
	}
	if !eff.Refresh || !o.Dirty() {
		t.Error("scroll should refresh and dirty the overlay")
	}

	o.Scroll(m, m.HandleX(0.5), m.HandleY(0.5), false)
	h, _ = o.Handle(0)
	if math.Abs(h.Z-0.95) > 1e-9 {
		t.Errorf("Z = %v, want 0.95", h.Z)
	}
}

func TestScrollIgnoresFlatHandles(t *testing.T) {
	o, c := newOverlay(t, DefaultOptions(), point(2, 0.5, 0.5, 0.5), band1D(0.8))
	m := testMapper

	tests := []struct {
		name   string
		px, py float64
	}{
		{"2-D", m.HandleX(0.5), m.HandleY(0.5)},
		{"1-D", m.HandleX(0.8), 50},
		{"empty", 20, 90},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if eff := o.Scroll(m, tt.px, tt.py, true); eff.Refresh {
				t.Error("Scroll() refresh = true, want false")
			}
		})
	}
	if c.n != 0 {
		t.Errorf("notifications = %d, want 0", c.n)
	}
}

func TestDoubleClickResets(t *testing.T) {
	o, c := newOverlay(t, DefaultOptions(), point(2, 0.7, 0.2, Unset))
	m := testMapper

	o.Press(m, m.HandleX(0.7), m.HandleY(0.2), true)
	h, _ := o.Handle(0)
	if h.X != 0.5 || h.Y != 0.5 {
		t.Errorf("values = (%v, %v), want (0.5, 0.5)", h.X, h.Y)
	}
	if c.n != 1 {
		t.Errorf("notifications = %d, want 1", c.n)
	}

	// the handle moved under a new position; grab it there and drag back
	o.Release()
	o.Press(m, m.HandleX(0.5), m.HandleY(0.5), false)
	o.Motion(m, m.HandleX(0.7), m.HandleY(0.2))
	h, _ = o.Handle(0)
	if math.Abs(h.X-0.7) > 0.01 || math.Abs(h.Y-0.2) > 0.01 {
		t.Errorf("values = (%v, %v), want about (0.7, 0.2)", h.X, h.Y)
	}
}

func TestPointClampsVertically(t *testing.T) {
	o, _ := newOverlay(t, DefaultOptions(), point(2, 0.5, 0.5, Unset))
	m := testMapper

	o.Press(m, m.HandleX(0.5), m.HandleY(0.5), false)
	o.Motion(m, m.HandleX(0.5), -40)
	h, _ := o.Handle(0)
	if h.Y != 0 {
		t.Errorf("Y = %v, want 0", h.Y)
	}
}

func TestMotionWithoutChange(t *testing.T) {
	o, c := newOverlay(t, DefaultOptions(), band1D(0.5))
	m := testMapper

	o.Press(m, m.HandleX(0.5), 50, false)
	o.Motion(m, 30, 50)
	o.Motion(m, 30, 70)
	if c.n != 1 {
		t.Errorf("notifications = %d, want 1", c.n)
	}
	o.Release()
	o.Motion(m, 80, 50)
	if c.n != 1 {
		t.Errorf("notifications after release = %d, want 1", c.n)
	}
}

func TestCrosshairToggle(t *testing.T) {
	o, _ := newOverlay(t, Options{Crosshairs: true})
	m := testMapper

	if o.CrosshairsActive() {
		t.Fatal("crosshairs should start inactive")
	}
	o.Press(m, 50, 50, false)
	if !o.CrosshairsActive() {
		t.Error("press on empty space should activate crosshairs")
	}
	if eff := o.Motion(m, 52, 50); !eff.Refresh {
		t.Error("motion with active crosshairs should refresh")
	}
	o.Press(m, 50, 50, false)
	if o.CrosshairsActive() {
		t.Error("second press should deactivate crosshairs")
	}
}

func TestHoverCursor(t *testing.T) {
	o, _ := newOverlay(t, DefaultOptions(), band1D(0.5))
	m := testMapper
	o.ClearDirty()

	eff := o.Motion(m, m.HandleX(0.5), 50)
	if !eff.CursorChanged || eff.Cursor != Hand {
		t.Errorf("effect = %+v, want hand cursor", eff)
	}
	if o.Hovered() != 0 || !o.Dirty() {
		t.Errorf("Hovered() = %d, Dirty() = %v, want 0, true", o.Hovered(), o.Dirty())
	}

	if eff := o.Motion(m, m.HandleX(0.5)+1, 50); eff.CursorChanged {
		t.Error("moving within the handle should keep the cursor")
	}

	eff = o.Motion(m, 95, 50)
	if !eff.CursorChanged || eff.Cursor != Arrow || o.Hovered() != -1 {
		t.Errorf("effect = %+v, hovered %d, want arrow and -1", eff, o.Hovered())
	}
}

func TestLeave(t *testing.T) {
	o, _ := newOverlay(t, DefaultOptions(), band1D(0.5))
	m := testMapper

	o.Motion(m, m.HandleX(0.5), 50)
	eff := o.Leave()
	x, y := o.Pointer()
	if x != -1 || y != -1 {
		t.Errorf("Pointer() = (%v, %v), want (-1, -1)", x, y)
	}
	if !eff.Refresh || eff.Cursor != Arrow || o.Hovered() != -1 {
		t.Errorf("effect = %+v, hovered %d", eff, o.Hovered())
	}
	if eff := o.Leave(); eff.Refresh {
		t.Error("second Leave() should not refresh")
	}
}

func TestInvalidIndex(t *testing.T) {
	o := New(DefaultOptions())

	if _, err := o.Handle(DefaultCapacity); !errors.Is(err, errors.ErrCodeInvalidHandle) {
		t.Errorf("Handle(%d) error = %v, want %s", DefaultCapacity, err, errors.ErrCodeInvalidHandle)
	}
	if err := o.Set(-1, band1D(0.5)); !errors.Is(err, errors.ErrCodeInvalidHandle) {
		t.Errorf("Set(-1) error = %v, want %s", err, errors.ErrCodeInvalidHandle)
	}
	bad := band1D(0.5)
	bad.Dimensions = 4
	if err := o.Set(0, bad); !errors.Is(err, errors.ErrCodeInvalidHandle) {
		t.Errorf("Set(dims 4) error = %v, want %s", err, errors.ErrCodeInvalidHandle)
	}
	if err := o.SetValue(0, 1.5, Unset, Unset); err == nil {
		t.Error("SetValue(1.5) should fail")
	}
}

func TestDeactivateReleases(t *testing.T) {
	o, _ := newOverlay(t, DefaultOptions(), band1D(0.5))
	m := testMapper

	o.Press(m, m.HandleX(0.5), 50, false)
	if err := o.Activate(0, false); err != nil {
		t.Fatal(err)
	}
	if o.Grabbed() != -1 {
		t.Errorf("Grabbed() = %d, want -1", o.Grabbed())
	}
	if got := o.HitTest(m, m.HandleX(0.5), 50); got != -1 {
		t.Errorf("HitTest() = %d, want -1 for an inactive handle", got)
	}
}

type handleRecorder struct {
	observability.NoopHandleHooks
	grabs, releases, changes int
}

func (r *handleRecorder) OnHandleGrab(int)                               { r.grabs++ }
func (r *handleRecorder) OnHandleRelease(int)                            { r.releases++ }
func (r *handleRecorder) OnHandleChanged(int, float64, float64, float64) { r.changes++ }

func TestHooks(t *testing.T) {
	rec := &handleRecorder{}
	observability.SetHandleHooks(rec)
	t.Cleanup(observability.Reset)

	o, _ := newOverlay(t, DefaultOptions(), band1D(0.5))
	m := testMapper
	o.Press(m, m.HandleX(0.5), 50, false)
	o.Motion(m, 20, 50)
	o.Release()

	if rec.grabs != 1 || rec.releases != 1 || rec.changes != 1 {
		t.Errorf("hooks = %d grabs, %d releases, %d changes, want 1 each", rec.grabs, rec.releases, rec.changes)
	}
}

func TestFrequencyLabel(t *testing.T) {
	tests := []struct {
		x    float64
		want string
	}{
		{0, "20 Hz"},
		{0.5, "632 Hz"},
		{1, "20000 Hz"},
	}
	for _, tt := range tests {
		if got := FrequencyLabel(tt.x); got != tt.want {
			t.Errorf("FrequencyLabel(%v) = %q, want %q", tt.x, got, tt.want)
		}
	}
}

func TestMaskRadius(t *testing.T) {
	if got := MaskRadius(0); got != 37 {
		t.Errorf("MaskRadius(0) = %d, want 37", got)
	}
	if MaskRadius(Unset) != MaskRadius(1) {
		t.Errorf("MaskRadius(unset) = %d, want MaskRadius(1) = %d", MaskRadius(Unset), MaskRadius(1))
	}
	if a, b := MaskRadius(0.2), MaskRadius(0.8); a <= b {
		t.Errorf("MaskRadius(0.2) = %d, MaskRadius(0.8) = %d, want decreasing", a, b)
	}
}

func TestParseStyle(t *testing.T) {
	for _, s := range []Style{Bell, HighPass, LowShelf, HighShelf, LowPass} {
		got, ok := ParseStyle(s.String())
		if !ok || got != s {
			t.Errorf("ParseStyle(%q) = %v, %v", s.String(), got, ok)
		}
	}
	if _, ok := ParseStyle("notch"); ok {
		t.Error("ParseStyle(notch) should fail")
	}
}

func newDrawContext() (*gg.Context, *image.RGBA) {
	img := image.NewRGBA(image.Rect(0, 0, 110, 110))
	dc := gg.NewContextForRGBA(img)
	dc.SetLineCapButt()
	return dc, img
}

func TestDraw(t *testing.T) {
	m := testMapper
	edge := band1D(0)
	o, _ := newOverlay(t, DefaultOptions(), band1D(0.5), point(2, 0.25, 0.25, Unset), edge)

	dc, img := newDrawContext()
	o.Draw(dc, m)

	ix, _ := m.HandleOffset(0.5, 0)
	if img.RGBAAt(m.OX+ix, 60).A == 0 {
		t.Errorf("1-D line at x=%d not drawn", m.OX+ix)
	}
	px, py := m.HandleOffset(0.25, 0.25)
	if img.RGBAAt(m.OX+px+2, m.OY+py+2).A == 0 {
		t.Error("point handle disc not drawn")
	}
	if img.RGBAAt(m.OX, 60).A != 0 {
		t.Error("handle at X=0 should not be drawn")
	}
}

func TestDrawHoverStronger(t *testing.T) {
	m := testMapper
	o, _ := newOverlay(t, DefaultOptions(), point(2, 0.5, 0.5, Unset))
	px, py := m.HandleOffset(0.5, 0.5)

	dc, img := newDrawContext()
	o.Draw(dc, m)
	normal := img.RGBAAt(m.OX+px+2, m.OY+py+2).A

	o.Motion(m, m.HandleX(0.5), m.HandleY(0.5))
	dc, img = newDrawContext()
	o.Draw(dc, m)
	hovered := img.RGBAAt(m.OX+px+2, m.OY+py+2).A

	if hovered <= normal {
		t.Errorf("hovered alpha = %d, normal = %d, want hovered stronger", hovered, normal)
	}
}
