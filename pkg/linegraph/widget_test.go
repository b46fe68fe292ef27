package linegraph

import (
	"image"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/linegraph/pkg/errors"
	"github.com/matzehuels/linegraph/pkg/handles"
	"github.com/matzehuels/linegraph/pkg/layers"
	"github.com/matzehuels/linegraph/pkg/observability"
	"github.com/matzehuels/linegraph/pkg/source"
	"github.com/matzehuels/linegraph/pkg/source/sourcetest"
	"github.com/matzehuels/linegraph/pkg/trace"
)

type fakeHost struct {
	draws   int
	cursors []Cursor
}

func (h *fakeHost) QueueDraw()         { h.draws++ }
func (h *fakeHost) SetCursor(c Cursor) { h.cursors = append(h.cursors, c) }

type renderRecorder struct {
	observability.NoopRenderHooks
	recreated int
	completed []int
}

func (r *renderRecorder) OnSurfacesRecreated(int, int) { r.recreated++ }
func (r *renderRecorder) OnDrawComplete(gen, _ int, _ time.Duration) {
	r.completed = append(r.completed, gen)
}

func newWidget(t *testing.T, cfg Config, src source.Source, opts ...Option) (*Widget, *fakeHost) {
	t.Helper()
	host := &fakeHost{}
	w := New(host, cfg, opts...)
	if src != nil {
		w.SetSource(src)
	}
	if err := w.Allocate(100, 60); err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	return w, host
}

func expose(t *testing.T, w *Widget) *image.RGBA {
	t.Helper()
	dst := w.NewFrame()
	if err := w.Expose(dst); err != nil {
		t.Fatalf("Expose: %v", err)
	}
	return dst
}

func opLines(r *trace.Recorder) []string {
	return strings.Split(strings.TrimSpace(r.String()), "\n")
}

func TestAllocate(t *testing.T) {
	rec := &renderRecorder{}
	observability.SetRenderHooks(rec)
	t.Cleanup(observability.Reset)

	w, _ := newWidget(t, DefaultConfig(), &sourcetest.Fake{})
	if gw, gh := w.Size(); gw != 100 || gh != 60 {
		t.Errorf("Size() = %dx%d, want 100x60", gw, gh)
	}
	if m := w.Mapper(); m.SX != 90 || m.SY != 50 {
		t.Errorf("drawable = %dx%d, want 90x50", m.SX, m.SY)
	}
	w.RequestRefresh(false)
	expose(t, w)
	expose(t, w)
	if w.Generation() != 2 {
		t.Fatalf("Generation() = %d, want 2", w.Generation())
	}

	// the same size twice: both recreate and reset
	for i := range 2 {
		if err := w.Allocate(100, 60); err != nil {
			t.Fatal(err)
		}
		if w.Generation() != 0 {
			t.Errorf("Allocate #%d: Generation() = %d, want 0", i+1, w.Generation())
		}
		if got := w.ctl.Pending(); got != layers.All {
			t.Errorf("Allocate #%d: pending = %v, want %v", i+1, got, layers.All)
		}
		if !w.ctl.Begin().ForceRedraw {
			t.Errorf("Allocate #%d: next draw should be a full redraw", i+1)
		}
		expose(t, w)
	}
	if rec.recreated != 3 {
		t.Errorf("recreations = %d, want 3", rec.recreated)
	}

	if err := w.Allocate(120, 60); err != nil {
		t.Fatal(err)
	}
	if gw, gh := w.Size(); gw != 120 || gh != 60 {
		t.Errorf("Size() = %dx%d, want 120x60", gw, gh)
	}
	if rec.recreated != 4 {
		t.Errorf("recreations = %d, want 4 after a resize", rec.recreated)
	}
}

func TestAllocateInvalid(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
	}{
		{"zero width", 0, 50},
		{"negative height", 50, -1},
		{"padding only", 10, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := New(&fakeHost{}, DefaultConfig())
			err := w.Allocate(tt.width, tt.height)
			if !errors.Is(err, errors.ErrCodeInvalidSize) {
				t.Errorf("Allocate(%d, %d) error = %v, want %s", tt.width, tt.height, err, errors.ErrCodeInvalidSize)
			}
			if gw, gh := w.Size(); gw != 0 || gh != 0 {
				t.Errorf("Size() = %dx%d, want nothing allocated", gw, gh)
			}
		})
	}
}

func TestAllocateSquare(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Square = true
	tests := []struct {
		width, height int
		size          int
		origin        image.Point
	}{
		{120, 80, 80, image.Pt(20, 0)},
		{80, 120, 80, image.Pt(0, 20)},
		{64, 64, 64, image.Point{}},
	}
	for _, tt := range tests {
		w := New(&fakeHost{}, cfg)
		if err := w.Allocate(tt.width, tt.height); err != nil {
			t.Fatal(err)
		}
		gw, gh := w.Size()
		if gw != tt.size || gh != tt.size || w.Origin() != tt.origin {
			t.Errorf("Allocate(%d, %d) = %dx%d at %v, want %dx%d at %v",
				tt.width, tt.height, gw, gh, w.Origin(), tt.size, tt.size, tt.origin)
		}
	}
}

func TestNoSourceIsNoop(t *testing.T) {
	w, host := newWidget(t, DefaultConfig(), nil)

	if w.RequestRefresh(true) {
		t.Error("RequestRefresh() = true without a source")
	}
	if err := w.Expose(w.NewFrame()); err != nil {
		t.Errorf("Expose() error = %v, want nil", err)
	}
	if host.draws != 0 || w.Generation() != 0 {
		t.Errorf("draws = %d, generation = %d, want 0, 0", host.draws, w.Generation())
	}
}

func TestRefreshCycle(t *testing.T) {
	src := &sourcetest.Fake{}
	w, host := newWidget(t, DefaultConfig(), src)

	if !w.RequestRefresh(false) {
		t.Fatal("first refresh after allocation should queue a draw")
	}
	expose(t, w)
	if w.Generation() != 1 {
		t.Errorf("Generation() = %d, want 1", w.Generation())
	}

	if w.RequestRefresh(false) {
		t.Error("RequestRefresh() = true with nothing dirty")
	}
	if host.draws != 1 {
		t.Errorf("draws = %d, want 1", host.draws)
	}

	src.Mask = layers.RealtimeGraph
	src.Redraw = true
	if !w.RequestRefresh(false) {
		t.Error("RequestRefresh() = false with a dirty layer")
	}
	expose(t, w)
	if !slices.Equal(src.Polled, []int{0, 1, 1}) {
		t.Errorf("polled generations = %v, want [0 1 1]", src.Polled)
	}
}

func TestForceRedraw(t *testing.T) {
	src := &sourcetest.Fake{}
	w, host := newWidget(t, DefaultConfig(), src)
	w.RequestRefresh(false)
	expose(t, w)
	expose(t, w)

	w.ForceRedraw()
	if w.Generation() != 0 {
		t.Errorf("Generation() = %d, want 0", w.Generation())
	}
	if last := src.Polled[len(src.Polled)-1]; last != 0 {
		t.Errorf("last poll at generation %d, want 0", last)
	}
	if host.draws != 2 {
		t.Errorf("draws = %d, want 2", host.draws)
	}
}

func TestExposeCompositingOrder(t *testing.T) {
	rec := trace.New()
	src := &sourcetest.Fake{
		Curves: []sourcetest.Curve{{Phase: layers.Realtime, Samples: []float32{0, 0.5}}},
	}
	w, _ := newWidget(t, DefaultConfig(), src, WithTrace(rec))
	w.RequestRefresh(false)
	rec.Reset()
	expose(t, w)

	ops := opLines(rec)
	tail := ops[len(ops)-3:]
	want := []string{"present realtime", "clear handles", "overlay handles"}
	if !slices.Equal(tail, want) {
		t.Errorf("last ops = %q, want %q", tail, want)
	}
	if ops[0] != "copy background->grid 1.00" {
		t.Errorf("first op = %q, want the grid reset", ops[0])
	}

	// nothing dirty: the realtime surface and overlay are presented as is
	rec.Reset()
	expose(t, w)
	want = []string{"present realtime", "overlay handles"}
	if got := opLines(rec); !slices.Equal(got, want) {
		t.Errorf("ops = %q, want %q", got, want)
	}
}

func TestExposeWrongSize(t *testing.T) {
	w, _ := newWidget(t, DefaultConfig(), &sourcetest.Fake{})
	err := w.Expose(image.NewRGBA(image.Rect(0, 0, 10, 10)))
	if !errors.Is(err, errors.ErrCodeInvalidSize) {
		t.Errorf("Expose() error = %v, want %s", err, errors.ErrCodeInvalidSize)
	}
}

func TestDrawHooks(t *testing.T) {
	rec := &renderRecorder{}
	observability.SetRenderHooks(rec)
	t.Cleanup(observability.Reset)

	w, _ := newWidget(t, DefaultConfig(), &sourcetest.Fake{})
	expose(t, w)
	expose(t, w)
	if !slices.Equal(rec.completed, []int{0, 1}) {
		t.Errorf("completed generations = %v, want [0 1]", rec.completed)
	}
}

func TestCrosshair(t *testing.T) {
	rec := trace.New()
	src := &sourcetest.Fake{Label: "1 kHz"}
	w, _ := newWidget(t, DefaultConfig(), src, WithTrace(rec))

	steps := []struct {
		ev      Event
		visible bool
	}{
		{Event{Kind: Motion, X: 40, Y: 30}, false},
		{Event{Kind: Press, X: 40, Y: 30}, true},
		{Event{Kind: Release}, true},
		{Event{Kind: Motion, X: 2, Y: 2}, false},
		{Event{Kind: Motion, X: 60, Y: 20}, true},
		{Event{Kind: Leave}, false},
		{Event{Kind: Motion, X: 60, Y: 20}, true},
		{Event{Kind: Press, X: 60, Y: 20}, false},
	}
	for i, s := range steps {
		if err := w.HandleEvent(s.ev); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if got := w.CrosshairVisible(); got != s.visible {
			t.Errorf("step %d (%v): CrosshairVisible() = %v, want %v", i, s.ev, got, s.visible)
		}
	}

	w.HandleEvent(Event{Kind: Press, X: 60, Y: 20})
	rec.Reset()
	expose(t, w)
	ops := opLines(rec)
	if ops[len(ops)-1] != "overlay crosshair" {
		t.Errorf("last op = %q, want the crosshair", ops[len(ops)-1])
	}
	if !slices.Contains(src.Calls, "label") {
		t.Error("crosshair label should be queried from the source")
	}
}

func TestCrosshairDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Crosshairs = false
	w, _ := newWidget(t, cfg, &sourcetest.Fake{})
	w.HandleEvent(Event{Kind: Press, X: 40, Y: 30})
	if w.CrosshairVisible() {
		t.Error("crosshair visible although disabled")
	}
}

type observingSource struct {
	sourcetest.Fake
	seen []int
}

func (s *observingSource) HandleChanged(i int, _ Handle) { s.seen = append(s.seen, i) }

func TestHandleDrag(t *testing.T) {
	src := &observingSource{}
	cfg := DefaultConfig()
	cfg.EnforceOrder = true
	w, host := newWidget(t, cfg, src)

	for i, x := range []float64{0.3, 0.95} {
		h := handles.Empty()
		h.Active, h.X = true, x
		if err := w.SetHandle(i, h); err != nil {
			t.Fatal(err)
		}
	}
	var changed []Handle
	w.OnHandleChanged(func(_ int, h Handle) { changed = append(changed, h) })

	m := w.Mapper()
	x := m.HandleX(0.3)
	events := []Event{
		{Kind: Motion, X: x, Y: 30},
		{Kind: Press, X: x, Y: 30},
		{Kind: Motion, X: 99, Y: 30},
		{Kind: Release},
	}
	for _, ev := range events {
		if err := w.HandleEvent(ev); err != nil {
			t.Fatal(err)
		}
	}

	if len(changed) != 1 || len(src.seen) != 1 {
		t.Fatalf("notifications = %d, source saw %d, want 1 each", len(changed), len(src.seen))
	}
	if got := changed[0].X; got > 0.925+1e-9 {
		t.Errorf("X = %v, want at most 0.925", got)
	}
	if len(host.cursors) == 0 || host.cursors[0] != CursorHand {
		t.Errorf("cursors = %v, want hand first", host.cursors)
	}
}

func TestHoverRedrawsOverlayOnly(t *testing.T) {
	rec := trace.New()
	w, host := newWidget(t, DefaultConfig(), &sourcetest.Fake{}, WithTrace(rec))
	h := handles.Empty()
	h.Active, h.X = true, 0.5
	if err := w.SetHandle(0, h); err != nil {
		t.Fatal(err)
	}
	expose(t, w)

	x := w.Mapper().HandleX(0.5)
	want := []string{"present realtime", "clear handles", "overlay handles"}
	for _, ev := range []Event{{Kind: Motion, X: x, Y: 30}, {Kind: Press, X: x, Y: 30}} {
		draws := host.draws
		if err := w.HandleEvent(ev); err != nil {
			t.Fatal(err)
		}
		if host.draws != draws+1 {
			t.Errorf("%s: draws = %d, want %d", ev.Kind, host.draws, draws+1)
		}
		rec.Reset()
		expose(t, w)
		if got := opLines(rec); !slices.Equal(got, want) {
			t.Errorf("%s: ops = %q, want %q", ev.Kind, got, want)
		}
	}
}

func TestInvalidHandleIndex(t *testing.T) {
	w, _ := newWidget(t, DefaultConfig(), &sourcetest.Fake{})
	if _, err := w.Handle(handles.DefaultCapacity); !errors.Is(err, errors.ErrCodeInvalidHandle) {
		t.Errorf("Handle() error = %v, want %s", err, errors.ErrCodeInvalidHandle)
	}
	if err := w.SetHandle(-1, handles.Empty()); !errors.Is(err, errors.ErrCodeInvalidHandle) {
		t.Errorf("SetHandle() error = %v, want %s", err, errors.ErrCodeInvalidHandle)
	}
}

func TestEventsBeforeAllocation(t *testing.T) {
	host := &fakeHost{}
	w := New(host, DefaultConfig())
	w.SetSource(&sourcetest.Fake{})
	for _, ev := range []Event{{Kind: Motion, X: 5, Y: 5}, {Kind: Press}, {Kind: Leave}} {
		if err := w.HandleEvent(ev); err != nil {
			t.Errorf("HandleEvent(%v) error = %v", ev, err)
		}
	}
	if host.draws != 0 {
		t.Errorf("draws = %d, want 0", host.draws)
	}
	if err := w.HandleEvent(Event{Kind: Resize, Width: 50, Height: 40}); err != nil {
		t.Fatal(err)
	}
	if gw, gh := w.Size(); gw != 50 || gh != 40 {
		t.Errorf("Size() = %dx%d, want 50x40", gw, gh)
	}
}

func TestDestroy(t *testing.T) {
	w, _ := newWidget(t, DefaultConfig(), &sourcetest.Fake{})
	w.Destroy()
	w.Destroy()
	if w.RequestRefresh(true) {
		t.Error("RequestRefresh() after Destroy should be a no-op")
	}
	if err := w.Allocate(100, 60); err != nil {
		t.Fatal(err)
	}
	if w.Generation() != 0 {
		t.Errorf("Generation() = %d, want 0", w.Generation())
	}
}

func TestParseEventKind(t *testing.T) {
	for k := Resize; k <= Leave; k++ {
		got, ok := ParseEventKind(k.String())
		if !ok || got != k {
			t.Errorf("ParseEventKind(%q) = %v, %v", k.String(), got, ok)
		}
	}
	if _, ok := ParseEventKind("drag"); ok {
		t.Error("ParseEventKind(drag) should fail")
	}
}
