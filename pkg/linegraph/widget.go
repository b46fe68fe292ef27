// Package linegraph ties the layer cache, the render pipeline and the
// handle overlay into one widget instance.
//
// A [Widget] is driven by its host through three calls:
//
//   - [Widget.Allocate] (or a Resize event) sizes the widget and recreates
//     every surface.
//   - [Widget.RequestRefresh] polls the data source. When it wants a draw
//     the host is asked to schedule one through [Host.QueueDraw].
//   - [Widget.Expose] draws the scheduled frame into the host's image.
//
// Pointer input arrives through [Widget.HandleEvent]. The widget is
// single-threaded; hosts that deliver events from several goroutines must
// serialize all calls.
package linegraph

import (
	"image"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fogleman/gg"
	"golang.org/x/image/draw"

	"github.com/matzehuels/linegraph/pkg/coord"
	"github.com/matzehuels/linegraph/pkg/crosshair"
	"github.com/matzehuels/linegraph/pkg/errors"
	"github.com/matzehuels/linegraph/pkg/handles"
	"github.com/matzehuels/linegraph/pkg/layers"
	"github.com/matzehuels/linegraph/pkg/observability"
	"github.com/matzehuels/linegraph/pkg/render"
	"github.com/matzehuels/linegraph/pkg/source"
	"github.com/matzehuels/linegraph/pkg/surface"
	"github.com/matzehuels/linegraph/pkg/trace"
)

type (
	Cursor = handles.Cursor
	Handle = handles.Handle
)

const (
	CursorArrow = handles.Arrow
	CursorHand  = handles.Hand
)

// Host is the window system side of a widget.
type Host interface {
	QueueDraw()
	SetCursor(Cursor)
}

// HandleObserver is implemented by sources that follow handle changes.
// The widget forwards every change to such a source.
type HandleObserver interface {
	HandleChanged(index int, h Handle)
}

// Widget is one line graph instance.
type Widget struct {
	cfg    Config
	host   Host
	src    source.Source
	logger *log.Logger
	trace  *trace.Recorder

	set     surface.Set
	mapper  coord.Mapper
	origin  image.Point
	ctl     *layers.Controller
	pipe    *render.Pipeline
	overlay *handles.Overlay

	onChange func(int, Handle)
}

// New returns an unallocated widget. host must not be nil.
func New(host Host, cfg Config, opts ...Option) *Widget {
	w := &Widget{
		cfg:  cfg,
		host: host,
		ctl:  layers.NewController(),
		pipe: render.NewPipeline(),
	}
	for _, opt := range opts {
		opt(w)
	}
	if cfg.Fade > 0 {
		w.pipe.Fade = cfg.Fade
	}
	if cfg.Theme != (render.Theme{}) {
		w.pipe.Theme = cfg.Theme
	}
	w.pipe.SourceID = cfg.SourceID
	w.pipe.Logger = w.logger
	w.pipe.Trace = w.trace

	w.overlay = handles.New(cfg.handleOptions())
	w.overlay.OnChange(w.handleChanged)
	return w
}

// SetSource attaches the data source. A nil source turns refreshes and
// exposes into no-ops.
func (w *Widget) SetSource(src source.Source) {
	w.src = src
	if src != nil && w.set.Ready() {
		w.ctl.Recreated()
	}
}

// Source returns the attached data source.
func (w *Widget) Source() source.Source { return w.src }

// OnHandleChanged registers fn to receive every handle change caused by
// pointer input.
func (w *Widget) OnHandleChanged(fn func(index int, h Handle)) {
	w.onChange = fn
}

// Allocate sizes the widget to width x height pixels and recreates every
// surface. With Config.Square the larger dimension is reduced to the
// smaller one and the frame is centred; see [Widget.Origin]. Allocating
// the current size again still recreates the surfaces and resets the
// generation.
func (w *Widget) Allocate(width, height int) error {
	origin := image.Point{}
	if w.cfg.Square {
		if width > height {
			origin.X = (width - height) / 2
			width = height
		}
		if height > width {
			origin.Y = (height - width) / 2
			height = width
		}
	}
	if err := errors.ValidateSize(width, height, w.cfg.PadX, w.cfg.PadY); err != nil {
		return err
	}
	m := coord.New(width, height, w.cfg.PadX, w.cfg.PadY)
	if err := w.set.Recreate(width, height, m.Rect()); err != nil {
		return err
	}
	w.origin = origin
	w.mapper = m
	w.ctl.Recreated()
	w.pipe.PaintBackground(&w.set, m)
	w.overlay.MarkDirty()

	w.log().Debug("surfaces recreated", "width", width, "height", height, "drawable", m.Rect())
	observability.Render().OnSurfacesRecreated(width, height)
	return nil
}

// Size returns the allocated size after the square adjustment.
func (w *Widget) Size() (int, int) { return w.set.Size() }

// Origin returns where the frame sits inside the size passed to Allocate.
func (w *Widget) Origin() image.Point { return w.origin }

// Mapper returns the coordinate mapping of the current allocation.
func (w *Widget) Mapper() coord.Mapper { return w.mapper }

// Generation returns the number of completed exposes since the last reset.
func (w *Widget) Generation() int { return w.ctl.Generation() }

// NewFrame returns a transparent image of the allocated size for Expose.
func (w *Widget) NewFrame() *image.RGBA {
	width, height := w.set.Size()
	return image.NewRGBA(image.Rect(0, 0, width, height))
}

// RequestRefresh polls the source and schedules a draw with the host when
// the source or force asks for one. It reports whether a draw was queued.
func (w *Widget) RequestRefresh(force bool) bool {
	if w.src == nil || !w.set.Ready() {
		return false
	}
	gen := w.ctl.Generation()
	queued := w.ctl.Request(func(g int) (layers.Mask, bool) {
		return w.src.Layers(w.cfg.SourceID, g)
	}, force)
	observability.Render().OnRefreshRequest(gen, uint16(w.ctl.Pending()), queued)
	if queued {
		w.host.QueueDraw()
	}
	return queued
}

// ForceRedraw rebuilds every layer and the overlay on the next draw. The
// source is polled again at generation 0.
func (w *Widget) ForceRedraw() {
	w.ctl.ForceRedraw()
	w.RequestRefresh(true)
}

// Expose draws the scheduled frame into dst, which must cover exactly the
// allocated size at origin (0, 0).
func (w *Widget) Expose(dst *image.RGBA) error {
	if w.src == nil || !w.set.Ready() {
		return nil
	}
	width, height := w.set.Size()
	if dst == nil || dst.Rect != image.Rect(0, 0, width, height) {
		return errors.New(errors.ErrCodeInvalidSize, "frame must be %dx%d", width, height)
	}

	start := time.Now()
	plan := w.ctl.Begin()
	observability.Render().OnDrawStart(plan.Generation, uint16(plan.Mask))
	w.log().Debug("expose", "generation", plan.Generation, "mask", plan.Mask,
		"force_cache", plan.ForceCache, "force_redraw", plan.ForceRedraw)

	res := w.pipe.Run(render.Frame{
		Surfaces: &w.set,
		Mapper:   w.mapper,
		Source:   w.src,
		Plan:     plan,
	})
	w.pipe.Present(dst, &w.set)
	w.drawHandles(dst, plan.ForceRedraw)
	w.drawCrosshair(dst)

	w.ctl.Finish()
	observability.Render().OnDrawComplete(plan.Generation, res.Phases, time.Since(start))
	return nil
}

func (w *Widget) drawHandles(dst *image.RGBA, force bool) {
	hs := w.set.Get(surface.Handles)
	if w.overlay.Dirty() || force {
		hs.Clear()
		w.trace.Clear(surface.Handles.String())
		w.overlay.Draw(hs.Context(), w.mapper)
		w.overlay.ClearDirty()
		w.log().Debug("handles redrawn", "hovered", w.overlay.Hovered(), "grabbed", w.overlay.Grabbed())
	}
	draw.Draw(dst, dst.Rect, hs.Image(), image.Point{}, draw.Over)
	w.trace.Overlay(surface.Handles.String())
}

func (w *Widget) drawCrosshair(dst *image.RGBA) {
	if !w.CrosshairVisible() {
		return
	}
	px, py := w.overlay.Pointer()
	x, y := w.mapper.Relative(px, py)
	label := w.src.CrosshairLabel(x, y, w.mapper.SX, w.mapper.SY)

	dc := gg.NewContextForRGBA(dst)
	dc.SetLineCapButt()
	dc.SetFontFace(w.set.Face())
	crosshair.Draw(dc, w.mapper, crosshair.Pointer(x, y, label))
	w.trace.Overlay("crosshair")
}

// CrosshairVisible reports whether the next expose draws the pointer
// crosshair.
func (w *Widget) CrosshairVisible() bool {
	if !w.cfg.Crosshairs || !w.overlay.CrosshairsActive() || w.overlay.Grabbed() >= 0 {
		return false
	}
	px, py := w.overlay.Pointer()
	return w.mapper.Contains(px, py)
}

// HandleEvent applies a host event. Pointer events before the first
// allocation are ignored.
func (w *Widget) HandleEvent(ev Event) error {
	if ev.Kind == Resize {
		return w.Allocate(ev.Width, ev.Height)
	}
	if !w.set.Ready() {
		return nil
	}
	w.log().Debug("event", "event", ev)

	var eff handles.Effect
	switch ev.Kind {
	case Motion:
		eff = w.overlay.Motion(w.mapper, ev.X, ev.Y)
	case Press:
		eff = w.overlay.Press(w.mapper, ev.X, ev.Y, ev.Double)
	case Release:
		eff = w.overlay.Release()
	case Scroll:
		eff = w.overlay.Scroll(w.mapper, ev.X, ev.Y, ev.Up)
	case Leave:
		eff = w.overlay.Leave()
	case Enter:
	default:
		return errors.New(errors.ErrCodeInvalidEvent, "unknown event kind %d", int(ev.Kind))
	}
	w.apply(eff)
	return nil
}

func (w *Widget) apply(eff handles.Effect) {
	if eff.CursorChanged {
		w.host.SetCursor(eff.Cursor)
	}
	if eff.Refresh {
		w.RequestRefresh(true)
	}
}

func (w *Widget) handleChanged(i int, h Handle) {
	if obs, ok := w.src.(HandleObserver); ok {
		obs.HandleChanged(i, h)
	}
	if w.onChange != nil {
		w.onChange(i, h)
	}
}

// Handle returns a copy of handle i.
func (w *Widget) Handle(i int) (Handle, error) {
	return w.overlay.Handle(i)
}

// Handles returns a copy of the handle pool.
func (w *Widget) Handles() []Handle {
	return w.overlay.Handles()
}

// SetHandle replaces handle i and schedules a redraw. The change callback
// is not invoked.
func (w *Widget) SetHandle(i int, h Handle) error {
	if err := w.overlay.Set(i, h); err != nil {
		return err
	}
	w.RequestRefresh(true)
	return nil
}

// ActivateHandle enables or disables handle i.
func (w *Widget) ActivateHandle(i int, active bool) error {
	if err := w.overlay.Activate(i, active); err != nil {
		return err
	}
	w.RequestRefresh(true)
	return nil
}

// Destroy releases all surfaces. The widget can be allocated again.
func (w *Widget) Destroy() {
	w.set.Destroy()
	w.mapper = coord.Mapper{}
}

var discard = log.New(io.Discard)

func (w *Widget) log() *log.Logger {
	if w.logger == nil {
		return discard
	}
	return w.logger
}
