package host

import (
	"image"
	"io"
	"iter"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/linegraph/pkg/errors"
	"github.com/matzehuels/linegraph/pkg/linegraph"
	"github.com/matzehuels/linegraph/pkg/source"
)

// Ticker advances an animated source by one frame.
type Ticker interface {
	Tick()
}

// Player replays scripts against a widget. The widget must have been
// created with Host as its host.
type Player struct {
	Widget *linegraph.Widget
	Host   *Recorder
	Ticker Ticker // optional
	Logger *log.Logger

	err error
}

// NewPlayer creates a recorder, a widget drawing src and a player for both.
// src is ticked once per frame when it implements Ticker.
func NewPlayer(cfg linegraph.Config, src source.Source, opts ...linegraph.Option) *Player {
	rec := &Recorder{}
	w := linegraph.New(rec, cfg, opts...)
	w.SetSource(src)
	p := &Player{Widget: w, Host: rec}
	if t, ok := src.(Ticker); ok {
		p.Ticker = t
	}
	return p
}

// Err returns the error that stopped the last Play, if any.
func (p *Player) Err() error { return p.err }

// Play allocates the widget to the script size and yields one frame per
// script step. Each step applies the step's events, ticks the source,
// requests a refresh and exposes a new frame when a draw was queued. Steps
// without a draw yield the previous frame again. Yielded frames are never
// written to afterwards.
//
// Play stops at the first error; see Err.
func (p *Player) Play(s *Script) iter.Seq2[int, *image.RGBA] {
	return func(yield func(int, *image.RGBA) bool) {
		p.err = nil
		if err := p.Widget.Allocate(s.Width, s.Height); err != nil {
			p.err = err
			return
		}
		var last *image.RGBA
		for i := range s.Frames {
			if err := p.step(s, i); err != nil {
				p.err = err
				return
			}
			if p.Host.TakeDraw() {
				frame := p.Widget.NewFrame()
				if err := p.Widget.Expose(frame); err != nil {
					p.err = errors.Wrap(errors.ErrCodeInternal, err, "frame %d", i)
					return
				}
				last = frame
			}
			if w, h := p.Widget.Size(); last == nil || last.Rect != image.Rect(0, 0, w, h) {
				last = p.Widget.NewFrame()
			}
			if !yield(i, last) {
				return
			}
		}
	}
}

// Last plays s to the end and returns its final frame.
func (p *Player) Last(s *Script) (*image.RGBA, error) {
	var last *image.RGBA
	for _, frame := range p.Play(s) {
		last = frame
	}
	return last, p.err
}

func (p *Player) step(s *Script, i int) error {
	for _, e := range s.At(i) {
		p.log().Debug("event", "frame", i, "kind", e.Kind, "x", e.X, "y", e.Y)
		if e.Force() {
			p.Widget.ForceRedraw()
			continue
		}
		ev, err := e.Widget()
		if err != nil {
			return err
		}
		if err := p.Widget.HandleEvent(ev); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidScript, err, "frame %d: %s", i, ev)
		}
	}
	if p.Ticker != nil {
		p.Ticker.Tick()
	}
	p.Widget.RequestRefresh(false)
	return nil
}

func (p *Player) log() *log.Logger {
	if p.Logger == nil {
		return discard
	}
	return p.Logger
}

var discard = log.New(io.Discard)
