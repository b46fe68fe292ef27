// Package session keeps live widget instances for the HTTP host.
//
// Each [Session] owns one widget, its headless host and its data source.
// Requests for the same session are serialized by the session's mutex;
// different sessions run concurrently. The [Store] maps ids to sessions
// and expires idle ones.
//
// # Usage
//
//	store := session.NewStore(session.DefaultTTL, session.DefaultMax)
//	sess := session.New(widget, recorder, src)
//	if err := store.Add(sess); err != nil {
//	    return err
//	}
//
//	sess, err := store.Get(id)
//	f, err := sess.Frame()
package session

import (
	"image"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/linegraph/pkg/errors"
	"github.com/matzehuels/linegraph/pkg/handles"
	"github.com/matzehuels/linegraph/pkg/host"
	"github.com/matzehuels/linegraph/pkg/linegraph"
	"github.com/matzehuels/linegraph/pkg/source"
)

// Defaults for NewStore.
const (
	// DefaultTTL is how long an idle session is kept.
	DefaultTTL = 15 * time.Minute

	// DefaultMax bounds the number of live sessions.
	DefaultMax = 64

	// MaxTicks bounds a single Tick call.
	MaxTicks = 1000
)

// Session is one live widget.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu       sync.Mutex
	lastUsed time.Time
	widget   *linegraph.Widget
	host     *host.Recorder
	ticker   host.Ticker
	frame    Frame
	drawn    int // frames exposed so far
}

// Frame is a presented widget frame.
type Frame struct {
	Image *image.RGBA

	// Seq numbers the frames exposed by a session from 0. Unlike
	// Generation it never repeats.
	Seq        int
	Generation int

	// Fresh is set when this call exposed the frame.
	Fresh bool
}

// New wraps a widget created with rec as its host. src is ticked by Tick
// when it implements host.Ticker.
func New(w *linegraph.Widget, rec *host.Recorder, src source.Source) *Session {
	now := time.Now()
	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		lastUsed:  now,
		widget:    w,
		host:      rec,
	}
	if t, ok := src.(host.Ticker); ok {
		s.ticker = t
	}
	return s
}

// Apply delivers events in order and requests a refresh. It stops at the
// first failing event.
func (s *Session) Apply(events []linegraph.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	for i, ev := range events {
		if err := s.widget.HandleEvent(ev); err != nil {
			return errors.Wrap(errors.GetCode(err), err, "event %d (%s)", i, ev)
		}
	}
	s.widget.RequestRefresh(false)
	return nil
}

// Tick advances the source n times and requests a refresh after each.
func (s *Session) Tick(n int) error {
	if n < 1 || n > MaxTicks {
		return errors.New(errors.ErrCodeInvalidInput, "ticks must be within [1,%d], got %d", MaxTicks, n)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	for range n {
		if s.ticker != nil {
			s.ticker.Tick()
		}
		s.widget.RequestRefresh(false)
	}
	return nil
}

// ForceRedraw schedules a full redraw.
func (s *Session) ForceRedraw() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.widget.ForceRedraw()
}

// Frame returns the current frame. A pending draw is exposed into a new
// image first and the result is Fresh. Returned images are never written
// to afterwards.
func (s *Session) Frame() (Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if !s.host.TakeDraw() && s.frame.Image != nil {
		f := s.frame
		f.Fresh = false
		return f, nil
	}
	gen := s.widget.Generation()
	img := s.widget.NewFrame()
	if err := s.widget.Expose(img); err != nil {
		return Frame{}, err
	}
	s.frame = Frame{Image: img, Seq: s.drawn, Generation: gen, Fresh: true}
	s.drawn++
	return s.frame, nil
}

// Handles returns a snapshot of the handle pool.
func (s *Session) Handles() []handles.Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return s.widget.Handles()
}

// SetHandle replaces handle i.
func (s *Session) SetHandle(i int, h handles.Handle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return s.widget.SetHandle(i, h)
}

// Size returns the widget size.
func (s *Session) Size() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.widget.Size()
}

// Close releases the widget surfaces.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.widget.Destroy()
	s.frame = Frame{}
}

// LastUsed returns the time of the last call.
func (s *Session) LastUsed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

func (s *Session) touch() { s.lastUsed = time.Now() }
