// Package host drives a line graph widget without a window system.
//
// [Recorder] stands in for the toolkit: it remembers draw requests and
// cursor changes. [Script] describes a scripted session in TOML and
// [Player] replays it, yielding one frame per step. The render, trace and
// serve commands are all built on these.
package host

import "github.com/matzehuels/linegraph/pkg/linegraph"

// Recorder implements linegraph.Host.
type Recorder struct {
	draws   int
	pending bool
	cursors []linegraph.Cursor
}

// QueueDraw records a draw request.
func (r *Recorder) QueueDraw() {
	r.draws++
	r.pending = true
}

// SetCursor records a cursor change.
func (r *Recorder) SetCursor(c linegraph.Cursor) {
	r.cursors = append(r.cursors, c)
}

// Draws returns the number of draw requests so far.
func (r *Recorder) Draws() int { return r.draws }

// Pending reports whether a draw was requested and not yet taken.
func (r *Recorder) Pending() bool { return r.pending }

// TakeDraw clears and returns the pending flag.
func (r *Recorder) TakeDraw() bool {
	p := r.pending
	r.pending = false
	return p
}

// Cursors returns every cursor set so far, oldest first.
func (r *Recorder) Cursors() []linegraph.Cursor { return r.cursors }

// Cursor returns the current cursor.
func (r *Recorder) Cursor() linegraph.Cursor {
	if len(r.cursors) == 0 {
		return linegraph.CursorArrow
	}
	return r.cursors[len(r.cursors)-1]
}
