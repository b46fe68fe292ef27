package linegraph

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/linegraph/pkg/handles"
	"github.com/matzehuels/linegraph/pkg/render"
	"github.com/matzehuels/linegraph/pkg/trace"
)

// Config holds the widget settings fixed at construction.
type Config struct {
	PadX, PadY int
	Square     bool    // shrink the larger dimension of every allocation to the smaller
	Fade       float64 // realtime persistence in (0, 1]; 1 disables fading

	Capacity     int     // handle pool size
	EnforceOrder bool    // keep 1-D handles ordered while dragging
	MinDistance  float64 // separation between ordered handles
	Crosshairs   bool    // allow the pointer crosshair

	SourceID int // passed to every data source query
	Theme    render.Theme
}

// DefaultConfig returns the settings of a plain analyzer display.
func DefaultConfig() Config {
	return Config{
		PadX:        5,
		PadY:        5,
		Fade:        1,
		Capacity:    handles.DefaultCapacity,
		MinDistance: handles.DefaultMinDistance,
		Crosshairs:  true,
		Theme:       render.DefaultTheme(),
	}
}

func (c Config) handleOptions() handles.Options {
	return handles.Options{
		Capacity:     c.Capacity,
		EnforceOrder: c.EnforceOrder,
		MinDistance:  c.MinDistance,
		Crosshairs:   c.Crosshairs,
	}
}

// Option configures optional collaborators of a widget.
type Option func(*Widget)

// WithLogger sets the debug logger. A nil logger discards output.
func WithLogger(l *log.Logger) Option {
	return func(w *Widget) { w.logger = l }
}

// WithTrace records every compositing step into r.
func WithTrace(r *trace.Recorder) Option {
	return func(w *Widget) { w.trace = r }
}
