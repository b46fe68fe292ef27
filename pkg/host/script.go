package host

import (
	"os"
	"slices"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/linegraph/pkg/cache"
	"github.com/matzehuels/linegraph/pkg/errors"
	"github.com/matzehuels/linegraph/pkg/linegraph"
)

// MaxFrames bounds the length of a script.
const MaxFrames = 10000

// Script is a scripted widget session:
//
//	width = 320
//	height = 160
//	frames = 30
//
//	[[event]]
//	frame = 2
//	kind = "press"
//	x = 160
//	y = 80
//
// Event kinds are the widget event names plus "double" (a double press)
// and "force" (a forced full redraw). Events run before the frame they
// name is drawn.
type Script struct {
	Width  int     `toml:"width"`
	Height int     `toml:"height"`
	Frames int     `toml:"frames"`
	Events []Event `toml:"event"`

	// Hash identifies the script content. Set by ParseScript.
	Hash string `toml:"-"`
}

// Event is one scripted host event.
type Event struct {
	Frame  int     `toml:"frame"`
	Kind   string  `toml:"kind"`
	X      float64 `toml:"x"`
	Y      float64 `toml:"y"`
	Width  int     `toml:"width"`
	Height int     `toml:"height"`
	Up     bool    `toml:"up"`
}

// Force reports whether e requests a forced redraw.
func (e Event) Force() bool { return e.Kind == "force" }

// Widget converts e into a widget event. Force events have no widget
// equivalent.
func (e Event) Widget() (linegraph.Event, error) {
	if e.Kind == "double" {
		return linegraph.Event{Kind: linegraph.Press, X: e.X, Y: e.Y, Double: true}, nil
	}
	kind, ok := linegraph.ParseEventKind(e.Kind)
	if !ok {
		return linegraph.Event{}, errors.New(errors.ErrCodeInvalidScript, "frame %d: unknown event kind %q", e.Frame, e.Kind)
	}
	return linegraph.Event{
		Kind:   kind,
		X:      e.X,
		Y:      e.Y,
		Width:  e.Width,
		Height: e.Height,
		Up:     e.Up,
	}, nil
}

// LoadScript reads and parses the script at path.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "script %s not found", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidScript, err, "read script %s", path)
	}
	return ParseScript(data)
}

// ParseScript decodes and validates a script. Events are ordered by frame,
// keeping the file order within a frame.
func ParseScript(data []byte) (*Script, error) {
	var s Script
	md, err := toml.Decode(string(data), &s)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidScript, err, "parse script")
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidScript, "unknown key %s", keys[0])
	}
	s.Hash = cache.Hash(data)
	if err := s.Validate(); err != nil {
		return nil, err
	}
	slices.SortStableFunc(s.Events, func(a, b Event) int { return a.Frame - b.Frame })
	return &s, nil
}

// SetDefaults fills an unset size. An unset frame count covers the last
// event, and at least one frame.
func (s *Script) SetDefaults(width, height int) {
	if s.Width == 0 && s.Height == 0 {
		s.Width, s.Height = width, height
	}
	if s.Frames == 0 {
		s.Frames = 1
		for _, e := range s.Events {
			s.Frames = max(s.Frames, e.Frame+1)
		}
	}
}

// Validate checks the frame count and every event. A zero size is
// accepted; see SetDefaults.
func (s *Script) Validate() error {
	if s.Frames < 0 || s.Frames > MaxFrames {
		return errors.New(errors.ErrCodeInvalidScript, "frames must be within [0,%d], got %d", MaxFrames, s.Frames)
	}
	if s.Width != 0 || s.Height != 0 {
		if err := errors.ValidateSize(s.Width, s.Height, 0, 0); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidScript, err, "script size")
		}
	}
	for _, e := range s.Events {
		if e.Frame < 0 || (s.Frames > 0 && e.Frame >= s.Frames) {
			return errors.New(errors.ErrCodeInvalidScript, "event %q at frame %d is outside the script", e.Kind, e.Frame)
		}
		if e.Force() {
			continue
		}
		ev, err := e.Widget()
		if err != nil {
			return err
		}
		if ev.Kind == linegraph.Resize {
			if err := errors.ValidateSize(e.Width, e.Height, 0, 0); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidScript, err, "frame %d: resize", e.Frame)
			}
		}
	}
	return nil
}

// At returns the events of frame i.
func (s *Script) At(i int) []Event {
	lo, _ := slices.BinarySearchFunc(s.Events, i, func(e Event, f int) int { return e.Frame - f })
	hi := lo
	for hi < len(s.Events) && s.Events[hi].Frame == i {
		hi++
	}
	return s.Events[lo:hi]
}
