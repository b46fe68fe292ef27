package linegraph

import "fmt"

// EventKind identifies a host event.
type EventKind int

const (
	Resize EventKind = iota
	Motion
	Press
	Release
	Scroll
	Enter
	Leave
)

var eventNames = [...]string{"resize", "motion", "press", "release", "scroll", "enter", "leave"}

func (k EventKind) String() string {
	if k < 0 || int(k) >= len(eventNames) {
		return fmt.Sprintf("event(%d)", int(k))
	}
	return eventNames[k]
}

// ParseEventKind returns the kind named s.
func ParseEventKind(s string) (EventKind, bool) {
	for i, n := range eventNames {
		if n == s {
			return EventKind(i), true
		}
	}
	return 0, false
}

// Event is a pointer or allocation event delivered by the host. Positions
// are in widget pixels.
type Event struct {
	Kind          EventKind
	X, Y          float64
	Width, Height int  // Resize
	Double        bool // Press: second click of a double click
	Up            bool // Scroll direction
}

func (e Event) String() string {
	switch e.Kind {
	case Resize:
		return fmt.Sprintf("resize %dx%d", e.Width, e.Height)
	case Motion, Release:
		return fmt.Sprintf("%s %.0f,%.0f", e.Kind, e.X, e.Y)
	case Press:
		if e.Double {
			return fmt.Sprintf("double %.0f,%.0f", e.X, e.Y)
		}
		return fmt.Sprintf("press %.0f,%.0f", e.X, e.Y)
	case Scroll:
		dir := "down"
		if e.Up {
			dir = "up"
		}
		return fmt.Sprintf("scroll %s %.0f,%.0f", dir, e.X, e.Y)
	}
	return e.Kind.String()
}
