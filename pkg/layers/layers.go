// Package layers decides which parts of a line graph must be redrawn.
//
// Content is split into four categories (grid, graph, dot, moving) and two
// phases. The cache phase holds content that changes rarely and is redrawn
// on top of the grid surface; the realtime phase holds content that changes
// every frame and is drawn on top of the cache. A [Mask] carries one bit per
// (phase, category) pair:
//
//	CacheGrid      0x01   RealtimeGrid      0x02
//	CacheGraph     0x04   RealtimeGraph     0x08
//	CacheDot       0x10   RealtimeDot       0x20
//	CacheMoving    0x40   RealtimeMoving    0x80
//
// The bit values are shared with data sources and must not change.
package layers

import "strings"

// Layer is a content category.
type Layer int

const (
	Grid Layer = iota
	Graph
	Dot
	Moving
)

var layerNames = [...]string{"grid", "graph", "dot", "moving"}

func (l Layer) String() string {
	if l < Grid || l > Moving {
		return "unknown"
	}
	return layerNames[l]
}

// Layers lists all categories in mask bit order. The pipeline draws them
// as grid, graph, moving, dot.
var Layers = []Layer{Grid, Graph, Dot, Moving}

// Phase selects the cache or realtime half of a mask.
type Phase int

const (
	Cache Phase = iota
	Realtime
)

func (p Phase) String() string {
	if p == Realtime {
		return "realtime"
	}
	return "cache"
}

// Mask is a set of (phase, category) bits.
type Mask uint16

const (
	CacheGrid      Mask = 0x01
	RealtimeGrid   Mask = 0x02
	CacheGraph     Mask = 0x04
	RealtimeGraph  Mask = 0x08
	CacheDot       Mask = 0x10
	RealtimeDot    Mask = 0x20
	CacheMoving    Mask = 0x40
	RealtimeMoving Mask = 0x80

	CacheAll    = CacheGrid | CacheGraph | CacheDot | CacheMoving
	RealtimeAll = RealtimeGrid | RealtimeGraph | RealtimeDot | RealtimeMoving
	All         = CacheAll | RealtimeAll
)

// Bit returns the mask bit for category l in phase p.
func Bit(p Phase, l Layer) Mask {
	return 1 << (uint(l)*2 + uint(p))
}

// Has reports whether the bit for (p, l) is set.
func (m Mask) Has(p Phase, l Layer) bool {
	return m&Bit(p, l) != 0
}

// Any reports whether any category is set in phase p.
func (m Mask) Any(p Phase) bool {
	if p == Realtime {
		return m&RealtimeAll != 0
	}
	return m&CacheAll != 0
}

// Phase returns only the bits of phase p.
func (m Mask) Phase(p Phase) Mask {
	if p == Realtime {
		return m & RealtimeAll
	}
	return m & CacheAll
}

func (m Mask) String() string {
	if m&All == 0 {
		return "none"
	}
	var parts []string
	for _, p := range []Phase{Cache, Realtime} {
		for _, l := range Layers {
			if m.Has(p, l) {
				parts = append(parts, p.String()+"-"+l.String())
			}
		}
	}
	return strings.Join(parts, "|")
}
