// Package coord maps normalized graph coordinates to pixels.
//
// A [Mapper] describes one widget allocation: the padding around the
// drawable area (OX, OY) and the drawable size (SX, SY). Sample columns map
// one to one onto pixel columns, and values in [-1, 1] map onto the vertical
// axis with v=0 at the centre, v=1 at the top and v=-1 one pixel above the
// bottom edge:
//
//	x = OX + i
//	y = OY + SY/2 - (SY/2 - 1) * v
//
// SY/2 is an integer division, exactly as the pixel grid requires.
//
// Handle positions use a separate top-down [0, 1] space over an odd-sized
// extent (see [Mapper.HandleExtent]) so that the centre pixel of the drawable
// area is addressable by a handle value of 0.5.
package coord

import (
	"image"

	"github.com/chewxy/math32"
)

// Mapper converts between normalized and pixel coordinates.
type Mapper struct {
	OX, OY int // padding
	SX, SY int // drawable size
}

// New returns the mapper for a widget of width x height pixels with the
// given padding. The caller validates that the drawable area is non-empty.
func New(width, height, padX, padY int) Mapper {
	return Mapper{
		OX: padX,
		OY: padY,
		SX: width - 2*padX,
		SY: height - 2*padY,
	}
}

// Rect returns the drawable area in pixel coordinates.
func (m Mapper) Rect() image.Rectangle {
	return image.Rect(m.OX, m.OY, m.OX+m.SX, m.OY+m.SY)
}

// Contains reports whether the pixel position lies inside the drawable area.
func (m Mapper) Contains(px, py float64) bool {
	return px >= float64(m.OX) && px < float64(m.OX+m.SX) &&
		py >= float64(m.OY) && py < float64(m.OY+m.SY)
}

// X maps sample column i to a pixel x.
func (m Mapper) X(i int) float64 {
	return float64(m.OX + i)
}

// Y maps a value in [-1, 1] to a pixel y. Values outside the range yield
// positions beyond the drawable area; drawing clips them.
func (m Mapper) Y(v float32) float64 {
	half := m.SY / 2
	return float64(m.OY+half) - float64(half-1)*float64(v)
}

// GridX returns the pixel column of a vertical guide at normalized pos.
func (m Mapper) GridX(pos float32) float64 {
	return float64(m.OX) + float64(math32.Round(pos*float32(m.SX)))
}

// GridY returns the pixel row of a horizontal guide at value pos.
func (m Mapper) GridY(pos float32) float64 {
	half := m.SY / 2
	return float64(math32.Floor(float32(m.OY+half) - float32(half-1)*pos))
}

// DotX maps a normalized [0, 1] position to a pixel x.
func (m Mapper) DotX(x float32) float64 {
	return float64(m.OX) + float64(x)*float64(m.SX)
}

// HandleExtent returns the drawable size adjusted to the nearest odd
// value not above it. Even sizes lose one pixel, odd sizes are kept.
func (m Mapper) HandleExtent() (int, int) {
	return oddDown(m.SX), oddDown(m.SY)
}

// HandleOffset returns the pixel offset of a handle value inside the
// drawable area, rounded to the nearest pixel.
func (m Mapper) HandleOffset(vx, vy float64) (int, int) {
	hx, hy := m.HandleExtent()
	return int(roundf(vx * float64(hx))), int(roundf(vy * float64(hy)))
}

// HandleX returns the absolute pixel x of a handle value.
func (m Mapper) HandleX(vx float64) float64 {
	hx, _ := m.HandleExtent()
	return roundf(float64(m.OX) + vx*float64(hx))
}

// HandleY returns the absolute pixel y of a handle value.
func (m Mapper) HandleY(vy float64) float64 {
	_, hy := m.HandleExtent()
	return roundf(float64(m.OY) + vy*float64(hy))
}

// Inverse maps a pixel position back to unclamped handle values.
func (m Mapper) Inverse(px, py float64) (float64, float64) {
	hx, hy := m.HandleExtent()
	return (px - float64(m.OX)) / float64(hx), (py - float64(m.OY)) / float64(hy)
}

// Relative converts an absolute pointer position to drawable-area pixels.
func (m Mapper) Relative(px, py float64) (int, int) {
	return int(px) - m.OX, int(py) - m.OY
}

func oddDown(n int) int {
	return n + n%2 - 1
}

func roundf(v float64) float64 {
	return float64(math32.Round(float32(v)))
}
