// Package surface owns the offscreen raster surfaces of a line graph widget.
//
// A [Set] holds seven RGBA surfaces of identical size:
//
//	Background  static frame, painted once per allocation
//	Grid        background plus guide lines
//	Cache       grid plus slowly changing data
//	Moving0/1   double-buffered scrolling rows
//	Handles     handle overlay
//	Realtime    cache plus fast changing data; the presented image
//
// Every surface except Background and Handles clips drawing to the drawable
// area, so only the static frame ever touches the padding.
package surface

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
)

// Role identifies one surface within a [Set].
type Role int

const (
	Background Role = iota
	Grid
	Cache
	Moving0
	Moving1
	Handles
	Realtime

	roleCount
)

var roleNames = [...]string{"background", "grid", "cache", "moving0", "moving1", "handles", "realtime"}

func (r Role) String() string {
	if r < 0 || r >= roleCount {
		return "unknown"
	}
	return roleNames[r]
}

// Roles returns all roles in allocation order.
func Roles() []Role {
	out := make([]Role, roleCount)
	for i := range out {
		out[i] = Role(i)
	}
	return out
}

// clipped reports whether drawing on r is restricted to the drawable area.
func (r Role) clipped() bool {
	return r != Background && r != Handles
}

// Surface is a single RGBA raster with a drawing context bound to it.
type Surface struct {
	img *image.RGBA
	dc  *gg.Context
}

func newSurface(w, h int, clip image.Rectangle, face font.Face) *Surface {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	dc := gg.NewContextForRGBA(img)
	dc.SetLineCapButt()
	dc.SetFontFace(face)
	if !clip.Empty() {
		dc.DrawRectangle(float64(clip.Min.X), float64(clip.Min.Y), float64(clip.Dx()), float64(clip.Dy()))
		dc.Clip()
	}
	return &Surface{img: img, dc: dc}
}

// Image returns the backing raster.
func (s *Surface) Image() *image.RGBA { return s.img }

// Context returns the drawing context. Drawing through it respects the
// surface clip.
func (s *Surface) Context() *gg.Context { return s.dc }

// Bounds returns the surface bounds.
func (s *Surface) Bounds() image.Rectangle { return s.img.Rect }

// Clear makes the whole surface transparent.
func (s *Surface) Clear() {
	clear(s.img.Pix)
}

// ClearRect makes r transparent.
func (s *Surface) ClearRect(r image.Rectangle) {
	draw.Draw(s.img, r.Intersect(s.img.Rect), image.Transparent, image.Point{}, draw.Src)
}

// Fill replaces r with an opaque colour.
func (s *Surface) Fill(r image.Rectangle, c color.Color) {
	draw.Draw(s.img, r.Intersect(s.img.Rect), image.NewUniform(c), image.Point{}, draw.Src)
}

// Replace copies src into r unchanged, discarding what was there.
func (s *Surface) Replace(src *Surface, r image.Rectangle) {
	r = r.Intersect(s.img.Rect).Intersect(src.img.Rect)
	draw.Draw(s.img, r, src.img, r.Min, draw.Src)
}

// CopyFrom composites src over the surface inside r with the given opacity.
// An alpha of 1 or more is a plain source-over copy.
func (s *Surface) CopyFrom(src *Surface, alpha float64, r image.Rectangle) {
	r = r.Intersect(s.img.Rect).Intersect(src.img.Rect)
	if alpha >= 1 {
		draw.Draw(s.img, r, src.img, r.Min, draw.Over)
		return
	}
	if alpha <= 0 {
		return
	}
	mask := image.NewUniform(color.Alpha{A: uint8(alpha*255 + 0.5)})
	draw.DrawMask(s.img, r, src.img, r.Min, mask, image.Point{}, draw.Over)
}

// DrawShifted composites the r-part of src moved by (dx, dy) over the
// surface. Nothing outside r is read or written.
func (s *Surface) DrawShifted(src *Surface, dx, dy int, r image.Rectangle) {
	r = r.Intersect(s.img.Rect)
	d := image.Pt(dx, dy)
	dst := r.Intersect(r.Add(d))
	if dst.Empty() {
		return
	}
	draw.Draw(s.img, dst, src.img, dst.Min.Sub(d), draw.Over)
}
