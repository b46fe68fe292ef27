package surface

import (
	"image"

	"golang.org/x/image/font"

	"github.com/matzehuels/linegraph/pkg/errors"
)

// Set is the collection of surfaces for one widget allocation.
//
// A Set is either empty (never allocated or destroyed) or holds all seven
// surfaces at the same size. It is not safe for concurrent use.
type Set struct {
	surfaces [roleCount]*Surface
	width    int
	height   int
	clip     image.Rectangle
	moving   int
	face     font.Face
}

// Ready reports whether the set currently holds surfaces.
func (s *Set) Ready() bool {
	return s.surfaces[Background] != nil
}

// Size returns the allocated size, or 0, 0 when empty.
func (s *Set) Size() (int, int) {
	return s.width, s.height
}

// Clip returns the drawable rectangle of the current allocation.
func (s *Set) Clip() image.Rectangle {
	return s.clip
}

// Face returns the label face shared by the surfaces, or nil when empty.
func (s *Set) Face() font.Face {
	return s.face
}

// Recreate discards any existing surfaces and allocates a new set of
// transparent surfaces. The moving index restarts at 0. On error the
// previous surfaces are kept.
func (s *Set) Recreate(w, h int, clip image.Rectangle) error {
	if w <= 0 || h <= 0 {
		return errors.New(errors.ErrCodeInvalidSize, "surface size must be positive, got %dx%d", w, h)
	}
	if clip.Empty() || !clip.In(image.Rect(0, 0, w, h)) {
		return errors.New(errors.ErrCodeInvalidSize, "clip %v outside %dx%d", clip, w, h)
	}
	face, err := NewFace()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "load label font")
	}

	s.Destroy()
	for _, r := range Roles() {
		c := image.Rectangle{}
		if r.clipped() {
			c = clip
		}
		s.surfaces[r] = newSurface(w, h, c, face)
	}
	s.width, s.height = w, h
	s.clip = clip
	s.moving = 0
	s.face = face
	return nil
}

// Destroy releases all surfaces. Calling it on an empty set is a no-op.
func (s *Set) Destroy() {
	for i := range s.surfaces {
		s.surfaces[i] = nil
	}
	s.width, s.height = 0, 0
	s.clip = image.Rectangle{}
	s.moving = 0
	s.face = nil
}

// Get returns the surface for role, or nil when the set is empty.
func (s *Set) Get(r Role) *Surface {
	if r < 0 || r >= roleCount {
		return nil
	}
	return s.surfaces[r]
}

// MovingIndex returns which moving surface is current (0 or 1).
func (s *Set) MovingIndex() int {
	return s.moving
}

// Moving returns the current and previous moving surfaces.
func (s *Set) Moving() (cur, prev *Surface) {
	return s.surfaces[Moving0+Role(s.moving)], s.surfaces[Moving0+Role(1-s.moving)]
}

// ToggleMoving swaps the current and previous moving surfaces.
func (s *Set) ToggleMoving() {
	s.moving = 1 - s.moving
}
