package errors

import (
	"math"
	"strings"
	"unicode"
)

// ValidateSize validates a widget allocation and the drawable area left after padding.
//
// The rules mirror what the surface set can allocate:
//   - Width and height must be positive
//   - Padding must not be negative
//   - At least one pixel must remain on each axis once padding is removed
func ValidateSize(width, height, padX, padY int) error {
	if width <= 0 || height <= 0 {
		return New(ErrCodeInvalidSize, "size must be positive, got %dx%d", width, height)
	}
	if padX < 0 || padY < 0 {
		return New(ErrCodeInvalidSize, "padding must not be negative, got %d,%d", padX, padY)
	}
	if width-2*padX <= 0 || height-2*padY <= 0 {
		return New(ErrCodeInvalidSize, "padding %d,%d leaves no drawable area in %dx%d", padX, padY, width, height)
	}
	return nil
}

// ValidateHandleIndex validates a handle index against the pool capacity.
func ValidateHandleIndex(index, capacity int) error {
	if index < 0 || index >= capacity {
		return New(ErrCodeInvalidHandle, "handle index %d out of range [0,%d)", index, capacity)
	}
	return nil
}

// ValidateUnit validates a normalized value in [0,1]. The unset marker -1 is accepted.
func ValidateUnit(name string, v float64) error {
	if v == -1 {
		return nil
	}
	if math.IsNaN(v) || v < 0 || v > 1 {
		return New(ErrCodeInvalidInput, "%s must be within [0,1], got %v", name, v)
	}
	return nil
}

// ValidateLabel validates a handle label for display.
// Labels are drawn next to the handle, so control characters and
// overly long strings are rejected.
func ValidateLabel(label string) error {
	if len(label) > 64 {
		return New(ErrCodeInvalidInput, "label too long (max 64 characters)")
	}
	for _, r := range label {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "label contains invalid control characters")
		}
	}
	return nil
}

// ValidateSessionID validates an HTTP host session identifier.
func ValidateSessionID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "session id cannot be empty")
	}
	if len(id) > 64 || strings.ContainsAny(id, "/\\.\x00") {
		return New(ErrCodeInvalidInput, "invalid session id: %q", id)
	}
	return nil
}
