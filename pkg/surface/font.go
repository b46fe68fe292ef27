package surface

import (
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// FontSize is the point size used for legends and handle labels.
const FontSize = 9

var (
	regularOnce sync.Once
	regularFont *truetype.Font
	regularErr  error
)

// NewFace returns a fresh label face. Faces cache glyphs and are not safe for
// concurrent use, so every surface set owns its own.
func NewFace() (font.Face, error) {
	regularOnce.Do(func() {
		regularFont, regularErr = truetype.Parse(goregular.TTF)
	})
	if regularErr != nil {
		return nil, regularErr
	}
	return truetype.NewFace(regularFont, &truetype.Options{
		Size:    FontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}
