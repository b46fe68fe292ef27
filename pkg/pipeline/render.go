package pipeline

import (
	"bytes"
	"image"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/linegraph/pkg/errors"
)

// Encode scales img and encodes it in format.
func Encode(img image.Image, format string, scale float64, quality int) ([]byte, error) {
	if scale != 1 {
		b := img.Bounds()
		w := max(1, int(float64(b.Dx())*scale+0.5))
		h := max(1, int(float64(b.Dy())*scale+0.5))
		img = imaging.Resize(img, w, h, imaging.Lanczos)
	}

	var f imaging.Format
	var opts []imaging.EncodeOption
	switch format {
	case FormatPNG:
		f = imaging.PNG
	case FormatJPEG:
		f = imaging.JPEG
		opts = append(opts, imaging.JPEGQuality(quality))
	default:
		return nil, ValidateFormat(format)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, f, opts...); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode %s", format)
	}
	return buf.Bytes(), nil
}

// Extension returns the file extension for format.
func Extension(format string) string {
	return "." + format
}
