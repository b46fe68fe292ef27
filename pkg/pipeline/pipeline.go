// Package pipeline plays scripted widget sessions and exports their frames.
//
// The pipeline has three stages:
//
//  1. Build: create the data source and widget from a [config.Config]
//  2. Play: replay a [host.Script] and collect the yielded frames
//  3. Encode: scale and encode frames to PNG or JPEG in parallel
//
// Encoded frames are cached by script content, configuration and output
// options, so a replay of an unchanged script is served from the cache
// without drawing.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Export(ctx, pipeline.Options{
//	    Config: cfg,
//	    Script: script,
//	    Format: pipeline.FormatPNG,
//	})
//	for i, data := range result.Frames {
//	    // write frame i
//	}
package pipeline

import (
	"bytes"
	"runtime"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/linegraph/pkg/cache"
	"github.com/matzehuels/linegraph/pkg/config"
	"github.com/matzehuels/linegraph/pkg/errors"
	"github.com/matzehuels/linegraph/pkg/host"
)

// Output formats.
const (
	FormatPNG  = "png"
	FormatJPEG = "jpg"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPNG:  true,
	FormatJPEG: true,
}

const (
	// DefaultQuality is the JPEG quality.
	DefaultQuality = 90

	// MaxScale bounds the output scale factor.
	MaxScale = 8.0
)

// Options configures an export.
type Options struct {
	Config  *config.Config
	Script  *host.Script
	Format  string
	Scale   float64 // output scale, 1 keeps the widget size
	Quality int     // JPEG quality
	Workers int     // parallel encoders
	Refresh bool    // ignore cached frames
}

// SetDefaults fills unset options. The script size defaults to the
// configured graph size.
func (o *Options) SetDefaults() {
	if o.Config == nil {
		o.Config = config.Default()
	}
	if o.Script == nil {
		o.Script = &host.Script{}
	}
	o.Script.SetDefaults(o.Config.Graph.Width, o.Config.Graph.Height)
	if o.Format == "" {
		o.Format = FormatPNG
	}
	if o.Scale == 0 {
		o.Scale = 1
	}
	if o.Quality == 0 {
		o.Quality = DefaultQuality
	}
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
}

// ValidateAndSetDefaults applies defaults and validates the options.
func (o *Options) ValidateAndSetDefaults() error {
	o.SetDefaults()
	if err := ValidateFormat(o.Format); err != nil {
		return err
	}
	if o.Scale <= 0 || o.Scale > MaxScale {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be within (0,%g], got %g", MaxScale, o.Scale)
	}
	if o.Quality < 1 || o.Quality > 100 {
		return errors.New(errors.ErrCodeInvalidInput, "quality must be within [1,100], got %d", o.Quality)
	}
	if err := o.Config.Validate(); err != nil {
		return err
	}
	return o.Script.Validate()
}

// ValidateFormat checks that format is supported.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format %q (must be 'png' or 'jpg')", format)
	}
	return nil
}

// ConfigHash identifies the effective configuration.
func ConfigHash(cfg *config.Config) string {
	return encodeHash(cfg)
}

func encodeHash(v any) string {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(v); err != nil {
		return ""
	}
	return cache.Hash(buf.Bytes())
}

// KeyOpts returns the cache key options of the first frame.
func (o *Options) KeyOpts() cache.FrameKeyOpts {
	return cache.FrameKeyOpts{
		Width:   o.Script.Width,
		Height:  o.Script.Height,
		Format:  o.Format,
		Scale:   o.Scale,
		Quality: o.Quality,
		Config:  ConfigHash(o.Config),
	}
}
