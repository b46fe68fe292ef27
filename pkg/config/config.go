// Package config loads line graph settings from TOML files.
//
// A configuration file has one table per concern:
//
//	[graph]
//	width = 480
//	height = 240
//	pad_x = 5
//	pad_y = 5
//	square = false
//	fade = 0.6
//
//	[handles]
//	capacity = 32
//	enforce_order = true
//	min_distance = 0.025
//	layout = "eq"
//
//	[[handles.preset]]
//	index = 0
//	x = 0.2
//	label = "Low"
//	style = "lowshelf"
//
//	[crosshairs]
//	enabled = true
//
//	[theme]
//	grid = "#263300"
//	graph_width = 1.5
//
//	[source]
//	name = "analyzer"
//	direction = "up"
//
// Missing keys keep their defaults; unknown keys are rejected.
package config

import (
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/linegraph/pkg/errors"
	"github.com/matzehuels/linegraph/pkg/handles"
	"github.com/matzehuels/linegraph/pkg/linegraph"
	"github.com/matzehuels/linegraph/pkg/source"
)

const (
	DefaultWidth  = 480
	DefaultHeight = 240
	DefaultPad    = 5
	DefaultSource = "analyzer"
	DefaultSeed   = uint64(42)
)

// Config is the root of a configuration file.
type Config struct {
	Graph      Graph      `toml:"graph"`
	Handles    Handles    `toml:"handles"`
	Crosshairs Crosshairs `toml:"crosshairs"`
	Theme      Theme      `toml:"theme"`
	Source     Source     `toml:"source"`
}

// Graph holds the widget geometry.
type Graph struct {
	Width  int     `toml:"width"`
	Height int     `toml:"height"`
	PadX   int     `toml:"pad_x"`
	PadY   int     `toml:"pad_y"`
	Square bool    `toml:"square"`
	Fade   float64 `toml:"fade"`
}

// Handles holds the overlay settings and the initial handles.
type Handles struct {
	Capacity     int      `toml:"capacity"`
	EnforceOrder bool     `toml:"enforce_order"`
	MinDistance  float64  `toml:"min_distance"`
	Layout       string   `toml:"layout"` // built-in handle set used when no preset is given
	Presets      []Preset `toml:"preset"`
}

// Preset describes one handle placed at startup. Omitted values are unset.
type Preset struct {
	Index      int      `toml:"index"`
	Dimensions int      `toml:"dimensions"`
	X          *float64 `toml:"x"`
	Y          *float64 `toml:"y"`
	Z          *float64 `toml:"z"`
	Label      string   `toml:"label"`
	Style      string   `toml:"style"`
	Disabled   bool     `toml:"disabled"`
}

// Crosshairs toggles the pointer readout.
type Crosshairs struct {
	Enabled bool `toml:"enabled"`
}

// Source selects and configures the data source.
type Source struct {
	Name      string `toml:"name"`
	Direction string `toml:"direction"`
	Seed      uint64 `toml:"seed"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Graph: Graph{
			Width:  DefaultWidth,
			Height: DefaultHeight,
			PadX:   DefaultPad,
			PadY:   DefaultPad,
			Fade:   1,
		},
		Handles: Handles{
			Capacity:    handles.DefaultCapacity,
			MinDistance: handles.DefaultMinDistance,
		},
		Crosshairs: Crosshairs{Enabled: true},
		Source: Source{
			Name:      DefaultSource,
			Direction: source.Left.String(),
			Seed:      DefaultSeed,
		},
	}
}

// Load reads and validates the file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s not found", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "load %s", path)
	}
	return cfg, nil
}

// Parse decodes data over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown keys: %s", strings.Join(keys, ", "))
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SetDefaults fills zero values that have no meaning as settings.
func (c *Config) SetDefaults() {
	if c.Graph.Fade == 0 {
		c.Graph.Fade = 1
	}
	if c.Handles.Capacity == 0 {
		c.Handles.Capacity = handles.DefaultCapacity
	}
	if c.Source.Name == "" {
		c.Source.Name = DefaultSource
	}
	if c.Source.Direction == "" {
		c.Source.Direction = source.Left.String()
	}
	if c.Handles.Layout != "" && len(c.Handles.Presets) == 0 {
		if ps, err := Layout(c.Handles.Layout); err == nil {
			c.Handles.Presets = ps
		}
	}
	for i := range c.Handles.Presets {
		if c.Handles.Presets[i].Dimensions == 0 {
			c.Handles.Presets[i].Dimensions = 1
		}
	}
}

// Validate checks every section.
func (c *Config) Validate() error {
	g := c.Graph
	if err := errors.ValidateSize(g.Width, g.Height, g.PadX, g.PadY); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "[graph]")
	}
	if g.Fade <= 0 || g.Fade > 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "[graph] fade must be within (0,1], got %v", g.Fade)
	}
	h := c.Handles
	if h.Capacity < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "[handles] capacity must not be negative")
	}
	if h.MinDistance < 0 || h.MinDistance >= 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "[handles] min_distance must be within [0,1), got %v", h.MinDistance)
	}
	if h.Layout != "" {
		if _, err := Layout(h.Layout); err != nil {
			return err
		}
	}
	for i, p := range h.Presets {
		if _, err := p.Handle(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "[[handles.preset]] #%d", i+1)
		}
		if err := errors.ValidateHandleIndex(p.Index, h.Capacity); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "[[handles.preset]] #%d", i+1)
		}
	}
	if _, err := c.Theme.Render(); err != nil {
		return err
	}
	if _, ok := source.ParseDirection(c.Source.Direction); !ok {
		return errors.New(errors.ErrCodeInvalidConfig, "[source] unknown direction %q", c.Source.Direction)
	}
	return nil
}

// Handle converts the preset into an overlay handle.
func (p Preset) Handle() (handles.Handle, error) {
	h := handles.Empty()
	h.Active = !p.Disabled
	h.Dimensions = p.Dimensions
	h.Label = p.Label
	h.X, h.DefaultX = value(p.X), value(p.X)
	h.Y, h.DefaultY = value(p.Y), value(p.Y)
	h.Z = value(p.Z)
	if p.Style != "" {
		s, ok := handles.ParseStyle(p.Style)
		if !ok {
			return h, errors.New(errors.ErrCodeInvalidConfig, "unknown handle style %q", p.Style)
		}
		h.Style = s
	}
	return h, h.Validate()
}

func value(v *float64) float64 {
	if v == nil {
		return handles.Unset
	}
	return *v
}

// Direction returns the configured scroll direction of moving bands.
func (c *Config) Direction() source.Direction {
	d, _ := source.ParseDirection(c.Source.Direction)
	return d
}

// Widget returns the widget settings. The theme must have passed Validate.
func (c *Config) Widget() linegraph.Config {
	theme, _ := c.Theme.Render()
	return linegraph.Config{
		PadX:         c.Graph.PadX,
		PadY:         c.Graph.PadY,
		Square:       c.Graph.Square,
		Fade:         c.Graph.Fade,
		Capacity:     c.Handles.Capacity,
		EnforceOrder: c.Handles.EnforceOrder,
		MinDistance:  c.Handles.MinDistance,
		Crosshairs:   c.Crosshairs.Enabled,
		Theme:        theme,
	}
}

// ApplyPresets places the preset handles on w.
func (c *Config) ApplyPresets(w *linegraph.Widget) error {
	for _, p := range c.Handles.Presets {
		h, err := p.Handle()
		if err != nil {
			return err
		}
		if err := w.SetHandle(p.Index, h); err != nil {
			return err
		}
	}
	return nil
}
