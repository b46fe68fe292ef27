// Package demo provides a deterministic spectrum analyzer source.
//
// The [Analyzer] draws a logarithmic frequency grid, an equalizer curve
// computed from the widget's handles, animated spectrum bars, a scrolling
// spectrogram and a peak marker. Animation advances only through
// [Analyzer.Tick], so a given seed and tick sequence always produces the
// same frames.
package demo

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/linegraph/pkg/errors"
	"github.com/matzehuels/linegraph/pkg/handles"
	"github.com/matzehuels/linegraph/pkg/layers"
	"github.com/matzehuels/linegraph/pkg/source"
)

const (
	// Range is the decibel span of the vertical axis in each direction.
	Range = 24.0

	bands = 48

	minFreq = 20.0
	decades = 3 // 20 Hz to 20 kHz
)

// Names lists the sources ByName knows.
var Names = []string{"analyzer", "eq"}

// Options configures an analyzer.
type Options struct {
	Seed      uint64
	Direction source.Direction // scroll direction of the spectrogram
	Static    bool             // grid and equalizer curve only
}

// Analyzer implements source.Source. It is not safe for concurrent use.
type Analyzer struct {
	opts Options
	rng  *rand.Rand

	levels  []float64 // per band, in [-1, 1]
	handles map[int]handles.Handle
	ticks   int

	rows      int  // spectrogram rows not yet drawn
	animated  bool // Tick was called since the last poll
	curveDirt bool
}

// New returns an analyzer in its initial state.
func New(opts Options) *Analyzer {
	a := &Analyzer{
		opts:      opts,
		rng:       rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15)),
		levels:    make([]float64, bands),
		handles:   make(map[int]handles.Handle),
		curveDirt: true,
	}
	for i := range a.levels {
		a.levels[i] = -1
	}
	return a
}

// ByName returns the source registered under name.
func ByName(name string, opts Options) (*Analyzer, error) {
	switch name {
	case "analyzer":
		return New(opts), nil
	case "eq":
		opts.Static = true
		return New(opts), nil
	}
	return nil, errors.New(errors.ErrCodeNotFound, "unknown source %q (have %v)", name, Names)
}

// Tick advances the animation by one frame and queues one spectrogram row.
func (a *Analyzer) Tick() {
	if a.opts.Static {
		return
	}
	a.ticks++
	phase := float64(a.ticks) / 25
	for i := range a.levels {
		x := float64(i) / float64(bands-1)
		// pink slope with a slowly wandering bump
		target := 0.3 - 0.9*x + 0.5*math.Exp(-sq((x-0.5-0.3*math.Sin(phase))/0.12))
		noise := (a.rng.Float64() - 0.5) * 0.3
		a.levels[i] = clamp(a.levels[i]*0.6+(target+noise)*0.4, -1, 1)
	}
	a.rows++
	a.animated = true
}

// Ticks returns the number of Tick calls.
func (a *Analyzer) Ticks() int { return a.ticks }

// HandleChanged records a handle value and marks the curve dirty.
func (a *Analyzer) HandleChanged(index int, h handles.Handle) {
	if h.Active {
		a.handles[index] = h
	} else {
		delete(a.handles, index)
	}
	a.curveDirt = true
}

// SyncHandles replaces all recorded handles.
func (a *Analyzer) SyncHandles(hs []handles.Handle) {
	clear(a.handles)
	for i, h := range hs {
		if h.Active {
			a.handles[i] = h
		}
	}
	a.curveDirt = true
}

// Layers reports every layer at generation 0. Afterwards the equalizer
// curve is dirty after handle changes and the realtime layers after ticks.
func (a *Analyzer) Layers(id, generation int) (layers.Mask, bool) {
	var m layers.Mask
	if generation == 0 {
		m = layers.CacheGrid | layers.CacheGraph
		if !a.opts.Static {
			m |= layers.RealtimeGraph | layers.RealtimeDot | layers.RealtimeMoving
		}
	}
	if a.curveDirt {
		m |= layers.CacheGraph
	}
	if a.animated {
		m |= layers.RealtimeGraph | layers.RealtimeDot | layers.RealtimeMoving
	}
	a.curveDirt, a.animated = false, false
	return m, m != 0
}

var gridFreqs = []struct {
	hz     float64
	legend string
}{
	{50, ""}, {100, "100"}, {200, ""}, {500, ""},
	{1000, "1k"}, {2000, ""}, {5000, ""}, {10000, "10k"},
}

var gridDB = []struct {
	db     float64
	legend string
}{
	{-18, ""}, {-12, "-12"}, {-6, ""}, {0, "0"}, {6, ""}, {12, "+12"}, {18, ""},
}

// GridLine serves the frequency lines first, then the level lines.
func (a *Analyzer) GridLine(id, index int, phase layers.Phase, style *source.Style) (source.GridLine, bool) {
	if phase != layers.Cache {
		return source.GridLine{}, false
	}
	if index < len(gridFreqs) {
		f := gridFreqs[index]
		if f.legend == "" {
			style.A *= 0.5
		}
		return source.GridLine{Pos: float32(Position(f.hz)), Vertical: true, Legend: f.legend}, true
	}
	index -= len(gridFreqs)
	if index < len(gridDB) {
		d := gridDB[index]
		if d.legend == "" {
			style.A *= 0.5
		}
		return source.GridLine{Pos: float32(d.db / Range), Legend: d.legend}, true
	}
	return source.GridLine{}, false
}

// Graph serves the equalizer curve in the cache phase and the spectrum
// bars in the realtime phase.
func (a *Analyzer) Graph(id, index int, phase layers.Phase, samples []float32, style *source.Style) (source.Mode, bool) {
	if index != 0 || len(samples) == 0 {
		return source.ModeLine, false
	}
	if phase == layers.Cache {
		a.curve(samples)
		return source.ModeLine, true
	}
	if a.opts.Static {
		return source.ModeLine, false
	}
	a.bars(samples)
	style.SetRGBA(style.R, style.G, style.B, 0.35)
	return source.ModeBars, true
}

func (a *Analyzer) curve(samples []float32) {
	n := len(samples)
	for i := range samples {
		x := float64(i) / float64(max(n-1, 1))
		var db float64
		for _, h := range a.handles {
			db += response(h, x)
		}
		samples[i] = float32(db / Range)
	}
}

// response returns the gain in dB of one handle at position x.
// Point handles boost or cut by their vertical position, and z narrows
// the bell.
func response(h handles.Handle, x float64) float64 {
	if h.X < 0 {
		return 0
	}
	if h.Point() {
		gain := (0.5 - h.Y) * 2 * Range / 2
		width := 0.15
		if h.Z >= 0 {
			width = 0.03 + 0.2*(1-h.Z)
		}
		return gain * math.Exp(-sq((x-h.X)/width))
	}
	d := (x - h.X) / 0.08
	switch h.Style {
	case handles.HighPass:
		if x < h.X {
			return -Range * math.Min(1, -d/4)
		}
	case handles.LowPass:
		if x > h.X {
			return -Range * math.Min(1, d/4)
		}
	case handles.LowShelf:
		return 6 / (1 + math.Exp(d*2))
	case handles.HighShelf:
		return 6 / (1 + math.Exp(-d*2))
	default:
		return 6 * math.Exp(-sq(d))
	}
	return 0
}

func (a *Analyzer) bars(samples []float32) {
	n := len(samples)
	for i := range samples {
		samples[i] = float32(math.Inf(1))
	}
	for b := 1; b <= bands; b++ {
		col := b*n/bands - 1
		if col <= 0 {
			continue
		}
		samples[col] = float32(a.levels[b-1])
	}
}

// Moving serves one spectrogram row per tick.
func (a *Analyzer) Moving(id, index int, samples []float32, width, height int, style *source.Style) (source.Direction, bool) {
	if a.opts.Static || index >= a.rows {
		a.rows = 0
		return a.opts.Direction, false
	}
	span := height
	if a.opts.Direction.Vertical() {
		span = width
	}
	span = min(span, len(samples))
	var energy float64
	for i := range span {
		// the row runs top to bottom for horizontal scrolling, so flip it
		pos := float64(i) / float64(max(span-1, 1))
		if !a.opts.Direction.Vertical() {
			pos = 1 - pos
		}
		v := a.levels[min(int(pos*bands), bands-1)]
		samples[i] = float32(v)
		energy += v
	}
	c := Heat((energy/float64(max(span, 1)) + 1) / 2)
	style.SetRGBA(c.R, c.G, c.B, style.A)
	return a.opts.Direction, true
}

// Heat maps t in [0, 1] onto the spectrogram colour ramp.
func Heat(t float64) colorful.Color {
	cold := colorful.Color{R: 0.15, G: 0.2, B: 0.0}
	hot := colorful.Color{R: 0.55, G: 0.25, B: 0.05}
	return cold.BlendLab(hot, clamp(t, 0, 1)).Clamped()
}

// Dot marks the loudest band.
func (a *Analyzer) Dot(id, index int, phase layers.Phase, style *source.Style) (source.Dot, bool) {
	if a.opts.Static || phase != layers.Realtime || index != 0 || a.ticks == 0 {
		return source.Dot{}, false
	}
	peak := 0
	for i, v := range a.levels {
		if v > a.levels[peak] {
			peak = i
		}
	}
	x := (float64(peak) + 0.5) / bands
	return source.Dot{X: float32(x), Y: float32(a.levels[peak]), Radius: 2.5}, true
}

// CrosshairLabel formats frequency and level under the pointer.
func (a *Analyzer) CrosshairLabel(x, y, width, height int) string {
	fx := float64(x) / float64(max(width-1, 1))
	half := height / 2
	v := float64(half-y) / float64(max(half-1, 1))
	return fmt.Sprintf("%s  %+.1f dB", FormatFrequency(Frequency(fx)), v*Range)
}

// Frequency maps a [0, 1] position onto the logarithmic axis.
func Frequency(x float64) float64 {
	return minFreq * math.Pow(10, x*decades)
}

// Position is the inverse of Frequency.
func Position(hz float64) float64 {
	return math.Log10(hz/minFreq) / decades
}

// FormatFrequency renders hz as "440 Hz" or "1.2 kHz".
func FormatFrequency(hz float64) string {
	if hz >= 1000 {
		return fmt.Sprintf("%.1f kHz", hz/1000)
	}
	return fmt.Sprintf("%.0f Hz", hz)
}

func sq(v float64) float64 { return v * v }

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
