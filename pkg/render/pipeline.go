package render

import (
	"image"
	"io"

	"github.com/charmbracelet/log"
	"golang.org/x/image/draw"

	"github.com/matzehuels/linegraph/pkg/coord"
	"github.com/matzehuels/linegraph/pkg/layers"
	"github.com/matzehuels/linegraph/pkg/source"
	"github.com/matzehuels/linegraph/pkg/surface"
	"github.com/matzehuels/linegraph/pkg/trace"
)

// Pipeline draws the layers of one widget. It keeps a sample buffer between
// draws and is not safe for concurrent use.
type Pipeline struct {
	Theme    Theme
	Fade     float64 // realtime persistence; 1 disables fading
	SourceID int
	Logger   *log.Logger
	Trace    *trace.Recorder

	samples []float32
}

// NewPipeline returns a pipeline with the default theme and no fading.
func NewPipeline() *Pipeline {
	return &Pipeline{Theme: DefaultTheme(), Fade: 1}
}

// Frame is the input of a single draw.
type Frame struct {
	Surfaces *surface.Set
	Mapper   coord.Mapper
	Source   source.Source
	Plan     layers.Plan
}

// Result summarizes a draw.
type Result struct {
	Phases   int  // phases that ran (0-2)
	Grid     bool // grid surface rebuilt
	Cache    bool // cache surface rebuilt
	Elements int  // grid lines, graphs, rows and dots drawn
}

// phaseState tracks which surfaces were reset during one draw.
type phaseState struct {
	frame  Frame
	clip   image.Rectangle
	alpha  float64
	seeded bool // realtime received the cache this draw
	result Result
}

// CopyAlpha returns the opacity used to copy the cache onto the realtime
// surface for plan.
func (p *Pipeline) CopyAlpha(plan layers.Plan) float64 {
	if plan.ForceCache || p.Fade >= 1 {
		return 1
	}
	return p.Fade*0.35 + 0.05
}

// Run executes the phases of f.Plan. An empty plan draws nothing and leaves
// the realtime surface as it was.
func (p *Pipeline) Run(f Frame) Result {
	st := &phaseState{
		frame: f,
		clip:  f.Mapper.Rect(),
		alpha: p.CopyAlpha(f.Plan),
	}
	if f.Plan.Empty() {
		p.logger().Debug("nothing to draw", "generation", f.Plan.Generation)
		return st.result
	}
	p.ensureSamples(f.Mapper)

	if f.Plan.RunCache {
		p.logger().Debug("phase", "phase", layers.Cache, "mask", f.Plan.Mask)
		p.runCache(st)
		st.result.Phases++
	}
	if f.Plan.RunRealtime {
		p.logger().Debug("phase", "phase", layers.Realtime, "mask", f.Plan.Mask)
		p.runRealtime(st)
		st.result.Phases++
	}
	return st.result
}

// Present copies the realtime surface onto dst.
func (p *Pipeline) Present(dst *image.RGBA, set *surface.Set) {
	rt := set.Get(surface.Realtime)
	if rt == nil || dst == nil {
		return
	}
	draw.Draw(dst, dst.Bounds(), rt.Image(), image.Point{}, draw.Src)
	p.trace().Present(surface.Realtime.String())
}

func (p *Pipeline) runCache(st *phaseState) {
	set, mask := st.frame.Surfaces, st.frame.Plan.Mask
	grid := set.Get(surface.Grid)
	cache := set.Get(surface.Cache)

	if mask.Has(layers.Cache, layers.Grid) {
		p.copy(surface.Background, surface.Grid, set, 1, st.clip, true)
		st.result.Grid = true
		n := p.drawGrid(grid, st, layers.Cache)
		p.trace().Draw(surface.Grid.String(), layers.Cache.String(), layers.Grid.String(), n)
	}

	// any cache category rebuilds the cache from the grid
	if st.result.Grid || mask.Phase(layers.Cache)&^layers.CacheGrid != 0 || st.frame.Plan.ForceCache {
		p.copy(surface.Grid, surface.Cache, set, 1, st.clip, true)
		st.result.Cache = true
	}

	if mask.Has(layers.Cache, layers.Graph) {
		n := p.drawGraphs(cache, st, layers.Cache)
		p.trace().Draw(surface.Cache.String(), layers.Cache.String(), layers.Graph.String(), n)
	}
	if mask.Has(layers.Cache, layers.Moving) {
		p.drawMoving(surface.Cache, st, layers.Cache)
	}
	if mask.Has(layers.Cache, layers.Dot) {
		n := p.drawDots(cache, st, layers.Cache)
		p.trace().Draw(surface.Cache.String(), layers.Cache.String(), layers.Dot.String(), n)
	}

	if st.result.Cache || st.frame.Plan.ForceRedraw {
		p.copy(surface.Cache, surface.Realtime, set, st.alpha, st.clip, false)
		st.seeded = true
	}
}

func (p *Pipeline) runRealtime(st *phaseState) {
	set, mask := st.frame.Surfaces, st.frame.Plan.Mask
	rt := set.Get(surface.Realtime)

	if !st.seeded {
		p.copy(surface.Cache, surface.Realtime, set, st.alpha, st.clip, false)
		st.seeded = true
	}

	if mask.Has(layers.Realtime, layers.Grid) {
		n := p.drawGrid(rt, st, layers.Realtime)
		p.trace().Draw(surface.Realtime.String(), layers.Realtime.String(), layers.Grid.String(), n)
	}
	if mask.Has(layers.Realtime, layers.Graph) {
		n := p.drawGraphs(rt, st, layers.Realtime)
		p.trace().Draw(surface.Realtime.String(), layers.Realtime.String(), layers.Graph.String(), n)
	}
	if mask.Has(layers.Realtime, layers.Moving) {
		p.drawMoving(surface.Realtime, st, layers.Realtime)
	}
	if mask.Has(layers.Realtime, layers.Dot) {
		n := p.drawDots(rt, st, layers.Realtime)
		p.trace().Draw(surface.Realtime.String(), layers.Realtime.String(), layers.Dot.String(), n)
	}
}

// copy transfers the clip area of src onto dst. A replacing copy discards
// what dst held; otherwise src is composited over it with alpha.
func (p *Pipeline) copy(src, dst surface.Role, set *surface.Set, alpha float64, clip image.Rectangle, replace bool) {
	s, d := set.Get(src), set.Get(dst)
	if replace {
		d.Replace(s, clip)
	} else {
		d.CopyFrom(s, alpha, clip)
	}
	p.logger().Debug("copy", "src", src, "dst", dst, "alpha", alpha)
	p.trace().Copy(src.String(), dst.String(), alpha)
}

func (p *Pipeline) ensureSamples(m coord.Mapper) {
	n := max(m.SX, m.SY)
	if cap(p.samples) < n {
		p.samples = make([]float32, n)
	}
	p.samples = p.samples[:n]
}

var discard = log.New(io.Discard)

func (p *Pipeline) logger() *log.Logger {
	if p.Logger == nil {
		return discard
	}
	return p.Logger
}

func (p *Pipeline) trace() *trace.Recorder {
	return p.Trace
}
