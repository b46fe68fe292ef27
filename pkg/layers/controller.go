package layers

// PollFunc asks the data source which layers changed for a generation and
// whether it wants a redraw.
type PollFunc func(generation int) (Mask, bool)

// Plan is the work decided for one draw.
type Plan struct {
	Mask        Mask
	Generation  int
	ForceCache  bool // cache must be rebuilt and copied without fading
	ForceRedraw bool // everything, including the handle overlay, is redrawn
	RunCache    bool
	RunRealtime bool
}

// Empty reports whether no phase runs; only the overlays are presented.
func (p Plan) Empty() bool {
	return !p.RunCache && !p.RunRealtime
}

// Controller tracks dirty layers between draws.
//
// Masks reported by the data source accumulate until a draw consumes them,
// so a refresh that is not followed by an expose loses nothing. The zero
// value is not ready for use; call [NewController].
type Controller struct {
	mask        Mask
	generation  int
	recreated   bool
	forceCache  bool
	forceRedraw bool
}

// NewController returns a controller in the freshly allocated state: every
// layer dirty, generation 0, cache forced.
func NewController() *Controller {
	c := &Controller{}
	c.Recreated()
	return c
}

// Generation returns the number of completed draws since the last reset.
func (c *Controller) Generation() int {
	return c.generation
}

// Pending returns the accumulated mask not yet consumed by a draw.
func (c *Controller) Pending() Mask {
	return c.mask
}

// Recreated marks every layer dirty after surfaces were (re)allocated.
func (c *Controller) Recreated() {
	c.mask = All
	c.generation = 0
	c.recreated = true
	c.forceCache = true
}

// ForceRedraw requests a full redraw at generation 0. The next Request
// re-polls the source at that generation.
func (c *Controller) ForceRedraw() {
	c.generation = 0
	c.forceRedraw = true
}

// Request polls the source and reports whether a draw should be scheduled.
func (c *Controller) Request(poll PollFunc, force bool) bool {
	m, redraw := poll(c.generation)
	c.mask |= m & All
	return redraw || force || c.recreated || c.forceRedraw
}

// Begin returns the plan for the next draw without consuming it.
func (c *Controller) Begin() Plan {
	p := Plan{
		Mask:        c.mask,
		Generation:  c.generation,
		ForceCache:  c.forceCache || c.recreated,
		ForceRedraw: c.forceRedraw || c.recreated,
	}
	p.RunCache = p.ForceCache || p.ForceRedraw || p.Mask.Any(Cache)
	p.RunRealtime = p.Mask.Any(Realtime)
	return p
}

// Finish consumes the pending mask and flags and advances the generation.
func (c *Controller) Finish() {
	c.mask = 0
	c.recreated = false
	c.forceCache = false
	c.forceRedraw = false
	c.generation++
}
