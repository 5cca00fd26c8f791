// Package ui is the immediate-mode UI layer. A Ctx persists across
// frames (widget hot/active state, input snapshot, clock); each rendered
// frame opens it with BeginFrame, builds widgets inside RunUI, and
// closes it with EndFrame, which flattens everything into triangle
// batches for the renderer.
package ui

type widgetState struct {
	hot     bool
	active  bool
	clicked bool
}

type Ctx struct {
	font Font
	in   Input

	// Clock advanced once per frame by BeginFrame.
	time float64

	// Viewport in physical pixels, set by BeginFrame.
	vpW, vpH float32

	// Fixed-capacity stacks & buffers reused every frame.
	viewStack []viewScope
	cmds      []cmd
	items     []item

	// Stable widget state; fills once, then steady.
	state map[int]widgetState

	frameOpen bool
	ranUI     bool

	tess   tessellator
	output Output
}

// New creates a persistent UI context. capViews/capCmds/capItems bound
// the per-frame recording buffers; they allocate once.
func New(font Font, capViews, capCmds, capItems int) *Ctx {
	if capViews <= 0 {
		capViews = 32
	}
	if capCmds <= 0 {
		capCmds = 1024
	}
	if capItems <= 0 {
		capItems = 1024
	}
	return &Ctx{
		font:      font,
		viewStack: make([]viewScope, 0, capViews),
		cmds:      make([]cmd, 0, capCmds),
		items:     make([]item, 0, capItems),
		state:     make(map[int]widgetState, 256),
	}
}

// Time reports seconds since engine start, as of the current frame.
func (ctx *Ctx) Time() float64 { return ctx.time }

// Input exposes the current input snapshot (read-only use intended).
func (ctx *Ctx) Input() *Input { return &ctx.in }

// Font returns the context font.
func (ctx *Ctx) Font() Font { return ctx.font }

// Viewport reports the frame's drawable size in physical pixels.
func (ctx *Ctx) Viewport() (w, h float32) { return ctx.vpW, ctx.vpH }

// For BeginView/EndView and the widget functions we need a pointer to
// the active Ctx. RunUI sets it for the duration of the callback and it
// must not change during a frame.
var current *Ctx

func Use(ctx *Ctx) { current = ctx }
