package ui

import (
	"time"

	"github.com/emberforge/ember/engine/core"
)

// Output carries the frame's side effects for the platform layer. The
// loop forwards them; the UI never talks to the window directly.
type Output struct {
	Cursor core.Cursor
}

// BeginFrame opens the context for one frame: advances the UI clock,
// records the viewport and resets the per-frame recording buffers.
//
// Exactly one BeginFrame/EndFrame pair runs per rendered frame; a
// second BeginFrame while a frame is open panics, since that always
// means the loop's per-frame sequence is broken.
func (ctx *Ctx) BeginFrame(elapsed time.Duration, vpW, vpH int) {
	if ctx.frameOpen {
		panic("ui: BeginFrame while a frame is open")
	}
	ctx.frameOpen = true
	ctx.ranUI = false
	ctx.time = elapsed.Seconds()
	ctx.vpW, ctx.vpH = float32(vpW), float32(vpH)

	ctx.cmds = ctx.cmds[:0]
	ctx.viewStack = ctx.viewStack[:0]
	ctx.items = ctx.items[:0]
	ctx.tess.reset()
	ctx.output = Output{Cursor: core.CursorArrow}
}

// RunUI executes the application's widget tree construction between
// BeginFrame and EndFrame, exactly once per frame.
func (ctx *Ctx) RunUI(fn func(*Ctx)) {
	if !ctx.frameOpen {
		panic("ui: RunUI outside a frame")
	}
	if ctx.ranUI {
		panic("ui: RunUI twice in one frame")
	}
	ctx.ranUI = true
	if fn == nil {
		return
	}
	Use(ctx)
	defer Use(nil)
	fn(ctx)
}

// EndFrame closes the frame: resolves widget interaction against the
// final geometry, tessellates everything into triangle batches, clears
// the one-frame input edges and returns the draw data plus output
// actions. The draw data is valid until the next BeginFrame.
func (ctx *Ctx) EndFrame() (DrawData, Output) {
	if !ctx.frameOpen {
		panic("ui: EndFrame without BeginFrame")
	}
	ctx.frameOpen = false

	// Unbalanced BeginView calls: close them so geometry resolves.
	for len(ctx.viewStack) > 0 {
		cur := current
		current = ctx
		EndView()
		current = cur
	}

	for i := range ctx.cmds {
		resolveWidget(ctx, &ctx.cmds[i])
	}

	ctx.endFrameInput()
	return ctx.tess.finish(), ctx.output
}

// Stats reports what the last EndFrame produced.
func (ctx *Ctx) Stats() Stats { return ctx.tess.stats }
