package loop

import (
	"fmt"

	"github.com/emberforge/ember/engine/core"
	"github.com/emberforge/ember/engine/gfx/surface"
	"github.com/emberforge/ember/engine/ui"
	"github.com/emberforge/ember/engine/uirender"
)

// WindowFactory creates the platform window. The event callback must be
// invoked for every translated window event.
type WindowFactory func(cfg core.Config, onEvent func(core.Event)) (core.Window, error)

// RendererFactory creates the graphics backend against the window's
// current context.
type RendererFactory func(win core.Window, cfg core.Config) (core.Renderer, error)

// FontFactory builds the UI font. It runs inside Build, after the
// renderer exists, so the glyph atlas can be uploaded to the GPU.
type FontFactory func(r core.Renderer) (ui.Font, error)

// Builder accumulates engine configuration and produces a Driver. A
// builder is single-use: Build hands ownership of everything it created
// to the Driver and refuses a second call.
type Builder struct {
	cfg         core.Config
	newFont     FontFactory
	onFrame     func(*ui.Ctx)
	newWindow   WindowFactory
	newRenderer RendererFactory
	maxQuads    int
	built       bool
}

func NewBuilder(cfg core.Config) *Builder {
	return &Builder{cfg: cfg}
}

// Window sets the platform window factory.
func (b *Builder) Window(f WindowFactory) *Builder { b.newWindow = f; return b }

// Renderer sets the graphics backend factory.
func (b *Builder) Renderer(f RendererFactory) *Builder { b.newRenderer = f; return b }

// Font sets the UI font factory. Required.
func (b *Builder) Font(f FontFactory) *Builder { b.newFont = f; return b }

// OnFrame sets the callback that builds the UI every frame. Required.
func (b *Builder) OnFrame(fn func(*ui.Ctx)) *Builder { b.onFrame = fn; return b }

// MaxQuads bounds the per-batch quad capacity of the UI rasterizer.
// Zero picks the default.
func (b *Builder) MaxQuads(n int) *Builder { b.maxQuads = n; return b }

// Build creates the window, renderer, surface and UI context and wires
// them into a Driver. On failure everything already created is torn
// down.
func (b *Builder) Build() (*Driver, error) {
	if b.built {
		return nil, fmt.Errorf("loop: builder already consumed")
	}
	b.built = true

	switch {
	case b.newWindow == nil:
		return nil, fmt.Errorf("loop: no window factory")
	case b.newRenderer == nil:
		return nil, fmt.Errorf("loop: no renderer factory")
	case b.newFont == nil:
		return nil, fmt.Errorf("loop: no font")
	case b.onFrame == nil:
		return nil, fmt.Errorf("loop: no frame callback")
	}

	d := &Driver{
		cfg:     b.cfg,
		onFrame: b.onFrame,
	}

	win, err := b.newWindow(b.cfg, d.enqueue)
	if err != nil {
		return nil, fmt.Errorf("loop: window: %w", err)
	}
	d.win = win

	r, err := b.newRenderer(win, b.cfg)
	if err != nil {
		win.Destroy()
		return nil, fmt.Errorf("loop: renderer: %w", err)
	}
	d.r = r

	mode := surface.PresentModeFifo
	if !b.cfg.VSync {
		mode = surface.PresentModeImmediate
	}
	surf, err := surface.New(win, r, mode)
	if err != nil {
		r.Shutdown()
		win.Destroy()
		return nil, fmt.Errorf("loop: surface: %w", err)
	}
	d.surf = surf

	ras, err := uirender.New(r, b.maxQuads)
	if err != nil {
		r.Shutdown()
		win.Destroy()
		return nil, fmt.Errorf("loop: ui rasterizer: %w", err)
	}
	d.ras = ras

	font, err := b.newFont(r)
	if err != nil {
		r.Shutdown()
		win.Destroy()
		return nil, fmt.Errorf("loop: font: %w", err)
	}

	d.ctx = ui.New(font, 0, 0, 0)
	d.repaint = newRepaintSignal(win)
	return d, nil
}
