package surface

import (
	"fmt"

	"github.com/emberforge/ember/engine/core"
)

// Manager owns the presentation surface. It holds the renderer (device +
// queue), the live configuration, and hands out single-use frames.
//
// Not safe for concurrent use; the engine loop is single-threaded.
type Manager struct {
	win  core.Window
	r    core.Renderer
	cfg  Config
	open bool // a frame is acquired and not yet presented
}

// New configures the surface against the window's current framebuffer
// size and the requested present mode, and applies it. Fails if the
// window reports a zero-area framebuffer at startup.
func New(win core.Window, r core.Renderer, mode PresentMode) (*Manager, error) {
	w, h := win.FramebufferSize()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("surface: initial framebuffer %dx%d", w, h)
	}
	m := &Manager{
		win: win,
		r:   r,
		cfg: Config{
			Width:       w,
			Height:      h,
			Format:      FormatRGBA8,
			PresentMode: mode,
			Usage:       UsageRenderAttachment,
		},
	}
	m.apply()
	return m, nil
}

// Config returns the current surface configuration.
func (m *Manager) Config() Config { return m.cfg }

// Resize updates the configuration to the new framebuffer size and
// re-applies it. A zero dimension (minimized window) is a no-op: the
// backend rejects zero-area surfaces, so the previous valid
// configuration is retained.
func (m *Manager) Resize(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	m.cfg.Width = w
	m.cfg.Height = h
	m.apply()
}

// apply pushes the stored configuration to the live surface.
func (m *Manager) apply() {
	m.r.Viewport(m.cfg.Width, m.cfg.Height)
	interval := 1
	if m.cfg.PresentMode == PresentModeImmediate {
		interval = 0
	}
	m.win.SetSwapInterval(interval)
}

// AcquireFrame returns the next presentable frame.
//
// Errors:
//   - ErrOutdated: the configuration no longer matches the window's
//     framebuffer (a resize has not been applied yet). Recoverable; the
//     caller should skip this frame and retry next cycle.
//   - ErrZeroArea: the configured surface has no area.
//   - ErrDeviceLost (wrapped): the backend reported an error.
func (m *Manager) AcquireFrame() (*Frame, error) {
	if m.open {
		return nil, fmt.Errorf("surface: previous frame not presented")
	}
	if m.cfg.Width <= 0 || m.cfg.Height <= 0 {
		return nil, ErrZeroArea
	}
	if w, h := m.win.FramebufferSize(); w != m.cfg.Width || h != m.cfg.Height {
		return nil, fmt.Errorf("%w: surface %s, window %dx%d", ErrOutdated, m.cfg, w, h)
	}
	if err := m.r.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeviceLost, err)
	}
	m.open = true
	return &Frame{Width: m.cfg.Width, Height: m.cfg.Height}, nil
}

// SubmitAndPresent clears the frame, submits the recorded commands and
// presents. The frame handle is consumed: any further use returns
// ErrFramePresented.
func (m *Manager) SubmitAndPresent(f *Frame, clear [4]float32, cmds []core.DrawCmd) error {
	if f == nil {
		return fmt.Errorf("surface: nil frame")
	}
	if f.presented {
		return ErrFramePresented
	}
	f.presented = true
	m.open = false

	m.r.Clear(clear[0], clear[1], clear[2], clear[3])
	for i := range cmds {
		if err := m.r.Draw(cmds[i]); err != nil {
			return fmt.Errorf("surface: submit: %w", err)
		}
	}
	m.win.SwapBuffers()
	return nil
}

// Drop releases an acquired frame without presenting it. Used when the
// render step is abandoned after a successful acquire.
func (m *Manager) Drop(f *Frame) {
	if f == nil || f.presented {
		return
	}
	f.presented = true
	m.open = false
}
