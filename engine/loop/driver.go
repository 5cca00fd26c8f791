package loop

import (
	"errors"
	"fmt"
	"log"
	"runtime"
	"time"

	"github.com/emberforge/ember/engine/core"
	"github.com/emberforge/ember/engine/gfx/surface"
	"github.com/emberforge/ember/engine/ui"
	"github.com/emberforge/ember/engine/uirender"
)

// maxAcquireFailures is how many consecutive unrecoverable frame
// acquisition failures Run tolerates before treating the device as
// lost and returning. Outdated-surface failures do not count; those
// resolve themselves once the resize lands.
const maxAcquireFailures = 30

// minimizedIdle is how long each skipped frame sleeps while the window
// has a zero-area framebuffer, standing in for the vsync pacing that
// presentation normally provides.
const minimizedIdle = 10 * time.Millisecond

// Driver runs the engine loop. It is produced by Builder.Build and owns
// the window, renderer, surface and UI context for its whole lifetime.
type Driver struct {
	cfg  core.Config
	win  core.Window
	r    core.Renderer
	surf *surface.Manager
	ctx  *ui.Ctx
	ras  *uirender.Rasterizer

	onFrame func(*ui.Ctx)
	repaint *RepaintSignal

	// Events queued by the window callback during PollEvents and
	// drained on the loop thread. No locking: callbacks fire on the
	// loop thread.
	events []core.Event

	redrawPending bool
	closed        bool
	ran           bool

	start        time.Time
	prev         time.Time
	delta        time.Duration
	uiBuild      time.Duration
	acquireFails int
}

// Repaint returns the redraw signal. Safe to hand to other goroutines.
func (d *Driver) Repaint() *RepaintSignal { return d.repaint }

// UI returns the persistent UI context.
func (d *Driver) UI() *ui.Ctx { return d.ctx }

// Renderer exposes the graphics backend, mainly for asset loading.
func (d *Driver) Renderer() core.Renderer { return d.r }

// Delta reports the duration of the previous frame.
func (d *Driver) Delta() time.Duration { return d.delta }

// UIBuildTime reports how long the last UI pass took, from BeginFrame
// through EndFrame.
func (d *Driver) UIBuildTime() time.Duration { return d.uiBuild }

// Run executes the event loop until the window closes or a fatal error
// occurs. It must be called from the main goroutine and only once; the
// driver is spent when it returns. All owned resources are torn down on
// exit.
func (d *Driver) Run() error {
	if d.ran {
		return fmt.Errorf("loop: driver already run")
	}
	d.ran = true

	runtime.LockOSThread()
	defer d.shutdown()

	d.start = time.Now()
	d.prev = d.start
	// First frame unconditionally.
	d.redrawPending = true

	for !d.win.ShouldClose() && !d.closed {
		d.win.PollEvents()

		d.drainEvents()
		// The close flag can also be raised during PollEvents without
		// a close event (platform close paths, SetShouldClose from
		// application code). Nothing renders past it either way.
		if d.closed || d.win.ShouldClose() {
			break
		}

		if d.repaint.pending() {
			d.redrawPending = true
		}
		if err := d.onEventsCleared(); err != nil {
			return err
		}
	}
	return nil
}

func (d *Driver) shutdown() {
	d.r.Shutdown()
	d.win.Destroy()
}

// enqueue is the window event callback. Loop thread only.
func (d *Driver) enqueue(ev core.Event) {
	d.events = append(d.events, ev)
}

func (d *Driver) drainEvents() {
	for i := 0; i < len(d.events); i++ {
		ev := d.events[i]
		d.ctx.HandleEvent(ev)

		switch e := ev.(type) {
		case core.EventCloseRequested:
			d.onCloseRequested()
			d.events = d.events[:0]
			return
		case core.EventResize:
			d.onResize(e)
		case core.EventRedrawRequested:
			d.onRedrawRequested()
		}
	}
	d.events = d.events[:0]
}

// onCloseRequested ends the loop. Any events queued after it are
// dropped; nothing renders past this point.
func (d *Driver) onCloseRequested() {
	d.closed = true
	d.win.SetShouldClose(true)
}

// onResize pushes the new framebuffer size to the surface. Zero
// dimensions (minimized) leave the previous configuration in place.
func (d *Driver) onResize(e core.EventResize) {
	d.surf.Resize(e.W, e.H)
}

func (d *Driver) onRedrawRequested() {
	d.redrawPending = true
}

// onEventsCleared runs after the event queue drains and services a
// pending redraw. Each rendered frame schedules the next one, so the
// engine redraws continuously, paced by the present mode.
func (d *Driver) onEventsCleared() error {
	if !d.redrawPending {
		return nil
	}
	d.redrawPending = false
	if err := d.renderFrame(); err != nil {
		return err
	}
	d.redrawPending = true
	return nil
}

// renderFrame runs one full frame: clock update, frame acquisition, UI
// pass, tessellation upload and present. The UI pass always runs, even
// when no frame could be acquired, so widget state stays coherent
// across skipped frames.
func (d *Driver) renderFrame() error {
	now := time.Now()
	d.delta = now.Sub(d.prev)
	d.prev = now
	elapsed := now.Sub(d.start)

	fbW, fbH := d.win.FramebufferSize()

	frame, acqErr := d.surf.AcquireFrame()

	uiStart := time.Now()
	d.ctx.BeginFrame(elapsed, fbW, fbH)
	d.ctx.RunUI(d.onFrame)
	dd, out := d.ctx.EndFrame()
	d.uiBuild = time.Since(uiStart)

	d.win.SetCursor(out.Cursor)

	if acqErr != nil {
		if errors.Is(acqErr, surface.ErrOutdated) {
			// Reconfigure to the live framebuffer and retry next
			// cycle.
			d.surf.Resize(fbW, fbH)
			d.redrawPending = true
			if fbW <= 0 || fbH <= 0 {
				// Minimized: nothing presents, so nothing paces
				// the loop. Back off instead of spinning.
				time.Sleep(minimizedIdle)
			}
			return nil
		}
		d.acquireFails++
		if d.acquireFails >= maxAcquireFailures {
			return fmt.Errorf("loop: device lost after %d failed frames: %w", d.acquireFails, acqErr)
		}
		log.Printf("loop: dropped frame: %v", acqErr)
		return nil
	}
	d.acquireFails = 0

	cmds, err := d.ras.Commands(dd, fbW, fbH)
	if err != nil {
		d.surf.Drop(frame)
		return fmt.Errorf("loop: tessellation upload: %w", err)
	}
	if err := d.surf.SubmitAndPresent(frame, d.cfg.ClearColor, cmds); err != nil {
		return fmt.Errorf("loop: present: %w", err)
	}
	return nil
}
