package loop

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/emberforge/ember/engine/core"
	"github.com/emberforge/ember/engine/gfx/surface"
	"github.com/emberforge/ember/engine/ui"
)

// fakeWindow runs a script: each PollEvents call executes the next
// step, which can emit events or mutate window state. The window asks
// to close once the script runs out.
type fakeWindow struct {
	fbW, fbH     int
	steps        []func(*fakeWindow)
	step         int
	cb           func(core.Event)
	shouldClose  bool
	swaps        int
	posted       int
	swapInterval int
	destroyed    bool
	cursor       core.Cursor
}

func (w *fakeWindow) PollEvents() {
	if w.step < len(w.steps) {
		w.steps[w.step](w)
		w.step++
		return
	}
	w.shouldClose = true
}
func (w *fakeWindow) PostEmptyEvent()                      { w.posted++ }
func (w *fakeWindow) SwapBuffers()                         { w.swaps++ }
func (w *fakeWindow) SetSwapInterval(i int)                { w.swapInterval = i }
func (w *fakeWindow) ShouldClose() bool                    { return w.shouldClose }
func (w *fakeWindow) SetShouldClose(v bool)                { w.shouldClose = v }
func (w *fakeWindow) FramebufferSize() (int, int)          { return w.fbW, w.fbH }
func (w *fakeWindow) SetTitle(string)                      {}
func (w *fakeWindow) SetCursor(c core.Cursor)              { w.cursor = c }
func (w *fakeWindow) SetEventCallback(cb func(core.Event)) { w.cb = cb }
func (w *fakeWindow) Destroy()                             { w.destroyed = true }

func (w *fakeWindow) emit(ev core.Event) { w.cb(ev) }

type fakeRenderer struct {
	viewportW, viewportH int
	clears               int
	draws                int
	persistentErr        error
	shutdowns            int
}

func (r *fakeRenderer) Viewport(w, h int)                        { r.viewportW, r.viewportH = w, h }
func (r *fakeRenderer) Clear(float32, float32, float32, float32) { r.clears++ }
func (r *fakeRenderer) CreatePipeline(core.PipelineDesc) (core.Pipeline, error) {
	return struct{}{}, nil
}
func (r *fakeRenderer) CreateTexture(core.TextureDesc) (core.Texture, error) {
	return struct{}{}, nil
}
func (r *fakeRenderer) CreateMesh(core.MeshDesc) (core.Mesh, error)     { return struct{}{}, nil }
func (r *fakeRenderer) UpdateMesh(core.Mesh, []float32, []uint32) error { return nil }
func (r *fakeRenderer) Draw(core.DrawCmd) error                         { r.draws++; return nil }
func (r *fakeRenderer) Err() error                                      { return r.persistentErr }
func (r *fakeRenderer) GPUVendor() string                               { return "fake" }
func (r *fakeRenderer) GPURenderer() string                             { return "fake" }
func (r *fakeRenderer) GPUVersion() string                              { return "0.0" }
func (r *fakeRenderer) Shutdown()                                       { r.shutdowns++ }

type stubFont struct{}

func (stubFont) Measure(s string, size float32) (float32, float32) {
	return float32(len(s)) * size * 0.5, size
}
func (stubFont) Metrics(size float32) (float32, float32, float32) {
	return size * 0.8, -size * 0.2, 0
}
func (stubFont) Glyph(r rune, size float32) (ui.Glyph, bool) {
	return ui.Glyph{Advance: size * 0.5, W: size * 0.5, H: size, BearingY: size * 0.8}, true
}
func (stubFont) Kern(rune, rune, float32) float32 { return 0 }
func (stubFont) Texture() core.Texture            { return nil }

type harness struct {
	win    *fakeWindow
	r      *fakeRenderer
	drv    *Driver
	frames int
}

func newHarness(t *testing.T, cfg core.Config, steps ...func(*fakeWindow)) *harness {
	t.Helper()
	h := &harness{
		win: &fakeWindow{fbW: cfg.Width, fbH: cfg.Height, steps: steps},
		r:   &fakeRenderer{},
	}
	drv, err := NewBuilder(cfg).
		Window(func(_ core.Config, onEvent func(core.Event)) (core.Window, error) {
			h.win.cb = onEvent
			return h.win, nil
		}).
		Renderer(func(core.Window, core.Config) (core.Renderer, error) { return h.r, nil }).
		Font(func(core.Renderer) (ui.Font, error) { return stubFont{}, nil }).
		OnFrame(func(*ui.Ctx) { h.frames++ }).
		Build()
	if err != nil {
		t.Fatal(err)
	}
	h.drv = drv
	return h
}

func testConfig() core.Config {
	cfg := core.DefaultConfig()
	cfg.Width, cfg.Height = 640, 480
	return cfg
}

func TestBuilderRequiresAllParts(t *testing.T) {
	winFn := func(_ core.Config, _ func(core.Event)) (core.Window, error) {
		return &fakeWindow{fbW: 1, fbH: 1}, nil
	}
	rFn := func(core.Window, core.Config) (core.Renderer, error) { return &fakeRenderer{}, nil }
	fontFn := func(core.Renderer) (ui.Font, error) { return stubFont{}, nil }
	frameFn := func(*ui.Ctx) {}

	cases := []struct {
		name string
		b    *Builder
	}{
		{"window", NewBuilder(testConfig()).Renderer(rFn).Font(fontFn).OnFrame(frameFn)},
		{"renderer", NewBuilder(testConfig()).Window(winFn).Font(fontFn).OnFrame(frameFn)},
		{"font", NewBuilder(testConfig()).Window(winFn).Renderer(rFn).OnFrame(frameFn)},
		{"frame callback", NewBuilder(testConfig()).Window(winFn).Renderer(rFn).Font(fontFn)},
	}
	for _, tc := range cases {
		if _, err := tc.b.Build(); err == nil {
			t.Errorf("Build without %s succeeded", tc.name)
		}
	}
}

func TestBuilderIsSingleUse(t *testing.T) {
	b := NewBuilder(testConfig()).
		Window(func(_ core.Config, _ func(core.Event)) (core.Window, error) {
			return &fakeWindow{fbW: 640, fbH: 480}, nil
		}).
		Renderer(func(core.Window, core.Config) (core.Renderer, error) { return &fakeRenderer{}, nil }).
		Font(func(core.Renderer) (ui.Font, error) { return stubFont{}, nil }).
		OnFrame(func(*ui.Ctx) {})
	if _, err := b.Build(); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Build(); err == nil {
		t.Fatal("second Build succeeded")
	}
}

func TestRunRendersEveryIteration(t *testing.T) {
	noop := func(*fakeWindow) {}
	h := newHarness(t, testConfig(), noop, noop, noop)
	if err := h.drv.Run(); err != nil {
		t.Fatal(err)
	}
	if h.frames != 3 {
		t.Errorf("frames = %d, want 3", h.frames)
	}
	if h.win.swaps != 3 {
		t.Errorf("presents = %d, want 3", h.win.swaps)
	}
	if h.r.shutdowns != 1 || !h.win.destroyed {
		t.Error("teardown did not run")
	}
}

func TestRunIsSingleUse(t *testing.T) {
	h := newHarness(t, testConfig())
	if err := h.drv.Run(); err != nil {
		t.Fatal(err)
	}
	if err := h.drv.Run(); err == nil {
		t.Fatal("second Run succeeded")
	}
}

func TestCloseRequestStopsBeforeRendering(t *testing.T) {
	h := newHarness(t, testConfig(), func(w *fakeWindow) {
		w.emit(core.EventCloseRequested{})
	})
	if err := h.drv.Run(); err != nil {
		t.Fatal(err)
	}
	if h.frames != 0 || h.win.swaps != 0 {
		t.Errorf("rendered after close: frames=%d swaps=%d", h.frames, h.win.swaps)
	}
}

func TestCloseFlagRaisedDuringPollStopsRendering(t *testing.T) {
	// Close can arrive as a window flag with no close event at all
	// (platform close paths, SetShouldClose from application code).
	// The frame pending for that iteration must not render.
	h := newHarness(t, testConfig(),
		func(*fakeWindow) {},
		func(w *fakeWindow) { w.SetShouldClose(true) },
	)
	if err := h.drv.Run(); err != nil {
		t.Fatal(err)
	}
	if h.frames != 1 || h.win.swaps != 1 {
		t.Errorf("rendered after close flag: frames=%d swaps=%d", h.frames, h.win.swaps)
	}
}

func TestEventsAfterCloseAreDropped(t *testing.T) {
	h := newHarness(t, testConfig(), func(w *fakeWindow) {
		w.emit(core.EventCloseRequested{})
		w.emit(core.EventMouseMove{X: 123, Y: 45})
	})
	if err := h.drv.Run(); err != nil {
		t.Fatal(err)
	}
	if in := h.drv.UI().Input(); in.MouseX != 0 || in.MouseY != 0 {
		t.Errorf("event after close was processed: mouse (%v, %v)", in.MouseX, in.MouseY)
	}
}

func TestResizeReachesTheSurface(t *testing.T) {
	h := newHarness(t, testConfig(),
		func(w *fakeWindow) {
			w.fbW, w.fbH = 800, 600
			w.emit(core.EventResize{W: 800, H: 600})
		},
		func(*fakeWindow) {},
	)
	if err := h.drv.Run(); err != nil {
		t.Fatal(err)
	}
	if h.r.viewportW != 800 || h.r.viewportH != 600 {
		t.Errorf("viewport %dx%d", h.r.viewportW, h.r.viewportH)
	}
	if h.win.swaps != 2 {
		t.Errorf("presents = %d", h.win.swaps)
	}
}

func TestStaleSurfaceSkipsPresentAndRecovers(t *testing.T) {
	h := newHarness(t, testConfig(),
		// The framebuffer changes without a resize event landing.
		func(w *fakeWindow) { w.fbW, w.fbH = 800, 600 },
		func(*fakeWindow) {},
	)
	if err := h.drv.Run(); err != nil {
		t.Fatal(err)
	}
	// First frame skipped (stale), second presented at the new size.
	if h.win.swaps != 1 {
		t.Errorf("presents = %d, want 1", h.win.swaps)
	}
	// The UI pass still ran on the skipped frame.
	if h.frames != 2 {
		t.Errorf("ui frames = %d, want 2", h.frames)
	}
	if h.r.viewportW != 800 || h.r.viewportH != 600 {
		t.Errorf("viewport %dx%d after recovery", h.r.viewportW, h.r.viewportH)
	}
}

func TestMinimizedWindowSkipsPresentationUntilRestored(t *testing.T) {
	h := newHarness(t, testConfig(),
		func(w *fakeWindow) { w.fbW, w.fbH = 0, 0 },
		func(*fakeWindow) {},
		func(w *fakeWindow) { w.fbW, w.fbH = 640, 480 },
		func(*fakeWindow) {},
	)
	start := time.Now()
	if err := h.drv.Run(); err != nil {
		t.Fatal(err)
	}
	// Two minimized iterations skip the present but still run the UI
	// pass; the two after the restore present normally.
	if h.win.swaps != 2 {
		t.Errorf("presents = %d, want 2", h.win.swaps)
	}
	if h.frames != 4 {
		t.Errorf("ui frames = %d, want 4", h.frames)
	}
	// The minimized iterations are paced, not busy-spun.
	if elapsed := time.Since(start); elapsed < 2*minimizedIdle {
		t.Errorf("minimized loop did not back off: ran in %v", elapsed)
	}
}

func TestPersistentDeviceLossEndsTheLoop(t *testing.T) {
	cfg := testConfig()
	win := &fakeWindow{fbW: cfg.Width, fbH: cfg.Height}
	r := &fakeRenderer{}
	frames := 0
	drv, err := NewBuilder(cfg).
		Window(func(_ core.Config, onEvent func(core.Event)) (core.Window, error) {
			win.cb = onEvent
			return win, nil
		}).
		Renderer(func(core.Window, core.Config) (core.Renderer, error) { return r, nil }).
		Font(func(core.Renderer) (ui.Font, error) { return stubFont{}, nil }).
		OnFrame(func(*ui.Ctx) { frames++ }).
		Build()
	if err != nil {
		t.Fatal(err)
	}

	// Every acquire fails from now on; the window never closes on its
	// own, so only the failure cap can end the loop.
	r.persistentErr = fmt.Errorf("context lost")
	win.steps = make([]func(*fakeWindow), 1000)
	for i := range win.steps {
		win.steps[i] = func(*fakeWindow) {}
	}

	err = drv.Run()
	if err == nil {
		t.Fatal("Run returned nil despite persistent device loss")
	}
	if !errors.Is(err, surface.ErrDeviceLost) {
		t.Errorf("err = %v, want ErrDeviceLost in the chain", err)
	}
	if frames != maxAcquireFailures {
		t.Errorf("ui frames before giving up = %d, want %d", frames, maxAcquireFailures)
	}
	if win.swaps != 0 {
		t.Error("a failed frame was presented")
	}
}

func TestRepaintSignalCoalesces(t *testing.T) {
	win := &fakeWindow{}
	sig := newRepaintSignal(win)

	sig.Request()
	sig.Request()
	sig.Request()
	if win.posted != 3 {
		t.Errorf("wakeups = %d", win.posted)
	}
	if !sig.pending() {
		t.Fatal("no request pending")
	}
	if sig.pending() {
		t.Fatal("requests did not coalesce")
	}
}

func TestRepaintSignalIsConcurrencySafe(t *testing.T) {
	win := &fakeWindow{}
	sig := newRepaintSignal(win)
	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				sig.Request()
			}
			done <- struct{}{}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
	if !sig.pending() {
		t.Fatal("no request pending after concurrent bursts")
	}
}

func TestHoverCursorReachesTheWindow(t *testing.T) {
	cfg := testConfig()
	var h *harness
	h = &harness{
		win: &fakeWindow{fbW: cfg.Width, fbH: cfg.Height, steps: []func(*fakeWindow){
			func(w *fakeWindow) { w.emit(core.EventMouseMove{X: 50, Y: 20}) },
		}},
		r: &fakeRenderer{},
	}
	drv, err := NewBuilder(cfg).
		Window(func(_ core.Config, onEvent func(core.Event)) (core.Window, error) {
			h.win.cb = onEvent
			return h.win, nil
		}).
		Renderer(func(core.Window, core.Config) (core.Renderer, error) { return h.r, nil }).
		Font(func(core.Renderer) (ui.Font, error) { return stubFont{}, nil }).
		OnFrame(func(*ui.Ctx) {
			ui.BeginView(ui.Props{Axis: ui.Vertical, Sizing: ui.Expand()})
			sz := ui.Px(100, 40)
			ui.Button(ui.ButtonProps{ID: 1, Text: "b", Sizing: &sz})
			ui.EndView()
		}).
		Build()
	if err != nil {
		t.Fatal(err)
	}
	h.drv = drv
	if err := h.drv.Run(); err != nil {
		t.Fatal(err)
	}
	if h.win.cursor != core.CursorHand {
		t.Errorf("window cursor = %v", h.win.cursor)
	}
}
