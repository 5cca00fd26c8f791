package ui

import (
	"testing"
	"time"

	"github.com/emberforge/ember/engine/colors"
	"github.com/emberforge/ember/engine/core"
)

// stubFont has fixed metrics: every glyph is size/2 wide and size tall.
type stubFont struct{ tex core.Texture }

func (f stubFont) Measure(s string, size float32) (float32, float32) {
	if s == "" {
		return 0, 0
	}
	return float32(len([]rune(s))) * size * 0.5, size
}
func (f stubFont) Metrics(size float32) (float32, float32, float32) {
	return size * 0.8, -size * 0.2, 0
}
func (f stubFont) Glyph(r rune, size float32) (Glyph, bool) {
	adv := size * 0.5
	return Glyph{Advance: adv, W: adv, H: size, BearingY: size * 0.8, U1: 1, V1: 1}, true
}
func (f stubFont) Kern(prev, r rune, size float32) float32 { return 0 }
func (f stubFont) Texture() core.Texture                   { return f.tex }

func newTestCtx() *Ctx { return New(stubFont{tex: new(int)}, 0, 0, 0) }

// runFrame drives one complete frame at 640x480.
func runFrame(ctx *Ctx, build func()) (DrawData, Output) {
	ctx.BeginFrame(time.Second, 640, 480)
	ctx.RunUI(func(*Ctx) { build() })
	return ctx.EndFrame()
}

func expectPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s did not panic", name)
		}
	}()
	fn()
}

func TestFramePairingViolationsPanic(t *testing.T) {
	ctx := newTestCtx()

	expectPanic(t, "RunUI outside frame", func() { ctx.RunUI(nil) })
	expectPanic(t, "EndFrame without BeginFrame", func() { ctx.EndFrame() })

	ctx.BeginFrame(0, 640, 480)
	expectPanic(t, "nested BeginFrame", func() { ctx.BeginFrame(0, 640, 480) })

	ctx.RunUI(nil)
	expectPanic(t, "RunUI twice", func() { ctx.RunUI(nil) })

	ctx.EndFrame()

	// The pair closed; a fresh frame works.
	runFrame(ctx, func() {})
}

func TestBeginFrameSetsClockAndViewport(t *testing.T) {
	ctx := newTestCtx()
	ctx.BeginFrame(1500*time.Millisecond, 800, 600)
	if ctx.Time() != 1.5 {
		t.Errorf("time = %v", ctx.Time())
	}
	if w, h := ctx.Viewport(); w != 800 || h != 600 {
		t.Errorf("viewport %vx%v", w, h)
	}
	ctx.RunUI(nil)
	ctx.EndFrame()
}

func TestUnbalancedViewsAreClosedByEndFrame(t *testing.T) {
	ctx := newTestCtx()
	dd, _ := runFrame(ctx, func() {
		BeginView(Props{Axis: Vertical, Bg: colors.Gray})
		Label(LabelProps{Text: "hi"})
		// no EndView
	})
	if len(dd.Batches) == 0 {
		t.Fatal("nothing tessellated")
	}
}

func TestInputEdgesClearAtEndFrame(t *testing.T) {
	ctx := newTestCtx()
	ctx.HandleEvent(core.EventMouseMove{X: 10, Y: 20})
	ctx.HandleEvent(core.EventMouseButton{Button: core.MouseButtonLeft, Down: true})
	ctx.HandleEvent(core.EventScroll{Yoff: 2})
	ctx.HandleEvent(core.EventScroll{Yoff: 3})
	ctx.HandleEvent(core.EventChar{Char: 'a'})

	in := ctx.Input()
	if !in.MouseDown || !in.MousePressed {
		t.Error("press edge not set")
	}
	if in.ScrollY != 5 {
		t.Errorf("scroll did not accumulate: %v", in.ScrollY)
	}
	if len(in.Chars) != 1 || in.Chars[0] != 'a' {
		t.Errorf("chars = %v", in.Chars)
	}

	runFrame(ctx, func() {})

	if in.MousePressed || in.ScrollY != 0 || len(in.Chars) != 0 {
		t.Error("one-frame input state survived EndFrame")
	}
	if !in.MouseDown || in.MouseX != 10 || in.MouseY != 20 {
		t.Error("persistent input state was cleared")
	}
}

func TestNonLeftButtonsIgnored(t *testing.T) {
	ctx := newTestCtx()
	ctx.HandleEvent(core.EventMouseButton{Button: core.MouseButtonRight, Down: true})
	if ctx.Input().MouseDown {
		t.Error("right button set MouseDown")
	}
}

func buildButton(clicks *int) {
	BeginView(Props{Axis: Vertical, Sizing: Expand()})
	sz := Px(100, 40)
	if Button(ButtonProps{ID: 1, Text: "go", Bg: colors.Blue, Sizing: &sz}) {
		*clicks++
	}
	EndView()
}

func TestButtonClickResolvesOneFrameLate(t *testing.T) {
	ctx := newTestCtx()
	clicks := 0
	frame := func() { runFrame(ctx, func() { buildButton(&clicks) }) }

	// Press inside the button rect (0,0,100,40).
	ctx.HandleEvent(core.EventMouseMove{X: 50, Y: 20})
	ctx.HandleEvent(core.EventMouseButton{Button: core.MouseButtonLeft, Down: true})
	frame()
	if clicks != 0 {
		t.Fatal("click before release")
	}

	// Release: the click resolves during this frame's EndFrame, the
	// widget reports it on the next build.
	ctx.HandleEvent(core.EventMouseButton{Button: core.MouseButtonLeft, Down: false})
	frame()
	if clicks != 0 {
		t.Fatal("click reported in the release frame")
	}

	frame()
	if clicks != 1 {
		t.Fatalf("clicks = %d after resolution frame", clicks)
	}

	// One release, one click.
	frame()
	if clicks != 1 {
		t.Fatalf("click repeated: %d", clicks)
	}
}

func TestReleaseOutsideButtonDoesNotClick(t *testing.T) {
	ctx := newTestCtx()
	clicks := 0
	frame := func() { runFrame(ctx, func() { buildButton(&clicks) }) }

	ctx.HandleEvent(core.EventMouseMove{X: 50, Y: 20})
	ctx.HandleEvent(core.EventMouseButton{Button: core.MouseButtonLeft, Down: true})
	frame()

	// Drag off before releasing.
	ctx.HandleEvent(core.EventMouseMove{X: 300, Y: 300})
	ctx.HandleEvent(core.EventMouseButton{Button: core.MouseButtonLeft, Down: false})
	frame()
	frame()
	if clicks != 0 {
		t.Fatalf("clicks = %d", clicks)
	}
}

func TestCheckboxTogglesBoundValue(t *testing.T) {
	ctx := newTestCtx()
	checked := false
	frame := func() {
		runFrame(ctx, func() {
			BeginView(Props{Axis: Vertical, Sizing: Expand()})
			Checkbox(CheckboxProps{ID: 7, Text: "opt", FontSize: 16, Checked: &checked})
			EndView()
		})
	}

	// Checkbox rect starts at origin, box is 16x16.
	ctx.HandleEvent(core.EventMouseMove{X: 8, Y: 8})
	ctx.HandleEvent(core.EventMouseButton{Button: core.MouseButtonLeft, Down: true})
	frame()
	ctx.HandleEvent(core.EventMouseButton{Button: core.MouseButtonLeft, Down: false})
	frame()
	if !checked {
		t.Fatal("checkbox did not toggle on click")
	}

	ctx.HandleEvent(core.EventMouseButton{Button: core.MouseButtonLeft, Down: true})
	frame()
	ctx.HandleEvent(core.EventMouseButton{Button: core.MouseButtonLeft, Down: false})
	frame()
	if checked {
		t.Fatal("checkbox did not toggle back")
	}
}

func TestHoverSetsHandCursor(t *testing.T) {
	ctx := newTestCtx()
	clicks := 0
	build := func() { buildButton(&clicks) }

	ctx.HandleEvent(core.EventMouseMove{X: 50, Y: 20})
	_, out := runFrame(ctx, build)
	if out.Cursor != core.CursorHand {
		t.Errorf("cursor over button = %v", out.Cursor)
	}

	ctx.HandleEvent(core.EventMouseMove{X: 500, Y: 400})
	_, out = runFrame(ctx, build)
	if out.Cursor != core.CursorArrow {
		t.Errorf("cursor off button = %v", out.Cursor)
	}
}

func TestTessellatorQuad(t *testing.T) {
	var tess tessellator
	tess.reset()
	tess.quad(10, 20, 30, 40, colors.Red, nil, 0, 0, 1, 1)
	dd := tess.finish()

	if len(dd.Batches) != 1 {
		t.Fatalf("batches = %d", len(dd.Batches))
	}
	b := dd.Batches[0]
	if len(b.Verts) != 4*VertexStride || len(b.Inds) != 6 {
		t.Fatalf("verts=%d inds=%d", len(b.Verts), len(b.Inds))
	}
	// Top-left corner, then the white placeholder slot.
	if b.Verts[0] != 10 || b.Verts[1] != 20 {
		t.Errorf("first vertex at (%v, %v)", b.Verts[0], b.Verts[1])
	}
	if slot := b.Verts[VertexStride-1]; slot != 0 {
		t.Errorf("solid quad tex slot = %v", slot)
	}
	if st := tess.stats; st.Quads != 1 || st.Vertices != 4 || st.Indices != 6 || st.Batches != 1 {
		t.Errorf("stats = %+v", st)
	}
}

func TestTessellatorBatchSplitsWhenSlotsFill(t *testing.T) {
	var tess tessellator
	tess.reset()

	// Slot 0 is reserved for the white placeholder; 15 distinct
	// textures fill the first batch.
	for i := 0; i < 15; i++ {
		tess.quad(0, 0, 1, 1, colors.White, new(int), 0, 0, 1, 1)
	}
	if n := len(tess.batches); n != 1 {
		t.Fatalf("batches before overflow = %d", n)
	}

	tess.quad(0, 0, 1, 1, colors.White, new(int), 0, 0, 1, 1)
	dd := tess.finish()
	if len(dd.Batches) != 2 {
		t.Fatalf("batches after overflow = %d", len(dd.Batches))
	}
	if len(dd.Batches[1].Textures) != 2 {
		t.Errorf("overflow batch textures = %d", len(dd.Batches[1].Textures))
	}
}

func TestTessellatorReusesTextureSlot(t *testing.T) {
	var tess tessellator
	tess.reset()
	tex := new(int)
	tess.quad(0, 0, 1, 1, colors.White, tex, 0, 0, 1, 1)
	tess.quad(5, 5, 1, 1, colors.White, tex, 0, 0, 1, 1)
	dd := tess.finish()
	if len(dd.Batches) != 1 || len(dd.Batches[0].Textures) != 2 {
		t.Fatalf("same texture got separate slots: %d batches, %d textures",
			len(dd.Batches), len(dd.Batches[0].Textures))
	}
}

func TestTextTessellationSkipsNewlines(t *testing.T) {
	var tess tessellator
	tess.reset()
	f := stubFont{tex: new(int)}
	tess.text(f, 0, 0, "ab\ncd", 16, colors.White)
	dd := tess.finish()
	if tess.stats.Quads != 4 {
		t.Fatalf("glyph quads = %d", tess.stats.Quads)
	}
	// Second line starts back at x=0, one line height down.
	b := dd.Batches[0]
	thirdX := b.Verts[2*4*VertexStride]
	if thirdX != 0 {
		t.Errorf("second line x = %v", thirdX)
	}
}

func TestVerticalLayoutStacksWithGap(t *testing.T) {
	ctx := newTestCtx()
	runFrame(ctx, func() {
		BeginView(Props{Axis: Vertical, Gap: 10, Sizing: Expand()})
		Spacer(50, 20)
		sz := Px(100, 40)
		Button(ButtonProps{ID: 3, Text: "b", Bg: colors.Blue, Sizing: &sz})
		EndView()
	})
	// Spacer at y=0 height 20, gap 10, button at y=30.
	btn := ctx.cmds[1]
	if btn.kind != cmdButton {
		t.Fatalf("cmd kind = %v", btn.kind)
	}
	if btn.x != 0 || btn.y != 30 {
		t.Errorf("button at (%v, %v)", btn.x, btn.y)
	}
}

func TestNestedViewShiftsWithParent(t *testing.T) {
	ctx := newTestCtx()
	runFrame(ctx, func() {
		BeginView(Props{Axis: Vertical, Sizing: Expand(), MainAlign: Center, CrossAlign: Center})
		BeginView(Props{Axis: Horizontal})
		sz := Px(100, 40)
		Button(ButtonProps{ID: 9, Text: "b", Bg: colors.Blue, Sizing: &sz})
		EndView()
		EndView()
	})
	// A 100x40 child centered in 640x480 lands at (270, 220).
	btn := ctx.cmds[0]
	if btn.x != 270 || btn.y != 220 {
		t.Errorf("button at (%v, %v)", btn.x, btn.y)
	}
}
