package ui

import "github.com/emberforge/ember/engine/core"

// Input is the UI-side snapshot of platform input. Edge flags
// (MousePressed/MouseReleased) and accumulators (Scroll, Chars) are
// valid for one frame; EndFrame clears them.
type Input struct {
	MouseX, MouseY float32
	MouseDown      bool
	MousePressed   bool
	MouseReleased  bool
	ScrollX        float32
	ScrollY        float32
	Chars          []rune
	keys           map[core.Key]bool
	mods           core.Mod
}

func (in *Input) IsKeyDown(k core.Key) bool { return in.keys[k] }
func (in *Input) Mods() core.Mod            { return in.mods }

// HandleEvent folds one platform event into the input snapshot. Every
// event goes through here, rendered frame or not, so hover, focus and
// text-input state never go stale.
func (ctx *Ctx) HandleEvent(ev core.Event) {
	in := &ctx.in
	switch e := ev.(type) {
	case core.EventMouseMove:
		in.MouseX, in.MouseY = float32(e.X), float32(e.Y)
	case core.EventMouseButton:
		if e.Button != core.MouseButtonLeft {
			return
		}
		if e.Down && !in.MouseDown {
			in.MousePressed = true
		}
		if !e.Down && in.MouseDown {
			in.MouseReleased = true
		}
		in.MouseDown = e.Down
		in.mods = e.Mods
	case core.EventScroll:
		in.ScrollX += float32(e.Xoff)
		in.ScrollY += float32(e.Yoff)
	case core.EventChar:
		in.Chars = append(in.Chars, e.Char)
	case core.EventKey:
		if in.keys == nil {
			in.keys = make(map[core.Key]bool, 16)
		}
		in.keys[e.Key] = e.Down
		in.mods = e.Mods
	}
}

// endFrameInput clears the one-frame edges after the frame consumed them.
func (ctx *Ctx) endFrameInput() {
	in := &ctx.in
	in.MousePressed = false
	in.MouseReleased = false
	in.ScrollX, in.ScrollY = 0, 0
	in.Chars = in.Chars[:0]
}
