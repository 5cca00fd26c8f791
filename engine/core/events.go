package core

// Event model (can expand over time).
type Event interface{ isEvent() }

// EventCloseRequested is emitted when the user asks the window to close.
// The loop treats it as terminal: no further events are processed.
type EventCloseRequested struct{}

func (EventCloseRequested) isEvent() {}

// EventResize carries the new framebuffer size in physical pixels.
type EventResize struct{ W, H int }

func (EventResize) isEvent() {}

// EventRedrawRequested is emitted when the OS invalidates the window
// contents (expose/refresh) and by the loop itself when a redraw has
// been requested. All rendering happens from this event.
type EventRedrawRequested struct{}

func (EventRedrawRequested) isEvent() {}

type EventKey struct {
	Key  Key
	Down bool
	Mods Mod
}

func (EventKey) isEvent() {}

// EventChar carries a unicode code point produced by text input.
type EventChar struct{ Char rune }

func (EventChar) isEvent() {}

type EventMouseMove struct{ X, Y float64 }

func (EventMouseMove) isEvent() {}

type EventMouseButton struct {
	Button MouseButton
	Down   bool
	Mods   Mod
}

func (EventMouseButton) isEvent() {}

type EventScroll struct{ Xoff, Yoff float64 }

func (EventScroll) isEvent() {}

type MouseButton int

const (
	MouseButtonLeft MouseButton = iota
	MouseButtonRight
	MouseButtonMiddle
)

// Key/mod enums (subset; add as needed).
type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeySpace
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
)

type Mod int

const (
	ModNone  Mod = 0
	ModShift Mod = 1 << 0
	ModCtrl  Mod = 1 << 1
	ModAlt   Mod = 1 << 2
	ModSuper Mod = 1 << 3
)

// Cursor identifies a standard platform cursor shape. The UI reports the
// desired shape as a frame output; the loop forwards it to the window.
type Cursor int

const (
	CursorArrow Cursor = iota
	CursorHand
	CursorIBeam
)
