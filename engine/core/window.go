package core

// Window abstraction. Implemented by the platform layer; the loop and the
// surface manager only see this interface so they can be tested headless.
type Window interface {
	// PollEvents pumps the platform event queue. Registered callbacks
	// fire on the calling thread before PollEvents returns.
	PollEvents()
	// PostEmptyEvent wakes a blocked event wait from any thread.
	PostEmptyEvent()
	SwapBuffers()
	// SetSwapInterval sets the presentation pacing: 1 for vsync (no
	// tearing, bounded frame rate), 0 for immediate.
	SetSwapInterval(interval int)
	ShouldClose() bool
	SetShouldClose(v bool)
	// FramebufferSize reports the drawable size in physical pixels.
	FramebufferSize() (int, int)
	SetTitle(title string)
	SetCursor(c Cursor)
	SetEventCallback(cb func(Event))
	Destroy()
}
