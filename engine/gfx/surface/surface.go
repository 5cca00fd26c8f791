// Package surface owns the presentation side of the GPU: the surface
// configuration, frame acquisition and present ordering. The backend
// device itself lives behind core.Renderer; this package mediates every
// acquire/present pair so stale configurations are caught before they
// reach the driver.
package surface

import (
	"errors"
	"fmt"
)

var (
	// ErrOutdated means the surface configuration no longer matches the
	// window. Recoverable: skip the frame, resize, retry next cycle.
	ErrOutdated = errors.New("surface: configuration outdated")

	// ErrDeviceLost means the backend reported an unrecoverable error
	// while acquiring. The caller decides whether to keep skipping
	// frames or to give up.
	ErrDeviceLost = errors.New("surface: device lost")

	// ErrFramePresented is returned when a frame handle is used after
	// it has been presented.
	ErrFramePresented = errors.New("surface: frame already presented")

	// ErrZeroArea is returned when acquiring against a zero-sized
	// configuration (minimized window).
	ErrZeroArea = errors.New("surface: zero-area configuration")
)

type Format int

const (
	FormatRGBA8 Format = iota
)

type PresentMode int

const (
	// PresentModeFifo is vsync-bounded presentation: no tearing, frame
	// rate capped at the display refresh.
	PresentModeFifo PresentMode = iota
	PresentModeImmediate
)

type Usage uint32

const (
	UsageRenderAttachment Usage = 1 << iota
)

// Config describes the live surface. Invariant: Width/Height must match
// the window's physical framebuffer size; Resize re-establishes that
// after any window size change.
type Config struct {
	Width, Height int
	Format        Format
	PresentMode   PresentMode
	Usage         Usage
}

func (c Config) String() string {
	return fmt.Sprintf("%dx%d", c.Width, c.Height)
}

// Frame is a single-use handle for one acquired presentable image.
// It must be presented (or dropped) before the next acquire.
type Frame struct {
	Width, Height int
	presented     bool
}
