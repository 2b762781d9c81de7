// Package host defines the boundary between the engine and the environment it runs in:
// a viewport size source, a zero-payload resize notification, a display refresh scheduler
// and a one-shot surface mount.
package host

import (
	"context"
	"errors"
	"time"
)

// ErrSurfaceMounted is returned when a second surface is mounted on a host.
var ErrSurfaceMounted = errors.New("host: surface already mounted")

// FrameCallback is invoked by the host before the next frame is drawn.
// now is the time elapsed since the host started.
type FrameCallback func(now time.Duration)

// FrameID identifies a pending frame request. The zero value never names a request.
type FrameID uint64

// Surface is a render target that must be attached to a host before it can draw.
type Surface interface {
	// Mount attaches the surface to the host. Called by the host exactly once.
	//
	// Parameters:
	//   - h: the host being mounted on
	//
	// Returns:
	//   - error: error if the surface cannot be attached to this host
	Mount(h Host) error
}

// Host is the environment the engine runs in. Resize notifications and frame callbacks are
// dispatched on a single goroutine and never overlap: a resize notification is handled to
// completion before the next frame callback runs.
type Host interface {
	// Width returns the current drawable width in pixels.
	Width() int

	// Height returns the current drawable height in pixels.
	Height() int

	// OnResize subscribes fn to viewport size changes. The notification carries no payload;
	// subscribers re-read Width and Height.
	//
	// Parameters:
	//   - fn: the callback to invoke after each size change
	OnResize(fn func())

	// RequestFrame schedules fn to run once, before the next frame is drawn.
	//
	// Parameters:
	//   - fn: the callback
	//
	// Returns:
	//   - FrameID: handle that can be passed to CancelFrame
	RequestFrame(fn FrameCallback) FrameID

	// CancelFrame drops a pending request. Unknown or already-run ids are ignored.
	//
	// Parameters:
	//   - id: the request to cancel
	CancelFrame(id FrameID)

	// Mount attaches s to the host. Only one surface may ever be mounted.
	//
	// Parameters:
	//   - s: the surface to attach
	//
	// Returns:
	//   - error: ErrSurfaceMounted on a second call, or the surface's own mount error
	Mount(s Surface) error

	// Run pumps events and frame callbacks until ctx is done or the host is closed.
	//
	// Parameters:
	//   - ctx: cancels the pump
	//
	// Returns:
	//   - error: ctx.Err() when cancelled, nil when the host closed on its own
	Run(ctx context.Context) error
}
