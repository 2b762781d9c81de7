package window

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-stages/engine/host"
	"github.com/cogentcore/webgpu/wgpu"
)

// Window is a desktop Host backed by a platform window. The window's framebuffer is the
// viewport, framebuffer size changes are the resize notifications, and each iteration of the
// message loop is one display refresh.
type Window interface {
	host.Host

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is platform-appropriate (Windows HWND, X11 Xlib, Wayland, macOS Metal, etc.)
	// and is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// Title returns the window title.
	Title() string

	// IsRunning returns true if the window is still active.
	//
	// Returns:
	//   - bool: true if window is running, false if closed
	IsRunning() bool

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: error if close operation fails
	Close() error
}

// engineWindow is the implementation of the Window interface.
// Holds window configuration, GLFW state, and the host dispatcher.
type engineWindow struct {
	*host.Dispatcher

	mu *sync.Mutex

	// title is the window title displayed in the title bar.
	title string

	// width is the current framebuffer width in pixels.
	width int

	// height is the current framebuffer height in pixels.
	height int

	// minWidth and minHeight bound interactive resizing. Zero leaves the axis unbounded.
	minWidth  int
	minHeight int

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	start time.Time
}

var _ Window = &engineWindow{}

// NewWindow creates and shows a new Window with the specified options.
// Applies default values first, then each option in order. Must be called from the main goroutine.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the created window
//   - error: error if the platform window could not be created
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := &engineWindow{
		Dispatcher: host.NewDispatcher(),
		mu:         &sync.Mutex{},
		title:      "oxy-stages",
		width:      1280,
		height:     720,
	}
	for _, opt := range options {
		opt(w)
	}
	if err := newPlatformWindow(w); err != nil {
		return nil, fmt.Errorf("failed to create platform window: %w", err)
	}
	w.start = time.Now()
	return w, nil
}

func (w *engineWindow) Width() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width
}

func (w *engineWindow) Height() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.height
}

func (w *engineWindow) Title() string {
	return w.title
}

// setSize records the framebuffer size and queues a resize notification.
func (w *engineWindow) setSize(width, height int) {
	w.mu.Lock()
	w.width = width
	w.height = height
	w.mu.Unlock()
	w.NotifyResize()
}

func (w *engineWindow) Mount(s host.Surface) error {
	return w.Dispatcher.Mount(w, s)
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

// Run pumps the message loop: poll platform events (which may queue a resize), dispatch the
// resize notification and then the pending frame callbacks. Blocks until the window closes
// or ctx is done.
func (w *engineWindow) Run(ctx context.Context) error {
	for w.IsRunning() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if succ := platformProcessMessages(w); !succ {
			break
		}
		w.Dispatch(time.Since(w.start))
	}
	return nil
}
