// Package viewport keeps a camera and a renderer sized to the host they are shown on.
package viewport

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-stages/engine/camera"
	"github.com/Carmen-Shannon/oxy-stages/engine/host"
	"github.com/Carmen-Shannon/oxy-stages/engine/logging"
	"github.com/Carmen-Shannon/oxy-stages/engine/renderer"
)

// ErrAlreadyBound is returned by a second call to Bind.
var ErrAlreadyBound = errors.New("viewport: already bound")

// binder is the implementation of the Binder interface.
type binder struct {
	mu *sync.Mutex

	host     host.Host
	camera   camera.Camera
	renderer renderer.Renderer
	logger   logging.Logger

	bound  bool
	syncs  uint64
	width  int
	height int
}

// Binder attaches a renderer to a host and keeps the camera aspect and the renderer size in
// step with the host's viewport.
type Binder interface {
	// Bind mounts the renderer surface on the host, subscribes Sync to the host's resize
	// notifications and applies the current host size. Runs once per binder.
	//
	// Returns:
	//   - error: ErrAlreadyBound on a second call, or the host's mount error
	Bind() error

	// Sync re-reads the host size and applies it to the camera (aspect and projection) and
	// the renderer. Calling it again without a size change leaves both unchanged.
	// A zero height produces a non-finite aspect; no guard is applied.
	Sync()

	// Bound reports whether Bind succeeded.
	Bound() bool

	// Syncs returns how many times Sync ran.
	Syncs() uint64

	// Size returns the size applied by the last Sync.
	//
	// Returns:
	//   - int: width in pixels
	//   - int: height in pixels
	Size() (int, int)
}

var _ Binder = &binder{}

// BinderBuilderOption is a functional option for configuring a Binder.
type BinderBuilderOption func(*binder)

// WithLogger sets the logger used to report size changes.
//
// Parameters:
//   - l: the logger
//
// Returns:
//   - BinderBuilderOption: option function to apply
func WithLogger(l logging.Logger) BinderBuilderOption {
	return func(b *binder) {
		b.logger = l
	}
}

// NewBinder creates a Binder for the given host, camera and renderer. It does not touch the
// host until Bind is called. Panics if any collaborator is nil.
//
// Parameters:
//   - h: the host providing the viewport size and resize notifications
//   - cam: the camera whose aspect follows the viewport
//   - r: the renderer whose surface is mounted on the host
//   - options: functional options
//
// Returns:
//   - Binder: the binder
func NewBinder(h host.Host, cam camera.Camera, r renderer.Renderer, options ...BinderBuilderOption) Binder {
	if h == nil || cam == nil || r == nil {
		panic("viewport: NewBinder requires a host, a camera and a renderer")
	}
	b := &binder{
		mu:       &sync.Mutex{},
		host:     h,
		camera:   cam,
		renderer: r,
	}
	for _, opt := range options {
		opt(b)
	}
	b.logger = logging.OrNop(b.logger)
	return b
}

func (b *binder) Bind() error {
	b.mu.Lock()
	if b.bound {
		b.mu.Unlock()
		return ErrAlreadyBound
	}
	b.mu.Unlock()

	if err := b.host.Mount(b.renderer); err != nil {
		return fmt.Errorf("failed to mount renderer surface: %w", err)
	}

	b.mu.Lock()
	b.bound = true
	b.mu.Unlock()

	b.host.OnResize(b.Sync)
	b.Sync()
	return nil
}

func (b *binder) Sync() {
	w, h := b.host.Width(), b.host.Height()

	b.camera.SetViewport(w, h)
	b.renderer.SetSize(w, h)

	b.mu.Lock()
	changed := w != b.width || h != b.height
	b.width, b.height = w, h
	b.syncs++
	b.mu.Unlock()

	if changed {
		b.logger.Debugf("viewport %dx%d aspect %.4f", w, h, b.camera.Aspect())
	}
}

func (b *binder) Bound() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bound
}

func (b *binder) Syncs() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.syncs
}

func (b *binder) Size() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.width, b.height
}
