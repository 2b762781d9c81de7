package host

import (
	"context"
	"sync"
	"time"
)

// Headless is a Host without a window. Size changes are injected with Resize and refreshes
// are driven either manually with Step or by Run on a ticker.
type Headless struct {
	*Dispatcher

	mu *sync.Mutex

	width  int
	height int

	refreshInterval time.Duration
	frameLimit      uint64
	steps           uint64
	elapsed         time.Duration

	surface Surface
	closed  bool
}

var _ Host = &Headless{}

// HeadlessBuilderOption is a functional option for configuring a Headless host.
type HeadlessBuilderOption func(*Headless)

// WithRefreshRate sets the refresh rate Run steps at. Values <= 0 keep the 60Hz default.
//
// Parameters:
//   - hz: refreshes per second
//
// Returns:
//   - HeadlessBuilderOption: option function to apply
func WithRefreshRate(hz float64) HeadlessBuilderOption {
	return func(h *Headless) {
		if hz > 0 {
			h.refreshInterval = time.Duration(float64(time.Second) / hz)
		}
	}
}

// WithFrameLimit makes Run return after n refreshes. 0 means unlimited.
//
// Parameters:
//   - n: number of refreshes
//
// Returns:
//   - HeadlessBuilderOption: option function to apply
func WithFrameLimit(n uint64) HeadlessBuilderOption {
	return func(h *Headless) {
		h.frameLimit = n
	}
}

// NewHeadless creates a headless host with the given initial viewport size.
//
// Parameters:
//   - width, height: initial viewport size in pixels
//   - options: functional options
//
// Returns:
//   - *Headless: the host
func NewHeadless(width, height int, options ...HeadlessBuilderOption) *Headless {
	h := &Headless{
		Dispatcher:      NewDispatcher(),
		mu:              &sync.Mutex{},
		width:           width,
		height:          height,
		refreshInterval: time.Second / 60,
	}
	for _, opt := range options {
		opt(h)
	}
	return h
}

func (h *Headless) Width() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.width
}

func (h *Headless) Height() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.height
}

// Resize changes the viewport size and queues a resize notification for the next Step.
func (h *Headless) Resize(width, height int) {
	h.mu.Lock()
	h.width = width
	h.height = height
	h.mu.Unlock()
	h.NotifyResize()
}

func (h *Headless) Mount(s Surface) error {
	if err := h.Dispatcher.Mount(h, s); err != nil {
		return err
	}
	h.mu.Lock()
	h.surface = s
	h.mu.Unlock()
	return nil
}

// Surface returns the mounted surface, or nil.
func (h *Headless) Surface() Surface {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.surface
}

// Step performs one refresh: queued resize notifications, then pending frame callbacks.
//
// Returns:
//   - int: number of frame callbacks run
func (h *Headless) Step() int {
	h.mu.Lock()
	h.steps++
	h.elapsed += h.refreshInterval
	now := h.elapsed
	h.mu.Unlock()
	return h.Dispatch(now)
}

// Steps returns how many refreshes have been performed.
func (h *Headless) Steps() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.steps
}

// Close makes a running Run return nil.
func (h *Headless) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
}

func (h *Headless) isDone() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed || (h.frameLimit > 0 && h.steps >= h.frameLimit)
}

func (h *Headless) Run(ctx context.Context) error {
	ticker := time.NewTicker(h.refreshInterval)
	defer ticker.Stop()

	for !h.isDone() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			h.Step()
		}
	}
	return nil
}
