package host

import (
	"sync"
	"time"
)

type frameRequest struct {
	id FrameID
	fn FrameCallback
}

// Dispatcher holds the pending frame requests and resize subscriptions of a host and
// delivers them in host order: queued resize notifications first, then the frame callbacks
// that were requested before the dispatch began. Callbacks requested while dispatching run on
// the next dispatch, so a callback that re-arms itself runs once per refresh.
type Dispatcher struct {
	mu *sync.Mutex

	nextID  FrameID
	order   []FrameID
	pending map[FrameID]FrameCallback

	resizeSubs    []func()
	resizePending bool

	mounted bool
}

// NewDispatcher creates an empty Dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		mu:      &sync.Mutex{},
		pending: make(map[FrameID]FrameCallback),
	}
}

// OnResize adds a resize subscriber.
func (d *Dispatcher) OnResize(fn func()) {
	if fn == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.resizeSubs = append(d.resizeSubs, fn)
}

// NotifyResize queues a resize notification for the next dispatch. Several size changes
// between two dispatches collapse into one notification.
func (d *Dispatcher) NotifyResize() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.resizePending = true
}

func (d *Dispatcher) RequestFrame(fn FrameCallback) FrameID {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	id := d.nextID
	d.pending[id] = fn
	d.order = append(d.order, id)
	return id
}

func (d *Dispatcher) CancelFrame(id FrameID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.pending, id)
}

// Pending returns the number of frame requests waiting for a dispatch.
func (d *Dispatcher) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// Mount attaches s on behalf of h, enforcing the single-mount rule.
//
// Parameters:
//   - h: the host the surface is mounted on
//   - s: the surface
//
// Returns:
//   - error: ErrSurfaceMounted if a surface was already mounted, or the surface's mount error
func (d *Dispatcher) Mount(h Host, s Surface) error {
	d.mu.Lock()
	if d.mounted {
		d.mu.Unlock()
		return ErrSurfaceMounted
	}
	d.mounted = true
	d.mu.Unlock()

	if err := s.Mount(h); err != nil {
		d.mu.Lock()
		d.mounted = false
		d.mu.Unlock()
		return err
	}
	return nil
}

// Dispatch delivers a queued resize notification to every subscriber, then runs each frame
// callback requested before the call. Callbacks run without the lock held.
//
// Parameters:
//   - now: the timestamp passed to frame callbacks
//
// Returns:
//   - int: the number of frame callbacks run
func (d *Dispatcher) Dispatch(now time.Duration) int {
	d.mu.Lock()
	var subs []func()
	if d.resizePending {
		d.resizePending = false
		subs = append(subs, d.resizeSubs...)
	}
	order := d.order
	d.order = nil
	d.mu.Unlock()

	for _, fn := range subs {
		fn()
	}

	ran := 0
	for _, id := range order {
		d.mu.Lock()
		fn, ok := d.pending[id]
		delete(d.pending, id)
		d.mu.Unlock()
		if !ok {
			continue
		}
		fn(now)
		ran++
	}
	return ran
}
