// Package loop drives a per-frame callback off a host's refresh scheduler.
package loop

import (
	"errors"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-stages/engine/host"
	"github.com/Carmen-Shannon/oxy-stages/engine/logging"
	"github.com/Carmen-Shannon/oxy-stages/engine/profiler"
)

var (
	// ErrAlreadyStarted is returned by a second call to Start.
	ErrAlreadyStarted = errors.New("loop: already started")

	// ErrStopped is returned by Start after the loop was stopped.
	ErrStopped = errors.New("loop: stopped")
)

// FrameFunc is the body of one frame. A non-nil error stops the loop.
type FrameFunc func(now time.Duration) error

// loop is the implementation of the Loop interface.
type loop struct {
	mu *sync.Mutex

	host     host.Host
	frameFn  FrameFunc
	profiler *profiler.Profiler
	logger   logging.Logger

	started bool
	stopped bool
	pending host.FrameID
	frames  uint64
	err     error

	done     chan struct{}
	doneOnce *sync.Once
}

// Loop is a handle on a running render loop. While running it keeps exactly one frame request
// pending on the host: every frame re-arms before doing its work.
type Loop interface {
	// Start requests the first frame. Frames then run once per host refresh until Stop is called
	// or a frame returns an error.
	//
	// Returns:
	//   - error: ErrAlreadyStarted or ErrStopped when the loop cannot start
	Start() error

	// Stop cancels the pending frame request and closes Done. Safe to call more than once and
	// from any goroutine, including from inside a frame.
	Stop()

	// Running reports whether the loop has started and not stopped.
	Running() bool

	// Frames returns the number of frames run so far.
	Frames() uint64

	// Err returns the error that stopped the loop, or nil.
	Err() error

	// Done is closed once the loop stops.
	Done() <-chan struct{}
}

var _ Loop = &loop{}

// LoopBuilderOption is a functional option for configuring a Loop.
type LoopBuilderOption func(*loop)

// WithProfiler ticks p once per frame.
//
// Parameters:
//   - p: the profiler
//
// Returns:
//   - LoopBuilderOption: option function to apply
func WithProfiler(p *profiler.Profiler) LoopBuilderOption {
	return func(l *loop) {
		l.profiler = p
	}
}

// WithLogger sets the logger frame failures are reported to.
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - LoopBuilderOption: option function to apply
func WithLogger(logger logging.Logger) LoopBuilderOption {
	return func(l *loop) {
		l.logger = logger
	}
}

// NewLoop creates a stopped loop that will run fn on h's refresh scheduler. Panics if h or fn
// is nil.
//
// Parameters:
//   - h: the host scheduling frames
//   - fn: the frame body
//   - options: functional options
//
// Returns:
//   - Loop: the loop handle
func NewLoop(h host.Host, fn FrameFunc, options ...LoopBuilderOption) Loop {
	if h == nil || fn == nil {
		panic("loop: NewLoop requires a host and a frame function")
	}
	l := &loop{
		mu:       &sync.Mutex{},
		host:     h,
		frameFn:  fn,
		done:     make(chan struct{}),
		doneOnce: &sync.Once{},
	}
	for _, opt := range options {
		opt(l)
	}
	l.logger = logging.OrNop(l.logger)
	return l
}

func (l *loop) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.stopped {
		return ErrStopped
	}
	if l.started {
		return ErrAlreadyStarted
	}
	l.started = true
	l.pending = l.host.RequestFrame(l.tick)
	return nil
}

// tick runs on the host goroutine.
func (l *loop) tick(now time.Duration) {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return
	}
	l.pending = l.host.RequestFrame(l.tick)
	l.frames++
	frame := l.frames
	l.mu.Unlock()

	if err := l.frameFn(now); err != nil {
		// A frame racing a concurrent Stop may fail on torn down resources; only failures of
		// a live loop are recorded.
		l.mu.Lock()
		live := !l.stopped
		if live && l.err == nil {
			l.err = err
		}
		l.mu.Unlock()
		if live {
			l.logger.Errorf("frame %d failed, stopping loop: %v", frame, err)
		}
		l.Stop()
		return
	}

	if l.profiler != nil {
		l.profiler.Tick()
	}
}

func (l *loop) Stop() {
	l.mu.Lock()
	if !l.stopped {
		l.stopped = true
		if l.pending != 0 {
			l.host.CancelFrame(l.pending)
			l.pending = 0
		}
	}
	l.mu.Unlock()

	l.doneOnce.Do(func() {
		close(l.done)
	})
}

func (l *loop) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.started && !l.stopped
}

func (l *loop) Frames() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.frames
}

func (l *loop) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

func (l *loop) Done() <-chan struct{} {
	return l.done
}
