// Package animator advances per-entity state once per rendered frame.
package animator

import (
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

// Rotator is anything whose Euler angles can be incremented. mesh.Mesh satisfies it.
type Rotator interface {
	Rotate(dx, dy, dz float32)
}

// Track spins one target by Increment radians per frame about each axis.
type Track struct {
	Name      string
	Target    Rotator
	Increment mgl32.Vec3
}

// animator is the implementation of the Animator interface.
type animator struct {
	mu *sync.Mutex

	rate   Rate
	tracks []Track

	frames  uint64
	lastNow time.Duration
	started bool
}

// Animator owns the per-frame animation tracks of a scene.
//
// Advance is called from the frame callback on the host goroutine. Under FixedStep, after
// n calls every target has moved by exactly n times its increment.
type Animator interface {
	// Rate returns the active rate.
	//
	// Returns:
	//   - Rate: the rate used to scale increments
	Rate() Rate

	// SetRate replaces the rate. Takes effect on the next Advance.
	//
	// Parameters:
	//   - r: the new rate (nil selects FixedStep)
	SetRate(r Rate)

	// AddTrack appends a track. Panics if the target is nil.
	//
	// Parameters:
	//   - t: the track to add
	AddTrack(t Track)

	// Tracks returns a copy of the registered tracks.
	//
	// Returns:
	//   - []Track: the tracks in insertion order
	Tracks() []Track

	// Advance applies one frame of motion to every track.
	//
	// Parameters:
	//   - now: the host's frame timestamp, used by time-normalized rates
	Advance(now time.Duration)

	// Frames returns the number of Advance calls so far.
	//
	// Returns:
	//   - uint64: the frame count
	Frames() uint64
}

var _ Animator = &animator{}

// NewAnimator creates an Animator using FixedStep unless configured otherwise.
//
// Parameters:
//   - options: functional options to configure the animator
//
// Returns:
//   - Animator: the new animator
func NewAnimator(options ...AnimatorBuilderOption) Animator {
	a := &animator{
		mu:   &sync.Mutex{},
		rate: FixedStep(),
	}
	for _, opt := range options {
		opt(a)
	}
	return a
}

func (a *animator) Rate() Rate {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.rate
}

func (a *animator) SetRate(r Rate) {
	if r == nil {
		r = FixedStep()
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.rate = r
}

func (a *animator) AddTrack(t Track) {
	if t.Target == nil {
		panic("animator: AddTrack requires a non-nil Target")
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.tracks = append(a.tracks, t)
}

func (a *animator) Tracks() []Track {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Track, len(a.tracks))
	copy(out, a.tracks)
	return out
}

func (a *animator) Advance(now time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()

	var delta time.Duration
	if a.started && now > a.lastNow {
		delta = now - a.lastNow
	}
	a.started = true
	a.lastNow = now
	a.frames++

	k := a.rate.Factor(delta)
	if k == 0 {
		return
	}
	for _, t := range a.tracks {
		inc := t.Increment
		if k != 1 {
			inc = inc.Mul(k)
		}
		t.Target.Rotate(inc[0], inc[1], inc[2])
	}
}

func (a *animator) Frames() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.frames
}
