package loop

import (
	"errors"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-stages/engine/host"
	"github.com/Carmen-Shannon/oxy-stages/engine/profiler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoopRunsOncePerRefresh(t *testing.T) {
	h := host.NewHeadless(800, 600)
	var times []time.Duration
	l := NewLoop(h, func(now time.Duration) error {
		times = append(times, now)
		return nil
	})

	require.NoError(t, l.Start())
	assert.True(t, l.Running())
	assert.Equal(t, 1, h.Pending())

	for i := 0; i < 3; i++ {
		assert.Equal(t, 1, h.Step())
	}
	assert.Equal(t, uint64(3), l.Frames())
	require.Len(t, times, 3)
	assert.Less(t, times[0], times[1])
	assert.Less(t, times[1], times[2])
}

func TestLoopKeepsExactlyOnePendingRequest(t *testing.T) {
	h := host.NewHeadless(800, 600)
	var pendingDuringFrame []int
	l := NewLoop(h, func(time.Duration) error {
		// the next frame is already requested while this one runs
		pendingDuringFrame = append(pendingDuringFrame, h.Pending())
		return nil
	})
	require.NoError(t, l.Start())

	for i := 0; i < 10; i++ {
		h.Step()
		assert.Equal(t, 1, h.Pending())
	}
	for _, n := range pendingDuringFrame {
		assert.Equal(t, 1, n)
	}
}

func TestLoopNotStartedRequestsNothing(t *testing.T) {
	h := host.NewHeadless(800, 600)
	l := NewLoop(h, func(time.Duration) error { return nil })

	assert.Equal(t, 0, h.Step())
	assert.False(t, l.Running())
	assert.Equal(t, uint64(0), l.Frames())
}

func TestLoopStartTwice(t *testing.T) {
	h := host.NewHeadless(800, 600)
	l := NewLoop(h, func(time.Duration) error { return nil })
	require.NoError(t, l.Start())
	assert.ErrorIs(t, l.Start(), ErrAlreadyStarted)
	assert.Equal(t, 1, h.Pending())

	l.Stop()
	assert.ErrorIs(t, l.Start(), ErrStopped)
}

func TestLoopStopCancelsPendingRequest(t *testing.T) {
	h := host.NewHeadless(800, 600)
	l := NewLoop(h, func(time.Duration) error { return nil })
	require.NoError(t, l.Start())
	h.Step()

	l.Stop()
	l.Stop()

	assert.False(t, l.Running())
	assert.Equal(t, 0, h.Pending())
	assert.Equal(t, 0, h.Step())
	assert.Equal(t, uint64(1), l.Frames())
	select {
	case <-l.Done():
	default:
		t.Fatal("Done not closed after Stop")
	}
}

func TestLoopStopFromInsideFrame(t *testing.T) {
	h := host.NewHeadless(800, 600)
	var l Loop
	l = NewLoop(h, func(time.Duration) error {
		if l.Frames() == 2 {
			l.Stop()
		}
		return nil
	})
	require.NoError(t, l.Start())

	for i := 0; i < 5; i++ {
		h.Step()
	}
	assert.Equal(t, uint64(2), l.Frames())
	assert.Equal(t, 0, h.Pending())
	assert.NoError(t, l.Err())
}

func TestLoopStopsOnFrameError(t *testing.T) {
	h := host.NewHeadless(800, 600)
	boom := errors.New("boom")
	calls := 0
	l := NewLoop(h, func(time.Duration) error {
		calls++
		if calls == 3 {
			return boom
		}
		return nil
	})
	require.NoError(t, l.Start())

	for i := 0; i < 10; i++ {
		h.Step()
	}

	assert.Equal(t, 3, calls, "failed frame is not retried")
	assert.ErrorIs(t, l.Err(), boom)
	assert.False(t, l.Running())
	assert.Equal(t, 0, h.Pending())
	<-l.Done()
}

func TestLoopTicksProfiler(t *testing.T) {
	h := host.NewHeadless(800, 600)
	clock := time.Unix(0, 0)
	p := profiler.NewProfiler(
		profiler.WithInterval(time.Second),
		profiler.WithClock(func() time.Time { return clock }),
	)
	l := NewLoop(h, func(time.Duration) error {
		clock = clock.Add(250 * time.Millisecond)
		return nil
	}, WithProfiler(p))
	require.NoError(t, l.Start())

	for i := 0; i < 4; i++ {
		h.Step()
	}
	s, ok := p.Last()
	require.True(t, ok)
	assert.Equal(t, 4, s.Frames)
}

func TestNewLoopPanicsWithoutCollaborators(t *testing.T) {
	assert.Panics(t, func() { NewLoop(nil, func(time.Duration) error { return nil }) })
	assert.Panics(t, func() { NewLoop(host.NewHeadless(1, 1), nil) })
}
