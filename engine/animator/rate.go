package animator

import "time"

// RateType identifies how per-frame increments are scaled.
type RateType int

const (
	// RateTypeFixedStep applies each increment once per frame, coupling motion speed to the
	// display refresh rate.
	RateTypeFixedStep RateType = iota

	// RateTypePerSecond scales increments by elapsed time so motion speed is independent of
	// the refresh rate.
	RateTypePerSecond
)

// DefaultReferenceHz is the refresh rate at which a PerSecond rate matches FixedStep.
const DefaultReferenceHz = 60

// Rate converts the time since the previous frame into a multiplier for per-frame increments.
type Rate interface {
	// Type returns the kind of rate.
	//
	// Returns:
	//   - RateType: fixed step or per second
	Type() RateType

	// Factor returns the multiplier applied to every track increment for one frame.
	//
	// Parameters:
	//   - delta: time since the previous frame, zero on the first frame
	//
	// Returns:
	//   - float32: the increment multiplier
	Factor(delta time.Duration) float32
}

type fixedStep struct{}

// FixedStep returns the frame-coupled rate: every frame advances each track by exactly its
// increment, whatever the elapsed time.
func FixedStep() Rate {
	return fixedStep{}
}

func (fixedStep) Type() RateType {
	return RateTypeFixedStep
}

func (fixedStep) Factor(time.Duration) float32 {
	return 1
}

type perSecond struct {
	referenceHz float64
}

// PerSecond returns a time-normalized rate. Increments keep their per-frame meaning at
// referenceHz: a frame that took 1/referenceHz seconds advances by exactly one increment.
// Non-positive values fall back to DefaultReferenceHz.
//
// Parameters:
//   - referenceHz: the refresh rate the increments were authored for
//
// Returns:
//   - Rate: the time-normalized rate
func PerSecond(referenceHz float64) Rate {
	if referenceHz <= 0 {
		referenceHz = DefaultReferenceHz
	}
	return perSecond{referenceHz: referenceHz}
}

func (perSecond) Type() RateType {
	return RateTypePerSecond
}

func (p perSecond) Factor(delta time.Duration) float32 {
	return float32(delta.Seconds() * p.referenceHz)
}
