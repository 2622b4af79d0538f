package rngverify

import (
	"fmt"
	"math"
)

// DistKind tags the two supported distributions.
type DistKind uint8

const (
	DistUniform DistKind = iota
	DistNormal
)

func (k DistKind) String() string {
	switch k {
	case DistUniform:
		return "uniform"
	case DistNormal:
		return "normal"
	default:
		return fmt.Sprintf("DistKind(%d)", uint8(k))
	}
}

// Distribution describes what one channel of a SampleBuffer is expected to follow.
// It is implemented by Uniform and Normal only.
type Distribution interface {
	Kind() DistKind
	Validate() error
	// Bounds returns the value range covered by the channel's histogram.
	Bounds() (lo, hi float64)
	// BucketCount returns the number of histogram buckets, capped at max.
	BucketCount(max int) int
	fmt.Stringer

	isDistribution()
}

// Uniform is the uniform distribution over [Low, High).
type Uniform struct {
	Low, High float64
}

// Normal is the normal distribution with the given mean and standard deviation.
type Normal struct {
	Mean, StdDev float64
}

// normalSpan is the half width of a normal histogram in standard deviations.
const normalSpan = 4

func (Uniform) Kind() DistKind { return DistUniform }
func (Normal) Kind() DistKind  { return DistNormal }

func (Uniform) isDistribution() {}
func (Normal) isDistribution()  {}

func (u Uniform) Validate() error {
	if !(u.Low < u.High) || u.High-u.Low < 2 {
		return fmt.Errorf("%w: uniform range [%g,%g) must span at least 2", ErrPrecondition, u.Low, u.High)
	}
	return nil
}

func (n Normal) Validate() error {
	if !(n.StdDev > 0) || math.IsInf(n.StdDev, 0) || math.IsNaN(n.Mean) {
		return fmt.Errorf("%w: normal(%g,%g) needs a finite positive scale", ErrPrecondition, n.Mean, n.StdDev)
	}
	return nil
}

func (u Uniform) Bounds() (lo, hi float64) { return u.Low, u.High }

func (n Normal) Bounds() (lo, hi float64) {
	return n.Mean - normalSpan*n.StdDev, n.Mean + normalSpan*n.StdDev
}

func (u Uniform) BucketCount(max int) int {
	return clampBuckets(u.High-u.Low, max)
}

func (n Normal) BucketCount(max int) int {
	return clampBuckets(9*n.StdDev, max)
}

func clampBuckets(v float64, max int) int {
	if v >= float64(max) {
		return max
	}
	if v < 1 {
		return 1
	}
	return int(v)
}

func (u Uniform) String() string { return fmt.Sprintf("uniform[%g,%g)", u.Low, u.High) }
func (n Normal) String() string  { return fmt.Sprintf("normal(%g,%g)", n.Mean, n.StdDev) }

// validateParams checks that params has one valid entry per channel, all of the same kind.
func validateParams(params []Distribution, channels int) error {
	if len(params) != channels {
		return fmt.Errorf("%w: %d distributions for %d channels", ErrPrecondition, len(params), channels)
	}
	for c, d := range params {
		if d == nil {
			return fmt.Errorf("%w: no distribution for channel %d", ErrPrecondition, c)
		}
		if d.Kind() != params[0].Kind() {
			return fmt.Errorf("%w: channel %d is %s, channel 0 is %s", ErrPrecondition, c, d.Kind(), params[0].Kind())
		}
		if err := d.Validate(); err != nil {
			return fmt.Errorf("channel %d: %w", c, err)
		}
	}
	return nil
}
