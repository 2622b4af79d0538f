package rngverify

import (
	"fmt"
	"strings"
)

// TestCase is one randomized configuration the validator runs a generator against.
type TestCase struct {
	Kind     ElementKind
	Channels int
	Dist     DistKind
	// Params holds one distribution per channel, all of kind Dist.
	Params []Distribution
	// Tuples is the buffer length; the case draws Tuples*Channels samples.
	Tuples int
}

func (tc TestCase) String() string {
	params := make([]string, len(tc.Params))
	for i, p := range tc.Params {
		params[i] = p.String()
	}
	return fmt.Sprintf("%sx%d %s [%s] n=%d", tc.Kind, tc.Channels, tc.Dist, strings.Join(params, " "), tc.Tuples)
}

// Validate checks that tc is internally consistent.
func (tc TestCase) Validate() error {
	if !tc.Kind.Valid() {
		return fmt.Errorf("%w: unknown element kind %d", ErrPrecondition, uint8(tc.Kind))
	}
	if tc.Channels < 1 || tc.Channels > 4 {
		return fmt.Errorf("%w: channel count %d not in [1,4]", ErrPrecondition, tc.Channels)
	}
	if tc.Tuples < 1 {
		return fmt.Errorf("%w: tuple count %d < 1", ErrPrecondition, tc.Tuples)
	}
	if err := validateParams(tc.Params, tc.Channels); err != nil {
		return err
	}
	if tc.Params[0].Kind() != tc.Dist {
		return fmt.Errorf("%w: case is %s but channels are %s", ErrPrecondition, tc.Dist, tc.Params[0].Kind())
	}
	return nil
}

// NewTestCase draws a random test case from rng.
//
// Uniform ranges lie inside the kind's value range and are more than one unit wide.
// Normal means lie in the middle sixteenth of the value range, and the scale is drawn from
// [max(range/20, 5), min(range/8, 10000)).
func NewTestCase(rng *DPRNG, cfg Config) TestCase {
	kind := ElementKind(rng.IntN(numElementKinds))
	cn := rng.IntN(4) + 1
	dist := DistKind(rng.IntN(2))
	tc := TestCase{
		Kind:     kind,
		Channels: cn,
		Dist:     dist,
		Params:   make([]Distribution, cn),
		Tuples:   cfg.Samples / cn,
	}

	lo, hi := kind.ValueRange()
	vrange := hi - lo
	for c := range cn {
		switch dist {
		case DistUniform:
			a := rng.IntN(vrange) + lo
			b := rng.IntN(vrange) + lo
			for abs(a-b) <= 1 {
				b = rng.IntN(vrange) + lo
			}
			if a > b {
				a, b = b, a
			}
			tc.Params[c] = Uniform{Low: float64(a), High: float64(b)}
		case DistNormal:
			meanRange := vrange / 16
			minDiv := max(vrange/20, 5)
			maxDiv := min(vrange/8, 10000)
			if maxDiv <= minDiv {
				minDiv = maxDiv / 2
			}
			mean := rng.IntN(meanRange) - meanRange/2 + (lo+hi)/2
			scale := rng.IntN(maxDiv-minDiv) + minDiv
			tc.Params[c] = Normal{Mean: float64(mean), StdDev: float64(scale)}
		}
	}
	return tc
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
