package rngverify

import (
	"fmt"
	"math"
)

const (
	// sphereMinWidth is the narrowest uniform range the sphere test runs on.
	sphereMinWidth = 100
	// sphereTolerance is the accepted relative error of the volume estimate.
	sphereTolerance = 0.1
)

// SphereResult is the outcome of SphereTest.
type SphereResult struct {
	Dim       int
	Inside    int
	Tuples    int
	Estimated float64
	Expected  float64
	Passed    bool
}

// SphereVolume returns the volume of the unit ball in dim dimensions.
func SphereVolume(dim int) float64 {
	k := dim % 2
	v := float64(k + 1)
	for k += 2; k <= dim; k += 2 {
		v *= 2 * math.Pi / float64(k)
	}
	return v
}

// SphereApplicable reports whether the sphere test can run on params and returns them as
// uniform ranges. Every channel has to be uniform and at least sphereMinWidth wide.
func SphereApplicable(params []Distribution) ([]Uniform, bool) {
	if len(params) == 0 {
		return nil, false
	}
	ranges := make([]Uniform, len(params))
	for c, d := range params {
		u, ok := d.(Uniform)
		if !ok || u.High-u.Low < sphereMinWidth {
			return nil, false
		}
		ranges[c] = u
	}
	return ranges, true
}

// SphereTest estimates the volume of the unit ball inscribed in [-1,1]^dim by reading buf as a
// stream of dim-tuples, mapping every coordinate from its channel's range onto [-1,1] and
// counting the tuples that fall inside the ball. Tuples run across channel boundaries, so the
// test also catches correlation between consecutive outputs.
func SphereTest(buf SampleBuffer, ranges []Uniform, dim int) (SphereResult, error) {
	cn := buf.Channels()
	if len(ranges) != cn {
		return SphereResult{}, fmt.Errorf("%w: %d ranges for %d channels", ErrPrecondition, len(ranges), cn)
	}
	if dim < 1 {
		return SphereResult{}, fmt.Errorf("%w: dimension %d < 1", ErrPrecondition, dim)
	}
	n := buf.Len() * cn
	tuples := n / dim
	if tuples == 0 {
		return SphereResult{}, fmt.Errorf("%w: %d samples do not make a single %d-tuple", ErrPrecondition, n, dim)
	}

	scale := make([]float64, cn)
	delta := make([]float64, cn)
	for c, u := range ranges {
		if err := u.Validate(); err != nil {
			return SphereResult{}, fmt.Errorf("channel %d: %w", c, err)
		}
		scale[c] = 2 / (u.High - u.Low)
		delta[c] = -u.Low*scale[c] - 1
	}

	var inside int
	i, c := 0, 0
	for range tuples {
		var r2 float64
		for range dim {
			v := buf.At(i)*scale[c] + delta[c]
			r2 += v * v
			i++
			if c++; c == cn {
				c = 0
			}
		}
		if r2 <= 1 {
			inside++
		}
	}

	res := SphereResult{
		Dim:       dim,
		Inside:    inside,
		Tuples:    tuples,
		Estimated: float64(inside) / float64(tuples) * math.Ldexp(1, dim),
		Expected:  SphereVolume(dim),
	}
	res.Passed = math.Abs(res.Estimated-res.Expected) <= sphereTolerance*math.Abs(res.Expected)
	return res, nil
}
