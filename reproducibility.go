package rngverify

import "fmt"

// Generator is the random number generator under test.
//
// Fill writes dst.Len()*dst.Channels() samples, where element i follows params[i%channels].
// The output must depend only on the state and on the number of samples requested so far:
// filling a buffer in one call or in several consecutive slices must give the same values.
type Generator interface {
	Fill(dst SampleBuffer, params []Distribution) error
	State() uint64
	Reset(state uint64)
}

// SlicePlan splits tuples into maxSlices consecutive slice lengths. Each slice but the last is
// drawn uniformly from what is left, so early slices tend to be long and later ones short or empty.
func SlicePlan(rng *DPRNG, tuples, maxSlices int) []int {
	if maxSlices < 1 {
		maxSlices = 1
	}
	plan := make([]int, maxSlices)
	left := tuples
	for s := range maxSlices - 1 {
		plan[s] = rng.IntN(left + 1)
		left -= plan[s]
	}
	plan[maxSlices-1] = left
	return plan
}

// CheckReproducibility fills one buffer in a single call and a second one slice by slice
// according to plan, starting both from the same generator state, and requires them to be
// identical. The single-call buffer is returned for the statistical checks.
func CheckReproducibility(gen Generator, params []Distribution, kind ElementKind, tuples int, plan []int) (SampleBuffer, error) {
	whole, err := NewSampleBuffer(kind, len(params), tuples)
	if err != nil {
		return nil, err
	}
	if err = validateParams(params, whole.Channels()); err != nil {
		return nil, err
	}
	var planned int
	for _, n := range plan {
		if n < 0 {
			return nil, fmt.Errorf("%w: negative slice length %d", ErrPrecondition, n)
		}
		planned += n
	}
	if planned != tuples {
		return nil, fmt.Errorf("%w: slice plan covers %d of %d tuples", ErrPrecondition, planned, tuples)
	}
	sliced, err := NewSampleBuffer(kind, len(params), tuples)
	if err != nil {
		return nil, err
	}

	saved := gen.State()
	if err = gen.Fill(whole, params); err != nil {
		return nil, fmt.Errorf("%w: fill: %v", ErrInvalidOutput, err)
	}
	gen.Reset(saved)
	var pos int
	for _, n := range plan {
		if err = gen.Fill(sliced.Slice(pos, pos+n), params); err != nil {
			return nil, fmt.Errorf("%w: fill of tuples [%d,%d): %v", ErrInvalidOutput, pos, pos+n, err)
		}
		pos += n
	}

	if !whole.Equal(sliced) {
		i := mismatch(whole, sliced)
		return nil, fmt.Errorf("%w: output depends on the fill lengths: element %d is %g in one call and %g in %d slices",
			ErrInvalidOutput, i, whole.At(i), sliced.At(i), len(plan))
	}
	return whole, nil
}
