package rngverify

import (
	"fmt"
	"math"
)

// Histogram holds the bucket counts of one channel together with the affine map
// index = floor(value*Scale + Offset) that produced them.
type Histogram struct {
	Counts []int
	Scale  float64
	Offset float64

	// InRange is the number of samples that landed in a bucket, OutOfRange the number that did not.
	InRange    int
	OutOfRange int
}

// Total returns the number of samples that were binned, in range or not.
func (h *Histogram) Total() int {
	return h.InRange + h.OutOfRange
}

// NewHistogram returns an empty histogram with buckets equal-width buckets covering d.Bounds().
func NewHistogram(d Distribution, buckets int) (*Histogram, error) {
	if buckets < 1 {
		return nil, fmt.Errorf("%w: bucket count %d < 1", ErrPrecondition, buckets)
	}
	lo, hi := d.Bounds()
	if !(hi > lo) {
		return nil, fmt.Errorf("%w: empty histogram range [%g,%g)", ErrPrecondition, lo, hi)
	}
	scale := float64(buckets) / (hi - lo)
	return &Histogram{
		Counts: make([]int, buckets),
		Scale:  scale,
		Offset: -lo * scale,
	}, nil
}

// BuildHistogram bins every sample of the given channel of buf. Samples whose bucket index
// falls outside the histogram are counted in OutOfRange, except that a floating-point sample
// equal to the upper bound of a uniform distribution is credited to the last bucket.
func BuildHistogram(buf SampleBuffer, channel int, d Distribution, buckets int) (*Histogram, error) {
	cn := buf.Channels()
	if channel < 0 || channel >= cn {
		return nil, fmt.Errorf("%w: channel %d not in [0,%d)", ErrPrecondition, channel, cn)
	}
	h, err := NewHistogram(d, buckets)
	if err != nil {
		return nil, err
	}

	_, upper := d.Bounds()
	creditUpper := d.Kind() == DistUniform && buf.Kind().IsFloat()
	last := len(h.Counts) - 1

	n := buf.Len() * cn
	for i := channel; i < n; i += cn {
		v := buf.At(i)
		idx := math.Floor(v*h.Scale + h.Offset)
		switch {
		case idx >= 0 && idx <= float64(last):
			h.Counts[int(idx)]++
			h.InRange++
		case creditUpper && v == upper:
			h.Counts[last]++
			h.InRange++
		default:
			h.OutOfRange++
		}
	}
	return h, nil
}
