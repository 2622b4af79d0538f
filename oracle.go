package rngverify

import "math"

// TheoreticalHistogram returns the expected probability of each of buckets equal-width buckets
// for the given distribution kind. The result sums to 1.
//
// The normal histogram spans ±4 standard deviations and samples exp(-x²) at the bucket
// positions instead of integrating the density over each bucket; the difference is well inside
// the tolerance ChiSquareTest applies.
func TheoreticalHistogram(buckets int, kind DistKind) []float64 {
	if buckets < 1 {
		return nil
	}
	h := make([]float64, buckets)
	if kind == DistUniform || buckets == 1 {
		p := 1 / float64(buckets)
		for i := range h {
			h[i] = p
		}
		return h
	}

	r := float64(buckets-1) / 2
	alpha := 2 * math.Sqrt2 / r
	beta := -alpha * r
	var sum float64
	for i := range h {
		x := float64(i)*alpha + beta
		h[i] = math.Exp(-x * x)
		sum += h[i]
	}
	for i := range h {
		h[i] /= sum
	}
	return h
}
