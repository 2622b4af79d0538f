package rngverify

import (
	"fmt"
	"math"
)

// chiSquareTolerance scales the 95% critical value into the threshold the statistic
// below is compared with. The statistic is computed on probabilities, not counts.
const chiSquareTolerance = 0.01

// float32Epsilon is the machine epsilon of float32 (FLT_EPSILON).
const float32Epsilon = 1.1920929e-07

// float64Epsilon is the machine epsilon of float64 (DBL_EPSILON).
const float64Epsilon = 2.220446049250313e-16

// ChiSquareResult is the outcome of ChiSquareTest.
type ChiSquareResult struct {
	Statistic float64
	// Threshold is CriticalValue95(DF) scaled by the test tolerance.
	Threshold float64
	DF        int
	Passed    bool
}

// Ratio returns Statistic/Threshold; values above 1 fail.
func (r ChiSquareResult) Ratio() float64 {
	if r.Threshold == 0 {
		return math.Inf(1)
	}
	return r.Statistic / r.Threshold
}

// ChiSquareTest compares the observed bucket counts with the expected bucket probabilities.
//
// scale must be 1/Σcounts; it is passed separately so callers normalising by their own
// in-range counter get a consistency check for free. The statistic is
//
//	Σ (a_i - b_i)² / (a_i + b_i)
//
// with a_i the expected and b_i the observed probability, skipping buckets with negligible
// expected mass. Two degrees of freedom are removed for the normal distribution, whose mean and
// scale are estimated.
func ChiSquareTest(counts []int, expected []float64, scale float64, kind DistKind) (ChiSquareResult, error) {
	if len(counts) == 0 || len(counts) != len(expected) {
		return ChiSquareResult{}, fmt.Errorf("%w: %d observed vs %d expected buckets", ErrPrecondition, len(counts), len(expected))
	}
	var sum int
	for i, c := range counts {
		if c < 0 {
			return ChiSquareResult{}, fmt.Errorf("%w: negative count %d in bucket %d", ErrPrecondition, c, i)
		}
		sum += c
	}
	if sum == 0 {
		return ChiSquareResult{}, fmt.Errorf("%w: empty histogram", ErrPrecondition)
	}
	if math.Abs(1/float64(sum)-scale) >= float32Epsilon {
		return ChiSquareResult{}, fmt.Errorf("%w: scale %g does not normalise %d samples", ErrPrecondition, scale, sum)
	}

	var chi2 float64
	for i, a := range expected {
		b := float64(counts[i]) * scale
		if a > float64Epsilon {
			chi2 += (a - b) * (a - b) / (a + b)
		}
	}

	df := len(counts) - 1
	if kind == DistNormal {
		df -= 2
	}
	critical, err := CriticalValue95(df)
	if err != nil {
		return ChiSquareResult{}, err
	}
	threshold := critical * chiSquareTolerance
	return ChiSquareResult{
		Statistic: chi2,
		Threshold: threshold,
		DF:        df,
		Passed:    chi2 <= threshold,
	}, nil
}
