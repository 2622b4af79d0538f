package rngverify

import "fmt"

// Config controls a validation run.
type Config struct {
	// Iterations is the number of randomized test cases.
	Iterations int
	// Samples is the number of raw samples per test case, shared by all channels.
	Samples int
	// MaxSlices is the number of fill calls the reproducibility check splits a buffer into.
	MaxSlices int
	// MaxBuckets caps the number of histogram buckets per channel.
	MaxBuckets int
	// MaxSphereDim is the largest dimension the sphere test draws; the smallest is 2.
	MaxSphereDim int
	// Seed seeds the test-case generator. Zero picks a random seed.
	Seed uint64
	// FailFast stops the run at the first failed test case.
	FailFast bool
}

// DefaultConfig returns the configuration of a full validation run.
func DefaultConfig() Config {
	return Config{
		Iterations:   500,
		Samples:      1_200_000,
		MaxSlices:    1000,
		MaxBuckets:   1000,
		MaxSphereDim: 10,
	}
}

// Validate checks the configuration for values the checks cannot work with.
func (c Config) Validate() error {
	switch {
	case c.Iterations < 0:
		return fmt.Errorf("%w: iterations %d < 0", ErrPrecondition, c.Iterations)
	case c.Samples < 4*c.MaxSphereDim:
		return fmt.Errorf("%w: %d samples are too few for %d-dimensional tuples on 4 channels", ErrPrecondition, c.Samples, c.MaxSphereDim)
	case c.MaxSlices < 1:
		return fmt.Errorf("%w: max slices %d < 1", ErrPrecondition, c.MaxSlices)
	case c.MaxBuckets < 4:
		return fmt.Errorf("%w: max buckets %d < 4", ErrPrecondition, c.MaxBuckets)
	case c.MaxSphereDim < 2:
		return fmt.Errorf("%w: max sphere dimension %d < 2", ErrPrecondition, c.MaxSphereDim)
	}
	return nil
}
