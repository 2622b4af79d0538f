package rngverify

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stickyGenerator repeats every value of an underlying generator n times. Each channel still
// looks uniform, but consecutive samples are perfectly correlated.
type stickyGenerator struct {
	*ReferenceGenerator
	n int
}

func (g *stickyGenerator) Fill(dst SampleBuffer, params []Distribution) error {
	if err := g.ReferenceGenerator.Fill(dst, params); err != nil {
		return err
	}
	for i := range dst.Len() * dst.Channels() {
		dst.Set(i, dst.At(i-i%g.n))
	}
	return nil
}

func TestSphereVolume(t *testing.T) {
	assert.Equal(t, 1.0, SphereVolume(0))
	assert.Equal(t, 2.0, SphereVolume(1))
	assert.InDelta(t, math.Pi, SphereVolume(2), 1e-12)
	assert.InDelta(t, 4*math.Pi/3, SphereVolume(3), 1e-12)
	assert.InDelta(t, math.Pi*math.Pi/2, SphereVolume(4), 1e-12)
	assert.InDelta(t, math.Pow(math.Pi, 5)/120, SphereVolume(10), 1e-12)
}

func TestSphereTest_Disk(t *testing.T) {
	gen := NewReferenceGenerator(2718281828)
	params := []Distribution{Uniform{Low: 0, High: 1000}}
	buf, err := NewSampleBuffer(Float64, 1, 1_200_000)
	require.NoError(t, err)
	require.NoError(t, gen.Fill(buf, params))

	ranges, ok := SphereApplicable(params)
	require.True(t, ok)
	res, err := SphereTest(buf, ranges, 2)
	require.NoError(t, err)
	assert.True(t, res.Passed)
	assert.Equal(t, 600_000, res.Tuples)
	assert.True(t, FloatsEqualWithTolerance(math.Pi, res.Estimated, 10), "estimated %g", res.Estimated)
	assert.InDelta(t, math.Pi, res.Estimated, 0.02)
}

func TestSphereTest_AcrossChannels(t *testing.T) {
	gen := NewReferenceGenerator(161803)
	params := []Distribution{
		Uniform{Low: 0, High: 256},
		Uniform{Low: 0, High: 100},
		Uniform{Low: 20, High: 200},
	}
	buf, err := NewSampleBuffer(Uint8, 3, 400_000)
	require.NoError(t, err)
	require.NoError(t, gen.Fill(buf, params))

	ranges, ok := SphereApplicable(params)
	require.True(t, ok)
	for dim := 2; dim <= 5; dim++ {
		res, err := SphereTest(buf, ranges, dim)
		require.NoError(t, err)
		assert.True(t, res.Passed, "dim %d: got %g instead of %g", dim, res.Estimated, res.Expected)
	}
}

func TestSphereTest_DetectsCorrelation(t *testing.T) {
	gen := &stickyGenerator{ReferenceGenerator: NewReferenceGenerator(11), n: 4}
	params := []Distribution{Uniform{Low: -500, High: 500}}
	buf, err := NewSampleBuffer(Float64, 1, 400_000)
	require.NoError(t, err)
	require.NoError(t, gen.Fill(buf, params))

	// the marginal distribution is still fine
	h, err := BuildHistogram(buf, 0, params[0], 1000)
	require.NoError(t, err)
	chi, err := ChiSquareTest(h.Counts, TheoreticalHistogram(1000, DistUniform), 1/float64(h.InRange), DistUniform)
	require.NoError(t, err)
	assert.True(t, chi.Passed)

	res, err := SphereTest(buf, []Uniform{{Low: -500, High: 500}}, 4)
	require.NoError(t, err)
	assert.False(t, res.Passed)
	assert.InDelta(t, 8, res.Estimated, 0.2)
}

func TestSphereApplicable(t *testing.T) {
	_, ok := SphereApplicable([]Distribution{Uniform{Low: 0, High: 100}, Uniform{Low: 0, High: 99}})
	assert.False(t, ok, "narrow channel")
	_, ok = SphereApplicable([]Distribution{Normal{Mean: 0, StdDev: 100}})
	assert.False(t, ok, "normal")
	_, ok = SphereApplicable(nil)
	assert.False(t, ok)
	r, ok := SphereApplicable([]Distribution{Uniform{Low: -1000, High: 1000}})
	assert.True(t, ok)
	assert.Equal(t, []Uniform{{Low: -1000, High: 1000}}, r)
}

func TestSphereTest_Preconditions(t *testing.T) {
	buf, _ := NewSampleBuffer(Float64, 2, 3)
	_, err := SphereTest(buf, []Uniform{{Low: 0, High: 100}}, 2)
	assert.True(t, errors.Is(err, ErrPrecondition), "range count")
	_, err = SphereTest(buf, []Uniform{{Low: 0, High: 100}, {Low: 0, High: 100}}, 0)
	assert.True(t, errors.Is(err, ErrPrecondition), "dimension")
	_, err = SphereTest(buf, []Uniform{{Low: 0, High: 100}, {Low: 0, High: 100}}, 7)
	assert.True(t, errors.Is(err, ErrPrecondition), "no complete tuple")
}
