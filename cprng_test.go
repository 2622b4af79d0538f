package rngverify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCPRNG_Refill(t *testing.T) {
	c := NewCPRNG(16)
	if len(c.buf) == 0 {
		t.Fatal("buffer not initialized")
	}
	for range 100_000 {
		switch c.Uint8() % 3 {
		case 0:
			_ = c.Uint64()
		case 1:
			_ = c.Uint32()
		case 2:
			_ = c.Uint8()
		}
		assert.LessOrEqual(t, int(c.bufPos), len(c.buf))
	}
}

func TestCPRNG_MinimumBuffer(t *testing.T) {
	c := NewCPRNG(1)
	assert.Len(t, c.buf, 8)
	_ = c.Uint64()
}

func TestCPRNG_Seed_NonZero(t *testing.T) {
	c := NewCPRNG(64)
	for range 10_000 {
		if c.Seed() == 0 {
			t.Fatal("Seed returned 0")
		}
	}
}

func TestCPRNG_Uint32N_Bounds(t *testing.T) {
	c := NewCPRNG(8192)
	max := ^uint32(0)
	cases := []uint32{0, 1, 2, 3, 10, 65535, 1 << 31, max}
	for _, n := range cases {
		for i := 0; i < 10000; i++ {
			v := c.Uint32N(n)
			if n <= 1 {
				if v != 0 {
					t.Fatalf("Uint32N(%d) = %d; want 0", n, v)
				}
			} else if v >= n {
				t.Fatalf("Uint32N(%d) = %d; out of range", n, v)
			}
		}
	}
}

// TestCPRNG_Uint8_Uniformity runs the validator's own goodness-of-fit test on 2^20 bytes from
// crypto/rand. A failure here points at the chi-square machinery rather than at the source.
func TestCPRNG_Uint8_Uniformity(t *testing.T) {
	const samples = 1 << 20
	const bins = 256
	c := NewCPRNG(8192)

	counts := make([]int, bins)
	for range samples {
		counts[c.Uint8()]++
	}

	res, err := ChiSquareTest(counts, TheoreticalHistogram(bins, DistUniform), 1.0/samples, DistUniform)
	require.NoError(t, err)
	assert.True(t, res.Passed, "χ²=%g threshold=%g", res.Statistic, res.Threshold)
	t.Logf("χ² test result: statistic=%g threshold=%g df=%d", res.Statistic, res.Threshold, res.DF)
}
