package rngverify

import (
	"fmt"
	"math"
	"math/rand/v2"
	"testing"

	set3 "github.com/TomTonic/Set3"
	"github.com/stretchr/testify/assert"
)

func TestNewDPRNG_NoSeed_GeneratesNonZero(t *testing.T) {
	prng := NewDPRNG()
	if prng.State == 0 {
		t.Errorf("Expected non-zero state when no seed is provided, got 0")
	}
}

func TestNewDPRNG_ZeroSeed_GeneratesNonZero(t *testing.T) {
	prng := NewDPRNG(0)
	if prng.State == 0 {
		t.Errorf("Expected non-zero state when seed is 0, got 0")
	}
}

func TestNewDPRNG_WithValidSeed(t *testing.T) {
	seed := uint64(42)
	prng := NewDPRNG(seed)
	if prng.State != seed {
		t.Errorf("Expected state %d, got %d", seed, prng.State)
	}
	prng = NewDPRNG(0, seed)
	assert.Equal(t, seed, prng.State, "first non-zero seed should be used")
}

func TestPrngSeqLength(t *testing.T) {
	state := NewDPRNG(0x1234567890ABCDEF)
	limit := uint32(1_000_000)
	set := set3.EmptyWithCapacity[uint64](limit * 7 / 5)
	counter := uint32(0)
	for set.Size() < limit {
		set.Add(state.Uint64())
		counter++
	}
	assert.True(t, counter == limit, "sequence < limit")
}

func TestPrngDeterminism(t *testing.T) {
	state1 := NewDPRNG(0x1234567890ABCDEF)
	state2 := NewDPRNG(0x1234567890ABCDEF)
	limit := 1_000_000
	for i := range limit {
		v1 := state1.Uint64()
		v2 := state2.Uint64()
		if v1 != v2 {
			t.Fatalf("out of sync: values not equal in round %d", i)
		}
	}
	_ = state2.Uint64() // skip one value to get both prng out of sync
	for i := range limit {
		v1 := state1.Uint64()
		v2 := state2.Uint64()
		if v1 == v2 {
			t.Fatalf("in sync: values equal in round %d", i)
		}
	}
	assert.Equal(t, state1.Round+1, state2.Round)
}

func TestFloat64Range(t *testing.T) {
	rng := NewDPRNG(0x1234567890ABCDEF)
	for range 100_000 {
		x := rng.Float64()
		if x < 0.0 || x >= 1.0 || math.IsNaN(x) || math.IsInf(x, 0) {
			t.Errorf("Float64 out of range: %f", x)
		}
	}
}

func TestFloat64Distribution(t *testing.T) {
	rng := NewDPRNG(0x1234567890ABCDEF)
	N := 1_000_000
	var sum float64
	for range N {
		sum += rng.Float64()
	}
	mean := sum / float64(N)
	if math.Abs(mean-0.5) > 0.01 {
		t.Errorf("Mean too far from 0.5: got %.5f", mean)
	}
}

// TestUInt32N_Frequencies draws 10_000_000 samples for several n values and
// checks that each bucket's observed frequency is within 2% relative error of 1/n.
func TestUInt32N_Frequencies(t *testing.T) {
	cases := []uint32{13, 64, 100}
	const samples = 10_000_000
	const maxRel = 0.02

	for _, n := range cases {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			rng := NewDPRNG(0xDEADBEEFCAFEBABE)
			counts := make([]uint32, n)
			for range samples {
				counts[rng.UInt32N(n)]++
			}

			expected := float64(samples) / float64(n)
			for i := 0; i < int(n); i++ {
				rel := math.Abs(float64(counts[i])-expected) / expected
				if rel > maxRel {
					t.Fatalf("n=%d bucket %d relative deviation too large: %.4f > %.4f (obs=%d expected=%.2f)", n, i, rel, maxRel, counts[i], expected)
				}
			}
		})
	}
}

func TestUInt32N_Degenerate(t *testing.T) {
	rng := NewDPRNG(7)
	for range 1000 {
		assert.Equal(t, uint32(0), rng.UInt32N(0))
		assert.Equal(t, uint32(0), rng.UInt32N(1))
	}
}

// TestDPRNG_AsRandSource checks that DPRNG drives math/rand/v2 the way ReferenceGenerator uses it.
func TestDPRNG_AsRandSource(t *testing.T) {
	r1 := rand.New(NewDPRNG(99))
	r2 := rand.New(NewDPRNG(99))
	for range 10_000 {
		assert.Equal(t, r1.NormFloat64(), r2.NormFloat64())
	}
}
