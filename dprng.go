package rngverify

// DPRNG is a Deterministic Pseudo-Random Number Generator based on the xorshift* algorithm
// (see https://en.wikipedia.org/wiki/Xorshift#xorshift*).
// This randum number generator is deterministic in the sequence of numbers it generates. It has a period of 2^64-1.
// The validator uses it for everything that has to be replayable: drawing test cases, slice plans and
// sphere dimensions, and as the stream behind ReferenceGenerator.
// This randum number generator is not cryptographically secure.
// This randum number generator is not thread-safe.
// The initial state must not be zero.
type DPRNG struct {
	State uint64
	Round uint64 // for debugging purposes
}

// NewDPRNG returns a DPRNG seeded with the first non-zero value in seed.
// Without a usable seed the state is drawn from a CPRNG.
func NewDPRNG(seed ...uint64) *DPRNG {
	for _, s := range seed {
		if s != 0 {
			return &DPRNG{State: s}
		}
	}
	return &DPRNG{State: NewCPRNG(64).Seed()}
}

// This function returns the next pseudo-random number in the sequence.
// It has a deterministic (i.e. constant) runtime and a high probability to be inlined by the compiler.
// DPRNG satisfies math/rand/v2.Source through this method.
func (thisState *DPRNG) Uint64() uint64 {
	x := thisState.State
	x ^= x >> 12
	x ^= x << 25
	x ^= x >> 27
	thisState.State = x
	thisState.Round++
	return x * 0x2545F4914F6CDD1D
}

// Float64 returns a uniformly distributed float64 in [0.0, 1.0).
// 52 random bits fill the mantissa, so 1.0 is never returned.
func (thisState *DPRNG) Float64() float64 {
	u := thisState.Uint64() >> 12
	return float64(u) / (1 << 52)
}

// UInt32N returns a pseudo-random number in the half-open interval [0,n) without modulo bias.
// For n=0 and n=1, UInt32N returns 0.
// See https://lemire.me/blog/2016/06/30/fast-random-shuffling
func (thisState *DPRNG) UInt32N(n uint32) uint32 {
	v := uint32(thisState.Uint64() >> 32)
	prod := uint64(v) * uint64(n)
	low := uint32(prod)
	if low < n {
		thresh := -n % n
		for low < thresh {
			v = uint32(thisState.Uint64() >> 32)
			prod = uint64(v) * uint64(n)
			low = uint32(prod)
		}
	}
	return uint32(prod >> 32)
}

// IntN returns a pseudo-random int in [0,n) for 0 < n <= math.MaxUint32.
func (thisState *DPRNG) IntN(n int) int {
	return int(thisState.UInt32N(uint32(n)))
}
