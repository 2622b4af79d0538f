package rngverify

import (
	"crypto/rand"
	"encoding/binary"
)

// CPRNG is a cryptographically secure random number generator that reads random bytes
// in batches to reduce the number of calls to crypto/rand.Reader (an OS call).
// It is the entropy source for runs that were not given a seed: NewDPRNG falls back to it,
// and the rngverify command uses it to pick and report seeds so a failing run can be replayed.
// This RNG is thread-safe as long as each goroutine uses its own instance.
type CPRNG struct {
	bufPos uint32
	buf    []byte
}

// NewCPRNG creates a new CPRNG with a buffer capacity of capBytes.
// The buffer is filled with random bytes upon creation and refilled as needed.
func NewCPRNG(capBytes uint32) *CPRNG {
	if capBytes < 8 {
		capBytes = 8 // minimum buffer size to hold at least one uint64
	}
	b := &CPRNG{buf: make([]byte, capBytes)}
	if _, err := rand.Read(b.buf); err != nil {
		panic(err)
	}
	return b
}

// ensure that n bytes are available, otherwise refill the buffer
func (c *CPRNG) ensure(n int) {
	if c.bufPos+uint32(n) > uint32(len(c.buf)) {
		if _, err := rand.Read(c.buf); err != nil {
			panic(err)
		}
		c.bufPos = 0
	}
}

// Uint64 returns a uniformly distributed uint64.
func (c *CPRNG) Uint64() uint64 {
	c.ensure(8)
	v := binary.LittleEndian.Uint64(c.buf[c.bufPos : c.bufPos+8])
	c.bufPos += 8
	return v
}

// Uint32 returns a uniformly distributed uint32.
func (c *CPRNG) Uint32() uint32 {
	c.ensure(4)
	v := binary.LittleEndian.Uint32(c.buf[c.bufPos : c.bufPos+4])
	c.bufPos += 4
	return v
}

// Uint8 returns a uniformly distributed uint8.
func (c *CPRNG) Uint8() uint8 {
	c.ensure(1)
	v := c.buf[c.bufPos]
	c.bufPos++
	return v
}

// Seed returns a non-zero uint64 suitable for NewDPRNG or NewReferenceGenerator.
func (c *CPRNG) Seed() uint64 {
	v := c.Uint64()
	for v == 0 {
		v = c.Uint64()
	}
	return v
}

// Uint32N returns a non-negative random number in the half-open interval [0,n).
// This function compensates for bias.
// For n=0 and n=1, Uint32N returns 0.
//
// For implementation details, see:
//
//	https://lemire.me/blog/2016/06/27/a-fast-alternative-to-the-modulo-reduction
//	https://lemire.me/blog/2016/06/30/fast-random-shuffling
func (c *CPRNG) Uint32N(n uint32) uint32 {
	v := c.Uint32()
	prod := uint64(v) * uint64(n)
	low := uint32(prod)
	if low < n {
		thresh := -n % n
		for low < thresh {
			v = c.Uint32()
			prod = uint64(v) * uint64(n)
			low = uint32(prod)
		}
	}
	return uint32(prod >> 32)
}
