package rngverify

import (
	"math"
	"math/rand/v2"
)

// ReferenceGenerator is a Generator driven by a DPRNG. Every element consumes the stream in
// order, so how a buffer is split into Fill calls has no effect on the values produced.
//
// Uniform samples for integer kinds are floor(Low + u*(High-Low)); floating-point kinds keep
// the fraction, which after rounding to float32 may land exactly on High. Normal samples are
// Mean + StdDev*z with z from the ziggurat method of math/rand/v2.
type ReferenceGenerator struct {
	rng  DPRNG
	norm *rand.Rand
}

// NewReferenceGenerator returns a generator seeded with seed, or with a random seed if seed is 0.
func NewReferenceGenerator(seed uint64) *ReferenceGenerator {
	g := &ReferenceGenerator{rng: *NewDPRNG(seed)}
	g.norm = rand.New(&g.rng)
	return g
}

func (g *ReferenceGenerator) State() uint64 { return g.rng.State }

// Reset restores a state returned by State. Zero is never such a state and would stall the
// xorshift stream, so Reset(0) leaves the generator unchanged.
func (g *ReferenceGenerator) Reset(state uint64) {
	if state == 0 {
		return
	}
	g.rng.State = state
}

func (g *ReferenceGenerator) Fill(dst SampleBuffer, params []Distribution) error {
	cn := dst.Channels()
	if err := validateParams(params, cn); err != nil {
		return err
	}
	integer := !dst.Kind().IsFloat()
	n := dst.Len() * cn
	for i := range n {
		switch d := params[i%cn].(type) {
		case Uniform:
			v := d.Low + g.rng.Float64()*(d.High-d.Low)
			if integer {
				v = math.Floor(v)
			}
			dst.Set(i, v)
		case Normal:
			dst.Set(i, d.Mean+d.StdDev*g.norm.NormFloat64())
		}
	}
	return nil
}
