package rngverify

import (
	"fmt"
	"math"
	"slices"
)

// ElementKind is the numeric representation of the elements of a SampleBuffer.
type ElementKind uint8

const (
	Uint8 ElementKind = iota
	Int8
	Uint16
	Int16
	Int32
	Float32
	Float64

	numElementKinds = int(Float64) + 1
)

// valueRanges are the ranges test cases draw their parameters from, per kind.
var valueRanges = [numElementKinds][2]int{
	{0, 256}, {-128, 128}, {0, 65536}, {-32768, 32768},
	{-1_000_000, 1_000_000}, {-1000, 1000}, {-1000, 1000},
}

func (k ElementKind) String() string {
	switch k {
	case Uint8:
		return "uint8"
	case Int8:
		return "int8"
	case Uint16:
		return "uint16"
	case Int16:
		return "int16"
	case Int32:
		return "int32"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	default:
		return fmt.Sprintf("ElementKind(%d)", uint8(k))
	}
}

// Valid reports whether k is one of the seven supported kinds.
func (k ElementKind) Valid() bool {
	return int(k) < numElementKinds
}

// IsFloat reports whether k is a floating-point kind.
func (k ElementKind) IsFloat() bool {
	return k == Float32 || k == Float64
}

// ValueRange returns the half-open range [lo, hi) test-case parameters are drawn from.
func (k ElementKind) ValueRange() (lo, hi int) {
	r := valueRanges[k]
	return r[0], r[1]
}

// limits returns the representable range of an integer kind.
func (k ElementKind) limits() (lo, hi float64) {
	switch k {
	case Uint8:
		return 0, math.MaxUint8
	case Int8:
		return math.MinInt8, math.MaxInt8
	case Uint16:
		return 0, math.MaxUint16
	case Int16:
		return math.MinInt16, math.MaxInt16
	case Int32:
		return math.MinInt32, math.MaxInt32
	default:
		return math.Inf(-1), math.Inf(1)
	}
}

// Element is the set of Go types backing the element kinds.
type Element interface {
	~uint8 | ~int8 | ~uint16 | ~int16 | ~int32 | ~float32 | ~float64
}

// SampleBuffer is a flat, channel-interleaved sequence of typed samples. Indexes passed to
// At and Set address single elements; Len and Slice count tuples of Channels elements.
type SampleBuffer interface {
	Kind() ElementKind
	Channels() int
	// Len returns the number of tuples.
	Len() int
	At(i int) float64
	// Set stores v at element i, rounding half to even and saturating for integer kinds.
	Set(i int, v float64)
	// Slice returns the tuples [from, to) sharing storage with the receiver.
	Slice(from, to int) SampleBuffer
	// Equal reports whether both buffers have the same shape and the infinity norm of
	// their difference is zero.
	Equal(other SampleBuffer) bool
}

// NewSampleBuffer allocates a zeroed buffer of the given kind holding tuples × channels elements.
func NewSampleBuffer(kind ElementKind, channels, tuples int) (SampleBuffer, error) {
	if channels < 1 || channels > 4 {
		return nil, fmt.Errorf("%w: channel count %d not in [1,4]", ErrPrecondition, channels)
	}
	if tuples < 0 {
		return nil, fmt.Errorf("%w: negative tuple count %d", ErrPrecondition, tuples)
	}
	n := tuples * channels
	switch kind {
	case Uint8:
		return newBuffer[uint8](kind, channels, n), nil
	case Int8:
		return newBuffer[int8](kind, channels, n), nil
	case Uint16:
		return newBuffer[uint16](kind, channels, n), nil
	case Int16:
		return newBuffer[int16](kind, channels, n), nil
	case Int32:
		return newBuffer[int32](kind, channels, n), nil
	case Float32:
		return newBuffer[float32](kind, channels, n), nil
	case Float64:
		return newBuffer[float64](kind, channels, n), nil
	default:
		return nil, fmt.Errorf("%w: unknown element kind %d", ErrPrecondition, uint8(kind))
	}
}

type buffer[T Element] struct {
	kind     ElementKind
	channels int
	data     []T
}

func newBuffer[T Element](kind ElementKind, channels, n int) *buffer[T] {
	return &buffer[T]{kind: kind, channels: channels, data: make([]T, n)}
}

func (b *buffer[T]) Kind() ElementKind { return b.kind }
func (b *buffer[T]) Channels() int     { return b.channels }
func (b *buffer[T]) Len() int          { return len(b.data) / b.channels }
func (b *buffer[T]) At(i int) float64  { return float64(b.data[i]) }

func (b *buffer[T]) Set(i int, v float64) {
	b.data[i] = convert[T](b.kind, v)
}

func (b *buffer[T]) Slice(from, to int) SampleBuffer {
	return &buffer[T]{
		kind:     b.kind,
		channels: b.channels,
		data:     b.data[from*b.channels : to*b.channels : to*b.channels],
	}
}

func (b *buffer[T]) Equal(other SampleBuffer) bool {
	o, ok := other.(*buffer[T])
	if !ok || o.kind != b.kind || o.channels != b.channels {
		return false
	}
	return slices.Equal(b.data, o.data)
}

// convert casts v to T the way a saturating conversion would.
func convert[T Element](kind ElementKind, v float64) T {
	if kind.IsFloat() {
		return T(v)
	}
	lo, hi := kind.limits()
	r := math.RoundToEven(v)
	switch {
	case math.IsNaN(r):
		return 0
	case r < lo:
		r = lo
	case r > hi:
		r = hi
	}
	return T(r)
}

// mismatch returns the index of the first element where a and b differ, or -1.
// Both buffers must have the same shape.
func mismatch(a, b SampleBuffer) int {
	n := a.Len() * a.Channels()
	for i := range n {
		if a.At(i) != b.At(i) {
			return i
		}
	}
	return -1
}
