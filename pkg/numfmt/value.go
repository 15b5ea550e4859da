package numfmt

import (
	"math"
)

// Kind identifies which member of the Value union is set.
type Kind uint8

const (
	// KindInt is a signed 64-bit integer. It is the kind of the zero Value.
	KindInt Kind = iota
	// KindUint is an unsigned 64-bit integer.
	KindUint
	// KindFloat is an IEEE 754 float, either 32 or 64 bits wide.
	KindFloat
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	default:
		return "unknown"
	}
}

// Number is the set of Go types a sample value can be built from.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr |
		~float32 | ~float64
}

// Value is a single metric sample: a signed integer, an unsigned integer or
// a float. The zero Value is the signed integer 0.
type Value struct {
	kind Kind
	// bitSize is 32 for values built from float32, 64 otherwise.
	bitSize uint8
	bits    uint64
}

// Int returns a signed integer Value.
func Int(v int64) Value {
	return Value{kind: KindInt, bitSize: 64, bits: uint64(v)}
}

// Uint returns an unsigned integer Value.
func Uint(v uint64) Value {
	return Value{kind: KindUint, bitSize: 64, bits: v}
}

// Float returns a 64-bit float Value.
func Float(v float64) Value {
	return Value{kind: KindFloat, bitSize: 64, bits: math.Float64bits(v)}
}

// Float32 returns a float Value that formats with float32 precision, so
// float32(0.1) renders as 0.1 rather than 0.10000000149011612.
func Float32(v float32) Value {
	return Value{kind: KindFloat, bitSize: 32, bits: math.Float64bits(float64(v))}
}

// Of converts any Number into a Value, choosing the kind from T's underlying
// type. Named types such as time.Duration are accepted.
func Of[T Number](v T) Value {
	var zero T
	half := 0.5
	switch {
	case T(half) != zero:
		// 2^24+1 is the smallest integer float32 cannot represent.
		probe := float64(1<<24 + 1)
		if float64(T(probe)) != probe {
			return Float32(float32(v))
		}
		return Float(float64(v))
	case zero-1 < zero:
		return Int(int64(v))
	default:
		return Uint(uint64(v))
	}
}

// Kind reports which member of the union is set.
func (v Value) Kind() Kind {
	return v.kind
}

// Int64 returns the value as an int64. Unsigned values above math.MaxInt64
// wrap and floats are truncated toward zero.
func (v Value) Int64() int64 {
	switch v.kind {
	case KindUint:
		return int64(v.bits)
	case KindFloat:
		return int64(math.Float64frombits(v.bits))
	default:
		return int64(v.bits)
	}
}

// Uint64 returns the value as a uint64. Negative values wrap and floats are
// truncated toward zero.
func (v Value) Uint64() uint64 {
	switch v.kind {
	case KindFloat:
		return uint64(math.Float64frombits(v.bits))
	default:
		return v.bits
	}
}

// Float64 returns the value as a float64. Large integers lose precision.
func (v Value) Float64() float64 {
	switch v.kind {
	case KindInt:
		return float64(int64(v.bits))
	case KindUint:
		return float64(v.bits)
	default:
		return math.Float64frombits(v.bits)
	}
}

// IsFinite reports whether the value is an integer or a float that is neither
// NaN nor infinite.
func (v Value) IsFinite() bool {
	if v.kind != KindFloat {
		return true
	}
	f := math.Float64frombits(v.bits)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// String returns the canonical text form of the value.
func (v Value) String() string {
	var buf Buffer
	return string(buf.Format(v))
}
