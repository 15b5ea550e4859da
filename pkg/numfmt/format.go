package numfmt

import (
	"math"
	"strconv"
)

// MaxLen is the longest text any Value formats to:
// "-2.2250738585072014e-308" is 24 bytes, the longest integer 20.
const MaxLen = 24

// Buffer holds the text of one formatted Value. The zero Buffer is ready to
// use and lives on the stack when it does not escape.
type Buffer struct {
	b [32]byte
}

// Format formats v into the buffer and returns the written bytes. The slice
// is only valid until the next call to Format.
func (b *Buffer) Format(v Value) []byte {
	return Append(b.b[:0], v)
}

// FormatInt formats a signed integer into the buffer.
func (b *Buffer) FormatInt(v int64) []byte {
	return strconv.AppendInt(b.b[:0], v, 10)
}

// FormatUint formats an unsigned integer into the buffer.
func (b *Buffer) FormatUint(v uint64) []byte {
	return strconv.AppendUint(b.b[:0], v, 10)
}

// FormatFloat formats a float into the buffer.
func (b *Buffer) FormatFloat(v float64) []byte {
	return AppendFloat(b.b[:0], v)
}

// Append appends the text form of v to dst.
func Append(dst []byte, v Value) []byte {
	switch v.kind {
	case KindUint:
		return strconv.AppendUint(dst, v.bits, 10)
	case KindFloat:
		return appendFloat(dst, math.Float64frombits(v.bits), int(v.bitSize))
	default:
		return strconv.AppendInt(dst, int64(v.bits), 10)
	}
}

// AppendInt appends the decimal form of v to dst.
func AppendInt(dst []byte, v int64) []byte {
	return strconv.AppendInt(dst, v, 10)
}

// AppendUint appends the decimal form of v to dst.
func AppendUint(dst []byte, v uint64) []byte {
	return strconv.AppendUint(dst, v, 10)
}

// AppendFloat appends the shortest round-trip form of v to dst.
func AppendFloat(dst []byte, v float64) []byte {
	return appendFloat(dst, v, 64)
}

// AppendFloat32 appends the shortest form of v that parses back to the same
// float32.
func AppendFloat32(dst []byte, v float32) []byte {
	return appendFloat(dst, float64(v), 32)
}

func appendFloat(dst []byte, f float64, bitSize int) []byte {
	switch {
	case f == 0:
		// Also catches -0, which renders unsigned like expfmt does.
		return append(dst, '0')
	case f == 1:
		return append(dst, '1')
	case f == -1:
		return append(dst, "-1"...)
	case math.IsNaN(f):
		return append(dst, "NaN"...)
	case math.IsInf(f, +1):
		return append(dst, "+Inf"...)
	case math.IsInf(f, -1):
		return append(dst, "-Inf"...)
	}
	if bitSize != 32 {
		bitSize = 64
	}
	return strconv.AppendFloat(dst, f, 'g', -1, bitSize)
}
