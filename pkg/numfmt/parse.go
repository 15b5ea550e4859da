package numfmt

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Parse reads a Value back from its text form. Plain integers parse as
// KindInt, or KindUint when they only fit unsigned. Anything with a decimal
// point, an exponent or one of the special tokens (NaN, +Inf, -Inf) parses as
// a 64-bit float. Text formatted from a Float32 Value needs ParseFloat32 to
// get the same bits back.
func Parse(s string) (Value, error) {
	if s == "" {
		return Value{}, errors.New("numfmt: parse empty string")
	}

	if strings.ContainsAny(s, ".eEnNiI") {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Value{}, fmt.Errorf("numfmt: %w", err)
		}
		return Float(f), nil
	}

	i, err := strconv.ParseInt(s, 10, 64)
	if err == nil {
		return Int(i), nil
	}
	if errors.Is(err, strconv.ErrRange) && s[0] != '-' {
		u, uerr := strconv.ParseUint(strings.TrimPrefix(s, "+"), 10, 64)
		if uerr == nil {
			return Uint(u), nil
		}
		err = uerr
	}
	return Value{}, fmt.Errorf("numfmt: %w", err)
}

// ParseFloat32 reads a float with 32-bit precision, the inverse of formatting
// a Float32 Value. Integer text is accepted and becomes a float.
func ParseFloat32(s string) (Value, error) {
	if s == "" {
		return Value{}, errors.New("numfmt: parse empty string")
	}
	f, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return Value{}, fmt.Errorf("numfmt: %w", err)
	}
	return Float32(float32(f)), nil
}

// parseLike parses s with the width of v: a Value holding a 32-bit float
// parses at 32-bit precision, anything else goes through Parse.
func parseLike(v Value, s string) (Value, error) {
	if v.kind == KindFloat && v.bitSize == 32 {
		return ParseFloat32(s)
	}
	return Parse(s)
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Value {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}
