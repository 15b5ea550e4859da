// Package numfmt renders metric sample values as text without heap allocation.
//
// # Overview
//
// A sample value is a signed integer, an unsigned integer or a float. The
// package formats each kind straight into a caller-supplied byte slice or a
// fixed-size Buffer, producing the same text the Prometheus exposition
// encoders produce for the same number:
//
//	42          -> 42
//	0.1         -> 0.1
//	1e6         -> 1e+06
//	-0.0        -> 0
//	NaN         -> NaN
//	+Inf, -Inf  -> +Inf, -Inf
//
// Finite floats use the shortest decimal form that parses back to the same
// bits, so Parse(Format(x)) == x for every finite float64 x. Float32 values
// format at 32-bit precision and come back through ParseFloat32, or through
// the unmarshalers when the target Value already holds a Float32.
//
// # Usage
//
//	var buf numfmt.Buffer
//	w.Write(buf.Format(numfmt.Float(0.1)))
//
//	dst = numfmt.AppendUint(dst[:0], 42)
//
// Value also implements encoding.TextMarshaler, json.Marshaler and
// yaml.Marshaler, so structures holding sample values serialize through any of
// those frameworks without extra glue:
//
//	type Point struct {
//		Name  string       `json:"name"`
//		Value numfmt.Value `json:"value"`
//	}
//
// # JSON and YAML
//
// JSON has no literal for NaN or infinities. Non-finite values are written as
// the JSON strings "NaN", "+Inf" and "-Inf", the same convention the Prometheus
// HTTP API uses for sample values. YAML uses its native .nan, .inf and -.inf.
package numfmt
