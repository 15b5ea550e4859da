package numfmt

import (
	"fmt"
	"math"
	"strings"

	"gopkg.in/yaml.v3"
)

// AppendText implements encoding.TextAppender.
func (v Value) AppendText(b []byte) ([]byte, error) {
	return Append(b, v), nil
}

// MarshalText implements encoding.TextMarshaler.
func (v Value) MarshalText() ([]byte, error) {
	var buf Buffer
	out := buf.Format(v)
	return append(make([]byte, 0, len(out)), out...), nil
}

// UnmarshalText implements encoding.TextUnmarshaler using Parse. When v
// already holds a 32-bit float the text is parsed with ParseFloat32, so a
// Float32 target keeps its width. The same holds for UnmarshalJSON and
// UnmarshalYAML.
func (v *Value) UnmarshalText(text []byte) error {
	parsed, err := parseLike(*v, string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// MarshalJSON implements json.Marshaler. Finite values are JSON numbers;
// NaN and the infinities are JSON strings.
func (v Value) MarshalJSON() ([]byte, error) {
	return AppendJSON(make([]byte, 0, MaxLen+2), v), nil
}

// AppendJSON appends the JSON form of v to dst.
func AppendJSON(dst []byte, v Value) []byte {
	if v.IsFinite() {
		return Append(dst, v)
	}
	dst = append(dst, '"')
	dst = Append(dst, v)
	return append(dst, '"')
}

// UnmarshalJSON implements json.Unmarshaler. It accepts a JSON number or a
// JSON string holding any text Parse accepts. A JSON null leaves v unchanged.
func (v *Value) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := parseLike(*v, s)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler. Non-finite floats use the YAML core
// schema spellings .nan, .inf and -.inf.
func (v Value) MarshalYAML() (interface{}, error) {
	text := v.String()
	if !v.IsFinite() {
		f := v.Float64()
		switch {
		case math.IsNaN(f):
			text = ".nan"
		case math.IsInf(f, 1):
			text = ".inf"
		default:
			text = "-.inf"
		}
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Value: text}, nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("numfmt: line %d: expected a scalar, got YAML kind %d", node.Line, node.Kind)
	}
	text := node.Value
	switch strings.ToLower(text) {
	case ".nan":
		text = "NaN"
	case ".inf", "+.inf":
		text = "+Inf"
	case "-.inf":
		text = "-Inf"
	}
	parsed, err := parseLike(*v, text)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*v = parsed
	return nil
}
