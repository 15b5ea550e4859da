// Package labels turns Go structs into Prometheus label sets.
//
// A label set is a struct whose exported fields become labels:
//
//	type RequestLabels struct {
//		Method string `label:"method"`
//		Path   string `label:"path"`
//		Status int    `label:"status"`
//	}
//
// renders as
//
//	method="GET",path="/foo",status="200"
//
// Untagged fields use the lower-cased field name. `label:"-"` skips a field
// and embedded structs are flattened. Field values may be strings, bools,
// integers, floats, pointers to those (nil renders as an empty value), or any
// type implementing encoding.TextMarshaler or fmt.Stringer. Numbers are
// formatted with package numfmt.
package labels

import (
	"encoding"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"mercator-hq/prometools/pkg/numfmt"
)

var (
	textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()
	stringerType      = reflect.TypeFor[fmt.Stringer]()
)

// Codec encodes values of one struct type as label sets. A Codec is
// immutable and safe for concurrent use.
type Codec struct {
	typ    reflect.Type
	fields []field
	names  []string
}

type field struct {
	name   string
	path   string
	index  []int
	encode encodeFunc
}

// encodeFunc appends the raw, unescaped text of v to dst.
type encodeFunc func(dst []byte, v reflect.Value) ([]byte, error)

type cacheEntry struct {
	codec *Codec
	err   error
}

var codecCache sync.Map // map[reflect.Type]cacheEntry

// For returns the codec for label set type S.
func For[S any]() (*Codec, error) {
	return NewCodec(reflect.TypeFor[S]())
}

// NewCodec returns the codec for t, which must be a struct or a pointer to a
// struct. Codecs are cached per type.
func NewCodec(t reflect.Type) (*Codec, error) {
	if cached, ok := codecCache.Load(t); ok {
		entry := cached.(cacheEntry)
		return entry.codec, entry.err
	}

	codec, err := buildCodec(t)
	codecCache.Store(t, cacheEntry{codec: codec, err: err})
	return codec, err
}

func buildCodec(t reflect.Type) (*Codec, error) {
	st := t
	if st != nil && st.Kind() == reflect.Pointer {
		st = st.Elem()
	}
	if st == nil || st.Kind() != reflect.Struct {
		return nil, &UnsupportedTypeError{Type: t}
	}

	c := &Codec{typ: st}
	if err := c.addFields(st, nil, ""); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(c.fields))
	for _, f := range c.fields {
		if _, dup := seen[f.name]; dup {
			return nil, &InvalidNameError{Name: f.name, Reason: "used by more than one field"}
		}
		seen[f.name] = struct{}{}
		c.names = append(c.names, f.name)
	}

	return c, nil
}

func (c *Codec) addFields(st reflect.Type, index []int, prefix string) error {
	for i := 0; i < st.NumField(); i++ {
		sf := st.Field(i)
		tag := sf.Tag.Get("label")
		if tag == "-" {
			continue
		}

		idx := append(append([]int(nil), index...), i)
		path := prefix + sf.Name

		if sf.Anonymous && tag == "" {
			ft := sf.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct && !implementsText(ft) {
				if err := c.addFields(ft, idx, path+"."); err != nil {
					return err
				}
				continue
			}
		}

		if !sf.IsExported() {
			continue
		}

		name := tag
		if name == "" {
			name = strings.ToLower(sf.Name)
		}
		if err := CheckName(name); err != nil {
			return err
		}

		enc, err := encoderFor(sf.Type, path)
		if err != nil {
			return err
		}

		c.fields = append(c.fields, field{name: name, path: path, index: idx, encode: enc})
	}
	return nil
}

func implementsText(t reflect.Type) bool {
	return t.Implements(textMarshalerType) || reflect.PointerTo(t).Implements(textMarshalerType) ||
		t.Implements(stringerType) || reflect.PointerTo(t).Implements(stringerType)
}

func encoderFor(t reflect.Type, path string) (encodeFunc, error) {
	switch {
	case t.Implements(textMarshalerType):
		return nilSafe(t, encodeTextMarshaler), nil
	case reflect.PointerTo(t).Implements(textMarshalerType):
		return addressable(encodeTextMarshaler), nil
	case t.Implements(stringerType):
		return nilSafe(t, encodeStringer), nil
	case reflect.PointerTo(t).Implements(stringerType):
		return addressable(encodeStringer), nil
	}

	switch t.Kind() {
	case reflect.String:
		return func(dst []byte, v reflect.Value) ([]byte, error) {
			return append(dst, v.String()...), nil
		}, nil
	case reflect.Bool:
		return func(dst []byte, v reflect.Value) ([]byte, error) {
			return strconv.AppendBool(dst, v.Bool()), nil
		}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return func(dst []byte, v reflect.Value) ([]byte, error) {
			return numfmt.AppendInt(dst, v.Int()), nil
		}, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return func(dst []byte, v reflect.Value) ([]byte, error) {
			return numfmt.AppendUint(dst, v.Uint()), nil
		}, nil
	case reflect.Float32:
		return func(dst []byte, v reflect.Value) ([]byte, error) {
			return numfmt.AppendFloat32(dst, float32(v.Float())), nil
		}, nil
	case reflect.Float64:
		return func(dst []byte, v reflect.Value) ([]byte, error) {
			return numfmt.AppendFloat(dst, v.Float()), nil
		}, nil
	case reflect.Pointer:
		elem, err := encoderFor(t.Elem(), path)
		if err != nil {
			return nil, err
		}
		return func(dst []byte, v reflect.Value) ([]byte, error) {
			if v.IsNil() {
				return dst, nil
			}
			return elem(dst, v.Elem())
		}, nil
	}

	return nil, &UnsupportedTypeError{Type: t, Field: path}
}

// nilSafe renders nil pointers and interfaces as an empty value instead of
// calling a method on them.
func nilSafe(t reflect.Type, enc encodeFunc) encodeFunc {
	if t.Kind() != reflect.Pointer && t.Kind() != reflect.Interface {
		return enc
	}
	return func(dst []byte, v reflect.Value) ([]byte, error) {
		if v.IsNil() {
			return dst, nil
		}
		return enc(dst, v)
	}
}

// addressable calls enc on a pointer to v, copying v when it is not
// addressable.
func addressable(enc encodeFunc) encodeFunc {
	return func(dst []byte, v reflect.Value) ([]byte, error) {
		if !v.CanAddr() {
			tmp := reflect.New(v.Type()).Elem()
			tmp.Set(v)
			v = tmp
		}
		return enc(dst, v.Addr())
	}
}

func encodeTextMarshaler(dst []byte, v reflect.Value) ([]byte, error) {
	text, err := v.Interface().(encoding.TextMarshaler).MarshalText()
	if err != nil {
		return dst, err
	}
	return append(dst, text...), nil
}

func encodeStringer(dst []byte, v reflect.Value) ([]byte, error) {
	return append(dst, v.Interface().(fmt.Stringer).String()...), nil
}

// Names returns the label names in field order. The slice must not be
// modified.
func (c *Codec) Names() []string {
	return c.names
}

// Type returns the struct type the codec encodes.
func (c *Codec) Type() reflect.Type {
	return c.typ
}

// Values returns the raw label values of v in the order of Names. v must be
// of the codec's type or a pointer to it; a nil pointer yields empty values.
func (c *Codec) Values(v any) ([]string, error) {
	rv, err := c.structValue(v)
	if err != nil {
		return nil, err
	}

	values := make([]string, len(c.fields))
	var scratch [64]byte
	for i, f := range c.fields {
		raw, err := c.encodeField(scratch[:0], f, rv)
		if err != nil {
			return nil, err
		}
		values[i] = string(raw)
	}
	return values, nil
}

// Append appends the exposition text of v, for example
// `method="GET",status="200"`, to dst. An empty label set appends nothing.
func (c *Codec) Append(dst []byte, v any) ([]byte, error) {
	rv, err := c.structValue(v)
	if err != nil || !rv.IsValid() {
		return dst, err
	}

	var scratch [64]byte
	for i, f := range c.fields {
		raw, err := c.encodeField(scratch[:0], f, rv)
		if err != nil {
			return dst, err
		}
		if i > 0 {
			dst = append(dst, ',')
		}
		dst = append(dst, f.name...)
		dst = append(dst, '=', '"')
		dst = appendEscaped(dst, raw)
		dst = append(dst, '"')
	}
	return dst, nil
}

// AppendValues appends the exposition text of raw values previously returned
// by Values. It panics if len(values) differs from len(Names()).
func (c *Codec) AppendValues(dst []byte, values []string) []byte {
	if len(values) != len(c.fields) {
		panic(fmt.Sprintf("labels: %d values for %d labels of %s", len(values), len(c.fields), c.typ))
	}
	for i, f := range c.fields {
		if i > 0 {
			dst = append(dst, ',')
		}
		dst = append(dst, f.name...)
		dst = append(dst, '=', '"')
		dst = appendEscapedString(dst, values[i])
		dst = append(dst, '"')
	}
	return dst
}

// Encode writes the exposition text of v to w. Write errors are returned as
// they are.
func (c *Codec) Encode(w io.Writer, v any) error {
	b, err := c.Append(nil, v)
	if err != nil {
		return err
	}
	if len(b) == 0 {
		return nil
	}
	_, err = w.Write(b)
	return err
}

// Format returns the exposition text of the label set v.
func Format(v any) (string, error) {
	c, err := NewCodec(reflect.TypeOf(v))
	if err != nil {
		return "", err
	}
	b, err := c.Append(nil, v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (c *Codec) structValue(v any) (reflect.Value, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return reflect.Value{}, nil
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() || rv.Type() != c.typ {
		return reflect.Value{}, fmt.Errorf("labels: codec for %s cannot encode %T", c.typ, v)
	}
	return rv, nil
}

func (c *Codec) encodeField(dst []byte, f field, rv reflect.Value) ([]byte, error) {
	if !rv.IsValid() {
		return dst, nil
	}
	fv, ok := fieldByIndex(rv, f.index)
	if !ok {
		return dst, nil
	}
	out, err := f.encode(dst, fv)
	if err != nil {
		return dst, fmt.Errorf("labels: field %s: %w", f.path, err)
	}
	return out, nil
}

// fieldByIndex walks an index path, reporting false when it crosses a nil
// embedded pointer.
func fieldByIndex(v reflect.Value, index []int) (reflect.Value, bool) {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				return reflect.Value{}, false
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v, true
}

func appendEscaped(dst, raw []byte) []byte {
	for _, b := range raw {
		dst = appendEscapedByte(dst, b)
	}
	return dst
}

func appendEscapedString(dst []byte, raw string) []byte {
	for i := 0; i < len(raw); i++ {
		dst = appendEscapedByte(dst, raw[i])
	}
	return dst
}

func appendEscapedByte(dst []byte, b byte) []byte {
	switch b {
	case '\\':
		return append(dst, '\\', '\\')
	case '"':
		return append(dst, '\\', '"')
	case '\n':
		return append(dst, '\\', 'n')
	default:
		return append(dst, b)
	}
}
