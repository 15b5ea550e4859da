package labels

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrUnsupported is wrapped by every UnsupportedTypeError.
var ErrUnsupported = errors.New("labels: unsupported type")

// UnsupportedTypeError reports a type that cannot be used as a label set or
// as a label value.
type UnsupportedTypeError struct {
	// Type is the offending type.
	Type reflect.Type

	// Field is the Go field path, empty when the label set itself is
	// unsupported.
	Field string
}

func (e *UnsupportedTypeError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("labels: unsupported %s at top level, want a struct", describe(e.Type))
	}
	return fmt.Sprintf("labels: field %s: unsupported %s", e.Field, describe(e.Type))
}

func (e *UnsupportedTypeError) Unwrap() error {
	return ErrUnsupported
}

// InvalidNameError reports a label name that Prometheus would reject.
type InvalidNameError struct {
	Name   string
	Reason string
}

func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("labels: invalid label name %q: %s", e.Name, e.Reason)
}

func describe(t reflect.Type) string {
	if t == nil {
		return "nil"
	}
	return fmt.Sprintf("%s (%s)", t.Kind(), t)
}
