package labels

import "github.com/prometheus/common/model"

// CheckName reports whether name is a legal label name: it must match
// [a-zA-Z_][a-zA-Z0-9_]* and must not start with the reserved "__" prefix.
func CheckName(name string) error {
	if name == "" {
		return &InvalidNameError{Name: name, Reason: "empty"}
	}
	if len(name) >= 2 && name[:2] == "__" {
		return &InvalidNameError{Name: name, Reason: `the "__" prefix is reserved`}
	}
	if !model.LegacyValidation.IsValidLabelName(name) {
		return &InvalidNameError{Name: name, Reason: "must match [a-zA-Z_][a-zA-Z0-9_]*"}
	}
	return nil
}
