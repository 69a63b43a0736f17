package dataimport

import (
	"fmt"
	"strings"
)

// Record is an untyped row as produced by a row source: column header to
// cell value. Headers are lowercased by the reader.
type Record map[string]string

// Get returns the trimmed value for column, or "" if absent.
func (r Record) Get(column string) string {
	return strings.TrimSpace(r[column])
}

// Lookup is Get that also reports whether the column was present.
func (r Record) Lookup(column string) (string, bool) {
	v, ok := r[column]
	return strings.TrimSpace(v), ok
}

// Field is a named value checked by ValidateRequired.
type Field struct {
	Name  string
	Value string
}

// ValidateRequired checks fields in order and fails on the first empty one.
func ValidateRequired(fields ...Field) error {
	for _, f := range fields {
		if strings.TrimSpace(f.Value) == "" {
			return Required(f.Name)
		}
	}
	return nil
}

// ParseBool accepts true/false, t/f, yes/no, y/n and 1/0, case-insensitively.
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "t", "yes", "y", "1":
		return true, nil
	case "false", "f", "no", "n", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean %q", s)
	}
}

// OptionalBool parses column from rec. An absent or empty column yields nil.
func OptionalBool(rec Record, column string) (*bool, error) {
	v := rec.Get(column)
	if v == "" {
		return nil, nil
	}
	b, err := ParseBool(v)
	if err != nil {
		return nil, &InvalidDataError{Field: column, Reason: "must be a boolean."}
	}
	return &b, nil
}
