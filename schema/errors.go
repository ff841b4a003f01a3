package schema

import (
	"errors"
	"strings"
)

// ErrValidation matches every error caused by a payload not matching its
// schema. Use errors.Is to tell a bad payload apart from a transport failure.
var ErrValidation = errors.New("schema validation failed")

// UnknownSchemaError is returned when a record name is not registered.
type UnknownSchemaError struct {
	Name string
}

func (e *UnknownSchemaError) Error() string {
	return "unknown schema " + quote(e.Name)
}

// DuplicateSchemaError is returned when registering a name twice.
type DuplicateSchemaError struct {
	Name string
}

func (e *DuplicateSchemaError) Error() string {
	return "schema " + quote(e.Name) + " already registered"
}

// MissingFieldError is returned when a required field is absent.
type MissingFieldError struct {
	Path string
}

func (e *MissingFieldError) Error() string {
	return "missing required field " + quote(e.Path)
}

// Is implements errors.Is.
func (e *MissingFieldError) Is(target error) bool { return target == ErrValidation }

// TypeMismatchError is returned when a value has the wrong JSON kind.
type TypeMismatchError struct {
	Path     string
	Expected string
	Actual   string
}

func (e *TypeMismatchError) Error() string {
	return withPath(e.Path, "expected "+e.Expected+", got "+e.Actual)
}

// Is implements errors.Is.
func (e *TypeMismatchError) Is(target error) bool { return target == ErrValidation }

// UnionValidationError is returned when no alternative of a union matched.
// Attempts holds one error per alternative, in declared order.
type UnionValidationError struct {
	Path     string
	Attempts []error
}

func (e *UnionValidationError) Error() string {
	var b strings.Builder
	b.WriteString("no alternative matched")
	for i, err := range e.Attempts {
		if i == 0 {
			b.WriteString(": ")
		} else {
			b.WriteString("; ")
		}
		b.WriteString(err.Error())
	}
	return withPath(e.Path, b.String())
}

// Is implements errors.Is.
func (e *UnionValidationError) Is(target error) bool { return target == ErrValidation }

// Unwrap returns the per-alternative errors.
func (e *UnionValidationError) Unwrap() []error { return e.Attempts }

func withPath(path, msg string) string {
	if path == "" {
		return msg
	}
	return path + ": " + msg
}

func quote(s string) string {
	return "\"" + s + "\""
}
