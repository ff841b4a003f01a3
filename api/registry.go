// Package api declares the Restreamer v3 payloads.
//
// Every Go type has a schema.Record of the same name registered in the
// package registry. Decode validates a payload against that record before
// filling the Go value, so a Go value is only produced from a payload that
// has every required field with the declared shape.
package api

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/maruel/corectl/schema"
)

var registry = schema.NewRegistry()

// Registry returns the registry holding every record of this package.
func Registry() *schema.Registry { return registry }

// Decode validates data against the named record and returns it as a T.
// Unknown fields are dropped and record normalization is applied.
func Decode[T any](name string, data []byte) (*T, error) {
	v, err := registry.ConstructJSON(name, data)
	if err != nil {
		return nil, err
	}
	return bind[T](name, v)
}

// DecodeValue is Decode for a value already parsed from JSON.
func DecodeValue[T any](name string, v any) (*T, error) {
	m, err := registry.Construct(name, v)
	if err != nil {
		return nil, err
	}
	return bind[T](name, m)
}

// bind copies validated values into a T through their JSON encoding.
func bind[T any](name string, v map[string]any) (*T, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	out := new(T)
	if err := json.Unmarshal(b, out); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}
