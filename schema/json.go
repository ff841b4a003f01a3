package schema

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-json"
)

// Decode parses data keeping numbers as json.Number so integral and
// fractional values stay distinguishable.
func Decode(data []byte) (any, error) {
	d := json.NewDecoder(bytes.NewReader(data))
	d.UseNumber()
	var v any
	if err := d.Decode(&v); err != nil {
		return nil, err
	}
	if err := d.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, errors.New("trailing data after JSON value")
	}
	return v, nil
}

// ConstructJSON parses data and constructs the named record from it. A parse
// failure is not an ErrValidation.
func (reg *Registry) ConstructJSON(name string, data []byte) (map[string]any, error) {
	v, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return reg.Construct(name, v)
}
