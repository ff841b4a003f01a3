package schema

import (
	"bytes"

	"github.com/goccy/go-json"
)

// Variant holds a JSON value whose type is decided by its shape, e.g. a
// union of int, float, string, mapping and list. Use Kind to find out which
// shape was received, then the matching accessor.
//
// The zero value is JSON null.
type Variant struct {
	raw json.RawMessage
}

// NewVariant encodes v.
func NewVariant(v any) (Variant, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return Variant{}, err
	}
	return Variant{raw: b}, nil
}

// MarshalJSON implements json.Marshaler.
func (v Variant) MarshalJSON() ([]byte, error) {
	if len(v.raw) == 0 {
		return []byte("null"), nil
	}
	return v.raw, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Variant) UnmarshalJSON(data []byte) error {
	v.raw = append(v.raw[:0], data...)
	return nil
}

// Raw returns the original JSON bytes.
func (v Variant) Raw() json.RawMessage { return v.raw }

// IsNull reports whether the value is absent or JSON null.
func (v Variant) IsNull() bool { return v.Kind() == KindNull }

// Kind returns the shape of the value: KindNull, KindBool, KindInt,
// KindFloat, KindString, KindList or KindMap. Integral numbers are KindInt,
// matching the resolution order of int before float.
func (v Variant) Kind() Kind {
	b := bytes.TrimSpace(v.raw)
	if len(b) == 0 {
		return KindNull
	}
	switch b[0] {
	case 'n':
		return KindNull
	case 't', 'f':
		return KindBool
	case '"':
		return KindString
	case '[':
		return KindList
	case '{':
		return KindMap
	}
	if n, ok := toNumber(json.Number(b)); ok && n.isInt {
		return KindInt
	}
	return KindFloat
}

// Int returns the value when it is an integral number.
func (v Variant) Int() (int64, bool) {
	if v.Kind() != KindInt {
		return 0, false
	}
	n, _ := toNumber(json.Number(bytes.TrimSpace(v.raw)))
	return n.i, true
}

// Float returns the value when it is any number.
func (v Variant) Float() (float64, bool) {
	if k := v.Kind(); k != KindInt && k != KindFloat {
		return 0, false
	}
	n, ok := toNumber(json.Number(bytes.TrimSpace(v.raw)))
	return n.f, ok
}

// Text returns the value when it is a string.
func (v Variant) Text() (string, bool) {
	if v.Kind() != KindString {
		return "", false
	}
	var s string
	if err := json.Unmarshal(v.raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// Bool returns the value when it is a boolean.
func (v Variant) Bool() (bool, bool) {
	if v.Kind() != KindBool {
		return false, false
	}
	return bytes.TrimSpace(v.raw)[0] == 't', true
}

// Map returns the value when it is an object. Nested numbers are int64 or
// float64.
func (v Variant) Map() (map[string]any, bool) {
	if v.Kind() != KindMap {
		return nil, false
	}
	d, err := Decode(v.raw)
	if err != nil {
		return nil, false
	}
	m, ok := plain(d).(map[string]any)
	return m, ok
}

// List returns the value when it is an array. Nested numbers are int64 or
// float64.
func (v Variant) List() ([]any, bool) {
	if v.Kind() != KindList {
		return nil, false
	}
	d, err := Decode(v.raw)
	if err != nil {
		return nil, false
	}
	l, ok := plain(d).([]any)
	return l, ok
}

// Value returns the decoded value, with numbers as int64 or float64.
func (v Variant) Value() any {
	if len(v.raw) == 0 {
		return nil
	}
	d, err := Decode(v.raw)
	if err != nil {
		return nil
	}
	return plain(d)
}
