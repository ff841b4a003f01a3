package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
)

// walker carries the registry through one validation.
type walker struct {
	reg *Registry
}

func (w *walker) validate(t *Type, v any, path string) (any, error) {
	if t == nil {
		return plain(v), nil
	}
	switch t.Kind {
	case KindAny:
		return plain(v), nil
	case KindNull:
		if v != nil {
			return nil, mismatch(path, t, v)
		}
		return nil, nil
	case KindBool:
		b, ok := v.(bool)
		if !ok {
			return nil, mismatch(path, t, v)
		}
		return b, nil
	case KindInt:
		n, ok := toNumber(v)
		if !ok || !n.isInt {
			return nil, mismatch(path, t, v)
		}
		return n.i, nil
	case KindFloat:
		n, ok := toNumber(v)
		if !ok {
			return nil, mismatch(path, t, v)
		}
		return n.f, nil
	case KindString:
		s, ok := v.(string)
		if !ok {
			return nil, mismatch(path, t, v)
		}
		return s, nil
	case KindOptional:
		if v == nil {
			return nil, nil
		}
		return w.validate(t.Elem, v, path)
	case KindList:
		l, ok := v.([]any)
		if !ok {
			return nil, mismatch(path, t, v)
		}
		out := make([]any, len(l))
		for i, e := range l {
			val, err := w.validate(t.Elem, e, path+"["+strconv.Itoa(i)+"]")
			if err != nil {
				return nil, err
			}
			out[i] = val
		}
		return out, nil
	case KindMap:
		m, ok := v.(map[string]any)
		if !ok {
			return nil, mismatch(path, t, v)
		}
		out := make(map[string]any, len(m))
		// Sorted so the first failure reported is stable.
		for _, k := range slices.Sorted(maps.Keys(m)) {
			val, err := w.validate(t.Elem, m[k], joinKey(path, k))
			if err != nil {
				return nil, err
			}
			out[k] = val
		}
		return out, nil
	case KindUnion:
		return w.validateUnion(t, v, path)
	case KindRef:
		r, err := w.reg.Resolve(t.Ref)
		if err != nil {
			return nil, err
		}
		return w.construct(r, v, path)
	default:
		return nil, fmt.Errorf("%s: invalid type kind %d", path, t.Kind)
	}
}

// validateUnion tries each alternative in order. Alternatives whose shape
// cannot match the value's kind are rejected without a full validation.
func (w *walker) validateUnion(t *Type, v any, path string) (any, error) {
	k := kindOf(v)
	attempts := make([]error, 0, len(t.Alts))
	for _, alt := range t.Alts {
		if !alt.admits(k) {
			attempts = append(attempts, mismatch(path, alt, v))
			continue
		}
		val, err := w.validate(alt, v, path)
		if err == nil {
			return val, nil
		}
		var unknown *UnknownSchemaError
		if errors.As(err, &unknown) {
			return nil, err
		}
		attempts = append(attempts, err)
	}
	return nil, &UnionValidationError{Path: path, Attempts: attempts}
}

func mismatch(path string, t *Type, v any) error {
	return &TypeMismatchError{Path: path, Expected: t.String(), Actual: describe(v)}
}

func joinKey(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

// number is a JSON number split into its integral and floating forms.
type number struct {
	i     int64
	f     float64
	isInt bool
}

// toNumber converts the numeric representations produced by JSON decoders
// and Go callers. Integral values that fit in an int64 are reported as ints,
// whatever their literal form.
func toNumber(v any) (number, bool) {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return number{i: i, f: float64(i), isInt: true}, true
		}
		f, err := x.Float64()
		if err != nil {
			return number{}, false
		}
		return fromFloat(f), true
	case float64:
		return fromFloat(x), true
	case float32:
		return fromFloat(float64(x)), true
	case int:
		return number{i: int64(x), f: float64(x), isInt: true}, true
	case int64:
		return number{i: x, f: float64(x), isInt: true}, true
	case int32:
		return number{i: int64(x), f: float64(x), isInt: true}, true
	case uint32:
		return number{i: int64(x), f: float64(x), isInt: true}, true
	case uint64:
		if x > math.MaxInt64 {
			return number{f: float64(x)}, true
		}
		return number{i: int64(x), f: float64(x), isInt: true}, true
	default:
		return number{}, false
	}
}

func fromFloat(f float64) number {
	// 2^63 is exactly representable; anything at or above it overflows.
	if f == math.Trunc(f) && f >= -(1<<63) && f < 1<<63 {
		return number{i: int64(f), f: f, isInt: true}
	}
	return number{f: f}
}

// kindOf returns the JSON kind of v. Numbers are KindInt when integral.
func kindOf(v any) Kind {
	switch v.(type) {
	case nil:
		return KindNull
	case bool:
		return KindBool
	case string:
		return KindString
	case []any:
		return KindList
	case map[string]any:
		return KindMap
	}
	if n, ok := toNumber(v); ok {
		if n.isInt {
			return KindInt
		}
		return KindFloat
	}
	return KindAny
}

func describe(v any) string {
	if k := kindOf(v); k != KindAny {
		return k.String()
	}
	return fmt.Sprintf("%T", v)
}

// plain deep-copies v, converting json.Number to int64 or float64.
func plain(v any) any {
	switch x := v.(type) {
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = plain(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = plain(e)
		}
		return out
	case json.Number:
		n, ok := toNumber(x)
		if !ok {
			return x.String()
		}
		if n.isInt {
			return n.i
		}
		return n.f
	default:
		return v
	}
}
