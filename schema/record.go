package schema

import (
	"fmt"
	"log/slog"
	"slices"
)

// Field is a named, typed slot within a Record.
type Field struct {
	Name string
	Type *Type
	// Default is used when the field is absent, or null for optional fields.
	// It is shared between constructed values and must not be mutated.
	Default    any
	HasDefault bool
}

// Required declares a field that must be present.
func Required(name string, t *Type) Field {
	return Field{Name: name, Type: t}
}

// Opt declares a field that may be absent or null.
func Opt(name string, t *Type) Field {
	return Field{Name: name, Type: Optional(t)}
}

// Default declares a field that takes def when absent.
func Default(name string, t *Type, def any) Field {
	return Field{Name: name, Type: t, Default: def, HasDefault: true}
}

// IsRequired reports whether the field must be present in the payload.
func (f *Field) IsRequired() bool {
	return !f.HasDefault && f.Type.Kind != KindOptional
}

// Record is a named schema with an ordered list of fields.
type Record struct {
	Name   string
	Fields []Field
	// Wrapped records take the bare payload as the value of their single
	// field. Collections use this to expose a JSON array as "data".
	Wrapped bool
	// Normalize runs after every field validated. It may rewrite values in
	// place; it must not fail.
	Normalize func(values map[string]any)

	known map[string]struct{}
}

// Collection returns a wrapped record holding a list of elem records under
// "data".
func Collection(name, elem string) *Record {
	return &Record{
		Name:    name,
		Fields:  []Field{Required("data", List(Ref(elem)))},
		Wrapped: true,
	}
}

// FieldNames returns the declared field names in order.
func (r *Record) FieldNames() []string {
	out := make([]string, len(r.Fields))
	for i := range r.Fields {
		out[i] = r.Fields[i].Name
	}
	return out
}

// Field returns the named field, or nil.
func (r *Record) Field(name string) *Field {
	for i := range r.Fields {
		if r.Fields[i].Name == name {
			return &r.Fields[i]
		}
	}
	return nil
}

func (r *Record) init() error {
	if r.Name == "" {
		return fmt.Errorf("record has no name")
	}
	if r.Wrapped && len(r.Fields) != 1 {
		return fmt.Errorf("wrapped record %q must declare exactly one field, got %d", r.Name, len(r.Fields))
	}
	r.known = make(map[string]struct{}, len(r.Fields))
	for i := range r.Fields {
		f := &r.Fields[i]
		if f.Type == nil {
			f.Type = Any()
		}
		if _, ok := r.known[f.Name]; ok {
			return fmt.Errorf("record %q declares field %q twice", r.Name, f.Name)
		}
		r.known[f.Name] = struct{}{}
	}
	return nil
}

// construct validates v against r and returns the field values. Absent
// optional fields are present in the result with their default.
func (w *walker) construct(r *Record, v any, path string) (map[string]any, error) {
	if r.Wrapped {
		f := &r.Fields[0]
		val, err := w.validate(f.Type, v, path)
		if err != nil {
			return nil, err
		}
		out := map[string]any{f.Name: val}
		if r.Normalize != nil {
			r.Normalize(out)
		}
		return out, nil
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, &TypeMismatchError{Path: path, Expected: r.Name, Actual: describe(v)}
	}
	out := make(map[string]any, len(r.Fields))
	for i := range r.Fields {
		f := &r.Fields[i]
		p := joinKey(path, f.Name)
		raw, present := obj[f.Name]
		switch {
		case !present && f.HasDefault:
			out[f.Name] = f.Default
		case !present && f.Type.Kind == KindOptional:
			out[f.Name] = nil
		case !present:
			return nil, &MissingFieldError{Path: p}
		case raw == nil && f.Type.Kind == KindOptional:
			out[f.Name] = f.Default
		default:
			val, err := w.validate(f.Type, raw, p)
			if err != nil {
				return nil, err
			}
			out[f.Name] = val
		}
	}
	if extra := collectUnknown(obj, r.known); len(extra) != 0 {
		slog.Debug("unknown fields in payload", "record", r.Name, "path", path, "fields", extra)
	}
	if r.Normalize != nil {
		r.Normalize(out)
	}
	return out, nil
}

// collectUnknown returns the sorted keys of obj that are not in known.
func collectUnknown(obj map[string]any, known map[string]struct{}) []string {
	var extra []string
	for k := range obj {
		if _, ok := known[k]; !ok {
			extra = append(extra, k)
		}
	}
	slices.Sort(extra)
	return extra
}
