package schema

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// Registry is a set of records that can reference each other by name.
//
// It is safe for concurrent use. Registration normally happens once at
// startup; validation only takes the read lock.
type Registry struct {
	mu      sync.RWMutex
	records map[string]*Record
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{records: make(map[string]*Record)}
}

// Register adds r. References in r are not resolved until first use.
func (reg *Registry) Register(r *Record) error {
	if err := r.init(); err != nil {
		return err
	}
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if _, ok := reg.records[r.Name]; ok {
		return &DuplicateSchemaError{Name: r.Name}
	}
	reg.records[r.Name] = r
	return nil
}

// MustRegister registers every record and panics on the first error.
func (reg *Registry) MustRegister(records ...*Record) {
	for _, r := range records {
		if err := reg.Register(r); err != nil {
			panic(err)
		}
	}
}

// Resolve returns the named record.
func (reg *Registry) Resolve(name string) (*Record, error) {
	reg.mu.RLock()
	r, ok := reg.records[name]
	reg.mu.RUnlock()
	if !ok {
		return nil, &UnknownSchemaError{Name: name}
	}
	return r, nil
}

// Names returns the registered record names, sorted.
func (reg *Registry) Names() []string {
	reg.mu.RLock()
	out := make([]string, 0, len(reg.records))
	for n := range reg.records {
		out = append(out, n)
	}
	reg.mu.RUnlock()
	slices.Sort(out)
	return out
}

// Construct validates v against the named record and returns its field
// values, normalized. v is a decoded JSON value as produced by encoding/json
// (numbers may be float64 or json.Number).
//
// The result is either complete or nil; a failure never leaves a partially
// built value.
func (reg *Registry) Construct(name string, v any) (map[string]any, error) {
	r, err := reg.Resolve(name)
	if err != nil {
		return nil, err
	}
	w := walker{reg: reg}
	return w.construct(r, v, "")
}

// Validate validates v against t and returns the normalized value.
func (reg *Registry) Validate(t *Type, v any) (any, error) {
	w := walker{reg: reg}
	return w.validate(t, v, "")
}

// Check resolves every reference of every registered record and reports
// references to unknown records and cycles made only of required references.
// It returns nil when the registry is consistent.
func (reg *Registry) Check() error {
	var errs []error
	names := reg.Names()
	for _, n := range names {
		r, _ := reg.Resolve(n)
		for i := range r.Fields {
			f := &r.Fields[i]
			for _, ref := range refsOf(f.Type, nil) {
				if _, err := reg.Resolve(ref); err != nil {
					errs = append(errs, fmt.Errorf("%s.%s: %w", r.Name, f.Name, err))
				}
			}
		}
	}
	// Depth-first search over required, direct references.
	const (
		white = iota
		grey
		black
	)
	color := make(map[string]int, len(names))
	var visit func(n string, stack []string)
	visit = func(n string, stack []string) {
		color[n] = grey
		stack = append(stack, n)
		r, err := reg.Resolve(n)
		if err == nil {
			for i := range r.Fields {
				f := &r.Fields[i]
				if !f.IsRequired() || f.Type.Kind != KindRef {
					continue
				}
				switch color[f.Type.Ref] {
				case grey:
					j := slices.Index(stack, f.Type.Ref)
					cycle := append(slices.Clone(stack[j:]), f.Type.Ref)
					errs = append(errs, fmt.Errorf("required reference cycle %v", cycle))
				case white:
					visit(f.Type.Ref, stack)
				}
			}
		}
		color[n] = black
	}
	for _, n := range names {
		if color[n] == white {
			visit(n, nil)
		}
	}
	return errors.Join(errs...)
}

// refsOf appends every record name referenced by t.
func refsOf(t *Type, out []string) []string {
	if t == nil {
		return out
	}
	switch t.Kind {
	case KindRef:
		return append(out, t.Ref)
	case KindOptional, KindList, KindMap:
		return refsOf(t.Elem, out)
	case KindUnion:
		for _, a := range t.Alts {
			out = refsOf(a, out)
		}
	}
	return out
}
