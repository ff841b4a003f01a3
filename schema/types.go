// Package schema validates decoded JSON values against named record
// definitions and builds normalized values from them.
//
// A Registry holds Record definitions. Fields are typed with Type values built
// from the constructors in this file. References between records are resolved
// lazily, on first validation, so records can be registered in any order.
package schema

import "strings"

// Kind identifies the shape of a Type.
type Kind int

// Type kinds. Scalars first, then containers.
const (
	KindAny Kind = iota
	KindNull
	KindBool
	KindInt
	KindFloat
	KindString
	KindOptional
	KindList
	KindMap
	KindUnion
	KindRef
)

func (k Kind) String() string {
	switch k {
	case KindAny:
		return "any"
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindOptional:
		return "optional"
	case KindList:
		return "list"
	case KindMap:
		return "mapping"
	case KindUnion:
		return "union"
	case KindRef:
		return "ref"
	default:
		return "unknown"
	}
}

// Type is a field type. Build it with the constructors below; the zero value
// accepts anything.
type Type struct {
	Kind Kind
	Elem *Type   // KindOptional, KindList, KindMap.
	Alts []*Type // KindUnion, in resolution order.
	Ref  string  // KindRef.
}

// Scalar and container constructors.
var (
	anyType    = &Type{Kind: KindAny}
	boolType   = &Type{Kind: KindBool}
	intType    = &Type{Kind: KindInt}
	floatType  = &Type{Kind: KindFloat}
	stringType = &Type{Kind: KindString}
)

// Any accepts every JSON value, including null.
func Any() *Type { return anyType }

// Bool accepts true and false.
func Bool() *Type { return boolType }

// Int accepts integral numbers that fit in an int64.
func Int() *Type { return intType }

// Float accepts any number.
func Float() *Type { return floatType }

// String accepts strings.
func String() *Type { return stringType }

// Optional accepts null or a value of t.
func Optional(t *Type) *Type { return &Type{Kind: KindOptional, Elem: t} }

// List accepts an array whose elements are all of t.
func List(t *Type) *Type { return &Type{Kind: KindList, Elem: t} }

// Map accepts an object whose values are all of t.
func Map(t *Type) *Type { return &Type{Kind: KindMap, Elem: t} }

// Union accepts the first of alts that validates.
func Union(alts ...*Type) *Type { return &Type{Kind: KindUnion, Alts: alts} }

// Ref accepts an object matching the named record.
func Ref(name string) *Type { return &Type{Kind: KindRef, Ref: name} }

// Object accepts any JSON object.
func Object() *Type { return Map(anyType) }

// String returns the type in a compact notation, e.g. "list<int|float>".
func (t *Type) String() string {
	if t == nil {
		return "any"
	}
	switch t.Kind {
	case KindOptional:
		return "optional<" + t.Elem.String() + ">"
	case KindList:
		return "list<" + t.Elem.String() + ">"
	case KindMap:
		return "mapping<" + t.Elem.String() + ">"
	case KindUnion:
		parts := make([]string, len(t.Alts))
		for i, a := range t.Alts {
			parts[i] = a.String()
		}
		return strings.Join(parts, "|")
	case KindRef:
		return t.Ref
	default:
		return t.Kind.String()
	}
}

// admits reports whether a value of JSON kind k could possibly validate
// against t. It is used to skip union alternatives without attempting a full
// validation. References are never resolved here and admit every kind, since
// a wrapped record takes a bare payload of any shape.
func (t *Type) admits(k Kind) bool {
	if t == nil {
		return true
	}
	switch t.Kind {
	case KindAny:
		return true
	case KindOptional:
		return k == KindNull || t.Elem.admits(k)
	case KindUnion:
		for _, a := range t.Alts {
			if a.admits(k) {
				return true
			}
		}
		return false
	case KindRef:
		return true
	case KindFloat:
		return k == KindInt || k == KindFloat
	default:
		return t.Kind == k
	}
}
