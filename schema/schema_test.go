package schema

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"
)

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	reg := NewRegistry()
	// Process is registered before ProcessConfig on purpose.
	reg.MustRegister(
		&Record{Name: "Process", Fields: []Field{
			Opt("id", String()),
			Opt("config", Ref("ProcessConfig")),
			Opt("created_at", Int()),
			Default("type", String(), "ffmpeg"),
		}},
		&Record{Name: "ProcessConfig", Fields: []Field{
			Required("id", String()),
			Required("input", List(Ref("IO"))),
			Opt("options", List(String())),
		}},
		&Record{Name: "IO", Fields: []Field{
			Required("id", String()),
			Required("address", String()),
		}},
		&Record{Name: "Metadata", Wrapped: true, Fields: []Field{
			Required("data", Union(Int(), Float(), String(), Object(), List(Any()))),
		}},
		&Record{Name: "Error", Fields: []Field{
			Required("code", Int()),
			Required("message", String()),
			Required("details", List(Any())),
		}},
		Collection("IOList", "IO"),
	)
	return reg
}

func decode(t *testing.T, s string) any {
	t.Helper()
	v, err := Decode([]byte(s))
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func TestRegistry(t *testing.T) {
	t.Run("Duplicate", func(t *testing.T) {
		reg := NewRegistry()
		if err := reg.Register(&Record{Name: "A"}); err != nil {
			t.Fatal(err)
		}
		err := reg.Register(&Record{Name: "A"})
		var dup *DuplicateSchemaError
		if !errors.As(err, &dup) {
			t.Fatalf("got %v, want DuplicateSchemaError", err)
		}
		if dup.Name != "A" {
			t.Errorf("Name = %q", dup.Name)
		}
		if errors.Is(err, ErrValidation) {
			t.Error("registration error must not be a validation error")
		}
	})
	t.Run("Unknown", func(t *testing.T) {
		reg := NewRegistry()
		_, err := reg.Resolve("Nope")
		var unk *UnknownSchemaError
		if !errors.As(err, &unk) || unk.Name != "Nope" {
			t.Fatalf("got %v, want UnknownSchemaError", err)
		}
	})
	t.Run("UnknownReferenceAtFirstUse", func(t *testing.T) {
		reg := NewRegistry()
		if err := reg.Register(&Record{Name: "A", Fields: []Field{Required("b", Ref("B"))}}); err != nil {
			t.Fatal(err)
		}
		_, err := reg.Construct("A", decode(t, `{"b":{}}`))
		var unk *UnknownSchemaError
		if !errors.As(err, &unk) || unk.Name != "B" {
			t.Fatalf("got %v, want UnknownSchemaError for B", err)
		}
	})
	t.Run("InvalidRecord", func(t *testing.T) {
		reg := NewRegistry()
		if err := reg.Register(&Record{Name: "W", Wrapped: true}); err == nil {
			t.Error("expected error for wrapped record without field")
		}
		if err := reg.Register(&Record{Name: "D", Fields: []Field{Required("a", Int()), Required("a", Int())}}); err == nil {
			t.Error("expected error for duplicate field")
		}
	})
	t.Run("Names", func(t *testing.T) {
		got := testRegistry(t).Names()
		want := []string{"Error", "IO", "IOList", "Metadata", "Process", "ProcessConfig"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})
	t.Run("Check", func(t *testing.T) {
		if err := testRegistry(t).Check(); err != nil {
			t.Fatal(err)
		}
		reg := NewRegistry()
		reg.MustRegister(
			&Record{Name: "A", Fields: []Field{Required("b", Ref("B")), Opt("x", Ref("Missing"))}},
			&Record{Name: "B", Fields: []Field{Required("a", Ref("A"))}},
			&Record{Name: "Tree", Fields: []Field{Opt("parent", Ref("Tree")), Required("children", List(Ref("Tree")))}},
		)
		err := reg.Check()
		if err == nil {
			t.Fatal("expected error")
		}
		msg := err.Error()
		if !strings.Contains(msg, "A.x") || !strings.Contains(msg, "Missing") {
			t.Errorf("missing unknown reference in %q", msg)
		}
		if !strings.Contains(msg, "required reference cycle [A B A]") {
			t.Errorf("missing cycle in %q", msg)
		}
		if strings.Contains(msg, "Tree") {
			t.Errorf("indirect self reference must be allowed: %q", msg)
		}
	})
}

func TestConstruct(t *testing.T) {
	reg := testRegistry(t)
	t.Run("RoundTrip", func(t *testing.T) {
		const input = `{"id":"p1","config":{"id":"c1","input":[{"id":"in","address":"rtmp://x"}],"options":["-re"]},"created_at":1658923249,"type":"ffmpeg"}`
		got, err := reg.Construct("Process", decode(t, input))
		if err != nil {
			t.Fatal(err)
		}
		b, err := json.Marshal(got)
		if err != nil {
			t.Fatal(err)
		}
		var a, w any
		_ = json.Unmarshal(b, &a)
		_ = json.Unmarshal([]byte(input), &w)
		if !reflect.DeepEqual(a, w) {
			t.Errorf("got %s, want %s", b, input)
		}
		if v := got["created_at"]; v != int64(1658923249) {
			t.Errorf("created_at = %#v, want int64", v)
		}
	})
	t.Run("Defaults", func(t *testing.T) {
		got, err := reg.Construct("Process", decode(t, `{"id":"5498e0edcbf04dca8837dc3ea3814c37","waitfor_seconds":0}`))
		if err != nil {
			t.Fatal(err)
		}
		want := map[string]any{"id": "5498e0edcbf04dca8837dc3ea3814c37", "config": nil, "created_at": nil, "type": "ffmpeg"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})
	t.Run("UnknownKeysIgnored", func(t *testing.T) {
		got, err := reg.Construct("IO", decode(t, `{"id":"a","address":"b","new_field":{"x":1}}`))
		if err != nil {
			t.Fatal(err)
		}
		if _, ok := got["new_field"]; ok {
			t.Error("unknown key must be dropped")
		}
	})
	t.Run("MissingField", func(t *testing.T) {
		_, err := reg.Construct("IO", decode(t, `{"id":"a"}`))
		var mf *MissingFieldError
		if !errors.As(err, &mf) {
			t.Fatalf("got %v, want MissingFieldError", err)
		}
		if mf.Path != "address" {
			t.Errorf("Path = %q, want %q", mf.Path, "address")
		}
		if !errors.Is(err, ErrValidation) {
			t.Error("expected ErrValidation")
		}
	})
	t.Run("NestedMissingField", func(t *testing.T) {
		_, err := reg.Construct("Process", decode(t, `{"id":"p","config":{"input":[]}}`))
		var mf *MissingFieldError
		if !errors.As(err, &mf) {
			t.Fatalf("got %v, want MissingFieldError", err)
		}
		if mf.Path != "config.id" {
			t.Errorf("Path = %q, want %q", mf.Path, "config.id")
		}
	})
	t.Run("NestedListPath", func(t *testing.T) {
		_, err := reg.Construct("Process", decode(t, `{"config":{"id":"c","input":[{"id":"a","address":"b"},{"id":"c","address":"d"},{"id":"e","address":7}]}}`))
		var tm *TypeMismatchError
		if !errors.As(err, &tm) {
			t.Fatalf("got %v, want TypeMismatchError", err)
		}
		if tm.Path != "config.input[2].address" {
			t.Errorf("Path = %q", tm.Path)
		}
		if tm.Expected != "string" || tm.Actual != "int" {
			t.Errorf("got expected=%q actual=%q", tm.Expected, tm.Actual)
		}
	})
	t.Run("NotAnObject", func(t *testing.T) {
		_, err := reg.Construct("Process", decode(t, `[1]`))
		var tm *TypeMismatchError
		if !errors.As(err, &tm) {
			t.Fatalf("got %v, want TypeMismatchError", err)
		}
		if tm.Expected != "Process" || tm.Actual != "list" {
			t.Errorf("got %q", tm.Error())
		}
	})
	t.Run("NullRequired", func(t *testing.T) {
		_, err := reg.Construct("IO", decode(t, `{"id":null,"address":"b"}`))
		var tm *TypeMismatchError
		if !errors.As(err, &tm) || tm.Path != "id" || tm.Actual != "null" {
			t.Fatalf("got %v, want TypeMismatchError on id", err)
		}
	})
	t.Run("Error", func(t *testing.T) {
		got, err := reg.Construct("Error", decode(t, `{"code":400,"message":"bad","details":["a",1]}`))
		if err != nil {
			t.Fatal(err)
		}
		want := map[string]any{"code": int64(400), "message": "bad", "details": []any{"a", int64(1)}}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %#v, want %#v", got, want)
		}
	})
	t.Run("Normalize", func(t *testing.T) {
		reg := NewRegistry()
		reg.MustRegister(&Record{
			Name:   "N",
			Fields: []Field{Opt("name", String()), Opt("publisher", Map(Int()))},
			Normalize: func(v map[string]any) {
				if v["name"] != nil {
					v["publisher"] = nil
				}
			},
		})
		got, err := reg.Construct("N", decode(t, `{"name":"x","publisher":{"a":1}}`))
		if err != nil {
			t.Fatal(err)
		}
		if got["publisher"] != nil {
			t.Errorf("publisher = %v, want nil", got["publisher"])
		}
	})
}

func TestScalars(t *testing.T) {
	reg := NewRegistry()
	data := []struct {
		name string
		typ  *Type
		in   string
		want any
		err  bool
	}{
		{"Int", Int(), `42`, int64(42), false},
		{"IntIntegralFloat", Int(), `5.0`, int64(5), false},
		{"IntFraction", Int(), `4.5`, nil, true},
		{"IntFromString", Int(), `"42"`, nil, true},
		{"IntOverflow", Int(), `1e30`, nil, true},
		{"Float", Float(), `4.5`, 4.5, false},
		{"FloatFromInt", Float(), `4`, 4.0, false},
		{"FloatFromString", Float(), `"4.5"`, nil, true},
		{"String", String(), `"x"`, "x", false},
		{"StringFromNumber", String(), `1`, nil, true},
		{"Bool", Bool(), `true`, true, false},
		{"BoolFromString", Bool(), `"true"`, nil, true},
		{"OptionalNull", Optional(Int()), `null`, nil, false},
		{"AnyNull", Any(), `null`, nil, false},
		{"ListMismatch", List(Int()), `{"a":1}`, nil, true},
		{"MapMismatch", Map(Int()), `[1]`, nil, true},
	}
	for _, line := range data {
		t.Run(line.name, func(t *testing.T) {
			got, err := reg.Validate(line.typ, decode(t, line.in))
			if line.err {
				var tm *TypeMismatchError
				if !errors.As(err, &tm) {
					t.Fatalf("got %v, want TypeMismatchError", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got, line.want) {
				t.Errorf("got %#v, want %#v", got, line.want)
			}
		})
	}
}

func TestUnion(t *testing.T) {
	reg := testRegistry(t)
	data := []struct {
		in   string
		want any
	}{
		{`42`, int64(42)},
		{`4.5`, 4.5},
		{`"x"`, "x"},
		{`{"a":1}`, map[string]any{"a": int64(1)}},
		{`[1,2]`, []any{int64(1), int64(2)}},
	}
	for _, line := range data {
		t.Run(line.in, func(t *testing.T) {
			got, err := reg.Construct("Metadata", decode(t, line.in))
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got["data"], line.want) {
				t.Errorf("got %#v, want %#v", got["data"], line.want)
			}
		})
	}
	t.Run("NoMatch", func(t *testing.T) {
		_, err := reg.Construct("Metadata", decode(t, `true`))
		var ue *UnionValidationError
		if !errors.As(err, &ue) {
			t.Fatalf("got %v, want UnionValidationError", err)
		}
		if len(ue.Attempts) != 5 {
			t.Fatalf("got %d attempts, want 5", len(ue.Attempts))
		}
		if !errors.Is(err, ErrValidation) {
			t.Error("expected ErrValidation")
		}
	})
	t.Run("DeclaredOrder", func(t *testing.T) {
		// Both alternatives accept an object; the first one wins.
		typ := Union(Map(Any()), Ref("IO"))
		got, err := reg.Validate(typ, decode(t, `{"id":"a","address":"b","x":1}`))
		if err != nil {
			t.Fatal(err)
		}
		if _, ok := got.(map[string]any)["x"]; !ok {
			t.Error("expected the mapping alternative to win")
		}
	})
	t.Run("WrappedRef", func(t *testing.T) {
		// A wrapped record takes a bare array, so the reference must be tried.
		typ := Union(String(), Ref("IOList"))
		got, err := reg.Validate(typ, decode(t, `[{"id":"a","address":"b"}]`))
		if err != nil {
			t.Fatal(err)
		}
		m, ok := got.(map[string]any)
		if !ok {
			t.Fatalf("got %#v, want a record", got)
		}
		if l, _ := m["data"].([]any); len(l) != 1 {
			t.Errorf("got data %#v, want 1 element", m["data"])
		}
	})
	t.Run("WrappedRefMismatch", func(t *testing.T) {
		typ := Union(String(), Ref("IOList"))
		_, err := reg.Validate(typ, decode(t, `true`))
		var ue *UnionValidationError
		if !errors.As(err, &ue) {
			t.Fatalf("got %v, want UnionValidationError", err)
		}
		if len(ue.Attempts) != 2 {
			t.Errorf("got %d attempts, want 2", len(ue.Attempts))
		}
	})
	t.Run("NestedAttempts", func(t *testing.T) {
		typ := Union(Map(List(Int())), List(Int()))
		_, err := reg.Validate(typ, decode(t, `{"a":[1,"x"]}`))
		var ue *UnionValidationError
		if !errors.As(err, &ue) {
			t.Fatalf("got %v, want UnionValidationError", err)
		}
		var tm *TypeMismatchError
		if !errors.As(ue.Attempts[0], &tm) || tm.Path != "a[1]" {
			t.Errorf("first attempt = %v", ue.Attempts[0])
		}
	})
}

func TestCollection(t *testing.T) {
	reg := testRegistry(t)
	t.Run("Order", func(t *testing.T) {
		got, err := reg.Construct("IOList", decode(t, `[{"id":"c","address":"1"},{"id":"a","address":"2"},{"id":"c","address":"1"}]`))
		if err != nil {
			t.Fatal(err)
		}
		l := got["data"].([]any)
		if len(l) != 3 {
			t.Fatalf("got %d, want 3", len(l))
		}
		for i, id := range []string{"c", "a", "c"} {
			if got := l[i].(map[string]any)["id"]; got != id {
				t.Errorf("[%d] id = %v, want %s", i, got, id)
			}
		}
	})
	t.Run("NotArray", func(t *testing.T) {
		_, err := reg.Construct("IOList", decode(t, `{"data":[]}`))
		var tm *TypeMismatchError
		if !errors.As(err, &tm) {
			t.Fatalf("got %v, want TypeMismatchError", err)
		}
	})
	t.Run("ElementPath", func(t *testing.T) {
		_, err := reg.Construct("IOList", decode(t, `[{"id":"c","address":"1"},{"id":"a"}]`))
		var mf *MissingFieldError
		if !errors.As(err, &mf) || mf.Path != "[1].address" {
			t.Fatalf("got %v, want MissingFieldError [1].address", err)
		}
	})
}

func TestConstructJSON(t *testing.T) {
	reg := testRegistry(t)
	if _, err := reg.ConstructJSON("IO", []byte(`{"id":`)); err == nil || errors.Is(err, ErrValidation) {
		t.Errorf("got %v, want a parse error", err)
	}
	for _, in := range []string{
		`{"id":"a","address":"b"} {}`,
		`{"id":"a","address":"b"}]`,
		`{"id":"a","address":"b"}}`,
		`{"id":"a","address":"b"} x`,
	} {
		if _, err := reg.ConstructJSON("IO", []byte(in)); err == nil {
			t.Errorf("%s: expected trailing data error", in)
		}
	}
	for _, in := range []string{`[1]}`, `1 ]`} {
		if _, err := Decode([]byte(in)); err == nil {
			t.Errorf("%s: expected trailing data error", in)
		}
	}
	if _, err := Decode([]byte("[1] \n")); err != nil {
		t.Errorf("trailing whitespace: %v", err)
	}
	got, err := reg.ConstructJSON("IO", []byte(`{"id":"a","address":"b"}`))
	if err != nil {
		t.Fatal(err)
	}
	if got["id"] != "a" {
		t.Errorf("got %v", got)
	}
}

func TestConcurrentConstruct(t *testing.T) {
	reg := testRegistry(t)
	v := decode(t, `{"config":{"id":"c","input":[{"id":"a","address":"b"}]}}`)
	var wg sync.WaitGroup
	for range 8 {
		wg.Go(func() {
			for range 100 {
				if _, err := reg.Construct("Process", v); err != nil {
					t.Error(err)
					return
				}
			}
		})
	}
	wg.Wait()
}
