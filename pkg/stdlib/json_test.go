package stdlib

import (
	"reflect"
	"testing"

	"github.com/vela-lang/vela/pkg/value"
)

// stubGlobals is the narrowest possible Globals implementation: a plain
// name->Value map, enough to let RegisterJSON attach its natives without
// pulling in pkg/lang.
type stubGlobals struct {
	defs map[string]value.Value
}

func newStubGlobals() *stubGlobals {
	return &stubGlobals{defs: make(map[string]value.Value)}
}

func (g *stubGlobals) Define(name string, v value.Value) {
	g.defs[name] = v
}

func callGlobal(t *testing.T, g *stubGlobals, name string, args ...value.Value) (value.Value, error) {
	t.Helper()
	fn, ok := g.defs[name]
	if !ok || !fn.IsFunction() || fn.Fn.Kind != value.ClosureNative {
		t.Fatalf("%s is not registered as a native function", name)
	}
	return fn.Fn.Native(nil, args)
}

func TestJSONToValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input any
		check func(t *testing.T, got value.Value)
	}{
		{
			name:  "null",
			input: nil,
			check: func(t *testing.T, got value.Value) {
				if !got.IsNull() {
					t.Errorf("got %+v, want Null", got)
				}
			},
		},
		{
			name:  "true",
			input: true,
			check: func(t *testing.T, got value.Value) {
				if !got.IsTrue() {
					t.Errorf("got %+v, want True", got)
				}
			},
		},
		{
			name:  "number",
			input: 42.5,
			check: func(t *testing.T, got value.Value) {
				if !got.IsNumber() || got.Num != 42.5 {
					t.Errorf("got %+v, want Number(42.5)", got)
				}
			},
		},
		{
			name:  "string",
			input: "hello",
			check: func(t *testing.T, got value.Value) {
				if !got.IsString() || got.Str != "hello" {
					t.Errorf("got %+v, want String(hello)", got)
				}
			},
		},
		{
			name:  "array",
			input: []any{1.0, 2.0, 3.0},
			check: func(t *testing.T, got value.Value) {
				if !got.IsArray() || got.Arr.Len() != 3 {
					t.Fatalf("got %+v, want a 3-element array", got)
				}
				if got.Arr.Elements[1].Num != 2.0 {
					t.Errorf("element 1 = %+v, want Number(2)", got.Arr.Elements[1])
				}
			},
		},
		{
			name:  "object keys sorted and addressable",
			input: map[string]any{"b": 2.0, "a": 1.0},
			check: func(t *testing.T, got value.Value) {
				if !got.IsObject() {
					t.Fatalf("got %+v, want an Object", got)
				}
				keys := got.Obj.OwnKeys()
				if len(keys) != 2 || keys[0].Str != "a" || keys[1].Str != "b" {
					t.Errorf("keys = %+v, want [a b] in sorted order", keys)
				}
				a, err := value.Get(got, value.String("a"))
				if err != nil || a.Num != 1.0 {
					t.Errorf("a = %+v, err %v, want 1", a, err)
				}
				b, err := value.Get(got, value.String("b"))
				if err != nil || b.Num != 2.0 {
					t.Errorf("b = %+v, err %v, want 2", b, err)
				}
			},
		},
		{
			name:  "nested object",
			input: map[string]any{"a": map[string]any{"b": 1.0}},
			check: func(t *testing.T, got value.Value) {
				inner, err := value.Get(got, value.String("a"))
				if err != nil || !inner.IsObject() {
					t.Fatalf("a = %+v, err %v, want an Object", inner, err)
				}
				b, err := value.Get(inner, value.String("b"))
				if err != nil || b.Num != 1.0 {
					t.Errorf("a.b = %+v, err %v, want 1", b, err)
				}
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tt.check(t, jsonToValue(tt.input))
		})
	}
}

func TestValueToJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   value.Value
		want    any
		wantErr bool
	}{
		{name: "undefined", input: value.Undefined(), want: nil},
		{name: "null", input: value.Null(), want: nil},
		{name: "true", input: value.Bool(true), want: true},
		{name: "false", input: value.Bool(false), want: false},
		{name: "number", input: value.Number(3.14), want: 3.14},
		{name: "string", input: value.String("hi"), want: "hi"},
		{
			name:  "array",
			input: value.NewArray([]value.Value{value.Number(1), value.Number(2)}),
			want:  []any{1.0, 2.0},
		},
		{
			name:    "function cannot encode",
			input:   value.NewNativeFunction(func(value.Dispatcher, []value.Value) (value.Value, error) { return value.Undefined(), nil }),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := valueToJSON(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if arr, ok := tt.want.([]any); ok {
				gotArr, ok := got.([]any)
				if !ok || len(gotArr) != len(arr) {
					t.Fatalf("got %#v, want %#v", got, tt.want)
				}
				for i := range arr {
					if gotArr[i] != arr[i] {
						t.Errorf("element %d = %#v, want %#v", i, gotArr[i], arr[i])
					}
				}
				return
			}
			if got != tt.want {
				t.Errorf("got %#v, want %#v", got, tt.want)
			}
		})
	}
}

// TestJSONRoundTrip mirrors the teacher's TestJSONRoundTrip: parse_json
// then format_json should reproduce an equivalent value for every
// primitive and for a compound object/array.
func TestJSONRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		json string
	}{
		{name: "string", json: `"simple string"`},
		{name: "integer", json: `42`},
		{name: "float", json: `3.14`},
		{name: "true", json: `true`},
		{name: "false", json: `false`},
		{name: "null", json: `null`},
		{name: "array", json: `[1,2,3]`},
		{name: "object", json: `{"age":30,"name":"Alice"}`},
		{name: "nested", json: `{"a":{"b":{"c":1}}}`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := newStubGlobals()
			RegisterJSON(g)

			parsed, err := callGlobal(t, g, "parse_json", value.String(tt.json))
			if err != nil {
				t.Fatalf("parse_json failed: %v", err)
			}

			formatted, err := callGlobal(t, g, "format_json", parsed)
			if err != nil {
				t.Fatalf("format_json failed: %v", err)
			}
			if !formatted.IsString() {
				t.Fatalf("format_json returned %+v, want a String", formatted)
			}

			reparsed, err := callGlobal(t, g, "parse_json", formatted)
			if err != nil {
				t.Fatalf("re-parsing formatted JSON failed: %v", err)
			}

			// Array/Object equality is handle identity by default (§4.9),
			// so two independently-parsed structures are never == each
			// other; compare their plain-Go encodings instead.
			want, err := valueToJSON(parsed)
			if err != nil {
				t.Fatalf("valueToJSON(parsed) failed: %v", err)
			}
			got, err := valueToJSON(reparsed)
			if err != nil {
				t.Fatalf("valueToJSON(reparsed) failed: %v", err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("round trip mismatch: got %#v, want %#v", got, want)
			}
		})
	}
}

func TestParseJSONRejectsNonString(t *testing.T) {
	t.Parallel()
	g := newStubGlobals()
	RegisterJSON(g)

	if _, err := callGlobal(t, g, "parse_json", value.Number(42)); err == nil {
		t.Fatal("expected parse_json(42) to fail")
	}
	if _, err := callGlobal(t, g, "parse_json"); err == nil {
		t.Fatal("expected parse_json() with no arguments to fail")
	}
}

func TestFormatJSONPretty(t *testing.T) {
	t.Parallel()
	g := newStubGlobals()
	RegisterJSON(g)

	obj := value.NewObject()
	if err := value.Set(obj, value.String("a"), value.Number(1)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	compact, err := callGlobal(t, g, "format_json", obj)
	if err != nil {
		t.Fatalf("format_json failed: %v", err)
	}
	pretty, err := callGlobal(t, g, "format_json", obj, value.Bool(true))
	if err != nil {
		t.Fatalf("format_json(pretty) failed: %v", err)
	}
	if compact.Str == pretty.Str {
		t.Errorf("expected pretty output to differ from compact output")
	}
}
