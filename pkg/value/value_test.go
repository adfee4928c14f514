package value

import (
	"math"
	"testing"
)

func TestSingletonsCompareEqual(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		a, b Value
	}{
		{"undefined", Undefined(), Undefined()},
		{"null", Null(), Null()},
		{"true", Bool(true), Bool(true)},
		{"false", Bool(false), Bool(false)},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if tc.a != tc.b {
				t.Fatalf("expected %s singletons to be identical copies", tc.name)
			}
			eq, err := Equals(tc.a, tc.b)
			if err != nil || !eq {
				t.Fatalf("expected %s to equal itself, got eq=%v err=%v", tc.name, eq, err)
			}
		})
	}
}

func TestUndefinedDistinctFromNull(t *testing.T) {
	t.Parallel()
	if Undefined() == Null() {
		t.Fatalf("Undefined and Null must be distinct")
	}
	eq, err := Equals(Undefined(), Null())
	if err != nil {
		t.Fatal(err)
	}
	if eq {
		t.Fatalf("Undefined must not equal Null")
	}
}

func TestTruthy(t *testing.T) {
	t.Parallel()
	falsy := []Value{Undefined(), Null(), Bool(false), Number(math.NaN())}
	for _, v := range falsy {
		if v.Truthy() {
			t.Fatalf("expected %+v to be falsy", v)
		}
	}
	truthy := []Value{Bool(true), Number(0), Number(-1), String(""), NewArray(nil), NewObject()}
	for _, v := range truthy {
		if !v.Truthy() {
			t.Fatalf("expected %+v to be truthy", v)
		}
	}
}

func TestNumberEqualityAndNaN(t *testing.T) {
	t.Parallel()
	a, b := Number(3.5), Number(3.5)
	eq, err := Equals(a, b)
	if err != nil || !eq {
		t.Fatalf("expected equal numbers to compare equal")
	}
	nan := Number(math.NaN())
	eq, err = Equals(nan, nan)
	if err != nil {
		t.Fatal(err)
	}
	if eq {
		t.Fatalf("NaN must never compare equal, even to itself")
	}
}

func TestObjectIdentityEquality(t *testing.T) {
	t.Parallel()
	a := NewObject()
	b := NewObject()
	Set(a, String("x"), Number(1))
	Set(b, String("x"), Number(1))
	eq, err := Equals(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if eq {
		t.Fatalf("two distinct objects with identical fields must not compare equal by default")
	}
	eqSelf, err := Equals(a, a)
	if err != nil || !eqSelf {
		t.Fatalf("an object must equal itself")
	}
}

func TestToIntegerTruncatesTowardZero(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in   float64
		want int64
	}{
		{3.9, 3},
		{-3.9, -3},
		{0, 0},
	}
	for _, tc := range cases {
		got, err := Number(tc.in).ToInteger()
		if err != nil {
			t.Fatal(err)
		}
		if got != tc.want {
			t.Fatalf("ToInteger(%v) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestToIntegerViaNumberMetamethod(t *testing.T) {
	t.Parallel()
	o := newTestObject()
	o.Obj.OwnSet(String("__number"), NewNativeFunction(func(state Dispatcher, args []Value) (Value, error) {
		return Number(42), nil
	}))
	got, err := o.ToInteger()
	if err != nil {
		t.Fatal(err)
	}
	if got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
}

func TestStringifyBooleansAndNumbers(t *testing.T) {
	t.Parallel()
	s, _ := Bool(true).Stringify()
	if s != "true" {
		t.Fatalf("got %q", s)
	}
	s, _ = Bool(false).Stringify()
	if s != "false" {
		t.Fatalf("got %q", s)
	}
	s, _ = Number(3).Stringify()
	if s != "3" {
		t.Fatalf("got %q", s)
	}
}

func TestStringifyObjectDefaultAndOverride(t *testing.T) {
	t.Parallel()
	o := NewObject()
	s, err := o.Stringify()
	if err != nil {
		t.Fatal(err)
	}
	if s != "object" {
		t.Fatalf("expected default stringify to be %q, got %q", "object", s)
	}

	withHook := newTestObject()
	withHook.Obj.OwnSet(String("__string"), NewNativeFunction(func(state Dispatcher, args []Value) (Value, error) {
		return String("custom"), nil
	}))
	s, err = withHook.Stringify()
	if err != nil {
		t.Fatal(err)
	}
	if s != "custom" {
		t.Fatalf("expected __string override, got %q", s)
	}
}

func TestStringifyWrongTypeFromHook(t *testing.T) {
	t.Parallel()
	o := newTestObject()
	o.Obj.OwnSet(String("__string"), NewNativeFunction(func(state Dispatcher, args []Value) (Value, error) {
		return Number(1), nil
	}))
	_, err := o.Stringify()
	if !IsCode(err, CodeStringCastWrongType) {
		t.Fatalf("expected StringCastWrongType, got %v", err)
	}
}
