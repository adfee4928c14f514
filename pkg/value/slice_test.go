package value

import "testing"

func arrayToInts(t *testing.T, v Value) []int {
	t.Helper()
	out := make([]int, v.Arr.Len())
	for i, e := range v.Arr.Elements {
		out[i] = int(e.Num)
	}
	return out
}

func intsArray(vals ...int) Value {
	elems := make([]Value, len(vals))
	for i, n := range vals {
		elems[i] = Number(float64(n))
	}
	return NewArray(elems)
}

func TestSliceDefaultRange(t *testing.T) {
	t.Parallel()
	src := intsArray(1, 2, 3, 4, 5)
	got, err := Slice(src, Undefined(), Undefined(), Undefined())
	if err != nil {
		t.Fatal(err)
	}
	want := []int{1, 2, 3, 4, 5}
	got2 := arrayToInts(t, got)
	if len(got2) != len(want) {
		t.Fatalf("got %v want %v", got2, want)
	}
	for i := range want {
		if got2[i] != want[i] {
			t.Fatalf("got %v want %v", got2, want)
		}
	}
}

func TestSliceReverseWithNegativeStep(t *testing.T) {
	t.Parallel()
	src := intsArray(1, 2, 3, 4, 5)
	got, err := Slice(src, Undefined(), Undefined(), Number(-1))
	if err != nil {
		t.Fatal(err)
	}
	want := []int{5, 4, 3, 2, 1}
	got2 := arrayToInts(t, got)
	for i := range want {
		if got2[i] != want[i] {
			t.Fatalf("got %v want %v", got2, want)
		}
	}
}

func TestSliceStride(t *testing.T) {
	t.Parallel()
	src := intsArray(0, 1, 2, 3, 4, 5)
	got, err := Slice(src, Number(1), Number(5), Number(2))
	if err != nil {
		t.Fatal(err)
	}
	want := []int{1, 3, 5}
	got2 := arrayToInts(t, got)
	if len(got2) != len(want) {
		t.Fatalf("got %v want %v", got2, want)
	}
	for i := range want {
		if got2[i] != want[i] {
			t.Fatalf("got %v want %v", got2, want)
		}
	}
}

func TestSliceStepZeroErrors(t *testing.T) {
	t.Parallel()
	src := intsArray(1, 2, 3)
	_, err := Slice(src, Undefined(), Undefined(), Number(0))
	if !IsCode(err, CodeSliceStepZero) {
		t.Fatalf("expected SliceStepZero, got %v", err)
	}
}

func TestSliceDirectionMismatchErrors(t *testing.T) {
	t.Parallel()
	src := intsArray(1, 2, 3, 4, 5)
	_, err := Slice(src, Number(0), Number(4), Number(-1))
	if !IsCode(err, CodeSliceInvalid) {
		t.Fatalf("expected SliceInvalid for step<0 with start<end, got %v", err)
	}
}

func TestSliceEmptySourceWithDefaultEndpoints(t *testing.T) {
	t.Parallel()
	empty := intsArray()
	got, err := Slice(empty, Undefined(), Undefined(), Undefined())
	if err != nil {
		t.Fatal(err)
	}
	if got.Arr.Len() != 0 {
		t.Fatalf("expected empty result, got length %d", got.Arr.Len())
	}
}

func TestSliceOutOfBoundsStart(t *testing.T) {
	t.Parallel()
	src := intsArray(1, 2, 3)
	_, err := Slice(src, Number(5), Undefined(), Undefined())
	if !IsCode(err, CodeSliceStartBounds) {
		t.Fatalf("expected SliceStartBounds, got %v", err)
	}
}

func TestSliceNegativeIndicesFold(t *testing.T) {
	t.Parallel()
	src := intsArray(0, 1, 2, 3, 4)
	got, err := Slice(src, Number(-3), Number(-1), Undefined())
	if err != nil {
		t.Fatal(err)
	}
	want := []int{2, 3}
	got2 := arrayToInts(t, got)
	if len(got2) != len(want) {
		t.Fatalf("got %v want %v", got2, want)
	}
	for i := range want {
		if got2[i] != want[i] {
			t.Fatalf("got %v want %v", got2, want)
		}
	}
}

func TestSliceOnString(t *testing.T) {
	t.Parallel()
	got, err := Slice(String("hello"), Number(1), Number(3), Undefined())
	if err != nil {
		t.Fatal(err)
	}
	if got.Str != "ell" {
		t.Fatalf("expected %q, got %q", "ell", got.Str)
	}
}

func TestSliceOnObjectDispatchesToSliceMetamethod(t *testing.T) {
	t.Parallel()
	o := newTestObject()
	o.Obj.OwnSet(String("__slice"), NewNativeFunction(func(state Dispatcher, args []Value) (Value, error) {
		return String("sliced"), nil
	}))
	got, err := Slice(o, Number(0), Number(1), Undefined())
	if err != nil {
		t.Fatal(err)
	}
	if got.Str != "sliced" {
		t.Fatalf("expected dispatch result, got %+v", got)
	}
}

func TestSliceOnObjectWithoutMetamethodErrors(t *testing.T) {
	t.Parallel()
	o := NewObject()
	_, err := Slice(o, Undefined(), Undefined(), Undefined())
	if !IsCode(err, CodeSliceMissingMethod) {
		t.Fatalf("expected SliceMissingMethod, got %v", err)
	}
}

func TestSliceWrongTypeErrors(t *testing.T) {
	t.Parallel()
	_, err := Slice(Number(5), Undefined(), Undefined(), Undefined())
	if !IsCode(err, CodeSliceWrongType) {
		t.Fatalf("expected SliceWrongType, got %v", err)
	}
}
