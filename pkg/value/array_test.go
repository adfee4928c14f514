package value

import "testing"

func TestArrayGetSetInBounds(t *testing.T) {
	t.Parallel()
	a := NewArray([]Value{Number(1), Number(2), Number(3)})
	v, err := a.Arr.Get(1)
	if err != nil || v.Num != 2 {
		t.Fatalf("expected 2, got %+v err=%v", v, err)
	}
	if err := a.Arr.Set(1, Number(99)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	v, _ = a.Arr.Get(1)
	if v.Num != 99 {
		t.Fatalf("expected 99 after Set, got %v", v.Num)
	}
}

func TestArrayOutOfBounds(t *testing.T) {
	t.Parallel()
	a := NewArray([]Value{Number(1)})
	if _, err := a.Arr.Get(1); !IsCode(err, CodeIndexOutOfBounds) {
		t.Fatalf("expected IndexOutOfBounds, got %v", err)
	}
	if _, err := a.Arr.Get(-1); !IsCode(err, CodeIndexOutOfBounds) {
		t.Fatalf("expected IndexOutOfBounds on negative raw index, got %v", err)
	}
	if err := a.Arr.Set(5, Number(1)); !IsCode(err, CodeIndexOutOfBounds) {
		t.Fatalf("expected IndexOutOfBounds on out-of-range Set, got %v", err)
	}
}

func TestNewArrayCopiesRatherThanAliases(t *testing.T) {
	t.Parallel()
	src := []Value{Number(1), Number(2)}
	a := NewArray(src)
	src[0] = Number(999)
	v, _ := a.Arr.Get(0)
	if v.Num != 1 {
		t.Fatalf("NewArray must copy its input slice, got %v after mutating source", v.Num)
	}
}

func TestNormalizeIndexFoldsNegative(t *testing.T) {
	t.Parallel()
	cases := []struct{ n, length, want int }{
		{-1, 5, 4},
		{-5, 5, 0},
		{0, 5, 0},
		{3, 5, 3},
		{-10, 5, -5},
	}
	for _, tc := range cases {
		got := normalizeIndex(tc.n, tc.length)
		if got != tc.want {
			t.Fatalf("normalizeIndex(%d, %d) = %d, want %d", tc.n, tc.length, got, tc.want)
		}
	}
}

func TestGetArrayIndexNegativeWraps(t *testing.T) {
	t.Parallel()
	a := NewArray([]Value{Number(10), Number(20), Number(30)})
	v, err := Get(a, Number(-1))
	if err != nil {
		t.Fatal(err)
	}
	if v.Num != 30 {
		t.Fatalf("expected a[-1] == 30, got %v", v.Num)
	}
}

func TestAsListRejectsNonArray(t *testing.T) {
	t.Parallel()
	if _, ok := AsList(NewObject()); ok {
		t.Fatalf("AsList must reject an Object")
	}
	a := NewArray([]Value{Number(1)})
	rec, ok := AsList(a)
	if !ok || rec != a.Arr {
		t.Fatalf("AsList must return the underlying Array record")
	}
}
