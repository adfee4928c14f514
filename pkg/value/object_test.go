package value

import "testing"

func TestObjectOwnFieldsRoundTrip(t *testing.T) {
	t.Parallel()
	o := NewObject()
	if o.Obj.OwnHas(String("x")) {
		t.Fatalf("fresh object should have no own fields")
	}
	o.Obj.OwnSet(String("x"), Number(1))
	v, ok := o.Obj.OwnGet(String("x"))
	if !ok || v.Num != 1 {
		t.Fatalf("expected own field x=1, got %+v ok=%v", v, ok)
	}
	if o.Obj.Len() != 1 {
		t.Fatalf("expected Len()=1, got %d", o.Obj.Len())
	}
	o.Obj.OwnDelete(String("x"))
	if o.Obj.OwnHas(String("x")) {
		t.Fatalf("expected x to be gone after OwnDelete")
	}
	if o.Obj.Len() != 0 {
		t.Fatalf("expected Len()=0 after delete, got %d", o.Obj.Len())
	}
}

func TestObjectKeysPreserveInsertionOrderAroundDeletes(t *testing.T) {
	t.Parallel()
	o := NewObject()
	o.Obj.OwnSet(String("a"), Number(1))
	o.Obj.OwnSet(String("b"), Number(2))
	o.Obj.OwnSet(String("c"), Number(3))
	o.Obj.OwnDelete(String("b"))
	o.Obj.OwnSet(String("d"), Number(4))

	got := o.Obj.OwnKeys()
	want := []string{"a", "c", "d"}
	if len(got) != len(want) {
		t.Fatalf("expected %d keys, got %d (%+v)", len(want), len(got), got)
	}
	for i, k := range got {
		if k.Str != want[i] {
			t.Fatalf("key %d: expected %q, got %q", i, want[i], k.Str)
		}
	}
}

func TestObjectSetOverwritesExistingKeyWithoutReordering(t *testing.T) {
	t.Parallel()
	o := NewObject()
	o.Obj.OwnSet(String("a"), Number(1))
	o.Obj.OwnSet(String("b"), Number(2))
	o.Obj.OwnSet(String("a"), Number(99))

	got := o.Obj.OwnKeys()
	if len(got) != 2 || got[0].Str != "a" || got[1].Str != "b" {
		t.Fatalf("expected order [a b] preserved, got %+v", got)
	}
	v, _ := o.Obj.OwnGet(String("a"))
	if v.Num != 99 {
		t.Fatalf("expected overwritten value 99, got %v", v.Num)
	}
}

func TestObjectLockIsMonotonic(t *testing.T) {
	t.Parallel()
	o := NewObject()
	if o.Obj.Locked() {
		t.Fatalf("fresh object must start unlocked")
	}
	o.Obj.Lock()
	if !o.Obj.Locked() {
		t.Fatalf("expected Locked() true after Lock()")
	}
}

func TestObjectExplicitPrototypeDefaultsToAbsent(t *testing.T) {
	t.Parallel()
	o := NewObject()
	if _, ok := o.Obj.ExplicitPrototype(); ok {
		t.Fatalf("fresh object must have no explicit prototype")
	}
}

func TestAsDictionaryRejectsNonObject(t *testing.T) {
	t.Parallel()
	if _, ok := AsDictionary(Number(1)); ok {
		t.Fatalf("AsDictionary must reject a Number")
	}
	o := NewObject()
	rec, ok := AsDictionary(o)
	if !ok || rec != o.Obj {
		t.Fatalf("AsDictionary must return the underlying Object record")
	}
}

func TestObjectUserDataIsOpaque(t *testing.T) {
	t.Parallel()
	o := NewObject()
	if o.Obj.UserData() != nil {
		t.Fatalf("fresh object must have nil userData")
	}
	type payload struct{ n int }
	o.Obj.SetUserData(&payload{n: 7})
	got, ok := o.Obj.UserData().(*payload)
	if !ok || got.n != 7 {
		t.Fatalf("expected userData payload to round-trip, got %+v", o.Obj.UserData())
	}
}
