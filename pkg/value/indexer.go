// indexer.go - get/set over array/object plus the prototype chain, with
// auto-bind and metamethod fallback (§4.3, §4.4, §4.6).
package value

// Get implements spec.md §4.3. Reading a missing key is never an
// error: it returns Undefined once the prototype walk and __get both
// miss.
func Get(receiver, key Value) (Value, error) {
	if receiver.IsArray() && (key.IsNumber() || key.IsObject()) {
		return getArrayIndex(receiver, key)
	}

	if receiver.IsObject() {
		if v, ok := receiver.Obj.OwnGet(key); ok {
			return CheckWrapFunction(v, receiver), nil
		}
	}

	// Step 3: walk the prototype chain from R.prototype, or from the
	// implicit prototype for non-Object R.
	node, steps, err := startWalk(receiver)
	if err != nil {
		return Undefined(), err
	}
	for ; node != nil; steps++ {
		if steps >= maxPrototypeDepth {
			return Undefined(), NewRuntimeError(CodeCircularPrototype, "prototype walk exceeded depth %d", maxPrototypeDepth)
		}
		if v, ok := node.OwnGet(key); ok {
			return CheckWrapFunction(v, receiver), nil
		}
		proto, ok := node.ExplicitPrototype()
		if !ok || !proto.IsObject() {
			break
		}
		node = proto.Obj
	}

	if receiver.IsObject() {
		ok, result, err := TryDispatch(receiver, "__get", []Value{receiver, key})
		if err != nil {
			return Undefined(), err
		}
		if ok {
			return CheckWrapFunction(result, receiver), nil
		}
	}

	return Undefined(), nil
}

// Set implements spec.md §4.4.
func Set(receiver, key, val Value) error {
	if receiver.IsArray() && (key.IsNumber() || key.IsObject()) {
		return setArrayIndex(receiver, key, val)
	}

	if receiver.IsObject() {
		if receiver.Obj.OwnHas(key) {
			if receiver.Obj.Locked() {
				return NewRuntimeError(CodeObjectIsLocked, "cannot assign %v: object is locked", key)
			}
			receiver.Obj.OwnSet(key, val)
			return nil
		}
	}

	// Step 3: walk the prototype chain; a locked node the key exists on
	// is a wall, not an error and not a pass-through (spec.md §4.4
	// rationale: prototypes stay immutable, but a derived object may
	// still shadow the key with a fresh own field).
	node, steps, err := startWalk(receiver)
	if err != nil {
		return err
	}
	for ; node != nil; steps++ {
		if steps >= maxPrototypeDepth {
			return NewRuntimeError(CodeCircularPrototype, "prototype walk exceeded depth %d", maxPrototypeDepth)
		}
		if node.OwnHas(key) {
			if node.Locked() {
				break // locked wall: stop the walk entirely
			}
			node.OwnSet(key, val)
			return nil
		}
		proto, ok := node.ExplicitPrototype()
		if !ok || !proto.IsObject() {
			break
		}
		node = proto.Obj
	}

	if !receiver.IsObject() {
		return NewRuntimeError(CodeCantCreateField, "cannot create field %v on a %s", key, receiver.Kind)
	}
	if receiver.Obj.Locked() {
		return NewRuntimeError(CodeObjectIsLocked, "cannot assign %v: object is locked", key)
	}

	ok, _, err := TryDispatch(receiver, "__set", []Value{receiver, key, val})
	if err != nil {
		return err
	}
	if ok {
		return nil
	}

	receiver.Obj.OwnSet(key, val)
	return nil
}

// startWalk returns the node to begin the prototype walk from (not
// including the receiver's own fields, already checked by the caller),
// and the step count already consumed resolving an implicit prototype.
func startWalk(receiver Value) (*Object, int, error) {
	if receiver.IsObject() {
		proto, ok := receiver.Obj.ExplicitPrototype()
		if !ok {
			return ObjectPrototype().Obj, 0, nil
		}
		if !proto.IsObject() {
			return nil, 0, nil
		}
		return proto.Obj, 0, nil
	}
	proto := ImplicitPrototype(receiver)
	if !proto.IsObject() {
		return nil, 0, nil
	}
	return proto.Obj, 0, nil
}

func getArrayIndex(receiver, key Value) (Value, error) {
	n, err := coerceArrayIndex(receiver, key)
	if err != nil {
		return Undefined(), err
	}
	return receiver.Arr.Get(n)
}

func setArrayIndex(receiver, key, val Value) error {
	n, err := coerceArrayIndex(receiver, key)
	if err != nil {
		return err
	}
	return receiver.Arr.Set(n, val)
}

// coerceArrayIndex implements §4.3 step 1's coercion/normalization,
// shared between read and write.
func coerceArrayIndex(receiver, key Value) (int, error) {
	var n int64
	var err error
	if key.IsNumber() {
		n = int64(key.Num)
	} else {
		n, err = key.ToInteger()
		if err != nil {
			return 0, err
		}
	}
	length := receiver.Arr.Len()
	idx := normalizeIndex(int(n), length)
	if idx < 0 || idx >= length {
		return 0, NewRuntimeError(CodeIndexOutOfBounds, "array index %d out of bounds (length %d)", n, length)
	}
	return idx, nil
}

// Prototype implements spec.md §4.6 read semantics.
func Prototype(v Value) Value {
	if v.IsObject() {
		if proto, ok := v.Obj.ExplicitPrototype(); ok {
			return proto
		}
		return ObjectPrototype()
	}
	return ImplicitPrototype(v)
}

// ImplicitPrototype returns the registry prototype for a non-Object
// variant (§4.6).
func ImplicitPrototype(v Value) Value {
	switch v.Kind {
	case KindArray:
		return ArrayPrototype()
	case KindNumber:
		return NumberPrototype()
	case KindString:
		return StringPrototype()
	case KindFunction:
		return FunctionPrototype()
	default:
		return ValuePrototype()
	}
}

// SetPrototype implements spec.md §4.6 write semantics. Valid only on
// Object receivers.
func SetPrototype(receiver, proto Value) error {
	if !receiver.IsObject() {
		return NewRuntimeError(CodeCantUseOperatorOnTypes, "cannot set prototype on a %s", receiver.Kind)
	}
	if receiver.Obj.Locked() {
		return NewRuntimeError(CodeObjectIsLocked, "cannot set prototype: object is locked")
	}
	switch proto.Kind {
	case KindUndefined:
		receiver.Obj.setExplicitPrototype(nil)
		return nil
	case KindNull:
		pinned := ValuePrototype()
		receiver.Obj.setExplicitPrototype(&pinned)
		return nil
	case KindObject:
		p := proto
		receiver.Obj.setExplicitPrototype(&p)
		return nil
	default:
		return NewRuntimeError(CodeCantUseOperatorOnTypes, "prototype must be an object, null or undefined, got %s", proto.Kind)
	}
}

// Contains implements spec.md §4.8 ("in").
func Contains(receiver, needle Value) (bool, error) {
	switch {
	case receiver.IsString() && needle.IsString():
		return stringContains(receiver.Str, needle.Str), nil
	case receiver.IsArray():
		for _, elem := range receiver.Arr.Elements {
			eq, err := Equals(elem, needle)
			if err != nil {
				return false, err
			}
			if eq {
				return true, nil
			}
		}
		return false, nil
	case receiver.IsObject():
		if receiver.Obj.OwnHas(needle) {
			return true, nil
		}
		ok, result, err := TryDispatch(receiver, "__in", []Value{receiver, needle})
		if err != nil {
			return false, err
		}
		if ok {
			return result.Truthy(), nil
		}
		return false, nil
	default:
		return false, NewRuntimeError(CodeCantUseOperatorOnTypes, "cannot use 'in' with %s and %s", needle.Kind, receiver.Kind)
	}
}

func stringContains(haystack, needle string) bool {
	if len(needle) == 0 {
		return true
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return true
		}
	}
	return false
}

// Lock implements spec.md §6 Lock (Object only).
func Lock(v Value) error {
	if !v.IsObject() {
		return NewRuntimeError(CodeCantUseOperatorOnTypes, "cannot lock a %s", v.Kind)
	}
	v.Obj.Lock()
	return nil
}
