// equality.go - equality, ordering and hashing (§4.9).
package value

import (
	"fmt"
	"math"
)

// Equals implements §4.9: __eq on an Object receiver overrides
// equality; default Object/Array/Function equality is handle identity;
// Number/String compare by value; singletons compare by variant. NaN
// never equals anything, including itself.
func Equals(a, b Value) (bool, error) {
	if a.IsObject() {
		ok, result, err := TryDispatch(a, "__eq", []Value{a, b})
		if err != nil {
			return false, err
		}
		if ok {
			return result.Truthy(), nil
		}
	}
	return defaultEquals(a, b), nil
}

func defaultEquals(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindNumber:
		if math.IsNaN(a.Num) || math.IsNaN(b.Num) {
			return false
		}
		return a.Num == b.Num
	case KindString:
		return a.Str == b.Str
	case KindObject:
		return a.Obj == b.Obj
	case KindArray:
		return a.Arr == b.Arr
	case KindFunction:
		return a.Fn == b.Fn
	default:
		return true // Undefined/Null/True/False: same Kind is enough
	}
}

// Hash implements §4.9: primitives hash their payloads; Object
// optionally routes through __hash (must return Number); Array/Function
// hash by handle identity. Hash is not required to be stable across
// processes (spec.md §1 Non-goals).
func Hash(v Value) (uint64, error) {
	switch v.Kind {
	case KindUndefined:
		return 1, nil
	case KindNull:
		return 2, nil
	case KindTrue:
		return 3, nil
	case KindFalse:
		return 4, nil
	case KindNumber:
		return math.Float64bits(v.Num), nil
	case KindString:
		return fnv1a(v.Str), nil
	case KindArray:
		return uintptrHash(v.Arr), nil
	case KindFunction:
		return uintptrHash(v.Fn), nil
	case KindObject:
		ok, result, err := TryDispatch(v, "__hash", []Value{v})
		if err != nil {
			return 0, err
		}
		if ok {
			if !result.IsNumber() {
				return 0, NewRuntimeError(CodeHashWrongType, "__hash metamethod did not return a number")
			}
			return math.Float64bits(result.Num), nil
		}
		return uintptrHash(v.Obj), nil
	default:
		return 0, nil
	}
}

// Compare implements the three-way compare described in §4.9: 0 on
// equality, otherwise the result of a primitive ordering rule. The
// operator suite that defines ">" for arbitrary/object types is out of
// this core's scope (§4.9: "type-incompatible comparisons fall through
// the operator suite, specified there, not here"); Compare only
// resolves the Number/String cases (pkg/lang uses it for <, >, <= and
// >=) and returns CantUseOperatorOnTypes otherwise.
func Compare(a, b Value) (int, error) {
	eq, err := Equals(a, b)
	if err != nil {
		return 0, err
	}
	if eq {
		return 0, nil
	}
	switch {
	case a.IsNumber() && b.IsNumber():
		if a.Num > b.Num {
			return 1, nil
		}
		return -1, nil
	case a.IsString() && b.IsString():
		if a.Str > b.Str {
			return 1, nil
		}
		return -1, nil
	default:
		return 0, NewRuntimeError(CodeCantUseOperatorOnTypes, "cannot compare %s and %s", a.Kind, b.Kind)
	}
}

func fnv1a(s string) uint64 {
	const offset64 = 14695981039346656037
	const prime64 = 1099511628211
	h := uint64(offset64)
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= prime64
	}
	return h
}

// uintptrHash hashes by pointer identity, which is all spec.md requires
// for Array/Function and the Object fallback ("not required to be
// stable across processes"). %p renders a stable process-local address.
func uintptrHash(p any) uint64 {
	return fnv1a(fmt.Sprintf("%p", p))
}
