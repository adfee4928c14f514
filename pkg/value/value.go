// value.go - the universal tagged runtime value
//
// Value is the discriminated union every other package in this module
// operates on. It has nine variants: Undefined, Null, True, False,
// Number, String, Object, Array, Function. The four singleton variants
// share one canonical instance each so that any copy of them compares
// equal; Object, Array and Function carry a shared handle to a record
// that is mutated through that handle.
//
// CORE LANGUAGE COMPONENT: this file and its siblings in this package
// are the pivot the rest of the runtime is built on.
package value

import (
	"fmt"
	"math"
	"strconv"
)

// Kind identifies which of the nine variants a Value holds.
type Kind int

const (
	KindUndefined Kind = iota
	KindNull
	KindTrue
	KindFalse
	KindNumber
	KindString
	KindObject
	KindArray
	KindFunction
)

// String returns a human-readable variant name, used both for debugging
// and as the default Stringify() result for Array/Function (§4.9).
func (k Kind) String() string {
	switch k {
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "null"
	case KindTrue, KindFalse:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindFunction:
		return "function"
	default:
		return "unknown"
	}
}

// Value is intentionally small and copied by value: the payload fields
// below overlap in spirit with a tagged union, but Go has no union
// type, so only the field matching Kind is meaningful.
type Value struct {
	Kind Kind
	Num  float64
	Str  string
	Obj  *Object
	Arr  *Array
	Fn   *Closure
}

var (
	undefinedSingleton = Value{Kind: KindUndefined}
	nullSingleton       = Value{Kind: KindNull}
	trueSingleton       = Value{Kind: KindTrue}
	falseSingleton      = Value{Kind: KindFalse}
)

// Undefined returns the canonical absence marker, distinct from Null.
func Undefined() Value { return undefinedSingleton }

// Null returns the canonical explicit null value.
func Null() Value { return nullSingleton }

// Bool returns the canonical True or False singleton for b.
func Bool(b bool) Value {
	if b {
		return trueSingleton
	}
	return falseSingleton
}

// Number constructs a Number value from an IEEE-754 double.
func Number(n float64) Value {
	return Value{Kind: KindNumber, Num: n}
}

// String constructs a String value. The payload must be present; callers
// that only have an optional string should check before calling this.
func String(s string) Value {
	return Value{Kind: KindString, Str: s}
}

// FromObject wraps an existing Object record as a Value.
func FromObject(o *Object) Value {
	if o == nil {
		panic("value: FromObject requires a non-nil Object")
	}
	return Value{Kind: KindObject, Obj: o}
}

// FromArray wraps an existing Array record as a Value.
func FromArray(a *Array) Value {
	if a == nil {
		panic("value: FromArray requires a non-nil Array")
	}
	return Value{Kind: KindArray, Arr: a}
}

// FromClosure wraps an existing Closure record as a Function value.
func FromClosure(c *Closure) Value {
	if c == nil {
		panic("value: FromClosure requires a non-nil Closure")
	}
	return Value{Kind: KindFunction, Fn: c}
}

// NewObject allocates a fresh, unlocked, prototype-less Object record.
func NewObject() Value {
	return FromObject(&Object{values: newFieldMap()})
}

// NewArray allocates a fresh Array record from the given elements
// (copied, not aliased).
func NewArray(elems []Value) Value {
	cp := make([]Value, len(elems))
	copy(cp, elems)
	return FromArray(&Array{Elements: cp})
}

// NewNativeFunction wraps a host function that receives no implicit
// receiver binding.
func NewNativeFunction(fn NativeFunc) Value {
	return FromClosure(&Closure{Kind: ClosureNative, Native: fn})
}

// NewInstanceNativeFunction wraps a host function that auto-binds to
// its receiver on every read from an Object (§4.5).
func NewInstanceNativeFunction(fn InstanceNativeFunc) Value {
	return FromClosure(&Closure{Kind: ClosureInstanceNative, InstanceNative: fn})
}

// Type-check predicates.

func (v Value) IsUndefined() bool { return v.Kind == KindUndefined }
func (v Value) IsNull() bool      { return v.Kind == KindNull }
func (v Value) IsBoolean() bool   { return v.Kind == KindTrue || v.Kind == KindFalse }
func (v Value) IsTrue() bool      { return v.Kind == KindTrue }
func (v Value) IsFalse() bool     { return v.Kind == KindFalse }
func (v Value) IsNumber() bool    { return v.Kind == KindNumber }
func (v Value) IsString() bool    { return v.Kind == KindString }
func (v Value) IsObject() bool    { return v.Kind == KindObject }
func (v Value) IsArray() bool     { return v.Kind == KindArray }
func (v Value) IsFunction() bool  { return v.Kind == KindFunction }

// AsBool returns the boolean payload of a True/False value; it panics
// on any other Kind, matching the host-contract-violation convention
// of spec.md §7 (accessor misuse is a host error, not a runtime error).
func (v Value) AsBool() bool {
	switch v.Kind {
	case KindTrue:
		return true
	case KindFalse:
		return false
	default:
		panic(fmt.Sprintf("value: AsBool called on a %s", v.Kind))
	}
}

// Truthy implements spec.md §4.2: Undefined, Null, False and numeric
// NaN are false; everything else is true.
func (v Value) Truthy() bool {
	switch v.Kind {
	case KindUndefined, KindNull, KindFalse:
		return false
	case KindNumber:
		return !math.IsNaN(v.Num)
	default:
		return true
	}
}

// ToInteger implements the Number/Object half of §4.2's integer
// coercion: truncate toward zero for Number, or defer to the object's
// __number metamethod through TryDispatch, which runs it on the
// executor attached to the object that holds it. Non-numeric,
// non-object receivers are a CantUseOperatorOnTypes error.
func (v Value) ToInteger() (int64, error) {
	switch v.Kind {
	case KindNumber:
		return int64(v.Num), nil
	case KindObject:
		ok, result, err := TryDispatch(v, "__number", nil)
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, NewRuntimeError(CodeCantUseOperatorOnTypes, "object has no __number metamethod")
		}
		if !result.IsNumber() {
			return 0, NewRuntimeError(CodeCantUseOperatorOnTypes, "__number metamethod did not return a number")
		}
		return int64(result.Num), nil
	default:
		return 0, NewRuntimeError(CodeCantUseOperatorOnTypes, "cannot coerce %s to integer", v.Kind)
	}
}

// Stringify implements spec.md §4.9.
func (v Value) Stringify() (string, error) {
	switch v.Kind {
	case KindTrue:
		return "true", nil
	case KindFalse:
		return "false", nil
	case KindNumber:
		return formatNumber(v.Num), nil
	case KindString:
		return v.Str, nil
	case KindObject:
		ok, result, err := TryDispatch(v, "__string", nil)
		if err != nil {
			return "", err
		}
		if ok {
			if !result.IsString() {
				return "", NewRuntimeError(CodeStringCastWrongType, "__string metamethod did not return a string")
			}
			return result.Str, nil
		}
		return "object", nil
	default:
		return v.Kind.String(), nil
	}
}

func formatNumber(n float64) string {
	if n == math.Trunc(n) && !math.IsInf(n, 0) && math.Abs(n) < 1e15 {
		return strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}
