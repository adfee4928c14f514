// errors.go - the single tagged runtime-error kind (spec.md §7)
package value

import "fmt"

// Code tags the family of failure a RuntimeError represents.
type Code int

const (
	CodeIndexOutOfBounds Code = iota
	CodeCircularPrototype
	CodeObjectIsLocked
	CodeCantCreateField
	CodeSliceStartBounds
	CodeSliceEndBounds
	CodeSliceStepZero
	CodeSliceInvalid
	CodeSliceWrongType
	CodeSliceMissingMethod
	CodeHashWrongType
	CodeStringCastWrongType
	CodeCantUseOperatorOnTypes
)

func (c Code) String() string {
	switch c {
	case CodeIndexOutOfBounds:
		return "IndexOutOfBounds"
	case CodeCircularPrototype:
		return "CircularPrototype"
	case CodeObjectIsLocked:
		return "ObjectIsLocked"
	case CodeCantCreateField:
		return "CantCreateField"
	case CodeSliceStartBounds:
		return "SliceStartBounds"
	case CodeSliceEndBounds:
		return "SliceEndBounds"
	case CodeSliceStepZero:
		return "SliceStepZero"
	case CodeSliceInvalid:
		return "SliceInvalid"
	case CodeSliceWrongType:
		return "SliceWrongType"
	case CodeSliceMissingMethod:
		return "SliceMissingMethod"
	case CodeHashWrongType:
		return "HashWrongType"
	case CodeStringCastWrongType:
		return "StringCastWrongType"
	case CodeCantUseOperatorOnTypes:
		return "CantUseOperatorOnTypes"
	default:
		return "UnknownError"
	}
}

// RuntimeError is the single tagged error kind every core operation
// raises. It carries a Code plus formatting arguments rather than only
// a rendered string, so host code can switch on Code without parsing
// messages (spec.md §6 "a single tagged error kind carrying a code and
// formatting arguments").
type RuntimeError struct {
	Code Code
	Args []any
	msg  string
}

// NewRuntimeError constructs a RuntimeError tagged with code, rendering
// format/args eagerly (the core never recovers from its own errors, so
// there's no benefit in deferring the fmt.Sprintf).
func NewRuntimeError(code Code, format string, args ...any) *RuntimeError {
	return &RuntimeError{Code: code, Args: args, msg: fmt.Sprintf(format, args...)}
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.msg)
}

// IsCode reports whether err is a *RuntimeError tagged with code.
func IsCode(err error, code Code) bool {
	re, ok := err.(*RuntimeError)
	return ok && re.Code == code
}
