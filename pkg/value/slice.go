// slice.go - the uniform subrange/stride extraction operator (§4.7).
package value

// Slice implements spec.md §4.7. start/end/step are Undefined when
// absent; all three accept Undefined as "not given".
func Slice(receiver, start, end, step Value) (Value, error) {
	switch {
	case receiver.IsString():
		length := len([]rune(receiver.Str))
		idxs, err := sliceIndices(start, end, step, length)
		if err != nil {
			return Undefined(), err
		}
		runes := []rune(receiver.Str)
		out := make([]rune, len(idxs))
		for i, src := range idxs {
			out[i] = runes[src]
		}
		return String(string(out)), nil

	case receiver.IsArray():
		length := receiver.Arr.Len()
		idxs, err := sliceIndices(start, end, step, length)
		if err != nil {
			return Undefined(), err
		}
		out := make([]Value, len(idxs))
		for i, src := range idxs {
			out[i] = receiver.Arr.Elements[src]
		}
		return NewArray(out), nil

	case receiver.IsObject():
		args := []Value{receiver, start, end, step}
		ok, result, err := TryDispatch(receiver, "__slice", args)
		if err != nil {
			return Undefined(), err
		}
		if !ok {
			return Undefined(), NewRuntimeError(CodeSliceMissingMethod, "object has no __slice metamethod")
		}
		return result, nil

	default:
		return Undefined(), NewRuntimeError(CodeSliceWrongType, "cannot slice a %s", receiver.Kind)
	}
}

// falsy reports whether a slice argument counts as "absent" per §4.7
// ("Absent or falsy start -> 0", etc): Undefined, Null, False, 0 and
// NaN all count, matching Value.Truthy's definition of falsy.
func falsy(v Value) bool {
	return v.IsUndefined() || !v.Truthy()
}

// sliceIndices implements the normalization and length formula of
// §4.7, returning the source indices to read in order.
func sliceIndices(startArg, endArg, stepArg Value, length int) ([]int, error) {
	haveStart := !falsy(startArg)
	haveEnd := !falsy(endArg)
	haveStep := !falsy(stepArg)

	var start, end, step int

	// Special case: step<0 and both start/end absent -> reverse the
	// whole sequence.
	if haveStep {
		s, err := stepArg.ToInteger()
		if err != nil {
			return nil, err
		}
		step = int(s)
	}

	if !haveStart && !haveEnd && haveStep && step < 0 {
		start = maxInt(0, length-1)
		end = 0
	} else {
		if haveStart {
			n, err := startArg.ToInteger()
			if err != nil {
				return nil, err
			}
			start = foldNegative(int(n), length)
		} else {
			start = 0
		}
		if haveEnd {
			n, err := endArg.ToInteger()
			if err != nil {
				return nil, err
			}
			end = foldNegative(int(n), length)
		} else {
			end = maxInt(0, length-1)
		}
	}

	if !haveStep {
		if start <= end {
			step = 1
		} else {
			step = -1
		}
	}
	if step == 0 {
		return nil, NewRuntimeError(CodeSliceStepZero, "slice step cannot be 0")
	}

	if length == 0 && !haveStart && !haveEnd {
		// Empty source with default endpoints: yields an empty result
		// rather than a bounds error (spec.md §9 open question).
		return nil, nil
	}
	if start < 0 || start >= length {
		return nil, NewRuntimeError(CodeSliceStartBounds, "slice start %d out of bounds (length %d)", start, length)
	}
	if end < 0 || end >= length {
		return nil, NewRuntimeError(CodeSliceEndBounds, "slice end %d out of bounds (length %d)", end, length)
	}

	if step > 0 && start > end {
		return nil, NewRuntimeError(CodeSliceInvalid, "slice direction mismatch: step %d but start %d > end %d", step, start, end)
	}
	if step < 0 && start < end {
		return nil, NewRuntimeError(CodeSliceInvalid, "slice direction mismatch: step %d but start %d < end %d", step, start, end)
	}

	rng := end - start + sign(step)
	count := rng / step
	if rng%step != 0 {
		count++
	}
	if count < 0 {
		count = 0
	}

	out := make([]int, count)
	for i := 0; i < count; i++ {
		out[i] = start + i*step
	}
	return out, nil
}

func foldNegative(n, length int) int {
	if n < 0 {
		return n + length
	}
	return n
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func sign(n int) int {
	if n < 0 {
		return -1
	}
	return 1
}
