package value

// Array is an ordered sequence of Values; bounds are checked on every
// access (§3 "Array record").
type Array struct {
	Elements []Value
}

// Len returns the number of elements.
func (a *Array) Len() int {
	return len(a.Elements)
}

// Get returns the element at index i, or an error if i is out of
// bounds. Negative indices must already be resolved by the caller
// (Indexer handles the n += length normalization).
func (a *Array) Get(i int) (Value, error) {
	if i < 0 || i >= len(a.Elements) {
		return Value{}, NewRuntimeError(CodeIndexOutOfBounds, "array index %d out of bounds (length %d)", i, len(a.Elements))
	}
	return a.Elements[i], nil
}

// Set assigns the element at index i, or returns an error if i is out
// of bounds.
func (a *Array) Set(i int, v Value) error {
	if i < 0 || i >= len(a.Elements) {
		return NewRuntimeError(CodeIndexOutOfBounds, "array index %d out of bounds (length %d)", i, len(a.Elements))
	}
	a.Elements[i] = v
	return nil
}

// AsList exposes the underlying element slice for host iteration, as
// required by spec.md §6. It fails (returns false) if v is not an
// Array.
func AsList(v Value) (*Array, bool) {
	if !v.IsArray() {
		return nil, false
	}
	return v.Arr, true
}

// normalizeIndex resolves a possibly-negative logical index against
// length, per §4.3 step 1: "If n < 0, set n += length."
func normalizeIndex(n, length int) int {
	if n < 0 {
		n += length
	}
	return n
}
