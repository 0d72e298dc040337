package bar

// RVector is a vector indexed in reverse: RVector[0] is the last pushed
// element, RVector[1] the one before it. Presentation sugar for strategies
// computing indicators over bar history, where "close[0]" reading as "the
// latest close" is the natural idiom. Ported from original_source's
// RVector<T> (Types.h); the observer/event mechanism there (valueEvent) has
// no Go analogue here since nothing in this engine subscribes to individual
// value pushes — indicators simply read the vector after each bar close.
type RVector[T any] struct {
	data []T
}

// Push appends a new value; it becomes the new index 0.
func (r *RVector[T]) Push(v T) {
	r.data = append(r.data, v)
}

// At returns the value pushed idx steps ago (0 = most recent). Panics if
// idx is out of range, matching the underlying slice's own bounds
// behavior.
func (r *RVector[T]) At(idx int) T {
	return r.data[len(r.data)-idx-1]
}

// Len returns the number of values pushed so far.
func (r *RVector[T]) Len() int {
	return len(r.data)
}
