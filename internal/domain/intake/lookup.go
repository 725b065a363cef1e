package intake

// Lookup is the result of a read by unique key: Found(entity) or NotFound.
// A miss is a normal outcome that drives the create path, never an error.
type Lookup[T any] struct {
	value *T
}

func Found[T any](v *T) Lookup[T] {
	return Lookup[T]{value: v}
}

func NotFound[T any]() Lookup[T] {
	return Lookup[T]{}
}

func (l Lookup[T]) Get() (*T, bool) {
	return l.value, l.value != nil
}

func (l Lookup[T]) IsFound() bool {
	return l.value != nil
}
