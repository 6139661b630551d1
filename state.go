package sigslot

// A State is a [Signal] that carries a value. To retrieve the value, call
// the Get method.
//
// Setting the value emits it to every connection and awaiter, so a
// coroutine can await the next change and a slot can mirror the value
// somewhere else.
type State[T any] struct {
	Signal[T]
	value T
}

// NewState creates a new [State] with its initial value set to v.
func NewState[T any](v T) *State[T] {
	return &State[T]{value: v}
}

// Get retrieves the value of s.
//
// Without further synchronization, one should only call this method from
// the goroutine that runs the signal traffic.
func (s *State[T]) Get() T {
	return s.value
}

// Set updates the value of s and emits it.
func (s *State[T]) Set(v T) {
	s.value = v
	s.Emit(v)
}

// Update sets the value of s to f(s.Get()).
func (s *State[T]) Update(f func(v T) T) {
	s.Set(f(s.value))
}
