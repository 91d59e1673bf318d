package steadyhttp

// Outcome is the terminal result of a resilient operation: either a value or
// an error, plus the number of attempts consumed producing it. An Outcome is
// created once per invocation and owned by the caller afterwards.
type Outcome[T any] struct {
	// Value is the successful result. Only meaningful when Err is nil.
	Value T
	// Err is the terminal error: the fatal error from the first failing
	// attempt, ErrRetriesExhausted wrapping the last transient error, or
	// ErrCancelled.
	Err error
	// Attempts is the number of times the work was invoked.
	Attempts int
}

// Ok reports whether the operation succeeded.
func (o Outcome[T]) Ok() bool { return o.Err == nil }

// Unwrap returns the value and error as an ordinary Go pair.
func (o Outcome[T]) Unwrap() (T, error) { return o.Value, o.Err }

func success[T any](v T, attempts int) Outcome[T] {
	return Outcome[T]{Value: v, Attempts: attempts}
}

func failure[T any](err error, attempts int) Outcome[T] {
	return Outcome[T]{Err: err, Attempts: attempts}
}
