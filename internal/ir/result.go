package ir

// Result is the payload of a fetch response action: a value or an error.
type Result[T any] struct {
	Value T
	Err   error
}

// Ok wraps a successful value.
func Ok[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

// Fail wraps an error. The error is classified so reducers always see an
// *AppError.
func Fail[T any](err error) Result[T] {
	if ae := Classify(err); ae != nil {
		return Result[T]{Err: ae}
	}
	return Result[T]{}
}

// ResultOf builds a Result from a (value, error) pair.
func ResultOf[T any](v T, err error) Result[T] {
	if err != nil {
		return Fail[T](err)
	}
	return Ok(v)
}

// IsOK reports whether the result is a success.
func (r Result[T]) IsOK() bool { return r.Err == nil }
