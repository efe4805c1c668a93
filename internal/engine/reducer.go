package engine

// Reducer is a feature's transition function. Reduce mutates state in
// place and returns the effects to schedule. It must not perform I/O or
// block; all side effects are expressed as returned effects.
type Reducer[S, A any] interface {
	Reduce(state *S, action A) []Effect[A]
}

// ReducerFunc adapts a function to the Reducer interface.
type ReducerFunc[S, A any] func(state *S, action A) []Effect[A]

// Reduce calls f(state, action).
func (f ReducerFunc[S, A]) Reduce(state *S, action A) []Effect[A] {
	return f(state, action)
}

// Combine runs reducers in order against the same state and concatenates
// their effects.
func Combine[S, A any](reducers ...Reducer[S, A]) Reducer[S, A] {
	return ReducerFunc[S, A](func(state *S, action A) []Effect[A] {
		var effects []Effect[A]
		for _, r := range reducers {
			effects = append(effects, r.Reduce(state, action)...)
		}
		return effects
	})
}

// None is the empty effect list.
func None[A any]() []Effect[A] { return nil }

// Effects collects effects into a slice.
func Effects[A any](effects ...Effect[A]) []Effect[A] { return effects }
