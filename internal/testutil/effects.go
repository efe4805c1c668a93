package testutil

import (
	"context"

	"github.com/roach88/panda/internal/engine"
)

// Collected is what running a batch of effects produced.
type Collected[A any] struct {
	// Sent are continuations from run effects, in order.
	Sent []A
	// Dispatched are actions from dispatch effects.
	Dispatched []A
	// Cancelled are the keys of cancel effects.
	Cancelled []engine.CancelID
	// Scopes are the scopes of cancel-scope effects.
	Scopes []string
	// Errors are the errors returned by run and fire effects.
	Errors []error
}

// RunEffects executes effects inline, outside any store, and collects
// their output. Reducer tests use it to drive request/response pairs.
func RunEffects[A any](ctx context.Context, effects []engine.Effect[A]) Collected[A] {
	var out Collected[A]
	for _, e := range effects {
		switch e.Kind() {
		case engine.EffectRun, engine.EffectFire:
			if err := e.Execute(ctx, func(a A) { out.Sent = append(out.Sent, a) }); err != nil {
				out.Errors = append(out.Errors, err)
			}
		case engine.EffectDispatch:
			out.Dispatched = append(out.Dispatched, e.Action())
		case engine.EffectCancel:
			out.Cancelled = append(out.Cancelled, e.CancelIDs()...)
		case engine.EffectCancelScope:
			out.Scopes = append(out.Scopes, e.Scope())
		}
	}
	return out
}

// Kinds lists the kind of every effect, for shape assertions.
func Kinds[A any](effects []engine.Effect[A]) []engine.EffectKind {
	out := make([]engine.EffectKind, len(effects))
	for i, e := range effects {
		out[i] = e.Kind()
	}
	return out
}
