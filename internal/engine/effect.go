package engine

import (
	"context"
	"strings"
)

// CancelID identifies a cancellable effect.
//
// Scope is the slash-joined path of the feature instance that owns the
// effect, relative to the reducer that returned it. Reducers normally leave
// Scope empty; Scope and MapEffects prefix it as the effect travels up the
// composition tree. Role names the effect within its feature ("fetch",
// "fetch_more", ...).
type CancelID struct {
	Scope string `json:"scope"`
	Role  string `json:"role"`
}

// Key returns a CancelID for role in the current feature.
func Key(role string) CancelID {
	return CancelID{Role: role}
}

// String renders the id as scope#role.
func (id CancelID) String() string {
	if id.Scope == "" {
		return "#" + id.Role
	}
	return id.Scope + "#" + id.Role
}

// Within returns id re-rooted under scope.
func (id CancelID) Within(scope string) CancelID {
	id.Scope = JoinScope(scope, id.Scope)
	return id
}

// InScope reports whether id belongs to scope or one of its descendants.
// The empty scope contains everything.
func (id CancelID) InScope(scope string) bool {
	if scope == "" || id.Scope == scope {
		return true
	}
	return strings.HasPrefix(id.Scope, scope+"/")
}

// JoinScope joins two scope paths, skipping empty parts.
func JoinScope(parent, child string) string {
	switch {
	case parent == "":
		return child
	case child == "":
		return parent
	default:
		return parent + "/" + child
	}
}

// EffectKind distinguishes effect variants.
type EffectKind int

const (
	// EffectRun is asynchronous work that may send follow-up actions.
	EffectRun EffectKind = iota + 1
	// EffectFire is asynchronous work with no follow-up actions.
	EffectFire
	// EffectDispatch enqueues an action behind the current one.
	EffectDispatch
	// EffectCancel cancels effects by id.
	EffectCancel
	// EffectCancelScope cancels every effect under a scope path.
	EffectCancelScope
)

// String returns the kind name used in traces.
func (k EffectKind) String() string {
	switch k {
	case EffectRun:
		return "run"
	case EffectFire:
		return "fire"
	case EffectDispatch:
		return "dispatch"
	case EffectCancel:
		return "cancel"
	case EffectCancelScope:
		return "cancel_scope"
	default:
		return "unknown"
	}
}

// Work is the body of a Run effect. send delivers follow-up actions back
// into the store queue; it may be called any number of times until Work
// returns. A returned error is logged and swallowed.
type Work[A any] func(ctx context.Context, send func(A)) error

// Effect is a unit of side-effecting work returned by a reducer.
// Effects are values; the store interprets them after the reducer returns.
type Effect[A any] struct {
	kind           EffectKind
	name           string
	work           Work[A]
	action         A
	ids            []CancelID
	scope          string
	id             *CancelID
	cancelInFlight bool
}

// Run creates an effect that runs work on a worker goroutine.
func Run[A any](work Work[A]) Effect[A] {
	return Effect[A]{kind: EffectRun, work: work}
}

// Task creates an effect that runs fn and sends its result.
func Task[A any](fn func(ctx context.Context) A) Effect[A] {
	return Run(func(ctx context.Context, send func(A)) error {
		send(fn(ctx))
		return nil
	})
}

// Fire creates a fire-and-forget effect. Its error is logged, never routed
// back into a reducer.
func Fire[A any](fn func(ctx context.Context) error) Effect[A] {
	return Effect[A]{
		kind: EffectFire,
		work: func(ctx context.Context, _ func(A)) error { return fn(ctx) },
	}
}

// Dispatch creates an effect that enqueues a behind the action being
// reduced. It never re-enters the reducer synchronously.
func Dispatch[A any](a A) Effect[A] {
	return Effect[A]{kind: EffectDispatch, action: a}
}

// Cancel creates an effect that cancels every in-flight effect with one of
// the given ids.
func Cancel[A any](ids ...CancelID) Effect[A] {
	return Effect[A]{kind: EffectCancel, ids: ids}
}

// CancelScope creates an effect that cancels every in-flight effect whose
// id lies under scope, relative to the returning reducer. The empty scope
// means the reducer's whole subtree.
func CancelScope[A any](scope string) Effect[A] {
	return Effect[A]{kind: EffectCancelScope, scope: scope}
}

// Cancellable tags a Run or Fire effect with id. With cancelInFlight, any
// effect already running under the same id is cancelled first.
func (e Effect[A]) Cancellable(id CancelID, cancelInFlight bool) Effect[A] {
	e.id = &id
	e.cancelInFlight = cancelInFlight
	return e
}

// Named attaches a name used in logs and traces.
func (e Effect[A]) Named(name string) Effect[A] {
	e.name = name
	return e
}

// Kind returns the effect variant.
func (e Effect[A]) Kind() EffectKind { return e.kind }

// Name returns the effect name, if any.
func (e Effect[A]) Name() string { return e.name }

// Action returns the action of a Dispatch effect.
func (e Effect[A]) Action() A { return e.action }

// ID returns the cancel id of a cancellable effect.
func (e Effect[A]) ID() (CancelID, bool) {
	if e.id == nil {
		return CancelID{}, false
	}
	return *e.id, true
}

// CancelsInFlight reports whether starting the effect cancels its
// predecessor under the same id.
func (e Effect[A]) CancelsInFlight() bool { return e.cancelInFlight }

// CancelIDs returns the ids targeted by a Cancel effect.
func (e Effect[A]) CancelIDs() []CancelID { return e.ids }

// Scope returns the path targeted by a CancelScope effect.
func (e Effect[A]) Scope() string { return e.scope }

// Execute runs the effect's work directly. It exists for tests that
// exercise an effect without a store.
func (e Effect[A]) Execute(ctx context.Context, send func(A)) error {
	if e.work == nil {
		return nil
	}
	return e.work(ctx, send)
}

// Describe renders the effect for traces, e.g. "run(watched#fetch)".
func (e Effect[A]) Describe() string {
	var arg string
	switch e.kind {
	case EffectDispatch:
		arg = Describe(e.action)
	case EffectCancel:
		parts := make([]string, len(e.ids))
		for i, id := range e.ids {
			parts[i] = id.String()
		}
		arg = strings.Join(parts, ",")
	case EffectCancelScope:
		arg = e.scope
	default:
		if e.id != nil {
			arg = e.id.String()
		}
		if e.name != "" {
			arg = JoinNonEmpty(" ", e.name, arg)
		}
	}
	return e.kind.String() + "(" + arg + ")"
}

// JoinNonEmpty joins the non-empty parts with sep.
func JoinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

// MapEffects lifts child effects into the parent action space. Cancel keys
// and cancel scopes are re-rooted under scope; dispatched and sent actions
// are wrapped with embed.
func MapEffects[A, B any](effects []Effect[A], scope string, embed func(A) B) []Effect[B] {
	if len(effects) == 0 {
		return nil
	}
	out := make([]Effect[B], 0, len(effects))
	for _, e := range effects {
		out = append(out, mapEffect(e, scope, embed))
	}
	return out
}

func mapEffect[A, B any](e Effect[A], scope string, embed func(A) B) Effect[B] {
	mapped := Effect[B]{
		kind:           e.kind,
		name:           e.name,
		cancelInFlight: e.cancelInFlight,
	}

	if e.work != nil {
		work := e.work
		mapped.work = func(ctx context.Context, send func(B)) error {
			return work(ctx, func(a A) { send(embed(a)) })
		}
	}

	switch e.kind {
	case EffectDispatch:
		mapped.action = embed(e.action)
	case EffectCancel:
		mapped.ids = make([]CancelID, len(e.ids))
		for i, id := range e.ids {
			mapped.ids[i] = id.Within(scope)
		}
	case EffectCancelScope:
		mapped.scope = JoinScope(scope, e.scope)
	}

	if e.id != nil {
		id := e.id.Within(scope)
		mapped.id = &id
	}
	return mapped
}
