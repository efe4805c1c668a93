package engine

// TraceKind classifies trace events.
type TraceKind string

const (
	// TraceReduce records an action reduced by the root reducer.
	TraceReduce TraceKind = "reduce"
	// TraceDiscard records a continuation dropped because its effect was
	// cancelled.
	TraceDiscard TraceKind = "discard"
	// TraceQuota records an action dropped by the per-flow quota.
	TraceQuota TraceKind = "quota"
	// TraceCancel records a cancel or cancel-scope effect being applied.
	TraceCancel TraceKind = "cancel"
	// TraceEffectError records an effect that returned an error.
	TraceEffectError TraceKind = "effect_error"
)

// TraceEvent is one entry of the store's observable history.
// Seq orders events; it is only assigned to reduced actions.
type TraceEvent struct {
	Seq     int64     `json:"seq,omitempty" yaml:"seq,omitempty"`
	Flow    string    `json:"flow" yaml:"flow"`
	Kind    TraceKind `json:"kind" yaml:"kind"`
	Action  string    `json:"action,omitempty" yaml:"action,omitempty"`
	Effects []string  `json:"effects,omitempty" yaml:"effects,omitempty"`
	Detail  string    `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// Observer receives trace events. Observers are called from the run loop
// and, for effect errors, from worker goroutines, so implementations must
// be safe for concurrent use and must not block.
type Observer interface {
	Observe(TraceEvent)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(TraceEvent)

// Observe calls f(ev).
func (f ObserverFunc) Observe(ev TraceEvent) { f(ev) }
