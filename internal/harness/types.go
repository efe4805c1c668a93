package harness

import (
	"sync"

	"github.com/roach88/panda/internal/engine"
	"github.com/roach88/panda/internal/feature/app"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every assertion held.
	Pass bool `json:"pass"`

	// Trace is the store's history in order.
	Trace []engine.TraceEvent `json:"trace"`

	// Errors contains assertion failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// State is the final application state.
	State app.State `json:"state"`

	// Digest identifies State by content. Equal digests mean equal states.
	Digest string `json:"digest"`

	// TraceDigest identifies Trace by content.
	TraceDigest string `json:"trace_digest"`

	// Calls lists the requests the gallery source received.
	Calls []string `json:"calls,omitempty"`

	// Cached is the number of galleries in the local cache.
	Cached int `json:"cached"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []engine.TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds an assertion failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Reduced returns the trace events of actions that reached the reducer.
func (r *Result) Reduced() []engine.TraceEvent {
	var out []engine.TraceEvent
	for _, ev := range r.Trace {
		if ev.Kind == engine.TraceReduce {
			out = append(out, ev)
		}
	}
	return out
}

// recorder collects trace events. The store calls it from the run loop
// and, for effect errors, from worker goroutines.
type recorder struct {
	mu     sync.Mutex
	events []engine.TraceEvent
}

func (r *recorder) Observe(ev engine.TraceEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) trace() []engine.TraceEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]engine.TraceEvent{}, r.events...)
}
