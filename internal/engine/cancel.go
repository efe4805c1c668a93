package engine

import (
	"context"
	"sync"
	"sync/atomic"
)

// effectHandle tracks one running effect. Continuations carry the handle
// so the run loop can drop them once the effect is cancelled.
type effectHandle struct {
	id        CancelID
	hasID     bool
	flow      string
	cancel    context.CancelFunc
	cancelled atomic.Bool
	refs      atomic.Int32 // running work plus queued continuations
}

// Cancel marks the handle and cancels its context. Idempotent.
func (h *effectHandle) Cancel() {
	if h.cancelled.CompareAndSwap(false, true) {
		h.cancel()
	}
}

// Cancelled reports whether the handle was cancelled.
func (h *effectHandle) Cancelled() bool {
	return h != nil && h.cancelled.Load()
}

// cancelRegistry maps cancel ids to running effect handles.
//
// Thread-safety: register/remove are called from worker goroutines as
// effects finish; cancel calls come from the run loop.
type cancelRegistry struct {
	mu   sync.Mutex
	byID map[CancelID]map[*effectHandle]struct{}
}

func newCancelRegistry() *cancelRegistry {
	return &cancelRegistry{byID: make(map[CancelID]map[*effectHandle]struct{})}
}

func (r *cancelRegistry) register(h *effectHandle) {
	if !h.hasID {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.byID[h.id]
	if !ok {
		set = make(map[*effectHandle]struct{})
		r.byID[h.id] = set
	}
	set[h] = struct{}{}
}

func (r *cancelRegistry) remove(h *effectHandle) {
	if !h.hasID {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	set := r.byID[h.id]
	delete(set, h)
	if len(set) == 0 {
		delete(r.byID, h.id)
	}
}

// cancelID cancels every handle registered under id and returns how many
// were cancelled.
func (r *cancelRegistry) cancelID(id CancelID) int {
	r.mu.Lock()
	set := r.byID[id]
	delete(r.byID, id)
	r.mu.Unlock()

	for h := range set {
		h.Cancel()
	}
	return len(set)
}

// cancelScope cancels every handle whose id lies under scope.
func (r *cancelRegistry) cancelScope(scope string) int {
	var victims []*effectHandle

	r.mu.Lock()
	for id, set := range r.byID {
		if !id.InScope(scope) {
			continue
		}
		for h := range set {
			victims = append(victims, h)
		}
		delete(r.byID, id)
	}
	r.mu.Unlock()

	for _, h := range victims {
		h.Cancel()
	}
	return len(victims)
}

// cancelAll cancels every registered handle.
func (r *cancelRegistry) cancelAll() int {
	return r.cancelScope("")
}

// Len returns the number of registered handles.
func (r *cancelRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, set := range r.byID {
		n += len(set)
	}
	return n
}
