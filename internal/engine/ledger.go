package engine

import "sync"

// flowLedger tracks outstanding work for a store: queued envelopes plus
// running effects, in total and per flow, and the steps each live flow has
// spent. A flow's entry, and with it its step count, is dropped once it has
// nothing outstanding.
type flowLedger struct {
	mu       sync.Mutex
	maxSteps int
	pending  int
	flows    map[string]*flowEntry
	waiters  []chan struct{}
	stopped  bool
}

type flowEntry struct {
	pending int
	steps   int
}

func newFlowLedger(maxSteps int) *flowLedger {
	return &flowLedger{maxSteps: maxSteps, flows: make(map[string]*flowEntry)}
}

func (l *flowLedger) entry(flow string) *flowEntry {
	e, ok := l.flows[flow]
	if !ok {
		e = &flowEntry{}
		l.flows[flow] = e
	}
	return e
}

// begin records one unit of outstanding work for flow.
func (l *flowLedger) begin(flow string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pending++
	l.entry(flow).pending++
}

// end retires one unit of work and wakes Settle waiters when the store
// goes idle.
func (l *flowLedger) end(flow string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.pending--
	if e, ok := l.flows[flow]; ok {
		e.pending--
		if e.pending <= 0 {
			delete(l.flows, flow)
		}
	}
	if l.pending == 0 {
		l.wakeLocked()
	}
}

// spend charges one reduced action to flow. It returns the steps spent so
// far and false once they exceed the budget. A budget of zero or less is
// unlimited.
func (l *flowLedger) spend(flow string) (int, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e := l.entry(flow)
	e.steps++
	return e.steps, l.maxSteps <= 0 || e.steps <= l.maxSteps
}

// idle returns a channel closed when nothing is outstanding. It is nil if
// the store is idle already; err is ErrStopped on a stopped store.
func (l *flowLedger) idle() (<-chan struct{}, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.pending == 0 {
		return nil, nil
	}
	if l.stopped {
		return nil, ErrStopped
	}
	w := make(chan struct{})
	l.waiters = append(l.waiters, w)
	return w, nil
}

// outstanding returns the total of queued envelopes and running effects.
func (l *flowLedger) outstanding() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pending
}

// stop releases every waiter; later idle calls on a busy ledger fail.
func (l *flowLedger) stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stopped = true
	l.wakeLocked()
}

func (l *flowLedger) wakeLocked() {
	for _, w := range l.waiters {
		close(w)
	}
	l.waiters = nil
}
