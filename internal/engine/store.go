package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/roach88/panda/internal/ir"
)

// DefaultMaxSteps is the default maximum number of actions per flow.
// This bounds runaway dispatch chains without limiting normal use.
const DefaultMaxSteps = 1000

// Cloner is implemented by states that hold pointers. The store publishes
// Clone() snapshots so observers never share memory with the run loop.
type Cloner[S any] interface {
	Clone() S
}

// Store owns a state value and the run loop that reduces actions into it.
//
// CRITICAL: All state mutations happen in the single goroutine running
// Run (or Drain). External callers use Send.
//
// Thread-safety model:
//   - Send, State, Subscribe, Settle, Stop: safe from any goroutine
//   - Run: must be called from exactly one goroutine
//   - Drain: must not be called while Run is active
type Store[S, A any] struct {
	reducer Reducer[S, A]

	mu    sync.RWMutex
	state S

	queue   *actionQueue[envelope[A]]
	clock   SeqClock
	flowGen FlowTokenGenerator
	cancels *cancelRegistry

	maxSteps      int
	ledger        *flowLedger
	sem           *semaphore.Weighted
	effectTimeout time.Duration
	synchronous   bool
	observers     []Observer

	baseCtx    context.Context
	baseCancel context.CancelFunc
	stopOnce   sync.Once

	subMu   sync.Mutex
	subs    map[int]chan S
	nextSub int
}

// StoreOption configures a Store.
type StoreOption func(*storeConfig)

type storeConfig struct {
	maxSteps      int
	workers       int
	effectTimeout time.Duration
	synchronous   bool
	flowGen       FlowTokenGenerator
	clock         SeqClock
	observers     []Observer
}

// WithMaxSteps sets the maximum number of actions reduced per flow.
//
// Default: 1000 (DefaultMaxSteps). Zero or less disables the quota.
func WithMaxSteps(maxSteps int) StoreOption {
	return func(c *storeConfig) { c.maxSteps = maxSteps }
}

// WithWorkers bounds the number of effects running at once.
// Zero means unbounded.
func WithWorkers(n int) StoreOption {
	return func(c *storeConfig) { c.workers = n }
}

// WithEffectTimeout bounds each effect's context.
func WithEffectTimeout(d time.Duration) StoreOption {
	return func(c *storeConfig) { c.effectTimeout = d }
}

// WithSynchronousEffects runs effect work inline in the run loop instead of
// on worker goroutines. Continuations are still queued, so ordering stays
// FIFO. Used by the harness for byte-identical traces.
func WithSynchronousEffects() StoreOption {
	return func(c *storeConfig) { c.synchronous = true }
}

// WithFlowGenerator sets the generator used by Send.
func WithFlowGenerator(g FlowTokenGenerator) StoreOption {
	return func(c *storeConfig) { c.flowGen = g }
}

// WithClock sets the logical clock.
func WithClock(clock SeqClock) StoreOption {
	return func(c *storeConfig) { c.clock = clock }
}

// WithObserver registers a trace observer.
func WithObserver(o Observer) StoreOption {
	return func(c *storeConfig) { c.observers = append(c.observers, o) }
}

// NewStore creates a store holding initial and reducing with reducer.
func NewStore[S, A any](initial S, reducer Reducer[S, A], opts ...StoreOption) *Store[S, A] {
	cfg := storeConfig{
		maxSteps: DefaultMaxSteps,
		flowGen:  UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.clock == nil {
		cfg.clock = &Counter{}
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Store[S, A]{
		reducer:       reducer,
		state:         initial,
		queue:         newActionQueue[envelope[A]](),
		clock:         cfg.clock,
		flowGen:       cfg.flowGen,
		cancels:       newCancelRegistry(),
		maxSteps:      cfg.maxSteps,
		ledger:        newFlowLedger(cfg.maxSteps),
		effectTimeout: cfg.effectTimeout,
		synchronous:   cfg.synchronous,
		observers:     cfg.observers,
		baseCtx:       ctx,
		baseCancel:    cancel,
		subs:          make(map[int]chan S),
	}
	if cfg.workers > 0 {
		s.sem = semaphore.NewWeighted(int64(cfg.workers))
	}
	return s
}

// Send submits an action under a new flow.
// Returns false if the store has been stopped.
func (s *Store[S, A]) Send(action A) bool {
	return s.enqueue(envelope[A]{
		action: action,
		flow:   s.flowGen.Generate(),
		origin: "send",
	})
}

// State returns a snapshot of the current state.
func (s *Store[S, A]) State() S {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Subscribe returns a channel that receives the latest state after every
// reduced action, starting with the current one. Slow readers only ever
// see the newest snapshot. The returned func unsubscribes and closes the
// channel.
func (s *Store[S, A]) Subscribe() (<-chan S, func()) {
	ch := make(chan S, 1)
	ch <- s.State()

	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.subMu.Unlock()

	return ch, func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		if _, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(ch)
		}
	}
}

// Run starts the single-writer loop.
// Blocks until ctx is cancelled or Stop is called.
//
// ERROR HANDLING: effect failures and quota violations are logged and the
// loop continues. Nothing that happens to one action stops the store.
func (s *Store[S, A]) Run(ctx context.Context) error {
	slog.Info("store starting",
		"max_steps", s.maxSteps,
		"synchronous", s.synchronous,
	)

	for {
		env, ok := s.queue.TryDequeue()
		if ok {
			s.process(env)
			continue
		}

		select {
		case <-ctx.Done():
			slog.Info("store stopping: context cancelled")
			s.Stop()
			return ctx.Err()

		case <-s.queue.Wait():
			// The signal channel closes when the queue is closed.
			if s.queue.Closed() && s.queue.Len() == 0 {
				slog.Info("store stopping: queue closed")
				return nil
			}
		}
	}
}

// Drain processes queued actions in the calling goroutine until the queue
// is empty and returns how many envelopes it handled. With synchronous
// effects this runs a whole cascade to completion.
func (s *Store[S, A]) Drain() int {
	n := 0
	for {
		env, ok := s.queue.TryDequeue()
		if !ok {
			return n
		}
		s.process(env)
		n++
	}
}

// Settle blocks until the queue is empty and no effect is running, or ctx
// is done. Requires Run to be active (or synchronous effects plus Drain).
func (s *Store[S, A]) Settle(ctx context.Context) error {
	w, err := s.ledger.idle()
	if w == nil || err != nil {
		return err
	}

	select {
	case <-w:
		if s.ledger.outstanding() > 0 {
			return ErrStopped
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pending returns the number of queued actions plus running effects.
func (s *Store[S, A]) Pending() int {
	return s.ledger.outstanding()
}

// Stop closes the queue, cancels every running effect and closes all
// subscriptions. Safe to call more than once.
func (s *Store[S, A]) Stop() {
	s.stopOnce.Do(func() {
		s.queue.Close()
		n := s.cancels.cancelAll()
		s.baseCancel()
		slog.Debug("store stopped", "cancelled_effects", n)

		s.ledger.stop()

		s.subMu.Lock()
		for id, ch := range s.subs {
			delete(s.subs, id)
			close(ch)
		}
		s.subMu.Unlock()
	})
}

// process reduces one envelope.
// CRITICAL: Called only from the loop goroutine.
func (s *Store[S, A]) process(env envelope[A]) {
	defer s.end(env.flow)
	if env.handle != nil {
		defer s.release(env.handle)
	}

	name := Describe(env.action)

	if env.handle.Cancelled() {
		slog.Debug("discarding continuation of cancelled effect",
			"action", name,
			"flow", env.flow,
			"effect", env.handle.id.String(),
		)
		s.observe(TraceEvent{Flow: env.flow, Kind: TraceDiscard, Action: name, Detail: env.handle.id.String()})
		return
	}

	if steps, ok := s.ledger.spend(env.flow); !ok {
		rerr := NewQuotaError(env.flow, name, steps, s.maxSteps)
		slog.Error("dropping action", "error", rerr)
		s.observe(TraceEvent{Flow: env.flow, Kind: TraceQuota, Action: name, Detail: rerr.Message})
		return
	}

	seq := s.clock.Next()

	s.mu.Lock()
	effects := s.reducer.Reduce(&s.state, env.action)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	slog.Debug("reduced action",
		"seq", seq,
		"action", name,
		"flow", env.flow,
		"origin", env.origin,
		"effects", len(effects),
	)

	if len(s.observers) > 0 {
		described := make([]string, len(effects))
		for i, e := range effects {
			described[i] = e.Describe()
		}
		s.observe(TraceEvent{Seq: seq, Flow: env.flow, Kind: TraceReduce, Action: name, Effects: described})
	}

	s.publish(snapshot)
	s.apply(env.flow, effects)
}

// apply interprets effects in the order the reducer returned them.
func (s *Store[S, A]) apply(flow string, effects []Effect[A]) {
	for _, e := range effects {
		switch e.kind {
		case EffectCancel:
			n := 0
			for _, id := range e.ids {
				n += s.cancels.cancelID(id)
			}
			s.observeCancel(flow, e, n)

		case EffectCancelScope:
			n := s.cancels.cancelScope(e.scope)
			s.observeCancel(flow, e, n)

		case EffectDispatch:
			s.enqueue(envelope[A]{action: e.action, flow: flow, origin: "dispatch"})

		case EffectRun, EffectFire:
			s.start(flow, e)

		default:
			slog.Warn("ignoring effect of unknown kind", "kind", int(e.kind), "flow", flow)
		}
	}
}

// start launches a Run or Fire effect.
func (s *Store[S, A]) start(flow string, e Effect[A]) {
	if e.work == nil {
		return
	}

	ctx, cancel := context.WithCancel(s.baseCtx)
	if s.effectTimeout > 0 {
		tctx, tcancel := context.WithTimeout(ctx, s.effectTimeout)
		parentCancel := cancel
		ctx = tctx
		cancel = func() {
			tcancel()
			parentCancel()
		}
	}

	h := &effectHandle{flow: flow, cancel: cancel}
	if id, ok := e.ID(); ok {
		if e.cancelInFlight {
			if n := s.cancels.cancelID(id); n > 0 {
				slog.Debug("cancelled in-flight effect", "effect", id.String(), "count", n)
			}
		}
		h.id = id
		h.hasID = true
	}
	h.refs.Store(1)
	s.cancels.register(h)
	s.begin(flow)

	send := func(a A) {
		if e.kind == EffectFire {
			return
		}
		if h.Cancelled() {
			slog.Debug("dropping action from cancelled effect", "action", Describe(a), "effect", h.id.String())
			return
		}
		h.refs.Add(1)
		if !s.enqueue(envelope[A]{action: a, flow: flow, handle: h, origin: "effect"}) {
			s.release(h)
		}
	}

	run := func() {
		defer s.end(flow)
		defer s.release(h)
		defer cancel()

		if err := e.work(ctx, send); err != nil {
			s.effectFailed(flow, e, err)
		}
	}

	if s.synchronous {
		run()
		return
	}

	go func() {
		if s.sem != nil {
			if err := s.sem.Acquire(ctx, 1); err != nil {
				// Cancelled while waiting for a worker slot.
				cancel()
				s.release(h)
				s.end(flow)
				return
			}
			defer s.sem.Release(1)
		}
		run()
	}()
}

func (s *Store[S, A]) effectFailed(flow string, e Effect[A], err error) {
	name := e.Describe()
	if ir.IsKind(err, ir.ErrCancelled) {
		slog.Debug("effect cancelled", "effect", name, "flow", flow)
		return
	}
	rerr := NewEffectError(flow, name, err)
	slog.Warn("effect failed", "error", rerr)
	s.observe(TraceEvent{Flow: flow, Kind: TraceEffectError, Action: name, Detail: err.Error()})
}

func (s *Store[S, A]) observeCancel(flow string, e Effect[A], n int) {
	slog.Debug("applied cancel", "effect", e.Describe(), "cancelled", n, "flow", flow)
	s.observe(TraceEvent{Flow: flow, Kind: TraceCancel, Action: e.Describe()})
}

func (s *Store[S, A]) observe(ev TraceEvent) {
	for _, o := range s.observers {
		o.Observe(ev)
	}
}

func (s *Store[S, A]) publish(snapshot S) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	for _, ch := range s.subs {
		// Replace any unread snapshot; this goroutine is the only writer.
		select {
		case <-ch:
		default:
		}
		ch <- snapshot
	}
}

func (s *Store[S, A]) snapshotLocked() S {
	if c, ok := any(s.state).(Cloner[S]); ok {
		return c.Clone()
	}
	return s.state
}

func (s *Store[S, A]) enqueue(env envelope[A]) bool {
	s.begin(env.flow)
	if !s.queue.Enqueue(env) {
		s.end(env.flow)
		slog.Debug("action rejected", "action", Describe(env.action), "error", ErrStopped)
		return false
	}
	return true
}

// release drops one reference to h. The handle stays registered, and so
// cancellable, until its work has returned and every continuation it
// queued has been processed.
func (s *Store[S, A]) release(h *effectHandle) {
	if h.refs.Add(-1) == 0 {
		s.cancels.remove(h)
	}
}

func (s *Store[S, A]) begin(flow string) { s.ledger.begin(flow) }

func (s *Store[S, A]) end(flow string) { s.ledger.end(flow) }
