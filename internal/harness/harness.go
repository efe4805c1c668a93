package harness

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/roach88/panda/internal/client"
	"github.com/roach88/panda/internal/engine"
	"github.com/roach88/panda/internal/feature/app"
	"github.com/roach88/panda/internal/ir"
	"github.com/roach88/panda/internal/store"
	"github.com/roach88/panda/internal/testutil"
)

// cacheEpoch stamps cache rows so listings are reproducible.
var cacheEpoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// Options adjust how a scenario executes.
type Options struct {
	// Database replaces the fresh in-memory cache. It is seeded like the
	// in-memory one and left open for the caller.
	Database *store.Store

	// Live runs effects on the store's worker pool and waits for each step
	// to settle instead of draining it inline. Reduce order across flows is
	// then up to the scheduler.
	Live bool

	// SettleTimeout bounds how long one live step may take. Zero means
	// DefaultSettleTimeout.
	SettleTimeout time.Duration

	// StoreOptions are applied after the deterministic defaults.
	StoreOptions []engine.StoreOption
}

// DefaultSettleTimeout bounds a live step when Options.SettleTimeout is zero.
const DefaultSettleTimeout = 30 * time.Second

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
// Deterministic helpers ensure reproducible results.
//
// Execution flow:
// 1. Create fresh in-memory database and seed it
// 2. Script the gallery source
// 3. Build the app store with synchronous effects
// 4. Send every step and drain its cascade before the next one
// 5. Evaluate assertions against trace and final state
func Run(scenario *Scenario) (*Result, error) {
	return RunWith(context.Background(), scenario, Options{})
}

// RunWith executes a scenario with the given options.
func RunWith(ctx context.Context, scenario *Scenario, opts Options) (*Result, error) {
	st := opts.Database
	if st == nil {
		mem, err := store.Open(":memory:", store.WithNow(testutil.NewManualClock(cacheEpoch).Now))
		if err != nil {
			return nil, fmt.Errorf("failed to create in-memory store: %w", err)
		}
		defer mem.Close()
		st = mem
	}

	if err := seed(ctx, st, scenario.Database); err != nil {
		return nil, fmt.Errorf("failed to seed database: %w", err)
	}

	fakes := testutil.NewEnv()
	scenario.Network.script(fakes.Network)
	env := client.Env{
		Network:   fakes.Network,
		Database:  st,
		Clipboard: fakes.Clipboard,
		Haptics:   fakes.Haptics,
		Language:  scenario.Language,
	}.WithDefaults()

	prefix := scenario.FlowPrefix
	if prefix == "" {
		prefix = DefaultFlowPrefix
	}
	rec := &recorder{}
	storeOpts := []engine.StoreOption{
		engine.WithClock(&engine.Counter{}),
		engine.WithFlowGenerator(testutil.NewSequenceFlowGenerator(prefix)),
		engine.WithObserver(rec),
	}
	if !opts.Live {
		storeOpts = append(storeOpts, engine.WithSynchronousEffects())
	}
	storeOpts = append(storeOpts, opts.StoreOptions...)
	if scenario.MaxSteps > 0 {
		storeOpts = append(storeOpts, engine.WithMaxSteps(scenario.MaxSteps))
	}

	s := engine.NewStore(app.NewState(env), app.New(env), storeOpts...)
	defer s.Stop()

	if opts.Live {
		loopCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			if err := s.Run(loopCtx); err != nil && loopCtx.Err() == nil {
				slog.Error("scenario store loop ended", "scenario", scenario.Name, "error", err)
			}
		}()
	}

	for i, step := range scenario.Steps {
		actions, err := actionsFor(step)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		for _, a := range actions {
			if !s.Send(a) {
				return nil, fmt.Errorf("step %d: store stopped", i)
			}
			if opts.Live {
				if err := settle(ctx, s, opts.SettleTimeout); err != nil {
					return nil, fmt.Errorf("step %d (%s): %w", i, step.Send, err)
				}
				continue
			}
			n := s.Drain()
			slog.Debug("scenario step drained",
				"scenario", scenario.Name,
				"step", i,
				"intent", step.Send,
				"processed", n,
			)
		}
	}

	result := NewResult()
	result.Trace = rec.trace()
	result.State = s.State()
	result.Calls = fakes.Network.Calls()

	var err error
	result.Digest, err = ir.Digest(ir.DomainState, result.State)
	if err != nil {
		return nil, fmt.Errorf("failed to digest final state: %w", err)
	}
	result.TraceDigest, err = ir.Digest(ir.DomainTrace, result.Trace)
	if err != nil {
		return nil, fmt.Errorf("failed to digest trace: %w", err)
	}
	result.Cached, err = st.CountGalleries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count cached galleries: %w", err)
	}

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

func settle(ctx context.Context, s *engine.Store[app.State, app.Action], timeout time.Duration) error {
	if timeout <= 0 {
		timeout = DefaultSettleTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return s.Settle(ctx)
}

// seed writes the scenario's initial cache contents.
func seed(ctx context.Context, db client.Database, seed DatabaseSeed) error {
	ranges := make([]string, 0, len(seed.Filters))
	for r := range seed.Filters {
		ranges = append(ranges, r)
	}
	slices.Sort(ranges)
	for _, r := range ranges {
		if err := db.UpdateFilter(ctx, ir.FilterRange(r), seed.Filters[r]); err != nil {
			return err
		}
	}

	if len(seed.Words) > 0 {
		words := make([]ir.QuickSearchWord, len(seed.Words))
		for i, w := range seed.Words {
			if w.ID == "" {
				w.ID = fmt.Sprintf("word-%d", i+1)
			}
			words[i] = w
		}
		if err := db.UpdateQuickSearchWords(ctx, words); err != nil {
			return err
		}
	}

	// History is listed newest first; append oldest first.
	for i := len(seed.History) - 1; i >= 0; i-- {
		if err := db.AppendHistoryKeyword(ctx, seed.History[i]); err != nil {
			return err
		}
	}

	return db.CacheGalleries(ctx, seed.Galleries)
}
