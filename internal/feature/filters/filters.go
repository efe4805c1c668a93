// Package filters edits the saved filter of each filter range and syncs
// edits to the database.
package filters

import (
	"context"
	"fmt"

	"github.com/roach88/panda/internal/client"
	"github.com/roach88/panda/internal/engine"
	"github.com/roach88/panda/internal/ir"
)

// RouteResetConfirm asks for confirmation before resetting a range.
const RouteResetConfirm = "reset_confirm"

// RoleFetch is the cancel role of the filter load.
const RoleFetch = "fetch"

// Set holds one filter per range.
type Set struct {
	Search  ir.Filter `json:"search"`
	Global  ir.Filter `json:"global"`
	Watched ir.Filter `json:"watched"`
}

// DefaultSet has the default filter in every range.
func DefaultSet() Set {
	return Set{Search: ir.DefaultFilter(), Global: ir.DefaultFilter(), Watched: ir.DefaultFilter()}
}

// Get returns the filter of r.
func (s Set) Get(r ir.FilterRange) ir.Filter {
	switch r {
	case ir.FilterRangeGlobal:
		return s.Global
	case ir.FilterRangeWatched:
		return s.Watched
	default:
		return s.Search
	}
}

// Put replaces the filter of r.
func (s *Set) Put(r ir.FilterRange, f ir.Filter) {
	switch r {
	case ir.FilterRangeGlobal:
		s.Global = f
	case ir.FilterRangeWatched:
		s.Watched = f
	default:
		s.Search = f
	}
}

// State is the filters sheet.
type State struct {
	Range   ir.FilterRange  `json:"range"`
	Filters Set             `json:"filters"`
	Route   string          `json:"route,omitempty"`
	Loading ir.LoadingState `json:"loading"`
}

// NewState returns the sheet editing r.
func NewState(r ir.FilterRange) State {
	return State{Range: r, Filters: DefaultSet()}
}

// Current is the filter being edited.
func (s State) Current() ir.Filter { return s.Filters.Get(s.Range) }

// Action is a filters action.
type Action interface{ isAction() }

// SetRange switches the edited range.
type SetRange struct{ Range ir.FilterRange }

// SetNavigation sets or clears (empty) the route.
type SetNavigation struct{ Route string }

// Fetch loads every range from the database.
type Fetch struct{}

// FetchDone delivers the loaded filters.
type FetchDone struct{ Result ir.Result[Set] }

// SetFilter replaces the filter of a range and syncs it.
type SetFilter struct {
	Range  ir.FilterRange
	Filter ir.Filter
}

// Reset restores the default filter of the edited range.
type Reset struct{}

// SyncFilter writes the filter of Range to the database.
type SyncFilter struct{ Range ir.FilterRange }

// Teardown cancels the load.
type Teardown struct{}

func (SetRange) isAction()      {}
func (SetNavigation) isAction() {}
func (Fetch) isAction()         {}
func (FetchDone) isAction()     {}
func (SetFilter) isAction()     {}
func (Reset) isAction()         {}
func (SyncFilter) isAction()    {}
func (Teardown) isAction()      {}

// Reducer reduces the filters sheet.
type Reducer struct {
	env client.Env
}

// New creates the reducer.
func New(env client.Env) *Reducer {
	return &Reducer{env: env}
}

// Reduce implements engine.Reducer.
func (r *Reducer) Reduce(s *State, action Action) []engine.Effect[Action] {
	switch a := action.(type) {
	case SetRange:
		s.Range = a.Range
		return nil

	case SetNavigation:
		s.Route = a.Route
		return nil

	case Fetch:
		if s.Loading.IsLoading() {
			return nil
		}
		s.Loading = ir.Loading()
		return engine.Effects(
			engine.Task(func(ctx context.Context) Action {
				return FetchDone{Result: ir.ResultOf(r.load(ctx))}
			}).Cancellable(engine.Key(RoleFetch), true).Named("fetch_filters"),
		)

	case FetchDone:
		s.Loading = ir.Idle()
		if !a.Result.IsOK() {
			s.Loading = ir.FromError(a.Result.Err)
			return nil
		}
		s.Filters = a.Result.Value
		return nil

	case SetFilter:
		s.Filters.Put(a.Range, a.Filter)
		return engine.Effects(engine.Dispatch[Action](SyncFilter{Range: a.Range}))

	case Reset:
		s.Route = ""
		s.Filters.Put(s.Range, ir.DefaultFilter())
		return engine.Effects(engine.Dispatch[Action](SyncFilter{Range: s.Range}))

	case SyncFilter:
		rng, f := a.Range, s.Filters.Get(a.Range)
		return engine.Effects(engine.Fire[Action](func(ctx context.Context) error {
			return r.env.Database.UpdateFilter(ctx, rng, f)
		}).Named("sync_filter"))

	case Teardown:
		if s.Loading.IsLoading() {
			s.Loading = ir.Idle()
		}
		return engine.Effects(engine.Cancel[Action](engine.Key(RoleFetch)))
	}
	return nil
}

func (r *Reducer) load(ctx context.Context) (Set, error) {
	var set Set
	for _, rng := range []ir.FilterRange{ir.FilterRangeSearch, ir.FilterRangeGlobal, ir.FilterRangeWatched} {
		f, err := r.env.Database.FetchFilter(ctx, rng)
		if err != nil {
			return Set{}, fmt.Errorf("load %s filter: %w", rng, err)
		}
		set.Put(rng, f)
	}
	return set, nil
}
