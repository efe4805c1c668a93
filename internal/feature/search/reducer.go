package search

import (
	"context"

	"github.com/roach88/panda/internal/client"
	"github.com/roach88/panda/internal/engine"
	"github.com/roach88/panda/internal/feature/detail"
	"github.com/roach88/panda/internal/feature/filters"
	"github.com/roach88/panda/internal/feature/gallerylist"
	"github.com/roach88/panda/internal/feature/quicksearch"
	"github.com/roach88/panda/internal/ir"
)

// RoleFetchHistory is the cancel role of the history load.
const RoleFetchHistory = "fetch_history"

// Child scope names.
const (
	ScopeList        = "list"
	ScopeFilters     = "filters"
	ScopeQuickSearch = "quick_search"
	ScopeDetail      = "detail"
)

// Reducer reduces the search feature.
type Reducer struct {
	env      client.Env
	combined engine.Reducer[State, Action]
}

var _ engine.Reducer[State, Action] = (*Reducer)(nil)

// New creates the search reducer.
func New(env client.Env) *Reducer {
	env = env.WithDefaults()
	r := &Reducer{env: env}

	source := gallerylist.NetworkSource{Env: env, Source: client.SourceSearch, Range: ir.FilterRangeSearch}
	var cache gallerylist.CacheFunc
	if env.Database != nil {
		cache = env.Database.CacheGalleries
	}

	r.combined = engine.Combine[State, Action](
		engine.ReducerFunc[State, Action](r.reduce),
		engine.Scope(ScopeList,
			func(s *State) *gallerylist.State { return &s.List },
			func(a Action) (gallerylist.Action, bool) {
				l, ok := a.(List)
				return l.Action, ok
			},
			func(a gallerylist.Action) Action { return List{Action: a} },
			gallerylist.New(source, cache),
		),
		engine.Scope(ScopeFilters,
			func(s *State) *filters.State { return &s.Filters },
			func(a Action) (filters.Action, bool) {
				f, ok := a.(Filters)
				return f.Action, ok
			},
			func(a filters.Action) Action { return Filters{Action: a} },
			filters.New(env),
		),
		engine.Scope(ScopeQuickSearch,
			func(s *State) *quicksearch.State { return &s.QuickSearch },
			func(a Action) (quicksearch.Action, bool) {
				q, ok := a.(QuickSearch)
				return q.Action, ok
			},
			func(a quicksearch.Action) Action { return QuickSearch{Action: a} },
			quicksearch.New(env),
		),
		engine.Scope(ScopeDetail,
			func(s *State) *detail.State { return s.Detail },
			func(a Action) (detail.Action, bool) {
				d, ok := a.(Detail)
				return d.Action, ok
			},
			func(a detail.Action) Action { return Detail{Action: a} },
			detail.New(env),
		),
	)
	return r
}

// Reduce implements engine.Reducer.
func (r *Reducer) Reduce(s *State, action Action) []engine.Effect[Action] {
	return r.combined.Reduce(s, action)
}

func (r *Reducer) reduce(s *State, action Action) []engine.Effect[Action] {
	switch a := action.(type) {
	case Search:
		keyword := a.Keyword
		effects := engine.Effects(engine.Dispatch[Action](List{Action: gallerylist.FetchKeyword(keyword)}))
		if keyword == "" {
			return effects
		}
		s.History = pushHistory(s.History, keyword)
		return append(effects, engine.Fire[Action](func(ctx context.Context) error {
			return r.env.Database.AppendHistoryKeyword(ctx, keyword)
		}).Named("append_history_keyword"))

	case FetchHistory:
		if s.HistoryLoading.IsLoading() {
			return nil
		}
		s.HistoryLoading = ir.Loading()
		return engine.Effects(
			engine.Task(func(ctx context.Context) Action {
				return FetchHistoryDone{Result: ir.ResultOf(r.env.Database.FetchHistoryKeywords(ctx, MaxHistoryKeywords))}
			}).Cancellable(engine.Key(RoleFetchHistory), true).Named("fetch_history_keywords"),
		)

	case FetchHistoryDone:
		s.HistoryLoading = ir.Idle()
		if !a.Result.IsOK() {
			s.HistoryLoading = ir.FromError(a.Result.Err)
			return nil
		}
		s.History = a.Result.Value
		return nil

	case SetNavigation:
		if a.Route == nil {
			s.Route = nil
			return clearSubStates(s)
		}
		previous := s.Route
		route := *a.Route
		s.Route = &route

		var effects []engine.Effect[Action]
		if previous != nil && previous.Kind != route.Kind {
			effects = append(effects, clearRoute(s, previous.Kind)...)
		}
		if route.Kind == RouteDetail && (s.Detail == nil || s.Detail.GID != route.GID) {
			if s.Detail != nil {
				effects = append(effects, engine.CancelScope[Action](ScopeDetail))
			}
			d := detail.NewState(0)
			d.GID = route.GID
			s.Detail = &d
		}
		if (route.Kind == RouteFilters || route.Kind == RouteQuickSearch) && (previous == nil || previous.Kind != route.Kind) {
			effects = append(effects, r.haptic(client.FeedbackLight))
		}
		return effects

	case ClearSubStates:
		return clearSubStates(s)

	case Teardown:
		if s.HistoryLoading.IsLoading() {
			s.HistoryLoading = ir.Idle()
		}
		return engine.Effects(
			engine.Cancel[Action](engine.Key(RoleFetchHistory)),
			engine.Dispatch[Action](List{Action: gallerylist.Teardown{}}),
		)
	}
	return nil
}

func clearSubStates(s *State) []engine.Effect[Action] {
	var effects []engine.Effect[Action]
	for _, kind := range []RouteKind{RouteDetail, RouteFilters, RouteQuickSearch} {
		effects = append(effects, clearRoute(s, kind)...)
	}
	return effects
}

// clearRoute resets the child presented by kind and cancels its scope.
func clearRoute(s *State, kind RouteKind) []engine.Effect[Action] {
	switch kind {
	case RouteDetail:
		s.Detail = nil
		return engine.Effects(engine.CancelScope[Action](ScopeDetail))
	case RouteFilters:
		s.Filters = filters.NewState(ir.FilterRangeSearch)
		return engine.Effects(engine.CancelScope[Action](ScopeFilters))
	case RouteQuickSearch:
		s.QuickSearch = quicksearch.State{}
		return engine.Effects(engine.CancelScope[Action](ScopeQuickSearch))
	}
	return nil
}

func (r *Reducer) haptic(f client.Feedback) engine.Effect[Action] {
	return engine.Fire[Action](func(context.Context) error {
		return r.env.Haptics.Generate(f)
	}).Named("haptics")
}
