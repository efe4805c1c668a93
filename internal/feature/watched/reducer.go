package watched

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

// Child scope names.
const (
	ScopeList        = "list"
	ScopeFilters     = "filters"
	ScopeQuickSearch = "quick_search"
	ScopeDetail      = "detail"
)

// Reducer reduces the watched feature.
type Reducer struct {
	env      client.Env
	combined engine.Reducer[State, Action]
}

var _ engine.Reducer[State, Action] = (*Reducer)(nil)

// New creates the watched reducer.
func New(env client.Env) *Reducer {
	env = env.WithDefaults()
	r := &Reducer{env: env}

	source := gallerylist.NetworkSource{Env: env, Source: client.SourceWatched, Range: ir.FilterRangeWatched}
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
		return engine.Effects(engine.Dispatch[Action](List{Action: gallerylist.Teardown{}}))
	}
	return nil
}

// clearSubStates resets every child of the route slot and cancels their work.
func clearSubStates(s *State) []engine.Effect[Action] {
	var effects []engine.Effect[Action]
	for _, kind := range []RouteKind{RouteDetail, RouteFilters, RouteQuickSearch} {
		effects = append(effects, clearRoute(s, kind)...)
	}
	return effects
}

// clearRoute resets the child presented by kind.
func clearRoute(s *State, kind RouteKind) []engine.Effect[Action] {
	switch kind {
	case RouteDetail:
		s.Detail = nil
		return engine.Effects(engine.CancelScope[Action](ScopeDetail))
	case RouteFilters:
		s.Filters = filters.NewState(ir.FilterRangeWatched)
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
