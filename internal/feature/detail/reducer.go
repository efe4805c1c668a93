package detail

import (
	"context"

	"github.com/roach88/panda/internal/client"
	"github.com/roach88/panda/internal/engine"
	"github.com/roach88/panda/internal/feature/galleryinfos"
	"github.com/roach88/panda/internal/ir"
)

// Scope names of the detail's children.
const (
	ScopeInfos = "infos"
	ScopeChild = "child"
)

// RoleFetch is the cancel role of the detail fetch.
const RoleFetch = "fetch"

// Reducer reduces a detail level and, recursively, the levels below it.
type Reducer struct {
	env      client.Env
	combined engine.Reducer[State, Action]
}

var _ engine.Reducer[State, Action] = (*Reducer)(nil)

// New creates the detail reducer.
func New(env client.Env) *Reducer {
	r := &Reducer{env: env.WithDefaults()}
	r.combined = engine.Combine[State, Action](
		engine.ReducerFunc[State, Action](r.reduce),
		engine.Scope(ScopeInfos,
			func(s *State) *galleryinfos.State { return &s.Infos },
			func(a Action) (galleryinfos.Action, bool) {
				in, ok := a.(Infos)
				return in.Action, ok
			},
			func(a galleryinfos.Action) Action { return Infos{Action: a} },
			galleryinfos.New(env),
		),
		engine.Scope(ScopeChild,
			func(s *State) *State { return s.Child },
			func(a Action) (Action, bool) {
				c, ok := a.(Child)
				return c.Action, ok
			},
			func(a Action) Action { return Child{Action: a} },
			engine.Reducer[State, Action](r),
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
	case Fetch:
		if s.Loading.IsLoading() {
			return nil
		}
		if a.GID != "" {
			s.GID = a.GID
		}
		if s.GID == "" {
			return nil
		}
		s.Loading = ir.Loading()

		gid := s.GID
		return engine.Effects(
			engine.Task(func(ctx context.Context) Action {
				return FetchDone{Result: ir.ResultOf(r.env.Network.GalleryDetail(ctx, gid))}
			}).Cancellable(engine.Key(RoleFetch), true).Named("fetch_detail"),
		)

	case FetchDone:
		s.Loading = ir.Idle()
		if !a.Result.IsOK() {
			s.Loading = ir.FromError(a.Result.Err)
			return nil
		}
		d := a.Result.Value
		s.Detail = &d
		if r.env.Database == nil {
			return nil
		}
		return engine.Effects(engine.Fire[Action](func(ctx context.Context) error {
			return r.env.Database.CacheGalleries(ctx, []ir.Gallery{d.Gallery})
		}).Named("cache_galleries"))

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
		if route.Kind == RouteRelated && (s.Child == nil || s.Child.GID != route.GID) {
			if s.Child != nil {
				effects = append(effects, engine.CancelScope[Action](ScopeChild))
			}
			child := NewState(s.Depth + 1)
			child.GID = route.GID
			s.Child = &child
		}
		return effects

	case ClearSubStates:
		return clearSubStates(s)

	case Teardown:
		if s.Loading.IsLoading() {
			s.Loading = ir.Idle()
		}
		return engine.Effects(
			engine.Cancel[Action](engine.Key(RoleFetch)),
			engine.CancelScope[Action](ScopeChild),
		)
	}
	return nil
}

func clearSubStates(s *State) []engine.Effect[Action] {
	return append(clearRoute(s, RouteInfos), clearRoute(s, RouteRelated)...)
}

// clearRoute resets the child presented by kind. The associated route
// carries only a keyword.
func clearRoute(s *State, kind RouteKind) []engine.Effect[Action] {
	switch kind {
	case RouteInfos:
		s.Infos = galleryinfos.State{}
		return engine.Effects(engine.CancelScope[Action](ScopeInfos))
	case RouteRelated:
		s.Child = nil
		return engine.Effects(engine.CancelScope[Action](ScopeChild))
	}
	return nil
}
