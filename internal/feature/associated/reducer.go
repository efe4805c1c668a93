package associated

import (
	"log/slog"

	"github.com/roach88/panda/internal/client"
	"github.com/roach88/panda/internal/engine"
	"github.com/roach88/panda/internal/feature/gallerylist"
	"github.com/roach88/panda/internal/ir"
)

// Reducer reduces the associated buckets.
type Reducer struct {
	list *gallerylist.Reducer
}

var _ engine.Reducer[State, Action] = (*Reducer)(nil)

// New creates the reducer. Pages come from the associated source with the
// search filter.
func New(env client.Env) *Reducer {
	source := gallerylist.NetworkSource{Env: env, Source: client.SourceAssociated, Range: ir.FilterRangeSearch}
	var cache gallerylist.CacheFunc
	if env.Database != nil {
		cache = env.Database.CacheGalleries
	}
	return &Reducer{list: gallerylist.New(source, cache)}
}

// Reduce implements engine.Reducer.
func (r *Reducer) Reduce(s *State, action Action) []engine.Effect[Action] {
	switch a := action.(type) {
	case Fetch:
		return r.fetch(s, a.Depth, a.Keyword)

	case FetchIfNeeded:
		if s.valid(a.Depth, a.Keyword) {
			b := s.Buckets[a.Depth]
			if !b.List.IsEmpty() || b.List.Loading.IsLoading() {
				return nil
			}
		}
		return r.fetch(s, a.Depth, a.Keyword)

	case FetchMore:
		if !s.valid(a.Depth, a.Keyword) {
			return r.fetch(s, a.Depth, a.Keyword)
		}
		return r.forward(s, a.Depth, a.Keyword, gallerylist.FetchMore{})

	case List:
		if !s.valid(a.Depth, a.Keyword) {
			slog.Debug("dropping stale associated response",
				"depth", a.Depth,
				"keyword", a.Keyword.Query(),
				"action", engine.Describe(a.Action),
			)
			return nil
		}
		return r.forward(s, a.Depth, a.Keyword, a.Action)

	case Truncate:
		if a.Depth < 0 || a.Depth >= len(s.Buckets) {
			return nil
		}
		var effects []engine.Effect[Action]
		for d := a.Depth; d < len(s.Buckets); d++ {
			effects = append(effects, engine.CancelScope[Action](scopeOf(d)))
		}
		s.Buckets = append([]Bucket(nil), s.Buckets[:a.Depth]...)
		return effects

	case Teardown:
		var effects []engine.Effect[Action]
		for d := range s.Buckets {
			b := &s.Buckets[d]
			if b.List.Loading.IsLoading() {
				b.List.Loading = ir.Idle()
			}
			if b.List.FooterLoading.IsLoading() {
				b.List.FooterLoading = ir.Idle()
			}
			effects = append(effects, engine.CancelScope[Action](scopeOf(d)))
		}
		return effects
	}
	return nil
}

// fetch starts a fresh first-page fetch at depth. A bucket holding another
// keyword is reset and its work cancelled first.
func (r *Reducer) fetch(s *State, depth int, keyword ir.AssociatedKeyword) []engine.Effect[Action] {
	if depth < 0 {
		return nil
	}
	for len(s.Buckets) <= depth {
		s.Buckets = append(s.Buckets, Bucket{})
	}

	var effects []engine.Effect[Action]
	if s.Buckets[depth].Keyword != keyword {
		effects = append(effects, engine.CancelScope[Action](scopeOf(depth)))
		s.Buckets[depth] = Bucket{Keyword: keyword}
	}
	return append(effects, r.forward(s, depth, keyword, gallerylist.FetchKeyword(keyword.Query()))...)
}

func (r *Reducer) forward(s *State, depth int, keyword ir.AssociatedKeyword, action gallerylist.Action) []engine.Effect[Action] {
	effects := r.list.Reduce(&s.Buckets[depth].List, action)
	return engine.MapEffects(effects, scopeOf(depth), func(a gallerylist.Action) Action {
		return List{Depth: depth, Keyword: keyword, Action: a}
	})
}
