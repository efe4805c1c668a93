package gallerylist

import (
	"context"

	"github.com/roach88/panda/internal/engine"
	"github.com/roach88/panda/internal/ir"
	"github.com/roach88/panda/internal/paging"
)

// Cancel roles owned by a list.
const (
	RoleFetch     = "fetch"
	RoleFetchMore = "fetch_more"
)

// CacheFunc persists galleries. It runs as a fire-and-forget effect.
type CacheFunc func(ctx context.Context, galleries []ir.Gallery) error

// Reducer reduces a gallery list.
type Reducer struct {
	source Source
	cache  CacheFunc
}

var _ engine.Reducer[State, Action] = (*Reducer)(nil)

// New creates a list reducer. cache may be nil.
func New(source Source, cache CacheFunc) *Reducer {
	return &Reducer{source: source, cache: cache}
}

// Reduce implements engine.Reducer.
func (r *Reducer) Reduce(s *State, action Action) []engine.Effect[Action] {
	switch a := action.(type) {
	case SetKeyword:
		s.Keyword = a.Keyword
		return nil

	case Fetch:
		if s.Loading.IsLoading() {
			return nil
		}
		if a.Keyword != nil {
			s.Keyword = *a.Keyword
		}
		s.Loading = ir.Loading()
		s.FooterLoading = ir.Idle()
		s.Cursor.ResetPages()

		keyword := s.Keyword
		return engine.Effects(
			engine.Cancel[Action](engine.Key(RoleFetchMore)),
			engine.Task(func(ctx context.Context) Action {
				return FetchDone{Result: ir.ResultOf(r.source.Fetch(ctx, keyword))}
			}).Cancellable(engine.Key(RoleFetch), true).Named("fetch_galleries"),
		)

	case FetchDone:
		s.Loading = ir.Idle()
		if !a.Result.IsOK() {
			s.Loading = ir.FromError(a.Result.Err)
			return nil
		}

		page := a.Result.Value
		s.Cursor = page.Cursor
		if len(page.Galleries) == 0 {
			// Galleries of the same keyword stay visible. Those of another
			// keyword go, so they never seed the continuation.
			if s.GalleriesKeyword != s.Keyword {
				s.Galleries = nil
				s.GalleriesKeyword = ""
			}
			s.Loading = ir.Failed(ir.ErrNotFound)
			if !s.Cursor.HasNextPage() {
				return nil
			}
			return engine.Effects(engine.Dispatch[Action](FetchMore{}))
		}

		s.Galleries = paging.Replace(page.Galleries)
		s.GalleriesKeyword = s.Keyword
		return r.cacheEffects(page.Galleries)

	case FetchMore:
		lastID := ir.ContinuationID(s.Cursor, s.Galleries)
		if !s.Cursor.HasNextPage() || s.FooterLoading.IsLoading() || lastID == "" {
			return nil
		}
		s.FooterLoading = ir.Loading()

		keyword, cursor := s.Keyword, s.Cursor
		return engine.Effects(
			engine.Task(func(ctx context.Context) Action {
				return FetchMoreDone{Result: ir.ResultOf(r.source.FetchMore(ctx, keyword, cursor, lastID))}
			}).Cancellable(engine.Key(RoleFetchMore), true).Named("fetch_more_galleries"),
		)

	case FetchMoreDone:
		s.FooterLoading = ir.Idle()
		if !a.Result.IsOK() {
			s.FooterLoading = ir.FromError(a.Result.Err)
			return nil
		}

		page := a.Result.Value
		s.Cursor = page.Cursor
		merged, added := paging.Merge(s.Galleries, page.Galleries)
		s.Galleries = merged

		effects := r.cacheEffects(page.Galleries)
		if added == 0 && s.Cursor.HasNextPage() {
			effects = append(effects, engine.Dispatch[Action](FetchMore{}))
		} else if added > 0 {
			s.Loading = ir.Idle()
		}
		return effects

	case Teardown:
		if s.Loading.IsLoading() {
			s.Loading = ir.Idle()
		}
		if s.FooterLoading.IsLoading() {
			s.FooterLoading = ir.Idle()
		}
		return engine.Effects(engine.Cancel[Action](engine.Key(RoleFetch), engine.Key(RoleFetchMore)))
	}
	return nil
}

func (r *Reducer) cacheEffects(galleries []ir.Gallery) []engine.Effect[Action] {
	if r.cache == nil || len(galleries) == 0 {
		return nil
	}
	return engine.Effects(engine.Fire[Action](func(ctx context.Context) error {
		return r.cache(ctx, galleries)
	}).Named("cache_galleries"))
}
