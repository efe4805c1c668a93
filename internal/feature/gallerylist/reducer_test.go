package gallerylist

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/panda/internal/client"
	"github.com/roach88/panda/internal/engine"
	"github.com/roach88/panda/internal/ir"
	"github.com/roach88/panda/internal/paging"
	"github.com/roach88/panda/internal/testutil"
)

func newReducer(env *testutil.Env) *Reducer {
	source := NetworkSource{Env: env.Client(), Source: client.SourceWatched, Range: ir.FilterRangeWatched}
	return New(source, env.Database.CacheGalleries)
}

func firstPage(keyword string) testutil.PageKey {
	return testutil.PageKey{Source: client.SourceWatched, Keyword: keyword}
}

func morePage(keyword, lastID string) testutil.PageKey {
	return testutil.PageKey{Source: client.SourceWatched, Keyword: keyword, LastID: lastID}
}

func TestFetch_SetsLoadingAndResetsCursor(t *testing.T) {
	r := newReducer(testutil.NewEnv())
	s := State{Cursor: paging.Cursor{Index: 3, LastID: "g075"}}

	effects := r.Reduce(&s, FetchKeyword("artist:foo"))

	assert.True(t, s.Loading.IsLoading())
	assert.Equal(t, "artist:foo", s.Keyword)
	assert.Equal(t, paging.Cursor{}, s.Cursor)
	assert.Equal(t, []engine.EffectKind{engine.EffectCancel, engine.EffectRun}, testutil.Kinds(effects))

	id, ok := effects[1].ID()
	require.True(t, ok)
	assert.Equal(t, engine.Key(RoleFetch), id)
	assert.Equal(t, []engine.CancelID{engine.Key(RoleFetchMore)}, effects[0].CancelIDs())
}

func TestFetch_NoOpWhileLoading(t *testing.T) {
	r := newReducer(testutil.NewEnv())
	s := State{Keyword: "a"}
	require.NotEmpty(t, r.Reduce(&s, Fetch{}))

	effects := r.Reduce(&s, FetchKeyword("b"))

	assert.Empty(t, effects, "a second fetch while loading starts nothing")
	assert.Equal(t, "a", s.Keyword)
}

func TestFetch_NilKeywordKeepsCurrent(t *testing.T) {
	r := newReducer(testutil.NewEnv())
	s := State{Keyword: "kept"}

	r.Reduce(&s, Fetch{})

	assert.Equal(t, "kept", s.Keyword)
}

func TestFetchDone_ReplacesItemsAndCaches(t *testing.T) {
	env := testutil.NewEnv()
	r := newReducer(env)
	s := State{Galleries: testutil.Galleries(90, 3), Loading: ir.Loading()}

	page := testutil.Page(0, 50, testutil.Galleries(1, 25))
	effects := r.Reduce(&s, FetchDone{Result: ir.Ok(page)})

	assert.True(t, s.Loading.IsIdle())
	assert.Equal(t, page.Galleries, s.Galleries)
	assert.Equal(t, page.Cursor, s.Cursor)

	out := testutil.RunEffects(context.Background(), effects)
	assert.Empty(t, out.Errors)
	assert.Len(t, env.Database.CachedGIDs(), 25)
}

func TestFetchDone_EmptyWithNextPageDispatchesOneFetchMore(t *testing.T) {
	r := newReducer(testutil.NewEnv())
	s := State{Loading: ir.Loading()}

	page := ir.Page{Cursor: paging.Cursor{Index: 0, LastID: "g010"}}
	effects := r.Reduce(&s, FetchDone{Result: ir.Ok(page)})

	assert.Equal(t, ir.Failed(ir.ErrNotFound), s.Loading)
	assert.Equal(t, "g010", s.Cursor.LastID, "the returned cursor is kept")

	out := testutil.RunEffects(context.Background(), effects)
	assert.Equal(t, []Action{FetchMore{}}, out.Dispatched)
	assert.Empty(t, out.Sent)
}

func TestFetchDone_EmptyLastPageStops(t *testing.T) {
	r := newReducer(testutil.NewEnv())
	s := State{Galleries: testutil.Galleries(1, 2), Loading: ir.Loading()}

	effects := r.Reduce(&s, FetchDone{Result: ir.Ok(testutil.Page(0, 0, nil))})

	assert.Empty(t, effects)
	assert.Equal(t, ir.Failed(ir.ErrNotFound), s.Loading)
	assert.Len(t, s.Galleries, 2, "existing galleries stay visible")
}

func TestFetchDone_EmptyPageForNewKeywordDropsOldGalleries(t *testing.T) {
	r := newReducer(testutil.NewEnv())
	s := State{Keyword: "old", Galleries: testutil.Galleries(1, 3), GalleriesKeyword: "old"}

	keyword := "new"
	r.Reduce(&s, Fetch{Keyword: &keyword})
	effects := r.Reduce(&s, FetchDone{Result: ir.Ok(testutil.OpenPage(nil))})

	assert.Empty(t, s.Galleries)
	assert.Equal(t, ir.Failed(ir.ErrNotFound), s.Loading)

	out := testutil.RunEffects(context.Background(), effects)
	require.Equal(t, []Action{FetchMore{}}, out.Dispatched)
	assert.Empty(t, r.Reduce(&s, FetchMore{}), "no continuation from another keyword's galleries")
}

func TestFetchDone_EmptyRefreshKeepsGalleries(t *testing.T) {
	r := newReducer(testutil.NewEnv())
	s := State{Keyword: "k", Galleries: testutil.Galleries(1, 3), GalleriesKeyword: "k"}

	r.Reduce(&s, Fetch{})
	r.Reduce(&s, FetchDone{Result: ir.Ok(testutil.Page(0, 0, nil))})

	assert.Len(t, s.Galleries, 3)
}

func TestFetchDone_RecordsGalleriesKeyword(t *testing.T) {
	r := newReducer(testutil.NewEnv())
	keyword := "artist:foo"
	s := State{}

	r.Reduce(&s, Fetch{Keyword: &keyword})
	r.Reduce(&s, FetchDone{Result: ir.Ok(testutil.OpenPage(testutil.Galleries(1, 2)))})

	assert.Equal(t, keyword, s.GalleriesKeyword)
}

func TestFetchDone_Failure(t *testing.T) {
	r := newReducer(testutil.NewEnv())
	s := State{Loading: ir.Loading()}

	r.Reduce(&s, FetchDone{Result: ir.Fail[ir.Page](ir.NewError(ir.ErrParse, errors.New("bad html")))})
	assert.Equal(t, ir.Failed(ir.ErrParse), s.Loading)

	s.Loading = ir.Loading()
	r.Reduce(&s, FetchDone{Result: ir.Fail[ir.Page](context.Canceled)})
	assert.True(t, s.Loading.IsIdle(), "cancellation is never surfaced")
}

func TestFetchMore_Guards(t *testing.T) {
	r := newReducer(testutil.NewEnv())

	tests := []struct {
		name  string
		state State
	}{
		{"no next page", State{Cursor: paging.NewCursor(1, 50), Galleries: testutil.Galleries(1, 50)}},
		{"footer loading", State{Cursor: paging.NewCursor(0, 50), Galleries: testutil.Galleries(1, 25), FooterLoading: ir.Loading()}},
		{"no continuation key", State{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.state
			assert.Empty(t, r.Reduce(&s, FetchMore{}))
		})
	}
}

func TestFetchMore_UsesCursorLastIDFirst(t *testing.T) {
	env := testutil.NewEnv()
	env.Network.OnPage(morePage("", "from-cursor"), testutil.Page(1, 50, testutil.Galleries(26, 25)))
	r := newReducer(env)
	s := State{Cursor: paging.Cursor{LastID: "from-cursor"}, Galleries: testutil.Galleries(1, 25)}

	effects := r.Reduce(&s, FetchMore{})
	require.True(t, s.FooterLoading.IsLoading())

	out := testutil.RunEffects(context.Background(), effects)
	require.Len(t, out.Sent, 1)
	done := out.Sent[0].(FetchMoreDone)
	require.True(t, done.Result.IsOK())
	assert.Equal(t, "from-cursor", env.Network.Requests()[0].LastID)
}

func TestFetchMoreDone_MergesAndCaches(t *testing.T) {
	env := testutil.NewEnv()
	r := newReducer(env)
	s := State{Cursor: paging.NewCursor(0, 50), Galleries: testutil.Galleries(1, 25), FooterLoading: ir.Loading()}

	incoming := append(testutil.Galleries(20, 6), testutil.Galleries(26, 25)...)
	effects := r.Reduce(&s, FetchMoreDone{Result: ir.Ok(testutil.Page(1, 50, incoming))})

	assert.Len(t, s.Galleries, 50)
	assert.True(t, s.FooterLoading.IsIdle())
	assert.False(t, s.Cursor.HasNextPage())

	out := testutil.RunEffects(context.Background(), effects)
	assert.Empty(t, out.Dispatched)
	assert.Len(t, env.Database.CachedGIDs(), 31)
}

func TestFetchMoreDone_AllDuplicatesKeepsLengthAndContinues(t *testing.T) {
	r := newReducer(testutil.NewEnv())
	existing := testutil.Galleries(1, 25)
	s := State{Cursor: paging.NewCursor(0, 100), Galleries: existing, FooterLoading: ir.Loading()}

	page := testutil.Page(1, 100, testutil.Galleries(1, 25))
	page.Cursor.LastID = "g050"
	effects := r.Reduce(&s, FetchMoreDone{Result: ir.Ok(page)})

	assert.Len(t, s.Galleries, 25, "duplicates add nothing")
	assert.Equal(t, "g050", s.Cursor.LastID, "the returned cursor is adopted")

	out := testutil.RunEffects(context.Background(), effects)
	assert.Equal(t, []Action{FetchMore{}}, out.Dispatched)
}

func TestFetchMoreDone_AllDuplicatesOnLastPageStops(t *testing.T) {
	r := newReducer(testutil.NewEnv())
	s := State{Cursor: paging.NewCursor(0, 50), Galleries: testutil.Galleries(1, 25), FooterLoading: ir.Loading()}

	effects := r.Reduce(&s, FetchMoreDone{Result: ir.Ok(testutil.Page(1, 50, testutil.Galleries(1, 3)))})

	out := testutil.RunEffects(context.Background(), effects)
	assert.Empty(t, out.Dispatched)
	assert.Len(t, s.Galleries, 25)
}

func TestFetchMoreDone_AddedItemsClearNotFound(t *testing.T) {
	r := newReducer(testutil.NewEnv())
	s := State{Loading: ir.Failed(ir.ErrNotFound), Cursor: paging.Cursor{LastID: "g010"}, FooterLoading: ir.Loading()}

	r.Reduce(&s, FetchMoreDone{Result: ir.Ok(testutil.OpenPage(testutil.Galleries(11, 5)))})

	assert.True(t, s.Loading.IsIdle())
	assert.Len(t, s.Galleries, 5)
}

func TestFetchMoreDone_FailureOnlyTouchesFooter(t *testing.T) {
	r := newReducer(testutil.NewEnv())
	items := testutil.Galleries(1, 25)
	s := State{Galleries: items, FooterLoading: ir.Loading()}

	r.Reduce(&s, FetchMoreDone{Result: ir.Fail[ir.Page](errors.New("reset by peer"))})

	assert.Equal(t, ir.Failed(ir.ErrNetwork), s.FooterLoading)
	assert.True(t, s.Loading.IsIdle())
	assert.Equal(t, items, s.Galleries)
}

func TestTeardown_CancelsBothKeys(t *testing.T) {
	r := newReducer(testutil.NewEnv())
	s := State{Loading: ir.Loading(), FooterLoading: ir.Loading()}

	effects := r.Reduce(&s, Teardown{})

	out := testutil.RunEffects(context.Background(), effects)
	assert.ElementsMatch(t, []engine.CancelID{engine.Key(RoleFetch), engine.Key(RoleFetchMore)}, out.Cancelled)
	assert.True(t, s.Loading.IsIdle())
	assert.True(t, s.FooterLoading.IsIdle())
}

func TestSetKeyword_IsAPureWrite(t *testing.T) {
	r := newReducer(testutil.NewEnv())
	s := State{}

	assert.Empty(t, r.Reduce(&s, SetKeyword{Keyword: "x"}))
	assert.Equal(t, "x", s.Keyword)
}

func TestNetworkSource_ReadsSavedFilter(t *testing.T) {
	env := testutil.NewEnv()
	saved := ir.Filter{MinimumRating: 4, SearchTags: true}
	require.NoError(t, env.Database.UpdateFilter(context.Background(), ir.FilterRangeWatched, saved))
	env.Network.OnPage(firstPage("k"), testutil.OpenPage(nil))

	source := NetworkSource{Env: env.Client(), Source: client.SourceWatched, Range: ir.FilterRangeWatched}
	_, err := source.Fetch(context.Background(), "k")
	require.NoError(t, err)

	reqs := env.Network.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, saved, reqs[0].Filter)
	assert.False(t, reqs[0].IsMore())
}
