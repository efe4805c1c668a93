package filters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/panda/internal/engine"
	"github.com/roach88/panda/internal/ir"
	"github.com/roach88/panda/internal/testutil"
)

func TestFetch_LoadsEveryRange(t *testing.T) {
	env := testutil.NewEnv()
	watched := ir.Filter{MinimumRating: 6, SearchTags: true}
	require.NoError(t, env.Database.UpdateFilter(context.Background(), ir.FilterRangeWatched, watched))

	s := engine.NewStore(NewState(ir.FilterRangeWatched), engine.Reducer[State, Action](New(env.Client())), engine.WithSynchronousEffects())
	s.Send(Fetch{})
	s.Drain()

	st := s.State()
	assert.True(t, st.Loading.IsIdle())
	assert.Equal(t, watched, st.Current())
	assert.Equal(t, ir.DefaultFilter(), st.Filters.Search)
}

func TestFetch_GuardedWhileLoading(t *testing.T) {
	r := New(testutil.NewEnv().Client())
	s := NewState(ir.FilterRangeSearch)

	require.NotEmpty(t, r.Reduce(&s, Fetch{}))
	assert.Empty(t, r.Reduce(&s, Fetch{}))
}

func TestSetFilter_SyncsToDatabase(t *testing.T) {
	env := testutil.NewEnv()
	s := engine.NewStore(NewState(ir.FilterRangeSearch), engine.Reducer[State, Action](New(env.Client())), engine.WithSynchronousEffects())

	f := ir.Filter{ExcludedCategories: []ir.Category{ir.CategoryManga}, SearchName: true}
	s.Send(SetFilter{Range: ir.FilterRangeGlobal, Filter: f})
	s.Drain()

	saved, err := env.Database.FetchFilter(context.Background(), ir.FilterRangeGlobal)
	require.NoError(t, err)
	assert.Equal(t, f, saved)
	assert.Equal(t, f, s.State().Filters.Global)
}

func TestReset_RestoresDefaultAndClearsRoute(t *testing.T) {
	env := testutil.NewEnv()
	st := NewState(ir.FilterRangeSearch)
	st.Filters.Search = ir.Filter{MinimumRating: 8}
	st.Route = RouteResetConfirm

	s := engine.NewStore(st, engine.Reducer[State, Action](New(env.Client())), engine.WithSynchronousEffects())
	s.Send(Reset{})
	s.Drain()

	got := s.State()
	assert.Empty(t, got.Route)
	assert.Equal(t, ir.DefaultFilter(), got.Current())

	saved, err := env.Database.FetchFilter(context.Background(), ir.FilterRangeSearch)
	require.NoError(t, err)
	assert.Equal(t, ir.DefaultFilter(), saved)
}

func TestSet_GetPut(t *testing.T) {
	set := DefaultSet()
	f := ir.Filter{ShowExpunged: true}

	set.Put(ir.FilterRangeWatched, f)

	assert.Equal(t, f, set.Get(ir.FilterRangeWatched))
	assert.Equal(t, ir.DefaultFilter(), set.Get(ir.FilterRangeGlobal))
}
