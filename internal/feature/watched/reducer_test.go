package watched

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/panda/internal/client"
	"github.com/roach88/panda/internal/engine"
	"github.com/roach88/panda/internal/feature/detail"
	"github.com/roach88/panda/internal/feature/filters"
	"github.com/roach88/panda/internal/feature/gallerylist"
	"github.com/roach88/panda/internal/feature/quicksearch"
	"github.com/roach88/panda/internal/ir"
	"github.com/roach88/panda/internal/testutil"
)

func watchedPage(lastID string) testutil.PageKey {
	return testutil.PageKey{Source: client.SourceWatched, LastID: lastID}
}

func newStore(env *testutil.Env, opts ...engine.StoreOption) *engine.Store[State, Action] {
	return engine.NewStore(NewState(), engine.Reducer[State, Action](New(env.Client())), opts...)
}

func TestList_FetchUsesWatchedFilter(t *testing.T) {
	env := testutil.NewEnv()
	f := ir.Filter{MinimumRating: 6}
	require.NoError(t, env.Database.UpdateFilter(context.Background(), ir.FilterRangeWatched, f))
	env.Network.OnPage(watchedPage(""), testutil.Page(0, 25, testutil.Galleries(1, 25)))

	s := newStore(env, engine.WithSynchronousEffects())
	s.Send(List{Action: gallerylist.Fetch{}})
	s.Drain()

	assert.Len(t, s.State().List.Galleries, 25)
	reqs := env.Network.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, client.SourceWatched, reqs[0].Source)
	assert.Equal(t, f, reqs[0].Filter)
}

func TestSetNavigation_FiltersFiresHapticOnce(t *testing.T) {
	env := testutil.NewEnv()
	s := newStore(env, engine.WithSynchronousEffects())

	s.Send(SetNavigation{Route: &Route{Kind: RouteFilters}})
	s.Send(SetNavigation{Route: &Route{Kind: RouteFilters}})
	s.Send(SetNavigation{Route: &Route{Kind: RouteQuickSearch}})
	s.Drain()

	assert.Equal(t, []client.Feedback{client.FeedbackLight, client.FeedbackLight}, env.Haptics.Feedback())
	assert.Equal(t, RouteQuickSearch, s.State().Route.Kind)
}

func TestSetNavigation_DetailAllocatesChild(t *testing.T) {
	r := New(testutil.NewEnv().Client())
	s := NewState()

	assert.Empty(t, r.Reduce(&s, SetNavigation{Route: &Route{Kind: RouteDetail, GID: "g7"}}))
	require.NotNil(t, s.Detail)
	assert.Equal(t, "g7", s.Detail.GID)

	effects := r.Reduce(&s, SetNavigation{Route: &Route{Kind: RouteDetail, GID: "g8"}})
	out := testutil.RunEffects(context.Background(), effects)
	assert.Equal(t, []string{ScopeDetail}, out.Scopes, "the replaced detail's work is cancelled")
	assert.Equal(t, "g8", s.Detail.GID)
}

func TestDetail_DroppedWhenNotPresented(t *testing.T) {
	r := New(testutil.NewEnv().Client())
	s := NewState()

	assert.Empty(t, r.Reduce(&s, Detail{Action: detail.Fetch{GID: "g1"}}))
	assert.Nil(t, s.Detail)
}

func TestSetNavigation_NilResetsEveryChild(t *testing.T) {
	r := New(testutil.NewEnv().Client())
	s := NewState()
	r.Reduce(&s, SetNavigation{Route: &Route{Kind: RouteDetail, GID: "g7"}})
	s.Filters.Route = filters.RouteResetConfirm
	s.QuickSearch.FocusedField = quicksearch.FocusName

	out := testutil.RunEffects(context.Background(), r.Reduce(&s, SetNavigation{}))

	assert.Nil(t, s.Route)
	assert.Nil(t, s.Detail)
	assert.Equal(t, filters.NewState(ir.FilterRangeWatched), s.Filters)
	assert.Equal(t, quicksearch.State{}, s.QuickSearch)
	assert.Empty(t, out.Dispatched)
	assert.ElementsMatch(t, []string{ScopeDetail, ScopeFilters, ScopeQuickSearch}, out.Scopes)
}

func TestClearSubStates_ResetsEveryChild(t *testing.T) {
	r := New(testutil.NewEnv().Client())
	s := NewState()
	r.Reduce(&s, SetNavigation{Route: &Route{Kind: RouteDetail, GID: "g7"}})
	s.QuickSearch.FocusedField = quicksearch.FocusName

	out := testutil.RunEffects(context.Background(), r.Reduce(&s, ClearSubStates{}))

	assert.Nil(t, s.Detail)
	assert.Equal(t, quicksearch.State{}, s.QuickSearch)
	assert.ElementsMatch(t, []string{ScopeDetail, ScopeFilters, ScopeQuickSearch}, out.Scopes)
}

func TestSetNavigation_ReplacingRouteClearsPreviousChild(t *testing.T) {
	r := New(testutil.NewEnv().Client())
	s := NewState()
	r.Reduce(&s, SetNavigation{Route: &Route{Kind: RouteDetail, GID: "g7"}})

	out := testutil.RunEffects(context.Background(), r.Reduce(&s, SetNavigation{Route: &Route{Kind: RouteFilters}}))
	assert.Nil(t, s.Detail)
	assert.Equal(t, []string{ScopeDetail}, out.Scopes)

	s.Filters.Route = filters.RouteResetConfirm
	out = testutil.RunEffects(context.Background(), r.Reduce(&s, SetNavigation{Route: &Route{Kind: RouteQuickSearch}}))
	assert.Equal(t, filters.NewState(ir.FilterRangeWatched), s.Filters)
	assert.Equal(t, []string{ScopeFilters}, out.Scopes)
}

func TestSetNavigation_ReplacedDetailDropsLateCompletion(t *testing.T) {
	env := testutil.NewEnv()
	env.Network.OnDetail("g7", ir.GalleryDetail{Gallery: testutil.Galleries(7, 1)[0]}, nil)
	s := newStore(env, engine.WithSynchronousEffects())

	s.Send(SetNavigation{Route: &Route{Kind: RouteDetail, GID: "g7"}})
	s.Drain()

	s.Send(Detail{Action: detail.Fetch{}})
	s.Send(SetNavigation{Route: &Route{Kind: RouteFilters}})
	s.Drain()

	st := s.State()
	assert.Equal(t, RouteFilters, st.Route.Kind)
	assert.Nil(t, st.Detail)
	assert.Empty(t, env.Database.CachedGIDs())
}

func TestClearSubStates_DiscardsDetailCompletion(t *testing.T) {
	env := testutil.NewEnv()
	env.Network.OnDetail("g7", ir.GalleryDetail{Gallery: testutil.Galleries(7, 1)[0]}, nil)
	s := newStore(env, engine.WithSynchronousEffects())

	s.Send(SetNavigation{Route: &Route{Kind: RouteDetail, GID: "g7"}})
	s.Drain()

	// The fetch resolves inline; its completion queues behind the clear.
	s.Send(Detail{Action: detail.Fetch{}})
	s.Send(ClearSubStates{})
	s.Drain()

	assert.Nil(t, s.State().Detail)
	assert.Empty(t, env.Database.CachedGIDs(), "the discarded detail is never cached")
}

func TestSetNavigation_ClearLeavesNoDetail(t *testing.T) {
	env := testutil.NewEnv()
	env.Network.OnDetail("g7", ir.GalleryDetail{Gallery: testutil.Galleries(7, 1)[0]}, nil)
	s := newStore(env, engine.WithSynchronousEffects())

	s.Send(SetNavigation{Route: &Route{Kind: RouteDetail, GID: "g7"}})
	s.Send(Detail{Action: detail.Fetch{}})
	s.Send(SetNavigation{})
	s.Drain()

	st := s.State()
	assert.Nil(t, st.Route)
	assert.Nil(t, st.Detail)
}

func TestTeardown_CancelsListFetch(t *testing.T) {
	env := testutil.NewEnv()
	env.Network.OnPage(watchedPage(""), testutil.Page(0, 25, testutil.Galleries(1, 25)))
	release := env.Network.Block(watchedPage(""))
	defer release()

	s := newStore(env)
	testutil.RunStore(t, s)

	s.Send(List{Action: gallerylist.Fetch{}})
	require.Eventually(t, func() bool { return len(env.Network.Requests()) == 1 }, time.Second, time.Millisecond)
	s.Send(Teardown{})
	testutil.Settle(t, s)

	st := s.State()
	assert.Empty(t, st.List.Galleries)
	assert.True(t, st.List.Loading.IsIdle())
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "watched.List/gallerylist.FetchMore", engine.Describe(List{Action: gallerylist.FetchMore{}}))
}

func TestClone_DetachesDetail(t *testing.T) {
	s := NewState()
	s.Detail = &detail.State{GID: "g1"}

	c := s.Clone()
	c.Detail.GID = "g2"

	assert.Equal(t, "g1", s.Detail.GID)
}
