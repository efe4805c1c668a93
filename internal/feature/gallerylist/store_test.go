package gallerylist

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/panda/internal/engine"
	"github.com/roach88/panda/internal/ir"
	"github.com/roach88/panda/internal/testutil"
)

func TestStore_TwoPagesOfTwentyFive(t *testing.T) {
	env := testutil.NewEnv()
	env.Network.
		OnPage(firstPage(""), testutil.Page(0, 50, testutil.Galleries(1, 25))).
		OnPage(morePage("", "g025"), testutil.Page(1, 50, testutil.Galleries(26, 25)))

	s := engine.NewStore(State{}, engine.Reducer[State, Action](newReducer(env)), engine.WithSynchronousEffects())
	s.Send(Fetch{})
	s.Drain()
	s.Send(FetchMore{})
	s.Drain()

	st := s.State()
	require.Len(t, st.Galleries, 50)
	assert.Equal(t, "g001", st.Galleries[0].GID)
	assert.Equal(t, "g050", st.Galleries[49].GID)
	assert.False(t, st.Cursor.HasNextPage())
	assert.True(t, st.Loading.IsIdle())
	assert.True(t, st.FooterLoading.IsIdle())

	// No further page exists, so another "more" issues no request.
	s.Send(FetchMore{})
	s.Drain()
	assert.Len(t, env.Network.Requests(), 2)
}

func TestStore_EmptyFirstPageHealsItself(t *testing.T) {
	env := testutil.NewEnv()
	empty := testutil.OpenPage(nil)
	empty.Cursor.LastID = "g010"
	env.Network.
		OnPage(firstPage(""), empty).
		OnPage(morePage("", "g010"), testutil.Page(1, 20, testutil.Galleries(11, 10)))

	s := engine.NewStore(State{}, engine.Reducer[State, Action](newReducer(env)), engine.WithSynchronousEffects())
	s.Send(Fetch{})
	s.Drain()

	st := s.State()
	assert.Len(t, st.Galleries, 10)
	assert.True(t, st.Loading.IsIdle(), "a page with items clears not_found")
	assert.Len(t, env.Network.Requests(), 2, "exactly one follow-up request")
}

func TestStore_TeardownDiscardsLateCompletion(t *testing.T) {
	env := testutil.NewEnv()
	env.Network.OnPage(firstPage(""), testutil.Page(0, 25, testutil.Galleries(1, 25)))
	release := env.Network.Block(firstPage(""))
	defer release()

	s := engine.NewStore(State{}, engine.Reducer[State, Action](newReducer(env)))
	testutil.RunStore(t, s)

	s.Send(Fetch{})
	require.Eventually(t, func() bool { return len(env.Network.Requests()) == 1 }, time.Second, time.Millisecond)

	s.Send(Teardown{})
	release()
	testutil.Settle(t, s)

	st := s.State()
	assert.Empty(t, st.Galleries, "the cancelled fetch never lands")
	assert.True(t, st.Loading.IsIdle())
	assert.Empty(t, env.Database.CachedGIDs())
}

func TestStore_AtMostOneFetchInFlight(t *testing.T) {
	env := testutil.NewEnv()
	env.Network.OnPage(firstPage(""), testutil.Page(0, 25, testutil.Galleries(1, 25)))
	release := env.Network.Block(firstPage(""))

	s := engine.NewStore(State{}, engine.Reducer[State, Action](newReducer(env)))
	testutil.RunStore(t, s)

	for i := 0; i < 5; i++ {
		s.Send(Fetch{})
	}
	require.Eventually(t, func() bool { return s.State().Loading.IsLoading() }, time.Second, time.Millisecond)
	release()
	testutil.Settle(t, s)

	assert.Len(t, env.Network.Requests(), 1)
	assert.Len(t, s.State().Galleries, 25)
}

func TestStore_CacheFailureIsSwallowed(t *testing.T) {
	env := testutil.NewEnv()
	env.Database.FailWrites = assert.AnError
	env.Network.OnPage(firstPage(""), testutil.Page(0, 25, testutil.Galleries(1, 25)))

	s := engine.NewStore(State{}, engine.Reducer[State, Action](newReducer(env)), engine.WithSynchronousEffects())
	s.Send(Fetch{})
	s.Drain()

	st := s.State()
	assert.Len(t, st.Galleries, 25)
	assert.Equal(t, ir.Idle(), st.Loading)
}
