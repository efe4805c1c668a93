package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type childState struct {
	Count int
}

type childAction string

type parentState struct {
	Child   childState
	Nested  *childState
	Touched bool
}

type parentAction interface{ isParentAction() }

type toChild struct{ Action childAction }
type toNested struct{ Action childAction }
type touch struct{}

func (toChild) isParentAction()  {}
func (toNested) isParentAction() {}
func (touch) isParentAction()    {}

func (a toChild) Unwrap() any { return a.Action }

var childReducer = ReducerFunc[childState, childAction](func(s *childState, a childAction) []Effect[childAction] {
	switch a {
	case "inc":
		s.Count++
		return nil
	case "load":
		return Effects(
			Task(func(context.Context) childAction { return "inc" }).Cancellable(Key("load"), true),
			Dispatch[childAction]("inc"),
		)
	case "teardown":
		return Effects(CancelScope[childAction](""), Cancel[childAction](Key("load")))
	}
	return nil
})

func parentReducer() Reducer[parentState, parentAction] {
	return Combine[parentState, parentAction](
		Scope("child",
			func(s *parentState) *childState { return &s.Child },
			func(a parentAction) (childAction, bool) {
				c, ok := a.(toChild)
				return c.Action, ok
			},
			func(c childAction) parentAction { return toChild{Action: c} },
			childReducer,
		),
		Scope("nested",
			func(s *parentState) *childState { return s.Nested },
			func(a parentAction) (childAction, bool) {
				c, ok := a.(toNested)
				return c.Action, ok
			},
			func(c childAction) parentAction { return toNested{Action: c} },
			childReducer,
		),
		ReducerFunc[parentState, parentAction](func(s *parentState, a parentAction) []Effect[parentAction] {
			if _, ok := a.(touch); ok {
				s.Touched = true
			}
			return nil
		}),
	)
}

func TestScope_ForwardsOnlyMatchingActions(t *testing.T) {
	r := parentReducer()
	var s parentState

	effects := r.Reduce(&s, toChild{Action: "inc"})
	assert.Empty(t, effects)
	assert.Equal(t, 1, s.Child.Count)
	assert.False(t, s.Touched)

	r.Reduce(&s, touch{})
	assert.True(t, s.Touched)
	assert.Equal(t, 1, s.Child.Count)
}

func TestScope_NilChildDropsAction(t *testing.T) {
	r := parentReducer()
	var s parentState

	effects := r.Reduce(&s, toNested{Action: "load"})
	assert.Empty(t, effects)
	assert.Nil(t, s.Nested)

	s.Nested = &childState{}
	r.Reduce(&s, toNested{Action: "inc"})
	assert.Equal(t, 1, s.Nested.Count)
}

func TestScope_RetagsCancelKeys(t *testing.T) {
	r := parentReducer()
	s := parentState{Nested: &childState{}}

	childEffects := r.Reduce(&s, toChild{Action: "load"})
	nestedEffects := r.Reduce(&s, toNested{Action: "load"})
	require.Len(t, childEffects, 2)
	require.Len(t, nestedEffects, 2)

	id1, ok := childEffects[0].ID()
	require.True(t, ok)
	id2, ok := nestedEffects[0].ID()
	require.True(t, ok)

	assert.Equal(t, CancelID{Scope: "child", Role: "load"}, id1)
	assert.Equal(t, CancelID{Scope: "nested", Role: "load"}, id2)
	assert.NotEqual(t, id1, id2, "sibling instances must not share cancel keys")
	assert.True(t, childEffects[0].CancelsInFlight())

	// Dispatched actions are wrapped into the parent action space.
	assert.Equal(t, EffectDispatch, childEffects[1].Kind())
	assert.Equal(t, toChild{Action: "inc"}, childEffects[1].Action())
}

func TestScope_RetagsCancelScopes(t *testing.T) {
	r := parentReducer()
	var s parentState

	effects := r.Reduce(&s, toChild{Action: "teardown"})
	require.Len(t, effects, 2)

	assert.Equal(t, EffectCancelScope, effects[0].Kind())
	assert.Equal(t, "child", effects[0].Scope())
	assert.Equal(t, []CancelID{{Scope: "child", Role: "load"}}, effects[1].CancelIDs())
}

func TestScope_WrapsSentActions(t *testing.T) {
	r := parentReducer()
	var s parentState

	effects := r.Reduce(&s, toChild{Action: "load"})
	var sent []parentAction
	require.NoError(t, effects[0].Execute(context.Background(), func(a parentAction) {
		sent = append(sent, a)
	}))
	assert.Equal(t, []parentAction{toChild{Action: "inc"}}, sent)
}

func TestMapEffects_NestedScopesCompose(t *testing.T) {
	inner := []Effect[string]{Fire[string](func(context.Context) error { return nil }).Cancellable(Key("cache"), false)}

	mid := MapEffects(inner, "detail", func(s string) string { return s })
	outer := MapEffects(mid, "watched", func(s string) string { return s })

	id, ok := outer[0].ID()
	require.True(t, ok)
	assert.Equal(t, "watched/detail", id.Scope)
	assert.True(t, id.InScope("watched"))
	assert.True(t, id.InScope("watched/detail"))
	assert.False(t, id.InScope("watched/det"))
	assert.Nil(t, MapEffects[string, string](nil, "x", nil))
}

func TestCancelID_InScope(t *testing.T) {
	id := CancelID{Scope: "app/search/detail", Role: "fetch"}

	assert.True(t, id.InScope(""))
	assert.True(t, id.InScope("app"))
	assert.True(t, id.InScope("app/search/detail"))
	assert.False(t, id.InScope("app/searc"))
	assert.False(t, id.InScope("app/watched"))
	assert.Equal(t, "app/search/detail#fetch", id.String())
	assert.Equal(t, "#fetch", Key("fetch").String())
}

func TestJoinScope(t *testing.T) {
	assert.Equal(t, "a/b", JoinScope("a", "b"))
	assert.Equal(t, "a", JoinScope("a", ""))
	assert.Equal(t, "b", JoinScope("", "b"))
	assert.Equal(t, "", JoinScope("", ""))
}

func TestEffect_Describe(t *testing.T) {
	assert.Equal(t, "run(#fetch)", Run[string](nil).Cancellable(Key("fetch"), false).Describe())
	assert.Equal(t, "fire(cache)", Fire[string](nil).Named("cache").Describe())
	assert.Equal(t, "cancel_scope(watched/detail)", CancelScope[string]("watched/detail").Describe())
	assert.Equal(t, "cancel(#a,x#b)", Cancel[string](Key("a"), CancelID{Scope: "x", Role: "b"}).Describe())
	assert.Equal(t, "dispatch(engine.childAction)", Dispatch[any](childAction("x")).Describe())
}

func TestDescribe_FollowsWrappers(t *testing.T) {
	assert.Equal(t, "engine.toChild/engine.childAction", Describe(toChild{Action: "inc"}))
	assert.Equal(t, "engine.touch", Describe(touch{}))
	assert.Equal(t, "engine.touch", Describe(&touch{}))
	assert.Equal(t, "", Describe(nil))
}

func TestCombine_ConcatenatesEffectsInOrder(t *testing.T) {
	first := ReducerFunc[int, string](func(n *int, _ string) []Effect[string] {
		*n++
		return Effects(Dispatch("one"))
	})
	second := ReducerFunc[int, string](func(n *int, _ string) []Effect[string] {
		*n *= 10
		return Effects(Dispatch("two"))
	})

	n := 1
	effects := Combine[int, string](first, second).Reduce(&n, "go")

	assert.Equal(t, 20, n)
	require.Len(t, effects, 2)
	assert.Equal(t, "one", effects[0].Action())
	assert.Equal(t, "two", effects[1].Action())
	assert.Nil(t, None[string]())
}
