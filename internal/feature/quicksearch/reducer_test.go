package quicksearch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/panda/internal/engine"
	"github.com/roach88/panda/internal/ir"
	"github.com/roach88/panda/internal/testutil"
)

func words(names ...string) []ir.QuickSearchWord {
	out := make([]ir.QuickSearchWord, len(names))
	for i, n := range names {
		out[i] = ir.QuickSearchWord{ID: "id-" + n, Name: n, Content: "tag:" + n}
	}
	return out
}

func names(ws []ir.QuickSearchWord) []string {
	out := make([]string, len(ws))
	for i, w := range ws {
		out[i] = w.Name
	}
	return out
}

func newStore(env *testutil.Env, st State) *engine.Store[State, Action] {
	return engine.NewStore(st, engine.Reducer[State, Action](New(env.Client())), engine.WithSynchronousEffects())
}

func TestFetch_LoadsSavedWords(t *testing.T) {
	env := testutil.NewEnv()
	require.NoError(t, env.Database.UpdateQuickSearchWords(context.Background(), words("a", "b")))

	s := newStore(env, State{})
	s.Send(Fetch{})
	s.Drain()

	st := s.State()
	assert.Equal(t, []string{"a", "b"}, names(st.Words))
	assert.True(t, st.Loading.IsIdle())
}

func TestFetch_GuardedAndCancellable(t *testing.T) {
	r := New(testutil.NewEnv().Client())
	s := State{}

	effects := r.Reduce(&s, Fetch{})
	require.Len(t, effects, 1)
	id, ok := effects[0].ID()
	require.True(t, ok)
	assert.Equal(t, engine.Key(RoleFetch), id)

	assert.Empty(t, r.Reduce(&s, Fetch{}))
}

func TestMutations_SyncAfterEachChange(t *testing.T) {
	env := testutil.NewEnv()
	s := newStore(env, State{Words: words("a", "b", "c")})

	s.Send(SetEditingWord{Word: ir.QuickSearchWord{Name: "d", Content: "tag:d"}})
	s.Send(AppendWord{})
	s.Drain()

	saved, err := env.Database.FetchQuickSearchWords(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d"}, names(saved))
	assert.NotEmpty(t, saved[3].ID, "appended words get an id")

	s.Send(DeleteWord{Word: words("b")[0]})
	s.Drain()
	saved, _ = env.Database.FetchQuickSearchWords(context.Background())
	assert.Equal(t, []string{"a", "c", "d"}, names(saved))
}

func TestAppendWord_SkipsEmptyEditor(t *testing.T) {
	r := New(testutil.NewEnv().Client())
	s := State{}

	assert.Empty(t, r.Reduce(&s, AppendWord{}))
	assert.Empty(t, s.Words)
}

func TestAppendWord_CopyOfSavedWordGetsNewID(t *testing.T) {
	r := New(testutil.NewEnv().Client())
	s := State{Words: words("a", "b")}

	r.Reduce(&s, SetEditingWord{Word: s.Words[0]})
	r.Reduce(&s, AppendWord{})

	require.Len(t, s.Words, 3)
	assert.Equal(t, "a", s.Words[2].Name)
	assert.NotEqual(t, "id-a", s.Words[2].ID)
	assert.NotEmpty(t, s.Words[2].ID)
}

func TestAppendWord_KeepsUnusedID(t *testing.T) {
	r := New(testutil.NewEnv().Client())
	s := State{Words: words("a")}

	r.Reduce(&s, SetEditingWord{Word: ir.QuickSearchWord{ID: "w9", Name: "z"}})
	r.Reduce(&s, AppendWord{})

	assert.Equal(t, "w9", s.Words[1].ID)
}

func TestFetchDone_DropsDuplicateIDs(t *testing.T) {
	r := New(testutil.NewEnv().Client())
	s := State{}
	saved := append(words("a", "b"), words("a")...)

	r.Reduce(&s, FetchDone{Result: ir.Ok(saved)})

	assert.Equal(t, []string{"a", "b"}, names(s.Words))
}

func TestEditWord_ReplacesByID(t *testing.T) {
	r := New(testutil.NewEnv().Client())
	s := State{Words: words("a", "b")}

	edited := s.Words[1]
	edited.Content = "artist:b"
	r.Reduce(&s, SetEditingWord{Word: edited})
	effects := r.Reduce(&s, EditWord{})

	assert.Equal(t, "artist:b", s.Words[1].Content)
	assert.Len(t, effects, 1)

	r.Reduce(&s, SetEditingWord{Word: ir.QuickSearchWord{ID: "missing", Name: "x"}})
	assert.Empty(t, r.Reduce(&s, EditWord{}), "unknown ids change nothing")
}

func TestDeleteWordsAt(t *testing.T) {
	r := New(testutil.NewEnv().Client())
	s := State{Words: words("a", "b", "c", "d")}

	r.Reduce(&s, DeleteWordsAt{Offsets: []int{3, 1, 1, 9}})

	assert.Equal(t, []string{"a", "c"}, names(s.Words))
}

func TestMoveWords(t *testing.T) {
	tests := []struct {
		name    string
		offsets []int
		dest    int
		want    []string
	}{
		{"first to end", []int{0}, 4, []string{"b", "c", "d", "a"}},
		{"last to front", []int{3}, 0, []string{"d", "a", "b", "c"}},
		{"down one", []int{0}, 2, []string{"b", "a", "c", "d"}},
		{"up one", []int{2}, 1, []string{"a", "c", "b", "d"}},
		{"several keep order", []int{0, 2}, 4, []string{"b", "d", "a", "c"}},
		{"onto itself", []int{1}, 1, []string{"a", "b", "c", "d"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := moveOffsets(words("a", "b", "c", "d"), tt.offsets, tt.dest)
			assert.Equal(t, tt.want, names(got))
		})
	}
}

func TestSetNavigation_ClearResetsEditor(t *testing.T) {
	r := New(testutil.NewEnv().Client())
	s := State{}

	r.Reduce(&s, SetNavigation{Route: &Route{Kind: RouteNewWord}})
	r.Reduce(&s, SetFocus{Field: FocusName})
	r.Reduce(&s, SetEditingWord{Word: ir.QuickSearchWord{Name: "half"}})
	assert.Empty(t, r.Reduce(&s, SetNavigation{}))

	assert.Nil(t, s.Route)
	assert.Equal(t, FocusNone, s.FocusedField)
	assert.True(t, s.EditingWord.IsEmpty())
}

func TestToggleListEditing(t *testing.T) {
	r := New(testutil.NewEnv().Client())
	s := State{}

	r.Reduce(&s, ToggleListEditing{})
	assert.True(t, s.ListEditing)
	r.Reduce(&s, ToggleListEditing{})
	assert.False(t, s.ListEditing)
}

func TestVisibleWords_FuzzyFilter(t *testing.T) {
	s := State{Words: []ir.QuickSearchWord{
		{ID: "1", Name: "Chinese Translated", Content: "language:chinese"},
		{ID: "2", Name: "Full Color", Content: "other:full color"},
		{ID: "3", Name: "Artist", Content: "artist:someone"},
	}}

	assert.Len(t, s.VisibleWords(), 3)

	s.FilterText = "chn"
	assert.Equal(t, []string{"Chinese Translated"}, names(s.VisibleWords()))

	s.FilterText = "FULL"
	assert.Equal(t, []string{"Full Color"}, names(s.VisibleWords()))
}
