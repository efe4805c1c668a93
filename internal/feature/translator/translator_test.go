package translator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/panda/internal/engine"
	"github.com/roach88/panda/internal/ir"
	"github.com/roach88/panda/internal/testutil"
)

const database = `[
  {"namespace": "artist", "data": {"foo": {"name": "Foo Zh", "intro": "an artist", "links": ""}}},
  {"namespace": "female", "data": {"glasses": {"name": "眼镜", "intro": "", "links": ""}, "Big Hat": {"name": "大帽子", "intro": "", "links": ""}}},
  {"namespace": "rows", "data": {"x": {"name": "ignored", "intro": "", "links": ""}}}
]`

func newStore(env *testutil.Env) *engine.Store[State, Action] {
	c := env.Client()
	return engine.NewStore(NewState(c), engine.Reducer[State, Action](New(c)), engine.WithSynchronousEffects())
}

func TestFetch_DecodesFlattensAndCaches(t *testing.T) {
	env := testutil.NewEnv()
	env.Network.OnTranslations("zh-Hans", []byte(database), nil)

	s := newStore(env)
	s.Send(Fetch{})
	s.Drain()

	st := s.State()
	assert.Equal(t, 3, st.Count, "unknown namespaces are dropped")
	assert.Equal(t, "眼镜", st.Translator.Translate(ir.Tag{Namespace: ir.NamespaceFemale, Content: "glasses"}))
	assert.Equal(t, "大帽子", st.Translator.Translate(ir.Tag{Namespace: ir.NamespaceFemale, Content: "big hat"}))

	cached, err := env.Database.FetchTagTranslations(context.Background(), "zh-Hans")
	require.NoError(t, err)
	assert.Len(t, cached, 3)
}

func TestFetch_MalformedIsParseError(t *testing.T) {
	env := testutil.NewEnv()
	env.Network.OnTranslations("zh-Hans", []byte(`{not json`), nil)

	s := newStore(env)
	s.Send(Fetch{})
	s.Drain()

	assert.Equal(t, ir.Failed(ir.ErrParse), s.State().Loading)
	assert.Zero(t, s.State().Count)
}

func TestLoad_FromCache(t *testing.T) {
	env := testutil.NewEnv()
	require.NoError(t, env.Database.SaveTagTranslations(context.Background(), "zh-Hans", []ir.TagTranslation{
		{Namespace: ir.NamespaceArtist, Key: "foo", Value: "Foo Zh"},
	}))

	s := newStore(env)
	s.Send(Load{})
	s.Drain()

	st := s.State()
	assert.Equal(t, 1, st.Count)
	assert.Equal(t, "Foo Zh", st.Translator.Translate(ir.Tag{Namespace: ir.NamespaceArtist, Content: "FOO"}))
	assert.Empty(t, env.Network.Calls())
}

func TestFetch_GuardedWhileLoading(t *testing.T) {
	r := New(testutil.NewEnv().Client())
	s := State{Language: "zh-Hans"}

	require.NotEmpty(t, r.Reduce(&s, Load{}))
	assert.Empty(t, r.Reduce(&s, Fetch{}))
}
