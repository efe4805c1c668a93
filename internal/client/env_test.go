package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvWithDefaults(t *testing.T) {
	env := Env{}.WithDefaults()

	assert.IsType(t, NoopClipboard{}, env.Clipboard)
	assert.IsType(t, LogHaptics{}, env.Haptics)
	assert.Equal(t, "zh-Hans", env.Language)
	require.NoError(t, env.Haptics.Generate(FeedbackSuccess))
	require.NoError(t, env.Clipboard.Copy("x"))
}

func TestEnvValidate(t *testing.T) {
	err := Env{}.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingCollaborator)
	assert.Contains(t, err.Error(), "network")
}

func TestParseSource(t *testing.T) {
	s, err := ParseSource("associated")
	require.NoError(t, err)
	assert.Equal(t, SourceAssociated, s)

	_, err = ParseSource("popular")
	require.Error(t, err)

	assert.False(t, PageRequest{}.IsMore())
	assert.True(t, PageRequest{LastID: "9"}.IsMore())
}
