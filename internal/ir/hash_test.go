package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDigestDeterminism(t *testing.T) {
	v := map[string]any{"gid": "1", "pages": 20}

	d1, err := Digest(DomainState, v)
	require.NoError(t, err)
	d2, err := Digest(DomainState, map[string]any{"pages": 20, "gid": "1"})
	require.NoError(t, err)

	assert.Equal(t, d1, d2, "key order must not affect the digest")
	assert.Len(t, d1, 64, "SHA-256 hex is 64 characters")
}

func TestDigestDomainSeparation(t *testing.T) {
	v := map[string]any{"gid": "1"}

	assert.NotEqual(t, MustDigest(DomainState, v), MustDigest(DomainTrace, v))
}

func TestDigestChangesWithInput(t *testing.T) {
	a := MustDigest(DomainState, Gallery{GID: "1", Title: "a"})
	b := MustDigest(DomainState, Gallery{GID: "1", Title: "b"})
	assert.NotEqual(t, a, b)
}

func TestDigestRejectsFloats(t *testing.T) {
	_, err := Digest(DomainState, 0.5)
	require.Error(t, err)

	assert.Panics(t, func() { MustDigest(DomainState, 0.5) })
}
