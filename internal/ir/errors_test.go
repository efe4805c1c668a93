package ir

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	assert.Nil(t, Classify(nil))

	ae := Classify(errors.New("connection reset"))
	require.NotNil(t, ae)
	assert.Equal(t, ErrNetwork, ae.Kind)

	ae = Classify(fmt.Errorf("fetch: %w", context.Canceled))
	assert.Equal(t, ErrCancelled, ae.Kind)

	parse := NewError(ErrParse, errors.New("bad html"))
	ae = Classify(fmt.Errorf("wrapped: %w", parse))
	assert.Same(t, parse, ae)
}

func TestIsKind(t *testing.T) {
	assert.True(t, IsKind(NewError(ErrNotFound, nil), ErrNotFound))
	assert.False(t, IsKind(nil, ErrNetwork))
	assert.True(t, IsKind(context.Canceled, ErrCancelled))
}

func TestAppErrorMessage(t *testing.T) {
	assert.Equal(t, "not_found", NewError(ErrNotFound, nil).Error())
	assert.Equal(t, "parse: bad", NewError(ErrParse, errors.New("bad")).Error())
}

func TestParseErrorKind(t *testing.T) {
	k, err := ParseErrorKind("parse")
	require.NoError(t, err)
	assert.Equal(t, ErrParse, k)

	_, err = ParseErrorKind("boom")
	require.Error(t, err)
}

func TestLoadingState(t *testing.T) {
	var zero LoadingState
	assert.True(t, zero.IsIdle())
	assert.Equal(t, "idle", zero.String())

	assert.True(t, Loading().IsLoading())
	assert.False(t, Loading().IsIdle())

	f := Failed(ErrNotFound)
	assert.True(t, f.IsFailed())
	assert.Equal(t, "failed(not_found)", f.String())
}

func TestFromError(t *testing.T) {
	assert.Equal(t, Idle(), FromError(context.Canceled))
	assert.Equal(t, Idle(), FromError(nil))
	assert.Equal(t, Failed(ErrNetwork), FromError(errors.New("timeout")))
	assert.Equal(t, Failed(ErrParse), FromError(NewError(ErrParse, nil)))
}

func TestResult(t *testing.T) {
	ok := ResultOf(3, nil)
	assert.True(t, ok.IsOK())
	assert.Equal(t, 3, ok.Value)

	bad := ResultOf(0, errors.New("x"))
	assert.False(t, bad.IsOK())
	assert.True(t, IsKind(bad.Err, ErrNetwork))

	assert.True(t, Fail[int](nil).IsOK())
}
