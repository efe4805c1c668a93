package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/roach88/panda/internal/engine"
)

// RunStore runs s on a goroutine until the test ends.
func RunStore[S, A any](t *testing.T, s *engine.Store[S, A]) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = s.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
}

// Settle waits up to two seconds for s to go quiet.
func Settle[S, A any](t *testing.T, s *engine.Store[S, A]) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.Settle(ctx))
}
