package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/panda/internal/ir"
	"github.com/roach88/panda/internal/store"
)

// seedCache writes n galleries and the given history to a fresh on-disk
// cache and returns its path.
func seedCache(t *testing.T, n int, history ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cache.db")
	st, err := store.Open(path, store.WithNow(func() time.Time { return time.Now().Add(-2 * time.Hour) }))
	require.NoError(t, err)
	defer st.Close()

	ctx := context.Background()
	galleries := make([]ir.Gallery, n)
	for i := range galleries {
		galleries[i] = ir.Gallery{
			GID:       fmt.Sprintf("g%03d", i),
			Title:     fmt.Sprintf("Gallery %d", i),
			PageCount: 1500 + i,
			Rating:    9,
		}
	}
	require.NoError(t, st.CacheGalleries(ctx, galleries))
	for _, k := range history {
		require.NoError(t, st.AppendHistoryKeyword(ctx, k))
	}
	return path
}

func TestCacheGalleriesText(t *testing.T) {
	db := seedCache(t, 3)

	out, err := execute(t, NewCacheCommand(textOpts()), "galleries", "--db", db, "--limit", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "3 cached galleries, showing 2 most recent:")
	assert.Contains(t, out, "g000")
	assert.Contains(t, out, "g001")
	assert.NotContains(t, out, "g002")
	assert.Contains(t, out, "2 hours ago")
	assert.Contains(t, out, "1,500 pages")
	assert.Contains(t, out, "4.5★")
}

func TestCacheGalleriesJSON(t *testing.T) {
	db := seedCache(t, 2)

	out, err := execute(t, NewCacheCommand(jsonOpts()), "galleries", "--db", db)
	require.NoError(t, err)

	var resp struct {
		Status string         `json:"status"`
		Data   GalleryListing `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, 2, resp.Data.Total)
	require.Len(t, resp.Data.Galleries, 2)
	assert.Equal(t, "g000", resp.Data.Galleries[0].GID)
	assert.Equal(t, 1500, resp.Data.Galleries[0].PageCount)
	assert.False(t, resp.Data.Galleries[0].CachedAt.IsZero())
}

func TestCacheGalleriesEmpty(t *testing.T) {
	out, err := execute(t, NewCacheCommand(textOpts()), "galleries", "--db", ":memory:")
	require.NoError(t, err)
	assert.Equal(t, "Cache is empty.\n", out)
}

func TestCacheGalleriesInvalidLimit(t *testing.T) {
	_, err := execute(t, NewCacheCommand(textOpts()), "galleries", "--db", ":memory:", "--limit", "0")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestCacheHistory(t *testing.T) {
	db := seedCache(t, 0, "first", "second", "first")

	out, err := execute(t, NewCacheCommand(textOpts()), "history", "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\n", out)

	out, err = execute(t, NewCacheCommand(jsonOpts()), "history", "--db", db, "--limit", "1")
	require.NoError(t, err)
	var resp struct {
		Data []string `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, []string{"first"}, resp.Data)
}

func TestCacheHistoryEmpty(t *testing.T) {
	out, err := execute(t, NewCacheCommand(textOpts()), "history", "--db", ":memory:")
	require.NoError(t, err)
	assert.Equal(t, "No search history.\n", out)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
	assert.Equal(t, "ぱんだ…", truncate("ぱんだぱんだ", 4))
}
