package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/panda/internal/ir"
)

// fixedNow is the cached_at clock used by createTestStore.
var fixedNow = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

// createTestStore creates a new store in a temp dir for testing.
func createTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	opts = append([]Option{WithNow(func() time.Time { return fixedNow })}, opts...)
	s, err := Open(path, opts...)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestGallery creates a gallery with minimal fields.
func createTestGallery(gid, title string) ir.Gallery {
	return ir.Gallery{
		GID:       gid,
		Token:     "tok" + gid,
		Title:     title,
		Category:  ir.CategoryManga,
		PageCount: 20,
	}
}
