package client

import (
	"context"

	"github.com/roach88/panda/internal/ir"
)

// Database is the local cache. Every call happens inside an effect; write
// failures are logged by the store and never reach feature state.
type Database interface {
	// CacheGalleries upserts gallery rows.
	CacheGalleries(ctx context.Context, galleries []ir.Gallery) error
	// FetchFilter returns the saved filter for a range, or the default
	// filter when none was saved.
	FetchFilter(ctx context.Context, r ir.FilterRange) (ir.Filter, error)
	// UpdateFilter saves the filter for a range.
	UpdateFilter(ctx context.Context, r ir.FilterRange, f ir.Filter) error
	// FetchQuickSearchWords returns saved words in display order.
	FetchQuickSearchWords(ctx context.Context) ([]ir.QuickSearchWord, error)
	// UpdateQuickSearchWords replaces the saved words.
	UpdateQuickSearchWords(ctx context.Context, words []ir.QuickSearchWord) error
	// AppendHistoryKeyword records a searched keyword.
	AppendHistoryKeyword(ctx context.Context, keyword string) error
	// FetchHistoryKeywords returns recent keywords, newest first.
	FetchHistoryKeywords(ctx context.Context, limit int) ([]string, error)
	// SaveTagTranslations replaces the cached translations for language.
	SaveTagTranslations(ctx context.Context, language string, translations []ir.TagTranslation) error
	// FetchTagTranslations returns the cached translations for language.
	FetchTagTranslations(ctx context.Context, language string) ([]ir.TagTranslation, error)
}
