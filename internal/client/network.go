package client

import (
	"context"
	"fmt"

	"github.com/roach88/panda/internal/ir"
	"github.com/roach88/panda/internal/paging"
)

// Source selects which gallery list a page request targets.
type Source string

// Gallery list sources.
const (
	SourceWatched    Source = "watched"
	SourceSearch     Source = "search"
	SourceAssociated Source = "associated"
)

// ParseSource converts a string into a Source.
func ParseSource(s string) (Source, error) {
	switch Source(s) {
	case SourceWatched, SourceSearch, SourceAssociated:
		return Source(s), nil
	default:
		return "", fmt.Errorf("unknown source %q: must be watched, search or associated", s)
	}
}

// PageRequest describes one gallery page fetch. A zero LastID requests the
// first page; otherwise the page after LastID ("more").
type PageRequest struct {
	Source  Source        `json:"source" yaml:"source"`
	Keyword string        `json:"keyword,omitempty" yaml:"keyword,omitempty"`
	Filter  ir.Filter     `json:"filter" yaml:"filter"`
	Cursor  paging.Cursor `json:"cursor" yaml:"cursor"`
	LastID  string        `json:"last_id,omitempty" yaml:"last_id,omitempty"`
}

// IsMore reports whether the request continues a list.
func (r PageRequest) IsMore() bool { return r.LastID != "" }

// Network is the gallery source. Implementations return decoded domain
// values; errors should be *ir.AppError where the kind is known and are
// otherwise classified as network errors.
type Network interface {
	// FetchPage returns the first page for req, or the page after
	// req.LastID when req.IsMore().
	FetchPage(ctx context.Context, req PageRequest) (ir.Page, error)
	// GalleryDetail returns the detail of one gallery.
	GalleryDetail(ctx context.Context, gid string) (ir.GalleryDetail, error)
	// Profile returns the account display profile.
	Profile(ctx context.Context) (ir.Profile, error)
	// SubmitProfile saves the profile and returns it as the source sees it.
	SubmitProfile(ctx context.Context, profile ir.Profile) (ir.Profile, error)
	// TagTranslations returns the raw translation database for language.
	TagTranslations(ctx context.Context, language string) ([]byte, error)
}
