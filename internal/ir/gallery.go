package ir

import (
	"strings"

	"github.com/roach88/panda/internal/paging"
)

// Category is the gallery category as reported by the source.
type Category string

// Known categories.
const (
	CategoryDoujinshi Category = "doujinshi"
	CategoryManga     Category = "manga"
	CategoryArtistCG  Category = "artist_cg"
	CategoryGameCG    Category = "game_cg"
	CategoryWestern   Category = "western"
	CategoryNonH      Category = "non_h"
	CategoryImageSet  Category = "image_set"
	CategoryCosplay   Category = "cosplay"
	CategoryAsianPorn Category = "asian_porn"
	CategoryMisc      Category = "misc"
	CategoryPrivate   Category = "private"
)

// Gallery is a summary row in a gallery list.
// Identity is the gallery id (GID).
type Gallery struct {
	GID       string   `json:"gid" yaml:"gid"`
	Token     string   `json:"token,omitempty" yaml:"token,omitempty"`
	Title     string   `json:"title" yaml:"title"`
	Category  Category `json:"category,omitempty" yaml:"category,omitempty"`
	Uploader  string   `json:"uploader,omitempty" yaml:"uploader,omitempty"`
	Rating    int      `json:"rating,omitempty" yaml:"rating,omitempty"` // half stars, 0-10
	PageCount int      `json:"page_count,omitempty" yaml:"page_count,omitempty"`
	PostedAt  int64    `json:"posted_at,omitempty" yaml:"posted_at,omitempty"` // unix seconds
	CoverURL  string   `json:"cover_url,omitempty" yaml:"cover_url,omitempty"`
	Tags      []Tag    `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// Identity implements paging.Identifiable.
func (g Gallery) Identity() string { return g.GID }

// Tag is a namespaced gallery tag, e.g. artist:foo.
type Tag struct {
	Namespace TagNamespace `json:"namespace" yaml:"namespace"`
	Content   string       `json:"content" yaml:"content"`
}

// String renders the tag the way the source accepts it in a keyword.
func (t Tag) String() string {
	if t.Namespace == "" {
		return t.Content
	}
	content := t.Content
	if strings.Contains(content, " ") {
		content = `"` + content + `$"`
	}
	return string(t.Namespace) + ":" + content
}

// GalleryDetail is the payload of a detail fetch.
type GalleryDetail struct {
	Gallery        Gallery `json:"gallery" yaml:"gallery"`
	JapaneseTitle  string  `json:"japanese_title,omitempty" yaml:"japanese_title,omitempty"`
	Language       string  `json:"language,omitempty" yaml:"language,omitempty"`
	FileSize       int64   `json:"file_size,omitempty" yaml:"file_size,omitempty"` // bytes
	FavoritedCount int     `json:"favorited_count,omitempty" yaml:"favorited_count,omitempty"`
	RatingCount    int     `json:"rating_count,omitempty" yaml:"rating_count,omitempty"`
	Parent         string  `json:"parent,omitempty" yaml:"parent,omitempty"`
	Visible        bool    `json:"visible" yaml:"visible"`
}

// Page is one page of galleries plus the cursor the source returned with it.
type Page struct {
	Cursor    paging.Cursor `json:"cursor" yaml:"cursor"`
	Galleries []Gallery     `json:"galleries" yaml:"galleries"`
}

// ContinuationID returns the key used to request the page after this one:
// the cursor's LastID when the source supplied one, else the last gallery.
func ContinuationID(cursor paging.Cursor, galleries []Gallery) string {
	if cursor.LastID != "" {
		return cursor.LastID
	}
	return paging.LastIdentity(galleries)
}
