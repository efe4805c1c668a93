package ir

import "fmt"

// FilterRange selects which saved filter a list uses.
type FilterRange string

// Filter ranges.
const (
	FilterRangeSearch  FilterRange = "search"
	FilterRangeGlobal  FilterRange = "global"
	FilterRangeWatched FilterRange = "watched"
)

// ParseFilterRange converts a string into a FilterRange.
func ParseFilterRange(s string) (FilterRange, error) {
	switch FilterRange(s) {
	case FilterRangeSearch, FilterRangeGlobal, FilterRangeWatched:
		return FilterRange(s), nil
	default:
		return "", fmt.Errorf("unknown filter range %q: must be search, global or watched", s)
	}
}

// Filter narrows a gallery search.
type Filter struct {
	ExcludedCategories []Category `json:"excluded_categories,omitempty" yaml:"excluded_categories,omitempty"`
	MinimumRating      int        `json:"minimum_rating,omitempty" yaml:"minimum_rating,omitempty"` // half stars
	PageLowerBound     int        `json:"page_lower_bound,omitempty" yaml:"page_lower_bound,omitempty"`
	PageUpperBound     int        `json:"page_upper_bound,omitempty" yaml:"page_upper_bound,omitempty"`
	SearchName         bool       `json:"search_name" yaml:"search_name"`
	SearchTags         bool       `json:"search_tags" yaml:"search_tags"`
	ShowExpunged       bool       `json:"show_expunged,omitempty" yaml:"show_expunged,omitempty"`
	DisableLanguage    bool       `json:"disable_language,omitempty" yaml:"disable_language,omitempty"`
	DisableUploader    bool       `json:"disable_uploader,omitempty" yaml:"disable_uploader,omitempty"`
	DisableTags        bool       `json:"disable_tags,omitempty" yaml:"disable_tags,omitempty"`
}

// DefaultFilter is the filter every range starts with.
func DefaultFilter() Filter {
	return Filter{SearchName: true, SearchTags: true}
}

// Excludes reports whether the filter excludes category c.
func (f Filter) Excludes(c Category) bool {
	for _, ex := range f.ExcludedCategories {
		if ex == c {
			return true
		}
	}
	return false
}
