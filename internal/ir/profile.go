package ir

// Profile is the subset of the account-side display profile the app edits.
type Profile struct {
	Name                  string   `json:"name" yaml:"name"`
	LoadThroughHath       string   `json:"load_through_hath" yaml:"load_through_hath"`
	ImageResolution       string   `json:"image_resolution" yaml:"image_resolution"`
	GalleryNameDisplay    string   `json:"gallery_name_display" yaml:"gallery_name_display"`
	ArchiverBehavior      string   `json:"archiver_behavior" yaml:"archiver_behavior"`
	DisplayMode           string   `json:"display_mode" yaml:"display_mode"`
	ExcludedNamespaces    []string `json:"excluded_namespaces,omitempty" yaml:"excluded_namespaces,omitempty"`
	ExcludedUploaders     []string `json:"excluded_uploaders,omitempty" yaml:"excluded_uploaders,omitempty"`
	TagFilteringThreshold int      `json:"tag_filtering_threshold" yaml:"tag_filtering_threshold"`
	TagWatchingThreshold  int      `json:"tag_watching_threshold" yaml:"tag_watching_threshold"`
	SearchResultCount     int      `json:"search_result_count" yaml:"search_result_count"`
	ThumbnailSize         string   `json:"thumbnail_size" yaml:"thumbnail_size"`
	ThumbnailRows         int      `json:"thumbnail_rows" yaml:"thumbnail_rows"`
	CommentsSortOrder     string   `json:"comments_sort_order" yaml:"comments_sort_order"`
	ShowPageNumbers       bool     `json:"show_page_numbers" yaml:"show_page_numbers"`
	OriginalImages        bool     `json:"original_images" yaml:"original_images"`
	MultiplePageViewer    bool     `json:"multiple_page_viewer" yaml:"multiple_page_viewer"`
}

// Tag filtering threshold bounds accepted by the source.
const (
	MinTagFilteringThreshold = -9999
	MaxTagFilteringThreshold = 0
	MinTagWatchingThreshold  = 0
	MaxTagWatchingThreshold  = 9999
)

// Clamp returns a copy with numeric settings inside their accepted ranges.
func (p Profile) Clamp() Profile {
	p.TagFilteringThreshold = clamp(p.TagFilteringThreshold, MinTagFilteringThreshold, MaxTagFilteringThreshold)
	p.TagWatchingThreshold = clamp(p.TagWatchingThreshold, MinTagWatchingThreshold, MaxTagWatchingThreshold)
	return p
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
