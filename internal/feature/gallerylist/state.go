package gallerylist

import (
	"github.com/roach88/panda/internal/ir"
	"github.com/roach88/panda/internal/paging"
)

// State is one gallery list. GalleriesKeyword is the keyword Galleries
// were fetched for.
type State struct {
	Keyword          string          `json:"keyword"`
	Galleries        []ir.Gallery    `json:"galleries"`
	GalleriesKeyword string          `json:"galleries_keyword,omitempty"`
	Cursor           paging.Cursor   `json:"cursor"`
	Loading          ir.LoadingState `json:"loading"`
	FooterLoading    ir.LoadingState `json:"footer_loading"`
}

// IsEmpty reports whether no galleries are loaded.
func (s State) IsEmpty() bool { return len(s.Galleries) == 0 }

// Action is a gallery list action.
type Action interface{ isAction() }

// SetKeyword writes the keyword binding.
type SetKeyword struct{ Keyword string }

// Fetch requests the first page. A non-nil Keyword replaces the current one.
type Fetch struct{ Keyword *string }

// FetchDone delivers the first page.
type FetchDone struct{ Result ir.Result[ir.Page] }

// FetchMore requests the page after the last loaded gallery.
type FetchMore struct{}

// FetchMoreDone delivers a following page.
type FetchMoreDone struct{ Result ir.Result[ir.Page] }

// Teardown cancels the list's in-flight fetches.
type Teardown struct{}

func (SetKeyword) isAction()    {}
func (Fetch) isAction()         {}
func (FetchDone) isAction()     {}
func (FetchMore) isAction()     {}
func (FetchMoreDone) isAction() {}
func (Teardown) isAction()      {}

// FetchKeyword builds a Fetch that replaces the keyword.
func FetchKeyword(keyword string) Fetch {
	return Fetch{Keyword: &keyword}
}
