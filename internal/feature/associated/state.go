// Package associated holds the related-galleries lists opened from a
// detail, one bucket per navigation depth.
//
// A bucket belongs to the keyword it was fetched for. Asking for a depth
// with a different keyword reads as empty and refetches; responses that
// still carry the old keyword are discarded when they arrive.
package associated

import (
	"fmt"

	"github.com/roach88/panda/internal/feature/gallerylist"
	"github.com/roach88/panda/internal/ir"
)

// Bucket is the list at one depth.
type Bucket struct {
	Keyword ir.AssociatedKeyword `json:"keyword"`
	List    gallerylist.State    `json:"list"`
}

// State is every presented depth.
type State struct {
	Buckets []Bucket `json:"buckets"`
}

// Bucket returns the list at depth for keyword, or an empty bucket when
// the depth holds another keyword or nothing.
func (s State) Bucket(depth int, keyword ir.AssociatedKeyword) Bucket {
	if !s.valid(depth, keyword) {
		return Bucket{Keyword: keyword}
	}
	return s.Buckets[depth]
}

// Title is the navigation title of depth.
func (s State) Title(depth int) string {
	if depth < 0 || depth >= len(s.Buckets) {
		return ""
	}
	return s.Buckets[depth].Keyword.DisplayTitle()
}

// Clone copies the bucket slice so snapshots never see in-place updates.
func (s State) Clone() State {
	s.Buckets = append([]Bucket(nil), s.Buckets...)
	return s
}

func (s State) valid(depth int, keyword ir.AssociatedKeyword) bool {
	return depth >= 0 && depth < len(s.Buckets) && s.Buckets[depth].Keyword == keyword
}

func scopeOf(depth int) string {
	return fmt.Sprintf("depth/%d", depth)
}

// Action is an associated action.
type Action interface{ isAction() }

type (
	// Fetch loads the first page of Keyword at Depth.
	Fetch struct {
		Depth   int
		Keyword ir.AssociatedKeyword
	}
	// FetchIfNeeded fetches unless Depth already holds Keyword with
	// galleries or a fetch in flight.
	FetchIfNeeded struct {
		Depth   int
		Keyword ir.AssociatedKeyword
	}
	// FetchMore loads the next page at Depth, or the first page when the
	// depth holds another keyword.
	FetchMore struct {
		Depth   int
		Keyword ir.AssociatedKeyword
	}
	// Truncate drops Depth and every deeper bucket.
	Truncate struct{ Depth int }
	// Teardown cancels every depth.
	Teardown struct{}
	// List carries a list action for the bucket at Depth fetched for
	// Keyword.
	List struct {
		Depth   int
		Keyword ir.AssociatedKeyword
		Action  gallerylist.Action
	}
)

func (Fetch) isAction()         {}
func (FetchIfNeeded) isAction() {}
func (FetchMore) isAction()     {}
func (Truncate) isAction()      {}
func (Teardown) isAction()      {}
func (List) isAction()          {}

func (a List) Unwrap() any { return a.Action }
