// Package search is the keyword search list. It shares the list machinery
// with watched and additionally keeps a history of searched keywords.
package search

import (
	"github.com/roach88/panda/internal/feature/detail"
	"github.com/roach88/panda/internal/feature/filters"
	"github.com/roach88/panda/internal/feature/gallerylist"
	"github.com/roach88/panda/internal/feature/quicksearch"
	"github.com/roach88/panda/internal/ir"
)

// MaxHistoryKeywords caps the remembered keywords.
const MaxHistoryKeywords = 20

// RouteKind names a search route.
type RouteKind string

// Search routes.
const (
	RouteFilters     RouteKind = "filters"
	RouteQuickSearch RouteKind = "quick_search"
	RouteDetail      RouteKind = "detail"
)

// Route is the presented destination. GID is set for RouteDetail.
type Route struct {
	Kind RouteKind `json:"kind"`
	GID  string    `json:"gid,omitempty"`
}

// State is the search feature.
type State struct {
	Route          *Route            `json:"route,omitempty"`
	List           gallerylist.State `json:"list"`
	History        []string          `json:"history,omitempty"`
	HistoryLoading ir.LoadingState   `json:"history_loading"`
	Filters        filters.State     `json:"filters"`
	QuickSearch    quicksearch.State `json:"quick_search"`
	Detail         *detail.State     `json:"detail,omitempty"`
}

// NewState returns the initial search state.
func NewState() State {
	return State{Filters: filters.NewState(ir.FilterRangeSearch)}
}

// Clone deep-copies the pointer-held children.
func (s State) Clone() State {
	if s.Route != nil {
		r := *s.Route
		s.Route = &r
	}
	if s.Detail != nil {
		d := s.Detail.Clone()
		s.Detail = &d
	}
	s.History = append([]string(nil), s.History...)
	s.QuickSearch = s.QuickSearch.Clone()
	return s
}

// Action is a search action.
type Action interface{ isAction() }

type (
	// Search runs a keyword search and records it in the history.
	Search struct{ Keyword string }
	// FetchHistory loads the keyword history.
	FetchHistory struct{}
	// FetchHistoryDone delivers the keyword history.
	FetchHistoryDone struct{ Result ir.Result[[]string] }
	// SetNavigation sets the route; nil clears it.
	SetNavigation struct{ Route *Route }
	// ClearSubStates resets every child of the route slot.
	ClearSubStates struct{}
	// Teardown cancels the list and history fetches.
	Teardown struct{}

	// List forwards a gallery list action.
	List struct{ Action gallerylist.Action }
	// Filters forwards a filters action.
	Filters struct{ Action filters.Action }
	// QuickSearch forwards a quick search action.
	QuickSearch struct{ Action quicksearch.Action }
	// Detail forwards a detail action.
	Detail struct{ Action detail.Action }
)

func (Search) isAction()           {}
func (FetchHistory) isAction()     {}
func (FetchHistoryDone) isAction() {}
func (SetNavigation) isAction()    {}
func (ClearSubStates) isAction()   {}
func (Teardown) isAction()         {}
func (List) isAction()             {}
func (Filters) isAction()          {}
func (QuickSearch) isAction()      {}
func (Detail) isAction()           {}

func (a List) Unwrap() any        { return a.Action }
func (a Filters) Unwrap() any     { return a.Action }
func (a QuickSearch) Unwrap() any { return a.Action }
func (a Detail) Unwrap() any      { return a.Action }

// pushHistory moves keyword to the front, dropping repeats and anything
// past the cap.
func pushHistory(history []string, keyword string) []string {
	out := make([]string, 0, len(history)+1)
	out = append(out, keyword)
	for _, k := range history {
		if k != keyword {
			out = append(out, k)
		}
	}
	if len(out) > MaxHistoryKeywords {
		out = out[:MaxHistoryKeywords]
	}
	return out
}
