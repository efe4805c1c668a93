// Package watched is the watched-tags gallery list with its filters,
// quick search and detail destinations.
package watched

import (
	"github.com/roach88/panda/internal/feature/detail"
	"github.com/roach88/panda/internal/feature/filters"
	"github.com/roach88/panda/internal/feature/gallerylist"
	"github.com/roach88/panda/internal/feature/quicksearch"
	"github.com/roach88/panda/internal/ir"
)

// RouteKind names a watched route.
type RouteKind string

// Watched routes.
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

// State is the watched feature.
type State struct {
	Route       *Route            `json:"route,omitempty"`
	List        gallerylist.State `json:"list"`
	Filters     filters.State     `json:"filters"`
	QuickSearch quicksearch.State `json:"quick_search"`
	Detail      *detail.State     `json:"detail,omitempty"`
}

// NewState returns the initial watched state.
func NewState() State {
	return State{Filters: filters.NewState(ir.FilterRangeWatched)}
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
	s.QuickSearch = s.QuickSearch.Clone()
	return s
}

// Action is a watched action.
type Action interface{ isAction() }

// SetNavigation sets the route; nil clears it.
type SetNavigation struct{ Route *Route }

// ClearSubStates resets every child of the route slot.
type ClearSubStates struct{}

// Teardown cancels the list fetches.
type Teardown struct{}

// List forwards a gallery list action.
type List struct{ Action gallerylist.Action }

// Filters forwards a filters action.
type Filters struct{ Action filters.Action }

// QuickSearch forwards a quick search action.
type QuickSearch struct{ Action quicksearch.Action }

// Detail forwards a detail action.
type Detail struct{ Action detail.Action }

func (SetNavigation) isAction()  {}
func (ClearSubStates) isAction() {}
func (Teardown) isAction()       {}
func (List) isAction()           {}
func (Filters) isAction()        {}
func (QuickSearch) isAction()    {}
func (Detail) isAction()         {}

func (a List) Unwrap() any        { return a.Action }
func (a Filters) Unwrap() any     { return a.Action }
func (a QuickSearch) Unwrap() any { return a.Action }
func (a Detail) Unwrap() any      { return a.Action }
