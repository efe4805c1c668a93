package detail

import (
	"github.com/roach88/panda/internal/feature/galleryinfos"
	"github.com/roach88/panda/internal/ir"
)

// RouteKind names a detail route.
type RouteKind string

// Detail routes.
const (
	RouteInfos      RouteKind = "infos"
	RouteAssociated RouteKind = "associated"
	RouteRelated    RouteKind = "related"
)

// Route is the presented destination of a detail.
type Route struct {
	Kind    RouteKind            `json:"kind"`
	Keyword ir.AssociatedKeyword `json:"keyword,omitzero"`
	GID     string               `json:"gid,omitempty"`
}

// State is one detail level.
type State struct {
	Depth   int                `json:"depth"`
	GID     string             `json:"gid,omitempty"`
	Detail  *ir.GalleryDetail  `json:"detail,omitempty"`
	Loading ir.LoadingState    `json:"loading"`
	Route   *Route             `json:"route,omitempty"`
	Infos   galleryinfos.State `json:"infos"`
	Child   *State             `json:"child,omitempty"`
}

// NewState returns an empty detail at depth.
func NewState(depth int) State {
	return State{Depth: depth}
}

// Clone deep-copies the state, including every nested level.
func (s State) Clone() State {
	if s.Detail != nil {
		d := *s.Detail
		s.Detail = &d
	}
	if s.Route != nil {
		r := *s.Route
		s.Route = &r
	}
	if s.Child != nil {
		c := s.Child.Clone()
		s.Child = &c
	}
	return s
}

// Levels returns how many detail levels are presented from s down.
func (s *State) Levels() int {
	n := 0
	for cur := s; cur != nil; cur = cur.Child {
		n++
	}
	return n
}

// Action is a detail action.
type Action interface{ isAction() }

// Fetch loads the detail of GID, or of the current gallery when empty.
type Fetch struct{ GID string }

// FetchDone delivers the detail.
type FetchDone struct{ Result ir.Result[ir.GalleryDetail] }

// SetNavigation sets the route; nil clears it.
type SetNavigation struct{ Route *Route }

// ClearSubStates resets every child of the route slot.
type ClearSubStates struct{}

// Teardown cancels the level's fetch and everything below it.
type Teardown struct{}

// Infos forwards an info sheet action.
type Infos struct{ Action galleryinfos.Action }

// Child forwards an action to the nested detail.
type Child struct{ Action Action }

func (Fetch) isAction()          {}
func (FetchDone) isAction()      {}
func (SetNavigation) isAction()  {}
func (ClearSubStates) isAction() {}
func (Teardown) isAction()       {}
func (Infos) isAction()          {}
func (Child) isAction()          {}

func (a Infos) Unwrap() any { return a.Action }
func (a Child) Unwrap() any { return a.Action }

// At wraps action so it reaches the detail depth levels below the
// receiver. At(0, a) is a itself.
func At(depth int, action Action) Action {
	for i := 0; i < depth; i++ {
		action = Child{Action: action}
	}
	return action
}
