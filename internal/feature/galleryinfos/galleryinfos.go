// Package galleryinfos is the gallery information sheet: a list of copyable
// fields and the HUD shown after a copy.
package galleryinfos

import (
	"context"

	"github.com/roach88/panda/internal/client"
	"github.com/roach88/panda/internal/engine"
)

// RouteHUD is the only route: the "copied" HUD.
const RouteHUD = "hud"

// State is the info sheet state.
type State struct {
	Route  string `json:"route,omitempty"`
	Copied string `json:"copied,omitempty"`
}

// Action is an info sheet action.
type Action interface{ isAction() }

// SetNavigation sets or clears (empty) the route.
type SetNavigation struct{ Route string }

// CopyText copies a field value.
type CopyText struct{ Text string }

func (SetNavigation) isAction() {}
func (CopyText) isAction()      {}

// Reducer reduces the info sheet.
type Reducer struct {
	env client.Env
}

// New creates the reducer.
func New(env client.Env) *Reducer {
	return &Reducer{env: env.WithDefaults()}
}

// Reduce implements engine.Reducer.
func (r *Reducer) Reduce(s *State, action Action) []engine.Effect[Action] {
	switch a := action.(type) {
	case SetNavigation:
		s.Route = a.Route
		return nil

	case CopyText:
		s.Route = RouteHUD
		s.Copied = a.Text
		text := a.Text
		return engine.Effects(
			engine.Fire[Action](func(context.Context) error {
				return r.env.Clipboard.Copy(text)
			}).Named("copy_text"),
			engine.Fire[Action](func(context.Context) error {
				return r.env.Haptics.Generate(client.FeedbackSuccess)
			}).Named("haptics"),
		)
	}
	return nil
}
