// Package app is the root feature. It composes every feature under one
// state so a single engine.Store drives the whole application.
package app

import (
	"github.com/roach88/panda/internal/client"
	"github.com/roach88/panda/internal/feature/associated"
	"github.com/roach88/panda/internal/feature/profile"
	"github.com/roach88/panda/internal/feature/search"
	"github.com/roach88/panda/internal/feature/translator"
	"github.com/roach88/panda/internal/feature/watched"
)

// State is the application state.
type State struct {
	Search     search.State     `json:"search"`
	Watched    watched.State    `json:"watched"`
	Associated associated.State `json:"associated"`
	Profile    profile.State    `json:"profile"`
	Translator translator.State `json:"translator"`
}

// NewState returns the initial application state.
func NewState(env client.Env) State {
	return State{
		Search:     search.NewState(),
		Watched:    watched.NewState(),
		Translator: translator.NewState(env),
	}
}

// Clone implements engine.Cloner.
func (s State) Clone() State {
	s.Search = s.Search.Clone()
	s.Watched = s.Watched.Clone()
	s.Associated = s.Associated.Clone()
	s.Profile = s.Profile.Clone()
	return s
}

// Action is an application action.
type Action interface{ isAction() }

type (
	// Startup loads everything the app shows before the first intent.
	Startup struct{}
	// Teardown cancels every feature's work.
	Teardown struct{}

	// Search forwards a search action.
	Search struct{ Action search.Action }
	// Watched forwards a watched action.
	Watched struct{ Action watched.Action }
	// Associated forwards an associated action.
	Associated struct{ Action associated.Action }
	// Profile forwards a profile action.
	Profile struct{ Action profile.Action }
	// Translator forwards a translator action.
	Translator struct{ Action translator.Action }
)

func (Startup) isAction()    {}
func (Teardown) isAction()   {}
func (Search) isAction()     {}
func (Watched) isAction()    {}
func (Associated) isAction() {}
func (Profile) isAction()    {}
func (Translator) isAction() {}

func (a Search) Unwrap() any     { return a.Action }
func (a Watched) Unwrap() any    { return a.Action }
func (a Associated) Unwrap() any { return a.Action }
func (a Profile) Unwrap() any    { return a.Action }
func (a Translator) Unwrap() any { return a.Action }
