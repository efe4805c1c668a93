// Package profile loads and submits the account display profile.
package profile

import (
	"context"

	"github.com/roach88/panda/internal/client"
	"github.com/roach88/panda/internal/engine"
	"github.com/roach88/panda/internal/ir"
)

// Cancel roles.
const (
	RoleFetch  = "fetch"
	RoleSubmit = "submit"
)

// State is the profile editor.
type State struct {
	Profile    *ir.Profile     `json:"profile,omitempty"`
	Loading    ir.LoadingState `json:"loading"`
	Submitting ir.LoadingState `json:"submitting"`
}

// Clone copies the profile.
func (s State) Clone() State {
	if s.Profile != nil {
		p := *s.Profile
		p.ExcludedNamespaces = append([]string(nil), p.ExcludedNamespaces...)
		p.ExcludedUploaders = append([]string(nil), p.ExcludedUploaders...)
		s.Profile = &p
	}
	return s
}

// Action is a profile action.
type Action interface{ isAction() }

type (
	// Fetch loads the profile.
	Fetch struct{}
	// FetchDone delivers the profile.
	FetchDone struct{ Result ir.Result[ir.Profile] }
	// Update writes the edited profile binding.
	Update struct{ Profile ir.Profile }
	// Submit saves the edited profile.
	Submit struct{}
	// SubmitDone delivers the saved profile.
	SubmitDone struct{ Result ir.Result[ir.Profile] }
	// Teardown cancels fetch and submit.
	Teardown struct{}
)

func (Fetch) isAction()      {}
func (FetchDone) isAction()  {}
func (Update) isAction()     {}
func (Submit) isAction()     {}
func (SubmitDone) isAction() {}
func (Teardown) isAction()   {}

// Reducer reduces the profile editor.
type Reducer struct {
	env client.Env
}

// New creates the reducer.
func New(env client.Env) *Reducer {
	return &Reducer{env: env}
}

// Reduce implements engine.Reducer.
func (r *Reducer) Reduce(s *State, action Action) []engine.Effect[Action] {
	switch a := action.(type) {
	case Fetch:
		if s.Loading.IsLoading() {
			return nil
		}
		s.Loading = ir.Loading()
		return engine.Effects(
			engine.Task(func(ctx context.Context) Action {
				return FetchDone{Result: ir.ResultOf(r.env.Network.Profile(ctx))}
			}).Cancellable(engine.Key(RoleFetch), true).Named("fetch_profile"),
		)

	case FetchDone:
		s.Loading = ir.Idle()
		if !a.Result.IsOK() {
			s.Loading = ir.FromError(a.Result.Err)
			return nil
		}
		p := a.Result.Value
		s.Profile = &p
		return nil

	case Update:
		p := a.Profile.Clamp()
		s.Profile = &p
		return nil

	case Submit:
		if s.Profile == nil || s.Submitting.IsLoading() {
			return nil
		}
		s.Submitting = ir.Loading()
		p := s.Profile.Clamp()
		return engine.Effects(
			engine.Task(func(ctx context.Context) Action {
				return SubmitDone{Result: ir.ResultOf(r.env.Network.SubmitProfile(ctx, p))}
			}).Cancellable(engine.Key(RoleSubmit), true).Named("submit_profile"),
		)

	case SubmitDone:
		s.Submitting = ir.Idle()
		if !a.Result.IsOK() {
			s.Submitting = ir.FromError(a.Result.Err)
			return nil
		}
		p := a.Result.Value
		s.Profile = &p
		return nil

	case Teardown:
		if s.Loading.IsLoading() {
			s.Loading = ir.Idle()
		}
		if s.Submitting.IsLoading() {
			s.Submitting = ir.Idle()
		}
		return engine.Effects(engine.Cancel[Action](engine.Key(RoleFetch), engine.Key(RoleSubmit)))
	}
	return nil
}
