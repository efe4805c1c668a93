// Package translator keeps the tag translation table: loaded from the
// local cache at startup, refreshed from the network on demand.
package translator

import (
	"context"
	"fmt"

	"github.com/roach88/panda/internal/client"
	"github.com/roach88/panda/internal/engine"
	"github.com/roach88/panda/internal/ir"
)

// Cancel roles.
const (
	RoleLoad  = "load"
	RoleFetch = "fetch"
)

// State is the translation table.
type State struct {
	Language   string           `json:"language"`
	Translator ir.TagTranslator `json:"-"`
	Count      int              `json:"count"`
	Loading    ir.LoadingState  `json:"loading"`
}

// Action is a translator action.
type Action interface{ isAction() }

type (
	// Load reads cached translations.
	Load struct{}
	// LoadDone delivers cached translations.
	LoadDone struct{ Result ir.Result[[]ir.TagTranslation] }
	// Fetch downloads the translation database.
	Fetch struct{}
	// FetchDone delivers downloaded translations.
	FetchDone struct{ Result ir.Result[[]ir.TagTranslation] }
	// Teardown cancels load and fetch.
	Teardown struct{}
)

func (Load) isAction()      {}
func (LoadDone) isAction()  {}
func (Fetch) isAction()     {}
func (FetchDone) isAction() {}
func (Teardown) isAction()  {}

// Reducer reduces the translation table.
type Reducer struct {
	env client.Env
}

// New creates the reducer.
func New(env client.Env) *Reducer {
	return &Reducer{env: env.WithDefaults()}
}

// NewState returns an empty table for the env language.
func NewState(env client.Env) State {
	return State{Language: env.WithDefaults().Language}
}

// Reduce implements engine.Reducer.
func (r *Reducer) Reduce(s *State, action Action) []engine.Effect[Action] {
	switch a := action.(type) {
	case Load:
		if s.Loading.IsLoading() {
			return nil
		}
		s.Loading = ir.Loading()
		lang := s.Language
		return engine.Effects(
			engine.Task(func(ctx context.Context) Action {
				return LoadDone{Result: ir.ResultOf(r.env.Database.FetchTagTranslations(ctx, lang))}
			}).Cancellable(engine.Key(RoleLoad), true).Named("load_tag_translations"),
		)

	case LoadDone:
		s.Loading = ir.Idle()
		if !a.Result.IsOK() {
			s.Loading = ir.FromError(a.Result.Err)
			return nil
		}
		s.install(a.Result.Value)
		return nil

	case Fetch:
		if s.Loading.IsLoading() {
			return nil
		}
		s.Loading = ir.Loading()
		lang := s.Language
		return engine.Effects(
			engine.Task(func(ctx context.Context) Action {
				return FetchDone{Result: ir.ResultOf(r.download(ctx, lang))}
			}).Cancellable(engine.Key(RoleFetch), true).Named("fetch_tag_translations"),
		)

	case FetchDone:
		s.Loading = ir.Idle()
		if !a.Result.IsOK() {
			s.Loading = ir.FromError(a.Result.Err)
			return nil
		}
		translations := a.Result.Value
		s.install(translations)
		lang := s.Language
		return engine.Effects(engine.Fire[Action](func(ctx context.Context) error {
			return r.env.Database.SaveTagTranslations(ctx, lang, translations)
		}).Named("save_tag_translations"))

	case Teardown:
		if s.Loading.IsLoading() {
			s.Loading = ir.Idle()
		}
		return engine.Effects(engine.Cancel[Action](engine.Key(RoleLoad), engine.Key(RoleFetch)))
	}
	return nil
}

func (s *State) install(translations []ir.TagTranslation) {
	s.Translator = ir.NewTagTranslator(s.Language, translations)
	s.Count = s.Translator.Len()
}

func (r *Reducer) download(ctx context.Context, lang string) ([]ir.TagTranslation, error) {
	raw, err := r.env.Network.TagTranslations(ctx, lang)
	if err != nil {
		return nil, err
	}
	dbs, err := ir.DecodeTranslationDatabases(raw)
	if err != nil {
		return nil, fmt.Errorf("tag translations for %s: %w", lang, err)
	}
	return ir.FlattenTranslations(dbs), nil
}
