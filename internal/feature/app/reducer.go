package app

import (
	"github.com/roach88/panda/internal/client"
	"github.com/roach88/panda/internal/engine"
	"github.com/roach88/panda/internal/feature/associated"
	"github.com/roach88/panda/internal/feature/filters"
	"github.com/roach88/panda/internal/feature/profile"
	"github.com/roach88/panda/internal/feature/quicksearch"
	"github.com/roach88/panda/internal/feature/search"
	"github.com/roach88/panda/internal/feature/translator"
	"github.com/roach88/panda/internal/feature/watched"
)

// Feature scope names.
const (
	ScopeSearch     = "search"
	ScopeWatched    = "watched"
	ScopeAssociated = "associated"
	ScopeProfile    = "profile"
	ScopeTranslator = "translator"
)

// New builds the root reducer.
func New(env client.Env) engine.Reducer[State, Action] {
	env = env.WithDefaults()
	return engine.Combine[State, Action](
		engine.ReducerFunc[State, Action](reduce),
		engine.Scope(ScopeSearch,
			func(s *State) *search.State { return &s.Search },
			func(a Action) (search.Action, bool) {
				f, ok := a.(Search)
				return f.Action, ok
			},
			func(a search.Action) Action { return Search{Action: a} },
			search.New(env),
		),
		engine.Scope(ScopeWatched,
			func(s *State) *watched.State { return &s.Watched },
			func(a Action) (watched.Action, bool) {
				f, ok := a.(Watched)
				return f.Action, ok
			},
			func(a watched.Action) Action { return Watched{Action: a} },
			watched.New(env),
		),
		engine.Scope(ScopeAssociated,
			func(s *State) *associated.State { return &s.Associated },
			func(a Action) (associated.Action, bool) {
				f, ok := a.(Associated)
				return f.Action, ok
			},
			func(a associated.Action) Action { return Associated{Action: a} },
			associated.New(env),
		),
		engine.Scope(ScopeProfile,
			func(s *State) *profile.State { return &s.Profile },
			func(a Action) (profile.Action, bool) {
				f, ok := a.(Profile)
				return f.Action, ok
			},
			func(a profile.Action) Action { return Profile{Action: a} },
			profile.New(env),
		),
		engine.Scope(ScopeTranslator,
			func(s *State) *translator.State { return &s.Translator },
			func(a Action) (translator.Action, bool) {
				f, ok := a.(Translator)
				return f.Action, ok
			},
			func(a translator.Action) Action { return Translator{Action: a} },
			translator.New(env),
		),
	)
}

func reduce(_ *State, action Action) []engine.Effect[Action] {
	switch action.(type) {
	case Startup:
		return engine.Effects(
			dispatch(Translator{Action: translator.Load{}}),
			dispatch(Search{Action: search.FetchHistory{}}),
			dispatch(Search{Action: search.Filters{Action: filters.Fetch{}}}),
			dispatch(Watched{Action: watched.Filters{Action: filters.Fetch{}}}),
			dispatch(Search{Action: search.QuickSearch{Action: quicksearch.Fetch{}}}),
		)

	case Teardown:
		return engine.Effects(
			dispatch(Search{Action: search.Teardown{}}),
			dispatch(Watched{Action: watched.Teardown{}}),
			dispatch(Associated{Action: associated.Teardown{}}),
			dispatch(Profile{Action: profile.Teardown{}}),
			dispatch(Translator{Action: translator.Teardown{}}),
		)
	}
	return nil
}

func dispatch(a Action) engine.Effect[Action] {
	return engine.Dispatch(a)
}
