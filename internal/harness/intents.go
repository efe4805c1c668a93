package harness

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roach88/panda/internal/feature/app"
	"github.com/roach88/panda/internal/feature/associated"
	"github.com/roach88/panda/internal/feature/detail"
	"github.com/roach88/panda/internal/feature/filters"
	"github.com/roach88/panda/internal/feature/galleryinfos"
	"github.com/roach88/panda/internal/feature/gallerylist"
	"github.com/roach88/panda/internal/feature/profile"
	"github.com/roach88/panda/internal/feature/quicksearch"
	"github.com/roach88/panda/internal/feature/search"
	"github.com/roach88/panda/internal/feature/translator"
	"github.com/roach88/panda/internal/feature/watched"
	"github.com/roach88/panda/internal/ir"
)

// intent builds the actions a scenario step sends. Most intents send one
// action; editor intents send the binding update first.
type intent func(args *yaml.Node) ([]app.Action, error)

type navigateArgs struct {
	Route string `yaml:"route"`
	GID   string `yaml:"gid"`
}

type gidArgs struct {
	GID string `yaml:"gid"`
}

type keywordArgs struct {
	Keyword string `yaml:"keyword"`
}

type depthArgs struct {
	Depth    int    `yaml:"depth"`
	Category string `yaml:"category"`
	Content  string `yaml:"content"`
	Title    string `yaml:"title"`
}

func (a depthArgs) keyword() ir.AssociatedKeyword {
	return ir.AssociatedKeyword{Category: a.Category, Content: a.Content, Title: a.Title}
}

type detailArgs struct {
	// Depth addresses a nested related detail; 0 is the top level.
	Depth    int    `yaml:"depth"`
	Route    string `yaml:"route"`
	GID      string `yaml:"gid"`
	Category string `yaml:"category"`
	Content  string `yaml:"content"`
	Text     string `yaml:"text"`
}

type wordArgs struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	Content string `yaml:"content"`
}

type offsetsArgs struct {
	Offsets     []int `yaml:"offsets"`
	Destination int   `yaml:"destination"`
}

type filterArgs struct {
	Range  string    `yaml:"range"`
	Filter ir.Filter `yaml:"filter"`
}

var intents = map[string]intent{
	"app.startup":  send(app.Startup{}),
	"app.teardown": send(app.Teardown{}),

	"watched.fetch":      send(watchedList(gallerylist.Fetch{})),
	"watched.fetch_more": send(watchedList(gallerylist.FetchMore{})),
	"watched.teardown":   send(app.Watched{Action: watched.Teardown{}}),
	"watched.clear":      send(app.Watched{Action: watched.ClearSubStates{}}),
	"watched.navigate": withArgs(func(a navigateArgs) ([]app.Action, error) {
		var route *watched.Route
		if a.Route != "" {
			route = &watched.Route{Kind: watched.RouteKind(a.Route), GID: a.GID}
		}
		return one(app.Watched{Action: watched.SetNavigation{Route: route}}), nil
	}),
	"watched.detail": withArgs(func(a detailArgs) ([]app.Action, error) {
		act, err := detailAction(a)
		if err != nil {
			return nil, err
		}
		return one(app.Watched{Action: watched.Detail{Action: act}}), nil
	}),

	"search.search": withArgs(func(a keywordArgs) ([]app.Action, error) {
		return one(app.Search{Action: search.Search{Keyword: a.Keyword}}), nil
	}),
	"search.fetch_more": send(app.Search{Action: search.List{Action: gallerylist.FetchMore{}}}),
	"search.history":    send(app.Search{Action: search.FetchHistory{}}),
	"search.teardown":   send(app.Search{Action: search.Teardown{}}),
	"search.clear":      send(app.Search{Action: search.ClearSubStates{}}),
	"search.navigate": withArgs(func(a navigateArgs) ([]app.Action, error) {
		var route *search.Route
		if a.Route != "" {
			route = &search.Route{Kind: search.RouteKind(a.Route), GID: a.GID}
		}
		return one(app.Search{Action: search.SetNavigation{Route: route}}), nil
	}),
	"search.detail": withArgs(func(a detailArgs) ([]app.Action, error) {
		act, err := detailAction(a)
		if err != nil {
			return nil, err
		}
		return one(app.Search{Action: search.Detail{Action: act}}), nil
	}),

	"filters.fetch": send(app.Search{Action: search.Filters{Action: filters.Fetch{}}}),
	"filters.set": withArgs(func(a filterArgs) ([]app.Action, error) {
		r, err := ir.ParseFilterRange(a.Range)
		if err != nil {
			return nil, err
		}
		return one(app.Search{Action: search.Filters{Action: filters.SetFilter{Range: r, Filter: a.Filter}}}), nil
	}),
	"filters.reset": send(app.Search{Action: search.Filters{Action: filters.Reset{}}}),

	"quick_search.fetch": send(quickSearch(quicksearch.Fetch{})),
	"quick_search.append": withArgs(func(a wordArgs) ([]app.Action, error) {
		return []app.Action{
			quickSearch(quicksearch.SetEditingWord{Word: ir.QuickSearchWord{ID: a.ID, Name: a.Name, Content: a.Content}}),
			quickSearch(quicksearch.AppendWord{}),
		}, nil
	}),
	"quick_search.edit": withArgs(func(a wordArgs) ([]app.Action, error) {
		if a.ID == "" {
			return nil, fmt.Errorf("id is required")
		}
		return []app.Action{
			quickSearch(quicksearch.SetEditingWord{Word: ir.QuickSearchWord{ID: a.ID, Name: a.Name, Content: a.Content}}),
			quickSearch(quicksearch.EditWord{}),
		}, nil
	}),
	"quick_search.delete_at": withArgs(func(a offsetsArgs) ([]app.Action, error) {
		return one(quickSearch(quicksearch.DeleteWordsAt{Offsets: a.Offsets})), nil
	}),
	"quick_search.move": withArgs(func(a offsetsArgs) ([]app.Action, error) {
		return one(quickSearch(quicksearch.MoveWords{Offsets: a.Offsets, Destination: a.Destination})), nil
	}),

	"associated.fetch": withArgs(func(a depthArgs) ([]app.Action, error) {
		return one(app.Associated{Action: associated.Fetch{Depth: a.Depth, Keyword: a.keyword()}}), nil
	}),
	"associated.fetch_if_needed": withArgs(func(a depthArgs) ([]app.Action, error) {
		return one(app.Associated{Action: associated.FetchIfNeeded{Depth: a.Depth, Keyword: a.keyword()}}), nil
	}),
	"associated.fetch_more": withArgs(func(a depthArgs) ([]app.Action, error) {
		return one(app.Associated{Action: associated.FetchMore{Depth: a.Depth, Keyword: a.keyword()}}), nil
	}),
	"associated.truncate": withArgs(func(a depthArgs) ([]app.Action, error) {
		return one(app.Associated{Action: associated.Truncate{Depth: a.Depth}}), nil
	}),
	"associated.teardown": send(app.Associated{Action: associated.Teardown{}}),

	"profile.fetch":    send(app.Profile{Action: profile.Fetch{}}),
	"profile.submit":   send(app.Profile{Action: profile.Submit{}}),
	"profile.teardown": send(app.Profile{Action: profile.Teardown{}}),

	"translator.load":  send(app.Translator{Action: translator.Load{}}),
	"translator.fetch": send(app.Translator{Action: translator.Fetch{}}),
}

// Intents returns the known intent names, sorted.
func Intents() []string {
	names := make([]string, 0, len(intents))
	for name := range intents {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// actionsFor builds the actions of one step.
func actionsFor(step Step) ([]app.Action, error) {
	build, ok := intents[step.Send]
	if !ok {
		return nil, fmt.Errorf("unknown intent %q", step.Send)
	}
	actions, err := build(&step.Args)
	if err != nil {
		return nil, fmt.Errorf("intent %s: %w", step.Send, err)
	}
	return actions, nil
}

func detailAction(a detailArgs) (detail.Action, error) {
	var act detail.Action
	switch a.Route {
	case "fetch":
		if a.GID == "" {
			return nil, fmt.Errorf("gid is required")
		}
		act = detail.Fetch{GID: a.GID}
	case "":
		act = detail.SetNavigation{}
	case "copy":
		act = detail.Infos{Action: galleryinfos.CopyText{Text: a.Text}}
	case string(detail.RouteInfos):
		act = detail.SetNavigation{Route: &detail.Route{Kind: detail.RouteInfos}}
	case string(detail.RouteAssociated):
		act = detail.SetNavigation{Route: &detail.Route{
			Kind:    detail.RouteAssociated,
			Keyword: ir.AssociatedKeyword{Category: a.Category, Content: a.Content},
		}}
	case string(detail.RouteRelated):
		act = detail.SetNavigation{Route: &detail.Route{Kind: detail.RouteRelated, GID: a.GID}}
	default:
		return nil, fmt.Errorf("unknown detail route %q", a.Route)
	}
	return detail.At(a.Depth, act), nil
}

func watchedList(a gallerylist.Action) app.Action {
	return app.Watched{Action: watched.List{Action: a}}
}

func quickSearch(a quicksearch.Action) app.Action {
	return app.Search{Action: search.QuickSearch{Action: a}}
}

func one(a app.Action) []app.Action { return []app.Action{a} }

func send(a app.Action) intent {
	return func(*yaml.Node) ([]app.Action, error) { return one(a), nil }
}

func withArgs[T any](build func(T) ([]app.Action, error)) intent {
	return func(n *yaml.Node) ([]app.Action, error) {
		var args T
		if n != nil && n.Kind != 0 {
			if err := n.Decode(&args); err != nil {
				return nil, fmt.Errorf("decode args: %w", err)
			}
		}
		return build(args)
	}
}
