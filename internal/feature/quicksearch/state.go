// Package quicksearch manages saved search shortcuts: listing, editing,
// reordering, and syncing them to the database after every change.
package quicksearch

import (
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/roach88/panda/internal/ir"
)

// RouteKind names a quick search route.
type RouteKind string

// Quick search routes.
const (
	RouteNewWord    RouteKind = "new_word"
	RouteEditWord   RouteKind = "edit_word"
	RouteDeleteWord RouteKind = "delete_word"
)

// Route is the presented destination. Word is set for RouteDeleteWord.
type Route struct {
	Kind RouteKind          `json:"kind"`
	Word ir.QuickSearchWord `json:"word,omitzero"`
}

// FocusField is the focused text field of the word editor.
type FocusField string

// Editor fields.
const (
	FocusNone    FocusField = ""
	FocusName    FocusField = "name"
	FocusContent FocusField = "content"
)

// State is the quick search sheet.
type State struct {
	Route        *Route               `json:"route,omitempty"`
	FocusedField FocusField           `json:"focused_field,omitempty"`
	EditingWord  ir.QuickSearchWord   `json:"editing_word"`
	ListEditing  bool                 `json:"list_editing"`
	FilterText   string               `json:"filter_text,omitempty"`
	Loading      ir.LoadingState      `json:"loading"`
	Words        []ir.QuickSearchWord `json:"words"`
}

// index returns the position of the word with id, or -1.
func (s State) index(id string) int {
	for i, w := range s.Words {
		if w.ID == id {
			return i
		}
	}
	return -1
}

// VisibleWords returns the words whose name or content fuzzily matches
// FilterText, case-insensitively. An empty filter shows every word.
func (s State) VisibleWords() []ir.QuickSearchWord {
	if s.FilterText == "" {
		return s.Words
	}
	var out []ir.QuickSearchWord
	for _, w := range s.Words {
		if fuzzy.MatchNormalizedFold(s.FilterText, w.Name) || fuzzy.MatchNormalizedFold(s.FilterText, w.Content) {
			out = append(out, w)
		}
	}
	return out
}

// Clone copies the word list and route.
func (s State) Clone() State {
	s.Words = append([]ir.QuickSearchWord(nil), s.Words...)
	if s.Route != nil {
		r := *s.Route
		s.Route = &r
	}
	return s
}

// Action is a quick search action.
type Action interface{ isAction() }

type (
	// SetNavigation sets the route; nil clears it.
	SetNavigation struct{ Route *Route }
	// ClearSubStates resets the editor.
	ClearSubStates struct{}
	// SetFocus moves editor focus.
	SetFocus struct{ Field FocusField }
	// SetFilterText writes the list filter binding.
	SetFilterText struct{ Text string }
	// SyncWords writes the word list to the database.
	SyncWords struct{}
	// ToggleListEditing flips list edit mode.
	ToggleListEditing struct{}
	// SetEditingWord loads a word into the editor.
	SetEditingWord struct{ Word ir.QuickSearchWord }
	// AppendWord appends the editor's word.
	AppendWord struct{}
	// EditWord replaces the word with the editor's id.
	EditWord struct{}
	// DeleteWord removes a word.
	DeleteWord struct{ Word ir.QuickSearchWord }
	// DeleteWordsAt removes the words at offsets.
	DeleteWordsAt struct{ Offsets []int }
	// MoveWords moves the words at offsets before Destination, where
	// Destination indexes the list as it was before the move.
	MoveWords struct {
		Offsets     []int
		Destination int
	}
	// Teardown cancels the load.
	Teardown struct{}
	// Fetch loads the saved words.
	Fetch struct{}
	// FetchDone delivers the saved words.
	FetchDone struct{ Result ir.Result[[]ir.QuickSearchWord] }
)

func (SetNavigation) isAction()     {}
func (ClearSubStates) isAction()    {}
func (SetFocus) isAction()          {}
func (SetFilterText) isAction()     {}
func (SyncWords) isAction()         {}
func (ToggleListEditing) isAction() {}
func (SetEditingWord) isAction()    {}
func (AppendWord) isAction()        {}
func (EditWord) isAction()          {}
func (DeleteWord) isAction()        {}
func (DeleteWordsAt) isAction()     {}
func (MoveWords) isAction()         {}
func (Teardown) isAction()          {}
func (Fetch) isAction()             {}
func (FetchDone) isAction()         {}
