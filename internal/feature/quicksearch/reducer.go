package quicksearch

import (
	"context"
	"sort"

	"github.com/roach88/panda/internal/client"
	"github.com/roach88/panda/internal/engine"
	"github.com/roach88/panda/internal/ir"
	"github.com/roach88/panda/internal/paging"
)

// RoleFetch is the cancel role of the word load.
const RoleFetch = "fetch"

// Reducer reduces the quick search sheet.
type Reducer struct {
	env client.Env
}

// New creates the reducer.
func New(env client.Env) *Reducer {
	return &Reducer{env: env}
}

func syncWords() []engine.Effect[Action] {
	return engine.Effects(engine.Dispatch[Action](SyncWords{}))
}

// Reduce implements engine.Reducer.
func (r *Reducer) Reduce(s *State, action Action) []engine.Effect[Action] {
	switch a := action.(type) {
	case SetNavigation:
		if a.Route == nil {
			s.Route = nil
			clearSubStates(s)
			return nil
		}
		route := *a.Route
		s.Route = &route
		return nil

	case ClearSubStates:
		clearSubStates(s)
		return nil

	case SetFocus:
		s.FocusedField = a.Field
		return nil

	case SetFilterText:
		s.FilterText = a.Text
		return nil

	case SyncWords:
		words := append([]ir.QuickSearchWord(nil), s.Words...)
		return engine.Effects(engine.Fire[Action](func(ctx context.Context) error {
			return r.env.Database.UpdateQuickSearchWords(ctx, words)
		}).Named("sync_quick_search_words"))

	case ToggleListEditing:
		s.ListEditing = !s.ListEditing
		return nil

	case SetEditingWord:
		s.EditingWord = a.Word
		return nil

	case AppendWord:
		w := s.EditingWord
		if w.IsEmpty() {
			return nil
		}
		// The editor may hold a copy of a saved word.
		if w.ID == "" || s.index(w.ID) >= 0 {
			w.ID = ir.NewQuickSearchWord().ID
		}
		s.Words = append(append([]ir.QuickSearchWord(nil), s.Words...), w)
		return syncWords()

	case EditWord:
		i := s.index(s.EditingWord.ID)
		if i < 0 {
			return nil
		}
		words := append([]ir.QuickSearchWord(nil), s.Words...)
		words[i] = s.EditingWord
		s.Words = words
		return syncWords()

	case DeleteWord:
		kept := make([]ir.QuickSearchWord, 0, len(s.Words))
		for _, w := range s.Words {
			if w != a.Word {
				kept = append(kept, w)
			}
		}
		s.Words = kept
		return syncWords()

	case DeleteWordsAt:
		s.Words = removeOffsets(s.Words, a.Offsets)
		return syncWords()

	case MoveWords:
		s.Words = moveOffsets(s.Words, a.Offsets, a.Destination)
		return syncWords()

	case Teardown:
		if s.Loading.IsLoading() {
			s.Loading = ir.Idle()
		}
		return engine.Effects(engine.Cancel[Action](engine.Key(RoleFetch)))

	case Fetch:
		if s.Loading.IsLoading() {
			return nil
		}
		s.Loading = ir.Loading()
		return engine.Effects(
			engine.Task(func(ctx context.Context) Action {
				return FetchDone{Result: ir.ResultOf(r.env.Database.FetchQuickSearchWords(ctx))}
			}).Cancellable(engine.Key(RoleFetch), true).Named("fetch_quick_search_words"),
		)

	case FetchDone:
		s.Loading = ir.Idle()
		if !a.Result.IsOK() {
			s.Loading = ir.FromError(a.Result.Err)
			return nil
		}
		s.Words = paging.Replace(a.Result.Value)
		return nil
	}
	return nil
}

func clearSubStates(s *State) {
	s.FocusedField = FocusNone
	s.EditingWord = ir.QuickSearchWord{}
}

// offsetSet returns the valid offsets, sorted and deduplicated.
func offsetSet(n int, offsets []int) []int {
	seen := make(map[int]bool, len(offsets))
	out := make([]int, 0, len(offsets))
	for _, o := range offsets {
		if o >= 0 && o < n && !seen[o] {
			seen[o] = true
			out = append(out, o)
		}
	}
	sort.Ints(out)
	return out
}

func removeOffsets[T any](items []T, offsets []int) []T {
	drop := offsetSet(len(items), offsets)
	out := make([]T, 0, len(items)-len(drop))
	j := 0
	for i, it := range items {
		if j < len(drop) && drop[j] == i {
			j++
			continue
		}
		out = append(out, it)
	}
	return out
}

// moveOffsets moves the items at offsets, keeping their relative order,
// so they end up in front of the item that was at dest. dest == len(items)
// moves them to the end.
func moveOffsets[T any](items []T, offsets []int, dest int) []T {
	moving := offsetSet(len(items), offsets)
	if len(moving) == 0 {
		return items
	}
	dest = max(0, min(dest, len(items)))

	moved := make([]T, 0, len(moving))
	before := 0
	for _, o := range moving {
		moved = append(moved, items[o])
		if o < dest {
			before++
		}
	}
	rest := removeOffsets(items, moving)
	at := dest - before

	out := make([]T, 0, len(items))
	out = append(out, rest[:at]...)
	out = append(out, moved...)
	out = append(out, rest[at:]...)
	return out
}
