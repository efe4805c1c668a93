package ir

import "github.com/google/uuid"

// QuickSearchWord is a saved search shortcut.
type QuickSearchWord struct {
	ID      string `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Content string `json:"content" yaml:"content"`
}

// Identity implements paging.Identifiable.
func (w QuickSearchWord) Identity() string { return w.ID }

// NewQuickSearchWord returns an empty word with a fresh id.
func NewQuickSearchWord() QuickSearchWord {
	return QuickSearchWord{ID: uuid.NewString()}
}

// IsEmpty reports whether the word has neither name nor content.
func (w QuickSearchWord) IsEmpty() bool {
	return w.Name == "" && w.Content == ""
}
