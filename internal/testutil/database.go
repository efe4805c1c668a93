package testutil

import (
	"context"
	"sync"

	"github.com/roach88/panda/internal/client"
	"github.com/roach88/panda/internal/ir"
)

// MemoryDatabase is an in-memory client.Database.
//
// Setting FailWrites makes every write return that error, which is how
// tests check that cache failures never reach feature state.
type MemoryDatabase struct {
	mu           sync.Mutex
	galleries    map[string]ir.Gallery
	cached       []string
	filters      map[ir.FilterRange]ir.Filter
	words        []ir.QuickSearchWord
	history      []string
	translations map[string][]ir.TagTranslation

	FailWrites error
}

var _ client.Database = (*MemoryDatabase)(nil)

// NewMemoryDatabase creates an empty database.
func NewMemoryDatabase() *MemoryDatabase {
	return &MemoryDatabase{
		galleries:    make(map[string]ir.Gallery),
		filters:      make(map[ir.FilterRange]ir.Filter),
		translations: make(map[string][]ir.TagTranslation),
	}
}

func (d *MemoryDatabase) CacheGalleries(_ context.Context, galleries []ir.Gallery) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.FailWrites != nil {
		return d.FailWrites
	}
	for _, g := range galleries {
		if _, ok := d.galleries[g.GID]; !ok {
			d.cached = append(d.cached, g.GID)
		}
		d.galleries[g.GID] = g
	}
	return nil
}

// CachedGIDs returns cached gallery ids in first-cached order.
func (d *MemoryDatabase) CachedGIDs() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.cached...)
}

func (d *MemoryDatabase) FetchFilter(_ context.Context, r ir.FilterRange) (ir.Filter, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if f, ok := d.filters[r]; ok {
		return f, nil
	}
	return ir.DefaultFilter(), nil
}

func (d *MemoryDatabase) UpdateFilter(_ context.Context, r ir.FilterRange, f ir.Filter) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.FailWrites != nil {
		return d.FailWrites
	}
	d.filters[r] = f
	return nil
}

func (d *MemoryDatabase) FetchQuickSearchWords(context.Context) ([]ir.QuickSearchWord, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]ir.QuickSearchWord(nil), d.words...), nil
}

func (d *MemoryDatabase) UpdateQuickSearchWords(_ context.Context, words []ir.QuickSearchWord) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.FailWrites != nil {
		return d.FailWrites
	}
	d.words = append([]ir.QuickSearchWord(nil), words...)
	return nil
}

func (d *MemoryDatabase) AppendHistoryKeyword(_ context.Context, keyword string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.FailWrites != nil {
		return d.FailWrites
	}
	out := []string{keyword}
	for _, k := range d.history {
		if k != keyword {
			out = append(out, k)
		}
	}
	d.history = out
	return nil
}

func (d *MemoryDatabase) FetchHistoryKeywords(_ context.Context, limit int) ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := d.history
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return append([]string(nil), out...), nil
}

func (d *MemoryDatabase) SaveTagTranslations(_ context.Context, language string, translations []ir.TagTranslation) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.FailWrites != nil {
		return d.FailWrites
	}
	d.translations[language] = append([]ir.TagTranslation(nil), translations...)
	return nil
}

func (d *MemoryDatabase) FetchTagTranslations(_ context.Context, language string) ([]ir.TagTranslation, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]ir.TagTranslation(nil), d.translations[language]...), nil
}
