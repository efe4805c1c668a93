package paging

// DefaultPageSize is used when a cursor does not carry its own page size.
const DefaultPageSize = 25

// Cursor tracks the position of a paginated list.
//
// Total is the total item count reported by the source; nil means unknown.
// LastID is the continuation key the source handed back with the page, if
// any. Features fall back to the identity of the last loaded item when it
// is empty.
type Cursor struct {
	Index    int    `json:"index" yaml:"index"`
	Total    *int   `json:"total,omitempty" yaml:"total,omitempty"`
	PageSize int    `json:"page_size,omitempty" yaml:"page_size,omitempty"`
	LastID   string `json:"last_id,omitempty" yaml:"last_id,omitempty"`
}

// NewCursor returns a cursor at index with a known total.
func NewCursor(index, total int) Cursor {
	return Cursor{Index: index, Total: &total}
}

// size returns the effective page size.
func (c Cursor) size() int {
	if c.PageSize <= 0 {
		return DefaultPageSize
	}
	return c.PageSize
}

// LastIndex returns the index of the last page derived from Total.
// Returns -1 when the total is unknown.
func (c Cursor) LastIndex() int {
	if c.Total == nil {
		return -1
	}
	if *c.Total <= 0 {
		return 0
	}
	size := c.size()
	return (*c.Total+size-1)/size - 1
}

// HasNextPage reports whether another page may exist.
// An unknown total always has a next page.
func (c Cursor) HasNextPage() bool {
	if c.Total == nil {
		return true
	}
	return c.Index < c.LastIndex()
}

// ResetPages rewinds the cursor for a fresh fetch.
func (c *Cursor) ResetPages() {
	c.Index = 0
	c.Total = nil
	c.LastID = ""
}
