package testutil

import (
	"fmt"

	"github.com/roach88/panda/internal/ir"
	"github.com/roach88/panda/internal/paging"
)

// Galleries returns n galleries with ids g<from>..g<from+n-1>.
func Galleries(from, n int) []ir.Gallery {
	out := make([]ir.Gallery, n)
	for i := range out {
		id := from + i
		out[i] = ir.Gallery{
			GID:      fmt.Sprintf("g%03d", id),
			Token:    fmt.Sprintf("t%03d", id),
			Title:    fmt.Sprintf("Gallery %d", id),
			Category: ir.CategoryDoujinshi,
		}
	}
	return out
}

// Page builds a page at index of a list with total items.
func Page(index, total int, galleries []ir.Gallery) ir.Page {
	return ir.Page{Cursor: paging.NewCursor(index, total), Galleries: galleries}
}

// OpenPage builds a page whose total is unknown, so it always has a next
// page.
func OpenPage(galleries []ir.Gallery) ir.Page {
	return ir.Page{Galleries: galleries}
}
