package gallerylist

import (
	"context"
	"log/slog"

	"github.com/roach88/panda/internal/client"
	"github.com/roach88/panda/internal/ir"
	"github.com/roach88/panda/internal/paging"
)

// Source performs the list's page requests.
type Source interface {
	Fetch(ctx context.Context, keyword string) (ir.Page, error)
	FetchMore(ctx context.Context, keyword string, cursor paging.Cursor, lastID string) (ir.Page, error)
}

// NetworkSource fetches pages of one client.Source, reading the saved
// filter for Range from the database on every request.
type NetworkSource struct {
	Env    client.Env
	Source client.Source
	Range  ir.FilterRange
}

// Fetch implements Source.
func (n NetworkSource) Fetch(ctx context.Context, keyword string) (ir.Page, error) {
	return n.Env.Network.FetchPage(ctx, client.PageRequest{
		Source:  n.Source,
		Keyword: keyword,
		Filter:  n.filter(ctx),
	})
}

// FetchMore implements Source.
func (n NetworkSource) FetchMore(ctx context.Context, keyword string, cursor paging.Cursor, lastID string) (ir.Page, error) {
	return n.Env.Network.FetchPage(ctx, client.PageRequest{
		Source:  n.Source,
		Keyword: keyword,
		Filter:  n.filter(ctx),
		Cursor:  cursor,
		LastID:  lastID,
	})
}

// filter reads the seed filter. A failed read falls back to the default
// filter; the request still goes out.
func (n NetworkSource) filter(ctx context.Context) ir.Filter {
	if n.Env.Database == nil {
		return ir.DefaultFilter()
	}
	f, err := n.Env.Database.FetchFilter(ctx, n.Range)
	if err != nil {
		slog.Warn("filter read failed, using default", "range", string(n.Range), "error", err)
		return ir.DefaultFilter()
	}
	return f
}
