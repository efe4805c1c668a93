package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/roach88/panda/internal/ir"
)

// CachedGallery is a cached row plus the time it was last written.
type CachedGallery struct {
	ir.Gallery
	CachedAt time.Time
}

// CacheGalleries upserts galleries by gid. Later writes win.
func (s *Store) CacheGalleries(ctx context.Context, galleries []ir.Gallery) error {
	if len(galleries) == 0 {
		return nil
	}
	cachedAt := s.now().Unix()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO galleries
			(gid, token, title, category, uploader, rating, page_count, posted_at, cover_url, tags, cached_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(gid) DO UPDATE SET
				token = excluded.token,
				title = excluded.title,
				category = excluded.category,
				uploader = excluded.uploader,
				rating = excluded.rating,
				page_count = excluded.page_count,
				posted_at = excluded.posted_at,
				cover_url = excluded.cover_url,
				tags = excluded.tags,
				cached_at = excluded.cached_at
		`)
		if err != nil {
			return fmt.Errorf("cache galleries: %w", err)
		}
		defer stmt.Close()

		for _, g := range galleries {
			tags, err := marshalTags(g.Tags)
			if err != nil {
				return fmt.Errorf("cache gallery %s: %w", g.GID, err)
			}
			if _, err := stmt.ExecContext(ctx,
				g.GID,
				g.Token,
				g.Title,
				string(g.Category),
				g.Uploader,
				g.Rating,
				g.PageCount,
				g.PostedAt,
				g.CoverURL,
				tags,
				cachedAt,
			); err != nil {
				return fmt.Errorf("cache gallery %s: %w", g.GID, err)
			}
		}
		return nil
	})
}

// Gallery returns one cached gallery.
// Returns an ir.ErrNotFound error when the gid is not cached.
func (s *Store) Gallery(ctx context.Context, gid string) (CachedGallery, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT gid, token, title, category, uploader, rating, page_count, posted_at, cover_url, tags, cached_at
		FROM galleries
		WHERE gid = ?
	`, gid)
	g, err := scanGallery(row)
	if err == sql.ErrNoRows {
		return CachedGallery{}, ir.NewError(ir.ErrNotFound, fmt.Errorf("gallery %s not cached", gid))
	}
	return g, err
}

// RecentGalleries returns up to limit galleries, most recently cached first.
func (s *Store) RecentGalleries(ctx context.Context, limit int) ([]CachedGallery, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT gid, token, title, category, uploader, rating, page_count, posted_at, cover_url, tags, cached_at
		FROM galleries
		ORDER BY cached_at DESC, gid COLLATE BINARY ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query galleries: %w", err)
	}
	defer rows.Close()

	var out []CachedGallery
	for rows.Next() {
		g, err := scanGallery(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate galleries: %w", err)
	}
	return out, nil
}

// CountGalleries returns the number of cached galleries.
func (s *Store) CountGalleries(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM galleries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count galleries: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanGallery(row scanner) (CachedGallery, error) {
	var (
		g        CachedGallery
		category string
		tags     string
		cachedAt int64
	)
	err := row.Scan(
		&g.GID,
		&g.Token,
		&g.Title,
		&category,
		&g.Uploader,
		&g.Rating,
		&g.PageCount,
		&g.PostedAt,
		&g.CoverURL,
		&tags,
		&cachedAt,
	)
	if err == sql.ErrNoRows {
		return CachedGallery{}, err
	}
	if err != nil {
		return CachedGallery{}, fmt.Errorf("scan gallery: %w", err)
	}

	g.Category = ir.Category(category)
	g.CachedAt = time.Unix(cachedAt, 0)
	if g.Tags, err = unmarshalTags(tags); err != nil {
		return CachedGallery{}, fmt.Errorf("gallery %s: %w", g.GID, err)
	}
	return g, nil
}
