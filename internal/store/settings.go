package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/panda/internal/ir"
)

// FetchFilter returns the saved filter for r, or ir.DefaultFilter().
func (s *Store) FetchFilter(ctx context.Context, r ir.FilterRange) (ir.Filter, error) {
	var text string
	err := s.db.QueryRowContext(ctx, `
		SELECT filter FROM filters WHERE range_name = ?
	`, string(r)).Scan(&text)
	if err == sql.ErrNoRows {
		return ir.DefaultFilter(), nil
	}
	if err != nil {
		return ir.Filter{}, fmt.Errorf("fetch filter %s: %w", r, err)
	}
	return unmarshalFilter(text)
}

// UpdateFilter saves f for r.
func (s *Store) UpdateFilter(ctx context.Context, r ir.FilterRange, f ir.Filter) error {
	text, err := marshalCanonical("filter", f)
	if err != nil {
		return fmt.Errorf("update filter %s: %w", r, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO filters (range_name, filter) VALUES (?, ?)
		ON CONFLICT(range_name) DO UPDATE SET filter = excluded.filter
	`, string(r), text)
	if err != nil {
		return fmt.Errorf("update filter %s: %w", r, err)
	}
	return nil
}

// FetchQuickSearchWords returns saved words in display order.
// Returns an empty slice (not nil) when none are saved.
func (s *Store) FetchQuickSearchWords(ctx context.Context) ([]ir.QuickSearchWord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, content
		FROM quick_search_words
		ORDER BY position ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query quick search words: %w", err)
	}
	defer rows.Close()

	words := []ir.QuickSearchWord{}
	for rows.Next() {
		var w ir.QuickSearchWord
		if err := rows.Scan(&w.ID, &w.Name, &w.Content); err != nil {
			return nil, fmt.Errorf("scan quick search word: %w", err)
		}
		words = append(words, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quick search words: %w", err)
	}
	return words, nil
}

// UpdateQuickSearchWords replaces the saved words with words, in order.
func (s *Store) UpdateQuickSearchWords(ctx context.Context, words []ir.QuickSearchWord) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM quick_search_words`); err != nil {
			return fmt.Errorf("clear quick search words: %w", err)
		}
		for i, w := range words {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO quick_search_words (id, position, name, content)
				VALUES (?, ?, ?, ?)
				ON CONFLICT(id) DO NOTHING
			`, w.ID, i, w.Name, w.Content); err != nil {
				return fmt.Errorf("insert quick search word %s: %w", w.ID, err)
			}
		}
		return nil
	})
}

// AppendHistoryKeyword records keyword as the most recent search. Repeats
// move to the front; history is capped at MaxHistoryKeywords.
func (s *Store) AppendHistoryKeyword(ctx context.Context, keyword string) error {
	if keyword == "" {
		return nil
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO history_keywords (keyword, seq)
			VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM history_keywords))
			ON CONFLICT(keyword) DO UPDATE SET seq = excluded.seq
		`, keyword); err != nil {
			return fmt.Errorf("append history keyword: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM history_keywords
			WHERE keyword NOT IN (
				SELECT keyword FROM history_keywords ORDER BY seq DESC LIMIT ?
			)
		`, MaxHistoryKeywords); err != nil {
			return fmt.Errorf("trim history keywords: %w", err)
		}
		return nil
	})
}

// FetchHistoryKeywords returns up to limit keywords, newest first.
func (s *Store) FetchHistoryKeywords(ctx context.Context, limit int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT keyword FROM history_keywords ORDER BY seq DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query history keywords: %w", err)
	}
	defer rows.Close()

	keywords := []string{}
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scan history keyword: %w", err)
		}
		keywords = append(keywords, k)
	}
	return keywords, rows.Err()
}
