package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/panda/internal/ir"
)

// SaveTagTranslations replaces the cached translations for language.
func (s *Store) SaveTagTranslations(ctx context.Context, language string, translations []ir.TagTranslation) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM tag_translations WHERE language = ?
		`, language); err != nil {
			return fmt.Errorf("clear tag translations: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO tag_translations (language, namespace, key, value, description)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(language, namespace, key) DO UPDATE SET
				value = excluded.value,
				description = excluded.description
		`)
		if err != nil {
			return fmt.Errorf("save tag translations: %w", err)
		}
		defer stmt.Close()

		for _, t := range translations {
			if _, err := stmt.ExecContext(ctx,
				language, string(t.Namespace), t.Key, t.Value, t.Description,
			); err != nil {
				return fmt.Errorf("save tag translation %s:%s: %w", t.Namespace, t.Key, err)
			}
		}
		return nil
	})
}

// FetchTagTranslations returns the cached translations for language,
// ordered by namespace then key.
func (s *Store) FetchTagTranslations(ctx context.Context, language string) ([]ir.TagTranslation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT namespace, key, value, description
		FROM tag_translations
		WHERE language = ?
		ORDER BY namespace COLLATE BINARY ASC, key COLLATE BINARY ASC
	`, language)
	if err != nil {
		return nil, fmt.Errorf("query tag translations: %w", err)
	}
	defer rows.Close()

	var out []ir.TagTranslation
	for rows.Next() {
		var (
			t  ir.TagTranslation
			ns string
		)
		if err := rows.Scan(&ns, &t.Key, &t.Value, &t.Description); err != nil {
			return nil, fmt.Errorf("scan tag translation: %w", err)
		}
		t.Namespace = ir.TagNamespace(ns)
		out = append(out, t)
	}
	return out, rows.Err()
}
