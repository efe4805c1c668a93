// Package store provides the SQLite-backed local cache behind
// client.Database.
//
// The cache holds:
//   - Galleries: rows seen in any list, upserted by gid
//   - Filters: one saved filter per range
//   - Quick search words: user-defined shortcuts in display order
//   - History keywords: searched keywords, most recent first
//   - Tag translations: flattened translation databases per language
//
// # Critical Patterns
//
// Deterministic Serialization:
//   - Structured columns (tags, filters) are RFC 8785 canonical JSON
//   - Identical values always produce identical TEXT
//
// Deterministic Query Results:
//   - Every list query has an explicit ORDER BY with a unique tiebreaker
//
// Best-Effort Writes:
//   - Callers run these methods inside effects; errors are returned for
//     logging and never reach feature state
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
