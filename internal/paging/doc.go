// Package paging holds the pagination cursor and the list merge policy
// shared by every paginated feature.
//
// Merge is append-only and identity-deduplicating. It never reorders items
// that are already present and always returns a fresh slice, so state
// published by the engine is never mutated behind an observer's back.
package paging
