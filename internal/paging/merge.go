package paging

// Identifiable is implemented by list items that carry a stable identity.
type Identifiable interface {
	Identity() string
}

// Merge appends every item of incoming whose identity is not already in
// existing, in arrival order. Items already present keep their position.
//
// Duplicates inside incoming collapse onto their first occurrence, which is
// what makes Merge(Merge(s, p), p) == Merge(s, p).
//
// The result is always a new slice; existing is never written to.
// added is the number of items appended.
func Merge[T Identifiable](existing, incoming []T) (merged []T, added int) {
	seen := make(map[string]struct{}, len(existing)+len(incoming))
	merged = make([]T, len(existing), len(existing)+len(incoming))
	copy(merged, existing)
	for _, item := range existing {
		seen[item.Identity()] = struct{}{}
	}

	for _, item := range incoming {
		id := item.Identity()
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		merged = append(merged, item)
		added++
	}

	return merged, added
}

// Replace returns a copy of items with duplicate identities removed.
// Used when a primary fetch replaces the whole sequence.
func Replace[T Identifiable](items []T) []T {
	out, _ := Merge(nil, items)
	return out
}

// LastIdentity returns the identity of the last item, or "" when empty.
func LastIdentity[T Identifiable](items []T) string {
	if len(items) == 0 {
		return ""
	}
	return items[len(items)-1].Identity()
}
