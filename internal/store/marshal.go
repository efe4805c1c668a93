package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/panda/internal/ir"
)

// marshalCanonical converts v to canonical JSON TEXT for storage.
func marshalCanonical(what string, v any) (string, error) {
	data, err := ir.MarshalCanonical(v)
	if err != nil {
		return "", fmt.Errorf("marshal %s: %w", what, err)
	}
	return string(data), nil
}

// marshalTags stores a nil tag list as "[]" so reads round-trip to empty.
func marshalTags(tags []ir.Tag) (string, error) {
	if tags == nil {
		tags = []ir.Tag{}
	}
	return marshalCanonical("tags", tags)
}

func unmarshalTags(text string) ([]ir.Tag, error) {
	var tags []ir.Tag
	if err := json.Unmarshal([]byte(text), &tags); err != nil {
		return nil, fmt.Errorf("unmarshal tags: %w", err)
	}
	if len(tags) == 0 {
		return nil, nil
	}
	return tags, nil
}

func unmarshalFilter(text string) (ir.Filter, error) {
	var f ir.Filter
	if err := json.Unmarshal([]byte(text), &f); err != nil {
		return ir.Filter{}, fmt.Errorf("unmarshal filter: %w", err)
	}
	return f, nil
}
