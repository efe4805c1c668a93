package engine

import (
	"fmt"
	"strings"
)

// Wrapper is implemented by actions that forward a child action.
// Describe follows Unwrap to render the full path.
type Wrapper interface {
	Unwrap() any
}

// Describe renders an action as a slash-joined path of type names,
// e.g. "app.Watched/watched.List/gallerylist.FetchDone".
func Describe(action any) string {
	var parts []string
	for action != nil {
		parts = append(parts, strings.TrimPrefix(fmt.Sprintf("%T", action), "*"))
		w, ok := action.(Wrapper)
		if !ok {
			break
		}
		action = w.Unwrap()
	}
	return strings.Join(parts, "/")
}
