package ir

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// AssociatedKeyword identifies a related-galleries list: either a free
// title or a tag (category + content).
type AssociatedKeyword struct {
	Category string `json:"category,omitempty" yaml:"category,omitempty"`
	Content  string `json:"content,omitempty" yaml:"content,omitempty"`
	Title    string `json:"title,omitempty" yaml:"title,omitempty"`
}

// IsZero reports whether the keyword is empty.
func (k AssociatedKeyword) IsZero() bool {
	return k == AssociatedKeyword{}
}

// Query renders the keyword as a search query.
func (k AssociatedKeyword) Query() string {
	if k.Title != "" {
		return k.Title
	}
	if k.Category == "" {
		return k.Content
	}
	return Tag{Namespace: TagNamespace(k.Category), Content: k.Content}.String()
}

// DisplayTitle is the navigation title of the associated list.
// A title wins; otherwise known namespaces and languages are rendered in
// title case and unknown values verbatim: `Category: "Content"`.
func (k AssociatedKeyword) DisplayTitle() string {
	if k.Title != "" {
		return k.Title
	}

	category := k.Category
	if ns, err := ParseTagNamespace(k.Category); err == nil {
		category = ns.Display()
	}

	content := k.Content
	if lang, ok := knownLanguages[strings.ToLower(k.Content)]; ok {
		content = lang
	}

	return category + `: "` + content + `"`
}

// titleCase returns s in English title case. Casers are stateful, so each
// call gets its own.
func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

// knownLanguages maps lower-case language tags to their display name.
var knownLanguages = func() map[string]string {
	names := []string{
		"japanese", "english", "chinese", "dutch", "french", "german",
		"hungarian", "italian", "korean", "polish", "portuguese",
		"russian", "spanish", "thai", "vietnamese",
	}
	m := make(map[string]string, len(names))
	for _, n := range names {
		m[n] = titleCase(n)
	}
	return m
}()
