package ir

import (
	"encoding/json"
	"fmt"
	"sort"

	"golang.org/x/text/cases"
)

// TagNamespace is a tag namespace such as artist or female.
type TagNamespace string

// Known namespaces.
const (
	NamespaceReclass   TagNamespace = "reclass"
	NamespaceLanguage  TagNamespace = "language"
	NamespaceParody    TagNamespace = "parody"
	NamespaceCharacter TagNamespace = "character"
	NamespaceGroup     TagNamespace = "group"
	NamespaceArtist    TagNamespace = "artist"
	NamespaceMale      TagNamespace = "male"
	NamespaceFemale    TagNamespace = "female"
	NamespaceMixed     TagNamespace = "mixed"
	NamespaceCosplayer TagNamespace = "cosplayer"
	NamespaceOther     TagNamespace = "other"
	NamespaceTemp      TagNamespace = "temp"
)

var namespaces = map[TagNamespace]bool{
	NamespaceReclass: true, NamespaceLanguage: true, NamespaceParody: true,
	NamespaceCharacter: true, NamespaceGroup: true, NamespaceArtist: true,
	NamespaceMale: true, NamespaceFemale: true, NamespaceMixed: true,
	NamespaceCosplayer: true, NamespaceOther: true, NamespaceTemp: true,
}

// ParseTagNamespace validates a namespace string.
func ParseTagNamespace(s string) (TagNamespace, error) {
	ns := TagNamespace(s)
	if !namespaces[ns] {
		return "", fmt.Errorf("unknown tag namespace %q", s)
	}
	return ns, nil
}

// Display renders the namespace in title case.
func (ns TagNamespace) Display() string {
	return titleCase(string(ns))
}

// TagTranslation maps a tag key in a namespace to its translated name.
type TagTranslation struct {
	Namespace   TagNamespace `json:"namespace"`
	Key         string       `json:"key"`
	Value       string       `json:"value"`
	Description string       `json:"description,omitempty"`
}

// TranslationDatabase is one namespace section of a downloaded tag
// translation database.
type TranslationDatabase struct {
	Namespace string                     `json:"namespace"`
	Data      map[string]TranslationItem `json:"data"`
}

// TranslationItem is one entry of a TranslationDatabase.
type TranslationItem struct {
	Name  string `json:"name"`
	Intro string `json:"intro"`
	Links string `json:"links"`
}

// DecodeTranslationDatabases parses the downloaded JSON array.
func DecodeTranslationDatabases(data []byte) ([]TranslationDatabase, error) {
	var dbs []TranslationDatabase
	if err := json.Unmarshal(data, &dbs); err != nil {
		return nil, NewError(ErrParse, fmt.Errorf("decode tag translations: %w", err))
	}
	return dbs, nil
}

// Translations flattens a database section. Sections with an unknown
// namespace yield nothing. Output is sorted by key for determinism.
func (db TranslationDatabase) Translations() []TagTranslation {
	ns, err := ParseTagNamespace(db.Namespace)
	if err != nil {
		return nil
	}
	out := make([]TagTranslation, 0, len(db.Data))
	for key, item := range db.Data {
		out = append(out, TagTranslation{
			Namespace:   ns,
			Key:         key,
			Value:       item.Name,
			Description: item.Intro,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// FlattenTranslations flattens every section in order.
func FlattenTranslations(dbs []TranslationDatabase) []TagTranslation {
	var out []TagTranslation
	for _, db := range dbs {
		out = append(out, db.Translations()...)
	}
	return out
}

// TagTranslator looks up translations by namespace and case-folded key.
type TagTranslator struct {
	Language     string                    `json:"language,omitempty"`
	Translations map[string]TagTranslation `json:"translations,omitempty"`
}

func translatorKey(ns TagNamespace, key string) string {
	return string(ns) + ":" + cases.Fold().String(key)
}

// NewTagTranslator indexes translations.
func NewTagTranslator(language string, translations []TagTranslation) TagTranslator {
	m := make(map[string]TagTranslation, len(translations))
	for _, t := range translations {
		m[translatorKey(t.Namespace, t.Key)] = t
	}
	return TagTranslator{Language: language, Translations: m}
}

// Lookup returns the translation for tag, if any.
func (t TagTranslator) Lookup(tag Tag) (TagTranslation, bool) {
	tr, ok := t.Translations[translatorKey(tag.Namespace, tag.Content)]
	return tr, ok
}

// Translate returns the translated tag content or the content itself.
func (t TagTranslator) Translate(tag Tag) string {
	if tr, ok := t.Lookup(tag); ok && tr.Value != "" {
		return tr.Value
	}
	return tag.Content
}

// Len returns the number of indexed translations.
func (t TagTranslator) Len() int {
	return len(t.Translations)
}
