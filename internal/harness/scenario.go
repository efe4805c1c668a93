package harness

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/panda/internal/client"
	"github.com/roach88/panda/internal/ir"
	"github.com/roach88/panda/internal/paging"
	"github.com/roach88/panda/internal/testutil"
)

// DefaultFlowPrefix names flows when a scenario does not set one.
const DefaultFlowPrefix = "flow"

// Scenario is a scripted run of the application store.
type Scenario struct {
	// Name uniquely identifies this scenario. It names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario checks.
	Description string `yaml:"description"`

	// FlowPrefix prefixes the deterministic flow tokens.
	FlowPrefix string `yaml:"flow_prefix,omitempty"`

	// Language selects the tag translation language. Defaults to the
	// client default.
	Language string `yaml:"language,omitempty"`

	// MaxSteps overrides the per-flow quota. Zero keeps the store default.
	MaxSteps int `yaml:"max_steps,omitempty"`

	// Network scripts the gallery source.
	Network NetworkScript `yaml:"network,omitempty"`

	// Database seeds the local cache before the first step.
	Database DatabaseSeed `yaml:"database,omitempty"`

	// Steps are sent in order. Each step runs to completion before the
	// next one is sent.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final trace and state.
	Assertions []Assertion `yaml:"assertions"`
}

// NetworkScript holds the scripted source replies.
type NetworkScript struct {
	Pages        []PageReply        `yaml:"pages,omitempty"`
	Details      []DetailReply      `yaml:"details,omitempty"`
	Profile      []ProfileReply     `yaml:"profile,omitempty"`
	Translations []TranslationReply `yaml:"translations,omitempty"`
}

// PageReply answers one page request. Replies with the same source,
// keyword and last id are returned in order; the last one repeats.
type PageReply struct {
	Source  string `yaml:"source"`
	Keyword string `yaml:"keyword,omitempty"`
	LastID  string `yaml:"last_id,omitempty"`

	Cursor    paging.Cursor `yaml:"cursor,omitempty"`
	Galleries []ir.Gallery  `yaml:"galleries,omitempty"`

	// Generate appends testutil.Galleries(From, Count) to Galleries.
	Generate *Generate `yaml:"generate,omitempty"`

	// Error makes the request fail with this error kind.
	Error string `yaml:"error,omitempty"`
}

// Generate describes a run of fixture galleries.
type Generate struct {
	From  int `yaml:"from"`
	Count int `yaml:"count"`
}

// DetailReply answers a gallery detail request.
type DetailReply struct {
	GID    string           `yaml:"gid"`
	Detail ir.GalleryDetail `yaml:"detail,omitempty"`
	Error  string           `yaml:"error,omitempty"`
}

// ProfileReply answers a profile request.
type ProfileReply struct {
	Profile ir.Profile `yaml:"profile,omitempty"`
	Error   string     `yaml:"error,omitempty"`
}

// TranslationReply answers a tag translation download.
type TranslationReply struct {
	Language string `yaml:"language"`
	Raw      string `yaml:"raw,omitempty"`
	Error    string `yaml:"error,omitempty"`
}

// DatabaseSeed is written to the cache before the scenario runs.
type DatabaseSeed struct {
	Filters   map[string]ir.Filter `yaml:"filters,omitempty"`
	Words     []ir.QuickSearchWord `yaml:"words,omitempty"`
	History   []string             `yaml:"history,omitempty"`
	Galleries []ir.Gallery         `yaml:"galleries,omitempty"`
}

// Step sends one named intent. Args are decoded by the intent.
type Step struct {
	Send string    `yaml:"send"`
	Args yaml.Node `yaml:"args,omitempty"`
}

// Assertion validates the trace or the final state.
type Assertion struct {
	// Type selects the check. See the package documentation.
	Type string `yaml:"type"`

	// Action names an action (trace_contains, trace_count).
	Action string `yaml:"action,omitempty"`

	// Kind narrows trace matches to one event kind. Defaults to reduce.
	Kind string `yaml:"kind,omitempty"`

	// Actions is the expected order (trace_order) or call list (requests).
	Actions []string `yaml:"actions,omitempty"`

	// Count is the expected number of matches (trace_count, requests,
	// cached).
	Count *int `yaml:"count,omitempty"`

	// Path addresses a value in the final state (final_state).
	Path string `yaml:"path,omitempty"`

	// Equals is the expected value at Path (final_state).
	Equals any `yaml:"equals,omitempty"`

	// Len is the expected length of the list or object at Path
	// (final_state).
	Len *int `yaml:"len,omitempty"`

	// Absent expects Path to be missing or null (final_state).
	Absent bool `yaml:"absent,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertFinalState    = "final_state"
	AssertRequests      = "requests"
	AssertCached        = "cached"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed, contains
// unknown fields, fails the schema or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses a scenario document.
func ParseScenario(data []byte) (*Scenario, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}

	// Strict decoding catches typos the open parts of the schema let
	// through, like "galeries:" inside a page.
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// LoadScenarios loads every .yaml and .yml file under dir, sorted by path.
func LoadScenarios(dir string) ([]*Scenario, error) {
	paths, err := FindScenarioFiles(dir)
	if err != nil {
		return nil, err
	}
	scenarios := make([]*Scenario, 0, len(paths))
	for _, path := range paths {
		s, err := LoadScenario(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// FindScenarioFiles walks dir and returns all scenario file paths.
// A file path is returned as the only element.
func FindScenarioFiles(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("scenario path: %w", err)
	}
	if !info.IsDir() {
		return []string{dir}, nil
	}

	var files []string
	err = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	return files, nil
}

// validateScenario checks what the schema cannot: references to intents,
// sources and error kinds.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, p := range s.Network.Pages {
		if _, err := client.ParseSource(p.Source); err != nil {
			return fmt.Errorf("network.pages[%d]: %w", i, err)
		}
		if err := validateErrorKind(p.Error); err != nil {
			return fmt.Errorf("network.pages[%d]: %w", i, err)
		}
	}
	for i, d := range s.Network.Details {
		if d.GID == "" {
			return fmt.Errorf("network.details[%d]: gid is required", i)
		}
		if err := validateErrorKind(d.Error); err != nil {
			return fmt.Errorf("network.details[%d]: %w", i, err)
		}
	}
	for i, p := range s.Network.Profile {
		if err := validateErrorKind(p.Error); err != nil {
			return fmt.Errorf("network.profile[%d]: %w", i, err)
		}
	}
	for i, t := range s.Network.Translations {
		if err := validateErrorKind(t.Error); err != nil {
			return fmt.Errorf("network.translations[%d]: %w", i, err)
		}
	}
	for r := range s.Database.Filters {
		if _, err := ir.ParseFilterRange(r); err != nil {
			return fmt.Errorf("database.filters: %w", err)
		}
	}

	for i, step := range s.Steps {
		if _, ok := intents[step.Send]; !ok {
			return fmt.Errorf("steps[%d]: unknown intent %q", i, step.Send)
		}
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}
	return nil
}

func validateErrorKind(kind string) error {
	if kind == "" {
		return nil
	}
	_, err := ir.ParseErrorKind(kind)
	return err
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertTraceContains:
		if a.Action == "" {
			return fmt.Errorf("assertions[%d]: action is required for trace_contains", index)
		}
	case AssertTraceOrder:
		if len(a.Actions) == 0 {
			return fmt.Errorf("assertions[%d]: actions list is required for trace_order", index)
		}
	case AssertTraceCount:
		if a.Action == "" {
			return fmt.Errorf("assertions[%d]: action is required for trace_count", index)
		}
		if a.Count == nil || *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertFinalState:
		if a.Path == "" {
			return fmt.Errorf("assertions[%d]: path is required for final_state", index)
		}
		set := 0
		if a.Equals != nil {
			set++
		}
		if a.Len != nil {
			set++
		}
		if a.Absent {
			set++
		}
		if set != 1 {
			return fmt.Errorf("assertions[%d]: final_state needs exactly one of equals, len or absent", index)
		}
	case AssertRequests:
		if a.Count == nil && a.Actions == nil {
			return fmt.Errorf("assertions[%d]: requests needs count or actions", index)
		}
	case AssertCached:
		if a.Count == nil {
			return fmt.Errorf("assertions[%d]: count is required for cached", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}

// script installs the network replies on n.
func (ns NetworkScript) script(n *testutil.ScriptedNetwork) {
	for _, p := range ns.Pages {
		key := testutil.PageKey{Source: client.Source(p.Source), Keyword: p.Keyword, LastID: p.LastID}
		if p.Error != "" {
			n.OnPageError(key, scriptedError(p.Error, "page %s %q", p.Source, p.Keyword))
			continue
		}
		galleries := append([]ir.Gallery{}, p.Galleries...)
		if p.Generate != nil {
			galleries = append(galleries, testutil.Galleries(p.Generate.From, p.Generate.Count)...)
		}
		n.OnPage(key, ir.Page{Cursor: p.Cursor, Galleries: galleries})
	}
	for _, d := range ns.Details {
		detail := d.Detail
		if detail.Gallery.GID == "" {
			detail.Gallery.GID = d.GID
		}
		n.OnDetail(d.GID, detail, optionalError(d.Error, "detail %s", d.GID))
	}
	for _, p := range ns.Profile {
		n.OnProfile(p.Profile, optionalError(p.Error, "profile"))
	}
	for _, t := range ns.Translations {
		n.OnTranslations(t.Language, []byte(t.Raw), optionalError(t.Error, "translations %s", t.Language))
	}
}

func optionalError(kind, format string, args ...any) error {
	if kind == "" {
		return nil
	}
	return scriptedError(kind, format, args...)
}

func scriptedError(kind, format string, args ...any) error {
	return ir.NewError(ir.ErrorKind(kind), errors.New("scripted: "+fmt.Sprintf(format, args...)))
}
