package harness

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalScenario = `
name: minimal
description: "Fetch the profile"
network:
  profile:
    - profile: { name: tester }
steps:
  - send: profile.fetch
assertions:
  - type: trace_contains
    action: profile.FetchDone
`

func TestLoadScenario_ValidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "minimal.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalScenario), 0644))

	scenario, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "minimal", scenario.Name)
	assert.Equal(t, "Fetch the profile", scenario.Description)
	require.Len(t, scenario.Steps, 1)
	assert.Equal(t, "profile.fetch", scenario.Steps[0].Send)
	require.Len(t, scenario.Network.Profile, 1)
	assert.Equal(t, "tester", scenario.Network.Profile[0].Profile.Name)
	require.Len(t, scenario.Assertions, 1)
	assert.Equal(t, AssertTraceContains, scenario.Assertions[0].Type)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestParseScenario_PageScript(t *testing.T) {
	scenario, err := ParseScenario([]byte(`
name: pages
network:
  pages:
    - source: search
      keyword: "artist:foo"
      last_id: g024
      cursor: { index: 1, total: 50, last_id: c1 }
      galleries:
        - { gid: x1, title: "One" }
      generate: { from: 3, count: 2 }
    - source: watched
      error: not_found
steps:
  - send: search.search
    args: { keyword: "artist:foo" }
`))
	require.NoError(t, err)

	require.Len(t, scenario.Network.Pages, 2)
	p := scenario.Network.Pages[0]
	assert.Equal(t, "search", p.Source)
	assert.Equal(t, "g024", p.LastID)
	assert.Equal(t, 1, p.Cursor.Index)
	require.NotNil(t, p.Cursor.Total)
	assert.Equal(t, 50, *p.Cursor.Total)
	assert.Equal(t, "c1", p.Cursor.LastID)
	require.NotNil(t, p.Generate)
	assert.Equal(t, Generate{From: 3, Count: 2}, *p.Generate)
	assert.Equal(t, "not_found", scenario.Network.Pages[1].Error)
}

func TestParseScenario_SchemaRejectsUnknownField(t *testing.T) {
	_, err := ParseScenario([]byte(`
name: typo
steps:
  - send: profile.fetch
assertion:
  - type: trace_contains
    action: profile.Fetch
`))
	require.Error(t, err)

	var se *SchemaError
	require.True(t, errors.As(err, &se), "want SchemaError, got %v", err)
	assert.NotEmpty(t, se.Problems)
}

func TestParseScenario_SchemaRejectsUnknownSource(t *testing.T) {
	_, err := ParseScenario([]byte(`
name: bad_source
network:
  pages:
    - source: favorites
steps:
  - send: watched.fetch
`))
	require.Error(t, err)

	var se *SchemaError
	assert.True(t, errors.As(err, &se))
}

func TestParseScenario_SchemaRejectsUnknownErrorKind(t *testing.T) {
	_, err := ParseScenario([]byte(`
name: bad_error
network:
  pages:
    - source: watched
      error: teapot
steps:
  - send: watched.fetch
`))
	require.Error(t, err)
}

func TestParseScenario_RequiresSteps(t *testing.T) {
	_, err := ParseScenario([]byte(`
name: no_steps
steps: []
`))
	require.Error(t, err)
}

func TestParseScenario_UnknownIntent(t *testing.T) {
	_, err := ParseScenario([]byte(`
name: unknown_intent
steps:
  - send: watched.refresh
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown intent "watched.refresh"`)
}

func TestParseScenario_FinalStateNeedsExactlyOneCheck(t *testing.T) {
	_, err := ParseScenario([]byte(`
name: two_checks
steps:
  - send: watched.fetch
assertions:
  - type: final_state
    path: watched.list.galleries
    len: 1
    absent: true
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one of equals, len or absent")
}

func TestParseScenario_TraceCountNeedsCount(t *testing.T) {
	_, err := ParseScenario([]byte(`
name: no_count
steps:
  - send: watched.fetch
assertions:
  - type: trace_count
    action: gallerylist.Fetch
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "count must be non-negative")
}

func TestValidate_EmptyDocument(t *testing.T) {
	err := Validate([]byte(""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "document is empty")
}

func TestValidate_RejectsBadNameAndAssertionType(t *testing.T) {
	err := Validate([]byte(`
name: "Not Valid"
steps:
  - send: watched.fetch
assertions:
  - type: maybe
`))
	require.Error(t, err)

	var se *SchemaError
	require.True(t, errors.As(err, &se))
	assert.NotEmpty(t, se.Problems)
}

func TestValidate_TestdataScenarios(t *testing.T) {
	paths, err := FindScenarioFiles("testdata/scenarios")
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.NoError(t, Validate(data), path)
	}
}

func TestFindScenarioFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0755))
	for _, name := range []string{"a.yaml", "nested/b.yml", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(minimalScenario), 0644))
	}

	files, err := FindScenarioFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.yaml"),
		filepath.Join(dir, "nested", "b.yml"),
	}, files)

	single, err := FindScenarioFiles(filepath.Join(dir, "a.yaml"))
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.yaml")}, single)
}

func TestLoadScenarios_ReportsFailingFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "good.yaml"), []byte(minimalScenario), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("name: bad\nsteps: []\n"), 0644))

	_, err := LoadScenarios(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.yaml")
}

func TestIntents_Sorted(t *testing.T) {
	names := Intents()
	require.NotEmpty(t, names)
	assert.IsNonDecreasing(t, names)
	assert.Contains(t, names, "watched.fetch")
	assert.Contains(t, names, "app.startup")
}
