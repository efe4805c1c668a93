package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/panda/internal/engine"
	"github.com/roach88/panda/internal/ir"
)

// GoldenDir is where golden traces are stored, relative to the test's
// package directory.
const GoldenDir = "testdata/golden"

// TraceSnapshot captures the observable history of a scenario run.
// It is serialized as canonical JSON so goldens are byte-stable. The
// state digest is left out: any state field change would churn every
// golden, and state is checked by final_state assertions instead.
type TraceSnapshot struct {
	ScenarioName string              `json:"scenario_name"`
	Trace        []engine.TraceEvent `json:"trace"`
	Calls        []string            `json:"calls,omitempty"`
	Cached       int                 `json:"cached"`
}

// Snapshot builds the golden snapshot of a result.
func Snapshot(name string, result *Result) TraceSnapshot {
	return TraceSnapshot{
		ScenarioName: name,
		Trace:        result.Trace,
		Calls:        result.Calls,
		Cached:       result.Cached,
	}
}

// MarshalSnapshot returns the canonical JSON of a snapshot.
func MarshalSnapshot(s TraceSnapshot) ([]byte, error) {
	return ir.MarshalCanonical(s)
}

// RunWithGolden executes a scenario and compares the trace against a golden file.
// The golden file is stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the snapshot doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares the given result against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := MarshalSnapshot(Snapshot(scenarioName, result))
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir(GoldenDir),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)

	return nil
}
