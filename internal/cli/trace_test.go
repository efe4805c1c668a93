package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/panda/internal/engine"
)

var twoPages = filepath.Join("..", "harness", "testdata", "scenarios", "watched_two_pages.yaml")

func decodeTrace(t *testing.T, out string) TraceResult {
	t.Helper()
	var resp struct {
		Status string      `json:"status"`
		Data   TraceResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Equal(t, "ok", resp.Status)
	return resp.Data
}

func TestTraceCommandText(t *testing.T) {
	out, err := execute(t, NewTraceCommand(textOpts()), twoPages)
	require.NoError(t, err)

	assert.Contains(t, out, "Trace for scenario: watched_two_pages")
	assert.Contains(t, out, "[1] flow-0001 app.Watched/watched.List/gallerylist.Fetch")
	assert.Contains(t, out, "-> run(fetch_galleries watched/list#fetch)")
	assert.Contains(t, out, "[cancel] flow-0001 cancel(watched/list#fetch_more)")
	assert.Contains(t, out, "flow-0002: 2 reduced, 2 effects, from app.Watched/watched.List/gallerylist.FetchMore")
	assert.Contains(t, out, "Reduced:       4")
}

func TestTraceCommandJSON(t *testing.T) {
	out, err := execute(t, NewTraceCommand(jsonOpts()), twoPages)
	require.NoError(t, err)

	tr := decodeTrace(t, out)
	assert.Equal(t, "watched_two_pages", tr.Scenario)
	assert.Len(t, tr.Digest, 64)
	assert.Len(t, tr.Timeline, 5)
	assert.Equal(t, TraceStats{TotalEvents: 5, Reduced: 4, Cancels: 1}, tr.Stats)
	require.Len(t, tr.Flows, 2)
	assert.Equal(t, FlowStats{
		Flow:    "flow-0001",
		Root:    "app.Watched/watched.List/gallerylist.Fetch",
		Reduced: 2,
		Effects: 3,
	}, tr.Flows[0])
}

func TestTraceCommandFilters(t *testing.T) {
	out, err := execute(t, NewTraceCommand(jsonOpts()), twoPages, "--flow", "flow-0002")
	require.NoError(t, err)
	tr := decodeTrace(t, out)
	require.Len(t, tr.Timeline, 2)
	for _, ev := range tr.Timeline {
		assert.Equal(t, "flow-0002", ev.Flow)
	}
	assert.Equal(t, 5, tr.Stats.TotalEvents, "stats cover the whole trace")

	out, err = execute(t, NewTraceCommand(jsonOpts()), twoPages, "--action", "gallerylist.FetchDone")
	require.NoError(t, err)
	tr = decodeTrace(t, out)
	require.Len(t, tr.Timeline, 1)
	assert.Equal(t, int64(2), tr.Timeline[0].Seq)

	out, err = execute(t, NewTraceCommand(jsonOpts()), twoPages, "--kind", "cancel")
	require.NoError(t, err)
	tr = decodeTrace(t, out)
	require.Len(t, tr.Timeline, 1)
	assert.Equal(t, engine.TraceCancel, tr.Timeline[0].Kind)
}

func TestTraceCommandInvalidKind(t *testing.T) {
	_, err := execute(t, NewTraceCommand(textOpts()), twoPages, "--kind", "sync")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTraceCommandMissingScenario(t *testing.T) {
	_, err := execute(t, NewTraceCommand(textOpts()), filepath.Join(t.TempDir(), "none.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load scenario")
}

func TestFlowStatsSortsFlows(t *testing.T) {
	stats := flowStats([]engine.TraceEvent{
		{Seq: 2, Flow: "flow-0002", Kind: engine.TraceReduce, Action: "b"},
		{Seq: 1, Flow: "flow-0001", Kind: engine.TraceReduce, Action: "a", Effects: []string{"fire(x)"}},
		{Flow: "flow-0001", Kind: engine.TraceDiscard, Action: "c"},
	})
	require.Len(t, stats, 2)
	assert.Equal(t, FlowStats{Flow: "flow-0001", Root: "a", Reduced: 1, Effects: 1}, stats[0])
	assert.Equal(t, FlowStats{Flow: "flow-0002", Root: "b", Reduced: 1}, stats[1])
}
