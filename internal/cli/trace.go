package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/panda/internal/engine"
	"github.com/roach88/panda/internal/harness"
	"github.com/roach88/panda/internal/ir"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Flow   string // optional - only events of this flow
	Action string // optional - only events whose action ends with this
	Kind   string // optional - only events of this kind
}

// TraceResult holds the complete trace output.
type TraceResult struct {
	Scenario string              `json:"scenario"`
	Digest   string              `json:"digest"` // of the unfiltered trace
	Timeline []engine.TraceEvent `json:"timeline"`
	Flows    []FlowStats         `json:"flows"`
	Stats    TraceStats          `json:"stats"`
}

// FlowStats summarizes one flow of the unfiltered trace.
type FlowStats struct {
	Flow    string `json:"flow"`
	Root    string `json:"root"` // first reduced action
	Reduced int    `json:"reduced"`
	Effects int    `json:"effects"`
}

// TraceStats holds summary statistics for the unfiltered trace.
type TraceStats struct {
	TotalEvents  int `json:"total_events"`
	Reduced      int `json:"reduced"`
	Cancels      int `json:"cancels"`
	Discarded    int `json:"discarded"`
	Quota        int `json:"quota"`
	EffectErrors int `json:"effect_errors"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace <scenario>",
		Short: "Show the action history of a scenario",
		Long: `Run a scenario deterministically and show its trace.

The output includes:
- Timeline: every reduced, cancelled, discarded or dropped action in order
- Flows: per-flow counts, starting from the action that opened the flow
- Stats: totals by event kind

Examples:
  panda trace ./testdata/scenarios/watched_two_pages.yaml
  panda trace ./scenario.yaml --flow flow-0002
  panda trace ./scenario.yaml --action gallerylist.FetchMore --kind quota
  panda trace ./scenario.yaml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Flow, "flow", "", "only show events of this flow")
	cmd.Flags().StringVar(&opts.Action, "action", "", "only show events for this action (suffix match)")
	cmd.Flags().StringVar(&opts.Kind, "kind", "", "only show events of this kind (reduce|cancel|discard|quota|effect_error)")

	return cmd
}

func runTrace(opts *TraceOptions, path string, cmd *cobra.Command) error {
	if opts.Kind != "" && !validTraceKind(engine.TraceKind(opts.Kind)) {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid kind %q", opts.Kind))
	}

	scenario, err := harness.LoadScenario(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load scenario", err)
	}
	result, err := harness.Run(scenario)
	if err != nil {
		return WrapExitError(ExitFailure, "scenario run failed", err)
	}

	tr := TraceResult{
		Scenario: scenario.Name,
		Digest:   result.TraceDigest,
		Timeline: filterTrace(result.Trace, opts),
		Flows:    flowStats(result.Trace),
		Stats:    traceStats(result.Trace),
	}

	out := newFormatter(opts.RootOptions, cmd.OutOrStdout())
	return out.Success(tr, func(w io.Writer) { writeTraceText(w, tr) })
}

func validTraceKind(k engine.TraceKind) bool {
	switch k {
	case engine.TraceReduce, engine.TraceCancel, engine.TraceDiscard, engine.TraceQuota, engine.TraceEffectError:
		return true
	}
	return false
}

func filterTrace(trace []engine.TraceEvent, opts *TraceOptions) []engine.TraceEvent {
	out := []engine.TraceEvent{}
	for _, ev := range trace {
		if opts.Flow != "" && ev.Flow != opts.Flow {
			continue
		}
		if opts.Kind != "" && ev.Kind != engine.TraceKind(opts.Kind) {
			continue
		}
		if opts.Action != "" && ev.Action != opts.Action && !strings.HasSuffix(ev.Action, "/"+opts.Action) {
			continue
		}
		out = append(out, ev)
	}
	return out
}

func flowStats(trace []engine.TraceEvent) []FlowStats {
	byFlow := make(map[string]*FlowStats)
	var order []string
	for _, ev := range trace {
		fs, ok := byFlow[ev.Flow]
		if !ok {
			fs = &FlowStats{Flow: ev.Flow}
			byFlow[ev.Flow] = fs
			order = append(order, ev.Flow)
		}
		if ev.Kind != engine.TraceReduce {
			continue
		}
		if fs.Root == "" {
			fs.Root = ev.Action
		}
		fs.Reduced++
		fs.Effects += len(ev.Effects)
	}

	// Flow tokens sort in creation order for both generators in use.
	sort.Strings(order)
	out := make([]FlowStats, 0, len(order))
	for _, f := range order {
		out = append(out, *byFlow[f])
	}
	return out
}

func traceStats(trace []engine.TraceEvent) TraceStats {
	s := TraceStats{TotalEvents: len(trace)}
	for _, ev := range trace {
		switch ev.Kind {
		case engine.TraceReduce:
			s.Reduced++
		case engine.TraceCancel:
			s.Cancels++
		case engine.TraceDiscard:
			s.Discarded++
		case engine.TraceQuota:
			s.Quota++
		case engine.TraceEffectError:
			s.EffectErrors++
		}
	}
	return s
}

func writeTraceText(w io.Writer, tr TraceResult) {
	fmt.Fprintf(w, "Trace for scenario: %s\n\n", tr.Scenario)

	fmt.Fprintln(w, "Timeline:")
	if len(tr.Timeline) == 0 {
		fmt.Fprintln(w, "  (no matching events)")
	}
	for _, ev := range tr.Timeline {
		switch ev.Kind {
		case engine.TraceReduce:
			fmt.Fprintf(w, "  [%d] %s %s\n", ev.Seq, ev.Flow, ev.Action)
			for _, e := range ev.Effects {
				fmt.Fprintf(w, "        -> %s\n", e)
			}
		default:
			fmt.Fprintf(w, "  [%s] %s %s", ev.Kind, ev.Flow, ev.Action)
			if ev.Detail != "" {
				fmt.Fprintf(w, " (%s)", ev.Detail)
			}
			fmt.Fprintln(w)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flows:")
	for _, fs := range tr.Flows {
		fmt.Fprintf(w, "  %s: %d reduced, %d effects, from %s\n", fs.Flow, fs.Reduced, fs.Effects, fs.Root)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Stats:")
	fmt.Fprintf(w, "  Total events:  %d\n", tr.Stats.TotalEvents)
	fmt.Fprintf(w, "  Reduced:       %d\n", tr.Stats.Reduced)
	fmt.Fprintf(w, "  Cancels:       %d\n", tr.Stats.Cancels)
	fmt.Fprintf(w, "  Discarded:     %d\n", tr.Stats.Discarded)
	fmt.Fprintf(w, "  Quota:         %d\n", tr.Stats.Quota)
	fmt.Fprintf(w, "  Effect errors: %d\n", tr.Stats.EffectErrors)
	fmt.Fprintf(w, "  Digest:        %s\n", tr.Digest)
}

// describeState renders a state compactly for text output.
func describeState(state any) string {
	data, err := ir.MarshalCanonical(state)
	if err != nil {
		return fmt.Sprintf("<unencodable: %v>", err)
	}
	return string(data)
}
