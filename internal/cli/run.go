package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/roach88/panda/internal/engine"
	"github.com/roach88/panda/internal/harness"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Database string
	Timeout  time.Duration
	State    bool // include the final state in the output
}

// RunSummary is the outcome of a live scenario run.
type RunSummary struct {
	Scenario string   `json:"scenario"`
	Database string   `json:"database"`
	Steps    int      `json:"steps"`
	Reduced  int      `json:"reduced"`
	Dropped  int      `json:"dropped"`
	Requests []string `json:"requests"`
	Cached   int      `json:"cached"`
	Digest   string   `json:"digest"`
	Pass     bool     `json:"pass"`
	Errors   []string `json:"errors,omitempty"`
	State    any      `json:"state,omitempty"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <scenario>",
		Short: "Run a scenario live against the local cache",
		Long: `Run one scenario with concurrent effects against the on-disk cache.

Unlike "panda test", effects run on the store's worker pool with the
configured engine limits, and everything the scenario caches stays in the
database afterwards. Each step waits until its effects settle.

Example:
  panda run ./testdata/scenarios/watched_two_pages.yaml
  panda run --db /tmp/cache.db ./scenario.yaml --state --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLive(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite cache (default from config)")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", harness.DefaultSettleTimeout, "maximum time for one step to settle")
	cmd.Flags().BoolVar(&opts.State, "state", false, "print the final state")

	return cmd
}

func runLive(opts *RunOptions, path string, cmd *cobra.Command) error {
	out := newFormatter(opts.RootOptions, cmd.OutOrStdout())

	scenario, err := harness.LoadScenario(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load scenario", err)
	}
	if scenario.Language == "" {
		scenario.Language = opts.Config.Language
	}

	dbPath := opts.Database
	if dbPath == "" {
		dbPath = opts.Config.Database.Path
	}
	st, err := openCache(&CacheOptions{RootOptions: opts.RootOptions, Database: dbPath})
	if err != nil {
		return err
	}
	defer closeCache(st)
	slog.Info("running scenario live", "scenario", scenario.Name, "cache", dbPath)

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eng := opts.Config.Engine
	result, err := harness.RunWith(ctx, scenario, harness.Options{
		Database:      st,
		Live:          true,
		SettleTimeout: opts.Timeout,
		StoreOptions: []engine.StoreOption{
			engine.WithMaxSteps(eng.MaxSteps),
			engine.WithWorkers(eng.Workers),
			engine.WithEffectTimeout(eng.EffectTimeout),
		},
	})
	if err != nil {
		return WrapExitError(ExitFailure, "scenario run failed", err)
	}

	summary := summarize(scenario, dbPath, result)
	if opts.State {
		summary.State = result.State
	}
	text := func(w io.Writer) { writeRunText(w, summary) }

	if !result.Pass {
		msg := fmt.Sprintf("%d assertion(s) failed", len(result.Errors))
		if err := out.Failure("E_ASSERTION_FAILED", msg, summary, text); err != nil {
			return err
		}
		return NewExitError(ExitFailure, msg)
	}
	return out.Success(summary, text)
}

func summarize(scenario *harness.Scenario, dbPath string, result *harness.Result) RunSummary {
	s := RunSummary{
		Scenario: scenario.Name,
		Database: dbPath,
		Steps:    len(scenario.Steps),
		Requests: result.Calls,
		Cached:   result.Cached,
		Digest:   result.Digest,
		Pass:     result.Pass,
		Errors:   result.Errors,
	}
	for _, ev := range result.Trace {
		switch ev.Kind {
		case engine.TraceReduce:
			s.Reduced++
		case engine.TraceDiscard, engine.TraceQuota:
			s.Dropped++
		}
	}
	if s.Requests == nil {
		s.Requests = []string{}
	}
	return s
}

func writeRunText(w io.Writer, s RunSummary) {
	fmt.Fprintf(w, "Scenario: %s\n", s.Scenario)
	fmt.Fprintf(w, "Cache:    %s\n", s.Database)
	fmt.Fprintf(w, "Steps:    %d\n", s.Steps)
	fmt.Fprintf(w, "Reduced:  %s actions (%d dropped)\n", humanize.Comma(int64(s.Reduced)), s.Dropped)
	fmt.Fprintf(w, "Requests: %d\n", len(s.Requests))
	for _, r := range s.Requests {
		fmt.Fprintf(w, "  %s\n", r)
	}
	fmt.Fprintf(w, "Cached:   %s %s\n", humanize.Comma(int64(s.Cached)), plural(s.Cached, "gallery", "galleries"))
	fmt.Fprintf(w, "Digest:   %s\n", s.Digest)
	if s.State != nil {
		fmt.Fprintf(w, "State:    %s\n", describeState(s.State))
	}
	for _, e := range s.Errors {
		fmt.Fprintf(w, "✗ %s\n", e)
	}
	if s.Pass {
		fmt.Fprintln(w, "✓ All assertions passed")
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// commandContext returns the command's context, or a background one when
// the command runs outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
