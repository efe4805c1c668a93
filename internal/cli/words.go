package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/panda/internal/client"
	"github.com/roach88/panda/internal/engine"
	"github.com/roach88/panda/internal/feature/quicksearch"
	"github.com/roach88/panda/internal/ir"
	"github.com/roach88/panda/internal/store"
)

// NewWordsCommand creates the words command. Edits go through the quick
// search reducer, so the saved list changes exactly as it does in the app.
func NewWordsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CacheOptions{RootOptions: rootOpts}
	var filter string

	cmd := &cobra.Command{
		Use:   "words",
		Short: "Edit saved quick search words",
	}
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to SQLite cache (default from config)")

	list := &cobra.Command{
		Use:   "list",
		Short: "List words, optionally fuzzy filtered",
		Example: `  panda words list
  panda words list --filter cosplay`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return editWords(opts, cmd, quicksearch.SetFilterText{Text: filter})
		},
	}
	list.Flags().StringVar(&filter, "filter", "", "fuzzy filter on name and content")

	add := &cobra.Command{
		Use:           "add <name> <content>",
		Short:         "Append a word",
		Example:       `  panda words add "Artist foo" "artist:foo$"`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			word := ir.QuickSearchWord{Name: args[0], Content: args[1]}
			if word.IsEmpty() {
				return NewExitError(ExitCommandError, "word needs a name or content")
			}
			return editWords(opts, cmd,
				quicksearch.SetEditingWord{Word: word},
				quicksearch.AppendWord{},
			)
		},
	}

	remove := &cobra.Command{
		Use:           "rm <position>...",
		Short:         "Delete words by 1-based position",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			offsets, err := parsePositions(args)
			if err != nil {
				return err
			}
			return editWords(opts, cmd, quicksearch.DeleteWordsAt{Offsets: offsets})
		},
	}

	move := &cobra.Command{
		Use:           "mv <position> <destination>",
		Short:         "Move a word before the word at destination (1-based)",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := parsePositions(args)
			if err != nil {
				return err
			}
			return editWords(opts, cmd, quicksearch.MoveWords{Offsets: pos[:1], Destination: pos[1]})
		},
	}

	cmd.AddCommand(list, add, remove, move)
	return cmd
}

func parsePositions(args []string) ([]int, error) {
	out := make([]int, len(args))
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil || n < 1 {
			return nil, NewExitError(ExitCommandError, fmt.Sprintf("invalid position %q: must be a positive integer", a))
		}
		out[i] = n - 1
	}
	return out, nil
}

// editWords loads the saved words into a quick search store, applies the
// actions and prints the resulting visible words.
func editWords(opts *CacheOptions, cmd *cobra.Command, actions ...quicksearch.Action) error {
	st, err := openCache(opts)
	if err != nil {
		return err
	}
	defer closeCache(st)

	state, err := reduceWords(st, actions...)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to update quick search words", err)
	}

	words := state.VisibleWords()
	if words == nil {
		words = []ir.QuickSearchWord{}
	}
	out := newFormatter(opts.RootOptions, cmd.OutOrStdout())
	return out.Success(words, func(w io.Writer) { writeWordsText(w, words) })
}

func reduceWords(st *store.Store, actions ...quicksearch.Action) (quicksearch.State, error) {
	env := client.Env{Database: st}.WithDefaults()
	s := engine.NewStore(quicksearch.State{},
		engine.Reducer[quicksearch.State, quicksearch.Action](quicksearch.New(env)),
		engine.WithSynchronousEffects(),
	)
	defer s.Stop()

	s.Send(quicksearch.Fetch{})
	s.Drain()
	if loading := s.State().Loading; loading.IsFailed() {
		return quicksearch.State{}, fmt.Errorf("load words: %s", loading.Error)
	}

	for _, a := range actions {
		s.Send(a)
		s.Drain()
	}
	return s.State(), nil
}
