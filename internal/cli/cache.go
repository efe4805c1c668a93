package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/roach88/panda/internal/ir"
	"github.com/roach88/panda/internal/store"
)

// CacheOptions holds flags shared by the cache and words commands.
type CacheOptions struct {
	*RootOptions
	Database string
	Limit    int
}

// GalleryRow is one cached gallery in command output.
type GalleryRow struct {
	ir.Gallery
	CachedAt time.Time `json:"cached_at"`
}

// GalleryListing is the output of "cache galleries".
type GalleryListing struct {
	Total     int          `json:"total"`
	Galleries []GalleryRow `json:"galleries"`
}

// NewCacheCommand creates the cache command and its subcommands.
func NewCacheCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CacheOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect the local cache",
	}
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to SQLite cache (default from config)")

	galleries := &cobra.Command{
		Use:   "galleries",
		Short: "List recently cached galleries",
		Example: `  panda cache galleries
  panda cache galleries --limit 5 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCacheGalleries(opts, cmd)
		},
	}
	galleries.Flags().IntVar(&opts.Limit, "limit", 20, "maximum galleries to list")

	words := &cobra.Command{
		Use:           "words",
		Short:         "List saved quick search words",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCacheWords(opts, cmd)
		},
	}

	history := &cobra.Command{
		Use:           "history",
		Short:         "List recent search keywords",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCacheHistory(opts, cmd)
		},
	}
	history.Flags().IntVar(&opts.Limit, "limit", 20, "maximum keywords to list")

	cmd.AddCommand(galleries, words, history)
	return cmd
}

// openCache opens the cache at the flag path or the configured one,
// creating its directory when needed.
func openCache(opts *CacheOptions) (*store.Store, error) {
	path := opts.Database
	if path == "" {
		path = opts.Config.Database.Path
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to create cache directory", err)
		}
	}
	slog.Debug("opening cache", "path", path)
	st, err := store.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}

func closeCache(st *store.Store) {
	if err := st.Close(); err != nil {
		slog.Error("error closing database", "error", err)
	}
}

func runCacheGalleries(opts *CacheOptions, cmd *cobra.Command) error {
	if opts.Limit <= 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid limit %d: must be positive", opts.Limit))
	}
	st, err := openCache(opts)
	if err != nil {
		return err
	}
	defer closeCache(st)

	ctx := commandContext(cmd)
	total, err := st.CountGalleries(ctx)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to count galleries", err)
	}
	cached, err := st.RecentGalleries(ctx, opts.Limit)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to list galleries", err)
	}

	listing := GalleryListing{Total: total, Galleries: make([]GalleryRow, 0, len(cached))}
	for _, g := range cached {
		listing.Galleries = append(listing.Galleries, GalleryRow{Gallery: g.Gallery, CachedAt: g.CachedAt})
	}

	out := newFormatter(opts.RootOptions, cmd.OutOrStdout())
	return out.Success(listing, func(w io.Writer) { writeGalleriesText(w, listing) })
}

func writeGalleriesText(w io.Writer, l GalleryListing) {
	if l.Total == 0 {
		fmt.Fprintln(w, "Cache is empty.")
		return
	}
	fmt.Fprintf(w, "%s cached %s, showing %d most recent:\n",
		humanize.Comma(int64(l.Total)), plural(l.Total, "gallery", "galleries"), len(l.Galleries))
	for _, g := range l.Galleries {
		fmt.Fprintf(w, "  %-10s %-28s %s", g.GID, truncate(g.Title, 28), humanize.Time(g.CachedAt))
		if g.PageCount > 0 {
			fmt.Fprintf(w, ", %s pages", humanize.Comma(int64(g.PageCount)))
		}
		if g.Rating > 0 {
			fmt.Fprintf(w, ", %.1f★", float64(g.Rating)/2)
		}
		fmt.Fprintln(w)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func runCacheWords(opts *CacheOptions, cmd *cobra.Command) error {
	st, err := openCache(opts)
	if err != nil {
		return err
	}
	defer closeCache(st)

	words, err := st.FetchQuickSearchWords(commandContext(cmd))
	if err != nil {
		return WrapExitError(ExitFailure, "failed to read quick search words", err)
	}
	if words == nil {
		words = []ir.QuickSearchWord{}
	}

	out := newFormatter(opts.RootOptions, cmd.OutOrStdout())
	return out.Success(words, func(w io.Writer) { writeWordsText(w, words) })
}

func writeWordsText(w io.Writer, words []ir.QuickSearchWord) {
	if len(words) == 0 {
		fmt.Fprintln(w, "No quick search words.")
		return
	}
	for i, word := range words {
		fmt.Fprintf(w, "%s. %s: %s\n", humanize.Ordinal(i+1), displayName(word), word.Content)
	}
}

func displayName(w ir.QuickSearchWord) string {
	if w.Name == "" {
		return w.Content
	}
	return w.Name
}

func runCacheHistory(opts *CacheOptions, cmd *cobra.Command) error {
	if opts.Limit <= 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid limit %d: must be positive", opts.Limit))
	}
	st, err := openCache(opts)
	if err != nil {
		return err
	}
	defer closeCache(st)

	keywords, err := st.FetchHistoryKeywords(commandContext(cmd), opts.Limit)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to read search history", err)
	}
	if keywords == nil {
		keywords = []string{}
	}

	out := newFormatter(opts.RootOptions, cmd.OutOrStdout())
	return out.Success(keywords, func(w io.Writer) {
		if len(keywords) == 0 {
			fmt.Fprintln(w, "No search history.")
		}
		for _, k := range keywords {
			fmt.Fprintln(w, k)
		}
	})
}
