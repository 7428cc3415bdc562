// ABOUTME: CLI command to report corpus and lexicon statistics
// ABOUTME: Shows song count, vector dimension and lexicon size
package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harper/lyricmatch/internal/storage/sqlite"
)

// NewStatsCmd creates the stats command
func NewStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show corpus statistics",
		Long:  `Show the number of songs and vectors, the vector dimension and the lexicon size.`,
		Args:  cobra.NoArgs,
		RunE:  runStats,
	}

	return cmd
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := sqlite.NewStorageWithPath(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	stats, err := store.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("reading stats: %w", err)
	}

	if wantJSON() {
		return writeJSON(cmd.OutOrStdout(), stats)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Database:\t%s\n", cfg.DBPath)
	fmt.Fprintf(w, "Songs:\t%d\n", stats.Songs)
	fmt.Fprintf(w, "Vectors:\t%d\n", stats.Vectors)
	fmt.Fprintf(w, "Dimension:\t%d\n", stats.Dimension)
	fmt.Fprintf(w, "Lexicon:\t%d relations across %d words\n", stats.LexiconEntries, stats.LexiconWords)
	return w.Flush()
}
