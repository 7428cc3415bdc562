// ABOUTME: CLI command to build the song corpus from a CSV file
// ABOUTME: Embeds title and lyrics per song and stores them with their vectors
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/harper/lyricmatch/internal/app"
	"github.com/harper/lyricmatch/internal/storage/sqlite"
)

var (
	ingestReset     bool
	ingestBatchSize int
)

// NewIngestCmd creates the ingest command
func NewIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest <songs.csv>",
		Short: "Add songs from a CSV file to the corpus",
		Long: `Add songs from a CSV file to the corpus.

The CSV needs a header row with a lyrics column; artist and title
columns are used when present. Each song is embedded as its title
followed by its lyrics. Rows without lyrics are skipped.

Examples:
  lyricmatch ingest songs.csv
  lyricmatch ingest --reset --batch-size 32 songs.csv`,
		Args: cobra.ExactArgs(1),
		RunE: runIngest,
	}

	cmd.Flags().BoolVar(&ingestReset, "reset", false, "Remove existing songs before ingesting")
	cmd.Flags().IntVar(&ingestBatchSize, "batch-size", sqlite.DefaultIngestBatchSize, "Songs embedded per request and committed together")

	return cmd
}

func runIngest(cmd *cobra.Command, args []string) error {
	if err := validatePositiveInt(ingestBatchSize, "batch-size"); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	file, err := os.Open(args[0]) // #nosec G304
	if err != nil {
		return fmt.Errorf("opening corpus: %w", err)
	}
	defer func() { _ = file.Close() }()

	a, err := app.New(cmd.Context(), cfg, app.Options{RequireEmbedder: true, Verbose: verbose})
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	if ingestReset {
		if err := a.Storage.Corpus().Reset(cmd.Context()); err != nil {
			return fmt.Errorf("resetting corpus: %w", err)
		}
		if !quiet {
			fmt.Fprintln(cmd.OutOrStdout(), "Corpus cleared")
		}
	}

	result, err := a.Storage.Corpus().Ingest(cmd.Context(), file, a.Embedder, ingestBatchSize)
	if result != nil && !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Read %d rows, stored %d songs, skipped %d without lyrics\n",
			result.Read, result.Stored, result.Skipped)
	}
	if err != nil {
		return fmt.Errorf("ingesting: %w", err)
	}
	return nil
}
