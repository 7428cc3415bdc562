// ABOUTME: CLI command to export the corpus
// ABOUTME: Writes YAML or Markdown catalogs, or a JSON dump of vectors
package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harper/lyricmatch/internal/storage/sqlite"
)

// NewExportCmd creates the export command
func NewExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <output-file>",
		Short: "Export the corpus to a file",
		Long: `Export the corpus to a file. The format follows the extension:

  .yaml, .yml  songs and stats as YAML
  .md          songs as a Markdown catalog
  .json        vectors with their ordinals and row ids

Examples:
  lyricmatch export corpus.yaml
  lyricmatch export vectors.json`,
		Args: cobra.ExactArgs(1),
		RunE: runExport,
	}

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	outputPath := args[0]
	ext := strings.ToLower(filepath.Ext(outputPath))

	var export func(*sqlite.Storage) error
	switch ext {
	case ".yaml", ".yml":
		export = func(s *sqlite.Storage) error { return s.ExportToYAML(cmd.Context(), outputPath) }
	case ".md", ".markdown":
		export = func(s *sqlite.Storage) error { return s.ExportToMarkdown(cmd.Context(), outputPath) }
	case ".json":
		export = func(s *sqlite.Storage) error { return s.ExportVectorsToJSON(cmd.Context(), outputPath) }
	default:
		return fmt.Errorf("unsupported export format %q: use .yaml, .md or .json", ext)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := sqlite.NewStorageWithPath(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	if err := export(store); err != nil {
		return fmt.Errorf("exporting: %w", err)
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", outputPath)
	}
	return nil
}
