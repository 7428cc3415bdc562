// ABOUTME: Shared utility functions for CLI commands
// ABOUTME: Config loading, feature file parsing and output helpers
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/harper/lyricmatch/internal/config"
	"github.com/harper/lyricmatch/internal/models"
)

// loadConfig loads .env (if present) and the environment configuration
func loadConfig() (*config.Config, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	return cfg, nil
}

// readFeatures decodes an ImageFeatureRecord from the file named by the
// first argument, or from stdin when there is none or it is "-"
func readFeatures(cmd *cobra.Command, args []string) (models.ImageFeatureRecord, error) {
	var (
		features models.ImageFeatureRecord
		r        io.Reader = cmd.InOrStdin()
	)

	if len(args) > 0 && args[0] != "-" {
		file, err := os.Open(args[0]) // #nosec G304
		if err != nil {
			return features, fmt.Errorf("opening features: %w", err)
		}
		defer func() { _ = file.Close() }()
		r = file
	}

	if err := json.NewDecoder(r).Decode(&features); err != nil {
		return features, fmt.Errorf("parsing features JSON: %w", err)
	}
	return features, nil
}

// wantJSON reports whether --format asks for JSON
func wantJSON() bool {
	return outputFormat == "json"
}

// writeJSON prints v as indented JSON
func writeJSON(w io.Writer, v interface{}) error {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", jsonData)
	return err
}

// truncate shortens a string to maxLen, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// validatePositiveInt returns error if n is not positive
func validatePositiveInt(n int, name string) error {
	if n <= 0 {
		return fmt.Errorf("%s must be positive, got %d", name, n)
	}
	return nil
}
