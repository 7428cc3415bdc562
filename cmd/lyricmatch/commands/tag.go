// ABOUTME: CLI command to synthesize a descriptive tag from image features
// ABOUTME: Runs only the descriptor synthesizer, no retrieval
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/lyricmatch/internal/app"
)

var (
	tagMaxTags int
)

// NewTagCmd creates the tag command
func NewTagCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag [features.json]",
		Short: "Show the tag generated for image features",
		Long: `Build the descriptive tag that 'match' would search with.

Reads an image feature record as JSON from a file or stdin. Useful for
checking how brightness, contrast, colors and the scene label turn into
words before running a search.

Examples:
  lyricmatch tag photo.json
  cat photo.json | lyricmatch tag
  lyricmatch tag --max-tags 5 --format json photo.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runTag,
	}

	cmd.Flags().IntVar(&tagMaxTags, "max-tags", 0, "Maximum words in the tag (default: LYRICMATCH_MAX_TAGS)")

	return cmd
}

func runTag(cmd *cobra.Command, args []string) error {
	features, err := readFeatures(cmd, args)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if tagMaxTags < 0 {
		return validatePositiveInt(tagMaxTags, "max-tags")
	}
	if tagMaxTags > 0 {
		cfg.MaxTags = tagMaxTags
	}

	a, err := app.New(cmd.Context(), cfg, app.Options{Verbose: verbose})
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	tag := a.Matcher.Synthesize(cmd.Context(), features)

	if wantJSON() {
		return writeJSON(cmd.OutOrStdout(), map[string]interface{}{"tag": tag})
	}
	fmt.Fprintln(cmd.OutOrStdout(), tag)
	return nil
}
