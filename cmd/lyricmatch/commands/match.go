// ABOUTME: CLI command to match image features against the song corpus
// ABOUTME: Prints ranked songs with their highlighted lyric phrases
package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harper/lyricmatch/internal/app"
	"github.com/harper/lyricmatch/internal/models"
)

var (
	matchTopK     int
	matchTag      string
	matchAllLines bool
)

// NewMatchCmd creates the match command
func NewMatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match [features.json]",
		Short: "Find songs whose lyrics match an image",
		Long: `Find songs whose lyrics match an image.

Reads an image feature record as JSON from a file or stdin, builds a
descriptive tag, retrieves the closest songs and marks lyric phrases
that are weak, medium or strong matches for the tag.

Use --tag to skip synthesis and search with your own words.

Examples:
  lyricmatch match photo.json
  lyricmatch match --top-k 3 --format json photo.json
  lyricmatch match --tag "rain night lonely"`,
		Args: cobra.MaximumNArgs(1),
		RunE: runMatch,
	}

	cmd.Flags().IntVarP(&matchTopK, "top-k", "k", 0, "Number of songs to return (default: LYRICMATCH_TOP_K)")
	cmd.Flags().StringVar(&matchTag, "tag", "", "Search with this tag instead of image features")
	cmd.Flags().BoolVar(&matchAllLines, "all-lines", false, "Print every lyric line, not only matching ones")

	return cmd
}

// matchOutput is the JSON shape of a match run
type matchOutput struct {
	Tag        string                  `json:"tag"`
	Candidates []models.MatchCandidate `json:"candidates"`
}

func runMatch(cmd *cobra.Command, args []string) error {
	if matchTopK < 0 {
		return validatePositiveInt(matchTopK, "top-k")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	topK := cfg.TopK
	if matchTopK > 0 {
		topK = matchTopK
	}

	tag := strings.TrimSpace(matchTag)
	var features models.ImageFeatureRecord
	if tag == "" {
		features, err = readFeatures(cmd, args)
		if err != nil {
			return err
		}
	}

	a, err := app.New(cmd.Context(), cfg, app.Options{
		LoadIndex:       true,
		RequireEmbedder: true,
		Verbose:         verbose,
	})
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	var candidates []models.MatchCandidate
	if tag == "" {
		tag, candidates, err = a.Matcher.MatchFeatures(cmd.Context(), features, topK)
	} else {
		candidates, err = a.Matcher.MatchTag(cmd.Context(), tag, topK)
	}
	if verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "Tag: %s\n", tag)
	}
	if err != nil {
		return fmt.Errorf("matching: %w", err)
	}

	if wantJSON() {
		return writeJSON(cmd.OutOrStdout(), matchOutput{Tag: tag, Candidates: candidates})
	}

	if candidates == nil {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "No songs found for tag: %s\n", tag)
		}
		return nil
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Tag: %s\n\n", tag)
	}
	printCandidates(cmd.OutOrStdout(), candidates, matchAllLines)
	return nil
}

// printCandidates renders candidates as text. Matched phrases are shown
// under their line as "strength phrase (similarity)".
func printCandidates(w io.Writer, candidates []models.MatchCandidate, allLines bool) {
	for i, c := range candidates {
		title := c.Song.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Fprintf(w, "%d. %s", i+1, title)
		if c.Song.Artist != "" {
			fmt.Fprintf(w, " by %s", c.Song.Artist)
		}
		fmt.Fprintf(w, "  [distance %.4f]\n", c.Distance)

		shown := 0
		for _, line := range c.AnnotatedLines {
			if len(line.Matches) == 0 && !allLines {
				continue
			}
			shown++
			fmt.Fprintf(w, "   %s\n", truncate(line.Text, 100))
			for _, m := range line.Matches {
				fmt.Fprintf(w, "      %-6s %q (%.2f)\n", m.Strength, m.Phrase, m.Similarity)
			}
		}
		if shown == 0 {
			fmt.Fprintln(w, "   (no highlighted phrases)")
		}
		fmt.Fprintln(w)
	}
}
