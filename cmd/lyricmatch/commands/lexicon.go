// ABOUTME: CLI commands to manage the lexical relation store
// ABOUTME: Imports WordNet-style TSV relations and previews word expansions
package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harper/lyricmatch/internal/app"
	"github.com/harper/lyricmatch/internal/config"
	"github.com/harper/lyricmatch/internal/lexicon"
	"github.com/harper/lyricmatch/internal/storage/sqlite"
)

var (
	lexiconClear bool
	lookupMax    int
)

// NewLexiconCmd creates the lexicon command group
func NewLexiconCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lexicon",
		Short: "Manage the word relation lexicon",
		Long: `Manage the word relation lexicon used to expand tag words.

The lexicon stores synonyms, hyponyms and hypernyms per word sense, most
common sense first, in the same database as the corpus.`,
	}

	cmd.AddCommand(newLexiconImportCmd(), newLexiconLookupCmd())
	return cmd
}

func newLexiconImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <relations.tsv>",
		Short: "Import word relations from a TSV file",
		Long: `Import word relations from a tab-separated file with the columns

  word  sense_rank  relation  term

where relation is synonym, hyponym or hypernym and sense_rank 0 is the most
common sense. Underscores in terms become spaces. Lines starting with # are
ignored. Words in the file replace any relations already stored for them.

Examples:
  lyricmatch lexicon import wordnet.tsv
  lyricmatch lexicon import --clear wordnet.tsv`,
		Args: cobra.ExactArgs(1),
		RunE: runLexiconImport,
	}

	cmd.Flags().BoolVar(&lexiconClear, "clear", false, "Remove all stored relations first")
	return cmd
}

func runLexiconImport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	file, err := os.Open(args[0]) // #nosec G304
	if err != nil {
		return fmt.Errorf("opening lexicon: %w", err)
	}
	defer func() { _ = file.Close() }()

	store, err := sqlite.NewStorageWithPath(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	if lexiconClear {
		if err := store.Lexicon().Clear(cmd.Context()); err != nil {
			return fmt.Errorf("clearing lexicon: %w", err)
		}
	}

	n, err := store.Lexicon().Import(cmd.Context(), file)
	if err != nil {
		return fmt.Errorf("importing lexicon: %w", err)
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d relations\n", n)
	}
	return nil
}

func newLexiconLookupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookup <word>",
		Short: "Show the expansions of a word",
		Long: `Show the related words the tag synthesizer would add for a word,
using the lexical source selected by LYRICMATCH_LEXICON.

Examples:
  lyricmatch lexicon lookup forest
  lyricmatch lexicon lookup --max 5 melancholy`,
		Args: cobra.ExactArgs(1),
		RunE: runLexiconLookup,
	}

	cmd.Flags().IntVar(&lookupMax, "max", 3, "Maximum related words")
	return cmd
}

func runLexiconLookup(cmd *cobra.Command, args []string) error {
	if err := validatePositiveInt(lookupMax, "max"); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Lexicon == config.LexiconNone {
		return fmt.Errorf("lexical expansion is disabled (LYRICMATCH_LEXICON=none)")
	}

	a, err := app.New(cmd.Context(), cfg, app.Options{Verbose: verbose})
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	if err := a.Expander.EnsureInitialized(cmd.Context()); err != nil {
		return err
	}

	word := lexicon.NormalizeTerm(args[0])
	terms := a.Expander.Expand(cmd.Context(), word, lookupMax)

	if wantJSON() {
		return writeJSON(cmd.OutOrStdout(), map[string]interface{}{
			"word":      word,
			"expansion": terms,
		})
	}

	if len(terms) == 0 {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "No related words for %q\n", word)
		}
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), strings.Join(terms, ", "))
	return nil
}
