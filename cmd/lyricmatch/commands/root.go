// ABOUTME: Root command and global flags for the lyricmatch CLI
// ABOUTME: Registers subcommands and enforces --verbose/--quiet exclusivity
package commands

import (
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
)

var (
	verbose      bool
	quiet        bool
	outputFormat string
)

const banner = `
 ██╗     ██╗   ██╗██████╗ ██╗ ██████╗
 ██║     ╚██╗ ██╔╝██╔══██╗██║██╔════╝
 ██║      ╚████╔╝ ██████╔╝██║██║
 ██║       ╚██╔╝  ██╔══██╗██║██║
 ███████╗   ██║   ██║  ██║██║╚██████╗
 ╚══════╝   ╚═╝   ╚═╝  ╚═╝╚═╝ ╚═════╝  match`

// NewRootCmd creates the root command with all subcommands
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lyricmatch",
		Short: "Match images to song lyrics",
		Long: banner + `

Turns image features into a short descriptive tag, finds the songs whose
lyrics sit closest to that tag in embedding space, and highlights the
lyric phrases that carry the match.

Build a corpus with 'lyricmatch ingest', optionally load a lexicon with
'lyricmatch lexicon import', then run 'lyricmatch match features.json'.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case quiet:
				log.SetOutput(io.Discard)
			default:
				log.SetOutput(os.Stderr)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress informational output")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "auto", "Output format: auto, text, json")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(
		NewTagCmd(),
		NewMatchCmd(),
		NewIngestCmd(),
		NewLexiconCmd(),
		NewStatsCmd(),
		NewExportCmd(),
		NewMCPCmd(),
		NewVersionCmd(),
	)

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
