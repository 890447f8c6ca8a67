package main

import (
	"github.com/spf13/cobra"
)

var (
	verbose bool
	quiet   bool
)

var rootCmd = &cobra.Command{
	Use:   "fastmatch",
	Short: "Fastmatch - multi-pattern text scanner",
	Long: `Fastmatch scans byte streams for literal and regex patterns in a single
pass, reporting every occurrence with absolute byte offsets.

Literal patterns are matched with an Aho-Corasick automaton; regex patterns
run on a Perl-compatible engine. Streaming mode scans chunked input of any
size, including matches that span chunk boundaries.`,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode (matches only)")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
