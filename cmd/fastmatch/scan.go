package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fastmatch/fastmatch"
	"github.com/fastmatch/fastmatch/pkg/rule"
	"github.com/fastmatch/fastmatch/pkg/store"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	scanPatterns     []string
	scanRegexes      []string
	scanRulesPath    string
	scanRulesInclude string
	scanRulesExclude string
	scanStream       bool
	scanFormat       string
	scanDBPath       string
	scanContextLines int
	scanMaxRegexLen  int
)

var scanCmd = &cobra.Command{
	Use:   "scan [file...]",
	Short: "Scan files or stdin for pattern matches",
	Long: `Scan one or more files (or stdin when no file is given) against literal
patterns, regex patterns, and/or rules from a YAML file.

With --stream, input is fed through the streaming matcher in chunks instead
of being loaded whole; offsets stay absolute across chunk boundaries.`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringArrayVarP(&scanPatterns, "pattern", "p", nil, "Literal pattern (repeatable)")
	scanCmd.Flags().StringArrayVarP(&scanRegexes, "regex", "e", nil, "Regex pattern (repeatable)")
	scanCmd.Flags().StringVar(&scanRulesPath, "rules", "", "Path to a YAML rules file")
	scanCmd.Flags().StringVar(&scanRulesInclude, "rules-include", "", "Include rules matching regex pattern (comma-separated)")
	scanCmd.Flags().StringVar(&scanRulesExclude, "rules-exclude", "", "Exclude rules matching regex pattern (comma-separated)")
	scanCmd.Flags().BoolVar(&scanStream, "stream", false, "Feed input through the streaming matcher")
	scanCmd.Flags().StringVar(&scanFormat, "format", "human", "Output format: human, json")
	scanCmd.Flags().StringVar(&scanDBPath, "db", "", "Persist matches to a SQLite database at this path")
	scanCmd.Flags().IntVar(&scanContextLines, "context-lines", 0, "Lines of context before/after matches (batch mode)")
	scanCmd.Flags().IntVar(&scanMaxRegexLen, "max-regex-length", 0, "Assumed worst-case regex match length for streaming retention")
}

// sourceMatch pairs a match with the file it came from for JSON output.
type sourceMatch struct {
	Source string `json:"source"`
	fastmatch.Match
}

func runScan(cmd *cobra.Command, args []string) error {
	opts, err := buildScanOptions()
	if err != nil {
		return err
	}

	var db store.Store
	if scanDBPath != "" {
		db, err = store.New(store.Config{Path: scanDBPath})
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer db.Close()
		opts = append(opts, fastmatch.WithStore(db))
	}

	scanner, err := fastmatch.NewScanner(opts...)
	if err != nil {
		return fmt.Errorf("creating scanner: %w", err)
	}
	defer scanner.Close()

	if verbose && !quiet {
		for _, skipped := range scanner.Skipped() {
			fmt.Fprintf(os.Stderr, "[warn] dropped invalid regex: %v\n", skipped)
		}
	}

	var all []sourceMatch
	scanOne := func(source string, scan func() ([]fastmatch.Match, error)) error {
		matches, err := scan()
		if err != nil {
			return fmt.Errorf("scanning %s: %w", source, err)
		}
		for _, m := range matches {
			all = append(all, sourceMatch{Source: source, Match: m})
		}
		if scanStream {
			scanner.Reset()
		}
		return nil
	}

	if len(args) == 0 {
		err = scanOne("stdin", func() ([]fastmatch.Match, error) {
			if scanStream {
				return scanner.ScanReader("stdin", cmd.InOrStdin())
			}
			content, rerr := io.ReadAll(cmd.InOrStdin())
			if rerr != nil {
				return nil, rerr
			}
			return scanner.ScanSource("stdin", content)
		})
		if err != nil {
			return err
		}
	}
	for _, path := range args {
		err = scanOne(path, func() ([]fastmatch.Match, error) {
			if scanStream {
				f, oerr := os.Open(path)
				if oerr != nil {
					return nil, oerr
				}
				defer f.Close()
				return scanner.ScanReader(path, f)
			}
			return scanner.ScanFile(path)
		})
		if err != nil {
			return err
		}
	}

	return printMatches(cmd, all)
}

func buildScanOptions() ([]fastmatch.Option, error) {
	if len(scanPatterns) == 0 && len(scanRegexes) == 0 && scanRulesPath == "" {
		return nil, fmt.Errorf("no patterns given: use --pattern, --regex, or --rules")
	}

	opts := []fastmatch.Option{
		fastmatch.WithPatterns(scanPatterns...),
		fastmatch.WithRegex(scanRegexes...),
	}
	if scanRulesPath != "" {
		rules, err := fastmatch.LoadRulesFromFile(scanRulesPath)
		if err != nil {
			return nil, fmt.Errorf("loading rules: %w", err)
		}
		rules, err = rule.Filter(rules, rule.FilterConfig{
			Include: rule.ParsePatterns(scanRulesInclude),
			Exclude: rule.ParsePatterns(scanRulesExclude),
		})
		if err != nil {
			return nil, fmt.Errorf("filtering rules: %w", err)
		}
		opts = append(opts, fastmatch.WithRules(rules))
	}
	if scanStream {
		opts = append(opts, fastmatch.WithStreaming())
	}
	if scanContextLines > 0 && !scanStream {
		opts = append(opts, fastmatch.WithContextLines(scanContextLines))
	}
	if scanMaxRegexLen > 0 {
		opts = append(opts, fastmatch.WithMaxRegexLength(scanMaxRegexLen))
	}
	return opts, nil
}

func printMatches(cmd *cobra.Command, all []sourceMatch) error {
	out := cmd.OutOrStdout()

	if scanFormat == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(all)
	}

	kindColor := map[fastmatch.Kind]*color.Color{
		fastmatch.KindLiteral: color.New(color.FgGreen),
		fastmatch.KindRegex:   color.New(color.FgMagenta),
	}
	offsets := color.New(color.FgCyan)

	for _, m := range all {
		matched := m.Pattern
		if m.Kind == fastmatch.KindRegex {
			matched = string(m.Matched)
		}
		fmt.Fprintf(out, "%s:%s %s %q (pattern %q)\n",
			m.Source,
			offsets.Sprintf("[%d:%d)", m.Start, m.End),
			kindColor[m.Kind].Sprint(m.Kind),
			matched,
			m.Pattern,
		)
	}
	if !quiet {
		fmt.Fprintf(out, "\n%d match(es)\n", len(all))
	}
	return nil
}
