package main

import (
	"fmt"
	"strings"

	"github.com/fastmatch/fastmatch/pkg/matcher"
	"github.com/fastmatch/fastmatch/pkg/rule"
	"github.com/fastmatch/fastmatch/pkg/types"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	rulesInclude string
	rulesExclude string
)

var rulesCmd = &cobra.Command{
	Use:   "rules <file>",
	Short: "List and validate rules from a YAML file",
	Long: `Load a rules file, report each rule's id, kind, and pattern, and flag
regex rules that fail to compile.`,
	Args: cobra.ExactArgs(1),
	RunE: runRules,
}

func init() {
	rulesCmd.Flags().StringVar(&rulesInclude, "include", "", "Include rules matching regex pattern (comma-separated)")
	rulesCmd.Flags().StringVar(&rulesExclude, "exclude", "", "Exclude rules matching regex pattern (comma-separated)")
}

func runRules(cmd *cobra.Command, args []string) error {
	rules, err := rule.NewLoader().LoadRuleFile(args[0])
	if err != nil {
		return fmt.Errorf("loading rules: %w", err)
	}

	rules, err = rule.Filter(rules, rule.FilterConfig{
		Include: rule.ParsePatterns(rulesInclude),
		Exclude: rule.ParsePatterns(rulesExclude),
	})
	if err != nil {
		return fmt.Errorf("filtering rules: %w", err)
	}

	// Compile all regex rules at once; invalid ones come back as skipped.
	var regexes []string
	var regexRules []*types.Rule
	for _, r := range rules {
		if r.Kind == types.KindRegex {
			regexes = append(regexes, r.Pattern)
			regexRules = append(regexRules, r)
		}
	}
	invalid := make(map[string]error)
	for _, pe := range matcher.NewRegexEngine(regexes).Skipped() {
		invalid[regexRules[pe.PatternID].ID] = pe.Err
	}

	out := cmd.OutOrStdout()
	bad := color.New(color.FgRed)
	ok := color.New(color.FgGreen)
	for _, r := range rules {
		status := ok.Sprint("ok")
		if err, broken := invalid[r.ID]; broken {
			status = bad.Sprintf("invalid: %v", err)
		}
		line := fmt.Sprintf("%-24s %-7s %s", r.ID, r.Kind, r.Pattern)
		if len(r.Keywords) > 0 {
			line += fmt.Sprintf("  keywords=%s", strings.Join(r.Keywords, ","))
		}
		fmt.Fprintf(out, "%s  [%s]\n", line, status)
	}
	if !quiet {
		fmt.Fprintf(out, "\n%d rule(s), %d invalid\n", len(rules), len(invalid))
	}
	return nil
}
