package rule

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/fastmatch/fastmatch/pkg/types"
)

// FilterConfig specifies include and exclude patterns for rule filtering.
type FilterConfig struct {
	Include []string // regex patterns - only matching rule ids included
	Exclude []string // regex patterns - matching rule ids excluded
}

// ParsePatterns splits a comma-separated string into individual patterns,
// trimming whitespace.
func ParsePatterns(patterns string) []string {
	if patterns == "" {
		return []string{}
	}
	parts := strings.Split(patterns, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// Filter applies include then exclude patterns to rule ids. Empty include
// means "include all". Returns an error on an invalid filter regex.
func Filter(rules []*types.Rule, config FilterConfig) ([]*types.Rule, error) {
	if len(rules) == 0 {
		return rules, nil
	}

	include, err := compileAll(config.Include)
	if err != nil {
		return nil, err
	}
	exclude, err := compileAll(config.Exclude)
	if err != nil {
		return nil, err
	}

	filtered := rules
	if len(include) > 0 {
		filtered = keep(filtered, func(id string) bool { return matchesAny(id, include) })
	}
	if len(exclude) > 0 {
		filtered = keep(filtered, func(id string) bool { return !matchesAny(id, exclude) })
	}
	return filtered, nil
}

func compileAll(patterns []string) ([]*regexp.Regexp, error) {
	var out []*regexp.Regexp
	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid regex pattern %q: %w", pattern, err)
		}
		out = append(out, re)
	}
	return out, nil
}

func keep(rules []*types.Rule, pred func(id string) bool) []*types.Rule {
	result := make([]*types.Rule, 0, len(rules))
	for _, rule := range rules {
		if pred(rule.ID) {
			result = append(result, rule)
		}
	}
	return result
}

func matchesAny(ruleID string, regexes []*regexp.Regexp) bool {
	for _, re := range regexes {
		if re.MatchString(ruleID) {
			return true
		}
	}
	return false
}
