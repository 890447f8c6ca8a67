// Package rule loads named patterns from YAML files and filters them by id.
package rule

import (
	"fmt"
	"os"

	"github.com/fastmatch/fastmatch/pkg/types"
	"gopkg.in/yaml.v3"
)

// Loader parses rules files.
type Loader struct{}

// NewLoader creates a Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// LoadRules parses all rules from YAML bytes. Each rule must carry an id,
// a pattern, and a kind of "literal" or "regex"; kind defaults to literal
// when omitted.
func (l *Loader) LoadRules(data []byte) ([]*types.Rule, error) {
	var yamlFile yamlRulesFile
	if err := yaml.Unmarshal(data, &yamlFile); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if len(yamlFile.Rules) == 0 {
		return nil, fmt.Errorf("no rules found in YAML")
	}

	rules := make([]*types.Rule, 0, len(yamlFile.Rules))
	for i, yr := range yamlFile.Rules {
		r, err := convertYAMLRule(yr)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
		rules = append(rules, r)
	}
	return rules, nil
}

// LoadRuleFile loads all rules from a YAML file path.
func (l *Loader) LoadRuleFile(path string) ([]*types.Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return l.LoadRules(data)
}

func convertYAMLRule(yr yamlRule) (*types.Rule, error) {
	if yr.ID == "" {
		return nil, fmt.Errorf("missing id")
	}
	if yr.Pattern == "" {
		return nil, fmt.Errorf("missing pattern")
	}

	var kind types.Kind
	switch yr.Kind {
	case "", string(types.KindLiteral):
		kind = types.KindLiteral
	case string(types.KindRegex):
		kind = types.KindRegex
	default:
		return nil, fmt.Errorf("unknown kind %q", yr.Kind)
	}

	return &types.Rule{
		ID:          yr.ID,
		Name:        yr.Name,
		Kind:        kind,
		Pattern:     yr.Pattern,
		Description: yr.Description,
		Keywords:    yr.Keywords,
	}, nil
}
