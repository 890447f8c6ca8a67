package rule

// yamlRulesFile is the top-level structure of a rules YAML file:
//
//	rules:
//	  - id: fm.date.iso
//	    name: ISO date
//	    kind: regex
//	    pattern: '\d{4}-\d{2}-\d{2}'
//	    keywords: ["-"]
type yamlRulesFile struct {
	Rules []yamlRule `yaml:"rules"`
}

type yamlRule struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Kind        string   `yaml:"kind"` // "literal" or "regex"
	Pattern     string   `yaml:"pattern"`
	Description string   `yaml:"description,omitempty"`
	Keywords    []string `yaml:"keywords,omitempty"`
}
