package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Prompts carries optional overrides for the built-in system prompts.
// Empty fields keep the defaults, so a partial file is fine.
type Prompts struct {
	// Rewriter replaces the query-rewrite system instruction.
	Rewriter string `yaml:"rewriter"`

	// Composer replaces the answer-composition persona instruction.
	Composer string `yaml:"composer"`
}

// LoadPrompts reads prompt overrides from a YAML file. An empty path
// returns zero-value Prompts (all defaults).
func LoadPrompts(path string) (Prompts, error) {
	if path == "" {
		return Prompts{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Prompts{}, fmt.Errorf("read prompts file: %w", err)
	}

	var p Prompts
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Prompts{}, fmt.Errorf("parse prompts file: %w", err)
	}

	return p, nil
}
