package config

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/anchore/vercheck/vercheck/checker"
	"github.com/anchore/vercheck/vercheck/extract"
)

// customChecker describes a tool that has no built-in checker (or overrides one).
type customChecker struct {
	Name    string   `yaml:"name" json:"name" mapstructure:"name"`
	Binary  string   `yaml:"binary" json:"binary" mapstructure:"binary"`                     // defaults to the name
	Args    []string `yaml:"args" json:"args" mapstructure:"args"`                           // defaults to --version
	Pattern string   `yaml:"pattern,omitempty" json:"pattern,omitempty" mapstructure:"pattern"` // regex with an optional "version" named group
}

func (c customChecker) toChecker() (checker.Checker, error) {
	name := normalizeKey(c.Name)
	if name == "" {
		return checker.Checker{}, fmt.Errorf("custom checker has no name")
	}

	result := checker.Checker{
		Name:   name,
		Binary: strings.TrimSpace(c.Binary),
		Args:   c.Args,
	}
	if strings.TrimSpace(c.Pattern) != "" {
		result.Rule = extract.Pattern(c.Pattern)
	}

	// fail early on bad patterns rather than when the checker is first used
	if _, err := result.Extractor(); err != nil {
		return checker.Checker{}, err
	}
	return result, nil
}

func buildRegistry(custom []customChecker) (checker.Registry, error) {
	var errs error
	checkers := make([]checker.Checker, 0, len(custom))
	for _, c := range custom {
		converted, err := c.toChecker()
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		checkers = append(checkers, converted)
	}
	if errs != nil {
		return checker.Registry{}, errs
	}
	return checker.DefaultRegistry().With(checkers...), nil
}
