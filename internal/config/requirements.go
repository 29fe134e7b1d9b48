package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/anchore/vercheck/internal/stringutil"
	"github.com/anchore/vercheck/vercheck"
	"github.com/anchore/vercheck/vercheck/requirement"
)

// requirements maps a requirement key ("node", "docker:server") onto one of three shapes:
//
//	node: ">= 18.0.0, < 22"
//	go: {operator: "^", version: "1.21.0"}
//	git: [{operator: ">=", version: "2.40"}, {operator: "<", version: "3"}]
type requirements map[string]interface{}

// parse converts the raw configuration into targets sorted by key. Overrides are "key=expression" entries (from
// the command line) that replace any configured requirement with the same key.
func (r requirements) parse(overrides []string) ([]vercheck.Target, error) {
	var errs error
	parsed := make(map[string]requirement.Requirement, len(r)+len(overrides))

	for key, raw := range r {
		req, err := decodeRequirement(raw)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("requirement %q: %w", key, err))
			continue
		}
		parsed[normalizeKey(key)] = req
	}

	for _, o := range overrides {
		key, expr := stringutil.SplitTrimmed(o, "=")
		key = normalizeKey(key)
		if key == "" || expr == "" {
			errs = multierror.Append(errs, fmt.Errorf("bad requirement %q: expected NAME=EXPRESSION", o))
			continue
		}
		parsed[key] = requirement.Text(expr)
	}

	if errs != nil {
		return nil, errs
	}

	keys := make([]string, 0, len(parsed))
	for key := range parsed {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	targets := make([]vercheck.Target, 0, len(keys))
	for _, key := range keys {
		targets = append(targets, vercheck.NewTarget(key, parsed[key]))
	}
	return targets, nil
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

func decodeRequirement(raw interface{}) (requirement.Requirement, error) {
	switch v := raw.(type) {
	case string:
		return requirement.Text(v), nil
	case []interface{}:
		list := make(requirement.Constraints, 0, len(v))
		for i, item := range v {
			c, err := decodeConstraint(item)
			if err != nil {
				return nil, fmt.Errorf("constraint #%d: %w", i+1, err)
			}
			list = append(list, c)
		}
		return list, nil
	}

	if m, ok := toStringMap(raw); ok {
		return decodeConstraint(m)
	}
	return nil, fmt.Errorf("unsupported requirement (%T): must be a string, a constraint or a list of constraints", raw)
}

func decodeConstraint(raw interface{}) (requirement.Constraint, error) {
	m, ok := toStringMap(raw)
	if !ok {
		return requirement.Constraint{}, fmt.Errorf("unsupported constraint (%T): must have an operator and a version", raw)
	}

	op, err := requirement.ParseOperator(scalar(m["operator"]))
	if err != nil {
		return requirement.Constraint{}, err
	}

	version := scalar(m["version"])
	if version == "" {
		return requirement.Constraint{}, fmt.Errorf("constraint %q has no version", op)
	}

	return requirement.Constraint{Operator: op, Version: version}, nil
}

// toStringMap accepts both decoded yaml mapping flavors.
func toStringMap(raw interface{}) (map[string]interface{}, bool) {
	switch v := raw.(type) {
	case map[string]interface{}:
		return v, true
	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(v))
		for k, val := range v {
			m[fmt.Sprint(k)] = val
		}
		return m, true
	}
	return nil, false
}

// scalar renders yaml scalars as text, so that "version: 18" is the same as "version: '18'".
func scalar(raw interface{}) string {
	if raw == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(raw))
}
