package requirement

import (
	"regexp"
	"strings"
	"unicode"
)

// fragmentPattern matches a single "operator version" fragment. The operator alternation follows the order of
// Operators (longest tokens first) and the version group is whatever remains of the fragment.
var fragmentPattern = regexp.MustCompile(`^(?P<operator>` + operatorAlternation() + `)\s*(?P<version>.+)$`)

func operatorAlternation() string {
	quoted := make([]string, 0, len(Operators))
	for _, op := range Operators {
		quoted = append(quoted, regexp.QuoteMeta(string(op)))
	}
	return strings.Join(quoted, "|")
}

// ParseStringRequirement splits a free-text requirement on commas and converts every fragment that matches the
// "operator version" grammar into a constraint, in input order. Fragments that do not match are dropped
// without an error.
func ParseStringRequirement(text string) []Constraint {
	constraints := make([]Constraint, 0)
	for _, fragment := range strings.Split(text, ",") {
		match := fragmentPattern.FindStringSubmatch(strings.TrimSpace(fragment))
		if match == nil {
			continue
		}
		constraints = append(constraints, Constraint{
			Operator: Operator(match[fragmentPattern.SubexpIndex("operator")]),
			Version:  strings.TrimRightFunc(match[fragmentPattern.SubexpIndex("version")], unicode.IsSpace),
		})
	}
	return constraints
}

// ParseVersionRequirement normalizes any requirement shape into its ordered list of constraints. A list is
// returned as-is, a single constraint is wrapped and text is parsed with ParseStringRequirement.
func ParseVersionRequirement(requirement Requirement) []Constraint {
	switch r := requirement.(type) {
	case Text:
		return ParseStringRequirement(string(r))
	case Constraint:
		return []Constraint{r}
	case Constraints:
		return r
	}
	return make([]Constraint, 0)
}
