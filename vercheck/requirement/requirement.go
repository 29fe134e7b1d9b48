package requirement

import (
	"fmt"
	"strings"
)

// Requirement is the user supplied expression a detected version must satisfy. It is a closed set of three
// shapes: Text, Constraint and Constraints. All of them normalize to an ordered list of constraints
// with ParseVersionRequirement.
type Requirement interface {
	fmt.Stringer
	isRequirement()
}

var (
	_ Requirement = Text("")
	_ Requirement = Constraint{}
	_ Requirement = Constraints(nil)
)

// Text is a free-text requirement holding one or more comma separated "operator version" fragments,
// e.g. ">= 20.0.0, < 22".
type Text string

func (Text) isRequirement() {}

func (t Text) String() string {
	return string(t)
}

// Constraint pairs an operator with a version string (e.g. ">=" and "18.0.0").
type Constraint struct {
	Operator Operator `yaml:"operator" json:"operator" mapstructure:"operator"`
	Version  string   `yaml:"version" json:"version" mapstructure:"version"`
}

func (Constraint) isRequirement() {}

func (c Constraint) String() string {
	return string(c.Operator) + c.Version
}

// Constraints is an ordered list of constraints that must all hold.
type Constraints []Constraint

func (Constraints) isRequirement() {}

func (cs Constraints) String() string {
	parts := make([]string, 0, len(cs))
	for _, c := range cs {
		parts = append(parts, c.String())
	}
	return strings.Join(parts, ", ")
}
