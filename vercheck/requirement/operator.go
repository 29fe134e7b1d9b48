package requirement

import "fmt"

const (
	EQ    Operator = "="
	GT    Operator = ">"
	LT    Operator = "<"
	GTE   Operator = ">="
	LTE   Operator = "<="
	Caret Operator = "^"
	Tilde Operator = "~"
)

// Operator is the comparison (or range shorthand) applied between a detected version and a constraint version.
type Operator string

// Operators lists every recognized operator. Two-character tokens come before their single-character
// prefixes so that ">=" is never tokenized as ">".
var Operators = []Operator{GTE, LTE, GT, LT, EQ, Caret, Tilde}

func ParseOperator(op string) (Operator, error) {
	for _, candidate := range Operators {
		if op == string(candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("unknown operator: '%s'", op)
}
