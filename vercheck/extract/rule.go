package extract

import "regexp"

// Rule describes how to find a version in the output of a command. It is one of Pattern, Compiled or Func.
type Rule interface {
	isRule()
}

var (
	_ Rule = Pattern("")
	_ Rule = Compiled{}
	_ Rule = Func(nil)
)

// Pattern is the source text of a regular expression (typically from configuration).
type Pattern string

func (Pattern) isRule() {}

// Compiled wraps an already compiled regular expression.
type Compiled struct {
	*regexp.Regexp
}

func (Compiled) isRule() {}

// MustCompile compiles the given expression into a Compiled rule, panicking if it is invalid. It is meant for
// static rule tables.
func MustCompile(expr string) Compiled {
	return Compiled{Regexp: regexp.MustCompile(expr)}
}

// Func extracts versions with arbitrary logic.
type Func func(output string) Extraction

func (Func) isRule() {}
