package checker

import (
	"fmt"
	"sort"

	"github.com/anchore/vercheck/vercheck/extract"
)

// DefaultArgs are passed to binaries that have no dedicated checker.
var DefaultArgs = []string{"--version"}

// Checker describes how to learn the installed version of a tool: which binary to run, with which arguments,
// and how to find the version in its output.
type Checker struct {
	Name   string
	Binary string
	Args   []string
	Rule   extract.Rule
}

// Generic is the checker used for tools without a dedicated entry: "<name> --version" with the default rule.
func Generic(name string) Checker {
	return Checker{
		Name:   name,
		Binary: name,
		Args:   DefaultArgs,
	}
}

// Extractor resolves the checker's extraction rule.
func (c Checker) Extractor() (extract.Extractor, error) {
	e, err := extract.Resolve(c.Rule)
	if err != nil {
		return nil, fmt.Errorf("checker %q: %w", c.Name, err)
	}
	return e, nil
}

// Registry holds the checkers known by name. The zero value is an empty registry. A Registry is never modified
// in place: With returns an extended copy, so a single registry can be shared across concurrent checks.
type Registry struct {
	checkers map[string]Checker
}

func NewRegistry(checkers ...Checker) Registry {
	r := Registry{checkers: make(map[string]Checker, len(checkers))}
	for _, c := range checkers {
		r.checkers[c.Name] = normalize(c)
	}
	return r
}

// DefaultRegistry returns a registry populated with the built-in checkers.
func DefaultRegistry() Registry {
	return NewRegistry(builtins()...)
}

// With returns a copy of the registry extended with (or overridden by) the given checkers.
func (r Registry) With(checkers ...Checker) Registry {
	merged := make([]Checker, 0, len(r.checkers)+len(checkers))
	for _, c := range r.checkers {
		merged = append(merged, c)
	}
	return NewRegistry(append(merged, checkers...)...)
}

// Get returns the checker registered under the given name.
func (r Registry) Get(name string) (Checker, bool) {
	c, ok := r.checkers[name]
	return c, ok
}

// Lookup returns the registered checker for the given name, falling back to a generic checker.
func (r Registry) Lookup(name string) Checker {
	if c, ok := r.Get(name); ok {
		return c
	}
	return Generic(name)
}

// Names returns all registered checker names in sorted order.
func (r Registry) Names() []string {
	names := make([]string, 0, len(r.checkers))
	for name := range r.checkers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func normalize(c Checker) Checker {
	if c.Binary == "" {
		c.Binary = c.Name
	}
	if c.Args == nil {
		c.Args = DefaultArgs
	}
	return c
}
