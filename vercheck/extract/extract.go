package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/anchore/vercheck/internal/stringutil"
)

// VersionGroup is the named capture group that holds the primary version in a pattern rule. All other named
// groups are reported as components.
const VersionGroup = "version"

// defaultPattern finds the first token that looks like a (possibly partial) semantic version, e.g. "v20.10.0",
// "1.21.5" in "go1.21.5" or "3.12" in "Python 3.12".
var defaultPattern = regexp.MustCompile(`v?(?P<version>\d+\.\d+(?:\.\d+)?(?:-[0-9A-Za-z]+(?:\.[0-9A-Za-z]+)*)?(?:\+[0-9A-Za-z]+(?:\.[0-9A-Za-z]+)*)?)`)

// Extraction is what could be learned about a version from raw tool output. Both fields are optional.
type Extraction struct {
	Version    string            `json:"version,omitempty"`
	Components map[string]string `json:"components,omitempty"`
}

// Found indicates if either a version or at least one component version was extracted.
func (e Extraction) Found() bool {
	return e.Version != "" || len(e.Components) > 0
}

// Component returns the version of a named component, or the primary version when no component is named.
func (e Extraction) Component(name string) (string, bool) {
	if name == "" {
		return e.Version, e.Version != ""
	}
	v, ok := e.Components[name]
	return v, ok && v != ""
}

// Extractor turns raw command output into an Extraction.
type Extractor func(output string) Extraction

// Resolve converts any extraction rule into a plain Extractor. A nil rule resolves to the default semantic
// version search.
func Resolve(rule Rule) (Extractor, error) {
	switch r := rule.(type) {
	case nil:
		return fromRegexp(defaultPattern, true), nil
	case Pattern:
		if strings.TrimSpace(string(r)) == "" {
			return fromRegexp(defaultPattern, true), nil
		}
		re, err := regexp.Compile(string(r))
		if err != nil {
			return nil, fmt.Errorf("invalid version pattern %q: %w", string(r), err)
		}
		return fromRegexp(re, false), nil
	case Compiled:
		if r.Regexp == nil {
			return nil, fmt.Errorf("no compiled version pattern given")
		}
		return fromRegexp(r.Regexp, false), nil
	case Func:
		if r == nil {
			return nil, fmt.Errorf("no version extraction function given")
		}
		return Extractor(r), nil
	}
	return nil, fmt.Errorf("unsupported version extraction rule: %T", rule)
}

func fromRegexp(re *regexp.Regexp, preferFirstLine bool) Extractor {
	return func(output string) Extraction {
		if preferFirstLine {
			// most tools report the version on the first line, later lines tend to mention dependency versions
			if e := matchRegexp(re, firstLine(output)); e.Found() {
				return e
			}
		}
		return matchRegexp(re, output)
	}
}

func matchRegexp(re *regexp.Regexp, content string) Extraction {
	var e Extraction

	groups := stringutil.MatchNamedCaptureGroups(re, content)
	for name, value := range groups {
		if name == VersionGroup {
			e.Version = strings.TrimSpace(value)
			continue
		}
		if value == "" {
			continue
		}
		if e.Components == nil {
			e.Components = make(map[string]string)
		}
		e.Components[name] = strings.TrimSpace(value)
	}

	if _, hasVersionGroup := groups[VersionGroup]; hasVersionGroup {
		return e
	}

	// without a "version" group fall back to the first capture group, then the whole match
	match := re.FindStringSubmatch(content)
	switch {
	case len(match) > 1 && match[1] != "":
		e.Version = strings.TrimSpace(match[1])
	case len(match) > 0:
		e.Version = strings.TrimSpace(match[0])
	}
	return e
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.IndexAny(s, "\r\n"); idx >= 0 {
		return s[:idx]
	}
	return s
}
