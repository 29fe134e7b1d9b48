package stringutil

import "regexp"

// MatchNamedCaptureGroups takes a regular expression and string and returns all the named capture group results in
// a map. Only the first match that yields at least one non-empty named group is considered.
func MatchNamedCaptureGroups(regEx *regexp.Regexp, content string) map[string]string {
	// patterns wrapped in an optional group match (emptily) at every position, so keep looking until a match
	// carries values
	var results map[string]string
	for _, match := range regEx.FindAllStringSubmatch(content, -1) {
		candidate := make(map[string]string)
		for nameIdx, name := range regEx.SubexpNames() {
			if nameIdx >= len(match) || name == "" {
				continue
			}
			candidate[name] = match[nameIdx]
		}
		if results == nil {
			results = candidate
		}
		if !isEmptyMap(candidate) {
			return candidate
		}
	}
	return results
}

func isEmptyMap(m map[string]string) bool {
	for _, value := range m {
		if value != "" {
			return false
		}
	}
	return true
}
