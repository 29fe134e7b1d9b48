package stringutil

import "strings"

// SplitTrimmed cuts s around the first sep and trims surrounding whitespace from both halves. When sep is absent
// the whole (trimmed) input is returned as the first half.
func SplitTrimmed(s, sep string) (before, after string) {
	before, after, _ = strings.Cut(s, sep)
	return strings.TrimSpace(before), strings.TrimSpace(after)
}
