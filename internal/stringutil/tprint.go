package stringutil

import (
	"strings"
	"text/template"
)

// Tprintf renders tmpl with the given fields. It is meant for static help text, so a template that does not parse
// panics.
func Tprintf(tmpl string, data map[string]interface{}) string {
	var sb strings.Builder
	t := template.Must(template.New("").Parse(tmpl))
	if err := t.Execute(&sb, data); err != nil {
		return ""
	}
	return sb.String()
}
