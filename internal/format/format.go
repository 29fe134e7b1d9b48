package format

import "strings"

const (
	UnknownFormat  Format = "unknown"
	JSONFormat     Format = "json"
	TableFormat    Format = "table"
	TemplateFormat Format = "template"
)

// Format names a report renderer selectable with -o.
type Format string

func (f Format) String() string {
	return string(f)
}

// AvailableFormats lists the formats a user may select. The first entry is the default.
var AvailableFormats = []Format{
	TableFormat,
	JSONFormat,
	TemplateFormat,
}

// Parse matches user input against the available formats, ignoring case and surrounding whitespace. Empty input
// selects the default format.
func Parse(userInput string) Format {
	name := strings.TrimSpace(userInput)
	if name == "" {
		return AvailableFormats[0]
	}
	for _, f := range AvailableFormats {
		if strings.EqualFold(name, f.String()) {
			return f
		}
	}
	return UnknownFormat
}
