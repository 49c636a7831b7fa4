package scanner

import "strings"

// Format is the encoding of an IR document.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// documentSuffixes maps the recognized IR document suffixes to their format.
var documentSuffixes = []struct {
	suffix string
	format Format
}{
	{".ir.yaml", FormatYAML},
	{".ir.yml", FormatYAML},
	{".ir.json", FormatJSON},
}

// DetectFormat returns the format of the IR document named name, or "" when
// the name carries no IR document suffix.
func DetectFormat(name string) Format {
	lower := strings.ToLower(name)
	for _, s := range documentSuffixes {
		if strings.HasSuffix(lower, s.suffix) && len(lower) > len(s.suffix) {
			return s.format
		}
	}
	return ""
}

// IsDocument reports whether name looks like an IR document.
func IsDocument(name string) bool {
	return DetectFormat(name) != ""
}
