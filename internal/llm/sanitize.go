package llm

import (
	"regexp"
	"strings"
)

var (
	fenceOpen  = regexp.MustCompile("^```[a-zA-Z0-9]*\n?")
	fenceClose = regexp.MustCompile("\n?```$")
)

// Sanitize strips a leading fenced-code-block marker (language-tagged or
// not) and a trailing closing marker from raw model output, then trims
// surrounding whitespace. The HTML between the markers is left untouched.
// Applying it twice yields the same result as once.
func Sanitize(raw string) string {
	s := strings.TrimSpace(raw)
	s = fenceOpen.ReplaceAllString(s, "")
	s = fenceClose.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
