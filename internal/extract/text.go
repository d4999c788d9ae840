package extract

import (
	"regexp"
)

// HTML <br> in any of its spellings, case-insensitive.
var lineBreakRe = regexp.MustCompile(`(?i)<br\s*/?>`)

// NormalizeLineBreaks replaces HTML line-break markup with plain newlines.
func NormalizeLineBreaks(text string) string {
	return lineBreakRe.ReplaceAllString(text, "\n")
}
