package advisor

import (
	"regexp"
	"strings"
)

var (
	markdownLink = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	bareURL      = regexp.MustCompile(`(?i)\b(?:https?://|www\.)\S+`)
	markdownMark = regexp.MustCompile("[*_`#>~|]+")
)

// FormatText strips markdown symbols and URLs, collapses whitespace and
// truncates to maxChars runes on a word boundary.
func FormatText(s string, maxChars int) string {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}

	s = markdownLink.ReplaceAllString(s, "$1")
	s = bareURL.ReplaceAllString(s, "")
	s = markdownMark.ReplaceAllString(s, "")
	s = strings.Join(strings.Fields(s), " ")

	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}

	cut := string(runes[:maxChars-1])
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,;:-") + "…"
}
