package jobposting

import (
	"html"
	"regexp"
	"strings"
)

var (
	scriptRe     = regexp.MustCompile(`(?is)<(script|style|noscript|head)[^>]*>.*?</\s*(script|style|noscript|head)\s*>`)
	blockTagRe   = regexp.MustCompile(`(?i)</?(p|div|br|li|ul|ol|tr|h[1-6]|section|article)[^>]*>`)
	tagRe        = regexp.MustCompile(`<[^>]+>`)
	blankLinesRe = regexp.MustCompile(`\n{3,}`)
	spacesRe     = regexp.MustCompile(`[ \t]+`)
)

// ExtractText reduces an HTML document to plain text. It is deliberately
// simple: scripts and styles are dropped, block-level tags become newlines,
// remaining tags are stripped and whitespace is collapsed. Non-HTML input
// passes through mostly unchanged.
func ExtractText(page string) string {
	text := scriptRe.ReplaceAllString(page, " ")
	text = blockTagRe.ReplaceAllString(text, "\n")
	text = tagRe.ReplaceAllString(text, " ")
	text = html.UnescapeString(text)

	text = spacesRe.ReplaceAllString(text, " ")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	text = strings.Join(lines, "\n")
	text = blankLinesRe.ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(text)
}
