package extract

import (
	"regexp"
	"strings"
)

var (
	crlfPattern        = regexp.MustCompile(`\r\n?`)
	excessNewlines     = regexp.MustCompile(`\n{3,}`)
	spaceRuns          = regexp.MustCompile(`[ \t]{2,}`)
	bulletGlyphs       = regexp.MustCompile(`(?m)^[ \t]*[•*\-▪◦‣·●○][ \t]+`)
	zeroWidthOrControl = regexp.MustCompile("[​‌‍\uFEFF\x00-\x08\x0b\x0c\x0e-\x1f\x7f]")
)

// CleanText normalizes extracted resume text: consistent line endings, single
// bullet glyph, no control characters, collapsed whitespace.
func CleanText(raw string) string {
	text := crlfPattern.ReplaceAllString(raw, "\n")
	text = zeroWidthOrControl.ReplaceAllString(text, "")
	text = bulletGlyphs.ReplaceAllString(text, "• ")
	text = spaceRuns.ReplaceAllString(text, " ")
	text = excessNewlines.ReplaceAllString(text, "\n\n")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
