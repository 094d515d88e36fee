package engine

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	reLineTrailingWS = regexp.MustCompile(`[ \t]+\n`)
	reBlankRuns      = regexp.MustCompile(`\n{3,}`)
	reLineEndings    = regexp.MustCompile(`\r\n?`)
)

// normalizeOutput post-processes renderer output: line endings become LF,
// control characters (except \n and \t) are stripped, trailing whitespace is
// removed per line, runs of blank lines collapse to one, and the result is
// valid UTF-8 trimmed at both ends.
func normalizeOutput(s string) string {
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "")
	}

	s = reLineEndings.ReplaceAllString(s, "\n")

	s = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)

	// Trailing newline guarantees the last line is covered by the
	// per-line pattern.
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	s = reLineTrailingWS.ReplaceAllString(s, "\n")
	s = reBlankRuns.ReplaceAllString(s, "\n\n")

	return strings.TrimSpace(s)
}
