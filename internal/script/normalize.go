package script

import (
	"regexp"
	"strings"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// Normalize collapses whitespace runs to single spaces, trims both ends,
// and standardizes spacing around braces so downstream scanners can rely on
// single-space-delimited tokens. Normalize is pure and idempotent.
func Normalize(s string) string {
	s = whitespaceRun.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, "{", " {")
	s = strings.ReplaceAll(s, "}", "} ")
	s = whitespaceRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// splitTopLevel splits s on sep occurrences that sit at depth zero of the
// open/close pair. Nested separators are left intact. Pieces are trimmed;
// empty pieces are dropped.
func splitTopLevel(s string, sep, open, close byte) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case open:
			depth++
		case close:
			depth--
		case sep:
			if depth == 0 {
				if piece := strings.TrimSpace(s[start:i]); piece != "" {
					parts = append(parts, piece)
				}
				start = i + 1
			}
		}
	}
	if piece := strings.TrimSpace(s[start:]); piece != "" {
		parts = append(parts, piece)
	}
	return parts
}

// balanced reports whether every open in s is closed and depth never goes
// negative.
func balanced(s string, open, close byte) bool {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case open:
			depth++
		case close:
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}

// stripEnclosing removes one matching open/close pair wrapping the whole
// string, if present. "{tell hi}" becomes "tell hi"; "{a} x {b}" is left
// alone because the first brace does not close at the end.
func stripEnclosing(s string, open, close byte) string {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != open || s[len(s)-1] != close {
		return s
	}
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 && i != len(s)-1 {
				return s
			}
		}
	}
	return strings.TrimSpace(s[1 : len(s)-1])
}
