package parser

import "strings"

const (
	markerOpen = `L["`
	// concatenationToken is the Lua string concatenation operator
	concatenationToken = ".."
	stringFormatCall   = "string.format"
)

// keyMatch is one L["key"] occurrence within a line
type keyMatch struct {
	Key   string
	Start int // byte offset of the L
	End   int // byte offset just past the closing ]
}

// findKeys returns the non-overlapping L["key"] occurrences of line, left to right.
// The key is everything between the quotes and may not be empty or contain a
// double quote. Single-quoted forms never match. A candidate that does not
// close is abandoned and the search resumes one byte after its start.
func findKeys(line string) []keyMatch {
	var matches []keyMatch
	pos := 0
	for pos < len(line) {
		i := strings.Index(line[pos:], markerOpen)
		if i < 0 {
			break
		}
		start := pos + i
		keyStart := start + len(markerOpen)

		q := strings.IndexByte(line[keyStart:], '"')
		closeAt := keyStart + q + 1
		if q > 0 && closeAt < len(line) && line[closeAt] == ']' {
			matches = append(matches, keyMatch{
				Key:   line[keyStart : keyStart+q],
				Start: start,
				End:   closeAt + 1,
			})
			pos = closeAt + 1
			continue
		}
		pos = start + 1
	}
	return matches
}

// isAssignmentTarget reports whether the text after a match begins, after
// optional spaces and tabs, with a single = (not ==)
func isAssignmentTarget(line string, end int) bool {
	rest := strings.TrimLeft(line[end:], " \t")
	return strings.HasPrefix(rest, "=") && !strings.HasPrefix(rest, "==")
}
