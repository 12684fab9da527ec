package parser

import (
	"strings"

	"github.com/jenian/locgrd/internal/analyzer"
)

// ScanUsages extracts every L["key"] occurrence from the lines of one file.
// The file is treated as plain text: matches inside comments and long strings
// are extracted too. The concatenation flag applies to the whole line.
func ScanUsages(path string, lines []string) *analyzer.ParseResult {
	result := analyzer.NewParseResult()

	for i, line := range lines {
		matches := findKeys(line)
		if len(matches) == 0 {
			continue
		}

		hasConcatenation := strings.Contains(line, concatenationToken)
		hasStringFormat := strings.Contains(line, stringFormatCall)
		rawLine := strings.TrimSpace(line)

		for _, m := range matches {
			result.Add(analyzer.UsageEntry{
				Key:              m.Key,
				FilePath:         path,
				LineNumber:       i + 1,
				HasConcatenation: hasConcatenation,
				HasStringFormat:  hasStringFormat,
				RawLine:          rawLine,
			})
		}
	}

	return result
}
