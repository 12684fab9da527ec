package parser

import "github.com/jenian/locgrd/internal/analyzer"

// ScanDefinitions returns the keys assigned in a translation table, e.g.
// L["Key"] = "value". Reads such as print(L["Key"]) or comparisons with ==
// are not definitions.
func ScanDefinitions(lines []string) analyzer.KeySet {
	defined := analyzer.NewKeySet()
	for _, line := range lines {
		for _, m := range findKeys(line) {
			if isAssignmentTarget(line, m.End) {
				defined.Add(m.Key)
			}
		}
	}
	return defined
}
