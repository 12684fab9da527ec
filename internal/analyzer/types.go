package analyzer

import "sort"

// UsageEntry represents a single L["key"] occurrence in a source file
type UsageEntry struct {
	Key              string // The localization key between the quotes
	FilePath         string // File path where it's used
	LineNumber       int    // 1-based line number
	HasConcatenation bool   // True if the line contains the ".." operator
	HasStringFormat  bool   // True if the line calls string.format
	RawLine          string // Trimmed text of the line
}

// Location is a file/line pair where a key is used
type Location struct {
	FilePath   string `json:"file"`
	LineNumber int    `json:"line"`
}

// ParseResult holds the usages found in one file or in a whole directory.
// AllEntries keeps every occurrence, duplicates included; UniqueKeys is the
// deduplicated key set and ConcatenatedEntries the subset of AllEntries with
// HasConcatenation set.
type ParseResult struct {
	UniqueKeys          map[string]struct{}
	AllEntries          []UsageEntry
	ConcatenatedEntries []UsageEntry
}

// NewParseResult creates an empty result
func NewParseResult() *ParseResult {
	return &ParseResult{
		UniqueKeys:          make(map[string]struct{}),
		AllEntries:          []UsageEntry{},
		ConcatenatedEntries: []UsageEntry{},
	}
}

// Add records one occurrence
func (r *ParseResult) Add(entry UsageEntry) {
	r.UniqueKeys[entry.Key] = struct{}{}
	r.AllEntries = append(r.AllEntries, entry)
	if entry.HasConcatenation {
		r.ConcatenatedEntries = append(r.ConcatenatedEntries, entry)
	}
}

// Has reports whether key was seen, comparing exactly
func (r *ParseResult) Has(key string) bool {
	_, ok := r.UniqueKeys[key]
	return ok
}

// Keys returns the unique keys sorted
func (r *ParseResult) Keys() []string {
	keys := make([]string, 0, len(r.UniqueKeys))
	for key := range r.UniqueKeys {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of unique keys
func (r *ParseResult) Len() int {
	return len(r.UniqueKeys)
}

// WithStringFormat returns the entries whose line calls string.format
func (r *ParseResult) WithStringFormat() []UsageEntry {
	var entries []UsageEntry
	for _, entry := range r.AllEntries {
		if entry.HasStringFormat {
			entries = append(entries, entry)
		}
	}
	return entries
}

// MissingKeyInfo describes a used key that has no definition
type MissingKeyInfo struct {
	Key              string     `json:"key"`
	OccurrenceCount  int        `json:"occurrences"`
	Locations        []Location `json:"locations"`
	HasConcatenation bool       `json:"concatenated"`
}

// Report contains the reconciliation results prepared for output
type Report struct {
	TotalKeys      int                       // Unique keys used in code
	DefinedKeys    int                       // Keys defined in translation tables
	Missing        map[string]MissingKeyInfo // Missing keys after ignores, by key
	Plain          []MissingKeyInfo          // Missing keys never built by concatenation, sorted
	Concatenated   []MissingKeyInfo          // Missing keys used in a concatenation, sorted
	IgnoredMissing int                       // Count of missing keys ignored via config
}
