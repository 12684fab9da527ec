package analyzer

// Merge combines per-file results in the order given. Keys are unioned and
// entry lists are appended one result after another; no entry is dropped.
func Merge(results ...*ParseResult) *ParseResult {
	merged := NewParseResult()
	for _, result := range results {
		merged.Append(result)
	}
	return merged
}

// Append adds the keys and entries of other after those already in r
func (r *ParseResult) Append(other *ParseResult) {
	if other == nil {
		return
	}
	for key := range other.UniqueKeys {
		r.UniqueKeys[key] = struct{}{}
	}
	r.AllEntries = append(r.AllEntries, other.AllEntries...)
	r.ConcatenatedEntries = append(r.ConcatenatedEntries, other.ConcatenatedEntries...)
}

// MergeDefinitions returns the case-insensitive union of sets
func MergeDefinitions(sets ...KeySet) KeySet {
	merged := NewKeySet()
	for _, set := range sets {
		merged.Union(set)
	}
	return merged
}
