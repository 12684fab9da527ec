package analyzer

import (
	"sort"

	"golang.org/x/text/cases"
)

// KeySet is a set of localization keys compared case-insensitively.
// Keys are case-folded on insertion and lookup; the first spelling seen is
// kept for display.
type KeySet struct {
	keys map[string]string // folded -> original spelling
}

// NewKeySet creates a set holding keys
func NewKeySet(keys ...string) KeySet {
	s := KeySet{keys: make(map[string]string, len(keys))}
	for _, key := range keys {
		s.Add(key)
	}
	return s
}

// NormalizeKey returns the case-folded form used for comparisons
func NormalizeKey(key string) string {
	// A Caser is stateful and not safe for concurrent use, so none is shared
	return cases.Fold().String(key)
}

// Add inserts key unless an equal key (ignoring case) is already present
func (s *KeySet) Add(key string) {
	if s.keys == nil {
		s.keys = make(map[string]string)
	}
	folded := NormalizeKey(key)
	if _, exists := s.keys[folded]; !exists {
		s.keys[folded] = key
	}
}

// Contains reports whether key is in the set, ignoring case
func (s KeySet) Contains(key string) bool {
	_, ok := s.keys[NormalizeKey(key)]
	return ok
}

// Len returns the number of distinct keys
func (s KeySet) Len() int {
	return len(s.keys)
}

// Union adds every key of other to s
func (s *KeySet) Union(other KeySet) {
	for _, key := range other.keys {
		s.Add(key)
	}
}

// Keys returns the keys in their original spelling, sorted
func (s KeySet) Keys() []string {
	keys := make([]string, 0, len(s.keys))
	for _, key := range s.keys {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
