package analyzer

import (
	"reflect"
	"testing"
)

func TestMerge(t *testing.T) {
	first := NewParseResult()
	first.Add(UsageEntry{Key: "A", FilePath: "a.lua", LineNumber: 1})
	first.Add(UsageEntry{Key: "B", FilePath: "a.lua", LineNumber: 2, HasConcatenation: true})

	second := NewParseResult()
	second.Add(UsageEntry{Key: "A", FilePath: "b.lua", LineNumber: 1, HasConcatenation: true})
	second.Add(UsageEntry{Key: "C", FilePath: "b.lua", LineNumber: 5})

	merged := Merge(first, nil, second)

	if !reflect.DeepEqual(merged.Keys(), []string{"A", "B", "C"}) {
		t.Errorf("Keys() = %v", merged.Keys())
	}

	var locations []string
	for _, e := range merged.AllEntries {
		locations = append(locations, e.FilePath+":"+e.Key)
	}
	expected := []string{"a.lua:A", "a.lua:B", "b.lua:A", "b.lua:C"}
	if !reflect.DeepEqual(locations, expected) {
		t.Errorf("AllEntries = %v, want %v", locations, expected)
	}

	if len(merged.ConcatenatedEntries) != 2 {
		t.Errorf("Expected 2 concatenated entries, got %d", len(merged.ConcatenatedEntries))
	}

	if len(first.AllEntries) != 2 || len(second.AllEntries) != 2 {
		t.Error("Merge modified its inputs")
	}
}

func TestMerge_KeySetIsOrderIndependent(t *testing.T) {
	a := NewParseResult()
	a.Add(UsageEntry{Key: "X", FilePath: "a.lua", LineNumber: 1})
	b := NewParseResult()
	b.Add(UsageEntry{Key: "Y", FilePath: "b.lua", LineNumber: 1})
	c := NewParseResult()
	c.Add(UsageEntry{Key: "X", FilePath: "c.lua", LineNumber: 1})

	left := Merge(Merge(a, b), c)
	right := Merge(c, Merge(b, a))

	if !reflect.DeepEqual(left.UniqueKeys, right.UniqueKeys) {
		t.Errorf("Key sets differ: %v vs %v", left.Keys(), right.Keys())
	}
	if len(left.AllEntries) != 3 || len(right.AllEntries) != 3 {
		t.Error("Every occurrence should survive merging")
	}
}

func TestMerge_Empty(t *testing.T) {
	merged := Merge()

	if merged.Len() != 0 || len(merged.AllEntries) != 0 || len(merged.ConcatenatedEntries) != 0 {
		t.Errorf("Expected empty result, got %+v", merged)
	}
}

func TestMergeDefinitions(t *testing.T) {
	merged := MergeDefinitions(
		NewKeySet("Hello", "World"),
		NewKeySet("hello", "Goodbye"),
		KeySet{},
	)

	if merged.Len() != 3 {
		t.Errorf("Expected 3 keys, got %d: %v", merged.Len(), merged.Keys())
	}
	for _, key := range []string{"HELLO", "world", "goodbye"} {
		if !merged.Contains(key) {
			t.Errorf("Expected %q in merged set", key)
		}
	}
}

func TestKeySet(t *testing.T) {
	var s KeySet
	if s.Contains("x") || s.Len() != 0 {
		t.Error("Zero KeySet should be empty")
	}

	s.Add("Énergie")
	s.Add("ÉNERGIE")
	s.Add("Other")

	if s.Len() != 2 {
		t.Errorf("Expected case folding to merge Énergie and ÉNERGIE, got %v", s.Keys())
	}
	if !s.Contains("énergie") {
		t.Error("Expected folded lookup to match")
	}
	if !reflect.DeepEqual(s.Keys(), []string{"Other", "Énergie"}) {
		t.Errorf("Keys() should keep first spelling, got %v", s.Keys())
	}
}

func TestParseResult_WithStringFormat(t *testing.T) {
	r := NewParseResult()
	r.Add(UsageEntry{Key: "A", HasStringFormat: true})
	r.Add(UsageEntry{Key: "B"})

	entries := r.WithStringFormat()
	if len(entries) != 1 || entries[0].Key != "A" {
		t.Errorf("WithStringFormat() = %v", entries)
	}
}
