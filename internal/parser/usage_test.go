package parser

import (
	"reflect"
	"testing"
)

func TestFindKeys(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected []string
	}{
		{"single", `local message = L["HelloWorld"]`, []string{"HelloWorld"}},
		{"several on one line", `print(L["A"], L["B"], L["C"])`, []string{"A", "B", "C"}},
		{"single quotes", `L['SingleQuoteMessage']`, nil},
		{"empty key", `L[""]`, nil},
		{"missing bracket", `L["Open" .. L["Closed"]`, []string{"Closed"}},
		{"special characters", `L["Hello, %s! (100%%) - {x}"]`, []string{"Hello, %s! (100%%) - {x}"}},
		{"spaces inside key", `L["Two words"]`, []string{"Two words"}},
		{"space before bracket", `L[ "Spaced" ]`, nil},
		{"other table", `T["Nope"] and myL["Yes"]`, []string{"Yes"}},
		{"unterminated", `L["Never closed`, nil},
		{"adjacent", `L["A"]L["B"]`, []string{"A", "B"}},
		{"no marker", `local x = 1`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var keys []string
			for _, m := range findKeys(tt.line) {
				keys = append(keys, m.Key)
			}
			if !reflect.DeepEqual(keys, tt.expected) {
				t.Errorf("findKeys(%q) = %q, want %q", tt.line, keys, tt.expected)
			}
		})
	}
}

func TestFindKeys_Offsets(t *testing.T) {
	line := `x = L["Key"] = 1`
	matches := findKeys(line)
	if len(matches) != 1 {
		t.Fatalf("Expected 1 match, got %d", len(matches))
	}
	if got := line[matches[0].Start:matches[0].End]; got != `L["Key"]` {
		t.Errorf("Match spans %q", got)
	}
}

func TestScanUsages_Concatenation(t *testing.T) {
	lines := []string{
		`local msg = L["Part1"] .. L["Part2"]`,
		`local simple = L["Simple"]`,
	}

	result := ScanUsages("detailed.lua", lines)

	if !reflect.DeepEqual(result.Keys(), []string{"Part1", "Part2", "Simple"}) {
		t.Errorf("Keys() = %v", result.Keys())
	}
	if len(result.ConcatenatedEntries) != 2 {
		t.Fatalf("Expected 2 concatenated entries, got %d", len(result.ConcatenatedEntries))
	}
	for i, key := range []string{"Part1", "Part2"} {
		entry := result.ConcatenatedEntries[i]
		if entry.Key != key || !entry.HasConcatenation {
			t.Errorf("ConcatenatedEntries[%d] = %+v, want flagged %s", i, entry, key)
		}
	}
	if result.AllEntries[2].HasConcatenation {
		t.Error("Simple should not be flagged")
	}
}

func TestScanUsages_ConcatenationIsLineScoped(t *testing.T) {
	lines := []string{
		`local a, b = L["First"], L["Second"]; local c = "x" .. y`,
	}

	result := ScanUsages("test.lua", lines)

	if len(result.AllEntries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(result.AllEntries))
	}
	for _, entry := range result.AllEntries {
		if !entry.HasConcatenation {
			t.Errorf("%s should be flagged: the line contains ..", entry.Key)
		}
	}
}

func TestScanUsages_CommentsAndLongStrings(t *testing.T) {
	lines := []string{
		`L["ValidMessage"]`,
		`-- Comments can also contain L["CommentMessage"] patterns`,
		`local multiline = [[`,
		`    L["LongStringMessage"]`,
		`]]`,
	}

	result := ScanUsages("test.lua", lines)

	expected := []string{"CommentMessage", "LongStringMessage", "ValidMessage"}
	if !reflect.DeepEqual(result.Keys(), expected) {
		t.Errorf("Keys() = %v, want %v", result.Keys(), expected)
	}
}

func TestScanUsages_LineMetadata(t *testing.T) {
	lines := []string{
		"",
		"-- header",
		`    local label = string.format(L["Count: %d"], n)   `,
	}

	result := ScanUsages("Core.lua", lines)

	if len(result.AllEntries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(result.AllEntries))
	}
	entry := result.AllEntries[0]
	if entry.FilePath != "Core.lua" {
		t.Errorf("FilePath = %q", entry.FilePath)
	}
	if entry.LineNumber != 3 {
		t.Errorf("LineNumber = %d, want 3", entry.LineNumber)
	}
	if entry.RawLine != `local label = string.format(L["Count: %d"], n)` {
		t.Errorf("RawLine = %q", entry.RawLine)
	}
	if !entry.HasStringFormat {
		t.Error("Expected HasStringFormat")
	}
	if len(result.WithStringFormat()) != 1 {
		t.Errorf("WithStringFormat() = %v", result.WithStringFormat())
	}
}

func TestScanUsages_Deterministic(t *testing.T) {
	lines := []string{
		`L["B"] .. L["A"]`,
		`L["C"]`,
		`L["A"]`,
	}

	first := ScanUsages("test.lua", lines)
	second := ScanUsages("test.lua", lines)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Scanning the same content twice differed:\n%+v\n%+v", first, second)
	}
}

func TestScanUsages_NoMatches(t *testing.T) {
	result := ScanUsages("test.lua", []string{"local x = 1", "print('hi')"})

	if result.Len() != 0 || len(result.AllEntries) != 0 || len(result.ConcatenatedEntries) != 0 {
		t.Errorf("Expected empty result, got %+v", result)
	}
}
