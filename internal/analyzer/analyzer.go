package analyzer

import (
	"sort"

	"github.com/jenian/locgrd/internal/config"
)

// Reconcile returns the keys used in code that have no definition, grouped by key.
// Keys are compared case-insensitively against defined. Locations keep the
// order of usage.AllEntries.
func Reconcile(usage *ParseResult, defined KeySet) map[string]MissingKeyInfo {
	missing := make(map[string]MissingKeyInfo)
	if usage == nil {
		return missing
	}

	for key := range usage.UniqueKeys {
		if !defined.Contains(key) {
			missing[key] = MissingKeyInfo{Key: key, Locations: []Location{}}
		}
	}

	for _, entry := range usage.AllEntries {
		info, ok := missing[entry.Key]
		if !ok {
			continue
		}
		info.OccurrenceCount++
		info.Locations = append(info.Locations, Location{FilePath: entry.FilePath, LineNumber: entry.LineNumber})
		if entry.HasConcatenation {
			info.HasConcatenation = true
		}
		missing[entry.Key] = info
	}

	return missing
}

// Analyze reconciles usage against defined and applies the configured ignores.
// cfg may be nil.
func Analyze(usage *ParseResult, defined KeySet, cfg *config.Config) Report {
	report := Report{
		DefinedKeys:  defined.Len(),
		Missing:      make(map[string]MissingKeyInfo),
		Plain:        []MissingKeyInfo{},
		Concatenated: []MissingKeyInfo{},
	}
	if usage != nil {
		report.TotalKeys = usage.Len()
	}

	for key, info := range Reconcile(usage, defined) {
		if cfg != nil && cfg.ShouldIgnoreMissing(key) {
			report.IgnoredMissing++
			continue
		}
		report.Missing[key] = info
		if info.HasConcatenation {
			report.Concatenated = append(report.Concatenated, info)
		} else {
			report.Plain = append(report.Plain, info)
		}
	}

	sortByKey(report.Plain)
	sortByKey(report.Concatenated)
	return report
}

func sortByKey(infos []MissingKeyInfo) {
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Key < infos[j].Key
	})
}
