package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jenian/locgrd/internal/analyzer"
	"golang.org/x/term"
)

var (
	// Color support detection
	colorEnabled = initColorSupport()
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorGreen  = "\033[32m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
	colorBold   = "\033[1m"
)

// initColorSupport initializes color support for the terminal
func initColorSupport() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	// Check if stdout is a terminal
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return false
	}

	// On Windows, enable ANSI escape sequences (handled in formatter_windows.go)
	// On Unix-like systems, colors are supported if it's a terminal
	return enableANSI()
}

// SetColor overrides terminal color detection
func SetColor(enabled bool) {
	colorEnabled = enabled
}

// getColor returns the color code if colors are enabled, empty string otherwise
func getColor(code string) string {
	if colorEnabled {
		return code
	}
	return ""
}

// Options controls how a report is rendered
type Options struct {
	JSON         bool
	Silent       bool
	Root         string // Locations are shown relative to Root when set
	MaxLocations int    // Locations listed per key in human output, 0 for all
}

// JSONOutput represents the JSON output format of a check
type JSONOutput struct {
	TotalKeys      int                       `json:"total_keys"`
	DefinedKeys    int                       `json:"defined_keys"`
	Missing        int                       `json:"missing"`
	Plain          []analyzer.MissingKeyInfo `json:"plain"`
	Concatenated   []analyzer.MissingKeyInfo `json:"concatenated"`
	IgnoredMissing int                       `json:"ignored_missing"`
}

// ScanJSONOutput represents the JSON output format of a scan
type ScanJSONOutput struct {
	Keys         []string `json:"keys"`
	Occurrences  int      `json:"occurrences"`
	Concatenated int      `json:"concatenated"`
	StringFormat int      `json:"string_format"`
}

// Format writes the reconciliation report according to opts
func Format(w io.Writer, report analyzer.Report, opts Options) error {
	if opts.Silent {
		// In silent mode, only return exit code (handled by caller)
		return nil
	}

	if opts.JSON {
		return formatJSON(w, report, opts)
	}

	return formatHumanReadable(w, report, opts)
}

// relativize rewrites the locations of infos relative to root
func relativize(infos []analyzer.MissingKeyInfo, root string) []analyzer.MissingKeyInfo {
	out := make([]analyzer.MissingKeyInfo, 0, len(infos))
	for _, info := range infos {
		locations := make([]analyzer.Location, 0, len(info.Locations))
		for _, loc := range info.Locations {
			loc.FilePath = displayPath(loc.FilePath, root)
			locations = append(locations, loc)
		}
		info.Locations = locations
		out = append(out, info)
	}
	return out
}

// displayPath returns path relative to root, slash-separated
func displayPath(path, root string) string {
	if root == "" {
		return filepath.ToSlash(path)
	}
	if rel, err := filepath.Rel(root, path); err == nil && !strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(rel)
	}
	return filepath.ToSlash(path)
}

// formatJSON outputs results in JSON format
func formatJSON(w io.Writer, report analyzer.Report, opts Options) error {
	output := JSONOutput{
		TotalKeys:      report.TotalKeys,
		DefinedKeys:    report.DefinedKeys,
		Missing:        len(report.Missing),
		Plain:          relativize(report.Plain, opts.Root),
		Concatenated:   relativize(report.Concatenated, opts.Root),
		IgnoredMissing: report.IgnoredMissing,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

// formatHumanReadable outputs results in human-readable format
func formatHumanReadable(w io.Writer, report analyzer.Report, opts Options) error {
	fmt.Fprintf(w, "Unique keys used in code: %d\n", report.TotalKeys)
	fmt.Fprintf(w, "Defined keys: %d\n", report.DefinedKeys)
	fmt.Fprintf(w, "Already localized: %d\n", report.TotalKeys-len(report.Missing)-report.IgnoredMissing)
	fmt.Fprintf(w, "Missing localization: %d\n\n", len(report.Missing))

	if len(report.Plain) > 0 {
		fmt.Fprintf(w, "%s%sStrings needing localization (%d):%s\n\n", getColor(colorBold), getColor(colorRed), len(report.Plain), getColor(colorReset))
		for _, info := range report.Plain {
			writeMissingKey(w, info, colorRed, opts)
		}
	}

	if len(report.Concatenated) > 0 {
		fmt.Fprintf(w, "%s%sConcatenated strings needing localization (%d):%s\n\n", getColor(colorBold), getColor(colorYellow), len(report.Concatenated), getColor(colorReset))
		for _, info := range report.Concatenated {
			writeMissingKey(w, info, colorYellow, opts)
		}
	}

	// Show ignored missing keys count
	if report.IgnoredMissing > 0 {
		fmt.Fprintf(w, "%s%sNote:%s %d missing key(s) were ignored (configured in .locgrd.config)\n\n", getColor(colorGray), getColor(colorBold), getColor(colorReset), report.IgnoredMissing)
	}

	// No issues found
	if len(report.Missing) == 0 {
		fmt.Fprintf(w, "%s%s✓ All localization keys are defined.%s\n", getColor(colorGreen), getColor(colorBold), getColor(colorReset))
	}

	return nil
}

func writeMissingKey(w io.Writer, info analyzer.MissingKeyInfo, keyColor string, opts Options) {
	fmt.Fprintf(w, "  %sL[%q]%s %s(%d occurrence(s))%s\n", getColor(keyColor), info.Key, getColor(colorReset), getColor(colorGray), info.OccurrenceCount, getColor(colorReset))

	shown := info.Locations
	if opts.MaxLocations > 0 && len(shown) > opts.MaxLocations {
		shown = shown[:opts.MaxLocations]
	}
	for _, loc := range shown {
		fmt.Fprintf(w, "    %sused in:%s %s%s%s:%s%d%s\n", getColor(colorGray), getColor(colorReset), getColor(colorCyan), displayPath(loc.FilePath, opts.Root), getColor(colorReset), getColor(colorYellow), loc.LineNumber, getColor(colorReset))
	}
	if hidden := len(info.Locations) - len(shown); hidden > 0 {
		fmt.Fprintf(w, "    %s... and %d more location(s)%s\n", getColor(colorGray), hidden, getColor(colorReset))
	}
	fmt.Fprintln(w)
}

// FormatScan writes the usage summary of a scan according to opts
func FormatScan(w io.Writer, result *analyzer.ParseResult, opts Options) error {
	if opts.Silent {
		return nil
	}

	stringFormat := len(result.WithStringFormat())

	if opts.JSON {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(ScanJSONOutput{
			Keys:         result.Keys(),
			Occurrences:  len(result.AllEntries),
			Concatenated: len(result.ConcatenatedEntries),
			StringFormat: stringFormat,
		})
	}

	fmt.Fprintf(w, "%sFound %d unique key(s)%s in %d occurrence(s) (%d concatenated, %d with string.format)\n\n", getColor(colorBold), result.Len(), getColor(colorReset), len(result.AllEntries), len(result.ConcatenatedEntries), stringFormat)
	for _, key := range result.Keys() {
		fmt.Fprintf(w, "  L[%q]\n", key)
	}
	return nil
}

// HasIssues returns true if any key is missing a definition
// Note: Ignored missing keys don't count as issues
func HasIssues(report analyzer.Report) bool {
	return len(report.Missing) > 0
}
