package scanner

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jenian/locgrd/internal/fsys"
	"github.com/rs/zerolog/log"
)

// Extension is the file extension of the scripts that get scanned
const Extension = ".lua"

// FileInfo contains information about a file to be scanned
type FileInfo struct {
	Path    string
	RelPath string // Path relative to the scan root, slash-separated
}

// Scanner handles file discovery and filtering
type Scanner struct {
	fs           *fsys.Provider
	excludeDirs  map[string]bool // Lower-cased directory names to exclude at any depth
	excludePaths []string        // Root-relative paths to exclude (e.g., "Libs/Ace3")
	excludeGlobs []string
	includeGlobs []string
}

// NewScanner creates a new scanner with default exclusions
func NewScanner(fs *fsys.Provider) *Scanner {
	return &Scanner{
		fs: fs,
		excludeDirs: map[string]bool{
			".git": true,
			".svn": true,
			".hg":  true,
		},
	}
}

// SetExcludeGlobs sets glob patterns to exclude
func (s *Scanner) SetExcludeGlobs(globs []string) {
	s.excludeGlobs = globs
}

// SetIncludeGlobs sets glob patterns to include (overrides excludes)
func (s *Scanner) SetIncludeGlobs(globs []string) {
	s.includeGlobs = globs
}

// AddExcludeDirs adds additional directories to exclude from scanning
// Can be directory names (e.g., "Localization") or paths (e.g., "Libs/Ace3")
func (s *Scanner) AddExcludeDirs(dirs []string) {
	for _, dir := range dirs {
		if name, path, isPath := classifyExclude(dir); isPath {
			s.excludePaths = append(s.excludePaths, path)
		} else if name != "" {
			s.excludeDirs[name] = true
		}
	}
}

// classifyExclude splits an exclusion into a lower-cased directory name or a
// normalized root-relative path
func classifyExclude(dir string) (name string, path string, isPath bool) {
	dir = strings.Trim(filepath.ToSlash(strings.TrimSpace(dir)), "/")
	if strings.Contains(dir, "/") {
		return "", strings.ToLower(dir), true
	}
	return strings.ToLower(dir), "", false
}

// matchesGlob checks if a path matches any of the glob patterns
func matchesGlob(path string, globs []string) bool {
	for _, glob := range globs {
		matched, _ := filepath.Match(glob, filepath.Base(path))
		if matched {
			return true
		}
		// Also try matching against the relative path
		matched, _ = filepath.Match(glob, path)
		if matched {
			return true
		}
	}
	return false
}

// shouldInclude checks if a file should be included based on include/exclude globs
func (s *Scanner) shouldInclude(relPath string) bool {
	// If include globs are specified, file must match at least one
	if len(s.includeGlobs) > 0 {
		return matchesGlob(relPath, s.includeGlobs)
	}
	// If exclude globs are specified, file must not match any
	if len(s.excludeGlobs) > 0 {
		return !matchesGlob(relPath, s.excludeGlobs)
	}
	return true
}

// isExcludedDir reports whether the directory at root-relative relDir is
// skipped, either by its own name or by an excluded path prefix. Parents are
// checked as the walk descends, so only the last segment is matched by name.
func (s *Scanner) isExcludedDir(relDir string, extraDirs map[string]bool, extraPaths []string) bool {
	name := strings.ToLower(filepath.Base(relDir))
	if s.excludeDirs[name] || extraDirs[name] {
		return true
	}

	lowerPath := strings.ToLower(relDir)
	for _, paths := range [][]string{s.excludePaths, extraPaths} {
		for _, excludePath := range paths {
			if lowerPath == excludePath || strings.HasPrefix(lowerPath, excludePath+"/") {
				return true
			}
		}
	}
	return false
}

// Scan recursively lists the script files under rootPath. Any subdirectory
// tree named in excludeSubdirs (case-insensitive, at any depth) is skipped in
// addition to the scanner's own exclusions. Files come back in depth-first
// lexical order.
func (s *Scanner) Scan(rootPath string, excludeSubdirs ...string) ([]FileInfo, error) {
	if !s.fs.DirectoryExists(rootPath) {
		return nil, fmt.Errorf("%w: %s", fsys.ErrDirectoryNotFound, rootPath)
	}

	extraDirs := make(map[string]bool)
	var extraPaths []string
	for _, dir := range excludeSubdirs {
		if name, path, isPath := classifyExclude(dir); isPath {
			extraPaths = append(extraPaths, path)
		} else if name != "" {
			extraDirs[name] = true
		}
	}

	skipDir := func(path string) bool {
		rel, err := filepath.Rel(rootPath, path)
		if err != nil {
			return false
		}
		if s.isExcludedDir(filepath.ToSlash(rel), extraDirs, extraPaths) {
			log.Debug().Str("dir", path).Msg("Skipping excluded directory")
			return true
		}
		return false
	}

	paths, err := s.fs.WalkFiles(rootPath, Extension, skipDir)
	if err != nil {
		return nil, err
	}

	files := make([]FileInfo, 0, len(paths))
	for _, path := range paths {
		rel, err := filepath.Rel(rootPath, path)
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Skipping file outside scan root")
			continue
		}
		rel = filepath.ToSlash(rel)

		if !s.shouldInclude(rel) {
			continue
		}

		files = append(files, FileInfo{Path: path, RelPath: rel})
	}

	log.Debug().Str("root", rootPath).Int("count", len(files)).Msg("Discovered script files")
	return files, nil
}
