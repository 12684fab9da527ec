package locfile

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jenian/locgrd/internal/analyzer"
	"github.com/jenian/locgrd/internal/fsys"
	"github.com/jenian/locgrd/internal/parser"
	"github.com/jenian/locgrd/internal/scanner"
	"github.com/rs/zerolog/log"
)

// autoDetectPrefix is the file-name prefix of translation tables picked up
// from localization folders
const autoDetectPrefix = "localization"

// Source describes one translation-table file that was loaded
type Source struct {
	Path    string
	Defined int // Keys defined in this file
}

// Loader handles discovering and parsing translation-table files
type Loader struct {
	fs         *fsys.Provider
	parser     *parser.Parser
	files      []string
	folders    []string
	autoDetect bool
}

// NewLoader creates a new translation-table loader
func NewLoader(fs *fsys.Provider, p *parser.Parser) *Loader {
	return &Loader{
		fs:         fs,
		parser:     p,
		autoDetect: true,
	}
}

// SetAutoDetect enables or disables automatic detection of translation tables
func (l *Loader) SetAutoDetect(enabled bool) {
	l.autoDetect = enabled
}

// AddFile adds a translation-table file, absolute or relative to the root
func (l *Loader) AddFile(path string) {
	l.files = append(l.files, path)
}

// SetFiles sets the list of translation-table files to load
func (l *Loader) SetFiles(files []string) {
	l.files = files
}

// SetFolders sets the localization folders searched by auto-detection
func (l *Loader) SetFolders(folders []string) {
	l.folders = folders
}

// findFiles resolves the configured files that exist and, when enabled,
// the Localization*.lua files directly inside each localization folder
func (l *Loader) findFiles(rootPath string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, file := range l.files {
		path := file
		if !filepath.IsAbs(path) {
			path = filepath.Join(rootPath, filepath.FromSlash(file))
		}
		if l.fs.FileExists(path) {
			add(path)
		} else {
			log.Debug().Str("path", path).Msg("Translation table not found, skipping")
		}
	}

	if !l.autoDetect {
		return files, nil
	}

	for _, folder := range l.folders {
		dir := filepath.Join(rootPath, filepath.FromSlash(folder))
		if !l.fs.DirectoryExists(dir) {
			continue
		}
		candidates, err := l.fs.ListFiles(dir, scanner.Extension, false)
		if err != nil {
			return nil, err
		}
		for _, path := range candidates {
			if strings.HasPrefix(strings.ToLower(filepath.Base(path)), autoDetectPrefix) {
				add(path)
			}
		}
	}

	return files, nil
}

// Load parses every translation table found for rootPath and returns the
// union of the keys they define
func (l *Loader) Load(ctx context.Context, rootPath string) (analyzer.KeySet, []Source, error) {
	if !l.fs.DirectoryExists(rootPath) {
		return analyzer.KeySet{}, nil, fmt.Errorf("%w: %s", fsys.ErrDirectoryNotFound, rootPath)
	}

	paths, err := l.findFiles(rootPath)
	if err != nil {
		return analyzer.KeySet{}, nil, fmt.Errorf("failed to find translation tables: %w", err)
	}

	sets := make([]analyzer.KeySet, 0, len(paths))
	sources := make([]Source, 0, len(paths))
	for _, path := range paths {
		defined, err := l.parser.ScanDefinitionFileContext(ctx, path)
		if err != nil {
			return analyzer.KeySet{}, nil, err
		}
		sets = append(sets, defined)
		sources = append(sources, Source{Path: path, Defined: defined.Len()})
	}

	return analyzer.MergeDefinitions(sets...), sources, nil
}
