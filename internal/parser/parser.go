package parser

import (
	"context"
	"errors"
	"fmt"

	"github.com/jenian/locgrd/internal/analyzer"
	"github.com/jenian/locgrd/internal/fsys"
	"github.com/jenian/locgrd/internal/scanner"
	"github.com/rs/zerolog/log"
)

// ErrCanceled is returned when a directory scan is canceled between files.
// It is returned together with the context's error, so errors.Is also
// matches context.Canceled or context.DeadlineExceeded.
var ErrCanceled = errors.New("scan canceled")

// DirectoryOutcome is the single value delivered by ScanDirectoryAsync
type DirectoryOutcome struct {
	Result   *analyzer.ParseResult // nil unless the scan completed
	Err      error                 // nil on success and on cancellation
	Canceled bool
}

// Parser reads script files through a file-system provider and extracts
// localization keys from them
type Parser struct {
	fs    *fsys.Provider
	files *scanner.Scanner
}

// NewParser creates a new parser instance
func NewParser(fs *fsys.Provider) *Parser {
	return &Parser{
		fs:    fs,
		files: scanner.NewScanner(fs),
	}
}

// Scanner returns the file scanner used by directory scans, for configuring
// globs and permanent exclusions
func (p *Parser) Scanner() *scanner.Scanner {
	return p.files
}

// ScanFile extracts the L["key"] usages of a single file
func (p *Parser) ScanFile(path string) (*analyzer.ParseResult, error) {
	return p.ScanFileContext(context.Background(), path)
}

// ScanFileContext is ScanFile with a cancellation check before the file is read
func (p *Parser) ScanFileContext(ctx context.Context, path string) (*analyzer.ParseResult, error) {
	lines, err := p.readExisting(ctx, path)
	if err != nil {
		return nil, err
	}
	result := ScanUsages(path, lines)
	log.Debug().Str("path", path).Int("entries", len(result.AllEntries)).Int("keys", result.Len()).Msg("Scanned file")
	return result, nil
}

// ScanDefinitionFile returns the keys assigned in a translation-table file
func (p *Parser) ScanDefinitionFile(path string) (analyzer.KeySet, error) {
	return p.ScanDefinitionFileContext(context.Background(), path)
}

// ScanDefinitionFileContext is ScanDefinitionFile with a cancellation check
// before the file is read
func (p *Parser) ScanDefinitionFileContext(ctx context.Context, path string) (analyzer.KeySet, error) {
	lines, err := p.readExisting(ctx, path)
	if err != nil {
		return analyzer.KeySet{}, err
	}
	defined := ScanDefinitions(lines)
	log.Debug().Str("path", path).Int("defined", defined.Len()).Msg("Scanned definition file")
	return defined, nil
}

// ScanDirectory scans every script under root, skipping the subdirectory
// trees named in excludeSubdirs
func (p *Parser) ScanDirectory(root string, excludeSubdirs ...string) (*analyzer.ParseResult, error) {
	return p.ScanDirectoryContext(context.Background(), root, excludeSubdirs...)
}

// ScanDirectoryContext is ScanDirectory with cooperative cancellation.
// Files are scanned one at a time in enumeration order and ctx is checked
// before each file. A canceled scan returns ErrCanceled and no result.
func (p *Parser) ScanDirectoryContext(ctx context.Context, root string, excludeSubdirs ...string) (*analyzer.ParseResult, error) {
	if !p.fs.DirectoryExists(root) {
		return nil, fmt.Errorf("%w: %s", fsys.ErrDirectoryNotFound, root)
	}

	files, err := p.files.Scan(root, excludeSubdirs...)
	if err != nil {
		return nil, err
	}

	result := analyzer.NewParseResult()
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			log.Debug().Str("root", root).Msg("Directory scan canceled")
			return nil, fmt.Errorf("%w: %w", ErrCanceled, err)
		}

		// Cancellation is only honoured between files
		fileResult, err := p.ScanFileContext(context.Background(), file.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", file.Path, err)
		}
		result.Append(fileResult)
	}

	log.Debug().Str("root", root).Int("files", len(files)).Int("keys", result.Len()).Msg("Scanned directory")
	return result, nil
}

// ScanDirectoryAsync runs ScanDirectoryContext in a goroutine. The returned
// channel yields exactly one outcome and is then closed.
func (p *Parser) ScanDirectoryAsync(ctx context.Context, root string, excludeSubdirs ...string) <-chan DirectoryOutcome {
	out := make(chan DirectoryOutcome, 1)
	go func() {
		defer close(out)
		result, err := p.ScanDirectoryContext(ctx, root, excludeSubdirs...)
		switch {
		case errors.Is(err, ErrCanceled):
			out <- DirectoryOutcome{Canceled: true}
		case err != nil:
			out <- DirectoryOutcome{Err: err}
		default:
			out <- DirectoryOutcome{Result: result}
		}
	}()
	return out
}

// readExisting checks that path is an existing file and reads its lines
func (p *Parser) readExisting(ctx context.Context, path string) ([]string, error) {
	if !p.fs.FileExists(path) {
		return nil, fmt.Errorf("%w: %s", fsys.ErrFileNotFound, path)
	}
	lines, err := p.fs.ReadLinesContext(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return lines, nil
}
