package fsys

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

var (
	// ErrFileNotFound is returned when a file-level operation targets a missing path
	ErrFileNotFound = errors.New("file not found")
	// ErrDirectoryNotFound is returned when a directory-level operation targets a missing root
	ErrDirectoryNotFound = errors.New("directory not found")
)

// Provider is the read-only file-system boundary used by the scanners
type Provider struct {
	fs afero.Fs
}

// NewProvider wraps an afero filesystem
func NewProvider(fs afero.Fs) *Provider {
	return &Provider{fs: fs}
}

// NewOsProvider returns a provider backed by the host filesystem
func NewOsProvider() *Provider {
	return NewProvider(afero.NewOsFs())
}

// Fs returns the underlying afero filesystem
func (p *Provider) Fs() afero.Fs {
	return p.fs
}

// FileExists reports whether path exists and is not a directory
func (p *Provider) FileExists(path string) bool {
	info, err := p.fs.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirectoryExists reports whether path exists and is a directory
func (p *Provider) DirectoryExists(path string) bool {
	ok, err := afero.DirExists(p.fs, path)
	return err == nil && ok
}

// ListFiles returns the files under root whose extension matches ext
// (case-insensitive). With recursive set, subdirectories are walked depth-first
// in lexical order.
func (p *Provider) ListFiles(root string, ext string, recursive bool) ([]string, error) {
	return p.WalkFiles(root, ext, func(string) bool { return !recursive })
}

// WalkFiles is ListFiles with a pruning hook: subdirectories for which skipDir
// returns true are not entered. The root itself is always walked and skipDir
// may be nil.
func (p *Provider) WalkFiles(root string, ext string, skipDir func(path string) bool) ([]string, error) {
	if !p.DirectoryExists(root) {
		return nil, fmt.Errorf("%w: %s", ErrDirectoryNotFound, root)
	}

	var files []string
	err := afero.Walk(p.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if path != root && skipDir != nil && skipDir(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if ext == "" || strings.EqualFold(filepath.Ext(path), ext) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", root, err)
	}
	return files, nil
}

// ReadLines reads a file and splits it into lines without line terminators
func (p *Provider) ReadLines(path string) ([]string, error) {
	return p.ReadLinesContext(context.Background(), path)
}

// ReadLinesContext is ReadLines with a cancellation check before the file is opened
func (p *Provider) ReadLinesContext(ctx context.Context, path string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := p.fs.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	// bufio.Reader has no line-length limit, unlike bufio.Scanner
	var lines []string
	reader := bufio.NewReader(file)
	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			line = strings.TrimSuffix(line, "\n")
			lines = append(lines, strings.TrimSuffix(line, "\r"))
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading %s: %w", path, err)
		}
	}
	return lines, nil
}
