// Package source provides access to the workspace being scanned.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"regexp"
)

// ErrWorkspaceUnavailable is returned when the workspace root cannot be used.
var ErrWorkspaceUnavailable = errors.New("source: workspace unavailable")

// Source is the workspace capability consumed by the scanner.
// All paths are relative to Root and slash separated.
type Source interface {
	// Root returns the absolute workspace root.
	Root() string
	// Open opens a workspace file for reading.
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	// Stat returns file information for a workspace path.
	Stat(ctx context.Context, path string) (fs.FileInfo, error)
	// List enumerates workspace files in lexicographic order.
	List(ctx context.Context, opts ListOptions) ([]string, error)
	// Close releases resources held by the source.
	Close() error
}

// ListOptions filters the files returned by Source.List.
type ListOptions struct {
	// Patterns are doublestar globs matched against the relative path.
	// Empty means every file.
	Patterns []string

	// Exclude are doublestar globs; matching files are dropped.
	Exclude []string

	// Extensions restricts results to these extensions (".py"). Empty means any.
	Extensions []string

	// SkipDirs lists directory base names that are not descended into.
	SkipDirs []string

	// SkipFiles drops files whose base name matches.
	SkipFiles *regexp.Regexp

	// MaxFileSize drops files larger than this many bytes. Zero disables the check.
	MaxFileSize int64
}

// ReadFile reads a whole workspace file.
func ReadFile(ctx context.Context, src Source, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader, err := src.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = reader.Close() }()

	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}

	return content, nil
}

// Exists reports whether path exists in the workspace.
func Exists(ctx context.Context, src Source, path string) bool {
	_, err := src.Stat(ctx, path)
	return err == nil
}
