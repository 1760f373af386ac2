package source

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
)

// LocalSource is a Source backed by a directory on the local filesystem.
// Files ignored by the root .gitignore are never listed.
type LocalSource struct {
	root      string
	gitignore *ignore.GitIgnore
}

// NewLocalSource opens the directory at root as a workspace.
func NewLocalSource(root string) (*LocalSource, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("%w: no workspace root", ErrWorkspaceUnavailable)
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve %s: %v", ErrWorkspaceUnavailable, root, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWorkspaceUnavailable, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrWorkspaceUnavailable, abs)
	}

	return &LocalSource{
		root:      abs,
		gitignore: loadGitignore(abs),
	}, nil
}

func (s *LocalSource) Root() string {
	return s.root
}

func (s *LocalSource) Open(ctx context.Context, rel string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	full, err := s.resolve(rel)
	if err != nil {
		return nil, err
	}
	return os.Open(full)
}

func (s *LocalSource) Stat(ctx context.Context, rel string) (fs.FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	full, err := s.resolve(rel)
	if err != nil {
		return nil, err
	}
	return os.Stat(full)
}

func (s *LocalSource) Close() error {
	return nil
}

// List walks the workspace and returns the files accepted by opts, sorted.
func (s *LocalSource) List(ctx context.Context, opts ListOptions) ([]string, error) {
	skipSet := buildSkipSet(opts.SkipDirs)
	extSet := buildExtSet(opts.Extensions)

	var files []string

	err := filepath.WalkDir(s.root, func(p string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		if walkErr != nil {
			if p == s.root {
				return fmt.Errorf("%w: %v", ErrWorkspaceUnavailable, walkErr)
			}
			return nil
		}

		if d.IsDir() {
			if p != s.root && skipSet[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}

		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if !s.accept(rel, d, opts, extSet) {
			return nil
		}

		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

func (s *LocalSource) accept(rel string, d fs.DirEntry, opts ListOptions, extSet map[string]bool) bool {
	if len(extSet) > 0 && !extSet[strings.ToLower(path.Ext(rel))] {
		return false
	}

	if opts.SkipFiles != nil && opts.SkipFiles.MatchString(path.Base(rel)) {
		return false
	}

	if len(opts.Patterns) > 0 && !matchesAny(opts.Patterns, rel) {
		return false
	}

	if matchesAny(opts.Exclude, rel) {
		return false
	}

	if s.gitignore != nil && s.gitignore.MatchesPath(rel) {
		return false
	}

	if opts.MaxFileSize > 0 {
		info, err := d.Info()
		if err != nil || info.Size() > opts.MaxFileSize {
			return false
		}
	}

	return true
}

func (s *LocalSource) resolve(rel string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(rel))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q escapes workspace root", rel)
	}
	return filepath.Join(s.root, clean), nil
}

func loadGitignore(root string) *ignore.GitIgnore {
	gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return gi
}

func buildSkipSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

func buildExtSet(exts []string) map[string]bool {
	set := make(map[string]bool, len(exts))
	for _, e := range exts {
		set[strings.ToLower(e)] = true
	}
	return set
}

func matchesAny(patterns []string, rel string) bool {
	for _, pattern := range patterns {
		matched, err := doublestar.Match(pattern, rel)
		if err != nil {
			continue
		}
		if matched {
			return true
		}
	}
	return false
}
