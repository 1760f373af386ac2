// Package config resolves project-root marker files in a workspace.
package config

import (
	"context"

	"github.com/specvital/routedoc/pkg/source"
)

// Django project-root indicator files.
const (
	FileManagePy = "manage.py"
	FileWsgiPy   = "wsgi.py"
)

var (
	// DjangoMarkers are the files whose presence verifies a Django project.
	DjangoMarkers = []string{FileManagePy, FileWsgiPy}

	// markerSkipDirs excludes dependency trees. Installed Django ships its
	// own django/core/wsgi.py, which must not verify the project.
	markerSkipDirs = []string{
		".git",
		"node_modules",
		"__pycache__",
		"venv",
		".venv",
		"env",
		"site-packages",
	}
)

type Resolver struct {
	cache    *Cache
	skipDirs []string
}

// NewResolver creates a resolver. extraSkipDirs are skipped in addition to
// the dependency directories every lookup ignores.
func NewResolver(cache *Cache, extraSkipDirs ...string) *Resolver {
	skip := make([]string, 0, len(markerSkipDirs)+len(extraSkipDirs))
	skip = append(skip, markerSkipDirs...)
	skip = append(skip, extraSkipDirs...)
	return &Resolver{
		cache:    cache,
		skipDirs: skip,
	}
}

// ResolveMarker returns the lexicographically first workspace file whose base
// name is one of markers, at any depth.
func (r *Resolver) ResolveMarker(ctx context.Context, src source.Source, markers []string) (string, bool, error) {
	root := src.Root()
	if r.cache != nil {
		if cached, found := r.cache.Get(root, markers); found {
			return cached, cached != "", nil
		}
	}

	patterns := make([]string, 0, len(markers))
	for _, m := range markers {
		patterns = append(patterns, "**/"+m)
	}

	files, err := src.List(ctx, source.ListOptions{
		Patterns: patterns,
		SkipDirs: r.skipDirs,
	})
	if err != nil {
		return "", false, err
	}

	var found string
	if len(files) > 0 {
		found = files[0]
	}
	if r.cache != nil {
		r.cache.Set(root, markers, found)
	}
	return found, found != "", nil
}
