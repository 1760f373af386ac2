package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specvital/routedoc/pkg/source"
)

func newWorkspace(t *testing.T, files ...string) *source.LocalSource {
	t.Helper()
	root := t.TempDir()
	for _, rel := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte(""), 0644))
	}
	src, err := source.NewLocalSource(root)
	require.NoError(t, err)
	return src
}

func TestResolver_ResolveMarker(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		files     []string
		wantPath  string
		wantFound bool
	}{
		{
			name:      "manage.py at root",
			files:     []string{"manage.py", "app/urls.py"},
			wantPath:  "manage.py",
			wantFound: true,
		},
		{
			name:      "nested wsgi.py",
			files:     []string{"project/site/wsgi.py"},
			wantPath:  "project/site/wsgi.py",
			wantFound: true,
		},
		{
			name:      "lexicographic first",
			files:     []string{"b/manage.py", "a/wsgi.py"},
			wantPath:  "a/wsgi.py",
			wantFound: true,
		},
		{
			name:  "installed django is ignored",
			files: []string{"venv/lib/python3.12/site-packages/django/core/wsgi.py", "app/urls.py"},
		},
		{
			name:  "no marker",
			files: []string{"app/urls.py"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := newWorkspace(t, tt.files...)

			got, found, err := NewResolver(NewCache()).ResolveMarker(ctx, src, DjangoMarkers)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFound, found)
			assert.Equal(t, tt.wantPath, got)
		})
	}
}

func TestResolver_UsesCache(t *testing.T) {
	ctx := context.Background()
	src := newWorkspace(t, "app/urls.py")
	cache := NewCache()
	resolver := NewResolver(cache)

	_, found, err := resolver.ResolveMarker(ctx, src, DjangoMarkers)
	require.NoError(t, err)
	assert.False(t, found)

	cached, ok := cache.Get(src.Root(), []string{FileWsgiPy, FileManagePy})
	assert.True(t, ok, "marker order must not affect the cache key")
	assert.Empty(t, cached)

	require.NoError(t, os.WriteFile(filepath.Join(src.Root(), "manage.py"), nil, 0644))

	_, found, err = resolver.ResolveMarker(ctx, src, DjangoMarkers)
	require.NoError(t, err)
	assert.False(t, found, "cached miss should be reused")

	path, found, err := NewResolver(NewCache()).ResolveMarker(ctx, src, DjangoMarkers)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "manage.py", path)
}

func TestResolver_WithoutCache(t *testing.T) {
	ctx := context.Background()

	_, ok, err := NewResolver(nil).ResolveMarker(ctx, newWorkspace(t, "mysite/manage.py"), DjangoMarkers)
	require.NoError(t, err)
	assert.True(t, ok)

	_, ok, err = NewResolver(nil).ResolveMarker(ctx, newWorkspace(t, "server.js"), DjangoMarkers)
	require.NoError(t, err)
	assert.False(t, ok)
}
