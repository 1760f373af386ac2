package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0644))
	}
}

func TestNewLocalSource(t *testing.T) {
	t.Run("should reject empty root", func(t *testing.T) {
		_, err := NewLocalSource("  ")
		assert.True(t, errors.Is(err, ErrWorkspaceUnavailable))
	})

	t.Run("should reject missing root", func(t *testing.T) {
		_, err := NewLocalSource(filepath.Join(t.TempDir(), "missing"))
		assert.True(t, errors.Is(err, ErrWorkspaceUnavailable))
	})

	t.Run("should reject file root", func(t *testing.T) {
		dir := t.TempDir()
		writeFiles(t, dir, map[string]string{"file.txt": "x"})

		_, err := NewLocalSource(filepath.Join(dir, "file.txt"))
		assert.True(t, errors.Is(err, ErrWorkspaceUnavailable))
	})

	t.Run("should resolve absolute root", func(t *testing.T) {
		dir := t.TempDir()
		src, err := NewLocalSource(dir)
		require.NoError(t, err)
		defer src.Close()

		assert.True(t, filepath.IsAbs(src.Root()))
	})
}

func TestLocalSource_List(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"zeta/views.py":               "",
		"alpha/views.py":              "",
		"alpha/urls.py":               "",
		"urls.py":                     "",
		"node_modules/pkg/index.js":   "",
		"src/app.ts":                  "",
		"src/app.test.ts":             "",
		"src/user.spec.js":            "",
		"generated/out.py":            "",
		"README.md":                   "",
		"venv/lib/site-packages/x.py": "",
		".gitignore":                  "generated/\n",
	})

	src, err := NewLocalSource(root)
	require.NoError(t, err)
	defer src.Close()
	ctx := context.Background()

	t.Run("should return sorted files honoring gitignore", func(t *testing.T) {
		files, err := src.List(ctx, ListOptions{Extensions: []string{".py"}})
		require.NoError(t, err)

		assert.Equal(t, []string{
			"alpha/urls.py",
			"alpha/views.py",
			"urls.py",
			"venv/lib/site-packages/x.py",
			"zeta/views.py",
		}, files)
	})

	t.Run("should match doublestar patterns at any depth", func(t *testing.T) {
		files, err := src.List(ctx, ListOptions{Patterns: []string{"**/urls.py"}})
		require.NoError(t, err)

		assert.Equal(t, []string{"alpha/urls.py", "urls.py"}, files)
	})

	t.Run("should skip directories and test files", func(t *testing.T) {
		files, err := src.List(ctx, ListOptions{
			Extensions: []string{".ts", ".js"},
			SkipDirs:   []string{"node_modules"},
			SkipFiles:  regexp.MustCompile(`\.(test|spec)\.[^.]+$`),
		})
		require.NoError(t, err)

		assert.Equal(t, []string{"src/app.ts"}, files)
	})

	t.Run("should apply exclude globs", func(t *testing.T) {
		files, err := src.List(ctx, ListOptions{
			Extensions: []string{".py"},
			Exclude:    []string{"venv/**", "zeta/**"},
		})
		require.NoError(t, err)

		assert.Equal(t, []string{"alpha/urls.py", "alpha/views.py", "urls.py"}, files)
	})

	t.Run("should honor cancellation", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := src.List(cctx, ListOptions{})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestLocalSource_MaxFileSize(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"small.py": "x = 1\n",
		"large.py": string(make([]byte, 2048)),
	})

	src, err := NewLocalSource(root)
	require.NoError(t, err)

	files, err := src.List(context.Background(), ListOptions{MaxFileSize: 1024})
	require.NoError(t, err)
	assert.Equal(t, []string{"small.py"}, files)
}

func TestLocalSource_Open(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"app/views.py": "def index(request):\n    pass\n"})

	src, err := NewLocalSource(root)
	require.NoError(t, err)
	ctx := context.Background()

	content, err := ReadFile(ctx, src, "app/views.py")
	require.NoError(t, err)
	assert.Contains(t, string(content), "def index")

	assert.True(t, Exists(ctx, src, "app/views.py"))
	assert.False(t, Exists(ctx, src, "app/missing.py"))

	_, err = src.Open(ctx, "../outside.txt")
	assert.Error(t, err)
}

func TestReadSelection(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"a.js": "line1\nline2\nline3\nline4\n"})

	src, err := NewLocalSource(root)
	require.NoError(t, err)
	ctx := context.Background()

	tests := []struct {
		name    string
		start   int
		end     int
		want    string
		wantErr bool
	}{
		{name: "whole file", want: "line1\nline2\nline3\nline4\n"},
		{name: "middle lines", start: 2, end: 3, want: "line2\nline3\n"},
		{name: "open ended", start: 4, end: 0, want: "line4\n"},
		{name: "end clamped", start: 3, end: 99, want: "line3\nline4\n"},
		{name: "start out of range", start: 42, end: 43, wantErr: true},
		{name: "inverted", start: 3, end: 2, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadSelection(ctx, src, "a.js", tt.start, tt.end)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLineRange(t *testing.T) {
	tests := []struct {
		spec      string
		wantStart int
		wantEnd   int
		wantErr   bool
	}{
		{spec: "", wantStart: 0, wantEnd: 0},
		{spec: "5", wantStart: 5, wantEnd: 5},
		{spec: "5:", wantStart: 5, wantEnd: 0},
		{spec: "5:9", wantStart: 5, wantEnd: 9},
		{spec: "9:5", wantErr: true},
		{spec: "x:5", wantErr: true},
		{spec: "0", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			start, end, err := ParseLineRange(tt.spec)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}
