package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specvital/routedoc/pkg/config"
	"github.com/specvital/routedoc/pkg/docgen"
	"github.com/specvital/routedoc/pkg/parser/strategies"
)

var expressFiles = map[string]string{
	"server.js":                 "const express = require('express');\nconst app = express();\napp.listen(3000);\n",
	"routes.js":                 "app.get('/users', users.list);\napp.post('/users', users.create);\n",
	"controllers/users.js":      "function list(req, res) {\n  res.json([]);\n}\n",
	"controllers/users.test.js": "function create() {}\n",
}

func newWorkspaceDir(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
	return root
}

func unsetKeys(t *testing.T) {
	t.Helper()
	for _, key := range []string{config.EnvGeminiAPIKey, config.EnvGoogleAPIKey, config.EnvModel, config.EnvOutput} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = io.Discard
	err := app.RunContext(context.Background(), append([]string{"routedoc"}, args...))
	return out.String(), err
}

func TestDetect(t *testing.T) {
	unsetKeys(t)
	root := newWorkspaceDir(t, expressFiles)

	out, err := run(t, "--root", root, "detect")
	require.NoError(t, err)
	assert.Equal(t, "express\n  Express.js, content match in server.js\n", out)

	out, err = run(t, "--root", t.TempDir(), "detect")
	require.NoError(t, err)
	assert.Equal(t, "unknown\n", out)
}

func TestRoutes(t *testing.T) {
	unsetKeys(t)
	root := newWorkspaceDir(t, expressFiles)

	t.Run("text", func(t *testing.T) {
		out, err := run(t, "--root", root, "routes")
		require.NoError(t, err)
		assert.Contains(t, out, "Framework: express\n")
		assert.Contains(t, out, "users.list")
		assert.Contains(t, out, "controllers/users.js:0")
		assert.Contains(t, out, "skipped users.create (not-found)")
	})

	t.Run("json", func(t *testing.T) {
		out, err := run(t, "--root", root, "routes", "--json")
		require.NoError(t, err)

		var decoded routesOutput
		require.NoError(t, json.Unmarshal([]byte(out), &decoded))
		assert.Equal(t, "express", decoded.Detection.Framework)
		require.Len(t, decoded.Entries, 1)
		assert.Equal(t, "GET", decoded.Entries[0].Route.Method)
		require.Len(t, decoded.Skipped, 1)
		assert.Equal(t, "users.create", decoded.Skipped[0].Handler)
		assert.Equal(t, "routes.js", decoded.Skipped[0].Manifest)
	})
}

func TestGlobalFlags(t *testing.T) {
	unsetKeys(t)
	root := newWorkspaceDir(t, expressFiles)

	_, err := run(t, "--root", root, "--workers=-1", "detect")
	assert.ErrorIs(t, err, config.ErrInvalidConfig)

	_, err = run(t, "--root", root, "--config", filepath.Join(root, "missing.toml"), "detect")
	assert.Error(t, err)

	out, err := run(t, "--root", root, "--exclude", "controllers", "routes")
	require.NoError(t, err)
	assert.Contains(t, out, "skipped users.list (not-found)")
}

func TestDocs_NoAPIKey(t *testing.T) {
	unsetKeys(t)
	root := newWorkspaceDir(t, expressFiles)

	_, err := run(t, "--root", root, "docs")
	assert.ErrorIs(t, err, errNoAPIKey)

	_, err = run(t, "--root", root, "convert", "--file", "server.js", "--to", "Python")
	assert.ErrorIs(t, err, errNoAPIKey)
}

func TestConvert_RequiredFlags(t *testing.T) {
	unsetKeys(t)
	_, err := run(t, "--root", t.TempDir(), "convert", "--file", "a.js")
	assert.Error(t, err)
}

type echoGenerator struct{}

func (echoGenerator) GenerateDocumentation(_ context.Context, req docgen.DocRequest) (string, error) {
	return "## " + req.Symbol + "\n\n`" + req.Method + " " + req.URL + "`", nil
}

func (echoGenerator) ConvertCode(_ context.Context, source, _ string) (string, error) {
	return source, nil
}

func testWorkspace(root string) *workspace {
	return &workspace{
		root:   root,
		cfg:    config.Default(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestRunDocs(t *testing.T) {
	root := newWorkspaceDir(t, expressFiles)
	ws := testWorkspace(root)
	output := filepath.Join(root, docgen.DefaultOutputFile)

	report, err := ws.runDocs(context.Background(), echoGenerator{})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Written)

	// A second docs run appends.
	_, err = ws.runDocs(context.Background(), echoGenerator{})
	require.NoError(t, err)
	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), "## users.list"))
	assert.Equal(t, 1, strings.Count(string(data), docgen.DefaultHeader))

	// A watch cycle starts over.
	_, err = ws.regenerate(context.Background(), echoGenerator{})
	require.NoError(t, err)
	data, err = os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, docgen.DefaultHeader+"## users.list\n\n`GET /users`\n\n", string(data))

	var buf bytes.Buffer
	printReport(&buf, output, docgen.Report{Written: 1, Failed: make([]docgen.EntryFailure, 2)})
	assert.Equal(t, "Wrote 1 sections to "+output+" (2 failed)\n", buf.String())
}

func TestRunDocs_NothingToDocument(t *testing.T) {
	root := t.TempDir()
	report, err := testWorkspace(root).runDocs(context.Background(), echoGenerator{})
	require.NoError(t, err)
	assert.Zero(t, report.Written)

	_, err = os.Stat(filepath.Join(root, docgen.DefaultOutputFile))
	assert.True(t, os.IsNotExist(err))
}

func TestWatchPatterns(t *testing.T) {
	patterns := watchPatterns(strategies.GetStrategies())

	assert.Contains(t, patterns, "**/urls.py")
	assert.Contains(t, patterns, "**/*.py")
	assert.Contains(t, patterns, "**/routes.js")
	assert.Contains(t, patterns, "**/*.ts")

	seen := make(map[string]bool)
	for _, p := range patterns {
		assert.False(t, seen[p], "duplicate pattern %s", p)
		seen[p] = true
	}
}

func TestNewLogger(t *testing.T) {
	t.Setenv("DEBUG", "")

	var buf bytes.Buffer
	newLogger(&buf, false).Debug("hidden")
	assert.Empty(t, buf.String())

	newLogger(&buf, true).Debug("shown")
	assert.Contains(t, buf.String(), "shown")

	buf.Reset()
	t.Setenv("DEBUG", "TRUE")
	newLogger(&buf, false).Debug("from env")
	assert.Contains(t, buf.String(), "from env")
}
