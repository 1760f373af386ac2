//go:build integration

package integration

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
)

const (
	cloneCompleteMarker = ".clone_complete"
	// cacheDirEnv relocates the clone cache, e.g. to a CI cache volume.
	cacheDirEnv = "ROUTEDOC_CASE_CACHE"
)

var unsafePathChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// CloneResult contains the result of a clone operation.
type CloneResult struct {
	FromCache bool
	Path      string
}

// CloneRepo fetches the ref of a remote case into the cache directory.
// A completed fetch is reused on later runs.
func CloneRepo(c Case) (*CloneResult, error) {
	cacheDir, err := getCacheDir()
	if err != nil {
		return nil, err
	}
	dest := filepath.Join(cacheDir, sanitizeDirName(c.Name, c.Ref))
	marker := filepath.Join(dest, cloneCompleteMarker)

	if _, err := os.Stat(marker); err == nil {
		return &CloneResult{FromCache: true, Path: dest}, nil
	}

	// A directory without marker is a partial fetch.
	_ = os.RemoveAll(dest)
	if err := os.MkdirAll(dest, 0755); err != nil {
		return nil, fmt.Errorf("create clone dir: %w", err)
	}

	if err := fetchRef(c.URL, c.Ref, dest); err != nil {
		_ = os.RemoveAll(dest)
		return nil, fmt.Errorf("fetch %s@%s: %w", c.Name, c.Ref, err)
	}

	if err := os.WriteFile(marker, []byte{}, 0644); err != nil {
		return nil, fmt.Errorf("create completion marker: %w", err)
	}

	return &CloneResult{FromCache: false, Path: dest}, nil
}

// fetchRef checks out a single ref at depth 1. Unlike "clone --branch" it
// also accepts commit hashes.
func fetchRef(url, ref, dest string) error {
	steps := [][]string{
		{"init", "--quiet"},
		{"remote", "add", "origin", url},
		{"fetch", "--quiet", "--depth=1", "origin", ref},
		{"checkout", "--quiet", "FETCH_HEAD"},
	}
	for _, args := range steps {
		cmd := exec.Command("git", args...)
		cmd.Dir = dest
		cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")
		if output, err := cmd.CombinedOutput(); err != nil {
			return fmt.Errorf("git %s: %w (output: %s)", args[0], err, string(output))
		}
	}
	return nil
}

func getCacheDir() (string, error) {
	if dir := os.Getenv(cacheDirEnv); dir != "" {
		return dir, nil
	}
	testDataDir, err := getTestDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(testDataDir, "cache"), nil
}

func sanitizeDirName(name, ref string) string {
	safeName := unsafePathChars.ReplaceAllString(name, "_")
	safeRef := unsafePathChars.ReplaceAllString(ref, "_")
	return fmt.Sprintf("%s-%s", safeName, safeRef)
}
