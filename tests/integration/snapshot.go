//go:build integration

package integration

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/specvital/routedoc/pkg/parser"
)

// Snapshot is the golden record of one case scan.
type Snapshot struct {
	Case        string          `json:"case"`
	Ref         string          `json:"ref,omitempty"`
	Framework   string          `json:"framework"`
	DetectedBy  string          `json:"detectedBy"`
	Manifests   int             `json:"manifests"`
	Routes      []SnapshotRoute `json:"routes"`
	Skipped     []SnapshotSkip  `json:"skipped"`
	ErrorPhases []string        `json:"errorPhases"`
}

// SnapshotRoute is a located handler and the span of its declaration.
type SnapshotRoute struct {
	Method      string `json:"method,omitempty"`
	Path        string `json:"path"`
	Handler     string `json:"handler"`
	SourceFile  string `json:"sourceFile"`
	StartOffset int    `json:"startOffset"`
	EndOffset   int    `json:"endOffset"`
}

// Key identifies the route independently of where its handler lives.
func (r SnapshotRoute) Key() string {
	return strings.TrimSpace(r.Method+" "+r.Path) + " -> " + r.Handler
}

// SnapshotSkip is a harvested route without a located handler.
type SnapshotSkip struct {
	Handler string `json:"handler"`
	Reason  string `json:"reason"`
}

// SnapshotFromScanResult creates a Snapshot from a scan result.
func SnapshotFromScanResult(c Case, result *parser.ScanResult) *Snapshot {
	snapshot := &Snapshot{
		Case:        c.Name,
		Ref:         c.Ref,
		Framework:   result.Detection.Framework,
		DetectedBy:  string(result.Detection.Source),
		Manifests:   result.Stats.ManifestsFound,
		Routes:      []SnapshotRoute{},
		Skipped:     []SnapshotSkip{},
		ErrorPhases: []string{},
	}

	for _, e := range result.Inventory.Entries {
		snapshot.Routes = append(snapshot.Routes, SnapshotRoute{
			Method:      e.Route.Method,
			Path:        e.Route.Path,
			Handler:     e.Route.HandlerSymbol,
			SourceFile:  e.Declaration.SourceFile,
			StartOffset: e.Declaration.StartOffset,
			EndOffset:   e.Declaration.EndOffset,
		})
	}
	for _, s := range result.Skipped {
		snapshot.Skipped = append(snapshot.Skipped, SnapshotSkip{
			Handler: s.Route.HandlerSymbol,
			Reason:  string(s.Reason),
		})
	}
	for _, e := range result.Errors {
		snapshot.ErrorPhases = append(snapshot.ErrorPhases, e.Phase)
	}

	return snapshot
}

// SaveSnapshot saves a snapshot to the golden directory.
func SaveSnapshot(snapshot *Snapshot) error {
	goldenDir, err := getGoldenDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(goldenDir, 0755); err != nil {
		return fmt.Errorf("create golden dir: %w", err)
	}

	path := filepath.Join(goldenDir, snapshotFilename(snapshot.Case, snapshot.Ref))
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	return nil
}

// LoadSnapshot loads a snapshot from the golden directory.
func LoadSnapshot(caseName, ref string) (*Snapshot, error) {
	goldenDir, err := getGoldenDir()
	if err != nil {
		return nil, err
	}

	path := filepath.Join(goldenDir, snapshotFilename(caseName, ref))
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("snapshot not found: %s (run with -update to create)", path)
		}
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}

	return &snapshot, nil
}

// SnapshotDiff represents differences between expected and actual snapshots.
type SnapshotDiff struct {
	Framework     *FrameworkDiff
	ManifestsDiff int
	MissingRoutes []string
	ExtraRoutes   []string
	// MovedRoutes are routes whose declaration file or span changed.
	MovedRoutes  []string
	SkippedDiffs []string
	PhasesDiff   bool
}

// FrameworkDiff records a changed classification.
type FrameworkDiff struct {
	Expected string
	Actual   string
}

// IsEmpty returns true if there are no differences.
func (d *SnapshotDiff) IsEmpty() bool {
	return d.Framework == nil &&
		d.ManifestsDiff == 0 &&
		len(d.MissingRoutes) == 0 &&
		len(d.ExtraRoutes) == 0 &&
		len(d.MovedRoutes) == 0 &&
		len(d.SkippedDiffs) == 0 &&
		!d.PhasesDiff
}

// String returns a human-readable diff summary.
func (d *SnapshotDiff) String() string {
	if d.IsEmpty() {
		return "no differences"
	}

	var sb strings.Builder

	if d.Framework != nil {
		fmt.Fprintf(&sb, "  framework: expected %s, got %s\n", d.Framework.Expected, d.Framework.Actual)
	}
	if d.ManifestsDiff != 0 {
		fmt.Fprintf(&sb, "  manifests: %+d\n", d.ManifestsDiff)
	}
	writeList(&sb, "missing routes", "-", d.MissingRoutes)
	writeList(&sb, "extra routes", "+", d.ExtraRoutes)
	writeList(&sb, "moved routes", "~", d.MovedRoutes)
	writeList(&sb, "skipped changes", "~", d.SkippedDiffs)
	if d.PhasesDiff {
		sb.WriteString("  error phases changed\n")
	}

	return sb.String()
}

func writeList(sb *strings.Builder, title, mark string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(sb, "  %s (%d):\n", title, len(items))
	for i, item := range items {
		if i == 10 {
			fmt.Fprintf(sb, "    ... and %d more\n", len(items)-10)
			break
		}
		fmt.Fprintf(sb, "    %s %s\n", mark, item)
	}
}

// CompareSnapshots compares an expected snapshot with an actual scan result.
func CompareSnapshots(expected, actual *Snapshot) *SnapshotDiff {
	diff := &SnapshotDiff{
		ManifestsDiff: actual.Manifests - expected.Manifests,
	}

	if expected.Framework != actual.Framework {
		diff.Framework = &FrameworkDiff{Expected: expected.Framework, Actual: actual.Framework}
	}

	expectedRoutes := make(map[string]SnapshotRoute, len(expected.Routes))
	for _, r := range expected.Routes {
		expectedRoutes[r.Key()] = r
	}
	actualRoutes := make(map[string]SnapshotRoute, len(actual.Routes))
	for _, r := range actual.Routes {
		actualRoutes[r.Key()] = r
	}

	for key, want := range expectedRoutes {
		got, ok := actualRoutes[key]
		switch {
		case !ok:
			diff.MissingRoutes = append(diff.MissingRoutes, key)
		case got != want:
			diff.MovedRoutes = append(diff.MovedRoutes, fmt.Sprintf("%s: %s[%d:%d] -> %s[%d:%d]",
				key, want.SourceFile, want.StartOffset, want.EndOffset, got.SourceFile, got.StartOffset, got.EndOffset))
		}
	}
	for key := range actualRoutes {
		if _, ok := expectedRoutes[key]; !ok {
			diff.ExtraRoutes = append(diff.ExtraRoutes, key)
		}
	}

	expectedSkips := skipSet(expected.Skipped)
	actualSkips := skipSet(actual.Skipped)
	for s := range expectedSkips {
		if !actualSkips[s] {
			diff.SkippedDiffs = append(diff.SkippedDiffs, "no longer skipped: "+s)
		}
	}
	for s := range actualSkips {
		if !expectedSkips[s] {
			diff.SkippedDiffs = append(diff.SkippedDiffs, "newly skipped: "+s)
		}
	}

	diff.PhasesDiff = strings.Join(expected.ErrorPhases, ",") != strings.Join(actual.ErrorPhases, ",")

	sort.Strings(diff.MissingRoutes)
	sort.Strings(diff.ExtraRoutes)
	sort.Strings(diff.MovedRoutes)
	sort.Strings(diff.SkippedDiffs)

	return diff
}

func skipSet(skips []SnapshotSkip) map[string]bool {
	set := make(map[string]bool, len(skips))
	for _, s := range skips {
		set[s.Handler+" ("+s.Reason+")"] = true
	}
	return set
}

func getGoldenDir() (string, error) {
	testDataDir, err := getTestDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(testDataDir, "golden"), nil
}

func snapshotFilename(caseName, ref string) string {
	safeName := unsafePathChars.ReplaceAllString(caseName, "_")
	if ref == "" {
		return safeName + ".json"
	}
	safeRef := unsafePathChars.ReplaceAllString(ref, "_")
	return fmt.Sprintf("%s-%s.json", safeName, safeRef)
}
