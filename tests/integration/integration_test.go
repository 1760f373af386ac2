//go:build integration

package integration

import (
	"context"
	"flag"
	"slices"
	"testing"
	"time"

	"github.com/specvital/routedoc/pkg/parser"
	"github.com/specvital/routedoc/pkg/source"

	_ "github.com/specvital/routedoc/pkg/parser/strategies/all"
)

const scanTimeout = 10 * time.Minute

var update = flag.Bool("update", false, "rewrite golden snapshots")

func TestCases(t *testing.T) {
	cases, err := LoadCases()
	if err != nil {
		t.Fatalf("load cases.yaml: %v", err)
	}

	for _, c := range cases.Cases {
		t.Run(c.Name, func(t *testing.T) {
			t.Parallel()

			root, err := PrepareCase(c)
			if err != nil {
				t.Fatalf("prepare %s: %v", c.Name, err)
			}

			src, err := source.NewLocalSource(root)
			if err != nil {
				t.Fatalf("open %s: %v", root, err)
			}
			defer src.Close()

			ctx, cancel := context.WithTimeout(context.Background(), scanTimeout)
			defer cancel()

			result, err := parser.Scan(ctx, src)
			if err != nil {
				t.Fatalf("scan %s: %v", c.Name, err)
			}

			t.Logf("scan stats: framework=%s, manifests=%d, routes=%d, located=%d, skipped=%d, duration=%v",
				result.Stats.Framework,
				result.Stats.ManifestsFound,
				result.Stats.RoutesHarvested,
				result.Stats.DeclarationsLocated,
				result.Stats.DeclarationsSkipped,
				result.Stats.Duration,
			)

			if result.Inventory.Framework != c.Framework {
				t.Errorf("framework = %s, want %s", result.Inventory.Framework, c.Framework)
			}
			if c.Handlers != nil && !slices.Equal(result.Inventory.Handlers(), c.Handlers) {
				t.Errorf("handlers = %v, want %v", result.Inventory.Handlers(), c.Handlers)
			}

			actual := SnapshotFromScanResult(c, result)
			if *update {
				if err := SaveSnapshot(actual); err != nil {
					t.Fatalf("save snapshot: %v", err)
				}
				return
			}

			expected, err := LoadSnapshot(c.Name, c.Ref)
			if err != nil {
				t.Fatal(err)
			}
			if diff := CompareSnapshots(expected, actual); !diff.IsEmpty() {
				t.Errorf("snapshot mismatch for %s:\n%s", c.Name, diff)
			}
		})
	}
}

func TestScanDeterminism(t *testing.T) {
	cases, err := LoadCases()
	if err != nil {
		t.Fatalf("load cases.yaml: %v", err)
	}

	for _, c := range cases.Cases {
		if c.Dir == "" {
			continue
		}
		t.Run(c.Name, func(t *testing.T) {
			root, err := PrepareCase(c)
			if err != nil {
				t.Fatal(err)
			}
			src, err := source.NewLocalSource(root)
			if err != nil {
				t.Fatal(err)
			}
			defer src.Close()

			sequential, err := parser.Scan(context.Background(), src)
			if err != nil {
				t.Fatal(err)
			}
			parallel, err := parser.Scan(context.Background(), src, parser.WithWorkers(8))
			if err != nil {
				t.Fatal(err)
			}

			diff := CompareSnapshots(SnapshotFromScanResult(c, sequential), SnapshotFromScanResult(c, parallel))
			if !diff.IsEmpty() {
				t.Errorf("parallel classification diverged:\n%s", diff)
			}
		})
	}
}
