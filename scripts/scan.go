//go:build ignore

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/specvital/routedoc/pkg/parser"
	"github.com/specvital/routedoc/pkg/source"

	_ "github.com/specvital/routedoc/pkg/parser/strategies/all"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: go run scripts/scan.go <path>\n")
		os.Exit(1)
	}

	path := os.Args[1]

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	src, err := source.NewLocalSource(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "source error: %v\n", err)
		os.Exit(1)
	}
	defer src.Close()

	result, err := parser.Scan(ctx, src, parser.WithSuggestions(3))
	if err != nil {
		fmt.Fprintf(os.Stderr, "scan error: %v\n", err)
		os.Exit(1)
	}

	output := map[string]interface{}{
		"framework":  result.Detection.Framework,
		"detectedBy": result.Detection.Source,
		"manifests":  result.Stats.ManifestsFound,
		"routes":     result.Stats.RoutesHarvested,
		"located":    result.Stats.DeclarationsLocated,
		"skipped":    countSkipReasons(result),
		"duration":   result.Stats.Duration.String(),
	}
	json.NewEncoder(os.Stdout).Encode(output)
}

func countSkipReasons(result *parser.ScanResult) map[string]int {
	counts := make(map[string]int)
	for _, s := range result.Skipped {
		counts[string(s.Reason)]++
	}
	return counts
}
