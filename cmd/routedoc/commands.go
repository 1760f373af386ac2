package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/specvital/routedoc/pkg/config"
	"github.com/specvital/routedoc/pkg/docgen"
	"github.com/specvital/routedoc/pkg/domain"
	"github.com/specvital/routedoc/pkg/parser"
	"github.com/specvital/routedoc/pkg/parser/detection"
	"github.com/specvital/routedoc/pkg/parser/framework"
	"github.com/specvital/routedoc/pkg/parser/strategies"
	"github.com/specvital/routedoc/pkg/source"
)

var errNoAPIKey = errors.New("no API key: set " + config.EnvGeminiAPIKey + " or " + config.EnvGoogleAPIKey)

func detectCommand() *cli.Command {
	return &cli.Command{
		Name:  "detect",
		Usage: "Print the framework label of the workspace",
		Action: func(c *cli.Context) error {
			ws, err := loadWorkspace(c)
			if err != nil {
				return err
			}
			src, err := source.NewLocalSource(ws.root)
			if err != nil {
				return err
			}
			defer src.Close()

			detector := detection.NewDetector(nil)
			detector.SetLogger(ws.logger)
			detector.SetWorkers(ws.cfg.Scan.Workers)
			detector.SetFilters(ws.skipDirs(), nil, ws.cfg.Scan.MaxFileSize)

			result, err := detector.Classify(c.Context, src)
			if err != nil {
				return err
			}
			printDetection(c.App.Writer, result)
			return nil
		},
	}
}

func printDetection(w io.Writer, result detection.Result) {
	fmt.Fprintln(w, result.Framework)
	if !result.IsUnknown() {
		fmt.Fprintf(w, "  %s, %s match in %s\n", framework.DisplayName(result.Framework), result.Source, result.Path)
	}
}

type skippedOutput struct {
	Handler     string   `json:"handler"`
	Manifest    string   `json:"manifest"`
	Reason      string   `json:"reason"`
	Suggestions []string `json:"suggestions,omitempty"`
}

type routesOutput struct {
	Detection detection.Result `json:"detection"`
	Entries   []domain.Entry   `json:"entries"`
	Skipped   []skippedOutput  `json:"skipped"`
}

func routesCommand() *cli.Command {
	return &cli.Command{
		Name:  "routes",
		Usage: "List harvested routes and their located handlers",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "Output as JSON"},
		},
		Action: func(c *cli.Context) error {
			ws, err := loadWorkspace(c)
			if err != nil {
				return err
			}
			result, err := ws.scan(c.Context)
			if err != nil {
				return err
			}
			if c.Bool("json") {
				return writeRoutesJSON(c.App.Writer, result)
			}
			return writeRoutesText(c.App.Writer, result)
		},
	}
}

func writeRoutesJSON(w io.Writer, result *parser.ScanResult) error {
	out := routesOutput{
		Detection: result.Detection,
		Entries:   result.Inventory.Entries,
		Skipped:   make([]skippedOutput, 0, len(result.Skipped)),
	}
	for _, s := range result.Skipped {
		out.Skipped = append(out.Skipped, skippedOutput{
			Handler:     s.Route.HandlerSymbol,
			Manifest:    s.Route.SourceFile,
			Reason:      string(s.Reason),
			Suggestions: s.Suggestions,
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writeRoutesText(w io.Writer, result *parser.ScanResult) error {
	fmt.Fprintf(w, "Framework: %s\n", result.Inventory.Framework)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, e := range result.Inventory.Entries {
		method := e.Route.Method
		if method == "" {
			method = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s:%d\n", method, e.Route.Path, e.Route.HandlerSymbol,
			e.Declaration.SourceFile, e.Declaration.StartOffset)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, s := range result.Skipped {
		fmt.Fprintf(w, "skipped %s (%s)", s.Route.HandlerSymbol, s.Reason)
		if len(s.Suggestions) > 0 {
			fmt.Fprintf(w, ", did you mean %v?", s.Suggestions)
		}
		fmt.Fprintln(w)
	}
	return nil
}

func docsCommand() *cli.Command {
	return &cli.Command{
		Name:  "docs",
		Usage: "Generate Markdown documentation for every located handler",
		Action: func(c *cli.Context) error {
			ws, err := loadWorkspace(c)
			if err != nil {
				return err
			}
			gen, err := ws.generator(c.Context)
			if err != nil {
				return err
			}
			report, err := ws.runDocs(c.Context, gen)
			if err != nil {
				return err
			}
			printReport(c.App.Writer, ws.cfg.OutputPath(ws.root), report)
			return nil
		},
	}
}

func printReport(w io.Writer, path string, report docgen.Report) {
	fmt.Fprintf(w, "Wrote %d sections to %s", report.Written, path)
	if n := len(report.Failed); n > 0 {
		fmt.Fprintf(w, " (%d failed)", n)
	}
	fmt.Fprintln(w)
}

func convertCommand() *cli.Command {
	return &cli.Command{
		Name:  "convert",
		Usage: "Translate a file or line range into another language",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "Source file relative to the root", Required: true},
			&cli.StringFlag{Name: "lines", Aliases: []string{"l"}, Usage: "Line range a:b (1-based, inclusive)"},
			&cli.StringFlag{Name: "to", Aliases: []string{"t"}, Usage: "Target language (e.g. Python)", Required: true},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "Output file (default: source name with the target extension)"},
		},
		Action: func(c *cli.Context) error {
			ws, err := loadWorkspace(c)
			if err != nil {
				return err
			}
			start, end, err := source.ParseLineRange(c.String("lines"))
			if err != nil {
				return err
			}
			gen, err := ws.generator(c.Context)
			if err != nil {
				return err
			}
			src, err := source.NewLocalSource(ws.root)
			if err != nil {
				return err
			}
			defer src.Close()

			out, err := docgen.Convert(c.Context, gen, src, docgen.ConvertRequest{
				Path:           c.String("file"),
				StartLine:      start,
				EndLine:        end,
				TargetLanguage: c.String("to"),
				OutPath:        c.String("out"),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "Converted code written to %s\n", out)
			return nil
		},
	}
}

func watchCommand() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Regenerate documentation whenever routes or handlers change",
		Action: func(c *cli.Context) error {
			ws, err := loadWorkspace(c)
			if err != nil {
				return err
			}
			gen, err := ws.generator(c.Context)
			if err != nil {
				return err
			}

			regenerate := func() {
				report, err := ws.regenerate(c.Context, gen)
				if err != nil {
					ws.logger.Error("documentation run failed", "error", err)
					return
				}
				printReport(c.App.Writer, ws.cfg.OutputPath(ws.root), report)
			}
			regenerate()

			opts := source.WatchOptions{
				SkipDirs: ws.skipDirs(),
				Patterns: watchPatterns(strategies.GetStrategies()),
			}
			ws.logger.Info("watching for changes", "root", ws.root)
			return source.Watch(c.Context, ws.root, opts, func(paths []string) {
				ws.logger.Info("changes detected", "files", paths)
				regenerate()
			})
		},
	}
}

// watchPatterns covers every manifest and every handler source file.
func watchPatterns(all []strategies.Strategy) []string {
	seen := make(map[string]bool)
	var patterns []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			patterns = append(patterns, p)
		}
	}
	for _, s := range all {
		for _, p := range s.ManifestPatterns() {
			add(p)
		}
		for _, ext := range s.SourceExtensions() {
			add("**/*" + ext)
		}
	}
	return patterns
}

func (w *workspace) skipDirs() []string {
	dirs := append([]string(nil), parser.DefaultSkipPatterns...)
	return append(dirs, w.cfg.Scan.Exclude...)
}

func (w *workspace) scan(ctx context.Context, extra ...parser.ScanOption) (*parser.ScanResult, error) {
	src, err := source.NewLocalSource(w.root)
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return parser.Scan(ctx, src, w.scanOptions(extra...)...)
}

func (w *workspace) generator(ctx context.Context) (docgen.Generator, error) {
	if w.cfg.LLM.APIKey == "" {
		return nil, errNoAPIKey
	}
	gemini, err := docgen.NewGeminiGenerator(ctx, docgen.GeminiConfig{
		APIKey:      w.cfg.LLM.APIKey,
		Model:       w.cfg.LLM.Model,
		Temperature: w.cfg.LLM.Temperature,
	})
	if err != nil {
		return nil, err
	}
	return docgen.NewCachingGenerator(gemini, w.cfg.LLM.CacheSize)
}

// runDocs scans the workspace and appends one section per located handler.
func (w *workspace) runDocs(ctx context.Context, gen docgen.Generator) (docgen.Report, error) {
	result, err := w.scan(ctx)
	if err != nil {
		return docgen.Report{}, err
	}
	if result.Inventory.CountEntries() == 0 {
		w.logger.Info("nothing to document", "framework", result.Inventory.Framework)
		return docgen.Report{}, nil
	}

	writer := docgen.NewMarkdownWriter(w.cfg.OutputPath(w.root))
	pipeline := docgen.NewPipeline(gen, writer, docgen.WithPipelineLogger(w.logger))
	return pipeline.Run(ctx, result.Inventory.Entries)
}

// regenerate replaces the documentation file with a fresh run.
func (w *workspace) regenerate(ctx context.Context, gen docgen.Generator) (docgen.Report, error) {
	if err := os.Remove(w.cfg.OutputPath(w.root)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return docgen.Report{}, fmt.Errorf("remove previous documentation: %w", err)
	}
	return w.runDocs(ctx, gen)
}
