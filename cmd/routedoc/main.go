package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/specvital/routedoc/pkg/config"
	"github.com/specvital/routedoc/pkg/parser"

	_ "github.com/specvital/routedoc/pkg/parser/strategies/all"
)

var Version = "dev"

// workspace is the state shared by every command.
type workspace struct {
	root   string
	cfg    *config.Config
	logger *slog.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:                   "routedoc",
		Usage:                  "Document web framework routes from their handler source",
		Version:                Version,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "Workspace root directory",
				Value:   ".",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Config file path (default: <root>/" + config.FileName + ")",
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "Skip directories with this name (repeatable)",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Files classified concurrently",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable debug logging (also DEBUG=1)",
			},
		},
		Commands: []*cli.Command{
			detectCommand(),
			routesCommand(),
			docsCommand(),
			convertCommand(),
			watchCommand(),
		},
	}
}

// loadWorkspace resolves the root, loads configuration and applies CLI flag overrides.
func loadWorkspace(c *cli.Context) (*workspace, error) {
	root, err := filepath.Abs(c.String("root"))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root path %q: %w", c.String("root"), err)
	}

	cfg, err := config.Load(root, c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if exclude := c.StringSlice("exclude"); len(exclude) > 0 {
		cfg.Scan.Exclude = append(cfg.Scan.Exclude, exclude...)
	}
	if c.IsSet("workers") {
		cfg.Scan.Workers = c.Int("workers")
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	return &workspace{
		root:   root,
		cfg:    cfg,
		logger: newLogger(c.App.ErrWriter, c.Bool("verbose")),
	}, nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	level := slog.LevelInfo
	if verbose || debugEnabled() {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func debugEnabled() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("DEBUG")))
	return v == "1" || v == "true"
}

func (w *workspace) scanOptions(extra ...parser.ScanOption) []parser.ScanOption {
	opts := []parser.ScanOption{
		parser.WithLogger(w.logger),
		parser.WithWorkers(w.cfg.Scan.Workers),
		parser.WithExcludePatterns(w.cfg.Scan.Exclude),
		parser.WithMaxFileSize(w.cfg.Scan.MaxFileSize),
		parser.WithSuggestions(w.cfg.Scan.Suggestions),
	}
	if timeout := w.cfg.Timeout(); timeout > 0 {
		opts = append(opts, parser.WithTimeout(timeout))
	}
	return append(opts, extra...)
}
