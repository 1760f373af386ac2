package detection

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/specvital/routedoc/pkg/parser/detection/config"
	"github.com/specvital/routedoc/pkg/parser/framework"
	"github.com/specvital/routedoc/pkg/source"
)

// CandidateExtensions are the file types inspected by the classifier.
var CandidateExtensions = []string{".js", ".ts", ".jsx", ".tsx", ".py", ".java", ".rb", ".php"}

// Detector classifies a workspace by scanning candidate files against the
// signature registry. The first file yielding a label decides the whole
// workspace. Files are visited in lexicographic order so the outcome is
// reproducible.
//
// A Django project marker (manage.py or wsgi.py) is checked before any
// content and takes precedence over it.
type Detector struct {
	registry    *framework.Registry
	resolver    *config.Resolver
	logger      *slog.Logger
	workers     int
	skipDirs    []string
	exclude     []string
	maxFileSize int64
}

// NewDetector creates a detector over registry. A nil registry uses
// framework.DefaultRegistry().
func NewDetector(registry *framework.Registry) *Detector {
	if registry == nil {
		registry = framework.DefaultRegistry()
	}
	return &Detector{
		registry: registry,
		resolver: config.NewResolver(config.NewCache()),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		workers:  1,
	}
}

// SetLogger sets the logger used for per-file diagnostics.
func (d *Detector) SetLogger(logger *slog.Logger) {
	if logger != nil {
		d.logger = logger
	}
}

// SetWorkers sets how many files are read and matched concurrently.
// Values below 1 mean sequential.
func (d *Detector) SetWorkers(n int) {
	if n < 1 {
		n = 1
	}
	d.workers = n
}

// SetFilters configures the directories, globs and size limit applied to candidate files.
func (d *Detector) SetFilters(skipDirs, exclude []string, maxFileSize int64) {
	d.skipDirs = skipDirs
	d.exclude = exclude
	d.maxFileSize = maxFileSize
	d.resolver = config.NewResolver(config.NewCache(), skipDirs...)
}

// Classify returns the framework of the workspace, or Unknown() when no file matches.
func (d *Detector) Classify(ctx context.Context, src source.Source) (Result, error) {
	marker, ok, err := d.resolver.ResolveMarker(ctx, src, config.DjangoMarkers)
	if err != nil {
		return Unknown(), err
	}
	if ok {
		d.logger.Debug("django project marker found", "path", marker)
		return FromProjectMarker(framework.FrameworkDjango, marker), nil
	}

	files, err := src.List(ctx, source.ListOptions{
		Extensions:  CandidateExtensions,
		SkipDirs:    d.skipDirs,
		Exclude:     d.exclude,
		MaxFileSize: d.maxFileSize,
	})
	if err != nil {
		return Unknown(), err
	}

	if d.workers <= 1 {
		return d.classifySequential(ctx, src, files)
	}
	return d.classifyWindows(ctx, src, files)
}

func (d *Detector) classifySequential(ctx context.Context, src source.Source, files []string) (Result, error) {
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return Unknown(), err
		}
		if res, ok := d.classifyFile(ctx, src, file); ok {
			return res, nil
		}
	}
	return Unknown(), nil
}

// classifyWindows evaluates files in windows of d.workers. Within a window the
// lowest index with a label wins, so the result equals the sequential one.
func (d *Detector) classifyWindows(ctx context.Context, src source.Source, files []string) (Result, error) {
	sem := semaphore.NewWeighted(int64(d.workers))

	for start := 0; start < len(files); start += d.workers {
		end := start + d.workers
		if end > len(files) {
			end = len(files)
		}
		window := files[start:end]
		results := make([]*Result, len(window))

		g, gCtx := errgroup.WithContext(ctx)
		for i, file := range window {
			g.Go(func() error {
				if err := sem.Acquire(gCtx, 1); err != nil {
					return err
				}
				defer sem.Release(1)

				if res, ok := d.classifyFile(gCtx, src, file); ok {
					results[i] = &res
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return Unknown(), err
		}
		if err := ctx.Err(); err != nil {
			return Unknown(), err
		}

		for _, res := range results {
			if res != nil {
				return *res, nil
			}
		}
	}
	return Unknown(), nil
}

func (d *Detector) classifyFile(ctx context.Context, src source.Source, file string) (Result, bool) {
	content, err := source.ReadFile(ctx, src, file)
	if err != nil {
		if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			d.logger.Debug("skip unreadable file", "path", file, "error", err)
		}
		return Result{}, false
	}

	name, signal := d.registry.MatchSignal(content, file)
	if name == framework.FrameworkUnknown {
		return Result{}, false
	}
	d.logger.Debug("framework signature matched", "path", file, "framework", name, "signal", string(signal))
	return fromSignal(name, signal, file), true
}

// IsDjangoProject reports whether the workspace carries a Django project marker.
func (d *Detector) IsDjangoProject(ctx context.Context, src source.Source) (bool, error) {
	_, ok, err := d.resolver.ResolveMarker(ctx, src, config.DjangoMarkers)
	return ok, err
}
