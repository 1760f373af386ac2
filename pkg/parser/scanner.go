// Package parser orchestrates route documentation scans: classify the
// workspace, harvest its route manifests and locate every handler.
package parser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/specvital/routedoc/pkg/domain"
	"github.com/specvital/routedoc/pkg/parser/detection"
	"github.com/specvital/routedoc/pkg/parser/framework"
	"github.com/specvital/routedoc/pkg/parser/locator"
	"github.com/specvital/routedoc/pkg/parser/strategies"
	"github.com/specvital/routedoc/pkg/source"
)

const (
	// DefaultWorkers keeps classification sequential.
	DefaultWorkers = 1
	// DefaultTimeout is the default scan timeout duration.
	DefaultTimeout = 5 * time.Minute
	// MaxWorkers is the maximum number of concurrent workers allowed.
	MaxWorkers = 1024
	// DefaultMaxFileSize is the default maximum file size for scanning (10MB).
	DefaultMaxFileSize = 10 * 1024 * 1024
)

// DefaultSkipPatterns contains directory names that are skipped by default during scanning.
var DefaultSkipPatterns = []string{
	"node_modules",
	".git",
	".next",
	"__pycache__",
	"coverage",
	".cache",
}

var (
	// ErrScanCancelled is returned when scanning is cancelled via context.
	ErrScanCancelled = errors.New("scanner: scan cancelled")
	// ErrScanTimeout is returned when scanning exceeds the timeout duration.
	ErrScanTimeout = errors.New("scanner: scan timeout")
	// ErrNoStrategy is recorded when the detected framework has no route harvester.
	ErrNoStrategy = errors.New("scanner: no route harvester for framework")
)

// Scan phases reported in ScanError.Phase.
const (
	PhaseDetection = "detection"
	PhaseHarvest   = "harvest"
	PhaseLocate    = "locate"
)

// Scanner classifies a workspace, harvests its routes and locates each handler.
// Manifests and declarations are processed strictly one at a time, in order.
type Scanner struct {
	detector   *detection.Detector
	strategies *strategies.Registry
	logger     *slog.Logger
	options    *ScanOptions
}

// ScanResult contains the outcome of a scan operation.
type ScanResult struct {
	// Inventory contains the located entries in harvest order.
	Inventory *domain.Inventory

	// Detection is the framework classification of the workspace.
	Detection detection.Result

	// Skipped lists harvested routes whose handler could not be located.
	Skipped []SkippedRoute

	// Errors contains non-fatal errors encountered during scanning.
	Errors []ScanError

	// Stats provides scan statistics.
	Stats ScanStats
}

// SkippedRoute is a harvested route that produced no entry.
type SkippedRoute struct {
	Route  domain.RouteDeclaration
	Reason domain.SkipReason
	// Suggestions are declared names close to the unresolved handler.
	Suggestions []string
}

// ScanError represents an error that occurred during a specific phase of scanning.
type ScanError struct {
	// Err is the underlying error.
	Err error

	// Path is the file path where the error occurred (may be empty for non-file errors).
	Path string

	// Phase indicates which phase the error occurred in.
	// Values: "detection", "harvest", "locate"
	Phase string
}

// Error implements the error interface.
func (e ScanError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("[%s] %v", e.Phase, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %v", e.Phase, e.Path, e.Err)
}

func (e ScanError) Unwrap() error {
	return e.Err
}

// ScanStats provides statistics about the scan operation.
type ScanStats struct {
	// Framework is the detected framework label.
	Framework string

	// ManifestsFound is the number of manifest files matched by the harvester globs.
	ManifestsFound int

	// RoutesHarvested is the number of route declarations harvested from manifests.
	RoutesHarvested int

	// DeclarationsLocated is the number of handlers whose declaration was found.
	DeclarationsLocated int

	// DeclarationsSkipped is the number of handlers that could not be located.
	DeclarationsSkipped int

	// Duration is the total scan duration.
	Duration time.Duration
}

// NewScanner creates a new scanner with the given options.
func NewScanner(opts ...ScanOption) *Scanner {
	options := &ScanOptions{}
	for _, opt := range opts {
		opt(options)
	}
	applyDefaults(options)

	detector := detection.NewDetector(options.Registry)
	detector.SetLogger(options.Logger)
	detector.SetWorkers(options.Workers)
	detector.SetFilters(skipDirs(options), nil, options.MaxFileSize)

	return &Scanner{
		detector:   detector,
		strategies: options.Strategies,
		logger:     options.Logger,
		options:    options,
	}
}

// Scan performs the complete scanning process:
//  1. Classify the workspace framework
//  2. Select the framework's route harvester
//  3. Discover manifest files
//  4. Harvest route declarations, one manifest at a time
//  5. Locate the declaration of every harvested handler
//
// An unknown framework, a framework without harvester or a workspace without
// manifests end the scan cleanly with an empty inventory.
// The caller is responsible for calling src.Close() when done.
func (s *Scanner) Scan(ctx context.Context, src source.Source) (*ScanResult, error) {
	startTime := time.Now()

	ctx, cancel := context.WithTimeout(ctx, s.options.Timeout)
	defer cancel()

	result := &ScanResult{
		Inventory: &domain.Inventory{
			Entries:   []domain.Entry{},
			Framework: framework.FrameworkUnknown,
			RootPath:  src.Root(),
		},
		Detection: detection.Unknown(),
		Errors:    []ScanError{},
		Stats: ScanStats{
			Framework: framework.FrameworkUnknown,
		},
	}

	err := s.scan(ctx, src, result)
	result.Stats.Duration = time.Since(startTime)

	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return result, ErrScanTimeout
		}
		return result, ErrScanCancelled
	}
	return result, err
}

func (s *Scanner) scan(ctx context.Context, src source.Source, result *ScanResult) error {
	detected, err := s.detector.Classify(ctx, src)
	if err != nil {
		return fmt.Errorf("classify workspace: %w", err)
	}
	result.Detection = detected
	result.Inventory.Framework = detected.Framework
	result.Stats.Framework = detected.Framework

	if detected.IsUnknown() {
		s.logger.Info("no framework detected", "root", src.Root())
		return nil
	}
	s.logger.Info("framework detected",
		"framework", framework.DisplayName(detected.Framework),
		"source", string(detected.Source),
		"path", detected.Path,
	)

	strategy := s.strategies.FindByFramework(detected.Framework)
	if strategy == nil {
		result.Errors = append(result.Errors, ScanError{
			Err:   fmt.Errorf("%w: %s", ErrNoStrategy, detected.Framework),
			Phase: PhaseDetection,
		})
		s.logger.Info("framework has no route harvester", "framework", detected.Framework)
		return nil
	}

	manifests, err := src.List(ctx, source.ListOptions{
		Patterns:    strategy.ManifestPatterns(),
		SkipDirs:    skipDirs(s.options),
		MaxFileSize: s.options.MaxFileSize,
	})
	if err != nil {
		return fmt.Errorf("list manifests: %w", err)
	}
	result.Stats.ManifestsFound = len(manifests)

	if len(manifests) == 0 {
		s.logger.Info("no files found", "framework", detected.Framework, "patterns", strategy.ManifestPatterns())
		return nil
	}

	env, err := s.environment(ctx, src, detected)
	if err != nil {
		return err
	}

	loc := locator.New(src,
		locator.WithLogger(s.logger),
		locator.WithSkipDirs(skipDirs(s.options)),
		locator.WithExtensions(strategy.Dialect(), strategy.SourceExtensions()),
		locator.WithMaxFileSize(s.options.MaxFileSize),
	)

	for _, manifest := range manifests {
		if ctx.Err() != nil {
			return nil
		}

		routes, err := s.harvest(ctx, src, strategy, manifest, env)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			result.Errors = append(result.Errors, ScanError{Err: err, Path: manifest, Phase: PhaseHarvest})
			s.logger.Warn("manifest harvest failed", "path", manifest, "error", err)
			continue
		}
		result.Stats.RoutesHarvested += len(routes)
		s.logger.Debug("manifest harvested", "path", manifest, "routes", len(routes))

		for _, route := range routes {
			if ctx.Err() != nil {
				return nil
			}
			if err := s.resolve(ctx, loc, strategy, route, result); err != nil {
				return err
			}
		}
	}

	return nil
}

// environment gathers the workspace facts handed to the harvester.
func (s *Scanner) environment(ctx context.Context, src source.Source, detected detection.Result) (strategies.Env, error) {
	if detected.Framework != framework.FrameworkDjango {
		return strategies.Env{}, nil
	}
	if detected.Source == detection.SourceProjectMarker {
		return strategies.Env{ProjectVerified: true}, nil
	}
	verified, err := s.detector.IsDjangoProject(ctx, src)
	if err != nil {
		return strategies.Env{}, fmt.Errorf("verify django project: %w", err)
	}
	return strategies.Env{ProjectVerified: verified}, nil
}

func (s *Scanner) harvest(ctx context.Context, src source.Source, strategy strategies.Strategy, manifest string, env strategies.Env) ([]domain.RouteDeclaration, error) {
	content, err := source.ReadFile(ctx, src, manifest)
	if err != nil {
		return nil, err
	}
	file := domain.SourceFile{Path: manifest, Content: content}
	return strategy.Harvest(ctx, []domain.SourceFile{file}, env)
}

// resolve locates one handler. Lookup failures are recorded as skips; only
// an unusable workspace is returned as an error.
func (s *Scanner) resolve(ctx context.Context, loc *locator.Locator, strategy strategies.Strategy, route domain.RouteDeclaration, result *ScanResult) error {
	rec, err := loc.Locate(ctx, route.HandlerSymbol, strategy.Dialect())
	if err == nil {
		entry := domain.Entry{Declaration: *rec, Route: route}
		result.Inventory.Entries = append(result.Inventory.Entries, entry)
		result.Stats.DeclarationsLocated++
		if s.options.EntryHandler != nil {
			s.options.EntryHandler(entry)
		}
		return nil
	}

	if errors.Is(err, source.ErrWorkspaceUnavailable) {
		return err
	}
	if ctx.Err() != nil {
		return nil
	}

	reason := skipReason(err)
	skipped := SkippedRoute{Route: route, Reason: reason}
	if reason == domain.SkipReasonNotFound && s.options.Suggestions > 0 {
		skipped.Suggestions, _ = loc.Suggest(ctx, route.HandlerSymbol, strategy.Dialect(), s.options.Suggestions)
	}

	result.Skipped = append(result.Skipped, skipped)
	result.Errors = append(result.Errors, ScanError{Err: err, Path: route.SourceFile, Phase: PhaseLocate})
	result.Stats.DeclarationsSkipped++

	s.logger.Info("declaration skipped",
		"path", route.SourceFile,
		"symbol", route.HandlerSymbol,
		"reason", string(reason),
		"suggestions", skipped.Suggestions,
	)
	return nil
}

func skipReason(err error) domain.SkipReason {
	switch {
	case errors.Is(err, locator.ErrNotFound):
		return domain.SkipReasonNotFound
	case errors.Is(err, locator.ErrBlockNotFound):
		return domain.SkipReasonBlockNotFound
	default:
		return domain.SkipReasonReadError
	}
}

func skipDirs(opts *ScanOptions) []string {
	dirs := make([]string, 0, len(DefaultSkipPatterns)+len(opts.ExcludePatterns))
	dirs = append(dirs, DefaultSkipPatterns...)
	return append(dirs, opts.ExcludePatterns...)
}

// Scan is a convenience wrapper around NewScanner(opts...).Scan.
func Scan(ctx context.Context, src source.Source, opts ...ScanOption) (*ScanResult, error) {
	scanner := NewScanner(opts...)
	return scanner.Scan(ctx, src)
}
