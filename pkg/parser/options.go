package parser

import (
	"io"
	"log/slog"
	"time"

	"github.com/specvital/routedoc/pkg/domain"
	"github.com/specvital/routedoc/pkg/parser/framework"
	"github.com/specvital/routedoc/pkg/parser/strategies"
)

// ScanOptions configures scanner behavior.
type ScanOptions struct {
	// EntryHandler receives every located entry as soon as it is produced.
	EntryHandler func(domain.Entry)

	// ExcludePatterns specifies directory names to skip during file discovery.
	// These are combined with DefaultSkipPatterns.
	ExcludePatterns []string

	// Logger receives progress and skip diagnostics. Defaults to a discard logger.
	Logger *slog.Logger

	// MaxFileSize is the maximum file size in bytes to process.
	// Files larger than this are skipped.
	MaxFileSize int64

	// Registry is the signature registry used for classification.
	// If nil, uses framework.DefaultRegistry().
	Registry *framework.Registry

	// Strategies is the harvester registry.
	// If nil, uses strategies.DefaultRegistry().
	Strategies *strategies.Registry

	// Suggestions is the number of similarly named declarations reported for
	// an unresolved handler. Zero disables suggestions.
	Suggestions int

	// Timeout is the maximum duration for the entire scan operation.
	// Zero or negative values use DefaultTimeout.
	Timeout time.Duration

	// Workers specifies how many files the classifier reads concurrently.
	// Zero or negative values use DefaultWorkers.
	Workers int
}

// ScanOption is a functional option for configuring Scanner.
type ScanOption func(*ScanOptions)

// WithWorkers sets the number of concurrent classifier reads.
// Negative values are ignored.
func WithWorkers(n int) ScanOption {
	return func(o *ScanOptions) {
		if n >= 0 {
			o.Workers = n
		}
	}
}

// WithTimeout sets the scan timeout duration.
// Negative values are ignored.
func WithTimeout(d time.Duration) ScanOption {
	return func(o *ScanOptions) {
		if d >= 0 {
			o.Timeout = d
		}
	}
}

// WithExcludePatterns adds directory names to skip during file discovery.
func WithExcludePatterns(patterns []string) ScanOption {
	return func(o *ScanOptions) {
		o.ExcludePatterns = patterns
	}
}

// WithMaxFileSize sets the maximum file size to process.
func WithMaxFileSize(size int64) ScanOption {
	return func(o *ScanOptions) {
		o.MaxFileSize = size
	}
}

// WithRegistry sets the signature registry to use.
func WithRegistry(registry *framework.Registry) ScanOption {
	return func(o *ScanOptions) {
		o.Registry = registry
	}
}

// WithStrategies sets the harvester registry to use.
func WithStrategies(registry *strategies.Registry) ScanOption {
	return func(o *ScanOptions) {
		o.Strategies = registry
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ScanOption {
	return func(o *ScanOptions) {
		o.Logger = logger
	}
}

// WithEntryHandler registers a callback invoked for each located entry, in
// harvest order, before Scan returns.
func WithEntryHandler(fn func(domain.Entry)) ScanOption {
	return func(o *ScanOptions) {
		o.EntryHandler = fn
	}
}

// WithSuggestions sets how many "did you mean" names are reported for an
// unresolved handler. Negative values are ignored.
func WithSuggestions(n int) ScanOption {
	return func(o *ScanOptions) {
		if n >= 0 {
			o.Suggestions = n
		}
	}
}

func applyDefaults(opts *ScanOptions) {
	if opts.MaxFileSize <= 0 {
		opts.MaxFileSize = DefaultMaxFileSize
	}
	if opts.Registry == nil {
		opts.Registry = framework.DefaultRegistry()
	}
	if opts.Strategies == nil {
		opts.Strategies = strategies.DefaultRegistry()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.Workers > MaxWorkers {
		opts.Workers = MaxWorkers
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
}
