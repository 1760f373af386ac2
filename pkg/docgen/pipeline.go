package docgen

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/specvital/routedoc/pkg/domain"
)

// EntryFailure is an entry whose documentation could not be generated.
type EntryFailure struct {
	Entry domain.Entry
	Err   error
}

// Report summarizes a pipeline run.
type Report struct {
	// Written is the number of sections appended to the output file.
	Written int
	// Duplicates counts entries skipped because an identical one was already documented.
	Duplicates int
	Failed     []EntryFailure
}

// Pipeline documents located entries one at a time, in order.
type Pipeline struct {
	generator Generator
	writer    *MarkdownWriter
	logger    *slog.Logger
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithPipelineLogger sets the logger for per-entry progress and failures.
func WithPipelineLogger(logger *slog.Logger) PipelineOption {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewPipeline creates a pipeline writing generator output through writer.
func NewPipeline(generator Generator, writer *MarkdownWriter, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		generator: generator,
		writer:    writer,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run generates and appends one section per entry. Generation failures are
// recorded in the report and the run continues; a write failure or a done
// context stops it.
func (p *Pipeline) Run(ctx context.Context, entries []domain.Entry) (Report, error) {
	var report Report
	seen := make(map[uint64]struct{}, len(entries))

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		fp := entry.Fingerprint()
		if _, dup := seen[fp]; dup {
			report.Duplicates++
			continue
		}
		seen[fp] = struct{}{}

		p.logger.Debug("generating documentation",
			"symbol", entry.Route.HandlerSymbol,
			"method", entry.Route.Method,
			"path", entry.Route.Path,
		)

		doc, err := p.generator.GenerateDocumentation(ctx, requestFor(entry))
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return report, ctxErr
			}
			report.Failed = append(report.Failed, EntryFailure{Entry: entry, Err: err})
			p.logger.Warn("documentation generation failed",
				"symbol", entry.Route.HandlerSymbol,
				"error", err,
			)
			continue
		}

		if err := p.writer.Append(doc); err != nil {
			return report, fmt.Errorf("write documentation: %w", err)
		}
		report.Written++
	}

	return report, nil
}

func requestFor(entry domain.Entry) DocRequest {
	return DocRequest{
		Symbol: entry.Route.HandlerSymbol,
		Method: entry.Route.Method,
		URL:    entry.Route.Path,
		Body:   entry.Declaration.BodyText,
	}
}
