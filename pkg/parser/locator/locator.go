// Package locator finds where a handler symbol is declared and extracts the
// declaration text.
//
// Declarations are recognised with a small set of regular expressions per
// dialect. The first file (in lexicographic order) containing a match decides
// the result; same-named symbols in later files are never considered.
package locator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"

	"github.com/specvital/routedoc/pkg/domain"
	"github.com/specvital/routedoc/pkg/parser/block"
	"github.com/specvital/routedoc/pkg/source"
)

var (
	// ErrNotFound is returned when no candidate file declares the symbol.
	ErrNotFound = errors.New("locator: declaration not found")
	// ErrBlockNotFound is returned when a declaration header was found but
	// none of its matches has a resolvable block end.
	ErrBlockNotFound = errors.New("locator: declaration block not found")
)

// DefaultSkipDirs are vendor and build directories never searched.
var DefaultSkipDirs = []string{"node_modules", "dist", "out", "lib"}

var testFilePattern = regexp.MustCompile(`\.(test|spec)\.[^.]+$`)

// Locator resolves handler symbols against the files of a workspace.
type Locator struct {
	src         source.Source
	logger      *slog.Logger
	skipDirs    []string
	exclude     []string
	extensions  map[domain.Dialect][]string
	maxFileSize int64
}

// Option configures a Locator.
type Option func(*Locator)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Locator) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithSkipDirs adds directory names to DefaultSkipDirs.
func WithSkipDirs(dirs []string) Option {
	return func(l *Locator) {
		l.skipDirs = append(l.skipDirs, dirs...)
	}
}

// WithExclude drops files matching any of the doublestar globs.
func WithExclude(patterns []string) Option {
	return func(l *Locator) {
		l.exclude = patterns
	}
}

// WithExtensions narrows the files searched for a dialect.
func WithExtensions(dialect domain.Dialect, exts []string) Option {
	return func(l *Locator) {
		if len(exts) > 0 {
			l.extensions[dialect] = exts
		}
	}
}

// WithMaxFileSize skips files larger than size bytes.
func WithMaxFileSize(size int64) Option {
	return func(l *Locator) {
		l.maxFileSize = size
	}
}

// New creates a Locator searching src.
func New(src source.Source, opts ...Option) *Locator {
	l := &Locator{
		src:      src,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		skipDirs: append([]string(nil), DefaultSkipDirs...),
		extensions: map[domain.Dialect][]string{
			domain.DialectBrace:  domain.DialectBrace.Extensions(),
			domain.DialectIndent: domain.DialectIndent.Extensions(),
		},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Locate finds the declaration of symbol in the files of the given dialect.
// The last dotted segment of symbol is the name searched for.
func (l *Locator) Locate(ctx context.Context, symbol string, dialect domain.Dialect) (*domain.DeclarationRecord, error) {
	moduleName, functionName := domain.SplitSymbol(symbol)
	if functionName == "" {
		return nil, fmt.Errorf("%w: empty symbol %q", ErrNotFound, symbol)
	}

	pattern := declarationPattern(dialect, functionName)
	if pattern == nil {
		return nil, fmt.Errorf("%w: unsupported dialect %q", ErrNotFound, dialect)
	}

	files, err := l.candidates(ctx, dialect)
	if err != nil {
		return nil, err
	}

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		content, err := source.ReadFile(ctx, l.src, file)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			l.logger.Warn("skipping unreadable file", "path", file, "error", err)
			continue
		}

		text := string(content)
		matches := pattern.FindAllStringIndex(text, -1)
		if len(matches) == 0 {
			continue
		}

		for _, m := range matches {
			start := m[0]
			end, ok := block.FindEnd(text, start, dialect)
			if !ok {
				l.logger.Debug("declaration block unresolved", "path", file, "symbol", symbol, "offset", start)
				continue
			}
			return &domain.DeclarationRecord{
				BodyText:     text[start:end],
				FunctionName: functionName,
				ModuleName:   moduleName,
				SourceFile:   file,
				StartOffset:  start,
				EndOffset:    end,
			}, nil
		}

		return nil, fmt.Errorf("%w: %s in %s", ErrBlockNotFound, symbol, file)
	}

	return nil, fmt.Errorf("%w: %s", ErrNotFound, symbol)
}

func (l *Locator) candidates(ctx context.Context, dialect domain.Dialect) ([]string, error) {
	return l.src.List(ctx, source.ListOptions{
		Extensions:  l.extensions[dialect],
		SkipDirs:    l.skipDirs,
		SkipFiles:   testFilePattern,
		Exclude:     l.exclude,
		MaxFileSize: l.maxFileSize,
	})
}

// returnType matches an optional TypeScript return annotation such as
// ": Promise<User[]>" between a parameter list and its body or arrow.
const returnType = `(?:[ \t]*:[ \t]*[^{=;\n]+?)?`

// declarationPattern returns the regexp recognising a declaration of name.
// Every alternative starts at the first character of the declaration.
func declarationPattern(dialect domain.Dialect, name string) *regexp.Regexp {
	n := regexp.QuoteMeta(name)

	switch dialect {
	case domain.DialectBrace:
		return regexp.MustCompile(
			`(?m)\bexport[ \t]+(?:default[ \t]+)?(?:async[ \t]+)?function\*?[ \t]+` + n + `[ \t]*\(` +
				`|\b(?:async[ \t]+)?function\*?[ \t]+` + n + `[ \t]*\(` +
				`|\b(?:const|let|var)[ \t]+` + n + `[ \t]*=` +
				`|\b` + n + `[ \t]*=[ \t]*(?:async[ \t]*)?(?:\([^)]*\)|\w+)` + returnType + `[ \t]*=>` +
				`|\b` + n + `[ \t]*:[ \t]*(?:async[ \t]*)?(?:function\b|\([^)]*\)` + returnType + `[ \t]*=>)` +
				`|^[ \t]*(?:[\w.<>\[\],?]+[ \t]+)*` + n + `[ \t]*\([^)]*\)` + returnType + `[ \t]*(?:throws[ \t]+[\w., \t]+)?\{`,
		)
	case domain.DialectIndent:
		return regexp.MustCompile(
			`(?m)^[ \t]*(?:async[ \t]+)?def[ \t]+` + n + `[ \t]*\(` +
				`|^[ \t]*class[ \t]+` + n + `\b[ \t]*[(:]`,
		)
	default:
		return nil
	}
}
