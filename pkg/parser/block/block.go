// Package block finds where a declaration's body ends using lexical block matching.
//
// Two strategies exist, one per dialect: brace-depth counting for curly-brace
// languages and indentation tracking for Python. Neither strategy tokenizes the
// source. Braces inside string or comment literals are counted, and
// triple-quoted strings or comment-only dedents end an indented block early.
package block

import (
	"github.com/specvital/routedoc/pkg/domain"
)

// Matcher computes the end of the syntactic block starting at a declaration.
type Matcher interface {
	// End returns the exclusive end offset such that text[start:end] is the
	// whole declaration. ok is false when no block boundary could be found.
	End(text string, start int) (end int, ok bool)
}

// For returns the matcher for the given dialect, or nil for an unknown dialect.
func For(dialect domain.Dialect) Matcher {
	switch dialect {
	case domain.DialectBrace:
		return BraceMatcher{}
	case domain.DialectIndent:
		return IndentMatcher{}
	default:
		return nil
	}
}

// FindEnd returns the exclusive end offset of the block that starts at start.
func FindEnd(text string, start int, dialect domain.Dialect) (int, bool) {
	m := For(dialect)
	if m == nil {
		return 0, false
	}
	return m.End(text, start)
}
