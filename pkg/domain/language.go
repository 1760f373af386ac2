// Package domain defines the core types shared by the scanner, the harvesters and the locator.
package domain

// Dialect is the block-delimitation convention of a source language.
type Dialect string

const (
	// DialectUnknown is returned for files whose block structure is not modelled.
	DialectUnknown Dialect = ""
	// DialectBrace covers curly-brace languages where blocks are delimited by { and }.
	DialectBrace Dialect = "brace"
	// DialectIndent covers indentation languages (Python).
	DialectIndent Dialect = "indent"
)

var (
	braceExtensions  = []string{".js", ".ts", ".jsx", ".tsx", ".java"}
	indentExtensions = []string{".py"}
)

// Extensions returns the file extensions belonging to the dialect.
// The returned slice is a copy.
func (d Dialect) Extensions() []string {
	switch d {
	case DialectBrace:
		return append([]string(nil), braceExtensions...)
	case DialectIndent:
		return append([]string(nil), indentExtensions...)
	default:
		return nil
	}
}
