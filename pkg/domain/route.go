package domain

import (
	"strings"
)

// SourceFile is a file read once for the duration of a scan.
type SourceFile struct {
	// Path is relative to the workspace root, slash separated.
	Path string
	// Content is the raw file content.
	Content []byte
}

// RouteDeclaration is a route/view entry harvested from a manifest file.
type RouteDeclaration struct {
	// HandlerSymbol is the function or class the route points to, possibly dotted
	// ("views.login", "userController.create"). Never empty, never "include".
	HandlerSymbol string `json:"handler"`
	// Method is the upper-cased HTTP verb, empty when the framework does not declare one.
	Method string `json:"method,omitempty"`
	// Path is the URL pattern as written in the manifest.
	Path string `json:"path"`
	// Name is the route name when the manifest assigns one (Django name=...).
	Name string `json:"name,omitempty"`
	// Middleware lists the middleware references declared before the handler.
	Middleware []string `json:"middleware,omitempty"`
	// SourceFile is the manifest the declaration was harvested from.
	SourceFile string `json:"sourceFile"`
	// SourceOffset is the byte offset of the match within SourceFile.
	SourceOffset int `json:"sourceOffset"`
}

// DeclarationRecord is the located declaration of a handler symbol.
type DeclarationRecord struct {
	// BodyText is the verbatim source slice from the declaration start to its block end.
	BodyText string `json:"body"`
	// FunctionName is the final segment of the handler symbol.
	FunctionName string `json:"functionName"`
	// ModuleName is the dotted handler symbol without its final segment. May be empty.
	ModuleName string `json:"moduleName,omitempty"`
	// SourceFile is the file the declaration was found in.
	SourceFile string `json:"sourceFile"`
	// StartOffset and EndOffset delimit BodyText within SourceFile (end exclusive).
	StartOffset int `json:"startOffset"`
	EndOffset   int `json:"endOffset"`
}

// SplitSymbol splits a dotted handler symbol into its module and function parts.
// "views.auth.login" yields ("views.auth", "login"); "login" yields ("", "login").
func SplitSymbol(symbol string) (moduleName, functionName string) {
	idx := strings.LastIndex(symbol, ".")
	if idx < 0 {
		return "", symbol
	}
	return symbol[:idx], symbol[idx+1:]
}
