// Package docgen turns located route declarations into Markdown documentation
// and translates source selections into other languages through a
// text-generation backend.
package docgen

import (
	"context"
	"errors"
	"fmt"
)

// Operations reported in ServiceError.Op.
const (
	OpGenerateDocumentation = "generate-documentation"
	OpConvertCode           = "convert-code"
)

// ErrEmptyResponse is wrapped when the backend answers without any text.
var ErrEmptyResponse = errors.New("docgen: empty response")

// DocRequest describes one endpoint to document.
type DocRequest struct {
	Symbol string
	Method string
	URL    string
	Body   string
}

// Generator is the text-generation capability consumed by the pipeline.
// Implementations wrap every failure in a *ServiceError.
type Generator interface {
	GenerateDocumentation(ctx context.Context, req DocRequest) (string, error)
	ConvertCode(ctx context.Context, source, targetLanguage string) (string, error)
}

// ServiceError is a failure of the text-generation backend.
type ServiceError struct {
	Op  string
	Err error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("docgen: %s failed: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// IsServiceError reports whether err carries a *ServiceError.
func IsServiceError(err error) bool {
	var svcErr *ServiceError
	return errors.As(err, &svcErr)
}
