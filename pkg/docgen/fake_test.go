package docgen

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// fakeGenerator echoes its inputs and fails for symbols listed in failFor.
type fakeGenerator struct {
	mu       sync.Mutex
	failFor  map[string]bool
	docCalls int
	cvtCalls int
}

func (f *fakeGenerator) GenerateDocumentation(_ context.Context, req DocRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docCalls++
	if f.failFor[req.Symbol] {
		return "", &ServiceError{Op: OpGenerateDocumentation, Err: errors.New("quota exceeded")}
	}
	return fmt.Sprintf("## %s\n\n`%s %s`\n", req.Symbol, req.Method, req.URL), nil
}

func (f *fakeGenerator) ConvertCode(_ context.Context, source, targetLanguage string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cvtCalls++
	if f.failFor[targetLanguage] {
		return "", &ServiceError{Op: OpConvertCode, Err: errors.New("unsupported")}
	}
	return fmt.Sprintf("// %s\n%s", targetLanguage, source), nil
}
