package docgen

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"
)

const (
	// DefaultOutputFile is the documentation file name at the workspace root.
	DefaultOutputFile = "documentation.md"
	// DefaultHeader opens a newly created documentation file.
	DefaultHeader = "# API Documentation\n\n"
)

// MarkdownWriter appends documentation sections to one file. A writer is
// meant to live for a single run: the header is written at most once, and
// only when the file did not exist before the run's first section.
type MarkdownWriter struct {
	path   string
	header string

	mu      sync.Mutex
	checked bool
}

// NewMarkdownWriter creates a writer for path using DefaultHeader.
func NewMarkdownWriter(path string) *MarkdownWriter {
	return &MarkdownWriter{path: path, header: DefaultHeader}
}

// WithHeader replaces the header written to new files. An empty header writes none.
func (w *MarkdownWriter) WithHeader(header string) *MarkdownWriter {
	w.header = header
	return w
}

func (w *MarkdownWriter) Path() string {
	return w.path
}

// Append writes section followed by a blank line.
func (w *MarkdownWriter) Append(section string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.checked {
		if err := w.ensureHeader(); err != nil {
			return err
		}
		w.checked = true
	}

	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", w.path, err)
	}

	_, writeErr := f.WriteString(strings.TrimSpace(section) + "\n\n")
	closeErr := f.Close()
	if writeErr != nil {
		return fmt.Errorf("append to %s: %w", w.path, writeErr)
	}
	if closeErr != nil {
		return fmt.Errorf("close %s: %w", w.path, closeErr)
	}
	return nil
}

func (w *MarkdownWriter) ensureHeader() error {
	_, err := os.Stat(w.path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", w.path, err)
	}
	if err := os.WriteFile(w.path, []byte(w.header), 0o644); err != nil {
		return fmt.Errorf("create %s: %w", w.path, err)
	}
	return nil
}
