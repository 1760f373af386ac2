package docgen

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/specvital/routedoc/pkg/source"
)

// ConvertRequest selects source lines to translate.
type ConvertRequest struct {
	// Path is relative to the workspace root.
	Path string
	// StartLine and EndLine are 1-based and inclusive; 0/0 selects the whole file.
	StartLine, EndLine int
	TargetLanguage     string
	// OutPath overrides the default sibling output file. Relative paths
	// resolve against the workspace root.
	OutPath string
}

// Convert translates the selected text and writes it next to the source file
// with the target language extension. It returns the absolute output path.
func Convert(ctx context.Context, gen Generator, src source.Source, req ConvertRequest) (string, error) {
	if req.TargetLanguage == "" {
		return "", fmt.Errorf("convert %s: no target language", req.Path)
	}

	selection, err := source.ReadSelection(ctx, src, req.Path, req.StartLine, req.EndLine)
	if err != nil {
		return "", err
	}

	converted, err := gen.ConvertCode(ctx, selection, req.TargetLanguage)
	if err != nil {
		return "", err
	}

	out := req.OutPath
	if out == "" {
		out = OutputPath(req.Path, req.TargetLanguage)
	}
	if !filepath.IsAbs(out) {
		out = filepath.Join(src.Root(), filepath.FromSlash(out))
	}

	if err := os.WriteFile(out, []byte(converted+"\n"), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", out, err)
	}
	return out, nil
}
