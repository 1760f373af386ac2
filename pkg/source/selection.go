package source

import (
	"context"
	"fmt"
	"strings"
)

// ReadSelection returns lines startLine..endLine (1-based, inclusive) of a
// workspace file. A zero startLine and endLine select the whole file; a zero
// endLine selects through the end of the file.
func ReadSelection(ctx context.Context, src Source, path string, startLine, endLine int) (string, error) {
	content, err := ReadFile(ctx, src, path)
	if err != nil {
		return "", err
	}

	text := string(content)
	if startLine == 0 && endLine == 0 {
		return text, nil
	}

	lines := strings.SplitAfter(text, "\n")
	if startLine < 1 || startLine > len(lines) {
		return "", fmt.Errorf("selection start %d out of range (1-%d)", startLine, len(lines))
	}
	if endLine == 0 || endLine > len(lines) {
		endLine = len(lines)
	}
	if endLine < startLine {
		return "", fmt.Errorf("selection end %d before start %d", endLine, startLine)
	}

	return strings.Join(lines[startLine-1:endLine], ""), nil
}

// ParseLineRange parses "a:b", "a:" or "a" into a line range.
func ParseLineRange(spec string) (start, end int, err error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return 0, 0, nil
	}

	first, second, found := strings.Cut(spec, ":")
	if _, err := fmt.Sscanf(first, "%d", &start); err != nil || start < 1 {
		return 0, 0, fmt.Errorf("invalid line range %q", spec)
	}
	if !found {
		return start, start, nil
	}
	if second == "" {
		return start, 0, nil
	}
	if _, err := fmt.Sscanf(second, "%d", &end); err != nil || end < start {
		return 0, 0, fmt.Errorf("invalid line range %q", spec)
	}
	return start, end, nil
}
