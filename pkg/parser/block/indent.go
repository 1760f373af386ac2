package block

import "strings"

// IndentMatcher finds the end of an indented suite. The baseline is the
// indentation of the line holding the declaration start; the suite runs until
// the first non-blank line indented at or below that baseline.
type IndentMatcher struct{}

func (IndentMatcher) End(text string, start int) (int, bool) {
	if start < 0 || start >= len(text) {
		return 0, false
	}

	lineStart := strings.LastIndexByte(text[:start], '\n') + 1
	baseline := indentWidth(text[lineStart:])

	colon := headerColon(text, start)
	if colon < 0 {
		return 0, false
	}

	headerEnd := lineEnd(text, colon)
	if rest := strings.TrimSpace(text[colon+1 : headerEnd]); rest != "" && !strings.HasPrefix(rest, "#") {
		// Single-line suite: "def f(): return 1".
		return headerEnd, true
	}

	bodyLines := 0
	lastEnd := headerEnd
	for pos := headerEnd + 1; pos < len(text); {
		end := lineEnd(text, pos)
		line := text[pos:end]

		if strings.TrimSpace(line) != "" {
			if indentWidth(line) <= baseline {
				if bodyLines == 0 {
					return 0, false
				}
				// Exclude the newline that precedes the terminating line.
				return pos - 1, true
			}
			bodyLines++
		}

		lastEnd = end
		pos = end + 1
	}

	if bodyLines == 0 {
		return 0, false
	}
	return lastEnd, true
}

// headerColon returns the offset of the colon ending a def/class header,
// skipping colons nested in (), [] or {} such as annotations and defaults.
// A header ends at the first unbracketed newline.
func headerColon(text string, start int) int {
	depth := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '\n':
			if depth == 0 {
				return -1
			}
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth > 0 {
				depth--
			}
		case ':':
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// lineEnd returns the offset of the newline ending the line containing pos,
// or len(text) for the last line.
func lineEnd(text string, pos int) int {
	if idx := strings.IndexByte(text[pos:], '\n'); idx >= 0 {
		return pos + idx
	}
	return len(text)
}

// indentWidth counts leading spaces and tabs.
func indentWidth(line string) int {
	for i := 0; i < len(line); i++ {
		if line[i] != ' ' && line[i] != '\t' {
			return i
		}
	}
	return len(line)
}
