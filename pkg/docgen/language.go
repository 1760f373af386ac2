package docgen

import (
	"path/filepath"
	"strings"
)

var targetExtensions = map[string]string{
	"javascript": "js",
	"python":     "py",
	"java":       "java",
	"typescript": "ts",
}

// TargetExtension maps a target language name to a file extension without
// the dot. Unknown languages use their lower-cased name.
func TargetExtension(language string) string {
	lower := strings.ToLower(strings.TrimSpace(language))
	if ext, ok := targetExtensions[lower]; ok {
		return ext
	}
	return lower
}

// OutputPath is the sibling of path carrying the target language extension.
func OutputPath(path, language string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + "." + TargetExtension(language)
}
