package locator

import (
	"context"
	"regexp"
	"sort"

	"github.com/hbollon/go-edlib"

	"github.com/specvital/routedoc/pkg/domain"
	"github.com/specvital/routedoc/pkg/source"
)

// minSuggestionSimilarity is the Levenshtein similarity below which a
// declared name is not offered as a suggestion.
const minSuggestionSimilarity = 0.5

var declaredNamePatterns = map[domain.Dialect]*regexp.Regexp{
	domain.DialectBrace: regexp.MustCompile(
		`\bfunction\*?[ \t]+(\w+)[ \t]*\(|\b(?:const|let|var)[ \t]+(\w+)[ \t]*=`,
	),
	domain.DialectIndent: regexp.MustCompile(
		`(?m)^[ \t]*(?:async[ \t]+)?def[ \t]+(\w+)|^[ \t]*class[ \t]+(\w+)`,
	),
}

type suggestion struct {
	name  string
	score float32
}

// Suggest returns up to n names declared in the dialect's files that are
// closest to the final segment of symbol. It is used to explain a failed
// Locate and never affects which declaration Locate returns.
func (l *Locator) Suggest(ctx context.Context, symbol string, dialect domain.Dialect, n int) ([]string, error) {
	pattern, ok := declaredNamePatterns[dialect]
	if !ok || n <= 0 {
		return nil, nil
	}
	_, name := domain.SplitSymbol(symbol)

	files, err := l.candidates(ctx, dialect)
	if err != nil {
		return nil, err
	}

	declared := make(map[string]struct{})
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		content, err := source.ReadFile(ctx, l.src, file)
		if err != nil {
			continue
		}
		for _, m := range pattern.FindAllSubmatch(content, -1) {
			for _, group := range m[1:] {
				if len(group) > 0 {
					declared[string(group)] = struct{}{}
				}
			}
		}
	}

	var candidates []suggestion
	for cand := range declared {
		if cand == name {
			continue
		}
		score, err := edlib.StringsSimilarity(name, cand, edlib.Levenshtein)
		if err != nil || score < minSuggestionSimilarity {
			continue
		}
		candidates = append(candidates, suggestion{name: cand, score: score})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].name < candidates[j].name
	})

	if len(candidates) > n {
		candidates = candidates[:n]
	}
	result := make([]string, 0, len(candidates))
	for _, c := range candidates {
		result = append(result, c.name)
	}
	return result, nil
}
