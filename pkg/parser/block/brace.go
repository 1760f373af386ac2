package block

// BraceMatcher finds the closing brace that balances the first opening brace
// at or after the declaration start.
type BraceMatcher struct{}

func (BraceMatcher) End(text string, start int) (int, bool) {
	if start < 0 || start >= len(text) {
		return 0, false
	}

	depth := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1, true
			}
			// A closing brace before any opening one belongs to an enclosing scope.
			if depth < 0 {
				return 0, false
			}
		}
	}

	return 0, false
}
