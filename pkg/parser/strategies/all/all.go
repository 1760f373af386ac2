// Package all imports all route harvesting strategies for side-effect registration.
// Usage: _ "github.com/specvital/routedoc/pkg/parser/strategies/all"
package all

import (
	_ "github.com/specvital/routedoc/pkg/parser/strategies/django"
	_ "github.com/specvital/routedoc/pkg/parser/strategies/express"
)
