package express

import (
	"context"
	"regexp"
	"strings"

	"github.com/specvital/routedoc/pkg/domain"
	"github.com/specvital/routedoc/pkg/parser/strategies"
)

// routePattern matches the two registration forms:
//
//	app.get('/users/:id', auth, userController.show)
//	Routes.push({ method: 'post', route: '/login', middleware: [limit], controller: AuthController, action: 'login' })
//
// Groups: 1 verb, 2 path, 3 middleware, 4 handler;
// 5 verb, 6 path, 7 middleware list, 8 controller, 9 action.
var routePattern = regexp.MustCompile(
	`\b(?:app|router)\.(get|post|put|delete|patch)\s*\(\s*['"]([\w/:.-]*)['"](?:\s*,\s*(\w+))?\s*,\s*(\w+(?:\.\w+)?)\s*\)` +
		`|\bRoutes\.push\(\s*\{\s*method:\s*['"]([a-zA-Z]+)['"]\s*,\s*route:\s*['"]([\w/:.-]*)['"]\s*,\s*(?:middleware:\s*(\[[^\]]*\])?\s*,\s*)?controller:\s*(\w+)\s*,\s*action:\s*['"](\w+)['"]\s*,?\s*\}\s*\)`,
)

// Harvest returns the route registrations of the given routes files in match order.
func (s *Strategy) Harvest(ctx context.Context, files []domain.SourceFile, _ strategies.Env) ([]domain.RouteDeclaration, error) {
	var routes []domain.RouteDeclaration

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return routes, err
		}
		routes = append(routes, harvestFile(file)...)
	}

	return routes, nil
}

func harvestFile(file domain.SourceFile) []domain.RouteDeclaration {
	text := string(file.Content)
	var routes []domain.RouteDeclaration

	for _, m := range routePattern.FindAllStringSubmatchIndex(text, -1) {
		offset := m[0]
		if commentedOut(text, offset) {
			continue
		}

		var route domain.RouteDeclaration
		if m[2] >= 0 {
			route = domain.RouteDeclaration{
				Method:        strings.ToUpper(text[m[2]:m[3]]),
				Path:          text[m[4]:m[5]],
				HandlerSymbol: text[m[8]:m[9]],
			}
			if m[6] >= 0 {
				route.Middleware = []string{text[m[6]:m[7]]}
			}
		} else {
			route = domain.RouteDeclaration{
				Method:        strings.ToUpper(text[m[10]:m[11]]),
				Path:          text[m[12]:m[13]],
				HandlerSymbol: text[m[16]:m[17]] + "." + text[m[18]:m[19]],
			}
			if m[14] >= 0 {
				route.Middleware = splitList(text[m[14]:m[15]])
			}
		}

		route.SourceFile = file.Path
		route.SourceOffset = offset
		routes = append(routes, route)
	}

	return routes
}

// commentedOut reports whether a "//" precedes offset on the same line. The
// "//" must start the line or follow whitespace, so URLs like 'http://host'
// do not count.
func commentedOut(text string, offset int) bool {
	lineStart := strings.LastIndexByte(text[:offset], '\n') + 1
	for i := offset - 2; i >= lineStart; i-- {
		if text[i] != '/' || text[i+1] != '/' {
			continue
		}
		if i == lineStart || text[i-1] == ' ' || text[i-1] == '\t' {
			return true
		}
	}
	return false
}

// splitList turns "[auth, limit]" into its trimmed elements.
func splitList(list string) []string {
	inner := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(list, "["), "]"))
	if inner == "" {
		return nil
	}
	var items []string
	for _, item := range strings.Split(inner, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
