package django

import (
	"context"
	"path"
	"regexp"
	"strings"

	"github.com/specvital/routedoc/pkg/domain"
	"github.com/specvital/routedoc/pkg/parser/strategies"
)

// adminPath is the administrative prefix whose entries are never documented.
const adminPath = "admin/"

// viewPattern matches a URL entry or an APIView class declaration.
//
//	path('login/', views.login, name='login')
//	re_path(r'^users/(?P<pk>\d+)/$', views.UserDetail.as_view())
//	class LoginView(APIView):
//
// Groups: 1 route path, 2 handler, 3 route name, 4 class view.
var viewPattern = regexp.MustCompile(
	`\b(?:path|re_path|url)\s*\(\s*r?['"]([^'"]*)['"]\s*,\s*(\w+(?:\.\w+)*)(?:\(\s*\))?\s*(?:,\s*name\s*=\s*['"]([\w.-]+)['"])?` +
		`|\bclass\s+(\w+)\s*\([^:)]*APIView\s*\)`,
)

var (
	virtualEnvDirs    = map[string]bool{"venv": true, ".venv": true, "env": true}
	virtualEnvExempts = map[string]bool{"bin": true, "lib": true}
)

// Harvest returns the view declarations of the given urls.py files in match order.
func (s *Strategy) Harvest(ctx context.Context, files []domain.SourceFile, env strategies.Env) ([]domain.RouteDeclaration, error) {
	var routes []domain.RouteDeclaration

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return routes, err
		}
		if env.ProjectVerified && inVirtualEnv(file.Path) {
			continue
		}
		routes = append(routes, harvestFile(file)...)
	}

	return routes, nil
}

func harvestFile(file domain.SourceFile) []domain.RouteDeclaration {
	text := string(file.Content)
	var routes []domain.RouteDeclaration

	for _, m := range viewPattern.FindAllStringSubmatchIndex(text, -1) {
		offset := m[0]
		if commentedOut(text, offset) {
			continue
		}

		var route domain.RouteDeclaration
		if m[8] >= 0 {
			route = domain.RouteDeclaration{
				HandlerSymbol: text[m[8]:m[9]],
			}
		} else {
			route = domain.RouteDeclaration{
				Path:          text[m[2]:m[3]],
				HandlerSymbol: strings.TrimSuffix(text[m[4]:m[5]], ".as_view"),
			}
			if m[6] >= 0 {
				route.Name = text[m[6]:m[7]]
			}
		}

		if excluded(route) {
			continue
		}

		route.SourceFile = file.Path
		route.SourceOffset = offset
		routes = append(routes, route)
	}

	return routes
}

// excluded drops include() composition and the admin site.
func excluded(route domain.RouteDeclaration) bool {
	return route.HandlerSymbol == "" ||
		strings.Contains(route.HandlerSymbol, "include") ||
		route.Path == adminPath
}

// commentedOut reports whether offset follows a '#' on the same line. The
// '#' must start the line or follow whitespace; quotes are not tracked.
func commentedOut(text string, offset int) bool {
	lineStart := strings.LastIndexByte(text[:offset], '\n') + 1
	for i := offset - 1; i >= lineStart; i-- {
		if text[i] != '#' {
			continue
		}
		if i == lineStart || text[i-1] == ' ' || text[i-1] == '\t' {
			return true
		}
	}
	return false
}

// inVirtualEnv reports whether path runs through a virtualenv directory
// (venv, .venv, env) without also running through bin or lib.
func inVirtualEnv(p string) bool {
	segments := strings.Split(strings.ToLower(path.Clean(p)), "/")
	if len(segments) > 0 {
		segments = segments[:len(segments)-1]
	}

	inEnv := false
	for _, seg := range segments {
		if virtualEnvExempts[seg] {
			return false
		}
		if virtualEnvDirs[seg] {
			inEnv = true
		}
	}
	return inEnv
}
