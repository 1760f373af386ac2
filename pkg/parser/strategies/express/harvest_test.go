package express

import (
	"context"
	"testing"

	"github.com/specvital/routedoc/pkg/domain"
	"github.com/specvital/routedoc/pkg/parser/strategies"
)

func TestHarvest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    []domain.RouteDeclaration
	}{
		{
			name:    "app verb with bare handler",
			content: "app.get('/users', listUsers)\n",
			want: []domain.RouteDeclaration{
				{Method: "GET", Path: "/users", HandlerSymbol: "listUsers"},
			},
		},
		{
			name:    "middleware and controller method",
			content: "app.post(\"/users/:id\", auth, userController.update)\n",
			want: []domain.RouteDeclaration{
				{Method: "POST", Path: "/users/:id", HandlerSymbol: "userController.update", Middleware: []string{"auth"}},
			},
		},
		{
			name:    "router receiver and patch",
			content: "router.patch('/items/:id', items.patch);\nrouter.delete('/items/:id', items.remove);\n",
			want: []domain.RouteDeclaration{
				{Method: "PATCH", Path: "/items/:id", HandlerSymbol: "items.patch"},
				{Method: "DELETE", Path: "/items/:id", HandlerSymbol: "items.remove"},
			},
		},
		{
			name: "routes push",
			content: "Routes.push({\n  method: 'post',\n  route: '/login',\n  middleware: [limit, audit],\n" +
				"  controller: AuthController,\n  action: 'login'\n});\n",
			want: []domain.RouteDeclaration{
				{Method: "POST", Path: "/login", HandlerSymbol: "AuthController.login", Middleware: []string{"limit", "audit"}},
			},
		},
		{
			name:    "routes push without middleware",
			content: "Routes.push({ method: 'get', route: '/me', controller: UserController, action: 'me' })\n",
			want: []domain.RouteDeclaration{
				{Method: "GET", Path: "/me", HandlerSymbol: "UserController.me"},
			},
		},
		{
			name:    "line comments are dropped",
			content: "// app.get('/old', oldHandler)\napp.get('/new', newHandler)\n",
			want: []domain.RouteDeclaration{
				{Method: "GET", Path: "/new", HandlerSymbol: "newHandler"},
			},
		},
		{
			name:    "trailing comment after code",
			content: "start(); // app.get('/old', oldHandler)\n",
			want:    nil,
		},
		{
			name:    "url before route on the same line",
			content: "const base = 'http://localhost'; app.get('/a', a)\n",
			want: []domain.RouteDeclaration{
				{Method: "GET", Path: "/a", HandlerSymbol: "a"},
			},
		},
		{
			name:    "inline handlers are not harvested",
			content: "app.get('/ping', (req, res) => res.send('pong'))\n",
			want:    nil,
		},
		{
			name:    "empty file",
			content: "",
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// Given
			file := domain.SourceFile{Path: "src/routes.js", Content: []byte(tt.content)}

			// When
			got, err := NewStrategy().Harvest(context.Background(), []domain.SourceFile{file}, strategies.Env{})

			// Then
			if err != nil {
				t.Fatalf("Harvest() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("len(routes) = %d, want %d: %+v", len(got), len(tt.want), got)
			}
			for i, want := range tt.want {
				r := got[i]
				if r.Method != want.Method || r.Path != want.Path || r.HandlerSymbol != want.HandlerSymbol {
					t.Errorf("routes[%d] = %s %s -> %s, want %s %s -> %s",
						i, r.Method, r.Path, r.HandlerSymbol, want.Method, want.Path, want.HandlerSymbol)
				}
				if len(r.Middleware) != len(want.Middleware) {
					t.Errorf("routes[%d].Middleware = %v, want %v", i, r.Middleware, want.Middleware)
				} else {
					for j := range want.Middleware {
						if r.Middleware[j] != want.Middleware[j] {
							t.Errorf("routes[%d].Middleware = %v, want %v", i, r.Middleware, want.Middleware)
						}
					}
				}
				if r.SourceFile != "src/routes.js" {
					t.Errorf("routes[%d].SourceFile = %q", i, r.SourceFile)
				}
			}
		})
	}
}

func TestHarvest_OrderAcrossFiles(t *testing.T) {
	t.Parallel()

	// Given
	files := []domain.SourceFile{
		{Path: "a/routes.ts", Content: []byte("app.get('/b', b)\napp.get('/a', a)\n")},
		{Path: "b/routes.ts", Content: []byte("app.put('/c', c)\n")},
	}

	// When
	first, err := NewStrategy().Harvest(context.Background(), files, strategies.Env{})
	if err != nil {
		t.Fatalf("Harvest() error = %v", err)
	}
	second, _ := NewStrategy().Harvest(context.Background(), files, strategies.Env{})

	// Then
	want := []string{"b", "a", "c"}
	for i, name := range want {
		if first[i].HandlerSymbol != name {
			t.Errorf("routes[%d].HandlerSymbol = %q, want %q", i, first[i].HandlerSymbol, name)
		}
		if first[i].SourceOffset != second[i].SourceOffset || first[i].HandlerSymbol != second[i].HandlerSymbol {
			t.Errorf("harvest is not deterministic at %d", i)
		}
	}
	if first[1].SourceOffset <= first[0].SourceOffset {
		t.Errorf("offsets not in match order: %d, %d", first[0].SourceOffset, first[1].SourceOffset)
	}
}

func TestStrategy_Definition(t *testing.T) {
	s := NewStrategy()
	if s.Framework() != "express" {
		t.Errorf("Framework() = %q", s.Framework())
	}
	if s.Dialect() != domain.DialectBrace {
		t.Errorf("Dialect() = %q", s.Dialect())
	}
	if got := s.ManifestPatterns(); len(got) != 2 || got[0] != "**/routes.ts" || got[1] != "**/routes.js" {
		t.Errorf("ManifestPatterns() = %v", got)
	}
	if strategies.FindStrategy("express") == nil {
		t.Error("express strategy is not registered")
	}
}
