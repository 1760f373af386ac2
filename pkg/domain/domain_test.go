package domain

import "testing"

func TestSplitSymbol(t *testing.T) {
	tests := []struct {
		symbol     string
		wantModule string
		wantFunc   string
	}{
		{"login", "", "login"},
		{"views.login", "views", "login"},
		{"api.views.UserList", "api.views", "UserList"},
		{"userController.create", "userController", "create"},
	}

	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			module, fn := SplitSymbol(tt.symbol)
			if module != tt.wantModule || fn != tt.wantFunc {
				t.Errorf("SplitSymbol(%q) = (%q, %q), want (%q, %q)", tt.symbol, module, fn, tt.wantModule, tt.wantFunc)
			}
		})
	}
}

func TestDialect_Extensions(t *testing.T) {
	exts := DialectBrace.Extensions()
	exts[0] = ".mutated"

	if DialectBrace.Extensions()[0] != ".js" {
		t.Error("Extensions() must return a copy")
	}
	if len(DialectIndent.Extensions()) != 1 {
		t.Errorf("expected one indent extension, got %v", DialectIndent.Extensions())
	}
	if DialectUnknown.Extensions() != nil {
		t.Error("unknown dialect should have no extensions")
	}
}

func TestInventory_Handlers(t *testing.T) {
	inv := Inventory{
		Entries: []Entry{
			{Route: RouteDeclaration{HandlerSymbol: "views.login"}},
			{Route: RouteDeclaration{HandlerSymbol: "views.logout"}},
		},
	}

	if got := inv.CountEntries(); got != 2 {
		t.Errorf("CountEntries() = %d, want 2", got)
	}
	handlers := inv.Handlers()
	if len(handlers) != 2 || handlers[0] != "views.login" || handlers[1] != "views.logout" {
		t.Errorf("Handlers() = %v", handlers)
	}
}

func TestEntry_Fingerprint(t *testing.T) {
	base := Entry{
		Route:       RouteDeclaration{Method: "GET", Path: "/users", HandlerSymbol: "users.list", SourceFile: "routes.js"},
		Declaration: DeclarationRecord{SourceFile: "users.js", BodyText: "function list() {}"},
	}

	moved := base
	moved.Route.SourceFile = "api/routes.js"
	moved.Route.SourceOffset = 42
	if base.Fingerprint() != moved.Fingerprint() {
		t.Error("manifest location must not affect the fingerprint")
	}

	other := base
	other.Route.Method = "POST"
	if base.Fingerprint() == other.Fingerprint() {
		t.Error("different methods must yield different fingerprints")
	}

	// Field boundaries are part of the hash.
	a := Entry{Route: RouteDeclaration{Method: "GE", Path: "T/x"}}
	b := Entry{Route: RouteDeclaration{Method: "GET", Path: "/x"}}
	if a.Fingerprint() == b.Fingerprint() {
		t.Error("fields must be separated")
	}
}
