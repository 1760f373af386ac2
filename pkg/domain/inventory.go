package domain

import "github.com/cespare/xxhash/v2"

// Entry pairs a harvested route with its located declaration.
type Entry struct {
	Declaration DeclarationRecord `json:"declaration"`
	Route       RouteDeclaration  `json:"route"`
}

// Fingerprint identifies the entry by its route and declaration body.
// Two routes pointing at the same handler with the same method and path share it.
func (e Entry) Fingerprint() uint64 {
	d := xxhash.New()
	for _, field := range []string{e.Route.Method, e.Route.Path, e.Route.HandlerSymbol, e.Declaration.SourceFile, e.Declaration.BodyText} {
		_, _ = d.WriteString(field)
		_, _ = d.Write([]byte{0})
	}
	return d.Sum64()
}

// Inventory represents the routes documented for a workspace.
type Inventory struct {
	// Entries holds one element per successfully located declaration, in harvest order.
	Entries []Entry `json:"entries"`
	// Framework is the framework label detected for the workspace.
	Framework string `json:"framework"`
	// RootPath is the root directory path of the scanned workspace.
	RootPath string `json:"rootPath"`
}

// CountEntries returns the number of located route entries.
func (inv Inventory) CountEntries() int {
	return len(inv.Entries)
}

// Handlers returns the handler symbols in entry order.
func (inv Inventory) Handlers() []string {
	handlers := make([]string, 0, len(inv.Entries))
	for _, e := range inv.Entries {
		handlers = append(handlers, e.Route.HandlerSymbol)
	}
	return handlers
}
