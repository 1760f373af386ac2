// Package framework holds the ordered signature table used to recognise a
// web framework from a single file.
//
// Signatures are deliberately loose keyword matches. A file mentioning
// "react" in a comment classifies as React; false positives are accepted in
// exchange for a table that needs no parser.
package framework

import (
	"regexp"
	"sort"
	"sync"
)

// Signal names the input a definition matched on.
type Signal string

const (
	SignalNone    Signal = ""
	SignalContent Signal = "content"
	SignalPath    Signal = "path"
)

// Definition is one row of the signature table.
type Definition struct {
	// Name is the framework label (see the Framework* constants).
	Name string
	// DisplayName is the human-readable name ("Express.js").
	DisplayName string
	// Priority orders evaluation; higher is checked first.
	Priority int
	// ContentPatterns are matched against file content. Any match selects the definition.
	ContentPatterns []*regexp.Regexp
	// PathPatterns are matched against the file path. Any match selects the definition.
	PathPatterns []*regexp.Regexp
}

// Matches reports whether the definition recognises the file and which
// signal matched. Content patterns are tried before path patterns.
func (d *Definition) Matches(content []byte, path string) (Signal, bool) {
	for _, re := range d.ContentPatterns {
		if re.Match(content) {
			return SignalContent, true
		}
	}
	for _, re := range d.PathPatterns {
		if re.MatchString(path) {
			return SignalPath, true
		}
	}
	return SignalNone, false
}

// Registry is a priority-ordered signature table.
type Registry struct {
	mu          sync.RWMutex
	definitions []*Definition
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the registry holding the built-in signature table.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
		for _, def := range builtinDefinitions() {
			defaultRegistry.Register(def)
		}
	})
	return defaultRegistry
}

// Register adds a definition. Definitions with equal priority keep their
// registration order.
func (r *Registry) Register(def *Definition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.definitions = append(r.definitions, def)
	sort.SliceStable(r.definitions, func(i, j int) bool {
		return r.definitions[i].Priority > r.definitions[j].Priority
	})
}

// All returns a copy of the definitions in evaluation order.
func (r *Registry) All() []*Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*Definition, len(r.definitions))
	copy(result, r.definitions)
	return result
}

// Find returns the definition with the given label, or nil.
func (r *Registry) Find(name string) *Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, def := range r.definitions {
		if def.Name == name {
			return def
		}
	}
	return nil
}

// Match returns the label of the first definition that recognises the file,
// or FrameworkUnknown.
func (r *Registry) Match(content []byte, path string) string {
	name, _ := r.MatchSignal(content, path)
	return name
}

// MatchSignal is Match that also reports which signal selected the label.
func (r *Registry) MatchSignal(content []byte, path string) (string, Signal) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, def := range r.definitions {
		if signal, ok := def.Matches(content, path); ok {
			return def.Name, signal
		}
	}
	return FrameworkUnknown, SignalNone
}

// DisplayName returns the human-readable name for a label. Unregistered
// labels are returned unchanged.
func (r *Registry) DisplayName(name string) string {
	if def := r.Find(name); def != nil {
		return def.DisplayName
	}
	return name
}

// Clear removes all definitions.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.definitions = nil
}

// Match classifies a single file against the default registry.
func Match(content []byte, path string) string {
	return DefaultRegistry().Match(content, path)
}

// DisplayName returns the human-readable name of a label from the default registry.
func DisplayName(name string) string {
	return DefaultRegistry().DisplayName(name)
}

func builtinDefinitions() []*Definition {
	word := func(w string) *regexp.Regexp {
		return regexp.MustCompile(`(?i)\b` + w + `\b`)
	}

	return []*Definition{
		{
			Name:        FrameworkExpress,
			DisplayName: "Express.js",
			Priority:    PriorityExpress,
			ContentPatterns: []*regexp.Regexp{
				regexp.MustCompile(`\bapp\s*=\s*express\s*\(\s*\)`),
				regexp.MustCompile(`(?i)\bexpress\b.*(?:\bapp\.listen\b|\bcreateServer\b)`),
				regexp.MustCompile(`(?i)\b\.route\b`),
			},
		},
		{
			Name:        FrameworkDjango,
			DisplayName: "Django",
			Priority:    PriorityDjango,
			ContentPatterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)\bdjango\b.*(?:\burlpatterns\b.*\bdjango\.urls\b|\bpath\s*\(.*\))`),
				regexp.MustCompile(`\burlpatterns\s*=`),
			},
		},
		{
			Name:        FrameworkSpringBoot,
			DisplayName: "Spring Boot",
			Priority:    PrioritySpringBoot,
			ContentPatterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)\bspring-boot\b.*@SpringBootApplication\b`),
				regexp.MustCompile(`@SpringBootApplication\b`),
			},
		},
		{
			Name:         FrameworkRails,
			DisplayName:  "Ruby on Rails",
			Priority:     PriorityRails,
			PathPatterns: []*regexp.Regexp{word("rails")},
		},
		{Name: FrameworkLaravel, DisplayName: "Laravel", Priority: PriorityLaravel, ContentPatterns: []*regexp.Regexp{word("laravel")}},
		{Name: FrameworkNestJS, DisplayName: "Nest.js", Priority: PriorityNestJS, ContentPatterns: []*regexp.Regexp{word("nestjs")}},
		{Name: FrameworkFlask, DisplayName: "Flask", Priority: PriorityFlask, ContentPatterns: []*regexp.Regexp{word("flask")}},
		{Name: FrameworkSinatra, DisplayName: "Sinatra", Priority: PrioritySinatra, ContentPatterns: []*regexp.Regexp{word("sinatra")}},
		{Name: FrameworkVue, DisplayName: "Vue.js", Priority: PriorityVue, ContentPatterns: []*regexp.Regexp{word("vue")}},
		{Name: FrameworkAngular, DisplayName: "Angular", Priority: PriorityAngular, ContentPatterns: []*regexp.Regexp{word("angular")}},
		{Name: FrameworkReact, DisplayName: "React", Priority: PriorityReact, ContentPatterns: []*regexp.Regexp{word("react")}},
		{Name: FrameworkNodeKoa, DisplayName: "Node.js/Koa", Priority: PriorityNodeKoa, ContentPatterns: []*regexp.Regexp{word("node"), word("koa")}},
		{Name: FrameworkSymfony, DisplayName: "Symfony", Priority: PrioritySymfony, ContentPatterns: []*regexp.Regexp{word("symfony")}},
		{Name: FrameworkPhoenix, DisplayName: "Phoenix", Priority: PriorityPhoenix, ContentPatterns: []*regexp.Regexp{word("phoenix")}},
	}
}
