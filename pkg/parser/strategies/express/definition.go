// Package express harvests route registrations from Express routes files.
package express

import (
	"github.com/specvital/routedoc/pkg/domain"
	"github.com/specvital/routedoc/pkg/parser/framework"
	"github.com/specvital/routedoc/pkg/parser/strategies"
)

const strategyName = "express"

func init() {
	strategies.Register(NewStrategy())
}

// Strategy harvests app.<verb>() calls and Routes.push() object literals.
type Strategy struct{}

func NewStrategy() *Strategy {
	return &Strategy{}
}

func (s *Strategy) Name() string { return strategyName }

func (s *Strategy) Priority() int { return strategies.DefaultPriority }

func (s *Strategy) Framework() string { return framework.FrameworkExpress }

func (s *Strategy) ManifestPatterns() []string {
	return []string{"**/routes.ts", "**/routes.js"}
}

func (s *Strategy) Dialect() domain.Dialect { return domain.DialectBrace }

// SourceExtensions restricts handler lookup to TypeScript and JavaScript sources.
func (s *Strategy) SourceExtensions() []string { return []string{".ts", ".js"} }
