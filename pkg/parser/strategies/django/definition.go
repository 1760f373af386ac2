// Package django harvests view declarations from Django URL configuration files.
package django

import (
	"github.com/specvital/routedoc/pkg/domain"
	"github.com/specvital/routedoc/pkg/parser/framework"
	"github.com/specvital/routedoc/pkg/parser/strategies"
)

const strategyName = "django"

// ManifestPattern locates URL configuration modules at any depth.
const ManifestPattern = "**/urls.py"

func init() {
	strategies.Register(NewStrategy())
}

// Strategy harvests path(), re_path() and url() entries and APIView classes.
type Strategy struct{}

func NewStrategy() *Strategy {
	return &Strategy{}
}

func (s *Strategy) Name() string { return strategyName }

func (s *Strategy) Priority() int { return strategies.DefaultPriority }

func (s *Strategy) Framework() string { return framework.FrameworkDjango }

func (s *Strategy) ManifestPatterns() []string { return []string{ManifestPattern} }

func (s *Strategy) Dialect() domain.Dialect { return domain.DialectIndent }

func (s *Strategy) SourceExtensions() []string { return []string{".py"} }
