// Package config loads routedoc settings from .routedoc.toml, .env and the
// environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/specvital/routedoc/pkg/docgen"
	"github.com/specvital/routedoc/pkg/parser"
)

// FileName is the project configuration file looked up at the workspace root.
const FileName = ".routedoc.toml"

// Environment variables read by Load.
const (
	EnvGeminiAPIKey = "GEMINI_API_KEY"
	EnvGoogleAPIKey = "GOOGLE_API_KEY"
	EnvModel        = "ROUTEDOC_MODEL"
	EnvOutput       = "ROUTEDOC_OUTPUT"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Scan   ScanConfig   `toml:"scan"`
	Output OutputConfig `toml:"output"`
	LLM    LLMConfig    `toml:"llm"`
}

type ScanConfig struct {
	// Exclude lists directory names skipped in addition to the defaults.
	Exclude     []string `toml:"exclude"`
	Workers     int      `toml:"workers"`
	Timeout     string   `toml:"timeout"`
	MaxFileSize int64    `toml:"max_file_size"`
	// Suggestions is the number of near-miss names reported for unresolved handlers.
	Suggestions int `toml:"suggestions"`
}

type OutputConfig struct {
	// Path of the Markdown file, relative to the workspace root unless absolute.
	Path string `toml:"path"`
}

type LLMConfig struct {
	Model       string  `toml:"model"`
	CacheSize   int     `toml:"cache_size"`
	Temperature float32 `toml:"temperature"`
	// APIKey only comes from the environment.
	APIKey string `toml:"-"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Scan: ScanConfig{
			Workers:     parser.DefaultWorkers,
			Timeout:     parser.DefaultTimeout.String(),
			MaxFileSize: parser.DefaultMaxFileSize,
			Suggestions: 3,
		},
		Output: OutputConfig{Path: docgen.DefaultOutputFile},
		LLM: LLMConfig{
			Model:       docgen.DefaultModel,
			CacheSize:   docgen.DefaultCacheSize,
			Temperature: 0.2,
		},
	}
}

// Load builds the configuration for the workspace at root. The .env file at
// root is loaded first without overriding the environment. An empty path
// reads root/.routedoc.toml when it exists; an explicit path must exist.
// Environment variables override file values.
func Load(root, path string) (*Config, error) {
	_ = godotenv.Load(filepath.Join(root, ".env"))

	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = filepath.Join(root, FileName)
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.LLM.APIKey = firstNonEmpty(
		strings.TrimSpace(os.Getenv(EnvGeminiAPIKey)),
		strings.TrimSpace(os.Getenv(EnvGoogleAPIKey)),
	)
	if model := strings.TrimSpace(os.Getenv(EnvModel)); model != "" {
		cfg.LLM.Model = model
	}
	if output := strings.TrimSpace(os.Getenv(EnvOutput)); output != "" {
		cfg.Output.Path = output
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Scan.Workers < 0 {
		return fmt.Errorf("%w: scan.workers must not be negative, got %d", ErrInvalidConfig, c.Scan.Workers)
	}
	if c.Scan.MaxFileSize < 0 {
		return fmt.Errorf("%w: scan.max_file_size must not be negative", ErrInvalidConfig)
	}
	if c.Scan.Suggestions < 0 {
		return fmt.Errorf("%w: scan.suggestions must not be negative", ErrInvalidConfig)
	}
	if c.Scan.Timeout != "" {
		d, err := time.ParseDuration(c.Scan.Timeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("%w: scan.timeout %q is not a positive duration", ErrInvalidConfig, c.Scan.Timeout)
		}
	}
	if c.LLM.CacheSize < 0 {
		return fmt.Errorf("%w: llm.cache_size must not be negative, got %d", ErrInvalidConfig, c.LLM.CacheSize)
	}
	if strings.TrimSpace(c.LLM.Model) == "" {
		return fmt.Errorf("%w: llm.model is empty", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.Output.Path) == "" {
		return fmt.Errorf("%w: output.path is empty", ErrInvalidConfig)
	}
	return nil
}

// Timeout returns the scan timeout, or zero for the scanner default.
func (c *Config) Timeout() time.Duration {
	d, err := time.ParseDuration(c.Scan.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// OutputPath resolves the documentation file against root.
func (c *Config) OutputPath(root string) string {
	if filepath.IsAbs(c.Output.Path) {
		return c.Output.Path
	}
	return filepath.Join(root, filepath.FromSlash(c.Output.Path))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
