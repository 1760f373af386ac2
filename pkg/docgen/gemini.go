package docgen

import (
	"context"
	"errors"
	"strings"

	genai "google.golang.org/genai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// GeminiConfig configures the Gemini backend.
type GeminiConfig struct {
	APIKey      string
	Model       string
	Temperature float32
}

// GeminiGenerator is a thin wrapper around the official genai client.
type GeminiGenerator struct {
	cli         *genai.Client
	model       string
	temperature float32
}

// NewGeminiGenerator creates a Gemini-backed generator.
func NewGeminiGenerator(ctx context.Context, cfg GeminiConfig) (*GeminiGenerator, error) {
	if cfg.APIKey == "" {
		return nil, &ServiceError{Op: "connect", Err: errors.New("no API key")}
	}
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, &ServiceError{Op: "connect", Err: err}
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &GeminiGenerator{cli: cli, model: model, temperature: cfg.Temperature}, nil
}

func (g *GeminiGenerator) Name() string { return "Gemini:" + g.model }

func (g *GeminiGenerator) GenerateDocumentation(ctx context.Context, req DocRequest) (string, error) {
	prompt, err := DocumentationPrompt(req)
	if err != nil {
		return "", &ServiceError{Op: OpGenerateDocumentation, Err: err}
	}
	text, err := g.generate(ctx, prompt, nil)
	if err != nil {
		return "", &ServiceError{Op: OpGenerateDocumentation, Err: err}
	}
	return text, nil
}

func (g *GeminiGenerator) ConvertCode(ctx context.Context, source, targetLanguage string) (string, error) {
	prompt, err := ConversionPrompt(source, targetLanguage)
	if err != nil {
		return "", &ServiceError{Op: OpConvertCode, Err: err}
	}
	system := &genai.Content{Parts: []*genai.Part{{Text: conversionSystemPrompt}}}
	text, err := g.generate(ctx, prompt, system)
	if err != nil {
		return "", &ServiceError{Op: OpConvertCode, Err: err}
	}
	return StripCodeFence(text), nil
}

func (g *GeminiGenerator) generate(ctx context.Context, prompt string, system *genai.Content) (string, error) {
	temperature := g.temperature
	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		&genai.GenerateContentConfig{
			Temperature:       &temperature,
			SystemInstruction: system,
		},
	)
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
