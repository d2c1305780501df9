package haven

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// TextGenerator is the narrow abstraction over the generative text service:
// prompt in, text out. Callers bound each call with a context deadline.
// Implementations must be safe for concurrent use.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeminiGenerator implements TextGenerator using Google's Gemini API.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator creates a Gemini-backed generator.
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, ErrGeneratorUnavailable
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &GeminiGenerator{client: client, model: model}, nil
}

// Generate sends the prompt and returns the model's text. Empty model output
// is an error so the caller's fallback path can take over.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", &GenerateError{Model: g.model, Err: err}
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", &GenerateError{Model: g.model, Err: fmt.Errorf("empty response")}
	}

	return text, nil
}

// Model returns the configured model name.
func (g *GeminiGenerator) Model() string { return g.model }

// StaticGenerator is a deterministic TextGenerator for tests and offline
// use. When Err is set every call fails with it; otherwise Text is returned
// verbatim.
type StaticGenerator struct {
	Text string
	Err  error
}

// Generate returns the canned text or error, honoring context cancellation.
func (g *StaticGenerator) Generate(ctx context.Context, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if g.Err != nil {
		return "", g.Err
	}
	return g.Text, nil
}
