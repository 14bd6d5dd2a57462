// ABOUTME: Gemini gateway using the Google GenAI SDK
// ABOUTME: Concatenates the text parts of the first candidate
package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// DefaultGeminiModel is used when no model is configured
const DefaultGeminiModel = "gemini-2.0-flash"

// GeminiGateway calls the Gemini API
type GeminiGateway struct {
	client      *genai.Client
	model       string
	temperature float32
	maxTokens   int32
}

// NewGeminiGateway creates a Gemini client for the Gemini API backend
func NewGeminiGateway(ctx context.Context, config ClientConfig) (*GeminiGateway, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := config.Model
	if model == "" {
		model = DefaultGeminiModel
	}

	return &GeminiGateway{
		client:      client,
		model:       model,
		temperature: float32(config.Temperature),
		maxTokens:   int32(config.MaxTokens),
	}, nil
}

// Name returns the provider name
func (g *GeminiGateway) Name() string {
	return "gemini"
}

// Invoke renders the template and generates content
func (g *GeminiGateway) Invoke(ctx context.Context, template string, vars map[string]string) (string, error) {
	return invoke(ctx, g.Name(), g, template, vars)
}

func (g *GeminiGateway) complete(ctx context.Context, prompt string) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(g.temperature),
	}
	if g.maxTokens > 0 {
		config.MaxOutputTokens = g.maxTokens
	}

	contents := []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{genai.NewPartFromText(prompt)},
	}}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			b.WriteString(part.Text)
		}
	}
	return b.String(), nil
}
