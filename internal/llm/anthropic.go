// ABOUTME: Anthropic Messages API gateway
// ABOUTME: Sends the rendered prompt as a single user message and joins text blocks
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const (
	// DefaultAnthropicModel is used when no model is configured
	DefaultAnthropicModel = "claude-3-5-haiku-latest"
	defaultMaxTokens      = 1024
)

// AnthropicGateway calls the Anthropic Messages API
type AnthropicGateway struct {
	client      anthropic.Client
	model       string
	temperature float64
	maxTokens   int64
}

// NewAnthropicGateway creates an Anthropic client
func NewAnthropicGateway(config ClientConfig) (*AnthropicGateway, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Anthropic API key is required")
	}
	opts := []option.RequestOption{option.WithAPIKey(config.APIKey)}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}

	model := config.Model
	if model == "" {
		model = DefaultAnthropicModel
	}
	maxTokens := int64(config.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	return &AnthropicGateway{
		client:      anthropic.NewClient(opts...),
		model:       model,
		temperature: config.Temperature,
		maxTokens:   maxTokens,
	}, nil
}

// Name returns the provider name
func (g *AnthropicGateway) Name() string {
	return "anthropic"
}

// Invoke renders the template and creates one message
func (g *AnthropicGateway) Invoke(ctx context.Context, template string, vars map[string]string) (string, error) {
	return invoke(ctx, g.Name(), g, template, vars)
}

func (g *AnthropicGateway) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(g.model),
		MaxTokens: g.maxTokens,
		Messages: []anthropic.MessageParam{{
			Role:    anthropic.MessageParamRoleUser,
			Content: []anthropic.ContentBlockParamUnion{anthropic.NewTextBlock(prompt)},
		}},
		Temperature: anthropic.Float(g.temperature),
	})
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	return b.String(), nil
}
