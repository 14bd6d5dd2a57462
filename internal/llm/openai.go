// ABOUTME: OpenAI chat-completion gateway, also used for OpenAI-compatible hosts
// ABOUTME: OpenRouter is reached by pointing the base URL at its endpoint
package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultChatModel is the default model for chat completions
	DefaultChatModel = "gpt-4o-mini"
	// OpenRouterBaseURL is the OpenAI-compatible endpoint for OpenRouter
	OpenRouterBaseURL = "https://openrouter.ai/api/v1"
)

// ClientConfig holds configuration shared by all provider gateways
type ClientConfig struct {
	APIKey      string
	Model       string
	Temperature float64
	BaseURL     string
	MaxTokens   int
}

// OpenAIGateway wraps the OpenAI API client
type OpenAIGateway struct {
	client      *openai.Client
	name        string
	model       string
	temperature float32
	maxTokens   int
}

// NewOpenAIGateway creates a gateway for OpenAI or any compatible base URL
func NewOpenAIGateway(config ClientConfig) (*OpenAIGateway, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	model := config.Model
	if model == "" {
		model = DefaultChatModel
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	name := "openai"
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
		if config.BaseURL == OpenRouterBaseURL {
			name = "openrouter"
		}
	}

	return &OpenAIGateway{
		client:      openai.NewClientWithConfig(clientConfig),
		name:        name,
		model:       model,
		temperature: float32(config.Temperature),
		maxTokens:   config.MaxTokens,
	}, nil
}

// Name returns the provider name
func (g *OpenAIGateway) Name() string {
	return g.name
}

// Invoke renders the template and runs one chat completion
func (g *OpenAIGateway) Invoke(ctx context.Context, template string, vars map[string]string) (string, error) {
	return invoke(ctx, g.name, g, template, vars)
}

func (g *OpenAIGateway) complete(ctx context.Context, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		Temperature: g.temperature,
	}
	if g.maxTokens > 0 {
		req.MaxTokens = g.maxTokens
	}

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}
