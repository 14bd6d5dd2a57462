// ABOUTME: Builds the configured provider gateway and its middleware chain
// ABOUTME: Used by every entry point so CLI, HTTP and MCP share one gateway setup
package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Options selects a provider and the decorations applied around it
type Options struct {
	Provider    string
	APIKey      string
	Model       string
	Temperature float64
	BaseURL     string
	MaxTokens   int

	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
	CacheSize  int
	RateLimit  float64

	Logger   zerolog.Logger
	Observer CallObserver

	// Responder is used by the "fake" provider
	Responder Responder
}

// New creates the provider gateway and wraps it as
// cache -> observer -> logging -> retry -> rate limit -> timeout -> provider.
func New(ctx context.Context, opts Options) (Gateway, error) {
	cfg := ClientConfig{
		APIKey:      opts.APIKey,
		Model:       opts.Model,
		Temperature: opts.Temperature,
		BaseURL:     opts.BaseURL,
		MaxTokens:   opts.MaxTokens,
	}

	var base Gateway
	switch opts.Provider {
	case "openai", "":
		g, err := NewOpenAIGateway(cfg)
		if err != nil {
			return nil, err
		}
		base = g
	case "openrouter":
		if cfg.BaseURL == "" {
			cfg.BaseURL = OpenRouterBaseURL
		}
		g, err := NewOpenAIGateway(cfg)
		if err != nil {
			return nil, err
		}
		base = g
	case "gemini":
		g, err := NewGeminiGateway(ctx, cfg)
		if err != nil {
			return nil, err
		}
		base = g
	case "anthropic":
		g, err := NewAnthropicGateway(cfg)
		if err != nil {
			return nil, err
		}
		base = g
	case "fake":
		base = NewFakeGateway(opts.Responder)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", opts.Provider)
	}

	return Wrap(base,
		WithCache(opts.CacheSize),
		WithObserver(opts.Observer),
		WithLogging(opts.Logger),
		WithRetry(opts.MaxRetries, opts.RetryDelay),
		WithRateLimit(opts.RateLimit),
		WithTimeout(opts.Timeout),
	), nil
}
