// ABOUTME: Centralized configuration for the CDT coding assistant
// ABOUTME: Loads defaults, an optional cdtcoder.yaml and environment variables with validation
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported LLM providers
const (
	ProviderOpenAI     = "openai"
	ProviderOpenRouter = "openrouter"
	ProviderGemini     = "gemini"
	ProviderAnthropic  = "anthropic"
	ProviderFake       = "fake"
)

// Supported bucket matching modes
const (
	MatchExact      = "exact"
	MatchLabel      = "label"
	MatchNormalized = "normalized"
)

// Config holds all configuration for the coding assistant
type Config struct {
	// LLM settings
	Provider      string        `mapstructure:"provider"`
	Model         string        `mapstructure:"model"`
	Temperature   float64       `mapstructure:"temperature"`
	MaxTokens     int           `mapstructure:"max_tokens"`
	OpenAIKey     string        `mapstructure:"openai_api_key"`
	OpenAIBaseURL string        `mapstructure:"openai_base_url"`
	OpenRouterKey string        `mapstructure:"openrouter_api_key"`
	GeminiKey     string        `mapstructure:"gemini_api_key"`
	AnthropicKey  string        `mapstructure:"anthropic_api_key"`
	Timeout       time.Duration `mapstructure:"timeout"`
	MaxRetries    int           `mapstructure:"max_retries"`
	RetryDelay    time.Duration `mapstructure:"retry_delay"`
	CacheSize     int           `mapstructure:"cache_size"`
	RateLimit     float64       `mapstructure:"rate_limit"`

	// Fan-out settings
	HandlerTimeout time.Duration `mapstructure:"handler_timeout"`
	MaxConcurrency int           `mapstructure:"max_concurrency"`
	MatchMode      string        `mapstructure:"match_mode"`

	// Pipeline settings
	CleanScenario bool `mapstructure:"clean_scenario"`
	Inspect       bool `mapstructure:"inspect"`

	// Storage and serving
	DBPath         string   `mapstructure:"db_path"`
	HTTPAddr       string   `mapstructure:"http_addr"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`

	// Logging
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// envBindings maps config keys to their environment variables
var envBindings = map[string]string{
	"provider":           "CDT_LLM_PROVIDER",
	"model":              "CDT_MODEL",
	"temperature":        "CDT_TEMPERATURE",
	"max_tokens":         "CDT_MAX_TOKENS",
	"openai_api_key":     "OPENAI_API_KEY",
	"openai_base_url":    "OPENAI_BASE_URL",
	"openrouter_api_key": "OPENROUTER_API_KEY",
	"gemini_api_key":     "GEMINI_API_KEY",
	"anthropic_api_key":  "ANTHROPIC_API_KEY",
	"timeout":            "CDT_LLM_TIMEOUT",
	"max_retries":        "CDT_MAX_RETRIES",
	"retry_delay":        "CDT_RETRY_DELAY",
	"cache_size":         "CDT_CACHE_SIZE",
	"rate_limit":         "CDT_LLM_RPS",
	"handler_timeout":    "CDT_HANDLER_TIMEOUT",
	"max_concurrency":    "CDT_MAX_CONCURRENCY",
	"match_mode":         "CDT_MATCH_MODE",
	"clean_scenario":     "CDT_CLEAN_SCENARIO",
	"inspect":            "CDT_INSPECT",
	"db_path":            "CDT_DB_PATH",
	"http_addr":          "CDT_HTTP_ADDR",
	"allowed_origins":    "CDT_ALLOWED_ORIGINS",
	"log_level":          "CDT_LOG_LEVEL",
	"log_format":         "CDT_LOG_FORMAT",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("provider", ProviderOpenAI)
	v.SetDefault("model", "gpt-4o-mini")
	v.SetDefault("temperature", 0.0)
	v.SetDefault("max_tokens", 0)
	v.SetDefault("timeout", 60*time.Second)
	v.SetDefault("max_retries", 2)
	v.SetDefault("retry_delay", 2*time.Second)
	v.SetDefault("cache_size", 0)
	v.SetDefault("rate_limit", 0.0)
	v.SetDefault("handler_timeout", time.Duration(0))
	v.SetDefault("max_concurrency", 0)
	v.SetDefault("match_mode", MatchExact)
	v.SetDefault("clean_scenario", true)
	v.SetDefault("inspect", true)
	v.SetDefault("db_path", "")
	v.SetDefault("http_addr", ":8000")
	v.SetDefault("allowed_origins", []string{"http://localhost:5173"})
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
}

// Load reads configuration from .env, an optional cdtcoder.yaml and the environment
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile is Load with an explicit config file path. An empty path searches
// the working directory, ./config and $HOME/.cdtcoder.
func LoadFile(path string) (*Config, error) {
	// Load .env for API keys; a missing file is fine
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding %s: %w", env, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("cdtcoder")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("$HOME/.cdtcoder")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.AllowedOrigins = splitOrigins(cfg.AllowedOrigins)
	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))
	cfg.MatchMode = strings.ToLower(strings.TrimSpace(cfg.MatchMode))

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderOpenAI, ProviderOpenRouter, ProviderGemini, ProviderAnthropic, ProviderFake:
	default:
		return fmt.Errorf("CDT_LLM_PROVIDER must be one of openai, openrouter, gemini, anthropic, fake; got %q", c.Provider)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("CDT_TEMPERATURE must be 0-2, got %f", c.Temperature)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("CDT_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	if c.Timeout < 0 || c.RetryDelay < 0 || c.HandlerTimeout < 0 {
		return fmt.Errorf("durations must not be negative")
	}
	if c.MaxTokens < 0 {
		return fmt.Errorf("CDT_MAX_TOKENS must not be negative, got %d", c.MaxTokens)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("CDT_CACHE_SIZE must not be negative, got %d", c.CacheSize)
	}
	if c.MaxConcurrency < 0 {
		return fmt.Errorf("CDT_MAX_CONCURRENCY must not be negative, got %d", c.MaxConcurrency)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("CDT_LLM_RPS must not be negative, got %f", c.RateLimit)
	}
	switch c.MatchMode {
	case MatchExact, MatchLabel, MatchNormalized:
	default:
		return fmt.Errorf("CDT_MATCH_MODE must be one of exact, label, normalized; got %q", c.MatchMode)
	}
	return nil
}

// APIKey returns the key for the configured provider.
func (c *Config) APIKey() string {
	switch c.Provider {
	case ProviderOpenAI:
		return c.OpenAIKey
	case ProviderOpenRouter:
		return c.OpenRouterKey
	case ProviderGemini:
		return c.GeminiKey
	case ProviderAnthropic:
		return c.AnthropicKey
	}
	return ""
}

// splitOrigins accepts either a list or a single comma-separated value from the environment
func splitOrigins(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
