// ABOUTME: Builds the shared runtime for commands: config, logging, gateway, topics, coder and storage
// ABOUTME: Every command that runs the pipeline goes through newApp so wiring stays in one place
package commands

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/harper/cdt-coder/internal/config"
	"github.com/harper/cdt-coder/internal/core"
	"github.com/harper/cdt-coder/internal/llm"
	"github.com/harper/cdt-coder/internal/logging"
	"github.com/harper/cdt-coder/internal/metrics"
	"github.com/harper/cdt-coder/internal/storage/sqlite"
)

// app holds everything a command needs to run the pipeline
type app struct {
	cfg      *config.Config
	logger   zerolog.Logger
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	gateway  llm.Gateway
	services *core.ServiceSet
	coder    *core.Coder
	store    *sqlite.Storage
}

// loadConfig reads config and sets up logging from the global flags
func loadConfig(cmd *cobra.Command) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("loading config: %w", err)
	}

	level := cfg.LogLevel
	switch {
	case verbose:
		level = "debug"
	case quiet:
		level = "error"
	}
	format := cfg.LogFormat
	if jsonOutput() {
		format = "json"
	}
	return cfg, logging.Setup(level, format, cmd.ErrOrStderr()), nil
}

// newApp wires the pipeline. Storage is opened only when withStore is set.
func newApp(ctx context.Context, cmd *cobra.Command, withStore bool) (*app, error) {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger, registry: prometheus.NewRegistry()}
	a.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	a.metrics = metrics.New(a.registry)

	opts := llm.Options{
		Provider:    cfg.Provider,
		APIKey:      cfg.APIKey(),
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		Timeout:     cfg.Timeout,
		MaxRetries:  cfg.MaxRetries,
		RetryDelay:  cfg.RetryDelay,
		CacheSize:   cfg.CacheSize,
		RateLimit:   cfg.RateLimit,
		Logger:      logger,
		Observer:    a.metrics,
	}
	if cfg.Provider == config.ProviderOpenAI {
		opts.BaseURL = cfg.OpenAIBaseURL
	}
	a.gateway, err = llm.New(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("initializing %s gateway: %w", cfg.Provider, err)
	}

	rule, err := core.ParseMatchRule(cfg.MatchMode)
	if err != nil {
		return nil, err
	}
	a.services, err = core.NewServiceSet(a.gateway, logger,
		core.WithMatchRule(rule),
		core.WithHandlerTimeout(cfg.HandlerTimeout),
		core.WithMaxConcurrency(cfg.MaxConcurrency),
		core.WithRecorder(a.metrics),
	)
	if err != nil {
		return nil, fmt.Errorf("building topic services: %w", err)
	}

	coderOpts := []core.CoderOption{core.WithTopicConcurrency(cfg.MaxConcurrency)}
	if withStore {
		a.store, err = sqlite.NewStorageWithPath(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("initializing storage: %w", err)
		}
		coderOpts = append(coderOpts, core.WithStore(a.store))
	}
	a.coder = core.NewCoder(a.gateway, a.services, logger, coderOpts...)

	logger.Debug().
		Str("provider", cfg.Provider).
		Str("model", cfg.Model).
		Str("match_mode", cfg.MatchMode).
		Bool("storage", withStore).
		Msg("coder initialized")
	return a, nil
}

// defaults returns the pipeline stages enabled by config
func (a *app) defaults() core.RunOptions {
	return core.RunOptions{Clean: a.cfg.CleanScenario, Inspect: a.cfg.Inspect}
}

func (a *app) Close() {
	if a.store == nil {
		return
	}
	if err := a.store.Close(); err != nil {
		a.logger.Warn().Err(err).Msg("closing storage")
	}
}

// openStorage opens only the record store, for commands that never call the model
func openStorage(cmd *cobra.Command) (*sqlite.Storage, zerolog.Logger, error) {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return nil, logger, err
	}
	store, err := sqlite.NewStorageWithPath(cfg.DBPath)
	if err != nil {
		return nil, logger, fmt.Errorf("initializing storage: %w", err)
	}
	return store, logger, nil
}
