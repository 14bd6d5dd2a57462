// ABOUTME: ScenarioCleaner restructures raw clinical notes before classification
// ABOUTME: Falls back to the original text whenever the model call fails or returns nothing
package core

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/harper/cdt-coder/internal/catalog"
	"github.com/harper/cdt-coder/internal/llm"
)

// ScenarioCleaner runs the note restructuring prompt
type ScenarioCleaner struct {
	gateway llm.Gateway
	logger  zerolog.Logger
}

func NewScenarioCleaner(gw llm.Gateway, logger zerolog.Logger) *ScenarioCleaner {
	return &ScenarioCleaner{
		gateway: gw,
		logger:  logger.With().Str("component", "cleaner").Logger(),
	}
}

// Standardize returns the restructured scenario, or the trimmed input when
// the model is unavailable.
func (c *ScenarioCleaner) Standardize(ctx context.Context, scenario string) string {
	original := strings.TrimSpace(scenario)
	if original == "" {
		return original
	}

	raw, err := c.gateway.Invoke(ctx, catalog.CleanerPrompt, map[string]string{"scenario": original})
	if err != nil {
		c.logger.Warn().Err(err).Msg("scenario cleanup failed, using original text")
		return original
	}
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return original
	}
	return cleaned
}
