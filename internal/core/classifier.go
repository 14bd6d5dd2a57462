// ABOUTME: TopicClassifier names the code-range buckets of one topic that may apply
// ABOUTME: Returns the raw model text; matching against buckets happens in the registry
package core

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/harper/cdt-coder/internal/llm"
	"github.com/harper/cdt-coder/internal/logging"
)

// TopicClassifier runs the enumeration prompt for a topic
type TopicClassifier struct {
	gateway  llm.Gateway
	name     string
	template string
	logger   zerolog.Logger
}

// NewTopicClassifier creates a classifier whose template carries a {scenario} placeholder
func NewTopicClassifier(gw llm.Gateway, name, template string, logger zerolog.Logger) *TopicClassifier {
	return &TopicClassifier{
		gateway:  gw,
		name:     name,
		template: template,
		logger:   logger.With().Str("topic", name).Logger(),
	}
}

// Name returns the topic name
func (c *TopicClassifier) Name() string { return c.name }

// Analyze returns the trimmed classifier output, or "" when the call fails.
func (c *TopicClassifier) Analyze(ctx context.Context, scenario string) string {
	raw, err := c.gateway.Invoke(ctx, c.template, map[string]string{"scenario": scenario})
	if err != nil {
		c.logger.Warn().Err(err).Msg("topic classification failed")
		return ""
	}
	out := strings.TrimSpace(raw)
	c.logger.Debug().Str("output", logging.Truncate(out, 200)).Msg("topic classification")
	return out
}
