// ABOUTME: SubtopicHandler extracts a code for one bucket with a single model call
// ABOUTME: Normalizes "None", blanks and "not applicable" answers to an Empty result
package core

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/harper/cdt-coder/internal/llm"
	"github.com/harper/cdt-coder/internal/logging"
	"github.com/harper/cdt-coder/internal/models"
)

// InvokeFunc runs one subtopic extraction. An error means the extraction
// failed; the registry records it and treats the result as Empty.
type InvokeFunc func(ctx context.Context, scenario string) (models.Result, error)

// SubtopicHandler asks the model for the code in one bucket
type SubtopicHandler struct {
	gateway  llm.Gateway
	key      string
	label    string
	template string
	logger   zerolog.Logger
}

// NewSubtopicHandler creates a handler whose template carries a {scenario} placeholder
func NewSubtopicHandler(gw llm.Gateway, key, label, template string, logger zerolog.Logger) *SubtopicHandler {
	return &SubtopicHandler{
		gateway:  gw,
		key:      key,
		label:    label,
		template: template,
		logger:   logger.With().Str("bucket", key).Logger(),
	}
}

// Key returns the bucket key
func (h *SubtopicHandler) Key() string { return h.key }

// Label returns the bucket label
func (h *SubtopicHandler) Label() string { return h.label }

// Attempt makes exactly one gateway call and normalizes the answer.
// Gateway errors are returned unchanged.
func (h *SubtopicHandler) Attempt(ctx context.Context, scenario string) (models.Result, error) {
	h.logger.Debug().Str("scenario", logging.Truncate(scenario, 80)).Msg("extracting subtopic code")

	raw, err := h.gateway.Invoke(ctx, h.template, map[string]string{"scenario": scenario})
	if err != nil {
		return models.Empty(), err
	}

	h.logger.Debug().Str("raw", logging.Truncate(raw, 200)).Msg("subtopic response")
	return NormalizeResponse(raw), nil
}

// Extract is Attempt with failures absorbed: any error yields Empty.
// Registries take Invoke instead, so a failure is kept as outcome data
// rather than logged and dropped here. Extract serves callers that run one
// bucket on its own.
func (h *SubtopicHandler) Extract(ctx context.Context, scenario string) models.Result {
	res, err := h.Attempt(ctx, scenario)
	if err != nil {
		h.logger.Warn().Err(err).Msg("subtopic extraction failed")
		return models.Empty()
	}
	return res
}

// Invoke exposes Attempt as an InvokeFunc for registration
func (h *SubtopicHandler) Invoke() InvokeFunc {
	return h.Attempt
}

// NormalizeResponse trims raw model output and maps "none", blanks and any
// "not applicable" answer to Empty.
func NormalizeResponse(raw string) models.Result {
	text := strings.TrimSpace(raw)
	if text == "" || strings.EqualFold(text, "none") {
		return models.Empty()
	}
	if strings.Contains(strings.ToLower(text), "not applicable") {
		return models.Empty()
	}
	return models.NewCode(text)
}

// KeywordInvoke returns an InvokeFunc that yields code when the scenario
// mentions keyword, ignoring case, and Empty otherwise. It never calls a model.
func KeywordInvoke(keyword, code string) InvokeFunc {
	needle := strings.ToLower(keyword)
	return func(ctx context.Context, scenario string) (models.Result, error) {
		if needle != "" && strings.Contains(strings.ToLower(scenario), needle) {
			return models.NewCode(code), nil
		}
		return models.Empty(), nil
	}
}
