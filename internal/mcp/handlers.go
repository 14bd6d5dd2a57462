// ABOUTME: MCP tool handler implementations for the CDT coding server
// ABOUTME: Tool failures are returned as error results so the client can show them
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog"

	"github.com/harper/cdt-coder/internal/catalog"
	"github.com/harper/cdt-coder/internal/core"
	"github.com/harper/cdt-coder/internal/models"
)

// History reads saved analyses
type History interface {
	ResolveAnalysis(ref string) (*models.Analysis, error)
}

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	coder    *core.Coder
	history  History
	defaults core.RunOptions
	logger   zerolog.Logger
}

// NewHandlers creates the tool handlers
func NewHandlers(coder *core.Coder, history History, defaults core.RunOptions, logger zerolog.Logger) *Handlers {
	return &Handlers{
		coder:    coder,
		history:  history,
		defaults: defaults,
		logger:   logger.With().Str("component", "mcp").Logger(),
	}
}

// CodeScenario handles the code_scenario tool
func (h *Handlers) CodeScenario(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	scenario, err := request.RequireString("scenario")
	if err != nil || strings.TrimSpace(scenario) == "" {
		return mcp.NewToolResultError("scenario argument is required and must be a non-empty string"), nil
	}

	opts := h.defaults
	opts.Inspect = request.GetBool("inspect", opts.Inspect)
	opts.Questions = request.GetBool("questions", opts.Questions)
	opts.Save = request.GetBool("save", opts.Save) && h.history != nil
	opts.Answers = request.GetString("answers", "")

	analysis, err := h.coder.Code(ctx, scenario, opts)
	if err != nil {
		h.logger.Error().Err(err).Msg("code_scenario failed")
		return mcp.NewToolResultError(fmt.Sprintf("coding failed: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{
		"id":          analysis.ID,
		"final_codes": nonNil(analysis.FinalCodes()),
		"ranges":      analysis.Ranges.Findings,
		"topics":      topicSummaries(analysis.Topics),
		"questions":   analysis.Questions.Items,
		"inspection":  analysis.Inspection,
		"saved":       opts.Save,
	})
}

// VerifyCodes handles the verify_codes tool
func (h *Handlers) VerifyCodes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	scenario, err := request.RequireString("scenario")
	if err != nil || strings.TrimSpace(scenario) == "" {
		return mcp.NewToolResultError("scenario argument is required and must be a non-empty string"), nil
	}
	raw, err := request.RequireString("codes")
	if err != nil {
		return mcp.NewToolResultError("codes argument is required and must be a string"), nil
	}
	codes := models.NormalizeCodes(strings.Split(raw, ","))
	if len(codes) == 0 {
		return mcp.NewToolResultError("codes must name at least one CDT code"), nil
	}

	save := request.GetBool("save", h.defaults.Save) && h.history != nil
	check, err := h.coder.Verify(ctx, scenario, codes, save)
	if err != nil {
		h.logger.Error().Err(err).Msg("verify_codes failed")
		return mcp.NewToolResultError(fmt.Sprintf("verification failed: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{
		"id":         check.ID,
		"verdicts":   check.Verdicts,
		"applicable": check.Applicable(),
		"error":      check.Error,
		"saved":      save,
	})
}

// ActivateTopic handles the activate_topic tool
func (h *Handlers) ActivateTopic(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topic, err := request.RequireString("topic")
	if err != nil {
		return mcp.NewToolResultError("topic argument is required and must be a string"), nil
	}
	scenario, err := request.RequireString("scenario")
	if err != nil || strings.TrimSpace(scenario) == "" {
		return mcp.NewToolResultError("scenario argument is required and must be a non-empty string"), nil
	}

	svc, err := h.coder.Services().Lookup(topic)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	agg := svc.Activate(ctx, scenario)
	return jsonResult(map[string]interface{}{
		"topic":             svc.Name(),
		"code_range":        svc.CodeRange(),
		"classifier_output": agg.ClassifierOutput,
		"activated":         agg.ActivatedKeys,
		"codes":             agg.Codes,
		"failures":          len(agg.Failures()),
	})
}

// ListTopics handles the list_topics tool
func (h *Handlers) ListTopics(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	type bucket struct {
		Key   string `json:"key"`
		Label string `json:"label"`
	}
	type topic struct {
		Slug      string   `json:"slug"`
		Name      string   `json:"name"`
		CodeRange string   `json:"code_range"`
		Buckets   []bucket `json:"buckets"`
	}

	var topics []topic
	for _, t := range catalog.Topics() {
		entry := topic{Slug: t.Slug, Name: t.Name, CodeRange: t.CodeRange}
		for _, b := range t.Buckets {
			entry.Buckets = append(entry.Buckets, bucket{Key: b.Key, Label: b.Label})
		}
		topics = append(topics, entry)
	}

	return jsonResult(map[string]interface{}{
		"topics": topics,
		"count":  len(topics),
	})
}

// GetAnalysis handles the get_analysis tool
func (h *Handlers) GetAnalysis(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.history == nil {
		return mcp.NewToolResultError("history is not enabled"), nil
	}
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id argument is required and must be a string"), nil
	}

	analysis, err := h.history.ResolveAnalysis(id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load analysis: %v", err)), nil
	}
	if analysis == nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis not found: %s", id)), nil
	}
	return jsonResult(analysis)
}

type topicSummary struct {
	Topic     string   `json:"topic"`
	CodeRange string   `json:"code_range"`
	Activated []string `json:"activated"`
	Codes     []string `json:"codes"`
}

func topicSummaries(results []models.TopicResult) []topicSummary {
	out := make([]topicSummary, 0, len(results))
	for _, r := range results {
		out = append(out, topicSummary{
			Topic:     r.Topic,
			CodeRange: r.CodeRange,
			Activated: r.Result.ActivatedKeys,
			Codes:     r.Result.Codes,
		})
	}
	return out
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	responseJSON, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}

func nonNil(codes []string) []string {
	if codes == nil {
		return []string{}
	}
	return codes
}
