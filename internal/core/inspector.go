// ABOUTME: Inspector makes the final code selection over every topic's candidates
// ABOUTME: Parses EXPLANATION, CODES and REJECTED CODES sections from the response
package core

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/harper/cdt-coder/internal/catalog"
	"github.com/harper/cdt-coder/internal/llm"
	"github.com/harper/cdt-coder/internal/models"
)

// Inspector runs the final review prompt
type Inspector struct {
	gateway llm.Gateway
	logger  zerolog.Logger
}

func NewInspector(gw llm.Gateway, logger zerolog.Logger) *Inspector {
	return &Inspector{
		gateway: gw,
		logger:  logger.With().Str("component", "inspector").Logger(),
	}
}

// Inspect selects the supported codes. answers may be empty.
func (i *Inspector) Inspect(ctx context.Context, scenario string, topics []models.TopicResult, answers string) models.Inspection {
	if strings.TrimSpace(answers) == "" {
		answers = "none"
	}
	raw, err := i.gateway.Invoke(ctx, catalog.InspectorPrompt, map[string]string{
		"scenario": scenario,
		"topics":   FormatTopicResults(topics),
		"answers":  answers,
	})
	if err != nil {
		i.logger.Warn().Err(err).Msg("inspection failed")
		return models.Inspection{Codes: []string{}, RejectedCodes: []string{}, Error: err.Error()}
	}
	return ParseInspection(raw)
}

// ParseInspection reads the inspector response. The explanation may span
// several lines; code lists are single lines.
func ParseInspection(response string) models.Inspection {
	out := models.Inspection{Codes: []string{}, RejectedCodes: []string{}}
	inExplanation := false

	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		upper := strings.ToUpper(line)
		switch {
		case strings.HasPrefix(upper, "REJECTED CODES:"):
			inExplanation = false
			out.RejectedCodes = CleanCodes(line[len("REJECTED CODES:"):])
		case strings.HasPrefix(upper, "CODES:"):
			inExplanation = false
			out.Codes = CleanCodes(line[len("CODES:"):])
		case strings.HasPrefix(upper, "EXPLANATION:"):
			inExplanation = true
			if rest := strings.TrimSpace(line[len("EXPLANATION:"):]); rest != "" {
				out.Explanation = rest
			}
		case inExplanation && line != "":
			if out.Explanation != "" {
				out.Explanation += "\n"
			}
			out.Explanation += line
		}
	}
	return out
}

// CleanCodes splits a comma separated code list, dropping brackets, blanks,
// "none" and placeholder codes containing '*'.
func CleanCodes(list string) []string {
	codes := []string{}
	list = strings.Trim(strings.TrimSpace(list), "[]")
	for _, part := range strings.Split(list, ",") {
		code := strings.TrimSpace(strings.Trim(strings.TrimSpace(part), "[]"))
		if code == "" || strings.EqualFold(code, "none") || strings.Contains(code, "*") {
			continue
		}
		codes = append(codes, code)
	}
	return codes
}
