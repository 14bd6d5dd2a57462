// ABOUTME: Questioner asks the model what a coder still needs to know
// ABOUTME: Parses CDT_QUESTIONS and CDT_EXPLANATION sections from the response
package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/harper/cdt-coder/internal/catalog"
	"github.com/harper/cdt-coder/internal/llm"
	"github.com/harper/cdt-coder/internal/models"
)

const (
	questionsHeader   = "CDT_QUESTIONS:"
	explanationHeader = "CDT_EXPLANATION:"
)

// Questioner generates clarifying questions over the candidate codes
type Questioner struct {
	gateway llm.Gateway
	logger  zerolog.Logger
}

func NewQuestioner(gw llm.Gateway, logger zerolog.Logger) *Questioner {
	return &Questioner{
		gateway: gw,
		logger:  logger.With().Str("component", "questioner").Logger(),
	}
}

// Ask returns the clarifying questions for scenario. Failures are recorded
// in the returned value's Error field.
func (q *Questioner) Ask(ctx context.Context, scenario string, topics []models.TopicResult) models.Questions {
	raw, err := q.gateway.Invoke(ctx, catalog.QuestionerPrompt, map[string]string{
		"scenario": scenario,
		"topics":   FormatTopicResults(topics),
	})
	if err != nil {
		q.logger.Warn().Err(err).Msg("question generation failed")
		return models.Questions{Items: []string{}, Error: err.Error()}
	}
	return ParseQuestions(raw)
}

// ParseQuestions reads one question per line after CDT_QUESTIONS: until
// CDT_EXPLANATION:. A "none" line means there are no questions.
func ParseQuestions(response string) models.Questions {
	out := models.Questions{Items: []string{}}
	inQuestions := false
	inExplanation := false

	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		upper := strings.ToUpper(line)
		switch {
		case strings.HasPrefix(upper, questionsHeader):
			inQuestions, inExplanation = true, false
			line = strings.TrimSpace(line[len(questionsHeader):])
		case strings.HasPrefix(upper, explanationHeader):
			inQuestions, inExplanation = false, true
			line = strings.TrimSpace(line[len(explanationHeader):])
		}
		if line == "" {
			continue
		}

		switch {
		case inQuestions:
			if strings.EqualFold(line, "none") {
				continue
			}
			out.Items = append(out.Items, strings.TrimSpace(strings.TrimLeft(line, "-*0123456789.) ")))
		case inExplanation:
			if out.Explanation != "" {
				out.Explanation += "\n"
			}
			out.Explanation += line
		}
	}
	return out
}

// FormatTopicResults renders candidate codes one topic per line for prompts
func FormatTopicResults(topics []models.TopicResult) string {
	if len(topics) == 0 {
		return "none"
	}
	lines := make([]string, 0, len(topics))
	for _, t := range topics {
		codes := "none"
		if len(t.Result.Codes) > 0 {
			codes = strings.Join(t.Result.Codes, ", ")
		}
		lines = append(lines, fmt.Sprintf("- %s (%s): %s", t.Topic, t.CodeRange, codes))
	}
	return strings.Join(lines, "\n")
}
