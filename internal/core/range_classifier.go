// ABOUTME: RangeClassifier picks the top-level CDT categories a scenario touches
// ABOUTME: Parses CODE_RANGE blocks and backfills categories named by clear clinical keywords
package core

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/harper/cdt-coder/internal/catalog"
	"github.com/harper/cdt-coder/internal/llm"
	"github.com/harper/cdt-coder/internal/models"
)

// keywordRange backfills a category when the scenario mentions any keyword
type keywordRange struct {
	codeRange   string
	name        string
	keywords    []string
	explanation string
}

var keywordRanges = []keywordRange{
	{
		codeRange:   "D1000-D1999",
		name:        "Preventive",
		keywords:    []string{"prophylaxis", "prophy", "cleaning", "routine recall", "fluoride", "sealant"},
		explanation: "The scenario mentions prophylaxis, cleaning or other preventive services.",
	},
	{
		codeRange:   "D3000-D3999",
		name:        "Endodontics",
		keywords:    []string{"root canal", "pulp", "endodontic", "pulpectomy", "pulpotomy", "retreatment", "periapical"},
		explanation: "The scenario mentions root canal therapy or other pulpal treatment.",
	},
	{
		codeRange:   "D0100-D0999",
		name:        "Diagnostic",
		keywords:    []string{"radiograph", "x-ray", "image", "examination", "eval", "exam"},
		explanation: "The scenario mentions imaging or an examination.",
	},
	{
		codeRange:   "D7000-D7999",
		name:        "Oral and Maxillofacial Surgery",
		keywords:    []string{"extraction", "remove tooth", "incision", "drainage", "biopsy", "abscess", "fistula", "pus", "draining"},
		explanation: "The scenario mentions extraction, incision or drainage of an infection.",
	},
}

const keywordDoubt = "Added from scenario keywords."

// RangeClassifier runs the top-level category prompt
type RangeClassifier struct {
	gateway  llm.Gateway
	template string
	logger   zerolog.Logger
}

// NewRangeClassifier creates a classifier using catalog.RangeClassifierPrompt
func NewRangeClassifier(gw llm.Gateway, logger zerolog.Logger) *RangeClassifier {
	return &RangeClassifier{
		gateway:  gw,
		template: catalog.RangeClassifierPrompt,
		logger:   logger.With().Str("component", "range_classifier").Logger(),
	}
}

// Classify returns the parsed categories plus keyword backfills.
// A failed model call is recorded in Error; backfills still apply.
func (c *RangeClassifier) Classify(ctx context.Context, scenario string) models.RangeClassification {
	var result models.RangeClassification

	raw, err := c.gateway.Invoke(ctx, c.template, map[string]string{
		"scenario":   scenario,
		"categories": catalog.CategoryList(),
	})
	if err != nil {
		c.logger.Warn().Err(err).Msg("range classification failed")
		result.Error = err.Error()
	} else {
		result.RawResponse = raw
		result.Findings = ParseRangeResponse(raw)
	}

	result.Findings = EnsureKeywordRanges(result.Findings, scenario)
	c.logger.Debug().Strs("ranges", result.CodeRanges()).Msg("range classification")
	return result
}

// ParseRangeResponse reads "CODE_RANGE: Dxxxx-Dyyyy - Name" blocks with their
// EXPLANATION and DOUBT sections. Repeated ranges keep the first block.
func ParseRangeResponse(response string) []models.RangeFinding {
	var findings []models.RangeFinding
	seen := make(map[string]bool)

	for _, section := range strings.Split(response, "CODE_RANGE:") {
		section = strings.TrimSpace(section)
		if section == "" {
			continue
		}
		lines := strings.Split(section, "\n")

		header := NormalizeRanges(strings.TrimSpace(lines[0]))
		codeRange, name, _ := strings.Cut(header, " - ")
		codeRange = strings.TrimSpace(codeRange)
		if !strings.HasPrefix(codeRange, "D") || strings.ContainsAny(codeRange, " \t") {
			continue
		}

		finding := models.RangeFinding{CodeRange: codeRange, Name: strings.TrimSpace(name)}
		var current *string
		for _, line := range lines[1:] {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			switch {
			case strings.HasPrefix(strings.ToUpper(line), "EXPLANATION:"):
				current = &finding.Explanation
				line = strings.TrimSpace(line[len("EXPLANATION:"):])
			case strings.HasPrefix(strings.ToUpper(line), "DOUBT:"):
				current = &finding.Doubt
				line = strings.TrimSpace(line[len("DOUBT:"):])
			}
			if current == nil || line == "" {
				continue
			}
			if *current != "" {
				*current += "\n"
			}
			*current += line
		}

		if seen[finding.CodeRange] {
			continue
		}
		seen[finding.CodeRange] = true
		findings = append(findings, finding)
	}
	return findings
}

// EnsureKeywordRanges appends the categories a scenario plainly mentions
// when the model left them out.
func EnsureKeywordRanges(findings []models.RangeFinding, scenario string) []models.RangeFinding {
	lower := strings.ToLower(scenario)
	present := make(map[string]bool, len(findings))
	for _, f := range findings {
		present[f.CodeRange] = true
	}

	for _, kr := range keywordRanges {
		if present[kr.codeRange] {
			continue
		}
		for _, kw := range kr.keywords {
			if strings.Contains(lower, kw) {
				findings = append(findings, models.RangeFinding{
					CodeRange:   kr.codeRange,
					Name:        kr.name,
					Explanation: kr.explanation,
					Doubt:       keywordDoubt,
				})
				present[kr.codeRange] = true
				break
			}
		}
	}
	return findings
}
