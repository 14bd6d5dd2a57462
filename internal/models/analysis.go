// ABOUTME: Analysis records the full coding pipeline for one scenario
// ABOUTME: Persisted to SQLite and rendered by the CLI, HTTP API and MCP tools
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RangeFinding is one top-level CDT range named by the range classifier
type RangeFinding struct {
	CodeRange   string `json:"code_range"`
	Name        string `json:"name,omitempty"`
	Explanation string `json:"explanation,omitempty"`
	Doubt       string `json:"doubt,omitempty"`
}

// RangeClassification is the parsed output of the top-level classifier
type RangeClassification struct {
	Findings    []RangeFinding `json:"findings"`
	RawResponse string         `json:"raw_response,omitempty"`
	Error       string         `json:"error,omitempty"`
}

// CodeRanges returns the ranges in the order they were found.
func (r RangeClassification) CodeRanges() []string {
	out := make([]string, 0, len(r.Findings))
	for _, f := range r.Findings {
		out = append(out, f.CodeRange)
	}
	return out
}

// Questions holds clarifying questions a coder may need answered
type Questions struct {
	Items       []string `json:"questions"`
	Explanation string   `json:"explanation,omitempty"`
	Error       string   `json:"error,omitempty"`
}

// HasQuestions reports whether any questions were produced.
func (q Questions) HasQuestions() bool {
	return len(q.Items) > 0
}

// Inspection is the final code selection over all candidate codes
type Inspection struct {
	Codes         []string `json:"codes"`
	RejectedCodes []string `json:"rejected_codes,omitempty"`
	Explanation   string   `json:"explanation,omitempty"`
	Error         string   `json:"error,omitempty"`
}

// Analysis is one complete run of the coding pipeline
type Analysis struct {
	ID                string              `json:"id"`
	Scenario          string              `json:"scenario"`
	ProcessedScenario string              `json:"processed_scenario"`
	Ranges            RangeClassification `json:"ranges"`
	Topics            []TopicResult       `json:"topics"`
	Questions         Questions           `json:"questions"`
	Inspection        *Inspection         `json:"inspection,omitempty"`
	CreatedAt         time.Time           `json:"created_at"`
}

// NewAnalysis creates an Analysis with a fresh ID.
func NewAnalysis(scenario string) (*Analysis, error) {
	if strings.TrimSpace(scenario) == "" {
		return nil, fmt.Errorf("scenario cannot be empty")
	}
	return &Analysis{
		ID:        uuid.New().String(),
		Scenario:  scenario,
		CreatedAt: time.Now(),
	}, nil
}

// CandidateCodes returns every code any topic produced, de-duplicated,
// in topic order then activation order.
func (a *Analysis) CandidateCodes() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, t := range a.Topics {
		for _, c := range t.Result.Codes {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	return out
}

// FinalCodes returns the inspected codes when an inspection ran,
// otherwise the candidate codes.
func (a *Analysis) FinalCodes() []string {
	if a.Inspection != nil && a.Inspection.Error == "" {
		return a.Inspection.Codes
	}
	return a.CandidateCodes()
}
