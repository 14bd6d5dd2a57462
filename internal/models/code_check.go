// ABOUTME: CodeCheck records a model's verdict on user-supplied CDT codes for one scenario
// ABOUTME: Each requested code gets an applicable, not applicable or unknown verdict with a reason
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Verdict is the answer for one checked code
type Verdict string

const (
	VerdictApplicable    Verdict = "applicable"
	VerdictNotApplicable Verdict = "not_applicable"
	// VerdictUnknown - the model gave no usable answer for the code
	VerdictUnknown Verdict = "unknown"
)

// CodeVerdict is the model's judgement on a single code
type CodeVerdict struct {
	Code    string  `json:"code"`
	Verdict Verdict `json:"verdict"`
	Reason  string  `json:"reason,omitempty"`
}

// CodeCheck is one verification of supplied codes against a scenario
type CodeCheck struct {
	ID          string        `json:"id"`
	Scenario    string        `json:"scenario"`
	Codes       []string      `json:"codes"`
	Verdicts    []CodeVerdict `json:"verdicts"`
	RawResponse string        `json:"raw_response,omitempty"`
	Error       string        `json:"error,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}

// NormalizeCodes upper-cases and trims codes, dropping blanks and repeats.
func NormalizeCodes(codes []string) []string {
	out := []string{}
	seen := make(map[string]bool)
	for _, c := range codes {
		c = strings.ToUpper(strings.TrimSpace(c))
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

// NewCodeCheck creates a CodeCheck with a fresh ID. Codes are normalized.
func NewCodeCheck(scenario string, codes []string) (*CodeCheck, error) {
	if strings.TrimSpace(scenario) == "" {
		return nil, fmt.Errorf("scenario cannot be empty")
	}
	codes = NormalizeCodes(codes)
	if len(codes) == 0 {
		return nil, fmt.Errorf("at least one code is required")
	}
	return &CodeCheck{
		ID:        uuid.New().String(),
		Scenario:  scenario,
		Codes:     codes,
		Verdicts:  []CodeVerdict{},
		CreatedAt: time.Now(),
	}, nil
}

// Applicable returns the codes judged applicable, in request order.
func (c *CodeCheck) Applicable() []string {
	out := []string{}
	for _, v := range c.Verdicts {
		if v.Verdict == VerdictApplicable {
			out = append(out, v.Code)
		}
	}
	return out
}
