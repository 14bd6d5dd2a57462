// ABOUTME: Aggregate types produced by a topic activation
// ABOUTME: Records activated buckets, collected codes and per-handler outcomes
package models

import "time"

// OutcomeStatus describes how a single subtopic handler finished
type OutcomeStatus string

const (
	// OutcomeCode - handler produced a code
	OutcomeCode OutcomeStatus = "code"

	// OutcomeEmpty - handler ran and found nothing applicable
	OutcomeEmpty OutcomeStatus = "empty"

	// OutcomeFailed - handler returned an error or panicked
	OutcomeFailed OutcomeStatus = "failed"

	// OutcomeTimeout - handler exceeded its time budget
	OutcomeTimeout OutcomeStatus = "timeout"
)

// SubtopicOutcome is the per-handler record kept alongside the aggregate
type SubtopicOutcome struct {
	Key      string        `json:"key"`
	Label    string        `json:"label"`
	Status   OutcomeStatus `json:"status"`
	Code     Result        `json:"code"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration_ns"`
}

// AggregateResult is the merged output of one topic activation
type AggregateResult struct {
	ClassifierOutput string            `json:"classifier_output"`
	ActivatedKeys    []string          `json:"activated_keys"`
	Codes            []string          `json:"codes"`
	Outcomes         []SubtopicOutcome `json:"outcomes,omitempty"`
}

// HasCodes reports whether any handler produced a code.
func (a AggregateResult) HasCodes() bool {
	return len(a.Codes) > 0
}

// Failures returns the outcomes that failed or timed out.
func (a AggregateResult) Failures() []SubtopicOutcome {
	var out []SubtopicOutcome
	for _, o := range a.Outcomes {
		if o.Status == OutcomeFailed || o.Status == OutcomeTimeout {
			out = append(out, o)
		}
	}
	return out
}

// TopicResult pairs a topic with its activation output
type TopicResult struct {
	Topic     string          `json:"topic"`
	CodeRange string          `json:"code_range"`
	Result    AggregateResult `json:"result"`
}
