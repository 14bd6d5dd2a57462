// ABOUTME: Scores an analysis against a labelled scenario
// ABOUTME: Code precision, recall and F1, range recall and forbidden-code checks
package eval

import (
	"fmt"
	"strings"

	"github.com/harper/cdt-coder/internal/models"
)

// DefaultPassThreshold is the minimum code F1 and range recall for a PASS
const DefaultPassThreshold = 0.9

// Result statuses
const (
	StatusPass  = "PASS"
	StatusFail  = "FAIL"
	StatusError = "ERROR"
)

// TestResult is the outcome of one scenario
type TestResult struct {
	TestID         string   `json:"test_id"`
	TestName       string   `json:"test_name"`
	Precision      float64  `json:"precision"`
	Recall         float64  `json:"recall"`
	F1             float64  `json:"f1"`
	RangeRecall    float64  `json:"range_recall"`
	Status         string   `json:"status"`
	ProducedCodes  []string `json:"produced_codes"`
	MissingCodes   []string `json:"missing_codes,omitempty"`
	ExtraCodes     []string `json:"extra_codes,omitempty"`
	ForbiddenFound []string `json:"forbidden_found,omitempty"`
	MissingRanges  []string `json:"missing_ranges,omitempty"`
	AnalysisID     string   `json:"analysis_id,omitempty"`
	ErrorMessage   string   `json:"error,omitempty"`
}

// MetricsCalculator scores analyses
type MetricsCalculator struct {
	threshold float64
}

// NewMetricsCalculator creates a calculator. A threshold outside (0, 1]
// falls back to DefaultPassThreshold.
func NewMetricsCalculator(threshold float64) *MetricsCalculator {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultPassThreshold
	}
	return &MetricsCalculator{threshold: threshold}
}

// Threshold returns the pass threshold in use
func (m *MetricsCalculator) Threshold() float64 {
	return m.threshold
}

// CodeScores compares produced codes with expected ones. With nothing
// expected, producing nothing scores 1 and anything else scores 0 precision.
func (m *MetricsCalculator) CodeScores(produced, expected []string) (precision, recall, f1 float64) {
	got := codeSet(produced)
	want := codeSet(expected)

	if len(want) == 0 && len(got) == 0 {
		return 1, 1, 1
	}

	hits := 0
	for c := range got {
		if want[c] {
			hits++
		}
	}

	if len(got) > 0 {
		precision = float64(hits) / float64(len(got))
	}
	recall = 1
	if len(want) > 0 {
		recall = float64(hits) / float64(len(want))
	}
	if precision+recall > 0 {
		f1 = 2 * precision * recall / (precision + recall)
	}
	return precision, recall, f1
}

// RangeRecall is the share of expected ranges the classifier named
func (m *MetricsCalculator) RangeRecall(produced, expected []string) (float64, []string) {
	if len(expected) == 0 {
		return 1, nil
	}
	got := codeSet(produced)
	var missing []string
	for _, r := range expected {
		if !got[normalizeCode(r)] {
			missing = append(missing, r)
		}
	}
	return float64(len(expected)-len(missing)) / float64(len(expected)), missing
}

// EvaluateTest scores one analysis. A scenario passes when code F1 and range
// recall both reach the threshold and no forbidden code was produced.
func (m *MetricsCalculator) EvaluateTest(scenario TestScenario, analysis *models.Analysis) TestResult {
	produced := analysis.FinalCodes()
	if produced == nil {
		produced = []string{}
	}
	truth := scenario.GroundTruth

	result := TestResult{
		TestID:        scenario.ID,
		TestName:      scenario.Name,
		ProducedCodes: produced,
		AnalysisID:    analysis.ID,
	}
	result.Precision, result.Recall, result.F1 = m.CodeScores(produced, truth.ExpectedCodes)
	result.RangeRecall, result.MissingRanges = m.RangeRecall(analysis.Ranges.CodeRanges(), truth.ExpectedRanges)
	result.MissingCodes = difference(truth.ExpectedCodes, produced)
	result.ExtraCodes = difference(produced, truth.ExpectedCodes)
	result.ForbiddenFound = intersection(produced, truth.ForbiddenCodes)

	result.Status = StatusFail
	if result.F1 >= m.threshold && result.RangeRecall >= m.threshold && len(result.ForbiddenFound) == 0 {
		result.Status = StatusPass
	}
	return result
}

// Summary aggregates a run
type Summary struct {
	Total         int     `json:"total_tests"`
	Passed        int     `json:"passed"`
	Failed        int     `json:"failed"`
	Errored       int     `json:"errored"`
	MeanPrecision float64 `json:"mean_precision"`
	MeanRecall    float64 `json:"mean_recall"`
	MeanF1        float64 `json:"mean_f1"`
}

// Summarize averages scores over the results that ran without error
func Summarize(results []TestResult) Summary {
	s := Summary{Total: len(results)}
	scored := 0
	for _, r := range results {
		switch r.Status {
		case StatusPass:
			s.Passed++
		case StatusError:
			s.Errored++
			continue
		default:
			s.Failed++
		}
		scored++
		s.MeanPrecision += r.Precision
		s.MeanRecall += r.Recall
		s.MeanF1 += r.F1
	}
	if scored > 0 {
		s.MeanPrecision /= float64(scored)
		s.MeanRecall /= float64(scored)
		s.MeanF1 /= float64(scored)
	}
	return s
}

// String renders a one-line summary
func (s Summary) String() string {
	return fmt.Sprintf("%d/%d passed (%d failed, %d errors), mean F1 %.2f, precision %.2f, recall %.2f",
		s.Passed, s.Total, s.Failed, s.Errored, s.MeanF1, s.MeanPrecision, s.MeanRecall)
}

func normalizeCode(c string) string {
	return strings.ToUpper(strings.TrimSpace(c))
}

func codeSet(codes []string) map[string]bool {
	set := make(map[string]bool, len(codes))
	for _, c := range codes {
		if n := normalizeCode(c); n != "" {
			set[n] = true
		}
	}
	return set
}

// difference returns the codes of a missing from b, in a's order
func difference(a, b []string) []string {
	exclude := codeSet(b)
	var out []string
	seen := make(map[string]bool)
	for _, c := range a {
		n := normalizeCode(c)
		if n == "" || exclude[n] || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

func intersection(a, b []string) []string {
	include := codeSet(b)
	var out []string
	seen := make(map[string]bool)
	for _, c := range a {
		n := normalizeCode(c)
		if include[n] && !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}
