// ABOUTME: Runs labelled scenarios through the coder and collects scored results
// ABOUTME: Prints progress when verbose and exports a JSON report
package eval

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/harper/cdt-coder/internal/core"
)

// Runner evaluates scenarios against a Coder
type Runner struct {
	coder   *core.Coder
	metrics *MetricsCalculator
	opts    core.RunOptions
	out     io.Writer
	verbose bool
	logger  zerolog.Logger
}

// RunnerOption configures a Runner
type RunnerOption func(*Runner)

// WithRunOptions sets the pipeline stages used for every scenario
func WithRunOptions(opts core.RunOptions) RunnerOption {
	return func(r *Runner) { r.opts = opts }
}

// WithVerbose prints per-scenario progress to w
func WithVerbose(w io.Writer) RunnerOption {
	return func(r *Runner) {
		r.out = w
		r.verbose = w != nil
	}
}

// WithThreshold sets the pass threshold
func WithThreshold(threshold float64) RunnerOption {
	return func(r *Runner) { r.metrics = NewMetricsCalculator(threshold) }
}

// NewRunner creates a runner. Scenarios run with cleanup and inspection on
// and nothing is saved unless WithRunOptions says otherwise.
func NewRunner(coder *core.Coder, logger zerolog.Logger, opts ...RunnerOption) *Runner {
	r := &Runner{
		coder:   coder,
		metrics: NewMetricsCalculator(DefaultPassThreshold),
		opts:    core.RunOptions{Clean: true, Inspect: true},
		out:     io.Discard,
		logger:  logger.With().Str("component", "eval").Logger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunTest codes one scenario and scores it. A pipeline error is reported
// as an ERROR result rather than returned.
func (r *Runner) RunTest(ctx context.Context, scenario TestScenario) TestResult {
	start := time.Now()
	r.printf("\n=== %s: %s ===\n", scenario.ID, scenario.Name)

	opts := r.opts
	if scenario.Answers != "" {
		opts.Answers = scenario.Answers
	}

	analysis, err := r.coder.Code(ctx, scenario.Scenario, opts)
	if analysis == nil {
		msg := "no analysis produced"
		if err != nil {
			msg = err.Error()
		}
		r.logger.Warn().Str("scenario", scenario.ID).Str("error", msg).Msg("scenario errored")
		r.printf("  ERROR: %s\n", msg)
		return TestResult{TestID: scenario.ID, TestName: scenario.Name, Status: StatusError, ProducedCodes: []string{}, ErrorMessage: msg}
	}

	result := r.metrics.EvaluateTest(scenario, analysis)
	if err != nil {
		result.ErrorMessage = err.Error()
	}

	r.logger.Debug().
		Str("scenario", scenario.ID).
		Str("status", result.Status).
		Float64("f1", result.F1).
		Dur("elapsed", time.Since(start)).
		Msg("scenario evaluated")

	r.printf("  produced: %v\n", result.ProducedCodes)
	r.printf("  expected: %v\n", scenario.GroundTruth.ExpectedCodes)
	r.printf("  precision %.2f  recall %.2f  F1 %.2f  range recall %.2f\n",
		result.Precision, result.Recall, result.F1, result.RangeRecall)
	if len(result.ForbiddenFound) > 0 {
		r.printf("  forbidden codes: %v\n", result.ForbiddenFound)
	}
	r.printf("  %s\n", result.Status)
	return result
}

// RunAll runs every scenario in order. It stops early only when ctx is done.
func (r *Runner) RunAll(ctx context.Context, scenarios []TestScenario) ([]TestResult, error) {
	results := make([]TestResult, 0, len(scenarios))
	for _, s := range scenarios {
		if err := ctx.Err(); err != nil {
			return results, fmt.Errorf("evaluation interrupted: %w", err)
		}
		results = append(results, r.RunTest(ctx, s))
	}
	return results, nil
}

// Report is the exported form of a run
type Report struct {
	Timestamp string       `json:"timestamp"`
	Threshold float64      `json:"threshold"`
	Summary   Summary      `json:"summary"`
	Results   []TestResult `json:"results"`
}

// NewReport builds a report for results
func (r *Runner) NewReport(results []TestResult) Report {
	return Report{
		Timestamp: time.Now().Format(time.RFC3339),
		Threshold: r.metrics.Threshold(),
		Summary:   Summarize(results),
		Results:   results,
	}
}

// WriteJSON writes the report as indented JSON
func WriteJSON(w io.Writer, report Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return nil
}

// ExportResults writes the report to outputPath
func (r *Runner) ExportResults(results []TestResult, outputPath string) error {
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("creating results file: %w", err)
	}
	defer f.Close()
	return WriteJSON(f, r.NewReport(results))
}

func (r *Runner) printf(format string, args ...any) {
	if r.verbose {
		fmt.Fprintf(r.out, format, args...)
	}
}
