// ABOUTME: Coder runs the full pipeline: cleanup, range classification, topic fan-out,
// ABOUTME: clarifying questions and final inspection, optionally persisting the analysis
package core

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/harper/cdt-coder/internal/llm"
	"github.com/harper/cdt-coder/internal/models"
)

// AnalysisSaver persists finished analyses
type AnalysisSaver interface {
	SaveAnalysis(a *models.Analysis) error
}

// CodeCheckSaver persists code checks. A store passed to WithStore that also
// implements it keeps checks run with save set.
type CodeCheckSaver interface {
	SaveCodeCheck(c *models.CodeCheck) error
}

// RunOptions selects the optional pipeline stages for one call
type RunOptions struct {
	Clean     bool
	Questions bool
	Inspect   bool
	Answers   string
	Save      bool
}

// Coder wires the pipeline stages together. Safe for concurrent use.
type Coder struct {
	cleaner    *ScenarioCleaner
	ranges     *RangeClassifier
	services   *ServiceSet
	questioner *Questioner
	inspector  *Inspector
	verifier   *CodeVerifier
	store      AnalysisSaver
	topicLimit int
	logger     zerolog.Logger
}

// CoderOption configures a Coder
type CoderOption func(*Coder)

// WithStore persists analyses run with RunOptions.Save
func WithStore(store AnalysisSaver) CoderOption {
	return func(c *Coder) { c.store = store }
}

// WithTopicConcurrency caps how many topics are activated at once
func WithTopicConcurrency(n int) CoderOption {
	return func(c *Coder) { c.topicLimit = n }
}

// NewCoder creates a Coder over services, using gw for the pipeline prompts
func NewCoder(gw llm.Gateway, services *ServiceSet, logger zerolog.Logger, opts ...CoderOption) *Coder {
	c := &Coder{
		cleaner:    NewScenarioCleaner(gw, logger),
		ranges:     NewRangeClassifier(gw, logger),
		services:   services,
		questioner: NewQuestioner(gw, logger),
		inspector:  NewInspector(gw, logger),
		verifier:   NewCodeVerifier(gw, logger),
		logger:     logger.With().Str("component", "coder").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Services returns the topic services the coder fans out to
func (c *Coder) Services() *ServiceSet { return c.services }

// Code analyzes one scenario. Model failures are recorded in the analysis;
// only an empty scenario or a storage failure return an error.
func (c *Coder) Code(ctx context.Context, scenario string, opts RunOptions) (*models.Analysis, error) {
	analysis, err := models.NewAnalysis(scenario)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	logger := c.logger.With().Str("analysis_id", analysis.ID).Logger()

	analysis.ProcessedScenario = analysis.Scenario
	if opts.Clean {
		analysis.ProcessedScenario = c.cleaner.Standardize(ctx, analysis.Scenario)
	}

	analysis.Ranges = c.ranges.Classify(ctx, analysis.ProcessedScenario)
	analysis.Topics = c.activateTopics(ctx, analysis.ProcessedScenario, analysis.Ranges)

	analysis.Questions = models.Questions{Items: []string{}}
	if opts.Questions {
		analysis.Questions = c.questioner.Ask(ctx, analysis.ProcessedScenario, analysis.Topics)
	}
	if opts.Inspect {
		inspection := c.inspector.Inspect(ctx, analysis.ProcessedScenario, analysis.Topics, opts.Answers)
		analysis.Inspection = &inspection
	}

	logger.Info().
		Strs("ranges", analysis.Ranges.CodeRanges()).
		Strs("codes", analysis.FinalCodes()).
		Dur("elapsed", time.Since(start)).
		Msg("scenario coded")

	if opts.Save && c.store != nil {
		if err := c.store.SaveAnalysis(analysis); err != nil {
			return analysis, fmt.Errorf("saving analysis: %w", err)
		}
	}
	return analysis, nil
}

// Verify checks user-supplied codes against scenario and optionally saves
// the check. Only invalid input or a storage failure return an error.
func (c *Coder) Verify(ctx context.Context, scenario string, codes []string, save bool) (*models.CodeCheck, error) {
	check, err := c.verifier.Verify(ctx, scenario, codes)
	if err != nil {
		return nil, err
	}
	if !save {
		return check, nil
	}
	if saver, ok := c.store.(CodeCheckSaver); ok {
		if err := saver.SaveCodeCheck(check); err != nil {
			return check, fmt.Errorf("saving code check: %w", err)
		}
	}
	return check, nil
}

// activateTopics fans out to every known topic named by the classification,
// keeping classification order. Unknown ranges are skipped.
func (c *Coder) activateTopics(ctx context.Context, scenario string, ranges models.RangeClassification) []models.TopicResult {
	var selected []*TopicService
	seen := make(map[string]bool)
	for _, codeRange := range ranges.CodeRanges() {
		svc, ok := c.services.ForRange(codeRange)
		if !ok {
			c.logger.Debug().Str("code_range", codeRange).Msg("no topic service for range")
			continue
		}
		if seen[codeRange] {
			continue
		}
		seen[codeRange] = true
		selected = append(selected, svc)
	}

	return gather(ctx, selected, c.topicLimit, func(ctx context.Context, svc *TopicService) models.TopicResult {
		return models.TopicResult{
			Topic:     svc.Name(),
			CodeRange: svc.CodeRange(),
			Result:    svc.Activate(ctx, scenario),
		}
	})
}
