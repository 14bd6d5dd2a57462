// ABOUTME: SubtopicRegistry maps bucket keys to handlers and fans out to the matched ones
// ABOUTME: Collects non-empty codes in relevance order and records every handler outcome
package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/harper/cdt-coder/internal/models"
)

var (
	// ErrDuplicateKey is returned when a bucket key is registered twice
	ErrDuplicateKey = errors.New("duplicate bucket key")
	// ErrInvalidEntry is returned for an empty key or a nil handler
	ErrInvalidEntry = errors.New("invalid handler entry")
)

// HandlerEntry is one registered bucket
type HandlerEntry struct {
	Key    string
	Label  string
	Invoke InvokeFunc
}

// Recorder receives fan-out observations. Implementations must be safe
// for concurrent use.
type Recorder interface {
	ObserveSubtopic(topic, key string, status models.OutcomeStatus, elapsed time.Duration)
	ObserveActivation(topic string, activated int, elapsed time.Duration)
}

// SubtopicRegistry holds the handlers of one topic.
// Registration is not safe for concurrent use; activation is.
type SubtopicRegistry struct {
	topic          string
	entries        []HandlerEntry
	index          map[string]int
	match          MatchRule
	handlerTimeout time.Duration
	maxConcurrency int
	logger         zerolog.Logger
	recorder       Recorder
}

// RegistryOption configures a SubtopicRegistry
type RegistryOption func(*SubtopicRegistry)

// WithMatchRule sets the rule deciding which entries an output activates
func WithMatchRule(rule MatchRule) RegistryOption {
	return func(r *SubtopicRegistry) {
		if rule != nil {
			r.match = rule
		}
	}
}

// WithHandlerTimeout bounds each handler; a slow handler yields Empty. Zero disables it.
func WithHandlerTimeout(d time.Duration) RegistryOption {
	return func(r *SubtopicRegistry) { r.handlerTimeout = d }
}

// WithMaxConcurrency caps the handlers running at once. Zero means no cap.
func WithMaxConcurrency(n int) RegistryOption {
	return func(r *SubtopicRegistry) { r.maxConcurrency = n }
}

// WithLogger sets the registry logger
func WithLogger(logger zerolog.Logger) RegistryOption {
	return func(r *SubtopicRegistry) { r.logger = logger }
}

// WithRecorder reports outcomes and latencies to rec
func WithRecorder(rec Recorder) RegistryOption {
	return func(r *SubtopicRegistry) { r.recorder = rec }
}

// WithTopic names the topic in logs and metrics
func WithTopic(name string) RegistryOption {
	return func(r *SubtopicRegistry) { r.topic = name }
}

// NewSubtopicRegistry creates an empty registry using ExactKeyRule
func NewSubtopicRegistry(opts ...RegistryOption) *SubtopicRegistry {
	r := &SubtopicRegistry{
		index:  make(map[string]int),
		match:  ExactKeyRule,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a handler under key. Duplicate keys are rejected.
func (r *SubtopicRegistry) Register(key string, invoke InvokeFunc, label string) error {
	if key == "" || invoke == nil {
		return fmt.Errorf("%w: key %q", ErrInvalidEntry, key)
	}
	if _, exists := r.index[key]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateKey, key)
	}
	r.index[key] = len(r.entries)
	r.entries = append(r.entries, HandlerEntry{Key: key, Label: label, Invoke: invoke})
	return nil
}

// MustRegister is Register that panics on error, for static wiring
func (r *SubtopicRegistry) MustRegister(key string, invoke InvokeFunc, label string) {
	if err := r.Register(key, invoke, label); err != nil {
		panic(err)
	}
}

// Len returns the number of registered entries
func (r *SubtopicRegistry) Len() int {
	return len(r.entries)
}

// Entries returns the entries in registration order
func (r *SubtopicRegistry) Entries() []HandlerEntry {
	out := make([]HandlerEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Match returns the entries the output activates, ordered by where each is
// first mentioned in output. Entries mentioned at the same position keep
// registration order.
func (r *SubtopicRegistry) Match(output string) []HandlerEntry {
	if output == "" {
		return nil
	}

	type hit struct {
		entry HandlerEntry
		pos   int
	}
	var hits []hit
	for _, e := range r.entries {
		if pos := r.match(output, e.Key, e.Label); pos >= 0 {
			hits = append(hits, hit{entry: e, pos: pos})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })

	out := make([]HandlerEntry, len(hits))
	for i, h := range hits {
		out[i] = h.entry
	}
	return out
}

// ActivateAll runs every entry the output activates concurrently, waits for
// all of them and merges their codes in activation order with duplicates
// removed. It never fails: errors, panics and timeouts become Empty outcomes.
func (r *SubtopicRegistry) ActivateAll(ctx context.Context, scenario, output string) models.AggregateResult {
	start := time.Now()
	matched := r.Match(output)

	agg := models.AggregateResult{
		ClassifierOutput: output,
		ActivatedKeys:    make([]string, 0, len(matched)),
		Codes:            []string{},
	}
	for _, e := range matched {
		agg.ActivatedKeys = append(agg.ActivatedKeys, e.Key)
	}

	if len(matched) == 0 {
		r.logger.Debug().Str("topic", r.topic).Msg("no subtopics activated")
		r.observeActivation(0, time.Since(start))
		return agg
	}

	agg.Outcomes = gather(ctx, matched, r.maxConcurrency, func(ctx context.Context, e HandlerEntry) models.SubtopicOutcome {
		return r.run(ctx, e, scenario)
	})

	seen := make(map[string]struct{}, len(agg.Outcomes))
	for _, o := range agg.Outcomes {
		code, ok := o.Code.Value()
		if !ok {
			continue
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		agg.Codes = append(agg.Codes, code)
	}

	r.logger.Debug().
		Str("topic", r.topic).
		Strs("activated", agg.ActivatedKeys).
		Strs("codes", agg.Codes).
		Dur("elapsed", time.Since(start)).
		Msg("subtopics activated")
	r.observeActivation(len(matched), time.Since(start))
	return agg
}

// run executes one entry under the optional timeout and turns the result into an outcome
func (r *SubtopicRegistry) run(ctx context.Context, e HandlerEntry, scenario string) models.SubtopicOutcome {
	start := time.Now()
	out := r.invoke(ctx, e, scenario)
	res, err := out.res, out.err

	outcome := models.SubtopicOutcome{
		Key:      e.Key,
		Label:    e.Label,
		Code:     models.Empty(),
		Duration: time.Since(start),
	}
	switch {
	case out.timedOut:
		outcome.Status = models.OutcomeTimeout
		outcome.Error = fmt.Sprintf("handler exceeded %s", r.handlerTimeout)
	case err != nil:
		outcome.Status = models.OutcomeFailed
		outcome.Error = err.Error()
	case res.IsEmpty():
		outcome.Status = models.OutcomeEmpty
	default:
		outcome.Status = models.OutcomeCode
		outcome.Code = res
	}

	if outcome.Error != "" {
		r.logger.Warn().Str("topic", r.topic).Str("bucket", e.Key).Str("status", string(outcome.Status)).
			Str("error", outcome.Error).Msg("subtopic handler did not complete")
	}
	if r.recorder != nil {
		r.recorder.ObserveSubtopic(r.topic, e.Key, outcome.Status, outcome.Duration)
	}
	return outcome
}

type invokeResult struct {
	res      models.Result
	err      error
	timedOut bool
}

// invoke calls the handler, bounding it by the handler timeout when one is set.
// A handler that ignores its context is abandoned once the timeout fires.
func (r *SubtopicRegistry) invoke(ctx context.Context, e HandlerEntry, scenario string) invokeResult {
	if r.handlerTimeout <= 0 {
		res, err := callSafely(ctx, e.Invoke, scenario)
		return invokeResult{res: res, err: err}
	}

	hctx, cancel := context.WithTimeout(ctx, r.handlerTimeout)
	defer cancel()

	done := make(chan invokeResult, 1)
	go func() {
		res, err := callSafely(hctx, e.Invoke, scenario)
		done <- invokeResult{res: res, err: err}
	}()

	select {
	case out := <-done:
		if out.err != nil && errors.Is(hctx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			out.timedOut = true
		}
		return out
	case <-hctx.Done():
		if ctx.Err() != nil {
			return invokeResult{res: models.Empty(), err: ctx.Err()}
		}
		return invokeResult{res: models.Empty(), err: hctx.Err(), timedOut: true}
	}
}

// callSafely converts a handler panic into an error
func callSafely(ctx context.Context, invoke InvokeFunc, scenario string) (res models.Result, err error) {
	defer func() {
		if p := recover(); p != nil {
			res = models.Empty()
			err = fmt.Errorf("handler panicked: %v", p)
		}
	}()
	return invoke(ctx, scenario)
}

func (r *SubtopicRegistry) observeActivation(activated int, elapsed time.Duration) {
	if r.recorder != nil {
		r.recorder.ObserveActivation(r.topic, activated, elapsed)
	}
}
