// ABOUTME: End-to-end tests for the Coder pipeline over a scripted gateway
// ABOUTME: Verifies stage wiring, topic ordering, failure recording and persistence

package core

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harper/cdt-coder/internal/llm"
	"github.com/harper/cdt-coder/internal/models"
)

const coderScenario = "Patient presented with pain on #19. Root canal therapy completed on the molar."

func scriptedGateway() *llm.FakeGateway {
	return llm.NewFakeGateway(llm.MarkerResponder(map[string]string{
		"preparing a dental clinical note": "Findings: pain on #19. Procedures: root canal therapy on molar #19.",
		"CDT categories:": "CODE_RANGE: D3000-D3999 - Endodontics\nEXPLANATION: Root canal performed.\nDOUBT: none\n" +
			"CODE_RANGE: D0100-D0999 - Diagnostic\nEXPLANATION: Pain was evaluated.\nDOUBT: none",
		"decide which of the Endodontics code ranges":                        "CODE RANGE: D3310-D3333",
		"decide which of the Diagnostic code ranges":                         "CODE RANGE: D0210-D0391, D0120-D0180",
		"Focus only on Endodontic Therapy (D3310-D3333) within Endodontics":  "D3330",
		"Focus only on Diagnostic Imaging (D0210-D0391) within Diagnostic":   "D0220",
		"Focus only on Clinical Oral Evaluations (D0120-D0180) within Diagn": "D0140",
		"reviewing a dental scenario before final":                           "CDT_QUESTIONS:\nWhich canals were treated?\nCDT_EXPLANATION: Affects the code.",
		"final reviewer of CDT codes":                                        "EXPLANATION: Supported.\nCODES: D3330, D0220\nREJECTED CODES: D0140",
	}, "None"))
}

func newTestCoder(t *testing.T, gw llm.Gateway, opts ...CoderOption) *Coder {
	t.Helper()
	services, err := NewServiceSet(gw, zerolog.Nop())
	require.NoError(t, err)
	return NewCoder(gw, services, zerolog.Nop(), opts...)
}

type memorySaver struct {
	mu    sync.Mutex
	saved []*models.Analysis
	err   error
}

func (m *memorySaver) SaveAnalysis(a *models.Analysis) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, a)
	return nil
}

func TestCoder_FullPipeline(t *testing.T) {
	coder := newTestCoder(t, scriptedGateway())

	a, err := coder.Code(context.Background(), coderScenario, RunOptions{Clean: true, Questions: true, Inspect: true})
	require.NoError(t, err)

	assert.NotEmpty(t, a.ID)
	assert.Equal(t, coderScenario, a.Scenario)
	assert.Equal(t, "Findings: pain on #19. Procedures: root canal therapy on molar #19.", a.ProcessedScenario)
	assert.Equal(t, []string{"D3000-D3999", "D0100-D0999"}, a.Ranges.CodeRanges())

	require.Len(t, a.Topics, 2)
	assert.Equal(t, "Endodontics", a.Topics[0].Topic)
	assert.Equal(t, []string{"D3330"}, a.Topics[0].Result.Codes)
	assert.Equal(t, "Diagnostic", a.Topics[1].Topic)
	assert.Equal(t, []string{"D0210-D0391", "D0120-D0180"}, a.Topics[1].Result.ActivatedKeys)
	assert.Equal(t, []string{"D0220", "D0140"}, a.Topics[1].Result.Codes)

	assert.Equal(t, []string{"D3330", "D0220", "D0140"}, a.CandidateCodes())
	assert.Equal(t, []string{"Which canals were treated?"}, a.Questions.Items)

	require.NotNil(t, a.Inspection)
	assert.Equal(t, []string{"D3330", "D0220"}, a.Inspection.Codes)
	assert.Equal(t, []string{"D0140"}, a.Inspection.RejectedCodes)
	assert.Equal(t, []string{"D3330", "D0220"}, a.FinalCodes())
}

func TestCoder_OptionalStagesSkipped(t *testing.T) {
	gw := scriptedGateway()
	coder := newTestCoder(t, gw)

	a, err := coder.Code(context.Background(), coderScenario, RunOptions{})
	require.NoError(t, err)

	assert.Equal(t, coderScenario, a.ProcessedScenario)
	assert.Nil(t, a.Inspection)
	assert.Empty(t, a.Questions.Items)
	assert.Equal(t, a.CandidateCodes(), a.FinalCodes())
	for _, p := range gw.Prompts() {
		assert.NotContains(t, p, "preparing a dental clinical note")
		assert.NotContains(t, p, "final reviewer of CDT codes")
	}
}

func TestCoder_ModelFailuresAreRecorded(t *testing.T) {
	gw := llm.NewFakeGateway(func(context.Context, string) (string, error) {
		return "", errors.New("provider unavailable")
	})
	coder := newTestCoder(t, gw)

	a, err := coder.Code(context.Background(), coderScenario, RunOptions{Clean: true, Questions: true, Inspect: true})
	require.NoError(t, err)

	assert.Equal(t, coderScenario, a.ProcessedScenario)
	assert.Equal(t, "provider unavailable", a.Ranges.Error)
	assert.Equal(t, []string{"D3000-D3999"}, a.Ranges.CodeRanges())
	require.Len(t, a.Topics, 1)
	assert.Empty(t, a.Topics[0].Result.Codes)
	assert.NotEmpty(t, a.Questions.Error)
	require.NotNil(t, a.Inspection)
	assert.NotEmpty(t, a.Inspection.Error)
	assert.Empty(t, a.FinalCodes())
}

func TestCoder_UnknownRangesAreSkipped(t *testing.T) {
	gw := llm.NewFakeGateway(llm.MarkerResponder(map[string]string{
		"CDT categories:": "CODE_RANGE: D9999-D9999 - Made up\nEXPLANATION: x\nDOUBT: none",
	}, "None"))
	coder := newTestCoder(t, gw)

	a, err := coder.Code(context.Background(), "Composite on #8", RunOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"D9999-D9999"}, a.Ranges.CodeRanges())
	assert.Empty(t, a.Topics)
	assert.NotNil(t, a.Topics)
}

func TestCoder_EmptyScenario(t *testing.T) {
	coder := newTestCoder(t, scriptedGateway())

	_, err := coder.Code(context.Background(), "   ", RunOptions{})
	assert.Error(t, err)
}

func TestCoder_SavesWhenAsked(t *testing.T) {
	saver := &memorySaver{}
	coder := newTestCoder(t, scriptedGateway(), WithStore(saver))

	a, err := coder.Code(context.Background(), coderScenario, RunOptions{Save: true})
	require.NoError(t, err)
	require.Len(t, saver.saved, 1)
	assert.Equal(t, a.ID, saver.saved[0].ID)

	_, err = coder.Code(context.Background(), coderScenario, RunOptions{})
	require.NoError(t, err)
	assert.Len(t, saver.saved, 1)
}

func TestCoder_SaveFailureIsReturned(t *testing.T) {
	saver := &memorySaver{err: errors.New("disk full")}
	coder := newTestCoder(t, scriptedGateway(), WithStore(saver))

	a, err := coder.Code(context.Background(), coderScenario, RunOptions{Save: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.NotNil(t, a)
}

func TestCoder_TopicConcurrencyLimit(t *testing.T) {
	var mu sync.Mutex
	inFlight, peak := 0, 0
	answer := llm.MarkerResponder(map[string]string{
		"CDT categories:": "CODE_RANGE: D3000-D3999 - Endodontics\nEXPLANATION: x\nDOUBT: none\n" +
			"CODE_RANGE: D0100-D0999 - Diagnostic\nEXPLANATION: x\nDOUBT: none",
	}, "None")
	gw := llm.NewFakeGateway(func(ctx context.Context, prompt string) (string, error) {
		if !strings.Contains(prompt, "code ranges") || strings.Contains(prompt, "CDT categories:") {
			return answer(ctx, prompt)
		}
		mu.Lock()
		inFlight++
		if inFlight > peak {
			peak = inFlight
		}
		mu.Unlock()
		time.Sleep(20 * time.Millisecond)
		mu.Lock()
		inFlight--
		mu.Unlock()
		return "None", nil
	})

	c := newTestCoder(t, gw, WithTopicConcurrency(1))
	a, err := c.Code(context.Background(), coderScenario, RunOptions{})
	require.NoError(t, err)

	require.Len(t, a.Topics, 2)
	assert.Equal(t, "Endodontics", a.Topics[0].Topic)
	assert.Equal(t, "Diagnostic", a.Topics[1].Topic)
	assert.Equal(t, 1, peak)
}
