// ABOUTME: Tests for subtopic handlers, response normalization and the topic classifier
// ABOUTME: Uses the scripted FakeGateway in place of a model

package core

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harper/cdt-coder/internal/llm"
)

func TestNormalizeResponse(t *testing.T) {
	tests := []struct {
		raw   string
		empty bool
		code  string
	}{
		{"None", true, ""},
		{"  none \n", true, ""},
		{"", true, ""},
		{"   ", true, ""},
		{"Not Applicable", true, ""},
		{"This range is not applicable here", true, ""},
		{" D3330 ", false, "D3330"},
		{"D0220, D0230", false, "D0220, D0230"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			res := NormalizeResponse(tt.raw)
			assert.Equal(t, tt.empty, res.IsEmpty())
			if !tt.empty {
				code, ok := res.Value()
				require.True(t, ok)
				assert.Equal(t, tt.code, code)
			}
		})
	}
}

func TestSubtopicHandler_Attempt(t *testing.T) {
	gw := llm.NewFakeGateway(llm.StaticResponder(" D3330\n"))
	h := NewSubtopicHandler(gw, "D3310-D3333", "Endodontic Therapy", "Scenario: {scenario}", zerolog.Nop())

	res, err := h.Attempt(context.Background(), "root canal on #19")
	require.NoError(t, err)
	code, ok := res.Value()
	require.True(t, ok)
	assert.Equal(t, "D3330", code)
	assert.Equal(t, 1, gw.Calls())
	assert.Equal(t, []string{"Scenario: root canal on #19"}, gw.Prompts())
	assert.Equal(t, "D3310-D3333", h.Key())
	assert.Equal(t, "Endodontic Therapy", h.Label())
}

func TestSubtopicHandler_ErrorsPropagateFromAttempt(t *testing.T) {
	gw := llm.NewFakeGateway(func(context.Context, string) (string, error) {
		return "", errors.New("rate limited")
	})
	h := NewSubtopicHandler(gw, "K", "L", "{scenario}", zerolog.Nop())

	_, err := h.Attempt(context.Background(), "s")
	assert.Error(t, err)
	assert.True(t, h.Extract(context.Background(), "s").IsEmpty())
	assert.Equal(t, 2, gw.Calls())
}

func TestKeywordInvoke(t *testing.T) {
	invoke := KeywordInvoke("outcome assessment", "D4186")

	res, err := invoke(context.Background(), "Completed an Outcome Assessment today")
	require.NoError(t, err)
	code, ok := res.Value()
	assert.True(t, ok)
	assert.Equal(t, "D4186", code)

	res, err = invoke(context.Background(), "routine exam")
	require.NoError(t, err)
	assert.True(t, res.IsEmpty())
}

func TestTopicClassifier_Analyze(t *testing.T) {
	gw := llm.NewFakeGateway(llm.StaticResponder("  CODE RANGE: D0120-D0180  "))
	c := NewTopicClassifier(gw, "Diagnostic", "{scenario}", zerolog.Nop())

	assert.Equal(t, "CODE RANGE: D0120-D0180", c.Analyze(context.Background(), "exam"))
	assert.Equal(t, "Diagnostic", c.Name())
}

func TestTopicClassifier_FailureYieldsEmptyOutput(t *testing.T) {
	gw := llm.NewFakeGateway(func(context.Context, string) (string, error) {
		return "", errors.New("down")
	})
	c := NewTopicClassifier(gw, "Diagnostic", "{scenario}", zerolog.Nop())

	assert.Equal(t, "", c.Analyze(context.Background(), "exam"))
}
