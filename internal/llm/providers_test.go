// ABOUTME: Provider gateway tests against local httptest servers standing in for the APIs
// ABOUTME: Checks that blank completions are answers, not failures, through the full chain
package llm_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harper/cdt-coder/internal/core"
	"github.com/harper/cdt-coder/internal/llm"
	"github.com/harper/cdt-coder/internal/models"
)

// apiServer answers every request with body and counts the calls
func apiServer(t *testing.T, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func newGateway(t *testing.T, provider, baseURL string) llm.Gateway {
	t.Helper()
	gw, err := llm.New(context.Background(), llm.Options{
		Provider:   provider,
		APIKey:     "test-key",
		BaseURL:    baseURL,
		MaxRetries: 2,
		RetryDelay: 200 * time.Millisecond,
		Logger:     zerolog.Nop(),
	})
	require.NoError(t, err)
	return gw
}

const blankChatCompletion = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "model": "gpt-4o-mini",
  "choices": [{"index": 0, "message": {"role": "assistant", "content": ""}, "finish_reason": "stop"}]
}`

func TestOpenAIGateway_BlankCompletionIsNotRetried(t *testing.T) {
	srv, calls := apiServer(t, blankChatCompletion)
	gw := newGateway(t, "openai", srv.URL)

	start := time.Now()
	out, err := gw.Invoke(context.Background(), "Code for {scenario}", map[string]string{"scenario": "exam"})
	require.NoError(t, err)
	assert.Equal(t, "", out)
	assert.Equal(t, int32(1), calls.Load())
	assert.Less(t, time.Since(start), 150*time.Millisecond)
}

func TestOpenAIGateway_BlankCompletionIsAnEmptyOutcome(t *testing.T) {
	srv, calls := apiServer(t, blankChatCompletion)
	gw := newGateway(t, "openai", srv.URL)

	h := core.NewSubtopicHandler(gw, "D0120-D0180", "Evaluations", "Code for {scenario}", zerolog.Nop())
	r := core.NewSubtopicRegistry()
	r.MustRegister(h.Key(), h.Invoke(), h.Label())

	agg := r.ActivateAll(context.Background(), "periodic exam", "D0120-D0180")
	require.Len(t, agg.Outcomes, 1)
	assert.Equal(t, models.OutcomeEmpty, agg.Outcomes[0].Status)
	assert.Empty(t, agg.Outcomes[0].Error)
	assert.Empty(t, agg.Codes)
	assert.Empty(t, agg.Failures())
	assert.Equal(t, int32(1), calls.Load())
}

func TestOpenAIGateway_NoChoicesIsAnError(t *testing.T) {
	srv, calls := apiServer(t, `{"id": "chatcmpl-2", "object": "chat.completion", "choices": []}`)
	gw, err := llm.New(context.Background(), llm.Options{
		Provider:   "openai",
		APIKey:     "test-key",
		BaseURL:    srv.URL,
		MaxRetries: 2,
		RetryDelay: time.Millisecond,
	})
	require.NoError(t, err)

	_, err = gw.Invoke(context.Background(), "prompt", nil)
	assert.True(t, errors.Is(err, llm.ErrEmptyResponse), "got %v", err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestOpenAIGateway_ReturnsText(t *testing.T) {
	srv, _ := apiServer(t, `{
  "id": "chatcmpl-3",
  "object": "chat.completion",
  "choices": [{"index": 0, "message": {"role": "assistant", "content": " D0120 "}, "finish_reason": "stop"}]
}`)
	gw := newGateway(t, "openai", srv.URL)

	out, err := gw.Invoke(context.Background(), "prompt", nil)
	require.NoError(t, err)
	assert.Equal(t, " D0120 ", out)
	assert.Equal(t, "openai", gw.Name())
}

func TestAnthropicGateway_BlankMessageIsNotRetried(t *testing.T) {
	srv, calls := apiServer(t, `{
  "id": "msg_1",
  "type": "message",
  "role": "assistant",
  "model": "claude-3-5-haiku-latest",
  "content": [],
  "stop_reason": "end_turn",
  "usage": {"input_tokens": 10, "output_tokens": 0}
}`)
	gw := newGateway(t, "anthropic", srv.URL)

	out, err := gw.Invoke(context.Background(), "prompt", nil)
	require.NoError(t, err)
	assert.Equal(t, "", out)
	assert.Equal(t, int32(1), calls.Load())
}
