// ABOUTME: Tests for the HTTP API using httptest against a scripted gateway
// ABOUTME: Covers analysis, code verification, topic activation, history lookups, CORS and metrics
package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harper/cdt-coder/internal/core"
	"github.com/harper/cdt-coder/internal/llm"
	"github.com/harper/cdt-coder/internal/metrics"
	"github.com/harper/cdt-coder/internal/storage/sqlite"
)

type response struct {
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

type fixture struct {
	handler http.Handler
	store   *sqlite.Storage
}

func newFixture(t *testing.T, withHistory bool) fixture {
	t.Helper()
	gw := llm.NewFakeGateway(llm.MarkerResponder(map[string]string{
		"decide which of the Endodontics code ranges":                       "CODE RANGE: D3310-D3333",
		"Focus only on Endodontic Therapy (D3310-D3333) within Endodontics": "D3330",
		"checking CDT codes against a clinical scenario":                    "CDT_CODE: D3330\nAPPLICABLE: yes\nREASON: Molar root canal.",
	}, "None"))

	services, err := core.NewServiceSet(gw, zerolog.Nop())
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	opts := Options{
		Metrics:        metrics.New(reg),
		Gatherer:       reg,
		Logger:         zerolog.Nop(),
		AllowedOrigins: []string{"http://localhost:5173"},
	}

	var store *sqlite.Storage
	var coderOpts []core.CoderOption
	if withHistory {
		store, err = sqlite.NewStorageInMemory()
		require.NoError(t, err)
		t.Cleanup(func() { _ = store.Close() })
		opts.History = store
		coderOpts = append(coderOpts, core.WithStore(store))
	}
	opts.Coder = core.NewCoder(gw, services, zerolog.Nop(), coderOpts...)

	return fixture{handler: New(opts).Router(), store: store}
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, response) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp response
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	}
	return rec, resp
}

func TestHealth(t *testing.T) {
	f := newFixture(t, false)

	rec, _ := do(t, f.handler, http.MethodGet, "/", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "CDT coder API is running")
}

func TestAnalyze(t *testing.T) {
	f := newFixture(t, true)

	rec, resp := do(t, f.handler, http.MethodPost, "/api/analyze", `{"scenario":"Root canal on #19","save":true}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "success", resp.Status)

	var analysis struct {
		ID     string `json:"id"`
		Topics []struct {
			Topic  string `json:"topic"`
			Result struct {
				Codes []string `json:"codes"`
			} `json:"result"`
		} `json:"topics"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &analysis))
	assert.NotEmpty(t, analysis.ID)
	require.Len(t, analysis.Topics, 1)
	assert.Equal(t, "Endodontics", analysis.Topics[0].Topic)
	assert.Equal(t, []string{"D3330"}, analysis.Topics[0].Result.Codes)

	saved, err := f.store.GetAnalysis(analysis.ID)
	require.NoError(t, err)
	assert.NotNil(t, saved)
}

func TestVerify(t *testing.T) {
	f := newFixture(t, true)

	rec, resp := do(t, f.handler, http.MethodPost, "/api/verify", `{"scenario":"Root canal on #19","codes":["d3330","D3310"],"save":true}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "success", resp.Status)

	var check struct {
		ID       string `json:"id"`
		Verdicts []struct {
			Code    string `json:"code"`
			Verdict string `json:"verdict"`
		} `json:"verdicts"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &check))
	require.Len(t, check.Verdicts, 2)
	assert.Equal(t, "D3330", check.Verdicts[0].Code)
	assert.Equal(t, "applicable", check.Verdicts[0].Verdict)
	assert.Equal(t, "unknown", check.Verdicts[1].Verdict)

	saved, err := f.store.GetCodeCheck(check.ID)
	require.NoError(t, err)
	assert.NotNil(t, saved)
}

func TestVerify_BadRequests(t *testing.T) {
	f := newFixture(t, false)

	tests := []struct {
		name string
		body string
	}{
		{"malformed", `{"scenario":`},
		{"blank scenario", `{"scenario":"  ","codes":["D3330"]}`},
		{"no codes", `{"scenario":"Root canal"}`},
		{"blank codes", `{"scenario":"Root canal","codes":[" ",""]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := do(t, f.handler, http.MethodPost, "/api/verify", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "error", resp.Status)
			assert.NotEmpty(t, resp.Message)
		})
	}
}

func TestAnalyze_BadRequests(t *testing.T) {
	f := newFixture(t, false)

	tests := []struct {
		name string
		body string
	}{
		{"empty scenario", `{"scenario":"   "}`},
		{"invalid json", `{"scenario":`},
		{"unknown field", `{"scenario":"x","bogus":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := do(t, f.handler, http.MethodPost, "/api/analyze", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "error", resp.Status)
			assert.NotEmpty(t, resp.Message)
			assert.NotContains(t, rec.Body.String(), `"error":`)
		})
	}
}

func TestActivateTopic(t *testing.T) {
	f := newFixture(t, false)

	rec, resp := do(t, f.handler, http.MethodPost, "/api/topics/endodontics/activate", `{"scenario":"Molar root canal"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var view activationView
	require.NoError(t, json.Unmarshal(resp.Data, &view))
	assert.Equal(t, "Endodontics", view.Topic)
	assert.Equal(t, "D3000-D3999", view.CodeRange)
	assert.Equal(t, []string{"D3310-D3333"}, view.Result.ActivatedKeys)
	assert.Equal(t, []string{"D3330"}, view.Result.Codes)
}

func TestActivateTopic_Unknown(t *testing.T) {
	f := newFixture(t, false)

	rec, resp := do(t, f.handler, http.MethodPost, "/api/topics/astrology/activate", `{"scenario":"x"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "error", resp.Status)
	assert.Contains(t, resp.Message, "astrology")
}

func TestListTopics(t *testing.T) {
	f := newFixture(t, false)

	rec, resp := do(t, f.handler, http.MethodGet, "/api/topics", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var topics []topicView
	require.NoError(t, json.Unmarshal(resp.Data, &topics))
	assert.Len(t, topics, 12)
	assert.Equal(t, "diagnostic", topics[0].Slug)
	assert.NotEmpty(t, topics[0].Buckets)
}

func TestHistoryEndpoints(t *testing.T) {
	f := newFixture(t, true)

	_, resp := do(t, f.handler, http.MethodPost, "/api/analyze", `{"scenario":"Root canal on #19","save":true}`)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &created))

	rec, resp := do(t, f.handler, http.MethodGet, "/api/analyses?limit=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)

	rec, _ = do(t, f.handler, http.MethodGet, "/api/analyses?code=D3330", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = do(t, f.handler, http.MethodGet, "/api/analyses/"+created.ID, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = do(t, f.handler, http.MethodGet, "/api/analyses/does-not-exist", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = do(t, f.handler, http.MethodGet, "/api/analyses?limit=zero", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHistoryDisabled(t *testing.T) {
	f := newFixture(t, false)

	rec, _ := do(t, f.handler, http.MethodGet, "/api/analyses", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	f := newFixture(t, false)

	req := httptest.NewRequest(http.MethodOptions, "/api/analyze", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/analyze", nil)
	req.Header.Set("Origin", "http://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec = httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t, false)

	do(t, f.handler, http.MethodGet, "/api/topics", "")
	rec, _ := do(t, f.handler, http.MethodGet, "/metrics", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "cdtcoder_http_request_duration_seconds")
}
