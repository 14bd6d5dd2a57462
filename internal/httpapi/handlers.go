// ABOUTME: HTTP handlers for analysis, code verification, topic activation, the catalog and history
// ABOUTME: Responses use a {status, data} envelope
package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/harper/cdt-coder/internal/catalog"
	"github.com/harper/cdt-coder/internal/core"
	"github.com/harper/cdt-coder/internal/models"
)

type analyzeRequest struct {
	Scenario  string `json:"scenario"`
	Clean     *bool  `json:"clean,omitempty"`
	Questions *bool  `json:"questions,omitempty"`
	Inspect   *bool  `json:"inspect,omitempty"`
	Answers   string `json:"answers,omitempty"`
	Save      *bool  `json:"save,omitempty"`
}

// runOptions overlays the request flags on the server defaults
func (req analyzeRequest) runOptions(defaults core.RunOptions) core.RunOptions {
	opts := defaults
	if req.Clean != nil {
		opts.Clean = *req.Clean
	}
	if req.Questions != nil {
		opts.Questions = *req.Questions
	}
	if req.Inspect != nil {
		opts.Inspect = *req.Inspect
	}
	if req.Save != nil {
		opts.Save = *req.Save
	}
	opts.Answers = req.Answers
	return opts
}

type verifyRequest struct {
	Scenario string   `json:"scenario"`
	Codes    []string `json:"codes"`
	Save     *bool    `json:"save,omitempty"`
}

type activateRequest struct {
	Scenario string `json:"scenario"`
}

type topicView struct {
	Name      string       `json:"name"`
	Slug      string       `json:"slug"`
	CodeRange string       `json:"code_range"`
	Summary   string       `json:"summary"`
	Buckets   []bucketView `json:"buckets"`
}

type bucketView struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

type activationView struct {
	Topic     string                 `json:"topic"`
	CodeRange string                 `json:"code_range"`
	Result    models.AggregateResult `json:"result"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"message":"CDT coder API is running"}` + "\n"))
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Scenario) == "" {
		writeError(w, http.StatusBadRequest, "scenario is required")
		return
	}

	analysis, err := s.coder.Code(r.Context(), req.Scenario, req.runOptions(s.defaults))
	if err != nil {
		s.logger.Error().Err(err).Msg("analysis failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Scenario) == "" {
		writeError(w, http.StatusBadRequest, "scenario is required")
		return
	}
	if len(models.NormalizeCodes(req.Codes)) == 0 {
		writeError(w, http.StatusBadRequest, "at least one code is required")
		return
	}

	save := s.defaults.Save
	if req.Save != nil {
		save = *req.Save
	}
	check, err := s.coder.Verify(r.Context(), req.Scenario, req.Codes, save)
	if err != nil {
		s.logger.Error().Err(err).Msg("code verification failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, check)
}

func (s *Server) handleActivateTopic(w http.ResponseWriter, r *http.Request) {
	svc, err := s.coder.Services().Lookup(chi.URLParam(r, "topic"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	var req activateRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Scenario) == "" {
		writeError(w, http.StatusBadRequest, "scenario is required")
		return
	}

	writeJSON(w, http.StatusOK, activationView{
		Topic:     svc.Name(),
		CodeRange: svc.CodeRange(),
		Result:    svc.Activate(r.Context(), req.Scenario),
	})
}

func (s *Server) handleListTopics(w http.ResponseWriter, _ *http.Request) {
	topics := catalog.Topics()
	out := make([]topicView, 0, len(topics))
	for _, t := range topics {
		view := topicView{Name: t.Name, Slug: t.Slug, CodeRange: t.CodeRange, Summary: t.Summary}
		for _, b := range t.Buckets {
			view.Buckets = append(view.Buckets, bucketView{Key: b.Key, Label: b.Label})
		}
		out = append(out, view)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusServiceUnavailable, "history is not enabled")
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	var (
		analyses []*models.Analysis
		err      error
	)
	if code := r.URL.Query().Get("code"); code != "" {
		analyses, err = s.history.FindAnalysesByCode(code)
		if len(analyses) > limit {
			analyses = analyses[:limit]
		}
	} else {
		analyses, err = s.history.ListAnalyses(limit)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, analyses)
}

func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusServiceUnavailable, "history is not enabled")
		return
	}

	id := chi.URLParam(r, "id")
	analysis, err := s.history.ResolveAnalysis(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if analysis == nil {
		writeError(w, http.StatusNotFound, "analysis not found: "+id)
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}
