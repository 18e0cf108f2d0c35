package chi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/ementa/internal/dataset"
	"github.com/kailas-cloud/ementa/internal/domain/search/criteria"
	domusage "github.com/kailas-cloud/ementa/internal/domain/usage"
	analysisuc "github.com/kailas-cloud/ementa/internal/usecase/analysis"
	healthuc "github.com/kailas-cloud/ementa/internal/usecase/health"
	"github.com/kailas-cloud/ementa/internal/usecase/keyword"
	sessionuc "github.com/kailas-cloud/ementa/internal/usecase/session"
	usageuc "github.com/kailas-cloud/ementa/internal/usecase/usage"
)

const (
	// uploadField is the multipart field carrying the decision file.
	uploadField = "file"
	// maxAnalysisBody bounds the JSON body of an analysis request.
	maxAnalysisBody = 1 << 20
)

// Options are the request defaults applied when a client leaves a field out.
type Options struct {
	DefaultTerms     string
	DefaultStopwords string
	TopWords         int
	DefaultPageSize  int
	MaxPageSize      int
	SampleRows       int
}

// Server serves the session, analysis and export API.
type Server struct {
	sessions      *sessionuc.Service
	health        *healthuc.Service
	usage         *usageuc.Service
	opts          Options
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	sessions *sessionuc.Service,
	health *healthuc.Service,
	usage *usageuc.Service,
	opts Options,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.DefaultTerms == "" {
		opts.DefaultTerms = analysisuc.DefaultTerms
	}
	if opts.DefaultStopwords == "" {
		opts.DefaultStopwords = analysisuc.DefaultStopwords
	}
	if opts.TopWords <= 0 {
		opts.TopWords = 20
	}
	if opts.MaxPageSize <= 0 || opts.MaxPageSize > criteria.MaxPageSize {
		opts.MaxPageSize = criteria.MaxPageSize
	}
	if opts.SampleRows <= 0 {
		opts.SampleRows = dataset.DefaultSampleRows
	}
	return &Server{
		sessions:      sessions,
		health:        health,
		usage:         usage,
		opts:          opts,
		logger:        logger,
		errorHandlers: defaultErrorHandlers(),
	}
}

// Mount registers every route on r.
func (s *Server) Mount(r chi.Router) {
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, CodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, CodeMethodNotAllowed, "method not allowed")
	})

	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Get("/usage", s.GetUsage)

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.CreateSession)
		r.Post("/sample", s.CreateSampleSession)

		r.Route("/{session}", func(r chi.Router) {
			r.Get("/", s.GetSession)
			r.Delete("/", s.DeleteSession)
			r.Get("/facets", s.GetFacets)
			r.Get("/decisions", s.ListDecisions)
			r.Get("/decisions/{id}", s.GetDecision)
			r.Post("/analysis", s.RunAnalysis)
			r.Get("/analysis/matched.csv", s.ExportMatched)
			r.Get("/analysis/frequency.csv", s.ExportFrequency)
			r.Get("/analysis/report.pdf", s.ExportReport)
		})
	})
}

// CreateSession handles POST /sessions. The file comes as the raw body or as
// the multipart field "file".
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	body, err := uploadReader(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}

	st, err := s.sessions.Open(r.Context(), body)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.Header().Set("Location", "/sessions/"+st.ID())
	writeJSON(w, http.StatusCreated, sessionToResponse(st))
}

// CreateSampleSession handles POST /sessions/sample?rows=N.
func (s *Server) CreateSampleSession(w http.ResponseWriter, r *http.Request) {
	rows := s.opts.SampleRows
	if raw := r.URL.Query().Get("rows"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, CodeValidationFailed, "rows must be a positive integer")
			return
		}
		rows = n
	}

	st, err := s.sessions.OpenSample(r.Context(), rows)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.Header().Set("Location", "/sessions/"+st.ID())
	writeJSON(w, http.StatusCreated, sessionToResponse(st))
}

// GetSession handles GET /sessions/{session}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	st, err := s.sessions.Get(r.Context(), chi.URLParam(r, "session"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionToResponse(st))
}

// DeleteSession handles DELETE /sessions/{session}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Close(r.Context(), chi.URLParam(r, "session")); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetFacets handles GET /sessions/{session}/facets.
func (s *Server) GetFacets(w http.ResponseWriter, r *http.Request) {
	f, err := s.sessions.Facets(r.Context(), chi.URLParam(r, "session"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, facetsResponse{
		Outcomes: nonNil(f.Outcomes),
		Courts:   nonNil(f.Courts),
		Years:    nonNil(f.Years),
		HasDate:  f.HasDate,
	})
}

// ListDecisions handles GET /sessions/{session}/decisions.
func (s *Server) ListDecisions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	years, err := intList(q["year"])
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "year: "+err.Error())
		return
	}
	page, err := optionalInt(q.Get("page"), 1)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "page: "+err.Error())
		return
	}
	pageSize, err := optionalInt(q.Get("page_size"), s.opts.DefaultPageSize)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "page_size: "+err.Error())
		return
	}
	if pageSize > s.opts.MaxPageSize {
		pageSize = s.opts.MaxPageSize
	}

	c, err := criteria.New(q.Get("court"), q.Get("q"), trimmedList(q["outcome"]), years, pageSize)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	p, err := s.sessions.Browse(r.Context(), chi.URLParam(r, "session"), c, page)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pageToResponse(p))
}

// GetDecision handles GET /sessions/{session}/decisions/{id}.
func (s *Server) GetDecision(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "decision id must be an integer")
		return
	}

	d, err := s.sessions.Decision(r.Context(), chi.URLParam(r, "session"), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, decisionToResponse(d))
}

// RunAnalysis handles POST /sessions/{session}/analysis.
func (s *Server) RunAnalysis(w http.ResponseWriter, r *http.Request) {
	var req analysisRequest
	if r.ContentLength != 0 {
		dec := json.NewDecoder(io.LimitReader(r.Body, maxAnalysisBody))
		if err := dec.Decode(&req); err != nil && err != io.EOF {
			writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
			return
		}
	}

	areq, err := s.analysisRequestFromDTO(req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	res, err := s.sessions.Analyze(r.Context(), chi.URLParam(r, "session"), areq)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resultToResponse(res))
}

// ExportMatched handles GET /sessions/{session}/analysis/matched.csv.
func (s *Server) ExportMatched(w http.ResponseWriter, r *http.Request) {
	data, err := s.sessions.MatchedCSV(r.Context(), chi.URLParam(r, "session"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeAttachment(w, "text/csv; charset=utf-8", dataset.MatchedFileName, data)
}

// ExportFrequency handles GET /sessions/{session}/analysis/frequency.csv.
func (s *Server) ExportFrequency(w http.ResponseWriter, r *http.Request) {
	data, err := s.sessions.FrequencyCSV(r.Context(), chi.URLParam(r, "session"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeAttachment(w, "text/csv; charset=utf-8", dataset.FrequencyFileName, data)
}

// ExportReport handles GET /sessions/{session}/analysis/report.pdf.
func (s *Server) ExportReport(w http.ResponseWriter, r *http.Request) {
	data, err := s.sessions.Report(r.Context(), chi.URLParam(r, "session"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeAttachment(w, "application/pdf", dataset.ReportFileName, data)
}

// GetUsage handles GET /usage?period=day|month (default day).
func (s *Server) GetUsage(w http.ResponseWriter, r *http.Request) {
	period, err := domusage.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}

	report := s.usage.GetReport(r.Context(), period)
	writeJSON(w, http.StatusOK, usageToResponse(report))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func (s *Server) analysisRequestFromDTO(req analysisRequest) (analysisuc.Request, error) {
	pageSize := s.opts.DefaultPageSize
	c, err := criteria.New(req.Court, req.Query, req.Outcomes, req.Years, pageSize)
	if err != nil {
		return analysisuc.Request{}, fmt.Errorf("analysis criteria: %w", err)
	}

	terms := s.opts.DefaultTerms
	if req.Terms != nil {
		terms = *req.Terms
	}
	stopwords := s.opts.DefaultStopwords
	if req.Stopwords != nil {
		stopwords = *req.Stopwords
	}
	topN := s.opts.TopWords
	if req.TopN != nil && *req.TopN > 0 {
		topN = *req.TopN
	}

	return analysisuc.Request{
		Criteria:  c,
		Terms:     keyword.ParseTerms(terms),
		Stopwords: keyword.ParseStopwords(stopwords),
		TopN:      topN,
	}, nil
}

// uploadReader returns the uploaded file: the "file" part of a multipart form,
// or the raw request body for any other content type.
func uploadReader(r *http.Request) (io.Reader, error) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "multipart/form-data" {
		return r.Body, nil
	}

	mr, err := r.MultipartReader()
	if err != nil {
		return nil, fmt.Errorf("invalid multipart body: %w", err)
	}
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			return nil, fmt.Errorf("multipart field %q is required", uploadField)
		}
		if err != nil {
			return nil, fmt.Errorf("invalid multipart body: %w", err)
		}
		if part.FormName() == uploadField {
			return part, nil
		}
		_ = part.Close()
	}
}

// trimmedList keeps each value whole. Outcome labels may contain commas.
func trimmedList(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func stringList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, item := range strings.Split(v, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
	}
	return out
}

func intList(values []string) ([]int, error) {
	items := stringList(values)
	out := make([]int, 0, len(items))
	for _, item := range items {
		n, err := strconv.Atoi(item)
		if err != nil {
			return nil, fmt.Errorf("%q is not an integer", item)
		}
		out = append(out, n)
	}
	return out, nil
}

func optionalInt(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%q is not an integer", raw)
	}
	return n, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeAttachment(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, bytes.NewReader(data))
}
