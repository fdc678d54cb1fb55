package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/boreholelog/pkg/buildinfo"
	"github.com/matzehuels/boreholelog/pkg/errors"
	"github.com/matzehuels/boreholelog/pkg/layout"
	"github.com/matzehuels/boreholelog/pkg/pipeline"
)

// =============================================================================
// Responses
// =============================================================================

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
}

type presetResponse struct {
	Name   string        `json:"name"`
	Config layout.Config `json:"config"`
}

type pageErrorResponse struct {
	Page    int    `json:"page"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type statsResponse struct {
	Intervals int     `json:"intervals"`
	Pages     int     `json:"pages"`
	MaxDepth  float64 `json:"max_depth"`
	Millis    int64   `json:"duration_ms"`
}

type renderResponse struct {
	ID         string              `json:"id"`
	Borehole   string              `json:"borehole"`
	PageCount  int                 `json:"page_count"`
	Artifacts  []pipeline.Artifact `json:"artifacts"`
	PageErrors []pageErrorResponse `json:"page_errors,omitempty"`
	Stats      statsResponse       `json:"stats"`
	CacheHits  int                 `json:"cache_hits"`
}

type errorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Version: buildinfo.Version, Commit: buildinfo.Commit})
}

func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	names := layout.PresetNames()
	out := make([]presetResponse, 0, len(names))
	for _, name := range names {
		cfg, err := layout.Preset(name)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		out = append(out, presetResponse{Name: name, Config: cfg})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	opts, err := s.decodeOptions(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	start := time.Now()
	res, err := s.runnerFor(r).Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp := renderResponse{
		ID:        res.ID,
		Borehole:  res.Borehole.ID,
		PageCount: res.PageCount,
		Artifacts: res.Artifacts,
		Stats: statsResponse{
			Intervals: res.Stats.Intervals,
			Pages:     res.Stats.Pages,
			MaxDepth:  res.Stats.MaxDepth,
			Millis:    time.Since(start).Milliseconds(),
		},
		CacheHits: res.CacheInfo.Hits,
	}
	for _, pe := range res.PageErrors {
		resp.PageErrors = append(resp.PageErrors, pageErrorResponse{
			Page:    pe.Page,
			Code:    string(pe.Code()),
			Message: errors.UserMessage(pe.Err),
		})
	}
	status := http.StatusOK
	if len(resp.PageErrors) > 0 {
		status = http.StatusMultiStatus
	}
	writeJSON(w, status, resp)
}

func (s *Server) handleRenderPage(w http.ResponseWriter, r *http.Request) {
	page, err := pageParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := s.decodeOptions(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.renderPage(w, r, opts, page)
}

func (s *Server) handleListBoreholes(w http.ResponseWriter, r *http.Request) {
	ids, err := s.cfg.Store.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"boreholes": ids})
}

func (s *Server) handleStoredPage(w http.ResponseWriter, r *http.Request) {
	page, err := pageParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	doc, err := s.cfg.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	opts := pipeline.Options{
		Borehole: doc.Borehole,
		Header:   doc.Header,
		Preset:   q.Get("preset"),
		Refresh:  q.Get("refresh") == "true",
	}
	s.renderPage(w, r, opts, page)
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, opts pipeline.Options, page int) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatPNG
	}
	a, err := s.runnerFor(r).RenderPage(r.Context(), opts, page, format)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentType(format))
	if a.Cached {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(a.Data)
}

// =============================================================================
// Helpers
// =============================================================================

// decodeOptions reads the JSON body into pipeline options. File-path
// options are not part of the JSON form, so a client can never make the
// server read local files.
func (s *Server) decodeOptions(w http.ResponseWriter, r *http.Request) (pipeline.Options, error) {
	var opts pipeline.Options
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBody)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&opts); err != nil {
		if err == io.EOF {
			return opts, errors.New(errors.ErrCodeInvalidInput, "request body is empty")
		}
		return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request")
	}
	if opts.Borehole == nil {
		return opts, errors.New(errors.ErrCodeInvalidInput, "request has no borehole")
	}
	return opts, nil
}

func pageParam(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "page")
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, errors.New(errors.ErrCodeInvalidInput, "page must be a positive integer, got %q", raw)
	}
	return n, nil
}

func contentType(format string) string {
	switch format {
	case pipeline.FormatSVG:
		return "image/svg+xml"
	case pipeline.FormatPNG:
		return "image/png"
	case pipeline.FormatPDF:
		return "application/pdf"
	}
	return "application/json"
}

// StatusFor maps an error to an HTTP status by its class. Well-formed
// requests carrying unusable stratigraphy get 422.
func StatusFor(err error) int {
	switch errors.ClassOf(err) {
	case errors.ClassInput:
		if errors.Is(err, errors.ErrCodeInvalidInterval) {
			return http.StatusUnprocessableEntity
		}
		return http.StatusBadRequest
	case errors.ClassNoData:
		return http.StatusUnprocessableEntity
	case errors.ClassMissing:
		return http.StatusNotFound
	case errors.ClassUnsupported:
		return http.StatusNotImplemented
	case errors.ClassUpstream:
		if errors.Is(err, errors.ErrCodeTimeout) {
			return http.StatusGatewayTimeout
		}
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	if r.Context().Err() != nil {
		status = http.StatusServiceUnavailable
	}
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	msg := errors.UserMessage(err)
	if status >= 500 {
		s.logger.Error("request failed", "id", RequestID(r.Context()), "err", err)
	}
	writeJSON(w, status, errorResponse{Code: string(code), Message: msg, RequestID: RequestID(r.Context())})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
