// Package api serves the resolver over HTTP.
//
// # Routes
//
//	POST /v1/resolve    resolve a graph, returns a layout
//	POST /v1/conflicts  list a graph's conflicts, worst first
//	GET  /healthz       liveness and build info
//	GET  /metrics       Prometheus metrics, when enabled
//
// Both POST routes take a JSON body with the graph in the file format of
// package graph and optional resolver options layered over the server
// defaults:
//
//	{"graph": {"nodes": [...], "edges": [...]}, "options": {"strategy": "hybrid"}}
//
// Every response carries an X-Request-ID header, echoed from the request or
// generated.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/octomap/pkg/buildinfo"
	oerrors "github.com/matzehuels/octomap/pkg/errors"
	"github.com/matzehuels/octomap/pkg/graph"
	"github.com/matzehuels/octomap/pkg/observability"
	"github.com/matzehuels/octomap/pkg/pipeline"
)

// RequestIDHeader carries the request ID.
const RequestIDHeader = "X-Request-ID"

// DefaultMaxBodyBytes bounds request bodies when Options.MaxBodyBytes is zero.
const DefaultMaxBodyBytes = 8 << 20

type ctxKey int

const requestIDKey ctxKey = 0

// Options configure a Server.
type Options struct {
	// Defaults are the resolver options requests are layered over.
	Defaults pipeline.Options

	// MaxBodyBytes bounds request bodies. Zero means DefaultMaxBodyBytes.
	MaxBodyBytes int64

	// Metrics is mounted at /metrics when set.
	Metrics http.Handler

	Logger *log.Logger
}

// Server is the HTTP API.
type Server struct {
	runner   *pipeline.Runner
	defaults pipeline.Options
	maxBody  int64
	logger   *log.Logger
	router   chi.Router
}

// New creates a server that resolves with runner.
func New(runner *pipeline.Runner, opts Options) *Server {
	s := &Server{
		runner:   runner,
		defaults: opts.Defaults,
		maxBody:  opts.MaxBodyBytes,
		logger:   opts.Logger,
	}
	if s.maxBody <= 0 {
		s.maxBody = DefaultMaxBodyBytes
	}
	if s.logger == nil {
		s.logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	r := chi.NewRouter()
	r.Use(withRequestID)
	r.Use(s.withLogging)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", handleHealth)
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}
	r.Route("/v1", func(r chi.Router) {
		r.Post("/resolve", s.handleResolve)
		r.Post("/conflicts", s.handleConflicts)
	})
	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// =============================================================================
// Handlers
// =============================================================================

// Request is the body of both POST routes.
type Request struct {
	Graph   json.RawMessage `json:"graph"`
	Options json.RawMessage `json:"options,omitempty"`
}

// ResolveResponse is the body returned by /v1/resolve.
type ResolveResponse struct {
	RequestID string        `json:"request_id"`
	GraphHash string        `json:"graph_hash"`
	Cached    bool          `json:"cached"`
	Passes    int           `json:"passes"`
	Duration  string        `json:"duration"`
	Layout    *graph.Layout `json:"layout"`
}

// ConflictsResponse is the body returned by /v1/conflicts.
type ConflictsResponse struct {
	RequestID string               `json:"request_id"`
	Cached    bool                 `json:"cached"`
	Count     int                  `json:"count"`
	Conflicts []graph.ConflictView `json:"conflicts"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	RequestID string `json:"request_id,omitempty"`
	Code      string `json:"code"`
	Message   string `json:"message"`
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	req, opts, err := s.decode(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	g, err := graph.UnmarshalGraph(req.Graph, graph.FormatJSON)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.runner.ResolveWithCacheInfo(r.Context(), g, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ResolveResponse{
		RequestID: requestID(r.Context()),
		GraphHash: res.GraphHash,
		Cached:    res.CacheInfo.LayoutHit,
		Passes:    res.Stats.Passes,
		Duration:  res.Stats.ResolveTime.String(),
		Layout:    &res.Layout,
	})
}

func (s *Server) handleConflicts(w http.ResponseWriter, r *http.Request) {
	req, opts, err := s.decode(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	g, err := graph.UnmarshalGraph(req.Graph, graph.FormatJSON)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	views, hit, err := s.runner.FindWithCacheInfo(r.Context(), g, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if views == nil {
		views = []graph.ConflictView{}
	}
	writeJSON(w, http.StatusOK, ConflictsResponse{
		RequestID: requestID(r.Context()),
		Cached:    hit,
		Count:     len(views),
		Conflicts: views,
	})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
	})
}

// decode reads the request body and layers its options over the defaults.
func (s *Server) decode(w http.ResponseWriter, r *http.Request) (Request, pipeline.Options, error) {
	var req Request
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return req, pipeline.Options{}, oerrors.New(oerrors.ErrCodeInvalidInput, "request body exceeds %d bytes", s.maxBody)
		}
		return req, pipeline.Options{}, oerrors.Wrap(oerrors.ErrCodeInvalidInput, err, "decode request")
	}
	if len(req.Graph) == 0 {
		return req, pipeline.Options{}, oerrors.New(oerrors.ErrCodeInvalidInput, "graph is required")
	}

	opts := s.defaults
	if len(req.Options) > 0 {
		od := json.NewDecoder(bytes.NewReader(req.Options))
		od.DisallowUnknownFields()
		if err := od.Decode(&opts); err != nil {
			return req, pipeline.Options{}, oerrors.Wrap(oerrors.ErrCodeInvalidInput, err, "decode options")
		}
	}
	return req, opts, nil
}

// =============================================================================
// Responses
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusCode(err)
	code := oerrors.GetCode(err)
	if code == "" {
		code = oerrors.ErrCodeInternal
	}
	msg := oerrors.UserMessage(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "request_id", requestID(r.Context()), "error", err)
		msg = "internal error"
	}
	writeJSON(w, status, ErrorResponse{
		RequestID: requestID(r.Context()),
		Code:      string(code),
		Message:   msg,
	})
}

// StatusCode maps an error to an HTTP status.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	case oerrors.Is(err, oerrors.ErrCodeCoincidentNodes):
		return http.StatusUnprocessableEntity
	case oerrors.IsInvalid(err):
		return http.StatusBadRequest
	case oerrors.Is(err, oerrors.ErrCodeNotFound), oerrors.Is(err, oerrors.ErrCodeFileNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// =============================================================================
// Middleware
// =============================================================================

// withRequestID echoes the caller's request ID or assigns a new one.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

func requestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// withLogging logs each request and reports it to the API hooks under its
// route pattern, so metrics labels stay bounded.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		hooks := observability.API()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnRequest(r.Context(), r.Method, route)
		hooks.OnResponse(r.Context(), r.Method, route, status, time.Since(start))
		s.logger.Info("http request",
			"request_id", requestID(r.Context()),
			"method", r.Method,
			"route", route,
			"status", status,
			"duration", time.Since(start).Round(time.Millisecond))
	})
}
