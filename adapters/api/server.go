package api

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"logstat/adapters/logfile"
	"logstat/adapters/render"
	"logstat/app"
	"logstat/internal"
	"logstat/internal/config"
	"logstat/internal/errors"
)

const (
	maxBodyBytes    = 64 << 20
	shutdownTimeout = 10 * time.Second
)

// Server exposes the summary pipeline over HTTP
type Server struct {
	router   *chi.Mux
	defaults config.SummaryConfig
	logger   *internal.Logger
}

// NewServer creates the HTTP server; request options missing from a body
// fall back to defaults
func NewServer(defaults config.SummaryConfig, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.Discard()
	}
	s := &Server{
		router:   chi.NewRouter(),
		defaults: defaults,
		logger:   logger,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	s.router.Post("/v1/summary", s.handleSummary)
}

// Handler returns the routed handler, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := make(chan error, 1)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		done <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info("starting API server", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return errors.Wrapf(err, "listen on %s", addr)
	}
	return <-done
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"request_id", middleware.GetReqID(r.Context()),
			"elapsed", time.Since(start))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type summaryResponse struct {
	ReportID string `json:"report_id"`
	render.Document
	Sources   []string         `json:"sources"`
	Failures  []app.RunFailure `json:"failures,omitempty"`
	ElapsedMS int64            `json:"elapsed_ms"`
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			s.writeError(w, r, http.StatusRequestEntityTooLarge, errors.InvalidInput("request body too large"))
			return
		}
		s.writeError(w, r, http.StatusBadRequest, errors.Wrap(errors.InvalidInput(err.Error()), "read request body"))
		return
	}

	params, err := parseSummaryRequest(body, s.defaults)
	if err != nil {
		s.writeError(w, r, statusFor(err), err)
		return
	}
	reader, err := logfile.NewReader(params.Options, s.logger)
	if err != nil {
		s.writeError(w, r, statusFor(err), err)
		return
	}

	result, err := app.NewSummaryService(reader, s.logger).Summarize(r.Context(), params.Request)
	if err != nil {
		s.writeError(w, r, statusFor(err), err)
		return
	}

	writeJSON(w, http.StatusOK, summaryResponse{
		ReportID:  result.ID,
		Document:  render.NewDocument(result.Header, result.Report),
		Sources:   result.Sources,
		Failures:  result.Failures,
		ElapsedMS: result.Elapsed.Milliseconds(),
	})
}

// statusFor maps caller-correctable error codes to 4xx and everything else to 500
func statusFor(err error) int {
	switch {
	case errors.HasCode(err, errors.CodeInvalidArgument),
		errors.HasCode(err, errors.CodeEmptyInput),
		errors.HasCode(err, errors.CodeInvalidInput):
		return http.StatusBadRequest
	case errors.HasCode(err, errors.CodeNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	code := errors.GetCode(err)
	message := err.Error()
	if status >= http.StatusInternalServerError {
		s.logger.Error("summary failed", "request_id", middleware.GetReqID(r.Context()), "error", err)
		code = errors.CodeInternalError
		message = "internal error"
	}
	writeJSON(w, status, map[string]string{"code": code, "error": message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
