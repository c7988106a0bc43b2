// Package server exposes the feature table converter over HTTP.
//
// Routes:
//
//	POST /v1/tbl   annotation in the body, feature table out (text/plain)
//	GET  /healthz  liveness probe
//
// The body is a JSON gene map or results array, or GFF3 when the request
// carries Content-Type: text/x-gff3 (or ?format=gff3). Failures are JSON
// objects {"error": CODE, "message": ...}.
package server

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/featuretable/pkg/buildinfo"
	fterrors "github.com/matzehuels/featuretable/pkg/errors"
	"github.com/matzehuels/featuretable/pkg/pipeline"
)

// DefaultMaxBodyBytes caps request bodies.
const DefaultMaxBodyBytes = 64 << 20

// RequestIDHeader carries the per-request id in both directions.
const RequestIDHeader = "X-Request-Id"

const shutdownTimeout = 10 * time.Second

// Server handles conversion requests with a shared pipeline runner.
type Server struct {
	runner       *pipeline.Runner
	logger       *log.Logger
	maxBodyBytes int64
}

// New returns a Server. A nil logger discards output.
func New(runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Server{
		runner:       runner,
		logger:       logger,
		maxBodyBytes: DefaultMaxBodyBytes,
	}
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestID)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Post("/v1/tbl", s.handleConvert)
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleConvert(w http.ResponseWriter, req *http.Request) {
	format, err := requestFormat(req)
	if err != nil {
		s.writeError(w, req, err)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, req.Body, s.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{
				Error:   string(fterrors.ErrCodeInvalidInput),
				Message: "request body exceeds " + strconv.FormatInt(tooLarge.Limit, 10) + " bytes",
			})
			return
		}
		s.writeError(w, req, fterrors.Wrap(fterrors.ErrCodeInvalidInput, err, "read body"))
		return
	}

	refresh, _ := strconv.ParseBool(req.URL.Query().Get("refresh"))
	res, err := s.runner.Execute(req.Context(), pipeline.Options{
		Input:   body,
		Source:  "request " + requestIDFrom(req.Context()),
		Format:  format,
		Refresh: refresh,
		Logger:  s.logger.With("request_id", requestIDFrom(req.Context())),
	})
	if err != nil {
		s.writeError(w, req, err)
		return
	}

	h := w.Header()
	h.Set("Content-Type", "text/plain; charset=utf-8")
	h.Set("Content-Length", strconv.Itoa(len(res.Table)))
	h.Set("X-Cache", cacheStatus(res.CacheHit))
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, res.Table)
}

// requestFormat resolves the input format from ?format= first, then the
// Content-Type. Unknown or absent types fall back to detection.
func requestFormat(req *http.Request) (string, error) {
	if f := req.URL.Query().Get("format"); f != "" {
		if err := pipeline.ValidateFormat(f); err != nil {
			return "", err
		}
		return f, nil
	}
	ct := req.Header.Get("Content-Type")
	if ct == "" {
		return "", nil
	}
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return "", fterrors.Wrap(fterrors.ErrCodeInvalidInput, err, "content type %q", ct)
	}
	switch mediaType {
	case "application/json":
		return pipeline.FormatJSON, nil
	case "text/x-gff3", "text/gff3", "application/x-gff3":
		return pipeline.FormatGFF3, nil
	}
	return "", nil
}

func cacheStatus(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}
