// Package server exposes outline extraction and persona analysis over HTTP.
//
//	GET  /healthz      liveness probe
//	POST /v1/outline   multipart field "file": one PDF, returns its outline
//	POST /v1/analyze   multipart fields "files" (repeatable), "persona" and
//	                   "job", returns the ranked analysis
//
// Uploads are written to a per-request temporary directory and removed when
// the request completes.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tsawler/outline/document"
	"github.com/tsawler/outline/pipeline"
	"github.com/tsawler/outline/report"
)

// DefaultMaxUploadMB bounds the size of a request body.
const DefaultMaxUploadMB = 64

// Server serves the HTTP API.
type Server struct {
	pipeline  *pipeline.Pipeline
	maxUpload int64
	logger    *slog.Logger
	router    *chi.Mux
}

// New creates a server around p. maxUploadMB <= 0 means
// DefaultMaxUploadMB.
func New(p *pipeline.Pipeline, maxUploadMB int, logger *slog.Logger) *Server {
	if maxUploadMB <= 0 {
		maxUploadMB = DefaultMaxUploadMB
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		pipeline:  p,
		maxUpload: int64(maxUploadMB) << 20,
		logger:    logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog(logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/outline", s.handleOutline)
		r.Post("/analyze", s.handleAnalyze)
	})

	s.router = r
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		s.logger.Info("server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleOutline(w http.ResponseWriter, r *http.Request) {
	dir, cleanup, err := s.receive(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	defer cleanup()

	paths, err := saveFiles(r.MultipartForm, "file", dir)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if len(paths) != 1 {
		writeError(w, http.StatusBadRequest, fmt.Errorf("expected exactly one file, got %d", len(paths)))
		return
	}

	rec, err := s.pipeline.ExtractOutline(r.Context(), paths[0])
	if err != nil {
		s.logger.Warn("outline request failed", "file", filepath.Base(paths[0]), "request_id", middleware.GetReqID(r.Context()), "error", err)
		writeError(w, statusFor(err), err)
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	dir, cleanup, err := s.receive(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	defer cleanup()

	persona := strings.TrimSpace(r.FormValue("persona"))
	job := strings.TrimSpace(r.FormValue("job"))
	if persona == "" || job == "" {
		writeError(w, http.StatusBadRequest, errors.New("persona and job are required"))
		return
	}

	paths, err := saveFiles(r.MultipartForm, "files", dir)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	a, err := s.pipeline.Analyze(r.Context(), paths, persona, job)
	if err != nil {
		s.logger.Error("analysis request failed", "request_id", middleware.GetReqID(r.Context()), "error", err)
		writeError(w, statusFor(err), err)
		return
	}

	writeJSON(w, http.StatusOK, a)
}

// receive parses the multipart body and creates a scratch directory.
func (s *Server) receive(w http.ResponseWriter, r *http.Request) (string, func(), error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		return "", nil, fmt.Errorf("parse upload: %w", err)
	}

	dir, err := os.MkdirTemp("", "outline-upload-")
	if err != nil {
		r.MultipartForm.RemoveAll()
		return "", nil, fmt.Errorf("create scratch directory: %w", err)
	}

	cleanup := func() {
		r.MultipartForm.RemoveAll()
		os.RemoveAll(dir)
	}
	return dir, cleanup, nil
}

// saveFiles writes every upload in field to dir under its base name and
// returns the paths in upload order.
func saveFiles(form *multipart.Form, field, dir string) ([]string, error) {
	headers := form.File[field]
	paths := make([]string, 0, len(headers))
	seen := make(map[string]bool)

	for _, fh := range headers {
		name := filepath.Base(fh.Filename)
		if name == "." || name == string(filepath.Separator) || name == "" {
			return nil, fmt.Errorf("invalid file name %q", fh.Filename)
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate file name %q", name)
		}
		seen[name] = true

		path := filepath.Join(dir, name)
		if err := copyUpload(fh, path); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func copyUpload(fh *multipart.FileHeader, path string) error {
	src, err := fh.Open()
	if err != nil {
		return fmt.Errorf("open upload %s: %w", fh.Filename, err)
	}
	defer src.Close()

	dst, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("store upload %s: %w", fh.Filename, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return fmt.Errorf("store upload %s: %w", fh.Filename, err)
	}
	return dst.Close()
}

func statusFor(err error) int {
	switch {
	case document.IsDecodeError(err):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	report.Encode(w, v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}
