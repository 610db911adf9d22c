// Package server is the HTTP layer that accepts run requests and maps
// them onto the pipeline execution core. It keeps an in-memory
// registry of runs and persists finished transcripts through the
// storage package.
package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"forgeci/internal/storage"
)

// Run statuses, in lifecycle order.
const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// Config holds the server's explicit configuration. No package-level
// defaults: every knob is threaded through here.
type Config struct {
	Addr           string        `validate:"required"`
	StagingRoot    string        `validate:"required"`
	DataDir        string        `validate:"required"`
	DescriptorPath string        `validate:"required"`
	RunTimeout     time.Duration `validate:"min=0"`
}

// Run is the registry entry for one pipeline run.
type Run struct {
	ID         string     `json:"id"`
	Repository string     `json:"repository"`
	Branch     string     `json:"branch"`
	Status     string     `json:"status"`
	Pipeline   string     `json:"pipeline,omitempty"`
	Commit     string     `json:"commit,omitempty"`
	Error      string     `json:"error,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`

	transcript string
}

// Server routes HTTP requests to the run registry and the Runner.
type Server struct {
	config   Config
	runner   Runner
	store    *storage.TranscriptStore
	logger   *slog.Logger
	validate *validator.Validate

	mu    sync.Mutex
	runs  map[string]*Run
	order []string // run IDs in submission order
}

// New validates cfg and builds a Server. The store may be nil, in
// which case transcripts live only in memory for the process lifetime.
func New(cfg Config, runner Runner, store *storage.TranscriptStore, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid server config: %w", err)
	}
	if runner == nil {
		return nil, fmt.Errorf("invalid server config: runner is required")
	}

	return &Server{
		config:   cfg,
		runner:   runner,
		store:    store,
		logger:   logger,
		validate: validate,
		runs:     make(map[string]*Run),
	}, nil
}

// Router builds the chi router with all routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Route("/api", func(r chi.Router) {
		r.Post("/runs", s.handleSubmitRun)
		r.Get("/runs", s.handleListRuns)
		r.Get("/runs/{id}", s.handleGetRun)
		r.Get("/runs/{id}/transcript", s.handleGetTranscript)
		r.Post("/pipelines/validate", s.handleValidatePipeline)
	})
	r.Get("/healthz", s.handleHealthz)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// logRequests emits one structured log line per request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(wrapped, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// snapshotRun returns a copy of the run under the registry lock, or
// false if the ID is unknown.
func (s *Server) snapshotRun(id string) (Run, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	run, ok := s.runs[id]
	if !ok {
		return Run{}, false
	}
	return *run, true
}
