package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"forgeci/internal/core"
)

// submitRequest is the body of POST /api/runs.
type submitRequest struct {
	Repository string `json:"repository" validate:"required"`
	Branch     string `json:"branch" validate:"required"`
}

// handleSubmitRun registers a run and executes it asynchronously. The
// response is 202 with the run ID; clients poll GET /api/runs/{id}.
func (s *Server) handleSubmitRun(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		http.Error(w, "repository and branch are required", http.StatusBadRequest)
		return
	}

	run := &Run{
		ID:         uuid.NewString(),
		Repository: req.Repository,
		Branch:     req.Branch,
		Status:     StatusPending,
		StartedAt:  time.Now().UTC(),
	}

	// The goroutine below starts mutating the registry entry as soon as
	// it is scheduled, so the response values are captured first and
	// the shared struct is never touched again on this path.
	runID, status := run.ID, run.Status

	s.mu.Lock()
	s.runs[run.ID] = run
	s.order = append(s.order, run.ID)
	s.mu.Unlock()

	// The run outlives the HTTP request, so it gets its own context;
	// the configured run timeout is the only bound.
	go s.executeRun(runID, req.Repository, req.Branch)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]string{"id": runID, "status": status})
}

// executeRun drives one run end to end: clone, execute, record the
// outcome, persist the transcript.
func (s *Server) executeRun(runID, repository, branch string) {
	ctx := context.Background()
	if s.config.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.RunTimeout)
		defer cancel()
	}

	s.mu.Lock()
	s.runs[runID].Status = StatusRunning
	s.mu.Unlock()
	runsStarted.Inc()

	start := time.Now()
	result, err := s.runner.Execute(ctx, repository, branch)
	finished := time.Now().UTC()

	s.mu.Lock()
	run := s.runs[runID]
	run.Pipeline = result.PipelineName
	run.Commit = result.Commit
	run.transcript = result.Transcript
	run.FinishedAt = &finished
	if err != nil {
		run.Status = StatusFailed
		run.Error = err.Error()
	} else {
		run.Status = StatusSucceeded
	}
	status := run.Status
	s.mu.Unlock()

	runsCompleted.WithLabelValues(status).Inc()
	runDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		s.logger.Error("run failed", "run", runID, "repository", repository, "branch", branch, "error", err)
	} else {
		s.logger.Info("run succeeded", "run", runID, "repository", repository, "branch", branch, "commit", result.Commit)
	}

	// Partial transcripts from failed runs are saved too; they are the
	// diagnostics the operator will ask for.
	if s.store != nil && result.Transcript != "" {
		saved, saveErr := s.store.Save(runID, result.PipelineName, result.Transcript)
		if saveErr != nil {
			s.logger.Error("saving transcript failed", "run", runID, "error", saveErr)
		} else {
			s.logger.Info("transcript saved", "run", runID, "path", saved.Path, "digest", saved.Digest)
		}
	}
}

// handleListRuns returns run summaries in submission order.
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	runs := make([]Run, 0, len(s.order))
	for _, id := range s.order {
		runs = append(runs, *s.runs[id])
	}
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(runs)
}

// handleGetRun returns the status of one run.
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, ok := s.snapshotRun(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, "run not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(run)
}

// handleGetTranscript returns a run's transcript as plain text. For
// in-flight runs the transcript is not yet available. Runs unknown to
// the in-memory registry may still have a persisted transcript from a
// previous server process; those are served from the store.
func (s *Server) handleGetTranscript(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	run, ok := s.snapshotRun(id)
	if !ok {
		if s.store != nil {
			if transcript, err := s.store.Load(id); err == nil {
				w.Header().Set("Content-Type", "text/plain; charset=utf-8")
				io.WriteString(w, transcript)
				return
			}
		}
		http.Error(w, "run not found", http.StatusNotFound)
		return
	}
	if run.Status == StatusPending || run.Status == StatusRunning {
		http.Error(w, "run has not finished", http.StatusConflict)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, run.transcript)
}

// handleValidatePipeline parses a YAML descriptor from the request
// body and reports whether it is structurally valid, without executing
// anything.
func (s *Server) handleValidatePipeline(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "cannot read body", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	pipeline, err := core.ParsePipeline(data)
	if err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]any{"valid": false, "error": err.Error()})
		return
	}

	json.NewEncoder(w).Encode(map[string]any{
		"valid": true,
		"name":  pipeline.Name,
		"steps": len(pipeline.Steps),
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, "ok")
}
