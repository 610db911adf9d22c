package server

import (
	"context"
	"log/slog"

	"forgeci/internal/core"
	"forgeci/internal/workspace"
)

// RunResult is what one pipeline run produced, successful or not. The
// transcript is populated even on failure: it holds everything the run
// generated before stopping.
type RunResult struct {
	PipelineName string
	Commit       string
	Transcript   string
}

// Runner executes one pipeline run for a repository reference. The
// HTTP layer depends on this interface rather than on workspace
// construction directly, so handler tests can substitute a stub.
type Runner interface {
	Execute(ctx context.Context, repoURL, branch string) (RunResult, error)
}

// workspaceRunner is the production Runner: it clones the repository
// into a staging directory, loads the pipeline descriptor, and drives
// the executor.
type workspaceRunner struct {
	stagingRoot    string
	descriptorPath string
	logger         *slog.Logger
}

// NewWorkspaceRunner returns a Runner that clones into stagingRoot and
// loads descriptors from descriptorPath inside each checkout.
func NewWorkspaceRunner(stagingRoot, descriptorPath string, logger *slog.Logger) Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &workspaceRunner{
		stagingRoot:    stagingRoot,
		descriptorPath: descriptorPath,
		logger:         logger,
	}
}

func (r *workspaceRunner) Execute(ctx context.Context, repoURL, branch string) (RunResult, error) {
	ws, err := workspace.Clone(ctx, r.stagingRoot, repoURL, branch,
		workspace.WithDescriptorPath(r.descriptorPath))
	if err != nil {
		return RunResult{}, err
	}

	result := RunResult{Commit: ws.Commit()}

	pipeline, err := ws.LoadPipelineDescriptor()
	if err != nil {
		return result, err
	}
	result.PipelineName = pipeline.Name

	executor := core.NewExecutor(ws, r.logger)
	transcript, err := executor.Run(ctx, pipeline)
	result.Transcript = transcript
	return result, err
}
