package core

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Workspace is the capability set the executor needs from a checked-out
// source tree. The concrete implementation lives in internal/workspace;
// tests substitute a stub so sequencing and fail-fast behavior can be
// exercised without spawning real processes.
type Workspace interface {
	Branch() string
	Commit() string
	Directory() string
	Environment() []string

	// LoadPipelineDescriptor reads the pipeline definition file at the
	// workspace's well-known descriptor path and deserializes it.
	LoadPipelineDescriptor() (Pipeline, error)

	// ExecuteCommand runs one external command rooted at the workspace
	// directory and returns its interleaved stdout+stderr. The output
	// is returned even when err is non-nil: callers need it for
	// diagnostics on failure.
	ExecuteCommand(ctx context.Context, executable string, args []string) ([]byte, error)
}

// Executor runs a pipeline's steps against a single workspace, one
// command at a time, and accumulates a textual transcript.
//
// An Executor is exclusively bound to its workspace: concurrent Run
// calls against the same Executor are not supported. Separate runs need
// separate workspaces.
type Executor struct {
	workspace Workspace
	logger    *slog.Logger
}

// NewExecutor returns an Executor bound to the given workspace. A nil
// logger falls back to slog.Default().
func NewExecutor(workspace Workspace, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{workspace: workspace, logger: logger}
}

// Run executes every command of every step in order and returns the
// accumulated transcript.
//
// The transcript opens with a pipeline header, gains a header line per
// step, and the combined output of each command plus a trailing
// newline separator. Output is appended unconditionally: on failure the
// partial output the failing command already produced stays in the
// returned transcript. Whatever an interrupted command managed to flush
// before cancellation is likewise kept.
//
// The first failing command terminates the run: no further commands or
// steps execute, and the transcript accumulated so far is returned
// alongside the error. Cancelling ctx stops the in-flight command and
// prevents any not-yet-started command from starting.
func (e *Executor) Run(ctx context.Context, pipeline Pipeline) (string, error) {
	var transcript strings.Builder
	fmt.Fprintf(&transcript, "Executing pipeline: %s\n", pipeline.Name)

	e.logger.Info("pipeline started",
		"pipeline", pipeline.Name,
		"steps", len(pipeline.Steps),
		"commit", e.workspace.Commit(),
	)

	// Snapshot the step list so a caller mutating the pipeline value
	// mid-run cannot perturb the iteration.
	steps := make([]Step, len(pipeline.Steps))
	copy(steps, pipeline.Steps)

	for _, step := range steps {
		fmt.Fprintf(&transcript, "Step: %s\n", step.Name)
		e.logger.Info("step started", "pipeline", pipeline.Name, "step", step.Name)

		for _, command := range step.Commands {
			if err := ctx.Err(); err != nil {
				e.logger.Warn("run cancelled before command start",
					"pipeline", pipeline.Name, "step", step.Name, "command", command)
				return transcript.String(), fmt.Errorf("step %q: command %q not started: %w", step.Name, command, err)
			}

			tokens := strings.Fields(command)
			if len(tokens) == 0 {
				// Validation rejects these at load time; guard anyway
				// for pipelines handed to Run directly.
				return transcript.String(), fmt.Errorf("step %q: empty command", step.Name)
			}

			output, err := e.workspace.ExecuteCommand(ctx, tokens[0], tokens[1:])
			transcript.Write(output)
			transcript.WriteString("\n")

			if err != nil {
				e.logger.Error("command failed",
					"pipeline", pipeline.Name, "step", step.Name, "command", command, "error", err)
				return transcript.String(), fmt.Errorf("step %q: command %q: %w", step.Name, command, err)
			}
		}
	}

	e.logger.Info("pipeline finished", "pipeline", pipeline.Name)
	return transcript.String(), nil
}

// RunDefault loads the workspace's pipeline descriptor and runs it.
// When the loader fails there is no pipeline and therefore no partial
// transcript: the empty string is returned with the loader's error, and
// no subprocess is ever started.
func (e *Executor) RunDefault(ctx context.Context) (string, error) {
	pipeline, err := e.workspace.LoadPipelineDescriptor()
	if err != nil {
		e.logger.Error("loading pipeline descriptor failed",
			"directory", e.workspace.Directory(), "error", err)
		return "", err
	}
	return e.Run(ctx, pipeline)
}
