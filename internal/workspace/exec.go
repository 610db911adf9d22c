package workspace

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"syscall"
)

// ExecuteCommand spawns a child process rooted at the workspace
// directory, with the workspace's environment appended to the ambient
// process environment. Stdout and stderr are captured interleaved into
// one buffer, which is returned on failure as well as success —
// callers need the output for diagnostics either way.
//
// The command runs in its own process group so that cancelling ctx
// kills the command and every child it spawned. Without Setpgid only
// the immediate child receives the signal; grandchildren survive and
// keep the captured output pipe open. Whatever the command flushed
// before the kill is kept in the returned buffer.
func (w *Workspace) ExecuteCommand(ctx context.Context, executable string, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, executable, args...)
	cmd.Dir = w.dir
	cmd.Env = append(os.Environ(), w.env...)

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		// Negative PID signals the whole process group.
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}

	err := cmd.Run()
	if err == nil {
		return output.Bytes(), nil
	}

	// Cancellation takes precedence over whatever exit state the kill
	// produced: the caller asked the run to stop, and that is the
	// error they should see.
	if ctxErr := ctx.Err(); ctxErr != nil {
		return output.Bytes(), fmt.Errorf("command %q interrupted: %w", executable, ctxErr)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return output.Bytes(), fmt.Errorf("%w: %q exited with code %d", ErrCommandFailed, executable, exitErr.ExitCode())
	}

	return output.Bytes(), fmt.Errorf("%w: starting %q: %v", ErrCommandFailed, executable, err)
}
