package workspace

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// repository provides typed access to the git CLI for one checkout.
// Every command targets the repository directory via "git -C <dir>",
// so methods never depend on the process working directory.
type repository struct {
	dir string
}

// run executes a git command against the repository and returns
// trimmed stdout. Stderr is captured separately and folded into the
// error message on failure, since that is where git reports what
// actually went wrong.
func (r repository) run(ctx context.Context, args ...string) (string, error) {
	fullArgs := append([]string{"-C", r.dir}, args...)
	var stdout, stderr bytes.Buffer
	command := exec.CommandContext(ctx, "git", fullArgs...)
	command.Stdout = &stdout
	command.Stderr = &stderr

	if err := command.Run(); err != nil {
		return "", fmt.Errorf("git %s in %s: %w (stderr: %s)",
			strings.Join(args, " "), r.dir, err, strings.TrimSpace(stderr.String()))
	}
	return strings.TrimSpace(stdout.String()), nil
}

// head resolves the repository's current HEAD revision.
func (r repository) head(ctx context.Context) (string, error) {
	return r.run(ctx, "rev-parse", "HEAD")
}

// branch resolves the short name of the currently checked-out branch.
func (r repository) branch(ctx context.Context) (string, error) {
	return r.run(ctx, "rev-parse", "--abbrev-ref", "HEAD")
}

// clone performs a shallow, single-branch clone of branch from
// remoteURL into the repository directory. The directory must already
// exist and be empty.
func (r repository) clone(ctx context.Context, remoteURL, branch string) error {
	command := exec.CommandContext(ctx, "git", "clone",
		"--depth", "1", "--single-branch", "--branch", branch,
		remoteURL, r.dir)
	var stderr bytes.Buffer
	command.Stderr = &stderr

	if err := command.Run(); err != nil {
		return fmt.Errorf("git clone %s (branch %s): %w (stderr: %s)",
			remoteURL, branch, err, strings.TrimSpace(stderr.String()))
	}
	return nil
}
