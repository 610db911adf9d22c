package workspace_test

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"forgeci/internal/core"
	"forgeci/internal/workspace"
)

// buildRepo creates a git repository containing the given descriptor
// committed at build/pipeline.yaml.
func buildRepo(t *testing.T, descriptor string) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skipf("git not available: %v", err)
	}

	dir := t.TempDir()
	run := func(args ...string) {
		t.Helper()
		fullArgs := append([]string{"-C", dir,
			"-c", "user.name=Test", "-c", "user.email=test@test.local"}, args...)
		if output, err := exec.Command("git", fullArgs...).CombinedOutput(); err != nil {
			t.Fatalf("git %v: %v\n%s", args, err, output)
		}
	}

	if output, err := exec.Command("git", "init", "-b", "main", dir).CombinedOutput(); err != nil {
		t.Fatalf("git init: %v\n%s", err, output)
	}
	if err := os.MkdirAll(filepath.Join(dir, "build"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "build", "pipeline.yaml"), []byte(descriptor), 0o644); err != nil {
		t.Fatal(err)
	}
	run("add", "-A")
	run("commit", "-m", "initial")
	return dir
}

func TestExecutorAgainstRealWorkspace(t *testing.T) {
	descriptor := `name: Integration
steps:
  - name: greet
    commands:
      - echo hello
  - name: inspect
    commands:
      - ls build
`
	dir := buildRepo(t, descriptor)

	ws, err := workspace.Open(context.Background(), dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	transcript, err := core.NewExecutor(ws, nil).RunDefault(context.Background())
	if err != nil {
		t.Fatalf("RunDefault: %v", err)
	}

	want := "Executing pipeline: Integration\n" +
		"Step: greet\nhello\n\n" +
		"Step: inspect\npipeline.yaml\n\n"
	if transcript != want {
		t.Errorf("transcript = %q, want %q", transcript, want)
	}
}

func TestExecutorFailFastAgainstRealWorkspace(t *testing.T) {
	descriptor := `name: Failing
steps:
  - name: first
    commands:
      - echo before
  - name: second
    commands:
      - false
      - echo never
`
	dir := buildRepo(t, descriptor)

	ws, err := workspace.Open(context.Background(), dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	transcript, err := core.NewExecutor(ws, nil).RunDefault(context.Background())
	if !errors.Is(err, workspace.ErrCommandFailed) {
		t.Fatalf("err = %v, want ErrCommandFailed", err)
	}

	want := "Executing pipeline: Failing\n" +
		"Step: first\nbefore\n\n" +
		"Step: second\n\n"
	if transcript != want {
		t.Errorf("transcript = %q, want %q", transcript, want)
	}
}
