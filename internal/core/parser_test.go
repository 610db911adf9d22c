package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDescriptor = `name: Build and Test
steps:
  - name: build
    commands:
      - go build ./...
  - name: test
    commands:
      - go vet ./...
      - go test ./...
`

func TestParsePipeline(t *testing.T) {
	pipeline, err := ParsePipeline([]byte(sampleDescriptor))
	require.NoError(t, err)

	assert.Equal(t, "Build and Test", pipeline.Name)
	require.Len(t, pipeline.Steps, 2)
	assert.Equal(t, "build", pipeline.Steps[0].Name)
	assert.Equal(t, []string{"go build ./..."}, pipeline.Steps[0].Commands)
	assert.Equal(t, []string{"go vet ./...", "go test ./..."}, pipeline.Steps[1].Commands)
}

func TestParsePipelineEmptySteps(t *testing.T) {
	pipeline, err := ParsePipeline([]byte("name: Empty\nsteps: []\n"))
	require.NoError(t, err)
	assert.Equal(t, "Empty", pipeline.Name)
	assert.Empty(t, pipeline.Steps)
}

func TestParsePipelineMalformedYAML(t *testing.T) {
	pipeline, err := ParsePipeline([]byte("name: [unclosed"))
	require.Error(t, err)
	assert.Equal(t, Pipeline{}, pipeline, "failed parse must not partially populate")
}

func TestParsePipelineRejectsBlankCommand(t *testing.T) {
	descriptor := "name: Bad\nsteps:\n  - name: s\n    commands:\n      - \"   \"\n"
	pipeline, err := ParsePipeline([]byte(descriptor))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "whitespace-only")
	assert.Equal(t, Pipeline{}, pipeline)
}

func TestLoadPipeline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleDescriptor), 0o644))

	pipeline, err := LoadPipeline(path)
	require.NoError(t, err)
	assert.Equal(t, "Build and Test", pipeline.Name)
}

func TestLoadPipelineMissingFile(t *testing.T) {
	_, err := LoadPipeline(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
