package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forgeci/pkg/utils"
)

func TestSaveAndLoad(t *testing.T) {
	store := NewTranscriptStore(filepath.Join(t.TempDir(), "transcripts"))

	transcript := "Executing pipeline: Build\nStep: compile\nok\n"
	saved, err := store.Save("run-123", "Build", transcript)
	require.NoError(t, err)

	assert.Equal(t, utils.HashString(transcript), saved.Digest)
	assert.FileExists(t, saved.Path)

	loaded, err := store.Load("run-123")
	require.NoError(t, err)
	assert.Equal(t, transcript, loaded)
}

func TestSaveCreatesBaseDir(t *testing.T) {
	base := filepath.Join(t.TempDir(), "a", "b", "transcripts")
	store := NewTranscriptStore(base)

	_, err := store.Save("run-1", "P", "content")
	require.NoError(t, err)

	info, err := os.Stat(base)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestSaveSanitizesPipelineName(t *testing.T) {
	store := NewTranscriptStore(t.TempDir())

	saved, err := store.Save("run-2", "Build / Test #1", "content")
	require.NoError(t, err)
	assert.Equal(t, "BuildTest1_run-2.log", filepath.Base(saved.Path))

	saved, err = store.Save("run-3", "///", "content")
	require.NoError(t, err)
	assert.Equal(t, "pipeline_run-3.log", filepath.Base(saved.Path))
}

func TestLoadUnknownRun(t *testing.T) {
	store := NewTranscriptStore(t.TempDir())

	_, err := store.Load("missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no transcript")
}
