// Package storage persists finished run transcripts to disk so
// operators can revisit the output of past pipeline runs.
package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"forgeci/pkg/utils"
)

// TranscriptStore saves run transcripts under a base directory, one
// file per run.
type TranscriptStore struct {
	baseDir string
}

// SavedTranscript describes a persisted transcript.
type SavedTranscript struct {
	Path   string // file the transcript was written to
	Digest string // hex SHA-256 of the transcript content
}

// NewTranscriptStore returns a store rooted at baseDir. The directory
// is created lazily on first save.
func NewTranscriptStore(baseDir string) *TranscriptStore {
	return &TranscriptStore{baseDir: baseDir}
}

// Save writes the transcript of one run and returns where it landed
// along with its content digest. Failed runs are saved like successful
// ones: partial transcripts are the diagnostics that matter most.
func (s *TranscriptStore) Save(runID, pipelineName, transcript string) (SavedTranscript, error) {
	if err := os.MkdirAll(s.baseDir, 0o755); err != nil {
		return SavedTranscript{}, fmt.Errorf("creating transcript directory: %w", err)
	}

	filename := fmt.Sprintf("%s_%s.log", sanitize(pipelineName), runID)
	path := filepath.Join(s.baseDir, filename)

	if err := os.WriteFile(path, []byte(transcript), 0o644); err != nil {
		return SavedTranscript{}, fmt.Errorf("writing transcript: %w", err)
	}

	// Digest the written file rather than the in-memory string: the
	// record then covers what actually landed on disk.
	digest, err := utils.HashFile(path)
	if err != nil {
		return SavedTranscript{}, fmt.Errorf("hashing transcript: %w", err)
	}

	return SavedTranscript{Path: path, Digest: digest}, nil
}

// Load returns the transcript saved for runID.
func (s *TranscriptStore) Load(runID string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(s.baseDir, "*_"+runID+".log"))
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no transcript for run %s", runID)
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		return "", fmt.Errorf("reading transcript: %w", err)
	}
	return string(data), nil
}

// sanitize strips characters that are unsafe in filenames from
// pipeline names.
func sanitize(name string) string {
	clean := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '_':
			clean = append(clean, r)
		}
	}
	if len(clean) == 0 {
		return "pipeline"
	}
	return string(clean)
}
