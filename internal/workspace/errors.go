package workspace

import "errors"

// Sentinel errors for the workspace error taxonomy. Every error
// returned by this package wraps one of these (or, for interrupted
// commands, the context's own error), so callers branch with errors.Is
// rather than string matching.
var (
	// ErrStagingDirUnavailable: the uniquely-named checkout directory
	// under the staging root could not be created.
	ErrStagingDirUnavailable = errors.New("staging directory unavailable")

	// ErrCloneFailed: the shallow clone did not complete (unreachable
	// remote, unknown branch, auth failure).
	ErrCloneFailed = errors.New("clone failed")

	// ErrNotARepository: the directory has no recognizable git metadata.
	ErrNotARepository = errors.New("not a git repository")

	// ErrDescriptorNotFound: the pipeline descriptor file is absent.
	ErrDescriptorNotFound = errors.New("pipeline descriptor not found")

	// ErrDescriptorMalformed: the descriptor exists but fails to parse
	// or validate.
	ErrDescriptorMalformed = errors.New("pipeline descriptor malformed")

	// ErrCommandFailed: a pipeline command could not be started or
	// exited with a non-zero status.
	ErrCommandFailed = errors.New("command execution failed")
)
