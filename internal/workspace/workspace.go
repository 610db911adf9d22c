// Package workspace materializes checked-out source trees and gives
// the pipeline executor its one impure capability: running external
// commands rooted in the tree. A Workspace is constructed once per
// pipeline run, either by shallow-cloning a remote repository into a
// staging directory or by opening an existing local checkout, and is
// immutable afterwards.
//
// The core never deletes a cloned staging directory: cleanup is the
// caller's responsibility, so failed runs stay inspectable.
package workspace

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"forgeci/internal/core"
)

// DefaultDescriptorPath is the well-known relative path of the
// pipeline descriptor inside a workspace.
const DefaultDescriptorPath = "build/pipeline.yaml"

// Workspace is a checked-out source tree plus its metadata. It
// satisfies core.Workspace. A Workspace and its directory are
// exclusively owned by the single pipeline run using them; concurrent
// runs against one Workspace are unsupported.
type Workspace struct {
	branch         string
	commit         string
	dir            string
	env            []string
	descriptorPath string
}

// Option adjusts workspace construction.
type Option func(*Workspace)

// WithEnvironment sets key=value pairs appended to the ambient process
// environment of every command executed in the workspace.
func WithEnvironment(env []string) Option {
	return func(w *Workspace) { w.env = env }
}

// WithDescriptorPath overrides the relative path of the pipeline
// descriptor file.
func WithDescriptorPath(path string) Option {
	return func(w *Workspace) { w.descriptorPath = path }
}

// Clone materializes a workspace from a remote repository: it
// allocates a fresh uniquely-named directory under stagingRoot,
// performs a shallow (depth 1) single-branch clone of branch, and
// resolves the resulting HEAD revision.
func Clone(ctx context.Context, stagingRoot, remoteURL, branch string, opts ...Option) (*Workspace, error) {
	if err := os.MkdirAll(stagingRoot, 0o755); err != nil {
		return nil, fmt.Errorf("%w: creating staging root %s: %v", ErrStagingDirUnavailable, stagingRoot, err)
	}

	dir := filepath.Join(stagingRoot, "ws-"+uuid.NewString())
	if err := os.Mkdir(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: creating %s: %v", ErrStagingDirUnavailable, dir, err)
	}

	repo := repository{dir: dir}
	if err := repo.clone(ctx, remoteURL, branch); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCloneFailed, err)
	}

	commit, err := repo.head(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: resolving HEAD: %v", ErrCloneFailed, err)
	}

	workspace := &Workspace{
		branch:         branch,
		commit:         commit,
		dir:            dir,
		descriptorPath: DefaultDescriptorPath,
	}
	for _, opt := range opts {
		opt(workspace)
	}
	return workspace, nil
}

// Open materializes a workspace from an existing local checkout,
// resolving its current HEAD revision and the short name of the
// checked-out branch.
func Open(ctx context.Context, dir string, opts ...Option) (*Workspace, error) {
	repo := repository{dir: dir}

	commit, err := repo.head(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNotARepository, dir, err)
	}

	branch, err := repo.branch(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNotARepository, dir, err)
	}

	workspace := &Workspace{
		branch:         branch,
		commit:         commit,
		dir:            dir,
		descriptorPath: DefaultDescriptorPath,
	}
	for _, opt := range opts {
		opt(workspace)
	}
	return workspace, nil
}

// Branch returns the name of the checked-out ref.
func (w *Workspace) Branch() string { return w.branch }

// Commit returns the resolved HEAD revision.
func (w *Workspace) Commit() string { return w.commit }

// Directory returns the root path of the checkout.
func (w *Workspace) Directory() string { return w.dir }

// Environment returns the workspace's key=value environment overrides.
func (w *Workspace) Environment() []string { return w.env }

// LoadPipelineDescriptor reads the descriptor file at the workspace's
// descriptor path and deserializes it into a Pipeline. The Pipeline is
// never partially populated: on any failure the zero value is returned.
func (w *Workspace) LoadPipelineDescriptor() (core.Pipeline, error) {
	path := filepath.Join(w.dir, w.descriptorPath)

	data, err := os.ReadFile(path)
	if err != nil {
		return core.Pipeline{}, fmt.Errorf("%w: %s: %v", ErrDescriptorNotFound, path, err)
	}

	pipeline, err := core.ParsePipeline(data)
	if err != nil {
		return core.Pipeline{}, fmt.Errorf("%w: %s: %v", ErrDescriptorMalformed, path, err)
	}

	return pipeline, nil
}
