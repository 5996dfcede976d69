// Copyright 2025 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package check

import (
	"path/filepath"

	"code.gitea.io/bitmap-doctor/modules/fixture"
	"code.gitea.io/bitmap-doctor/modules/git"
)

// Env is the shared mutable state of a run, threaded explicitly through
// every stage. Scenario ordering is a contract between stages, not an
// accident of globals.
type Env struct {
	// WorkPath is the directory all repositories of this run live in.
	WorkPath string

	// Source is the fixture repository, set by the fixture stage.
	Source *git.Repository
	// Fixture holds the tips and the tagged blob recorded at build time.
	Fixture *fixture.Result

	// Clone is the full bare clone, set by the transfer-clone stage and
	// reused by the transfer-fetch stage.
	Clone *git.Repository
	// Partial is the blob-filtered clone, set by the transfer-partial stage.
	Partial *git.Repository
}

// NewEnv prepares an empty run environment rooted at workPath.
func NewEnv(workPath string) *Env {
	return &Env{WorkPath: workPath}
}

// SourcePath is where the fixture repository is built.
func (env *Env) SourcePath() string {
	return filepath.Join(env.WorkPath, "source")
}

// ClonePath is the target of the full bare clone.
func (env *Env) ClonePath() string {
	return filepath.Join(env.WorkPath, "clone.git")
}

// PartialPath is the target of the blob-filtered clone.
func (env *Env) PartialPath() string {
	return filepath.Join(env.WorkPath, "partial.git")
}
