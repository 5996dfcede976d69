// Copyright 2025 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package check

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"code.gitea.io/bitmap-doctor/modules/fixture"
	"code.gitea.io/bitmap-doctor/modules/git"
	"code.gitea.io/bitmap-doctor/modules/log"
	"code.gitea.io/bitmap-doctor/modules/setting"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skipIfGitMissing(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}
}

// TestPipeline runs the whole registered pipeline against a freshly built
// fixture and expects every check to pass. A healthy git never produces a
// traversal mismatch, so this exercises the full-path plumbing rather than
// the failure reporting (the compare package tests cover that side).
func TestPipeline(t *testing.T) {
	skipIfGitMissing(t)
	if testing.Short() {
		t.Skip("full pipeline builds two hundred plus commits")
	}

	// keep the padding small, the topology is what matters here
	origPadding := setting.Fixture.PaddingCommits
	setting.Fixture.PaddingCommits = 10
	defer func() { setting.Fixture.PaddingCommits = origPadding }()

	env := NewEnv(t.TempDir())
	results, err := RunStages(context.Background(), log.GetLogger(), env, Stages())
	require.NoError(t, err)
	require.NotEmpty(t, results)

	for _, failed := range FailedResults(results) {
		assert.Fail(t, "check failed", "%s/%s: %v", failed.Stage, failed.Name, failed.Err)
	}

	// the run must have exercised every registered stage
	seen := map[string]bool{}
	for _, r := range results {
		seen[r.Stage] = true
	}
	for _, stage := range Stages() {
		if len(stage.Checks) > 0 {
			assert.True(t, seen[stage.Name], "stage %s produced no results", stage.Name)
		}
	}

	require.NotNil(t, env.Source)
	count, err := env.Source.RevListCount(context.Background(), git.RevListOptions{
		Roots: []string{fixture.BranchSecond, fixture.BranchOther},
	})
	require.NoError(t, err)
	assert.Positive(t, count)
}

func TestPipelineRefusesReusedWorkPath(t *testing.T) {
	skipIfGitMissing(t)

	env := NewEnv(t.TempDir())

	// a source repository with foreign history already sits in the work path
	repo, err := git.InitRepository(context.Background(), env.SourcePath(), false)
	require.NoError(t, err)
	sig := &git.Signature{Name: "Test User", Email: "test@example.com"}
	require.NoError(t, repo.SetConfig(context.Background(), "user.name", sig.Name))
	require.NoError(t, repo.SetConfig(context.Background(), "user.email", sig.Email))
	require.NoError(t, os.WriteFile(filepath.Join(repo.Path, "stale.t"), []byte("stale\n"), 0o644))
	require.NoError(t, repo.AddChanges(context.Background(), false, "stale.t"))
	require.NoError(t, repo.CommitChanges(context.Background(), git.CommitChangesOptions{Committer: sig, Message: "stale"}))

	_, err = RunStages(context.Background(), log.GetLogger(), env, Stages())
	require.Error(t, err)
	assert.True(t, IsSetupFailure(err))
	assert.Contains(t, err.Error(), "already contains history")
}
