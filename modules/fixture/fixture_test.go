// Copyright 2025 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package fixture

import (
	"context"
	"os/exec"
	"testing"

	"code.gitea.io/bitmap-doctor/modules/compare"
	"code.gitea.io/bitmap-doctor/modules/git"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skipIfGitMissing(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}
}

func buildTestFixture(t *testing.T) (*git.Repository, *Result) {
	t.Helper()
	repo, err := git.InitRepository(context.Background(), t.TempDir(), false)
	require.NoError(t, err)
	// full branch shape, shrunk padding to keep the test fast
	res, err := Build(context.Background(), repo, Options{PaddingCommits: 3})
	require.NoError(t, err)
	return repo, res
}

func TestBuildTopology(t *testing.T) {
	skipIfGitMissing(t)

	repo, res := buildTestFixture(t)

	// exactly the two retained tips survive
	assert.True(t, repo.IsBranchExist(context.Background(), BranchSecond))
	assert.True(t, repo.IsBranchExist(context.Background(), BranchOther))
	for _, name := range scaffoldBranches {
		assert.False(t, repo.IsBranchExist(context.Background(), name), "scaffold branch %s survived", name)
	}

	secondTip, err := repo.RevParse(context.Background(), BranchSecond)
	require.NoError(t, err)
	assert.Equal(t, res.SecondTip, secondTip)

	// below the padding sits the pull-octopus merge, its second parent the
	// octopus commit with three parents
	octo := BranchSecond + "~3^2"
	_, err = repo.RevParse(context.Background(), octo+"^3")
	assert.NoError(t, err, "octopus merge lost its third parent")
	_, err = repo.RevParse(context.Background(), octo+"^4")
	assert.Error(t, err)

	// the scaffold commits stay reachable from the retained tips
	count, err := repo.RevListCount(context.Background(), git.RevListOptions{Roots: []string{BranchSecond}})
	require.NoError(t, err)
	assert.Greater(t, count, int64(20))
}

func TestBuildTaggedBlob(t *testing.T) {
	skipIfGitMissing(t)

	repo, res := buildTestFixture(t)

	require.NotEmpty(t, res.TaggedBlob)
	assert.True(t, repo.IsTagExist(context.Background(), TaggedBlobRef))

	// reachable through the tag, invisible to the commit-tree walk
	lines, err := repo.RevList(context.Background(), git.RevListOptions{Roots: []string{TaggedBlobRef}, Objects: true})
	require.NoError(t, err)
	assert.Contains(t, compare.Normalize(lines), res.TaggedBlob)

	lines, err = repo.RevList(context.Background(), git.RevListOptions{Roots: []string{BranchSecond}, Objects: true})
	require.NoError(t, err)
	assert.NotContains(t, compare.Normalize(lines), res.TaggedBlob)
}

func TestBulkCommits(t *testing.T) {
	skipIfGitMissing(t)

	repo, _ := buildTestFixture(t)

	before, err := repo.RevListCount(context.Background(), git.RevListOptions{Roots: []string{BranchOther}})
	require.NoError(t, err)
	beforeObjects, err := repo.RevListCount(context.Background(), git.RevListOptions{Roots: []string{BranchOther}, Objects: true})
	require.NoError(t, err)

	author := &git.Signature{Name: "Test User", Email: "test@example.com"}
	tip, err := BulkCommits(context.Background(), repo, BranchOther, "extra", 5, author)
	require.NoError(t, err)

	after, err := repo.RevListCount(context.Background(), git.RevListOptions{Roots: []string{BranchOther}})
	require.NoError(t, err)
	assert.Equal(t, before+5, after)

	// every bulk commit must contribute its own tree and blob, not just a
	// commit object reusing the previous tree
	afterObjects, err := repo.RevListCount(context.Background(), git.RevListOptions{Roots: []string{BranchOther}, Objects: true})
	require.NoError(t, err)
	assert.Equal(t, beforeObjects+15, afterObjects)

	got, err := repo.RevParse(context.Background(), BranchOther)
	require.NoError(t, err)
	assert.Equal(t, tip, got)
}

func TestBulkCommitsDistinctTrees(t *testing.T) {
	skipIfGitMissing(t)

	repo, _ := buildTestFixture(t)
	author := &git.Signature{Name: "Test User", Email: "test@example.com"}
	_, err := BulkCommits(context.Background(), repo, BranchSecond, "layer", 3, author)
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, rev := range []string{BranchSecond, BranchSecond + "~1", BranchSecond + "~2"} {
		tree, err := repo.RevParse(context.Background(), rev+"^{tree}")
		require.NoError(t, err)
		assert.False(t, seen[tree], "commits %s share a tree", rev)
		seen[tree] = true
	}

	// the added file is reachable through the new tip tree
	lines, err := repo.RevList(context.Background(), git.RevListOptions{
		Roots: []string{BranchSecond + "~2.." + BranchSecond},
		Paths: []string{"layer-3.t"},
	})
	require.NoError(t, err)
	assert.Len(t, lines, 1)
}
