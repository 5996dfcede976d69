// Copyright 2025 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package git

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSig = &Signature{Name: "Test User", Email: "test@example.com"}

// newTestRepo initializes a repository with one commit per given file stem.
func newTestRepo(t *testing.T, stems ...string) *Repository {
	t.Helper()
	repo, err := InitRepository(context.Background(), t.TempDir(), false)
	require.NoError(t, err)
	require.NoError(t, repo.SetConfig(context.Background(), "user.name", testSig.Name))
	require.NoError(t, repo.SetConfig(context.Background(), "user.email", testSig.Email))
	for _, stem := range stems {
		commitTestFile(t, repo, stem)
	}
	return repo
}

func commitTestFile(t *testing.T, repo *Repository, stem string) {
	t.Helper()
	name := stem + ".t"
	require.NoError(t, os.WriteFile(filepath.Join(repo.Path, name), []byte(stem+"\n"), 0o644))
	require.NoError(t, repo.AddChanges(context.Background(), false, name))
	require.NoError(t, repo.CommitChanges(context.Background(), CommitChangesOptions{Committer: testSig, Message: stem}))
}

func TestRepoIsEmpty(t *testing.T) {
	skipIfGitMissing(t)

	repo := newTestRepo(t)
	isEmpty, err := repo.IsEmpty(context.Background())
	assert.NoError(t, err)
	assert.True(t, isEmpty)

	commitTestFile(t, repo, "1")
	isEmpty, err = repo.IsEmpty(context.Background())
	assert.NoError(t, err)
	assert.False(t, isEmpty)
}

func TestRepoBranches(t *testing.T) {
	skipIfGitMissing(t)

	repo := newTestRepo(t, "1", "2")

	head, err := repo.GetDefaultBranch(context.Background())
	require.NoError(t, err)
	require.NoError(t, repo.RenameBranch(context.Background(), head, "second"))
	assert.True(t, repo.IsBranchExist(context.Background(), "second"))
	assert.False(t, repo.IsBranchExist(context.Background(), head))

	require.NoError(t, repo.CreateBranch(context.Background(), "other", "second~1"))
	assert.True(t, repo.IsBranchExist(context.Background(), "other"))

	require.NoError(t, repo.Checkout(context.Background(), "second"))
	require.NoError(t, repo.DeleteBranch(context.Background(), "other", DeleteBranchOptions{Force: true}))
	assert.False(t, repo.IsBranchExist(context.Background(), "other"))

	err = repo.DeleteBranch(context.Background(), "no-such", DeleteBranchOptions{Force: true})
	assert.True(t, IsErrBranchNotExist(err))
}

func TestRepoMerge(t *testing.T) {
	skipIfGitMissing(t)

	repo := newTestRepo(t, "1", "2", "3")
	head, err := repo.GetDefaultBranch(context.Background())
	require.NoError(t, err)

	require.NoError(t, repo.CreateBranch(context.Background(), "left", head+"~1"))
	commitTestFile(t, repo, "left")
	require.NoError(t, repo.CreateBranch(context.Background(), "right", head+"~2"))
	commitTestFile(t, repo, "right")

	require.NoError(t, repo.Checkout(context.Background(), head))
	require.NoError(t, repo.Merge(context.Background(), MergeOptions{Message: "octopus", Heads: []string{"left", "right"}}))

	// the octopus merge commit has three parents
	for _, parent := range []string{"^1", "^2", "^3"} {
		_, err := repo.RevParse(context.Background(), head+parent)
		assert.NoError(t, err, "missing parent %s", parent)
	}
	_, err = repo.RevParse(context.Background(), head+"^4")
	assert.Error(t, err)
}

func TestRevList(t *testing.T) {
	skipIfGitMissing(t)

	repo := newTestRepo(t, "1", "2", "3")

	count, err := repo.RevListCount(context.Background(), RevListOptions{Roots: []string{"HEAD"}})
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)

	count, err = repo.RevListCount(context.Background(), RevListOptions{Roots: []string{"HEAD"}, MaxCount: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	count, err = repo.RevListCount(context.Background(), RevListOptions{Roots: []string{"HEAD"}, Paths: []string{"1.t"}})
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	lines, err := repo.RevList(context.Background(), RevListOptions{Roots: []string{"HEAD"}})
	require.NoError(t, err)
	assert.Len(t, lines, 3)

	// per commit: the commit, the root tree and one new blob, with trees and
	// blobs shared for unchanged files
	lines, err = repo.RevList(context.Background(), RevListOptions{Roots: []string{"HEAD"}, Objects: true})
	require.NoError(t, err)
	assert.Len(t, lines, 9)
}

func TestHashObjectAndTag(t *testing.T) {
	skipIfGitMissing(t)

	repo := newTestRepo(t, "1")
	oid, err := repo.HashObject(context.Background(), bytes.NewBufferString("tagged-blob\n"))
	require.NoError(t, err)
	require.Len(t, oid, 40)

	require.NoError(t, repo.CreateTag(context.Background(), "tagged-blob", oid))
	assert.True(t, repo.IsTagExist(context.Background(), "tagged-blob"))

	// non-commit lines carry a trailing decoration, compare the leading field
	lines, err := repo.RevList(context.Background(), RevListOptions{Roots: []string{"tagged-blob"}, Objects: true})
	require.NoError(t, err)
	found := false
	for _, line := range lines {
		if strings.Fields(line)[0] == oid {
			found = true
		}
	}
	assert.True(t, found, "tagged blob %s not enumerated", oid)
}

func TestCommitTreeAndUpdateRef(t *testing.T) {
	skipIfGitMissing(t)

	repo := newTestRepo(t, "1")
	head, err := repo.GetDefaultBranch(context.Background())
	require.NoError(t, err)

	parent, err := repo.RevParse(context.Background(), "HEAD")
	require.NoError(t, err)
	tree, err := repo.RevParse(context.Background(), "HEAD^{tree}")
	require.NoError(t, err)

	oid, err := repo.CommitTree(context.Background(), testSig, tree, CommitTreeOpts{Parents: []string{parent}, Message: "plumbed"})
	require.NoError(t, err)
	require.NoError(t, repo.UpdateRef(context.Background(), BranchPrefix+head, oid))

	got, err := repo.RevParse(context.Background(), "HEAD")
	require.NoError(t, err)
	assert.Equal(t, oid, got)
}

func TestTreePlumbing(t *testing.T) {
	skipIfGitMissing(t)

	repo := newTestRepo(t, "1")
	baseTree, err := repo.RevParse(context.Background(), "HEAD^{tree}")
	require.NoError(t, err)

	entries, err := repo.LsTree(context.Background(), baseTree)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0], "1.t")

	blob, err := repo.HashObject(context.Background(), bytes.NewBufferString("extra\n"))
	require.NoError(t, err)
	entries = append(entries, "100644 blob "+blob+"\textra.t")

	tree, err := repo.Mktree(context.Background(), entries)
	require.NoError(t, err)
	require.Len(t, tree, 40)
	assert.NotEqual(t, baseTree, tree)

	// the round trip through ls-tree yields the same entries back
	roundTrip, err := repo.LsTree(context.Background(), tree)
	require.NoError(t, err)
	assert.Len(t, roundTrip, 2)
}

func TestRepack(t *testing.T) {
	skipIfGitMissing(t)

	repo := newTestRepo(t, "1", "2")
	require.NoError(t, repo.Repack(context.Background(), RepackOptions{All: true, RemovePacked: true, WriteBitmap: true}))

	packs, err := repo.ListPacks()
	require.NoError(t, err)
	require.Len(t, packs, 1)

	objects, err := repo.VerifyPack(context.Background(), packs[0])
	require.NoError(t, err)
	// 2 commits, 2 trees, 2 blobs
	assert.Len(t, objects, 6)

	assert.NoError(t, repo.TestBitmap(context.Background(), "HEAD"))

	// a lone small blob is stored whole
	blob, err := repo.RevParse(context.Background(), "HEAD:1.t")
	require.NoError(t, err)
	base, err := repo.DeltaBase(context.Background(), blob)
	require.NoError(t, err)
	assert.Equal(t, NullOID, base)
}

func TestMidx(t *testing.T) {
	skipIfGitMissing(t)

	repo := newTestRepo(t, "1")

	_, err := repo.MidxChecksum(context.Background(), "")
	assert.True(t, IsErrNotExist(err))

	require.NoError(t, repo.Repack(context.Background(), RepackOptions{All: true, RemovePacked: true}))
	require.NoError(t, repo.WriteMultiPackIndex(context.Background()))
	require.NoError(t, repo.MultiPackIndexVerify(context.Background(), ""))

	sum, err := repo.MidxChecksum(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, sum, 40)
}
