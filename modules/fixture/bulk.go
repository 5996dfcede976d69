// Copyright 2025 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package fixture

import (
	"bytes"
	"context"
	"fmt"

	"code.gitea.io/bitmap-doctor/modules/git"
)

// BulkCommits appends n commits to the given branch through plumbing only
// (hash-object, mktree, commit-tree) and moves the branch ref to the last
// one. Each commit adds one new file `<id>-<i>.t`, so every commit carries a
// distinct tree and blob. Spawning one porcelain commit per padding commit
// would dominate fixture setup time at the default padding depth.
//
// The same routine layers the un-indexed commits on top of a bitmapped
// repository: the new trees and blobs are exactly the objects a traversal
// must find outside the bitmap.
func BulkCommits(ctx context.Context, repo *git.Repository, branch, id string, n int, author *git.Signature) (tip string, err error) {
	parent, err := repo.RevParse(ctx, branch)
	if err != nil {
		return "", err
	}
	entries, err := repo.LsTree(ctx, branch+"^{tree}")
	if err != nil {
		return "", err
	}

	for i := 1; i <= n; i++ {
		name := fmt.Sprintf("%s-%d", id, i)
		blob, err := repo.HashObject(ctx, bytes.NewBufferString(name+"\n"))
		if err != nil {
			return "", err
		}
		entries = append(entries, fmt.Sprintf("100644 blob %s\t%s.t", blob, name))
		tree, err := repo.Mktree(ctx, entries)
		if err != nil {
			return "", err
		}
		parent, err = repo.CommitTree(ctx, author, tree, git.CommitTreeOpts{
			Parents: []string{parent},
			Message: name,
		})
		if err != nil {
			return "", err
		}
	}
	if err := repo.UpdateRef(ctx, git.BranchPrefix+branch, parent); err != nil {
		return "", err
	}
	return parent, nil
}
