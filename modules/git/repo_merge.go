// Copyright 2025 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package git

import (
	"context"

	"code.gitea.io/bitmap-doctor/modules/git/gitcmd"
)

// MergeOptions options for a merge into the currently checked out branch.
// More than one head makes the result an octopus merge.
type MergeOptions struct {
	Message string
	Heads   []string
}

// Merge merges the given heads into the current branch with a merge commit.
// Fast-forwards are disabled so the commit graph shape is under the caller's
// control even when a merge would be trivial.
func (repo *Repository) Merge(ctx context.Context, opts MergeOptions) error {
	cmd := gitcmd.NewCommand("merge", "--no-ff", "--no-edit", "--no-gpg-sign")
	if opts.Message != "" {
		cmd.AddOptionValues("-m", opts.Message)
	}
	cmd.AddDynamicArguments(opts.Heads...)
	_, _, err := cmd.WithDir(repo.Path).RunStdString(ctx)
	return err
}
