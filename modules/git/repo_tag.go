// Copyright 2025 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package git

import (
	"context"

	"code.gitea.io/bitmap-doctor/modules/git/gitcmd"
)

// TagPrefix tags prefix path on the repository
const TagPrefix = "refs/tags/"

// CreateTag creates a lightweight tag pointing at the given revision. The
// revision may be any object, including a bare blob; that is exactly how the
// fixture keeps a blob reachable outside any commit tree.
func (repo *Repository) CreateTag(ctx context.Context, name, revision string) error {
	_, _, err := gitcmd.NewCommand("tag").AddDashesAndList(name, revision).
		WithDir(repo.Path).RunStdString(ctx)
	return err
}

// IsTagExist returns true if given tag exists in the repository.
func (repo *Repository) IsTagExist(ctx context.Context, name string) bool {
	return repo.IsReferenceExist(ctx, TagPrefix+name)
}
