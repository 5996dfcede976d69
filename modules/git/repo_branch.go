// Copyright 2025 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package git

import (
	"context"
	"errors"
	"strings"

	"code.gitea.io/bitmap-doctor/modules/git/gitcmd"
)

// BranchPrefix base dir of the branch information file store on git
const BranchPrefix = "refs/heads/"

// IsReferenceExist returns true if given reference exists in the repository.
func (repo *Repository) IsReferenceExist(ctx context.Context, name string) bool {
	_, _, err := gitcmd.NewCommand("show-ref", "--verify").AddDashesAndList(name).
		WithDir(repo.Path).RunStdString(ctx)
	return err == nil
}

// IsBranchExist returns true if given branch exists in the repository.
func (repo *Repository) IsBranchExist(ctx context.Context, name string) bool {
	return repo.IsReferenceExist(ctx, BranchPrefix+name)
}

// GetDefaultBranch gets the default branch of the repository.
func (repo *Repository) GetDefaultBranch(ctx context.Context) (string, error) {
	stdout, _, err := gitcmd.NewCommand("symbolic-ref", "HEAD").
		WithDir(repo.Path).RunStdString(ctx)
	if err != nil {
		return "", err
	}
	stdout = strings.TrimSpace(stdout)
	if !strings.HasPrefix(stdout, BranchPrefix) {
		return "", errors.New("the HEAD is not a branch: " + stdout)
	}
	return strings.TrimPrefix(stdout, BranchPrefix), nil
}

// CreateBranch creates a new branch at startPoint and checks it out.
func (repo *Repository) CreateBranch(ctx context.Context, branch, startPoint string) error {
	cmd := gitcmd.NewCommand("checkout", "-b")
	if startPoint != "" {
		cmd.AddDynamicArguments(branch, startPoint)
	} else {
		cmd.AddDynamicArguments(branch)
	}
	_, _, err := cmd.WithDir(repo.Path).RunStdString(ctx)
	return err
}

// RenameBranch renames a branch, overwriting the target name if it exists.
func (repo *Repository) RenameBranch(ctx context.Context, from, to string) error {
	_, _, err := gitcmd.NewCommand("branch", "-M").AddDynamicArguments(from, to).
		WithDir(repo.Path).RunStdString(ctx)
	return err
}

// Checkout checks out the given branch or revision.
func (repo *Repository) Checkout(ctx context.Context, rev string) error {
	_, _, err := gitcmd.NewCommand("checkout").AddDynamicArguments(rev).
		WithDir(repo.Path).RunStdString(ctx)
	return err
}

// DeleteBranchOptions Option(s) for delete branch
type DeleteBranchOptions struct {
	Force bool
}

// DeleteBranch delete a branch by name on repository.
func (repo *Repository) DeleteBranch(ctx context.Context, name string, opts DeleteBranchOptions) error {
	cmd := gitcmd.NewCommand("branch")
	if opts.Force {
		cmd.AddArguments("-D")
	} else {
		cmd.AddArguments("-d")
	}
	cmd.AddDashesAndList(name)
	if _, _, err := cmd.WithDir(repo.Path).RunStdString(ctx); err != nil {
		if strings.Contains(err.Error(), "not found") {
			return ErrBranchNotExist{Name: name}
		}
		return err
	}
	return nil
}
