// Copyright 2025 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package git

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"code.gitea.io/bitmap-doctor/modules/git/gitcmd"
)

// Signature represents the Author or Committer information.
type Signature struct {
	Name  string
	Email string
}

// String implements Stringer interface, it formats the signature like `git log` does.
func (s *Signature) String() string {
	return fmt.Sprintf("%s <%s>", s.Name, s.Email)
}

// AddChanges marks local changes to be ready for commit.
func (repo *Repository) AddChanges(ctx context.Context, all bool, files ...string) error {
	cmd := gitcmd.NewCommand("add")
	if all {
		cmd.AddArguments("--all")
	}
	cmd.AddDashesAndList(files...)
	_, _, err := cmd.WithDir(repo.Path).RunStdString(ctx)
	return err
}

// CommitChangesOptions the options when a commit created
type CommitChangesOptions struct {
	Committer *Signature
	Author    *Signature
	Message   string
}

// CommitChanges commits local changes with given committer, author and message.
// If author is nil, it will be the same as committer.
func (repo *Repository) CommitChanges(ctx context.Context, opts CommitChangesOptions) error {
	cmd := gitcmd.NewCommand()
	if opts.Committer != nil {
		cmd.AddOptionValues("-c", "user.name="+opts.Committer.Name)
		cmd.AddOptionValues("-c", "user.email="+opts.Committer.Email)
	}
	cmd.AddArguments("commit", "--no-gpg-sign")

	if opts.Author == nil {
		opts.Author = opts.Committer
	}
	if opts.Author != nil {
		cmd.AddOptionFormat("--author='%s <%s>'", opts.Author.Name, opts.Author.Email)
	}
	cmd.AddOptionFormat("--message=%s", opts.Message)

	_, _, err := cmd.WithDir(repo.Path).RunStdString(ctx)
	// No stderr but exit status 1 means nothing to commit.
	if err != nil && err.Error() == "exit status 1" {
		return nil
	}
	return err
}

// RevParse resolves a revision to its full object ID.
func (repo *Repository) RevParse(ctx context.Context, rev string) (string, error) {
	stdout, _, err := gitcmd.NewCommand("rev-parse", "--verify").AddDynamicArguments(rev).
		WithDir(repo.Path).RunStdString(ctx)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(stdout), nil
}

// CommitTreeOpts represents the possible options to CommitTree
type CommitTreeOpts struct {
	Parents []string
	Message string
}

// CommitTree creates a commit from a given tree id for the user with provided message
func (repo *Repository) CommitTree(ctx context.Context, sig *Signature, treeID string, opts CommitTreeOpts) (string, error) {
	commitTimeStr := time.Now().Format(time.RFC3339)
	env := append(os.Environ(),
		"GIT_AUTHOR_NAME="+sig.Name,
		"GIT_AUTHOR_EMAIL="+sig.Email,
		"GIT_AUTHOR_DATE="+commitTimeStr,
		"GIT_COMMITTER_NAME="+sig.Name,
		"GIT_COMMITTER_EMAIL="+sig.Email,
		"GIT_COMMITTER_DATE="+commitTimeStr,
	)

	cmd := gitcmd.NewCommand("commit-tree").AddDynamicArguments(treeID)
	for _, parent := range opts.Parents {
		cmd.AddOptionValues("-p", parent)
	}
	cmd.AddArguments("--no-gpg-sign")

	messageBytes := new(bytes.Buffer)
	_, _ = messageBytes.WriteString(opts.Message)
	_, _ = messageBytes.WriteString("\n")

	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	err := cmd.
		WithEnv(env).
		WithDir(repo.Path).
		WithStdin(messageBytes).
		WithStdout(stdout).
		WithStderr(stderr).
		Run(ctx)
	if err != nil {
		return "", gitcmd.ConcatenateError(err, stderr.String())
	}
	return strings.TrimSpace(stdout.String()), nil
}

// UpdateRef makes the given reference point at the object ID.
func (repo *Repository) UpdateRef(ctx context.Context, ref, objectID string) error {
	_, _, err := gitcmd.NewCommand("update-ref").AddDynamicArguments(ref, objectID).
		WithDir(repo.Path).RunStdString(ctx)
	return err
}
