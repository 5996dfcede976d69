// Copyright 2025 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package git

import (
	"bytes"
	"context"
	"strings"

	"code.gitea.io/bitmap-doctor/modules/git/gitcmd"
)

// LsTree lists the entries of the given tree, one raw line per entry in the
// format mktree accepts back.
func (repo *Repository) LsTree(ctx context.Context, treeID string) ([]string, error) {
	stdout, _, err := gitcmd.NewCommand("ls-tree").AddDynamicArguments(treeID).
		WithDir(repo.Path).RunStdString(ctx)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if len(lines) == 1 && lines[0] == "" {
		return nil, nil
	}
	return lines, nil
}

// Mktree builds a tree object from ls-tree formatted entry lines and returns
// its object ID.
func (repo *Repository) Mktree(ctx context.Context, entries []string) (string, error) {
	stdin := new(bytes.Buffer)
	for _, entry := range entries {
		stdin.WriteString(entry)
		stdin.WriteByte('\n')
	}

	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	err := gitcmd.NewCommand("mktree").
		WithDir(repo.Path).
		WithStdin(stdin).
		WithStdout(stdout).
		WithStderr(stderr).
		Run(ctx)
	if err != nil {
		return "", gitcmd.ConcatenateError(err, stderr.String())
	}
	return strings.TrimSpace(stdout.String()), nil
}
