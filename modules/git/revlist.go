// Copyright 2025 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package git

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"code.gitea.io/bitmap-doctor/modules/git/gitcmd"
)

// RevListOptions represents one traversal query. The same options drive both
// the reference walk and, with UseBitmapIndex set, the accelerated one; the
// two must answer identically.
type RevListOptions struct {
	// Roots are the revision arguments: tips ("second"), ranges
	// ("second~5..second"), symmetric differences ("other...second") or any
	// ref, including a tag pointing directly at a blob.
	Roots []string

	Count          bool
	Objects        bool
	MaxCount       int
	Paths          []string
	UseBitmapIndex bool
}

func (opts *RevListOptions) cmd() *gitcmd.Command {
	cmd := gitcmd.NewCommand("rev-list")
	if opts.UseBitmapIndex {
		cmd.AddArguments("--use-bitmap-index")
	}
	if opts.Count {
		cmd.AddArguments("--count")
	}
	if opts.Objects {
		cmd.AddArguments("--objects")
	}
	if opts.MaxCount > 0 {
		cmd.AddOptionFormat("--max-count=%d", opts.MaxCount)
	}
	cmd.AddDynamicArguments(opts.Roots...)
	if len(opts.Paths) > 0 {
		cmd.AddDashesAndList(opts.Paths...)
	}
	return cmd
}

// String renders the query the way it would be typed, used in failure reports.
func (opts *RevListOptions) String() string {
	c := opts.cmd()
	return strings.TrimPrefix(c.String(), GitExecutable+" ")
}

// RevList runs the traversal and returns its raw output lines. Reference
// output may decorate non-commit objects with a path after the object ID;
// callers normalize before comparing.
func (repo *Repository) RevList(ctx context.Context, opts RevListOptions) ([]string, error) {
	stdout, _, err := opts.cmd().WithDir(repo.Path).RunStdString(ctx)
	if err != nil {
		return nil, fmt.Errorf("rev-list %v: %w", opts.Roots, err)
	}
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if len(lines) == 1 && lines[0] == "" {
		return nil, nil
	}
	return lines, nil
}

// RevListCount runs the traversal in count-only mode.
func (repo *Repository) RevListCount(ctx context.Context, opts RevListOptions) (int64, error) {
	opts.Count = true
	stdout, _, err := opts.cmd().WithDir(repo.Path).RunStdString(ctx)
	if err != nil {
		return 0, fmt.Errorf("rev-list --count %v: %w", opts.Roots, err)
	}
	return strconv.ParseInt(strings.TrimSpace(stdout), 10, 64)
}

// TestBitmap asks git to walk the history from rev while asserting the
// bitmap for every commit it has one for, the internal self-consistency
// check of the accelerated path.
func (repo *Repository) TestBitmap(ctx context.Context, rev string) error {
	_, stderr, err := gitcmd.NewCommand("rev-list", "--test-bitmap").AddDynamicArguments(rev).
		WithDir(repo.Path).RunStdString(ctx)
	if err != nil {
		return fmt.Errorf("rev-list --test-bitmap %s: %w", rev, err)
	}
	// the test mode reports mismatches on stderr but may still exit zero on
	// older gits, so scan for them explicitly
	if strings.Contains(stderr, "mismatch") {
		return fmt.Errorf("rev-list --test-bitmap %s: bitmap inconsistency: %s", rev, strings.TrimSpace(stderr))
	}
	return nil
}
