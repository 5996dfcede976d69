// Copyright 2025 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package check

import (
	"context"
	"fmt"

	"code.gitea.io/bitmap-doctor/modules/fixture"
	"code.gitea.io/bitmap-doctor/modules/git"
	"code.gitea.io/bitmap-doctor/modules/log"
	"code.gitea.io/bitmap-doctor/modules/setting"
)

// Stage priorities fix the pipeline order; Requires makes the data
// dependencies between them explicit.
const (
	prioFixture         = 10
	prioIndex           = 20
	prioSelfCheck       = 30
	prioMatrixFull      = 40
	prioTransferClone   = 50
	prioTransferPartial = 55
	prioPad             = 60
	prioMatrixPartial   = 70
	prioTransferFetch   = 80
	prioInspect         = 90
)

// unindexedCommits is how many commits the pad stage layers on each retained
// branch without rebuilding the bitmap, producing the partial-bitmap state.
const unindexedCommits = 10

func init() {
	RegisterStage(&Stage{
		Name:     "fixture",
		Title:    "build the adversarial fixture repository",
		Priority: prioFixture,
		Fatal:    true,
		Setup:    setupFixture,
	})
	RegisterStage(&Stage{
		Name:     "index",
		Title:    "repack with bitmaps (full-bitmap state)",
		Priority: prioIndex,
		Requires: []string{"fixture"},
		Setup:    setupIndex,
	})
	RegisterStage(&Stage{
		Name:     "self-check",
		Title:    "bitmap self-consistency against the full reachable set",
		Priority: prioSelfCheck,
		Requires: []string{"index"},
		Checks: []*Check{
			{
				Title: "rev-list --test-bitmap reports no inconsistency",
				Name:  "test-bitmap",
				Run: func(ctx context.Context, _ log.Logger, env *Env) error {
					return env.Source.TestBitmap(ctx, fixture.BranchSecond)
				},
			},
		},
	})
	RegisterStage(&Stage{
		Name:     "pad",
		Title:    "layer un-indexed commits on top (partial-bitmap state)",
		Priority: prioPad,
		Requires: []string{"index"},
		Setup:    setupPad,
	})
}

func setupFixture(ctx context.Context, _ log.Logger, env *Env) error {
	repo, err := git.InitRepository(ctx, env.SourcePath(), false)
	if err != nil {
		return err
	}
	// a reused work path would layer the fixture on top of foreign history
	// and silently change every expected answer
	if empty, err := repo.IsEmpty(ctx); err != nil {
		return err
	} else if !empty {
		return fmt.Errorf("%s already contains history, refusing to build the fixture over it", env.SourcePath())
	}
	res, err := fixture.Build(ctx, repo, fixture.Options{})
	if err != nil {
		return err
	}
	env.Source = repo
	env.Fixture = res
	return nil
}

func setupIndex(ctx context.Context, _ log.Logger, env *Env) error {
	return env.Source.Repack(ctx, git.RepackOptions{
		All:          true,
		RemovePacked: true,
		WriteBitmap:  true,
	})
}

func setupPad(ctx context.Context, _ log.Logger, env *Env) error {
	author := &git.Signature{
		Name:  setting.Fixture.AuthorName,
		Email: setting.Fixture.AuthorEmail,
	}
	for _, branch := range []string{fixture.BranchSecond, fixture.BranchOther} {
		if _, err := fixture.BulkCommits(ctx, env.Source, branch, "unindexed-"+branch, unindexedCommits, author); err != nil {
			return err
		}
	}
	return nil
}
