// Copyright 2025 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package check

import (
	"context"

	"code.gitea.io/bitmap-doctor/modules/git"
	"code.gitea.io/bitmap-doctor/modules/inspect"
	"code.gitea.io/bitmap-doctor/modules/log"
)

func init() {
	RegisterStage(&Stage{
		Name:     "inspect",
		Title:    "point inspections of the object store",
		Priority: prioInspect,
		Requires: []string{"index"},
		Setup:    setupInspect,
		Checks: []*Check{
			{
				// the index stage's full repack left a single on-disk copy,
				// which is the documented precondition of the delta query
				Title: "tagged blob is stored whole after the full repack",
				Name:  "tagged-blob-delta-base",
				Run: func(ctx context.Context, _ log.Logger, env *Env) error {
					return inspect.DeltaBase(ctx, env.Source, env.Fixture.TaggedBlob, git.NullOID)
				},
			},
			{
				Title: "multi-pack-index checksum is stable across a verify pass",
				Name:  "midx-checksum",
				Run:   checkMidxChecksum,
			},
		},
	})
}

func setupInspect(ctx context.Context, _ log.Logger, env *Env) error {
	return env.Source.WriteMultiPackIndex(ctx)
}

func checkMidxChecksum(ctx context.Context, _ log.Logger, env *Env) error {
	before, err := inspect.MidxChecksum(ctx, env.Source, "")
	if err != nil {
		return err
	}
	if before == "" {
		return &inspect.AssertionFailure{What: "multi-pack-index checksum", Expected: "non-empty", Actual: before}
	}
	if err := env.Source.MultiPackIndexVerify(ctx, ""); err != nil {
		return err
	}
	after, err := inspect.MidxChecksum(ctx, env.Source, "")
	if err != nil {
		return err
	}
	return inspect.Assert("multi-pack-index checksum after verify", before, after)
}
