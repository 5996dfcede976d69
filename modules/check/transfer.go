// Copyright 2025 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package check

import (
	"context"
	"fmt"
	"strings"

	"code.gitea.io/bitmap-doctor/modules/fixture"
	"code.gitea.io/bitmap-doctor/modules/git"
	"code.gitea.io/bitmap-doctor/modules/inspect"
	"code.gitea.io/bitmap-doctor/modules/log"
)

func init() {
	RegisterStage(&Stage{
		Name:     "transfer-clone",
		Title:    "full bare clone preserves the tip",
		Priority: prioTransferClone,
		Requires: []string{"index"},
		Setup:    setupClone,
		Checks: []*Check{
			{
				Title: "cloned tip matches the source tip",
				Name:  "clone-tip",
				Run:   checkCloneTip,
			},
		},
	})
	RegisterStage(&Stage{
		Name:     "transfer-partial",
		Title:    "blob:none partial clone filters tree-reachable blobs",
		Priority: prioTransferPartial,
		Requires: []string{"index"},
		Setup:    setupPartialClone,
		Checks: []*Check{
			{
				Title: "partial clone keeps exactly the directly tagged blob",
				Name:  "partial-clone-blobs",
				Run:   checkPartialCloneBlobs,
			},
		},
	})
	RegisterStage(&Stage{
		Name:     "transfer-fetch",
		Title:    "fetch into the clone after the un-indexed commits",
		Priority: prioTransferFetch,
		Requires: []string{"transfer-clone", "pad"},
		Setup:    setupFetch,
		Checks: []*Check{
			{
				Title: "fetched tip matches the source tip",
				Name:  "fetch-tip",
				Run:   checkFetchTip,
			},
		},
	})
}

func setupClone(ctx context.Context, _ log.Logger, env *Env) error {
	if err := git.Clone(ctx, env.Source.Path, env.ClonePath(), git.CloneRepoOptions{
		Bare:    true,
		NoLocal: true,
	}); err != nil {
		return err
	}
	repo, err := git.OpenRepository(env.ClonePath())
	if err != nil {
		return err
	}
	env.Clone = repo
	return nil
}

func checkCloneTip(ctx context.Context, _ log.Logger, env *Env) error {
	return compareTips(ctx, env.Source, env.Clone, "HEAD")
}

func setupPartialClone(ctx context.Context, _ log.Logger, env *Env) error {
	if err := git.Clone(ctx, env.Source.Path, env.PartialPath(), git.CloneRepoOptions{
		Bare:    true,
		NoLocal: true,
		Filter:  "blob:none",
	}); err != nil {
		return err
	}
	repo, err := git.OpenRepository(env.PartialPath())
	if err != nil {
		return err
	}
	env.Partial = repo
	return nil
}

// checkPartialCloneBlobs lists every object of the partial clone's packs: the
// blob rows must be exactly the directly tagged blob, everything reachable
// only through commit trees must have been filtered out.
func checkPartialCloneBlobs(ctx context.Context, _ log.Logger, env *Env) error {
	packs, err := env.Partial.ListPacks()
	if err != nil {
		return err
	}
	if len(packs) == 0 {
		return fmt.Errorf("partial clone %s has no pack files", env.Partial.Path)
	}

	var blobs []string
	for _, pack := range packs {
		objects, err := env.Partial.VerifyPack(ctx, pack)
		if err != nil {
			return err
		}
		for _, obj := range objects {
			if obj.Type == git.ObjectBlob {
				blobs = append(blobs, obj.ID)
			}
		}
	}
	return inspect.Assert("blobs surviving blob:none partial clone",
		env.Fixture.TaggedBlob, strings.Join(blobs, " "))
}

func setupFetch(ctx context.Context, _ log.Logger, env *Env) error {
	return env.Clone.Fetch(ctx, git.FetchOptions{
		Refspec: fixture.BranchSecond + ":" + fixture.BranchSecond,
	})
}

func checkFetchTip(ctx context.Context, _ log.Logger, env *Env) error {
	return compareTips(ctx, env.Source, env.Clone, fixture.BranchSecond)
}

func compareTips(ctx context.Context, source, clone *git.Repository, rev string) error {
	want, err := source.RevParse(ctx, rev)
	if err != nil {
		return err
	}
	got, err := clone.RevParse(ctx, rev)
	if err != nil {
		return err
	}
	return inspect.Assert(fmt.Sprintf("resolved %s after transfer", rev), want, got)
}
