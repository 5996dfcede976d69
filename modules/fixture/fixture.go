// Copyright 2025 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

// Package fixture deterministically builds the adversarial commit graph the
// verification matrix runs against: two long-running branches with an
// ambiguous merge-base region, pairwise and octopus merges whose scaffolding
// branches are deleted afterwards, padding commits that push the interesting
// merges away from bitmap tip selection, and a blob reachable only through a
// direct tag.
package fixture

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"code.gitea.io/bitmap-doctor/modules/git"
	"code.gitea.io/bitmap-doctor/modules/log"
	"code.gitea.io/bitmap-doctor/modules/setting"
)

// BranchSecond and BranchOther are the two branch tips that survive the
// build and are therefore the only bitmap selection candidates.
const (
	BranchSecond = "second"
	BranchOther  = "other"

	// TaggedBlobRef is the lightweight tag pointing directly at a blob.
	TaggedBlobRef = "tagged-blob"
)

var scaffoldBranches = []string{"merge-left", "merge-right", "octo-second", "octo-other"}

// Options control the graph proportions. Zero values fall back to the
// configured defaults.
type Options struct {
	BranchLength   int
	DivergePoint   int
	PaddingCommits int
	Author         *git.Signature
}

func (opts *Options) fillDefaults() {
	if opts.BranchLength <= 0 {
		opts.BranchLength = setting.Fixture.BranchLength
	}
	if opts.DivergePoint <= 0 {
		opts.DivergePoint = setting.Fixture.DivergePoint
	}
	if opts.PaddingCommits <= 0 {
		opts.PaddingCommits = setting.Fixture.PaddingCommits
	}
	if opts.Author == nil {
		opts.Author = &git.Signature{
			Name:  setting.Fixture.AuthorName,
			Email: setting.Fixture.AuthorEmail,
		}
	}
}

// Result carries the facts later stages assert against.
type Result struct {
	SecondTip  string
	OtherTip   string
	TaggedBlob string
}

// Build constructs the fixture graph in the given (fresh) repository. Every
// step must succeed: a half-built fixture would silently weaken every later
// scenario, so the first error aborts the build.
func Build(ctx context.Context, repo *git.Repository, opts Options) (*Result, error) {
	opts.fillDefaults()
	b := &builder{ctx: ctx, repo: repo, opts: opts}

	steps := []struct {
		name string
		run  func() error
	}{
		{"configure repository", b.configure},
		{"base history", b.baseHistory},
		{"side branch", b.sideBranch},
		{"pairwise merges", b.pairwiseMerges},
		{"octopus merges", b.octopusMerges},
		{"pull octopus merges", b.pullOctopus},
		{"delete scaffold branches", b.deleteScaffold},
		{"padding commits", b.padding},
		{"tagged blob", b.taggedBlob},
	}
	for _, step := range steps {
		log.Debug("fixture: %s", step.name)
		if err := step.run(); err != nil {
			return nil, fmt.Errorf("fixture step %q: %w", step.name, err)
		}
	}

	res := &Result{TaggedBlob: b.taggedBlobOID}
	var err error
	if res.SecondTip, err = repo.RevParse(ctx, BranchSecond); err != nil {
		return nil, err
	}
	if res.OtherTip, err = repo.RevParse(ctx, BranchOther); err != nil {
		return nil, err
	}
	log.Info("fixture built: %s=%s %s=%s %s=%s",
		BranchSecond, res.SecondTip, BranchOther, res.OtherTip, TaggedBlobRef, res.TaggedBlob)
	return res, nil
}

type builder struct {
	ctx  context.Context
	repo *git.Repository
	opts Options

	taggedBlobOID string
}

func (b *builder) configure() error {
	for _, kv := range [][2]string{
		{"user.name", b.opts.Author.Name},
		{"user.email", b.opts.Author.Email},
		{"uploadpack.allowFilter", "true"},
		{"repack.writeBitmaps", "true"},
	} {
		if err := b.repo.SetConfig(b.ctx, kv[0], kv[1]); err != nil {
			return err
		}
	}
	return nil
}

// commitFile writes <stem>.t containing the stem, stages it and commits with
// the stem as message.
func (b *builder) commitFile(stem string) error {
	name := stem + ".t"
	if err := os.WriteFile(filepath.Join(b.repo.Path, name), []byte(stem+"\n"), 0o644); err != nil {
		return err
	}
	if err := b.repo.AddChanges(b.ctx, false, name); err != nil {
		return err
	}
	return b.repo.CommitChanges(b.ctx, git.CommitChangesOptions{
		Committer: b.opts.Author,
		Message:   stem,
	})
}

// baseHistory creates the numbered commits 1..BranchLength and names the
// branch "second".
func (b *builder) baseHistory() error {
	for i := 1; i <= b.opts.BranchLength; i++ {
		if err := b.commitFile(fmt.Sprintf("%d", i)); err != nil {
			return err
		}
	}
	head, err := b.repo.GetDefaultBranch(b.ctx)
	if err != nil {
		return err
	}
	return b.repo.RenameBranch(b.ctx, head, BranchSecond)
}

// sideBranch diverges "other" from DivergePoint commits back and gives it its
// own run of commits.
func (b *builder) sideBranch() error {
	start := fmt.Sprintf("%s~%d", BranchSecond, b.opts.DivergePoint)
	if err := b.repo.CreateBranch(b.ctx, BranchOther, start); err != nil {
		return err
	}
	for i := 1; i <= b.opts.BranchLength; i++ {
		if err := b.commitFile(fmt.Sprintf("side-%d", i)); err != nil {
			return err
		}
	}
	return nil
}

// pairwiseMerges cross-merges the two branches near their tails, creating
// multiple merge bases between them.
func (b *builder) pairwiseMerges() error {
	if err := b.repo.CreateBranch(b.ctx, "merge-left", BranchOther+"~2"); err != nil {
		return err
	}
	if err := b.repo.Merge(b.ctx, git.MergeOptions{Message: "merge-left", Heads: []string{BranchSecond + "~2"}}); err != nil {
		return err
	}
	if err := b.repo.CreateBranch(b.ctx, "merge-right", BranchSecond+"~1"); err != nil {
		return err
	}
	return b.repo.Merge(b.ctx, git.MergeOptions{Message: "merge-right", Heads: []string{BranchOther + "~1"}})
}

// octopusMerges merges both pairwise merges into each original branch in one
// commit each, giving the graph its multi-parent nodes.
func (b *builder) octopusMerges() error {
	if err := b.repo.CreateBranch(b.ctx, "octo-second", BranchSecond); err != nil {
		return err
	}
	if err := b.repo.Merge(b.ctx, git.MergeOptions{Message: "octopus-second", Heads: []string{"merge-left", "merge-right"}}); err != nil {
		return err
	}
	if err := b.repo.CreateBranch(b.ctx, "octo-other", BranchOther); err != nil {
		return err
	}
	return b.repo.Merge(b.ctx, git.MergeOptions{Message: "octopus-other", Heads: []string{"merge-left", "merge-right"}})
}

// pullOctopus brings each octopus merge back into its originating branch, so
// the octopus commits stay reachable after the scaffold branches go away.
func (b *builder) pullOctopus() error {
	if err := b.repo.Checkout(b.ctx, BranchOther); err != nil {
		return err
	}
	if err := b.repo.Merge(b.ctx, git.MergeOptions{Message: "pull octopus", Heads: []string{"octo-other"}}); err != nil {
		return err
	}
	if err := b.repo.Checkout(b.ctx, BranchSecond); err != nil {
		return err
	}
	return b.repo.Merge(b.ctx, git.MergeOptions{Message: "pull octopus", Heads: []string{"octo-second"}})
}

// deleteScaffold removes the intermediate merge branches so they can not be
// picked as bitmap tips; their commits stay reachable from second and other.
func (b *builder) deleteScaffold() error {
	for _, name := range scaffoldBranches {
		if err := b.repo.DeleteBranch(b.ctx, name, git.DeleteBranchOptions{Force: true}); err != nil {
			return err
		}
	}
	return nil
}

// padding buries the merge commits under enough plain history that tip
// selection heuristics lose interest in them.
func (b *builder) padding() error {
	if _, err := BulkCommits(b.ctx, b.repo, BranchSecond, "padding", b.opts.PaddingCommits, b.opts.Author); err != nil {
		return err
	}
	_, err := BulkCommits(b.ctx, b.repo, BranchOther, "padding-other", b.opts.PaddingCommits, b.opts.Author)
	return err
}

// taggedBlob hashes a blob straight into the object database and tags it, so
// it is reachable but from no commit tree.
func (b *builder) taggedBlob() error {
	oid, err := b.repo.HashObject(b.ctx, bytes.NewBufferString("tagged-blob\n"))
	if err != nil {
		return err
	}
	if err := b.repo.CreateTag(b.ctx, TaggedBlobRef, oid); err != nil {
		return err
	}
	b.taggedBlobOID = oid
	return nil
}
