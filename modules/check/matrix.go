// Copyright 2025 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package check

import (
	"context"
	"fmt"

	"code.gitea.io/bitmap-doctor/modules/compare"
	"code.gitea.io/bitmap-doctor/modules/fixture"
	"code.gitea.io/bitmap-doctor/modules/git"
	"code.gitea.io/bitmap-doctor/modules/log"
)

func init() {
	RegisterStage(&Stage{
		Name:     "matrix-full",
		Title:    "traversal matrix against the fully bitmapped repository",
		Priority: prioMatrixFull,
		Requires: []string{"index"},
		Checks:   matrixChecks(),
	})
	RegisterStage(&Stage{
		Name:     "matrix-partial",
		Title:    "traversal matrix with un-indexed commits on top",
		Priority: prioMatrixPartial,
		Requires: []string{"index", "pad"},
		Checks:   matrixChecks(),
	})
}

// matrixChecks is the fixed query set, instantiated per retained branch. The
// same set runs in both repository states; only the stage differs.
func matrixChecks() []*Check {
	var checks []*Check
	for _, branch := range []string{fixture.BranchSecond, fixture.BranchOther} {
		checks = append(checks,
			countCheck("count-full-"+branch,
				fmt.Sprintf("commit count of %s", branch),
				git.RevListOptions{Roots: []string{branch}}),
			countCheck("count-range-"+branch,
				fmt.Sprintf("commit count of %s~5..%s", branch, branch),
				git.RevListOptions{Roots: []string{fmt.Sprintf("%s~5..%s", branch, branch)}}),
			countCheck("count-limit-"+branch,
				fmt.Sprintf("commit count of %s with -n 1", branch),
				git.RevListOptions{Roots: []string{branch}, MaxCount: 1}),
			countCheck("count-partial-path-"+branch,
				fmt.Sprintf("commit count of %s touching 1.t", branch),
				git.RevListOptions{Roots: []string{branch}, Paths: []string{"1.t"}}),
			countCheck("count-objects-"+branch,
				fmt.Sprintf("object count of %s", branch),
				git.RevListOptions{Roots: []string{branch}, Objects: true}),
			enumerationCheck("enumerate-commits-"+branch,
				fmt.Sprintf("commit enumeration of %s", branch),
				git.RevListOptions{Roots: []string{branch}},
				// both outputs are bare commit IDs here, identical raw output
				// is legitimate
				compare.Options{}),
			enumerationCheck("enumerate-objects-"+branch,
				fmt.Sprintf("object enumeration of %s", branch),
				git.RevListOptions{Roots: []string{branch}, Objects: true},
				compare.Options{ConfirmDivergence: true}),
		)
	}
	checks = append(checks,
		countCheck("count-non-linear",
			"commit count of the symmetric difference other...second",
			git.RevListOptions{Roots: []string{fixture.BranchOther + "..." + fixture.BranchSecond}}),
		taggedBlobCheck(),
	)
	return checks
}

// countCheck compares the two count answers for one query.
func countCheck(name, title string, opts git.RevListOptions) *Check {
	return &Check{
		Title: title,
		Name:  name,
		Run: func(ctx context.Context, _ log.Logger, env *Env) error {
			reference, err := env.Source.RevListCount(ctx, opts)
			if err != nil {
				return err
			}
			accelerated := opts
			accelerated.UseBitmapIndex = true
			got, err := env.Source.RevListCount(ctx, accelerated)
			if err != nil {
				return err
			}
			return compare.Counts(opts.String(), reference, got)
		},
	}
}

// enumerationCheck compares the two full enumerations for one query after
// normalization.
func enumerationCheck(name, title string, opts git.RevListOptions, cmpOpts compare.Options) *Check {
	return &Check{
		Title: title,
		Name:  name,
		Run: func(ctx context.Context, _ log.Logger, env *Env) error {
			reference, err := env.Source.RevList(ctx, opts)
			if err != nil {
				return err
			}
			accelerated := opts
			accelerated.UseBitmapIndex = true
			got, err := env.Source.RevList(ctx, accelerated)
			if err != nil {
				return err
			}
			return compare.Traversals(opts.String(), reference, got, cmpOpts)
		},
	}
}

// taggedBlobCheck confirms the directly tagged blob shows up in the
// accelerated object enumeration when its tag is an explicit root, although
// no commit tree leads to it.
func taggedBlobCheck() *Check {
	opts := git.RevListOptions{
		Roots:          []string{fixture.TaggedBlobRef},
		Objects:        true,
		UseBitmapIndex: true,
	}
	return &Check{
		Title: "directly tagged blob appears in accelerated object enumeration",
		Name:  "tagged-blob-enumerated",
		Run: func(ctx context.Context, _ log.Logger, env *Env) error {
			lines, err := env.Source.RevList(ctx, opts)
			if err != nil {
				return err
			}
			for _, oid := range compare.Normalize(lines) {
				if oid == env.Fixture.TaggedBlob {
					return nil
				}
			}
			return &compare.ComparisonMismatch{
				Query:   opts.String(),
				Missing: []string{env.Fixture.TaggedBlob},
			}
		},
	}
}
