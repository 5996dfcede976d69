// Copyright 2025 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

// Package inspect offers point queries against store internals. They back
// opportunistic assertions around the matrix, not the comparison loop itself.
package inspect

import (
	"context"
	"fmt"

	"code.gitea.io/bitmap-doctor/modules/git"
)

// AssertionFailure is returned when a point inspection does not match the
// expected literal value.
type AssertionFailure struct {
	What     string
	Expected string
	Actual   string
}

func (err *AssertionFailure) Error() string {
	return fmt.Sprintf("assertion failed [%s]: expected %q, got %q", err.What, err.Expected, err.Actual)
}

// IsAssertionFailure checks if an error is an AssertionFailure.
func IsAssertionFailure(err error) bool {
	_, ok := err.(*AssertionFailure)
	return ok
}

// Assert compares an inspected value against its expected literal.
func Assert(what, expected, actual string) error {
	if expected == actual {
		return nil
	}
	return &AssertionFailure{What: what, Expected: expected, Actual: actual}
}

// DeltaBase asserts that the given object is delta-encoded against the
// expected base, git.NullOID meaning stored whole.
//
// Caller precondition: the object must have exactly one on-disk copy,
// otherwise the answer depends on which copy git reads and the check is
// non-deterministic. A full repack before inspecting guarantees that.
func DeltaBase(ctx context.Context, repo *git.Repository, oid, expectedBase string) error {
	base, err := repo.DeltaBase(ctx, oid)
	if err != nil {
		return err
	}
	return Assert(fmt.Sprintf("delta base of %s", oid), expectedBase, base)
}

// MidxChecksum returns the raw checksum of the multi-pack-index under the
// given object directory (default: the repository's standard object store),
// for equality assertions by the caller.
func MidxChecksum(ctx context.Context, repo *git.Repository, objdir string) (string, error) {
	return repo.MidxChecksum(ctx, objdir)
}
