// Copyright 2025 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package compare

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	lines := []string{
		"1111111111111111111111111111111111111111",
		"3333333333333333333333333333333333333333 path/to/file.t",
		"2222222222222222222222222222222222222222 blob",
		"",
		"3333333333333333333333333333333333333333 other/path.t",
	}
	assert.Equal(t, []string{
		"1111111111111111111111111111111111111111",
		"2222222222222222222222222222222222222222",
		"3333333333333333333333333333333333333333",
	}, Normalize(lines))
}

func TestNormalizeEmpty(t *testing.T) {
	assert.Empty(t, Normalize(nil))
	assert.Empty(t, Normalize([]string{""}))
}

func TestTraversalsEqualUpToDecoration(t *testing.T) {
	// reference output decorates non-commits with a path and keeps
	// traversal order, accelerated output is bare and grouped
	reference := []string{
		"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		"cccccccccccccccccccccccccccccccccccccccc 1.t",
		"bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb",
	}
	accelerated := []string{
		"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		"bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb",
		"cccccccccccccccccccccccccccccccccccccccc",
	}
	assert.NoError(t, Traversals("rev-list --objects second", reference, accelerated, Options{ConfirmDivergence: true}))
}

func TestTraversalsMismatch(t *testing.T) {
	reference := []string{"aaaa", "bbbb", "cccc"}
	accelerated := []string{"aaaa", "dddd"}

	err := Traversals("rev-list second", reference, accelerated, Options{})
	require.True(t, IsComparisonMismatch(err))

	mismatch := err.(*ComparisonMismatch)
	assert.Equal(t, "rev-list second", mismatch.Query)
	assert.Equal(t, []string{"bbbb", "cccc"}, mismatch.Missing)
	assert.Equal(t, []string{"dddd"}, mismatch.Extra)
	assert.Contains(t, mismatch.Error(), "bbbb")
	assert.Contains(t, mismatch.Error(), "dddd")
}

func TestTraversalsSuspiciousIdentical(t *testing.T) {
	out := []string{"aaaa", "bbbb"}

	err := Traversals("rev-list --objects second", out, out, Options{ConfirmDivergence: true})
	require.True(t, IsSuspiciousIdentical(err))
	assert.Contains(t, err.Error(), "bitmaps")

	// the pre-check is explicitly skippable when identical raw output is
	// legitimate, eg: commit-only enumerations
	assert.NoError(t, Traversals("rev-list second", out, out, Options{}))
}

func TestTraversalsOrderInsensitive(t *testing.T) {
	reference := []string{"cccc", "aaaa", "bbbb"}
	accelerated := []string{"aaaa", "bbbb", "cccc"}
	assert.NoError(t, Traversals("rev-list second", reference, accelerated, Options{ConfirmDivergence: true}))
}

func TestCounts(t *testing.T) {
	assert.NoError(t, Counts("rev-list --count second", 42, 42))

	err := Counts("rev-list --count second", 42, 41)
	require.True(t, IsComparisonMismatch(err))
	assert.Contains(t, err.Error(), "42")
	assert.Contains(t, err.Error(), "41")
}

func TestDiffSorted(t *testing.T) {
	missing, extra := diffSorted([]string{"a", "b", "d"}, []string{"b", "c", "d", "e"})
	assert.Equal(t, []string{"a"}, missing)
	assert.Equal(t, []string{"c", "e"}, extra)

	missing, extra = diffSorted(nil, nil)
	assert.Empty(t, missing)
	assert.Empty(t, extra)
}
