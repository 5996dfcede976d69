// Copyright 2025 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package setting

// Fixture settings control the synthetic commit-graph shape. The defaults
// reproduce the adversarial topology the matrix was designed around; tests
// shrink PaddingCommits to keep fixture setup fast.
var Fixture = struct {
	BranchLength   int
	DivergePoint   int
	PaddingCommits int
	AuthorName     string
	AuthorEmail    string
}{
	BranchLength:   10,
	DivergePoint:   5,
	PaddingCommits: 100,
	AuthorName:     "Bitmap Doctor",
	AuthorEmail:    "bitmap-doctor@gitea.io",
}

func loadFixtureFrom(rootCfg ConfigProvider) error {
	return rootCfg.Section("fixture").MapTo(&Fixture)
}
