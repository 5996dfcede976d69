// Copyright 2025 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"
	"path/filepath"

	"code.gitea.io/bitmap-doctor/modules/fixture"
	"code.gitea.io/bitmap-doctor/modules/git"
	"code.gitea.io/bitmap-doctor/modules/setting"

	"github.com/urfave/cli/v2"
)

// CmdFixture represents the available fixture sub-command.
var CmdFixture = &cli.Command{
	Name:        "fixture",
	Usage:       "Build the fixture repository without running any checks",
	Description: "Constructs the multi-branch octopus-merge topology in <work-path>/source, optionally repacking with bitmaps, and prints the facts later checks would assert against.",
	Action:      runFixture,
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "bitmap",
			Usage: "Repack with bitmaps after building (the full-bitmap state)",
		},
	},
}

func runFixture(c *cli.Context) error {
	repoPath := filepath.Join(setting.WorkPath, "source")
	repo, err := git.InitRepository(c.Context, repoPath, false)
	if err != nil {
		return err
	}

	res, err := fixture.Build(c.Context, repo, fixture.Options{})
	if err != nil {
		return err
	}

	if c.Bool("bitmap") {
		if err := repo.Repack(c.Context, git.RepackOptions{All: true, RemovePacked: true, WriteBitmap: true}); err != nil {
			return err
		}
	}

	fmt.Fprintf(c.App.Writer, "repository: %s\n", repoPath)
	fmt.Fprintf(c.App.Writer, "%s: %s\n", fixture.BranchSecond, res.SecondTip)
	fmt.Fprintf(c.App.Writer, "%s: %s\n", fixture.BranchOther, res.OtherTip)
	fmt.Fprintf(c.App.Writer, "%s: %s\n", fixture.TaggedBlobRef, res.TaggedBlob)
	return nil
}
