// Copyright 2025 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package cmd

import (
	"errors"
	"fmt"

	"code.gitea.io/bitmap-doctor/modules/git"
	"code.gitea.io/bitmap-doctor/modules/inspect"

	"github.com/urfave/cli/v2"
)

// CmdInspect represents the available inspect sub-command.
var CmdInspect = &cli.Command{
	Name:        "inspect",
	Usage:       "Point queries against a repository's object store",
	Description: "Low-level lookups used by the opportunistic assertions: the delta base of an object and the multi-pack-index checksum.",
	Subcommands: []*cli.Command{
		cmdInspectDeltaBase,
		cmdInspectMidxChecksum,
	},
}

var cmdInspectDeltaBase = &cli.Command{
	Name:      "delta-base",
	Usage:     "Print the delta base of an object, the null OID when it is stored whole",
	ArgsUsage: "OBJECT-ID",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "repo",
			Aliases: []string{"r"},
			Value:   ".",
			Usage:   "Repository to inspect",
		},
	},
	Action: runInspectDeltaBase,
}

func runInspectDeltaBase(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("exactly one object ID is required")
	}
	repo, err := git.OpenRepository(c.String("repo"))
	if err != nil {
		return err
	}
	base, err := repo.DeltaBase(c.Context, c.Args().First())
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, base)
	return nil
}

var cmdInspectMidxChecksum = &cli.Command{
	Name:  "midx-checksum",
	Usage: "Print the checksum of the multi-pack-index",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "repo",
			Aliases: []string{"r"},
			Value:   ".",
			Usage:   "Repository to inspect",
		},
		&cli.StringFlag{
			Name:  "object-dir",
			Usage: "Object directory holding the index (defaults to the repository's own store)",
		},
	},
	Action: runInspectMidxChecksum,
}

func runInspectMidxChecksum(c *cli.Context) error {
	repo, err := git.OpenRepository(c.String("repo"))
	if err != nil {
		return err
	}
	sum, err := inspect.MidxChecksum(c.Context, repo, c.String("object-dir"))
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, sum)
	return nil
}
