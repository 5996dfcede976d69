// Copyright 2025 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

// Package cmd provides subcommands to bitmap-doctor binary
package cmd

import (
	"fmt"
	"time"

	"code.gitea.io/bitmap-doctor/modules/git"
	"code.gitea.io/bitmap-doctor/modules/git/gitcmd"
	"code.gitea.io/bitmap-doctor/modules/log"
	"code.gitea.io/bitmap-doctor/modules/setting"

	"github.com/urfave/cli/v2"
)

func appGlobalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Set custom config file (defaults omit the file and use built-in defaults)",
		},
		&cli.StringFlag{
			Name:    "work-path",
			Aliases: []string{"w"},
			Usage:   "Set the working path the fixture repositories are built in (defaults to a temp dir)",
		},
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "Enable debug logging",
		},
	}
}

// prepareHarness loads the settings, configures logging and checks the git
// binary; every subcommand needs the same preparation.
func prepareHarness(c *cli.Context) error {
	if err := setting.LoadSettings(c.String("config"), c.String("work-path")); err != nil {
		return fmt.Errorf("unable to load settings: %w", err)
	}
	if c.Bool("verbose") {
		setting.Log.Level = "debug"
	}
	log.Init(setting.Log.Level, setting.Log.Colorize)
	gitcmd.SetDefaultTimeout(time.Duration(setting.Git.Timeout.Default) * time.Second)
	if err := git.InitSimple(c.Context); err != nil {
		return err
	}
	return nil
}

// NewMainApp creates the main CLI application.
func NewMainApp(version string) *cli.App {
	app := cli.NewApp()
	app.Name = "bitmap-doctor"
	app.Usage = "Verify git reachability bitmaps against the reference traversal"
	app.Description = `bitmap-doctor builds an adversarial fixture repository and checks that
every traversal query answers identically with and without the bitmap index.
It is a correctness oracle for the object store, not part of it.`
	app.Version = version
	app.EnableBashCompletion = true
	app.Flags = appGlobalFlags()
	app.Before = prepareHarness
	app.Commands = []*cli.Command{
		CmdRun,
		CmdFixture,
		CmdChecks,
		CmdInspect,
	}
	app.DefaultCommand = CmdRun.Name
	return app
}
