// Copyright 2025 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"

	"code.gitea.io/bitmap-doctor/cmd"
)

// Version holds the current bitmap-doctor version, overridden at build time.
var Version = "development"

func main() {
	app := cmd.NewMainApp(Version)
	if err := app.Run(os.Args); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "bitmap-doctor: failed to run with %s: %v\n", os.Args, err)
		os.Exit(1)
	}
}
