// Copyright 2025 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"
	"text/tabwriter"

	"code.gitea.io/bitmap-doctor/modules/check"

	"github.com/urfave/cli/v2"
)

// CmdChecks represents the available checks sub-command.
var CmdChecks = &cli.Command{
	Name:        "checks",
	Usage:       "List the pipeline stages and their checks",
	Description: "Prints every stage in execution order with its prerequisites and the checks it runs.",
	Action:      runChecks,
}

func runChecks(c *cli.Context) error {
	w := tabwriter.NewWriter(c.App.Writer, 0, 8, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "STAGE\tREQUIRES\tCHECK\tTITLE\n")
	for _, stage := range check.Stages() {
		requires := "-"
		if len(stage.Requires) > 0 {
			requires = fmt.Sprintf("%v", stage.Requires)
		}
		if len(stage.Checks) == 0 {
			fmt.Fprintf(w, "%s\t%s\t-\t%s\n", stage.Name, requires, stage.Title)
			continue
		}
		for _, chk := range stage.Checks {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", stage.Name, requires, chk.Name, chk.Title)
		}
	}
	return nil
}
