// Copyright 2025 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package check

import (
	"context"
	"fmt"
	"strings"

	"code.gitea.io/bitmap-doctor/modules/log"
)

// SetupFailure is a fixture-construction or transfer-setup command failure.
// It is fatal to its scope: the whole run for the fixture stage, the single
// stage otherwise.
type SetupFailure struct {
	Stage string
	Err   error
}

func (err *SetupFailure) Error() string {
	return fmt.Sprintf("setup failed [stage: %s]: %v", err.Stage, err.Err)
}

func (err *SetupFailure) Unwrap() error { return err.Err }

// IsSetupFailure checks if an error is a SetupFailure.
func IsSetupFailure(err error) bool {
	_, ok := err.(*SetupFailure)
	return ok
}

// Result is the outcome of one check, Err nil on pass.
type Result struct {
	Stage string
	Name  string
	Title string
	Err   error
}

// RunStages executes the pipeline sequentially. A stage whose prerequisites
// did not complete is skipped; a stage whose Setup fails is abandoned (or,
// for a fatal stage, aborts the run); a failing check abandons the rest of
// its stage but never its siblings. The returned error is non-nil only for a
// fatal setup failure.
func RunStages(ctx context.Context, logger log.Logger, env *Env, stages []*Stage) ([]*Result, error) {
	var results []*Result
	completed := map[string]bool{}

	for _, stage := range stages {
		if unmet := unmetRequirements(stage, completed); len(unmet) > 0 {
			logger.Warn("skipping stage %s: prerequisite stage(s) %s did not complete",
				stage.Name, strings.Join(unmet, ", "))
			continue
		}

		logger.Info("stage %s: %s", stage.Name, stage.Title)
		if stage.Setup != nil {
			if err := stage.Setup(ctx, logger, env); err != nil {
				setupErr := &SetupFailure{Stage: stage.Name, Err: err}
				if stage.Fatal {
					return results, setupErr
				}
				logger.Error("%v", setupErr)
				results = append(results, &Result{Stage: stage.Name, Name: stage.Name + "-setup", Title: stage.Title, Err: setupErr})
				continue
			}
		}
		completed[stage.Name] = true

		for _, c := range stage.Checks {
			err := c.Run(ctx, logger, env)
			results = append(results, &Result{Stage: stage.Name, Name: c.Name, Title: c.Title, Err: err})
			if err != nil {
				logger.Error("FAIL %s/%s: %v", stage.Name, c.Name, err)
				logger.Warn("abandoning remaining checks of stage %s", stage.Name)
				break
			}
			logger.Info("ok   %s/%s: %s", stage.Name, c.Name, c.Title)
		}
	}
	return results, nil
}

func unmetRequirements(stage *Stage, completed map[string]bool) []string {
	var unmet []string
	for _, name := range stage.Requires {
		if !completed[name] {
			unmet = append(unmet, name)
		}
	}
	return unmet
}

// FailedResults filters the results down to the failures.
func FailedResults(results []*Result) []*Result {
	var failed []*Result
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r)
		}
	}
	return failed
}
