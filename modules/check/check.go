// Copyright 2025 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

// Package check runs the verification scenarios as an ordered pipeline of
// stages. Later stages depend on repository state mutated by earlier ones
// (the partial-bitmap matrix needs the un-indexed commits, the fetch check
// needs the earlier clone), so every stage names its prerequisites and the
// runner enforces them instead of trusting registration order.
package check

import (
	"context"
	"sort"

	"code.gitea.io/bitmap-doctor/modules/log"
)

// Check is a single scenario: one query evaluated against both traversal
// paths, or one point assertion.
type Check struct {
	// Title is the human readable description logged with the result.
	Title string
	// Name is the stable identifier used in result reporting and the
	// checks listing.
	Name string
	Run  func(ctx context.Context, logger log.Logger, env *Env) error
}

// Stage is a group of checks sharing one fixture state. Its Setup performs
// the state transition the group depends on.
type Stage struct {
	Name     string
	Title    string
	Priority int
	// Requires lists stages whose Setup must have completed before this one
	// may run. A failed requirement skips the stage, it never aborts the run.
	Requires []string
	// Fatal marks a stage whose failure invalidates everything after it.
	// Only the fixture build is fatal: no later scenario is meaningful
	// against a partially built graph.
	Fatal  bool
	Setup  func(ctx context.Context, logger log.Logger, env *Env) error
	Checks []*Check
}

var registeredStages []*Stage

// RegisterStage adds a stage to the pipeline.
func RegisterStage(stage *Stage) {
	registeredStages = append(registeredStages, stage)
}

// Stages returns the pipeline in execution order.
func Stages() []*Stage {
	sorted := make([]*Stage, len(registeredStages))
	copy(sorted, registeredStages)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority < sorted[j].Priority
	})
	return sorted
}
