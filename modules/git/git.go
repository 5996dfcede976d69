// Copyright 2025 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

// Package git is the narrow command surface the oracle consumes from the
// version-control object store. Both the reference and the accelerated
// traversal live behind it; the harness never touches on-disk formats except
// for the multi-pack-index trailer checksum.
package git

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	"code.gitea.io/bitmap-doctor/modules/git/gitcmd"
	"code.gitea.io/bitmap-doctor/modules/log"
	"code.gitea.io/bitmap-doctor/modules/setting"

	"github.com/hashicorp/go-version"
)

// RequiredVersion is the minimum git version that supports every command the
// matrix issues (rev-list --use-bitmap-index/--test-bitmap, partial clone,
// multi-pack-index).
const RequiredVersion = "2.24.0"

var (
	// GitExecutable is the resolved absolute path of the git binary.
	GitExecutable = "git"

	gitVersion *version.Version
)

// InitSimple initializes git module with a check of the installed version,
// it doesn't run any concurrent tasks.
func InitSimple(ctx context.Context) error {
	if setting.Git.Path != "" {
		GitExecutable = setting.Git.Path
	}
	absPath, err := exec.LookPath(GitExecutable)
	if err != nil {
		return fmt.Errorf("git not found: %w", err)
	}
	GitExecutable = absPath
	gitcmd.SetExecutablePath(GitExecutable)

	if _, err = loadGitVersion(ctx); err != nil {
		return fmt.Errorf("unable to load git version: %w", err)
	}
	if err = CheckGitVersionAtLeast(RequiredVersion); err != nil {
		return fmt.Errorf("installed git is too old for bitmap verification: %w", err)
	}
	log.Debug("using git %s at %s", gitVersion.Original(), GitExecutable)
	return nil
}

// loadGitVersion tries to get the current git version and stores it into the global variable
func loadGitVersion(ctx context.Context) (*version.Version, error) {
	// doesn't need RWMutex because the harness is strictly sequential
	if gitVersion != nil {
		return gitVersion, nil
	}

	stdout, _, runErr := gitcmd.NewCommand("version").RunStdString(ctx)
	if runErr != nil {
		return nil, runErr
	}

	ver, err := parseGitVersionLine(strings.TrimSpace(stdout))
	if err == nil {
		gitVersion = ver
	}
	return ver, err
}

var versionPattern = regexp.MustCompile(`\d+(\.\d+){0,2}`)

func parseGitVersionLine(s string) (*version.Version, error) {
	fields := strings.Fields(s)
	if len(fields) < 3 {
		return nil, fmt.Errorf("invalid git version output: %s", s)
	}

	// version string is like: "git version 2.29.3" or "git version 2.29.3.windows.1"
	versionString := versionPattern.FindString(fields[2])
	if versionString == "" {
		return nil, fmt.Errorf("invalid git version: %s", fields[2])
	}
	return version.NewVersion(versionString)
}

// CheckGitVersionAtLeast checks if the git version is at least the constraint version.
func CheckGitVersionAtLeast(atLeast string) error {
	if gitVersion == nil {
		return fmt.Errorf("git version is not loaded")
	}
	atLeastVersion, err := version.NewVersion(atLeast)
	if err != nil {
		return err
	}
	if gitVersion.Compare(atLeastVersion) < 0 {
		return fmt.Errorf("installed git binary version %s is not at least %s", gitVersion.Original(), atLeast)
	}
	return nil
}
