// Copyright 2025 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package git

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"code.gitea.io/bitmap-doctor/modules/git/gitcmd"
	"code.gitea.io/bitmap-doctor/modules/setting"
)

// RepackOptions options for repacking a repository
type RepackOptions struct {
	All          bool // -a: everything into one pack
	RemovePacked bool // -d: drop redundant packs and loose objects
	WriteBitmap  bool // -b: write the reachability bitmap index
	Local        bool // -l: ignore objects borrowed from alternates
}

// Repack repacks the repository's object store. All+RemovePacked+WriteBitmap
// is the transition into the "fully bitmapped" state the matrix starts from.
func (repo *Repository) Repack(ctx context.Context, opts RepackOptions) error {
	cmd := gitcmd.NewCommand("repack")
	if opts.All {
		cmd.AddArguments("-a")
	}
	if opts.RemovePacked {
		cmd.AddArguments("-d")
	}
	if opts.WriteBitmap {
		cmd.AddArguments("-b")
	}
	if opts.Local {
		cmd.AddArguments("-l")
	}
	_, _, err := cmd.
		WithTimeout(time.Duration(setting.Git.Timeout.Repack) * time.Second).
		WithDir(repo.Path).RunStdString(ctx)
	return err
}

// WriteMultiPackIndex writes (or refreshes) the multi-pack-index of the
// repository's object store.
func (repo *Repository) WriteMultiPackIndex(ctx context.Context) error {
	_, _, err := gitcmd.NewCommand("multi-pack-index", "write").
		WithDir(repo.Path).RunStdString(ctx)
	return err
}

// MultiPackIndexVerify asks git to verify the multi-pack-index under the
// given object directory, the repository's own store when objdir is empty.
func (repo *Repository) MultiPackIndexVerify(ctx context.Context, objdir string) error {
	cmd := gitcmd.NewCommand("multi-pack-index")
	if objdir != "" {
		cmd.AddOptionFormat("--object-dir=%s", objdir)
	}
	cmd.AddArguments("verify")
	_, _, err := cmd.WithDir(repo.Path).RunStdString(ctx)
	return err
}

// MidxChecksum returns the hex checksum over the multi-pack-index under the
// given object directory (default: the repository's own store). The checksum
// is the trailing hash of the index file, read as an opaque value.
func (repo *Repository) MidxChecksum(ctx context.Context, objdir string) (string, error) {
	if objdir == "" {
		objdir = repo.ObjectDirectory()
	}
	midxPath := filepath.Join(objdir, "pack", "multi-pack-index")
	data, err := os.ReadFile(midxPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotExist{RelPath: midxPath}
		}
		return "", err
	}

	hashLen := 20
	if format, err := repo.objectFormat(ctx); err == nil && format == "sha256" {
		hashLen = 32
	}
	if len(data) < hashLen {
		return "", fmt.Errorf("multi-pack-index %s is truncated (%d bytes)", midxPath, len(data))
	}
	return hex.EncodeToString(data[len(data)-hashLen:]), nil
}

func (repo *Repository) objectFormat(ctx context.Context) (string, error) {
	stdout, _, err := gitcmd.NewCommand("rev-parse", "--show-object-format").
		WithDir(repo.Path).RunStdString(ctx)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(stdout), nil
}
