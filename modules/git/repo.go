// Copyright 2025 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package git

import (
	"bytes"
	"context"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"code.gitea.io/bitmap-doctor/modules/git/gitcmd"
	"code.gitea.io/bitmap-doctor/modules/setting"
)

// Repository represents a git repository on disk.
type Repository struct {
	Path string
}

// OpenRepository opens the repository at the given path. The path must exist.
func OpenRepository(repoPath string) (*Repository, error) {
	repoPath, err := filepath.Abs(repoPath)
	if err != nil {
		return nil, err
	}
	if ok, err := isDir(repoPath); err != nil {
		return nil, err
	} else if !ok {
		return nil, ErrNotExist{RelPath: repoPath}
	}
	return &Repository{Path: repoPath}, nil
}

func isDir(dir string) (bool, error) {
	f, err := os.Stat(dir)
	if err == nil {
		return f.IsDir(), nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// InitRepository initializes a new Git repository.
func InitRepository(ctx context.Context, repoPath string, bare bool) (*Repository, error) {
	if err := os.MkdirAll(repoPath, os.ModePerm); err != nil {
		return nil, err
	}

	cmd := gitcmd.NewCommand("init")
	if bare {
		cmd.AddArguments("--bare")
	}
	if _, _, err := cmd.WithDir(repoPath).RunStdString(ctx); err != nil {
		return nil, err
	}
	return OpenRepository(repoPath)
}

// SetConfig sets a local configuration key of the repository.
func (repo *Repository) SetConfig(ctx context.Context, key, value string) error {
	_, _, err := gitcmd.NewCommand("config").AddDynamicArguments(key, value).
		WithDir(repo.Path).RunStdString(ctx)
	return err
}

// IsEmpty checks if the repository has no reachable commit at all.
func (repo *Repository) IsEmpty(ctx context.Context) (bool, error) {
	var errbuf, output strings.Builder
	if err := gitcmd.NewCommand("rev-list", "-n", "1", "--all").
		WithDir(repo.Path).
		WithStdout(&output).
		WithStderr(&errbuf).
		Run(ctx); err != nil {
		if (err.Error() == "exit status 1" && strings.TrimSpace(errbuf.String()) == "") || err.Error() == "exit status 129" {
			// git 2.11 exits with 129 if the repo is empty
			return true, nil
		}
		return true, gitcmd.ConcatenateError(err, errbuf.String())
	}
	return strings.TrimSpace(output.String()) == "", nil
}

// CloneRepoOptions options when clone a repository
type CloneRepoOptions struct {
	Timeout time.Duration
	Bare    bool
	Quiet   bool
	Branch  string
	NoLocal bool
	Filter  string
	Env     []string
}

// Clone clones the source repository to the target path.
func Clone(ctx context.Context, from, to string, opts CloneRepoOptions) error {
	toDir := path.Dir(to)
	if err := os.MkdirAll(toDir, os.ModePerm); err != nil {
		return err
	}

	cmd := gitcmd.NewCommand("clone")
	if opts.Bare {
		cmd.AddArguments("--bare")
	}
	if opts.Quiet {
		cmd.AddArguments("--quiet")
	}
	if opts.NoLocal {
		// force the transport machinery even for filesystem sources, so the
		// pack actually goes through upload-pack and may reuse bitmaps
		cmd.AddArguments("--no-local")
	}
	if opts.Filter != "" {
		cmd.AddArguments("--filter").AddDynamicArguments(opts.Filter)
	}
	if len(opts.Branch) > 0 {
		cmd.AddArguments("-b").AddDynamicArguments(opts.Branch)
	}
	cmd.AddDashesAndList(from, to)

	if opts.Timeout <= 0 {
		opts.Timeout = time.Duration(setting.Git.Timeout.Clone) * time.Second
	}

	stderr := new(bytes.Buffer)
	if err := cmd.
		WithTimeout(opts.Timeout).
		WithEnv(opts.Env).
		WithStdout(io.Discard).
		WithStderr(stderr).
		Run(ctx); err != nil {
		return gitcmd.ConcatenateError(err, stderr.String())
	}
	return nil
}

// FetchOptions options when fetching from a remote
type FetchOptions struct {
	Timeout time.Duration
	Remote  string
	Refspec string
}

// Fetch fetches a refspec from the given remote into the repository.
func (repo *Repository) Fetch(ctx context.Context, opts FetchOptions) error {
	if opts.Remote == "" {
		opts.Remote = "origin"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = time.Duration(setting.Git.Timeout.Fetch) * time.Second
	}

	cmd := gitcmd.NewCommand("fetch").AddDynamicArguments(opts.Remote)
	if opts.Refspec != "" {
		cmd.AddDynamicArguments(opts.Refspec)
	}

	stderr := new(bytes.Buffer)
	if err := cmd.
		WithTimeout(opts.Timeout).
		WithDir(repo.Path).
		WithStdout(io.Discard).
		WithStderr(stderr).
		Run(ctx); err != nil {
		return gitcmd.ConcatenateError(err, stderr.String())
	}
	return nil
}
