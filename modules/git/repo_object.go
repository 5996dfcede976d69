// Copyright 2025 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package git

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"code.gitea.io/bitmap-doctor/modules/git/gitcmd"
)

// ObjectType git object type
type ObjectType string

const (
	// ObjectCommit commit object type
	ObjectCommit ObjectType = "commit"
	// ObjectTree tree object type
	ObjectTree ObjectType = "tree"
	// ObjectBlob blob object type
	ObjectBlob ObjectType = "blob"
	// ObjectTag tag object type
	ObjectTag ObjectType = "tag"
)

// NullOID is the all-zero object ID git reports when a query has no answer,
// e.g. the delta base of an object stored whole. SHA-1 repositories only.
const NullOID = "0000000000000000000000000000000000000000"

// HashObject takes the content, writes it into the object database and
// returns the object ID.
func (repo *Repository) HashObject(ctx context.Context, reader *bytes.Buffer) (string, error) {
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	err := gitcmd.NewCommand("hash-object", "-w", "--stdin").
		WithDir(repo.Path).
		WithStdin(reader).
		WithStdout(stdout).
		WithStderr(stderr).
		Run(ctx)
	if err != nil {
		return "", gitcmd.ConcatenateError(err, stderr.String())
	}
	return strings.TrimSpace(stdout.String()), nil
}

// CatFileBatchCheck runs a one-shot `cat-file --batch-check` query with the
// given format for a single object and returns the raw answer line.
func (repo *Repository) CatFileBatchCheck(ctx context.Context, format, oid string) (string, error) {
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	err := gitcmd.NewCommand("cat-file").
		AddOptionFormat("--batch-check=%s", format).
		WithDir(repo.Path).
		WithStdin(strings.NewReader(oid + "\n")).
		WithStdout(stdout).
		WithStderr(stderr).
		Run(ctx)
	if err != nil {
		return "", gitcmd.ConcatenateError(err, stderr.String())
	}
	line := strings.TrimSpace(stdout.String())
	if strings.HasSuffix(line, " missing") {
		return "", ErrNotExist{ID: oid}
	}
	return line, nil
}

// DeltaBase looks up the object ID the given object is delta-encoded against
// in its pack, NullOID when the object is stored whole.
//
// The answer is only well defined while the object has a single on-disk copy:
// duplicate copies across packs make it depend on which copy git happens to
// read. Guaranteeing that (eg: by a preceding full repack) is the caller's
// obligation, this query does not detect duplicates.
func (repo *Repository) DeltaBase(ctx context.Context, oid string) (string, error) {
	return repo.CatFileBatchCheck(ctx, "%(deltabase)", oid)
}

// PackedObject is one row of a verify-pack listing.
type PackedObject struct {
	ID   string
	Type ObjectType
}

// VerifyPack verifies the given pack file and returns the objects it
// contains, classified by type.
func (repo *Repository) VerifyPack(ctx context.Context, packPath string) ([]PackedObject, error) {
	stdout, _, err := gitcmd.NewCommand("verify-pack", "-v").AddDashesAndList(packPath).
		WithDir(repo.Path).RunStdString(ctx)
	if err != nil {
		return nil, fmt.Errorf("verify-pack %s: %w", filepath.Base(packPath), err)
	}

	var objects []PackedObject
	for _, line := range strings.Split(stdout, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		switch ObjectType(fields[1]) {
		case ObjectCommit, ObjectTree, ObjectBlob, ObjectTag:
			objects = append(objects, PackedObject{ID: fields[0], Type: ObjectType(fields[1])})
		}
	}
	return objects, nil
}

// ListPacks returns the pack files of the repository's object store.
func (repo *Repository) ListPacks() ([]string, error) {
	return filepath.Glob(filepath.Join(repo.ObjectDirectory(), "pack", "*.pack"))
}

// ObjectDirectory returns the path of the repository's object store, for
// both bare and non-bare layouts.
func (repo *Repository) ObjectDirectory() string {
	if ok, _ := isDir(filepath.Join(repo.Path, ".git")); ok {
		return filepath.Join(repo.Path, ".git", "objects")
	}
	return filepath.Join(repo.Path, "objects")
}
