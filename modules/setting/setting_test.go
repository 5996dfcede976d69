// Copyright 2025 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package setting

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettingsDefaults(t *testing.T) {
	require.NoError(t, LoadSettings("", t.TempDir()))

	assert.Equal(t, "info", Log.Level)
	assert.Equal(t, 300, Git.Timeout.Clone)
	assert.Equal(t, 10, Fixture.BranchLength)
	assert.Equal(t, 100, Fixture.PaddingCommits)
}

func TestLoadSettingsFromFile(t *testing.T) {
	conf := filepath.Join(t.TempDir(), "app.ini")
	require.NoError(t, os.WriteFile(conf, []byte(`
[log]
LEVEL = debug

[git.timeout]
CLONE = 42

[fixture]
PADDING_COMMITS = 7
AUTHOR_NAME = Someone Else
`), 0o644))

	// ini.MapTo only overwrites keys present in the file, so snapshot the
	// globals rather than reloading defaults
	origLog, origGit, origFixture := Log, Git, Fixture
	t.Cleanup(func() {
		Log, Git, Fixture = origLog, origGit, origFixture
	})

	require.NoError(t, LoadSettings(conf, t.TempDir()))

	assert.Equal(t, conf, CustomConf)
	assert.Equal(t, "debug", Log.Level)
	assert.Equal(t, 42, Git.Timeout.Clone)
	assert.Equal(t, 7, Fixture.PaddingCommits)
	assert.Equal(t, "Someone Else", Fixture.AuthorName)
	// untouched keys keep their defaults
	assert.Equal(t, 600, Git.Timeout.Repack)
}

func TestLoadSettingsWorkPath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, LoadSettings("", filepath.Join(dir, "nested", "work")))
	assert.True(t, filepath.IsAbs(WorkPath))
	assert.DirExists(t, WorkPath)

	// no explicit path falls back to a fresh temporary directory
	require.NoError(t, LoadSettings("", ""))
	assert.DirExists(t, WorkPath)
	t.Cleanup(func() { _ = os.RemoveAll(WorkPath) })
}
