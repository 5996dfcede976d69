// Copyright 2025 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package setting

// Git settings
var Git = struct {
	Path    string
	Timeout struct {
		Default int
		Clone   int
		Fetch   int
		Repack  int
	} `ini:"git.timeout"`
}{
	Timeout: struct {
		Default int
		Clone   int
		Fetch   int
		Repack  int
	}{
		Default: 360,
		Clone:   300,
		Fetch:   300,
		Repack:  600,
	},
}

func loadGitFrom(rootCfg ConfigProvider) error {
	sec := rootCfg.Section("git")
	if err := sec.MapTo(&Git); err != nil {
		return err
	}
	return rootCfg.Section("git.timeout").MapTo(&Git.Timeout)
}
