// Copyright 2025 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

// Package setting holds the process-wide configuration, loaded once at
// startup from an optional ini file and kept in plain package variables.
package setting

import (
	"fmt"
	"os"
	"path/filepath"

	ini "gopkg.in/ini.v1"
)

// ConfigProvider is the subset of the ini file surface the section loaders
// need.
type ConfigProvider interface {
	Section(name string) *ini.Section
}

var (
	// CustomConf is the path of the loaded configuration file, empty when
	// running on defaults.
	CustomConf string

	// WorkPath is the directory the verification run builds its repositories
	// in. Resolved, in order, from the CLI flag, the WORK_PATH key, or a
	// fresh temporary directory.
	WorkPath string
)

// LoadSettings loads the configuration file (when given) and resolves every
// settings section. An empty customConf runs on built-in defaults.
func LoadSettings(customConf, workPath string) error {
	cfg, err := newConfigProviderFromFile(customConf)
	if err != nil {
		return err
	}
	CustomConf = customConf

	loadLogFrom(cfg)
	if err := loadGitFrom(cfg); err != nil {
		return fmt.Errorf("load git settings: %w", err)
	}
	if err := loadFixtureFrom(cfg); err != nil {
		return fmt.Errorf("load fixture settings: %w", err)
	}

	if workPath == "" {
		workPath = cfg.Section("").Key("WORK_PATH").String()
	}
	if workPath == "" {
		workPath, err = os.MkdirTemp("", "bitmap-doctor")
		if err != nil {
			return fmt.Errorf("create work path: %w", err)
		}
	}
	WorkPath, err = filepath.Abs(workPath)
	if err != nil {
		return fmt.Errorf("resolve work path: %w", err)
	}
	return os.MkdirAll(WorkPath, 0o755)
}

func newConfigProviderFromFile(file string) (ConfigProvider, error) {
	var cfg *ini.File
	var err error
	if file == "" {
		cfg = ini.Empty()
	} else if cfg, err = ini.LoadSources(ini.LoadOptions{}, file); err != nil {
		return nil, fmt.Errorf("load config file %q: %w", file, err)
	}
	cfg.NameMapper = ini.SnackCase
	return cfg, nil
}
