// Copyright 2025 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package setting

// Log settings
var Log = struct {
	Level    string
	Colorize bool
}{
	Level:    "info",
	Colorize: true,
}

func loadLogFrom(rootCfg ConfigProvider) {
	sec := rootCfg.Section("log")
	Log.Level = sec.Key("LEVEL").MustString(Log.Level)
	Log.Colorize = sec.Key("COLORIZE").MustBool(Log.Colorize)
}
