// Copyright 2025 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package gitcmd

import (
	"fmt"
	"strings"
)

// ConcatenateError concatenats an error with stderr string
func ConcatenateError(err error, stderr string) error {
	if len(stderr) == 0 {
		return err
	}
	return fmt.Errorf("%w - %s", err, stderr)
}

// isValidArgumentOption checks if the argument is a valid option (starting with '-').
// It doesn't check whether the option is supported or not.
func isValidArgumentOption(s string) bool {
	return strings.HasPrefix(s, "-")
}

// isSafeArgumentValue checks if the argument is safe to be used as a value (not an option).
func isSafeArgumentValue(s string) bool {
	return s == "" || s[0] != '-'
}
