// Copyright 2025 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package inspect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssert(t *testing.T) {
	assert.NoError(t, Assert("thing", "same", "same"))

	err := Assert("delta base of abc", "0000", "1234")
	require.Error(t, err)
	assert.True(t, IsAssertionFailure(err))
	assert.Contains(t, err.Error(), "delta base of abc")
	assert.Contains(t, err.Error(), `expected "0000"`)
	assert.Contains(t, err.Error(), `got "1234"`)

	assert.False(t, IsAssertionFailure(assert.AnError))
}
