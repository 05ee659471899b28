// Copyright (c) Voyage Auth, Inc.
// SPDX-License-Identifier: MPL-2.0

package oauth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewID(t *testing.T) {
	t.Parallel()
	t.Run("no-prefix", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		id, err := NewID()
		require.NoError(err)
		assert.NotEmpty(id)
	})
	t.Run("with-prefix", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		id, err := NewID(WithPrefix("st"))
		require.NoError(err)
		assert.True(strings.HasPrefix(id, "st_"))
	})
	t.Run("unique", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		first, err := NewID()
		require.NoError(err)
		second, err := NewID()
		require.NoError(err)
		assert.NotEqual(first, second)
	})
}

// Test_getIDOpts provides unit tests for getIDOpts and all the id options
func Test_getIDOpts(t *testing.T) {
	t.Parallel()
	t.Run("WithPrefix", func(t *testing.T) {
		assert := assert.New(t)
		// test default
		opts := getIDOpts()
		testOpts := idDefaults()
		testOpts.withPrefix = ""
		assert.Equal(opts, testOpts)

		// try setting it
		opts = getIDOpts(WithPrefix("alice"))
		testOpts.withPrefix = "alice"
		assert.Equal(opts, testOpts)
	})
}
