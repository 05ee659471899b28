// Copyright (c) Voyage Auth, Inc.
// SPDX-License-Identifier: MPL-2.0

package oauth

import (
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload map[string]string
	}{
		{
			name:    "empty",
			payload: map[string]string{},
		},
		{
			name:    "csrf-only",
			payload: map[string]string{CSRFStateKey: "st_1234"},
		},
		{
			name: "with-extra-data",
			payload: map[string]string{
				CSRFStateKey: "st_1234",
				"returnTo":   "/dashboard?tab=settings",
				"tenant":     "acme",
			},
		},
		{
			name: "non-ascii",
			payload: map[string]string{
				"name": "Ada Lovelace — 1815–1852",
				"url":  "https://example.com/?q=a b&x=%20",
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert, require := assert.New(t), require.New(t)
			sealed, err := Seal("fido", tt.payload)
			require.NoError(err)
			require.NotEmpty(sealed)

			got, err := Unseal("fido", sealed)
			require.NoError(err)
			assert.Equal(tt.payload, got)
		})
	}

	t.Run("empty-secret", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		sealed, err := Seal("", map[string]string{"a": "b"})
		require.Error(err)
		assert.Empty(sealed)
		assert.True(errors.Is(err, ErrInvalidParameter))
	})
	t.Run("nil-payload", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		sealed, err := Seal("fido", nil)
		require.Error(err)
		assert.Empty(sealed)
		assert.True(errors.Is(err, ErrNilParameter))
	})
	t.Run("nonce-freshness", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		payload := map[string]string{CSRFStateKey: "st_1234"}
		first, err := Seal("fido", payload)
		require.NoError(err)
		second, err := Seal("fido", payload)
		require.NoError(err)
		assert.NotEqual(first, second)

		got, err := Unseal("fido", first)
		require.NoError(err)
		assert.Equal(payload, got)
		got, err = Unseal("fido", second)
		require.NoError(err)
		assert.Equal(payload, got)
	})
}

func TestUnseal(t *testing.T) {
	t.Parallel()

	payload := map[string]string{
		CSRFStateKey: "st_1234",
		"tag":        "x",
	}
	sealed, err := Seal("fido", payload)
	require.NoError(t, err)

	t.Run("wrong-secret", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		got, err := Unseal("rex", sealed)
		require.Error(err)
		assert.Nil(got)
		assert.True(errors.Is(err, ErrInvalidSealedState))
	})
	t.Run("bit-flips", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		raw, err := base64.RawURLEncoding.DecodeString(sealed)
		require.NoError(err)
		// flipping any single byte of the envelope must be rejected,
		// whether it lands in the nonce, ciphertext or tag.
		for i := range raw {
			tampered := make([]byte, len(raw))
			copy(tampered, raw)
			tampered[i] ^= 0x01
			got, err := Unseal("fido", base64.RawURLEncoding.EncodeToString(tampered))
			require.Errorf(err, "byte %d", i)
			assert.Nil(got)
			assert.True(errors.Is(err, ErrInvalidSealedState))
		}
	})
	t.Run("truncated", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		got, err := Unseal("fido", sealed[:len(sealed)-2])
		require.Error(err)
		assert.Nil(got)
		assert.True(errors.Is(err, ErrInvalidSealedState))
	})
	t.Run("appended", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		raw, err := base64.RawURLEncoding.DecodeString(sealed)
		require.NoError(err)
		raw = append(raw, 0x42)
		got, err := Unseal("fido", base64.RawURLEncoding.EncodeToString(raw))
		require.Error(err)
		assert.Nil(got)
		assert.True(errors.Is(err, ErrInvalidSealedState))
	})
	t.Run("not-base64", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		got, err := Unseal("fido", "!!not base64!!")
		require.Error(err)
		assert.Nil(got)
		assert.True(errors.Is(err, ErrInvalidSealedState))
	})
	t.Run("too-short", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		got, err := Unseal("fido", base64.RawURLEncoding.EncodeToString([]byte("short")))
		require.Error(err)
		assert.Nil(got)
		assert.True(errors.Is(err, ErrInvalidSealedState))
	})
	t.Run("empty-secret", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		got, err := Unseal("", sealed)
		require.Error(err)
		assert.Nil(got)
		assert.True(errors.Is(err, ErrInvalidParameter))
	})
	t.Run("repeated-round-trips", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		for i := 0; i < 5; i++ {
			s, err := Seal("fido", payload)
			require.NoError(err)
			got, err := Unseal("fido", s)
			require.NoError(err)
			assert.Equal(payload, got)
		}
	})
}
