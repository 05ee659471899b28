// Copyright (c) Voyage Auth, Inc.
// SPDX-License-Identifier: MPL-2.0

package oauth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewToken(t *testing.T) {
	t.Parallel()
	t.Run("standard-members", func(t *testing.T) {
		assert := assert.New(t)
		raw := map[string]interface{}{
			"access_token":  "access-1234",
			"token_type":    "Bearer",
			"refresh_token": "refresh-1234",
			"id_token":      "id-1234",
			"expires_in":    float64(3600),
			"scope":         "openid profile",
		}
		tk := NewToken(raw)
		assert.Equal("access-1234", tk.AccessToken)
		assert.Equal("Bearer", tk.TokenType)
		assert.Equal("refresh-1234", tk.RefreshToken)
		assert.Equal("id-1234", tk.IdToken)
		assert.False(tk.Expiry.IsZero())
		assert.Equal(raw, tk.Raw)
	})
	t.Run("minimal", func(t *testing.T) {
		assert := assert.New(t)
		tk := NewToken(map[string]interface{}{"access_token": "access-1234"})
		assert.Equal("access-1234", tk.AccessToken)
		assert.True(tk.Expiry.IsZero())
	})
}

func TestToken_Expired(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		expiry time.Time
		want   bool
	}{
		{
			name:   "not-expired",
			expiry: time.Now().Add(1 * time.Hour),
			want:   false,
		},
		{
			name:   "expired",
			expiry: time.Now().Add(-1 * time.Hour),
			want:   true,
		},
		{
			name:   "within-skew",
			expiry: time.Now().Add(expirySkew / 2),
			want:   true,
		},
		{
			name:   "no-expiry",
			expiry: time.Time{},
			want:   false,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			assert := assert.New(t)
			tk := &Token{AccessToken: "access-1234", Expiry: tt.expiry}
			assert.Equal(tt.want, tk.Expired())
		})
	}
}

func TestToken_Valid(t *testing.T) {
	t.Parallel()
	assert, require := assert.New(t), require.New(t)

	var nilToken *Token
	assert.False(nilToken.Valid())
	assert.False((&Token{}).Valid())

	tk := NewToken(map[string]interface{}{
		"access_token": "access-1234",
		"expires_in":   float64(3600),
	})
	require.NotNil(tk)
	assert.True(tk.Valid())

	tk.Expiry = time.Now().Add(-1 * time.Minute)
	assert.False(tk.Valid())
}
