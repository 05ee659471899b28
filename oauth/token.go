// Copyright (c) Voyage Auth, Inc.
// SPDX-License-Identifier: MPL-2.0

package oauth

import (
	"time"
)

const expirySkew = 10 * time.Second

// Token represents a provider's token endpoint response. The typed fields
// cover the standard response members; Raw carries the full decoded response
// so provider-specific members survive normalization.
type Token struct {
	AccessToken  string
	TokenType    string
	RefreshToken string
	IdToken      string
	Expiry       time.Time

	// Raw is the raw token-endpoint response.
	Raw map[string]interface{}
}

// NewToken builds a Token from a decoded token-endpoint response, pulling
// the standard members out of raw and converting expires_in to an absolute
// expiry.
func NewToken(raw map[string]interface{}) *Token {
	t := &Token{Raw: raw}
	if s, ok := raw["access_token"].(string); ok {
		t.AccessToken = s
	}
	if s, ok := raw["token_type"].(string); ok {
		t.TokenType = s
	}
	if s, ok := raw["refresh_token"].(string); ok {
		t.RefreshToken = s
	}
	if s, ok := raw["id_token"].(string); ok {
		t.IdToken = s
	}
	// expires_in decodes as a float64 from JSON, but tolerate ints from
	// hand-built responses too.
	switch sec := raw["expires_in"].(type) {
	case float64:
		t.Expiry = time.Now().Add(time.Duration(sec) * time.Second)
	case int:
		t.Expiry = time.Now().Add(time.Duration(sec) * time.Second)
	}
	return t
}

// Expired reports whether the access token is expired, allowing for a small
// skew. Tokens without an expiry never expire.
func (t *Token) Expired() bool {
	if t.Expiry.IsZero() {
		return false
	}
	return t.Expiry.Round(0).Before(time.Now().Add(expirySkew))
}

// Valid reports whether the token carries a non-expired access token.
func (t *Token) Valid() bool {
	if t == nil {
		return false
	}
	if t.AccessToken == "" {
		return false
	}
	return !t.Expired()
}
