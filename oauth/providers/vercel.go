// Copyright (c) Voyage Auth, Inc.
// SPDX-License-Identifier: MPL-2.0

package providers

import (
	"github.com/voyage-auth/voyage/oauth"
)

// NewVercel creates a Vercel provider binding registered as "vercel".
// Vercel's integration flow grants no granular scopes.
func NewVercel(cfg oauth.ClientConfig, opt ...oauth.Option) (*REST, error) {
	return NewREST("vercel", Endpoints{
		AuthURL:  "https://vercel.com/oauth/authorize",
		TokenURL: "https://api.vercel.com/v2/oauth/access_token",
		UserURL:  "https://api.vercel.com/v2/user",
	}, cfg, opt...)
}
