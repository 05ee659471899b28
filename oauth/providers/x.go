// Copyright (c) Voyage Auth, Inc.
// SPDX-License-Identifier: MPL-2.0

package providers

import (
	"github.com/voyage-auth/voyage/oauth"
)

// NewX creates an X (Twitter) provider binding registered as "x". X
// authenticates confidential clients with HTTP Basic credentials at its
// token endpoint.
func NewX(cfg oauth.ClientConfig, opt ...oauth.Option) (*REST, error) {
	opt = append([]oauth.Option{
		WithDefaultScopes("users.read", "tweet.read"),
		WithBasicAuth(),
	}, opt...)
	return NewREST("x", Endpoints{
		AuthURL:  "https://x.com/i/oauth2/authorize",
		TokenURL: "https://api.x.com/2/oauth2/token",
		UserURL:  "https://api.x.com/2/users/me",
	}, cfg, opt...)
}
