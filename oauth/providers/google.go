// Copyright (c) Voyage Auth, Inc.
// SPDX-License-Identifier: MPL-2.0

package providers

import (
	"github.com/voyage-auth/voyage/oauth"
)

// GoogleIssuer is Google's OIDC issuer.
const GoogleIssuer = "https://accounts.google.com"

// NewGoogle creates a Google provider binding registered as "google".
// Offline access is requested so Google issues a refresh token.
func NewGoogle(cfg oauth.ClientConfig, opt ...oauth.Option) (*OIDC, error) {
	opt = append([]oauth.Option{
		WithDefaultScopes("openid", "profile", "email"),
		WithAuthParams(map[string]string{
			"access_type": "offline",
			"prompt":      "consent",
		}),
	}, opt...)
	return NewOIDC("google", GoogleIssuer, cfg, opt...)
}
