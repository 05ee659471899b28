// Copyright (c) Voyage Auth, Inc.
// SPDX-License-Identifier: MPL-2.0

package providers

import (
	"github.com/voyage-auth/voyage/oauth"
)

// LinkedInIssuer is LinkedIn's OIDC issuer.
const LinkedInIssuer = "https://www.linkedin.com/oauth"

// NewLinkedIn creates a LinkedIn provider binding registered as "linkedin",
// using LinkedIn's "Sign In with LinkedIn using OpenID Connect" product.
func NewLinkedIn(cfg oauth.ClientConfig, opt ...oauth.Option) (*OIDC, error) {
	opt = append([]oauth.Option{
		WithDefaultScopes("openid", "profile", "email"),
	}, opt...)
	return NewOIDC("linkedin", LinkedInIssuer, cfg, opt...)
}
