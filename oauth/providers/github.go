// Copyright (c) Voyage Auth, Inc.
// SPDX-License-Identifier: MPL-2.0

package providers

import (
	"github.com/voyage-auth/voyage/oauth"
)

// NewGitHub creates a GitHub provider binding registered as "github".
// GitHub has no discovery document, so the endpoints are fixed here.
func NewGitHub(cfg oauth.ClientConfig, opt ...oauth.Option) (*REST, error) {
	opt = append([]oauth.Option{
		WithDefaultScopes("read:user", "user:email"),
		WithUserHeaders(map[string]string{
			"Accept":               "application/vnd.github+json",
			"X-GitHub-Api-Version": "2022-11-28",
		}),
	}, opt...)
	return NewREST("github", Endpoints{
		AuthURL:  "https://github.com/login/oauth/authorize",
		TokenURL: "https://github.com/login/oauth/access_token",
		UserURL:  "https://api.github.com/user",
	}, cfg, opt...)
}
