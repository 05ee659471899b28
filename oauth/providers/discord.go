// Copyright (c) Voyage Auth, Inc.
// SPDX-License-Identifier: MPL-2.0

package providers

import (
	"github.com/voyage-auth/voyage/oauth"
)

// NewDiscord creates a Discord provider binding registered as "discord".
func NewDiscord(cfg oauth.ClientConfig, opt ...oauth.Option) (*REST, error) {
	opt = append([]oauth.Option{
		WithDefaultScopes("identify", "email"),
	}, opt...)
	return NewREST("discord", Endpoints{
		AuthURL:  "https://discord.com/oauth2/authorize",
		TokenURL: "https://discord.com/api/oauth2/token",
		UserURL:  "https://discord.com/api/users/@me",
	}, cfg, opt...)
}
