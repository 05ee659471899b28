// Copyright (c) Voyage Auth, Inc.
// SPDX-License-Identifier: MPL-2.0

// voyage provides a small collection of packages for adding "login with
// provider X" to an application backend: an OAuth 2.0 / OIDC authorization
// code + PKCE orchestration engine (package oauth) and concrete provider
// bindings for common identity providers (package oauth/providers).
//
// See README.md
package voyage
