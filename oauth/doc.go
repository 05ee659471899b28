// Copyright (c) Voyage Auth, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package oauth orchestrates OAuth 2.0 / OIDC authorization code + PKCE
// login flows across a set of configured identity providers.
//
// Primary types provided by the package:
//
// * Flow: the authorize/callback engine. Authorize produces a provider
// authorization URL together with a sealed CSRF state envelope and a PKCE
// code verifier for the caller to transport across the redirect (typically
// in short-lived, http-only cookies). Callback validates the returning
// request, exchanges the authorization code for tokens and fetches the
// user's profile.
//
// * Provider: the capability contract every provider binding satisfies
// (build an authorization URL, exchange a code, fetch a user profile), and
// Registry, which resolves provider ids to bindings.
//
// * Seal/Unseal: the authenticated-encryption codec protecting CSRF state
// and caller metadata across the redirect round-trip.
//
// * CodeVerifier: PKCE S256 verifier/challenge support.
//
// Concrete provider bindings (Google, GitHub, LinkedIn, Discord, Vercel, X)
// live in the oauth/providers package.
package oauth
