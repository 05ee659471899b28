// Copyright (c) Voyage Auth, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package providers contains concrete identity provider bindings satisfying
// the oauth.Provider contract. OIDC-conformant providers (Google, LinkedIn)
// are built on the generic discovery-based OIDC binding; vendors without
// discovery documents (GitHub, Discord, Vercel, X) are built on the REST
// binding with hardcoded endpoints.
package providers
