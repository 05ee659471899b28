// Copyright (c) Voyage Auth, Inc.
// SPDX-License-Identifier: MPL-2.0

package oauth

import (
	"fmt"
	"net/url"
	"strings"
)

// BuildAuthURL deterministically constructs a provider's authorization
// endpoint URL for the authorization code + PKCE flow. The query carries
// client_id, redirect_uri, response_type=code, the space-joined scopes, the
// S256 code challenge derived from v, and state verbatim.
//
// Extra parameters are applied last and may intentionally overwrite the
// standard set; providers use this for vendor parameters like
// access_type=offline. Overwriting is an allowed override, not an error.
func BuildAuthURL(endpoint, clientID, redirectURL string, scopes []string, state string, v CodeVerifier, extraParams map[string]string) (string, error) {
	const op = "oauth.BuildAuthURL"
	if endpoint == "" {
		return "", fmt.Errorf("%s: %w", op, ErrMissingAuthorizationEndpoint)
	}
	if v == nil {
		return "", fmt.Errorf("%s: %w", op, ErrMissingCodeVerifier)
	}
	if clientID == "" {
		return "", fmt.Errorf("%s: client id is empty: %w", op, ErrInvalidParameter)
	}
	if state == "" {
		return "", fmt.Errorf("%s: state is empty: %w", op, ErrInvalidParameter)
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("%s: authorization endpoint %s is invalid: %w", op, endpoint, ErrInvalidParameter)
	}
	q := u.Query()
	q.Set("response_type", "code")
	q.Set("client_id", clientID)
	q.Set("redirect_uri", redirectURL)
	q.Set("state", state)
	q.Set("scope", strings.Join(scopes, " "))
	q.Set("code_challenge", v.Challenge())
	q.Set("code_challenge_method", string(v.Method()))
	for k, val := range extraParams {
		q.Set(k, val)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
