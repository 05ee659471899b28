// Copyright (c) Voyage Auth, Inc.
// SPDX-License-Identifier: MPL-2.0

package providers

import (
	"fmt"
	"net/url"

	"github.com/voyage-auth/voyage/oauth"
)

// callbackCode extracts the authorization code from a provider callback URL
// after checking the returned state parameter byte-for-byte against the
// expected state.
func callbackCode(callbackURL, state string) (string, error) {
	u, err := url.Parse(callbackURL)
	if err != nil {
		return "", fmt.Errorf("callback url is invalid: %w", oauth.ErrInvalidParameter)
	}
	q := u.Query()
	if got := q.Get("state"); got != state {
		return "", fmt.Errorf("callback state %q: %w", got, oauth.ErrStateMismatch)
	}
	code := q.Get("code")
	if code == "" {
		if e := q.Get("error"); e != "" {
			return "", fmt.Errorf("authorization response returned error %q (%s): %w", e, q.Get("error_description"), oauth.ErrMissingAuthorizationCode)
		}
		return "", fmt.Errorf("callback url has no code parameter: %w", oauth.ErrMissingAuthorizationCode)
	}
	return code, nil
}
