// Copyright (c) Voyage Auth, Inc.
// SPDX-License-Identifier: MPL-2.0

package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/hashicorp/go-multierror"
	sdkHttp "github.com/voyage-auth/voyage/sdk/http"
)

type ClientSecret string

// RedactedClientSecret is the redacted string or json for an oauth client secret
const RedactedClientSecret = "[REDACTED: client secret]"

// String will redact the client secret
func (s ClientSecret) String() string {
	return RedactedClientSecret
}

// MarshalJSON will redact the client secret
func (s ClientSecret) MarshalJSON() ([]byte, error) {
	return json.Marshal(RedactedClientSecret)
}

// ClientConfig holds the relying-party credentials a provider binding needs:
// the client id/secret issued by the provider, the redirect URL registered
// with it, and any additional scopes to request beyond the provider's
// defaults.
type ClientConfig struct {
	// ClientID is the relying party id
	ClientID string

	// ClientSecret is the relying party secret
	ClientSecret ClientSecret

	// RedirectURL is the URL the provider redirects back to after the user
	// authenticates.
	RedirectURL string

	// Scopes is an optional list of scopes to request in addition to the
	// provider's defaults. Duplicates are not removed.
	Scopes []string

	// ProviderCA is an optional CA cert PEM to trust when sending requests
	// to the provider.
	ProviderCA string
}

// Validate the client configuration. All violations are reported together.
func (c ClientConfig) Validate() error {
	const op = "ClientConfig.Validate"
	var result *multierror.Error
	if c.ClientID == "" {
		result = multierror.Append(result, fmt.Errorf("%s: client id is empty: %w", op, ErrInvalidParameter))
	}
	if c.ClientSecret == "" {
		result = multierror.Append(result, fmt.Errorf("%s: client secret is empty: %w", op, ErrInvalidParameter))
	}
	if c.RedirectURL == "" {
		result = multierror.Append(result, fmt.Errorf("%s: redirect URL is empty: %w", op, ErrInvalidParameter))
	} else if _, err := url.Parse(c.RedirectURL); err != nil {
		result = multierror.Append(result, fmt.Errorf("%s: redirect URL %s is invalid: %w", op, c.RedirectURL, ErrInvalidParameter))
	}
	return result.ErrorOrNil()
}

// HTTPClient creates a new http client for the provider configured,
// trusting ProviderCA when set.
func (c ClientConfig) HTTPClient() (*http.Client, error) {
	const op = "ClientConfig.HTTPClient"
	client, err := sdkHttp.NewClient(c.ProviderCA)
	if err != nil {
		if errors.Is(err, sdkHttp.ErrInvalidCertificatePem) {
			return nil, fmt.Errorf("%s: could not parse CA PEM value: %w", op, ErrInvalidCACert)
		}
		return nil, fmt.Errorf("%s: could not get an http client: %w", op, err)
	}
	return client, nil
}

// HTTPClientContext is a helper function that returns a new Context that
// carries the provided HTTP client. This method sets the same context key
// used by the github.com/coreos/go-oidc and golang.org/x/oauth2 packages, so
// the returned context works for those packages as well.
func HTTPClientContext(ctx context.Context, client *http.Client) context.Context {
	// simple to implement as a wrapper for the coreos package
	return oidc.ClientContext(ctx, client)
}
