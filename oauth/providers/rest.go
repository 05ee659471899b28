// Copyright (c) Voyage Auth, Inc.
// SPDX-License-Identifier: MPL-2.0

package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/voyage-auth/voyage/oauth"
)

// Endpoints is the hardcoded endpoint set for a provider without a
// discovery document.
type Endpoints struct {
	// AuthURL is the authorization endpoint.
	AuthURL string

	// TokenURL is the token endpoint.
	TokenURL string

	// UserURL is the vendor REST endpoint serving the user's profile.
	UserURL string
}

// REST is a generic binding for providers without OIDC discovery: all three
// endpoints are fixed at construction time, token exchange is a form-encoded
// POST with the client secret in the body or in HTTP Basic credentials, and
// the profile comes from a vendor REST endpoint with Bearer auth.
type REST struct {
	id          string
	endpoints   Endpoints
	cfg         oauth.ClientConfig
	scopes      []string
	authParams  map[string]string
	userHeaders map[string]string
	basicAuth   bool
	client      *http.Client
}

// ensure that REST implements the oauth.Provider interface
var _ oauth.Provider = (*REST)(nil)

// NewREST creates a fixed-endpoint provider binding for the given registry
// id.
//
// Supported options: WithDefaultScopes, WithAuthParams, WithUserHeaders,
// WithBasicAuth
func NewREST(id string, endpoints Endpoints, cfg oauth.ClientConfig, opt ...oauth.Option) (*REST, error) {
	const op = "providers.NewREST"
	if id == "" {
		return nil, fmt.Errorf("%s: provider id is empty: %w", op, oauth.ErrInvalidParameter)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: invalid client config: %w", op, err)
	}
	opts := getOpts(opt...)
	client, err := cfg.HTTPClient()
	if err != nil {
		return nil, fmt.Errorf("%s: unable to create http client: %w", op, err)
	}
	return &REST{
		id:          id,
		endpoints:   endpoints,
		cfg:         cfg,
		scopes:      append(opts.withDefaultScopes, cfg.Scopes...),
		authParams:  opts.withAuthParams,
		userHeaders: opts.withUserHeaders,
		basicAuth:   opts.withBasicAuth,
		client:      client,
	}, nil
}

// ID implements oauth.Provider.ID
func (p *REST) ID() string { return p.id }

// AuthURL implements oauth.Provider.AuthURL
func (p *REST) AuthURL(ctx context.Context, state string, v oauth.CodeVerifier) (string, error) {
	const op = "REST.AuthURL"
	u, err := oauth.BuildAuthURL(p.endpoints.AuthURL, p.cfg.ClientID, p.cfg.RedirectURL, p.scopes, state, v, p.authParams)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// Exchange implements oauth.Provider.Exchange with a form-encoded POST to
// the token endpoint.
func (p *REST) Exchange(ctx context.Context, callbackURL string, v oauth.CodeVerifier, state string) (*oauth.Token, error) {
	const op = "REST.Exchange"
	if v == nil {
		return nil, fmt.Errorf("%s: %w", op, oauth.ErrMissingCodeVerifier)
	}
	code, err := callbackCode(callbackURL, state)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", p.cfg.RedirectURL)
	form.Set("code_verifier", v.Verifier())
	if !p.basicAuth {
		form.Set("client_id", p.cfg.ClientID)
		form.Set("client_secret", string(p.cfg.ClientSecret))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoints.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%s: unable to create token request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	if p.basicAuth {
		// RFC 6749 2.3.1: credentials are form-urlencoded before being
		// placed in the basic auth header.
		req.SetBasicAuth(url.QueryEscape(p.cfg.ClientID), url.QueryEscape(string(p.cfg.ClientSecret)))
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, &oauth.UpstreamError{
			Err:  oauth.ErrTokenExchangeFailed,
			Body: err.Error(),
		})
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: unable to read token response: %w", op, oauth.ErrTokenExchangeFailed)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%s: %w", op, &oauth.UpstreamError{
			Err:    oauth.ErrTokenExchangeFailed,
			Status: resp.StatusCode,
			Body:   string(body),
		})
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%s: unable to parse token response: %w", op, oauth.ErrTokenExchangeFailed)
	}
	return oauth.NewToken(raw), nil
}

// UserInfo implements oauth.Provider.UserInfo against the vendor's profile
// endpoint.
func (p *REST) UserInfo(ctx context.Context, t *oauth.Token) (map[string]interface{}, error) {
	const op = "REST.UserInfo"
	if t == nil {
		return nil, fmt.Errorf("%s: token is nil: %w", op, oauth.ErrNilParameter)
	}
	user, err := getProfile(ctx, p.client, p.endpoints.UserURL, t.AccessToken, p.userHeaders)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// getProfile GETs a profile endpoint with Bearer auth and decodes the JSON
// response. Non-success statuses are reported as an UpstreamError wrapping
// ErrUserInfoFailed.
func getProfile(ctx context.Context, client *http.Client, endpoint, accessToken string, headers map[string]string) (map[string]interface{}, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("unable to create profile request: %w", oauth.ErrUserInfoFailed)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &oauth.UpstreamError{
			Err:  oauth.ErrUserInfoFailed,
			Body: err.Error(),
		}
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("unable to read profile response: %w", oauth.ErrUserInfoFailed)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &oauth.UpstreamError{
			Err:    oauth.ErrUserInfoFailed,
			Status: resp.StatusCode,
			Body:   string(body),
		}
	}
	var user map[string]interface{}
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("unable to parse profile response: %w", oauth.ErrUserInfoFailed)
	}
	return user, nil
}
