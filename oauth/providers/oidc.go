// Copyright (c) Voyage Auth, Inc.
// SPDX-License-Identifier: MPL-2.0

package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"github.com/voyage-auth/voyage/oauth"
)

// OIDC is a generic binding for OIDC-conformant providers. Endpoints are
// found via the issuer's discovery document, lazily, on first use; the
// discovered set is memoized for the lifetime of the instance. A failed
// discovery is not cached, so the next use retries it.
type OIDC struct {
	id            string
	issuer        string
	cfg           oauth.ClientConfig
	scopes        []string
	authParams    map[string]string
	supportedAlgs []oauth.Alg
	client        *http.Client

	// clientCtx carries the provider's http client for discovery and JWKS
	// fetches. It outlives any single request so the cached key set stays
	// usable after the request that triggered discovery is done.
	clientCtx context.Context

	mu         sync.Mutex
	discovered *oidc.Provider
}

// ensure that OIDC implements the oauth.Provider interface
var _ oauth.Provider = (*OIDC)(nil)

// NewOIDC creates a discovery-based provider binding for the given registry
// id and issuer. No network request is made until the binding is first used.
//
// Supported options: WithDefaultScopes, WithAuthParams, WithSupportedAlgs
func NewOIDC(id, issuer string, cfg oauth.ClientConfig, opt ...oauth.Option) (*OIDC, error) {
	const op = "providers.NewOIDC"
	if id == "" {
		return nil, fmt.Errorf("%s: provider id is empty: %w", op, oauth.ErrInvalidParameter)
	}
	if issuer == "" {
		return nil, fmt.Errorf("%s: issuer is empty: %w", op, oauth.ErrInvalidParameter)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: invalid client config: %w", op, err)
	}
	opts := getOpts(opt...)
	for _, a := range opts.withSupportedAlgs {
		if !oauth.SupportedAlg(a) {
			return nil, fmt.Errorf("%s: unsupported algorithm %s: %w", op, a, oauth.ErrInvalidParameter)
		}
	}
	client, err := cfg.HTTPClient()
	if err != nil {
		return nil, fmt.Errorf("%s: unable to create http client: %w", op, err)
	}
	p := &OIDC{
		id:            id,
		issuer:        issuer,
		cfg:           cfg,
		scopes:        append(opts.withDefaultScopes, cfg.Scopes...),
		authParams:    opts.withAuthParams,
		supportedAlgs: opts.withSupportedAlgs,
		client:        client,
		clientCtx:     oauth.HTTPClientContext(context.Background(), client),
	}
	return p, nil
}

// ID implements oauth.Provider.ID
func (p *OIDC) ID() string { return p.id }

func (p *OIDC) discover() (*oidc.Provider, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.discovered != nil {
		return p.discovered, nil
	}
	dp, err := oidc.NewProvider(p.clientCtx, p.issuer)
	if err != nil {
		return nil, err
	}
	p.discovered = dp
	return dp, nil
}

// AuthURL implements oauth.Provider.AuthURL using the discovered
// authorization endpoint.
func (p *OIDC) AuthURL(ctx context.Context, state string, v oauth.CodeVerifier) (string, error) {
	const op = "OIDC.AuthURL"
	dp, err := p.discover()
	if err != nil {
		return "", fmt.Errorf("%s: discovery failed: %w", op, err)
	}
	endpoint := dp.Endpoint().AuthURL
	if endpoint == "" {
		return "", fmt.Errorf("%s: %w", op, oauth.ErrMissingAuthorizationEndpoint)
	}
	u, err := oauth.BuildAuthURL(endpoint, p.cfg.ClientID, p.cfg.RedirectURL, p.scopes, state, v, p.authParams)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// Exchange implements oauth.Provider.Exchange using the discovered token
// endpoint via the oauth2 package.
func (p *OIDC) Exchange(ctx context.Context, callbackURL string, v oauth.CodeVerifier, state string) (*oauth.Token, error) {
	const op = "OIDC.Exchange"
	if v == nil {
		return nil, fmt.Errorf("%s: %w", op, oauth.ErrMissingCodeVerifier)
	}
	code, err := callbackCode(callbackURL, state)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	dp, err := p.discover()
	if err != nil {
		return nil, fmt.Errorf("%s: discovery failed: %w", op, err)
	}
	oauth2Config := oauth2.Config{
		ClientID:     p.cfg.ClientID,
		ClientSecret: string(p.cfg.ClientSecret),
		RedirectURL:  p.cfg.RedirectURL,
		Endpoint:     dp.Endpoint(),
		Scopes:       p.scopes,
	}
	tk, err := oauth2Config.Exchange(
		oauth.HTTPClientContext(ctx, p.client),
		code,
		oauth2.SetAuthURLParam("code_verifier", v.Verifier()),
	)
	if err != nil {
		var rErr *oauth2.RetrieveError
		if errors.As(err, &rErr) {
			status := 0
			if rErr.Response != nil {
				status = rErr.Response.StatusCode
			}
			return nil, fmt.Errorf("%s: %w", op, &oauth.UpstreamError{
				Err:    oauth.ErrTokenExchangeFailed,
				Status: status,
				Body:   string(rErr.Body),
			})
		}
		return nil, fmt.Errorf("%s: %w", op, &oauth.UpstreamError{
			Err:  oauth.ErrTokenExchangeFailed,
			Body: err.Error(),
		})
	}
	return tokenFromOAuth2(tk), nil
}

// UserInfo implements oauth.Provider.UserInfo against the discovered
// userinfo endpoint. The token's id_token is verified against the issuer's
// keys and its subject must match the userinfo subject.
func (p *OIDC) UserInfo(ctx context.Context, t *oauth.Token) (map[string]interface{}, error) {
	const op = "OIDC.UserInfo"
	if t == nil {
		return nil, fmt.Errorf("%s: token is nil: %w", op, oauth.ErrNilParameter)
	}
	if t.IdToken == "" {
		return nil, fmt.Errorf("%s: %w", op, oauth.ErrMissingIdToken)
	}
	dp, err := p.discover()
	if err != nil {
		return nil, fmt.Errorf("%s: discovery failed: %w", op, err)
	}
	var claims struct {
		UserInfoEndpoint string `json:"userinfo_endpoint"`
	}
	if err := dp.Claims(&claims); err != nil {
		return nil, fmt.Errorf("%s: unable to read discovery claims: %w", op, err)
	}
	if claims.UserInfoEndpoint == "" {
		return nil, fmt.Errorf("%s: discovery document has no userinfo endpoint: %w", op, oauth.ErrUserInfoFailed)
	}
	user, err := getProfile(ctx, p.client, claims.UserInfoEndpoint, t.AccessToken, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	algs := make([]string, 0, len(p.supportedAlgs))
	for _, a := range p.supportedAlgs {
		algs = append(algs, string(a))
	}
	verifier := dp.Verifier(&oidc.Config{
		ClientID:             p.cfg.ClientID,
		SupportedSigningAlgs: algs,
	})
	idToken, err := verifier.Verify(p.clientCtx, t.IdToken)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, oauth.ErrIdTokenVerificationFailed)
	}
	sub, _ := user["sub"].(string)
	if sub != idToken.Subject {
		return nil, fmt.Errorf("%s: userinfo subject does not match id_token subject: %w", op, oauth.ErrInvalidSubject)
	}
	return user, nil
}

// tokenFromOAuth2 rebuilds a raw token-endpoint response from an oauth2
// token, including the id_token extra.
func tokenFromOAuth2(tk *oauth2.Token) *oauth.Token {
	raw := map[string]interface{}{
		"access_token": tk.AccessToken,
		"token_type":   tk.TokenType,
	}
	if tk.RefreshToken != "" {
		raw["refresh_token"] = tk.RefreshToken
	}
	if id, ok := tk.Extra("id_token").(string); ok && id != "" {
		raw["id_token"] = id
	}
	if scope, ok := tk.Extra("scope").(string); ok && scope != "" {
		raw["scope"] = scope
	}
	t := oauth.NewToken(raw)
	t.Expiry = tk.Expiry
	return t
}
