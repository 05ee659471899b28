// Copyright (c) Voyage Auth, Inc.
// SPDX-License-Identifier: MPL-2.0

package oauth

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"
)

// CSRFStateKey is the reserved payload key the flow uses to seal the CSRF
// state value. Caller extra data must not use it.
const CSRFStateKey = "csrfState"

// Flow is the authorize/callback engine. It holds no per-request state:
// every login attempt's state travels to the caller inside Authorization and
// comes back inside CallbackRequest, so any number of attempts may run
// concurrently. The process secret is read-only after construction.
type Flow struct {
	secret   string
	registry *Registry
	logger   hclog.Logger
}

// NewFlow creates a Flow for the given process secret and providers.
// Registration errors for all providers are reported together.
//
// Supported options: WithLogger
func NewFlow(secret string, providers []Provider, opt ...Option) (*Flow, error) {
	const op = "oauth.NewFlow"
	if secret == "" {
		return nil, fmt.Errorf("%s: secret is empty: %w", op, ErrInvalidParameter)
	}
	registry, err := NewRegistry(providers...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	opts := getFlowOpts(opt...)
	return &Flow{
		secret:   secret,
		registry: registry,
		logger:   opts.withLogger,
	}, nil
}

// Registry returns the flow's provider registry.
func (f *Flow) Registry() *Registry { return f.registry }

// Authorization is what Authorize hands back for transport across the
// redirect. The caller owns carrying SealedState and CodeVerifier to the
// callback (typically in short-lived, http-only, secure cookies) and
// deleting them once consumed.
type Authorization struct {
	// URL is the provider's authorization endpoint URL to redirect the
	// user to.
	URL string

	// SealedState is the encrypted envelope carrying the CSRF state and
	// the caller's extra data.
	SealedState string

	// CodeVerifier is the PKCE verifier bound to this authorization
	// request. Only its derived challenge was embedded in URL.
	CodeVerifier string
}

// CallbackRequest carries a provider's callback back into the flow.
type CallbackRequest struct {
	// URL is the full callback request URL, including the code and state
	// query parameters set by the provider.
	URL string

	// SealedState is the envelope returned by Authorize.
	SealedState string

	// CodeVerifier is the verifier returned by Authorize.
	CodeVerifier string
}

// CallbackResult is the normalized outcome of a completed login attempt.
type CallbackResult struct {
	// User is the provider's profile for the authenticated user.
	User map[string]interface{}

	// Token is the provider's token endpoint response.
	Token *Token

	// Data is the caller's extra data recovered from the sealed state,
	// without the CSRF value.
	Data map[string]string
}

// Authorize starts a login attempt with the identified provider: it
// generates a fresh CSRF state and PKCE verifier, seals the state together
// with the caller's extra data under the process secret, and builds the
// provider's authorization URL. The provider only ever sees the unsealed
// CSRF value, never the sealed envelope.
func (f *Flow) Authorize(ctx context.Context, providerID string, extraData map[string]string) (*Authorization, error) {
	const op = "Flow.Authorize"
	p, err := f.registry.Get(providerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if _, ok := extraData[CSRFStateKey]; ok {
		return nil, fmt.Errorf("%s: extra data key %q is reserved: %w", op, CSRFStateKey, ErrInvalidParameter)
	}
	state, err := NewID(WithPrefix("st"))
	if err != nil {
		return nil, fmt.Errorf("%s: unable to generate state: %w", op, err)
	}
	v, err := NewCodeVerifier()
	if err != nil {
		return nil, fmt.Errorf("%s: unable to generate code verifier: %w", op, err)
	}
	payload := map[string]string{CSRFStateKey: state}
	for k, val := range extraData {
		payload[k] = val
	}
	sealed, err := Seal(f.secret, payload)
	if err != nil {
		return nil, fmt.Errorf("%s: unable to seal state: %w", op, err)
	}
	u, err := p.AuthURL(ctx, state, v)
	if err != nil {
		return nil, fmt.Errorf("%s: unable to build authorization url: %w", op, err)
	}
	f.logger.Debug("authorization started", "provider", providerID)
	return &Authorization{
		URL:          u,
		SealedState:  sealed,
		CodeVerifier: v.Verifier(),
	}, nil
}

// Callback completes a login attempt: it unseals the state envelope (any
// codec failure, and a missing inner CSRF value, surface as
// ErrInvalidSealedState), lets the provider compare the callback's state
// parameter against the unsealed CSRF value and exchange the code, fetches
// the user's profile, and returns the normalized result. Tampering with the
// outer envelope is caught by authenticated encryption; a replayed or
// mismatched state parameter is caught by the provider's own comparison.
//
// Network failures are surfaced as typed errors and never retried here: an
// authorization code can be consumed exactly once upstream, so retries are
// the caller's call.
func (f *Flow) Callback(ctx context.Context, providerID string, r CallbackRequest) (*CallbackResult, error) {
	const op = "Flow.Callback"
	p, err := f.registry.Get(providerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	payload, err := Unseal(f.secret, r.SealedState)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidSealedState)
	}
	state, ok := payload[CSRFStateKey]
	if !ok || state == "" {
		return nil, fmt.Errorf("%s: sealed state has no csrf value: %w", op, ErrInvalidSealedState)
	}
	v, err := RestoreS256Verifier(r.CodeVerifier)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrMissingCodeVerifier)
	}
	tk, err := p.Exchange(ctx, r.URL, v, state)
	if err != nil {
		f.logger.Debug("code exchange failed", "provider", providerID, "error", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user, err := p.UserInfo(ctx, tk)
	if err != nil {
		f.logger.Debug("user fetch failed", "provider", providerID, "error", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	data := make(map[string]string, len(payload)-1)
	for k, val := range payload {
		if k == CSRFStateKey {
			continue
		}
		data[k] = val
	}
	f.logger.Debug("callback completed", "provider", providerID)
	return &CallbackResult{
		User:  user,
		Token: tk,
		Data:  data,
	}, nil
}

// flowOptions is the set of available options for NewFlow
type flowOptions struct {
	withLogger hclog.Logger
}

// flowDefaults is a handy way to get the defaults at runtime and during unit
// tests.
func flowDefaults() flowOptions {
	return flowOptions{
		withLogger: hclog.NewNullLogger(),
	}
}

// getFlowOpts gets the flow defaults and applies the opt overrides passed in
func getFlowOpts(opt ...Option) flowOptions {
	opts := flowDefaults()
	ApplyOpts(&opts, opt...)
	return opts
}

// WithLogger provides an optional logger for the flow
func WithLogger(l hclog.Logger) Option {
	return func(o interface{}) {
		if o, ok := o.(*flowOptions); ok {
			if l != nil {
				o.withLogger = l
			}
		}
	}
}
