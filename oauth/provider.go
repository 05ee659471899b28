// Copyright (c) Voyage Auth, Inc.
// SPDX-License-Identifier: MPL-2.0

package oauth

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Provider is the capability contract every provider binding satisfies.
// Implementations are created once at configuration time, are immutable
// after registration, and live for the process lifetime. All methods are
// safe for concurrent use; the only mutable state an implementation may hold
// is an idempotent endpoint-discovery cache.
type Provider interface {
	// ID returns the unique, non-empty identifier the provider is
	// registered under.
	ID() string

	// AuthURL builds the provider's authorization endpoint URL embedding
	// the given CSRF state verbatim and the S256 challenge derived from v.
	// The verifier itself never appears in the URL.
	AuthURL(ctx context.Context, state string, v CodeVerifier) (string, error)

	// Exchange extracts the authorization code from the callback URL,
	// fails with ErrStateMismatch if the returned state differs from the
	// expected state, and exchanges the code (plus the PKCE verifier) for
	// a token. Non-success upstream responses are reported as an
	// UpstreamError wrapping ErrTokenExchangeFailed.
	Exchange(ctx context.Context, callbackURL string, v CodeVerifier, state string) (*Token, error)

	// UserInfo fetches the authenticated user's profile with the access
	// token. Non-success upstream responses are reported as an
	// UpstreamError wrapping ErrUserInfoFailed.
	UserInfo(ctx context.Context, t *Token) (map[string]interface{}, error)
}

// Registry resolves provider ids to registered providers. Registration
// order is preserved. A Registry is built once at configuration time and is
// read-only afterwards.
type Registry struct {
	providers map[string]Provider
	order     []string
}

// NewRegistry builds a registry from the given providers. Registration
// errors for all providers are reported together.
func NewRegistry(providers ...Provider) (*Registry, error) {
	const op = "oauth.NewRegistry"
	r := &Registry{providers: map[string]Provider{}}
	var result *multierror.Error
	for _, p := range providers {
		if err := r.register(p); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return r, nil
}

func (r *Registry) register(p Provider) error {
	const op = "Registry.register"
	if p == nil {
		return fmt.Errorf("%s: provider is nil: %w", op, ErrNilParameter)
	}
	id := p.ID()
	if id == "" {
		return fmt.Errorf("%s: provider id is empty: %w", op, ErrInvalidParameter)
	}
	if _, ok := r.providers[id]; ok {
		return fmt.Errorf("%s: provider %q is already registered: %w", op, id, ErrInvalidParameter)
	}
	r.providers[id] = p
	r.order = append(r.order, id)
	return nil
}

// Get resolves id to a registered provider. Unknown ids are a hard failure.
func (r *Registry) Get(id string) (Provider, error) {
	const op = "Registry.Get"
	p, ok := r.providers[id]
	if !ok {
		return nil, fmt.Errorf("%s: %q: %w", op, id, ErrProviderNotFound)
	}
	return p, nil
}

// IDs returns the registered provider ids in registration order.
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.order))
	copy(ids, r.order)
	return ids
}
