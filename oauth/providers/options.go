// Copyright (c) Voyage Auth, Inc.
// SPDX-License-Identifier: MPL-2.0

package providers

import (
	"github.com/voyage-auth/voyage/oauth"
)

// options is the set of available options for provider constructors
type options struct {
	withDefaultScopes []string
	withAuthParams    map[string]string
	withSupportedAlgs []oauth.Alg
	withUserHeaders   map[string]string
	withBasicAuth     bool
}

// defaults is a handy way to get the defaults at runtime and during unit
// tests.
func defaults() options {
	return options{
		withSupportedAlgs: []oauth.Alg{oauth.RS256},
	}
}

// getOpts gets the provider defaults and applies the opt overrides passed in
func getOpts(opt ...oauth.Option) options {
	opts := defaults()
	oauth.ApplyOpts(&opts, opt...)
	return opts
}

// WithDefaultScopes provides the scopes a provider requests before any
// caller-supplied extras.
func WithDefaultScopes(scopes ...string) oauth.Option {
	return func(o interface{}) {
		if o, ok := o.(*options); ok {
			o.withDefaultScopes = scopes
		}
	}
}

// WithAuthParams provides extra query parameters a provider adds to its
// authorization URLs, applied after (and allowed to override) the standard
// set.
func WithAuthParams(params map[string]string) oauth.Option {
	return func(o interface{}) {
		if o, ok := o.(*options); ok {
			o.withAuthParams = params
		}
	}
}

// WithSupportedAlgs provides the signing algorithms accepted when verifying
// a provider's id_tokens. Defaults to RS256.
func WithSupportedAlgs(algs ...oauth.Alg) oauth.Option {
	return func(o interface{}) {
		if o, ok := o.(*options); ok {
			o.withSupportedAlgs = algs
		}
	}
}

// WithUserHeaders provides extra headers for a REST provider's profile
// endpoint requests.
func WithUserHeaders(headers map[string]string) oauth.Option {
	return func(o interface{}) {
		if o, ok := o.(*options); ok {
			o.withUserHeaders = headers
		}
	}
}

// WithBasicAuth makes a REST provider authenticate to its token endpoint
// with HTTP Basic credentials instead of secret-in-body.
func WithBasicAuth() oauth.Option {
	return func(o interface{}) {
		if o, ok := o.(*options); ok {
			o.withBasicAuth = true
		}
	}
}
