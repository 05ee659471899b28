// Copyright (c) Voyage Auth, Inc.
// SPDX-License-Identifier: MPL-2.0

package oauth

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidParameter  = errors.New("invalid parameter")
	ErrNilParameter      = errors.New("nil parameter")
	ErrIdGeneratorFailed = errors.New("id generation failed")
	ErrInvalidCACert     = errors.New("invalid CA certificate")

	// ErrProviderNotFound is returned when a caller-supplied provider id
	// does not resolve to a registered provider.
	ErrProviderNotFound = errors.New("provider not found")

	// ErrInvalidSealedState covers every way a sealed state value can fail
	// to unseal: wrong secret, tampered or truncated ciphertext, and a
	// malformed inner payload. The causes are deliberately collapsed so the
	// callback endpoint never acts as a decryption oracle.
	ErrInvalidSealedState = errors.New("invalid sealed state")

	ErrMissingCodeVerifier          = errors.New("missing code verifier")
	ErrMissingAuthorizationEndpoint = errors.New("missing authorization endpoint")
	ErrMissingAuthorizationCode     = errors.New("missing authorization code")
	ErrStateMismatch                = errors.New("response state and request state are not equal")
	ErrUnsupportedChallengeMethod   = errors.New("unsupported challenge method")

	ErrTokenExchangeFailed       = errors.New("token exchange failed")
	ErrUserInfoFailed            = errors.New("user info request failed")
	ErrIdTokenVerificationFailed = errors.New("id_token verification failed")
	ErrInvalidSubject            = errors.New("invalid subject")
	ErrMissingIdToken            = errors.New("id_token is missing")
)

// UpstreamError carries the HTTP status and raw body of a failed provider
// response alongside the sentinel classifying the failure
// (ErrTokenExchangeFailed or ErrUserInfoFailed). Callers get the sentinel
// via errors.Is and the structured detail via errors.As.
type UpstreamError struct {
	// Err is the sentinel classifying the failure.
	Err error

	// Status is the upstream HTTP status code, or zero when the request
	// never produced a response.
	Status int

	// Body is the raw upstream response body (or transport error text).
	Body string
}

// Error implements the error interface.
func (e *UpstreamError) Error() string {
	if e == nil || e.Err == nil {
		return "unknown upstream error"
	}
	if e.Status == 0 {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Body)
	}
	return fmt.Sprintf("%s: upstream status %d: %s", e.Err.Error(), e.Status, e.Body)
}

// Unwrap returns the classifying sentinel.
func (e *UpstreamError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
