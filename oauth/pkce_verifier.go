// Copyright (c) Voyage Auth, Inc.
// SPDX-License-Identifier: MPL-2.0

package oauth

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"github.com/hashicorp/go-uuid"
)

// ChallengeMethod represents PKCE code challenge methods as defined by RFC
// 7636.
type ChallengeMethod string

const (
	// S256 is the SHA-256 based PKCE challenge method and the only method
	// supported by this package.
	S256 ChallengeMethod = "S256"
)

// verifierLen is the length of a generated code verifier: 32 bytes of
// entropy base64url encoded, which is also the RFC 7636 minimum of 43
// characters.
const verifierLen = 43

// CodeVerifier represents a PKCE code verifier bound to one authorization
// request. The verifier itself is never part of the authorization URL; only
// the derived Challenge() is, and the verifier is presented again during the
// code exchange.
type CodeVerifier interface {
	// Verifier returns the verifier string.
	Verifier() string

	// Challenge returns the code challenge derived from the verifier.
	Challenge() string

	// Method returns the challenge method used to derive the challenge.
	Method() ChallengeMethod
}

// S256Verifier implements CodeVerifier for the S256 challenge method.
type S256Verifier struct {
	verifier  string
	challenge string
	method    ChallengeMethod
}

// ensure that S256Verifier implements the CodeVerifier interface
var _ CodeVerifier = (*S256Verifier)(nil)

// NewCodeVerifier creates a new S256Verifier with a fresh high-entropy
// verifier and a memoized challenge.
func NewCodeVerifier() (*S256Verifier, error) {
	const op = "oauth.NewCodeVerifier"
	data, err := uuid.GenerateRandomBytes(32)
	if err != nil {
		return nil, fmt.Errorf("%s: unable to generate verifier entropy: %w", op, ErrIdGeneratorFailed)
	}
	v := &S256Verifier{
		verifier: base64.RawURLEncoding.EncodeToString(data),
		method:   S256,
	}
	if v.challenge, err = CreateCodeChallenge(S256, v); err != nil {
		return nil, fmt.Errorf("%s: unable to create code challenge: %w", op, err)
	}
	return v, nil
}

// RestoreS256Verifier rebuilds an S256Verifier from a verifier string that
// was previously round-tripped to the caller, recomputing its challenge.
// It's used on the callback leg of a flow, where the caller supplies the
// verifier it stored when the flow was initiated.
func RestoreS256Verifier(verifier string) (*S256Verifier, error) {
	const op = "oauth.RestoreS256Verifier"
	if len(verifier) < verifierLen {
		return nil, fmt.Errorf("%s: verifier is shorter than %d characters: %w", op, verifierLen, ErrInvalidParameter)
	}
	v := &S256Verifier{
		verifier: verifier,
		method:   S256,
	}
	var err error
	if v.challenge, err = CreateCodeChallenge(S256, v); err != nil {
		return nil, fmt.Errorf("%s: unable to create code challenge: %w", op, err)
	}
	return v, nil
}

func (v *S256Verifier) Verifier() string        { return v.verifier }  // Verifier implements CodeVerifier.Verifier()
func (v *S256Verifier) Challenge() string       { return v.challenge } // Challenge implements CodeVerifier.Challenge()
func (v *S256Verifier) Method() ChallengeMethod { return v.method }    // Method implements CodeVerifier.Method()

// CreateCodeChallenge creates a code challenge from the verifier. Supported
// methods: S256
func CreateCodeChallenge(m ChallengeMethod, v CodeVerifier) (string, error) {
	// we're not currently supporting the "plain" method, since RFC 7636
	// recommends against it.
	const op = "oauth.CreateCodeChallenge"
	switch m {
	case S256:
		h := sha256.New()
		_, _ = h.Write([]byte(v.Verifier())) // hash documents that Write will never return an error
		sum := h.Sum(nil)
		return base64.RawURLEncoding.EncodeToString(sum), nil
	default:
		return "", fmt.Errorf("%s: %s is not a valid challenge method: %w", op, m, ErrUnsupportedChallengeMethod)
	}
}
