// Copyright (c) Voyage Auth, Inc.
// SPDX-License-Identifier: MPL-2.0

package oauth

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
)

// Seal encrypts payload into an opaque, URL-safe string under a key derived
// from secret. The key is the SHA-256 of the operator-supplied secret, so the
// secret itself need not be key-length. A fresh random nonce is generated per
// call, which makes sealing non-deterministic: sealing the same payload twice
// yields two different strings that both unseal to the original payload.
//
// The envelope is base64url(nonce || ciphertext || tag) using AES-256-GCM.
func Seal(secret string, payload map[string]string) (string, error) {
	const op = "oauth.Seal"
	if secret == "" {
		return "", fmt.Errorf("%s: secret is empty: %w", op, ErrInvalidParameter)
	}
	if payload == nil {
		return "", fmt.Errorf("%s: payload is nil: %w", op, ErrNilParameter)
	}
	aead, err := sealAEAD(secret)
	if err != nil {
		return "", fmt.Errorf("%s: unable to init cipher: %w", op, err)
	}
	plaintext, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("%s: unable to marshal payload: %w", op, err)
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("%s: unable to generate nonce: %w", op, err)
	}
	// Seal appends ciphertext||tag to the nonce slice, producing the full
	// envelope in one buffer.
	sealed := aead.Seal(nonce, nonce, plaintext, nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Unseal decrypts a string produced by Seal with the same secret and returns
// the original payload. It is safe to call with attacker-controlled input:
// any failure (undecodable envelope, short input, failed tag verification
// from tampering or a wrong secret, malformed inner payload) is reported as
// ErrInvalidSealedState with no partial result and no distinguishing detail.
func Unseal(secret string, sealed string) (map[string]string, error) {
	const op = "oauth.Unseal"
	if secret == "" {
		return nil, fmt.Errorf("%s: secret is empty: %w", op, ErrInvalidParameter)
	}
	aead, err := sealAEAD(secret)
	if err != nil {
		return nil, fmt.Errorf("%s: unable to init cipher: %w", op, err)
	}
	data, err := base64.RawURLEncoding.DecodeString(sealed)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidSealedState)
	}
	if len(data) < aead.NonceSize()+aead.Overhead() {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidSealedState)
	}
	nonce, ciphertext := data[:aead.NonceSize()], data[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidSealedState)
	}
	var payload map[string]string
	if err := json.Unmarshal(plaintext, &payload); err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidSealedState)
	}
	return payload, nil
}

func sealAEAD(secret string) (cipher.AEAD, error) {
	key := sha256.Sum256([]byte(secret))
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
