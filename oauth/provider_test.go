// Copyright (c) Voyage Auth, Inc.
// SPDX-License-Identifier: MPL-2.0

package oauth

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubProvider is a minimal Provider for registry and flow tests.
type stubProvider struct {
	id string

	authURL     string
	authURLErr  error
	token       *Token
	exchangeErr error
	user        map[string]interface{}
	userInfoErr error

	// capture of the last Exchange call
	gotCallbackURL string
	gotVerifier    CodeVerifier
	gotState       string
}

func (s *stubProvider) ID() string { return s.id }

func (s *stubProvider) AuthURL(ctx context.Context, state string, v CodeVerifier) (string, error) {
	if s.authURLErr != nil {
		return "", s.authURLErr
	}
	if s.authURL != "" {
		return s.authURL, nil
	}
	return BuildAuthURL("https://idp.example.com/auth", "client-1234", "https://rp.example.com/callback", []string{"openid"}, state, v, nil)
}

func (s *stubProvider) Exchange(ctx context.Context, callbackURL string, v CodeVerifier, state string) (*Token, error) {
	s.gotCallbackURL = callbackURL
	s.gotVerifier = v
	s.gotState = state
	if s.exchangeErr != nil {
		return nil, s.exchangeErr
	}
	if _, err := stubCallbackCode(callbackURL, state); err != nil {
		return nil, err
	}
	if s.token != nil {
		return s.token, nil
	}
	return NewToken(map[string]interface{}{"access_token": "access-1234"}), nil
}

// stubCallbackCode mirrors a real binding's state/code checks so flow tests
// exercise the mismatch paths.
func stubCallbackCode(callbackURL, state string) (string, error) {
	u, err := url.Parse(callbackURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	if got := q.Get("state"); got != state {
		return "", ErrStateMismatch
	}
	code := q.Get("code")
	if code == "" {
		return "", ErrMissingAuthorizationCode
	}
	return code, nil
}

func (s *stubProvider) UserInfo(ctx context.Context, t *Token) (map[string]interface{}, error) {
	if s.userInfoErr != nil {
		return nil, s.userInfoErr
	}
	if s.user != nil {
		return s.user, nil
	}
	return map[string]interface{}{"sub": "alice@example.com"}, nil
}

func TestNewRegistry(t *testing.T) {
	t.Parallel()
	t.Run("basics", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		r, err := NewRegistry(&stubProvider{id: "acme"}, &stubProvider{id: "globex"})
		require.NoError(err)
		assert.Equal([]string{"acme", "globex"}, r.IDs())

		p, err := r.Get("acme")
		require.NoError(err)
		assert.Equal("acme", p.ID())
	})
	t.Run("unknown-id", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		r, err := NewRegistry(&stubProvider{id: "acme"})
		require.NoError(err)
		p, err := r.Get("initech")
		require.Error(err)
		assert.Nil(p)
		assert.True(errors.Is(err, ErrProviderNotFound))
	})
	t.Run("duplicate-id", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		r, err := NewRegistry(&stubProvider{id: "acme"}, &stubProvider{id: "acme"})
		require.Error(err)
		assert.Nil(r)
		assert.True(errors.Is(err, ErrInvalidParameter))
	})
	t.Run("empty-id", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		r, err := NewRegistry(&stubProvider{id: ""})
		require.Error(err)
		assert.Nil(r)
		assert.True(errors.Is(err, ErrInvalidParameter))
	})
	t.Run("nil-provider", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		r, err := NewRegistry(nil)
		require.Error(err)
		assert.Nil(r)
		assert.True(errors.Is(err, ErrNilParameter))
	})
	t.Run("all-errors-reported", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		_, err := NewRegistry(nil, &stubProvider{id: ""})
		require.Error(err)
		assert.True(errors.Is(err, ErrNilParameter))
		assert.True(errors.Is(err, ErrInvalidParameter))
	})
	t.Run("insertion-order", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		r, err := NewRegistry(
			&stubProvider{id: "zeta"},
			&stubProvider{id: "acme"},
			&stubProvider{id: "mid"},
		)
		require.NoError(err)
		assert.Equal([]string{"zeta", "acme", "mid"}, r.IDs())
	})
}
