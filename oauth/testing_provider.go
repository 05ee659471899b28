// Copyright (c) Voyage Auth, Inc.
// SPDX-License-Identifier: MPL-2.0

package oauth

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"gopkg.in/square/go-jose.v2"
	"gopkg.in/square/go-jose.v2/jwt"
)

// TestProviderAccessToken is the access token the TestProvider issues from
// its token endpoint and expects at its userinfo endpoint.
const TestProviderAccessToken = "tp_access_token"

// TestProvider is a local fake identity provider which makes writing tests
// against the full authorize/callback flow much easier. It serves an OIDC
// discovery document, an authorization endpoint, a token endpoint which
// enforces PKCE S256 when an expected challenge is configured, a JWKS
// endpoint, and a userinfo endpoint. Token and userinfo responses can be
// forced into arbitrary error statuses to exercise failure paths.
type TestProvider struct {
	httpServer *httptest.Server

	jwks            *jose.JSONWebKeySet
	ecdsaPublicKey  string
	ecdsaPrivateKey string

	mu                    sync.Mutex
	clientID              string
	clientSecret          string
	expectedAuthCode      string
	expectedCodeChallenge string
	replySubject          string
	replyUserinfo         map[string]interface{}
	userinfoSubject       string
	tokenErrorStatus      int
	userinfoErrorStatus   int
	omitIDToken           bool
	discoveryHits         int

	t *testing.T
}

// StartTestProvider creates and starts a disposable TestProvider on a local
// listener. The server is shut down via t.Cleanup.
func StartTestProvider(t *testing.T) *TestProvider {
	t.Helper()

	p := &TestProvider{
		t:            t,
		replySubject: "alice@example.com",
		replyUserinfo: map[string]interface{}{
			"name":  "Alice Eve Smith",
			"email": "alice@example.com",
		},
	}
	p.ecdsaPublicKey, p.ecdsaPrivateKey = TestGenerateKeys(t)
	p.jwks = testJWKS(t, p.ecdsaPublicKey)

	p.httpServer = httptest.NewServer(p)
	t.Cleanup(p.httpServer.Close)

	return p
}

// Addr returns the current base URL for the test provider's running
// webserver, which also serves as its issuer.
func (p *TestProvider) Addr() string { return p.httpServer.URL }

// SetClientCreds configures the client credentials the token endpoint
// accepts. When unset, any credentials are accepted.
func (p *TestProvider) SetClientCreds(clientID, clientSecret string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clientID = clientID
	p.clientSecret = clientSecret
}

// SetExpectedAuthCode configures the auth code returned from the auth
// endpoint and the only code the token endpoint accepts.
func (p *TestProvider) SetExpectedAuthCode(code string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.expectedAuthCode = code
}

// SetExpectedCodeChallenge makes the token endpoint require a code_verifier
// whose S256 hash equals challenge.
func (p *TestProvider) SetExpectedCodeChallenge(challenge string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.expectedCodeChallenge = challenge
}

// SetReplySubject configures the sub claim used for issued id_tokens and
// the userinfo response.
func (p *TestProvider) SetReplySubject(sub string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.replySubject = sub
}

// SetUserinfoSubject overrides the sub returned by the userinfo endpoint
// only, leaving id_tokens unchanged. Useful for subject-mismatch tests.
func (p *TestProvider) SetUserinfoSubject(sub string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.userinfoSubject = sub
}

// SetTokenErrorStatus forces the token endpoint to fail with the given
// status. A zero status restores normal behavior.
func (p *TestProvider) SetTokenErrorStatus(status int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tokenErrorStatus = status
}

// SetUserinfoErrorStatus forces the userinfo endpoint to fail with the
// given status. A zero status restores normal behavior.
func (p *TestProvider) SetUserinfoErrorStatus(status int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.userinfoErrorStatus = status
}

// OmitIDTokens forces an error state where the token endpoint does not
// return an id_token.
func (p *TestProvider) OmitIDTokens() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.omitIDToken = true
}

// DiscoveryHits returns how many times the discovery document has been
// served, which lets tests assert discovery memoization.
func (p *TestProvider) DiscoveryHits() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.discoveryHits
}

func (p *TestProvider) writeJSON(w http.ResponseWriter, out interface{}) error {
	enc := json.NewEncoder(w)
	return enc.Encode(out)
}

func (p *TestProvider) writeTokenErrorResponse(w http.ResponseWriter, statusCode int, errorCode, errorMessage string) error {
	body := struct {
		Code string `json:"error"`
		Desc string `json:"error_description,omitempty"`
	}{
		Code: errorCode,
		Desc: errorMessage,
	}

	w.WriteHeader(statusCode)
	return p.writeJSON(w, &body)
}

// clientCredsOK checks the token request's client authentication, which may
// arrive as HTTP Basic or as form values.
func (p *TestProvider) clientCredsOK(req *http.Request) bool {
	if p.clientID == "" {
		return true
	}
	if id, secret, ok := req.BasicAuth(); ok {
		// RFC 6749 requires basic auth credentials to be form-urlencoded
		// before being set, so undo that before comparing.
		unescapedID, err := url.QueryUnescape(id)
		if err != nil {
			return false
		}
		unescapedSecret, err := url.QueryUnescape(secret)
		if err != nil {
			return false
		}
		return unescapedID == p.clientID && unescapedSecret == p.clientSecret
	}
	return req.FormValue("client_id") == p.clientID && req.FormValue("client_secret") == p.clientSecret
}

// ServeHTTP implements the test provider's http.Handler.
func (p *TestProvider) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.t.Helper()

	w.Header().Set("Content-Type", "application/json")

	switch req.URL.Path {
	case "/.well-known/openid-configuration":
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		p.discoveryHits++

		reply := struct {
			Issuer                string   `json:"issuer"`
			AuthEndpoint          string   `json:"authorization_endpoint"`
			TokenEndpoint         string   `json:"token_endpoint"`
			JWKSURI               string   `json:"jwks_uri"`
			UserinfoEndpoint      string   `json:"userinfo_endpoint"`
			ChallengeMethods      []string `json:"code_challenge_methods_supported"`
			IDTokenSigningAlgs    []string `json:"id_token_signing_alg_values_supported"`
			ResponseTypes         []string `json:"response_types_supported"`
			SubjectTypesSupported []string `json:"subject_types_supported"`
		}{
			Issuer:                p.Addr(),
			AuthEndpoint:          p.Addr() + "/auth",
			TokenEndpoint:         p.Addr() + "/token",
			JWKSURI:               p.Addr() + "/certs",
			UserinfoEndpoint:      p.Addr() + "/userinfo",
			ChallengeMethods:      []string{"S256"},
			IDTokenSigningAlgs:    []string{"ES256"},
			ResponseTypes:         []string{"code"},
			SubjectTypesSupported: []string{"public"},
		}
		_ = p.writeJSON(w, &reply)

	case "/auth":
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		qv := req.URL.Query()
		redirectURI := qv.Get("redirect_uri")
		if redirectURI == "" || qv.Get("response_type") != "code" || qv.Get("state") == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		redirectURI += "?state=" + url.QueryEscape(qv.Get("state")) +
			"&code=" + url.QueryEscape(p.expectedAuthCode)
		http.Redirect(w, req, redirectURI, http.StatusFound)

	case "/certs":
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		_ = p.writeJSON(w, p.jwks)

	case "/token":
		if req.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if p.tokenErrorStatus != 0 {
			_ = p.writeTokenErrorResponse(w, p.tokenErrorStatus, "server_error", "token endpoint disabled for test")
			return
		}
		switch {
		case req.FormValue("grant_type") != "authorization_code":
			_ = p.writeTokenErrorResponse(w, http.StatusBadRequest, "invalid_request", "bad grant_type")
			return
		case !p.clientCredsOK(req):
			_ = p.writeTokenErrorResponse(w, http.StatusUnauthorized, "invalid_client", "unexpected client credentials")
			return
		case req.FormValue("code") != p.expectedAuthCode:
			_ = p.writeTokenErrorResponse(w, http.StatusUnauthorized, "invalid_grant", "unexpected auth code")
			return
		}
		if p.expectedCodeChallenge != "" {
			sum := sha256.Sum256([]byte(req.FormValue("code_verifier")))
			if base64.RawURLEncoding.EncodeToString(sum[:]) != p.expectedCodeChallenge {
				_ = p.writeTokenErrorResponse(w, http.StatusBadRequest, "invalid_grant", "code verifier mismatch")
				return
			}
		}

		stdClaims := jwt.Claims{
			Subject:   p.replySubject,
			Issuer:    p.Addr(),
			NotBefore: jwt.NewNumericDate(time.Now().Add(-5 * time.Second)),
			Expiry:    jwt.NewNumericDate(time.Now().Add(5 * time.Minute)),
			Audience:  jwt.Audience{p.clientID},
		}
		jwtData := TestSignJWT(p.t, p.ecdsaPrivateKey, stdClaims, nil)

		reply := struct {
			AccessToken string `json:"access_token"`
			TokenType   string `json:"token_type"`
			ExpiresIn   int    `json:"expires_in"`
			IDToken     string `json:"id_token,omitempty"`
		}{
			AccessToken: TestProviderAccessToken,
			TokenType:   "Bearer",
			ExpiresIn:   300,
			IDToken:     jwtData,
		}
		if p.omitIDToken {
			reply.IDToken = ""
		}
		_ = p.writeJSON(w, &reply)

	case "/userinfo":
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if p.userinfoErrorStatus != 0 {
			w.WriteHeader(p.userinfoErrorStatus)
			_ = p.writeJSON(w, map[string]string{"error": "userinfo endpoint disabled for test"})
			return
		}
		if req.Header.Get("Authorization") != "Bearer "+TestProviderAccessToken {
			w.WriteHeader(http.StatusUnauthorized)
			_ = p.writeJSON(w, map[string]string{"error": "invalid access token"})
			return
		}
		sub := p.replySubject
		if p.userinfoSubject != "" {
			sub = p.userinfoSubject
		}
		reply := map[string]interface{}{"sub": sub}
		for k, v := range p.replyUserinfo {
			reply[k] = v
		}
		_ = p.writeJSON(w, reply)

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}
