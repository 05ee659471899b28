// Copyright (c) Voyage Auth, Inc.
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"net/http"

	"github.com/hashicorp/go-hclog"

	"github.com/voyage-auth/voyage/oauth"
)

// cookie names carrying a login attempt across the provider redirect
const (
	stateCookie    = "voyage_sealed_state"
	verifierCookie = "voyage_code_verifier"
)

// attemptMaxAge bounds how long a login attempt's cookies live.
const attemptMaxAge = 300 // seconds

func LoginHandler(flow *oauth.Flow, logger hclog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		auth, err := flow.Authorize(r.Context(), "oidc", map[string]string{
			"next": r.URL.Query().Get("next"),
		})
		if err != nil {
			logger.Error("authorize failed", "error", err)
			http.Error(w, "unable to start login", http.StatusInternalServerError)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     stateCookie,
			Value:    auth.SealedState,
			Path:     "/callback",
			MaxAge:   attemptMaxAge,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		http.SetCookie(w, &http.Cookie{
			Name:     verifierCookie,
			Value:    auth.CodeVerifier,
			Path:     "/callback",
			MaxAge:   attemptMaxAge,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		http.Redirect(w, r, auth.URL, http.StatusFound)
	}
}
