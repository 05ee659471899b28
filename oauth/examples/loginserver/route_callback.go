// Copyright (c) Voyage Auth, Inc.
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hashicorp/go-hclog"

	"github.com/voyage-auth/voyage/oauth"
)

func CallbackHandler(flow *oauth.Flow, logger hclog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// attempt cookies are single-use
		defer clearAttemptCookies(w)

		sealed, err := r.Cookie(stateCookie)
		if err != nil {
			http.Error(w, "login attempt expired, start again at /login", http.StatusBadRequest)
			return
		}
		verifier, err := r.Cookie(verifierCookie)
		if err != nil {
			http.Error(w, "login attempt expired, start again at /login", http.StatusBadRequest)
			return
		}

		res, err := flow.Callback(r.Context(), "oidc", oauth.CallbackRequest{
			URL:          r.URL.String(),
			SealedState:  sealed.Value,
			CodeVerifier: verifier.Value,
		})
		if err != nil {
			logger.Error("callback failed", "error", err)
			switch {
			case errors.Is(err, oauth.ErrInvalidSealedState),
				errors.Is(err, oauth.ErrStateMismatch):
				http.Error(w, "login attempt is invalid, start again at /login", http.StatusBadRequest)
			default:
				http.Error(w, "login failed", http.StatusBadGateway)
			}
			return
		}

		logger.Info("login completed", "sub", res.User["sub"], "next", res.Data["next"])
		w.Header().Set("Content-Type", "application/json")
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		_ = enc.Encode(res.User)
	}
}

func clearAttemptCookies(w http.ResponseWriter) {
	for _, name := range []string{stateCookie, verifierCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/callback",
			MaxAge:   -1,
			HttpOnly: true,
		})
	}
}
