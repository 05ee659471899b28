// Copyright (c) Voyage Auth, Inc.
// SPDX-License-Identifier: MPL-2.0

// loginserver is a small relying party that logs a user in with any
// OIDC-conformant provider and prints the resulting profile. The sealed
// state and PKCE verifier travel in short-lived cookies, so the server
// itself keeps no per-login state.
package main

import (
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"

	"github.com/hashicorp/go-hclog"

	"github.com/voyage-auth/voyage/oauth"
	"github.com/voyage-auth/voyage/oauth/providers"
)

// List of required configuration environment variables
const (
	clientID     = "OAUTH_CLIENT_ID"
	clientSecret = "OAUTH_CLIENT_SECRET"
	issuer       = "OAUTH_ISSUER"
	port         = "OAUTH_PORT"
	flowSecret   = "OAUTH_FLOW_SECRET"
)

func envConfig() (map[string]string, error) {
	env := map[string]string{
		clientID:     os.Getenv(clientID),
		clientSecret: os.Getenv(clientSecret),
		issuer:       os.Getenv(issuer),
		port:         os.Getenv(port),
		flowSecret:   os.Getenv(flowSecret),
	}
	for k, v := range env {
		if v == "" {
			return nil, fmt.Errorf("%s is empty", k)
		}
	}
	return env, nil
}

func main() {
	env, err := envConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}

	logger := hclog.New(&hclog.LoggerOptions{
		Name:  "loginserver",
		Level: hclog.Debug,
	})

	sigintCh := make(chan os.Signal, 1)
	signal.Notify(sigintCh, os.Interrupt)
	defer signal.Stop(sigintCh)

	redirectURL := fmt.Sprintf("http://localhost:%s/callback", env[port])

	p, err := providers.NewOIDC("oidc", env[issuer], oauth.ClientConfig{
		ClientID:     env[clientID],
		ClientSecret: oauth.ClientSecret(env[clientSecret]),
		RedirectURL:  redirectURL,
	}, providers.WithDefaultScopes("openid", "profile", "email"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}

	flow, err := oauth.NewFlow(env[flowSecret], []oauth.Provider{p}, oauth.WithLogger(logger))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}

	http.HandleFunc("/login", LoginHandler(flow, logger))
	http.HandleFunc("/callback", CallbackHandler(flow, logger))

	listener, err := net.Listen("tcp", fmt.Sprintf("localhost:%s", env[port]))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	defer listener.Close()
	logger.Info("listening", "addr", listener.Addr().String())
	logger.Info(fmt.Sprintf("open http://localhost:%s/login to start", env[port]))

	srvCh := make(chan error)
	go func() {
		err := http.Serve(listener, nil)
		if err != nil && err != http.ErrServerClosed {
			srvCh <- err
		}
	}()

	select {
	case err := <-srvCh:
		logger.Error("server closed", "error", err)
	case <-sigintCh:
		logger.Info("interrupted")
	}
}
