package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

// listenAddr is the fixed loopback address registered as the OAuth
// redirect URI with both platforms.
const listenAddr = "127.0.0.1:3003"

// redirectURL must match the redirect URI registered for the OAuth
// client.
const redirectURL = "http://" + listenAddr + "/callback"

// callbackTimeout bounds how long Authorize waits for the browser
// redirect.
const callbackTimeout = 5 * time.Minute

type callbackResult struct {
	code string
	err  error
}

// Authorize runs the interactive authorization code flow with PKCE and
// returns the granted token. The authURL is handed to prompt, which is
// expected to show it to the user (or open a browser); the flow then
// blocks until the loopback listener catches the redirect, the timeout
// elapses, or ctx is cancelled.
func Authorize(ctx context.Context, conf *oauth2.Config, logger *slog.Logger, prompt func(authURL string)) (*oauth2.Token, error) {
	if logger == nil {
		logger = slog.Default()
	}

	// The listener must be up before the user can follow the URL.
	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s (is another avail login running?): %w", listenAddr, err)
	}

	cfg := *conf
	cfg.RedirectURL = redirectURL

	verifier := oauth2.GenerateVerifier()
	state, err := randomState()
	if err != nil {
		listener.Close()
		return nil, err
	}

	authURL := cfg.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
		oauth2.S256ChallengeOption(verifier),
	)

	results := make(chan callbackResult, 1)
	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if errCode := q.Get("error"); errCode != "" {
			http.Error(w, "Authorization failed. You can close this window.", http.StatusBadRequest)
			results <- callbackResult{err: fmt.Errorf("authorization denied: %s", errCode)}
			return
		}
		if q.Get("state") != state {
			http.Error(w, "State mismatch. You can close this window.", http.StatusBadRequest)
			results <- callbackResult{err: fmt.Errorf("state mismatch in OAuth callback")}
			return
		}
		fmt.Fprintln(w, "Account linked. You can close this window and return to the terminal.")
		results <- callbackResult{code: q.Get("code")}
	})

	srv := &http.Server{Handler: mux}
	go func() {
		if err := srv.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.Debug("callback server stopped", slog.String("error", err.Error()))
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	prompt(authURL)

	var code string
	select {
	case res := <-results:
		if res.err != nil {
			return nil, res.err
		}
		code = res.code
	case <-time.After(callbackTimeout):
		return nil, fmt.Errorf("timed out waiting for authorization")
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	token, err := cfg.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	if token.RefreshToken == "" {
		return nil, fmt.Errorf("authorization granted no refresh token")
	}
	return token, nil
}

func randomState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
