package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestAuthorize(t *testing.T) {
	var sawVerifier bool
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "auth-code-1", r.Form.Get("code"))
		sawVerifier = r.Form.Get("code_verifier") != ""

		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "at-1",
			"refresh_token": "rt-1",
			"token_type":    "Bearer",
			"expires_in":    3600,
		}))
	}))
	defer tokenSrv.Close()

	conf := &oauth2.Config{
		ClientID: "client-id",
		Endpoint: oauth2.Endpoint{
			AuthURL:  tokenSrv.URL + "/authorize",
			TokenURL: tokenSrv.URL + "/token",
		},
		Scopes: []string{"calendar"},
	}

	token, err := Authorize(t.Context(), conf, nil, func(authURL string) {
		u, err := url.Parse(authURL)
		require.NoError(t, err)
		q := u.Query()
		assert.Equal(t, "client-id", q.Get("client_id"))
		assert.Equal(t, "S256", q.Get("code_challenge_method"))
		assert.Equal(t, redirectURL, q.Get("redirect_uri"))

		// Simulate the browser redirect back to the loopback listener.
		resp, err := http.Get(redirectURL + "?code=auth-code-1&state=" + q.Get("state"))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
	require.NoError(t, err)

	assert.Equal(t, "at-1", token.AccessToken)
	assert.Equal(t, "rt-1", token.RefreshToken)
	assert.True(t, sawVerifier)
}

func TestAuthorizeRejectsBadState(t *testing.T) {
	conf := &oauth2.Config{
		ClientID: "client-id",
		Endpoint: oauth2.Endpoint{AuthURL: "http://example.invalid/auth", TokenURL: "http://example.invalid/token"},
	}

	_, err := Authorize(t.Context(), conf, nil, func(authURL string) {
		resp, err := http.Get(redirectURL + "?code=auth-code-1&state=wrong")
		require.NoError(t, err)
		resp.Body.Close()
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "state mismatch")
}

func TestAuthorizeSurfacesDenial(t *testing.T) {
	conf := &oauth2.Config{
		ClientID: "client-id",
		Endpoint: oauth2.Endpoint{AuthURL: "http://example.invalid/auth", TokenURL: "http://example.invalid/token"},
	}

	_, err := Authorize(t.Context(), conf, nil, func(authURL string) {
		u, perr := url.Parse(authURL)
		require.NoError(t, perr)
		resp, gerr := http.Get(redirectURL + "?error=access_denied&state=" + u.Query().Get("state"))
		require.NoError(t, gerr)
		resp.Body.Close()
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access_denied")
}
