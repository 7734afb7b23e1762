// Package auth handles OAuth2 authorization and refresh-token storage.
//
// Linking an account runs the authorization code flow with PKCE against
// the platform's endpoint, catching the redirect on a loopback listener.
// Only the refresh token is persisted, one file per account with owner-only
// permissions; access tokens are short-lived and re-derived on every run.
package auth
