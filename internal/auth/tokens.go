package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoToken is returned when no refresh token is stored for an account.
var ErrNoToken = errors.New("no stored token")

// TokenStore persists refresh tokens as one file per account.
type TokenStore struct {
	dir string
}

// NewTokenStore creates a store rooted at dir.
func NewTokenStore(dir string) *TokenStore {
	return &TokenStore{dir: dir}
}

// DefaultTokenDir returns the per-user token directory.
func DefaultTokenDir() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve user config dir: %w", err)
	}
	return filepath.Join(cfg, "avail", "tokens"), nil
}

func (s *TokenStore) path(account string) (string, error) {
	if account == "" || strings.ContainsAny(account, `/\`) || account != filepath.Base(account) {
		return "", fmt.Errorf("invalid account name %q", account)
	}
	return filepath.Join(s.dir, account+".token"), nil
}

// Save writes the refresh token for an account with owner-only
// permissions.
func (s *TokenStore) Save(account, refreshToken string) error {
	p, err := s.path(account)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	if err := os.WriteFile(p, []byte(refreshToken), 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// Load reads the refresh token for an account.
func (s *TokenStore) Load(account string) (string, error) {
	p, err := s.path(account)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("%w for account %q", ErrNoToken, account)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read token file: %w", err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", fmt.Errorf("%w for account %q", ErrNoToken, account)
	}
	return token, nil
}

// Delete removes the stored token for an account. Deleting a missing
// token is not an error.
func (s *TokenStore) Delete(account string) error {
	p, err := s.path(account)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove token file: %w", err)
	}
	return nil
}
