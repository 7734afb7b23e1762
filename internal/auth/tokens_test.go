package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenStoreRoundTrip(t *testing.T) {
	s := NewTokenStore(t.TempDir())

	require.NoError(t, s.Save("work", "refresh-abc"))

	got, err := s.Load("work")
	require.NoError(t, err)
	assert.Equal(t, "refresh-abc", got)
}

func TestTokenStoreLoadMissing(t *testing.T) {
	s := NewTokenStore(t.TempDir())

	_, err := s.Load("ghost")
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestTokenStoreDelete(t *testing.T) {
	s := NewTokenStore(t.TempDir())

	require.NoError(t, s.Save("work", "refresh-abc"))
	require.NoError(t, s.Delete("work"))

	_, err := s.Load("work")
	assert.ErrorIs(t, err, ErrNoToken)

	// Deleting again is fine.
	assert.NoError(t, s.Delete("work"))
}

func TestTokenStoreRejectsPathyAccountNames(t *testing.T) {
	s := NewTokenStore(t.TempDir())

	assert.Error(t, s.Save("", "tok"))
	assert.Error(t, s.Save("../escape", "tok"))
	assert.Error(t, s.Save("a/b", "tok"))

	_, err := s.Load("..")
	assert.Error(t, err)
}
