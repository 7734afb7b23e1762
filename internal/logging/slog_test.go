package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrNilSafe(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	logger.Info("operation complete", Err(nil))
	assert.NotContains(t, buf.String(), "error=")

	buf.Reset()
	logger.Info("operation failed", Err(errors.New("boom")))
	assert.Contains(t, buf.String(), "error=boom")
}

func TestWithProviderAndAccount(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	l := WithAccount(WithProvider(logger, "google"), "alice@example.com")
	l.Info("fetched events", Calendar("primary"))

	line := buf.String()
	assert.Contains(t, line, "provider=google")
	assert.Contains(t, line, "account=alice@example.com")
	assert.Contains(t, line, "calendar=primary")
}

func TestNewVerboseLevels(t *testing.T) {
	// Debug must be discarded at the default level and kept when verbose.
	assert.False(t, New(false).Enabled(t.Context(), slog.LevelDebug))
	assert.True(t, New(true).Enabled(t.Context(), slog.LevelDebug))
}
