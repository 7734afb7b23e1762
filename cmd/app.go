package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/avail-cli/avail/internal/auth"
	"github.com/avail-cli/avail/internal/config"
	"github.com/avail-cli/avail/internal/instrumentation"
	"github.com/avail-cli/avail/internal/logging"
	"github.com/avail-cli/avail/internal/provider"
	"github.com/avail-cli/avail/internal/provider/google"
	"github.com/avail-cli/avail/internal/provider/microsoft"
	"github.com/avail-cli/avail/internal/store"
)

// app bundles the shared dependencies of every subcommand.
type app struct {
	cfg       config.Config
	logger    *slog.Logger
	db        *store.Store
	tokens    *auth.TokenStore
	registry  provider.Registry
	telemetry *instrumentation.Provider
	prompt    *prompter
}

// newApp loads configuration and opens the local state. Callers must
// Close the returned app.
func newApp(ctx context.Context) (*app, error) {
	dir := configDir
	if dir == "" {
		var err error
		dir, err = config.DefaultDir()
		if err != nil {
			return nil, err
		}
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, err
	}

	logger := logging.New(cfg.Verbose || verbose)

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}
	db, err := store.New(config.DatabasePath(dir))
	if err != nil {
		return nil, fmt.Errorf("failed to open account cache: %w", err)
	}

	tokenDir, err := auth.DefaultTokenDir()
	if err != nil {
		db.Close()
		return nil, err
	}

	telemetry, err := instrumentation.NewProvider(ctx, instrumentation.Config{
		Enabled:        cfg.Metrics,
		ServiceName:    "avail",
		ServiceVersion: version,
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &app{
		cfg:    cfg,
		logger: logger,
		db:     db,
		tokens: auth.NewTokenStore(tokenDir),
		registry: provider.Registry{
			provider.PlatformGoogle:    google.New(cfg.Google.ClientID, cfg.Google.ClientSecret, logger),
			provider.PlatformMicrosoft: microsoft.New(cfg.Microsoft.ClientID, cfg.Microsoft.ClientSecret, logger),
		},
		telemetry: telemetry,
		prompt:    newPrompter(os.Stdin, os.Stderr),
	}, nil
}

// Close flushes telemetry and releases the local database.
func (a *app) Close(ctx context.Context) {
	if err := a.telemetry.Shutdown(ctx); err != nil {
		a.logger.Warn("failed to flush telemetry", logging.Err(err))
	}
	if err := a.db.Close(); err != nil {
		a.logger.Warn("failed to close account cache", logging.Err(err))
	}
}

// credentialed ensures the platform's OAuth client is configured before
// any network flow starts.
func (a *app) credentialed(platform string) error {
	var c config.OAuthClient
	switch platform {
	case provider.PlatformGoogle:
		c = a.cfg.Google
	case provider.PlatformMicrosoft:
		c = a.cfg.Microsoft
	default:
		return fmt.Errorf("unsupported platform %q", platform)
	}
	if !c.Configured() {
		return fmt.Errorf("no OAuth client configured for %s; set %s.client_id in the config file or AVAIL_%s_CLIENT_ID",
			provider.PlatformDisplayName(platform), platform, upperPlatform(platform))
	}
	return nil
}

func upperPlatform(platform string) string {
	switch platform {
	case provider.PlatformGoogle:
		return "GOOGLE"
	case provider.PlatformMicrosoft:
		return "MICROSOFT"
	}
	return platform
}
