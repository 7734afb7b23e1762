package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// OAuthClient holds the OAuth application credentials for one platform.
type OAuthClient struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
}

// Configured reports whether credentials are present.
func (c OAuthClient) Configured() bool {
	return c.ClientID != ""
}

// Defaults are the search parameters applied when a flag is not given.
type Defaults struct {
	Min             string `mapstructure:"min"`
	Max             string `mapstructure:"max"`
	Duration        string `mapstructure:"duration"`
	Window          string `mapstructure:"window"`
	Timezone        string `mapstructure:"timezone"`
	IncludeWeekends bool   `mapstructure:"include_weekends"`
}

// Config is the full CLI configuration.
type Config struct {
	Google    OAuthClient `mapstructure:"google"`
	Microsoft OAuthClient `mapstructure:"microsoft"`
	Defaults  Defaults    `mapstructure:"defaults"`
	Metrics   bool        `mapstructure:"metrics"`
	Verbose   bool        `mapstructure:"verbose"`
}

// DefaultDir returns the per-user configuration directory.
func DefaultDir() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve user config dir: %w", err)
	}
	return filepath.Join(cfg, "avail"), nil
}

// DatabasePath returns the account cache location inside dir.
func DatabasePath(dir string) string {
	return filepath.Join(dir, "avail.db")
}

// Load reads config.yaml from dir, applying environment overrides and
// defaults. A missing file is not an error; everything then comes from
// defaults and the environment.
func Load(dir string) (Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	v.SetEnvPrefix("AVAIL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults double as env-var bindings; AutomaticEnv only resolves
	// keys viper already knows about.
	v.SetDefault("google.client_id", "")
	v.SetDefault("google.client_secret", "")
	v.SetDefault("microsoft.client_id", "")
	v.SetDefault("microsoft.client_secret", "")
	v.SetDefault("defaults.min", "9:00am")
	v.SetDefault("defaults.max", "5:00pm")
	v.SetDefault("defaults.duration", "30m")
	v.SetDefault("defaults.window", "1w")
	v.SetDefault("defaults.timezone", "")
	v.SetDefault("defaults.include_weekends", false)
	v.SetDefault("metrics", false)
	v.SetDefault("verbose", false)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
