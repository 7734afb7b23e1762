// Package config loads CLI configuration from the user's config file and
// environment.
//
// Configuration lives at <user config dir>/avail/config.yaml and every key
// can be overridden with an AVAIL_-prefixed environment variable, e.g.
// AVAIL_GOOGLE_CLIENT_ID. OAuth client credentials are required before an
// account of that platform can be linked; search defaults are optional and
// fall back to sensible values.
package config
