package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/avail-cli/avail/internal/avail"
)

// Platform identifiers, stored with each linked account.
const (
	PlatformGoogle    = "google"
	PlatformMicrosoft = "microsoft"
)

// Platforms lists the supported platforms in presentation order.
var Platforms = []string{PlatformGoogle, PlatformMicrosoft}

// PlatformDisplayName returns the user-facing name of a platform.
func PlatformDisplayName(platform string) string {
	switch platform {
	case PlatformGoogle:
		return "Google Calendar"
	case PlatformMicrosoft:
		return "Microsoft Outlook"
	default:
		return platform
	}
}

// Calendar is a provider-side calendar as listed for an account. Selection
// flags are decided locally and persisted by the store, not by the
// provider.
type Calendar struct {
	ID      string
	Name    string
	CanEdit bool
}

// Provider is the capability a platform exposes to the rest of the
// application. Implementations are stateless beyond their OAuth client
// configuration; tokens are passed per call.
type Provider interface {
	// Name returns the platform identifier ("google", "microsoft").
	Name() string

	// Concurrency returns the platform's hard ceiling on simultaneous
	// in-flight requests, or 0 when the platform imposes none.
	Concurrency() int

	// RefreshToken exchanges a stored refresh token for an access token.
	RefreshToken(ctx context.Context, refreshToken string) (string, error)

	// ListCalendars lists the calendars visible to the token's account.
	ListCalendars(ctx context.Context, token string) ([]Calendar, error)

	// FetchEvents returns the busy events of one calendar within the
	// half-open window.
	FetchEvents(ctx context.Context, token, calendarID string, window avail.Window) ([]avail.Event, error)

	// CreateEvent writes a hold event to the calendar.
	CreateEvent(ctx context.Context, token, calendarID, title string, start, end time.Time) error
}

// Registry resolves platform identifiers to Provider implementations.
type Registry map[string]Provider

// Lookup returns the provider for a platform identifier.
func (r Registry) Lookup(platform string) (Provider, error) {
	p, ok := r[platform]
	if !ok {
		return nil, fmt.Errorf("unsupported platform %q", platform)
	}
	return p, nil
}
