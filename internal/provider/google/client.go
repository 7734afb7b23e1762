package google

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/oauth2"
	googleauth "golang.org/x/oauth2/google"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/avail-cli/avail/internal/avail"
	"github.com/avail-cli/avail/internal/provider"
)

// Client implements provider.Provider for Google Calendar.
type Client struct {
	conf   *oauth2.Config
	logger *slog.Logger
}

// New creates a Google Calendar provider with the given OAuth client
// credentials.
func New(clientID, clientSecret string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     googleauth.Endpoint,
			Scopes: []string{
				calendar.CalendarScope,
				calendar.CalendarEventsReadonlyScope,
			},
		},
		logger: logger,
	}
}

// Name implements provider.Provider.
func (c *Client) Name() string { return provider.PlatformGoogle }

// Concurrency implements provider.Provider. Google has no request ceiling.
func (c *Client) Concurrency() int { return 0 }

// OAuthConfig exposes the OAuth2 configuration for the authorize flow.
func (c *Client) OAuthConfig() *oauth2.Config { return c.conf }

// RefreshToken implements provider.Provider.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	src := c.conf.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	token, err := src.Token()
	if err != nil {
		return "", fmt.Errorf("failed to refresh Google access token: %w", err)
	}
	return token.AccessToken, nil
}

// service builds a Calendar service authenticated with the access token.
func (c *Client) service(ctx context.Context, token string) (*calendar.Service, error) {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	svc, err := calendar.NewService(ctx, option.WithTokenSource(src))
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}
	return svc, nil
}

// ListCalendars implements provider.Provider.
func (c *Client) ListCalendars(ctx context.Context, token string) ([]provider.Calendar, error) {
	svc, err := c.service(ctx, token)
	if err != nil {
		return nil, err
	}

	list, err := svc.CalendarList.List().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list calendars: %w", err)
	}

	var calendars []provider.Calendar
	for _, entry := range list.Items {
		calendars = append(calendars, provider.Calendar{
			ID:      entry.Id,
			Name:    entry.Summary,
			CanEdit: entry.AccessRole == "owner" || entry.AccessRole == "writer",
		})
	}
	return calendars, nil
}

// FetchEvents implements provider.Provider.
func (c *Client) FetchEvents(ctx context.Context, token, calendarID string, window avail.Window) ([]avail.Event, error) {
	svc, err := c.service(ctx, token)
	if err != nil {
		return nil, err
	}

	resp, err := svc.Events.List(calendarID).
		TimeMin(window.Start.Format(time.RFC3339)).
		TimeMax(window.End.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list events for calendar %s: %w", calendarID, err)
	}

	loc := window.Start.Location()
	events := make([]avail.Event, 0, len(resp.Items))
	for _, item := range resp.Items {
		ev, err := toEvent(item, loc)
		if err != nil {
			return nil, fmt.Errorf("failed to parse event in calendar %s: %w", calendarID, err)
		}
		events = append(events, ev)
	}
	return events, nil
}

// CreateEvent implements provider.Provider.
func (c *Client) CreateEvent(ctx context.Context, token, calendarID, title string, start, end time.Time) error {
	svc, err := c.service(ctx, token)
	if err != nil {
		return err
	}

	event := &calendar.Event{
		Summary: title,
		Start: &calendar.EventDateTime{
			DateTime: start.Format(time.RFC3339),
			TimeZone: start.Location().String(),
		},
		End: &calendar.EventDateTime{
			DateTime: end.Format(time.RFC3339),
			TimeZone: end.Location().String(),
		},
	}

	created, err := svc.Events.Insert(calendarID, event).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to create event in calendar %s: %w", calendarID, err)
	}
	c.logger.Debug("created hold event", slog.String("event_id", created.Id))
	return nil
}

// toEvent converts one Google Calendar event into the normalized form.
// All-day events carry a Date instead of a DateTime and block the whole
// date, anchored in the search window's zone.
func toEvent(item *calendar.Event, loc *time.Location) (avail.Event, error) {
	start, err := parseEventTime(item.Start, loc)
	if err != nil {
		return avail.Event{}, fmt.Errorf("event %s start: %w", item.Id, err)
	}
	end, err := parseEventTime(item.End, loc)
	if err != nil {
		return avail.Event{}, fmt.Errorf("event %s end: %w", item.Id, err)
	}
	return avail.NewEvent(item.Id, item.Summary, start, end)
}

func parseEventTime(edt *calendar.EventDateTime, loc *time.Location) (time.Time, error) {
	if edt == nil {
		return time.Time{}, fmt.Errorf("missing time")
	}
	if edt.DateTime != "" {
		return time.Parse(time.RFC3339, edt.DateTime)
	}
	if edt.Date != "" {
		return time.ParseInLocation("2006-01-02", edt.Date, loc)
	}
	return time.Time{}, fmt.Errorf("neither dateTime nor date set")
}
