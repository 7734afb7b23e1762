package microsoft

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"
	msendpoints "golang.org/x/oauth2/microsoft"

	"github.com/avail-cli/avail/internal/avail"
	"github.com/avail-cli/avail/internal/provider"
)

const graphBaseURL = "https://graph.microsoft.com/v1.0"

// graphConcurrencyLimit is Microsoft Graph's ceiling on simultaneous
// requests against one mailbox.
const graphConcurrencyLimit = 4

// Client implements provider.Provider for Microsoft Outlook via the Graph
// REST API.
type Client struct {
	conf       *oauth2.Config
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// New creates a Microsoft Graph provider with the given OAuth client
// credentials.
func New(clientID, clientSecret string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     msendpoints.AzureADEndpoint("common"),
			Scopes: []string{
				"https://graph.microsoft.com/Calendars.ReadWrite",
				"https://graph.microsoft.com/User.Read",
				"offline_access",
			},
		},
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    graphBaseURL,
		logger:     logger,
	}
}

// Name implements provider.Provider.
func (c *Client) Name() string { return provider.PlatformMicrosoft }

// Concurrency implements provider.Provider.
func (c *Client) Concurrency() int { return graphConcurrencyLimit }

// OAuthConfig exposes the OAuth2 configuration for the authorize flow.
func (c *Client) OAuthConfig() *oauth2.Config { return c.conf }

// RefreshToken implements provider.Provider.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	src := c.conf.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	token, err := src.Token()
	if err != nil {
		return "", fmt.Errorf("failed to refresh Microsoft access token: %w", err)
	}
	return token.AccessToken, nil
}

// graphResponse is the Graph collection envelope.
type graphResponse[T any] struct {
	Value []T       `json:"value"`
	Error *graphErr `json:"error"`
}

type graphErr struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type graphCalendar struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	CanEdit bool   `json:"canEdit"`
}

type graphDateTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

type graphEvent struct {
	ID      string        `json:"id"`
	Subject string        `json:"subject"`
	Start   graphDateTime `json:"start"`
	End     graphDateTime `json:"end"`
}

// ListCalendars implements provider.Provider.
func (c *Client) ListCalendars(ctx context.Context, token string) ([]provider.Calendar, error) {
	var resp graphResponse[graphCalendar]
	if err := c.do(ctx, token, http.MethodGet, c.baseURL+"/me/calendars", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("graph: %s: %s", resp.Error.Code, resp.Error.Message)
	}

	var calendars []provider.Calendar
	for _, cal := range resp.Value {
		calendars = append(calendars, provider.Calendar{
			ID:      cal.ID,
			Name:    cal.Name,
			CanEdit: cal.CanEdit,
		})
	}
	return calendars, nil
}

// FetchEvents implements provider.Provider.
func (c *Client) FetchEvents(ctx context.Context, token, calendarID string, window avail.Window) ([]avail.Event, error) {
	q := url.Values{}
	q.Set("startDateTime", window.Start.Format(time.RFC3339))
	q.Set("endDateTime", window.End.Format(time.RFC3339))
	u := fmt.Sprintf("%s/me/calendars/%s/calendarView?%s",
		c.baseURL, url.PathEscape(calendarID), q.Encode())

	var resp graphResponse[graphEvent]
	if err := c.do(ctx, token, http.MethodGet, u, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("graph: %s: %s", resp.Error.Code, resp.Error.Message)
	}

	events := make([]avail.Event, 0, len(resp.Value))
	for _, ge := range resp.Value {
		ev, err := toEvent(ge)
		if err != nil {
			return nil, fmt.Errorf("failed to parse event in calendar %s: %w", calendarID, err)
		}
		events = append(events, ev)
	}
	return events, nil
}

type createEventBody struct {
	Subject string        `json:"subject"`
	Start   graphDateTime `json:"start"`
	End     graphDateTime `json:"end"`
}

// CreateEvent implements provider.Provider.
func (c *Client) CreateEvent(ctx context.Context, token, calendarID, title string, start, end time.Time) error {
	body := createEventBody{
		Subject: title,
		Start: graphDateTime{
			DateTime: start.Format(time.RFC3339),
			TimeZone: start.Location().String(),
		},
		End: graphDateTime{
			DateTime: end.Format(time.RFC3339),
			TimeZone: end.Location().String(),
		},
	}

	u := fmt.Sprintf("%s/me/calendars/%s/events", c.baseURL, url.PathEscape(calendarID))
	var resp struct {
		ID    string    `json:"id"`
		Error *graphErr `json:"error"`
	}
	if err := c.do(ctx, token, http.MethodPost, u, body, &resp); err != nil {
		return err
	}
	if resp.Error != nil {
		return fmt.Errorf("graph: %s: %s", resp.Error.Code, resp.Error.Message)
	}
	c.logger.Debug("created hold event", slog.String("event_id", resp.ID))
	return nil
}

// do issues one Graph request and decodes the JSON response into out.
func (c *Client) do(ctx context.Context, token, method, url string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	// Ask Graph to render event times in UTC so parsing needs no zone table.
	req.Header.Set("Prefer", `outlook.timezone="UTC"`)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("graph request failed: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read graph response: %w", err)
	}
	if resp.StatusCode >= 300 {
		// Prefer the Graph error envelope when the body carries one.
		var envelope struct {
			Error *graphErr `json:"error"`
		}
		if jsonErr := json.Unmarshal(payload, &envelope); jsonErr == nil && envelope.Error != nil {
			return fmt.Errorf("graph: %s: %s", envelope.Error.Code, envelope.Error.Message)
		}
		return fmt.Errorf("graph request failed: %s", resp.Status)
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("failed to decode graph response: %w", err)
	}
	return nil
}

// graphTimeLayout covers Graph's fractional-second timestamps without a
// zone suffix, e.g. "2022-10-22T20:30:00.0000000".
const graphTimeLayout = "2006-01-02T15:04:05"

func toEvent(ge graphEvent) (avail.Event, error) {
	start, err := parseGraphTime(ge.Start)
	if err != nil {
		return avail.Event{}, fmt.Errorf("event %s start: %w", ge.ID, err)
	}
	end, err := parseGraphTime(ge.End)
	if err != nil {
		return avail.Event{}, fmt.Errorf("event %s end: %w", ge.ID, err)
	}
	return avail.NewEvent(ge.ID, ge.Subject, start, end)
}

// parseGraphTime reads a Graph dateTime/timeZone pair. Responses are
// requested in UTC via the Prefer header, so anything else is rejected.
func parseGraphTime(g graphDateTime) (time.Time, error) {
	if g.DateTime == "" {
		return time.Time{}, fmt.Errorf("missing dateTime")
	}
	if g.TimeZone != "" && g.TimeZone != "UTC" {
		return time.Time{}, fmt.Errorf("unexpected time zone %q", g.TimeZone)
	}
	t, err := time.ParseInLocation(graphTimeLayout, g.DateTime, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid dateTime %q: %w", g.DateTime, err)
	}
	return t, nil
}
