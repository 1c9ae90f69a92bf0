// Package calendly is the outbound client for the Calendly API v2. It covers
// the three read endpoints the sync needs (users/me, scheduled_events,
// invitees) with token-based pagination. Failures are never retried here;
// callers decide what is fatal.
package calendly

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"calendly-lead-sync/internal/domain/booking"
	"calendly-lead-sync/internal/pkg/config"
	"calendly-lead-sync/internal/pkg/errs"
)

// pageSize is the provider's maximum page size; both listings request it.
const pageSize = 100

// User is the resource returned by /users/me.
type User struct {
	URI                 string `json:"uri"`
	Name                string `json:"name"`
	Email               string `json:"email"`
	CurrentOrganization string `json:"current_organization"`
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(cfg config.CalendlyConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		token:   cfg.APIToken,
		http:    &http.Client{Timeout: cfg.HTTPTimeout},
	}
}

// CurrentUser resolves the authenticated user. It is called once at startup;
// the returned URI is passed explicitly to ListScheduledEvents instead of
// being memoized inside the client.
func (c *Client) CurrentUser(ctx context.Context) (User, error) {
	var out struct {
		Resource User `json:"resource"`
	}
	if err := c.get(ctx, "/users/me", nil, &out); err != nil {
		return User{}, errs.Mark(err, errs.ErrCurrentUserResolve)
	}
	return out.Resource, nil
}

// ListScheduledEvents returns all events for the user within the window,
// following next_page_token until the provider stops returning one.
func (c *Client) ListScheduledEvents(ctx context.Context, userURI string, minStart, maxStart time.Time, status string) ([]booking.ScheduledEvent, error) {
	params := url.Values{}
	params.Set("user", userURI)
	params.Set("status", status)
	params.Set("count", fmt.Sprint(pageSize))
	if !minStart.IsZero() {
		params.Set("min_start_time", minStart.Format(time.RFC3339))
	}
	if !maxStart.IsZero() {
		params.Set("max_start_time", maxStart.Format(time.RFC3339))
	}

	var all []booking.ScheduledEvent
	for {
		var page struct {
			Collection []booking.ScheduledEvent `json:"collection"`
			Pagination pagination               `json:"pagination"`
		}
		if err := c.get(ctx, "/scheduled_events", params, &page); err != nil {
			return nil, err
		}
		all = append(all, page.Collection...)

		if page.Pagination.NextPageToken == "" {
			return all, nil
		}
		params.Set("page_token", page.Pagination.NextPageToken)
	}
}

// ListInvitees returns all invitees of one scheduled event, paginated the
// same way as ListScheduledEvents.
func (c *Client) ListInvitees(ctx context.Context, eventURI string) ([]booking.Invitee, error) {
	endpoint := "/scheduled_events/" + booking.EventUUIDFromURI(eventURI) + "/invitees"

	params := url.Values{}
	params.Set("count", fmt.Sprint(pageSize))

	var all []booking.Invitee
	for {
		var page struct {
			Collection []booking.Invitee `json:"collection"`
			Pagination pagination        `json:"pagination"`
		}
		if err := c.get(ctx, endpoint, params, &page); err != nil {
			return nil, err
		}
		all = append(all, page.Collection...)

		if page.Pagination.NextPageToken == "" {
			return all, nil
		}
		params.Set("page_token", page.Pagination.NextPageToken)
	}
}

type pagination struct {
	NextPageToken string `json:"next_page_token"`
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	u := c.baseURL + endpoint
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return errs.Wrap(err, "failed to build calendly request")
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return errs.Mark(errs.Wrap(err, "calendly request failed"), errs.ErrCalendlyTransport)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return errs.Mark(
			errs.New(fmt.Sprintf("calendly %s returned %d: %s", endpoint, resp.StatusCode, body)),
			errs.ErrCalendlyTransport,
		)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errs.Mark(errs.Wrap(err, "failed to decode calendly response"), errs.ErrCalendlyUnexpected)
	}
	return nil
}
