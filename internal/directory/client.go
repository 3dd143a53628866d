package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// AccessTokenHeader carries the channel credential on every directory call.
const AccessTokenHeader = "access-token"

var ErrorIncompleteProfile = errors.New("incomplete user profile")

// Profile is a validated directory record. Responses missing any field
// never produce one.
type Profile struct {
	ID      string
	Name    string
	IsAdmin bool
}

// profileResponse is the raw wire shape; pointers distinguish absent
// fields from zero values.
type profileResponse struct {
	ID      *string `json:"id"`
	Name    *string `json:"name"`
	IsAdmin *bool   `json:"isAdmin"`
}

// StatusError reports a reachable directory answering with a non-2xx
// status, as opposed to a transport failure.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("directory responded with status %d", e.Code)
}

type client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a directory client for the given service root. No request
// timeout is set: the caller owns the lifetime of each resolution
// attempt through its context.
func New(baseURL string) *client {
	return &client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{},
	}
}

// Resolve looks up userID through the given channel's credential and
// returns a validated profile.
func (c *client) Resolve(ctx context.Context, userID string, channelID string) (*Profile, error) {
	endpoint := fmt.Sprintf("%s/users/%s", c.baseURL, url.PathEscape(userID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating directory request: %w", err)
	}
	req.Header.Set(AccessTokenHeader, channelID)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling directory service: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return nil, &StatusError{Code: res.StatusCode}
	}

	raw := profileResponse{}
	if err := json.NewDecoder(res.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding directory response: %w", err)
	}
	if raw.ID == nil || *raw.ID == "" || raw.Name == nil || *raw.Name == "" || raw.IsAdmin == nil {
		return nil, ErrorIncompleteProfile
	}

	return &Profile{
		ID:      *raw.ID,
		Name:    *raw.Name,
		IsAdmin: *raw.IsAdmin,
	}, nil
}
