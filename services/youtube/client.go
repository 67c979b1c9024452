// Package youtube looks up trailer durations through the YouTube Data API.
package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultBaseURL = "https://www.googleapis.com/youtube/v3"

var (
	// ErrNotConfigured is returned when no API key is set.
	ErrNotConfigured = errors.New("youtube api key not configured")
	// ErrVideoNotFound is returned when the API knows no video with the id.
	ErrVideoNotFound = errors.New("youtube video not found")
)

type Client struct {
	apiKey  string
	baseURL string
	httpc   *http.Client
}

func NewClient(apiKey, baseURL string, httpc *http.Client) *Client {
	if httpc == nil {
		httpc = &http.Client{Timeout: 10 * time.Second}
	}
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{apiKey: strings.TrimSpace(apiKey), baseURL: baseURL, httpc: httpc}
}

type videosResponse struct {
	Items []struct {
		ContentDetails struct {
			Duration string `json:"duration"`
		} `json:"contentDetails"`
	} `json:"items"`
}

// Duration returns the raw ISO-8601 duration of videoID.
func (c *Client) Duration(ctx context.Context, videoID string) (string, error) {
	if c.apiKey == "" {
		return "", ErrNotConfigured
	}
	query := url.Values{
		"part": {"contentDetails"},
		"id":   {videoID},
		"key":  {c.apiKey},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/videos?"+query.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("build youtube request: %w", err)
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("youtube videos: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("youtube videos: status %d", resp.StatusCode)
	}

	var payload videosResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode youtube videos: %w", err)
	}
	if len(payload.Items) == 0 {
		return "", ErrVideoNotFound
	}
	return payload.Items[0].ContentDetails.Duration, nil
}

// FormattedDuration is Duration rendered with FormatDuration. Any failure
// yields UnknownDuration together with the error.
func (c *Client) FormattedDuration(ctx context.Context, videoID string) (string, error) {
	iso, err := c.Duration(ctx, videoID)
	if err != nil {
		return UnknownDuration, err
	}
	return FormatDuration(iso), nil
}
