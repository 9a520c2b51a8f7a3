package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"moodtunes/internal/video"
)

// Client resolves videos through a running server's /api/video-search.
// It satisfies video.Resolver.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) Resolve(ctx context.Context, query string) (string, error) {
	u := c.baseURL + "/api/video-search?q=" + url.QueryEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("api: build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("api: video search: %w", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", video.ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		var e errorResponse
		_ = json.Unmarshal(body, &e)
		if e.Error == "" {
			e.Error = strings.TrimSpace(string(body))
		}
		return "", fmt.Errorf("api: video search: %d - %s", resp.StatusCode, e.Error)
	}

	var out videoSearchResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("api: decode video search: %w", err)
	}
	if out.VideoID == "" {
		return "", video.ErrNotFound
	}
	return out.VideoID, nil
}
