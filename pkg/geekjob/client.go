package geekjob

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultBaseURL   = "https://geekjob.ru/json/find/vacancy"
	defaultUserAgent = "workscout/1.0"
	defaultPage      = 1
	defaultRemote    = 1
	defaultTimeout   = 10 * time.Second
)

// NewClient instantiates a GeekJob API client.
func NewClient(cfg Config) (*Client, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	page := cfg.Page
	if page <= 0 {
		page = defaultPage
	}

	remote := cfg.Remote
	if remote <= 0 {
		remote = defaultRemote
	}

	return &Client{
		baseURL:    baseURL,
		userAgent:  userAgent,
		httpClient: httpClient,
		page:       page,
		remote:     remote,
	}, nil
}

// SearchVacancies queries GeekJob with the keyword.
func (c *Client) SearchVacancies(ctx context.Context, query string, params SearchParams) (SearchResponse, error) {
	if c == nil {
		return SearchResponse{}, fmt.Errorf("geekjob: client is nil")
	}
	if query == "" {
		return SearchResponse{}, fmt.Errorf("geekjob: query is required")
	}

	values := url.Values{}
	values.Set("qs", query)
	values.Set("page", strconv.Itoa(c.page))
	values.Set("rm", strconv.Itoa(c.remote))
	for k, v := range params.Extra {
		if v != "" {
			values.Set(k, v)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+values.Encode(), nil)
	if err != nil {
		return SearchResponse{}, fmt.Errorf("geekjob: build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return SearchResponse{}, fmt.Errorf("geekjob: request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return SearchResponse{}, fmt.Errorf("geekjob: API error (%d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return SearchResponse{}, fmt.Errorf("geekjob: decode response: %w", err)
	}

	return payload, nil
}
