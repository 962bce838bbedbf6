package hh

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
	defaultBaseURL   = "https://api.hh.ru/vacancies"
	defaultAreasURL  = "https://api.hh.ru/areas"
	defaultUserAgent = "workscout/1.0"
	defaultPerPage   = 20
	defaultOrderBy   = "publication_time"
	defaultTimeout   = 10 * time.Second
)

// NewClient instantiates a HeadHunter API client.
func NewClient(cfg Config) (*Client, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	areasURL := cfg.AreasURL
	if areasURL == "" {
		areasURL = defaultAreasURL
	}

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

	perPage := cfg.PerPage
	if perPage <= 0 {
		perPage = defaultPerPage
	}

	orderBy := cfg.OrderBy
	if orderBy == "" {
		orderBy = defaultOrderBy
	}

	return &Client{
		baseURL:    baseURL,
		areasURL:   areasURL,
		userAgent:  userAgent,
		httpClient: httpClient,
		perPage:    perPage,
		orderBy:    orderBy,
	}, nil
}

// SearchVacancies queries HH with keyword and filters.
func (c *Client) SearchVacancies(ctx context.Context, query string, params SearchParams) (SearchResponse, error) {
	if c == nil {
		return SearchResponse{}, fmt.Errorf("hh: client is nil")
	}
	if query == "" {
		return SearchResponse{}, fmt.Errorf("hh: query is required")
	}

	values := url.Values{}
	values.Set("text", query)
	values.Set("per_page", strconv.Itoa(c.perPage))
	values.Set("order_by", c.orderBy)

	if params.Schedule != "" {
		values.Set("schedule", params.Schedule)
	}
	if params.Area != "" {
		values.Set("area", params.Area)
	}
	for k, v := range params.Extra {
		if v != "" {
			values.Set(k, v)
		}
	}

	var payload SearchResponse
	if err := c.getJSON(ctx, c.baseURL+"?"+values.Encode(), &payload); err != nil {
		return SearchResponse{}, err
	}

	return payload, nil
}

// Vacancy fetches one vacancy by id. Returns nil without error on 404.
func (c *Client) Vacancy(ctx context.Context, id string) (*Vacancy, error) {
	if id == "" {
		return nil, fmt.Errorf("hh: vacancy id is required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, fmt.Errorf("hh: build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("hh: request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("hh: API error (%d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var v Vacancy
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		return nil, fmt.Errorf("hh: decode response: %w", err)
	}

	return &v, nil
}

// Areas fetches the full country/region/city tree.
func (c *Client) Areas(ctx context.Context) ([]Area, error) {
	var areas []Area
	if err := c.getJSON(ctx, c.areasURL, &areas); err != nil {
		return nil, err
	}
	return areas, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("hh: build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("hh: request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("hh: API error (%d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("hh: decode response: %w", err)
	}

	return nil
}
