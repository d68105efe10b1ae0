package propsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

// Client is the propsearch SDK entry point.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a client for the service at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Ping checks service health.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, nil)
}

// TemplateParams returns the parameters the search template declares.
func (c *Client) TemplateParams(ctx context.Context) ([]TemplateParam, error) {
	var resp paramsResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/template/params", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Parameters, nil
}

// Geocode resolves a free-form location to coordinates.
func (c *Client) Geocode(ctx context.Context, location string) (GeoPoint, error) {
	path := "/api/v1/geocode?location=" + url.QueryEscape(location)
	var resp geocodeResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return GeoPoint{}, err
	}
	return GeoPoint{Latitude: resp.Latitude, Longitude: resp.Longitude}, nil
}

// Search runs a templated property search.
func (c *Client) Search(ctx context.Context, req SearchRequest) (SearchResult, error) {
	var resp SearchResult
	if err := c.do(ctx, http.MethodPost, "/api/v1/search", req, &resp); err != nil {
		return SearchResult{}, err
	}
	return resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("propsearch: encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("propsearch: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("propsearch: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var apiErr errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return &APIError{
			Status:  resp.StatusCode,
			Code:    apiErr.Code,
			Message: apiErr.Message,
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("propsearch: decode response: %w", err)
	}
	return nil
}
