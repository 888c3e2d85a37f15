// Package client is a Go client for the Darkroom JSON API.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client talks to one Darkroom server.
type Client struct {
	http *resty.Client
}

// Option configures a Client.
type Option func(*resty.Client)

// WithTimeout bounds every request.
func WithTimeout(d time.Duration) Option {
	return func(c *resty.Client) { c.SetTimeout(d) }
}

// WithHeader sets a header on every request.
func WithHeader(name, value string) Option {
	return func(c *resty.Client) { c.SetHeader(name, value) }
}

func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("baseURL is required")
	}

	http := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Accept", "application/json")
	for _, opt := range opts {
		opt(http)
	}

	return &Client{http: http}, nil
}

// Page selects a window of a listing. Zero values use the server defaults.
type Page struct {
	Limit  int
	Offset int
}

func (p Page) params() map[string]string {
	out := map[string]string{}
	if p.Limit > 0 {
		out["limit"] = strconv.Itoa(p.Limit)
	}
	if p.Offset > 0 {
		out["offset"] = strconv.Itoa(p.Offset)
	}
	return out
}

// ListingEntry is one file of a media host folder.
type ListingEntry struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	Name   string `json:"name,omitempty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// Image is one normalized gallery image.
type Image struct {
	ID           string `json:"id"`
	DisplayIndex int    `json:"displayIndex"`
	URL          string `json:"url"`
	Alt          string `json:"alt"`
	Title        string `json:"title"`
	Width        int    `json:"width,omitempty"`
	Height       int    `json:"height,omitempty"`
}

// Gallery is one page of a category.
type Gallery struct {
	Category string  `json:"category"`
	Name     string  `json:"name"`
	Count    int     `json:"count"`
	Images   []Image `json:"images"`
}

// Health is the liveness report.
type Health struct {
	Status      string `json:"status"`
	Service     string `json:"service"`
	Version     string `json:"version"`
	Uptime      string `json:"uptime"`
	Collections int    `json:"cached_collections"`
}

// ContactRequest is a contact form submission.
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
	Token   string `json:"token"`
}

// Error is a non-2xx response.
type Error struct {
	StatusCode  int               `json:"-"`
	Message     string            `json:"message"`
	Details     json.RawMessage   `json:"details,omitempty"`
	FieldErrors map[string]string `json:"field_errors,omitempty"`
}

func (e *Error) Error() string {
	if len(e.Details) > 0 {
		var s string
		if json.Unmarshal(e.Details, &s) == nil {
			return fmt.Sprintf("darkroom: %d %s: %s", e.StatusCode, e.Message, s)
		}
	}
	return fmt.Sprintf("darkroom: %d %s", e.StatusCode, e.Message)
}

// errorBody covers both the API error shape and the contact failure shape.
type errorBody struct {
	Message     string            `json:"message"`
	Error       string            `json:"error"`
	Details     json.RawMessage   `json:"details"`
	FieldErrors map[string]string `json:"field_errors"`
}

func (c *Client) get(ctx context.Context, path string, params map[string]string, result interface{}) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(result).
		Get(path)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	if resp.IsError() {
		return decodeError(resp)
	}
	return nil
}

func decodeError(resp *resty.Response) error {
	apiErr := &Error{StatusCode: resp.StatusCode(), Message: resp.Status()}
	var body errorBody
	if err := json.Unmarshal(resp.Body(), &body); err == nil {
		switch {
		case body.Message != "":
			apiErr.Message = body.Message
		case body.Error != "":
			apiErr.Message = body.Error
		}
		apiErr.Details = body.Details
		apiErr.FieldErrors = body.FieldErrors
	}
	return apiErr
}

// Health checks that the server is up.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var out Health
	if err := c.get(ctx, "/health", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Images lists a media host folder through the server's proxy.
func (c *Client) Images(ctx context.Context, folder string, page Page) ([]ListingEntry, error) {
	params := page.params()
	params["folder"] = folder

	var out []ListingEntry
	if err := c.get(ctx, "/api/imagekit", params, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []ListingEntry{}
	}
	return out, nil
}

// Gallery returns the normalized images of a category.
func (c *Client) Gallery(ctx context.Context, category string, page Page) (*Gallery, error) {
	var out Gallery
	if err := c.get(ctx, "/api/gallery/"+category, page.params(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Contact submits a contact message and returns the delivery id.
func (c *Client) Contact(ctx context.Context, req ContactRequest) (string, error) {
	var out struct {
		Success bool   `json:"success"`
		ID      string `json:"id"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		SetResult(&out).
		Post("/api/contact")
	if err != nil {
		return "", fmt.Errorf("POST /api/contact: %w", err)
	}
	if resp.IsError() {
		return "", decodeError(resp)
	}
	return out.ID, nil
}
