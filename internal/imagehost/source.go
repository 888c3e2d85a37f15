// Package imagehost talks to the external media host: the ImageKit
// management API for raw listings, and the collection listing endpoint that
// the gallery pages consume.
package imagehost

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-hclog"

	"evalgo.org/darkroom/internal/logging"
	"evalgo.org/darkroom/models"
)

// FolderParam is the listing endpoint's collection parameter.
const FolderParam = "folder"

// ListingEntry is the wire shape of one image in a collection listing.
type ListingEntry struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	Name   string `json:"name,omitempty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// listingRecord accepts both the normalized shape and raw ImageKit files.
type listingRecord struct {
	ID     string  `json:"id"`
	FileID string  `json:"fileId"`
	URL    string  `json:"url"`
	Name   string  `json:"name"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// candidate is a record after field mapping, before validation.
type candidate struct {
	Identifier string `validate:"required,max=512"`
	SourceURL  string `validate:"required,url"`
	Width      int    `validate:"gte=0"`
	Height     int    `validate:"gte=0"`
}

// Source fetches collections from a listing endpoint.
type Source struct {
	client   *resty.Client
	endpoint string
	delivery *url.URL
	validate *validator.Validate
	log      hclog.Logger
}

// SourceOption customises a Source.
type SourceOption func(*Source)

// WithClient sets the resty client used for listing requests.
func WithClient(client *resty.Client) SourceOption {
	return func(s *Source) {
		s.client = client
	}
}

// WithLogger sets the logger.
func WithLogger(log hclog.Logger) SourceOption {
	return func(s *Source) {
		s.log = log
	}
}

// WithDeliveryEndpoint restricts collections to images under endpoint, the
// media host's delivery URL. An empty or unparsable endpoint accepts every host.
func WithDeliveryEndpoint(endpoint string) SourceOption {
	return func(s *Source) {
		u, err := url.Parse(strings.TrimSpace(endpoint))
		if endpoint == "" || err != nil || u.Host == "" {
			s.delivery = nil
			return
		}
		u.Path = strings.TrimRight(u.Path, "/")
		s.delivery = u
	}
}

// NewSource creates a Source reading from endpoint.
func NewSource(endpoint string, opts ...SourceOption) *Source {
	s := &Source{
		endpoint: endpoint,
		validate: validator.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.client == nil {
		s.client = resty.New()
	}
	s.log = logging.OrDiscard(s.log).Named("source")
	return s
}

// Endpoint returns the listing URL.
func (s *Source) Endpoint() string {
	return s.endpoint
}

// FetchCollection retrieves the named collection. An empty name yields an
// empty collection without any request. Transport errors, non-2xx responses
// and malformed bodies are returned as *FetchFailed.
func (s *Source) FetchCollection(ctx context.Context, name string) (*models.Collection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.EmptyCollection(""), nil
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetQueryParam(FolderParam, name).
		Get(s.endpoint)
	if err != nil {
		return nil, &FetchFailed{Collection: name, Err: err}
	}

	status := resp.StatusCode()
	if status < 200 || status > 299 {
		msg := errorMessage(resp.Body())
		if msg == "" {
			msg = resp.Status()
		}
		return nil, &FetchFailed{Collection: name, StatusCode: status, Message: msg}
	}

	var records []listingRecord
	if err := json.Unmarshal(resp.Body(), &records); err != nil {
		return nil, &FetchFailed{
			Collection: name,
			StatusCode: status,
			Message:    "malformed listing body",
			Err:        err,
		}
	}

	collection, err := models.NewCollection(name, s.normalize(name, records))
	if err != nil {
		return nil, &FetchFailed{Collection: name, StatusCode: status, Message: err.Error(), Err: err}
	}

	s.log.Debug("fetched collection", "collection", name, "images", collection.Len(), "received", len(records))
	return collection, nil
}

// normalize maps records onto descriptors in host order, dropping records
// that fail validation and later duplicates of an identifier.
func (s *Source) normalize(name string, records []listingRecord) []models.ImageDescriptor {
	items := make([]models.ImageDescriptor, 0, len(records))
	seen := make(map[string]bool, len(records))

	for i, r := range records {
		c := candidate{
			Identifier: strings.TrimSpace(r.ID),
			SourceURL:  strings.TrimSpace(r.URL),
			Width:      int(r.Width),
			Height:     int(r.Height),
		}
		if c.Identifier == "" {
			c.Identifier = strings.TrimSpace(r.FileID)
		}

		if err := s.validate.Struct(c); err != nil {
			s.log.Debug("dropping invalid listing record", "collection", name, "position", i, "error", err)
			continue
		}
		if !s.delivered(c.SourceURL) {
			s.log.Debug("dropping listing record outside delivery endpoint", "collection", name, "id", c.Identifier, "url", c.SourceURL)
			continue
		}
		if seen[c.Identifier] {
			s.log.Debug("dropping duplicate listing record", "collection", name, "id", c.Identifier)
			continue
		}
		seen[c.Identifier] = true

		title := strings.TrimSpace(r.Name)
		items = append(items, models.ImageDescriptor{
			Identifier: c.Identifier,
			SourceURL:  c.SourceURL,
			Title:      title,
			AltText:    title,
			Width:      c.Width,
			Height:     c.Height,
		})
	}
	return items
}

// delivered reports whether raw is served from the delivery endpoint.
func (s *Source) delivered(raw string) bool {
	if s.delivery == nil {
		return true
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if !strings.EqualFold(u.Scheme, s.delivery.Scheme) || !strings.EqualFold(u.Host, s.delivery.Host) {
		return false
	}
	prefix := s.delivery.Path
	return prefix == "" || u.Path == prefix || strings.HasPrefix(u.Path, prefix+"/")
}
