package imagehost

import (
	"context"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-hclog"

	"evalgo.org/darkroom/internal/config"
	"evalgo.org/darkroom/internal/logging"
)

// File is one asset as returned by the ImageKit list files API.
type File struct {
	Type      string  `json:"type"`
	FileID    string  `json:"fileId"`
	Name      string  `json:"name"`
	FilePath  string  `json:"filePath"`
	URL       string  `json:"url"`
	Thumbnail string  `json:"thumbnail"`
	FileType  string  `json:"fileType"`
	MIME      string  `json:"mime"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Size      int64   `json:"size"`
}

// ListOptions pages through a folder listing.
type ListOptions struct {
	Limit int
	Skip  int
}

// ImageKit is a client for the ImageKit management API.
type ImageKit struct {
	client *resty.Client
	limit  int
	log    hclog.Logger
}

// NewImageKit creates a client authenticated with the private key.
func NewImageKit(cfg config.ImageKitConfig, log hclog.Logger) *ImageKit {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.APIURL, "/")).
		SetBasicAuth(cfg.PrivateKey, "").
		SetHeader("Accept", "application/json")
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}

	limit := cfg.ListLimit
	if limit <= 0 {
		limit = 100
	}

	return &ImageKit{
		client: client,
		limit:  limit,
		log:    logging.OrDiscard(log).Named("imagekit"),
	}
}

// ListFiles lists the images stored under folder, in host order.
func (k *ImageKit) ListFiles(ctx context.Context, folder string, opts ListOptions) ([]File, error) {
	limit := opts.Limit
	if limit <= 0 || limit > k.limit {
		limit = k.limit
	}

	params := map[string]string{
		"path":     "/" + strings.Trim(folder, "/"),
		"fileType": "image",
		"limit":    strconv.Itoa(limit),
	}
	if opts.Skip > 0 {
		params["skip"] = strconv.Itoa(opts.Skip)
	}

	var files []File
	resp, err := k.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		ForceContentType("application/json").
		SetResult(&files).
		Get("/v1/files")
	if err != nil {
		return nil, &UpstreamError{Message: err.Error()}
	}
	if resp.IsError() {
		msg := errorMessage(resp.Body())
		if msg == "" {
			msg = resp.Status()
		}
		k.log.Warn("list files failed", "folder", folder, "status", resp.StatusCode(), "message", msg)
		return nil, &UpstreamError{StatusCode: resp.StatusCode(), Message: msg}
	}

	out := files[:0]
	for _, f := range files {
		if f.Type != "" && f.Type != "file" {
			continue
		}
		out = append(out, f)
	}
	k.log.Debug("listed files", "folder", folder, "count", len(out))
	return out, nil
}

// ToListing converts ImageKit files into listing entries.
func ToListing(files []File) []ListingEntry {
	entries := make([]ListingEntry, 0, len(files))
	for _, f := range files {
		entries = append(entries, ListingEntry{
			ID:     f.FileID,
			URL:    f.URL,
			Name:   f.Name,
			Width:  int(f.Width),
			Height: int(f.Height),
		})
	}
	return entries
}
