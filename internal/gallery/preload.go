package gallery

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-hclog"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"evalgo.org/darkroom/internal/logging"
)

// Preloader fetches a resource before it is needed. Preload must not block.
// done, when non-nil, is called at most once when the preload finishes.
type Preloader interface {
	Preload(url string, done func(err error))
}

// Fetcher retrieves a resource and discards it.
type Fetcher interface {
	Fetch(ctx context.Context, url string) error
}

// HTTPFetcher downloads resources with a resty client.
type HTTPFetcher struct {
	client *resty.Client
}

// NewHTTPFetcher creates a fetcher. A nil client gets a default resty client.
func NewHTTPFetcher(client *resty.Client) *HTTPFetcher {
	if client == nil {
		client = resty.New()
	}
	return &HTTPFetcher{client: client}
}

// Fetch downloads url and drains the body.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) error {
	resp, err := f.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(url)
	if err != nil {
		return fmt.Errorf("preload %s: %w", url, err)
	}
	body := resp.RawBody()
	defer body.Close()
	_, _ = io.Copy(io.Discard, body)

	if resp.IsError() {
		return fmt.Errorf("preload %s: %s", url, resp.Status())
	}
	return nil
}

// BackgroundPreloader runs preloads on goroutines. Concurrent requests for the
// same URL share one fetch, and URLs that already loaded are not fetched again.
type BackgroundPreloader struct {
	fetcher Fetcher
	group   singleflight.Group
	loaded  *lru.Cache[string, struct{}]
	timeout time.Duration
	log     hclog.Logger
	wg      sync.WaitGroup
	fetches atomic.Int64
}

// NewBackgroundPreloader creates a preloader remembering up to size loaded URLs.
func NewBackgroundPreloader(fetcher Fetcher, size int, timeout time.Duration, log hclog.Logger) (*BackgroundPreloader, error) {
	if size <= 0 {
		size = 256
	}
	loaded, err := lru.New[string, struct{}](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create preload cache: %w", err)
	}
	return &BackgroundPreloader{
		fetcher: fetcher,
		loaded:  loaded,
		timeout: timeout,
		log:     logging.OrDiscard(log).Named("preload"),
	}, nil
}

// Preload schedules url for background download. Errors are logged at trace
// level and passed to done; they never propagate further.
func (p *BackgroundPreloader) Preload(url string, done func(err error)) {
	if url == "" {
		return
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		_, err, shared := p.group.Do(url, func() (interface{}, error) {
			if p.loaded.Contains(url) {
				return nil, nil
			}
			p.fetches.Add(1)

			ctx := context.Background()
			if p.timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, p.timeout)
				defer cancel()
			}
			if err := p.fetcher.Fetch(ctx, url); err != nil {
				return nil, err
			}
			p.loaded.Add(url, struct{}{})
			return nil, nil
		})
		if err != nil {
			p.log.Trace("preload failed", "url", url, "shared", shared, "error", err)
		}
		if done != nil {
			done(err)
		}
	}()
}

// Loaded reports whether url has been fetched successfully.
func (p *BackgroundPreloader) Loaded(url string) bool {
	return p.loaded.Contains(url)
}

// Fetches returns the number of fetches actually issued.
func (p *BackgroundPreloader) Fetches() int64 {
	return p.fetches.Load()
}

// Wait blocks until all scheduled preloads have finished.
func (p *BackgroundPreloader) Wait() {
	p.wg.Wait()
}

// noopPreloader ignores preloads.
type noopPreloader struct{}

func (noopPreloader) Preload(string, func(error)) {}
