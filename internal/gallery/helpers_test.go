package gallery

import (
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"evalgo.org/darkroom/models"
)

func testCollection(t *testing.T, ids ...string) *models.Collection {
	t.Helper()
	items := make([]models.ImageDescriptor, len(ids))
	for i, id := range ids {
		items[i] = models.ImageDescriptor{
			Identifier: id,
			SourceURL:  imageURL(id),
		}
	}
	c, err := models.NewCollection("test", items)
	require.NoError(t, err)
	return c
}

func imageURL(id string) string {
	return "https://cdn.example.com/" + id + ".jpg"
}

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

// recordingPreloader keeps completion callbacks until the test fires them.
type recordingPreloader struct {
	mu      sync.Mutex
	urls    []string
	pending []func(error)
}

func (p *recordingPreloader) Preload(url string, done func(error)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.urls = append(p.urls, url)
	if done != nil {
		p.pending = append(p.pending, done)
	}
}

func (p *recordingPreloader) requested() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.urls...)
}

func (p *recordingPreloader) reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.urls = nil
}

func (p *recordingPreloader) completeAll(err error) {
	p.mu.Lock()
	pending := p.pending
	p.pending = nil
	p.mu.Unlock()

	for _, done := range pending {
		done(err)
	}
}

// syncPreloader completes every preload before returning.
type syncPreloader struct{}

func (syncPreloader) Preload(_ string, done func(error)) {
	if done != nil {
		done(nil)
	}
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
