package gallery

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingFetcher struct {
	calls   atomic.Int32
	err     error
	release chan struct{}
}

func (f *countingFetcher) Fetch(ctx context.Context, url string) error {
	f.calls.Add(1)
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return f.err
}

func TestBackgroundPreloader_Dedup(t *testing.T) {
	f := &countingFetcher{release: make(chan struct{})}
	p, err := NewBackgroundPreloader(f, 16, time.Second, nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	var failures atomic.Int32
	for i := 0; i < 8; i++ {
		wg.Add(1)
		p.Preload(imageURL("a"), func(err error) {
			if err != nil {
				failures.Add(1)
			}
			wg.Done()
		})
	}
	close(f.release)
	wg.Wait()
	p.Wait()

	assert.Equal(t, int32(1), f.calls.Load())
	assert.Equal(t, int64(1), p.Fetches())
	assert.Equal(t, int32(0), failures.Load())
	assert.True(t, p.Loaded(imageURL("a")))

	done := make(chan error, 1)
	p.Preload(imageURL("a"), func(err error) { done <- err })
	assert.NoError(t, <-done)
	assert.Equal(t, int64(1), p.Fetches(), "loaded urls are not fetched again")
}

func TestBackgroundPreloader_FailuresAreNotRemembered(t *testing.T) {
	f := &countingFetcher{err: errors.New("boom")}
	p, err := NewBackgroundPreloader(f, 16, time.Second, nil)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		done := make(chan error, 1)
		p.Preload(imageURL("a"), func(err error) { done <- err })
		assert.Error(t, <-done)
	}
	p.Wait()

	assert.Equal(t, int64(2), p.Fetches())
	assert.False(t, p.Loaded(imageURL("a")))
}

func TestBackgroundPreloader_IgnoresEmptyURL(t *testing.T) {
	f := &countingFetcher{}
	p, err := NewBackgroundPreloader(f, 0, 0, nil)
	require.NoError(t, err)

	p.Preload("", func(error) { t.Error("callback must not run for an empty url") })
	p.Wait()
	assert.Equal(t, int32(0), f.calls.Load())
}

func TestBackgroundPreloader_WithController(t *testing.T) {
	f := &countingFetcher{}
	p, err := NewBackgroundPreloader(f, 16, time.Second, nil)
	require.NoError(t, err)

	c := NewController(testCollection(t, "a", "b", "c"), ControllerOptions{Preloader: p})
	grid := NewGrid(c, p)

	grid.Hover("b")
	c.OpenAt("a")
	p.Wait()

	assert.True(t, c.Preloaded(imageURL("b")))
	assert.True(t, c.Preloaded(imageURL("c")))
	assert.LessOrEqual(t, f.calls.Load(), int32(3))
	assert.GreaterOrEqual(t, f.calls.Load(), int32(2))
}

func TestHTTPFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.jpg" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("jpeg bytes"))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(nil)
	assert.NoError(t, f.Fetch(context.Background(), srv.URL+"/a.jpg"))

	err := f.Fetch(context.Background(), srv.URL+"/missing.jpg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}
