package web

import (
	"net/url"

	"evalgo.org/darkroom/internal/gallery"
)

// requestHistory is the browser history as seen while rendering one request.
// The server cannot navigate, so writes are recorded and replayed by the page.
type requestHistory struct {
	location *url.URL
	pushed   *url.URL
	replaced *url.URL
}

var _ gallery.History = (*requestHistory)(nil)

func newRequestHistory(u *url.URL) *requestHistory {
	c := *u
	return &requestHistory{location: &c}
}

func (h *requestHistory) Location() *url.URL {
	c := *h.location
	return &c
}

func (h *requestHistory) Push(u *url.URL) {
	c := *u
	h.location, h.pushed = &c, &c
}

func (h *requestHistory) Replace(u *url.URL) {
	c := *u
	h.location, h.replaced = &c, &c
}

func (h *requestHistory) Listen(func(*url.URL)) (cancel func()) {
	return func() {}
}

// Replaced returns the URL the page should replace the address bar with.
func (h *requestHistory) Replaced() (string, bool) {
	if h.replaced == nil {
		return "", false
	}
	return h.replaced.RequestURI(), true
}
