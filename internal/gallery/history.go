package gallery

import (
	"net/url"
	"sync"
)

// History is the browser session history as seen by the bridge.
type History interface {
	// Location returns a copy of the current URL.
	Location() *url.URL
	// Push adds a new entry after the current one, dropping forward entries.
	Push(u *url.URL)
	// Replace overwrites the current entry.
	Replace(u *url.URL)
	// Listen registers fn for back/forward navigation and returns a function that removes it.
	Listen(fn func(*url.URL)) (cancel func())
}

// MemoryHistory is an in-memory History with back/forward support.
type MemoryHistory struct {
	mu        sync.Mutex
	entries   []*url.URL
	index     int
	seq       int
	listeners map[int]func(*url.URL)
}

// NewMemoryHistory creates a history whose only entry is initial.
func NewMemoryHistory(initial *url.URL) *MemoryHistory {
	return &MemoryHistory{
		entries:   []*url.URL{cloneURL(initial)},
		listeners: make(map[int]func(*url.URL)),
	}
}

// Location returns a copy of the current entry.
func (h *MemoryHistory) Location() *url.URL {
	h.mu.Lock()
	defer h.mu.Unlock()
	return cloneURL(h.entries[h.index])
}

// Push appends u after the current entry.
func (h *MemoryHistory) Push(u *url.URL) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries[:h.index+1], cloneURL(u))
	h.index++
}

// Replace overwrites the current entry.
func (h *MemoryHistory) Replace(u *url.URL) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries[h.index] = cloneURL(u)
}

// Back moves to the previous entry and notifies listeners.
func (h *MemoryHistory) Back() bool {
	return h.move(-1)
}

// Forward moves to the next entry and notifies listeners.
func (h *MemoryHistory) Forward() bool {
	return h.move(1)
}

// Len returns the number of entries.
func (h *MemoryHistory) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Listen registers fn for back/forward navigation.
func (h *MemoryHistory) Listen(fn func(*url.URL)) (cancel func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.seq++
	id := h.seq
	h.listeners[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.listeners, id)
			h.mu.Unlock()
		})
	}
}

// Listeners returns the number of registered listeners.
func (h *MemoryHistory) Listeners() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.listeners)
}

func (h *MemoryHistory) move(delta int) bool {
	h.mu.Lock()
	target := h.index + delta
	if target < 0 || target >= len(h.entries) {
		h.mu.Unlock()
		return false
	}
	h.index = target
	loc := cloneURL(h.entries[target])
	fns := make([]func(*url.URL), 0, len(h.listeners))
	for i := 1; i <= h.seq; i++ {
		if fn, ok := h.listeners[i]; ok {
			fns = append(fns, fn)
		}
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn(cloneURL(loc))
	}
	return true
}

func cloneURL(u *url.URL) *url.URL {
	if u == nil {
		return &url.URL{}
	}
	c := *u
	if u.User != nil {
		user := *u.User
		c.User = &user
	}
	return &c
}
