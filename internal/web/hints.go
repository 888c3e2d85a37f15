package web

import "sync"

// prefetchHints is a gallery.Preloader that turns preloads into
// <link rel="prefetch"> hints for the browser.
type prefetchHints struct {
	mu   sync.Mutex
	urls []string
	seen map[string]bool
}

func (p *prefetchHints) Preload(url string, done func(error)) {
	p.mu.Lock()
	if p.seen == nil {
		p.seen = make(map[string]bool)
	}
	if !p.seen[url] {
		p.seen[url] = true
		p.urls = append(p.urls, url)
	}
	p.mu.Unlock()

	if done != nil {
		done(nil)
	}
}

// URLs returns the hinted URLs in request order.
func (p *prefetchHints) URLs() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.urls...)
}
