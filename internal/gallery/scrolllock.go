package gallery

import "sync"

// ScrollLock disables page scrolling while the lightbox is open.
type ScrollLock interface {
	Lock()
	Unlock()
}

// BodyLock is a ScrollLock for the document body. It tracks nesting depth and
// counts every acquisition and release.
type BodyLock struct {
	mu       sync.Mutex
	depth    int
	acquired int
	released int
}

// Lock increments the lock depth.
func (b *BodyLock) Lock() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.depth++
	b.acquired++
}

// Unlock decrements the lock depth. It never goes below zero.
func (b *BodyLock) Unlock() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.depth == 0 {
		return
	}
	b.depth--
	b.released++
}

// Locked reports whether scrolling is currently disabled.
func (b *BodyLock) Locked() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.depth > 0
}

// Counts returns how many times the lock was acquired and released.
func (b *BodyLock) Counts() (acquired, released int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.acquired, b.released
}

// lease is one acquisition of a ScrollLock. Release is idempotent.
type lease struct {
	lock ScrollLock
	once sync.Once
}

func acquire(l ScrollLock) *lease {
	l.Lock()
	return &lease{lock: l}
}

func (l *lease) release() {
	if l == nil {
		return
	}
	l.once.Do(l.lock.Unlock)
}
