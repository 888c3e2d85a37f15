package gallery

import (
	"sync"

	"github.com/charmbracelet/bubbles/key"
)

// Key is a key name as reported by the browser's KeyboardEvent.key.
type Key string

// String implements fmt.Stringer so keys can be matched against bindings.
func (k Key) String() string {
	return string(k)
}

const (
	KeyEscape     Key = "Escape"
	KeyArrowLeft  Key = "ArrowLeft"
	KeyArrowRight Key = "ArrowRight"
)

// KeyMap defines the lightbox keybindings.
type KeyMap struct {
	Close    key.Binding
	Previous key.Binding
	Next     key.Binding
}

// DefaultKeyMap returns the lightbox bindings: Escape closes, arrows navigate.
// Terminal-style names are accepted alongside browser names.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Close: key.NewBinding(
			key.WithKeys(string(KeyEscape), "esc"),
			key.WithHelp("esc", "close"),
		),
		Previous: key.NewBinding(
			key.WithKeys(string(KeyArrowLeft), "left"),
			key.WithHelp("←", "previous"),
		),
		Next: key.NewBinding(
			key.WithKeys(string(KeyArrowRight), "right"),
			key.WithHelp("→", "next"),
		),
	}
}

// Bindings returns the bindings in display order.
func (k KeyMap) Bindings() []key.Binding {
	return []key.Binding{k.Previous, k.Next, k.Close}
}

// KeyHandler handles a key press and reports whether it consumed it.
type KeyHandler func(k Key) bool

// Keyboard is a registry of key listeners. Listeners are explicit
// subscriptions that must be released by their owner.
type Keyboard struct {
	mu   sync.Mutex
	seq  uint64
	subs []*Subscription
}

// NewKeyboard creates an empty key listener registry.
func NewKeyboard() *Keyboard {
	return &Keyboard{}
}

// Subscription is one registered key listener.
type Subscription struct {
	id      uint64
	kb      *Keyboard
	handler KeyHandler
	once    sync.Once
}

// Subscribe registers h and returns its subscription.
func (kb *Keyboard) Subscribe(h KeyHandler) *Subscription {
	kb.mu.Lock()
	defer kb.mu.Unlock()

	kb.seq++
	sub := &Subscription{id: kb.seq, kb: kb, handler: h}
	kb.subs = append(kb.subs, sub)
	return sub
}

// Unsubscribe removes the listener. Safe to call more than once and on nil.
func (s *Subscription) Unsubscribe() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		s.kb.remove(s.id)
	})
}

func (kb *Keyboard) remove(id uint64) {
	kb.mu.Lock()
	defer kb.mu.Unlock()

	for i, sub := range kb.subs {
		if sub.id == id {
			kb.subs = append(kb.subs[:i], kb.subs[i+1:]...)
			return
		}
	}
}

// Dispatch delivers k to every listener registered at the time of the call.
// Handlers run without the registry lock held so they may unsubscribe.
func (kb *Keyboard) Dispatch(k Key) bool {
	kb.mu.Lock()
	subs := make([]*Subscription, len(kb.subs))
	copy(subs, kb.subs)
	kb.mu.Unlock()

	handled := false
	for _, sub := range subs {
		if sub.handler(k) {
			handled = true
		}
	}
	return handled
}

// Listeners returns the number of active subscriptions.
func (kb *Keyboard) Listeners() int {
	kb.mu.Lock()
	defer kb.mu.Unlock()
	return len(kb.subs)
}
