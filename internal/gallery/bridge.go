package gallery

import (
	"net/url"
	"sync"
)

// DefaultFocusParam is the query parameter carrying the focused identifier.
const DefaultFocusParam = "focus"

// Bridge keeps one query parameter in sync with the controller's focus.
//
// Opening from the grid pushes a history entry so the back button closes the
// lightbox. Navigation and close replace the current entry. Back/forward
// navigation is fed back into the controller.
type Bridge struct {
	ctrl    *Controller
	history History
	param   string

	mu          sync.Mutex
	mounted     bool
	stopObserve func()
	stopListen  func()
}

// NewBridge creates a bridge for ctrl. An empty param uses DefaultFocusParam.
func NewBridge(ctrl *Controller, history History, param string) *Bridge {
	if param == "" {
		param = DefaultFocusParam
	}
	return &Bridge{ctrl: ctrl, history: history, param: param}
}

// Param returns the query parameter name.
func (b *Bridge) Param() string {
	return b.param
}

// Mount derives the initial controller state from the current URL and starts
// syncing. A stale parameter value is dropped from the URL.
func (b *Bridge) Mount() {
	b.mu.Lock()
	if b.mounted {
		b.mu.Unlock()
		return
	}
	b.mounted = true
	b.mu.Unlock()

	b.apply(b.history.Location())

	stopObserve := b.ctrl.Observe(b.onTransition)
	stopListen := b.history.Listen(b.apply)

	b.mu.Lock()
	b.stopObserve, b.stopListen = stopObserve, stopListen
	b.mu.Unlock()
}

// Unmount stops syncing in both directions.
func (b *Bridge) Unmount() {
	b.mu.Lock()
	if !b.mounted {
		b.mu.Unlock()
		return
	}
	b.mounted = false
	stopObserve, stopListen := b.stopObserve, b.stopListen
	b.stopObserve, b.stopListen = nil, nil
	b.mu.Unlock()

	if stopObserve != nil {
		stopObserve()
	}
	if stopListen != nil {
		stopListen()
	}
}

// apply restores controller state from u. Unknown identifiers are treated
// as absent and removed from the URL.
func (b *Bridge) apply(u *url.URL) {
	query := u.Query()
	_, present := query[b.param]
	id := query.Get(b.param)

	if id != "" && b.ctrl.Collection().Contains(id) {
		b.ctrl.Restore(id)
		return
	}
	b.ctrl.Restore("")
	if present {
		b.history.Replace(b.URLFor(u, ""))
	}
}

func (b *Bridge) onTransition(t Transition) {
	switch t.Cause {
	case CauseRestore:
		return
	case CauseActivate:
		b.history.Push(b.URLFor(b.history.Location(), t.To))
	default:
		b.history.Replace(b.URLFor(b.history.Location(), t.To))
	}
}

// URLFor returns a copy of u with the focus parameter set to id, or removed
// when id is empty.
func (b *Bridge) URLFor(u *url.URL, id string) *url.URL {
	out := cloneURL(u)
	query := out.Query()
	if id == "" {
		query.Del(b.param)
	} else {
		query.Set(b.param, id)
	}
	out.RawQuery = query.Encode()
	return out
}
