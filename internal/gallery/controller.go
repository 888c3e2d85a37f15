// Package gallery implements the portfolio gallery: a grid of tiles, the
// lightbox controller that owns which image is focused, and the bridge that
// mirrors the focus into a shareable URL.
//
// The controller is the single writer of gallery state. The bridge and the
// grid only call controller operations and observe its transitions.
//
//	grid tile click ──► Controller.OpenAt ──► Transition{cause: activate} ──► Bridge: history push
//	arrow keys      ──► Controller.Next     ──► Transition{cause: navigate} ──► Bridge: history replace
//	back/forward    ──► Bridge              ──► Controller.Restore          (no URL write)
package gallery

import (
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/hashicorp/go-hclog"

	"evalgo.org/darkroom/internal/logging"
	"evalgo.org/darkroom/models"
)

// Cause identifies what triggered a transition.
type Cause string

const (
	// CauseActivate is a user opening the lightbox from the grid.
	CauseActivate Cause = "activate"
	// CauseNavigate is prev/next/jump inside an open lightbox.
	CauseNavigate Cause = "navigate"
	// CauseClose is an explicit close (button, Escape, backdrop).
	CauseClose Cause = "close"
	// CauseRestore is state re-derived from the URL (mount, back/forward).
	CauseRestore Cause = "restore"
)

// Transition describes one change of the focused identifier. An empty
// identifier means the lightbox is closed.
type Transition struct {
	From  string
	To    string
	Cause Cause
}

// Opened reports whether the transition opened the lightbox.
func (t Transition) Opened() bool {
	return t.From == "" && t.To != ""
}

// Closed reports whether the transition closed the lightbox.
func (t Transition) Closed() bool {
	return t.From != "" && t.To == ""
}

// State is a snapshot of the lightbox state.
type State struct {
	Open          bool
	Focused       string
	Index         int
	Transitioning bool
}

// ControllerOptions configures a Controller. Zero values get usable defaults.
type ControllerOptions struct {
	Keyboard         *Keyboard
	KeyMap           *KeyMap
	ScrollLock       ScrollLock
	Preloader        Preloader
	TransitionWindow time.Duration
	Now              func() time.Time
	Logger           hclog.Logger
}

type transitionKind int

const (
	transitionNone transitionKind = iota
	transitionOpening
	transitionClosing
)

// Controller is the lightbox state machine: Closed or Open(identifier).
type Controller struct {
	mu         sync.Mutex
	collection *models.Collection
	focused    string
	mounted    bool

	kind  transitionKind
	until time.Time

	lease     *lease
	keySub    *Subscription
	preloaded map[string]bool

	observerSeq int
	observers   map[int]func(Transition)

	keyboard  *Keyboard
	keys      KeyMap
	lock      ScrollLock
	preloader Preloader
	window    time.Duration
	now       func() time.Time
	log       hclog.Logger
}

// NewController creates a mounted controller in the Closed state.
func NewController(collection *models.Collection, opts ControllerOptions) *Controller {
	if collection == nil {
		collection = models.EmptyCollection("")
	}
	c := &Controller{
		collection: collection,
		mounted:    true,
		preloaded:  make(map[string]bool),
		observers:  make(map[int]func(Transition)),
		keyboard:   opts.Keyboard,
		lock:       opts.ScrollLock,
		preloader:  opts.Preloader,
		window:     opts.TransitionWindow,
		now:        opts.Now,
		log:        logging.OrDiscard(opts.Logger).Named("lightbox"),
	}
	if opts.KeyMap != nil {
		c.keys = *opts.KeyMap
	} else {
		c.keys = DefaultKeyMap()
	}
	if c.keyboard == nil {
		c.keyboard = NewKeyboard()
	}
	if c.lock == nil {
		c.lock = &BodyLock{}
	}
	if c.preloader == nil {
		c.preloader = noopPreloader{}
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

// Collection returns the images the controller navigates.
func (c *Controller) Collection() *models.Collection {
	return c.collection
}

// KeyMap returns the active keybindings.
func (c *Controller) KeyMap() KeyMap {
	return c.keys
}

// State returns a snapshot of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := State{Focused: c.focused, Index: -1, Transitioning: c.transitioningLocked()}
	if c.focused != "" {
		s.Open = true
		s.Index, _ = c.collection.IndexOf(c.focused)
	}
	return s
}

// Focused returns the focused identifier and whether the lightbox is open.
func (c *Controller) Focused() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.focused, c.focused != ""
}

// Mounted reports whether the controller is still attached to its page.
func (c *Controller) Mounted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mounted
}

// Preloaded reports whether a neighbour preload for url completed while mounted.
func (c *Controller) Preloaded(url string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.preloaded[url]
}

// Observe registers fn for every transition and returns a function that removes it.
func (c *Controller) Observe(fn func(Transition)) (cancel func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.observerSeq++
	id := c.observerSeq
	c.observers[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.observers, id)
			c.mu.Unlock()
		})
	}
}

// OpenAt focuses id. From Closed it opens the lightbox; while open it behaves
// like JumpTo. Unknown identifiers are ignored, as is a repeated open while
// the opening transition is still running.
func (c *Controller) OpenAt(id string) bool {
	c.mu.Lock()
	if !c.mounted || !c.collection.Contains(id) {
		c.mu.Unlock()
		return false
	}
	if c.kind == transitionOpening && c.transitioningLocked() {
		c.mu.Unlock()
		c.log.Trace("ignoring re-entrant open", "id", id)
		return false
	}
	cause := CauseActivate
	if c.focused != "" {
		cause = CauseNavigate
	}
	t, changed := c.focusLocked(id, cause)
	c.mu.Unlock()

	c.notify(t, changed)
	return changed
}

// JumpTo focuses id while the lightbox is open. No-op when closed or when id is unknown.
func (c *Controller) JumpTo(id string) bool {
	c.mu.Lock()
	if !c.mounted || c.focused == "" || !c.collection.Contains(id) {
		c.mu.Unlock()
		return false
	}
	t, changed := c.focusLocked(id, CauseNavigate)
	c.mu.Unlock()

	c.notify(t, changed)
	return changed
}

// Next focuses the following image, wrapping to the first.
func (c *Controller) Next() bool {
	return c.step(1)
}

// Previous focuses the preceding image, wrapping to the last.
func (c *Controller) Previous() bool {
	return c.step(-1)
}

func (c *Controller) step(delta int) bool {
	c.mu.Lock()
	n := c.collection.Len()
	if !c.mounted || c.focused == "" || n <= 1 {
		c.mu.Unlock()
		return false
	}
	i, _ := c.collection.IndexOf(c.focused)
	target := c.collection.At(((i+delta)%n + n) % n).Identifier
	t, changed := c.focusLocked(target, CauseNavigate)
	c.mu.Unlock()

	c.notify(t, changed)
	return changed
}

// Close returns the lightbox to Closed, releasing the scroll lock and key bindings.
func (c *Controller) Close() bool {
	c.mu.Lock()
	if !c.mounted || c.focused == "" {
		c.mu.Unlock()
		return false
	}
	t, changed := c.focusLocked("", CauseClose)
	c.mu.Unlock()

	c.notify(t, changed)
	return changed
}

// Restore applies state derived from the URL. An empty or unknown id closes
// the lightbox. Restore is never debounced.
func (c *Controller) Restore(id string) bool {
	c.mu.Lock()
	if !c.mounted {
		c.mu.Unlock()
		return false
	}
	if !c.collection.Contains(id) {
		id = ""
	}
	t, changed := c.focusLocked(id, CauseRestore)
	c.mu.Unlock()

	c.notify(t, changed)
	return changed
}

// Unmount detaches the controller. Held resources are released and every
// later operation, including late preload completions, is a no-op.
func (c *Controller) Unmount() {
	c.mu.Lock()
	if !c.mounted {
		c.mu.Unlock()
		return
	}
	c.mounted = false
	l, sub := c.lease, c.keySub
	c.lease, c.keySub = nil, nil
	c.observers = make(map[int]func(Transition))
	c.mu.Unlock()

	l.release()
	sub.Unsubscribe()
}

// focusLocked moves focus to id, acquiring or releasing the scroll lock and
// key subscription on entry to or exit from Open. Callers hold c.mu and must
// call notify afterwards.
func (c *Controller) focusLocked(id string, cause Cause) (Transition, bool) {
	if id == c.focused {
		return Transition{}, false
	}
	t := Transition{From: c.focused, To: id, Cause: cause}
	c.focused = id

	switch {
	case t.Opened():
		c.lease = acquire(c.lock)
		c.keySub = c.keyboard.Subscribe(c.handleKey)
		c.startTransitionLocked(transitionOpening)
	case t.Closed():
		c.lease.release()
		c.lease = nil
		c.keySub.Unsubscribe()
		c.keySub = nil
		c.startTransitionLocked(transitionClosing)
	}
	return t, true
}

func (c *Controller) startTransitionLocked(kind transitionKind) {
	if c.window <= 0 {
		return
	}
	c.kind = kind
	c.until = c.now().Add(c.window)
}

func (c *Controller) transitioningLocked() bool {
	return c.kind != transitionNone && c.now().Before(c.until)
}

// preloadNeighbors warms the images on both sides of id. It runs without c.mu
// held because preloaders may complete synchronously.
func (c *Controller) preloadNeighbors(id string) {
	prev, next, ok := c.collection.Neighbors(id)
	if !ok {
		return
	}
	targets := []string{next}
	if prev != next {
		targets = append(targets, prev)
	}
	for _, nid := range targets {
		img, _ := c.collection.Get(nid)
		url := img.SourceURL
		c.preloader.Preload(url, func(err error) {
			c.preloadDone(url, err)
		})
	}
}

func (c *Controller) preloadDone(url string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.mounted || err != nil {
		return
	}
	c.preloaded[url] = true
}

// notify runs the side effects that must happen outside c.mu: neighbour
// preloads on every entry into Open, then the observers.
func (c *Controller) notify(t Transition, changed bool) {
	if !changed {
		return
	}
	if t.To != "" {
		c.preloadNeighbors(t.To)
	}

	c.mu.Lock()
	observers := make([]func(Transition), 0, len(c.observers))
	for i := 1; i <= c.observerSeq; i++ {
		if fn, ok := c.observers[i]; ok {
			observers = append(observers, fn)
		}
	}
	c.mu.Unlock()

	c.log.Debug("transition", "from", t.From, "to", t.To, "cause", string(t.Cause))
	for _, fn := range observers {
		fn(t)
	}
}

func (c *Controller) handleKey(k Key) bool {
	switch {
	case key.Matches(k, c.keys.Close):
		return c.Close()
	case key.Matches(k, c.keys.Previous):
		return c.Previous()
	case key.Matches(k, c.keys.Next):
		return c.Next()
	}
	return false
}
