package gallery

import (
	"time"

	"github.com/hashicorp/go-hclog"

	"evalgo.org/darkroom/models"
)

// Options configures a Page. Nil collaborators get in-memory defaults.
type Options struct {
	// History enables URL sync when non-nil
	History History
	// Param is the focus query parameter (default "focus")
	Param string

	Keyboard         *Keyboard
	KeyMap           *KeyMap
	ScrollLock       ScrollLock
	Preloader        Preloader
	TransitionWindow time.Duration
	Now              func() time.Time
	Logger           hclog.Logger
}

// Page is one mounted gallery: grid, lightbox controller and, when a history
// is supplied, the URL bridge.
type Page struct {
	Controller *Controller
	Grid       *Grid
	Bridge     *Bridge
}

// NewPage wires the gallery components for collection. Call Mount before use.
func NewPage(collection *models.Collection, opts Options) *Page {
	if opts.Preloader == nil {
		opts.Preloader = noopPreloader{}
	}
	ctrl := NewController(collection, ControllerOptions{
		Keyboard:         opts.Keyboard,
		KeyMap:           opts.KeyMap,
		ScrollLock:       opts.ScrollLock,
		Preloader:        opts.Preloader,
		TransitionWindow: opts.TransitionWindow,
		Now:              opts.Now,
		Logger:           opts.Logger,
	})

	p := &Page{
		Controller: ctrl,
		Grid:       NewGrid(ctrl, opts.Preloader),
	}
	if opts.History != nil {
		p.Bridge = NewBridge(ctrl, opts.History, opts.Param)
	}
	return p
}

// Mount starts URL sync, which may open the lightbox from the current URL.
func (p *Page) Mount() {
	if p.Bridge != nil {
		p.Bridge.Mount()
	}
}

// Unmount tears down URL sync and releases everything the controller holds.
func (p *Page) Unmount() {
	if p.Bridge != nil {
		p.Bridge.Unmount()
	}
	p.Controller.Unmount()
}
