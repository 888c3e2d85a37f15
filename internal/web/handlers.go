// Package web renders the portfolio site: home, category galleries with a
// server-rendered lightbox, the about, packages, team and courses pages, and
// the contact page.
package web

import (
	"context"
	"net/http"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/labstack/echo/v4"
	"golang.org/x/sync/singleflight"

	"evalgo.org/darkroom/internal/config"
	"evalgo.org/darkroom/internal/gallery"
	"evalgo.org/darkroom/internal/imagehost"
	"evalgo.org/darkroom/internal/logging"
	"evalgo.org/darkroom/models"
)

const loadErrorMessage = "This gallery could not be loaded. Please try again later."

// defaultFetchTimeout bounds a shared fetch when imagekit.timeout is unset.
const defaultFetchTimeout = 30 * time.Second

// CollectionSource fetches a named collection.
type CollectionSource interface {
	FetchCollection(ctx context.Context, name string) (*models.Collection, error)
}

// Handler handles web UI requests.
type Handler struct {
	config *config.Config
	source CollectionSource
	cache  *expirable.LRU[string, *models.Collection]
	group  singleflight.Group
	keys   gallery.KeyMap
	log    hclog.Logger
}

// NewHandler creates a new web handler. Collections are cached for
// gallery.cache_ttl; a non-positive TTL disables the cache.
func NewHandler(cfg *config.Config, source CollectionSource, log hclog.Logger) *Handler {
	h := &Handler{
		config: cfg,
		source: source,
		keys:   gallery.DefaultKeyMap(),
		log:    logging.OrDiscard(log).Named("web"),
	}
	if cfg.Gallery.CacheTTL > 0 {
		size := cfg.Gallery.CacheSize
		if size <= 0 {
			size = len(cfg.Gallery.Categories) + 1
		}
		h.cache = expirable.NewLRU[string, *models.Collection](size, nil, cfg.Gallery.CacheTTL)
	}
	return h
}

// Collection returns the collection for slug. Concurrent requests for the
// same slug share one fetch; failures are never cached. The shared fetch is
// detached from the caller, so a cancelled request only gives up its own wait.
func (h *Handler) Collection(ctx context.Context, slug string) (*models.Collection, error) {
	if h.cache != nil {
		if coll, ok := h.cache.Get(slug); ok {
			return coll, nil
		}
	}

	ch := h.group.DoChan(slug, func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.fetchTimeout())
		defer cancel()

		coll, err := h.source.FetchCollection(fetchCtx, slug)
		if err != nil {
			return nil, err
		}
		if h.cache != nil {
			h.cache.Add(slug, coll)
		}
		return coll, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*models.Collection), nil
	}
}

func (h *Handler) fetchTimeout() time.Duration {
	if h.config.ImageKit.Timeout > 0 {
		return h.config.ImageKit.Timeout
	}
	return defaultFetchTimeout
}

// CachedCollections returns the number of cached collections.
func (h *Handler) CachedCollections() int {
	if h.cache == nil {
		return 0
	}
	return h.cache.Len()
}

func (h *Handler) meta(c echo.Context, title, active string) pageMeta {
	return pageMeta{
		Site:       h.config.Gallery.SiteName,
		Title:      title,
		Path:       c.Request().URL.Path,
		Nav:        h.nav(),
		Categories: h.config.Gallery.Categories,
		Active:     active,
	}
}

// nav lists the site sections. Courses and team only appear once configured.
func (h *Handler) nav() []navLink {
	links := []navLink{
		{Href: "/portfolio", Label: "Portfolio"},
		{Href: "/about", Label: "About"},
		{Href: "/packages", Label: "Packages"},
	}
	if h.config.Site.CoursesFolder != "" {
		links = append(links, navLink{Href: "/courses", Label: "Courses"})
	}
	if len(h.config.Site.Team) > 0 {
		links = append(links, navLink{Href: "/team", Label: "Team"})
	}
	return append(links, navLink{Href: "/contact", Label: "Contact"})
}

// Home renders the landing page.
func (h *Handler) Home(c echo.Context) error {
	return Render(c, Layout(h.meta(c, "", ""), HomePage(h.config.Gallery.SiteName, h.config.Gallery.Categories)))
}

// Portfolio renders the category index.
func (h *Handler) Portfolio(c echo.Context) error {
	return Render(c, Layout(h.meta(c, "Portfolio", ""), PortfolioIndex(h.config.Gallery.Categories)))
}

// About renders the about page.
func (h *Handler) About(c echo.Context) error {
	return Render(c, Layout(h.meta(c, "About", ""), AboutPage(h.config.Site.About)))
}

// Packages renders the package list.
func (h *Handler) Packages(c echo.Context) error {
	return Render(c, Layout(h.meta(c, "Packages", ""), PackagesPage(h.config.Site.Packages)))
}

// Team renders the team page.
func (h *Handler) Team(c echo.Context) error {
	return Render(c, Layout(h.meta(c, "Team", ""), TeamPage(h.config.Site.Team)))
}

// Courses renders one card per image in the courses folder.
func (h *Handler) Courses(c echo.Context) error {
	folder := h.config.Site.CoursesFolder
	if folder == "" {
		return h.NotFound(c)
	}

	var view coursesView
	coll, err := h.Collection(c.Request().Context(), folder)
	if err != nil {
		h.log.Warn("failed to load courses", "folder", folder, "error", err)
		view.LoadError = loadErrorMessage
	} else {
		for _, img := range coll.Items() {
			view.Courses = append(view.Courses, courseCard{
				Title:    img.Title,
				ImageURL: imagehost.GridURL(img.SourceURL),
				AltText:  img.AltText,
			})
		}
	}
	return Render(c, Layout(h.meta(c, "Courses", ""), CoursesPage(view)))
}

// Contact renders the contact form.
func (h *Handler) Contact(c echo.Context) error {
	return Render(c, Layout(h.meta(c, "Contact", ""), ContactPage(h.config.Recaptcha.SiteKey)))
}

// NotFound renders the 404 page.
func (h *Handler) NotFound(c echo.Context) error {
	return RenderStatus(c, http.StatusNotFound, Layout(h.meta(c, "Not Found", ""), NotFoundPage()))
}

// Category renders a gallery page. The focus query parameter opens the
// lightbox on the matching image; a stale value is dropped from the URL.
func (h *Handler) Category(c echo.Context) error {
	cat, ok := h.config.Gallery.Category(c.Param("category"))
	if !ok {
		return h.NotFound(c)
	}

	view, state := h.galleryView(c, cat)

	meta := h.meta(c, cat.Name, cat.Slug)
	meta.Prefetch = state.prefetch
	meta.ReplaceURL = state.replaceURL
	meta.ScrollLocked = state.scrollLocked
	return Render(c, Layout(meta, GalleryPage(view)))
}

// Lightbox renders only the #lightbox element, for htmx swaps.
func (h *Handler) Lightbox(c echo.Context) error {
	cat, ok := h.config.Gallery.Category(c.Param("category"))
	if !ok {
		return h.NotFound(c)
	}

	view, _ := h.galleryView(c, cat)
	return Render(c, LightboxFragment(view))
}

// renderState is what mounting the gallery produced besides the view.
type renderState struct {
	prefetch     []string
	replaceURL   string
	scrollLocked bool
}

// galleryView mounts a gallery page against the request URL and captures
// the resulting view. The page is unmounted before returning.
func (h *Handler) galleryView(c echo.Context, cat models.Category) (galleryView, renderState) {
	view := galleryView{
		Category: cat,
		Base:     "/portfolio/" + cat.Slug,
		Param:    h.config.Gallery.FocusParam,
		Keys:     h.keys,
	}

	coll, err := h.Collection(c.Request().Context(), cat.Slug)
	if err != nil {
		h.log.Warn("failed to load collection", "category", cat.Slug, "error", err)
		view.LoadError = loadErrorMessage
		coll = models.EmptyCollection(cat.Slug)
	}

	history := newRequestHistory(c.Request().URL)
	hints := &prefetchHints{}
	lock := &gallery.BodyLock{}
	page := gallery.NewPage(coll, h.pageOptions(history, lock, hints))
	page.Mount()
	defer page.Unmount()

	view.Tiles = page.Grid.Tiles()
	view.Lightbox, view.Open = page.Controller.Lightbox()

	state := renderState{
		prefetch:     hints.URLs(),
		scrollLocked: lock.Locked(),
	}
	if u, ok := history.Replaced(); ok {
		state.replaceURL = u
		h.log.Debug("dropping stale focus parameter", "category", cat.Slug, "url", c.Request().URL.String())
	}
	return view, state
}

func (h *Handler) pageOptions(history gallery.History, lock gallery.ScrollLock, preloader gallery.Preloader) gallery.Options {
	return gallery.Options{
		History:          history,
		Param:            h.config.Gallery.FocusParam,
		KeyMap:           &h.keys,
		ScrollLock:       lock,
		Preloader:        preloader,
		TransitionWindow: h.config.Gallery.TransitionWindow,
		Logger:           h.log,
	}
}
