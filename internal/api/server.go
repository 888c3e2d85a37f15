// Package api provides the HTTP server for Darkroom.
// It uses the Echo framework to serve the portfolio pages, the media listing
// proxy, the normalized gallery JSON and the contact mail relay.
package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"evalgo.org/darkroom/internal/config"
	"evalgo.org/darkroom/internal/contact"
	"evalgo.org/darkroom/internal/imagehost"
	"evalgo.org/darkroom/internal/logging"
	"evalgo.org/darkroom/internal/version"
	"evalgo.org/darkroom/internal/web"
)

// FileLister lists the images in a media host folder.
type FileLister interface {
	ListFiles(ctx context.Context, folder string, opts imagehost.ListOptions) ([]imagehost.File, error)
}

// ContactSubmitter relays contact form submissions.
type ContactSubmitter interface {
	Submit(ctx context.Context, req contact.Request, remoteIP string) (string, error)
}

// Dependencies are the collaborators of the server. Nil fields are built
// from the configuration.
type Dependencies struct {
	Files   FileLister
	Source  web.CollectionSource
	Contact ContactSubmitter
	Logger  hclog.Logger
}

// Server represents the Darkroom HTTP server.
type Server struct {
	echo    *echo.Echo
	config  *config.Config
	files   FileLister
	web     *web.Handler
	contact ContactSubmitter
	log     hclog.Logger
	started time.Time
}

// New creates a new server instance.
func New(cfg *config.Config, deps Dependencies) *Server {
	log := logging.OrDiscard(deps.Logger)

	if deps.Files == nil {
		deps.Files = imagehost.NewImageKit(cfg.ImageKit, log)
	}
	if deps.Source == nil {
		deps.Source = imagehost.NewSource(cfg.ListingEndpoint(),
			imagehost.WithDeliveryEndpoint(cfg.ImageKit.URLEndpoint),
			imagehost.WithLogger(log))
	}
	if deps.Contact == nil {
		deps.Contact = contact.NewService(
			contact.NewVerifier(cfg.Recaptcha, log),
			contact.NewMailer(cfg.Mail, log),
			log,
		)
	}

	e := echo.New()

	// Configure Echo
	e.HideBanner = true
	e.HidePort = true
	e.Debug = cfg.Server.Debug

	server := &Server{
		echo:    e,
		config:  cfg,
		files:   deps.Files,
		web:     web.NewHandler(cfg, deps.Source, log),
		contact: deps.Contact,
		log:     log.Named("api"),
		started: time.Now(),
	}

	// Set custom error handler
	e.HTTPErrorHandler = server.handleError

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// ServeHTTP lets the server be mounted in tests and other handlers.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// setupMiddleware configures Echo middleware.
func (s *Server) setupMiddleware() {
	s.echo.Use(RequestLogger(s.log))

	s.echo.Use(middleware.Recover())

	s.echo.Use(SecurityHeaders)

	if len(s.config.Security.AllowedOrigins) > 0 {
		s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: s.config.Security.AllowedOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodPost},
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		}))
	}

	s.echo.Use(middleware.RequestID())

	if s.config.Security.RateLimit > 0 {
		s.echo.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(
			rate.Limit(s.config.Security.RateLimit),
		)))
	}
}

// setupRoutes configures the site and API routes.
func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)

	// Site
	s.echo.GET("/", s.web.Home)
	s.echo.GET("/portfolio", s.web.Portfolio)
	s.echo.GET("/portfolio/:category", s.web.Category)
	s.echo.GET("/portfolio/:category/lightbox", s.web.Lightbox)
	s.echo.GET("/about", s.web.About)
	s.echo.GET("/packages", s.web.Packages)
	s.echo.GET("/team", s.web.Team)
	s.echo.GET("/courses", s.web.Courses)
	s.echo.GET("/contact", s.web.Contact)
	s.echo.Static("/static", s.config.Server.StaticDir)

	// JSON API
	jsonAPI := s.echo.Group("/api")
	jsonAPI.Use(ValidateAcceptHeader)
	jsonAPI.Use(ValidateContentType)

	jsonAPI.GET("/imagekit", s.listImages, ValidateQueryParams)
	jsonAPI.GET("/gallery/:category", s.getGallery, ValidateCategoryParam)

	contactLimit := s.config.Security.ContactRateLimit
	if contactLimit > 0 {
		jsonAPI.POST("/contact", s.submitContact, middleware.RateLimiter(
			middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(float64(contactLimit) / 60),
				Burst:     contactLimit,
				ExpiresIn: time.Minute,
			}),
		))
	} else {
		jsonAPI.POST("/contact", s.submitContact)
	}
}

// handleError renders the 404 page for site routes and JSON errors everywhere else.
func (s *Server) handleError(err error, c echo.Context) {
	if he, ok := err.(*echo.HTTPError); ok && he.Code == http.StatusNotFound &&
		!strings.HasPrefix(c.Request().URL.Path, "/api/") && !c.Response().Committed {
		if rerr := s.web.NotFound(c); rerr != nil {
			s.log.Error("failed to render not found page", "error", rerr)
		}
		return
	}
	writeError(c, err, s.log)
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)

	s.log.Info("starting darkroom server",
		"address", addr,
		"listing_endpoint", s.config.ListingEndpoint(),
		"categories", len(s.config.Gallery.Categories),
		"debug", s.config.Server.Debug,
	)

	// Configure server timeouts
	s.echo.Server.ReadTimeout = s.config.Server.ReadTimeout
	s.echo.Server.WriteTimeout = s.config.Server.WriteTimeout

	if s.config.Server.TLSEnabled {
		return s.echo.StartTLS(addr, s.config.Server.TLSCert, s.config.Server.TLSKey)
	}

	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down darkroom server")

	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}

	s.log.Info("server shutdown complete")
	return nil
}

// healthCheck handles health check requests.
func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:      "healthy",
		Service:     "darkroom",
		Version:     version.Version,
		Uptime:      time.Since(s.started).Round(time.Second).String(),
		Collections: s.web.CachedCollections(),
	})
}
