// Package config provides configuration management for Darkroom.
//
// This package handles loading configuration from multiple sources:
//   - YAML configuration files
//   - Environment variables (with DR_ prefix)
//   - .env files
//   - Default values
//
// # Configuration Sources Priority
//
// Configuration is loaded in the following order (later sources override earlier ones):
//  1. Default values (hardcoded)
//  2. Configuration files (./configs/config.yaml, ~/.darkroom/config.yaml, /etc/darkroom/config.yaml)
//  3. .env files
//  4. Environment variables (DR_ prefix)
//
// # Usage Example
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Server: %s:%d\n", cfg.Server.Host, cfg.Server.Port)
//
// # Environment Variables
//
// Environment variables override all other configuration sources.
// Use DR_ prefix and underscores for nested keys:
//   - DR_SERVER_PORT=8095
//   - DR_IMAGEKIT_PRIVATE_KEY=private_xxx
//   - DR_MAIL_API_KEY=re_xxx
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"evalgo.org/darkroom/models"
)

// Config is the root configuration structure for Darkroom.
type Config struct {
	// Server contains HTTP server configuration
	Server ServerConfig `mapstructure:"server" yaml:"server"`

	// ImageKit contains media host credentials and endpoints
	ImageKit ImageKitConfig `mapstructure:"imagekit" yaml:"imagekit"`

	// Gallery contains portfolio and lightbox settings
	Gallery GalleryConfig `mapstructure:"gallery" yaml:"gallery"`

	// Site contains the copy of the about, packages, team and courses pages
	Site SiteConfig `mapstructure:"site" yaml:"site"`

	// Mail contains the transactional email provider settings
	Mail MailConfig `mapstructure:"mail" yaml:"mail"`

	// Recaptcha contains bot verification settings
	Recaptcha RecaptchaConfig `mapstructure:"recaptcha" yaml:"recaptcha"`

	// Logging contains logging settings
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`

	// Security contains rate limiting and CORS settings
	Security SecurityConfig `mapstructure:"security" yaml:"security"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	// Host is the server bind address (default: 0.0.0.0)
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the server listen port (default: 8080)
	Port int `mapstructure:"port" yaml:"port"`

	// BaseURL is the public URL of the site, used for self-referencing requests
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// ReadTimeout is the maximum duration for reading requests
	ReadTimeout time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`

	// WriteTimeout is the maximum duration for writing responses
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`

	// ShutdownTimeout is the maximum duration for graceful shutdown
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`

	// Debug enables verbose error details in responses
	Debug bool `mapstructure:"debug" yaml:"debug"`

	// StaticDir is the directory served under /static
	StaticDir string `mapstructure:"static_dir" yaml:"static_dir"`

	// TLSEnabled enables HTTPS
	TLSEnabled bool `mapstructure:"tls_enabled" yaml:"tls_enabled"`

	// TLSCert is the path to the TLS certificate file
	TLSCert string `mapstructure:"tls_cert" yaml:"tls_cert"`

	// TLSKey is the path to the TLS private key file
	TLSKey string `mapstructure:"tls_key" yaml:"tls_key"`
}

// ImageKitConfig contains media host settings.
type ImageKitConfig struct {
	// APIURL is the ImageKit management API base URL
	APIURL string `mapstructure:"api_url" yaml:"api_url"`

	// PrivateKey is the ImageKit private key used for basic auth
	PrivateKey string `mapstructure:"private_key" yaml:"private_key"`

	// URLEndpoint is the delivery endpoint, e.g. https://ik.imagekit.io/<id>.
	// When set, listing entries served from any other host are dropped.
	URLEndpoint string `mapstructure:"url_endpoint" yaml:"url_endpoint"`

	// ListLimit is the page size requested from the listing API
	ListLimit int `mapstructure:"list_limit" yaml:"list_limit"`

	// Timeout bounds every request to the media host
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// GalleryConfig contains portfolio and lightbox settings.
type GalleryConfig struct {
	// SiteName is shown in page titles and the header
	SiteName string `mapstructure:"site_name" yaml:"site_name"`

	// ListingURL is the collection listing endpoint. Empty means this server's own proxy.
	ListingURL string `mapstructure:"listing_url" yaml:"listing_url"`

	// FocusParam is the query parameter that carries the open image identifier
	FocusParam string `mapstructure:"focus_param" yaml:"focus_param"`

	// CacheTTL is how long a fetched collection is reused
	CacheTTL time.Duration `mapstructure:"cache_ttl" yaml:"cache_ttl"`

	// CacheSize is the maximum number of cached collections
	CacheSize int `mapstructure:"cache_size" yaml:"cache_size"`

	// TransitionWindow is how long open/close controls ignore repeated activation
	TransitionWindow time.Duration `mapstructure:"transition_window" yaml:"transition_window"`

	// PreloadCacheSize bounds the set of URLs remembered as already preloaded
	PreloadCacheSize int `mapstructure:"preload_cache_size" yaml:"preload_cache_size"`

	// Categories is the ordered list of portfolio sections
	Categories []models.Category `mapstructure:"categories" yaml:"categories"`
}

// SiteConfig contains the content of the informational pages.
type SiteConfig struct {
	// About is the about page copy
	About models.About `mapstructure:"about" yaml:"about"`

	// Packages are listed on the packages page in order
	Packages []models.Package `mapstructure:"packages" yaml:"packages"`

	// Team is listed on the team page in order; empty hides the list
	Team []models.TeamMember `mapstructure:"team" yaml:"team"`

	// CoursesFolder is the media host folder whose images are the course cards
	CoursesFolder string `mapstructure:"courses_folder" yaml:"courses_folder"`
}

// MailConfig contains transactional email settings.
type MailConfig struct {
	// APIURL is the Resend API base URL
	APIURL string `mapstructure:"api_url" yaml:"api_url"`

	// APIKey is the Resend API key
	APIKey string `mapstructure:"api_key" yaml:"api_key"`

	// From is the sender address
	From string `mapstructure:"from" yaml:"from"`

	// To is the inbox that receives contact messages
	To string `mapstructure:"to" yaml:"to"`

	// Timeout bounds every request to the provider
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// RecaptchaConfig contains bot verification settings.
type RecaptchaConfig struct {
	// VerifyURL is the siteverify endpoint
	VerifyURL string `mapstructure:"verify_url" yaml:"verify_url"`

	// SiteKey is embedded in the contact page
	SiteKey string `mapstructure:"site_key" yaml:"site_key"`

	// SecretKey authenticates verification requests
	SecretKey string `mapstructure:"secret_key" yaml:"secret_key"`

	// MinScore is the lowest accepted v3 score
	MinScore float64 `mapstructure:"min_score" yaml:"min_score"`

	// Timeout bounds every verification request
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the log level (trace, debug, info, warn, error)
	Level string `mapstructure:"level" yaml:"level"`

	// Format is the log format (json, text)
	Format string `mapstructure:"format" yaml:"format"`

	// Output is the log output destination (stdout, stderr)
	Output string `mapstructure:"output" yaml:"output"`
}

// SecurityConfig contains security and rate limiting settings.
type SecurityConfig struct {
	// RateLimit is the maximum requests per second per client
	RateLimit int `mapstructure:"rate_limit" yaml:"rate_limit"`

	// ContactRateLimit is the maximum contact submissions per minute per client
	ContactRateLimit int `mapstructure:"contact_rate_limit" yaml:"contact_rate_limit"`

	// AllowedOrigins are the CORS allowed origins
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
}

var cfg *Config

// DefaultCategories mirrors the portfolio sections of the site.
var DefaultCategories = []models.Category{
	{Slug: "newborn", Name: "New Born"},
	{Slug: "family", Name: "Family"},
	{Slug: "cakesmash", Name: "Cakesmash"},
	{Slug: "fineart", Name: "Fine Art"},
	{Slug: "maternity", Name: "Maternity"},
	{Slug: "headshot", Name: "Headshot"},
	{Slug: "graduation", Name: "Graduation"},
	{Slug: "babyAndParents", Name: "Baby and Parents"},
	{Slug: "awards", Name: "Awards"},
	{Slug: "recent", Name: "Recent"},
}

// DefaultAbout is the about page copy used until one is configured.
var DefaultAbout = models.About{
	Heading: "About Me",
	Paragraphs: []string{
		"A passionate portrait photographer capturing life's precious moments with artistry and grace.",
		"Specialising in newborn, maternity and family photography, every session is planned around you so the portraits feel like your story.",
	},
	Quote: "Through my lens, I aim to tell your family's story with warmth, care, and creativity.",
}

// DefaultPackages are the packages offered until others are configured.
var DefaultPackages = []models.Package{
	{
		Title:       "Portrait Session",
		Highlight:   "Personal Branding",
		Description: "Professional portraits that capture your personality and style.",
		Features: []string{
			"Professional studio lighting",
			"20+ expertly edited photos",
			"Private online gallery",
			"Wardrobe consultation included",
		},
	},
	{
		Title:       "Family Session",
		Highlight:   "Create Lasting Memories",
		Description: "Beautifully composed photos that tell your family's story.",
		Features: []string{
			"Extended 90-minute session",
			"30+ edited photos",
			"Online gallery",
			"Full print rights included",
		},
		Popular: true,
	},
	{
		Title:       "Event Coverage",
		Highlight:   "Full-Day Experience",
		Description: "Every moment, emotion and detail of your celebration.",
		Features: []string{
			"Complete event coverage",
			"Online gallery",
			"Full usage rights",
		},
	},
}

// Load reads configuration from a file and environment variables.
// If cfgFile is empty, it searches for config.yaml in standard locations.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (DR_ prefix)
//  2. .env file
//  3. Configuration file
//  4. Default values
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.darkroom")
		v.AddConfigPath("/etc/darkroom")
	}

	if err := v.ReadInConfig(); err != nil {
		if cfgFile != "" {
			// A missing explicit file falls back to defaults
			if !isFileNotFoundError(err) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		} else {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.MergeInConfig() // Ignore error if .env file doesn't exist

	v.SetEnvPrefix("DR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg = &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.debug", false)
	v.SetDefault("server.static_dir", "static")
	v.SetDefault("server.tls_enabled", false)

	v.SetDefault("imagekit.api_url", "https://api.imagekit.io")
	v.SetDefault("imagekit.list_limit", 100)
	v.SetDefault("imagekit.timeout", "15s")

	v.SetDefault("gallery.site_name", "Darkroom")
	v.SetDefault("gallery.listing_url", "")
	v.SetDefault("gallery.focus_param", "focus")
	v.SetDefault("gallery.cache_ttl", "10m")
	v.SetDefault("gallery.cache_size", 32)
	v.SetDefault("gallery.transition_window", "500ms")
	v.SetDefault("gallery.preload_cache_size", 512)
	v.SetDefault("gallery.categories", categoryDefaults())

	v.SetDefault("site.about", map[string]interface{}{
		"heading":    DefaultAbout.Heading,
		"paragraphs": DefaultAbout.Paragraphs,
		"quote":      DefaultAbout.Quote,
	})
	v.SetDefault("site.packages", packageDefaults())
	v.SetDefault("site.courses_folder", "courses")

	v.SetDefault("mail.api_url", "https://api.resend.com")
	v.SetDefault("mail.from", "onboarding@resend.dev")
	v.SetDefault("mail.timeout", "10s")

	v.SetDefault("recaptcha.verify_url", "https://www.google.com/recaptcha/api/siteverify")
	v.SetDefault("recaptcha.min_score", 0.5)
	v.SetDefault("recaptcha.timeout", "10s")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")

	v.SetDefault("security.rate_limit", 100)
	v.SetDefault("security.contact_rate_limit", 5)
	v.SetDefault("security.allowed_origins", []string{"*"})
}

// categoryDefaults converts DefaultCategories into the map form viper can decode.
func categoryDefaults() []map[string]string {
	out := make([]map[string]string, 0, len(DefaultCategories))
	for _, c := range DefaultCategories {
		out = append(out, map[string]string{"slug": c.Slug, "name": c.Name})
	}
	return out
}

func packageDefaults() []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(DefaultPackages))
	for _, p := range DefaultPackages {
		out = append(out, map[string]interface{}{
			"title":       p.Title,
			"highlight":   p.Highlight,
			"description": p.Description,
			"price":       p.Price,
			"features":    p.Features,
			"popular":     p.Popular,
		})
	}
	return out
}

func validate(cfg *Config) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", cfg.Server.Port)
	}

	if cfg.Gallery.FocusParam == "" {
		return fmt.Errorf("gallery focus_param is required")
	}

	if cfg.Gallery.ListingURL != "" {
		if u, err := url.Parse(cfg.Gallery.ListingURL); err != nil || !u.IsAbs() {
			return fmt.Errorf("gallery listing_url must be an absolute URL: %q", cfg.Gallery.ListingURL)
		}
	}

	if cfg.ImageKit.URLEndpoint != "" {
		if u, err := url.Parse(cfg.ImageKit.URLEndpoint); err != nil || !u.IsAbs() || u.Host == "" {
			return fmt.Errorf("imagekit url_endpoint must be an absolute URL: %q", cfg.ImageKit.URLEndpoint)
		}
	}

	seen := make(map[string]bool, len(cfg.Gallery.Categories))
	for _, c := range cfg.Gallery.Categories {
		if c.Slug == "" {
			return fmt.Errorf("gallery category %q has no slug", c.Name)
		}
		if seen[c.Slug] {
			return fmt.Errorf("duplicate gallery category: %s", c.Slug)
		}
		seen[c.Slug] = true
	}

	for i, p := range cfg.Site.Packages {
		if strings.TrimSpace(p.Title) == "" {
			return fmt.Errorf("site package %d has no title", i+1)
		}
	}
	for i, m := range cfg.Site.Team {
		if strings.TrimSpace(m.Name) == "" {
			return fmt.Errorf("site team member %d has no name", i+1)
		}
	}

	if cfg.Recaptcha.MinScore < 0 || cfg.Recaptcha.MinScore > 1 {
		return fmt.Errorf("recaptcha min_score must be between 0 and 1, got %v", cfg.Recaptcha.MinScore)
	}

	return nil
}

// Get returns the most recently loaded configuration.
func Get() *Config {
	return cfg
}

// ListingEndpoint returns the collection listing URL, defaulting to this
// server's own /api/imagekit proxy.
func (c *Config) ListingEndpoint() string {
	if c.Gallery.ListingURL != "" {
		return c.Gallery.ListingURL
	}
	base := strings.TrimRight(c.Server.BaseURL, "/")
	if base == "" {
		host := c.Server.Host
		if host == "" || host == "0.0.0.0" {
			host = "127.0.0.1"
		}
		scheme := "http"
		if c.Server.TLSEnabled {
			scheme = "https"
		}
		base = fmt.Sprintf("%s://%s:%d", scheme, host, c.Server.Port)
	}
	return base + "/api/imagekit"
}

// Category looks up a configured portfolio section by slug.
func (g *GalleryConfig) Category(slug string) (models.Category, bool) {
	for _, c := range g.Categories {
		if c.Slug == slug {
			return c, true
		}
	}
	return models.Category{}, false
}

// isFileNotFoundError checks if an error is a file not found error.
func isFileNotFoundError(err error) bool {
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return errors.Is(pathErr, os.ErrNotExist)
	}
	return false
}
