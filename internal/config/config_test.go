package config

import (
	"os"
	"strings"
	"testing"
	"time"

	"evalgo.org/darkroom/models"
)

// TestLoadDefaults tests that default configuration values are loaded correctly.
func TestLoadDefaults(t *testing.T) {
	// Load configuration without a config file
	cfg, err := Load("nonexistent.yaml")
	if err != nil {
		t.Fatalf("Failed to load defaults: %v", err)
	}

	// Test Server defaults
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Expected default server host '0.0.0.0', got '%s'", cfg.Server.Host)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Expected default server port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 30*time.Second {
		t.Errorf("Expected default read timeout 30s, got %v", cfg.Server.ReadTimeout)
	}
	if cfg.Server.ShutdownTimeout != 10*time.Second {
		t.Errorf("Expected default shutdown timeout 10s, got %v", cfg.Server.ShutdownTimeout)
	}
	if cfg.Server.StaticDir != "static" {
		t.Errorf("Expected default static dir 'static', got '%s'", cfg.Server.StaticDir)
	}

	// Test ImageKit defaults
	if cfg.ImageKit.APIURL != "https://api.imagekit.io" {
		t.Errorf("Expected default imagekit api url, got '%s'", cfg.ImageKit.APIURL)
	}
	if cfg.ImageKit.ListLimit != 100 {
		t.Errorf("Expected default list limit 100, got %d", cfg.ImageKit.ListLimit)
	}

	// Test Gallery defaults
	if cfg.Gallery.SiteName != "Darkroom" {
		t.Errorf("Expected default site name 'Darkroom', got '%s'", cfg.Gallery.SiteName)
	}
	if cfg.Gallery.FocusParam != "focus" {
		t.Errorf("Expected default focus param 'focus', got '%s'", cfg.Gallery.FocusParam)
	}
	if cfg.Gallery.CacheTTL != 10*time.Minute {
		t.Errorf("Expected default cache ttl 10m, got %v", cfg.Gallery.CacheTTL)
	}
	if cfg.Gallery.TransitionWindow != 500*time.Millisecond {
		t.Errorf("Expected default transition window 500ms, got %v", cfg.Gallery.TransitionWindow)
	}
	if len(cfg.Gallery.Categories) != len(DefaultCategories) {
		t.Fatalf("Expected %d default categories, got %d", len(DefaultCategories), len(cfg.Gallery.Categories))
	}
	if cfg.Gallery.Categories[1] != (models.Category{Slug: "family", Name: "Family"}) {
		t.Errorf("Expected second category to be family, got %+v", cfg.Gallery.Categories[1])
	}

	// Test Site defaults
	if cfg.Site.About.Heading != DefaultAbout.Heading || len(cfg.Site.About.Paragraphs) != len(DefaultAbout.Paragraphs) {
		t.Errorf("Expected default about copy, got %+v", cfg.Site.About)
	}
	if len(cfg.Site.Packages) != len(DefaultPackages) {
		t.Fatalf("Expected %d default packages, got %d", len(DefaultPackages), len(cfg.Site.Packages))
	}
	if cfg.Site.Packages[1].Title != "Family Session" || !cfg.Site.Packages[1].Popular {
		t.Errorf("Expected popular family package, got %+v", cfg.Site.Packages[1])
	}
	if len(cfg.Site.Packages[0].Features) != 4 {
		t.Errorf("Expected 4 portrait features, got %v", cfg.Site.Packages[0].Features)
	}
	if len(cfg.Site.Team) != 0 {
		t.Errorf("Expected no default team, got %+v", cfg.Site.Team)
	}
	if cfg.Site.CoursesFolder != "courses" {
		t.Errorf("Expected default courses folder 'courses', got '%s'", cfg.Site.CoursesFolder)
	}

	// Test Mail and Recaptcha defaults
	if cfg.Mail.From != "onboarding@resend.dev" {
		t.Errorf("Expected default mail from, got '%s'", cfg.Mail.From)
	}
	if cfg.Recaptcha.MinScore != 0.5 {
		t.Errorf("Expected default min score 0.5, got %v", cfg.Recaptcha.MinScore)
	}

	// Test Logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("Expected default logging level 'info', got '%s'", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Expected default logging format 'json', got '%s'", cfg.Logging.Format)
	}

	// Test Security defaults
	if cfg.Security.RateLimit != 100 {
		t.Errorf("Expected default rate limit 100, got %d", cfg.Security.RateLimit)
	}
	if cfg.Security.ContactRateLimit != 5 {
		t.Errorf("Expected default contact rate limit 5, got %d", cfg.Security.ContactRateLimit)
	}
	if len(cfg.Security.AllowedOrigins) != 1 || cfg.Security.AllowedOrigins[0] != "*" {
		t.Errorf("Expected default allowed origins ['*'], got %v", cfg.Security.AllowedOrigins)
	}
}

// TestValidation tests the configuration validation logic.
func TestValidation(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:  ServerConfig{Port: 8080},
			Gallery: GalleryConfig{FocusParam: "focus", Categories: DefaultCategories},
		}
	}

	tests := []struct {
		name      string
		mutate    func(*Config)
		expectErr bool
		errMsg    string
	}{
		{
			name:      "valid configuration",
			mutate:    func(*Config) {},
			expectErr: false,
		},
		{
			name:      "invalid port - too low",
			mutate:    func(c *Config) { c.Server.Port = 0 },
			expectErr: true,
			errMsg:    "invalid server port",
		},
		{
			name:      "invalid port - too high",
			mutate:    func(c *Config) { c.Server.Port = 70000 },
			expectErr: true,
			errMsg:    "invalid server port",
		},
		{
			name:      "missing focus param",
			mutate:    func(c *Config) { c.Gallery.FocusParam = "" },
			expectErr: true,
			errMsg:    "focus_param is required",
		},
		{
			name:      "relative listing url",
			mutate:    func(c *Config) { c.Gallery.ListingURL = "/api/imagekit" },
			expectErr: true,
			errMsg:    "absolute URL",
		},
		{
			name:      "delivery endpoint without host",
			mutate:    func(c *Config) { c.ImageKit.URLEndpoint = "ik.imagekit.io/demo" },
			expectErr: true,
			errMsg:    "url_endpoint",
		},
		{
			name:      "delivery endpoint",
			mutate:    func(c *Config) { c.ImageKit.URLEndpoint = "https://ik.imagekit.io/demo" },
			expectErr: false,
		},
		{
			name: "duplicate category",
			mutate: func(c *Config) {
				c.Gallery.Categories = []models.Category{{Slug: "family"}, {Slug: "family"}}
			},
			expectErr: true,
			errMsg:    "duplicate gallery category",
		},
		{
			name: "package without title",
			mutate: func(c *Config) {
				c.Site.Packages = []models.Package{{Title: "Portrait"}, {Title: " "}}
			},
			expectErr: true,
			errMsg:    "site package 2 has no title",
		},
		{
			name: "team member without name",
			mutate: func(c *Config) {
				c.Site.Team = []models.TeamMember{{Role: "Editor"}}
			},
			expectErr: true,
			errMsg:    "site team member 1 has no name",
		},
		{
			name:      "min score out of range",
			mutate:    func(c *Config) { c.Recaptcha.MinScore = 1.5 },
			expectErr: true,
			errMsg:    "min_score",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := validate(c)
			if tt.expectErr {
				if err == nil {
					t.Errorf("Expected error containing '%s', got nil", tt.errMsg)
				} else if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("Expected error containing '%s', got '%s'", tt.errMsg, err.Error())
				}
			} else {
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
			}
		})
	}
}

// TestListingEndpoint tests how the collection listing URL is derived.
func TestListingEndpoint(t *testing.T) {
	tests := []struct {
		name     string
		config   Config
		expected string
	}{
		{
			name:     "explicit listing url",
			config:   Config{Gallery: GalleryConfig{ListingURL: "https://cdn.example.com/list"}},
			expected: "https://cdn.example.com/list",
		},
		{
			name:     "base url",
			config:   Config{Server: ServerConfig{BaseURL: "https://photos.example.com/"}},
			expected: "https://photos.example.com/api/imagekit",
		},
		{
			name:     "wildcard bind address",
			config:   Config{Server: ServerConfig{Host: "0.0.0.0", Port: 8080}},
			expected: "http://127.0.0.1:8080/api/imagekit",
		},
		{
			name:     "tls",
			config:   Config{Server: ServerConfig{Host: "localhost", Port: 8443, TLSEnabled: true}},
			expected: "https://localhost:8443/api/imagekit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.config.ListingEndpoint(); got != tt.expected {
				t.Errorf("Expected '%s', got '%s'", tt.expected, got)
			}
		})
	}
}

// TestCategoryLookup tests category lookup by slug.
func TestCategoryLookup(t *testing.T) {
	g := GalleryConfig{Categories: DefaultCategories}

	c, ok := g.Category("fineart")
	if !ok || c.Name != "Fine Art" {
		t.Errorf("Expected Fine Art, got %+v (ok=%v)", c, ok)
	}
	if _, ok := g.Category("weddings"); ok {
		t.Error("Expected unknown category lookup to fail")
	}
}

// TestEnvironmentVariableOverride tests that environment variables override config values.
func TestEnvironmentVariableOverride(t *testing.T) {
	t.Setenv("DR_SERVER_PORT", "9999")
	t.Setenv("DR_SERVER_HOST", "127.0.0.1")
	t.Setenv("DR_GALLERY_FOCUS_PARAM", "fileId")

	cfg, err := Load("nonexistent.yaml")
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Server.Port != 9999 {
		t.Errorf("Expected port 9999 from environment, got %d", cfg.Server.Port)
	}
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Expected host '127.0.0.1' from environment, got '%s'", cfg.Server.Host)
	}
	if cfg.Gallery.FocusParam != "fileId" {
		t.Errorf("Expected focus param 'fileId' from environment, got '%s'", cfg.Gallery.FocusParam)
	}
}

// TestLoadFile tests loading an explicit YAML file.
func TestLoadFile(t *testing.T) {
	path := t.TempDir() + "/config.yaml"
	content := `server:
  port: 9090
gallery:
  focus_param: fileId
  categories:
    - slug: weddings
      name: Weddings
site:
  packages:
    - title: Elopement
      price: "From $900"
      features: [Two hours, Online gallery]
  team:
    - name: Ana
      role: Lead Photographer
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Expected port 9090, got %d", cfg.Server.Port)
	}
	if len(cfg.Gallery.Categories) != 1 || cfg.Gallery.Categories[0].Slug != "weddings" {
		t.Errorf("Expected weddings category, got %+v", cfg.Gallery.Categories)
	}
	if len(cfg.Site.Packages) != 1 || cfg.Site.Packages[0].Price != "From $900" || len(cfg.Site.Packages[0].Features) != 2 {
		t.Errorf("Expected the configured package, got %+v", cfg.Site.Packages)
	}
	if len(cfg.Site.Team) != 1 || cfg.Site.Team[0].Role != "Lead Photographer" {
		t.Errorf("Expected the configured team, got %+v", cfg.Site.Team)
	}
	if cfg.Site.About.Heading != DefaultAbout.Heading {
		t.Errorf("Expected default about heading, got '%s'", cfg.Site.About.Heading)
	}
}

// TestGet tests the global config getter.
func TestGet(t *testing.T) {
	_, err := Load("nonexistent.yaml")
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	retrieved := Get()
	if retrieved == nil {
		t.Fatal("Get() returned nil")
	}
	if retrieved.Server.Port != 8080 {
		t.Errorf("Expected port 8080 from Get(), got %d", retrieved.Server.Port)
	}
}
