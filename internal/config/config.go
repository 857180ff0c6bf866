package config

import (
	"embed"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

type ServerConfig struct {
	URL    string `yaml:"url"`
	WebURL string `yaml:"web_url"`
}

type Config struct {
	Server         ServerConfig `yaml:"server"`
	PageSize       int          `yaml:"page_size,omitempty"`
	SearchDebounce string       `yaml:"search_debounce,omitempty"`
	ScrollThrottle string       `yaml:"scroll_throttle,omitempty"`
}

// GetPageSize returns the feed page size, defaulting to 10.
func (c *Config) GetPageSize() int {
	if c.PageSize <= 0 {
		return 10
	}
	return c.PageSize
}

// SearchDebounceDuration is the quiet period before a search re-queries.
func (c *Config) SearchDebounceDuration() time.Duration {
	d, err := time.ParseDuration(c.SearchDebounce)
	if err != nil || d <= 0 {
		return 500 * time.Millisecond
	}
	return d
}

// ScrollThrottleDuration bounds how often scroll events may trigger a fetch check.
func (c *Config) ScrollThrottleDuration() time.Duration {
	d, err := time.ParseDuration(c.ScrollThrottle)
	if err != nil || d <= 0 {
		return 300 * time.Millisecond
	}
	return d
}

// PostWebURL builds the public web address of a post for opening in a browser.
func (c *Config) PostWebURL(postID string) string {
	base := c.Server.WebURL
	if base == "" {
		base = c.Server.URL
	}
	return base + "/blog/" + postID
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "insighthub", "config.yaml")
}

func BookmarksPath() string {
	return filepath.Join(xdg.DataHome, "insighthub", "bookmarks.db")
}

func SessionPath() string {
	return filepath.Join(xdg.StateHome, "insighthub", "session.json")
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

func Load(path string) (*Config, error) {
	defaults, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Write defaults to config path on first run
			if err := writeDefaults(path); err != nil {
				// Non-fatal: just use embedded defaults
				return defaults, nil
			}
			return defaults, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

func validate(cfg *Config) error {
	if cfg.Server.URL == "" {
		return fmt.Errorf("server url is required")
	}
	u, err := url.Parse(cfg.Server.URL)
	if err != nil {
		return fmt.Errorf("invalid server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("server url scheme must be http or https, got %q", u.Scheme)
	}
	if cfg.Server.WebURL != "" {
		w, err := url.Parse(cfg.Server.WebURL)
		if err != nil {
			return fmt.Errorf("invalid web url: %w", err)
		}
		if w.Scheme != "http" && w.Scheme != "https" {
			return fmt.Errorf("web url scheme must be http or https, got %q", w.Scheme)
		}
	}
	if cfg.PageSize < 0 || cfg.PageSize > 100 {
		return fmt.Errorf("page_size must be between 0 and 100, got %d", cfg.PageSize)
	}
	return nil
}
