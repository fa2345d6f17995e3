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

// Themes the TUI knows how to render.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

type Config struct {
	// Server is the base URL of the OpenGround server.
	Server string `yaml:"server"`
	// Timeout bounds each API request, e.g. "10s".
	Timeout string `yaml:"timeout"`
	// PageSize is how many stories one page fetch requests. The server
	// clamps to 1..120.
	PageSize int `yaml:"page_size"`
	// MinCoverage filters the blindspots view to stories with at least
	// this many sources. Zero uses the server default.
	MinCoverage int `yaml:"min_coverage,omitempty"`
	// Theme is "dark" or "light"; persisted when toggled in the TUI.
	Theme string `yaml:"theme"`

	// path this config was loaded from, for SaveTheme.
	path string
}

func (c *Config) RequestTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}

// Limit returns the page size clamped to the server's accepted window.
func (c *Config) Limit() int {
	switch {
	case c.PageSize <= 0:
		return 30
	case c.PageSize > 120:
		return 120
	default:
		return c.PageSize
	}
}

func (c *Config) ThemeOrDefault() string {
	if c.Theme == ThemeLight {
		return ThemeLight
	}
	return ThemeDark
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "openground", "config.yaml")
}

func CachePath() string {
	return filepath.Join(xdg.CacheHome, "openground", "stories.db")
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
				defaults.path = path
				return defaults, nil
			}
			defaults.path = path
			return defaults, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.path = path

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// SaveTheme persists the theme preference, leaving the rest of the file
// untouched for hand-edited configs.
func (c *Config) SaveTheme(theme string) error {
	if theme != ThemeDark && theme != ThemeLight {
		return fmt.Errorf("unknown theme %q", theme)
	}
	c.Theme = theme

	path := c.path
	if path == "" {
		path = DefaultConfigPath()
	}

	raw := map[string]any{}
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("parsing config %s: %w", path, err)
		}
	}
	raw["theme"] = theme

	out, err := yaml.Marshal(raw)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, out, 0o644)
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

func validate(cfg *Config) error {
	if cfg.Server == "" {
		return fmt.Errorf("server is required")
	}
	u, err := url.Parse(cfg.Server)
	if err != nil {
		return fmt.Errorf("invalid server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("server url scheme must be http or https, got %q", u.Scheme)
	}
	if cfg.Theme != "" && cfg.Theme != ThemeDark && cfg.Theme != ThemeLight {
		return fmt.Errorf("unknown theme %q (valid: dark, light)", cfg.Theme)
	}
	return nil
}
