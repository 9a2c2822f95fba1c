// Package config holds run settings and optional selector-profile
// overrides loaded from a YAML file. Flags take precedence over the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"adscan/internal/extractor"

	"gopkg.in/yaml.v3"
)

// DefaultURL is the search page scraped when no URL is given.
const DefaultURL = "https://www.olx.in/items/q-car-cover"

// Configuration validation errors.
var (
	ErrInvalidMaxItems        = errors.New("max_items must be at least 1")
	ErrInvalidTimeout         = errors.New("timeout_sec must be at least 1")
	ErrInvalidScrollPasses    = errors.New("scroll_passes must be non-negative")
	ErrInvalidEngine          = errors.New("engine must be 'browser' or 'static'")
	ErrInvalidLogLevel        = errors.New("log_level must be one of: debug, info, warn, error")
	ErrProfileMissingName     = errors.New("profile name is required")
	ErrProfileNoContainerRule = errors.New("profile needs container selectors or link hints")
)

// Config is the complete run configuration.
type Config struct {
	URL          string          `yaml:"url"`
	Output       string          `yaml:"output"`
	Format       string          `yaml:"format"` // empty: inferred from Output extension
	Engine       string          `yaml:"engine"`
	Profile      string          `yaml:"profile"`
	Headless     bool            `yaml:"headless"`
	MaxItems     int             `yaml:"max_items"`
	TimeoutSec   int             `yaml:"timeout_sec"`
	ScrollPasses int             `yaml:"scroll_passes"`
	Proxy        string          `yaml:"proxy"`
	LogLevel     string          `yaml:"log_level"`
	Profiles     []ProfileConfig `yaml:"profiles"`
}

// ProfileConfig is a selector profile defined in the config file. It is
// registered alongside the built-in profiles, replacing one with the same
// name, so a markup change can be patched without a rebuild.
type ProfileConfig struct {
	Name      string   `yaml:"name"`
	Container []string `yaml:"container"`
	Title     []string `yaml:"title"`
	Price     []string `yaml:"price"`
	Location  []string `yaml:"location"`
	Link      []string `yaml:"link"`
	Thumbnail []string `yaml:"thumbnail"`
	LinkHints []string `yaml:"link_hints"`
}

// ToProfile converts the YAML form to an extractor profile.
func (p ProfileConfig) ToProfile() extractor.Profile {
	return extractor.Profile{
		Name:      p.Name,
		Container: p.Container,
		Title:     p.Title,
		Price:     p.Price,
		Location:  p.Location,
		Link:      p.Link,
		Thumbnail: p.Thumbnail,
		LinkHints: p.LinkHints,
	}
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		URL:          DefaultURL,
		Output:       "results.csv",
		Engine:       "browser",
		Profile:      "olx",
		Headless:     false, // headed by default, like a developer debugging selectors
		MaxItems:     200,
		TimeoutSec:   30,
		ScrollPasses: 10,
		LogLevel:     "info",
	}
}

// Load reads path and overlays it on the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Timeout returns the fetch timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}

// Validate checks the configuration for inconsistencies.
func (c *Config) Validate() error {
	if c.MaxItems < 1 {
		return ErrInvalidMaxItems
	}
	if c.TimeoutSec < 1 {
		return ErrInvalidTimeout
	}
	if c.ScrollPasses < 0 {
		return ErrInvalidScrollPasses
	}
	if c.Engine != "browser" && c.Engine != "static" {
		return fmt.Errorf("%w: got %q", ErrInvalidEngine, c.Engine)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidLogLevel, c.LogLevel)
	}

	for _, p := range c.Profiles {
		if p.Name == "" {
			return ErrProfileMissingName
		}
		if len(p.Container) == 0 && len(p.LinkHints) == 0 {
			return fmt.Errorf("%w: profile %q", ErrProfileNoContainerRule, p.Name)
		}
	}
	return nil
}

// RegisterProfiles adds the file-defined profiles to the extractor
// registry.
func (c *Config) RegisterProfiles() {
	for _, p := range c.Profiles {
		extractor.Register(p.ToProfile())
	}
}
