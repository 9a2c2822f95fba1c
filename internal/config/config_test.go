package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"adscan/internal/extractor"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "adscan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultURL, cfg.URL)
	assert.Equal(t, "results.csv", cfg.Output)
	assert.Equal(t, 30*time.Second, cfg.Timeout())
	assert.False(t, cfg.Headless)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeTempConfig(t, `
url: "https://www.olx.in/items/q-bike-cover"
output: "bikes.json"
headless: true
max_items: 50
log_level: "debug"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://www.olx.in/items/q-bike-cover", cfg.URL)
	assert.Equal(t, "bikes.json", cfg.Output)
	assert.True(t, cfg.Headless)
	assert.Equal(t, 50, cfg.MaxItems)
	// Untouched keys keep their defaults.
	assert.Equal(t, "browser", cfg.Engine)
	assert.Equal(t, 30, cfg.TimeoutSec)
}

func TestLoadCustomProfile(t *testing.T) {
	path := writeTempConfig(t, `
profile: "quikr"
profiles:
  - name: "quikr"
    container:
      - "div.listing-card"
    title:
      - "h3.listing-title"
    price:
      - "span.listing-price"
    link:
      - "a[href]"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Profiles, 1)

	cfg.RegisterProfiles()
	p, ok := extractor.Get("quikr")
	require.True(t, ok)
	assert.Equal(t, extractor.FieldSelectors{"div.listing-card"}, p.Container)
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:    "zero max items",
			mutate:  func(c *Config) { c.MaxItems = 0 },
			wantErr: ErrInvalidMaxItems,
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.TimeoutSec = 0 },
			wantErr: ErrInvalidTimeout,
		},
		{
			name:    "negative scroll passes",
			mutate:  func(c *Config) { c.ScrollPasses = -1 },
			wantErr: ErrInvalidScrollPasses,
		},
		{
			name:    "bad engine",
			mutate:  func(c *Config) { c.Engine = "curl" },
			wantErr: ErrInvalidEngine,
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.LogLevel = "verbose" },
			wantErr: ErrInvalidLogLevel,
		},
		{
			name: "profile without name",
			mutate: func(c *Config) {
				c.Profiles = []ProfileConfig{{Container: []string{"li"}}}
			},
			wantErr: ErrProfileMissingName,
		},
		{
			name: "profile without container rule",
			mutate: func(c *Config) {
				c.Profiles = []ProfileConfig{{Name: "empty"}}
			},
			wantErr: ErrProfileNoContainerRule,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), tt.wantErr)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadMalformedYAML(t *testing.T) {
	path := writeTempConfig(t, "url: [unclosed")
	_, err := Load(path)
	require.Error(t, err)
}
