package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// SiteConfig contains metadata about the generated site
type SiteConfig struct {
	Title       string `toml:"title"`
	Intro       string `toml:"intro"`        // Markdown file rendered on the index page
	ExternalURL string `toml:"external-url"` // Electronic Dig gateway
	TutorialURL string `toml:"tutorial-url"`
}

// DefaultSiteConfig returns a site config with defaults
func DefaultSiteConfig() SiteConfig {
	return SiteConfig{
		Title:       "Excavating Occaneechi Town",
		Intro:       "",
		ExternalURL: "https://electronicdig.sites.oasis.unc.edu",
		TutorialURL: "https://electronicdig.sites.oasis.unc.edu/views/tutorial1.html",
	}
}

// InputConfig locates the extracted data
type InputConfig struct {
	Dir    string `toml:"dir"`     // JSON documents from the extractor
	DigDir string `toml:"dig-dir"` // optional legacy site root, used to register images
	Videos string `toml:"videos"`  // optional filename -> URL JSON file
}

// DefaultInputConfig returns an input config with defaults
func DefaultInputConfig() InputConfig {
	return InputConfig{
		Dir: "data",
	}
}

// BuildConfig contains build settings
type BuildConfig struct {
	BuildDir       string `toml:"build-dir"`
	Overwrite      bool   `toml:"overwrite"`
	Minify         bool   `toml:"minify"`
	ChapterLinking bool   `toml:"chapter-linking"`
	CheckLinks     bool   `toml:"check-links"`
}

// DefaultBuildConfig returns a build config with defaults
func DefaultBuildConfig() BuildConfig {
	return BuildConfig{
		BuildDir:       "newdig",
		Overwrite:      false,
		Minify:         false,
		ChapterLinking: true,
		CheckLinks:     false,
	}
}

// Config is the top-level configuration
type Config struct {
	Site     SiteConfig      `toml:"site"`
	Input    InputConfig     `toml:"input"`
	Build    BuildConfig     `toml:"build"`
	Chapters []ChapterConfig `toml:"chapter"`
	raw      map[string]interface{} // Raw TOML values
}

// NewDefaultConfig returns a config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Site:  DefaultSiteConfig(),
		Input: DefaultInputConfig(),
		Build: DefaultBuildConfig(),
		raw:   make(map[string]interface{}),
	}
}

// LoadFromFile loads configuration from a digsite.toml file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := LoadFromString(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// LoadFromString loads configuration from a TOML string
func LoadFromString(content string) (*Config, error) {
	cfg := NewDefaultConfig()
	if err := toml.Unmarshal([]byte(content), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := toml.Unmarshal([]byte(content), &cfg.raw); err != nil {
		return nil, fmt.Errorf("failed to parse raw config: %w", err)
	}

	if err := cfg.validateChapters(); err != nil {
		return nil, err
	}

	cfg.UpdateFromEnv()
	return cfg, nil
}

// UpdateFromEnv updates config from environment variables
// Variables starting with DIGSITE_ are used
// DIGSITE_FOO_BAR -> foo-bar
// DIGSITE_FOO__BAR -> foo.bar
func (c *Config) UpdateFromEnv() {
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, "DIGSITE_") {
			continue
		}

		parts := strings.SplitN(env, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimPrefix(parts[0], "DIGSITE_")
		value := parts[1]

		configKey := strings.ToLower(key)
		configKey = strings.ReplaceAll(configKey, "__", ".")
		configKey = strings.ReplaceAll(configKey, "_", "-")

		c.Set(configKey, value)
	}
}

// Set sets a configuration value using dot notation (e.g., "site.title", "build.minify")
func (c *Config) Set(key, value string) {
	parts := strings.Split(key, ".")

	switch parts[0] {
	case "site":
		if len(parts) >= 2 {
			c.setSiteValue(parts[1], value)
		}
	case "input":
		if len(parts) >= 2 {
			c.setInputValue(parts[1], value)
		}
	case "build":
		if len(parts) >= 2 {
			c.setBuildValue(parts[1], value)
		}
	}
	c.setRawValue(parts, value)
}

func (c *Config) setSiteValue(key, value string) {
	switch strings.ToLower(key) {
	case "title":
		c.Site.Title = value
	case "intro":
		c.Site.Intro = value
	case "external-url":
		c.Site.ExternalURL = value
	case "tutorial-url":
		c.Site.TutorialURL = value
	}
}

func (c *Config) setInputValue(key, value string) {
	switch strings.ToLower(key) {
	case "dir":
		c.Input.Dir = value
	case "dig-dir":
		c.Input.DigDir = value
	case "videos":
		c.Input.Videos = value
	}
}

func (c *Config) setBuildValue(key, value string) {
	on := strings.ToLower(value) == "true"
	switch strings.ToLower(key) {
	case "build-dir":
		c.Build.BuildDir = value
	case "overwrite":
		c.Build.Overwrite = on
	case "minify":
		c.Build.Minify = on
	case "chapter-linking":
		c.Build.ChapterLinking = on
	case "check-links":
		c.Build.CheckLinks = on
	}
}

func (c *Config) setRawValue(parts []string, value string) {
	if c.raw == nil {
		c.raw = make(map[string]interface{})
	}
	current := c.raw
	for _, part := range parts[:len(parts)-1] {
		m, ok := current[part].(map[string]interface{})
		if !ok {
			m = make(map[string]interface{})
			current[part] = m
		}
		current = m
	}
	current[parts[len(parts)-1]] = value
}

// Get retrieves a value from the config using dot notation
func (c *Config) Get(key string) (interface{}, bool) {
	current := c.raw
	parts := strings.Split(key, ".")
	for i, part := range parts {
		v, ok := current[part]
		if !ok {
			return nil, false
		}
		if i == len(parts)-1 {
			return v, true
		}
		m, isMap := v.(map[string]interface{})
		if !isMap {
			return nil, false
		}
		current = m
	}
	return current, true
}

// GetString retrieves a string value from config
func (c *Config) GetString(key string, defaultVal string) string {
	val, ok := c.Get(key)
	if !ok {
		return defaultVal
	}
	if s, isStr := val.(string); isStr {
		return s
	}
	return defaultVal
}

// GetBool retrieves a bool value from config. String values set from the
// environment are accepted.
func (c *Config) GetBool(key string, defaultVal bool) bool {
	val, ok := c.Get(key)
	if !ok {
		return defaultVal
	}
	switch b := val.(type) {
	case bool:
		return b
	case string:
		return strings.ToLower(b) == "true"
	}
	return defaultVal
}
