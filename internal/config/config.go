package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	foundationerrors "git.home.luguber.info/inful/sitepipe/internal/foundation/errors"
)

// Config represents the application configuration.
type Config struct {
	SourceDir string        `yaml:"source_dir"`
	OutputDir string        `yaml:"output_dir"`
	Clean     bool          `yaml:"clean"`
	Site      SiteConfig    `yaml:"site"`
	Logging   LoggingConfig `yaml:"logging"`
	Filters   FiltersConfig `yaml:"filters"`
	Assets    AssetsConfig  `yaml:"assets"`
	Routes    RoutesConfig  `yaml:"routes"`
	Metrics   MetricsConfig `yaml:"metrics"`
}

// SiteConfig holds values used by the fixed page shell.
type SiteConfig struct {
	Title   string `yaml:"title"`
	BaseURL string `yaml:"base_url,omitempty"`
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// FiltersConfig tunes the per-document content filters.
type FiltersConfig struct {
	// CarouselLookback is the number of bytes searched backwards from an
	// image tag for the "carousel" marker.
	CarouselLookback int `yaml:"carousel_lookback"`
}

// AssetsConfig selects which documents get their sibling asset directory copied.
type AssetsConfig struct {
	Layout      string `yaml:"layout"`
	Tag         string `yaml:"tag"`
	Concurrency int    `yaml:"concurrency"`
}

// RoutesConfig configures the synthetic route generators.
type RoutesConfig struct {
	Listing ListingConfig `yaml:"listing"`
}

// ListingConfig configures the aggregate listing page.
type ListingConfig struct {
	Layout string `yaml:"layout"`
	Path   string `yaml:"path"`
	Title  string `yaml:"title"`
}

// MetricsConfig configures optional metrics persistence.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"`
}

// Environment overrides applied after the file is parsed.
const (
	EnvSourceDir = "SITEPIPE_SOURCE_DIR"
	EnvOutputDir = "SITEPIPE_OUTPUT_DIR"
	EnvLogLevel  = "SITEPIPE_LOG_LEVEL"
)

// Load loads configuration from the specified file.
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, foundationerrors.ConfigError("configuration file not found").
				WithContext("path", configPath).
				Build()
		}
		return nil, foundationerrors.WrapError(err, foundationerrors.CategoryConfig, "failed to read config file").
			Fatal().
			WithContext("path", configPath).
			Build()
	}
	return Parse(data)
}

// LoadOptional behaves like Load, except that a missing file yields the
// defaults with environment overrides applied. Clean stays off in that case.
func LoadOptional(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); errors.Is(err, fs.ErrNotExist) {
		loadEnvFiles()
		return Parse(nil)
	}
	return Load(configPath)
}

// Parse decodes YAML configuration, expanding ${VAR} references, then applies
// environment overrides, defaults and validation.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, foundationerrors.WrapError(err, foundationerrors.CategoryConfig, "failed to unmarshal config").
			Fatal().
			Build()
	}
	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)
	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Init creates a new configuration file with example content.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return foundationerrors.ValidationError("configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath).
			Build()
	}

	example := Default()
	example.Site.Title = "My Portfolio"
	example.Site.BaseURL = "https://example.com"

	data, err := yaml.Marshal(&example)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return foundationerrors.WrapError(err, foundationerrors.CategoryFileSystem, "failed to write config file").
			Fatal().
			WithContext("path", configPath).
			Build()
	}
	return nil
}
