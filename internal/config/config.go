// Package config loads the YAML configuration file used by the CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-markup2html/internal/fileutil"
	"github.com/alnah/go-markup2html/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// AppName names the per-user config and cache directories.
const AppName = "markup2html"

// Field length limits.
const (
	MaxPathLength    = 4096 // PATH_MAX on Linux
	MaxURLLength     = 2048 // Browser limit
	MaxCommandLength = 4096
	MaxWorkers       = 64
)

// Accepted enumerations.
var (
	engines    = []string{"github-markup", "goldmark"}
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"text", "json"}
)

// Config holds all configuration for the CLI.
type Config struct {
	Renderer RendererConfig `yaml:"renderer"`
	Cache    CacheConfig    `yaml:"cache"`
	Output   OutputConfig   `yaml:"output"`
	Log      LogConfig      `yaml:"log"`
	Workers  int            `yaml:"workers"` // 0 = auto (GOMAXPROCS)
}

// RendererConfig selects and bounds the markup renderer.
type RendererConfig struct {
	Engine         string `yaml:"engine"`         // "github-markup" (default) or "goldmark"
	Command        string `yaml:"command"`        // Empty = github-markup on PATH
	Timeout        string `yaml:"timeout"`        // Go duration, e.g. "3s" (empty = 3s)
	MaxInputBytes  int64  `yaml:"maxInputBytes"`  // 0 = library default
	MaxOutputBytes int    `yaml:"maxOutputBytes"` // 0 = library default
}

// CacheConfig locates the scratch and sanitizer cache directory.
type CacheConfig struct {
	Dir string `yaml:"dir"` // Empty = <user cache dir>/markup2html
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Empty = next to the source file
	BaseURL    string `yaml:"baseUrl"`    // Rebase relative links and images
	Standalone bool   `yaml:"standalone"` // Wrap output in a full HTML page
	CSS        string `yaml:"css"`        // Built-in style name or CSS path for standalone pages
}

// LogConfig defines logging options.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error (default: warn)
	Format string `yaml:"format"` // text or json (default: text)
}

// Validate checks field values and lengths.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	if err := oneOf("renderer.engine", c.Renderer.Engine, engines); err != nil {
		return err
	}
	if err := validateFieldLength("renderer.command", c.Renderer.Command, MaxCommandLength); err != nil {
		return err
	}
	if _, err := c.Renderer.TimeoutDuration(); err != nil {
		return err
	}
	if c.Renderer.MaxInputBytes < 0 {
		return fmt.Errorf("%w: renderer.maxInputBytes: must not be negative, got %d", ErrInvalidValue, c.Renderer.MaxInputBytes)
	}
	if c.Renderer.MaxOutputBytes < 0 {
		return fmt.Errorf("%w: renderer.maxOutputBytes: must not be negative, got %d", ErrInvalidValue, c.Renderer.MaxOutputBytes)
	}

	if err := validateFieldLength("cache.dir", c.Cache.Dir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("output.defaultDir", c.Output.DefaultDir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("output.css", c.Output.CSS, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("output.baseUrl", c.Output.BaseURL, MaxURLLength); err != nil {
		return err
	}

	if err := oneOf("log.level", c.Log.Level, logLevels); err != nil {
		return err
	}
	if err := oneOf("log.format", c.Log.Format, logFormats); err != nil {
		return err
	}

	if c.Workers < 0 || c.Workers > MaxWorkers {
		return fmt.Errorf("%w: workers: must be between 0 and %d, got %d", ErrInvalidValue, MaxWorkers, c.Workers)
	}

	return nil
}

// TimeoutDuration parses Timeout. Empty yields zero (library default).
func (r RendererConfig) TimeoutDuration() (time.Duration, error) {
	if r.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(r.Timeout)
	if err != nil {
		return 0, fmt.Errorf("%w: renderer.timeout: %v", ErrInvalidValue, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: renderer.timeout: must be positive, got %s", ErrInvalidValue, r.Timeout)
	}
	return d, nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// oneOf accepts empty (use the default) or one of allowed, case-insensitively.
func oneOf(fieldName, value string, allowed []string) error {
	if value == "" {
		return nil
	}
	for _, a := range allowed {
		if strings.EqualFold(value, a) {
			return nil
		}
	}
	return fmt.Errorf("%w: %s: %q (must be one of %s)", ErrInvalidValue, fieldName, value, strings.Join(allowed, ", "))
}

// DefaultConfig returns a configuration that leaves every setting to the
// library defaults.
func DefaultConfig() *Config {
	return &Config{
		Renderer: RendererConfig{Engine: "github-markup"},
		Log:      LogConfig{Level: "warn", Format: "text"},
	}
}

// DefaultCacheDir returns <user cache dir>/markup2html.
func DefaultCacheDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("locating user cache directory: %w", err)
	}
	return filepath.Join(base, AppName), nil
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.DecodeStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SearchPaths lists the files LoadConfig tries for a config name, in order.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, AppName, name+ext))
		}
	}
	return paths
}

// resolveConfigPath searches for a config file by name in standard locations:
// the current directory, then ~/.config/markup2html/.
func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}
