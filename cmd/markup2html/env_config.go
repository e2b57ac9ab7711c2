package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alnah/go-markup2html/internal/config"
)

// envPrefix is shared by every recognized environment variable.
const envPrefix = "MARKUP2HTML_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	// Renderer
	ConfigPath string // MARKUP2HTML_CONFIG: config file name or path
	Engine     string // MARKUP2HTML_ENGINE: github-markup or goldmark
	Renderer   string // MARKUP2HTML_RENDERER: renderer executable
	Timeout    string // MARKUP2HTML_TIMEOUT: renderer timeout (validated with the config)

	// I/O
	CacheDir  string // MARKUP2HTML_CACHE_DIR: scratch and sanitizer cache directory
	OutputDir string // MARKUP2HTML_OUTPUT_DIR: default output directory
	BaseURL   string // MARKUP2HTML_BASE_URL: base for relative links and images

	// Runtime
	LogLevel  string // MARKUP2HTML_LOG_LEVEL: debug, info, warn, error
	LogFormat string // MARKUP2HTML_LOG_FORMAT: text or json
	Workers   int    // MARKUP2HTML_WORKERS: parallel workers
}

// knownEnvVars lists valid MARKUP2HTML_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"MARKUP2HTML_CONFIG":     true,
	"MARKUP2HTML_ENGINE":     true,
	"MARKUP2HTML_RENDERER":   true,
	"MARKUP2HTML_TIMEOUT":    true,
	"MARKUP2HTML_CACHE_DIR":  true,
	"MARKUP2HTML_OUTPUT_DIR": true,
	"MARKUP2HTML_BASE_URL":   true,
	"MARKUP2HTML_LOG_LEVEL":  true,
	"MARKUP2HTML_LOG_FORMAT": true,
	"MARKUP2HTML_WORKERS":    true,
	"MARKUP2HTML_CONTAINER":  true,
}

// loadEnvConfig reads configuration from environment variables.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("MARKUP2HTML_CONFIG"),
		Engine:     os.Getenv("MARKUP2HTML_ENGINE"),
		Renderer:   os.Getenv("MARKUP2HTML_RENDERER"),
		Timeout:    os.Getenv("MARKUP2HTML_TIMEOUT"),
		CacheDir:   os.Getenv("MARKUP2HTML_CACHE_DIR"),
		OutputDir:  os.Getenv("MARKUP2HTML_OUTPUT_DIR"),
		BaseURL:    os.Getenv("MARKUP2HTML_BASE_URL"),
		LogLevel:   os.Getenv("MARKUP2HTML_LOG_LEVEL"),
		LogFormat:  os.Getenv("MARKUP2HTML_LOG_FORMAT"),
	}

	// Invalid worker counts are ignored, like an unset variable.
	if workers := os.Getenv("MARKUP2HTML_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized MARKUP2HTML_* variables.
// Helps catch typos like MARKUP2HTML_RENDER instead of MARKUP2HTML_RENDERER.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, envPrefix) {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig overrides config file values with the variables that are
// set. Priority: CLI flags > env vars > config file > defaults
// (CLI flags are applied afterwards by the command).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Engine != "" {
		cfg.Renderer.Engine = env.Engine
	}
	if env.Renderer != "" {
		cfg.Renderer.Command = env.Renderer
	}
	if env.Timeout != "" {
		cfg.Renderer.Timeout = env.Timeout
	}

	if env.CacheDir != "" {
		cfg.Cache.Dir = env.CacheDir
	}
	if env.OutputDir != "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
	if env.BaseURL != "" {
		cfg.Output.BaseURL = env.BaseURL
	}

	if env.LogLevel != "" {
		cfg.Log.Level = env.LogLevel
	}
	if env.LogFormat != "" {
		cfg.Log.Format = env.LogFormat
	}
	if env.Workers > 0 {
		cfg.Workers = env.Workers
	}
}
