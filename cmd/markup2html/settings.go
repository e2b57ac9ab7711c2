package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	markup2html "github.com/alnah/go-markup2html"
	"github.com/alnah/go-markup2html/internal/config"
	"github.com/alnah/go-markup2html/internal/fileutil"
	"github.com/alnah/go-markup2html/internal/hints"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// loadSettings resolves configuration in priority order: config file, then
// MARKUP2HTML_* variables. Commands merge their flags on top and call
// finishSettings.
func loadSettings(common *commonFlags, env *Environment) (*config.Config, error) {
	envCfg := loadEnvConfig()
	if !common.quiet {
		warnUnknownEnvVars(env.Stderr)
	}

	cfg := config.DefaultConfig()
	name := common.config
	if name == "" {
		name = envCfg.ConfigPath
	}
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			if errors.Is(err, config.ErrConfigNotFound) && !fileutil.IsFilePath(name) {
				return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
			}
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	applyEnvConfig(envCfg, cfg)
	return cfg, nil
}

// finishSettings validates the merged configuration and applies the
// verbosity flags to logging.
func finishSettings(cfg *config.Config, common *commonFlags) error {
	switch {
	case common.verbose:
		cfg.Log.Level = "debug"
	case common.quiet:
		cfg.Log.Level = "error"
	}
	return cfg.Validate()
}

// newLogger builds the slog handler selected by log.level and log.format.
func newLogger(w io.Writer, lc config.LogConfig) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(lc.Level) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelWarn
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(lc.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// resolveCacheDir returns cache.dir or the per-user default, creating it
// when missing.
func resolveCacheDir(cfg *config.Config) (string, error) {
	dir := cfg.Cache.Dir
	if dir == "" {
		var err error
		if dir, err = config.DefaultCacheDir(); err != nil {
			return "", fmt.Errorf("%w: %w", markup2html.ErrConfiguration, err)
		}
	}
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return "", fmt.Errorf("%w: creating cache directory: %w%s", markup2html.ErrConfiguration, err, hints.ForCacheDir(dir))
	}
	if err := fileutil.CheckWritableDir(dir); err != nil {
		return "", fmt.Errorf("%w: cache directory: %w%s", markup2html.ErrConfiguration, err, hints.ForCacheDir(dir))
	}
	return dir, nil
}

// converterOptions translates the configuration into library options.
func converterOptions(cfg *config.Config, logger *slog.Logger) ([]markup2html.Option, error) {
	opts := []markup2html.Option{markup2html.WithLogger(logger)}

	timeout, err := cfg.Renderer.TimeoutDuration()
	if err != nil {
		return nil, err
	}
	if timeout > 0 {
		opts = append(opts, markup2html.WithTimeout(timeout))
	}
	if cfg.Renderer.Engine != "" {
		opts = append(opts, markup2html.WithEngine(strings.ToLower(cfg.Renderer.Engine)))
	}
	if cfg.Renderer.Command != "" {
		opts = append(opts, markup2html.WithRendererCommand(cfg.Renderer.Command))
	}
	if cfg.Renderer.MaxInputBytes > 0 {
		opts = append(opts, markup2html.WithMaxInputBytes(cfg.Renderer.MaxInputBytes))
	}
	if cfg.Renderer.MaxOutputBytes > 0 {
		opts = append(opts, markup2html.WithMaxOutputBytes(cfg.Renderer.MaxOutputBytes))
	}
	if cfg.Output.BaseURL != "" {
		opts = append(opts, markup2html.WithBaseURL(cfg.Output.BaseURL))
	}
	return opts, nil
}

// newConverter creates the library converter for cfg.
func newConverter(cfg *config.Config, logger *slog.Logger) (*markup2html.Converter, error) {
	dir, err := resolveCacheDir(cfg)
	if err != nil {
		return nil, err
	}
	opts, err := converterOptions(cfg, logger)
	if err != nil {
		return nil, err
	}
	conv, err := markup2html.NewConverter(dir, opts...)
	if err != nil {
		return nil, err
	}
	logger.Debug("converter ready",
		"engine", conv.Engine(),
		"renderer", conv.RendererCommand(),
		"cache_dir", dir,
		"policy", conv.CacheKey())
	return conv, nil
}

// hintFor returns an actionable hint for a conversion error, or "".
func hintFor(err error, cfg *config.Config) string {
	switch {
	case errors.Is(err, exec.ErrNotFound):
		return hints.ForRendererNotFound(cfg.Renderer.Command)
	case errors.Is(err, markup2html.ErrRendererTimeout):
		return hints.ForTimeout()
	case errors.Is(err, markup2html.ErrUnsupportedFormat):
		return hints.ForUnsupportedFormat()
	case errors.Is(err, ErrWriteOutput):
		return hints.ForOutputDirectory()
	}
	return ""
}
