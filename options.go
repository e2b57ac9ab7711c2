package markup2html

import (
	"log/slog"
	"time"

	"github.com/alnah/go-markup2html/internal/render"
	"github.com/alnah/go-markup2html/internal/sanitize"
)

// Defaults applied by NewConverter.
const (
	DefaultCommand        = render.DefaultCommand
	DefaultTimeout        = render.DefaultTimeout
	DefaultMaxInputBytes  = 5 << 20
	DefaultMaxOutputBytes = render.DefaultMaxOutputBytes
)

// Rendering engines accepted by WithEngine.
const (
	EngineCommand  = render.EngineCommand
	EngineGoldmark = render.EngineGoldmark
)

// MarkupRenderer converts the markup file at path into unsafe HTML.
// Implementations replace the external renderer via WithRenderer.
type MarkupRenderer = render.MarkupRenderer

// CommandRunner executes the external renderer. See WithCommandRunner.
type CommandRunner = render.CommandRunner

// Policy is the sanitizer allow-list. See DefaultPolicy.
type Policy = sanitize.Policy

// DefaultPolicy returns the allow-list applied unless WithPolicy is used.
func DefaultPolicy() Policy {
	return sanitize.DefaultPolicy()
}

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	timeout        time.Duration
	command        string
	engine         string
	renderer       MarkupRenderer
	runner         CommandRunner
	logger         *slog.Logger
	baseURL        string
	maxInputBytes  int64
	maxOutputBytes int
	policy         *Policy
}

// WithTimeout sets the wall-clock limit for one renderer invocation.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("markup2html: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithRendererCommand sets the external renderer executable.
func WithRendererCommand(command string) Option {
	return func(c *Converter) {
		c.cfg.command = command
	}
}

// WithEngine selects EngineCommand (default) or EngineGoldmark.
// An unknown name makes NewConverter fail with ErrConfiguration.
func WithEngine(name string) Option {
	return func(c *Converter) {
		c.cfg.engine = name
	}
}

// WithRenderer replaces the markup renderer entirely. It takes precedence
// over WithEngine, WithRendererCommand and WithCommandRunner.
func WithRenderer(r MarkupRenderer) Option {
	return func(c *Converter) {
		c.cfg.renderer = r
	}
}

// WithCommandRunner sets how the external renderer process is executed.
func WithCommandRunner(r CommandRunner) Option {
	return func(c *Converter) {
		c.cfg.runner = r
	}
}

// WithLogger sets the logger. Conversions log at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Converter) {
		c.cfg.logger = logger
	}
}

// WithBaseURL rebases relative img[src] and a[href] values against raw, an
// absolute http(s) URL, before sanitization.
func WithBaseURL(raw string) Option {
	return func(c *Converter) {
		c.cfg.baseURL = raw
	}
}

// WithMaxInputBytes caps the size of a converted document.
// Panics if n <= 0.
func WithMaxInputBytes(n int64) Option {
	if n <= 0 {
		panic("markup2html: WithMaxInputBytes limit must be positive")
	}
	return func(c *Converter) {
		c.cfg.maxInputBytes = n
	}
}

// WithMaxOutputBytes caps the renderer output captured from the process.
// Panics if n <= 0.
func WithMaxOutputBytes(n int) Option {
	if n <= 0 {
		panic("markup2html: WithMaxOutputBytes limit must be positive")
	}
	return func(c *Converter) {
		c.cfg.maxOutputBytes = n
	}
}

// WithPolicy replaces the sanitizer allow-list.
func WithPolicy(p Policy) Option {
	return func(c *Converter) {
		c.cfg.policy = &p
	}
}
