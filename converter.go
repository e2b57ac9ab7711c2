package markup2html

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"time"

	"github.com/alnah/go-markup2html/internal/fileutil"
	"github.com/alnah/go-markup2html/internal/pipeline"
	"github.com/alnah/go-markup2html/internal/render"
	"github.com/alnah/go-markup2html/internal/sanitize"
)

// Compile-time interface implementation checks.
var (
	_ render.MarkupRenderer = (*render.CommandRenderer)(nil)
	_ render.MarkupRenderer = (*render.GoldmarkRenderer)(nil)
	_ render.MarkupRenderer = render.PlainTextRenderer{}
	_ render.CommandRunner  = (*render.ExecRunner)(nil)
	_ pipeline.CSSInjector  = (*pipeline.CSSInjection)(nil)
)

// Converter orchestrates the markup-to-safe-HTML pipeline.
// Create with NewConverter. A Converter is safe for concurrent use.
type Converter struct {
	dir       string
	cfg       converterConfig
	logger    *slog.Logger
	plain     MarkupRenderer
	renderer  MarkupRenderer
	sanitizer *sanitize.Sanitizer
	baseURL   *url.URL
}

// NewConverter creates a Converter that keeps scratch files and the
// sanitizer definition cache in dir. dir must already exist and be
// writable; otherwise NewConverter fails with ErrConfiguration before any
// conversion is attempted.
func NewConverter(dir string, opts ...Option) (*Converter, error) {
	c := &Converter{
		dir: dir,
		cfg: converterConfig{
			timeout:        DefaultTimeout,
			command:        DefaultCommand,
			engine:         EngineCommand,
			maxInputBytes:  DefaultMaxInputBytes,
			maxOutputBytes: DefaultMaxOutputBytes,
		},
		plain: render.PlainTextRenderer{},
	}

	for _, opt := range opts {
		opt(c)
	}

	c.logger = c.cfg.logger
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	cache, err := sanitize.OpenCache(dir)
	if err != nil {
		return nil, err
	}

	if c.cfg.baseURL != "" {
		if c.baseURL, err = pipeline.ParseBaseURL(c.cfg.baseURL); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
		}
	}

	if c.renderer, err = c.newRenderer(); err != nil {
		return nil, err
	}

	policy := sanitize.DefaultPolicy()
	if c.cfg.policy != nil {
		policy = *c.cfg.policy
	}
	c.sanitizer, err = sanitize.New(policy, cache, c.logger)
	if err != nil {
		if errors.Is(err, ErrConfiguration) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	return c, nil
}

func (c *Converter) newRenderer() (MarkupRenderer, error) {
	if c.cfg.renderer != nil {
		return c.cfg.renderer, nil
	}

	switch c.cfg.engine {
	case EngineCommand, "":
		runner := c.cfg.runner
		if runner == nil {
			runner = &render.ExecRunner{MaxOutputBytes: c.cfg.maxOutputBytes}
		}
		return render.NewCommandRenderer(c.cfg.command, c.cfg.timeout, runner, c.logger), nil
	case EngineGoldmark:
		return render.NewGoldmarkRenderer(), nil
	default:
		return nil, fmt.Errorf("%w: %w: %q (want %s or %s)",
			ErrConfiguration, ErrUnknownEngine, c.cfg.engine, EngineCommand, EngineGoldmark)
	}
}

// Convert converts markup content held in memory. The content is written
// to a scratch file without an extension, so it is rendered as plain text:
// the result is always "<pre>" + escaped content + "</pre>". Use ConvertAs
// to declare a format.
func (c *Converter) Convert(ctx context.Context, content string) (string, error) {
	return c.convertString(ctx, content, "")
}

// ConvertAs converts content as if it were stored in a file with the given
// extension ("md", "rst", "txt", ...).
func (c *Converter) ConvertAs(ctx context.Context, content, format string) (string, error) {
	return c.convertString(ctx, content, format)
}

func (c *Converter) convertString(ctx context.Context, content, format string) (string, error) {
	if int64(len(content)) > c.cfg.maxInputBytes {
		return "", fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(content), c.cfg.maxInputBytes)
	}

	path, cleanup, err := fileutil.WriteScratchFile(c.dir, content, format)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrScratchFile, err)
	}
	defer cleanup()

	return c.ConvertFile(ctx, path)
}

// ConvertFile converts the markup file at path. The format is taken from the
// extension alone: none or .txt (any case) is plain text, everything else
// goes to the markup renderer.
func (c *Converter) ConvertFile(ctx context.Context, path string) (string, error) {
	start := time.Now()
	c.logger.Debug("starting conversion", "file", path)

	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadInput, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", ErrReadInput, path)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%w: %s is not a regular file", ErrReadInput, path)
	}
	if info.Size() > c.cfg.maxInputBytes {
		return "", fmt.Errorf("%w: %s is %d bytes (max %d)", ErrInputTooLarge, path, info.Size(), c.cfg.maxInputBytes)
	}

	r := c.renderer
	if render.IsPlainText(path) {
		r = c.plain
	}

	unsafe, err := r.Render(ctx, path)
	if err != nil {
		return "", err
	}

	if c.baseURL != nil {
		if unsafe, err = pipeline.RebaseURLs(unsafe, c.baseURL); err != nil {
			return "", fmt.Errorf("rebasing URLs: %w", err)
		}
	}

	safe := c.sanitizer.Sanitize(unsafe)
	c.logger.Debug("conversion done", "file", path, "bytes", len(safe), "elapsed", time.Since(start))
	return safe, nil
}

// Sanitize applies the converter's allow-list to arbitrary HTML.
func (c *Converter) Sanitize(unsafe string) string {
	return c.sanitizer.Sanitize(unsafe)
}

// Dir returns the scratch and cache directory.
func (c *Converter) Dir() string {
	return c.dir
}

// Engine returns the configured rendering engine name, or "custom" when
// WithRenderer was used.
func (c *Converter) Engine() string {
	if c.cfg.renderer != nil {
		return "custom"
	}
	return c.cfg.engine
}

// RendererCommand returns the external renderer executable.
func (c *Converter) RendererCommand() string {
	return c.cfg.command
}

// CacheKey identifies the sanitizer definition stored in the cache directory.
func (c *Converter) CacheKey() string {
	return c.sanitizer.Key()
}
