package render

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"slices"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// EngineGoldmark and EngineCommand name the available MarkupRenderer engines.
const (
	EngineCommand  = "github-markup"
	EngineGoldmark = "goldmark"
)

// MarkdownExtensions lists the extensions GoldmarkRenderer accepts.
var MarkdownExtensions = []string{"md", "markdown", "mdown", "mkd", "mkdn"}

// GoldmarkRenderer renders Markdown in process. Other formats fail with
// ErrUnsupportedFormat.
type GoldmarkRenderer struct {
	md goldmark.Markdown
}

// NewGoldmarkRenderer creates a GoldmarkRenderer with GFM extensions and syntax highlighting.
func NewGoldmarkRenderer() *GoldmarkRenderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,      // Tables, strikethrough, autolinks, task lists
			extension.Footnote, // [^1] footnotes
			highlighting.NewHighlighting(
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true), // span classes survive the sanitizer, inline styles do not
				),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			// Raw HTML (<details>, <img width>) passes through as with
			// github-markup; the sanitizer decides what survives.
			html.WithUnsafe(),
		),
	)
	return &GoldmarkRenderer{md: md}
}

// Render implements MarkupRenderer. Goldmark has no context support, so the
// conversion runs in a goroutine and Render returns early on cancellation.
func (r *GoldmarkRenderer) Render(ctx context.Context, path string) (string, error) {
	if ext := Extension(path); !slices.Contains(MarkdownExtensions, ext) {
		return "", fmt.Errorf("%w: %q (goldmark renders Markdown only)", ErrUnsupportedFormat, ext)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadInput, err)
	}

	type result struct {
		html string
		err  error
	}
	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := r.md.Convert(source, &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: goldmark: %v", ErrRendererExecution, err)}
			return
		}
		done <- result{html: buf.String()}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-done:
		return res.html, res.err
	}
}
