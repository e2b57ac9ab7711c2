package render

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/net/html"
)

// PlainTextRenderer escapes a file's content and wraps it in <pre>.
type PlainTextRenderer struct{}

// Render implements MarkupRenderer.
func (PlainTextRenderer) Render(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadInput, err)
	}
	return Preformatted(string(data)), nil
}

// Preformatted returns text escaped and wrapped in a <pre> element.
func Preformatted(text string) string {
	return "<pre>" + html.EscapeString(text) + "</pre>"
}
