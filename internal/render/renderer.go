package render

import (
	"context"
	"path/filepath"
	"strings"
)

// MarkupRenderer converts the markup file at path into unsafe HTML.
type MarkupRenderer interface {
	Render(ctx context.Context, path string) (string, error)
}

// Extension returns the lowercased extension of path without its dot.
func Extension(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

// IsPlainText reports whether path is rendered as preformatted text:
// no extension at all, or "txt" in any case.
func IsPlainText(path string) bool {
	ext := Extension(path)
	return ext == "" || ext == "txt"
}
