package assets

import (
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	chromastyles "github.com/alecthomas/chroma/v2/styles"
)

// HighlightStyle matches the chroma style used when code blocks are rendered
// with classes.
const HighlightStyle = "github"

// HighlightCSS returns the chroma rules for the class names emitted by the
// goldmark engine. Unknown style names fall back to chroma's default.
func HighlightCSS(style string) (string, error) {
	var b strings.Builder
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(&b, chromastyles.Get(style)); err != nil {
		return "", err
	}
	return b.String(), nil
}
