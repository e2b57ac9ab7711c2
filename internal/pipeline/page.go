package pipeline

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// pageTemplate wraps a sanitized fragment in a complete HTML5 document.
const pageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
</head>
<body>
<article class="markup">
%s
</article>
</body>
</html>
`

// WrapPage returns fragment as a standalone HTML page titled title.
// The fragment is inserted verbatim and must already be sanitized.
func WrapPage(fragment, title string) string {
	return fmt.Sprintf(pageTemplate, html.EscapeString(title), fragment)
}

// CSSInjector defines the contract for CSS injection into HTML.
type CSSInjector interface {
	InjectCSS(ctx context.Context, htmlContent, cssContent string) string
}

// CSSInjection injects CSS as a <style> block into HTML content.
type CSSInjection struct{}

// InjectCSS inserts a <style> block before </head>, falling back to
// prepending it. CSS content is escaped so it cannot close the block.
func (s *CSSInjection) InjectCSS(ctx context.Context, htmlContent, cssContent string) string {
	if cssContent == "" || ctx.Err() != nil {
		return htmlContent
	}

	styleBlock := "<style>" + sanitizeCSS(cssContent) + "</style>\n"
	if idx := strings.Index(strings.ToLower(htmlContent), "</head>"); idx != -1 {
		return htmlContent[:idx] + styleBlock + htmlContent[idx:]
	}
	return styleBlock + htmlContent
}

// sanitizeCSS escapes "</" so the stylesheet cannot terminate its <style>
// element early.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}
