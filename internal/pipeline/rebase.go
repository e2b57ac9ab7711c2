package pipeline

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrInvalidBaseURL indicates a base URL that is not an absolute http(s) URL.
var ErrInvalidBaseURL = errors.New("invalid base URL")

// ParseBaseURL parses raw as an absolute http or https URL. A base without a
// trailing slash is treated as a directory, so "https://host/repo" rebases
// "img/a.png" to "https://host/repo/img/a.png".
func ParseBaseURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: %q: scheme must be http or https", ErrInvalidBaseURL, raw)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: %q: missing host", ErrInvalidBaseURL, raw)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

// RebaseURLs resolves relative img[src] and a[href] values in an HTML
// fragment against base. If base is nil, returns the fragment unchanged.
// Only the rewritten tags are re-serialized; every other byte of the
// fragment is copied as is, so unbalanced markup stays unbalanced.
//
// Left untouched:
//   - URLs with a scheme or protocol-relative URLs
//   - same-page anchors (#section)
//   - values that do not parse as URLs (the sanitizer drops them)
func RebaseURLs(fragment string, base *url.URL) (string, error) {
	if base == nil {
		return fragment, nil
	}

	var buf strings.Builder
	buf.Grow(len(fragment))
	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return "", fmt.Errorf("parsing HTML: %w", err)
			}
			// A truncated trailing tag is kept as written.
			buf.Write(z.Raw())
			return buf.String(), nil
		case html.StartTagToken, html.SelfClosingTagToken:
			raw := string(z.Raw())
			tok := z.Token()
			if rebaseToken(&tok, base) {
				buf.WriteString(tok.String())
			} else {
				buf.WriteString(raw)
			}
		default:
			buf.Write(z.Raw())
		}
	}
}

// rebaseToken rewrites the URL attribute of img and a tags, reporting
// whether anything changed.
func rebaseToken(tok *html.Token, base *url.URL) bool {
	var key string
	switch tok.DataAtom {
	case atom.Img:
		key = "src"
	case atom.A:
		key = "href"
	default:
		return false
	}

	changed := false
	for i, attr := range tok.Attr {
		if attr.Namespace != "" || attr.Key != key || !isRelativeURL(attr.Val) {
			continue
		}
		ref, err := url.Parse(strings.TrimSpace(attr.Val))
		if err != nil {
			continue
		}
		tok.Attr[i].Val = base.ResolveReference(ref).String()
		changed = true
	}
	return changed
}

// isRelativeURL reports whether v should be resolved against a base.
func isRelativeURL(v string) bool {
	v = strings.TrimSpace(v)
	if v == "" || strings.HasPrefix(v, "#") || strings.HasPrefix(v, "//") {
		return false
	}
	u, err := url.Parse(v)
	if err != nil {
		return false
	}
	return u.Scheme == ""
}
