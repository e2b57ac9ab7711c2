package sanitize

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Attribute value patterns for attributes that carry numbers.
var (
	dimensionPattern = regexp.MustCompile(`^[0-9]+%?$`)
	spanPattern      = regexp.MustCompile(`^[0-9]+$`)
)

// contentKeptElements are dropped like any disallowed element, but unlike
// bluemonday's default their fallback content stays. Script and style
// content is still skipped.
var contentKeptElements = []string{"iframe", "object"}

// Compile builds a bluemonday policy from p. The result is safe for
// concurrent Sanitize calls and must not be modified afterwards.
func Compile(p Policy) (*bluemonday.Policy, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	rules, err := p.attrRules()
	if err != nil {
		return nil, err
	}

	bm := bluemonday.NewPolicy()
	bm.AllowElements(p.Elements...)
	bm.AllowElementsContent(contentKeptElements...)

	// Registered elements survive even when every attribute is stripped.
	for _, def := range p.Definitions {
		bm.AllowNoAttrs().OnElements(def.Name)
	}

	if len(p.URLSchemes) > 0 {
		bm.AllowURLSchemes(p.URLSchemes...)
	}
	bm.RequireParseableURLs(true)
	bm.AllowRelativeURLs(true)

	for _, r := range rules {
		allowAttr(bm, p, r)
	}

	// bluemonday appends rel="noopener" to target="_blank" links whenever
	// link hardening is active; noreferrer switches it on without nofollow.
	bm.RequireNoFollowOnLinks(p.NoFollow)
	if p.NoOpener && !p.NoFollow {
		bm.RequireNoReferrerOnLinks(true)
	}

	return bm, nil
}

func allowAttr(bm *bluemonday.Policy, p Policy, r attrRule) {
	if r.attr == "id" && !p.EnableIDs {
		return
	}

	if r.element == globalSelector {
		if r.attr == "style" {
			if len(p.Styles) == 0 {
				return
			}
			bm.AllowStyles(p.Styles...).Globally()
		}
		bm.AllowAttrs(r.attr).Globally()
		return
	}

	if def, ok := p.definition(r.element); ok && def.attrType(r.attr) == AttrTypeBool {
		bm.AllowAttrs(r.attr).Matching(booleanPattern(r.attr)).OnElements(r.element)
		return
	}

	switch r.attr {
	case "target":
		if len(p.FrameTargets) == 0 {
			return
		}
		bm.AllowAttrs(r.attr).Matching(targetPattern(p.FrameTargets)).OnElements(r.element)
	case "style":
		if len(p.Styles) == 0 {
			return
		}
		bm.AllowStyles(p.Styles...).OnElements(r.element)
		bm.AllowAttrs(r.attr).OnElements(r.element)
	case "width", "height":
		bm.AllowAttrs(r.attr).Matching(dimensionPattern).OnElements(r.element)
	case "colspan", "rowspan":
		bm.AllowAttrs(r.attr).Matching(spanPattern).OnElements(r.element)
	default:
		bm.AllowAttrs(r.attr).OnElements(r.element)
	}
}

// booleanPattern accepts the two spellings of a present boolean attribute:
// empty (<details open>) and its own name (<details open="open">).
func booleanPattern(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)^(|` + regexp.QuoteMeta(name) + `)$`)
}

func targetPattern(targets []string) *regexp.Regexp {
	quoted := make([]string, len(targets))
	for i, t := range targets {
		quoted[i] = regexp.QuoteMeta(t)
	}
	return regexp.MustCompile(fmt.Sprintf(`^(?:%s)$`, strings.Join(quoted, "|")))
}
