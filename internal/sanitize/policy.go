package sanitize

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// Element kinds and content models for custom element definitions.
const (
	KindBlock  = "Block"
	KindInline = "Inline"

	ContentFlow   = "Flow"
	ContentInline = "Inline"

	AttrCollectionCommon = "Common"

	AttrTypeBool = "Bool"
	AttrTypeText = "Text"
)

// globalSelector marks an attribute that applies to every allowed element.
const globalSelector = "*"

// Policy is the complete allow-list configuration. Treat it as immutable
// once handed to New: the cache key is derived from its serialized form.
type Policy struct {
	Elements     []string            `yaml:"elements"`
	Attributes   []string            `yaml:"attributes"` // "element.attr" or "*.attr"
	EnableIDs    bool                `yaml:"enableIds"`
	FrameTargets []string            `yaml:"frameTargets"`
	NoFollow     bool                `yaml:"noFollow"`
	NoOpener     bool                `yaml:"noOpener"`
	URLSchemes   []string            `yaml:"urlSchemes"`
	Styles       []string            `yaml:"styles"` // CSS properties kept in allowed style attributes
	Definitions  []ElementDefinition `yaml:"definitions"`
}

// ElementDefinition registers an element with its content model, so it is
// treated as a known element rather than stripped.
type ElementDefinition struct {
	Name           string                `yaml:"name"`
	Kind           string                `yaml:"kind"`
	Content        string                `yaml:"content"`
	AttrCollection string                `yaml:"attrCollection"`
	Attributes     []AttributeDefinition `yaml:"attributes,omitempty"`
}

// AttributeDefinition declares an attribute owned by a custom element.
type AttributeDefinition struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// DefaultPolicy returns the policy applied to project documentation.
func DefaultPolicy() Policy {
	return Policy{
		Elements: []string{
			"p", "br", "small", "strong", "b", "em", "i", "strike", "sub", "sup",
			"ins", "del", "ol", "ul", "li", "h1", "h2", "h3", "h4", "h5", "h6",
			"dl", "dd", "dt", "pre", "code", "samp", "kbd", "q", "blockquote",
			"abbr", "cite", "table", "thead", "tbody", "th", "tr", "td", "a",
			"span", "img", "details", "summary",
		},
		Attributes: []string{
			"img.src", "img.title", "img.alt", "img.width", "img.height", "img.style",
			"a.href", "a.target", "a.rel", "a.id",
			"td.colspan", "td.rowspan", "th.colspan", "th.rowspan",
			"*.class", "details.open",
		},
		EnableIDs:    true,
		FrameTargets: []string{"_blank"},
		NoFollow:     true,
		NoOpener:     true,
		URLSchemes:   []string{"http", "https", "mailto", "ftp", "nntp", "news", "tel"},
		Styles: []string{
			"width", "height", "max-width", "float", "vertical-align", "border", "margin",
		},
		Definitions: []ElementDefinition{
			{
				Name:           "details",
				Kind:           KindBlock,
				Content:        ContentFlow,
				AttrCollection: AttrCollectionCommon,
				Attributes:     []AttributeDefinition{{Name: "open", Type: AttrTypeBool}},
			},
			{
				Name:           "summary",
				Kind:           KindInline,
				Content:        ContentInline,
				AttrCollection: AttrCollectionCommon,
			},
		},
	}
}

var namePattern = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

// attrRule is one parsed entry of Policy.Attributes.
type attrRule struct {
	element string // globalSelector for "*.attr"
	attr    string
}

// Validate reports the first structural problem in the policy.
func (p Policy) Validate() error {
	if len(p.Elements) == 0 {
		return fmt.Errorf("%w: no elements allowed", ErrInvalidPolicy)
	}
	for _, el := range p.Elements {
		if !namePattern.MatchString(el) {
			return fmt.Errorf("%w: element name %q", ErrInvalidPolicy, el)
		}
	}

	if _, err := p.attrRules(); err != nil {
		return err
	}

	for _, target := range p.FrameTargets {
		if target == "" || strings.ContainsAny(target, " \t\n\"'") {
			return fmt.Errorf("%w: frame target %q", ErrInvalidPolicy, target)
		}
	}

	for _, scheme := range p.URLSchemes {
		if !namePattern.MatchString(scheme) {
			return fmt.Errorf("%w: url scheme %q", ErrInvalidPolicy, scheme)
		}
	}

	for _, def := range p.Definitions {
		if err := def.validate(); err != nil {
			return err
		}
	}

	return nil
}

func (d ElementDefinition) validate() error {
	if !namePattern.MatchString(d.Name) {
		return fmt.Errorf("%w: definition name %q", ErrInvalidPolicy, d.Name)
	}
	if d.Kind != KindBlock && d.Kind != KindInline {
		return fmt.Errorf("%w: definition %s: kind %q (want %s or %s)", ErrInvalidPolicy, d.Name, d.Kind, KindBlock, KindInline)
	}
	if d.Content != ContentFlow && d.Content != ContentInline {
		return fmt.Errorf("%w: definition %s: content %q (want %s or %s)", ErrInvalidPolicy, d.Name, d.Content, ContentFlow, ContentInline)
	}
	if d.AttrCollection != "" && d.AttrCollection != AttrCollectionCommon {
		return fmt.Errorf("%w: definition %s: attribute collection %q", ErrInvalidPolicy, d.Name, d.AttrCollection)
	}
	for _, a := range d.Attributes {
		if !namePattern.MatchString(a.Name) {
			return fmt.Errorf("%w: definition %s: attribute name %q", ErrInvalidPolicy, d.Name, a.Name)
		}
		if a.Type != AttrTypeBool && a.Type != AttrTypeText {
			return fmt.Errorf("%w: definition %s: attribute %s type %q", ErrInvalidPolicy, d.Name, a.Name, a.Type)
		}
	}
	return nil
}

func (p Policy) attrRules() ([]attrRule, error) {
	rules := make([]attrRule, 0, len(p.Attributes))
	for _, entry := range p.Attributes {
		el, attr, ok := strings.Cut(entry, ".")
		if !ok || attr == "" {
			return nil, fmt.Errorf("%w: attribute %q (want element.attr)", ErrInvalidPolicy, entry)
		}
		if el != globalSelector && !namePattern.MatchString(el) {
			return nil, fmt.Errorf("%w: attribute %q: element name", ErrInvalidPolicy, entry)
		}
		if !namePattern.MatchString(attr) {
			return nil, fmt.Errorf("%w: attribute %q: attribute name", ErrInvalidPolicy, entry)
		}
		rules = append(rules, attrRule{element: el, attr: attr})
	}
	return rules, nil
}

// definition returns the custom definition for name, if any.
func (p Policy) definition(name string) (ElementDefinition, bool) {
	i := slices.IndexFunc(p.Definitions, func(d ElementDefinition) bool { return d.Name == name })
	if i < 0 {
		return ElementDefinition{}, false
	}
	return p.Definitions[i], true
}

// attrType returns the declared type of attr on a custom element, or "" when
// the element has no definition or does not declare the attribute.
func (d ElementDefinition) attrType(attr string) string {
	for _, a := range d.Attributes {
		if a.Name == attr {
			return a.Type
		}
	}
	return ""
}
