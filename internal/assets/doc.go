// Package assets provides the stylesheets embedded in standalone HTML pages.
//
// A style reference is either the name of a built-in style (see Names) or a
// path to a CSS file on disk. References containing a path separator or
// ending in ".css" are treated as paths; anything else must be a built-in
// name.
//
// # Security
//
// Style names are validated to prevent path traversal into the embedded
// filesystem. Stylesheets are inserted into a <style> element, so callers
// must still escape them (see pipeline.CSSInjection).
package assets
