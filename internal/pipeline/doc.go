// Package pipeline holds the HTML stages around rendering and sanitization:
//   - rebasing relative image and link URLs against a public base URL
//   - wrapping a sanitized fragment in a standalone HTML page
//
// Rebasing operates on unsafe renderer output and must run before the
// sanitizer; page wrapping operates on sanitized output only.
package pipeline
